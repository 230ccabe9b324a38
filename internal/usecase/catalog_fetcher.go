package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"
)

// CatalogFetcher reads the complete active catalog page by page
type CatalogFetcher struct {
	reader domain.CatalogReader
	pacing PacingPolicy
	sleep  SleepFunc
}

// NewCatalogFetcher creates a fetcher that pauses pacing.PageDelay between pages
func NewCatalogFetcher(reader domain.CatalogReader, pacing PacingPolicy, sleep SleepFunc) *CatalogFetcher {
	if sleep == nil {
		sleep = sleepContext
	}
	return &CatalogFetcher{
		reader: reader,
		pacing: pacing,
		sleep:  sleep,
	}
}

// FetchAll follows the pagination cursor until it runs out.
// A failed page fails the whole fetch; a partial catalog is never returned.
func (f *CatalogFetcher) FetchAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	cursor := ""

	for page := 1; ; page++ {
		result, err := f.reader.ListActiveProducts(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", domain.ErrCatalogFetch, page, err)
		}

		log.Printf("[Stock] Page %d: %d products", page, len(result.Products))
		products = append(products, result.Products...)

		if result.NextCursor == "" {
			break
		}
		if result.NextCursor == cursor {
			return nil, fmt.Errorf("%w: page %d repeats the previous cursor", domain.ErrCatalogFetch, page)
		}
		cursor = result.NextCursor

		if err := f.sleep(ctx, f.pacing.PageDelay); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCatalogFetch, err)
		}
	}

	return products, nil
}
