package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"
	"github.com/google/uuid"
)

// ActivationClient is the subset of the Shopify client bulk activation needs
type ActivationClient interface {
	domain.ProductTitleReader
	domain.ProductStatusWriter
}

// ActivationServiceConfig holds configuration for the activation service
type ActivationServiceConfig struct {
	TitleTTL time.Duration
	Pacing   PacingPolicy
	Sleep    SleepFunc
}

// ActivationService sets a list of products back to active
type ActivationService struct {
	client   ActivationClient
	cache    domain.CacheRepository
	titleTTL time.Duration
	pacing   PacingPolicy
	sleep    SleepFunc
}

// NewActivationService creates a new activation service. cache may be nil.
func NewActivationService(client ActivationClient, cache domain.CacheRepository, config ActivationServiceConfig) *ActivationService {
	titleTTL := config.TitleTTL
	if titleTTL == 0 {
		titleTTL = 24 * time.Hour
	}
	sleep := config.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	return &ActivationService{
		client:   client,
		cache:    cache,
		titleTTL: titleTTL,
		pacing:   config.Pacing,
		sleep:    sleep,
	}
}

// Activate sets every product in productIDs to active, in the given order.
// Title lookups that fail fall back to a placeholder; write failures are recorded per product.
func (s *ActivationService) Activate(ctx context.Context, productIDs []int64, dryRun bool) (*domain.ActivationResult, error) {
	ids := uniqueIDs(productIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no product IDs to activate", domain.ErrInvalidRequest)
	}

	result := &domain.ActivationResult{
		RunID:         uuid.NewString(),
		DryRun:        dryRun,
		UpdateResults: make([]domain.UpdateResult, 0, len(ids)),
		Summary:       domain.ActivationSummary{Requested: len(ids)},
	}

	for index, id := range ids {
		if index > 0 {
			if err := s.sleep(ctx, s.pacing.UpdateDelay); err != nil {
				return nil, err
			}
		}

		title := s.lookupTitle(ctx, id)
		log.Printf("[Activate] (%d/%d) %q (ID: %d)", index+1, len(ids), title, id)

		if dryRun {
			result.UpdateResults = append(result.UpdateResults, domain.UpdateResult{ProductID: id, Title: title, Success: true})
			continue
		}

		if err := s.client.UpdateProductStatus(ctx, id, domain.StatusActive); err != nil {
			log.Printf("[Activate] Failed to activate %d: %v", id, err)
			result.Summary.Failed++
			result.UpdateResults = append(result.UpdateResults, domain.UpdateResult{ProductID: id, Title: title, Error: err.Error()})
			continue
		}

		result.Summary.Activated++
		result.UpdateResults = append(result.UpdateResults, domain.UpdateResult{ProductID: id, Title: title, Success: true})
	}

	return result, nil
}

// lookupTitle never fails: unknown products get a placeholder carrying their ID
func (s *ActivationService) lookupTitle(ctx context.Context, productID int64) string {
	key := titleCacheKey(productID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			if title, ok := cached.(string); ok && title != "" {
				return title
			}
		}
	}

	title, err := s.client.GetProductTitle(ctx, productID)
	if err != nil || title == "" {
		log.Printf("[Activate] Title lookup for %d failed: %v", productID, err)
		return placeholderTitle(productID)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, title, s.titleTTL); err != nil {
			log.Printf("[Activate] Could not cache title of %d: %v", productID, err)
		}
	}

	return title
}

func titleCacheKey(productID int64) string {
	return fmt.Sprintf("title:%d", productID)
}

func placeholderTitle(productID int64) string {
	return fmt.Sprintf("Unknown product (ID: %d)", productID)
}
