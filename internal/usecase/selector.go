package usecase

import (
	"context"
	"log"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"
)

// Selector picks the draft candidates out of a reconciled catalog
type Selector struct {
	excluded map[int64]bool
}

// NewSelector creates a selector that marks the given product IDs as excluded
func NewSelector(excludedProductIDs []int64) *Selector {
	excluded := make(map[int64]bool, len(excludedProductIDs))
	for _, id := range excludedProductIDs {
		excluded[id] = true
	}
	return &Selector{excluded: excluded}
}

// IsExcluded reports whether the product is on the denylist
func (s *Selector) IsExcluded(productID int64) bool {
	return s.excluded[productID]
}

// SelectCandidates returns every product whose resolved stock is zero or negative, in input order.
// Excluded products are kept and flagged, never dropped.
func (s *Selector) SelectCandidates(products []domain.ReconciledProduct) []domain.ProductNoStock {
	candidates := []domain.ProductNoStock{}

	for _, product := range products {
		if product.TotalStock > 0 {
			continue
		}
		candidates = append(candidates, domain.ProductNoStock{
			ID:           product.ID,
			Title:        product.Title,
			Status:       product.Status,
			TotalStock:   product.TotalStock,
			StockSources: product.StockSources,
			IsExcluded:   s.IsExcluded(product.ID),
		})
	}

	return candidates
}

// Updater moves candidates to draft one request at a time
type Updater struct {
	writer domain.ProductStatusWriter
	pacing PacingPolicy
	sleep  SleepFunc
}

// NewUpdater creates an updater that pauses pacing.UpdateDelay between candidates
func NewUpdater(writer domain.ProductStatusWriter, pacing PacingPolicy, sleep SleepFunc) *Updater {
	if sleep == nil {
		sleep = sleepContext
	}
	return &Updater{
		writer: writer,
		pacing: pacing,
		sleep:  sleep,
	}
}

// DraftProducts sets every non-excluded candidate to draft.
// A failed write is recorded and the loop moves on to the next candidate.
func (u *Updater) DraftProducts(ctx context.Context, candidates []domain.ProductNoStock) []domain.UpdateResult {
	results := make([]domain.UpdateResult, 0, len(candidates))

	for index, product := range candidates {
		log.Printf("[Stock] (%d/%d) Updating: %q (ID: %d)", index+1, len(candidates), product.Title, product.ID)

		if product.IsExcluded {
			log.Printf("[Stock] EXCLUDED - skipping update of %d", product.ID)
			results = append(results, domain.UpdateResult{
				ProductID: product.ID,
				Title:     product.Title,
				Success:   true,
				Error:     domain.ExcludedMarker,
			})
			continue
		}

		if err := u.writer.UpdateProductStatus(ctx, product.ID, domain.StatusDraft); err != nil {
			log.Printf("[Stock] Failed to update %d: %v", product.ID, err)
			results = append(results, domain.UpdateResult{
				ProductID: product.ID,
				Title:     product.Title,
				Success:   false,
				Error:     err.Error(),
			})
		} else {
			results = append(results, domain.UpdateResult{
				ProductID: product.ID,
				Title:     product.Title,
				Success:   true,
			})
		}

		if index < len(candidates)-1 {
			if err := u.sleep(ctx, u.pacing.UpdateDelay); err != nil {
				log.Printf("[Stock] Update loop interrupted: %v", err)
				return append(results, abandoned(candidates[index+1:], err)...)
			}
		}
	}

	return results
}

// abandoned records the candidates left unprocessed after the context ended
func abandoned(rest []domain.ProductNoStock, cause error) []domain.UpdateResult {
	results := make([]domain.UpdateResult, 0, len(rest))
	for _, product := range rest {
		result := domain.UpdateResult{ProductID: product.ID, Title: product.Title}
		if product.IsExcluded {
			result.Success = true
			result.Error = domain.ExcludedMarker
		} else {
			result.Error = "not attempted: " + cause.Error()
		}
		results = append(results, result)
	}
	return results
}

// GenerateSummary derives the run counters.
// Excluded results count neither as successful nor as failed.
func GenerateSummary(candidates []domain.ProductNoStock, reconciled []domain.ReconciledProduct, results []domain.UpdateResult) domain.UpdateSummary {
	summary := domain.UpdateSummary{TotalFound: len(candidates)}

	for _, product := range candidates {
		if product.IsExcluded {
			summary.ExcludedCount++
		}
	}
	summary.EligibleCount = summary.TotalFound - summary.ExcludedCount

	for _, result := range results {
		switch {
		case !result.Success:
			summary.FailedUpdates++
		case result.Error == "":
			summary.SuccessfulUpdates++
		}
	}

	for _, product := range reconciled {
		switch product.StockSources.AgreementStatus {
		case domain.AgreementDiscrepancy:
			summary.DiscrepancyCount++
		case domain.AgreementPartialMatch:
			summary.PartialMatchCount++
		}
	}

	return summary
}

// disagreements returns the reconciled products whose sources do not match, in input order
func disagreements(products []domain.ReconciledProduct) []domain.ReconciledProduct {
	out := []domain.ReconciledProduct{}
	for _, product := range products {
		if product.StockSources.AgreementStatus != domain.AgreementMatch {
			out = append(out, product)
		}
	}
	return out
}
