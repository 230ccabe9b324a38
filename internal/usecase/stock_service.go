package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"
	"github.com/google/uuid"
)

// StockServiceConfig holds configuration for the stock service
type StockServiceConfig struct {
	ExcludedProductIDs []int64
	Pacing             PacingPolicy
	Sleep              SleepFunc // nil sleeps for real
}

// StockClient is the subset of the Shopify client the reconciliation pipeline needs
type StockClient interface {
	domain.CatalogReader
	domain.InventoryLevelReader
	domain.ProductStatusWriter
}

// StockService runs the reconciliation pipeline:
// fetch catalog -> fetch inventory levels -> reconcile -> select candidates -> (update) -> report
type StockService struct {
	catalog   *CatalogFetcher
	inventory *InventoryLevelFetcher
	selector  *Selector
	updater   *Updater
	observer  domain.RunObserver
	now       func() time.Time

	// running serializes runs so no two pipelines hit the API at the same time
	running sync.Mutex
}

// NewStockService creates a new stock service with dependencies
func NewStockService(client StockClient, config StockServiceConfig) *StockService {
	pacing := config.Pacing.withDefaults()
	sleep := config.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	return &StockService{
		catalog:   NewCatalogFetcher(client, pacing, sleep),
		inventory: NewInventoryLevelFetcher(client, pacing, sleep),
		selector:  NewSelector(config.ExcludedProductIDs),
		updater:   NewUpdater(client, pacing, sleep),
		now:       time.Now,
	}
}

// SetObserver registers a RunObserver notified after every run
func (s *StockService) SetObserver(observer domain.RunObserver) {
	s.observer = observer
}

// Run executes one full pass. In dry-run mode everything but the status writes is performed.
// Only a catalog failure aborts the run; inventory level and per-product write failures are absorbed.
func (s *StockService) Run(ctx context.Context, dryRun bool) (*domain.StockUpdateResult, error) {
	if !s.running.TryLock() {
		return nil, domain.ErrRunInProgress
	}
	defer s.running.Unlock()

	started := s.now()
	result := &domain.StockUpdateResult{
		RunID:         uuid.NewString(),
		DryRun:        dryRun,
		StartedAt:     started,
		UpdateResults: []domain.UpdateResult{},
	}

	if dryRun {
		log.Printf("[Stock] Run %s: DRY RUN MODE - no changes will be made", result.RunID)
	} else {
		log.Printf("[Stock] Run %s: LIVE MODE - products will be set to draft status", result.RunID)
	}

	log.Printf("[Stock] Stage %s", domain.StageFetchingCatalog)
	products, err := s.catalog.FetchAll(ctx)
	if err != nil {
		return nil, s.fail(domain.StageFetchingCatalog, err)
	}
	log.Printf("[Stock] Fetched %d total products", len(products))

	log.Printf("[Stock] Stage %s", domain.StageFetchingInventoryLevels)
	levels := s.inventory.FetchLevels(ctx, inventoryItemIDs(products))

	log.Printf("[Stock] Stage %s", domain.StageReconciling)
	reconciled := Reconcile(products, levels)
	result.Discrepancies = disagreements(reconciled)

	log.Printf("[Stock] Stage %s", domain.StageSelectingCandidates)
	result.ProductsFound = s.selector.SelectCandidates(reconciled)
	log.Printf("[Stock] Found %d active products with no stock", len(result.ProductsFound))

	if !dryRun && len(result.ProductsFound) > 0 {
		log.Printf("[Stock] Stage %s", domain.StageUpdating)
		result.UpdateResults = s.updater.DraftProducts(ctx, result.ProductsFound)
	}

	log.Printf("[Stock] Stage %s", domain.StageReporting)
	result.Summary = GenerateSummary(result.ProductsFound, reconciled, result.UpdateResults)
	result.FinishedAt = s.now()

	if s.observer != nil {
		s.observer.ObserveRun(result, result.FinishedAt.Sub(started))
	}

	return result, nil
}

func (s *StockService) fail(stage domain.RunStage, err error) error {
	log.Printf("[Stock] Run failed during %s: %v", stage, err)
	if s.observer != nil {
		s.observer.ObserveFailure(stage)
	}
	return fmt.Errorf("%s: %w", stage, err)
}
