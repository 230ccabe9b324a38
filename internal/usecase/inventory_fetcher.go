package usecase

import (
	"context"
	"log"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"
)

// InventoryLevelFetcher builds the item -> available map from the inventory levels endpoint.
// Failed batches are logged and skipped.
type InventoryLevelFetcher struct {
	reader domain.InventoryLevelReader
	pacing PacingPolicy
	sleep  SleepFunc
}

// NewInventoryLevelFetcher creates a fetcher using pacing.BatchSize and pacing.BatchDelay
func NewInventoryLevelFetcher(reader domain.InventoryLevelReader, pacing PacingPolicy, sleep SleepFunc) *InventoryLevelFetcher {
	if sleep == nil {
		sleep = sleepContext
	}
	return &InventoryLevelFetcher{
		reader: reader,
		pacing: pacing.withDefaults(),
		sleep:  sleep,
	}
}

// FetchLevels returns available quantities summed across locations.
// Items of a failed batch are simply missing from the map.
func (f *InventoryLevelFetcher) FetchLevels(ctx context.Context, inventoryItemIDs []int64) domain.InventoryLevelMap {
	levels := make(domain.InventoryLevelMap)
	batches := batchIDs(uniqueIDs(inventoryItemIDs), f.pacing.BatchSize)

	for i, batch := range batches {
		if i > 0 {
			if err := f.sleep(ctx, f.pacing.BatchDelay); err != nil {
				log.Printf("[Stock] Inventory level fetch interrupted before batch %d/%d: %v", i+1, len(batches), err)
				return levels
			}
		}

		tuples, err := f.reader.GetInventoryLevels(ctx, batch)
		if err != nil {
			log.Printf("[Stock] Inventory level batch %d/%d (%d items) failed, continuing: %v", i+1, len(batches), len(batch), err)
			continue
		}

		for _, level := range tuples {
			if level.Available != nil {
				levels[level.InventoryItemID] += *level.Available
			} else if _, ok := levels[level.InventoryItemID]; !ok {
				levels[level.InventoryItemID] = 0
			}
		}
	}

	log.Printf("[Stock] Inventory levels collected for %d items in %d batches", len(levels), len(batches))
	return levels
}

// inventoryItemIDs lists the inventory item of every variant of every active product
func inventoryItemIDs(products []domain.Product) []int64 {
	var ids []int64
	for _, product := range products {
		if !product.IsActive() {
			continue
		}
		for _, variant := range product.Variants {
			ids = append(ids, variant.InventoryItemID)
		}
	}
	return ids
}

// uniqueIDs drops zero and repeated IDs, keeping first-seen order
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func batchIDs(ids []int64, size int) [][]int64 {
	var batches [][]int64
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
