package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogReader reads the paginated active catalog.
// An empty cursor requests the first page.
type CatalogReader interface {
	ListActiveProducts(ctx context.Context, cursor string) (*ProductPage, error)
}

// InventoryLevelReader reads stock tuples for a batch of inventory items
type InventoryLevelReader interface {
	GetInventoryLevels(ctx context.Context, inventoryItemIDs []int64) ([]InventoryLevel, error)
}

// ProductStatusWriter changes the lifecycle status of a single product
type ProductStatusWriter interface {
	UpdateProductStatus(ctx context.Context, productID int64, status string) error
}

// ProductTitleReader looks up a product title by ID
type ProductTitleReader interface {
	GetProductTitle(ctx context.Context, productID int64) (string, error)
}

// ShopifyClient defines the interface for interacting with the Shopify Admin REST API
type ShopifyClient interface {
	CatalogReader
	InventoryLevelReader
	ProductStatusWriter
	ProductTitleReader
	GetShop(ctx context.Context) (*ShopInfo, error)
}

// ReportSender delivers run reports to people
type ReportSender interface {
	SendStockReport(ctx context.Context, result *StockUpdateResult) error
	SendActivationReport(ctx context.Context, result *ActivationResult) error
	SendFailure(ctx context.Context, operation string, runErr error) error
}

// RunObserver is notified about finished pipeline runs
type RunObserver interface {
	ObserveRun(result *StockUpdateResult, duration time.Duration)
	ObserveFailure(stage RunStage)
}
