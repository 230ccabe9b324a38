package domain

import "time"

// AgreementStatus classifies how well the two stock signals concur for a product
type AgreementStatus string

const (
	AgreementMatch        AgreementStatus = "MATCH"
	AgreementDiscrepancy  AgreementStatus = "DISCREPANCY"
	AgreementPartialMatch AgreementStatus = "PARTIAL_MATCH"
)

// ExcludedMarker is the error text attached to update results of denylisted products
const ExcludedMarker = "Excluded from updates"

// StockSources holds the product-level totals of both stock signals
type StockSources struct {
	InventoryLevels   int             `json:"inventoryLevels"`
	VariantQuantities int             `json:"variantQuantities"`
	AgreementStatus   AgreementStatus `json:"agreementStatus"`
}

// VariantStock is the reconciled stock of a single variant
type VariantStock struct {
	VariantID            int64  `json:"variantId"`
	InventoryItemID      int64  `json:"inventoryItemId"`
	Title                string `json:"title"`
	SKU                  string `json:"sku,omitempty"`
	InventoryLevelStock  int    `json:"inventoryLevelStock"`
	VariantQuantityStock int    `json:"variantQuantityStock"`
	FinalStock           int    `json:"finalStock"`
	UsedFallback         bool   `json:"usedFallback"` // variant quantity was absent
}

// ReconciledProduct is an active product annotated with its resolved stock
type ReconciledProduct struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Status       string         `json:"status"`
	Variants     []VariantStock `json:"variants"`
	TotalStock   int            `json:"totalStock"`
	StockSources StockSources   `json:"stockSources"`
}

// ProductNoStock is a draft candidate: an active product whose resolved stock is <= 0
type ProductNoStock struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Status       string       `json:"status"`
	TotalStock   int          `json:"totalStock"`
	StockSources StockSources `json:"stockSources"`
	IsExcluded   bool         `json:"isExcluded"`
}

// UpdateResult records the outcome of one status change (or its deliberate skip)
type UpdateResult struct {
	ProductID int64  `json:"productId"`
	Title     string `json:"title"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// UpdateSummary aggregates a run
type UpdateSummary struct {
	TotalFound        int `json:"totalFound"`
	ExcludedCount     int `json:"excludedCount"`
	EligibleCount     int `json:"eligibleCount"`
	SuccessfulUpdates int `json:"successfulUpdates"`
	FailedUpdates     int `json:"failedUpdates"`
	DiscrepancyCount  int `json:"discrepancyCount"`
	PartialMatchCount int `json:"partialMatchCount"`
}

// StockUpdateResult is the full report of one reconciliation run
type StockUpdateResult struct {
	RunID         string              `json:"runId"`
	DryRun        bool                `json:"dryRun"`
	StartedAt     time.Time           `json:"startedAt"`
	FinishedAt    time.Time           `json:"finishedAt"`
	ProductsFound []ProductNoStock    `json:"productsFound"`
	Discrepancies []ReconciledProduct `json:"discrepancies"`
	UpdateResults []UpdateResult      `json:"updateResults"`
	Summary       UpdateSummary       `json:"summary"`
}

// ActivationSummary aggregates a bulk activation run
type ActivationSummary struct {
	Requested int `json:"requested"`
	Activated int `json:"activated"`
	Failed    int `json:"failed"`
}

// ActivationResult is the report of a bulk activation run
type ActivationResult struct {
	RunID         string            `json:"runId"`
	DryRun        bool              `json:"dryRun"`
	UpdateResults []UpdateResult    `json:"updateResults"`
	Summary       ActivationSummary `json:"summary"`
}

// RunStage names a step of the reconciliation pipeline
type RunStage string

const (
	StageFetchingCatalog         RunStage = "fetching_catalog"
	StageFetchingInventoryLevels RunStage = "fetching_inventory_levels"
	StageReconciling             RunStage = "reconciling"
	StageSelectingCandidates     RunStage = "selecting_candidates"
	StageUpdating                RunStage = "updating"
	StageReporting               RunStage = "reporting"
)
