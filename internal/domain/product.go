package domain

// Product lifecycle statuses used by the Shopify Admin API
const (
	StatusActive = "active"
	StatusDraft  = "draft"
)

// Product represents a catalog entry as returned by the Shopify products endpoint
type Product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Status   string    `json:"status"`
	Variants []Variant `json:"variants"`
}

// Variant represents one sellable SKU of a product.
// InventoryQuantity is nil when Shopify omitted the field; that is not the same as zero.
type Variant struct {
	ID                int64  `json:"id"`
	InventoryItemID   int64  `json:"inventory_item_id"`
	Title             string `json:"title"`
	SKU               string `json:"sku,omitempty"`
	InventoryQuantity *int   `json:"inventory_quantity"`
}

// IsActive reports whether the product is currently published
func (p Product) IsActive() bool {
	return p.Status == StatusActive
}

// ProductPage is one page of the paginated catalog.
// NextCursor is empty when there are no more pages.
type ProductPage struct {
	Products   []Product
	NextCursor string
}

// ProductsResponse represents the body of GET products.json
type ProductsResponse struct {
	Products []Product `json:"products"`
}

// ProductResponse represents the body of GET products/{id}.json
type ProductResponse struct {
	Product Product `json:"product"`
}

// InventoryLevel is a single (item, location) stock tuple from the inventory levels endpoint
type InventoryLevel struct {
	InventoryItemID int64 `json:"inventory_item_id"`
	LocationID      int64 `json:"location_id"`
	Available       *int  `json:"available"`
}

// InventoryLevelsResponse represents the body of GET inventory_levels.json
type InventoryLevelsResponse struct {
	InventoryLevels []InventoryLevel `json:"inventory_levels"`
}

// InventoryLevelMap maps an inventory item ID to its available quantity summed across locations
type InventoryLevelMap map[int64]int

// ShopInfo is the subset of shop.json used for connection checks
type ShopInfo struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// ShopResponse represents the body of GET shop.json
type ShopResponse struct {
	Shop ShopInfo `json:"shop"`
}

// IntPtr returns a pointer to v. Handy for building variants in fixtures.
func IntPtr(v int) *int {
	return &v
}
