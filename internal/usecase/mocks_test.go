package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"
)

// MockShopifyClient is a mock implementation of the Shopify client interfaces
type MockShopifyClient struct {
	pages    map[string]*domain.ProductPage // keyed by cursor, "" is the first page
	pageErrs map[string]error
	pageReqs []string

	levels        map[int64][]domain.InventoryLevel
	failingBatch  map[int]bool // 1-based batch numbers that return an error
	levelRequests [][]int64

	updateErrs map[int64]error
	updated    []int64
	statuses   []string

	titles     map[int64]string
	titleErrs  map[int64]error
	titleCalls int
}

func NewMockShopifyClient() *MockShopifyClient {
	return &MockShopifyClient{
		pages:        make(map[string]*domain.ProductPage),
		pageErrs:     make(map[string]error),
		levels:       make(map[int64][]domain.InventoryLevel),
		failingBatch: make(map[int]bool),
		updateErrs:   make(map[int64]error),
		titles:       make(map[int64]string),
		titleErrs:    make(map[int64]error),
	}
}

// withCatalog spreads products over pages linked by cursors "page-2", "page-3", ...
func (m *MockShopifyClient) withCatalog(perPage int, products ...domain.Product) *MockShopifyClient {
	cursor := ""
	for n := 1; ; n++ {
		start := (n - 1) * perPage
		end := min(start+perPage, len(products))
		next := ""
		if end < len(products) {
			next = fmt.Sprintf("page-%d", n+1)
		}
		m.pages[cursor] = &domain.ProductPage{Products: products[start:end], NextCursor: next}
		if next == "" {
			return m
		}
		cursor = next
	}
}

func (m *MockShopifyClient) ListActiveProducts(ctx context.Context, cursor string) (*domain.ProductPage, error) {
	m.pageReqs = append(m.pageReqs, cursor)
	if err := m.pageErrs[cursor]; err != nil {
		return nil, err
	}
	page, ok := m.pages[cursor]
	if !ok {
		return nil, fmt.Errorf("unexpected cursor %q", cursor)
	}
	return page, nil
}

func (m *MockShopifyClient) GetInventoryLevels(ctx context.Context, ids []int64) ([]domain.InventoryLevel, error) {
	m.levelRequests = append(m.levelRequests, append([]int64(nil), ids...))
	if m.failingBatch[len(m.levelRequests)] {
		return nil, fmt.Errorf("%w: status 500", domain.ErrShopifyAPIFailure)
	}
	var out []domain.InventoryLevel
	for _, id := range ids {
		out = append(out, m.levels[id]...)
	}
	return out, nil
}

func (m *MockShopifyClient) UpdateProductStatus(ctx context.Context, productID int64, status string) error {
	if err := m.updateErrs[productID]; err != nil {
		return err
	}
	m.updated = append(m.updated, productID)
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *MockShopifyClient) GetProductTitle(ctx context.Context, productID int64) (string, error) {
	m.titleCalls++
	if err := m.titleErrs[productID]; err != nil {
		return "", err
	}
	title, ok := m.titles[productID]
	if !ok {
		return "", domain.ErrProductNotFound
	}
	return title, nil
}

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data     map[string]interface{}
	setError error
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string]interface{})}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockRunObserver records observer callbacks
type MockRunObserver struct {
	runs     []*domain.StockUpdateResult
	failures []domain.RunStage
}

func (m *MockRunObserver) ObserveRun(result *domain.StockUpdateResult, duration time.Duration) {
	m.runs = append(m.runs, result)
}

func (m *MockRunObserver) ObserveFailure(stage domain.RunStage) {
	m.failures = append(m.failures, stage)
}

// sleepRecorder returns a SleepFunc that records the requested delays
func sleepRecorder() (SleepFunc, *[]time.Duration) {
	waits := []time.Duration{}
	return func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}, &waits
}

var errBoom = errors.New("boom")

// newProduct builds an active product whose variants carry the given quantities (nil = absent)
func newProduct(id int64, title string, quantities ...*int) domain.Product {
	p := domain.Product{ID: id, Title: title, Status: domain.StatusActive}
	for i, q := range quantities {
		p.Variants = append(p.Variants, domain.Variant{
			ID:                id*100 + int64(i),
			InventoryItemID:   id*1000 + int64(i),
			Title:             fmt.Sprintf("Variant %d", i),
			InventoryQuantity: q,
		})
	}
	return p
}

func qty(v int) *int { return domain.IntPtr(v) }
