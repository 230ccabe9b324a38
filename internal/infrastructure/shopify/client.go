package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"
	"golang.org/x/time/rate"
)

const (
	// productPageSize is the largest page Shopify REST allows
	productPageSize = 250

	// productFields is the projection requested from the products endpoint
	productFields = "id,title,status,variants"

	// maxResponseBytes caps how much of a response body is read
	maxResponseBytes = 64 << 20

	// maxErrorBodyBytes caps how much of an error body is echoed into errors and logs
	maxErrorBodyBytes = 512
)

// Client handles communication with the Shopify Admin REST API
type Client struct {
	httpClient  *http.Client
	accessToken string
	baseURL     string
	rateLimiter *rate.Limiter
	retry       RetryPolicy
	sleep       func(ctx context.Context, d time.Duration) error
	debug       bool
}

// NewClient creates a new Shopify API client.
// baseURL is the versioned admin root, e.g. https://shop.myshopify.com/admin/api/2025-01
func NewClient(accessToken, baseURL string) *Client {
	// Shopify REST uses a leaky bucket of 40 requests refilled at 2/s
	limiter := rate.NewLimiter(rate.Limit(2), 40)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		accessToken: accessToken,
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: limiter,
		retry:       DefaultRetryPolicy(),
		sleep:       sleepContext,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SetRateLimit replaces the client-side request limiter
func (c *Client) SetRateLimit(perSecond float64, burst int) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// SetRetryPolicy replaces the 429 retry policy
func (c *Client) SetRetryPolicy(policy RetryPolicy) {
	c.retry = policy
}

// SetTimeout sets the transport-level timeout of each HTTP call
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[Shopify DEBUG] "+format, args...)
	}
}

// ListActiveProducts fetches one page of active products.
// An empty cursor requests the first page; otherwise cursor is the rel="next" URL of the previous page.
func (c *Client) ListActiveProducts(ctx context.Context, cursor string) (*domain.ProductPage, error) {
	reqURL := cursor
	if reqURL == "" {
		params := url.Values{}
		params.Add("limit", strconv.Itoa(productPageSize))
		params.Add("status", domain.StatusActive)
		params.Add("fields", productFields)
		reqURL = fmt.Sprintf("%s/products.json?%s", c.baseURL, params.Encode())
	}

	resp, body, err := c.execute(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	var data domain.ProductsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	page := &domain.ProductPage{
		Products:   data.Products,
		NextCursor: ParseNextLink(resp.Header.Get("Link")),
	}
	c.debugLog("products page: %d products, next=%q", len(page.Products), page.NextCursor)
	return page, nil
}

// GetInventoryLevels fetches the stock tuples of a batch of inventory items across all locations
func (c *Client) GetInventoryLevels(ctx context.Context, inventoryItemIDs []int64) ([]domain.InventoryLevel, error) {
	if len(inventoryItemIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(inventoryItemIDs))
	for i, id := range inventoryItemIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}

	params := url.Values{}
	params.Add("inventory_item_ids", strings.Join(ids, ","))
	params.Add("limit", strconv.Itoa(productPageSize))
	reqURL := fmt.Sprintf("%s/inventory_levels.json?%s", c.baseURL, params.Encode())

	_, body, err := c.execute(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	var data domain.InventoryLevelsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return data.InventoryLevels, nil
}

// UpdateProductStatus sets the lifecycle status of a single product
func (c *Client) UpdateProductStatus(ctx context.Context, productID int64, status string) error {
	if productID <= 0 || status == "" {
		return fmt.Errorf("%w: product %d, status %q", domain.ErrInvalidRequest, productID, status)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"product": map[string]interface{}{
			"id":     productID,
			"status": status,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/products/%d.json", c.baseURL, productID)
	if _, _, err := c.execute(ctx, http.MethodPut, reqURL, payload); err != nil {
		return err
	}

	log.Printf("[Shopify] Product %d set to %s", productID, status)
	return nil
}

// GetProductTitle looks up the title of a single product
func (c *Client) GetProductTitle(ctx context.Context, productID int64) (string, error) {
	reqURL := fmt.Sprintf("%s/products/%d.json?fields=id,title", c.baseURL, productID)

	_, body, err := c.execute(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}

	var data domain.ProductResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return data.Product.Title, nil
}

// GetShop fetches basic shop information, used as a connection check
func (c *Client) GetShop(ctx context.Context) (*domain.ShopInfo, error) {
	reqURL := fmt.Sprintf("%s/shop.json", c.baseURL)

	_, body, err := c.execute(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	var data domain.ShopResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &data.Shop, nil
}

// doRequest executes a single HTTP request with the Shopify headers
func (c *Client) doRequest(ctx context.Context, method, reqURL string, payload []byte) (*http.Response, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "CappellettoStockManager/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrShopifyAPIFailure, err)
	}

	return resp, nil
}

// execute runs a request under the retry policy and returns the response with its body already read.
// Only 429 answers are retried; everything else is returned to the caller straight away.
func (c *Client) execute(ctx context.Context, method, reqURL string, payload []byte) (*http.Response, []byte, error) {
	maxAttempts := c.retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, nil, fmt.Errorf("rate limiter error: %w", err)
		}

		c.debugLog("%s %s (attempt %d/%d)", method, reqURL, attempt, maxAttempts)
		resp, err := c.doRequest(ctx, method, reqURL, payload)
		if err != nil {
			return nil, nil, err
		}

		body, err := readLimitedBody(resp.Body, maxResponseBytes)
		resp.Body.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: reading body: %v", domain.ErrShopifyAPIFailure, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("%w: status %d", domain.ErrRateLimited, resp.StatusCode)
			if attempt == maxAttempts {
				break
			}
			wait := c.retry.Delay(attempt, resp.Header)
			log.Printf("[Shopify] Rate limited on %s %s (attempt %d/%d), waiting %s", method, reqURL, attempt, maxAttempts, wait)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, nil, err
			}
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			return nil, nil, fmt.Errorf("%w: %s %s", domain.ErrProductNotFound, method, reqURL)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, nil, fmt.Errorf("%w: status %d %s, body: %s",
				domain.ErrShopifyAPIFailure, resp.StatusCode, http.StatusText(resp.StatusCode), truncate(body, maxErrorBodyBytes))
		}

		return resp, body, nil
	}

	log.Printf("[Shopify] All %d attempts rate limited for %s %s", maxAttempts, method, reqURL)
	return nil, nil, fmt.Errorf("%w after %d attempts: %w", domain.ErrRetriesExhausted, maxAttempts, lastErr)
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
