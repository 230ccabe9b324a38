package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a client pointed at server whose waits are recorded instead of slept
func newTestClient(server *httptest.Server) (*Client, *[]time.Duration) {
	client := NewClient("test-token", server.URL+"/admin/api/2025-01")
	waits := []time.Duration{}
	client.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return client, &waits
}

func TestNewClient(t *testing.T) {
	client := NewClient("test-token", "https://shop.example.com/admin/api/2025-01/")

	assert.NotNil(t, client)
	assert.Equal(t, "test-token", client.accessToken)
	assert.Equal(t, "https://shop.example.com/admin/api/2025-01", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.Equal(t, 5, client.retry.MaxAttempts)
	assert.False(t, client.debug)
}

func TestSetDebug(t *testing.T) {
	client := NewClient("test-token", "https://shop.example.com")

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestListActiveProducts_FirstPage(t *testing.T) {
	var serverURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2025-01/products.json", r.URL.Path)
		assert.Equal(t, "250", r.URL.Query().Get("limit"))
		assert.Equal(t, "active", r.URL.Query().Get("status"))
		assert.Equal(t, "id,title,status,variants", r.URL.Query().Get("fields"))
		assert.Equal(t, "test-token", r.Header.Get("X-Shopify-Access-Token"))

		w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2025-01/products.json?limit=250&page_info=next123>; rel="next"`, serverURL))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[
			{"id":1,"title":"Borsalino","status":"active","variants":[
				{"id":11,"inventory_item_id":111,"title":"M","sku":"BOR-M","inventory_quantity":3},
				{"id":12,"inventory_item_id":112,"title":"L","inventory_quantity":null}
			]}
		]}`))
	}))
	defer server.Close()
	serverURL = server.URL

	client, _ := newTestClient(server)
	page, err := client.ListActiveProducts(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	product := page.Products[0]
	assert.Equal(t, int64(1), product.ID)
	assert.Equal(t, "Borsalino", product.Title)
	require.Len(t, product.Variants, 2)
	require.NotNil(t, product.Variants[0].InventoryQuantity)
	assert.Equal(t, 3, *product.Variants[0].InventoryQuantity)
	assert.Equal(t, "BOR-M", product.Variants[0].SKU)
	assert.Nil(t, product.Variants[1].InventoryQuantity)
	assert.Equal(t, int64(112), product.Variants[1].InventoryItemID)
	assert.Equal(t, serverURL+"/admin/api/2025-01/products.json?limit=250&page_info=next123", page.NextCursor)
}

func TestListActiveProducts_FollowsCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "next123", r.URL.Query().Get("page_info"))
		w.Write([]byte(`{"products":[{"id":2,"title":"Coppola","status":"active","variants":[]}]}`))
	}))
	defer server.Close()

	client, _ := newTestClient(server)
	page, err := client.ListActiveProducts(context.Background(), server.URL+"/admin/api/2025-01/products.json?limit=250&page_info=next123")

	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, int64(2), page.Products[0].ID)
	assert.Empty(t, page.NextCursor)
}

func TestListActiveProducts_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("invalid json"))
	}))
	defer server.Close()

	client, _ := newTestClient(server)
	page, err := client.ListActiveProducts(context.Background(), "")

	assert.Nil(t, page)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestGetInventoryLevels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2025-01/inventory_levels.json", r.URL.Path)
		assert.Equal(t, "111,112", r.URL.Query().Get("inventory_item_ids"))
		assert.Equal(t, "250", r.URL.Query().Get("limit"))

		json.NewEncoder(w).Encode(domain.InventoryLevelsResponse{
			InventoryLevels: []domain.InventoryLevel{
				{InventoryItemID: 111, LocationID: 1, Available: domain.IntPtr(2)},
				{InventoryItemID: 111, LocationID: 2, Available: domain.IntPtr(1)},
				{InventoryItemID: 112, LocationID: 1, Available: nil},
			},
		})
	}))
	defer server.Close()

	client, _ := newTestClient(server)
	levels, err := client.GetInventoryLevels(context.Background(), []int64{111, 112})

	require.NoError(t, err)
	require.Len(t, levels, 3)
	assert.Equal(t, int64(111), levels[1].InventoryItemID)
	assert.Equal(t, 1, *levels[1].Available)
	assert.Nil(t, levels[2].Available)
}

func TestGetInventoryLevels_EmptyBatch(t *testing.T) {
	client := NewClient("test-token", "https://unused.example.com")

	levels, err := client.GetInventoryLevels(context.Background(), nil)

	assert.NoError(t, err)
	assert.Empty(t, levels)
}

func TestUpdateProductStatus_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/admin/api/2025-01/products/3587363962985.json", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"product":{"id":3587363962985,"status":"draft"}}`, string(raw))

		w.Write([]byte(`{"product":{"id":3587363962985,"status":"draft"}}`))
	}))
	defer server.Close()

	client, _ := newTestClient(server)
	err := client.UpdateProductStatus(context.Background(), 3587363962985, domain.StatusDraft)

	assert.NoError(t, err)
}

func TestUpdateProductStatus_InvalidID(t *testing.T) {
	client := NewClient("test-token", "https://unused.example.com")

	err := client.UpdateProductStatus(context.Background(), 0, domain.StatusDraft)

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestUpdateProductStatus_ClientError_NoRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":{"status":["is invalid"]}}`))
	}))
	defer server.Close()

	client, waits := newTestClient(server)
	err := client.UpdateProductStatus(context.Background(), 42, "bogus")

	assert.ErrorIs(t, err, domain.ErrShopifyAPIFailure)
	assert.Contains(t, err.Error(), "422")
	assert.Equal(t, 1, attempts)
	assert.Empty(t, *waits)
}

func TestUpdateProductStatus_ServerError_NoRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := newTestClient(server)
	err := client.UpdateProductStatus(context.Background(), 42, domain.StatusDraft)

	assert.ErrorIs(t, err, domain.ErrShopifyAPIFailure)
	assert.Equal(t, 1, attempts)
}

func TestRateLimited_RecoversAfterRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.Header().Set("Retry-After", "2.0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"shop":{"id":7,"name":"Cappelletto","domain":"cappellettoshop.it"}}`))
	}))
	defer server.Close()

	client, waits := newTestClient(server)
	shop, err := client.GetShop(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Cappelletto", shop.Name)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, *waits)
}

func TestRateLimited_AlwaysHonorsRetryAfter(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, waits := newTestClient(server)
	err := client.UpdateProductStatus(context.Background(), 42, domain.StatusDraft)

	assert.ErrorIs(t, err, domain.ErrRetriesExhausted)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, 5, attempts)
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second, 3 * time.Second, 3 * time.Second}, *waits)
}

func TestRateLimited_DoublesDefaultDelay(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, waits := newTestClient(server)
	client.SetRetryPolicy(RetryPolicy{MaxAttempts: 5, DefaultDelay: 100 * time.Millisecond})

	_, err := client.ListActiveProducts(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrRetriesExhausted)
	assert.Equal(t, 5, attempts)
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
	}, *waits)
}

func TestRateLimited_CustomCeiling(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, waits := newTestClient(server)
	client.SetRetryPolicy(RetryPolicy{MaxAttempts: 2, DefaultDelay: time.Second})

	_, err := client.GetProductTitle(context.Background(), 42)

	assert.ErrorIs(t, err, domain.ErrRetriesExhausted)
	assert.Equal(t, 2, attempts)
	assert.Len(t, *waits, 1)
}

func TestRateLimited_SleepCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL)
	client.SetRetryPolicy(RetryPolicy{MaxAttempts: 5, DefaultDelay: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := client.GetShop(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetProductTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2025-01/products/99.json", r.URL.Path)
		assert.Equal(t, "id,title", r.URL.Query().Get("fields"))
		w.Write([]byte(`{"product":{"id":99,"title":"Panama Montecristi"}}`))
	}))
	defer server.Close()

	client, _ := newTestClient(server)
	title, err := client.GetProductTitle(context.Background(), 99)

	require.NoError(t, err)
	assert.Equal(t, "Panama Montecristi", title)
}

func TestGetProductTitle_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, _ := newTestClient(server)
	title, err := client.GetProductTitle(context.Background(), 99)

	assert.Empty(t, title)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestRequestCreationError(t *testing.T) {
	client := NewClient("test-token", "://invalid-url")

	shop, err := client.GetShop(context.Background())

	assert.Nil(t, shop)
	assert.Error(t, err)
}

func TestReadLimitedBody(t *testing.T) {
	t.Run("reads within limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("short content"))
		}))
		defer server.Close()

		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := readLimitedBody(resp.Body, 1000)
		require.NoError(t, err)
		assert.Equal(t, "short content", string(body))
	})

	t.Run("truncates beyond limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for i := 0; i < 100; i++ {
				w.Write([]byte("0123456789"))
			}
		}))
		defer server.Close()

		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := readLimitedBody(resp.Body, 100)
		require.NoError(t, err)
		assert.Len(t, body, 100)
	})
}
