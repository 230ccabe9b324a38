package domain

import "errors"

var (
	// ErrProductNotFound is returned when Shopify answers 404 for a product
	ErrProductNotFound = errors.New("product not found in Shopify")

	// ErrRateLimited is returned when Shopify answers 429
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrRetriesExhausted is returned when a rate-limited request used up its attempts
	ErrRetriesExhausted = errors.New("retry attempts exhausted")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrShopifyAPIFailure is returned when a Shopify API request fails
	ErrShopifyAPIFailure = errors.New("Shopify API request failed")

	// ErrCatalogFetch is returned when the product catalog could not be fetched completely
	ErrCatalogFetch = errors.New("catalog fetch failed")

	// ErrRunInProgress is returned when a run is requested while another one is still executing
	ErrRunInProgress = errors.New("a stock run is already in progress")

	// ErrReportDelivery is returned when the report sink could not deliver a report
	ErrReportDelivery = errors.New("report delivery failed")
)
