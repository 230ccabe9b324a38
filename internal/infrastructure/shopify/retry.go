package shopify

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryPolicy bounds how rate-limited requests are retried
type RetryPolicy struct {
	MaxAttempts  int           // total attempts including the first one
	DefaultDelay time.Duration // first wait when the server gives no Retry-After hint
}

// DefaultRetryPolicy returns five attempts starting from a one second wait
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  5,
		DefaultDelay: time.Second,
	}
}

// Delay returns how long to wait after the given failed attempt.
// A Retry-After header wins; otherwise the default delay doubles on every attempt.
func (p RetryPolicy) Delay(attempt int, header http.Header) time.Duration {
	if wait, ok := parseRetryAfter(header); ok {
		return wait
	}
	return exponentialBackoff(p.DefaultDelay, attempt)
}

// exponentialBackoff returns base * 2^(attempt-1)
func exponentialBackoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base * time.Duration(1<<uint(attempt-1))
}

// parseRetryAfter reads Retry-After as seconds. Shopify sends fractional values like "2.0".
func parseRetryAfter(header http.Header) (time.Duration, bool) {
	v := strings.TrimSpace(header.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(v, 64)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)).Round(time.Millisecond), true
}
