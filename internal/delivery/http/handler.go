package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"
)

const (
	serviceName    = "stockmanager"
	serviceVersion = "1.0.0"
)

// StockRunner runs the zero-stock pipeline
type StockRunner interface {
	Run(ctx context.Context, dryRun bool) (*domain.StockUpdateResult, error)
}

// ProductActivator sets products back to active
type ProductActivator interface {
	Activate(ctx context.Context, productIDs []int64, dryRun bool) (*domain.ActivationResult, error)
}

// ShopChecker verifies the Shopify credentials
type ShopChecker interface {
	GetShop(ctx context.Context) (*domain.ShopInfo, error)
}

// Handler holds dependencies for HTTP handlers. Any of them may be nil; the matching endpoints then answer 501.
type Handler struct {
	stock     StockRunner
	activator ProductActivator
	shop      ShopChecker
	reporter  domain.ReportSender
}

// NewHandler creates a new HTTP handler
func NewHandler(stock StockRunner, activator ProductActivator, shop ShopChecker) *Handler {
	return &Handler{
		stock:     stock,
		activator: activator,
		shop:      shop,
	}
}

// SetReporter makes live runs triggered over HTTP send their report as well
func (h *Handler) SetReporter(reporter domain.ReportSender) {
	h.reporter = reporter
}

// ActivateRequest is the body of POST /api/v1/products/activate
type ActivateRequest struct {
	ProductIDs []int64 `json:"productIds" binding:"required"`
	DryRun     bool    `json:"dryRun"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// ShopifyStatus checks that the configured store answers with the configured token
func (h *Handler) ShopifyStatus(c *gin.Context) {
	if h.shop == nil {
		notConfigured(c, "Shopify client")
		return
	}

	shop, err := h.shop.GetShop(c.Request.Context())
	if err != nil {
		log.Printf("[HTTP] Shopify connection check failed: %v", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected": true,
		"shop":      shop,
	})
}

// ScanStock runs the pipeline without writing anything
func (h *Handler) ScanStock(c *gin.Context) {
	h.runStock(c, true)
}

// DraftZeroStock runs the pipeline and drafts eligible products
func (h *Handler) DraftZeroStock(c *gin.Context) {
	h.runStock(c, false)
}

func (h *Handler) runStock(c *gin.Context, dryRun bool) {
	if h.stock == nil {
		notConfigured(c, "stock service")
		return
	}

	result, err := h.stock.Run(c.Request.Context(), dryRun)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.reporter != nil && !dryRun {
		if err := h.reporter.SendStockReport(c.Request.Context(), result); err != nil {
			log.Printf("[HTTP] Report for run %s not delivered: %v", result.RunID, err)
		}
	}

	c.JSON(http.StatusOK, result)
}

// ActivateProducts sets the requested products to active
func (h *Handler) ActivateProducts(c *gin.Context) {
	if h.activator == nil {
		notConfigured(c, "activation service")
		return
	}

	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.activator.Activate(c.Request.Context(), req.ProductIDs, req.DryRun)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func notConfigured(c *gin.Context, what string) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": what + " not configured"})
}

// writeError maps domain errors to status codes
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCatalogFetch),
		errors.Is(err, domain.ErrShopifyAPIFailure),
		errors.Is(err, domain.ErrRetriesExhausted),
		errors.Is(err, domain.ErrRateLimited),
		errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Shopify API unavailable", "details": err.Error()})
	default:
		log.Printf("[HTTP] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
