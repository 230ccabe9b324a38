package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/config"
)

// SetupRouter creates and configures the Gin router. metrics may be nil.
func SetupRouter(cfg *config.Config, handler *Handler, metrics http.Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/shopify/status", handler.ShopifyStatus)

		stock := v1.Group("/stock")
		{
			stock.POST("/scan", handler.ScanStock)
			stock.POST("/draft", handler.DraftZeroStock)
		}

		v1.POST("/products/activate", handler.ActivateProducts)
	}

	return router
}
