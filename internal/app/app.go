package app

import (
	"log"
	"time"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/config"
	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"
	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/infrastructure/cache"
	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/infrastructure/mail"
	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/infrastructure/metrics"
	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/infrastructure/shopify"
	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/usecase"
)

// App is the object graph shared by the CLI and the server
type App struct {
	Shopify    *shopify.Client
	Stock      *usecase.StockService
	Activation *usecase.ActivationService
	Metrics    *metrics.Registry
	Reporter   domain.ReportSender // nil when email is disabled

	titles *cache.MemoryCache
}

// New wires infrastructure and services from cfg
func New(cfg *config.Config) *App {
	client := shopify.NewClient(cfg.Shopify.AccessToken, cfg.Shopify.APIBaseURL())
	client.SetRateLimit(cfg.Shopify.RequestsPerSecond, cfg.Shopify.Burst)
	client.SetTimeout(cfg.Shopify.Timeout)
	client.SetRetryPolicy(shopify.RetryPolicy{
		MaxAttempts:  cfg.Retry.MaxAttempts,
		DefaultDelay: cfg.Retry.DefaultDelay,
	})
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
		log.Printf("Shopify client debug mode enabled")
	}

	pacing := usecase.PacingPolicy{
		PageDelay:   cfg.Pacing.PageDelay,
		BatchDelay:  cfg.Pacing.BatchDelay,
		UpdateDelay: cfg.Pacing.UpdateDelay,
		BatchSize:   cfg.Pacing.BatchSize,
	}

	registry := metrics.NewRegistry()
	stock := usecase.NewStockService(client, usecase.StockServiceConfig{
		ExcludedProductIDs: cfg.Stock.ExcludedProductIDs,
		Pacing:             pacing,
	})
	stock.SetObserver(registry)

	titles := cache.NewMemoryCache(10 * time.Minute)
	activation := usecase.NewActivationService(client, titles, usecase.ActivationServiceConfig{
		TitleTTL: cfg.Cache.TitleTTL,
		Pacing:   pacing,
	})

	a := &App{
		Shopify:    client,
		Stock:      stock,
		Activation: activation,
		Metrics:    registry,
		titles:     titles,
	}
	if cfg.Email.Enabled {
		a.Reporter = mail.NewSendGridReporter(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.To)
		log.Printf("Email reports enabled: %s -> %v", cfg.Email.From, cfg.Email.To)
	}

	return a
}

// Close releases background resources
func (a *App) Close() {
	a.titles.Close()
}
