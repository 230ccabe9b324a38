package main

import (
	"fmt"
	"log"
	"os"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/config"
	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/app"
	httpDelivery "github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/delivery/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Stock Manager server v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Shopify API: %s (version %s)", cfg.Shopify.APIBaseURL(), cfg.Shopify.APIVersion)
	log.Printf("Excluded products: %v", cfg.Stock.ExcludedProductIDs)

	application := app.New(cfg)
	defer application.Close()

	handler := httpDelivery.NewHandler(application.Stock, application.Activation, application.Shopify)
	if application.Reporter != nil {
		handler.SetReporter(application.Reporter)
	}

	router := httpDelivery.SetupRouter(cfg, handler, application.Metrics.Handler())

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
