package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/config"
	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/app"
	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"
	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/usecase"
)

const usage = `Shopify Stock Manager - sets active products with zero stock to draft

Usage: stockmanager [options]

Options:
  -d, -dry-run         Show what would be changed without making changes
  -activate <ids>      Set the comma separated product IDs back to active
  -config <dir>        Extra directory to search for config.yaml

Environment variables (or .env):
  SHOPIFY_SHOP_DOMAIN     Your Shopify shop domain (e.g. mystore.myshopify.com)
  SHOPIFY_ACCESS_TOKEN    Your Shopify private app access token
  SHOPIFY_API_VERSION     API version (default: 2025-01)
  EMAIL_ENABLED           Send the report through SendGrid (default: false)
`

func main() {
	var (
		dryRun    bool
		activate  string
		configDir string
	)
	flag.BoolVar(&dryRun, "dry-run", false, "show what would be changed without making changes")
	flag.BoolVar(&dryRun, "d", false, "shorthand for -dry-run")
	flag.StringVar(&activate, "activate", "", "comma separated product IDs to set active")
	flag.StringVar(&configDir, "config", "", "extra directory to search for config.yaml")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load(configDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg)
	defer application.Close()

	if _, err := application.Shopify.GetShop(ctx); err != nil {
		fail(ctx, application, "Shopify connection check", err)
	}
	log.Printf("Connected to %s", cfg.Shopify.APIBaseURL())

	if activate != "" {
		ids, err := parseProductIDs(activate)
		if err != nil {
			fail(ctx, application, "Bulk activation", err)
		}
		runActivation(ctx, application, ids, dryRun)
		return
	}

	runStock(ctx, application, dryRun)
}

func runStock(ctx context.Context, application *app.App, dryRun bool) {
	result, err := application.Stock.Run(ctx, dryRun)
	if err != nil {
		fail(ctx, application, "Stock run", err)
	}

	fmt.Print(usecase.FormatReport(result))

	if application.Reporter != nil {
		if err := application.Reporter.SendStockReport(ctx, result); err != nil {
			log.Printf("Report not delivered: %v", err)
		}
	}
}

func runActivation(ctx context.Context, application *app.App, ids []int64, dryRun bool) {
	result, err := application.Activation.Activate(ctx, ids, dryRun)
	if err != nil {
		fail(ctx, application, "Bulk activation", err)
	}

	fmt.Print(usecase.FormatActivationReport(result))

	if application.Reporter != nil {
		if err := application.Reporter.SendActivationReport(ctx, result); err != nil {
			log.Printf("Report not delivered: %v", err)
		}
	}
}

// fail notifies by email when possible and exits with status 1
func fail(ctx context.Context, application *app.App, operation string, err error) {
	log.Printf("%s failed: %v", operation, err)
	if application.Reporter != nil {
		if sendErr := application.Reporter.SendFailure(context.WithoutCancel(ctx), operation, err); sendErr != nil {
			log.Printf("Failure notification not delivered: %v", sendErr)
		}
	}
	application.Close()
	os.Exit(1)
}

func parseProductIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: invalid product ID %q", domain.ErrInvalidRequest, field)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New("no product IDs given")
	}
	return ids, nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetOutput(os.Stdout)
}
