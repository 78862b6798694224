package main

import (
	"fmt"
	"log"
	"os"

	"github.com/maisonvault/backfill/config"
	httpDelivery "github.com/maisonvault/backfill/internal/delivery/http"
	"github.com/maisonvault/backfill/internal/infrastructure/cache"
	"github.com/maisonvault/backfill/internal/infrastructure/generator"
	"github.com/maisonvault/backfill/internal/infrastructure/shopify"
	"github.com/maisonvault/backfill/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Backfill Preview API v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Shop: %s (API %s)", cfg.Shopify.ShopDomain, cfg.Shopify.APIVersion)

	// Initialize infrastructure dependencies
	productCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	catalogClient := shopify.NewClient(
		cfg.Shopify.ShopDomain,
		cfg.Shopify.AdminToken,
		cfg.Shopify.APIVersion,
		cfg.RateLimit.Shopify,
	)

	generationClient := generator.NewClient(
		cfg.Webhook.URL,
		cfg.Webhook.BearerToken,
		cfg.RateLimit.Webhook,
		cfg.Webhook.Timeout,
	)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		catalogClient.SetDebug(true)
		generationClient.SetDebug(true)
		log.Printf("Client debug mode enabled")
	}

	// Initialize usecase layer
	backfillService := usecase.NewBackfillService(
		productCache,
		catalogClient,
		generationClient,
		usecase.BackfillServiceConfig{
			CacheTTL: cfg.Cache.TTL,
			Classifier: usecase.ClassifierConfig{
				EditorNoteMaxWords:  cfg.Classifier.EditorNoteMaxWords,
				LegacyCharThreshold: cfg.Classifier.LegacyCharThreshold,
				LegacyWordThreshold: cfg.Classifier.LegacyWordThreshold,
				MinSignalPhrases:    cfg.Classifier.MinSignalPhrases,
				SignalPhrases:       cfg.Classifier.SignalPhrases,
			},
		},
	)

	log.Printf("Classifier: note<=%dw, legacy>%dc/%dw, phrases>=%d",
		cfg.Classifier.EditorNoteMaxWords,
		cfg.Classifier.LegacyCharThreshold,
		cfg.Classifier.LegacyWordThreshold,
		cfg.Classifier.MinSignalPhrases)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(backfillService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
