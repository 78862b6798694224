// Package main provides the batch driver that walks a catalog export,
// regenerates eligible product descriptions and writes results back.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maisonvault/backfill/config"
	"github.com/maisonvault/backfill/internal/domain"
	"github.com/maisonvault/backfill/internal/infrastructure/export"
	"github.com/maisonvault/backfill/internal/infrastructure/generator"
	"github.com/maisonvault/backfill/internal/infrastructure/shopify"
	"github.com/maisonvault/backfill/internal/usecase"
)

func main() {
	outPath := flag.String("out", "", "Output file path (default adds _updated before extension)")
	sleepSeconds := flag.Float64("sleep", 0, "Seconds to sleep between generated products")
	limit := flag.Int("limit", 0, "Max rows to process, 0 for all (for testing)")
	startRow := flag.Int("start-row", 0, "0-based row index to start at")
	writeColumn := flag.String("write-column", "Body HTML", "Column to overwrite")
	statusColumn := flag.String("status-column", "AI Backfill Status", "Column to write status into")
	saveEvery := flag.Int("save-every", 10, "Save progress every N generated rows")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: backfill [flags] <export.csv>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	exportPath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := export.Load(exportPath)
	if err != nil {
		log.Fatalf("Failed to load export: %v", err)
	}
	if !store.HasColumn("ID") {
		log.Fatalf(`Export must include an "ID" column`)
	}
	if !store.HasColumn(*writeColumn) {
		log.Fatalf("Export is missing the %q column", *writeColumn)
	}
	store.EnsureColumn(*statusColumn)

	out := *outPath
	if out == "" {
		ext := filepath.Ext(exportPath)
		out = strings.TrimSuffix(exportPath, ext) + "_updated" + ext
	}

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

	// Every row is visited once, so no product cache is wired in
	service := usecase.NewBackfillService(nil, catalogClient, generationClient,
		usecase.BackfillServiceConfig{
			Classifier: usecase.ClassifierConfig{
				EditorNoteMaxWords:  cfg.Classifier.EditorNoteMaxWords,
				LegacyCharThreshold: cfg.Classifier.LegacyCharThreshold,
				LegacyWordThreshold: cfg.Classifier.LegacyWordThreshold,
				MinSignalPhrases:    cfg.Classifier.MinSignalPhrases,
				SignalPhrases:       cfg.Classifier.SignalPhrases,
			},
		})

	ctx := context.Background()
	total := store.Len()
	generated := 0

	log.Printf("[DRIVER] %d rows, starting at %d, writing to %s", total, *startRow, out)

	for idx := *startRow; idx < total; idx++ {
		if *limit > 0 && idx-*startRow >= *limit {
			break
		}

		rawID := store.Get(idx, "ID")
		result, err := service.ProcessProduct(ctx, rawID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidProductID):
				store.Set(idx, *statusColumn, "SKIPPED: invalid ID")
				continue
			case errors.Is(err, domain.ErrProductNotFound):
				store.Set(idx, *statusColumn, "SKIPPED: product not found")
				continue
			default:
				// Stop on hard failure after persisting progress; rerun
				// with -start-row to resume
				store.Set(idx, *statusColumn, fmt.Sprintf("FAILED: %v", err))
				if saveErr := store.Save(out); saveErr != nil {
					log.Printf("[DRIVER] save failed: %v", saveErr)
				}
				log.Fatalf("[DRIVER] row %d failed: %v", idx, err)
			}
		}

		if !result.Generated {
			store.Set(idx, *statusColumn, result.Status)
			continue
		}

		store.Set(idx, *writeColumn, result.DescriptionHTML)
		store.Set(idx, *statusColumn, "GENERATED")
		log.Printf("[DRIVER] [%d] %s: description written", idx, result.Title)
		generated++

		if *sleepSeconds > 0 {
			time.Sleep(time.Duration(*sleepSeconds * float64(time.Second)))
		}

		if *saveEvery > 0 && generated%*saveEvery == 0 {
			if err := store.Save(out); err != nil {
				log.Fatalf("[DRIVER] save failed: %v", err)
			}
		}
	}

	if err := store.Save(out); err != nil {
		log.Fatalf("[DRIVER] final save failed: %v", err)
	}
	log.Printf("[DRIVER] Done. Generated %d descriptions. Wrote: %s", generated, out)
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetOutput(os.Stderr)
}
