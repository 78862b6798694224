package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/maisonvault/backfill/internal/domain"
)

// BackfillServiceConfig holds configuration for the backfill service
type BackfillServiceConfig struct {
	CacheTTL   time.Duration
	Classifier ClassifierConfig
}

// BackfillService orchestrates the per-product pipeline: normalize the
// row identifier, fetch the record, classify the existing description
// and, when warranted, extract the specification and call the
// generation service.
type BackfillService struct {
	cache      domain.CacheRepository
	catalog    domain.CatalogClient
	generator  domain.GenerationClient
	classifier *Classifier
	cacheTTL   time.Duration
}

// NewBackfillService creates a backfill service with dependencies
func NewBackfillService(
	cache domain.CacheRepository,
	catalog domain.CatalogClient,
	generator domain.GenerationClient,
	config BackfillServiceConfig,
) *BackfillService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	return &BackfillService{
		cache:      cache,
		catalog:    catalog,
		generator:  generator,
		classifier: NewClassifier(config.Classifier),
		cacheTTL:   cacheTTL,
	}
}

// EvaluateProduct fetches a product and classifies its existing
// description without calling the generation service. The raw
// identifier may be a numeric export-row ID or a full gid.
func (s *BackfillService) EvaluateProduct(ctx context.Context, rawID string) (*domain.ProductRecord, domain.ClassificationOutcome, error) {
	gid := NormalizeProductID(rawID)
	if gid == "" {
		return nil, domain.ClassificationOutcome{}, fmt.Errorf("%w: %q", domain.ErrInvalidProductID, rawID)
	}

	record, err := s.fetchProduct(ctx, gid)
	if err != nil {
		return nil, domain.ClassificationOutcome{}, err
	}

	outcome := s.classifier.Classify(domain.MetafieldValue(record.BagStyle), record.DescriptionHTML)
	return record, outcome, nil
}

// ProcessProduct runs the full pipeline for one product. A skip
// disposition is a result, not an error; catalog failures and
// generation contract violations are errors.
func (s *BackfillService) ProcessProduct(ctx context.Context, rawID string) (*domain.BackfillResult, error) {
	record, outcome, err := s.EvaluateProduct(ctx, rawID)
	if err != nil {
		return nil, err
	}

	log.Printf("[BACKFILL] %s: %s", record.Title, outcome.Reason)

	if !outcome.ShouldProcess {
		return &domain.BackfillResult{
			ProductID: record.ID,
			Title:     record.Title,
			Status:    outcome.Reason,
		}, nil
	}

	spec := BuildSpecification(record, outcome.EditorNote)
	payload := &domain.GenerationPayload{
		Product:    IdentityOf(record),
		Structured: *spec,
	}

	descriptionHTML, err := s.generator.Generate(ctx, payload)
	if err != nil {
		return nil, err
	}

	return &domain.BackfillResult{
		ProductID:       record.ID,
		Title:           record.Title,
		Status:          "GENERATED",
		Generated:       true,
		DescriptionHTML: descriptionHTML,
	}, nil
}

// fetchProduct checks the cache before hitting the catalog API.
func (s *BackfillService) fetchProduct(ctx context.Context, gid string) (*domain.ProductRecord, error) {
	if s.cache != nil {
		if record, err := s.cache.Get(ctx, gid); err == nil && record != nil {
			return record, nil
		}
	}

	record, err := s.catalog.GetProduct(ctx, gid)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, gid, record, s.cacheTTL); err != nil {
			log.Printf("[BACKFILL] cache set failed for %s: %v", gid, err)
		}
	}

	return record, nil
}
