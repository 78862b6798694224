package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/maisonvault/backfill/internal/domain"
)

type fakeCatalog struct {
	records map[string]*domain.ProductRecord
	err     error
	calls   int
}

func (f *fakeCatalog) GetProduct(ctx context.Context, gid string) (*domain.ProductRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	record, ok := f.records[gid]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return record, nil
}

type fakeGenerator struct {
	response string
	err      error
	calls    int
	payload  *domain.GenerationPayload
}

func (f *fakeGenerator) Generate(ctx context.Context, payload *domain.GenerationPayload) (string, error) {
	f.calls++
	f.payload = payload
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeCache struct {
	entries map[string]*domain.ProductRecord
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.ProductRecord)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (*domain.ProductRecord, error) {
	record, ok := f.entries[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return record, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, record *domain.ProductRecord, ttl time.Duration) error {
	f.sets++
	f.entries[key] = record
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

func (f *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.entries[key]
	return ok, nil
}

func legacyRecord(gid string) *domain.ProductRecord {
	return &domain.ProductRecord{
		ID:              gid,
		Title:           "Kelly 28 Epsom",
		Vendor:          "Hermès",
		Handle:          "kelly-28-epsom",
		BagStyle:        mf(`["Kelly"]`),
		DescriptionHTML: legacyDescription("timeless"),
	}
}

func TestEvaluateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unusable identifier", func(t *testing.T) {
		service := NewBackfillService(nil, &fakeCatalog{}, &fakeGenerator{}, BackfillServiceConfig{})

		_, _, err := service.EvaluateProduct(ctx, "nan")
		if !errors.Is(err, domain.ErrInvalidProductID) {
			t.Errorf("err = %v, want ErrInvalidProductID", err)
		}
	})

	t.Run("normalizes spreadsheet identifier before fetch", func(t *testing.T) {
		gid := "gid://shopify/Product/123456"
		catalog := &fakeCatalog{records: map[string]*domain.ProductRecord{gid: legacyRecord(gid)}}
		service := NewBackfillService(nil, catalog, &fakeGenerator{}, BackfillServiceConfig{})

		record, outcome, err := service.EvaluateProduct(ctx, "123456.0")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record.ID != gid {
			t.Errorf("record.ID = %q, want %q", record.ID, gid)
		}
		if !outcome.ShouldProcess {
			t.Errorf("outcome = %+v, want ShouldProcess", outcome)
		}
	})

	t.Run("propagates catalog failure", func(t *testing.T) {
		catalog := &fakeCatalog{err: domain.ErrCatalogAPIFailure}
		service := NewBackfillService(nil, catalog, &fakeGenerator{}, BackfillServiceConfig{})

		_, _, err := service.EvaluateProduct(ctx, "123456")
		if !errors.Is(err, domain.ErrCatalogAPIFailure) {
			t.Errorf("err = %v, want ErrCatalogAPIFailure", err)
		}
	})

	t.Run("serves repeat evaluations from cache", func(t *testing.T) {
		gid := "gid://shopify/Product/77"
		catalog := &fakeCatalog{records: map[string]*domain.ProductRecord{gid: legacyRecord(gid)}}
		cache := newFakeCache()
		service := NewBackfillService(cache, catalog, &fakeGenerator{}, BackfillServiceConfig{})

		for i := 0; i < 3; i++ {
			if _, _, err := service.EvaluateProduct(ctx, "77"); err != nil {
				t.Fatalf("evaluate %d: %v", i, err)
			}
		}

		if catalog.calls != 1 {
			t.Errorf("catalog calls = %d, want 1", catalog.calls)
		}
		if cache.sets != 1 {
			t.Errorf("cache sets = %d, want 1", cache.sets)
		}
	})
}

func TestProcessProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("skip disposition is a result, not an error", func(t *testing.T) {
		gid := "gid://shopify/Product/1"
		record := legacyRecord(gid)
		record.BagStyle = nil
		catalog := &fakeCatalog{records: map[string]*domain.ProductRecord{gid: record}}
		generator := &fakeGenerator{response: "<p>new</p>"}
		service := NewBackfillService(nil, catalog, generator, BackfillServiceConfig{})

		result, err := service.ProcessProduct(ctx, "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Generated {
			t.Error("result.Generated = true, want false for skip")
		}
		if !strings.HasPrefix(result.Status, "SKIPPED:") {
			t.Errorf("Status = %q, want SKIPPED prefix", result.Status)
		}
		if generator.calls != 0 {
			t.Errorf("generator called %d times on a skip, want 0", generator.calls)
		}
	})

	t.Run("generates a description for a processable product", func(t *testing.T) {
		gid := "gid://shopify/Product/2"
		record := legacyRecord(gid)
		record.Condition = mf(`["Brand New"]`)
		catalog := &fakeCatalog{records: map[string]*domain.ProductRecord{gid: record}}
		generator := &fakeGenerator{response: "<p>A timeless Kelly.</p>"}
		service := NewBackfillService(nil, catalog, generator, BackfillServiceConfig{})

		result, err := service.ProcessProduct(ctx, "2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Generated || result.Status != "GENERATED" {
			t.Errorf("result = %+v, want Generated with Status GENERATED", result)
		}
		if result.DescriptionHTML != "<p>A timeless Kelly.</p>" {
			t.Errorf("DescriptionHTML = %q", result.DescriptionHTML)
		}

		if generator.payload == nil {
			t.Fatal("generator received no payload")
		}
		if generator.payload.Product.ID != gid {
			t.Errorf("payload product ID = %q, want %q", generator.payload.Product.ID, gid)
		}
		if generator.payload.Structured.Specifications["bag_style"] != "Kelly" {
			t.Errorf("payload bag_style = %v, want Kelly", generator.payload.Structured.Specifications["bag_style"])
		}
		if generator.payload.Structured.Specifications["condition"] != "Brand New" {
			t.Errorf("payload condition = %v", generator.payload.Structured.Specifications["condition"])
		}
	})

	t.Run("carries the editor note into the payload", func(t *testing.T) {
		gid := "gid://shopify/Product/3"
		record := legacyRecord(gid)
		record.DescriptionHTML = "<p>Ex-display, light wear on corners.</p>"
		catalog := &fakeCatalog{records: map[string]*domain.ProductRecord{gid: record}}
		generator := &fakeGenerator{response: "<p>done</p>"}
		service := NewBackfillService(nil, catalog, generator, BackfillServiceConfig{})

		if _, err := service.ProcessProduct(ctx, "3"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := generator.payload.Structured.EditorNote; got != record.DescriptionHTML {
			t.Errorf("EditorNote = %q, want original markup verbatim", got)
		}
	})

	t.Run("propagates generation failure", func(t *testing.T) {
		gid := "gid://shopify/Product/4"
		catalog := &fakeCatalog{records: map[string]*domain.ProductRecord{gid: legacyRecord(gid)}}
		generator := &fakeGenerator{err: domain.ErrGenerationContract}
		service := NewBackfillService(nil, catalog, generator, BackfillServiceConfig{})

		_, err := service.ProcessProduct(ctx, "4")
		if !errors.Is(err, domain.ErrGenerationContract) {
			t.Errorf("err = %v, want ErrGenerationContract", err)
		}
	})

	t.Run("propagates not found", func(t *testing.T) {
		catalog := &fakeCatalog{records: map[string]*domain.ProductRecord{}}
		service := NewBackfillService(nil, catalog, &fakeGenerator{}, BackfillServiceConfig{})

		_, err := service.ProcessProduct(ctx, "999")
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("err = %v, want ErrProductNotFound", err)
		}
	})
}
