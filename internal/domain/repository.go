package domain

import (
	"context"
	"time"
)

// CatalogClient defines the interface for fetching product records from
// the catalog admin API.
type CatalogClient interface {
	GetProduct(ctx context.Context, gid string) (*ProductRecord, error)
}

// GenerationClient defines the interface for the external description
// generation service.
type GenerationClient interface {
	Generate(ctx context.Context, payload *GenerationPayload) (string, error)
}

// CacheRepository defines the interface for caching fetched product
// records between evaluations.
type CacheRepository interface {
	Get(ctx context.Context, key string) (*ProductRecord, error)
	Set(ctx context.Context, key string, record *ProductRecord, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
