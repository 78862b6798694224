package domain

import "errors"

var (
	// ErrProductNotFound is returned when the catalog API has no product
	// for the requested identifier
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrInvalidProductID is returned when a row identifier cannot be
	// normalized into a usable product identifier
	ErrInvalidProductID = errors.New("invalid product identifier")

	// ErrCatalogAPIFailure is returned when a catalog admin API request fails
	ErrCatalogAPIFailure = errors.New("catalog API request failed")

	// ErrGenerationFailure is returned when the generation service request fails
	ErrGenerationFailure = errors.New("generation service request failed")

	// ErrGenerationContract is returned when the generation service
	// responds without the expected description markup field
	ErrGenerationContract = errors.New("generation response missing description_html")

	// ErrCacheMiss is returned when a product is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
