package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/maisonvault/backfill/internal/domain"
	"golang.org/x/time/rate"
)

// productQuery fetches a product's identity, existing description and
// the custom-namespace metafields the extractor consumes, resolving
// metaobject references down to their key/value fields.
const productQuery = `
query ($id: ID!) {
  product(id: $id) {
    id
    title
    vendor
    handle
    descriptionHtml

    bag_style: metafield(namespace:"custom", key:"bag_style") { value }
    bag_size: metafield(namespace:"custom", key:"bag_size") { value }
    condition: metafield(namespace:"custom", key:"condition") { value }
    receipt: metafield(namespace:"custom", key:"receipt") { value }
    accessories: metafield(namespace:"custom", key:"accessories") { value }
    stamp: metafield(namespace:"custom", key:"stamp") { value }
    hardware: metafield(namespace:"custom", key:"hardware") { value }
    dimensions: metafield(namespace:"custom", key:"dimensions") { value }

    hermes_colour: metafield(namespace:"custom", key:"hermes_colour") {
      references(first: 10) {
        nodes { ... on Metaobject { fields { key value } } }
      }
    }

    hermes_material: metafield(namespace:"custom", key:"hermes_material") {
      references(first: 10) {
        nodes { ... on Metaobject { fields { key value } } }
      }
    }

    hermes_hardware: metafield(namespace:"custom", key:"hermes_hardware") {
      reference { ... on Metaobject { fields { key value } } }
    }

    size_style_description: metafield(namespace:"custom", key:"size_style_description") {
      reference { ... on Metaobject { fields { key value } } }
    }

    hermes_construction: metafield(namespace:"custom", key:"hermes_construction") {
      reference { ... on Metaobject { fields { key value } } }
    }
  }
}
`

// Client handles communication with the Shopify Admin GraphQL API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	adminToken  string
	apiVersion  string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Shopify Admin API client. requestsPerSecond
// tunes the outbound rate limiter; zero or negative selects the default
// of 2 req/sec, which stays under the Admin API cost budget.
func NewClient(shopDomain, adminToken, apiVersion string, requestsPerSecond float64) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2.0
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL:     fmt.Sprintf("https://%s", shopDomain),
		adminToken:  adminToken,
		apiVersion:  apiVersion,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 5),
	}
}

// SetDebug enables or disables request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the delay before the given retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return 500 * time.Millisecond << (attempt - 1)
}

// GetProduct fetches one product record by its global identifier.
// Transient transport and 5xx failures are retried up to 3 times;
// a missing product returns domain.ErrProductNotFound.
func (c *Client) GetProduct(ctx context.Context, gid string) (*domain.ProductRecord, error) {
	if c.debug {
		log.Printf("[SHOPIFY] GetProduct called with id: %q", gid)
	}

	reqBody, err := json.Marshal(map[string]any{
		"query":     productQuery,
		"variables": map[string]any{"id": gid},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/admin/api/%s/graphql.json", c.baseURL, c.apiVersion)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL, reqBody)
		if err != nil {
			log.Printf("[SHOPIFY] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[SHOPIFY] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, truncate(string(body), 500))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogAPIFailure, resp.StatusCode)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		var gqlResp graphqlResponse
		if err := json.Unmarshal(body, &gqlResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		// GraphQL-level errors are not transient; surface them directly
		if len(gqlResp.Errors) > 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrCatalogAPIFailure, gqlResp.Errors[0].Message)
		}

		if gqlResp.Data.Product == nil {
			return nil, domain.ErrProductNotFound
		}

		return mapToProductRecord(gqlResp.Data.Product), nil
	}

	log.Printf("[SHOPIFY] All retries failed for id: %q", gid)
	return nil, lastErr
}

// doRequest executes the GraphQL POST with the admin token headers
func (c *Client) doRequest(ctx context.Context, reqURL string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.adminToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogAPIFailure, err)
	}

	return resp, nil
}

// truncate caps a response body for log output
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
