package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/maisonvault/backfill/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with the description generation webhook
type Client struct {
	httpClient  *http.Client
	url         string
	bearerToken string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new generation service client. requestsPerSecond
// tunes the outbound rate limiter; zero or negative selects 1 req/sec.
// Generation calls are slow (LLM-backed), so the timeout is generous.
func NewClient(url, bearerToken string, requestsPerSecond float64, timeout time.Duration) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1.0
	}
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url:         url,
		bearerToken: bearerToken,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// SetDebug enables or disables request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Generate posts the structured payload and returns the replacement
// description markup. A response lacking the description_html field is
// a contract violation and is never retried; the error carries the keys
// the response did contain for diagnosis.
func (c *Client) Generate(ctx context.Context, payload *domain.GenerationPayload) (string, error) {
	if c.debug {
		log.Printf("[GENERATOR] Generate called for product: %q", payload.Product.ID)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailure, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d, body: %s", domain.ErrGenerationFailure, resp.StatusCode, truncate(string(body), 500))
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("%w: non-object JSON response", domain.ErrGenerationFailure)
	}

	descriptionHTML, _ := data["description_html"].(string)
	if descriptionHTML == "" {
		return "", fmt.Errorf("%w (keys=%v)", domain.ErrGenerationContract, sortedKeys(data))
	}

	return descriptionHTML, nil
}

// sortedKeys lists response keys deterministically for error messages
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// truncate caps a response body for error output
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
