package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonvault/backfill/internal/domain"
)

const productResponse = `{
  "data": {
    "product": {
      "id": "gid://shopify/Product/123456",
      "title": "Birkin 25 Togo",
      "vendor": "Hermès",
      "handle": "birkin-25-togo",
      "descriptionHtml": "<p>old text</p>",
      "bag_style": {"value": "[\"Birkin\"]"},
      "bag_size": {"value": "25.0"},
      "condition": null,
      "receipt": {"value": "Yes"},
      "accessories": null,
      "stamp": null,
      "hardware": null,
      "dimensions": null,
      "hermes_colour": {
        "references": {
          "nodes": [
            {"fields": [{"key": "black_grey", "value": "Black"}, {"key": "colour_code", "value": "89"}]}
          ]
        }
      },
      "hermes_material": null,
      "hermes_hardware": {
        "reference": {"fields": [{"key": "hardware_description", "value": "Palladium plated"}]}
      },
      "size_style_description": null,
      "hermes_construction": null
    }
  }
}`

func newTestClient(serverURL string) *Client {
	client := NewClient("example.myshopify.com", "test-token", "2025-07", 100)
	client.baseURL = serverURL
	return client
}

func TestGetProduct(t *testing.T) {
	t.Run("maps a full response into a product record", func(t *testing.T) {
		var gotToken, gotPath string
		var gotBody map[string]any

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotToken = r.Header.Get("X-Shopify-Access-Token")
			gotPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(productResponse))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		record, err := client.GetProduct(context.Background(), "gid://shopify/Product/123456")
		require.NoError(t, err)

		assert.Equal(t, "test-token", gotToken)
		assert.Equal(t, "/admin/api/2025-07/graphql.json", gotPath)
		variables, ok := gotBody["variables"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "gid://shopify/Product/123456", variables["id"])

		assert.Equal(t, "gid://shopify/Product/123456", record.ID)
		assert.Equal(t, "Birkin 25 Togo", record.Title)
		assert.Equal(t, "Hermès", record.Vendor)
		assert.Equal(t, "<p>old text</p>", record.DescriptionHTML)

		require.NotNil(t, record.BagStyle)
		assert.Equal(t, `["Birkin"]`, record.BagStyle.Value)
		assert.Nil(t, record.Condition)
		assert.Nil(t, record.Dimensions)

		require.Len(t, record.HermesColour, 1)
		assert.Equal(t, "Black", record.HermesColour[0].FieldValue("black_grey"))
		assert.Equal(t, "89", record.HermesColour[0].FieldValue("colour_code"))
		assert.Nil(t, record.HermesMaterial)

		require.NotNil(t, record.HermesHardware)
		assert.Equal(t, "Palladium plated", record.HermesHardware.FieldValue("hardware_description"))
		assert.Nil(t, record.SizeStyleDescription)
	})

	t.Run("returns ErrProductNotFound for a null product", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": {"product": null}}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.GetProduct(context.Background(), "gid://shopify/Product/404")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("surfaces GraphQL errors without retrying", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Write([]byte(`{"errors": [{"message": "Invalid global id"}]}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.GetProduct(context.Background(), "not-a-gid")
		assert.ErrorIs(t, err, domain.ErrCatalogAPIFailure)
		assert.Contains(t, err.Error(), "Invalid global id")
		assert.Equal(t, 1, calls)
	})

	t.Run("retries server errors then succeeds", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(productResponse))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		record, err := client.GetProduct(context.Background(), "gid://shopify/Product/123456")
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, "Birkin 25 Togo", record.Title)
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.GetProduct(context.Background(), "gid://shopify/Product/1")
		assert.ErrorIs(t, err, domain.ErrCatalogAPIFailure)
		assert.Equal(t, 3, calls)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(productResponse))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := newTestClient(server.URL)
		_, err := client.GetProduct(ctx, "gid://shopify/Product/1")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewClient(t *testing.T) {
	t.Run("defaults the rate limit", func(t *testing.T) {
		client := NewClient("example.myshopify.com", "token", "2025-07", 0)
		assert.Equal(t, 2.0, float64(client.rateLimiter.Limit()))
	})

	t.Run("uses the provided rate limit", func(t *testing.T) {
		client := NewClient("example.myshopify.com", "token", "2025-07", 4)
		assert.Equal(t, 4.0, float64(client.rateLimiter.Limit()))
	})

	t.Run("builds the base URL from the shop domain", func(t *testing.T) {
		client := NewClient("example.myshopify.com", "token", "2025-07", 2)
		assert.Equal(t, "https://example.myshopify.com", client.baseURL)
	})
}

func TestExponentialBackoff(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, exponentialBackoff(1))
	assert.Equal(t, 1*time.Second, exponentialBackoff(2))
	assert.Equal(t, 2*time.Second, exponentialBackoff(3))
}
