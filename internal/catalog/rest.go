package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/soundline/catalog-sync/internal/metrics"
	domain "github.com/soundline/catalog-sync/pkg/types"
)

// RESTClient implements Client against a JSON catalog API:
//
//	GET  {base}/products/search?q=term
//	POST {base}/products
//	PUT  {base}/products/{id}
type RESTClient struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
}

// RESTOption configures the RESTClient.
type RESTOption func(*RESTClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) RESTOption {
	return func(c *RESTClient) {
		c.client = hc
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) RESTOption {
	return func(c *RESTClient) {
		c.token = token
	}
}

// WithRateLimit caps outgoing API calls.
func WithRateLimit(perSecond float64, burst int) RESTOption {
	return func(c *RESTClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewRESTClient creates a catalog API client for the given base URL.
func NewRESTClient(baseURL string, opts ...RESTOption) *RESTClient {
	c := &RESTClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchAPIResponse struct {
	Products []productPayload `json:"products"`
	Total    int              `json:"total"`
}

type productPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Model       string `json:"model"`
	SKU         string `json:"sku"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// Search queries the catalog for products matching term.
func (c *RESTClient) Search(ctx context.Context, term string) ([]domain.CatalogEntry, error) {
	u := c.baseURL + "/products/search?" + url.Values{"q": {term}}.Encode()

	body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	metrics.CatalogSearchesTotal.Inc()

	var apiResp searchAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	entries := make([]domain.CatalogEntry, 0, len(apiResp.Products))
	for _, p := range apiResp.Products {
		entries = append(entries, domain.CatalogEntry{
			ID:          p.ID,
			Name:        p.Name,
			Model:       p.Model,
			SKU:         p.SKU,
			PriceRaw:    p.Price,
			Description: p.Description,
		})
	}
	return entries, nil
}

// CreateProduct adds a product and returns its new catalog ID.
func (c *RESTClient) CreateProduct(ctx context.Context, p ProductInput) (string, error) {
	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/products", p)
	if err != nil {
		return "", err
	}
	metrics.CatalogWritesTotal.WithLabelValues("create").Inc()

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("parsing create response: %w", err)
	}
	return created.ID, nil
}

// UpdateProduct replaces the product with the given catalog ID.
func (c *RESTClient) UpdateProduct(ctx context.Context, id string, p ProductInput) error {
	_, err := c.do(ctx, http.MethodPut, c.baseURL+"/products/"+url.PathEscape(id), p)
	if err != nil {
		return err
	}
	metrics.CatalogWritesTotal.WithLabelValues("update").Inc()
	return nil
}

func (c *RESTClient) do(ctx context.Context, method, u string, payload any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	var reqBody io.Reader = http.NoBody
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.CatalogErrorsTotal.Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.CatalogErrorsTotal.Inc()
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.CatalogErrorsTotal.Inc()
		return nil, fmt.Errorf("catalog API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}
