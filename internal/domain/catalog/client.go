// internal/domain/catalog/client.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
)

// Client consumes the remote product catalog API. The catalog's behavior
// is an external contract; this client only shapes requests and decodes
// the documented envelopes.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger
}

// NewClient creates a catalog client. No request timeout is set beyond
// transport defaults.
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Catalog.BaseURL, "/"),
		http:    &http.Client{},
		logger:  logger,
	}
}

// List fetches one page of the general product listing
func (c *Client) List(ctx context.Context, limit, skip int) (*Page, error) {
	var page Page
	if err := c.getJSON(ctx, "/products", pagination(limit, skip), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Search fetches one page of free-text search results
func (c *Client) Search(ctx context.Context, query string, limit, skip int) (*Page, error) {
	params := pagination(limit, skip)
	params.Set("q", query)

	var page Page
	if err := c.getJSON(ctx, "/products/search", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ByCategory fetches one page of a category listing
func (c *Client) ByCategory(ctx context.Context, slug string, limit, skip int) (*Page, error) {
	var page Page
	path := "/products/category/" + url.PathEscape(slug)
	if err := c.getJSON(ctx, path, pagination(limit, skip), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a single product by ID
func (c *Client) Get(ctx context.Context, id int) (*Product, error) {
	var product Product
	path := "/products/" + strconv.Itoa(id)
	if err := c.getJSON(ctx, path, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories fetches the category enumeration
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.getJSON(ctx, "/products/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func pagination(limit, skip int) url.Values {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("skip", strconv.Itoa(skip))
	return params
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return nil
}
