// internal/gateway/gateway.go

// Package gateway holds the thin HTTP accessors for the remote store API.
// Every call is a single request with no retry and no caching; caching is the
// catalog store's job.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"storeadmin/internal/logger"
	"storeadmin/internal/model"
)

const requestTimeout = 30 * time.Second

// Client is a stateless accessor for the remote store API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// do runs one request and decodes the JSON response into out (when out is
// non-nil). A non-2xx status is an error; the caller decides what to do with
// its cached state.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.LogWarn("Store API %s %s returned %d", method, path, resp.StatusCode)
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// FetchProducts returns the full remote product list.
func (c *Client) FetchProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchCategories returns the remote category labels.
func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/products/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// FetchProductsByCategory returns the remote products filtered server-side.
func (c *Client) FetchProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	var products []model.Product
	path := "/products/category/" + url.PathEscape(category)
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchProduct returns a single remote product by id.
func (c *Client) FetchProduct(ctx context.Context, id int64) (model.Product, error) {
	var product model.Product
	path := fmt.Sprintf("/products/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &product); err != nil {
		return model.Product{}, err
	}
	return product, nil
}

// CreateProduct posts a new product and returns the API's echo, which carries
// the assigned id.
func (c *Client) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	payload := map[string]interface{}{
		"title":       p.Title,
		"price":       p.Price,
		"description": p.Description,
		"category":    p.Category,
		"image":       p.Image,
	}
	var created model.Product
	if err := c.do(ctx, http.MethodPost, "/products", payload, &created); err != nil {
		return model.Product{}, err
	}
	return created, nil
}

// UpdateProduct puts the product and returns the API's echo.
func (c *Client) UpdateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	payload := map[string]interface{}{
		"id":          p.ID,
		"title":       p.Title,
		"price":       p.Price,
		"description": p.Description,
		"category":    p.Category,
		"image":       p.Image,
	}
	var updated model.Product
	path := fmt.Sprintf("/products/%d", p.ID)
	if err := c.do(ctx, http.MethodPut, path, payload, &updated); err != nil {
		return model.Product{}, err
	}
	return updated, nil
}

// DeleteProduct deletes a remote product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// FetchUser returns a store account by id.
func (c *Client) FetchUser(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// UpdateUser puts the account fields and returns the API's echo.
func (c *Client) UpdateUser(ctx context.Context, u model.User) (model.User, error) {
	payload := map[string]interface{}{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"password": u.Password,
	}
	var updated model.User
	path := fmt.Sprintf("/users/%d", u.ID)
	if err := c.do(ctx, http.MethodPut, path, payload, &updated); err != nil {
		return model.User{}, err
	}
	return updated, nil
}

// CreateCart posts a cart for the user and returns the created record.
func (c *Client) CreateCart(ctx context.Context, userID int64, items []model.CartItem) (model.Cart, error) {
	payload := map[string]interface{}{
		"userId":   userID,
		"products": items,
	}
	var cart model.Cart
	if err := c.do(ctx, http.MethodPost, "/carts", payload, &cart); err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// FetchCart returns a remote cart by id.
func (c *Client) FetchCart(ctx context.Context, id int64) (model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/carts/%d", id), nil, &cart); err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// FetchCartsByUser returns the remote carts recorded for a user.
func (c *Client) FetchCartsByUser(ctx context.Context, userID int64) ([]model.Cart, error) {
	var carts []model.Cart
	path := fmt.Sprintf("/carts/user/%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &carts); err != nil {
		return nil, err
	}
	return carts, nil
}
