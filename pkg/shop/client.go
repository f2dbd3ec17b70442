package shop

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
)

const (
	defaultBaseURL             = "http://o-complex.com:1337"
	errorBodyReadLimit   int64 = 1024
	defaultClientTimeout       = 10 * time.Second
)

var errBaseURLRequired = errors.New("shop base url is required")

// Product is the catalog entry the upstream API serves.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

// ProductsPage is one page of the paginated catalog.
type ProductsPage struct {
	Page   int       `json:"page"`
	Amount int       `json:"amount"`
	Total  int       `json:"total"`
	Items  []Product `json:"items"`
}

// Review is one customer review with a rich-text body.
type Review struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// OrderItem is one (product id, quantity) pair of an order submission.
type OrderItem struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// OrderRequest is the payload the upstream order endpoint accepts. Phone must
// already be digits only.
type OrderRequest struct {
	Phone string      `json:"phone"`
	Cart  []OrderItem `json:"cart"`
}

// OrderResponse reports the upstream's verdict. Success is 1 on acceptance.
type OrderResponse struct {
	Success int    `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Accepted reports whether the upstream explicitly confirmed the order.
func (r OrderResponse) Accepted() bool {
	return r.Success == 1
}

// Client wraps the remote commerce API the storefront fronts.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default transport timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds the commerce API client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultClientTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Products fetches one catalog page.
func (c *Client) Products(ctx context.Context, page, pageSize int) (*ProductsPage, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shop client not configured")
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	endpoint := fmt.Sprintf("%s/products?%s", c.baseURL, query.Encode())

	var result ProductsPage
	if err := c.getJSON(ctx, endpoint, "products", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Reviews fetches all customer reviews.
func (c *Client) Reviews(ctx context.Context) ([]Review, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shop client not configured")
	}

	var result []Review
	if err := c.getJSON(ctx, c.baseURL+"/reviews", "reviews", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SubmitOrder posts an order and returns the upstream verdict.
func (c *Client) SubmitOrder(ctx context.Context, order OrderRequest) (*OrderResponse, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shop client not configured")
	}

	payload, err := json.Marshal(order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal order request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/order", bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute order request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, "order request failed")
	}

	var result OrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order response")
	}
	return &result, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, operation string, dest any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build "+operation+" request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+operation+" request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp, operation+" request failed")
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+operation+" response")
	}
	return nil
}

func statusError(resp *http.Response, message string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	return pkgerrors.Wrap(
		pkgerrors.CodeDependency,
		fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		message,
	)
}
