package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/llatelier/storefront/pkg/errors"
)

const (
	responseBodyReadLimit int64 = 1 << 20

	defaultTimeout = 10 * time.Second
)

var errBaseURLRequired = errors.New("shop api base url is required")

// Client wraps the remote shop API the storefront presents: products, orders,
// checkout sessions and contact messages. The storefront never implements any
// of these itself.
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

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds the shop API client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return client, nil
}

// ListProducts fetches the catalog, optionally filtered by category.
func (c *Client) ListProducts(ctx context.Context, category string) ([]Product, error) {
	path := "/products"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var products []Product
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one product snapshot by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	var product Product
	if err := c.doJSON(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateOrder submits the cart contents with the customer details and returns
// the created order.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.doJSON(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateCheckoutSession asks the payment provider for a hosted-checkout
// redirect URL for the given order.
func (c *Client) CreateCheckoutSession(ctx context.Context, req CreateSessionRequest) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := c.doJSON(ctx, http.MethodPost, "/checkout/session", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CheckoutStatus queries the payment status for a checkout session.
func (c *Client) CheckoutStatus(ctx context.Context, sessionID string) (*CheckoutStatus, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	var status CheckoutStatus
	if err := c.doJSON(ctx, http.MethodGet, "/checkout/status/"+url.PathEscape(sessionID), nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SendContact forwards a contact-form message.
func (c *Client) SendContact(ctx context.Context, req ContactRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/contact", req, nil)
}

// Ping checks that the shop API answers at all. Any 2xx from the health
// endpoint counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, dest any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request payload")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building shop api request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "shop api unreachable")
	}
	defer func() {
		io.Copy(io.Discard, io.LimitReader(resp.Body, responseBodyReadLimit))
		resp.Body.Close()
	}()

	if err := statusError(resp, path); err != nil {
		return err
	}

	if dest == nil {
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading shop api response")
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding shop api response")
	}
	return nil
}

func statusError(resp *http.Response, path string) error {
	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("shop api: %s not found", path))
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("shop api rejected %s (%d)", path, resp.StatusCode))
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("shop api error on %s (%d)", path, resp.StatusCode))
	}
}
