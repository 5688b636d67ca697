package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Fetcher loads the product catalog. *Client implements it; tests stub it.
type Fetcher interface {
	FetchCatalog(ctx context.Context) ([]Product, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the store's product API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultBaseURL is the public catalog used when none is configured.
	DefaultBaseURL   = "https://fakestoreapi.com"
	defaultUserAgent = "storefront/0.1"
	productsPath     = "/products"
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport. The default is an http.Client with
// no timeout of its own; callers own retry and deadline policy.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized root the client requests against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchCatalog issues GET {base}/products and decodes the product list.
func (c *Client) FetchCatalog(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, errors.New("client is nil")
	}
	var payload []Product
	if err := c.get(ctx, productsPath, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = []Product{}
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Status: resp.StatusCode, Path: path}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, errors.Wrapf(err, "parse base url %q", raw)
	}
	if u.Host == "" {
		return nil, errors.Errorf("base url %q has no host", raw)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
