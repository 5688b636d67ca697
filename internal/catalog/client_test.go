package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("shop.example.com:8443")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "shop.example.com:8443" {
		t.Fatalf("url = %q, want https://shop.example.com:8443", u.String())
	}

	u, err = parseBaseURL("http://example.com:1234/api?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestParseBaseURL_RejectsMissingHost(t *testing.T) {
	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL returned nil error, want error")
	}
}

func TestClient_FetchCatalogDecodesProducts(t *testing.T) {
	t.Parallel()

	var gotPath, gotAccept, gotUserAgent, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotAccept = r.Header.Get("Accept")
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"title":"Backpack","price":109.95,"description":"Fits laptops","image":"https://img/1.jpg","category":"bags","rating":{"rate":3.9,"count":120}},
			{"id":2,"title":"T-Shirt","price":22.3,"description":"Slim fit","image":"https://img/2.jpg","category":"clothing"}
		]`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	products, err := c.FetchCatalog(ctx)
	if err != nil {
		t.Fatalf("FetchCatalog returned error: %v", err)
	}
	if gotMethod != http.MethodGet || gotPath != "/products" {
		t.Fatalf("request = %s %s, want GET /products", gotMethod, gotPath)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
	if !strings.HasPrefix(gotUserAgent, "storefront/") {
		t.Fatalf("User-Agent = %q, want storefront/*", gotUserAgent)
	}
	if len(products) != 2 {
		t.Fatalf("len(products) = %d, want 2", len(products))
	}
	want := Product{ID: 1, Title: "Backpack", Price: 109.95, Description: "Fits laptops", Image: "https://img/1.jpg", Category: "bags"}
	if products[0] != want {
		t.Fatalf("products[0] = %#v, want %#v", products[0], want)
	}
}

func TestClient_FetchCatalogEmptyArray(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]Product{})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	products, err := c.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchCatalog returned error: %v", err)
	}
	if products == nil || len(products) != 0 {
		t.Fatalf("products = %#v, want empty non-nil slice", products)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusInternalServerError)
			},
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				if !errors.As(err, &httpErr) || httpErr.Status != http.StatusInternalServerError {
					t.Fatalf("error = %v, want HTTPError 500", err)
				}
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				if !errors.As(err, &httpErr) || httpErr.Status != http.StatusNotFound {
					t.Fatalf("error = %v, want HTTPError 404", err)
				}
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not-json"))
			},
			check: func(t *testing.T, err error) {
				var decodeErr *DecodeError
				if !errors.As(err, &decodeErr) {
					t.Fatalf("error = %v, want DecodeError", err)
				}
			},
		},
		{
			name: "object instead of array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"id":1}`))
			},
			check: func(t *testing.T, err error) {
				var decodeErr *DecodeError
				if !errors.As(err, &decodeErr) {
					t.Fatalf("error = %v, want DecodeError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			t.Cleanup(server.Close)

			c, err := NewClient(server.URL)
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			_, err = c.FetchCatalog(context.Background())
			if err == nil {
				t.Fatalf("FetchCatalog returned nil error")
			}
			tt.check(t, err)
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c, err := NewClient(addr)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchCatalog(context.Background())
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.FetchCatalog(context.Background()); err == nil {
		t.Fatalf("FetchCatalog on nil client returned nil error")
	}
}

func TestCloneProducts_IndependentAndNonNil(t *testing.T) {
	if got := CloneProducts(nil); got == nil || len(got) != 0 {
		t.Fatalf("CloneProducts(nil) = %#v, want empty non-nil", got)
	}
	src := []Product{{ID: 1, Title: "a"}}
	dup := CloneProducts(src)
	dup[0].Title = "b"
	if src[0].Title != "a" {
		t.Fatalf("CloneProducts shares backing array")
	}
}
