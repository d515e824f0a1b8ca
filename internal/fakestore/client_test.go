package fakestore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func sampleProducts() []Product {
	return []Product{
		{ID: 1, Title: "Red Hat", Price: 10, Category: "A", Rating: Rating{Rate: 4.1, Count: 12}},
		{ID: 2, Title: "Blue Hat", Price: 5, Category: "A", Rating: Rating{Rate: 3.9, Count: 120}},
		{ID: 3, Title: "Red Shoe", Price: 20, Category: "B"},
	}
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Options{BaseURL: url, BreakerFailures: 2, BreakerCooldown: time.Minute})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), defaultBaseURL)
	}

	u, err = parseBaseURL("http://example.com:1234/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "/api" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL returned nil error for missing host")
	}
}

func TestClient_FetchProductsAndHeaders(t *testing.T) {
	t.Parallel()

	var gotAgent, gotRequestID, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sampleProducts())
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL+"/v1")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	products, err := c.FetchProducts(ctx)
	if err != nil {
		t.Fatalf("FetchProducts returned error: %v", err)
	}
	if len(products) != 3 || products[1].Title != "Blue Hat" {
		t.Fatalf("FetchProducts = %#v, want 3 products in server order", products)
	}
	if gotPath != "/v1/products" {
		t.Fatalf("path = %q, want /v1/products", gotPath)
	}
	if !strings.HasPrefix(gotAgent, "showroom/") {
		t.Fatalf("User-Agent = %q, want showroom/*", gotAgent)
	}
	if len(gotRequestID) != 36 {
		t.Fatalf("X-Request-ID = %q, want a uuid", gotRequestID)
	}
}

func TestClient_FetchProductsDropsInvalidAndDuplicates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":1,"title":"Ok","price":1},
			{"id":0,"title":"No id","price":1},
			{"id":2,"title":"","price":1},
			{"id":3,"title":"Negative","price":-1},
			{"id":4,"title":"Bad rating","price":1,"rating":{"rate":9,"count":1}},
			{"id":1,"title":"Duplicate","price":2}
		]`))
	}))
	t.Cleanup(server.Close)

	products, err := newTestClient(t, server.URL).FetchProducts(context.Background())
	if err != nil {
		t.Fatalf("FetchProducts returned error: %v", err)
	}
	if len(products) != 1 || products[0].ID != 1 || products[0].Title != "Ok" {
		t.Fatalf("FetchProducts = %#v, want only the first valid record", products)
	}
}

func TestClient_FetchProduct(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/3":
			_ = json.NewEncoder(w).Encode(sampleProducts()[2])
		case "/products/99":
			// Unknown ids come back as an empty 200.
			w.WriteHeader(http.StatusOK)
		case "/products/98":
			_, _ = w.Write([]byte("null"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)

	p, err := c.FetchProduct(context.Background(), 3)
	if err != nil {
		t.Fatalf("FetchProduct returned error: %v", err)
	}
	if p.ID != 3 || p.Category != "B" {
		t.Fatalf("FetchProduct = %#v, want id=3 category=B", p)
	}

	for _, id := range []int64{99, 98, 404, -1} {
		if _, err := c.FetchProduct(context.Background(), id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("FetchProduct(%d) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products":
			_, _ = w.Write([]byte("{not-json"))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)

	_, err := c.FetchProducts(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchProducts error = %v, want decode response error", err)
	}

	_, err = c.FetchProduct(context.Background(), 1)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusInternalServerError {
		t.Fatalf("FetchProduct error = %v, want status 500 error", err)
	}
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	for i := 0; i < 2; i++ {
		if _, err := c.FetchProducts(context.Background()); err == nil {
			t.Fatalf("FetchProducts returned nil error, want status error")
		}
	}

	_, err := c.FetchProducts(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("FetchProducts error = %v, want ErrUnavailable", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("server hits = %d, want 2 (open breaker must short-circuit)", got)
	}
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	for i := 0; i < 5; i++ {
		if _, err := c.FetchProduct(context.Background(), 7); !errors.Is(err, ErrNotFound) {
			t.Fatalf("FetchProduct error = %v, want ErrNotFound", err)
		}
	}
}

func TestRatingStars(t *testing.T) {
	cases := map[float64]string{
		0:   "☆☆☆☆☆",
		3.9: "★★★☆☆",
		5:   "★★★★★",
		7:   "★★★★★",
	}
	for rate, want := range cases {
		if got := (Rating{Rate: rate}).Stars(); got != want {
			t.Fatalf("Stars(%v) = %q, want %q", rate, got, want)
		}
	}
}
