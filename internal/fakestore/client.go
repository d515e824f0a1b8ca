package fakestore

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

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// ErrNotFound reports that the requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrUnavailable reports that the circuit breaker is refusing calls.
	ErrUnavailable = errors.New("product source unavailable")
)

// Source fetches products from the remote catalog.
// This interface is implemented by *Client and can be used for testing.
type Source interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchProduct(ctx context.Context, id int64) (*Product, error)
}

// Ensure Client implements Source at compile time.
var _ Source = (*Client)(nil)

// Options configure a Client. Zero values use defaults.
type Options struct {
	BaseURL         string
	Timeout         time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	BreakerFailures uint32
	BreakerCooldown time.Duration
	Logger          *zap.Logger
	HTTPClient      *http.Client
}

// Client talks to a fake store compatible REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker[[]byte]
	validate  *validator.Validate
	logger    *zap.Logger
}

const (
	defaultBaseURL         = "https://fakestoreapi.com"
	defaultUserAgent       = "showroom/0.1"
	defaultTimeout         = 10 * time.Second
	defaultBreakerFailures = 3
	defaultBreakerCooldown = 15 * time.Second
)

// NewClient builds a Client for the API rooted at opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	burst := max(opts.RateLimitBurst, 1)
	if opts.RateLimitRPS > 0 {
		limit = rate.Limit(opts.RateLimitRPS)
	}

	failures := opts.BreakerFailures
	if failures == 0 {
		failures = defaultBreakerFailures
	}
	cooldown := opts.BreakerCooldown
	if cooldown <= 0 {
		cooldown = defaultBreakerCooldown
	}

	c := &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: defaultUserAgent,
		limiter:   rate.NewLimiter(limit, burst),
		validate:  validator.New(),
		logger:    logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "fakestore",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return c, nil
}

// FetchProducts retrieves the full product list. Records failing presence
// checks and repeated ids are dropped.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, err := c.get(ctx, "/products")
	if err != nil {
		return nil, err
	}

	var payload []Product
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	products := make([]Product, 0, len(payload))
	seen := make(map[int64]struct{}, len(payload))
	for _, p := range payload {
		if err := c.validate.Struct(p); err != nil {
			c.logger.Warn("dropping invalid product", zap.Int64("id", p.ID), zap.Error(err))
			continue
		}
		if _, dup := seen[p.ID]; dup {
			c.logger.Warn("dropping duplicate product", zap.Int64("id", p.ID))
			continue
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}
	return products, nil
}

// FetchProduct retrieves a single product by id.
func (c *Client) FetchProduct(ctx context.Context, id int64) (*Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return nil, fmt.Errorf("product id %d: %w", id, ErrNotFound)
	}
	body, err := c.get(ctx, "/products/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}

	// The public API answers unknown ids with 200 and an empty body.
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("product id %d: %w", id, ErrNotFound)
	}

	var p Product
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if err := c.validate.Struct(p); err != nil {
		c.logger.Warn("invalid product record", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("product id %d: %w", id, ErrNotFound)
	}
	return &p, nil
}

// StatusError is returned for HTTP responses with status >= 400 other than 404.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, path)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, err
}

func (c *Client) do(ctx context.Context, path string) ([]byte, error) {
	rel := &url.URL{Path: strings.TrimRight(c.baseURL.Path, "/") + path}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		zap.String("request_id", requestID),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("api %s: %w", path, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return nil, &StatusError{Path: path, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// isBreakerSuccess keeps client-side outcomes from tripping the breaker.
func isBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code < 500
	}
	return false
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
