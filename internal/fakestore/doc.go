// Package fakestore provides an HTTP client for fake store compatible product
// APIs such as https://fakestoreapi.com.
//
// # Endpoints
//
//   - GET /products: JSON array of products, server order preserved
//   - GET /products/{id}: one product; 404, an empty body or null means not found
//
// # Client Behavior
//
// Every request passes through a token-bucket rate limiter
// (golang.org/x/time/rate) and a circuit breaker (sony/gobreaker). Transport
// errors and 5xx responses count as breaker failures; ErrNotFound and 4xx do
// not. While the breaker is open calls fail fast with ErrUnavailable. Nothing
// is retried automatically; retries are the caller's decision.
//
// Decoded records go through presence checks (go-playground/validator). List
// entries that fail are dropped and logged, and so are repeated ids, so a
// returned list never contains the same id twice.
//
// # Usage
//
//	client, err := fakestore.NewClient(fakestore.Options{BaseURL: cfg.APIBaseURL})
//	if err != nil {
//		return err
//	}
//	products, err := client.FetchProducts(ctx)
package fakestore
