// Package catalog provides the HTTP client for the remote product catalog.
//
// The client issues a single GET {base}/products and decodes a JSON array
// of products. It has no cache and no retry policy; the app layer decides
// when to try again.
//
// Failures are typed so callers can branch with errors.As:
//
//   - *NetworkError: the request never produced a response
//   - *HTTPError: the server answered with a non-2xx status
//   - *DecodeError: the body was not a product list
//
// The base URL accepts a bare host ("fakestoreapi.com") or a full URL; the
// scheme defaults to https and any path, query or fragment is dropped.
package catalog
