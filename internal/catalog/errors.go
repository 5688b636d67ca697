package catalog

import (
	"fmt"
)

// NetworkError reports a transport failure: DNS, refused connection,
// reset, or a cancelled context.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("catalog request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError reports a response with a non-2xx status.
type HTTPError struct {
	Status int
	Path   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("catalog %s returned status %d", e.Path, e.Status)
}

// DecodeError reports a response body that is not a JSON product list.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode catalog: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
