package trading

import "fmt"

// APIError is a non-success HTTP response from the exchange. The raw body
// is kept verbatim; it is the only diagnostic the exchange provides.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Body)
}

// DecodeError is a response body that did not match the expected shape.
// Response shapes differ between the single- and multi-order endpoints,
// so the raw text is preserved rather than silently truncated.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v. response was: %s", e.Err, e.Body)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TransportError is a request that never produced an HTTP response (DNS,
// connect, TLS, timeout). Distinct from APIError so callers can tell
// "request never reached the server" from "server rejected the request".
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
