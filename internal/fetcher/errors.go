package fetcher

import "errors"

var (
	// ErrStatusNotOK is returned when the response status is not 200 OK
	// and retrying can't help (4xx and redirects left unhandled by the client).
	ErrStatusNotOK = errors.New("response status is not 200 OK")
	// ErrServerStatus is returned when the response status is 5xx. It is
	// treated as transient and retried with backoff.
	ErrServerStatus = errors.New("response status is a server error")
)
