package errors

import (
	stdErrors "errors"
	"fmt"
)

// FetchError represents a failed asset download. It is only ever logged;
// a single failed asset never aborts a run.
type FetchError struct {
	URL        string
	StatusCode int   // 0 when the request never got a response
	Err        error // transport or write error, if any
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetching %s failed", e.URL)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchStatusError creates a FetchError for a non-2xx response
func NewFetchStatusError(url string, statusCode int) *FetchError {
	return &FetchError{URL: url, StatusCode: statusCode}
}

// NewFetchError creates a FetchError wrapping a transport or write error
func NewFetchError(url string, err error) *FetchError {
	return &FetchError{URL: url, Err: err}
}

// IsFetchError reports whether err is a FetchError (even when wrapped).
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return stdErrors.As(err, &fetchErr)
}
