package upstream

import "fmt"

// NetworkError indicates the transport could not reach the upstream host
// at all. The presentation layer shows "check your connection" for these.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("upstream unreachable at %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError indicates the upstream responded with a non-2xx status. The
// message is extracted best-effort from the response body.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}
