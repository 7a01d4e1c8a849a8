package core

import (
	"net/http"
	"time"
)

// GetHTTPClient returns an HTTP client with the given timeout.
// A zero timeout means no client-side bound; the backend's 504 is then
// the only timeout signal.
func GetHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}
