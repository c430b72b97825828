package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	UserAgent = "whatson/1.0 (github.com/mindriot101/whatson)"
	Timeout   = 30 * time.Second
	// MaxBodySize caps how much of a listing page is read.
	MaxBodySize = 10 << 20
)

// ErrBodyTooLarge is returned for pages larger than MaxBodySize.
var ErrBodyTooLarge = errors.New("response body too large")

// Fetcher returns the body of the page at url
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchError reports a listing page that could not be retrieved.
// StatusCode is set when the server answered with a non-200 status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// HTTP fetches pages with a plain GET
type HTTP struct {
	client    *http.Client
	userAgent string
}

// NewHTTP creates an HTTP fetcher whose requests give up after timeout
func NewHTTP(timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = Timeout
	}
	return &HTTP{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: UserAgent,
	}
}

// Fetch GETs url and returns the response body
func (f *HTTP) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}
	if len(body) > MaxBodySize {
		return "", &FetchError{URL: url, Err: fmt.Errorf("%w: exceeds %d bytes", ErrBodyTooLarge, MaxBodySize)}
	}
	return string(body), nil
}
