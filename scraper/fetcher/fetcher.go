package fetcher

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// DefaultUserAgent is sent when the caller supplies no User-Agent header.
// Both listing sites reject requests without one.
const DefaultUserAgent = "Mozilla/5.0 (Windows; U; Windows NT 5.1; en-US; rv:1.9.0.7) Gecko/2009021910 Firefox/3.0.7"

// ErrGone matches a StatusError whose status says the resource no longer exists.
var ErrGone = errors.New("resource gone")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetcher: GET %s: status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is reports ErrGone for 404 and 410 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrGone && (e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone)
}

// Fetcher issues synchronous GET requests through a colly collector.
type Fetcher struct {
	collector *colly.Collector
}

type Option func(*colly.Collector)

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *colly.Collector) {
		if ua != "" {
			c.UserAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *colly.Collector) {
		if d > 0 {
			c.SetRequestTimeout(d)
		}
	}
}

// New creates a Fetcher. Every request runs on a clone of one parent
// collector, so callbacks never leak between requests.
func New(opts ...Option) *Fetcher {
	c := colly.NewCollector(
		colly.UserAgent(DefaultUserAgent),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(0),
	)
	for _, opt := range opts {
		opt(c)
	}
	return &Fetcher{collector: c}
}

// Fetch returns the response body of url. Headers given here are sent in
// addition to the default User-Agent, replacing it if they set one.
func (f *Fetcher) Fetch(url string, headers http.Header) ([]byte, error) {
	c := f.collector.Clone()
	c.ParseHTTPErrorResponse = true

	var (
		body   []byte
		status int
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	if err := c.Request(http.MethodGet, url, nil, nil, headers.Clone()); err != nil {
		return nil, fmt.Errorf("fetcher: GET %s: %w", url, err)
	}
	if status < 200 || status > 299 {
		return nil, &StatusError{URL: url, StatusCode: status}
	}
	return body, nil
}

// FetchDocument fetches url and parses it into a goquery document.
func (f *Fetcher) FetchDocument(url string, headers http.Header) (*goquery.Document, error) {
	body, err := f.Fetch(url, headers)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("fetcher: parse %s: %w", url, err)
	}
	return doc, nil
}

// Download writes the body of url to dest. The file is closed on every path;
// a close error is reported when the write itself succeeded.
func (f *Fetcher) Download(url string, headers http.Header, dest string) (err error) {
	body, err := f.Fetch(url, headers)
	if err != nil {
		return err
	}

	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("fetcher: create %q: %w", dest, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("fetcher: close %q: %w", dest, cerr)
		}
	}()

	if _, err := file.Write(body); err != nil {
		return fmt.Errorf("fetcher: write %q: %w", dest, err)
	}
	return nil
}
