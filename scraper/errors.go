package scraper

import (
	"errors"
	"fmt"
	"strings"

	"real-estate-hungary/scraper/fetcher"
)

// ErrInvalidPageNum is returned for page numbers that are not non-negative integers.
var ErrInvalidPageNum = errors.New("scraper: page number must be integer")

// OptionError reports a value outside a set of valid options, e.g. an
// unsupported language or a listing type the site does not offer.
type OptionError struct {
	Kind  string
	Value string
	Valid []string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("scraper: invalid %s %q, please specify one of the following %s: %s",
		strings.TrimSuffix(e.Kind, "s"), e.Value, e.Kind, strings.Join(e.Valid, ", "))
}

// LimitError is returned when more listings are requested than a page holds.
type LimitError struct {
	Limit     int
	Available int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("scraper: given number of listings (%d) exceeded the maximum number of listings on the page, please specify equal or less than %d",
		e.Limit, e.Available)
}

// GoneError means a listing detail page no longer exists.
type GoneError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *GoneError) Error() string {
	return fmt.Sprintf("scraper: listing %s does not exist (status %d), probably already sold/rented or being edited",
		e.URL, e.StatusCode)
}

func (e *GoneError) Unwrap() error { return e.Err }

// IsGone reports whether err carries a GoneError.
func IsGone(err error) bool {
	var gone *GoneError
	return errors.As(err, &gone)
}

func goneError(url string, err error) error {
	var se *fetcher.StatusError
	if errors.As(err, &se) && errors.Is(err, fetcher.ErrGone) {
		return &GoneError{URL: url, StatusCode: se.StatusCode, Err: err}
	}
	return err
}
