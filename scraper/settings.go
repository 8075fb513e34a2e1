package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Settings is the resolved configuration of one site variant: its base URL
// and the search form it currently serves. It is immutable once built.
type Settings struct {
	lang    string
	baseURL string
	locale  Locale
	fetcher Fetcher
	doc     *goquery.Document
}

type SettingsOption func(*Settings)

// WithBaseURL points the settings at another host serving the same markup.
func WithBaseURL(base string) SettingsOption {
	return func(s *Settings) {
		if base == "" {
			return
		}
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		s.baseURL = base
	}
}

// NewSettings resolves lang (case-insensitive "hun" or "eng") and fetches the
// site's landing page once.
func NewSettings(f Fetcher, lang string, opts ...SettingsOption) (*Settings, error) {
	locale, ok := lookupLocale(lang)
	if !ok {
		return nil, &OptionError{Kind: "languages", Value: lang, Valid: Langs()}
	}

	s := &Settings{
		lang:    locale.Code(),
		baseURL: locale.BaseURL(),
		locale:  locale,
		fetcher: f,
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := f.FetchDocument(s.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("scraper: load %s search form: %w", s.lang, err)
	}
	s.doc = doc
	return s, nil
}

func (s *Settings) Lang() string    { return s.lang }
func (s *Settings) BaseURL() string { return s.baseURL }
func (s *Settings) String() string  { return s.baseURL }

// PropertyTypes returns the property type tokens the search form offers.
func (s *Settings) PropertyTypes() []string { return s.locale.PropertyTypes(s.doc) }

// ListingTypes returns the listing type tokens the search form offers.
func (s *Settings) ListingTypes() []string { return s.locale.ListingTypes(s.doc) }
