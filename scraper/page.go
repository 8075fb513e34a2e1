package scraper

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"real-estate-hungary/models"
	"real-estate-hungary/utils"
)

// TimestampFormat is the layout of the capture timestamp stored on each record.
const TimestampFormat = "2006-01-02 15:04:05"

// Query is one search: a city, a listing type, a property type and a page.
type Query struct {
	City         string
	ListingType  string
	PropertyType string
	Page         int
}

// ParsePageNum converts a textual page number, rejecting anything that is
// not a non-negative integer.
func ParsePageNum(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPageNum, s)
	}
	return n, nil
}

// Page is one search results page, fetched on construction.
type Page struct {
	settings  *Settings
	query     Query
	url       string
	doc       *goquery.Document
	photosDir string
	now       func() time.Time
}

type PageOption func(*Page)

// WithPhotosDir makes Records download every listing's photos into dir.
func WithPhotosDir(dir string) PageOption {
	return func(p *Page) { p.photosDir = dir }
}

// NewPage validates q against the live search form of s and fetches the
// matching results page. The city is lower-cased and accent-folded.
func NewPage(s *Settings, q Query, opts ...PageOption) (*Page, error) {
	q.City = utils.NormalizeCity(q.City)

	if valid := s.ListingTypes(); !slices.Contains(valid, q.ListingType) {
		return nil, &OptionError{Kind: "listing types", Value: q.ListingType, Valid: valid}
	}
	if valid := s.PropertyTypes(); !slices.Contains(valid, q.PropertyType) {
		return nil, &OptionError{Kind: "property types", Value: q.PropertyType, Valid: valid}
	}
	if q.Page < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageNum, q.Page)
	}

	p := &Page{
		settings: s,
		query:    q,
		url:      s.locale.SearchURL(s.baseURL, q.City, q.ListingType, q.PropertyType, q.Page),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	doc, err := s.fetcher.FetchDocument(p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("scraper: load results page: %w", err)
	}
	p.doc = doc
	return p, nil
}

func (p *Page) URL() string    { return p.url }
func (p *Page) String() string { return p.url }
func (p *Page) Query() Query   { return p.query }
func (p *Page) Lang() string   { return p.settings.lang }

// MaxListing is the total number of results of the query.
func (p *Page) MaxListing() (int, error) {
	return p.settings.locale.MaxListing(p.doc)
}

// MaxPage is the number of result pages of the query.
func (p *Page) MaxPage() (int, error) {
	return p.settings.locale.MaxPage(p.doc)
}

// Listings returns the listing references on this page, in page order.
func (p *Page) Listings() []models.ListingRef {
	return p.settings.locale.Listings(p.doc, p.settings.baseURL)
}

// UniqueListings drops references whose URL already appears in the
// property_url column of existing. A nil or empty table keeps everything.
func (p *Page) UniqueListings(existing *models.Table) []models.ListingRef {
	refs := p.Listings()
	if existing.Empty() {
		return refs
	}
	seen := utils.NewURLSet(existing.Column(models.FieldPropertyURL)...)
	unique := refs[:0:0]
	for _, ref := range refs {
		if seen.Contains(ref.URL) || seen.Contains(utils.FoldAccents(ref.URL)) {
			continue
		}
		unique = append(unique, ref)
	}
	return unique
}

// Attrs returns the page context stored on every record of this page.
func (p *Page) Attrs() (*models.Record, error) {
	maxPage, err := p.MaxPage()
	if err != nil {
		return nil, err
	}
	maxListing, err := p.MaxListing()
	if err != nil {
		return nil, err
	}
	return models.NewRecord(
		models.Field{Key: models.FieldLang, Value: p.settings.lang},
		models.Field{Key: "listing_type", Value: p.query.ListingType},
		models.Field{Key: "property_type", Value: p.query.PropertyType},
		models.Field{Key: "page_num", Value: p.query.Page},
		models.Field{Key: "max_page", Value: maxPage},
		models.Field{Key: "max_listing", Value: maxListing},
	), nil
}

// Listing builds the parser of one listing found on this page.
func (p *Page) Listing(url string) (*Listing, error) {
	return newListing(p.settings, p.query, url)
}

// Records returns a lazy sequence of parsed listings not yet present in
// existing. At most limit records are produced; limit <= 0 means all. A limit
// above the number of unique listings fails immediately with a LimitError.
//
// A listing that fails is yielded as an error and iteration moves on to the
// next one; only successful records count towards limit. Each range over the
// sequence fetches the listings again.
func (p *Page) Records(limit int, existing *models.Table) (iter.Seq2[*models.Record, error], error) {
	refs := p.UniqueListings(existing)
	if limit > len(refs) {
		return nil, &LimitError{Limit: limit, Available: len(refs)}
	}
	attrs, err := p.Attrs()
	if err != nil {
		return nil, err
	}

	return func(yield func(*models.Record, error) bool) {
		produced := 0
		for _, ref := range refs {
			if limit > 0 && produced == limit {
				return
			}
			rec, err := p.record(ref, attrs)
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			produced++
			if !yield(rec, nil) {
				return
			}
		}
	}, nil
}

// ToTable collects Records into a table. Listings that are gone are
// skipped; any other failure aborts.
func (p *Page) ToTable(limit int, existing *models.Table) (*models.Table, error) {
	seq, err := p.Records(limit, existing)
	if err != nil {
		return nil, err
	}
	table := models.NewTable()
	for rec, err := range seq {
		if err != nil {
			if IsGone(err) {
				continue
			}
			return nil, err
		}
		table.Append(rec)
	}
	return table, nil
}

func (p *Page) record(ref models.ListingRef, pageAttrs *models.Record) (*models.Record, error) {
	l, err := p.Listing(ref.URL)
	if err != nil {
		return nil, err
	}
	if p.photosDir != "" {
		if err := l.ExtractPhotos(p.photosDir); err != nil {
			return nil, err
		}
	}

	rec := l.Attrs()
	rec.Merge(pageAttrs)
	rec.Set("property_id", optional(ref.PropertyID))
	rec.Set("cluster_id", optional(ref.ClusterID))
	rec.Set(models.FieldTimestamp, p.now().Format(TimestampFormat))
	return rec, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
