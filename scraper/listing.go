package scraper

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcloughlin/geohash"

	"real-estate-hungary/models"
	"real-estate-hungary/utils"
)

// Listing is the parsed detail page of one property. All accessors derive
// their value from the page fetched on construction.
type Listing struct {
	url      string
	origin   Query
	settings *Settings
	raw      []byte
	doc      *goquery.Document
}

// NewListing fetches and parses a single listing outside of a results page.
// q describes where the listing came from and is only carried along.
func NewListing(s *Settings, q Query, url string) (*Listing, error) {
	q.City = utils.NormalizeCity(q.City)
	return newListing(s, q, url)
}

func newListing(s *Settings, q Query, url string) (*Listing, error) {
	url = utils.FoldAccents(url)

	raw, err := s.fetcher.Fetch(url, nil)
	if err != nil {
		return nil, goneError(url, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("scraper: parse listing %s: %w", url, err)
	}
	return &Listing{url: url, origin: q, settings: s, raw: raw, doc: doc}, nil
}

func (l *Listing) URL() string    { return l.url }
func (l *Listing) String() string { return l.url }
func (l *Listing) Lang() string   { return l.settings.lang }

// Origin is the search the listing was reached from.
func (l *Listing) Origin() Query { return l.origin }

func (l *Listing) IsActive() bool { return l.settings.locale.IsActive(l.doc) }

// GPS returns nil coordinates when the page does not expose a usable pair.
func (l *Listing) GPS() (lat, lng *float64) { return l.settings.locale.GPS(l.doc, l.raw) }

func (l *Listing) Latitude() *float64 {
	lat, _ := l.GPS()
	return lat
}

func (l *Listing) Longitude() *float64 {
	_, lng := l.GPS()
	return lng
}

func (l *Listing) FullAddress() (district, address *string) {
	return l.settings.locale.FullAddress(l.doc)
}

func (l *Listing) CityDistrict() *string {
	d, _ := l.FullAddress()
	return d
}

func (l *Listing) Address() *string {
	_, a := l.FullAddress()
	return a
}

// Price maps currency codes ("huf", "eur") to the price as displayed.
func (l *Listing) Price() []models.Field { return l.settings.locale.Price(l.doc) }

func (l *Listing) AreaSize() *string { return l.settings.locale.AreaSize(l.doc) }
func (l *Listing) LotSize() *string  { return l.settings.locale.LotSize(l.doc) }
func (l *Listing) Room() *string     { return l.settings.locale.Room(l.doc) }

func (l *Listing) ParamDetails() []models.Field { return l.settings.locale.ParamDetails(l.doc) }

func (l *Listing) PublicTransports() []models.Field {
	return l.settings.locale.PublicTransports(l.doc)
}

func (l *Listing) Desc() *string { return l.settings.locale.Desc(l.doc) }

// AllAttributes returns the raw attribute object some pages embed for
// analytics, or nil when the site has none.
func (l *Listing) AllAttributes() (map[string]any, error) {
	return l.settings.locale.AllAttributes(l.doc)
}

func (l *Listing) Photos() ([]models.Photo, error) { return l.settings.locale.Photos(l.doc) }

// NumPhotos returns 0 when the photo list cannot be read.
func (l *Listing) NumPhotos() int {
	photos, err := l.Photos()
	if err != nil {
		return 0
	}
	return len(photos)
}

// ExtractPhotos downloads every photo into dir, creating it when missing.
func (l *Listing) ExtractPhotos(dir string) error {
	photos, err := l.Photos()
	if err != nil {
		return fmt.Errorf("scraper: photos of %s: %w", l.url, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("scraper: create photo dir: %w", err)
	}
	for _, photo := range photos {
		dest := filepath.Join(dir, photo.FileName)
		if err := l.settings.fetcher.Download(photo.URL, nil, dest); err != nil {
			return fmt.Errorf("scraper: download photo of %s: %w", l.url, err)
		}
	}
	return nil
}

// Attrs merges the fixed fields with the site specific ones into a single
// record. Absent values are left out.
func (l *Listing) Attrs() *models.Record {
	district, address := l.FullAddress()

	var photos *int
	if list, err := l.Photos(); err == nil {
		n := len(list)
		photos = &n
	}

	rec := models.NewRecord(
		models.Field{Key: models.FieldPropertyURL, Value: l.url},
		models.Field{Key: models.FieldCityDistrict, Value: district},
		models.Field{Key: "address", Value: address},
		models.Field{Key: "lot_size", Value: l.LotSize()},
		models.Field{Key: "area_size", Value: l.AreaSize()},
		models.Field{Key: "room", Value: l.Room()},
		models.Field{Key: "photos", Value: photos},
		models.Field{Key: "desc", Value: l.Desc()},
	)

	for _, p := range l.Price() {
		rec.Set("price_in_"+p.Key, p.Value)
	}

	lat, lng := l.GPS()
	rec.Set(models.FieldLat, lat)
	rec.Set(models.FieldLng, lng)
	if lat != nil && lng != nil {
		rec.Set("geohash", geohash.Encode(*lat, *lng))
	}

	for _, f := range l.ParamDetails() {
		rec.Set(f.Key, f.Value)
	}
	for _, f := range l.PublicTransports() {
		rec.Set(f.Key, f.Value)
	}
	return rec
}

// ToTable returns the listing as a single-row table.
func (l *Listing) ToTable() *models.Table {
	return models.NewTable(l.Attrs())
}
