package scraper

import (
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"real-estate-hungary/models"
	"real-estate-hungary/scraper/ingatlan"
	"real-estate-hungary/scraper/realestatehu"
)

// Fetcher is the HTTP boundary used by every component of the scraper.
type Fetcher interface {
	Fetch(url string, headers http.Header) ([]byte, error)
	FetchDocument(url string, headers http.Header) (*goquery.Document, error)
	Download(url string, headers http.Header, dest string) error
}

// Locale holds the extraction rules of one site variant. Settings selects
// it once and hands it to every Page and Listing built from them.
type Locale interface {
	Code() string
	BaseURL() string

	PropertyTypes(doc *goquery.Document) []string
	ListingTypes(doc *goquery.Document) []string

	SearchURL(base, city, listingType, propertyType string, page int) string
	MaxListing(doc *goquery.Document) (int, error)
	MaxPage(doc *goquery.Document) (int, error)
	Listings(doc *goquery.Document, base string) []models.ListingRef

	IsActive(doc *goquery.Document) bool
	GPS(doc *goquery.Document, raw []byte) (lat, lng *float64)
	FullAddress(doc *goquery.Document) (district, address *string)
	Price(doc *goquery.Document) []models.Field
	AreaSize(doc *goquery.Document) *string
	LotSize(doc *goquery.Document) *string
	Room(doc *goquery.Document) *string
	ParamDetails(doc *goquery.Document) []models.Field
	PublicTransports(doc *goquery.Document) []models.Field
	Desc(doc *goquery.Document) *string
	Photos(doc *goquery.Document) ([]models.Photo, error)
	AllAttributes(doc *goquery.Document) (map[string]any, error)
}

var locales = []Locale{ingatlan.Site{}, realestatehu.Site{}}

// Langs lists the supported locale codes.
func Langs() []string {
	codes := make([]string, 0, len(locales))
	for _, l := range locales {
		codes = append(codes, l.Code())
	}
	return codes
}

func lookupLocale(lang string) (Locale, bool) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	for _, l := range locales {
		if l.Code() == lang {
			return l, true
		}
	}
	return nil, false
}
