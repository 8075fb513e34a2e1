// Package realestatehu holds the extraction rules for the English-language
// site, realestate.hu.
package realestatehu

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"real-estate-hungary/models"
)

const (
	Code    = "eng"
	BaseURL = "https://realestate.hu/"

	// PageSize is the per-page listing count requested in every search URL.
	PageSize = 12

	notApplicable = "n/a"
	markerCall    = "map.addMarker"
)

// Site implements the listing extraction rules of realestate.hu.
type Site struct{}

func (Site) Code() string    { return Code }
func (Site) BaseURL() string { return BaseURL }

// PropertyTypes reads the first search form <select>.
func (Site) PropertyTypes(doc *goquery.Document) []string {
	return nonEmptyValues(doc.Find("select.input-type").Eq(0).Find("option"))
}

// ListingTypes reads the second search form <select>.
func (Site) ListingTypes(doc *goquery.Document) []string {
	return nonEmptyValues(doc.Find("select.input-type").Eq(1).Find("option"))
}

func (Site) SearchURL(base, city, listingType, propertyType string, page int) string {
	return fmt.Sprintf("%ssearch?location=%s&type=%s&sell_type=%s&price[min]=&price[max]=&page=%d&per-page=%d",
		base, city, propertyType, listingType, page, PageSize)
}

// MaxListing reads the result count, the first <strong> on the page.
func (Site) MaxListing(doc *goquery.Document) (int, error) {
	sel := doc.Find("strong").First()
	if sel.Length() == 0 {
		return 0, fmt.Errorf("realestatehu: result count element not found")
	}
	raw := strings.Join(strings.Fields(sel.Text()), "")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("realestatehu: parse count %q: %w", sel.Text(), err)
	}
	return n, nil
}

// MaxPage is derived from the result count, as the site has no page indicator.
func (s Site) MaxPage(doc *goquery.Document) (int, error) {
	n, err := s.MaxListing(doc)
	if err != nil {
		return 0, err
	}
	return (n + PageSize - 1) / PageSize, nil
}

// Listings pairs the detail links with the favourite buttons carrying the
// apartment IDs, by position. Clusters do not exist on this site.
func (Site) Listings(doc *goquery.Document, base string) []models.ListingRef {
	coll := doc.Find("div.Apartment-Collection.row").First()

	var ids []string
	coll.Find("div.Apartment--favorite").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.Find("a").First().AttrOr("data-apartment-id", ""))
	})

	var refs []models.ListingRef
	coll.Find("div.Apartment__details").Each(func(i int, s *goquery.Selection) {
		href, ok := s.Find("a").First().Attr("href")
		if !ok {
			return
		}
		ref := models.ListingRef{URL: base + strings.TrimLeft(href, "/")}
		if i < len(ids) {
			ref.PropertyID = ids[i]
		}
		refs = append(refs, ref)
	})
	return refs
}

// IsActive is always true: the site drops inactive listings instead of
// marking them.
func (Site) IsActive(*goquery.Document) bool { return true }

// GPS extracts the coordinates from the map initialisation snippet, e.g.
// `map.addMarker({lat:47.4979,lng:19.0402,title:"..."})`. Any deviation from
// that shape yields nil coordinates.
func (Site) GPS(_ *goquery.Document, raw []byte) (lat, lng *float64) {
	html := string(raw)
	i := strings.Index(html, markerCall)
	if i < 0 {
		return nil, nil
	}
	rest := html[i+len(markerCall):]
	end := strings.Index(rest, ",title")
	if end < 0 {
		return nil, nil
	}
	snippet := strings.Map(func(r rune) rune {
		if strings.ContainsRune("[({})]", r) {
			return -1
		}
		return r
	}, rest[:end])

	coords := make(map[string]float64)
	for _, pair := range strings.Split(snippet, ",") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, nil
		}
		coords[strings.TrimSpace(k)] = f
	}
	la, okLat := coords["lat"]
	ln, okLng := coords["lng"]
	if !okLat || !okLng {
		return nil, nil
	}
	return &la, &ln
}

// FullAddress keeps everything after the first comma of the title as the
// district. The site never shows a street address.
func (Site) FullAddress(doc *goquery.Document) (district, address *string) {
	h1 := doc.Find("h1.ApartmentPage__Title").First()
	if h1.Length() == 0 {
		return nil, nil
	}
	parts := strings.Split(h1.Text(), ",")
	d := strings.TrimSpace(strings.Join(parts[1:], ","))
	return &d, nil
}

func (Site) Price(doc *goquery.Document) []models.Field {
	var fields []models.Field
	if h := doc.Find("h4.ApartmentPage__Price").First(); h.Length() > 0 {
		fields = append(fields, models.Field{Key: "huf", Value: strings.TrimSpace(h.Text())})
	}
	if e := doc.Find("span.ApartmentPage__Price--eur").First(); e.Length() > 0 {
		fields = append(fields, models.Field{Key: "eur", Value: strings.TrimSpace(e.Text())})
	}
	return fields
}

func (s Site) AreaSize(doc *goquery.Document) *string { return s.detail(doc, "ground_area_size") }
func (s Site) LotSize(doc *goquery.Document) *string  { return s.detail(doc, "size_of_land") }
func (Site) Room(*goquery.Document) *string           { return nil }

// ParamDetails reads the label/value columns of the details row, skipping
// values shown as "n/a".
func (Site) ParamDetails(doc *goquery.Document) []models.Field {
	var fields []models.Field
	doc.Find("div.row.ApartmentPage__detailsrow").First().Find("div.col-sm-4").Each(func(_ int, col *goquery.Selection) {
		label := strings.TrimSpace(col.Find("div label").First().Text())
		value := strings.TrimSpace(col.Find("div p").First().Text())
		if label == "" || value == notApplicable {
			return
		}
		fields = append(fields, models.Field{
			Key:   strings.ToLower(strings.ReplaceAll(label, " ", "_")),
			Value: value,
		})
	})
	return fields
}

func (Site) PublicTransports(*goquery.Document) []models.Field { return nil }

// Desc joins the paragraphs of the first page section, with whitespace
// collapsed inside each.
func (Site) Desc(doc *goquery.Document) *string {
	section := doc.Find("div.ApartmentPage__section").First()
	if section.Length() == 0 {
		return nil
	}
	var paras []string
	section.Find("p").Each(func(_ int, p *goquery.Selection) {
		paras = append(paras, strings.Join(strings.Fields(p.Text()), " "))
	})
	d := strings.Join(paras, " ")
	return &d
}

// Photos lists the gallery links. Files are always saved as .jpg.
func (Site) Photos(doc *goquery.Document) ([]models.Photo, error) {
	var photos []models.Photo
	doc.Find("div.row.ApartmentImage__list a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		photos = append(photos, models.Photo{URL: href, FileName: urlBase(href) + ".jpg"})
	})
	return photos, nil
}

// AllAttributes is not available on this site.
func (Site) AllAttributes(*goquery.Document) (map[string]any, error) { return nil, nil }

func (s Site) detail(doc *goquery.Document, key string) *string {
	for _, f := range s.ParamDetails(doc) {
		if f.Key == key {
			v := f.Value.(string)
			return &v
		}
	}
	return nil
}

func nonEmptyValues(sel *goquery.Selection) []string {
	var values []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if v := s.AttrOr("value", ""); v != "" {
			values = append(values, v)
		}
	})
	return values
}

func urlBase(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(raw)
}
