// Package ingatlan holds the extraction rules for the Hungarian-language
// site, ingatlan.com.
package ingatlan

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"real-estate-hungary/models"
)

const (
	Code    = "hun"
	BaseURL = "https://ingatlan.com/"
)

// Site implements the listing extraction rules of ingatlan.com.
type Site struct{}

func (Site) Code() string    { return Code }
func (Site) BaseURL() string { return BaseURL }

// PropertyTypes reads the property type <select> of the landing page search form.
func (Site) PropertyTypes(doc *goquery.Document) []string {
	sel := doc.Find("select.search-filter-select.search-filter-select-long").First()
	return nonEmptyValues(sel.Find("option"))
}

// ListingTypes reads the listing type radio inputs of the landing page search form.
func (Site) ListingTypes(doc *goquery.Document) []string {
	box := doc.Find("div.search-filter-box.listing-type").First()
	return nonEmptyValues(box.Find("input"))
}

func (Site) SearchURL(base, city, listingType, propertyType string, page int) string {
	return fmt.Sprintf("%slista/%s+%s+%s?page=%d", base, listingType, propertyType, city, page)
}

func (Site) MaxListing(doc *goquery.Document) (int, error) {
	sel := doc.Find("span.filtered_results_count").First()
	if sel.Length() == 0 {
		return 0, fmt.Errorf("ingatlan: result count element not found")
	}
	return atoi(sel.Text())
}

// MaxPage parses the "1 / 52 oldal" pagination indicator.
func (Site) MaxPage(doc *goquery.Document) (int, error) {
	sel := doc.Find("div.pagination__page-number").First()
	if sel.Length() == 0 {
		return 0, fmt.Errorf("ingatlan: pagination element not found")
	}
	text := strings.Join(strings.Fields(sel.Text()), "")
	_, total, ok := strings.Cut(text, "/")
	if !ok {
		return 0, fmt.Errorf("ingatlan: unexpected pagination text %q", sel.Text())
	}
	return atoi(strings.ReplaceAll(total, "oldal", ""))
}

// Listings returns one reference per result card. The identifiers sit on the
// grandparent of the card's first link.
func (Site) Listings(doc *goquery.Document, base string) []models.ListingRef {
	var refs []models.ListingRef
	doc.Find("div.listing__card").Each(func(_ int, card *goquery.Selection) {
		a := card.Find("a").First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		holder := a.Parent().Parent()
		refs = append(refs, models.ListingRef{
			PropertyID: holder.AttrOr("data-id", ""),
			ClusterID:  holder.AttrOr("data-cluster-id", ""),
			URL:        base + strings.TrimLeft(href, "/"),
		})
	})
	return refs
}

// IsActive is false when the page carries a non-empty inactive marker.
func (Site) IsActive(doc *goquery.Document) bool {
	return strings.TrimSpace(doc.Find("div.inactive-text").First().Text()) == ""
}

// GPS reads the map centre from the static map image URL, e.g.
// "...?size=640x400&zoom=15&center=47.4979,19.0402&...".
func (Site) GPS(doc *goquery.Document, _ []byte) (lat, lng *float64) {
	src, ok := doc.Find(`a.static-map[href="#terkep"] img`).First().Attr("src")
	if !ok {
		return nil, nil
	}
	parts := strings.Split(src, "&")
	if len(parts) < 3 {
		return nil, nil
	}
	_, center, ok := strings.Cut(parts[2], "=")
	if !ok {
		return nil, nil
	}
	la, ln, ok := strings.Cut(center, ",")
	if !ok {
		return nil, nil
	}
	latV, err := strconv.ParseFloat(strings.TrimSpace(la), 64)
	if err != nil {
		return nil, nil
	}
	lngV, err := strconv.ParseFloat(strings.TrimSpace(ln), 64)
	if err != nil {
		return nil, nil
	}
	return &latV, &lngV
}

// FullAddress splits "XIII. kerület, Váci út" into district and street.
// Without exactly one comma the whole title is the district.
func (Site) FullAddress(doc *goquery.Document) (district, address *string) {
	h1 := doc.Find("h1.js-listing-title").First()
	if h1.Length() == 0 {
		return nil, nil
	}
	parts := strings.Split(h1.Text(), ",")
	if len(parts) != 2 {
		d := strings.TrimSpace(h1.Text())
		return &d, nil
	}
	d := strings.TrimSpace(parts[0])
	a := strings.TrimSpace(parts[1])
	return &d, &a
}

func (Site) Price(doc *goquery.Document) []models.Field {
	if p, ok := mainParams(doc)["price"]; ok {
		return []models.Field{{Key: "huf", Value: p}}
	}
	return nil
}

func (Site) AreaSize(doc *goquery.Document) *string { return mainParam(doc, "area_size") }
func (Site) LotSize(doc *goquery.Document) *string  { return mainParam(doc, "lot_size") }
func (Site) Room(doc *goquery.Document) *string     { return mainParam(doc, "room") }

// ParamDetails reads the label/value cells of the details table. Multi-value
// cells are pipe separated.
func (Site) ParamDetails(doc *goquery.Document) []models.Field {
	var cells []string
	doc.Find("div.paramterers td").Each(func(_ int, td *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(td.Text()))
	})
	var fields []models.Field
	for i := 0; i+1 < len(cells); i += 2 {
		fields = append(fields, models.Field{
			Key:   strings.ToLower(strings.ReplaceAll(cells[i], " ", "_")),
			Value: strings.ReplaceAll(cells[i+1], ",", "|"),
		})
	}
	return fields
}

// PublicTransports yields "<mode>" with pipe-joined line names and
// "<mode>_count" with the number of lines, per transport group.
func (Site) PublicTransports(doc *goquery.Document) []models.Field {
	var fields []models.Field
	doc.Find("div.public-transports").First().Find("div.public-transport-group").Each(func(_ int, g *goquery.Selection) {
		mode := strings.ToLower(strings.TrimSpace(g.Find("span").First().Text()))
		if mode == "" {
			return
		}
		var lines []string
		g.Find("a").Each(func(_ int, a *goquery.Selection) {
			lines = append(lines, strings.TrimSpace(a.Text()))
		})
		fields = append(fields,
			models.Field{Key: mode, Value: strings.Join(lines, "|")},
			models.Field{Key: mode + "_count", Value: len(lines)},
		)
	})
	return fields
}

func (Site) Desc(doc *goquery.Document) *string {
	sel := doc.Find("div.long-description").First()
	if sel.Length() == 0 {
		return nil
	}
	d := sel.Text()
	return &d
}

type photoDescriptor struct {
	LargeURL string `json:"large_url"`
	Label    string `json:"label"`
}

// Photos decodes the photo list assigned in the listing card script,
// e.g. `var photos = [{"large_url": "...", "label": "nappali"}];`. Only the
// first value after the assignment is read; later statements are ignored.
func (Site) Photos(doc *goquery.Document) ([]models.Photo, error) {
	script := doc.Find("div.card.listing script").First()
	if script.Length() == 0 {
		return nil, nil
	}
	_, rhs, ok := strings.Cut(strings.TrimSpace(script.Text()), "=")
	if !ok {
		return nil, fmt.Errorf("ingatlan: photo script has no assignment")
	}

	var descriptors []photoDescriptor
	if err := json.NewDecoder(strings.NewReader(rhs)).Decode(&descriptors); err != nil {
		return nil, fmt.Errorf("ingatlan: decode photos: %w", err)
	}

	photos := make([]models.Photo, 0, len(descriptors))
	for _, d := range descriptors {
		base := urlBase(d.LargeURL)
		ext := path.Ext(base)
		label := strings.ReplaceAll(d.Label, "/", "-")
		photos = append(photos, models.Photo{
			URL:      d.LargeURL,
			Label:    d.Label,
			FileName: strings.TrimSuffix(base, ext) + "_" + label + ext,
		})
	}
	return photos, nil
}

// AllAttributes decodes the JSON object passed to the tracking call in the
// third <head> script.
func (Site) AllAttributes(doc *goquery.Document) (map[string]any, error) {
	script := doc.Find("head script").Eq(2)
	if script.Length() == 0 {
		return nil, nil
	}
	text := strings.TrimSpace(script.Text())
	start := strings.Index(text, "(")
	end := strings.LastIndex(text, ")")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("ingatlan: attribute script has no call arguments")
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(text[start+1:end]), &attrs); err != nil {
		return nil, fmt.Errorf("ingatlan: decode attributes: %w", err)
	}
	return attrs, nil
}

// mainParams maps the parameter block entries by the field name encoded in
// their second class, e.g. "parameter-area-size" becomes "area_size".
func mainParams(doc *goquery.Document) map[string]string {
	params := make(map[string]string)
	doc.Find("div.listing-parameters div").Each(func(_ int, div *goquery.Selection) {
		classes := strings.Fields(div.AttrOr("class", ""))
		if len(classes) < 2 {
			return
		}
		name := strings.Split(classes[1], "-")
		if len(name) < 2 {
			return
		}
		value := div.Find("span.parameter-value").First()
		if value.Length() == 0 {
			return
		}
		params[strings.Join(name[1:], "_")] = strings.TrimSpace(value.Text())
	})
	return params
}

func mainParam(doc *goquery.Document, key string) *string {
	if v, ok := mainParams(doc)[key]; ok {
		return &v
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

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return 0, fmt.Errorf("ingatlan: parse count %q: %w", s, err)
	}
	return n, nil
}

func urlBase(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(raw)
}
