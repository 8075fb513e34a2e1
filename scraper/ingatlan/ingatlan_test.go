package ingatlan

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"real-estate-hungary/models"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

const landing = `<html><body>
<select class="search-filter-select search-filter-select-long">
  <option value="">Mindegy</option>
  <option value="lakas">Lakás</option>
  <option value="haz">Ház</option>
</select>
<div class="search-filter-box listing-type">
  <input type="radio" value="elado"><input type="radio" value="kiado"><input type="radio" value="">
</div>
</body></html>`

func TestSearchFormTypes(t *testing.T) {
	doc := parse(t, landing)
	s := Site{}

	if got, want := s.PropertyTypes(doc), []string{"lakas", "haz"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PropertyTypes() = %v; want %v", got, want)
	}
	if got, want := s.ListingTypes(doc), []string{"elado", "kiado"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListingTypes() = %v; want %v", got, want)
	}
}

func TestSearchURL(t *testing.T) {
	got := Site{}.SearchURL(BaseURL, "gyor", "elado", "lakas", 3)
	want := "https://ingatlan.com/lista/elado+lakas+gyor?page=3"
	if got != want {
		t.Errorf("SearchURL() = %q; want %q", got, want)
	}
}

func TestCounts(t *testing.T) {
	doc := parse(t, `<span class="filtered_results_count">1 234</span>
<div class="pagination__page-number">1 / 62
 oldal</div>`)
	s := Site{}

	n, err := s.MaxListing(doc)
	if err != nil || n != 1234 {
		t.Errorf("MaxListing() = %d, %v; want 1234", n, err)
	}
	p, err := s.MaxPage(doc)
	if err != nil || p != 62 {
		t.Errorf("MaxPage() = %d, %v; want 62", p, err)
	}

	if _, err := s.MaxPage(parse(t, `<div>nothing</div>`)); err == nil {
		t.Error("MaxPage() on page without indicator should fail")
	}
}

func TestListings(t *testing.T) {
	doc := parse(t, `<div class="results">
<div class="listing__card"><div data-id="3101" data-cluster-id="c-77"><div class="head"><a href="/3101">A</a></div></div></div>
<div class="listing__card"><div data-id="3102"><div class="head"><a href="3102">B</a><a href="/other">C</a></div></div></div>
<div class="listing__card"><span>no link</span></div>
</div>`)

	got := Site{}.Listings(doc, BaseURL)
	want := []models.ListingRef{
		{PropertyID: "3101", ClusterID: "c-77", URL: "https://ingatlan.com/3101"},
		{PropertyID: "3102", ClusterID: "", URL: "https://ingatlan.com/3102"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Listings() = %+v; want %+v", got, want)
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		html string
		want bool
	}{
		{`<div class="inactive-text">A hirdetés inaktív</div>`, false},
		{`<div class="inactive-text">  </div>`, true},
		{`<div class="other"></div>`, true},
	}
	for _, tt := range tests {
		if got := (Site{}).IsActive(parse(t, tt.html)); got != tt.want {
			t.Errorf("IsActive(%q) = %v; want %v", tt.html, got, tt.want)
		}
	}
}

func TestGPS(t *testing.T) {
	doc := parse(t, `<a class="static-map" href="#terkep"><img src="https://maps.example.com/staticmap?size=640x400&zoom=15&center=47.6875,17.6504&key=x"></a>`)
	lat, lng := Site{}.GPS(doc, nil)
	if lat == nil || lng == nil || *lat != 47.6875 || *lng != 17.6504 {
		t.Fatalf("GPS() = %v, %v; want 47.6875, 17.6504", lat, lng)
	}

	for _, html := range []string{
		`<p>no map</p>`,
		`<a class="static-map" href="#terkep"><img src="https://maps.example.com/staticmap?size=1"></a>`,
		`<a class="static-map" href="#terkep"><img src="x?a=1&b=2&center=abc,def"></a>`,
	} {
		lat, lng := Site{}.GPS(parse(t, html), nil)
		if lat != nil || lng != nil {
			t.Errorf("GPS(%q) = %v, %v; want nil, nil", html, lat, lng)
		}
	}
}

func TestFullAddress(t *testing.T) {
	tests := []struct {
		html         string
		wantDistrict string
		wantAddress  *string
	}{
		{`<h1 class="js-listing-title">Győr, Baross Gábor út </h1>`, "Győr", strPtr("Baross Gábor út")},
		{`<h1 class="js-listing-title">Budapest XIII. kerület</h1>`, "Budapest XIII. kerület", nil},
	}
	for _, tt := range tests {
		d, a := Site{}.FullAddress(parse(t, tt.html))
		if d == nil || *d != tt.wantDistrict {
			t.Errorf("district(%q) = %v; want %q", tt.html, d, tt.wantDistrict)
		}
		if !reflect.DeepEqual(a, tt.wantAddress) {
			t.Errorf("address(%q) = %v; want %v", tt.html, a, tt.wantAddress)
		}
	}
}

const params = `<div class="listing-parameters">
  <div class="parameter parameter-price"><span class="parameter-title">Ár</span><span class="parameter-value"> 42,9 M Ft </span></div>
  <div class="parameter parameter-area-size"><span class="parameter-value">58 m²</span></div>
  <div class="parameter parameter-room"><span class="parameter-value">2 + 1 fél</span></div>
</div>`

func TestMainParams(t *testing.T) {
	doc := parse(t, params)
	s := Site{}

	if got, want := s.Price(doc), []models.Field{{Key: "huf", Value: "42,9 M Ft"}}; !reflect.DeepEqual(got, want) {
		t.Errorf("Price() = %v; want %v", got, want)
	}
	if got := s.AreaSize(doc); got == nil || *got != "58 m²" {
		t.Errorf("AreaSize() = %v; want 58 m²", got)
	}
	if got := s.Room(doc); got == nil || *got != "2 + 1 fél" {
		t.Errorf("Room() = %v; want 2 + 1 fél", got)
	}
	if got := s.LotSize(doc); got != nil {
		t.Errorf("LotSize() = %q; want nil", *got)
	}
}

func TestParamDetails(t *testing.T) {
	doc := parse(t, `<div class="paramterers"><table>
<tr><td>Ingatlan állapota</td><td>felújított</td></tr>
<tr><td>Fűtés</td><td>gáz (cirko), padlófűtés</td></tr>
</table></div>`)

	want := []models.Field{
		{Key: "ingatlan_állapota", Value: "felújított"},
		{Key: "fűtés", Value: "gáz (cirko)| padlófűtés"},
	}
	if got := (Site{}).ParamDetails(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("ParamDetails() = %v; want %v", got, want)
	}
}

func TestPublicTransports(t *testing.T) {
	doc := parse(t, `<div class="public-transports">
<div class="public-transport-group"><span>Busz</span><a> 11 </a><a>21</a></div>
<div class="public-transport-group"><span>Villamos</span><a>4</a></div>
</div>`)

	want := []models.Field{
		{Key: "busz", Value: "11|21"},
		{Key: "busz_count", Value: 2},
		{Key: "villamos", Value: "4"},
		{Key: "villamos_count", Value: 1},
	}
	if got := (Site{}).PublicTransports(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("PublicTransports() = %v; want %v", got, want)
	}
	if got := (Site{}).PublicTransports(parse(t, `<p></p>`)); got != nil {
		t.Errorf("PublicTransports() without block = %v; want nil", got)
	}
}

func TestDesc(t *testing.T) {
	if got := (Site{}).Desc(parse(t, `<div class="long-description">Napos lakás.</div>`)); got == nil || *got != "Napos lakás." {
		t.Errorf("Desc() = %v; want Napos lakás.", got)
	}
	if got := (Site{}).Desc(parse(t, `<p></p>`)); got != nil {
		t.Errorf("Desc() = %q; want nil", *got)
	}
}

func TestPhotos(t *testing.T) {
	doc := parse(t, `<div class="card listing"><script>
var photos = [{"large_url":"https://img.example.com/large/abc123.jpg","label":"nappali"},{"large_url":"https://img.example.com/large/def456.jpg?v=2","label":"konyha"}];
</script></div>`)

	got, err := Site{}.Photos(doc)
	if err != nil {
		t.Fatalf("Photos(): %v", err)
	}
	want := []models.Photo{
		{URL: "https://img.example.com/large/abc123.jpg", Label: "nappali", FileName: "abc123_nappali.jpg"},
		{URL: "https://img.example.com/large/def456.jpg?v=2", Label: "konyha", FileName: "def456_konyha.jpg"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Photos() = %+v; want %+v", got, want)
	}

	trailing := parse(t, `<div class="card listing"><script>
var photos = [{"large_url":"https://img.example.com/large/abc123.jpg","label":"nappali"}];
var photoCount = 1;
</script></div>`)
	got, err = Site{}.Photos(trailing)
	if err != nil {
		t.Fatalf("Photos() with trailing statement: %v", err)
	}
	if len(got) != 1 || got[0].FileName != "abc123_nappali.jpg" {
		t.Errorf("Photos() with trailing statement = %+v", got)
	}

	if _, err := (Site{}).Photos(parse(t, `<div class="card listing"><script>var photos = [oops;</script></div>`)); err == nil {
		t.Error("Photos() with broken script should fail")
	}
}

func TestAllAttributes(t *testing.T) {
	doc := parse(t, `<html><head>
<script>var a = 1;</script>
<script src="x.js"></script>
<script> dataLayer.push({"listingId": 3101, "city": "Győr"}); </script>
</head><body></body></html>`)

	got, err := Site{}.AllAttributes(doc)
	if err != nil {
		t.Fatalf("AllAttributes(): %v", err)
	}
	if got["city"] != "Győr" || got["listingId"] != float64(3101) {
		t.Errorf("AllAttributes() = %v", got)
	}
}

func strPtr(s string) *string { return &s }
