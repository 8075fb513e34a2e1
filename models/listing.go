package models

// Field names shared by the scraper, the storage backends and the insight report.
const (
	FieldPropertyURL  = "property_url"
	FieldCityDistrict = "city_district"
	FieldLang         = "lang"
	FieldTimestamp    = "timestamp"
	FieldPriceHUF     = "price_in_huf"
	FieldLat          = "lat"
	FieldLng          = "lng"
)

// ListingRef identifies one listing card on a search results page.
// PropertyID and ClusterID are empty when the page does not expose them.
type ListingRef struct {
	PropertyID string
	ClusterID  string
	URL        string
}

// Photo is one downloadable listing image.
type Photo struct {
	URL      string
	Label    string
	FileName string
}

// InsightReport holds the computed analytics over a collected table.
type InsightReport struct {
	TotalListings      int
	ListingsByLang     map[string]int
	ListingsWithGPS    int
	AveragePrice       float64
	MinPrice           float64
	MaxPrice           float64
	MostExpensive      *Record
	MostExpensivePrice float64
	Cheapest           []*Record
	ListingsByDistrict map[string]int
}
