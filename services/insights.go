package services

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"real-estate-hungary/models"
	"real-estate-hungary/utils"
)

const cheapestCount = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

type pricedRecord struct {
	rec   *models.Record
	price float64
}

// Generate summarises a collected table. Prices come from the HUF price
// column; records whose price cannot be parsed are left out of the price
// statistics.
func (s *InsightService) Generate(table *models.Table) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByLang:     make(map[string]int),
		ListingsByDistrict: make(map[string]int),
	}

	if table.Empty() {
		return report
	}

	report.TotalListings = table.Len()

	var priced []pricedRecord
	for _, rec := range table.Rows() {
		if lang := rec.Text(models.FieldLang); lang != "" {
			report.ListingsByLang[lang]++
		}
		if d := rec.Text(models.FieldCityDistrict); d != "" {
			report.ListingsByDistrict[d]++
		}
		_, hasLat := rec.Get(models.FieldLat)
		_, hasLng := rec.Get(models.FieldLng)
		if hasLat && hasLng {
			report.ListingsWithGPS++
		}

		raw := rec.Text(models.FieldPriceHUF)
		if raw == "" {
			continue
		}
		price, ok := ParsePrice(raw)
		if !ok || price <= 0 {
			s.logger.Debug("[insights] Unparsable price %q on %s", raw, rec.Text(models.FieldPropertyURL))
			continue
		}
		priced = append(priced, pricedRecord{rec: rec, price: price})
	}

	if len(priced) > 0 {
		report.MinPrice = priced[0].price
		report.MaxPrice = priced[0].price
		report.MostExpensive = priced[0].rec
		var total float64
		for _, p := range priced {
			total += p.price
			if p.price < report.MinPrice {
				report.MinPrice = p.price
			}
			if p.price > report.MaxPrice {
				report.MaxPrice = p.price
				report.MostExpensive = p.rec
			}
		}
		report.MostExpensivePrice = report.MaxPrice
		report.AveragePrice = round2(total / float64(len(priced)))
	}

	sort.SliceStable(priced, func(i, j int) bool {
		return priced[i].price < priced[j].price
	})
	for i := 0; i < len(priced) && i < cheapestCount; i++ {
		report.Cheapest = append(report.Cheapest, priced[i].rec)
	}

	s.logger.Info("[insights] %d listings, %d with price, %d with GPS",
		report.TotalListings, len(priced), report.ListingsWithGPS)
	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	s.Fprint(os.Stdout, r)
}

// Fprint renders the report to w.
func (s *InsightService) Fprint(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)
	huf := message.NewPrinter(language.Hungarian)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🏠 HUNGARIAN REAL ESTATE INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings scraped : \033[1m%d\033[0m\n", r.TotalListings)
	for _, lang := range sortedKeys(r.ListingsByLang) {
		fmt.Fprintf(w, "  %-22s : \033[1m%d\033[0m\n", "Listings ("+lang+")", r.ListingsByLang[lang])
	}
	fmt.Fprintf(w, "  Listings with GPS      : \033[1m%d\033[0m\n", r.ListingsWithGPS)
	fmt.Fprintln(w)

	// Price Stats
	fmt.Fprintf(w, "\033[1;33m  Price Statistics (HUF)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m%s\033[0m\n", huf.Sprintf("%.0f Ft", r.AveragePrice))
		fmt.Fprintf(w, "  Minimum price : \033[1;32m%s\033[0m\n", huf.Sprintf("%.0f Ft", r.MinPrice))
		fmt.Fprintf(w, "  Maximum price : \033[1;32m%s\033[0m\n", huf.Sprintf("%.0f Ft", r.MaxPrice))
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	// Most Expensive
	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.Text(models.FieldPropertyURL), 50))
		fmt.Fprintf(w, "  District : %s\n", r.MostExpensive.Text(models.FieldCityDistrict))
		fmt.Fprintf(w, "  Price    : \033[1;31m%s\033[0m\n", huf.Sprintf("%.0f Ft", r.MostExpensivePrice))
		fmt.Fprintln(w)
	}

	// ── CHEAPEST ─────────────────────────────────────────────────────────
	fmt.Fprintf(w, "\033[1;33m  Top %d Cheapest Listings\033[0m\n", cheapestCount)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Cheapest) == 0 {
		fmt.Fprintf(w, "  No priced listings found\n")
	} else {
		for i, rec := range r.Cheapest {
			district := truncate(rec.Text(models.FieldCityDistrict), 38)
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%s\033[0m\n",
				i+1, district, rec.Text(models.FieldPriceHUF))
		}
	}
	fmt.Fprintln(w)

	// Listings by District
	fmt.Fprintf(w, "\033[1;33m  Listings by District\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByDistrict) == 0 {
		fmt.Fprintf(w, "  No district data\n")
	} else {
		type districtCount struct {
			district string
			count    int
		}
		var ds []districtCount
		for d, cnt := range r.ListingsByDistrict {
			ds = append(ds, districtCount{d, cnt})
		}
		sort.Slice(ds, func(i, j int) bool {
			if ds[i].count != ds[j].count {
				return ds[i].count > ds[j].count
			}
			return ds[i].district < ds[j].district
		})
		for _, dc := range ds {
			bar := strings.Repeat("█", dc.count)
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(dc.district, 28), bar, dc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
