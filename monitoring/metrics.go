package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ListingsTotal *prometheus.CounterVec
	GoneTotal     *prometheus.CounterVec
	PagesTotal    *prometheus.CounterVec
	ErrorsTotal   *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. Pass prometheus.DefaultRegisterer
// to expose them through promhttp.Handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ListingsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_listings_scraped_total",
			Help: "The total number of listings parsed into records",
		}, []string{"lang"}),
		GoneTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_listings_gone_total",
			Help: "The total number of listings that no longer exist",
		}, []string{"lang"}),
		PagesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_pages_processed_total",
			Help: "The total number of results pages processed",
		}, []string{"lang"}),
		ErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g. 'page_failed', 'listing_failed'
	}
}

func (m *Metrics) IncListings(lang string) { m.ListingsTotal.WithLabelValues(lang).Inc() }
func (m *Metrics) IncGone(lang string)     { m.GoneTotal.WithLabelValues(lang).Inc() }
func (m *Metrics) IncPages(lang string)    { m.PagesTotal.WithLabelValues(lang).Inc() }

func (m *Metrics) IncErrors(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
