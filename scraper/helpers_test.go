package scraper

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"real-estate-hungary/scraper/fetcher"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// siteServer serves both locales from testdata: /hun/... mirrors
// ingatlan.com and /eng/... mirrors realestate.hu.
type siteServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

var routes = map[string]string{
	"/hun/":                       "hun/landing.html",
	"/hun/lista/elado+lakas+gyor": "hun/results.html",
	"/hun/3101":                   "hun/listing_3101.html",
	"/hun/elado-teglalakas-3102":  "hun/listing_3102.html",
	"/eng/":                       "eng/landing.html",
	"/eng/search":                 "eng/results.html",
	"/eng/en/flat-for-sale/901":   "eng/listing_901.html",
	"/eng/en/flat-for-sale/902":   "eng/listing_902.html",
	"/eng/en/flat-for-sale/903":   "eng/listing_902.html",
}

func newSiteServer(t *testing.T) *siteServer {
	t.Helper()
	s := &siteServer{hits: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()

		if strings.HasPrefix(r.URL.Path, "/photos/") {
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("jpeg:" + r.URL.Path))
			return
		}
		name, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		body, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			t.Errorf("read fixture %s: %v", name, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(strings.ReplaceAll(string(body), "{{BASE}}", s.URL)))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *siteServer) base(lang string) string { return s.URL + "/" + lang + "/" }

func (s *siteServer) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func newTestSettings(t *testing.T, srv *siteServer, lang string) *Settings {
	t.Helper()
	s, err := NewSettings(fetcher.New(), lang, WithBaseURL(srv.base(lang)))
	if err != nil {
		t.Fatalf("NewSettings(%q): %v", lang, err)
	}
	return s
}

var testQueries = map[string]Query{
	"hun": {City: "Győr", ListingType: "elado", PropertyType: "lakas", Page: 1},
	"eng": {City: "Budapest", ListingType: "for-sale", PropertyType: "flat", Page: 1},
}

func newTestPage(t *testing.T, srv *siteServer, lang string, opts ...PageOption) *Page {
	t.Helper()
	p, err := NewPage(newTestSettings(t, srv, lang), testQueries[lang], opts...)
	if err != nil {
		t.Fatalf("NewPage(%s): %v", lang, err)
	}
	p.now = func() time.Time { return fixedNow }
	return p
}

type recordingFetcher struct {
	url string
	err error
}

func (f *recordingFetcher) Fetch(url string, _ http.Header) ([]byte, error) {
	f.url = url
	return nil, f.err
}

func (f *recordingFetcher) FetchDocument(url string, _ http.Header) (*goquery.Document, error) {
	f.url = url
	return nil, f.err
}

func (f *recordingFetcher) Download(url string, _ http.Header, _ string) error {
	f.url = url
	return f.err
}
