package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SCRAPER_LANG", "")
	t.Setenv("SCRAPER_PAGES", "")
	t.Setenv("POSTGRES_ENABLED", "")

	cfg := Load()
	if cfg.Lang != "hun" || cfg.Page != "1" || cfg.Pages != 1 {
		t.Errorf("Load() search defaults = %q, %q, %d", cfg.Lang, cfg.Page, cfg.Pages)
	}
	if cfg.PostgresEnabled {
		t.Error("PostgresEnabled should default to false")
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v; want 30s", cfg.RequestTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SCRAPER_LANG", "eng")
	t.Setenv("SCRAPER_CITY", "Debrecen")
	t.Setenv("SCRAPER_PAGE", "3")
	t.Setenv("SCRAPER_LIMIT", "5")
	t.Setenv("SCRAPER_PAGES", "many")
	t.Setenv("POSTGRES_ENABLED", "true")
	t.Setenv("REQUEST_TIMEOUT_SEC", "5")
	t.Setenv("JOBS_FILE", "")

	cfg := Load()
	if cfg.Lang != "eng" || cfg.City != "Debrecen" || cfg.Page != "3" || cfg.Limit != 5 {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.Pages != 1 {
		t.Errorf("invalid SCRAPER_PAGES should fall back to 1, got %d", cfg.Pages)
	}
	if !cfg.PostgresEnabled || cfg.RequestTimeout != 5*time.Second {
		t.Errorf("PostgresEnabled = %t, RequestTimeout = %v", cfg.PostgresEnabled, cfg.RequestTimeout)
	}

	jobs, err := cfg.Jobs()
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].City != "Debrecen" || jobs[0].Page != "3" {
		t.Errorf("Jobs() = %+v", jobs)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5433", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "re", PostgresSSLMode: "disable",
	}
	want := "host=db port=5433 user=u password=p dbname=re sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q; want %q", got, want)
	}
}

func TestLoadJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	data := `jobs:
  - lang: hun
    city: Győr
    listing_type: elado
    property_type: lakas
    page: "2"
    pages: 3
  - lang: eng
    city: Budapest
    listing_type: for-rent
    property_type: flat
    limit: 4
    photos_dir: ./photos
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	jobs, err := LoadJobs(path)
	if err != nil {
		t.Fatalf("LoadJobs: %v", err)
	}
	want := []Job{
		{Lang: "hun", City: "Győr", ListingType: "elado", PropertyType: "lakas", Page: "2", Pages: 3},
		{Lang: "eng", City: "Budapest", ListingType: "for-rent", PropertyType: "flat", Page: "1", Limit: 4, PhotosDir: "./photos"},
	}
	if !reflect.DeepEqual(jobs, want) {
		t.Errorf("LoadJobs() = %+v\nwant %+v", jobs, want)
	}
}

func TestLoadJobsErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data string
	}{
		{"empty", "jobs: []\n"},
		{"unknown field", "jobs:\n  - lang: hun\n    town: Győr\n"},
		{"not yaml", "jobs: [\n"},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name+".yaml")
		if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadJobs(path); err == nil {
			t.Errorf("LoadJobs(%s) should fail", tt.name)
		}
	}

	if _, err := LoadJobs(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadJobs(missing) should fail")
	}
}
