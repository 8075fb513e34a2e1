package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Job is one search as written in the jobs file. Page stays textual and is
// validated by the scraper.
type Job struct {
	Lang         string `yaml:"lang"`
	City         string `yaml:"city"`
	ListingType  string `yaml:"listing_type"`
	PropertyType string `yaml:"property_type"`
	Page         string `yaml:"page"`
	Pages        int    `yaml:"pages"`
	Limit        int    `yaml:"limit"`
	PhotosDir    string `yaml:"photos_dir"`
}

type jobsFile struct {
	Jobs []Job `yaml:"jobs"`
}

// LoadJobs reads a YAML file of the form
//
//	jobs:
//	  - lang: hun
//	    city: Győr
//	    listing_type: elado
//	    property_type: lakas
//	    page: "1"
//	    pages: 2
//
// Missing page numbers default to "1".
func LoadJobs(path string) ([]Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open jobs file: %w", err)
	}
	defer f.Close()

	var jf jobsFile
	decoder := yaml.NewDecoder(f)
	decoder.SetStrict(true)
	if err := decoder.Decode(&jf); err != nil {
		return nil, fmt.Errorf("config: decode jobs file %s: %w", path, err)
	}
	if len(jf.Jobs) == 0 {
		return nil, fmt.Errorf("config: jobs file %s has no jobs", path)
	}
	for i := range jf.Jobs {
		if jf.Jobs[i].Page == "" {
			jf.Jobs[i].Page = "1"
		}
	}
	return jf.Jobs, nil
}
