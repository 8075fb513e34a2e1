package services

import (
	"context"
	"errors"
	"fmt"

	"real-estate-hungary/models"
	"real-estate-hungary/monitoring"
	"real-estate-hungary/scraper"
	"real-estate-hungary/utils"
)

// Job is one search to collect: a query and how many consecutive result
// pages to walk from its page number.
type Job struct {
	Lang      string
	Query     scraper.Query
	Pages     int
	Limit     int
	PhotosDir string
}

func (j Job) String() string {
	return fmt.Sprintf("%s %s/%s/%s page %d", j.Lang, j.Query.City, j.Query.ListingType, j.Query.PropertyType, j.Query.Page)
}

// Collector runs jobs one page at a time, deduplicating every page against
// the existing table plus everything collected so far.
type Collector struct {
	fetcher  scraper.Fetcher
	logger   *utils.Logger
	metrics  *monitoring.Metrics
	baseURLs map[string]string
	settings map[string]*scraper.Settings
}

type CollectorOption func(*Collector)

// WithBaseURL points one language at another host serving the same markup.
func WithBaseURL(lang, base string) CollectorOption {
	return func(c *Collector) { c.baseURLs[lang] = base }
}

func NewCollector(f scraper.Fetcher, logger *utils.Logger, metrics *monitoring.Metrics, opts ...CollectorOption) *Collector {
	c := &Collector{
		fetcher:  f,
		logger:   logger,
		metrics:  metrics,
		baseURLs: make(map[string]string),
		settings: make(map[string]*scraper.Settings),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Settings resolves lang once per collector.
func (c *Collector) Settings(lang string) (*scraper.Settings, error) {
	if s, ok := c.settings[lang]; ok {
		return s, nil
	}
	s, err := scraper.NewSettings(c.fetcher, lang, scraper.WithBaseURL(c.baseURLs[lang]))
	if err != nil {
		return nil, err
	}
	c.settings[lang] = s
	c.logger.Debug("[collector] Resolved %s settings at %s", s.Lang(), s.BaseURL())
	return s, nil
}

// Run collects every job in order. Invalid options abort the run; a page
// that cannot be loaded ends its job and the run moves on. On cancellation
// the records collected so far are returned with the context error.
func (c *Collector) Run(ctx context.Context, jobs []Job, existing *models.Table) (*models.Table, error) {
	collected := models.NewTable()

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return collected, err
		}
		if err := c.runJob(ctx, job, existing, collected); err != nil {
			if isConfigError(err) {
				return collected, err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return collected, ctxErr
			}
			c.metrics.IncErrors("job_failed")
			c.logger.Error("[collector] Job %s failed: %v", job, err)
		}
	}

	c.logger.Info("[collector] Collected %d new records from %d jobs", collected.Len(), len(jobs))
	return collected, nil
}

func (c *Collector) runJob(ctx context.Context, job Job, existing, collected *models.Table) error {
	s, err := c.Settings(job.Lang)
	if err != nil {
		return err
	}

	var opts []scraper.PageOption
	if job.PhotosDir != "" {
		opts = append(opts, scraper.WithPhotosDir(job.PhotosDir))
	}

	pages := max(job.Pages, 1)
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		q := job.Query
		q.Page += i

		page, err := scraper.NewPage(s, q, opts...)
		if err != nil {
			if !isConfigError(err) {
				c.metrics.IncErrors("page_failed")
			}
			return err
		}

		maxPage, err := page.MaxPage()
		if err != nil {
			c.metrics.IncErrors("page_failed")
			return err
		}
		if i > 0 && q.Page > maxPage {
			c.logger.Info("[collector] %s has only %d pages, stopping", job, maxPage)
			return nil
		}

		n, err := c.collectPage(ctx, page, job.Limit, existing, collected)
		if err != nil {
			return err
		}
		c.metrics.IncPages(s.Lang())
		c.logger.Info("[collector] %s: page %d/%d gave %d new records", s.Lang(), q.Page, maxPage, n)
	}
	return nil
}

// collectPage appends the page's records to collected and returns how many
// were added.
func (c *Collector) collectPage(ctx context.Context, page *scraper.Page, limit int, existing, collected *models.Table) (int, error) {
	snapshot := models.NewTable(existing.Rows()...)
	snapshot.Append(collected.Rows()...)

	seq, err := page.Records(limit, snapshot)
	var le *scraper.LimitError
	if errors.As(err, &le) {
		c.logger.Warn("[collector] %s: %v; collecting %d", page, err, le.Available)
		seq, err = page.Records(le.Available, snapshot)
	}
	if err != nil {
		c.metrics.IncErrors("page_failed")
		return 0, err
	}

	lang := page.Lang()
	added := 0
	for rec, err := range seq {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return added, ctxErr
		}
		if err != nil {
			if scraper.IsGone(err) {
				c.metrics.IncGone(lang)
				c.logger.Warn("[collector] %v", err)
				continue
			}
			c.metrics.IncErrors("listing_failed")
			c.logger.Error("[collector] %v", err)
			continue
		}
		collected.Append(rec)
		c.metrics.IncListings(lang)
		added++
	}
	return added, nil
}

func isConfigError(err error) bool {
	var oe *scraper.OptionError
	return errors.As(err, &oe) || errors.Is(err, scraper.ErrInvalidPageNum)
}
