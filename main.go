package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"real-estate-hungary/config"
	"real-estate-hungary/models"
	"real-estate-hungary/monitoring"
	"real-estate-hungary/scraper"
	"real-estate-hungary/scraper/fetcher"
	"real-estate-hungary/services"
	"real-estate-hungary/storage"
	"real-estate-hungary/utils"
)

type sink struct {
	name string
	w    storage.RecordWriter
}

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	runID := uuid.New()
	logger.Info("=== Hungarian real estate scraper starting (run %s) ===", runID)

	cfgJobs, err := cfg.Jobs()
	if err != nil {
		logger.Error("Failed to load jobs: %v", err)
		os.Exit(1)
	}
	jobs, err := toJobs(cfgJobs)
	if err != nil {
		logger.Error("Invalid job: %v", err)
		os.Exit(1)
	}
	logger.Info("Config | jobs: %d | csv: %s | postgres: %t | amqp: %t",
		len(jobs), cfg.CSVOutputPath, cfg.PostgresEnabled, cfg.AMQPURL != "")

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	var pgWriter *storage.PostgresWriter
	if cfg.PostgresEnabled {
		pgWriter, err = storage.NewPostgresWriter(cfg.DSN(), runID)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
			os.Exit(1)
		}
		defer pgWriter.Close()
	}

	var source storage.RecordSource
	if pgWriter != nil {
		source = pgWriter
	}
	existing := loadExisting(cfg, source, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := fetcher.New(fetcher.WithUserAgent(cfg.UserAgent), fetcher.WithTimeout(cfg.RequestTimeout))
	collector := services.NewCollector(f, logger, metrics)

	table, err := collector.Run(ctx, jobs, existing)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Warn("Interrupted, keeping %d records collected so far", table.Len())
	case err != nil:
		logger.Error("Scrape failed: %v", err)
		os.Exit(1)
	}

	if table.Empty() {
		logger.Warn("No new listings were scraped.")
		return
	}
	logger.Info("Scraped %d new listings, writing output...", table.Len())

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()
	sinks := []sink{{"CSV " + cfg.CSVOutputPath, csvWriter}}

	if pgWriter != nil {
		sinks = append(sinks, sink{"PostgreSQL (table: listing_records)", pgWriter})
	}

	if cfg.AMQPURL != "" {
		publisher, err := storage.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue, runID)
		if err != nil {
			logger.Error("[storage] AMQP unavailable, skipping publish: %v", err)
		} else {
			defer publisher.Close()
			sinks = append(sinks, sink{"AMQP queue " + cfg.AMQPQueue, publisher})
		}
	}

	for _, s := range sinks {
		if err := s.w.Write(table); err != nil {
			logger.Error("[storage] %s write failed: %v", s.name, err)
			continue
		}
		logger.Info("[storage] %d records stored in %s", table.Len(), s.name)
	}

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(table)
	insightSvc.Print(report)

	fmt.Printf("  Done. Run %s → %s\n\n", runID, cfg.CSVOutputPath)
}

// toJobs validates the textual page numbers of the configured jobs.
func toJobs(cfgJobs []config.Job) ([]services.Job, error) {
	jobs := make([]services.Job, 0, len(cfgJobs))
	for _, j := range cfgJobs {
		page, err := scraper.ParsePageNum(j.Page)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, services.Job{
			Lang: j.Lang,
			Query: scraper.Query{
				City:         j.City,
				ListingType:  j.ListingType,
				PropertyType: j.PropertyType,
				Page:         page,
			},
			Pages:     j.Pages,
			Limit:     j.Limit,
			PhotosDir: j.PhotosDir,
		})
	}
	return jobs, nil
}

// loadExisting builds the deduplication snapshot from the previous CSV
// output and the database.
func loadExisting(cfg *config.Config, src storage.RecordSource, logger *utils.Logger) *models.Table {
	existing := models.NewTable()
	if cfg.ExistingCSVPath != "" {
		t, err := storage.ReadCSV(cfg.ExistingCSVPath)
		if err != nil {
			logger.Error("[storage] Failed to read %s: %v", cfg.ExistingCSVPath, err)
		} else {
			existing.Append(t.Rows()...)
			logger.Info("[storage] Loaded %d existing records from %s", t.Len(), cfg.ExistingCSVPath)
		}
	}
	if src != nil {
		t, err := src.FetchAll()
		if err != nil {
			logger.Error("[storage] Failed to fetch stored records: %v", err)
		} else {
			existing.Append(t.Rows()...)
			logger.Info("[storage] Loaded %d existing records from PostgreSQL", t.Len())
		}
	}
	return existing
}

func serveMetrics(addr string, logger *utils.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("[monitoring] Serving metrics on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("[monitoring] Metrics server stopped: %v", err)
	}
}
