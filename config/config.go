package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Lang         string
	City         string
	ListingType  string
	PropertyType string
	Page         string
	Pages        int
	Limit        int

	PhotosDir       string
	CSVOutputPath   string
	ExistingCSVPath string
	JobsFile        string

	UserAgent      string
	RequestTimeout time.Duration

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	AMQPURL   string
	AMQPQueue string

	MetricsAddr string
	LogLevel    string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Lang:         getEnv("SCRAPER_LANG", "hun"),
		City:         getEnv("SCRAPER_CITY", "Budapest"),
		ListingType:  getEnv("SCRAPER_LISTING_TYPE", "elado"),
		PropertyType: getEnv("SCRAPER_PROPERTY_TYPE", "lakas"),
		Page:         getEnv("SCRAPER_PAGE", "1"),
		Pages:        getEnvInt("SCRAPER_PAGES", 1),
		Limit:        getEnvInt("SCRAPER_LIMIT", 0),

		PhotosDir:       getEnv("PHOTOS_DIR", ""),
		CSVOutputPath:   getEnv("CSV_OUTPUT_PATH", "./output/listings.csv"),
		ExistingCSVPath: getEnv("EXISTING_CSV_PATH", ""),
		JobsFile:        getEnv("JOBS_FILE", ""),

		UserAgent:      getEnv("USER_AGENT", ""),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "real_estate"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		AMQPURL:   getEnv("AMQP_URL", ""),
		AMQPQueue: getEnv("AMQP_QUEUE", "listings.scraped"),

		MetricsAddr: getEnv("METRICS_ADDR", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// EnvJob is the single search described by the SCRAPER_* variables.
func (c *Config) EnvJob() Job {
	return Job{
		Lang:         c.Lang,
		City:         c.City,
		ListingType:  c.ListingType,
		PropertyType: c.PropertyType,
		Page:         c.Page,
		Pages:        c.Pages,
		Limit:        c.Limit,
		PhotosDir:    c.PhotosDir,
	}
}

// Jobs returns the jobs of JobsFile when set, otherwise the env job.
func (c *Config) Jobs() ([]Job, error) {
	if c.JobsFile == "" {
		return []Job{c.EnvJob()}, nil
	}
	return LoadJobs(c.JobsFile)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
		log.Printf("[config] %s=%q is not an integer, using %d", key, val, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
		log.Printf("[config] %s=%q is not a boolean, using %t", key, val, fallback)
	}
	return fallback
}
