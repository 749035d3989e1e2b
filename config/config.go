package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Marketplace
	MeliAPIURL      string
	MeliUserID      string
	MeliAccessToken string
	PageSize        int
	BatchSize       int

	// Rate limiting (marketplace calls only)
	RatePerSecond float64
	RateBurst     int

	// Credit provider
	CreditcarURL     string
	CreditcarMethod  string // "GET" or "POST"
	CreditcarTimeout time.Duration
	FloorYear        int

	// Storage
	Store         string // "postgres", "mongo", "memory"
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	// HTTP server
	HTTPPort      string
	CronSecret    string
	MCPAPIKey     string
	AdminAPIKey   string
	AnalyticsSalt string
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MeliAPIURL:       "https://api.mercadolibre.com",
		PageSize:         50,
		BatchSize:        20,
		RatePerSecond:    5.0,
		RateBurst:        5,
		CreditcarMethod:  "GET",
		CreditcarTimeout: 8 * time.Second,
		FloorYear:        2013,
		Store:            "postgres",
		MongoDatabase:    "autolot",
		HTTPPort:         "8080",
		AnalyticsSalt:    "dev_salt_change_me",
	}
}

// LoadFromEnv loads .env file (if present) then overrides config from environment variables.
func (c *Config) LoadFromEnv() {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	if v := os.Getenv("MELI_API_URL"); v != "" {
		c.MeliAPIURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("MELI_USER_ID"); v != "" {
		c.MeliUserID = v
	}
	if v := os.Getenv("MELI_ACCESS_TOKEN"); v != "" {
		c.MeliAccessToken = v
	}
	if v := os.Getenv("MELI_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PageSize = n
		}
	}
	if v := os.Getenv("MELI_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.BatchSize = n
		}
	}
	if v := os.Getenv("MELI_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("MELI_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
	if v := os.Getenv("CREDITCAR_API_URL"); v != "" {
		c.CreditcarURL = v
	}
	if v := os.Getenv("CREDITCAR_METHOD"); v != "" {
		c.CreditcarMethod = strings.ToUpper(v)
	}
	if v := os.Getenv("CREDITCAR_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.CreditcarTimeout = d
		}
	}
	if v := os.Getenv("QUOTE_FLOOR_YEAR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.FloorYear = n
		}
	}
	if v := os.Getenv("AUTOLOT_STORE"); v != "" {
		c.Store = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.MongoURI = v
	}
	if v := os.Getenv("MONGO_DATABASE"); v != "" {
		c.MongoDatabase = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTPPort = v
	}
	if v := os.Getenv("CRON_SECRET"); v != "" {
		c.CronSecret = v
	}
	if v := os.Getenv("MCP_API_KEY"); v != "" {
		c.MCPAPIKey = v
	}
	if v := os.Getenv("ADMIN_API_KEY"); v != "" {
		c.AdminAPIKey = v
	}
	if v := os.Getenv("ANALYTICS_SALT"); v != "" {
		c.AnalyticsSalt = v
	}
}

// ValidateSync reports every setting the catalog sync cannot run without.
func (c *Config) ValidateSync() error {
	var errs []error
	if c.MeliAPIURL == "" {
		errs = append(errs, errors.New("MELI_API_URL must be set"))
	}
	if c.MeliUserID == "" {
		errs = append(errs, errors.New("MELI_USER_ID must be set"))
	}
	if c.MeliAccessToken == "" {
		errs = append(errs, errors.New("MELI_ACCESS_TOKEN must be set"))
	}
	return errors.Join(errs...)
}

// ValidateQuote reports every setting the quote proxy cannot run without.
func (c *Config) ValidateQuote() error {
	var errs []error
	if c.CreditcarURL == "" {
		errs = append(errs, errors.New("CREDITCAR_API_URL must be set"))
	}
	if c.CreditcarMethod != "GET" && c.CreditcarMethod != "POST" {
		errs = append(errs, errors.New("CREDITCAR_METHOD must be GET or POST"))
	}
	return errors.Join(errs...)
}

// ValidateStore checks the selected backend has its connection string.
func (c *Config) ValidateStore() error {
	switch c.Store {
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL must be set for the postgres store")
		}
	case "mongo":
		if c.MongoURI == "" {
			return errors.New("MONGO_URI must be set for the mongo store")
		}
	case "memory":
	default:
		return errors.New("AUTOLOT_STORE must be postgres, mongo or memory")
	}
	return nil
}
