package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"flipfinder/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Source marketplace search
	Keyword         string
	SearchURL       string
	SiteBaseURL     string
	PageSize        int
	MaxPages        int
	PageLoadTimeout time.Duration
	PageDelayMin    time.Duration
	PageDelayMax    time.Duration

	// Relevance filtering
	MinValidPrice float64
	CaseSensitive bool
	ProductFamily string

	// External marketplace (completed sales)
	SaleDomains      []string
	ResultsPerDomain int
	DomainDelayMin   time.Duration
	DomainDelayMax   time.Duration
	DomainBlockTime  time.Duration

	// Evaluation
	ConversionRates    map[string]float64
	ExcellentThreshold float64
	GoodThreshold      float64
	ModerateThreshold  float64

	// Tabular sink
	SheetsDir          string
	RawTable           string
	CleanedTable       string
	OpportunitiesTable string

	// Redis publisher (optional)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache throttle (optional)
	MemcacheAddr string

	// Browser session
	UseBrowser bool
	ChromeBin  string
	Headless   bool

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	return Config{
		Keyword:         getEnv("SEARCH_KEYWORD", "iphone 16"),
		SearchURL:       getEnv("SEARCH_URL", "https://www.donedeal.ie/all"),
		SiteBaseURL:     getEnv("SITE_BASE_URL", "https://www.donedeal.ie"),
		PageSize:        getEnvInt("PAGE_SIZE", 30),
		MaxPages:        getEnvInt("MAX_PAGES", 0),
		PageLoadTimeout: getEnvDuration("PAGE_LOAD_TIMEOUT_MS", 10000),
		PageDelayMin:    getEnvDuration("PAGE_DELAY_MIN_MS", 1000),
		PageDelayMax:    getEnvDuration("PAGE_DELAY_MAX_MS", 2000),

		MinValidPrice: getEnvFloat("MIN_VALID_PRICE", 0),
		CaseSensitive: getEnvBool("CASE_SENSITIVE_FILTER", false),
		ProductFamily: getEnv("PRODUCT_FAMILY", "phone"),

		SaleDomains:      splitList(getEnv("SALE_DOMAINS", "co.uk,com,ie")),
		ResultsPerDomain: getEnvInt("RESULTS_PER_DOMAIN", 10),
		DomainDelayMin:   getEnvDuration("DOMAIN_DELAY_MIN_MS", 1500),
		DomainDelayMax:   getEnvDuration("DOMAIN_DELAY_MAX_MS", 2500),
		DomainBlockTime:  getEnvDuration("DOMAIN_BLOCK_TIME_MS", 300000),

		ConversionRates:    parseRates(getEnv("CONVERSION_RATES", "£=1.15,$=0.85,€=1.0")),
		ExcellentThreshold: getEnvFloat("EXCELLENT_THRESHOLD", 50),
		GoodThreshold:      getEnvFloat("GOOD_THRESHOLD", 25),
		ModerateThreshold:  getEnvFloat("MODERATE_THRESHOLD", 10),

		SheetsDir:          getEnv("SHEETS_DIR", "sheets"),
		RawTable:           getEnv("RAW_TABLE", "listings"),
		CleanedTable:       getEnv("CLEANED_TABLE", "cleaned_listings"),
		OpportunitiesTable: getEnv("OPPORTUNITIES_TABLE", "profit_opportunities"),

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "opportunities"),
		RedisStreamCount:     getEnvInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 500),

		MemcacheAddr: getEnv("MEMCACHE_ADDR", ""),

		UseBrowser: getEnvBool("USE_BROWSER", true),
		ChromeBin:  getEnv("CHROME_BIN", ""),
		Headless:   getEnvBool("HEADLESS", true),

		Environment: getEnv("FLIPFINDER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Keyword) == "" {
		return errors.NewConfiguration("search keyword must not be empty", nil)
	}
	if c.SearchURL == "" {
		return errors.NewConfiguration("search URL must not be empty", nil)
	}
	if c.PageSize <= 0 {
		return errors.NewConfiguration("page size must be positive", nil)
	}
	if c.MaxPages < 0 {
		return errors.NewConfiguration("max pages must not be negative", nil)
	}
	if len(c.SaleDomains) == 0 {
		return errors.NewConfiguration("at least one sale domain is required", nil)
	}
	if c.ResultsPerDomain <= 0 {
		return errors.NewConfiguration("results per domain must be positive", nil)
	}
	if c.PageDelayMax < c.PageDelayMin || c.DomainDelayMax < c.DomainDelayMin {
		return errors.NewConfiguration("delay upper bound below lower bound", nil)
	}
	if !(c.ExcellentThreshold >= c.GoodThreshold && c.GoodThreshold >= c.ModerateThreshold) {
		return errors.NewConfiguration("opportunity tier thresholds must be descending", nil)
	}
	for symbol, rate := range c.ConversionRates {
		if rate <= 0 {
			return errors.NewConfiguration("conversion rate for "+symbol+" must be positive", nil)
		}
	}
	return nil
}

// parseRates parses a "symbol=rate,symbol=rate" conversion table
func parseRates(raw string) map[string]float64 {
	rates := make(map[string]float64)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}
		rate, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			continue
		}
		rates[parts[0]] = rate
	}
	return rates
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultMs int) time.Duration {
	return time.Duration(getEnvInt(key, defaultMs)) * time.Millisecond
}
