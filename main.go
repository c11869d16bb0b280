package main

import (
	"context"

	"flipfinder/config"
	"flipfinder/internal/browse"
	"flipfinder/logger"
	"flipfinder/services/cache"
	"flipfinder/services/publisher"
	"flipfinder/services/sink"
	"flipfinder/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("keyword", cfg.Keyword).
		Int("max_pages", cfg.MaxPages).
		Strs("sale_domains", cfg.SaleDomains).
		Msg("Starting scan")

	// Acquire the browsing session. This is the only run-fatal failure.
	nav, err := acquireNavigator(&cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to acquire browsing session")
	}
	defer nav.Close()

	tableSink, err := sink.NewCSVSink(cfg.SheetsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create tabular sink")
	}

	// Optional services
	var cacheSvc cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("Using memcache throttle")
	} else {
		cacheSvc = cache.NewMemoryService()
	}

	var pub publisher.Publisher
	if cfg.RedisAddr != "" {
		ctx := context.Background()
		pub = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		defer pub.Close()
		log.Info().Str("addr", cfg.RedisAddr).Str("stream", cfg.RedisStream).
			Msg("Publishing opportunities to Redis")
	}

	w := worker.NewWorker(cfg, nav, tableSink, pub, cacheSvc)
	results, err := w.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Scan failed")
	}

	log.Info().Int("opportunities", len(results)).Msg("Done")
}

// acquireNavigator picks the configured navigator implementation.
func acquireNavigator(cfg *config.Config) (browse.Navigator, error) {
	if cfg.UseBrowser {
		return browse.NewChromeNavigator(cfg.ChromeBin, cfg.Headless)
	}
	return browse.NewStaticNavigator(cfg.PageLoadTimeout), nil
}
