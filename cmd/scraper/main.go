// ABOUTME: Main entry point for the otodom offer scraper
// ABOUTME: Wires together sinks, transport and logging, then captures listings

package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"otodom-scraper/core/interfaces"
	"otodom-scraper/core/listing"
	"otodom-scraper/core/offer"
	stdhttp "otodom-scraper/infrastructure/http/standard"
	logruslogger "otodom-scraper/infrastructure/logger/logrus"
	"otodom-scraper/infrastructure/sink/localfile"
	redissink "otodom-scraper/infrastructure/sink/redis"
	sqlitesink "otodom-scraper/infrastructure/sink/sqlite"
	"otodom-scraper/pkg/config"
)

func main() {
	extensionsFlag := flag.String("extensions", "", "comma-separated offer URL extensions to capture")
	listingFlag := flag.String("listing", "", "listing page URL to discover offers from")
	pagesFlag := flag.Int("pages", 1, "maximum listing pages to crawl")
	forceFlag := flag.Bool("force", false, "re-capture listings even when already captured")
	flag.Parse()

	// A missing .env file is fine, environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logruslogger.NewLogger(cfg.Log.Level)
	logger.Info("Starting otodom scraper", map[string]interface{}{
		"base_url":     cfg.Scraper.BaseURL,
		"tabular_sink": cfg.Tabular.Backend,
		"image_sink":   cfg.Images.Backend,
	})

	// Create tabular sink
	var tabular interfaces.TabularSink
	switch cfg.Tabular.Backend {
	case "sqlite":
		sink, err := sqlitesink.NewTabularSink(cfg.Tabular.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to create sqlite sink: %v", err)
		}
		defer sink.Close()
		tabular = sink
	default:
		tabular = localfile.NewTabularSink(cfg.Tabular.Dir)
	}

	// Create image sink
	var images interfaces.ImageSink
	switch cfg.Images.Backend {
	case "redis":
		sink, err := redissink.NewImageSink(cfg.Images.Redis)
		if err != nil {
			log.Fatalf("Failed to create redis sink: %v", err)
		}
		defer sink.Close()
		images = sink
	default:
		images = localfile.NewImageSink(cfg.Images.Dir)
	}

	deps := interfaces.Dependencies{
		HTTPClient: stdhttp.NewStandardHTTPClient(time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second),
		Logger:     logger,
		Tabular:    tabular,
		Images:     images,
	}

	extensions := splitExtensions(*extensionsFlag)
	if *listingFlag != "" {
		crawler := listing.NewCrawler(logger)
		discovered, err := crawler.Collect(*listingFlag, *pagesFlag)
		if err != nil {
			logger.Error("Listing crawl failed", map[string]interface{}{"error": err.Error()})
		}
		extensions = append(extensions, discovered...)
	}
	if len(extensions) == 0 {
		log.Fatal("Nothing to do: pass -extensions or -listing")
	}

	// Cancellation stops before the next listing; a listing already in
	// flight finishes its capture sequence.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	captured, failed := 0, 0
	for _, ext := range extensions {
		if ctx.Err() != nil {
			logger.Warn("Interrupted, stopping before the next listing", nil)
			break
		}

		if err := captureListing(ctx, cfg.Scraper.BaseURL, ext, deps, *forceFlag); err != nil {
			failed++
			logger.Error("Capture failed", map[string]interface{}{
				"url_extension": ext,
				"error":         err.Error(),
			})
			continue
		}
		captured++
	}

	logger.Info("Run finished", map[string]interface{}{
		"listings": len(extensions),
		"captured": captured,
		"failed":   failed,
	})
}

// captureListing runs the full capture sequence for one listing.
func captureListing(ctx context.Context, baseURL, ext string, deps interfaces.Dependencies, force bool) error {
	h, err := offer.NewHandler(ctx, baseURL, ext, deps)
	if err != nil {
		return err
	}
	return h.Capture(ctx, force)
}

// splitExtensions parses the -extensions flag value.
func splitExtensions(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
