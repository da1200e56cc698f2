package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"autoscout-scraper/config"
	"autoscout-scraper/scraper/autoscout"
	"autoscout-scraper/services"
	"autoscout-scraper/storage"
	"autoscout-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== AutoScout24 Car Data Pipeline starting ===")
	logger.Info("Config — years: %d–%d | pages/filter: %d | rate: %dms | browser: %v",
		cfg.YearFrom, cfg.YearTo, cfg.PagesPerFilter, cfg.RateLimitMs, cfg.UseBrowser)

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure Docker is running: docker compose up -d")
		os.Exit(1)
	}
	defer pgWriter.Close()

	var fetcher autoscout.Fetcher
	if cfg.UseBrowser {
		browser := autoscout.NewBrowserFetcher(cfg)
		defer browser.Close()
		fetcher = browser
	} else {
		fetcher = autoscout.NewHTTPFetcher(cfg)
	}

	ctx := context.Background()

	crawler := autoscout.New(cfg, logger, fetcher)
	rawCars, err := crawler.Scrape(ctx)
	if err != nil {
		logger.Error("Crawl failed: %v", err)
	}

	if len(rawCars) == 0 {
		logger.Error("No cars were scraped. Exiting.")
		os.Exit(1)
	}

	logger.Info("Scraped %d raw cars — writing backup CSV...", len(rawCars))

	if err := csvWriter.WriteRaw(rawCars); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Raw dataset saved to %s", cfg.CSVOutputPath)
	}

	if err := pgWriter.WriteRaw(rawCars); err != nil {
		if errors.Is(err, storage.ErrTableNotEmpty) {
			logger.Warn("raw_cars already populated — keeping existing data")
		} else {
			logger.Error("PostgreSQL raw write failed: %v", err)
		}
	} else {
		logger.Info("Raw dataset stored in PostgreSQL (table: raw_cars)")
	}

	normalizer := services.NewNormalizer(logger)
	cars := normalizer.Normalize(rawCars)

	if len(cars) == 0 {
		logger.Error("All cars were dropped during normalization. Exiting.")
		os.Exit(1)
	}

	logger.Info("Cleaned dataset: %d cars", len(cars))

	if cfg.GeocodeEnabled {
		geocoder := services.NewGeocoder(cfg, logger)
		geocoder.Annotate(ctx, cars)
	}

	if err := pgWriter.WriteCars(cars); err != nil {
		if errors.Is(err, storage.ErrTableNotEmpty) {
			logger.Warn("cars already populated — keeping existing data")
		} else {
			logger.Error("PostgreSQL write failed: %v", err)
		}
	} else {
		logger.Info("Cleaned dataset stored in PostgreSQL (table: cars)")
	}

	dbCars, err := pgWriter.FetchCars()
	if err != nil || len(dbCars) == 0 {
		if err != nil {
			logger.Error("Failed to fetch cars from DB for insights: %v", err)
		}
		dbCars = cars
	}

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(dbCars)
	insightSvc.Print(report)

	fmt.Printf("  Done. Raw CSV → %s | Data → PostgreSQL (raw_cars, cars)\n\n",
		cfg.CSVOutputPath)
}
