package autoscout

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"autoscout-scraper/config"
	"autoscout-scraper/models"
	"autoscout-scraper/utils"
)

// Scraper drives the crawl over the cross-product of registration-year
// filters and result pages, accumulating one raw dataset.
type Scraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	fetcher Fetcher
	limiter *utils.RateLimiter
	visited *utils.URLSet
	retry   *utils.RetryConfig
}

// New creates a ready-to-use Scraper using the given page fetcher.
func New(cfg *config.Config, logger *utils.Logger, fetcher Fetcher) *Scraper {
	return &Scraper{
		cfg:     cfg,
		logger:  logger,
		fetcher: fetcher,
		limiter: utils.NewRateLimiter(cfg.RateLimitMs),
		visited: utils.NewURLSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			MaxDelay:    30 * time.Second,
			Logger:      logger,
		},
	}
}

// PageURL builds the search URL for one (year filter, page index) pair.
func (s *Scraper) PageURL(year, page int) string {
	return fmt.Sprintf("%s/lst?fregto=%d&page=%d", s.cfg.BaseURL, year, page)
}

// Scrape crawls every (year filter, page) combination in order and returns
// the accumulated raw dataset. A page whose fetch keeps failing after
// retries is skipped, never aborting the crawl; short or empty pages do not
// terminate the page loop either, so the crawl stays exhaustive.
func (s *Scraper) Scrape(ctx context.Context) ([]*models.RawCar, error) {
	years := s.cfg.YearFilters()
	s.logger.Info("[autoscout] Starting crawl — %d year filters × %d pages",
		len(years), s.cfg.PagesPerFilter)

	var cars []*models.RawCar
	var skipped int

	for _, year := range years {
		for page := 0; page < s.cfg.PagesPerFilter; page++ {
			if err := ctx.Err(); err != nil {
				return cars, fmt.Errorf("crawl cancelled: %w", err)
			}

			url := s.PageURL(year, page)
			if !s.visited.Add(url) {
				s.logger.Debug("[autoscout] Skipping already-fetched URL: %s", url)
				continue
			}

			pageCars, err := s.scrapePage(ctx, url)
			if err != nil {
				skipped++
				s.logger.Error("[autoscout] Page skipped (fregto=%d page=%d): %v", year, page, err)
				continue
			}

			cars = append(cars, pageCars...)
			s.logger.Debug("[autoscout] fregto=%d page=%d — %d cars (total %d)",
				year, page, len(pageCars), len(cars))
		}
		s.logger.Info("[autoscout] Filter fregto=%d done — %d cars so far", year, len(cars))
	}

	s.logger.Info("[autoscout] Crawl complete — %d raw cars, %d pages skipped", len(cars), skipped)
	return cars, nil
}

// scrapePage fetches one page with retry and extracts its vehicles.
func (s *Scraper) scrapePage(ctx context.Context, url string) ([]*models.RawCar, error) {
	var doc *goquery.Document

	err := s.retry.Do("fetch "+url, func() error {
		s.limiter.Wait()
		var err error
		doc, err = s.fetcher.Fetch(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}

	return ExtractPage(doc), nil
}
