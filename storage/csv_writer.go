package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"autoscout-scraper/models"
)

// CSVWriter writes the raw (uncleaned) dataset to a CSV file, the
// durability fallback independent of the relational store.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"title", "version", "subtitle", "raw_price", "leasing", "location",
		"mileage", "first_registration", "power", "condition", "owners",
		"transmission", "fuel_type", "consumption", "emissions", "scraped_at",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRaw appends all raw cars to the CSV file.
func (c *CSVWriter) WriteRaw(cars []*models.RawCar) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, car := range cars {
		row := []string{
			car.Title,
			car.Version,
			car.Subtitle,
			car.RawPrice,
			strconv.FormatBool(car.Leasing),
			car.Location,
			car.Mileage,
			car.FirstRegistration,
			car.Power,
			car.Condition,
			car.Owners,
			car.Transmission,
			car.FuelType,
			car.Consumption,
			car.Emissions,
			car.ScrapedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
