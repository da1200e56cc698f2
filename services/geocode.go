package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"autoscout-scraper/config"
	"autoscout-scraper/models"
	"autoscout-scraper/utils"
)

// Geocoder resolves city names to coordinates against a Nominatim-style
// endpoint. Lookups are memoised per city, so rows sharing a city cost one
// network round trip system-wide; requests are paced to respect the
// service's rate policy.
type Geocoder struct {
	endpoint  string
	userAgent string
	client    *http.Client
	limiter   *utils.RateLimiter
	logger    *utils.Logger

	cache map[string]*coordinates
}

type coordinates struct {
	longitude float64
	latitude  float64
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NewGeocoder creates a Geocoder from the application config.
func NewGeocoder(cfg *config.Config, logger *utils.Logger) *Geocoder {
	return &Geocoder{
		endpoint:  cfg.GeocodeURL,
		userAgent: cfg.GeocodeUserAgent,
		client:    &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutMs) * time.Millisecond},
		limiter:   utils.NewRateLimiter(cfg.GeocodeLimitMs),
		logger:    logger,
		cache:     make(map[string]*coordinates),
	}
}

// Annotate looks up coordinates for every car's city and fills in the
// optional longitude/latitude columns. A miss or failure leaves the
// coordinates nil for that row only; map consumers skip such rows.
func (g *Geocoder) Annotate(ctx context.Context, cars []*models.Car) {
	var hits, misses int
	for _, car := range cars {
		if car.City == "" {
			misses++
			continue
		}
		coords := g.lookup(ctx, car.City)
		if coords == nil {
			misses++
			continue
		}
		lon, lat := coords.longitude, coords.latitude
		car.Longitude = &lon
		car.Latitude = &lat
		hits++
	}
	g.logger.Info("[geocode] Annotated %d cars (%d without coordinates, %d distinct cities queried)",
		hits, misses, len(g.cache))
}

// lookup returns the coordinates for a city, consulting the cache first.
// Failures are cached too, so a broken city name is queried only once.
func (g *Geocoder) lookup(ctx context.Context, city string) *coordinates {
	if coords, seen := g.cache[city]; seen {
		return coords
	}

	coords, err := g.query(ctx, city)
	if err != nil {
		g.logger.Warn("[geocode] %q: %v", city, err)
		coords = nil
	}
	g.cache[city] = coords
	return coords
}

func (g *Geocoder) query(ctx context.Context, city string) (*coordinates, error) {
	g.limiter.Wait()

	reqURL := fmt.Sprintf("%s?q=%s&format=json&limit=1", g.endpoint, url.QueryEscape(city))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode HTTP %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("city not found")
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude: %w", err)
	}

	return &coordinates{longitude: lon, latitude: lat}, nil
}
