package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	BaseURL        string
	YearFrom       int
	YearTo         int
	YearStep       int
	PagesPerFilter int
	RateLimitMs    int
	MaxRetries     int
	HTTPTimeoutMs  int
	UseBrowser     bool
	ChromeBin      string

	GeocodeEnabled   bool
	GeocodeURL       string
	GeocodeUserAgent string
	GeocodeLimitMs   int

	CSVOutputPath string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "car_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		BaseURL:        getEnv("BASE_URL", "https://www.autoscout24.de"),
		YearFrom:       getEnvInt("YEAR_FROM", 1995),
		YearTo:         getEnvInt("YEAR_TO", 2022),
		YearStep:       getEnvInt("YEAR_STEP", 1),
		PagesPerFilter: getEnvInt("PAGES_PER_FILTER", 20),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 2000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		HTTPTimeoutMs:  getEnvInt("HTTP_TIMEOUT_MS", 10000),
		UseBrowser:     getEnvBool("USE_BROWSER", false),
		ChromeBin:      getEnv("CHROME_BIN", ""),

		GeocodeEnabled:   getEnvBool("GEOCODE_ENABLED", true),
		GeocodeURL:       getEnv("GEOCODE_URL", "https://nominatim.openstreetmap.org/search"),
		GeocodeUserAgent: getEnv("GEOCODE_USER_AGENT", "autoscout-scraper/1.0"),
		GeocodeLimitMs:   getEnvInt("GEOCODE_LIMIT_MS", 1000),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/raw_cars.csv"),
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

// YearFilters returns the ordered registration-year filter values for the crawl.
func (c *Config) YearFilters() []int {
	step := c.YearStep
	if step < 1 {
		step = 1
	}
	var years []int
	for y := c.YearFrom; y <= c.YearTo; y += step {
		years = append(years, y)
	}
	return years
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
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
