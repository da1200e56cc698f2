package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"autoscout-scraper/models"
)

// PostgresWriter persists the raw and cleaned datasets to PostgreSQL.
// Table writes are add-once: a table that already holds rows is left
// untouched on repeated runs.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, creates the schema
// if absent, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS raw_cars (
			id                 SERIAL PRIMARY KEY,
			title              TEXT NOT NULL DEFAULT '',
			version            TEXT NOT NULL DEFAULT '',
			subtitle           TEXT NOT NULL DEFAULT '',
			raw_price          TEXT NOT NULL DEFAULT '',
			leasing            BOOLEAN NOT NULL DEFAULT FALSE,
			location           TEXT NOT NULL DEFAULT '',
			mileage            TEXT NOT NULL DEFAULT '',
			first_registration TEXT NOT NULL DEFAULT '',
			power              TEXT NOT NULL DEFAULT '',
			condition          TEXT NOT NULL DEFAULT '',
			owners             TEXT NOT NULL DEFAULT '',
			transmission       TEXT NOT NULL DEFAULT '',
			fuel_type          TEXT NOT NULL DEFAULT '',
			consumption        TEXT NOT NULL DEFAULT '',
			emissions          TEXT NOT NULL DEFAULT '',
			scraped_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS cars (
			id                 SERIAL PRIMARY KEY,
			title              TEXT NOT NULL DEFAULT '',
			version            TEXT NOT NULL DEFAULT '',
			brand              TEXT NOT NULL DEFAULT '',
			price              INTEGER NOT NULL,
			mileage            INTEGER NOT NULL,
			power              INTEGER NOT NULL,
			first_registration NUMERIC(6,1),
			consumption        NUMERIC(5,1) NOT NULL,
			emissions          INTEGER NOT NULL,
			owners             INTEGER,
			condition          TEXT NOT NULL DEFAULT '',
			transmission       TEXT NOT NULL DEFAULT '',
			fuel_type          TEXT NOT NULL DEFAULT '',
			leasing            BOOLEAN NOT NULL DEFAULT FALSE,
			city               TEXT NOT NULL DEFAULT '',
			postal_code        TEXT NOT NULL DEFAULT '',
			country            TEXT NOT NULL DEFAULT '',
			longitude          DOUBLE PRECISION,
			latitude           DOUBLE PRECISION,
			alloys             BOOLEAN NOT NULL DEFAULT FALSE,
			heated_seats       BOOLEAN NOT NULL DEFAULT FALSE,
			air_conditioning   BOOLEAN NOT NULL DEFAULT FALSE,
			parking_assist     BOOLEAN NOT NULL DEFAULT FALSE,
			navigation_system  BOOLEAN NOT NULL DEFAULT FALSE,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_cars_price     ON cars(price);
		CREATE INDEX IF NOT EXISTS idx_cars_brand     ON cars(brand);
		CREATE INDEX IF NOT EXISTS idx_cars_fuel_type ON cars(fuel_type);
		CREATE INDEX IF NOT EXISTS idx_cars_city      ON cars(city);
	`)
	return err
}

// tableEmpty reports whether the named table currently holds no rows.
func (pw *PostgresWriter) tableEmpty(table string) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s LIMIT 1)", table)
	if err := pw.db.QueryRow(query).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: check %s: %w", table, err)
	}
	return !exists, nil
}

// WriteRaw batch-inserts the raw dataset. The write is skipped when the
// table already holds data from a previous run.
func (pw *PostgresWriter) WriteRaw(cars []*models.RawCar) error {
	if len(cars) == 0 {
		return nil
	}

	empty, err := pw.tableEmpty("raw_cars")
	if err != nil {
		return err
	}
	if !empty {
		return ErrTableNotEmpty
	}

	const batchSize = 50
	for i := 0; i < len(cars); i += batchSize {
		end := i + batchSize
		if end > len(cars) {
			end = len(cars)
		}
		if err := pw.insertRawBatch(cars[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// ErrTableNotEmpty is returned when an add-once write finds existing rows.
var ErrTableNotEmpty = fmt.Errorf("postgres: table already populated, write skipped")

func (pw *PostgresWriter) insertRawBatch(batch []*models.RawCar) error {
	const cols = 16
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, c := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := 0; j < cols; j++ {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			c.Title, c.Version, c.Subtitle, c.RawPrice, c.Leasing, c.Location,
			c.Mileage, c.FirstRegistration, c.Power, c.Condition, c.Owners,
			c.Transmission, c.FuelType, c.Consumption, c.Emissions, c.ScrapedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO raw_cars (title, version, subtitle, raw_price, leasing, location,
			mileage, first_registration, power, condition, owners,
			transmission, fuel_type, consumption, emissions, scraped_at)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// WriteCars batch-inserts the cleaned dataset, add-once like WriteRaw.
func (pw *PostgresWriter) WriteCars(cars []*models.Car) error {
	if len(cars) == 0 {
		return nil
	}

	empty, err := pw.tableEmpty("cars")
	if err != nil {
		return err
	}
	if !empty {
		return ErrTableNotEmpty
	}

	const batchSize = 50
	for i := 0; i < len(cars); i += batchSize {
		end := i + batchSize
		if end > len(cars) {
			end = len(cars)
		}
		if err := pw.insertCarBatch(cars[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertCarBatch(batch []*models.Car) error {
	const cols = 25
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, c := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := 0; j < cols; j++ {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			c.Title, c.Version, c.Brand, c.Price, c.Mileage, c.Power,
			c.FirstRegistration, c.Consumption, c.Emissions, c.Owners,
			c.Condition, c.Transmission, c.FuelType, c.Leasing,
			c.City, c.PostalCode, c.Country, c.Longitude, c.Latitude,
			c.Alloys, c.HeatedSeats, c.AirConditioning, c.ParkingAssist,
			c.NavigationSystem, c.CreatedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO cars (title, version, brand, price, mileage, power,
			first_registration, consumption, emissions, owners,
			condition, transmission, fuel_type, leasing,
			city, postal_code, country, longitude, latitude,
			alloys, heated_seats, air_conditioning, parking_assist,
			navigation_system, created_at)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// FetchCars retrieves all stored cleaned cars — used by the insight service.
func (pw *PostgresWriter) FetchCars() ([]*models.Car, error) {
	rows, err := pw.db.Query(`
		SELECT id, title, version, brand, price, mileage, power,
			first_registration, consumption, emissions, owners,
			condition, transmission, fuel_type, leasing,
			city, postal_code, country, longitude, latitude,
			alloys, heated_seats, air_conditioning, parking_assist,
			navigation_system, created_at
		FROM cars
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch cars: %w", err)
	}
	defer rows.Close()

	var cars []*models.Car
	for rows.Next() {
		c := &models.Car{}
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Version, &c.Brand, &c.Price, &c.Mileage, &c.Power,
			&c.FirstRegistration, &c.Consumption, &c.Emissions, &c.Owners,
			&c.Condition, &c.Transmission, &c.FuelType, &c.Leasing,
			&c.City, &c.PostalCode, &c.Country, &c.Longitude, &c.Latitude,
			&c.Alloys, &c.HeatedSeats, &c.AirConditioning, &c.ParkingAssist,
			&c.NavigationSystem, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
