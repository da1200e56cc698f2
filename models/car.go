package models

import "time"

// RawCar holds one vehicle exactly as scraped from a search-result page:
// the listing half (title, price, location, …) and the detail-table half
// (mileage, power, fuel type, …), all as raw display strings.
// A field whose markup element was absent is the empty string.
// This is written to CSV before any cleaning or transformation.
type RawCar struct {
	Title    string
	Version  string
	Subtitle string
	RawPrice string
	Leasing  bool
	Location string

	Mileage           string
	FirstRegistration string
	Power             string
	Condition         string
	Owners            string
	Transmission      string
	FuelType          string
	Consumption       string
	Emissions         string

	ScrapedAt time.Time
}

// Car is the cleaned, typed record ready for PostgreSQL storage and the
// insight report. Pointer fields distinguish "value not provided" (nil)
// from a genuine zero; consumption and emissions are forced to 0 for
// electric vehicles during resolution, never left nil for surviving rows.
type Car struct {
	ID      int64
	Title   string
	Version string
	Brand   string

	Price             int
	Mileage           int
	Power             int
	FirstRegistration *float64
	Consumption       float64
	Emissions         int
	Owners            *int

	Condition    string
	Transmission string
	FuelType     string
	Leasing      bool

	City       string
	PostalCode string
	Country    string
	Longitude  *float64
	Latitude   *float64

	Alloys           bool
	HeatedSeats      bool
	AirConditioning  bool
	ParkingAssist    bool
	NavigationSystem bool

	CreatedAt time.Time
}

// InsightReport holds the computed analytics over the cleaned dataset.
type InsightReport struct {
	TotalCars     int
	LeasingOffers int

	AveragePrice  float64
	MinPrice      int
	MaxPrice      int
	MostExpensive *Car

	CarsByFuelType     map[string]int
	CarsByTransmission map[string]int
	BrandShare         map[string]float64
	AvgPriceByFuelType map[string]float64
	CarsByCity         map[string]int

	// Baseline least-squares fit of price against power.
	PricePowerSlope       float64
	PricePowerIntercept   float64
	PricePowerCorrelation float64
}
