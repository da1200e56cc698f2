package services

import (
	"math"
	"testing"

	"autoscout-scraper/models"
	"autoscout-scraper/utils"
)

func sampleCars() []*models.Car {
	return []*models.Car{
		{Title: "BMW 320d", Brand: "BMW", Price: 20000, Power: 190, FuelType: "Diesel", Transmission: "Automatik", City: "Stuttgart"},
		{Title: "BMW 118i", Brand: "BMW", Price: 10000, Power: 136, FuelType: "Benzin", Transmission: "Schaltgetriebe", City: "Stuttgart"},
		{Title: "VW ID.3", Brand: "VW", Price: 30000, Power: 146, FuelType: "Elektro", Transmission: "Automatik", City: "Berlin", Leasing: true},
		{Title: "Audi A4", Brand: "Audi", Price: 16000, Power: 150, FuelType: "Diesel", Transmission: "Automatik", City: "München"},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(sampleCars())

	if r.TotalCars != 4 {
		t.Errorf("TotalCars: got %d, want 4", r.TotalCars)
	}
	if r.LeasingOffers != 1 {
		t.Errorf("LeasingOffers: got %d, want 1", r.LeasingOffers)
	}
	if r.CarsByFuelType["Diesel"] != 2 {
		t.Errorf("Diesel count: got %d, want 2", r.CarsByFuelType["Diesel"])
	}
	if r.CarsByTransmission["Automatik"] != 3 {
		t.Errorf("Automatik count: got %d, want 3", r.CarsByTransmission["Automatik"])
	}
	if r.CarsByCity["Stuttgart"] != 2 {
		t.Errorf("Stuttgart count: got %d, want 2", r.CarsByCity["Stuttgart"])
	}
}

func TestInsightPrices(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(sampleCars())

	if r.AveragePrice != 19000 {
		t.Errorf("AveragePrice: got %.2f, want 19000", r.AveragePrice)
	}
	if r.MinPrice != 10000 {
		t.Errorf("MinPrice: got %d, want 10000", r.MinPrice)
	}
	if r.MaxPrice != 30000 {
		t.Errorf("MaxPrice: got %d, want 30000", r.MaxPrice)
	}
	if r.MostExpensive == nil || r.MostExpensive.Title != "VW ID.3" {
		t.Errorf("MostExpensive: got %v, want VW ID.3", r.MostExpensive)
	}
	if r.AvgPriceByFuelType["Diesel"] != 18000 {
		t.Errorf("Diesel avg price: got %.2f, want 18000", r.AvgPriceByFuelType["Diesel"])
	}
}

func TestInsightBrandShare(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(sampleCars())

	if r.BrandShare["BMW"] != 50 {
		t.Errorf("BMW share: got %.2f, want 50", r.BrandShare["BMW"])
	}
	if r.BrandShare["VW"] != 25 {
		t.Errorf("VW share: got %.2f, want 25", r.BrandShare["VW"])
	}
}

func TestPricePowerFitOnLinearData(t *testing.T) {
	cars := []*models.Car{
		{Price: 10000, Power: 100, FuelType: "Benzin"},
		{Price: 20000, Power: 200, FuelType: "Benzin"},
		{Price: 30000, Power: 300, FuelType: "Benzin"},
	}

	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(cars)

	if math.Abs(r.PricePowerSlope-100) > 1e-9 {
		t.Errorf("slope: got %v, want 100", r.PricePowerSlope)
	}
	if math.Abs(r.PricePowerIntercept) > 1e-6 {
		t.Errorf("intercept: got %v, want 0", r.PricePowerIntercept)
	}
	if math.Abs(r.PricePowerCorrelation-1) > 1e-9 {
		t.Errorf("correlation: got %v, want 1", r.PricePowerCorrelation)
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(nil)
	if r.TotalCars != 0 {
		t.Errorf("expected 0 total cars for empty input")
	}
	if r.PricePowerCorrelation != 0 {
		t.Errorf("expected zero correlation for empty input")
	}
}
