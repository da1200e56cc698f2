package services

import (
	"testing"
	"time"

	"autoscout-scraper/models"
	"autoscout-scraper/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

// validRawCar returns a raw record that survives normalization unchanged.
func validRawCar() *models.RawCar {
	return &models.RawCar{
		Title:             "BMW 320d Touring",
		Version:           "Sport Line",
		Subtitle:          "Alufelgen, Klimaautomatik",
		RawPrice:          "€ 12.345,-",
		Location:          "70173 Stuttgart - DE",
		Mileage:           "150.000 km",
		FirstRegistration: "03/2018",
		Power:             "140 kW (190 PS)",
		Condition:         "Gebraucht",
		Owners:            "2",
		Transmission:      "Automatik",
		FuelType:          "Diesel",
		Consumption:       "5,2 l/100 km (komb.)",
		Emissions:         "138 g/km (komb.)",
		ScrapedAt:         time.Now(),
	}
}

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"€ 12.345,-", "12345"},
		{"12.345 €,- Leasing ab 99 € mtl.", "12345"},
		{"€ 199,- mtl.", "199"},
		{"", ""},
		{"12345", "12345"}, // already clean: no-op
	}

	for _, tt := range tests {
		if got := cleanPrice(tt.raw); got != tt.want {
			t.Errorf("cleanPrice(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCleanPriceIdempotent(t *testing.T) {
	once := cleanPrice("€ 12.345,-")
	twice := cleanPrice(once)
	if once != twice {
		t.Errorf("cleanPrice not idempotent: %q → %q", once, twice)
	}
}

func TestCleanConsumption(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"6,5 l/100 km (komb.)", "6.5"},
		{"5,2 l/100 km (komb.)", "5.2"},
		{"- (l/100 km)", ""},
		{"", ""},
		{"6.5", "6.5"}, // already clean: no-op
	}

	for _, tt := range tests {
		if got := cleanConsumption(tt.raw); got != tt.want {
			t.Errorf("cleanConsumption(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCleanFirstRegistration(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"03/2018", "2018"},
		{"EZ 06/2021", "2021"},
		{"2018", "2018"},
		{"-", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := cleanFirstRegistration(tt.raw); got != tt.want {
			t.Errorf("cleanFirstRegistration(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCleanPower(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"140 kW (190 PS)", "190"},
		{"81 kW (110 PS)", "110"},
		{"110", "110"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := cleanPower(tt.raw); got != tt.want {
			t.Errorf("cleanPower(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeFullRecord(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	cars := n.Normalize([]*models.RawCar{validRawCar()})
	if len(cars) != 1 {
		t.Fatalf("expected 1 car, got %d", len(cars))
	}

	c := cars[0]
	if c.Price != 12345 {
		t.Errorf("Price: got %d, want 12345", c.Price)
	}
	if c.Mileage != 150000 {
		t.Errorf("Mileage: got %d, want 150000", c.Mileage)
	}
	if c.Power != 190 {
		t.Errorf("Power: got %d, want 190", c.Power)
	}
	if c.Consumption != 5.2 {
		t.Errorf("Consumption: got %v, want 5.2", c.Consumption)
	}
	if c.Emissions != 138 {
		t.Errorf("Emissions: got %d, want 138", c.Emissions)
	}
	if c.FirstRegistration == nil || *c.FirstRegistration != 2018 {
		t.Errorf("FirstRegistration: got %v, want 2018", c.FirstRegistration)
	}
	if c.Owners == nil || *c.Owners != 2 {
		t.Errorf("Owners: got %v, want 2", c.Owners)
	}
	if c.Brand != "BMW" {
		t.Errorf("Brand: got %q, want BMW", c.Brand)
	}
	if c.City != "Stuttgart" || c.Country != "DE" || c.PostalCode != "70173" {
		t.Errorf("location split: got city=%q country=%q plz=%q", c.City, c.Country, c.PostalCode)
	}
	if !c.Alloys || !c.AirConditioning {
		t.Errorf("equipment flags: alloys=%v ac=%v, want both true", c.Alloys, c.AirConditioning)
	}
}

func TestNormalizeElectricZeroOverride(t *testing.T) {
	raw := validRawCar()
	raw.FuelType = "Elektro"
	raw.Consumption = ""
	raw.Emissions = ""

	n := NewNormalizer(newTestLogger())
	cars := n.Normalize([]*models.RawCar{raw})
	if len(cars) != 1 {
		t.Fatalf("electric car with blank consumption must survive, got %d cars", len(cars))
	}
	if cars[0].Consumption != 0 {
		t.Errorf("Consumption: got %v, want 0", cars[0].Consumption)
	}
	if cars[0].Emissions != 0 {
		t.Errorf("Emissions: got %d, want 0", cars[0].Emissions)
	}
}

func TestNormalizeDropsNonElectricBlankConsumption(t *testing.T) {
	raw := validRawCar()
	raw.Consumption = ""

	n := NewNormalizer(newTestLogger())
	cars := n.Normalize([]*models.RawCar{raw})
	if len(cars) != 0 {
		t.Errorf("non-electric car with blank consumption must be dropped, got %d cars", len(cars))
	}
}

func TestNormalizeZeroConsumptionIsMissingForCombustion(t *testing.T) {
	raw := validRawCar()
	raw.Consumption = "0 l/100 km (komb.)"

	n := NewNormalizer(newTestLogger())
	cars := n.Normalize([]*models.RawCar{raw})
	if len(cars) != 0 {
		t.Errorf("zero consumption on a combustion car means unknown, row must drop; got %d cars", len(cars))
	}
}

func TestNormalizeDropsEssentialMissing(t *testing.T) {
	for _, field := range []string{"mileage", "power", "emissions"} {
		raw := validRawCar()
		switch field {
		case "mileage":
			raw.Mileage = "-"
		case "power":
			raw.Power = ""
		case "emissions":
			raw.Emissions = "-"
		}

		n := NewNormalizer(newTestLogger())
		if cars := n.Normalize([]*models.RawCar{raw}); len(cars) != 0 {
			t.Errorf("row with missing %s must be dropped, got %d cars", field, len(cars))
		}
	}
}

func TestNormalizeKeepsMissingOwnersAndRegistration(t *testing.T) {
	raw := validRawCar()
	raw.Owners = "-"
	raw.FirstRegistration = ""

	n := NewNormalizer(newTestLogger())
	cars := n.Normalize([]*models.RawCar{raw})
	if len(cars) != 1 {
		t.Fatalf("owners/first-registration are not essential, row must survive; got %d", len(cars))
	}
	if cars[0].Owners != nil {
		t.Errorf("Owners: got %v, want nil (missing, not zero)", *cars[0].Owners)
	}
	if cars[0].FirstRegistration != nil {
		t.Errorf("FirstRegistration: got %v, want nil", *cars[0].FirstRegistration)
	}
}

func TestNormalizeDropsMissingPrice(t *testing.T) {
	raw := validRawCar()
	raw.RawPrice = "auf Anfrage"

	n := NewNormalizer(newTestLogger())
	if cars := n.Normalize([]*models.RawCar{raw}); len(cars) != 0 {
		t.Errorf("row without a parseable price must be dropped, got %d cars", len(cars))
	}
}

func TestNormalizeLeasingCarried(t *testing.T) {
	raw := validRawCar()
	raw.Leasing = true
	raw.RawPrice = "€ 199,- mtl."

	n := NewNormalizer(newTestLogger())
	cars := n.Normalize([]*models.RawCar{raw})
	if len(cars) != 1 {
		t.Fatalf("expected 1 car, got %d", len(cars))
	}
	if !cars[0].Leasing {
		t.Error("Leasing flag lost during normalization")
	}
	if cars[0].Price != 199 {
		t.Errorf("Price: got %d, want 199", cars[0].Price)
	}
}
