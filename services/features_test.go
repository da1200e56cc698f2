package services

import (
	"testing"

	"autoscout-scraper/models"
)

func TestDeriveBrand(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"BMW 320d Touring", "BMW"},
		{"Mercedes-Benz C 220", "Mercedes-Benz"},
		{"  VW Golf", "VW"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := deriveBrand(tt.title); got != tt.want {
			t.Errorf("deriveBrand(%q) = %q; want %q", tt.title, got, tt.want)
		}
	}
}

func TestSplitLocation(t *testing.T) {
	tests := []struct {
		location    string
		wantCity    string
		wantPostal  string
		wantCountry string
	}{
		{"70173 Stuttgart - DE", "Stuttgart", "70173", "DE"},
		{"10115 Berlin", "Berlin", "10115", ""},
		{"", "", "", ""},
	}

	for _, tt := range tests {
		city, postal, country := splitLocation(tt.location)
		if city != tt.wantCity || postal != tt.wantPostal || country != tt.wantCountry {
			t.Errorf("splitLocation(%q) = (%q, %q, %q); want (%q, %q, %q)",
				tt.location, city, postal, country, tt.wantCity, tt.wantPostal, tt.wantCountry)
		}
	}
}

func TestEquipmentFlagsFromSubtitle(t *testing.T) {
	tests := []struct {
		name     string
		subtitle string
		want     [5]bool // alloys, heated seats, ac, parking assist, navigation
	}{
		{"empty subtitle means no features", "", [5]bool{}},
		{"alloys only", "Alufelgen, Metallic", [5]bool{true, false, false, false, false}},
		{"air conditioning keyword", "Klimaanlage, Radio", [5]bool{false, false, true, false, false}},
		{"air conditioning variant", "Klimaautomatik, Radio", [5]bool{false, false, true, false, false}},
		{"parking assist needs trailing space", "Einparkhilfe hinten", [5]bool{false, false, false, true, false}},
		{"everything", "Alufelgen, Sitzheizung, Klimaautomatik, Einparkhilfe hinten, Navigationssystem",
			[5]bool{true, true, true, true, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			car := &models.Car{}
			applyEquipmentFlags(car, tt.subtitle)

			got := [5]bool{car.Alloys, car.HeatedSeats, car.AirConditioning,
				car.ParkingAssist, car.NavigationSystem}
			if got != tt.want {
				t.Errorf("flags for %q: got %v, want %v", tt.subtitle, got, tt.want)
			}
		})
	}
}
