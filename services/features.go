package services

import (
	"strings"

	"autoscout-scraper/models"
)

// Equipment keywords looked up in the listing subtitle. A vehicle has a
// feature exactly when its keyword occurs in the subtitle; a missing
// subtitle means the feature is absent, not unknown.
const (
	keywordAlloys        = "Alufelgen"
	keywordHeatedSeats   = "Sitzheizung"
	keywordAirCondition  = "Klimaanlage"
	keywordClimateAuto   = "Klimaautomatik"
	keywordParkingAssist = "Einparkhilfe "
	keywordNavigation    = "Navigationssystem"
)

// deriveBrand returns the first whitespace-delimited token of the title.
func deriveBrand(title string) string {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// splitLocation splits a "postal-code city - country" location string into
// city, postal code and country. The city is the last whitespace token of
// the segment before the hyphen separator, the country the last token of
// the segment after it; the postal code is whatever digits remain.
func splitLocation(location string) (city, postalCode, country string) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", "", ""
	}

	postalCode = nonDigitRegexp.ReplaceAllString(location, "")

	segment := location
	if idx := strings.LastIndex(location, "-"); idx >= 0 {
		segment = location[:idx]
		country = lastField(location[idx+1:])
	}
	city = lastField(segment)
	return city, postalCode, country
}

func lastField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// applyEquipmentFlags sets the five boolean equipment columns from the
// free-text subtitle. Air conditioning matches either keyword variant.
func applyEquipmentFlags(car *models.Car, subtitle string) {
	if subtitle == "" {
		return
	}
	car.Alloys = strings.Contains(subtitle, keywordAlloys)
	car.HeatedSeats = strings.Contains(subtitle, keywordHeatedSeats)
	car.AirConditioning = strings.Contains(subtitle, keywordAirCondition) ||
		strings.Contains(subtitle, keywordClimateAuto)
	car.ParkingAssist = strings.Contains(subtitle, keywordParkingAssist)
	car.NavigationSystem = strings.Contains(subtitle, keywordNavigation)
}
