package services

import (
	"regexp"
	"strconv"
	"strings"

	"autoscout-scraper/models"
	"autoscout-scraper/utils"
)

const fuelElectric = "Elektro"

var (
	// nonDigitRegexp strips everything that is not a digit.
	nonDigitRegexp = regexp.MustCompile(`[^0-9]+`)
	// priceTailRegexp truncates a trailing lease price that follows the
	// ",-" marker of the sale price ("12.345 €,- ... Leasing ab ...").
	priceTailRegexp = regexp.MustCompile(`(?s),-.*`)
	// regMonthRegexp removes the "month/" prefix of a first-registration
	// value ("03/2018" → "2018").
	regMonthRegexp = regexp.MustCompile(`.*/`)
	// powerKWRegexp removes the leading kW figure of a power value
	// ("81 kW (110 PS)" → " (110 PS)").
	powerKWRegexp = regexp.MustCompile(`.*kW`)
)

// consumptionUnits are stripped from consumption values before parsing.
var consumptionUnits = []string{"(l/100 km)", "l/100 km", "(komb.)"}

// Normalizer turns raw scraped cars into cleaned, typed records. It applies
// the per-column cleaning rules, resolves missing values (including the
// electric-vehicle zero rule), and derives the secondary feature columns.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize processes raw cars and returns the cleaned dataset. Rows
// missing any of consumption, emissions, mileage or power after resolution
// are dropped; so are rows without a usable sale/leasing price, since price
// is the downstream regression target.
func (n *Normalizer) Normalize(raw []*models.RawCar) []*models.Car {
	result := make([]*models.Car, 0, len(raw))

	var droppedEssential, droppedPrice int
	for _, r := range raw {
		car, ok, reason := n.normalizeOne(r)
		if !ok {
			switch reason {
			case "price":
				droppedPrice++
			default:
				droppedEssential++
			}
			continue
		}
		result = append(result, car)
	}

	n.logger.Info("[normalizer] Cleaned %d → %d cars (dropped %d missing essentials, %d missing price)",
		len(raw), len(result), droppedEssential, droppedPrice)
	return result
}

func (n *Normalizer) normalizeOne(r *models.RawCar) (*models.Car, bool, string) {
	car := &models.Car{
		Title:        r.Title,
		Version:      r.Version,
		Condition:    r.Condition,
		Transmission: r.Transmission,
		FuelType:     r.FuelType,
		Leasing:      r.Leasing,
		CreatedAt:    r.ScrapedAt,
	}

	price, priceOK := parseInt(cleanPrice(r.RawPrice))
	mileage, mileageOK := parseInt(cleanDigits(r.Mileage))
	power, powerOK := parseInt(cleanPower(r.Power))
	emissions, emissionsOK := parseInt(cleanDigits(r.Emissions))
	consumption, consumptionOK := parseFloat(cleanConsumption(r.Consumption))
	car.Owners = optionalInt(cleanDigits(r.Owners))
	car.FirstRegistration = optionalFloat(cleanFirstRegistration(r.FirstRegistration))

	// A blank or zero consumption/emissions value means "not provided",
	// except for electric vehicles, where zero is the correct semantic.
	// The override must run before the essential-field drop, otherwise
	// every electric car would be discarded.
	if consumptionOK && consumption == 0 {
		consumptionOK = false
	}
	if emissionsOK && emissions == 0 {
		emissionsOK = false
	}
	if car.FuelType == fuelElectric {
		consumption, consumptionOK = 0, true
		emissions, emissionsOK = 0, true
	}

	if !consumptionOK || !emissionsOK || !mileageOK || !powerOK {
		return nil, false, "essential"
	}
	if !priceOK {
		n.logger.Debug("[normalizer] Dropping %q: unusable price %q", r.Title, r.RawPrice)
		return nil, false, "price"
	}

	car.Price = price
	car.Mileage = mileage
	car.Power = power
	car.Emissions = emissions
	car.Consumption = consumption

	car.Brand = deriveBrand(r.Title)
	car.City, car.PostalCode, car.Country = splitLocation(r.Location)
	applyEquipmentFlags(car, r.Subtitle)

	return car, true, ""
}

// cleanPrice truncates everything from the ",-" marker onward (rows where a
// lease price trails the sale price), then strips all non-digit characters.
// Idempotent: a clean numeric string passes through unchanged.
func cleanPrice(s string) string {
	s = priceTailRegexp.ReplaceAllString(s, "")
	return nonDigitRegexp.ReplaceAllString(s, "")
}

// cleanDigits strips all non-digit characters.
func cleanDigits(s string) string {
	return nonDigitRegexp.ReplaceAllString(s, "")
}

// cleanConsumption strips the known unit substrings and normalises the
// decimal comma ("6,5 l/100 km (komb.)" → "6.5").
func cleanConsumption(s string) string {
	for _, unit := range consumptionUnits {
		s = strings.ReplaceAll(s, unit, "")
	}
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)
	if s == "-" {
		return ""
	}
	return s
}

// cleanFirstRegistration drops the leading "month/" prefix, then strips all
// non-digit characters, leaving the year.
func cleanFirstRegistration(s string) string {
	s = regMonthRegexp.ReplaceAllString(s, "")
	return nonDigitRegexp.ReplaceAllString(s, "")
}

// cleanPower removes the leading kW figure and the "(… PS)" wrapping, then
// strips all non-digit characters ("81 kW (110 PS)" → "110").
func cleanPower(s string) string {
	s = powerKWRegexp.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, "PS)", "")
	return nonDigitRegexp.ReplaceAllString(s, "")
}

// parseInt parses a cleaned digit string. An empty string or non-numeric
// residue is reported as missing, never as zero.
func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func optionalInt(s string) *int {
	n, ok := parseInt(s)
	if !ok {
		return nil
	}
	return &n
}

func optionalFloat(s string) *float64 {
	f, ok := parseFloat(s)
	if !ok {
		return nil
	}
	return &f
}
