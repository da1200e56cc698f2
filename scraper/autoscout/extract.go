package autoscout

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"autoscout-scraper/models"
)

// ExtractPage parses one search-result document into one RawCar per vehicle
// container, order preserved. Both record halves are extracted in a single
// pass over each container, so they can never misalign. A container whose
// individual fields are absent still yields a row; only the fields stay empty.
func ExtractPage(doc *goquery.Document) []*models.RawCar {
	cars := make([]*models.RawCar, 0, 20)

	doc.Find(carSelector).Each(func(_ int, car *goquery.Selection) {
		record := &models.RawCar{ScrapedAt: time.Now()}
		extractListing(car, record)
		extractDetail(car, record)
		cars = append(cars, record)
	})

	return cars
}

// extractListing fills the listing half of a RawCar from one vehicle
// container. Every field is optional: an absent element leaves the field
// empty and extraction moves on to the next field.
func extractListing(car *goquery.Selection, record *models.RawCar) {
	data := car.Find(wrapperSelector)

	record.Title = textOf(data, titleSelector)
	record.Version = textOf(data, versionSelector)
	record.Subtitle = textOf(data, subtitleSelector)

	// Two-armed price lookup: the standard price row marks a sale offer,
	// the LeasingPrice element marks a leasing offer.
	if price := textOf(data, priceSelector); price != "" {
		record.RawPrice = price
		record.Leasing = false
	} else {
		record.RawPrice = textOf(data, leasingPriceSelector)
		record.Leasing = record.RawPrice != ""
	}

	record.Location = textOf(car, locationSelector)
}

// extractDetail fills the detail half of a RawCar from the first valid
// detail table inside the vehicle container. A table with any entry count
// other than 9 (leasing offers carry an auxiliary 3-entry table) is
// discarded without an error and without touching the record.
func extractDetail(car *goquery.Selection, record *models.RawCar) {
	car.Find(detailTableSelector).EachWithBreak(func(_ int, table *goquery.Selection) bool {
		fields := detailFields(table)
		if len(fields) != detailFieldCount {
			return true // keep looking, auxiliary leasing block
		}

		record.Mileage = fields[0]
		record.FirstRegistration = fields[1]
		record.Power = fields[2]
		record.Condition = fields[3]
		record.Owners = fields[4]
		record.Transmission = fields[5]
		record.FuelType = fields[6]
		record.Consumption = fields[7]
		record.Emissions = fields[8]
		return false
	})
}

// detailFields collects the trimmed text of each immediate child of a
// detail-table container into a positional list.
func detailFields(table *goquery.Selection) []string {
	var fields []string
	table.Children().Each(func(_ int, entry *goquery.Selection) {
		fields = append(fields, strings.TrimSpace(entry.Text()))
	})
	return fields
}

// textOf returns the trimmed text of the first match of selector under sel,
// or the empty string when no element matches.
func textOf(sel *goquery.Selection, selector string) string {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(found.Text())
}
