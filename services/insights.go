package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"autoscout-scraper/models"
	"autoscout-scraper/utils"
)

// InsightService computes the descriptive statistics over the cleaned
// dataset: distribution summaries, categorical counts and the baseline
// least-squares fit of price against power.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(cars []*models.Car) *models.InsightReport {
	report := &models.InsightReport{
		CarsByFuelType:     make(map[string]int),
		CarsByTransmission: make(map[string]int),
		BrandShare:         make(map[string]float64),
		AvgPriceByFuelType: make(map[string]float64),
		CarsByCity:         make(map[string]int),
	}

	if len(cars) == 0 {
		return report
	}

	report.TotalCars = len(cars)
	report.MinPrice = cars[0].Price
	report.MaxPrice = cars[0].Price

	brandCounts := make(map[string]int)
	fuelPriceSum := make(map[string]int)
	var priceTotal float64

	for _, c := range cars {
		if c.Leasing {
			report.LeasingOffers++
		}
		priceTotal += float64(c.Price)
		if c.Price < report.MinPrice {
			report.MinPrice = c.Price
		}
		if c.Price > report.MaxPrice {
			report.MaxPrice = c.Price
			report.MostExpensive = c
		}

		if c.FuelType != "" {
			report.CarsByFuelType[c.FuelType]++
			fuelPriceSum[c.FuelType] += c.Price
		}
		if c.Transmission != "" {
			report.CarsByTransmission[c.Transmission]++
		}
		if c.Brand != "" {
			brandCounts[c.Brand]++
		}
		if c.City != "" {
			report.CarsByCity[c.City]++
		}
	}

	report.AveragePrice = round2(priceTotal / float64(len(cars)))
	if report.MostExpensive == nil {
		report.MostExpensive = cars[0]
	}

	for fuel, count := range report.CarsByFuelType {
		report.AvgPriceByFuelType[fuel] = round2(float64(fuelPriceSum[fuel]) / float64(count))
	}
	for brand, count := range brandCounts {
		report.BrandShare[brand] = round2(100 * float64(count) / float64(len(cars)))
	}

	report.PricePowerSlope, report.PricePowerIntercept, report.PricePowerCorrelation = fitPricePower(cars)

	return report
}

// fitPricePower runs an ordinary-least-squares fit of price against power
// and returns slope, intercept and the Pearson correlation coefficient.
func fitPricePower(cars []*models.Car) (slope, intercept, r float64) {
	n := float64(len(cars))
	if n < 2 {
		return 0, 0, 0
	}

	var sumX, sumY float64
	for _, c := range cars {
		sumX += float64(c.Power)
		sumY += float64(c.Price)
	}
	meanX := sumX / n
	meanY := sumY / n

	var covXY, varX, varY float64
	for _, c := range cars {
		dx := float64(c.Power) - meanX
		dy := float64(c.Price) - meanY
		covXY += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, 0, 0
	}

	slope = covXY / varX
	intercept = meanY - slope*meanX
	r = covXY / math.Sqrt(varX*varY)
	return slope, intercept, r
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 CAR MARKET INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Cars in cleaned dataset : \033[1m%d\033[0m\n", r.TotalCars)
	fmt.Printf("  Leasing offers          : \033[1m%d\033[0m\n", r.LeasingOffers)
	fmt.Println()

	// Price stats
	fmt.Printf("\033[1;33m  Price Statistics (EUR)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.TotalCars > 0 {
		fmt.Printf("  Average price : \033[1;32m%.2f\033[0m\n", r.AveragePrice)
		fmt.Printf("  Minimum price : \033[1;32m%d\033[0m\n", r.MinPrice)
		fmt.Printf("  Maximum price : \033[1;32m%d\033[0m\n", r.MaxPrice)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	if r.MostExpensive != nil {
		fmt.Printf("\033[1;33m  Most Expensive Car\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.MostExpensive.Title, 50))
		fmt.Printf("  City  : %s\n", r.MostExpensive.City)
		fmt.Printf("  Price : \033[1;31m%d EUR\033[0m\n", r.MostExpensive.Price)
		fmt.Println()
	}

	s.printCounts("Cars by Fuel Type", r.CarsByFuelType, thin)
	s.printCounts("Cars by Transmission", r.CarsByTransmission, thin)

	// Average price per fuel type
	fmt.Printf("\033[1;33m  Average Price per Fuel Type\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, fuel := range sortedKeysByValue(r.AvgPriceByFuelType) {
		fmt.Printf("  %-20s \033[1;32m%.2f EUR\033[0m\n", truncate(fuel, 18), r.AvgPriceByFuelType[fuel])
	}
	fmt.Println()

	// Brand share
	fmt.Printf("\033[1;33m  Brand Share\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, brand := range sortedKeysByValue(r.BrandShare) {
		fmt.Printf("  %-20s %.2f%%\n", truncate(brand, 18), r.BrandShare[brand])
	}
	fmt.Println()

	// Price ~ power baseline
	fmt.Printf("\033[1;33m  Price ~ Power (OLS)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  price = %.2f × power %+.2f   (r = %.3f)\n",
		r.PricePowerSlope, r.PricePowerIntercept, r.PricePowerCorrelation)

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func (s *InsightService) printCounts(heading string, counts map[string]int, thin string) {
	fmt.Printf("\033[1;33m  %s\033[0m\n", heading)
	fmt.Printf("  %s\n", thin)
	if len(counts) == 0 {
		fmt.Printf("  No data\n\n")
		return
	}

	type kv struct {
		key   string
		count int
	}
	var entries []kv
	for k, v := range counts {
		entries = append(entries, kv{k, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count == entries[j].count {
			return entries[i].key < entries[j].key
		}
		return entries[i].count > entries[j].count
	})

	for _, e := range entries {
		bar := strings.Repeat("█", barWidth(e.count, entries[0].count))
		fmt.Printf("  %-20s %s (%d)\n", truncate(e.key, 18), bar, e.count)
	}
	fmt.Println()
}

func barWidth(count, max int) int {
	if max <= 0 {
		return 0
	}
	w := count * 30 / max
	if w == 0 && count > 0 {
		w = 1
	}
	return w
}

func sortedKeysByValue(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] == m[keys[j]] {
			return keys[i] < keys[j]
		}
		return m[keys[i]] > m[keys[j]]
	})
	return keys
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
