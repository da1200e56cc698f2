package autoscout

// CSS selectors for AutoScout24 search-result markup. The site ships
// build-hashed class names (e.g. "ListItem_wrapper__abc12"), so matching
// is done on stable class-name prefixes rather than exact classes.
const (
	// One vehicle per article element.
	carSelector = "article"

	// Listing half, inside the ListItem wrapper.
	wrapperSelector      = "div[class^='ListItem_wrapper']"
	titleSelector        = "h2"
	versionSelector      = "span[class^='ListItem_version']"
	subtitleSelector     = "span[class^='ListItem_subtitle']"
	priceSelector        = "div[class^='ListItem_pricerow']"
	leasingPriceSelector = "span[class^='LeasingPrice_price']"
	locationSelector     = "span[style^='grid-area:address']"

	// Detail half. A leasing offer carries a second, 3-entry table.
	detailTableSelector = "div[class^='VehicleDetailTable_container']"

	// Entries a valid detail table must have, in fixed order:
	// mileage, first registration, power, condition, owners,
	// transmission, fuel type, consumption, emissions.
	detailFieldCount = 9
)
