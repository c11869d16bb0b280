package sales

// Fallback sentinels for opportunistically extracted fields.
const (
	ConditionNotSpecified = "Not specified"
	RecentlySold          = "Recently sold"
)

// Record is one completed/sold result from an external marketplace.
// Sponsored and fresh-listing entries are excluded at creation time and
// never surface downstream.
type Record struct {
	Title          string
	Price          float64
	PriceText      string
	CurrencySymbol string
	SourceDomain   string
	Condition      string
	Recency        string
}

// Selectors contains the CSS selectors for the sold-listings results markup.
type Selectors struct {
	ResultsContainer string
	Items            string
	Title            string
	Subtitle         string
	Price            string
	Condition        string
	Recency          string
}

// DefaultSelectors returns the selectors for eBay search results.
func DefaultSelectors() Selectors {
	return Selectors{
		ResultsContainer: ".srp-results",
		Items:            ".s-item",
		Title:            ".s-item__title",
		Subtitle:         ".s-item__subtitle",
		Price:            ".s-item__price",
		Condition:        ".SECONDARY_INFO",
		Recency:          ".s-item__title--tag",
	}
}

// DefaultDomainCurrencies maps eBay regional domains to the currency symbol
// their prices are quoted in.
func DefaultDomainCurrencies() map[string]string {
	return map[string]string{
		"co.uk": "£",
		"com":   "$",
		"ie":    "€",
	}
}
