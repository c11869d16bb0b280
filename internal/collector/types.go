package collector

// NA is the per-field fallback sentinel used when a sub-element is missing.
const NA = "N/A"

// Listing is one scraped item record from the source marketplace. The raw
// fields are immutable after extraction; NumericPrice is filled in by the
// cleaning phase and PriceValid marks whether it may feed aggregation.
type Listing struct {
	Title        string
	RawPrice     string
	NumericPrice float64
	PriceValid   bool
	Location     string
	URL          string
}

// StopReason is the terminal state of a pagination run.
type StopReason string

const (
	// StopLoadFailed means the results container never appeared.
	StopLoadFailed StopReason = "load-failed"
	// StopExhausted means a page carried zero listing elements.
	StopExhausted StopReason = "exhausted"
	// StopNoNewData means a page yielded no previously unseen URLs. Sites
	// that repeat their last page instead of 404ing end a run this way.
	StopNoNewData StopReason = "no-new-data"
	// StopCapped means the configured page cap was reached.
	StopCapped StopReason = "capped"
)

// Selectors contains the CSS selectors for the source marketplace's search
// results markup.
type Selectors struct {
	ResultsContainer string
	ListingItems     string
	Title            string
	Price            string
	MetaItems        string
}

// DefaultSelectors returns the selectors for the default source site.
func DefaultSelectors() Selectors {
	return Selectors{
		ResultsContainer: "ul[data-testid='card-list']",
		ListingItems:     "ul[data-testid='card-list'] li a",
		Title:            "p[class*='Title']",
		Price:            "div[class*='Price']",
		MetaItems:        "li[class*='MetaInfoItem']",
	}
}
