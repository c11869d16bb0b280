package arbitrage

import (
	"math"
	"time"

	"flipfinder/internal/product"
	"flipfinder/internal/sales"
	"flipfinder/logger"
)

// ExternalStats holds completed-sales price statistics converted to the
// reference currency.
type ExternalStats struct {
	AvgPrice  float64 `json:"avg_price"`
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	SoldCount int     `json:"sold_count"`
}

// Result is the evaluated opportunity for one product aggregate. External
// is nil when no sold records were found; that is a valid terminal outcome
// carrying the "no data" tier, not an error.
type Result struct {
	ProductKey          string `json:"product_key"`
	RepresentativeTitle string `json:"title"`

	SourceAvg      float64 `json:"source_avg"`
	SourceMin      float64 `json:"source_min"`
	SourceMax      float64 `json:"source_max"`
	SourceCount    int     `json:"source_count"`
	SourceLocation string  `json:"source_location"`
	SourceURL      string  `json:"source_url"`

	External *ExternalStats `json:"external,omitempty"`

	ProfitAmount     float64 `json:"profit_amount"`
	ProfitPercentage float64 `json:"profit_pct"`
	Tier             string  `json:"opportunity_tier"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// Tiers configures the descending profit-percentage thresholds and the
// labels of the discrete opportunity buckets.
type Tiers struct {
	ExcellentThreshold float64
	GoodThreshold      float64
	ModerateThreshold  float64

	ExcellentLabel string
	GoodLabel      string
	ModerateLabel  string
	LowLabel       string
	NoDataLabel    string
}

// DefaultTiers returns the documented default thresholds and labels.
func DefaultTiers() Tiers {
	return Tiers{
		ExcellentThreshold: 50,
		GoodThreshold:      25,
		ModerateThreshold:  10,
		ExcellentLabel:     "excellent",
		GoodLabel:          "good",
		ModerateLabel:      "moderate",
		LowLabel:           "low",
		NoDataLabel:        "no data",
	}
}

// Evaluator converts sold prices to the reference currency and scores the
// buy-low/sell-high opportunity of each product aggregate. It is pure
// apart from timestamping; rates and tiers are injected.
type Evaluator struct {
	rates map[string]float64
	tiers Tiers
	log   *logger.Logger
}

// NewEvaluator creates an Evaluator with the given symbol-to-reference
// conversion table and tier configuration.
func NewEvaluator(rates map[string]float64, tiers Tiers) *Evaluator {
	return &Evaluator{
		rates: rates,
		tiers: tiers,
		log:   logger.ForComponent("evaluator"),
	}
}

// Evaluate produces one Result for an aggregate and its collected sold
// records.
func (e *Evaluator) Evaluate(agg product.Aggregate, sold []sales.Record) Result {
	result := Result{
		ProductKey:          agg.Key,
		RepresentativeTitle: agg.RepresentativeTitle,
		SourceAvg:           round2(agg.AvgPrice),
		SourceMin:           round2(agg.MinPrice),
		SourceMax:           round2(agg.MaxPrice),
		SourceCount:         agg.ListingCount,
		SourceLocation:      agg.Location,
		SourceURL:           agg.URL,
		AnalyzedAt:          time.Now(),
	}

	if len(sold) == 0 {
		result.Tier = e.tiers.NoDataLabel
		return result
	}

	var sum, min, max float64
	for i, record := range sold {
		converted := record.Price * e.rateFor(record.CurrencySymbol)
		sum += converted
		if i == 0 || converted < min {
			min = converted
		}
		if i == 0 || converted > max {
			max = converted
		}
	}
	avg := sum / float64(len(sold))

	result.External = &ExternalStats{
		AvgPrice:  round2(avg),
		MinPrice:  round2(min),
		MaxPrice:  round2(max),
		SoldCount: len(sold),
	}

	result.ProfitAmount = round2(avg - agg.AvgPrice)

	// Percentage is defined as zero for a zero source mean.
	if agg.AvgPrice > 0 {
		result.ProfitPercentage = round1((avg - agg.AvgPrice) / agg.AvgPrice * 100)
	}

	result.Tier = e.tierFor(result.ProfitPercentage)

	e.log.Debug().
		Str("key", agg.Key).
		Float64("profit", result.ProfitAmount).
		Float64("profit_pct", result.ProfitPercentage).
		Str("tier", result.Tier).
		Msg("Evaluated opportunity")

	return result
}

// rateFor looks the currency symbol up in the conversion table; unknown
// symbols convert 1:1.
func (e *Evaluator) rateFor(symbol string) float64 {
	if rate, ok := e.rates[symbol]; ok {
		return rate
	}
	return 1.0
}

func (e *Evaluator) tierFor(profitPercentage float64) string {
	switch {
	case profitPercentage >= e.tiers.ExcellentThreshold:
		return e.tiers.ExcellentLabel
	case profitPercentage >= e.tiers.GoodThreshold:
		return e.tiers.GoodLabel
	case profitPercentage >= e.tiers.ModerateThreshold:
		return e.tiers.ModerateLabel
	default:
		return e.tiers.LowLabel
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
