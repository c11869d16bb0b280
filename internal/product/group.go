package product

import (
	"flipfinder/internal/collector"
	"flipfinder/logger"
)

// Aggregate is the per-key summary of source-marketplace price statistics.
// It is recomputed on every run and never persisted incrementally.
type Aggregate struct {
	Key                 string
	RepresentativeTitle string
	AvgPrice            float64
	MinPrice            float64
	MaxPrice            float64
	ListingCount        int
	Location            string
	URL                 string

	pricedCount int
	priceSum    float64
}

// Grouper clusters listings by grouping key into unique-product aggregates.
type Grouper struct {
	normalizer *Normalizer
	log        *logger.Logger
}

// NewGrouper creates a Grouper over the given normalizer.
func NewGrouper(normalizer *Normalizer) *Grouper {
	return &Grouper{
		normalizer: normalizer,
		log:        logger.ForComponent("grouper"),
	}
}

// Group folds listings sharing a non-empty key into aggregates, preserving
// first-seen key order. Listings whose key is empty contribute to neither
// count nor stats; they are data-quality drops, not errors. Price stats
// cover listings with a valid numeric price only.
func (g *Grouper) Group(listings []collector.Listing) []Aggregate {
	byKey := make(map[string]*Aggregate)
	var order []string
	dropped := 0

	for _, l := range listings {
		key := g.normalizer.Key(l.Title)
		if key == "" {
			dropped++
			g.log.Debug().Str("title", l.Title).Msg("Listing dropped: empty grouping key")
			continue
		}

		agg, ok := byKey[key]
		if !ok {
			agg = &Aggregate{
				Key:                 key,
				RepresentativeTitle: l.Title,
				Location:            l.Location,
				URL:                 l.URL,
			}
			byKey[key] = agg
			order = append(order, key)
		}

		agg.ListingCount++

		if l.PriceValid {
			if agg.pricedCount == 0 || l.NumericPrice < agg.MinPrice {
				agg.MinPrice = l.NumericPrice
			}
			if agg.pricedCount == 0 || l.NumericPrice > agg.MaxPrice {
				agg.MaxPrice = l.NumericPrice
			}
			agg.priceSum += l.NumericPrice
			agg.pricedCount++
		}
	}

	out := make([]Aggregate, 0, len(order))
	for _, key := range order {
		agg := byKey[key]
		if agg.pricedCount > 0 {
			agg.AvgPrice = agg.priceSum / float64(agg.pricedCount)
		}
		out = append(out, *agg)
	}

	g.log.Info().
		Int("listings", len(listings)).
		Int("products", len(out)).
		Int("dropped", dropped).
		Msg("Grouped listings into unique products")

	return out
}
