package worker

import (
	"encoding/json"
	"fmt"
	mathrand "math/rand"
	"sort"
	"strconv"
	"time"

	"flipfinder/config"
	"flipfinder/internal/arbitrage"
	"flipfinder/internal/browse"
	"flipfinder/internal/collector"
	"flipfinder/internal/filter"
	"flipfinder/internal/pricing"
	"flipfinder/internal/product"
	"flipfinder/internal/sales"
	"flipfinder/logger"
	"flipfinder/services/cache"
	"flipfinder/services/publisher"
	"flipfinder/services/sink"
)

// Table column sets. These are the externally visible record schemas.
var (
	rawHeader = []string{"title", "price", "location", "url"}

	cleanedHeader = []string{
		"title", "price_formatted", "numeric_price", "location", "url", "scraped_date",
	}

	opportunitiesHeader = []string{
		"product_key", "title",
		"source_avg", "source_min", "source_max", "source_count",
		"source_location", "source_url",
		"sold_avg", "sold_min", "sold_max", "sold_count",
		"profit_amount", "profit_pct", "opportunity_tier", "analysis_date",
	}
)

// referenceSymbol prefixes formatted prices; the conversion table maps
// every sale currency into this unit.
const referenceSymbol = "€"

// Worker drives one full scan: collect listings, filter and clean them,
// group into products, look up completed sales per product, evaluate and
// rank opportunities, persist and publish the results.
//
// The run is strictly sequential. The navigator session is the only shared
// mutable resource and the worker owns it exclusively for the duration.
type Worker struct {
	cfg   config.Config
	nav   browse.Navigator
	sink  sink.TableSink
	pub   publisher.Publisher
	cache cache.CacheService
	rnd   *mathrand.Rand
	log   *logger.Logger
}

// NewWorker creates a worker. pub and cacheSvc may be nil; publishing and
// domain block-outs are then disabled.
func NewWorker(cfg config.Config, nav browse.Navigator, tableSink sink.TableSink, pub publisher.Publisher, cacheSvc cache.CacheService) *Worker {
	runID := time.Now().Format("20060102-150405")
	return &Worker{
		cfg:   cfg,
		nav:   nav,
		sink:  tableSink,
		pub:   pub,
		cache: cacheSvc,
		rnd:   mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
		log:   logger.ForRun(runID),
	}
}

// Run executes the pipeline once. A run that finds zero listings, zero
// relevant products or zero sales completes successfully with an empty or
// partial result set; only failures around the navigator session itself
// surface as errors before Run is ever reached.
func (w *Worker) Run() ([]arbitrage.Result, error) {
	start := time.Now()
	w.log.Info().Str("keyword", w.cfg.Keyword).Msg("Starting scan")

	listings := w.collectListings()
	if len(listings) == 0 {
		w.log.Warn().Msg("No listings found, finishing with empty result set")
		return nil, nil
	}

	if err := w.writeRaw(listings); err != nil {
		logger.LogError("worker", err, "Failed to persist raw listings")
	}

	cleaned := w.cleanListings(listings)
	if err := w.writeCleaned(cleaned); err != nil {
		logger.LogError("worker", err, "Failed to persist cleaned listings")
	} else if reread, err := w.readCleaned(); err == nil {
		// The grouping phase works off the persisted table, like the rest
		// of the toolchain that consumes it.
		cleaned = reread
	}

	if len(cleaned) == 0 {
		w.log.Warn().Msg("All listings dropped during cleaning, finishing with empty result set")
		return nil, nil
	}

	grouper := product.NewGrouper(product.NewNormalizer())
	aggregates := grouper.Group(cleaned)

	results := w.evaluateProducts(aggregates)
	ranked := arbitrage.Rank(results)

	if err := w.writeOpportunities(ranked); err != nil {
		logger.LogError("worker", err, "Failed to persist opportunities")
	}

	if w.pub != nil {
		if err := w.pub.TrimStreams(); err != nil {
			logger.LogError("worker", err, "Failed to trim opportunity streams")
		}
	}

	w.summarize(ranked, time.Since(start))
	return ranked, nil
}

// collectListings runs the pagination state machine over the source site.
func (w *Worker) collectListings() []collector.Listing {
	c := collector.New(w.nav, collector.Config{
		SearchURL:   w.cfg.SearchURL,
		BaseURL:     w.cfg.SiteBaseURL,
		Keyword:     w.cfg.Keyword,
		PageSize:    w.cfg.PageSize,
		MaxPages:    w.cfg.MaxPages,
		LoadTimeout: w.cfg.PageLoadTimeout,
		DelayMin:    w.cfg.PageDelayMin,
		DelayMax:    w.cfg.PageDelayMax,
	})

	listings, reason := c.Collect()
	w.log.Info().
		Int("listings", len(listings)).
		Str("stop_reason", string(reason)).
		Msg("Listing collection finished")
	return listings
}

// cleanListings applies relevance filtering and price parsing, dropping
// off-topic listings and listings without a valid price, sorted cheapest
// first.
func (w *Worker) cleanListings(listings []collector.Listing) []collector.Listing {
	relevance := filter.New(w.cfg.Keyword, w.cfg.ProductFamily, w.cfg.CaseSensitive, filter.DefaultRules())
	parser := pricing.NewParser(w.cfg.MinValidPrice)

	cleaned := make([]collector.Listing, 0, len(listings))
	for _, l := range listings {
		if !relevance.Relevant(l.Title) {
			continue
		}

		price, ok := parser.Parse(l.RawPrice)
		if !ok || !parser.ValidForAggregation(price) {
			w.log.Debug().Str("title", l.Title).Str("price", l.RawPrice).
				Msg("Listing dropped: unparseable or invalid price")
			continue
		}

		l.NumericPrice = price
		l.PriceValid = true
		cleaned = append(cleaned, l)
	}

	sort.SliceStable(cleaned, func(i, j int) bool {
		return cleaned[i].NumericPrice < cleaned[j].NumericPrice
	})

	w.log.Info().
		Int("raw", len(listings)).
		Int("cleaned", len(cleaned)).
		Msg("Cleaned and filtered listings")
	return cleaned
}

// evaluateProducts looks up completed sales and scores each product, one
// product at a time.
func (w *Worker) evaluateProducts(aggregates []product.Aggregate) []arbitrage.Result {
	parser := pricing.NewParser(w.cfg.MinValidPrice)
	soldCollector := sales.New(w.nav, w.cache, parser, sales.Config{
		Domains:          w.cfg.SaleDomains,
		ResultsPerDomain: w.cfg.ResultsPerDomain,
		LoadTimeout:      w.cfg.PageLoadTimeout,
		DelayMin:         w.cfg.DomainDelayMin,
		DelayMax:         w.cfg.DomainDelayMax,
		BlockTime:        w.cfg.DomainBlockTime,
	})

	evaluator := arbitrage.NewEvaluator(w.cfg.ConversionRates, arbitrage.Tiers{
		ExcellentThreshold: w.cfg.ExcellentThreshold,
		GoodThreshold:      w.cfg.GoodThreshold,
		ModerateThreshold:  w.cfg.ModerateThreshold,
		ExcellentLabel:     "excellent",
		GoodLabel:          "good",
		ModerateLabel:      "moderate",
		LowLabel:           "low",
		NoDataLabel:        "no data",
	})

	results := make([]arbitrage.Result, 0, len(aggregates))
	for i, agg := range aggregates {
		if i > 0 {
			w.productDelay()
		}

		w.log.Info().
			Int("product", i+1).
			Int("of", len(aggregates)).
			Str("key", agg.Key).
			Msg("Analyzing product")

		sold := soldCollector.CollectSold(agg.Key)
		result := evaluator.Evaluate(agg, sold)
		results = append(results, result)

		w.publish(result)
	}

	return results
}

func (w *Worker) publish(result arbitrage.Result) {
	if w.pub == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		logger.LogError("worker", err, "Failed to marshal opportunity")
		return
	}
	if err := w.pub.Publish("opportunity", payload); err != nil {
		logger.LogError("worker", err, "Failed to publish opportunity")
	}
}

func (w *Worker) writeRaw(listings []collector.Listing) error {
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []string{l.Title, l.RawPrice, l.Location, l.URL})
	}
	return w.sink.Write(w.cfg.RawTable, rawHeader, rows)
}

func (w *Worker) writeCleaned(listings []collector.Listing) error {
	scrapedAt := time.Now().Format("2006-01-02 15:04")
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []string{
			l.Title,
			fmt.Sprintf("%s%.2f", referenceSymbol, l.NumericPrice),
			strconv.FormatFloat(l.NumericPrice, 'f', 2, 64),
			l.Location,
			l.URL,
			scrapedAt,
		})
	}
	return w.sink.Write(w.cfg.CleanedTable, cleanedHeader, rows)
}

// readCleaned reconstructs listings from the persisted cleaned table.
func (w *Worker) readCleaned() ([]collector.Listing, error) {
	_, rows, err := w.sink.Read(w.cfg.CleanedTable)
	if err != nil {
		return nil, err
	}

	listings := make([]collector.Listing, 0, len(rows))
	for _, row := range rows {
		if len(row) < len(cleanedHeader) {
			continue
		}
		price, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			continue
		}
		listings = append(listings, collector.Listing{
			Title:        row[0],
			RawPrice:     row[1],
			NumericPrice: price,
			PriceValid:   true,
			Location:     row[3],
			URL:          row[4],
		})
	}
	return listings, nil
}

func (w *Worker) writeOpportunities(results []arbitrage.Result) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		soldAvg, soldMin, soldMax, soldCount := "", "", "", "0"
		profitAmount, profitPct := "", ""
		if r.External != nil {
			soldAvg = formatFloat(r.External.AvgPrice)
			soldMin = formatFloat(r.External.MinPrice)
			soldMax = formatFloat(r.External.MaxPrice)
			soldCount = strconv.Itoa(r.External.SoldCount)
			profitAmount = formatFloat(r.ProfitAmount)
			profitPct = strconv.FormatFloat(r.ProfitPercentage, 'f', 1, 64)
		}
		rows = append(rows, []string{
			r.ProductKey, r.RepresentativeTitle,
			formatFloat(r.SourceAvg), formatFloat(r.SourceMin), formatFloat(r.SourceMax),
			strconv.Itoa(r.SourceCount),
			r.SourceLocation, r.SourceURL,
			soldAvg, soldMin, soldMax, soldCount,
			profitAmount, profitPct, r.Tier,
			r.AnalyzedAt.Format("2006-01-02 15:04"),
		})
	}
	return w.sink.Write(w.cfg.OpportunitiesTable, opportunitiesHeader, rows)
}

// summarize emits the end-of-run report as structured log events.
func (w *Worker) summarize(ranked []arbitrage.Result, elapsed time.Duration) {
	withData, profitable := 0, 0
	for _, r := range ranked {
		if r.External != nil {
			withData++
			if r.ProfitPercentage > w.cfg.ModerateThreshold {
				profitable++
			}
		}
	}

	event := w.log.Info().
		Int("products", len(ranked)).
		Int("with_sales_data", withData).
		Int("profitable", profitable).
		Dur("elapsed", elapsed)

	if len(ranked) > 0 && ranked[0].External != nil {
		event = event.
			Str("best_product", ranked[0].ProductKey).
			Float64("best_profit_pct", ranked[0].ProfitPercentage).
			Str("best_tier", ranked[0].Tier)
	}

	event.Msg("Scan complete")
}

// productDelay sleeps a randomized bounded interval between product
// evaluations, reusing the domain politeness bounds.
func (w *Worker) productDelay() {
	if w.cfg.DomainDelayMax <= 0 {
		return
	}
	delay := w.cfg.DomainDelayMin
	if span := w.cfg.DomainDelayMax - w.cfg.DomainDelayMin; span > 0 {
		delay += time.Duration(w.rnd.Int63n(int64(span)))
	}
	time.Sleep(delay)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
