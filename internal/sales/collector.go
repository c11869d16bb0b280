package sales

import (
	stderrors "errors"
	"fmt"
	mathrand "math/rand"
	"net/url"
	"strings"
	"time"

	"flipfinder/internal/browse"
	"flipfinder/internal/pricing"
	"flipfinder/logger"
	"flipfinder/pkg/errors"
	"flipfinder/services/cache"
)

// Config contains the knobs for completed-sales collection.
type Config struct {
	Domains          []string
	ResultsPerDomain int
	LoadTimeout      time.Duration
	DelayMin         time.Duration
	DelayMax         time.Duration
	BlockTime        time.Duration
	Selectors        Selectors
	DomainCurrencies map[string]string
}

// Collector queries each configured external-marketplace domain variant for
// completed/sold listings matching a search term. A failure on one domain
// empties that domain's contribution and the run continues; nothing here is
// fatal.
type Collector struct {
	nav    browse.Navigator
	cache  cache.CacheService
	parser pricing.Parser
	cfg    Config
	rnd    *mathrand.Rand
	log    *logger.Logger
}

// New creates a Collector. cacheSvc may be nil, which disables the
// rate-limit block-out between runs.
func New(nav browse.Navigator, cacheSvc cache.CacheService, parser pricing.Parser, cfg Config) *Collector {
	if cfg.Selectors == (Selectors{}) {
		cfg.Selectors = DefaultSelectors()
	}
	if cfg.DomainCurrencies == nil {
		cfg.DomainCurrencies = DefaultDomainCurrencies()
	}
	return &Collector{
		nav:    nav,
		cache:  cacheSvc,
		parser: parser,
		cfg:    cfg,
		rnd:    mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
		log:    logger.ForComponent("sales"),
	}
}

// CollectSold gathers sold records for the search term across every domain,
// up to the per-domain result cap.
func (c *Collector) CollectSold(searchTerm string) []Record {
	var all []Record

	for i, domain := range c.cfg.Domains {
		if i > 0 {
			c.politenessDelay()
		}

		if c.isBlocked(domain) {
			c.log.Warn().Str("domain", domain).Msg("Domain blocked out, skipping")
			continue
		}

		records := c.collectDomain(searchTerm, domain)
		c.log.Info().
			Str("domain", domain).
			Str("term", searchTerm).
			Int("sold", len(records)).
			Msg("Domain sold listings collected")

		all = append(all, records...)
	}

	return all
}

// collectDomain scrapes one regional domain; any failure is local to it.
func (c *Collector) collectDomain(searchTerm, domain string) []Record {
	searchURL := c.searchURL(searchTerm, domain)

	if err := c.nav.Navigate(searchURL); err != nil {
		c.domainFailed(domain, err)
		return nil
	}

	if err := c.nav.WaitFor(c.cfg.Selectors.ResultsContainer, c.cfg.LoadTimeout); err != nil {
		c.domainFailed(domain, err)
		return nil
	}

	items, err := c.nav.QueryAll(c.cfg.Selectors.Items)
	if err != nil {
		c.domainFailed(domain, err)
		return nil
	}

	var records []Record
	for _, item := range items {
		if len(records) >= c.cfg.ResultsPerDomain {
			break
		}
		if record, ok := c.extract(item, domain); ok {
			records = append(records, record)
		}
	}
	return records
}

// extract parses one result element into a Record. Sponsored entries,
// fresh listings and entries with no parseable price are skipped.
func (c *Collector) extract(item browse.Element, domain string) (Record, bool) {
	if subtitles := item.Find(c.cfg.Selectors.Subtitle); len(subtitles) > 0 {
		if strings.Contains(strings.ToLower(subtitles[0].Text()), "sponsored") {
			return Record{}, false
		}
	}

	title := elementText(item, c.cfg.Selectors.Title)
	if title == "" || strings.Contains(title, "New listing") {
		return Record{}, false
	}

	priceText := elementText(item, c.cfg.Selectors.Price)
	price, ok := c.parser.Parse(priceText)
	if !ok {
		return Record{}, false
	}

	condition := elementText(item, c.cfg.Selectors.Condition)
	if condition == "" {
		condition = ConditionNotSpecified
	}

	recency := elementText(item, c.cfg.Selectors.Recency)
	if recency == "" {
		recency = RecentlySold
	}

	return Record{
		Title:          title,
		Price:          price,
		PriceText:      priceText,
		CurrencySymbol: c.currencyFor(domain),
		SourceDomain:   domain,
		Condition:      condition,
		Recency:        recency,
	}, true
}

// searchURL builds the completed/sold search URL for a regional domain.
func (c *Collector) searchURL(searchTerm, domain string) string {
	params := url.Values{}
	params.Set("_nkw", searchTerm)
	params.Set("_sacat", "0")
	params.Set("LH_Sold", "1")
	params.Set("LH_Complete", "1")
	params.Set("_sop", "13")
	return fmt.Sprintf("https://www.ebay.%s/sch/i.html?%s", domain, params.Encode())
}

func (c *Collector) currencyFor(domain string) string {
	if symbol, ok := c.cfg.DomainCurrencies[domain]; ok {
		return symbol
	}
	return "$"
}

// domainFailed logs the failure and blocks the domain out when the source
// signalled rate limiting.
func (c *Collector) domainFailed(domain string, err error) {
	c.log.Warn().Err(err).Str("domain", domain).Msg("Domain query failed, skipping")

	var perr *errors.PipelineError
	if c.cache != nil && stderrors.As(err, &perr) && perr.Type == errors.ErrorTypeRateLimit {
		key := "sales_block_" + domain
		if cerr := c.cache.Set(key, []byte("1"), c.cfg.BlockTime); cerr != nil {
			c.log.Warn().Err(cerr).Str("domain", domain).Msg("Failed to record domain block")
		}
	}
}

func (c *Collector) isBlocked(domain string) bool {
	if c.cache == nil {
		return false
	}
	_, err := c.cache.Get("sales_block_" + domain)
	return err == nil
}

// politenessDelay sleeps a randomized bounded interval between domains.
func (c *Collector) politenessDelay() {
	if c.cfg.DelayMax <= 0 {
		return
	}
	delay := c.cfg.DelayMin
	if span := c.cfg.DelayMax - c.cfg.DelayMin; span > 0 {
		delay += time.Duration(c.rnd.Int63n(int64(span)))
	}
	time.Sleep(delay)
}

func elementText(item browse.Element, selector string) string {
	if matches := item.Find(selector); len(matches) > 0 {
		return matches[0].Text()
	}
	return ""
}
