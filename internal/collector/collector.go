package collector

import (
	mathrand "math/rand"
	"net/url"
	"strconv"
	"strings"
	"time"

	"flipfinder/internal/browse"
	"flipfinder/logger"
)

// Config contains the knobs for one pagination run.
type Config struct {
	SearchURL   string
	BaseURL     string
	Keyword     string
	PageSize    int
	MaxPages    int // 0 means unlimited
	LoadTimeout time.Duration
	DelayMin    time.Duration
	DelayMax    time.Duration
	Selectors   Selectors
}

// Collector paginates the source marketplace's search results and produces
// a deduplicated sequence of Listings.
type Collector struct {
	nav  browse.Navigator
	cfg  Config
	seen map[string]struct{}
	rnd  *mathrand.Rand
	log  *logger.Logger
}

// New creates a Collector over the given navigator session.
func New(nav browse.Navigator, cfg Config) *Collector {
	if cfg.Selectors == (Selectors{}) {
		cfg.Selectors = DefaultSelectors()
	}
	return &Collector{
		nav:  nav,
		cfg:  cfg,
		seen: make(map[string]struct{}),
		rnd:  mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
		log:  logger.ForComponent("collector"),
	}
}

// Collect drives pagination until a terminal state and returns every
// unique listing found along the way. A run that stops early still returns
// what it collected; only the stop reason distinguishes the outcomes.
func (c *Collector) Collect() ([]Listing, StopReason) {
	var listings []Listing
	page := 0

	for {
		if c.cfg.MaxPages > 0 && page >= c.cfg.MaxPages {
			c.log.Info().Int("pages", page).Msg("Reached page cap")
			return listings, StopCapped
		}

		pageURL := c.pageURL(page)
		c.log.Info().Int("page", page+1).Str("url", pageURL).Msg("Loading results page")

		if err := c.nav.Navigate(pageURL); err != nil {
			c.log.Warn().Err(err).Msg("Page navigation failed")
			return listings, StopLoadFailed
		}

		if err := c.nav.WaitFor(c.cfg.Selectors.ResultsContainer, c.cfg.LoadTimeout); err != nil {
			c.log.Warn().Err(err).Msg("Results container did not appear")
			return listings, StopLoadFailed
		}

		items, err := c.nav.QueryAll(c.cfg.Selectors.ListingItems)
		if err != nil {
			c.log.Warn().Err(err).Msg("Listing query failed")
			return listings, StopLoadFailed
		}
		if len(items) == 0 {
			c.log.Info().Msg("No listing elements on page")
			return listings, StopExhausted
		}

		newListings := 0
		for _, item := range items {
			listing := c.extract(item)
			if _, dup := c.seen[listing.URL]; dup {
				continue
			}
			c.seen[listing.URL] = struct{}{}
			listings = append(listings, listing)
			newListings++
		}

		c.log.Debug().
			Int("page_items", len(items)).
			Int("new", newListings).
			Int("total", len(listings)).
			Msg("Page processed")

		if newListings == 0 {
			c.log.Info().Msg("No new listings on page, assuming last page")
			return listings, StopNoNewData
		}

		page++
		c.politenessDelay()
	}
}

// extract pulls one listing out of a card element. A missing sub-element
// degrades that field to the N/A sentinel; it never aborts the page.
func (c *Collector) extract(item browse.Element) Listing {
	title := firstText(item, c.cfg.Selectors.Title)
	price := firstText(item, c.cfg.Selectors.Price)

	location := NA
	if meta := item.Find(c.cfg.Selectors.MetaItems); len(meta) > 1 {
		location = meta[1].Text()
	}

	link, _ := item.Attr("href")
	link = strings.TrimSpace(link)
	switch {
	case link == "":
		link = NA
	case strings.HasPrefix(link, "/"):
		link = c.cfg.BaseURL + link
	}

	return Listing{
		Title:    title,
		RawPrice: price,
		Location: location,
		URL:      link,
	}
}

// pageURL builds the search URL for a zero-based page number.
func (c *Collector) pageURL(page int) string {
	params := url.Values{}
	params.Set("words", c.cfg.Keyword)
	if start := page * c.cfg.PageSize; start > 0 {
		params.Set("start", strconv.Itoa(start))
	}
	return c.cfg.SearchURL + "?" + params.Encode()
}

// politenessDelay sleeps a randomized bounded interval between pages.
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

func firstText(item browse.Element, selector string) string {
	if matches := item.Find(selector); len(matches) > 0 {
		if text := matches[0].Text(); text != "" {
			return text
		}
	}
	return NA
}
