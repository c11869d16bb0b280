package sales

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipfinder/internal/browse"
	"flipfinder/internal/pricing"
	"flipfinder/pkg/errors"
	"flipfinder/services/cache"
)

// fakeNavigator serves canned HTML documents keyed by URL. URLs can also be
// mapped to an error to simulate navigation failures.
type fakeNavigator struct {
	pages  map[string]string
	errors map[string]error
	doc    *goquery.Document
}

func newFakeNavigator() *fakeNavigator {
	return &fakeNavigator{
		pages:  make(map[string]string),
		errors: make(map[string]error),
	}
}

func (f *fakeNavigator) Navigate(url string) error {
	if err, ok := f.errors[url]; ok {
		return err
	}
	html, ok := f.pages[url]
	if !ok {
		return errors.NewNavigation(url, "no such page", nil)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return err
	}
	f.doc = doc
	return nil
}

func (f *fakeNavigator) WaitFor(selector string, _ time.Duration) error {
	if f.doc == nil || f.doc.Find(selector).Length() == 0 {
		return browse.ErrWaitTimeout
	}
	return nil
}

func (f *fakeNavigator) QueryAll(selector string) ([]browse.Element, error) {
	return browse.Elements(f.doc.Find(selector)), nil
}

func (f *fakeNavigator) Close() error { return nil }

type soldItem struct {
	title     string
	subtitle  string
	price     string
	condition string
	recency   string
}

func soldPage(items ...soldItem) string {
	var b strings.Builder
	b.WriteString("<html><body><div class='srp-results'>")
	for _, it := range items {
		b.WriteString("<div class='s-item'>")
		if it.recency != "" {
			b.WriteString("<span class='s-item__title--tag'>" + it.recency + "</span>")
		}
		b.WriteString("<span class='s-item__title'>" + it.title + "</span>")
		if it.subtitle != "" {
			b.WriteString("<span class='s-item__subtitle'>" + it.subtitle + "</span>")
		}
		if it.condition != "" {
			b.WriteString("<span class='SECONDARY_INFO'>" + it.condition + "</span>")
		}
		if it.price != "" {
			b.WriteString("<span class='s-item__price'>" + it.price + "</span>")
		}
		b.WriteString("</div>")
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

const ukSearchURL = "https://www.ebay.co.uk/sch/i.html?LH_Complete=1&LH_Sold=1&_nkw=iphone+16+128gb&_sacat=0&_sop=13"

func ukConfig() Config {
	return Config{
		Domains:          []string{"co.uk"},
		ResultsPerDomain: 10,
	}
}

func TestCollectSoldExtractsRecords(t *testing.T) {
	nav := newFakeNavigator()
	nav.pages[ukSearchURL] = soldPage(
		soldItem{title: "iPhone 16 128GB Black", price: "£520.00", condition: "Pre-owned", recency: "Sold 12 Aug 2026"},
		soldItem{title: "iPhone 16 128GB", price: "£480.00"},
	)

	c := New(nav, nil, pricing.NewParser(0), ukConfig())
	records := c.CollectSold("iphone 16 128gb")

	require.Len(t, records, 2)
	assert.Equal(t, "iPhone 16 128GB Black", records[0].Title)
	assert.Equal(t, 520.0, records[0].Price)
	assert.Equal(t, "£520.00", records[0].PriceText)
	assert.Equal(t, "£", records[0].CurrencySymbol)
	assert.Equal(t, "co.uk", records[0].SourceDomain)
	assert.Equal(t, "Pre-owned", records[0].Condition)
	assert.Equal(t, "Sold 12 Aug 2026", records[0].Recency)

	// Missing optional fields fall back to the sentinels.
	assert.Equal(t, ConditionNotSpecified, records[1].Condition)
	assert.Equal(t, RecentlySold, records[1].Recency)
}

func TestCollectSoldSkipsSponsoredAndFreshListings(t *testing.T) {
	nav := newFakeNavigator()
	nav.pages[ukSearchURL] = soldPage(
		soldItem{title: "iPhone 16 ad", subtitle: "Sponsored", price: "£999.00"},
		soldItem{title: "New listing iPhone 16", price: "£500.00"},
		soldItem{title: "iPhone 16 128GB", price: "no price"},
		soldItem{title: "iPhone 16 128GB", price: "£510.00"},
	)

	c := New(nav, nil, pricing.NewParser(0), ukConfig())
	records := c.CollectSold("iphone 16 128gb")

	require.Len(t, records, 1)
	assert.Equal(t, 510.0, records[0].Price)
}

func TestCollectSoldHonorsPerDomainCap(t *testing.T) {
	nav := newFakeNavigator()
	nav.pages[ukSearchURL] = soldPage(
		soldItem{title: "iPhone 16 #1", price: "£500"},
		soldItem{title: "iPhone 16 #2", price: "£510"},
		soldItem{title: "iPhone 16 #3", price: "£520"},
	)

	cfg := ukConfig()
	cfg.ResultsPerDomain = 2
	c := New(nav, nil, pricing.NewParser(0), cfg)

	assert.Len(t, c.CollectSold("iphone 16 128gb"), 2)
}

func TestCollectSoldFailedDomainIsSkipped(t *testing.T) {
	nav := newFakeNavigator()
	// co.uk has no page registered, com does.
	comURL := "https://www.ebay.com/sch/i.html?LH_Complete=1&LH_Sold=1&_nkw=iphone+16+128gb&_sacat=0&_sop=13"
	nav.pages[comURL] = soldPage(soldItem{title: "iPhone 16 128GB", price: "$540.00"})

	cfg := ukConfig()
	cfg.Domains = []string{"co.uk", "com"}
	c := New(nav, nil, pricing.NewParser(0), cfg)

	records := c.CollectSold("iphone 16 128gb")
	require.Len(t, records, 1)
	assert.Equal(t, "com", records[0].SourceDomain)
	assert.Equal(t, "$", records[0].CurrencySymbol)
}

func TestCollectSoldRateLimitBlocksDomain(t *testing.T) {
	nav := newFakeNavigator()
	nav.errors[ukSearchURL] = errors.NewRateLimit("co.uk", time.Minute)

	cfg := ukConfig()
	cfg.BlockTime = time.Minute
	cacheSvc := cache.NewMemoryService()
	c := New(nav, cacheSvc, pricing.NewParser(0), cfg)

	assert.Empty(t, c.CollectSold("iphone 16 128gb"))

	// The domain is now blocked out; even a working page is not queried.
	delete(nav.errors, ukSearchURL)
	nav.pages[ukSearchURL] = soldPage(soldItem{title: "iPhone 16 128GB", price: "£500"})
	assert.Empty(t, c.CollectSold("iphone 16 128gb"))

	_, err := cacheSvc.Get("sales_block_co.uk")
	assert.NoError(t, err)
}

func TestCurrencyFallsBackToDollar(t *testing.T) {
	c := New(newFakeNavigator(), nil, pricing.NewParser(0), ukConfig())
	assert.Equal(t, "$", c.currencyFor("de"))
}
