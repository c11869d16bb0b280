package browse

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"flipfinder/logger"
	"flipfinder/pkg/errors"
)

// ChromeNavigator drives a headless Chrome session via chromedp. It is the
// production Navigator: sources here render their result lists client-side,
// so a plain HTTP fetch sees an empty shell.
type ChromeNavigator struct {
	tabCtx  context.Context
	cancels []context.CancelFunc

	// doc caches the parsed DOM of the current page; it is rebuilt after
	// every navigation and successful wait.
	doc *goquery.Document
	log *logger.Logger
}

// NewChromeNavigator launches a browser session. Failure here is the only
// run-fatal error in the pipeline.
func NewChromeNavigator(chromeBin string, headless bool) (*ChromeNavigator, error) {
	bin := chromeBin
	if bin == "" {
		bin = findChromeBinary()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser eagerly so session acquisition failures surface now
	// rather than on the first page load.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, errors.NewNavigation("chrome", "failed to start browser session", err)
	}

	return &ChromeNavigator{
		tabCtx:  tabCtx,
		cancels: []context.CancelFunc{cancelTab, cancelAlloc},
		log:     logger.ForComponent("browse"),
	}, nil
}

// Navigate loads the URL in the session tab and invalidates the cached DOM.
func (c *ChromeNavigator) Navigate(url string) error {
	c.doc = nil
	if err := chromedp.Run(c.tabCtx, chromedp.Navigate(url)); err != nil {
		return errors.NewPageTimeout("chrome", "navigate "+url, err)
	}
	return nil
}

// WaitFor blocks until the selector is ready or the timeout elapses.
func (c *ChromeNavigator) WaitFor(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(c.tabCtx, timeout)
	defer cancel()

	err := chromedp.Run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return ErrWaitTimeout
		}
		return errors.NewPageTimeout("chrome", "wait for "+selector, err)
	}

	// Snapshot the rendered DOM now that the container is present.
	return c.snapshot()
}

// QueryAll returns the elements matching the selector on the current page.
func (c *ChromeNavigator) QueryAll(selector string) ([]Element, error) {
	if c.doc == nil {
		if err := c.snapshot(); err != nil {
			return nil, err
		}
	}
	return Elements(c.doc.Find(selector)), nil
}

// Close tears the browser session down.
func (c *ChromeNavigator) Close() error {
	for _, cancel := range c.cancels {
		cancel()
	}
	return nil
}

func (c *ChromeNavigator) snapshot() error {
	var html string
	if err := chromedp.Run(c.tabCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return errors.NewParsing("chrome", "capture page HTML", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return errors.NewParsing("chrome", "parse page HTML", err)
	}

	c.doc = doc
	c.log.Debug().Int("bytes", len(html)).Msg("Captured page snapshot")
	return nil
}

// findChromeBinary locates a Chrome/Chromium binary on the host.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
