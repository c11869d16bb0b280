package browse

import (
	"bytes"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"slices"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"flipfinder/pkg/errors"
)

var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Safari/605.1.15",
	}

	referers = []string{
		"https://www.google.com/",
		"https://www.bing.com/",
		"https://duckduckgo.com/",
	}
)

// StaticNavigator fetches pages over plain HTTP and parses the returned
// document once. It covers sources that serve their result lists
// server-side; there is no JavaScript execution and no real waiting, so
// WaitFor degenerates to a presence check on the fetched document.
type StaticNavigator struct {
	client *http.Client
	doc    *goquery.Document
	url    string
}

// NewStaticNavigator creates a static HTTP-backed navigator.
func NewStaticNavigator(timeout time.Duration) *StaticNavigator {
	return &StaticNavigator{
		client: &http.Client{Timeout: timeout},
	}
}

// Navigate fetches the URL with randomized browser-like headers and parses
// the body into a document, converting to UTF-8 when needed.
func (n *StaticNavigator) Navigate(url string) error {
	n.doc = nil
	n.url = url

	body, err := n.fetch(url)
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return errors.NewParsing("static", "parse page HTML", err)
	}

	n.doc = doc
	return nil
}

// WaitFor reports whether the selector is present on the fetched document.
// A static document either contains the selector or never will, so the
// timeout only labels the failure.
func (n *StaticNavigator) WaitFor(selector string, _ time.Duration) error {
	if n.doc == nil {
		return errors.NewPageTimeout("static", "no page loaded", nil)
	}
	if n.doc.Find(selector).Length() == 0 {
		return ErrWaitTimeout
	}
	return nil
}

// QueryAll returns the elements matching the selector on the current page.
func (n *StaticNavigator) QueryAll(selector string) ([]Element, error) {
	if n.doc == nil {
		return nil, errors.NewPageTimeout("static", "no page loaded", nil)
	}
	return Elements(n.doc.Find(selector)), nil
}

// Close is a no-op; the HTTP client holds no session state.
func (n *StaticNavigator) Close() error {
	return nil
}

// fetch sends a GET with randomized headers and returns a UTF-8 body.
func (n *StaticNavigator) fetch(url string) (io.Reader, error) {
	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, errors.NewPageTimeout("static", "create request", err)
	}

	req.Header.Set("User-Agent", userAgents[rnd.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-IE,en-GB;q=0.9,en;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Referer", referers[rnd.Intn(len(referers))])
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, errors.NewPageTimeout("static", "fetch "+url, err)
	}
	defer resp.Body.Close()

	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		retryAfter := resp.Header.Get("Retry-After")
		return nil, errors.NewRateLimit("static", parseRetryAfter(retryAfter))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewPageTimeout("static",
			fmt.Sprintf("fetch %s unexpected status code: %d", url, resp.StatusCode), nil)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewPageTimeout("static", "read response body", err)
	}

	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))
	if name == "utf-8" || name == "UTF-8" {
		return bytes.NewReader(bodyBytes), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, errors.NewParsing("static", "convert body to UTF-8", err)
	}

	return &buf, nil
}

func parseRetryAfter(header string) time.Duration {
	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return time.Minute
}
