package browse

import (
	"errors"
	"time"
)

// ErrWaitTimeout is returned by WaitFor when the selector did not appear
// within the bounded wait.
var ErrWaitTimeout = errors.New("browse: timed out waiting for selector")

// Element is a handle on one DOM node of the current page.
type Element interface {
	// Text returns the trimmed visible text of the element.
	Text() string

	// Attr returns the named attribute and whether it exists.
	Attr(name string) (string, bool)

	// Find runs a scoped sub-query and returns matching child elements
	// in document order.
	Find(selector string) []Element
}

// Navigator is the page-navigation capability consumed by the collectors.
// Implementations own a single browsing session and are not safe for
// concurrent use; the run drives one navigation at a time.
type Navigator interface {
	// Navigate loads the given URL into the session.
	Navigate(url string) error

	// WaitFor blocks until the selector is present on the current page or
	// the timeout elapses, in which case ErrWaitTimeout is returned.
	WaitFor(selector string, timeout time.Duration) error

	// QueryAll returns every element matching the selector on the current
	// page, in document order.
	QueryAll(selector string) ([]Element, error)

	// Close releases the session.
	Close() error
}
