package browse

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipfinder/pkg/errors"
)

func TestStaticNavigatorFetchAndQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("Referer"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body>
			<ul data-testid='card-list'>
				<li><a href='/ad/1'><p class='CardTitle'>iPhone 16 128GB</p></a></li>
				<li><a href='/ad/2'><p class='CardTitle'>iPhone 16 Pro</p></a></li>
			</ul>
		</body></html>`))
	}))
	defer server.Close()

	nav := NewStaticNavigator(5 * time.Second)
	defer nav.Close()

	require.NoError(t, nav.Navigate(server.URL))
	require.NoError(t, nav.WaitFor("ul[data-testid='card-list']", time.Second))

	items, err := nav.QueryAll("ul[data-testid='card-list'] li a")
	require.NoError(t, err)
	require.Len(t, items, 2)

	titles := items[0].Find("p[class*='Title']")
	require.Len(t, titles, 1)
	assert.Equal(t, "iPhone 16 128GB", titles[0].Text())

	href, ok := items[1].Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "/ad/2", href)
}

func TestStaticNavigatorWaitForMissingSelector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>nothing here</p></body></html>"))
	}))
	defer server.Close()

	nav := NewStaticNavigator(5 * time.Second)
	require.NoError(t, nav.Navigate(server.URL))

	err := nav.WaitFor(".srp-results", time.Second)
	assert.ErrorIs(t, err, ErrWaitTimeout)
}

func TestStaticNavigatorRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	nav := NewStaticNavigator(5 * time.Second)
	err := nav.Navigate(server.URL)
	require.Error(t, err)

	var perr *errors.PipelineError
	require.True(t, stderrors.As(err, &perr))
	assert.Equal(t, errors.ErrorTypeRateLimit, perr.Type)
	assert.False(t, perr.IsFatal())
}

func TestStaticNavigatorUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	nav := NewStaticNavigator(5 * time.Second)
	err := nav.Navigate(server.URL)
	require.Error(t, err)

	var perr *errors.PipelineError
	require.True(t, stderrors.As(err, &perr))
	assert.Equal(t, errors.ErrorTypePageTimeout, perr.Type)
}

func TestStaticNavigatorQueryBeforeNavigate(t *testing.T) {
	nav := NewStaticNavigator(5 * time.Second)

	_, err := nav.QueryAll("div")
	assert.Error(t, err)
	assert.Error(t, nav.WaitFor("div", time.Second))
}
