//go:build browser

package pages

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/uiharness/pkg/browser"
	"github.com/entrhq/uiharness/pkg/config"
)

const fixturePage = `<!DOCTYPE html>
<html>
<head><title>ParaBank | Welcome | Online Banking</title></head>
<body>
  <form action="/results">
    <input name="q" type="text">
  </form>
  <a id="login" href="#" onmouseover="this.dataset.hovered='yes'">Log In</a>
</body>
</html>`

func newFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, fixturePage)
	})
	mux.HandleFunc("/results", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head><title>Results</title></head><body><div id="search"><p>About %s</p></div></body></html>`,
			r.URL.Query().Get("q"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newBrowserPage(t *testing.T) *browser.Session {
	t.Helper()
	m := browser.NewManager(browser.Options{Engine: config.EngineChromium, Headless: true}, nil)
	require.NoError(t, m.Initialize())
	t.Cleanup(func() { _ = m.Shutdown() })

	h, err := m.Acquire(context.Background(), t.Name())
	require.NoError(t, err)
	return h.(*browser.Session)
}

func TestHomePageValidateTitle(t *testing.T) {
	srv := newFixtureServer(t)
	s := newBrowserPage(t)

	home := NewHomePage(s.Page, srv.URL, 2*time.Second, nil)
	require.NoError(t, home.Open())

	assert.NoError(t, home.ValidateTitle("ParaBank | Welcome | Online Banking"))

	err := home.ValidateTitle("Something Else")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "but got 'ParaBank | Welcome | Online Banking'")
}

func TestSearchPageFlow(t *testing.T) {
	srv := newFixtureServer(t)
	s := newBrowserPage(t)

	search := NewSearchPage(s.Page, srv.URL, 2*time.Second, nil)
	require.NoError(t, search.Open())
	require.NoError(t, search.SearchFor("Pytest BDD tutorial"))

	content, err := search.Content()
	require.NoError(t, err)
	assert.Contains(t, content, "About Pytest BDD tutorial")
}

func TestBasePageElementOperations(t *testing.T) {
	srv := newFixtureServer(t)
	s := newBrowserPage(t)

	p := NewBasePage(s.Page, time.Second, nil)
	require.NoError(t, p.OpenURL(srv.URL))

	assert.True(t, p.IsDisplayed(ID("login")))
	assert.False(t, p.IsDisplayed(ID("missing")))

	text, err := p.GetText(Text("Log In"))
	require.NoError(t, err)
	assert.Equal(t, "Log In", text)

	require.NoError(t, p.Hover(ID("login")))
	hovered, err := p.GetAttribute(ID("login"), "data-hovered")
	require.NoError(t, err)
	assert.Equal(t, "yes", hovered)

	require.NoError(t, p.EnterText(Name("q"), "first", true))
	require.NoError(t, p.EnterText(Name("q"), " second", false))
	value, err := s.Page.Locator(Name("q").Selector()).InputValue()
	require.NoError(t, err)
	assert.Equal(t, "first second", value)

	err = p.Click(ID("missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `(id, "missing")`)

	assert.NoError(t, p.ScrollPageDown())
	assert.NoError(t, p.ScrollPageUp())
	assert.Equal(t, srv.URL+"/", p.CurrentURL())
}
