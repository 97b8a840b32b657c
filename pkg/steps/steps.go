// Package steps binds the bundled scenario phrases to page objects.
package steps

import (
	"errors"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/uiharness/pkg/bdd"
	"github.com/entrhq/uiharness/pkg/config"
	"github.com/entrhq/uiharness/pkg/harness"
	"github.com/entrhq/uiharness/pkg/pages"
)

// ErrNoBrowser is returned by steps run without a browser session.
var ErrNoBrowser = errors.New("step requires a browser session")

// Register adds every bundled step to r.
func Register(r *bdd.Registry, cfg config.PagesConfig) {
	RegisterHome(r, cfg)
	RegisterSearch(r, cfg)
}

// RegisterHome adds the ParaBank home page steps.
func RegisterHome(r *bdd.Registry, cfg config.PagesConfig) {
	home := func(tc *harness.TestContext) (*pages.HomePage, error) {
		page, err := driver(tc)
		if err != nil {
			return nil, err
		}
		return pages.NewHomePage(page, cfg.HomeURL, cfg.WaitTimeout, tc.Logger), nil
	}

	r.Given(`I open the Para Bank homepage`, func(tc *harness.TestContext, _ ...string) error {
		p, err := home(tc)
		if err != nil {
			return err
		}
		return p.Open()
	})

	r.Then(`I should see the title as "([^"]*)"`, func(tc *harness.TestContext, args ...string) error {
		p, err := home(tc)
		if err != nil {
			return err
		}
		return p.ValidateTitle(args[0])
	})
}

// RegisterSearch adds the search engine steps.
func RegisterSearch(r *bdd.Registry, cfg config.PagesConfig) {
	search := func(tc *harness.TestContext) (*pages.SearchPage, error) {
		page, err := driver(tc)
		if err != nil {
			return nil, err
		}
		return pages.NewSearchPage(page, cfg.SearchURL, cfg.WaitTimeout, tc.Logger), nil
	}

	r.Given(`I open the Google homepage`, func(tc *harness.TestContext, _ ...string) error {
		p, err := search(tc)
		if err != nil {
			return err
		}
		return p.Open()
	})

	r.When(`I search for "([^"]*)"`, func(tc *harness.TestContext, args ...string) error {
		p, err := search(tc)
		if err != nil {
			return err
		}
		return p.SearchFor(args[0])
	})

	r.Then(`I should see search results related to "([^"]*)"`, func(tc *harness.TestContext, args ...string) error {
		p, err := search(tc)
		if err != nil {
			return err
		}
		content, err := p.Content()
		if err != nil {
			return err
		}
		return ContainsTerm(content, args[0])
	})
}

// ContainsTerm checks that the page content mentions term.
func ContainsTerm(content, term string) error {
	if !strings.Contains(content, term) {
		return fmt.Errorf("search term %q not found in page content", term)
	}
	return nil
}

func driver(tc *harness.TestContext) (playwright.Page, error) {
	if tc.Session == nil {
		return nil, ErrNoBrowser
	}
	page := tc.Session.Driver()
	if page == nil {
		return nil, ErrNoBrowser
	}
	return page, nil
}
