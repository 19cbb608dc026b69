package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// RodDriver is the go-rod-backed implementation of the Driver
// contract: one persistent headless browser context, reused across
// fetches by the Session Manager.
//
// Grounded on the pack's crawler precedent (a go-rod-driven crawl
// worker) for "navigate, wait for stable DOM, extract cards" — this
// repo's own domain adds the listing-card selectors and price/date
// parsing in parse.go.
type RodDriver struct {
	SearchURLTemplate string // e.g. "https://marketplace.example.com/search?q=%s"
	ListSelector      string // root selector for one listing card
	Headless          bool

	browser *rod.Browser
}

// NewRodDriver builds a driver against the given marketplace search
// URL template and listing-card selector.
func NewRodDriver(searchURLTemplate, listSelector string, headless bool) *RodDriver {
	return &RodDriver{
		SearchURLTemplate: searchURLTemplate,
		ListSelector:      listSelector,
		Headless:          headless,
	}
}

// Open launches a new browser and connects to it. Must be called once at
// process startup.
func (d *RodDriver) Open(ctx context.Context) error {
	u := launcher.New().Headless(d.Headless).MustLaunch()
	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	d.browser = browser
	return nil
}

// Close tears down the browser context.
func (d *RodDriver) Close(ctx context.Context) error {
	if d.browser == nil {
		return nil
	}
	return d.browser.Close()
}

// NavigateAndExtract navigates to the search URL for query, waits for
// the listing root selector to render, scrolls once to trigger lazy
// content, and extracts structured cards from the resulting DOM.
func (d *RodDriver) NavigateAndExtract(ctx context.Context, query string) (Extraction, error) {
	if d.browser == nil {
		return Extraction{}, fmt.Errorf("driver not opened")
	}

	page := d.browser.Context(ctx).MustPage()
	defer page.MustClose()

	searchURL := fmt.Sprintf(d.SearchURLTemplate, url.QueryEscape(query))
	if err := page.Navigate(searchURL); err != nil {
		return Extraction{}, fmt.Errorf("navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return Extraction{}, fmt.Errorf("wait load: %w", err)
	}

	if _, err := page.Timeout(10 * time.Second).Element(d.ListSelector); err != nil {
		return Extraction{}, fmt.Errorf("root selector %q never appeared: %w", d.ListSelector, err)
	}

	// Scroll once to trigger lazily-rendered listing cards, per the
	// session manager's fetch contract.
	if err := page.Mouse.Scroll(0, 2000, 1); err != nil {
		return Extraction{}, fmt.Errorf("scroll: %w", err)
	}
	page.MustWaitStable()

	html, err := page.HTML()
	if err != nil {
		return Extraction{}, fmt.Errorf("read html: %w", err)
	}

	cards, err := extractCards(html, d.ListSelector)
	if err != nil {
		return Extraction{}, fmt.Errorf("extract cards: %w", err)
	}

	return Extraction{HTML: html, Cards: cards}, nil
}

// extractCards parses the rendered page HTML with goquery and pulls
// out one RawCard per matched listing-card element.
func extractCards(html, listSelector string) ([]RawCard, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var cards []RawCard
	doc.Find(listSelector).Each(func(_ int, sel *goquery.Selection) {
		card := RawCard{
			TitleText: strings.TrimSpace(sel.Find(".s-item__title").Text()),
			PriceText: strings.TrimSpace(sel.Find(".s-item__price").Text()),
			Condition: strings.TrimSpace(sel.Find(".SECONDARY_INFO").Text()),
			SoldText:  strings.TrimSpace(sel.Find(".s-item__title--tagblock .POSITIVE").Text()),
		}
		if href, ok := sel.Find("a.s-item__link").Attr("href"); ok {
			card.URL = href
		}
		cards = append(cards, card)
	})
	return cards, nil
}
