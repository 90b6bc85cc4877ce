// Package search drives the site's embedded search widget and filters its
// hits down to article candidates.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sh1dan/infoseek/internal/config"
	"github.com/sh1dan/infoseek/internal/domain"
	"github.com/sh1dan/infoseek/internal/ports"
)

// consentLocators are tried in order; the first clickable one wins. The site
// uses a OneTrust overlay, the rest cover template variations.
var consentLocators = []string{
	"button#onetrust-accept-btn-handler",
	`button[class*="onetrust-accept"]`,
	`button[id*="accept"]`,
}

// widgetContainer marks the third-party search widget having rendered.
const widgetContainer = ".gsc-results, .gsc-webResult"

// linkLocators scan the widget markup from most to least specific. The first
// locator yielding at least one valid candidate wins; later ones are skipped.
var linkLocators = []string{
	".gsc-webResult .gs-title a",
	".gsc-result .gs-title a",
	".gsc-webResult a.gs-title",
	"a.gs-title",
	".gsc-results .gsc-webResult a",
}

// adWrappers excludes links rendered inside the widget's sponsored blocks.
const adWrappers = `[class*="adsense"], [class*="advert"], [class*="reklama"]`

// Extractor locates and filters article links on a loaded search page.
type Extractor struct {
	cfg    config.ScraperConfig
	logger *slog.Logger
}

var _ ports.ResultSearcher = (*Extractor)(nil)

// NewExtractor wires scraper settings.
func NewExtractor(cfg config.ScraperConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Collect dismisses the consent overlay, waits for the results widget, and
// returns up to limit deduplicated article candidates in widget order.
func (e *Extractor) Collect(ctx context.Context, sess ports.Session, limit int) ([]domain.ArticleCandidate, error) {
	e.dismissConsent(ctx, sess)

	if err := sess.WaitVisible(ctx, widgetContainer, e.cfg.ElementTimeout()); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoResultsContainer, err)
	}

	html, err := sess.PageHTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("read search page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	candidates := e.scan(doc, limit)
	if len(candidates) == 0 {
		return nil, domain.ErrNoArticlesFound
	}
	return candidates, nil
}

// dismissConsent clicks the first matching consent button. Absence after the
// bounded wait means the overlay was already accepted; that is not an error.
func (e *Extractor) dismissConsent(ctx context.Context, sess ports.Session) {
	for _, locator := range consentLocators {
		if err := sess.Click(ctx, locator, e.cfg.ElementTimeout()); err == nil {
			e.logger.Debug("consent overlay dismissed", "locator", locator)
			return
		}
	}
	e.logger.Debug("no consent overlay found, assuming accepted")
}

// scan walks the link locator chain over the parsed page and returns the
// filtered, deduplicated candidate list.
func (e *Extractor) scan(doc *goquery.Document, limit int) []domain.ArticleCandidate {
	for _, locator := range linkLocators {
		candidates := e.collectLinks(doc, locator, limit)
		if len(candidates) > 0 {
			e.logger.Info("article links found", "locator", locator, "count", len(candidates))
			return candidates
		}
	}
	return nil
}

func (e *Extractor) collectLinks(doc *goquery.Document, locator string, limit int) []domain.ArticleCandidate {
	var candidates []domain.ArticleCandidate
	seen := map[string]struct{}{}

	doc.Find(locator).Each(func(_ int, link *goquery.Selection) {
		if len(candidates) >= limit {
			return
		}
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		if link.ParentsFiltered(adWrappers).Length() > 0 {
			return
		}

		resolved, ok := normalizeCandidate(href, e.cfg.BaseOrigin)
		if !ok {
			return
		}
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}

		title := strings.TrimSpace(link.Text())
		if title == "" {
			title = fmt.Sprintf("Article %d", len(candidates)+1)
		}
		candidates = append(candidates, domain.ArticleCandidate{URL: resolved, DisplayTitle: title})
	})

	return candidates
}
