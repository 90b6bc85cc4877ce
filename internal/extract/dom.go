package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sh1dan/infoseek/internal/domain"
	"github.com/sh1dan/infoseek/internal/ports"
)

// DOMStrategy reads the serialized page once and walks the selector chains
// with goquery. It is the lighter-weight default.
type DOMStrategy struct {
	logger *slog.Logger
}

var _ Strategy = (*DOMStrategy)(nil)

// NewDOMStrategy wires the goquery-based extractor.
func NewDOMStrategy(logger *slog.Logger) *DOMStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &DOMStrategy{logger: logger}
}

// Name identifies the strategy inside the registry.
func (d *DOMStrategy) Name() string { return "dom" }

// Extract pulls title, author, date and body paragraphs out of the active
// tab's document.
func (d *DOMStrategy) Extract(ctx context.Context, sess ports.Session, sourceURL string) (domain.ExtractedArticle, error) {
	html, err := sess.PageHTML(ctx)
	if err != nil {
		return domain.ExtractedArticle{}, fmt.Errorf("read article page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domain.ExtractedArticle{}, fmt.Errorf("parse article page: %w", err)
	}

	raw := captureDocument(doc)
	d.logger.Debug("dom capture",
		"url", sourceURL,
		"paragraphs", len(raw.Paragraphs),
		"fallback", raw.Fallback,
	)
	return finalize(raw, sourceURL)
}

// captureDocument harvests raw values from a parsed document. Filtering and
// defaults happen in finalize so both strategies share them.
func captureDocument(doc *goquery.Document) rawCapture {
	raw := rawCapture{
		Title:   firstText(doc, titleSelectors),
		Author:  firstAttrOrText(doc, authorSelectors),
		RawDate: firstNormalizableDate(doc),
	}

	container := findContainer(doc)
	scope := doc.Selection
	if container != nil {
		scope = container
	} else {
		raw.Fallback = true
	}

	scope.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			raw.Paragraphs = append(raw.Paragraphs, text)
		}
	})

	return raw
}

// findContainer returns the first matching main-content container, or nil.
// Containers are never merged; overlap would duplicate paragraphs.
func findContainer(doc *goquery.Document) *goquery.Selection {
	for _, selector := range bodySelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

func firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func firstAttrOrText(doc *goquery.Document, selectors []attrSelector) string {
	for _, s := range selectors {
		sel := doc.Find(s.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		if s.Attr != "" {
			if v, ok := sel.Attr(s.Attr); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstNormalizableDate keeps scanning the chain until a value actually
// parses; a selector hit with garbage text must not shadow a later good one.
func firstNormalizableDate(doc *goquery.Document) string {
	for _, s := range dateSelectors {
		sel := doc.Find(s.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		value := ""
		if s.Attr != "" {
			if v, ok := sel.Attr(s.Attr); ok {
				value = strings.TrimSpace(v)
			}
		}
		if value == "" {
			value = strings.TrimSpace(sel.Text())
		}
		if value == "" {
			continue
		}
		if _, ok := NormalizeDate(value); ok {
			return value
		}
	}
	return ""
}
