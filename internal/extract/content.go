package extract

import (
	"strings"

	"github.com/sh1dan/infoseek/internal/domain"
)

// rawCapture is the unfiltered harvest of one page before normalization.
// RawDate carries a single pre-screened value (dom strategy); DateCandidates
// carries every non-empty chain hit in priority order (live strategy), so an
// unparseable hit never shadows a later good one. Fallback marks a
// whole-document paragraph scan, which applies the higher length threshold.
type rawCapture struct {
	Title          string   `json:"title"`
	Author         string   `json:"author"`
	RawDate        string   `json:"date"`
	DateCandidates []string `json:"dates"`
	Paragraphs     []string `json:"paragraphs"`
	Fallback       bool     `json:"fallback"`
}

// finalize applies the shared normalization rules: placeholder title, brand
// author default, date normalization-or-discard, and paragraph filtering.
// Zero surviving paragraphs is an extraction failure, never an empty body.
func finalize(raw rawCapture, sourceURL string) (domain.ExtractedArticle, error) {
	minChars := minParagraphChars
	if raw.Fallback {
		minChars = fallbackParagraphChars
	}

	body := filterParagraphs(raw.Paragraphs, minChars)
	if len(body) == 0 {
		return domain.ExtractedArticle{}, domain.ErrEmptyContent
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = placeholderTitle
	}

	author := strings.TrimSpace(raw.Author)
	if author == "" {
		author = siteBrand
	}

	date := ""
	for _, value := range append([]string{raw.RawDate}, raw.DateCandidates...) {
		if normalized, ok := NormalizeDate(value); ok {
			date = normalized
			break
		}
	}

	return domain.ExtractedArticle{
		Title:           title,
		Author:          author,
		PublicationDate: date,
		BodyParagraphs:  body,
		SourceURL:       sourceURL,
	}, nil
}

// filterParagraphs keeps document order while dropping short captions and
// denylisted boilerplate.
func filterParagraphs(paragraphs []string, minChars int) []string {
	var kept []string
	for _, p := range paragraphs {
		text := strings.TrimSpace(p)
		if len([]rune(text)) < minChars {
			continue
		}
		if isBoilerplate(text) {
			continue
		}
		kept = append(kept, text)
	}
	return kept
}

func isBoilerplate(text string) bool {
	upper := strings.ToUpper(text)
	for _, phrase := range boilerplateDenylist {
		if strings.Contains(upper, phrase) {
			return true
		}
	}
	return false
}
