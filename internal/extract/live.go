package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sh1dan/infoseek/internal/domain"
	"github.com/sh1dan/infoseek/internal/ports"
)

// LiveStrategy runs the selector walk inside the page itself, reading
// rendered text (innerText) instead of the serialized markup. It handles
// pages whose visible content diverges from the static DOM, at the cost of
// one script round-trip. Used as the pre-render strategy.
type LiveStrategy struct {
	logger *slog.Logger
}

var _ Strategy = (*LiveStrategy)(nil)

// NewLiveStrategy wires the in-page extractor.
func NewLiveStrategy(logger *slog.Logger) *LiveStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveStrategy{logger: logger}
}

// Name identifies the strategy inside the registry.
func (l *LiveStrategy) Name() string { return "live" }

// Extract evaluates the capture script in the active tab and normalizes the
// harvest with the shared rules.
func (l *LiveStrategy) Extract(ctx context.Context, sess ports.Session, sourceURL string) (domain.ExtractedArticle, error) {
	script, err := buildCaptureScript()
	if err != nil {
		return domain.ExtractedArticle{}, err
	}

	var raw rawCapture
	if err := sess.Eval(ctx, script, &raw); err != nil {
		return domain.ExtractedArticle{}, fmt.Errorf("in-page capture: %w", err)
	}

	l.logger.Debug("live capture",
		"url", sourceURL,
		"paragraphs", len(raw.Paragraphs),
		"fallback", raw.Fallback,
	)
	return finalize(raw, sourceURL)
}

// captureScript mirrors the DOM strategy's chain walk in the page. The
// selector chains are injected as JSON so both strategies share one source
// of truth. Date hits are returned as an ordered list; the Go side picks the
// first one that parses, matching the DOM strategy's parse-or-continue scan.
const captureScript = `(() => {
	const titleSels = %s;
	const authorSels = %s;
	const dateSels = %s;
	const bodySels = %s;

	const firstText = (sels) => {
		for (const s of sels) {
			const el = document.querySelector(s);
			if (!el) continue;
			const t = (el.innerText || el.textContent || '').trim();
			if (t) return t;
		}
		return '';
	};

	const firstAttrOrText = (pairs) => {
		for (const p of pairs) {
			const el = document.querySelector(p.selector);
			if (!el) continue;
			let v = '';
			if (p.attr) v = (el.getAttribute(p.attr) || '').trim();
			if (!v) v = (el.innerText || el.textContent || '').trim();
			if (v) return v;
		}
		return '';
	};

	const allAttrOrText = (pairs) => {
		const out = [];
		for (const p of pairs) {
			const el = document.querySelector(p.selector);
			if (!el) continue;
			let v = '';
			if (p.attr) v = (el.getAttribute(p.attr) || '').trim();
			if (!v) v = (el.innerText || el.textContent || '').trim();
			if (v) out.push(v);
		}
		return out;
	};

	let container = null;
	for (const s of bodySels) {
		container = document.querySelector(s);
		if (container) break;
	}
	const scope = container || document;
	const paragraphs = Array.from(scope.querySelectorAll('p'))
		.map(p => (p.innerText || p.textContent || '').trim())
		.filter(t => t);

	return {
		title: firstText(titleSels),
		author: firstAttrOrText(authorSels),
		dates: allAttrOrText(dateSels),
		paragraphs: paragraphs,
		fallback: !container,
	};
})()`

func buildCaptureScript() (string, error) {
	titles, err := json.Marshal(titleSelectors)
	if err != nil {
		return "", fmt.Errorf("marshal title selectors: %w", err)
	}
	authors, err := json.Marshal(authorSelectors)
	if err != nil {
		return "", fmt.Errorf("marshal author selectors: %w", err)
	}
	dates, err := json.Marshal(dateSelectors)
	if err != nil {
		return "", fmt.Errorf("marshal date selectors: %w", err)
	}
	bodies, err := json.Marshal(bodySelectors)
	if err != nil {
		return "", fmt.Errorf("marshal body selectors: %w", err)
	}
	return fmt.Sprintf(captureScript, titles, authors, dates, bodies), nil
}
