// Package render turns extracted articles into paginated PDF renditions via
// the browser's print capability.
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/sh1dan/infoseek/internal/config"
	"github.com/sh1dan/infoseek/internal/domain"
	"github.com/sh1dan/infoseek/internal/ports"
)

// a4Options are the fixed print parameters: A4 paper, uniform margins,
// background graphics on, no header/footer chrome.
var a4Options = ports.PDFOptions{
	PaperWidth:      8.27,
	PaperHeight:     11.69,
	Margin:          0.4,
	PrintBackground: true,
}

// SwapRenderer is the primary path: it replaces the live page wholesale with
// the synthetic clean document before printing, so no residual ad iframes or
// stray layout survive into the PDF regardless of how messy the source
// markup was.
type SwapRenderer struct {
	cfg    config.ScraperConfig
	logger *slog.Logger
}

var _ ports.Renderer = (*SwapRenderer)(nil)

// NewSwapRenderer wires the nuclear-swap renderer.
func NewSwapRenderer(cfg config.ScraperConfig, logger *slog.Logger) *SwapRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SwapRenderer{cfg: cfg, logger: logger}
}

// Render swaps the active tab's document for the clean rendition, lets
// layout settle, and prints. An empty payload is a failure, never retried.
func (r *SwapRenderer) Render(ctx context.Context, sess ports.Session, article domain.ExtractedArticle) (domain.RenderedArtifact, error) {
	doc, err := buildCleanDocument(article)
	if err != nil {
		return domain.RenderedArtifact{}, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}

	swap, err := swapScript(doc)
	if err != nil {
		return domain.RenderedArtifact{}, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	if err := sess.Eval(ctx, swap, nil); err != nil {
		return domain.RenderedArtifact{}, fmt.Errorf("%w: document swap: %v", domain.ErrRenderFailed, err)
	}

	if err := settle(ctx, r.cfg.SettleDelay()); err != nil {
		return domain.RenderedArtifact{}, err
	}

	return printActive(ctx, sess, r.logger, article.SourceURL)
}

// swapScript builds the full in-place document replacement. The document is
// embedded as a JSON string literal so no HTML content can escape the call.
func swapScript(doc string) (string, error) {
	quoted, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("document.open(); document.write(%s); document.close();", quoted), nil
}

// CleanRenderer is the secondary path for content too irregular for clean
// reconstruction: hide ad and boilerplate elements in place, verify the page
// still has enough text, then print. When cleaning would empty the page it
// reloads and prints the unmodified original instead.
type CleanRenderer struct {
	cfg    config.ScraperConfig
	logger *slog.Logger
}

var _ ports.Renderer = (*CleanRenderer)(nil)

// NewCleanRenderer wires the in-place cleaning renderer.
func NewCleanRenderer(cfg config.ScraperConfig, logger *slog.Logger) *CleanRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanRenderer{cfg: cfg, logger: logger}
}

// minCleanedChars is the smallest visible-text length the page may have
// after cleaning; below it the cleaning is considered destructive.
const minCleanedChars = 200

// hideScript hides ad, social, and recirculation elements in place and
// returns the visible text length that remains.
const hideScript = `(() => {
	const unwanted = [
		'[class*="reklama"]', '[id*="reklama"]',
		'[class*="advertisement"]', '[id*="advertisement"]',
		'[id*="google_ads"]', '[id*="div-gpt-ad"]',
		'[class*="onnetwork"]', '[data-adv-display-type]', '[data-adv-display-replace]',
		'[class*="share"]', '[class*="reaction"]',
		'[class*="recommended"]', '[class*="related"]', '[class*="stories"]',
		'[class*="radio-program"]', '[class*="content-part__tags"]',
		'[class*="redphone"]', '[class*="embed-social"]',
		'[data-mrf-recirculation]',
		'iframe',
	];
	for (const sel of unwanted) {
		try {
			document.querySelectorAll(sel).forEach(el => {
				el.style.display = 'none';
				el.style.visibility = 'hidden';
			});
		} catch (e) {}
	}
	return (document.body.innerText || document.body.textContent || '').trim().length;
})()`

// Render cleans the already-loaded page and prints it. The article argument
// only supplies logging context; the page itself is the content.
func (r *CleanRenderer) Render(ctx context.Context, sess ports.Session, article domain.ExtractedArticle) (domain.RenderedArtifact, error) {
	var remaining int
	if err := sess.Eval(ctx, hideScript, &remaining); err != nil {
		return domain.RenderedArtifact{}, fmt.Errorf("%w: clean page: %v", domain.ErrRenderFailed, err)
	}

	if remaining < minCleanedChars {
		// Cleaning gutted the page; restore the original and print it as-is.
		r.logger.Warn("page too short after cleaning, printing unmodified",
			"url", article.SourceURL, "chars", remaining)
		if err := sess.Eval(ctx, "location.reload()", nil); err != nil {
			return domain.RenderedArtifact{}, fmt.Errorf("%w: restore page: %v", domain.ErrRenderFailed, err)
		}
		if err := sess.WaitVisible(ctx, "body", r.cfg.ElementTimeout()); err != nil {
			return domain.RenderedArtifact{}, fmt.Errorf("%w: restore page: %v", domain.ErrRenderFailed, err)
		}
	}

	if err := settle(ctx, r.cfg.SettleDelay()); err != nil {
		return domain.RenderedArtifact{}, err
	}

	return printActive(ctx, sess, r.logger, article.SourceURL)
}

func printActive(ctx context.Context, sess ports.Session, logger *slog.Logger, sourceURL string) (domain.RenderedArtifact, error) {
	pdf, err := sess.PrintToPDF(ctx, a4Options)
	if err != nil {
		return domain.RenderedArtifact{}, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	if len(pdf) == 0 {
		return domain.RenderedArtifact{}, fmt.Errorf("%w: empty payload", domain.ErrRenderFailed)
	}

	logger.Debug("pdf rendered", "url", sourceURL, "bytes", len(pdf))
	return domain.RenderedArtifact{Bytes: pdf, ByteLength: len(pdf)}, nil
}

// settle gives the page a bounded pause for layout and fonts.
func settle(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
