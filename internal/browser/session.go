// Package browser manages remote browser automation sessions over the
// Chrome DevTools Protocol.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/sh1dan/infoseek/internal/config"
	"github.com/sh1dan/infoseek/internal/domain"
	"github.com/sh1dan/infoseek/internal/ports"
)

// acquireTimeout bounds session negotiation with the automation endpoint.
const acquireTimeout = 20 * time.Second

// Manager builds sessions against a remote DevTools endpoint, or launches a
// local headless browser when no endpoint is configured.
type Manager struct {
	cfg    config.BrowserConfig
	logger *slog.Logger
}

var _ ports.SessionFactory = (*Manager)(nil)

// NewManager wires browser launch settings.
func NewManager(cfg config.BrowserConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{cfg: cfg, logger: logger}
}

// Acquire negotiates a new browser session. The returned session owns one
// base tab; Release tears the whole browser context down.
func (m *Manager) Acquire(ctx context.Context) (ports.Session, error) {
	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)

	if m.cfg.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, m.cfg.RemoteURL)
	} else {
		opts := []chromedp.ExecAllocatorOption{
			chromedp.NoDefaultBrowserCheck,
			chromedp.NoFirstRun,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.WindowSize(m.cfg.WindowWidth, m.cfg.WindowHeight),
		}
		if m.cfg.IsHeadless() {
			opts = append(opts, chromedp.Flag("headless", "new"))
		}
		if m.cfg.ChromePath != "" {
			opts = append(opts, chromedp.ExecPath(m.cfg.ChromePath))
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, opts...)
	}

	baseCtx, baseCancel := chromedp.NewContext(allocCtx)

	// An empty run forces the connection so unreachable endpoints surface
	// here instead of on first navigation.
	probeCtx, probeCancel := context.WithTimeout(baseCtx, acquireTimeout)
	defer probeCancel()
	if err := chromedp.Run(probeCtx); err != nil {
		baseCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionUnavailable, err)
	}

	m.logger.Debug("browser session acquired", "remote", m.cfg.RemoteURL != "")
	return &Session{
		base:        baseCtx,
		active:      baseCtx,
		baseCancel:  baseCancel,
		allocCancel: allocCancel,
		logger:      m.logger,
	}, nil
}

// Session is one live browser with an explicit active-tab cursor. It is not
// safe for concurrent use; each pipeline run owns exactly one session.
type Session struct {
	base        context.Context
	active      context.Context
	baseCancel  context.CancelFunc
	allocCancel context.CancelFunc
	tabSeq      int
	releaseOnce sync.Once
	logger      *slog.Logger
}

var _ ports.Session = (*Session)(nil)

// Tab wraps one extra browser tab.
type Tab struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
}

// ID returns the session-local tab identifier.
func (t *Tab) ID() string { return t.id }

// boundedContext derives a run context from parent that also ends when the
// caller's context does and, for timeout > 0, after timeout. chromedp run
// contexts must descend from the tab context, so the caller's cancellation
// is bridged over instead of merged in.
func boundedContext(caller, parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		rctx   context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		rctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		rctx, cancel = context.WithCancel(parent)
	}
	stop := context.AfterFunc(caller, cancel)
	return rctx, func() {
		stop()
		cancel()
	}
}

// Navigate loads url in the active tab and waits for the body to be ready.
func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tctx, cancel := boundedContext(ctx, s.active, timeout)
	defer cancel()

	err := chromedp.Run(tctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", domain.ErrNavigationTimeout, url)
	}
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// OpenTab opens url in a fresh tab and moves the active cursor onto it.
func (s *Session) OpenTab(ctx context.Context, url string, timeout time.Duration) (ports.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tabCtx, tabCancel := chromedp.NewContext(s.base)

	s.tabSeq++
	tab := &Tab{id: fmt.Sprintf("tab-%d", s.tabSeq), ctx: tabCtx, cancel: tabCancel}

	tctx, cancel := boundedContext(ctx, tabCtx, timeout)
	defer cancel()
	err := chromedp.Run(tctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		tabCancel()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNavigationTimeout, url)
		}
		return nil, fmt.Errorf("open tab %s: %w", url, err)
	}

	s.active = tabCtx
	return tab, nil
}

// CloseTab shuts the given tab and moves the cursor back to the base tab.
// Closing a nil or already-closed tab is a no-op.
func (s *Session) CloseTab(t ports.Tab) {
	tab, ok := t.(*Tab)
	if !ok || tab == nil {
		return
	}
	tab.cancel()
	s.active = s.base
}

// PageHTML returns the full serialized document of the active tab.
func (s *Session) PageHTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rctx, cancel := boundedContext(ctx, s.active, 0)
	defer cancel()
	var html string
	if err := chromedp.Run(rctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("page html: %w", err)
	}
	return html, nil
}

// Eval runs script in the active tab; out may be nil to discard the result.
func (s *Session) Eval(ctx context.Context, script string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rctx, cancel := boundedContext(ctx, s.active, 0)
	defer cancel()
	if err := chromedp.Run(rctx, chromedp.Evaluate(script, out)); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	return nil
}

// Click waits for selector to be visible and clicks it, bounded by timeout.
func (s *Session) Click(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tctx, cancel := boundedContext(ctx, s.active, timeout)
	defer cancel()
	return chromedp.Run(tctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
}

// WaitVisible blocks until selector is visible in the active tab or timeout.
func (s *Session) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tctx, cancel := boundedContext(ctx, s.active, timeout)
	defer cancel()
	return chromedp.Run(tctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// PrintToPDF invokes the DevTools print capability on the active tab and
// returns the decoded payload.
func (s *Session) PrintToPDF(ctx context.Context, opts ports.PDFOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rctx, cancel := boundedContext(ctx, s.active, 0)
	defer cancel()
	var buf []byte
	err := chromedp.Run(rctx, chromedp.ActionFunc(func(cctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(opts.PrintBackground).
			WithPaperWidth(opts.PaperWidth).
			WithPaperHeight(opts.PaperHeight).
			WithMarginTop(opts.Margin).
			WithMarginBottom(opts.Margin).
			WithMarginLeft(opts.Margin).
			WithMarginRight(opts.Margin).
			WithDisplayHeaderFooter(false).
			Do(cctx)
		if err != nil {
			return err
		}
		buf = data
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return buf, nil
}

// Release tears down the browser context. Safe to call multiple times and
// required on every exit path.
func (s *Session) Release() {
	s.releaseOnce.Do(func() {
		s.baseCancel()
		s.allocCancel()
		s.logger.Debug("browser session released")
	})
}
