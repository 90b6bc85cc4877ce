// Package app wires configuration, adapters and use cases into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sh1dan/infoseek/internal/api"
	"github.com/sh1dan/infoseek/internal/browser"
	"github.com/sh1dan/infoseek/internal/config"
	"github.com/sh1dan/infoseek/internal/extract"
	"github.com/sh1dan/infoseek/internal/infrastructure/storage"
	"github.com/sh1dan/infoseek/internal/logging"
	"github.com/sh1dan/infoseek/internal/ports"
	"github.com/sh1dan/infoseek/internal/render"
	"github.com/sh1dan/infoseek/internal/search"
	"github.com/sh1dan/infoseek/internal/usecase"
)

// Application holds the long-lived pieces of the service.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	repo       *storage.SQLiteRepository
	dispatcher *usecase.Dispatcher
	server     *http.Server
}

// New builds a fully wired application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	repo, err := storage.NewSQLiteRepository(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	artifacts := storage.NewFileArtifactStore(cfg.Media.Dir)
	sessions := browser.NewManager(cfg.Browser, logging.Component(baseLogger, "browser"))
	searcher := search.NewExtractor(cfg.Scraper, logging.Component(baseLogger, "search"))

	registry := extract.NewRegistry()
	registry.Register(extract.NewDOMStrategy(logging.Component(baseLogger, "extract.dom")))
	registry.Register(extract.NewLiveStrategy(logging.Component(baseLogger, "extract.live")))
	strategy, err := registry.Resolve(cfg.Scraper.ExtractStrategy)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("resolve extract strategy: %w", err)
	}

	var renderer ports.Renderer
	switch cfg.Scraper.RenderMode {
	case "clean":
		renderer = render.NewCleanRenderer(cfg.Scraper, logging.Component(baseLogger, "render.clean"))
	case "swap", "":
		renderer = render.NewSwapRenderer(cfg.Scraper, logging.Component(baseLogger, "render.swap"))
	default:
		repo.Close()
		return nil, fmt.Errorf("unknown render mode %q", cfg.Scraper.RenderMode)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Sessions:   sessions,
		Searcher:   searcher,
		Extractor:  strategy,
		Renderer:   renderer,
		Repository: repo,
		Artifacts:  artifacts,
		Scraper:    cfg.Scraper,
		PageLoad:   cfg.Browser.PageLoadTimeout(),
		Logger:     logging.Component(baseLogger, "pipeline"),
	})

	dispatcher := usecase.NewDispatcher(pipeline, cfg.Scraper.Workers, cfg.Scraper.QueueSize,
		logging.Component(baseLogger, "dispatcher"))

	server := api.NewServer(repo, dispatcher, logging.Component(baseLogger, "api"))
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		repo:       repo,
		dispatcher: dispatcher,
		server:     httpServer,
	}, nil
}

// Run starts the dispatcher and the HTTP server and blocks until the context
// is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	a.dispatcher.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.cfg.Server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}

	a.dispatcher.Stop()
	if err := a.repo.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
