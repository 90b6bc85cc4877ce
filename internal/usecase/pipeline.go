// Package usecase orchestrates the scrape-extract-render workflow.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/sh1dan/infoseek/internal/config"
	"github.com/sh1dan/infoseek/internal/domain"
	"github.com/sh1dan/infoseek/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Sessions   ports.SessionFactory
	Searcher   ports.ResultSearcher
	Extractor  ports.ArticleExtractor
	Renderer   ports.Renderer
	Repository ports.TaskRepository
	Artifacts  ports.ArtifactStore
	Scraper    config.ScraperConfig
	PageLoad   time.Duration
	Logger     *slog.Logger
}

// Pipeline runs one keyword request end to end: search, candidate filtering,
// per-article extraction and rendering, outcome aggregation. One run owns
// one browser session and processes articles strictly in order.
type Pipeline struct {
	sessions   ports.SessionFactory
	searcher   ports.ResultSearcher
	extractor  ports.ArticleExtractor
	renderer   ports.Renderer
	repository ports.TaskRepository
	artifacts  ports.ArtifactStore
	scraper    config.ScraperConfig
	pageLoad   time.Duration
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pageLoad := deps.PageLoad
	if pageLoad <= 0 {
		pageLoad = 30 * time.Second
	}
	return &Pipeline{
		sessions:   deps.Sessions,
		searcher:   deps.Searcher,
		extractor:  deps.Extractor,
		renderer:   deps.Renderer,
		repository: deps.Repository,
		artifacts:  deps.Artifacts,
		scraper:    deps.Scraper,
		pageLoad:   pageLoad,
		logger:     logger,
	}
}

// Run executes one scrape request to a terminal status. Per-article failures
// are collected and skipped; only search-level failures fail the whole task.
func (p *Pipeline) Run(ctx context.Context, req domain.ScrapeRequest) domain.PipelineOutcome {
	p.logger.Info("task processing", "task", req.TaskID, "keyword", req.Keyword, "count", req.ArticleCount)
	p.setStatus(ctx, req.TaskID, domain.StatusProcessing)

	outcome := p.process(ctx, req)

	p.setStatus(ctx, req.TaskID, outcome.FinalStatus)
	p.logger.Info("task finished",
		"task", req.TaskID,
		"status", outcome.FinalStatus,
		"processed", len(outcome.Processed),
		"failed", len(outcome.Failures),
		"reason", outcome.Reason,
	)
	return outcome
}

func (p *Pipeline) process(ctx context.Context, req domain.ScrapeRequest) domain.PipelineOutcome {
	sess, err := p.sessions.Acquire(ctx)
	if err != nil {
		return failedOutcome(fmt.Errorf("acquire session: %w", err))
	}
	defer sess.Release()

	searchURL := p.scraper.SearchURL(url.QueryEscape(req.Keyword))
	if err := sess.Navigate(ctx, searchURL, p.pageLoad); err != nil {
		return failedOutcome(fmt.Errorf("open search page: %w", err))
	}

	candidates, err := p.searcher.Collect(ctx, sess, req.ArticleCount)
	if err != nil {
		return failedOutcome(fmt.Errorf("collect candidates: %w", err))
	}

	var outcome domain.PipelineOutcome
	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			outcome.FinalStatus = domain.StatusFailed
			outcome.Reason = fmt.Sprintf("run interrupted: %v", err)
			return outcome
		}

		processed, err := p.processArticle(ctx, sess, req, i, candidate)
		if err != nil {
			// Errors in the fatal taxonomy (dead session, navigation
			// timeout) fail the whole run; anything else skips one article.
			if domain.Fatal(err) {
				outcome.FinalStatus = domain.StatusFailed
				outcome.Reason = err.Error()
				return outcome
			}
			p.logger.Warn("article skipped", "task", req.TaskID, "url", candidate.URL, "error", err)
			outcome.Failures = append(outcome.Failures, domain.ArticleFailure{
				URL:    candidate.URL,
				Index:  i + 1,
				Reason: err.Error(),
			})
			continue
		}
		outcome.Processed = append(outcome.Processed, processed)
	}

	// Completing the candidate loop is completion, even with zero successes;
	// Failed is reserved for runs that could not get past search.
	outcome.FinalStatus = domain.StatusCompleted
	return outcome
}

// processArticle is one supervised attempt: open tab, extract, render,
// store, record. Its tab is closed on every path out.
func (p *Pipeline) processArticle(ctx context.Context, sess ports.Session, req domain.ScrapeRequest, idx int, candidate domain.ArticleCandidate) (domain.ProcessedArticle, error) {
	tab, err := sess.OpenTab(ctx, candidate.URL, p.pageLoad)
	if err != nil {
		return domain.ProcessedArticle{}, fmt.Errorf("open article: %w", err)
	}
	defer sess.CloseTab(tab)

	article, err := p.extractor.Extract(ctx, sess, candidate.URL)
	if err != nil {
		return domain.ProcessedArticle{}, fmt.Errorf("extract: %w", err)
	}

	artifact, err := p.renderer.Render(ctx, sess, article)
	if err != nil {
		return domain.ProcessedArticle{}, fmt.Errorf("render: %w", err)
	}

	ref, err := p.artifacts.Save(req.TaskID, idx+1, artifact.Bytes)
	if err != nil {
		return domain.ProcessedArticle{}, fmt.Errorf("store artifact: %w", err)
	}

	if p.repository != nil {
		result := domain.SearchResult{
			TaskID:    req.TaskID,
			Title:     article.Title,
			SourceURL: candidate.URL,
			PDFFile:   ref,
			CreatedAt: time.Now(),
		}
		if err := p.repository.AddResult(ctx, result); err != nil {
			return domain.ProcessedArticle{}, fmt.Errorf("persist result: %w", err)
		}
	}

	p.logger.Info("article processed", "task", req.TaskID, "url", candidate.URL, "pdf", ref, "bytes", artifact.ByteLength)
	return domain.ProcessedArticle{
		SourceURL: candidate.URL,
		Title:     article.Title,
		Artifact:  ref,
	}, nil
}

func (p *Pipeline) setStatus(ctx context.Context, taskID string, status domain.TaskStatus) {
	if p.repository == nil {
		return
	}
	if err := p.repository.UpdateStatus(ctx, taskID, status); err != nil {
		p.logger.Error("status update failed", "task", taskID, "status", status, "error", err)
	}
}

func failedOutcome(err error) domain.PipelineOutcome {
	return domain.PipelineOutcome{
		FinalStatus: domain.StatusFailed,
		Reason:      err.Error(),
	}
}
