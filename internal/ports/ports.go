package ports

import (
	"context"
	"time"

	"github.com/sh1dan/infoseek/internal/domain"
)

// Tab identifies one open browser tab owned by a Session.
type Tab interface {
	ID() string
}

// PDFOptions carries the print-to-PDF parameters accepted by the remote
// browser. Dimensions are in inches.
type PDFOptions struct {
	PaperWidth      float64
	PaperHeight     float64
	Margin          float64
	PrintBackground bool
}

// Session drives one remote browser: navigation, tab lifecycle, script
// execution, and the print capability. All waits are bounded by the given
// timeout or the context deadline. Operations act on the session's active
// tab; OpenTab moves the cursor to the new tab and CloseTab moves it back
// to the base tab. Release is idempotent.
type Session interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	OpenTab(ctx context.Context, url string, timeout time.Duration) (Tab, error)
	CloseTab(tab Tab)
	PageHTML(ctx context.Context) (string, error)
	Eval(ctx context.Context, script string, out any) error
	Click(ctx context.Context, selector string, timeout time.Duration) error
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	PrintToPDF(ctx context.Context, opts PDFOptions) ([]byte, error)
	Release()
}

// SessionFactory negotiates browser sessions with the automation endpoint.
type SessionFactory interface {
	Acquire(ctx context.Context) (Session, error)
}

// ResultSearcher drives the site's search widget on an already-navigated
// session and yields up to limit filtered article candidates.
type ResultSearcher interface {
	Collect(ctx context.Context, sess Session, limit int) ([]domain.ArticleCandidate, error)
}

// ArticleExtractor isolates clean article content from the loaded page.
type ArticleExtractor interface {
	Extract(ctx context.Context, sess Session, sourceURL string) (domain.ExtractedArticle, error)
}

// Renderer produces the PDF rendition of an extracted article using the
// session's print capability.
type Renderer interface {
	Render(ctx context.Context, sess Session, article domain.ExtractedArticle) (domain.RenderedArtifact, error)
}

// TaskRepository persists tasks and their results; it is the pipeline's
// status and result sink.
type TaskRepository interface {
	CreateTask(ctx context.Context, task domain.SearchTask) error
	UpdateStatus(ctx context.Context, taskID string, status domain.TaskStatus) error
	AddResult(ctx context.Context, result domain.SearchResult) error
	GetTask(ctx context.Context, taskID string) (domain.SearchTask, error)
	ListTasks(ctx context.Context) ([]domain.SearchTask, error)
}

// ArtifactStore writes rendered PDFs to durable storage and returns the
// reference persisted alongside the result.
type ArtifactStore interface {
	Save(taskID string, index int, pdf []byte) (string, error)
}
