package domain

import "time"

// TaskStatus enumerates the lifecycle of a search task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

// SearchTask is the persisted record of one keyword scrape request.
type SearchTask struct {
	ID           string         `json:"id"`
	Keyword      string         `json:"keyword"`
	ArticleCount int            `json:"article_count"`
	Status       TaskStatus     `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	Results      []SearchResult `json:"results"`
}

// SearchResult records one successfully rendered article.
type SearchResult struct {
	ID        int64     `json:"id"`
	TaskID    string    `json:"-"`
	Title     string    `json:"title"`
	SourceURL string    `json:"source_url"`
	PDFFile   string    `json:"pdf_file"`
	CreatedAt time.Time `json:"created_at"`
}

// ScrapeRequest is the immutable input handed to a pipeline run.
type ScrapeRequest struct {
	TaskID       string
	Keyword      string
	ArticleCount int
}

const (
	MinArticleCount     = 1
	MaxArticleCount     = 20
	DefaultArticleCount = 3
)

// ValidArticleCount reports whether n is inside the accepted request range.
func ValidArticleCount(n int) bool {
	return n >= MinArticleCount && n <= MaxArticleCount
}
