package domain

import "errors"

// Pipeline-fatal errors: the run cannot proceed past search.
var (
	ErrSessionUnavailable = errors.New("browser session unavailable")
	ErrNavigationTimeout  = errors.New("navigation timed out")
	ErrNoResultsContainer = errors.New("search results container not found")
	ErrNoArticlesFound    = errors.New("no article links found")
)

// Per-article errors: logged and skipped, the run continues.
var (
	ErrEmptyContent = errors.New("no article content extracted")
	ErrRenderFailed = errors.New("pdf rendering failed")
)

// Fatal reports whether err aborts the whole pipeline rather than a single
// article.
func Fatal(err error) bool {
	return errors.Is(err, ErrSessionUnavailable) ||
		errors.Is(err, ErrNavigationTimeout) ||
		errors.Is(err, ErrNoResultsContainer) ||
		errors.Is(err, ErrNoArticlesFound)
}
