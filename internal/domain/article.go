package domain

// ArticleCandidate is a filtered search hit: an absolute, query-free,
// article-depth URL plus the title shown in the results widget.
type ArticleCandidate struct {
	URL          string
	DisplayTitle string
}

// ExtractedArticle holds the clean content pulled out of one loaded page.
// BodyParagraphs is non-empty for any successful extraction.
type ExtractedArticle struct {
	Title           string
	Author          string
	PublicationDate string
	BodyParagraphs  []string
	SourceURL       string
}

// RenderedArtifact is the PDF rendition of an extracted article.
type RenderedArtifact struct {
	Bytes      []byte
	ByteLength int
}

// ProcessedArticle is one successful pipeline entry: the rendered article and
// the storage reference handed to the persistence boundary.
type ProcessedArticle struct {
	SourceURL string
	Title     string
	Artifact  string
}

// ArticleFailure records a per-article skip with its reason.
type ArticleFailure struct {
	URL    string
	Index  int
	Reason string
}

// PipelineOutcome aggregates a finished run. FinalStatus is either
// StatusCompleted or StatusFailed.
type PipelineOutcome struct {
	Processed   []ProcessedArticle
	Failures    []ArticleFailure
	FinalStatus TaskStatus
	Reason      string
}
