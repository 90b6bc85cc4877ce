package extract

// Selector fallback chains, most specific first. The target site renders
// articles through several templates, so extraction walks each chain and the
// first match wins; chains are data so markup changes stay config edits.

// attrSelector reads an attribute when Attr is set (metadata elements carry
// their value in content/datetime, not text) and falls back to element text.
type attrSelector struct {
	Selector string `json:"selector"`
	Attr     string `json:"attr"`
}

var titleSelectors = []string{
	"h1",
	".content-part__top h1",
	"article h1",
	`[class*="content-part"] h1`,
	".article-title",
}

var authorSelectors = []attrSelector{
	{Selector: ".author"},
	{Selector: ".article-author"},
	{Selector: `[class*="author"]`},
	{Selector: `[class*="content-part__author"]`},
	{Selector: `[itemprop="author"]`, Attr: "content"},
	{Selector: `meta[property="article:author"]`, Attr: "content"},
}

var dateSelectors = []attrSelector{
	{Selector: `meta[property="article:published_time"]`, Attr: "content"},
	{Selector: `meta[name="article:published_time"]`, Attr: "content"},
	{Selector: `meta[property="og:published_time"]`, Attr: "content"},
	{Selector: `meta[name="datePublished"]`, Attr: "content"},
	{Selector: `meta[itemprop="datePublished"]`, Attr: "content"},
	{Selector: "time[datetime]", Attr: "datetime"},
	{Selector: "time[pubdate]", Attr: "datetime"},
	{Selector: `[class*="date"]`},
	{Selector: `[class*="published"]`},
	{Selector: `[class*="content-part__date"]`},
}

var bodySelectors = []string{
	"div.full-text",
	"article",
	"div.content",
	"div#article-body",
	".full-content__main",
	"section.full-content__main__left",
}

// boilerplateDenylist drops the site's call-to-action inserts. Matching is
// done on uppercased paragraph text.
var boilerplateDenylist = []string{
	"CZERWONY TELEFON",
	"ZGŁOŚ SPRAWĘ",
	"BYŁEŚ ŚWIADKIEM",
	"MASZ TEMAT",
	"POWINNIŚMY SIĘ ZAJĄĆ",
}

const (
	// Paragraphs below this length are photo captions or widget stubs.
	minParagraphChars = 20
	// The whole-document fallback casts a wider net, so it demands more.
	fallbackParagraphChars = 50

	placeholderTitle = "Untitled Article"
	siteBrand        = "InfoSeek News"
)
