package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const articlePage = `<!DOCTYPE html>
<html>
<head>
<meta property="article:published_time" content="2024-03-10T09:15:00Z">
</head>
<body>
<article>
	<h1>Sejm przyjął nową ustawę budżetową</h1>
	<span class="author">Anna Nowak</span>
	<div class="full-text">
		<p>Posłowie przegłosowali w piątek ustawę budżetową na przyszły rok po wielogodzinnej debacie.</p>
		<p>fot. PAP</p>
		<p>Masz temat? Zgłoś sprawę przez CZERWONY TELEFON i opowiedz nam swoją historię.</p>
		<p>Za przyjęciem dokumentu głosowało 240 posłów, przeciw było 198, nikt nie wstrzymał się od głosu.</p>
	</div>
</article>
</body>
</html>`

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestCaptureDocument(t *testing.T) {
	t.Parallel()

	raw := captureDocument(mustParse(t, articlePage))

	if raw.Title != "Sejm przyjął nową ustawę budżetową" {
		t.Fatalf("unexpected title: %q", raw.Title)
	}
	if raw.Author != "Anna Nowak" {
		t.Fatalf("unexpected author: %q", raw.Author)
	}
	if raw.RawDate != "2024-03-10T09:15:00Z" {
		t.Fatalf("unexpected raw date: %q", raw.RawDate)
	}
	if raw.Fallback {
		t.Fatal("container was present, fallback must be false")
	}
	if len(raw.Paragraphs) != 4 {
		t.Fatalf("raw capture should keep all paragraphs, got %d", len(raw.Paragraphs))
	}
}

func TestCaptureThenFinalize(t *testing.T) {
	t.Parallel()

	raw := captureDocument(mustParse(t, articlePage))
	article, err := finalize(raw, "https://www.radiozet.pl/wiadomosci/polska/budzet")
	if err != nil {
		t.Fatalf("finalize returned error: %v", err)
	}

	if article.PublicationDate != "10.03.2024" {
		t.Fatalf("unexpected date: %q", article.PublicationDate)
	}
	if len(article.BodyParagraphs) != 2 {
		t.Fatalf("caption and boilerplate should be dropped, got %d paragraphs: %v",
			len(article.BodyParagraphs), article.BodyParagraphs)
	}
	if !strings.HasPrefix(article.BodyParagraphs[0], "Posłowie przegłosowali") {
		t.Fatalf("paragraph order broken: %q", article.BodyParagraphs[0])
	}
}

func TestCaptureFallbackWithoutContainer(t *testing.T) {
	t.Parallel()

	page := `<html><body><div><p>Samotny akapit poza znanym kontenerem treści, ale wystarczająco długi żeby przejść wyższy próg.</p></div></body></html>`
	raw := captureDocument(mustParse(t, page))

	if !raw.Fallback {
		t.Fatal("no container matched, fallback must be true")
	}
	if len(raw.Paragraphs) != 1 {
		t.Fatalf("got %d paragraphs, want 1", len(raw.Paragraphs))
	}
}

func TestDateChainSkipsGarbageHit(t *testing.T) {
	t.Parallel()

	// The published_time meta wins chain priority but carries garbage; the
	// scan must fall through to the parseable time element instead of
	// returning the first hit.
	page := `<html><head>
	<meta property="article:published_time" content="wczoraj">
	</head><body>
	<time datetime="2024-03-10">10 marca</time>
	</body></html>`

	raw := captureDocument(mustParse(t, page))
	if raw.RawDate != "2024-03-10" {
		t.Fatalf("expected time element date, got %q", raw.RawDate)
	}
}
