package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sh1dan/infoseek/internal/domain"
)

// cleanDocument is the synthetic print document: self-contained, A4 print
// stylesheet, header with title/author/date/source, footer attribution.
// html/template escaping keeps scraped text safe to embed.
var cleanDocument = template.Must(template.New("clean").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
	@page { margin: 20mm; size: A4; }
	body {
		font-family: 'Georgia', 'Times New Roman', serif;
		line-height: 1.6;
		color: #333;
		max-width: 800px;
		margin: 0 auto;
		background-color: #fff;
	}
	.header { border-bottom: 2px solid #e74c3c; padding-bottom: 20px; margin-bottom: 30px; }
	h1 { font-size: 28px; color: #2c3e50; margin: 0 0 10px 0; line-height: 1.3; }
	.meta { font-size: 14px; color: #7f8c8d; font-style: italic; }
	.meta a { color: #5686fe; text-decoration: none; overflow-wrap: anywhere; }
	.content p { margin-bottom: 15px; font-size: 16px; text-align: justify; }
	.footer { margin-top: 50px; text-align: center; border-top: 1px solid #eee; padding-top: 20px; }
	.footer-text { font-size: 12px; color: #7f8c8d; margin-bottom: 8px; }
	.footer-brand { font-size: 24px; font-weight: 700; color: #5686fe; }
</style>
</head>
<body>
<div class="header">
	<h1>{{.Title}}</h1>
	<div class="meta">Author: {{.Author}}{{if .PublicationDate}} | Date: {{.PublicationDate}}{{end}} | Source: <a href="{{.SourceURL}}">{{.SourceURL}}</a></div>
</div>
<div class="content">
{{range .BodyParagraphs}}	<p>{{.}}</p>
{{end}}</div>
<div class="footer">
	<div class="footer-text">Generated by</div>
	<div class="footer-brand">infoseek</div>
</div>
</body>
</html>`))

// buildCleanDocument renders the article into the synthetic document.
func buildCleanDocument(article domain.ExtractedArticle) (string, error) {
	var buf bytes.Buffer
	if err := cleanDocument.Execute(&buf, article); err != nil {
		return "", fmt.Errorf("render clean document: %w", err)
	}
	return buf.String(), nil
}
