package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// CleanMarkdown strips an outer code fence (```markdown, ```json or bare).
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)
	if !strings.HasPrefix(cleaned, "```") || !strings.HasSuffix(cleaned, "```") || len(cleaned) < 6 {
		return cleaned
	}

	cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "```"), "```")
	// Drop the info string on the opening line.
	if nl := strings.IndexByte(cleaned, '\n'); nl >= 0 && !strings.ContainsAny(cleaned[:nl], " {[") {
		cleaned = cleaned[nl+1:]
	}
	return strings.TrimSpace(cleaned)
}

// RenderMarkdown converts model output to an HTML fragment for the preview
// panel. Links open in a new tab and tables get the preview-table class.
// goldmark escapes raw HTML by default.
func RenderMarkdown(input string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(input), &buf); err != nil {
		return "", fmt.Errorf("markdown render failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", fmt.Errorf("preview html parse failed: %w", err)
	}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		a.SetAttr("target", "_blank")
		a.SetAttr("rel", "noopener noreferrer")
	})
	doc.Find("table").AddClass("preview-table")

	html, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("preview html serialize failed: %w", err)
	}
	return strings.TrimSpace(html), nil
}
