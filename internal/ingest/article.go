package ingest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/adityaaditya98/news-article-ai-backend/internal/cache"
)

// Article is a normalized news item ready for embedding and indexing.
type Article struct {
	ID      string
	Title   string
	Content string
	Link    string
}

// articleID derives a stable identifier for an article. The feed GUID
// wins when present; otherwise the link is hashed. Stability matters
// because the index upserts by ID.
func articleID(guid, link string) string {
	if guid != "" {
		return "article:" + cache.Fingerprint(guid)
	}
	return "article:" + cache.Fingerprint(link)
}

// htmlToText strips markup from an HTML fragment and collapses all
// whitespace runs to single spaces. Script and style bodies are removed
// rather than flattened into the text.
func htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// Not parseable as HTML; treat the input as plain text.
		return collapseWhitespace(html)
	}
	doc.Find("script, style, noscript").Remove()
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
