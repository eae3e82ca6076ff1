package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/use-agent/foxread/models"
)

// nonContent matches elements whose text is never visible page content.
var nonContent = cascadia.MustCompile("script, style, template, noscript")

// Normalize converts a worker fetch into the record the worker prints.
//
// A failed fetch (or one without HTML) always yields the failure sentinel
// with an empty title, whatever else the raw result carries. Otherwise
// every visible text node is trimmed and joined with "\n"; no boilerplate
// removal is attempted.
func Normalize(raw models.RawFetchResult, url string) models.ExtractionRecord {
	if raw.Failed || raw.HTML == nil {
		return failedRecord(url)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(*raw.HTML))
	if err != nil {
		return failedRecord(url)
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	doc.FindMatcher(nonContent).Remove()

	return models.ExtractionRecord{
		Title:       title,
		URL:         url,
		Content:     joinText(doc.Selection),
		ContentType: models.ContentTypeHTML,
	}
}

func failedRecord(url string) models.ExtractionRecord {
	return models.ExtractionRecord{
		Title:   "",
		URL:     url,
		Content: models.FailureSentinel,
	}
}

// joinText walks the tree in document order and joins trimmed, non-empty
// text nodes with newlines. Comments and doctypes are skipped.
func joinText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}
