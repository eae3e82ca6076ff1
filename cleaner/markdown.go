package cleaner

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/use-agent/foxread/models"
)

// newMarkdownConverter creates a Converter with the base plugin (drops
// script, style, head and other noise), CommonMark rendering and compact
// tables.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// ToMarkdown converts HTML to Markdown, resolving relative links and image
// sources against pageURL.
func ToMarkdown(htmlContent string, pageURL string) (string, error) {
	md, err := newMarkdownConverter().ConvertString(htmlContent, converter.WithDomain(pageURL))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

// AttachMarkdown fills rec.Markdown from the raw fetch. Failed fetches and
// conversion errors leave the record untouched.
func AttachMarkdown(rec *models.ExtractionRecord, raw models.RawFetchResult) error {
	if raw.Failed || raw.HTML == nil {
		return nil
	}
	md, err := ToMarkdown(*raw.HTML, rec.URL)
	if err != nil {
		return err
	}
	rec.Markdown = md
	return nil
}
