package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// extractHTML pulls the main content out of an HTML document and renders it
// as markdown-ish plain text. Readability isolates the article body first so
// navigation and boilerplate do not reach the classifier; when readability
// cannot find a body the whole document is converted instead.
func extractHTML(data []byte) Outcome {
	article, err := readability.FromReader(bytes.NewReader(data), &url.URL{})

	source := string(data)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		source = article.Content
	}

	text, err := htmlToText(source)
	if err != nil {
		return failed(fmt.Sprintf("converting html: %v", err))
	}
	return ok(text)
}

// htmlToText converts an HTML fragment to clean text via markdown.
func htmlToText(html string) (string, error) {
	converter := md.NewConverter("", true, nil)

	// collapse excessive whitespace left behind by block elements
	converter.Use(md.Plugin(func(c *md.Converter) []md.Rule {
		return []md.Rule{
			{
				Filter: []string{"*"},
				Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
					cleaned := strings.TrimSpace(content)
					result := strings.ReplaceAll(cleaned, "\n\n\n", "\n\n")
					return &result
				},
			},
		}
	}))

	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(markdown), nil
}
