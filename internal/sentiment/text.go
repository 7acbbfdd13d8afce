package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	// only the element tags the renderer emits; "<3" and "a < b" never match
	htmlTagPattern = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(?:\s[^<>]*)?/?>`)
)

// plain renderer: smartypants would turn "isn't" into an entity and hide the negation
var plainRenderer = blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
	Flags: blackfriday.UseXHTML,
})

func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// CleanText converts markdown-ish comment text to plain text without links.
func CleanText(input string) string {
	// links first, the renderer would otherwise turn them into anchors
	input = RemoveLinks(input)
	// a bare '<' starts an inline html span that swallows the characters after it
	input = strings.ReplaceAll(input, "<", `\<`)

	output := blackfriday.Run([]byte(input),
		blackfriday.WithNoExtensions(),
		blackfriday.WithRenderer(plainRenderer))

	plainText := htmlTagPattern.ReplaceAllString(string(output), " ")
	plainText = html.UnescapeString(plainText)

	return strings.Join(strings.Fields(plainText), " ")
}
