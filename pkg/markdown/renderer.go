package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,           // tables, strikethrough, autolinks, task lists
		extension.Footnote,
		extension.DefinitionList,
		extension.Typographer,   // smart quotes and dashes
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(), // newlines become <br>, matching the editor preview
	),
)

// Render converts markdown text to HTML. Empty input yields empty output.
func Render(source string) string {
	if source == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		// Rendering is best-effort; fall back to the raw text rather than fail
		// the surrounding write.
		return source
	}
	return buf.String()
}

// Excerpt extracts a plain-text excerpt from markdown for listings
func Excerpt(source string, maxLength int) string {
	if source == "" {
		return ""
	}

	plain := source
	for _, ch := range []string{"#", "*", "_", "`", "[", "]", "(", ")"} {
		plain = strings.ReplaceAll(plain, ch, "")
	}
	plain = strings.Join(strings.Fields(plain), " ")

	if len(plain) > maxLength {
		cut := plain[:maxLength]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		plain = cut + "..."
	}

	return plain
}
