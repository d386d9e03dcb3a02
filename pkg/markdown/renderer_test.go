package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	html := Render("# Title\n\nSome **bold** text")

	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "Title")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render(""))
}

func TestRender_GFMTable(t *testing.T) {
	html := Render("| a | b |\n|---|---|\n| 1 | 2 |")

	assert.Contains(t, html, "<table>")
}

func TestExcerpt(t *testing.T) {
	got := Excerpt("# Heading\n\nSome *emphasized* body text", 100)

	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "*")
	assert.Contains(t, got, "emphasized")
}

func TestExcerpt_TruncatesAtWordBoundary(t *testing.T) {
	got := Excerpt("one two three four five six seven", 15)

	assert.Equal(t, "one two three...", got)
}
