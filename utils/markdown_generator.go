package utils

import (
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

// RenderHighlighted writes content to w with terminal syntax highlighting.
// Unknown languages fall back to chroma's plain-text lexer.
func RenderHighlighted(w io.Writer, content string, language string, theme string) error {
	if language == "" {
		language = "text"
	}
	return quick.Highlight(w, content, language, "terminal256", theme)
}

// RenderMarkdown highlights a markdown document, including its fenced blocks.
func RenderMarkdown(w io.Writer, content string, theme string) error {
	return RenderHighlighted(w, content, "markdown", theme)
}
