// Package markdown renders Markdown documents to HTML using goldmark.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// The engine is stateless and safe for concurrent use across requests.
var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Render converts Markdown source to HTML.
func Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := engine.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("markdown: render: %w", err)
	}
	return buf.Bytes(), nil
}
