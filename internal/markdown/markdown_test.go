package markdown

import (
	"strings"
	"testing"
)

func TestRenderHeading(t *testing.T) {
	out, err := Render([]byte("# Title"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "<h1>Title</h1>") {
		t.Errorf("output = %q, want h1 heading", out)
	}
}

func TestRenderParagraphAndEmphasis(t *testing.T) {
	out, err := Render([]byte("plain *emphasis* text"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<p>") || !strings.Contains(html, "<em>emphasis</em>") {
		t.Errorf("output = %q", html)
	}
}

func TestRenderGFMTable(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	out, err := Render([]byte(src))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "<table>") {
		t.Errorf("GFM table not rendered: %q", out)
	}
}
