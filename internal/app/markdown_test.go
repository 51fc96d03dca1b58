package app

import (
	"strings"
	"testing"
)

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := renderMarkdown("", 40); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := renderMarkdown("\n\n", 40); got != "" {
		t.Fatalf("expected empty output for blank input, got %q", got)
	}
}

func TestRenderMarkdownKeepsText(t *testing.T) {
	out := renderMarkdown("# Kept thread\n\n- Path: `/c/abc123`", 60)
	if !strings.Contains(out, "Kept thread") {
		t.Fatalf("expected heading text, got %q", out)
	}
	if !strings.Contains(out, "/c/abc123") {
		t.Fatalf("expected list content, got %q", out)
	}
}

func TestRenderMarkdownDefaultsWidth(t *testing.T) {
	if got := renderMarkdown("plain text", 0); !strings.Contains(got, "plain text") {
		t.Fatalf("expected render at default width, got %q", got)
	}
}

func TestEscapeMarkdownNeutralizesPrefixes(t *testing.T) {
	cases := map[string]string{
		"# weekly sync":  "\\# weekly sync",
		"> quoted title": "\\> quoted title",
		"- grocery list": "\\- grocery list",
		"1. first steps": "\\1. first steps",
		"plain title":    "plain title",
	}
	for input, want := range cases {
		if got := escapeMarkdown(input); got != want {
			t.Fatalf("escapeMarkdown(%q) = %q, want %q", input, got, want)
		}
	}
	if got := escapeMarkdown("tick `code` tock"); got != "tick \\`code\\` tock" {
		t.Fatalf("expected escaped backticks, got %q", got)
	}
}

func TestIsNumberedList(t *testing.T) {
	if !isNumberedList("12. item") {
		t.Fatalf("expected numbered list detection")
	}
	for _, input := range []string{". item", "a. item", "1.item", "1"} {
		if isNumberedList(input) {
			t.Fatalf("did not expect %q to read as a numbered list", input)
		}
	}
}
