package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/glamour/styles"
)

func TestMarkdownStyle_EnvOverride(t *testing.T) {
	t.Setenv("PLANBOARD_TUI_MD_STYLE", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}
	t.Setenv("PLANBOARD_TUI_MD_STYLE", "dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestMarkdownStyleConfig_KeepsLinkStyles(t *testing.T) {
	got := markdownStyleConfig("dark")
	want := styles.DarkStyleConfig
	if strPtrValue(got.Link.Color) != strPtrValue(want.Link.Color) {
		t.Fatalf("link color: got %q want %q", strPtrValue(got.Link.Color), strPtrValue(want.Link.Color))
	}
	if strPtrValue(got.Text.Color) != colorSurfaceFg.Dark {
		t.Fatalf("text color: got %q want %q", strPtrValue(got.Text.Color), colorSurfaceFg.Dark)
	}
}

func TestRenderMarkdown_RendersText(t *testing.T) {
	t.Setenv("PLANBOARD_TUI_MD_STYLE", "dark")
	out := renderMarkdown("## Design\n\nProgress **50%**", 40)
	if !strings.Contains(out, "Design") || !strings.Contains(out, "50%") {
		t.Fatalf("expected rendered text, got %q", out)
	}
	if got := renderMarkdown("   ", 40); got != "" {
		t.Fatalf("expected empty output for blank input, got %q", got)
	}
}

func strPtrValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
