package tui

import (
	"os"
	"strings"
	"sync"
)

// Some fonts render block and box glyphs badly, so every chart glyph has an
// ASCII fallback selected with PLANBOARD_TUI_GLYPHS=ascii.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PLANBOARD_TUI_GLYPHS"))) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func pickGlyph(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

// glyphBarDone fills the completed part of a bar.
func glyphBarDone() string { return pickGlyph("█", "#") }

// glyphBarTodo fills the rest of a bar.
func glyphBarTodo() string { return pickGlyph("░", "=") }

func glyphToday() string { return pickGlyph("┊", ":") }

func glyphOffDay() string { return pickGlyph("·", ".") }

func glyphSeparator() string { return pickGlyph("│", "|") }

func glyphBullet() string { return pickGlyph("•", "*") }

func glyphArrow() string { return pickGlyph("→", "->") }
