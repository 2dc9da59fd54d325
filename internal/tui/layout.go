package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and
// height lines tall, so panes line up under lipgloss.JoinHorizontal.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		lines[i] = fitLine(ln, width)
	}
	return strings.Join(lines, "\n")
}

// fitLine pads or truncates ln to width columns, marking truncation with an
// ellipsis.
func fitLine(ln string, width int) string {
	if width <= 0 {
		return ""
	}
	w := xansi.StringWidth(ln)
	if w > width {
		if width == 1 {
			return xansi.Cut(ln, 0, 1)
		}
		ln = xansi.Cut(ln, 0, width-1) + "…"
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

// padRight pads ln to width columns without truncating.
func padRight(ln string, width int) string {
	if w := xansi.StringWidth(ln); w < width {
		return ln + strings.Repeat(" ", width-w)
	}
	return ln
}

// window returns columns [from, from+width) of ln, padded to width. A
// negative width keeps everything from `from` on.
func window(ln string, from, width int) string {
	if from < 0 {
		from = 0
	}
	total := xansi.StringWidth(ln)
	if width < 0 {
		return xansi.Cut(ln, from, total)
	}
	return padRight(xansi.Cut(ln, from, from+width), width)
}
