package tui

import (
	"fmt"
	"io"
	"strings"

	"planboard-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func newList(title string, items []list.Item, delegate list.ItemDelegate) list.Model {
	l := list.New(items, delegate, 0, 0)
	l.Title = title
	// The app renders its own header and footer.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	// ESC is "back" here, not quit.
	l.KeyMap.Quit.SetKeys("q")
	l.KeyMap.CursorUp.SetKeys(append(l.KeyMap.CursorUp.Keys(), "ctrl+p")...)
	l.KeyMap.CursorDown.SetKeys(append(l.KeyMap.CursorDown.Keys(), "ctrl+n")...)
	return l
}

type projectItem struct {
	project model.Project
}

func (i projectItem) FilterValue() string { return i.project.Name }
func (i projectItem) Title() string       { return i.project.Name }

func (i projectItem) Description() string {
	parts := []string{i.project.Status.Normalize().Label()}
	start, end := "", ""
	if i.project.StartDate != nil {
		start = *i.project.StartDate
	}
	if i.project.EndDate != nil {
		end = *i.project.EndDate
	}
	if start != "" || end != "" {
		parts = append(parts, strings.TrimSpace(start+" "+glyphArrow()+" "+end))
	}
	if i.project.Vendor != nil && i.project.Vendor.Name != "" {
		parts = append(parts, i.project.Vendor.Name)
	}
	return strings.Join(parts, "  "+glyphBullet()+"  ")
}

type memberItem struct {
	user model.User
}

func (i memberItem) FilterValue() string { return i.user.DisplayName() }

func (i memberItem) Title() string {
	s := i.user.DisplayName()
	if i.user.Email != "" {
		s += "  <" + i.user.Email + ">"
	}
	return s
}

// compactItemDelegate renders one line per item.
type compactItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCompactItemDelegate() compactItemDelegate {
	return compactItemDelegate{
		normal:   lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true),
	}
}

func (d compactItemDelegate) Height() int                             { return 1 }
func (d compactItemDelegate) Spacing() int                            { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	style := d.normal
	if index == m.Index() {
		style = d.selected
	}
	txt := ""
	if t, ok := item.(interface{ Title() string }); ok {
		txt = t.Title()
	} else {
		txt = fmt.Sprint(item)
	}
	line := txt
	if lw := xansi.StringWidth(line); lw < contentW {
		line += strings.Repeat(" ", contentW-lw)
	} else if lw > contentW {
		line = xansi.Cut(line, 0, contentW)
	}
	fmt.Fprint(w, style.Render(line))
}
