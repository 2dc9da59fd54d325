package tui

import (
	"strconv"
	"strings"
	"time"

	"planboard-cli/internal/kanban"
	"planboard-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// boardView is the modules tab: one column per status. A card is picked up
// with space, carried with h/l and dropped with enter.
type boardView struct {
	board kanban.Board
	col   int
	row   int

	drag   kanban.Drag
	target int

	width  int
	height int
}

func newBoardView(modules []model.Module, now func() time.Time) *boardView {
	return &boardView{
		board: kanban.NewBoard(modules),
		drag:  kanban.Drag{Now: now},
	}
}

// setModules rebuilds the board, keeping the selected card when it still
// exists.
func (v *boardView) setModules(modules []model.Module) {
	cur, hadCur := v.selectedCard()
	v.board = kanban.NewBoard(modules)
	if hadCur {
		if c, r, ok := v.board.Find(cur.ID); ok {
			v.col, v.row = c, r
			return
		}
	}
	v.clamp()
}

func (v *boardView) clamp() {
	if v.col < 0 {
		v.col = 0
	}
	if n := len(v.board.Columns); v.col >= n {
		v.col = n - 1
	}
	if v.col < 0 {
		v.row = 0
		return
	}
	if n := len(v.board.Columns[v.col].Cards); v.row >= n {
		v.row = n - 1
	}
	if v.row < 0 {
		v.row = 0
	}
}

func (v *boardView) selectedCard() (model.Module, bool) {
	if v.col < 0 || v.col >= len(v.board.Columns) {
		return model.Module{}, false
	}
	cards := v.board.Columns[v.col].Cards
	if v.row < 0 || v.row >= len(cards) {
		return model.Module{}, false
	}
	return cards[v.row], true
}

// moveColumn moves the cursor, or the drop target while dragging.
func (v *boardView) moveColumn(delta int) {
	n := len(v.board.Columns)
	if n == 0 {
		return
	}
	if v.drag.Dragging() {
		v.target = (v.target + delta + n) % n
		return
	}
	v.col += delta
	v.clamp()
}

func (v *boardView) moveRow(delta int) {
	if v.drag.Dragging() {
		return
	}
	v.row += delta
	v.clamp()
}

// pickUp starts dragging the selected card with its own column as target.
func (v *boardView) pickUp() error {
	card, ok := v.selectedCard()
	if !ok {
		return nil
	}
	if err := v.drag.Start(card); err != nil {
		return err
	}
	v.target = v.col
	return nil
}

// release hands back the in-flight drag and its target, leaving the view
// idle. The board is not changed until the server confirms.
func (v *boardView) release() (kanban.Drag, model.Status, bool) {
	if !v.drag.Dragging() || v.target < 0 || v.target >= len(v.board.Columns) {
		return kanban.Drag{}, "", false
	}
	d := v.drag
	target := v.board.Columns[v.target].Status
	v.drag.Cancel()
	return d, target, true
}

func (v *boardView) View() string {
	n := len(v.board.Columns)
	if n == 0 || v.width <= 0 {
		return normalizePane("", v.width, v.height)
	}

	gap := 2
	colW := (v.width - gap*(n-1)) / n
	if colW < 10 {
		colW = 10
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(colorControlBg).Foreground(colorSurfaceFg)
	cardStyle := lipgloss.NewStyle().Padding(0, 1)
	selected := cardStyle.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	muted := styleMuted()
	carried, dragging := v.drag.Card()

	cols := make([]string, 0, n)
	for ci, col := range v.board.Columns {
		title := col.Label + " (" + strconv.Itoa(len(col.Cards)) + ")"
		hs := header.Foreground(statusColor(col.Status))
		if dragging && ci == v.target {
			hs = hs.Background(colorAccent).Foreground(colorSelectedFg)
			title += " " + glyphArrow() + " drop"
		}
		lines := []string{hs.Render(fitLine(title, colW-2)), ""}

		if len(col.Cards) == 0 {
			lines = append(lines, muted.Render(" (empty)"))
		}
		for ri, m := range col.Cards {
			label := strings.TrimSpace(m.Name)
			if label == "" {
				label = "Untitled"
			}
			meta := ""
			if m.EstimatedDays > 0 {
				meta = strconv.Itoa(int(m.EstimatedDays)) + "d"
			}
			if m.CompletedAt != nil && *m.CompletedAt != "" {
				meta = strings.TrimSpace(meta + " done " + *m.CompletedAt)
			}
			if dragging && m.ID == carried.ID {
				label = glyphBullet() + " " + label
			}
			st := cardStyle
			if ci == v.col && ri == v.row {
				st = selected
			}
			lines = append(lines, st.Render(fitLine(label, colW-2)))
			if meta != "" {
				lines = append(lines, muted.Render(" "+fitLine(meta, colW-2)))
			}
			lines = append(lines, "")
		}
		cols = append(cols, normalizePane(strings.Join(lines, "\n"), colW, v.height))
	}

	spacer := normalizePane("", gap, v.height)
	parts := make([]string, 0, 2*n-1)
	for i, c := range cols {
		if i > 0 {
			parts = append(parts, spacer)
		}
		parts = append(parts, c)
	}
	return normalizePane(lipgloss.JoinHorizontal(lipgloss.Top, parts...), v.width, v.height)
}
