package tui

import (
	"fmt"
	"strings"

	"planboard-cli/internal/model"
	"planboard-cli/internal/scrollsync"
	"planboard-cli/internal/timeline"

	tea "github.com/charmbracelet/bubbletea"
)

// timelineView is the scrollable Gantt tab. The month and day headers follow
// the body horizontally, the label column follows it vertically, and every
// pane keeps its own offset; the sync controller keeps them aligned.
type timelineView struct {
	grid timeline.Grid
	bars []timeline.Bar
	sel  int

	opts   ChartOptions
	width  int
	height int

	detail bool

	sync      *scrollsync.Controller
	monthPane *scrollsync.Pane
	dayPane   *scrollsync.Pane
	labelPane *scrollsync.Pane
	bodyPane  *scrollsync.Pane
}

func newTimelineView(grid timeline.Grid, bars []timeline.Bar, dayWidth int) *timelineView {
	v := &timelineView{
		grid:      grid,
		bars:      bars,
		opts:      ChartOptions{DayWidth: dayWidth}.withDefaults(),
		sync:      scrollsync.New(),
		monthPane: scrollsync.NewPane("months"),
		dayPane:   scrollsync.NewPane("days"),
		labelPane: scrollsync.NewPane("labels"),
		bodyPane:  scrollsync.NewPane("bars"),
	}
	v.sync.Add(scrollsync.Horizontal, v.monthPane, v.dayPane, v.bodyPane)
	v.sync.Add(scrollsync.Vertical, v.labelPane, v.bodyPane)
	return v
}

func (v *timelineView) close() {
	if v != nil {
		v.sync.Close()
	}
}

func (v *timelineView) bodyRows() int {
	n := v.height - ganttHeaderRows
	if n < 1 {
		n = 1
	}
	return n
}

func (v *timelineView) chartOptions() ChartOptions {
	o := v.opts
	o.Width = v.width
	o.Height = v.bodyRows()
	if v.sel >= 0 && v.sel < len(v.bars) {
		o.Selected = v.bars[v.sel].ID
	}
	return o
}

func (v *timelineView) resize(width, height int) {
	v.width = width
	v.height = height
	maxX := float64(v.grid.Len() - v.chartOptions().visibleDays(v.grid))
	if maxX < 0 {
		maxX = 0
	}
	maxY := float64(len(v.bars) - v.bodyRows())
	if maxY < 0 {
		maxY = 0
	}
	for _, p := range []*scrollsync.Pane{v.monthPane, v.dayPane, v.bodyPane} {
		p.SetMax(scrollsync.Horizontal, maxX)
	}
	for _, p := range []*scrollsync.Pane{v.labelPane, v.bodyPane} {
		p.SetMax(scrollsync.Vertical, maxY)
	}
}

// scrollDays moves the body by delta days; the headers follow.
func (v *timelineView) scrollDays(delta int) {
	v.bodyPane.ScrollBy(scrollsync.Horizontal, float64(delta))
}

// scrollToDay centers day i in the body.
func (v *timelineView) scrollToDay(i int) {
	v.bodyPane.SetScrollOffset(scrollsync.Horizontal, float64(i-v.chartOptions().visibleDays(v.grid)/2))
}

// scrollRows moves the label column by delta rows; the body follows.
func (v *timelineView) scrollRows(delta int) {
	v.labelPane.ScrollBy(scrollsync.Vertical, float64(delta))
}

// wheel scrolls rows, or days when shift is held or the wheel is horizontal.
func (v *timelineView) wheel(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Shift {
			v.scrollDays(-3)
		} else {
			v.scrollRows(-1)
		}
	case tea.MouseButtonWheelDown:
		if msg.Shift {
			v.scrollDays(3)
		} else {
			v.scrollRows(1)
		}
	case tea.MouseButtonWheelLeft:
		v.scrollDays(-3)
	case tea.MouseButtonWheelRight:
		v.scrollDays(3)
	}
}

func (v *timelineView) todayIndex() (int, bool) {
	for i := range v.grid.Days {
		if v.grid.IsToday(i) {
			return i, true
		}
	}
	return 0, false
}

// moveSelection moves the selected bar and scrolls the label column to keep
// it visible; the body follows.
func (v *timelineView) moveSelection(delta int) {
	if len(v.bars) == 0 {
		return
	}
	v.sel += delta
	if v.sel < 0 {
		v.sel = 0
	}
	if v.sel >= len(v.bars) {
		v.sel = len(v.bars) - 1
	}
	top := int(v.labelPane.ScrollOffset(scrollsync.Vertical))
	rows := v.bodyRows()
	switch {
	case v.sel < top:
		v.labelPane.SetScrollOffset(scrollsync.Vertical, float64(v.sel))
	case v.sel >= top+rows:
		v.labelPane.SetScrollOffset(scrollsync.Vertical, float64(v.sel-rows+1))
	}
}

// reveal scrolls the selected bar's start into view. It reports false when
// there is no bar to show.
func (v *timelineView) reveal() bool {
	b, ok := v.selected()
	if !ok {
		return false
	}
	v.bodyPane.SetScrollOffset(scrollsync.Horizontal, float64(b.StartIndex-2))
	return true
}

func (v *timelineView) selected() (timeline.Bar, bool) {
	if v.sel < 0 || v.sel >= len(v.bars) {
		return timeline.Bar{}, false
	}
	return v.bars[v.sel], true
}

func (v *timelineView) View() string {
	if v.detail {
		if b, ok := v.selected(); ok {
			return normalizePane(renderMarkdown(barDetailMarkdown(v.grid, b), v.width-2), v.width, v.height)
		}
	}
	if v.grid.Len() == 0 {
		return normalizePane(styleMuted().Render("(empty timeline)"), v.width, v.height)
	}

	o := v.chartOptions()
	offset := func(p *scrollsync.Pane, axis scrollsync.Axis) int {
		return int(p.ScrollOffset(axis))
	}
	headers := []string{
		ganttMonthLine(v.grid, o, offset(v.monthPane, scrollsync.Horizontal)),
		ganttDayLine(v.grid, o, offset(v.dayPane, scrollsync.Horizontal)),
	}
	labels := ganttLabelLines(v.bars, o, offset(v.labelPane, scrollsync.Vertical))
	body := ganttBodyLines(v.grid, v.bars, o,
		offset(v.bodyPane, scrollsync.Horizontal),
		offset(v.bodyPane, scrollsync.Vertical),
	)

	out := joinGanttRows(ganttHeaderLabels(), headers, o)
	if len(v.bars) == 0 {
		out += "\n" + styleMuted().Render("(no dated planning items)")
	} else {
		out += "\n" + joinGanttRows(labels, body, o)
	}
	return normalizePane(out, v.width, v.height)
}

func barDetailMarkdown(grid timeline.Grid, b timeline.Bar) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", b.Label)
	if b.PlanningType != "" {
		fmt.Fprintf(&sb, "- **Type:** %s\n", b.PlanningType)
	}
	fmt.Fprintf(&sb, "- **Status:** %s\n", b.Status.Label())
	if b.StartIndex >= 0 && b.EndIndex < grid.Len() {
		fmt.Fprintf(&sb, "- **Dates:** %s to %s (%d days)\n",
			model.FormatDay(grid.Days[b.StartIndex]),
			model.FormatDay(grid.Days[b.EndIndex]),
			b.EndIndex-b.StartIndex+1,
		)
	}
	fmt.Fprintf(&sb, "- **Progress:** %d%%\n", b.Progress)
	return sb.String()
}
