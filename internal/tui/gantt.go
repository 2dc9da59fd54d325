package tui

import (
	"fmt"
	"strconv"
	"strings"

	"planboard-cli/internal/model"
	"planboard-cli/internal/timeline"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	defaultDayWidth   = 3
	defaultLabelWidth = 24
	// ganttHeaderRows is the month row plus the day row.
	ganttHeaderRows = 2
)

// ChartOptions controls RenderGanttChart. Zero values render the whole grid
// with default column widths.
type ChartOptions struct {
	Title string

	// DayWidth is the number of terminal cells per grid day.
	DayWidth int
	// LabelWidth is the width of the item label column.
	LabelWidth int

	// Width bounds the full chart width; 0 renders every day.
	Width int
	// Height bounds the number of bar rows; 0 renders every bar.
	Height int

	// OffsetX is the first visible day, OffsetY the first visible bar.
	OffsetX int
	OffsetY int

	Selected model.ID
}

func (o ChartOptions) withDefaults() ChartOptions {
	if o.DayWidth <= 0 {
		o.DayWidth = defaultDayWidth
	}
	if o.LabelWidth <= 0 {
		o.LabelWidth = defaultLabelWidth
	}
	if o.OffsetX < 0 {
		o.OffsetX = 0
	}
	if o.OffsetY < 0 {
		o.OffsetY = 0
	}
	return o
}

// timelineWidth is the number of cells left for days, or -1 when unbounded.
func (o ChartOptions) timelineWidth() int {
	if o.Width <= 0 {
		return -1
	}
	w := o.Width - o.LabelWidth - xansi.StringWidth(" "+glyphSeparator()+" ")
	if w < o.DayWidth {
		w = o.DayWidth
	}
	return w
}

// visibleDays is how many whole days fit in the timeline area.
func (o ChartOptions) visibleDays(grid timeline.Grid) int {
	w := o.timelineWidth()
	if w < 0 {
		return grid.Len()
	}
	return w / o.DayWidth
}

// RenderGanttChart renders the grid and its bars as text: a month row, a day
// row, and one row per bar with the label column on the left.
func RenderGanttChart(grid timeline.Grid, bars []timeline.Bar, opts ChartOptions) string {
	opts = opts.withDefaults()
	if grid.Len() == 0 {
		return styleMuted().Render("(empty timeline)")
	}

	labels := ganttLabelLines(bars, opts, opts.OffsetY)
	headers := []string{
		ganttMonthLine(grid, opts, opts.OffsetX),
		ganttDayLine(grid, opts, opts.OffsetX),
	}
	body := ganttBodyLines(grid, bars, opts, opts.OffsetX, opts.OffsetY)

	var b strings.Builder
	if t := strings.TrimSpace(opts.Title); t != "" {
		first := model.FormatDay(grid.Days[0])
		last := model.FormatDay(grid.Days[grid.Len()-1])
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(t))
		b.WriteString(styleMuted().Render(fmt.Sprintf("  %s %s %s  (%d days)", first, glyphArrow(), last, grid.Len())))
		b.WriteString("\n")
	}
	b.WriteString(joinGanttRows(ganttHeaderLabels(), headers, opts))
	if len(body) > 0 {
		b.WriteString("\n")
		b.WriteString(joinGanttRows(labels, body, opts))
	} else {
		b.WriteString("\n")
		b.WriteString(styleMuted().Render("(no dated planning items)"))
	}
	return b.String()
}

func joinGanttRows(left, right []string, opts ChartOptions) string {
	sep := styleMuted().Render(" " + glyphSeparator() + " ")
	n := len(left)
	if len(right) > n {
		n = len(right)
	}
	rows := make([]string, 0, n)
	for i := 0; i < n; i++ {
		l, r := "", ""
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		rows = append(rows, fitLine(l, opts.LabelWidth)+sep+r)
	}
	return strings.Join(rows, "\n")
}

func ganttHeaderLabels() []string {
	return []string{"", styleMuted().Render("Item")}
}

// ganttLabelLines renders the label column from bar offsetY on.
func ganttLabelLines(bars []timeline.Bar, opts ChartOptions, offsetY int) []string {
	rows := visibleRows(len(bars), opts.Height, offsetY)
	out := make([]string, 0, len(rows))
	for _, i := range rows {
		b := bars[i]
		pct := strconv.Itoa(b.Progress) + "%"
		nameW := opts.LabelWidth - xansi.StringWidth(pct) - 1
		nameStyle := lipgloss.NewStyle()
		if b.ID != "" && b.ID == opts.Selected {
			nameStyle = nameStyle.Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
		}
		out = append(out, nameStyle.Render(fitLine(b.Label, nameW))+" "+statusStyle(b.Status).Render(pct))
	}
	return out
}

// ganttMonthLine renders the month header starting at day offsetX. The
// label of a month cut by the left edge moves right to stay visible.
func ganttMonthLine(grid timeline.Grid, opts ChartOptions, offsetX int) string {
	st := lipgloss.NewStyle().Bold(true)
	start := offsetX * opts.DayWidth
	var b strings.Builder
	for _, g := range grid.MonthGroups {
		w := g.Len * opts.DayWidth
		lead := 0
		if gs := g.Start * opts.DayWidth; start > gs && start < gs+w {
			lead = start - gs
		}
		avail := w - lead
		label := g.Label
		if xansi.StringWidth(label) >= avail {
			// Narrow runs get the short month name, or nothing.
			label = grid.Days[g.Start].Format("Jan")
		}
		b.WriteString(strings.Repeat(" ", lead))
		b.WriteString(st.Render(padRight(xansi.Cut(label, 0, avail-1), avail)))
	}
	return window(b.String(), start, opts.timelineWidth())
}

// ganttDayLine renders day-of-month numbers with weekend, holiday and today
// shading, starting at day offsetX.
func ganttDayLine(grid timeline.Grid, opts ChartOptions, offsetX int) string {
	off := lipgloss.NewStyle().Foreground(colorOffDay)
	today := lipgloss.NewStyle().Bold(true).Foreground(colorToday)
	var b strings.Builder
	for i, d := range grid.Days {
		n := strconv.Itoa(d.Day())
		if opts.DayWidth == 1 {
			n = n[len(n)-1:]
		}
		cell := fmt.Sprintf("%*s", opts.DayWidth, n)
		switch {
		case grid.IsToday(i):
			cell = today.Render(cell)
		case grid.IsWeekend(i) || grid.IsHoliday(i):
			cell = off.Render(cell)
		}
		b.WriteString(cell)
	}
	return window(b.String(), offsetX*opts.DayWidth, opts.timelineWidth())
}

// ganttBodyLines renders the bar rows, scrolled to (offsetX, offsetY).
func ganttBodyLines(grid timeline.Grid, bars []timeline.Bar, opts ChartOptions, offsetX, offsetY int) []string {
	rows := visibleRows(len(bars), opts.Height, offsetY)
	out := make([]string, 0, len(rows))
	for _, i := range rows {
		line := ganttBarLine(grid, bars[i], opts.DayWidth)
		out = append(out, window(line, offsetX*opts.DayWidth, opts.timelineWidth()))
	}
	return out
}

// ganttBarLine renders one full-width bar row: calendar shading outside the
// bar, and the bar itself with its completed part filled.
func ganttBarLine(grid timeline.Grid, bar timeline.Bar, dayW int) string {
	off := lipgloss.NewStyle().Foreground(colorOffDay)
	today := lipgloss.NewStyle().Foreground(colorToday)
	blank := strings.Repeat(" ", dayW-1)

	var b strings.Builder
	for i := 0; i < grid.Len(); {
		if i == bar.StartIndex {
			b.WriteString(renderBarCells(bar, dayW))
			i = bar.EndIndex + 1
			continue
		}
		switch {
		case grid.IsToday(i):
			b.WriteString(today.Render(glyphToday()) + blank)
		case grid.IsWeekend(i) || grid.IsHoliday(i):
			b.WriteString(off.Render(glyphOffDay()) + blank)
		default:
			b.WriteString(" " + blank)
		}
		i++
	}
	return b.String()
}

func renderBarCells(bar timeline.Bar, dayW int) string {
	cells := (bar.EndIndex - bar.StartIndex + 1) * dayW
	if cells < dayW {
		cells = dayW
	}
	done := 0
	if bar.Width > 0 {
		done = int(float64(cells) * bar.CompletedWidth / bar.Width)
	}
	if done > cells {
		done = cells
	}
	st := statusStyle(bar.Status)
	return st.Render(strings.Repeat(glyphBarDone(), done)) +
		faintIfDark(st).Render(strings.Repeat(glyphBarTodo(), cells-done))
}

// visibleRows lists the bar indexes shown from offset on, at most height of
// them (all when height <= 0).
func visibleRows(n, height, offset int) []int {
	if offset > n {
		offset = n
	}
	if offset < 0 {
		offset = 0
	}
	end := n
	if height > 0 && offset+height < n {
		end = offset + height
	}
	out := make([]int, 0, end-offset)
	for i := offset; i < end; i++ {
		out = append(out, i)
	}
	return out
}
