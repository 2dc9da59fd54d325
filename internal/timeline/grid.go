package timeline

import (
	"time"

	"planboard-cli/internal/model"
)

const (
	// PaddingDays is added on each side of the item date range.
	PaddingDays = 7
	// FallbackDays is how far past the start the window reaches when no item
	// carries a date and no project end is known.
	FallbackDays = 90
)

// MonthGroup is a maximal run of consecutive grid days sharing a month.
type MonthGroup struct {
	Label string `json:"label" yaml:"label"`
	Start int    `json:"start" yaml:"start"`
	Len   int    `json:"len" yaml:"len"`
}

// Grid is the ordered day axis of a timeline.
type Grid struct {
	Days        []time.Time  `json:"days" yaml:"days"`
	MonthGroups []MonthGroup `json:"month_groups" yaml:"month_groups"`

	today    time.Time
	index    map[string]int
	holidays map[int]bool
}

// Builder derives grids. The zero value uses the wall clock and time.Local.
type Builder struct {
	Now      func() time.Time
	Location *time.Location
}

func (b Builder) loc() *time.Location {
	if b.Location != nil {
		return b.Location
	}
	return time.Local
}

func (b Builder) today() time.Time {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	return model.Midnight(now().In(b.loc()))
}

// BuildGrid builds a grid with the wall clock in the local time zone.
func BuildGrid(items []model.PlanningItem, projectStart, projectEnd *string) Grid {
	return Builder{}.BuildGrid(items, projectStart, projectEnd)
}

// BuildGrid spans every parseable item date padded by PaddingDays. Without
// any item dates it falls back to the project bounds, or today through
// today+FallbackDays, unpadded.
func (b Builder) BuildGrid(items []model.PlanningItem, projectStart, projectEnd *string) Grid {
	loc := b.loc()
	today := b.today()

	var lo, hi time.Time
	found := false
	see := func(s *string) {
		d, ok := model.ParseDayPtr(s, loc)
		if !ok {
			return
		}
		if !found || d.Before(lo) {
			lo = d
		}
		if !found || d.After(hi) {
			hi = d
		}
		found = true
	}
	for _, it := range items {
		see(it.StartDate)
		see(it.EndDate)
	}

	var start, end time.Time
	if found {
		start = lo.AddDate(0, 0, -PaddingDays)
		end = hi.AddDate(0, 0, PaddingDays)
	} else {
		start = today
		if d, ok := model.ParseDayPtr(projectStart, loc); ok {
			start = d
		}
		end = today.AddDate(0, 0, FallbackDays)
		if d, ok := model.ParseDayPtr(projectEnd, loc); ok {
			end = d
		}
		if end.Before(start) {
			end = start
		}
	}

	g := Grid{today: today, index: map[string]int{}}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		g.index[model.FormatDay(d)] = len(g.Days)
		g.Days = append(g.Days, d)
	}
	g.MonthGroups = groupMonths(g.Days)
	return g
}

func groupMonths(days []time.Time) []MonthGroup {
	var out []MonthGroup
	for i, d := range days {
		label := d.Format("Jan 2006")
		if n := len(out); n > 0 && out[n-1].Label == label {
			out[n-1].Len++
			continue
		}
		out = append(out, MonthGroup{Label: label, Start: i, Len: 1})
	}
	return out
}

// Len is the number of days in the grid.
func (g Grid) Len() int { return len(g.Days) }

// IndexOf returns the index of the calendar day d, compared by YYYY-MM-DD
// in the grid's location.
func (g Grid) IndexOf(d time.Time) (int, bool) {
	if len(g.Days) == 0 {
		return 0, false
	}
	d = d.In(g.Days[0].Location())
	i, ok := g.index[model.FormatDay(d)]
	return i, ok
}

func (g Grid) IsWeekend(i int) bool {
	if i < 0 || i >= len(g.Days) {
		return false
	}
	wd := g.Days[i].Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (g Grid) IsToday(i int) bool {
	if i < 0 || i >= len(g.Days) {
		return false
	}
	return g.Days[i].Equal(g.today)
}

// MarkHolidays returns a copy of g with the given days flagged. Days outside
// the grid are ignored.
func (g Grid) MarkHolidays(days []time.Time) Grid {
	out := g
	out.holidays = make(map[int]bool, len(g.holidays)+len(days))
	for i := range g.holidays {
		out.holidays[i] = true
	}
	for _, d := range days {
		if i, ok := g.IndexOf(d); ok {
			out.holidays[i] = true
		}
	}
	return out
}

func (g Grid) IsHoliday(i int) bool {
	return g.holidays[i]
}
