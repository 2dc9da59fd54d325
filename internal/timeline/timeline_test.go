package timeline

import (
	"reflect"
	"testing"
	"time"

	"planboard-cli/internal/model"
)

func sp(s string) *string { return &s }

func fixedBuilder() Builder {
	return Builder{
		Now:      func() time.Time { return time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC) },
		Location: time.UTC,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildGrid_PadsItemRange(t *testing.T) {
	items := []model.PlanningItem{
		{ID: "1", StartDate: sp("2024-01-10"), EndDate: sp("2024-01-12")},
		{ID: "2", StartDate: sp("2024-02-01"), EndDate: sp("2024-02-20")},
		{ID: "3", StartDate: sp("not a date"), EndDate: nil},
	}
	g := fixedBuilder().BuildGrid(items, nil, nil)

	if got, want := g.Days[0], day(2024, 1, 3); !got.Equal(want) {
		t.Fatalf("expected first day %s; got %s", want, got)
	}
	if got, want := g.Days[len(g.Days)-1], day(2024, 2, 27); !got.Equal(want) {
		t.Fatalf("expected last day %s; got %s", want, got)
	}
	for i := 1; i < len(g.Days); i++ {
		if want := g.Days[i-1].AddDate(0, 0, 1); !g.Days[i].Equal(want) {
			t.Fatalf("expected contiguous days at %d: %s then %s", i, g.Days[i-1], g.Days[i])
		}
	}
}

func TestBuildGrid_EmptyItemsSpans91Days(t *testing.T) {
	g := fixedBuilder().BuildGrid(nil, nil, nil)
	if g.Len() != 91 {
		t.Fatalf("expected 91 days; got %d", g.Len())
	}
	if !g.Days[0].Equal(day(2024, 3, 15)) {
		t.Fatalf("expected grid to start today; got %s", g.Days[0])
	}
	if !g.Days[90].Equal(day(2024, 6, 13)) {
		t.Fatalf("expected grid to end today+90; got %s", g.Days[90])
	}
	if !g.IsToday(0) || g.IsToday(1) {
		t.Fatalf("expected only index 0 to be today")
	}
}

func TestBuildGrid_FallsBackToProjectBounds(t *testing.T) {
	items := []model.PlanningItem{{ID: "1", Description: "no dates"}}
	g := fixedBuilder().BuildGrid(items, sp("2024-05-01"), sp("2024-05-31"))
	if g.Len() != 31 {
		t.Fatalf("expected 31 days; got %d", g.Len())
	}

	g = fixedBuilder().BuildGrid(nil, sp("2024-05-01"), nil)
	if !g.Days[0].Equal(day(2024, 5, 1)) || !g.Days[g.Len()-1].Equal(day(2024, 6, 13)) {
		t.Fatalf("expected project start through today+90; got %s..%s", g.Days[0], g.Days[g.Len()-1])
	}
}

func TestBuildGrid_ClampsInvertedFallback(t *testing.T) {
	g := fixedBuilder().BuildGrid(nil, sp("2024-05-10"), sp("2024-05-01"))
	if g.Len() != 1 {
		t.Fatalf("expected single-day grid; got %d days", g.Len())
	}
	if len(g.MonthGroups) != 1 {
		t.Fatalf("expected one month group; got %d", len(g.MonthGroups))
	}
}

func TestBuildGrid_MonthGroupsCoverDays(t *testing.T) {
	items := []model.PlanningItem{{StartDate: sp("2023-12-20"), EndDate: sp("2024-02-03")}}
	g := fixedBuilder().BuildGrid(items, nil, nil)

	wantLabels := []string{"Dec 2023", "Jan 2024", "Feb 2024"}
	if len(g.MonthGroups) != len(wantLabels) {
		t.Fatalf("expected %d groups; got %+v", len(wantLabels), g.MonthGroups)
	}
	next := 0
	for i, mg := range g.MonthGroups {
		if mg.Label != wantLabels[i] {
			t.Fatalf("expected group %d label %q; got %q", i, wantLabels[i], mg.Label)
		}
		if mg.Start != next {
			t.Fatalf("expected group %d to start at %d; got %d", i, next, mg.Start)
		}
		next += mg.Len
	}
	if next != g.Len() {
		t.Fatalf("expected groups to cover %d days; got %d", g.Len(), next)
	}
	if g.MonthGroups[0].Len != 19 {
		t.Fatalf("expected Dec run of 19 days (13..31); got %d", g.MonthGroups[0].Len)
	}
}

func TestBuildGrid_Idempotent(t *testing.T) {
	items := []model.PlanningItem{
		{StartDate: sp("2024-01-10"), EndDate: sp("2024-01-12")},
		{StartDate: sp("2024-01-05T10:00:00Z"), EndDate: sp("2024-01-07")},
	}
	b := fixedBuilder()
	a1 := b.BuildGrid(items, nil, nil)
	a2 := b.BuildGrid(items, nil, nil)
	if !reflect.DeepEqual(a1, a2) {
		t.Fatalf("expected identical grids")
	}
}

func TestGrid_WeekendAndHolidays(t *testing.T) {
	g := fixedBuilder().BuildGrid(nil, sp("2024-03-01"), sp("2024-03-10"))
	// 2024-03-02 is a Saturday.
	if !g.IsWeekend(1) || !g.IsWeekend(2) || g.IsWeekend(3) {
		t.Fatalf("expected Mar 2 and 3 to be weekend days")
	}
	if g.IsWeekend(-1) || g.IsWeekend(99) {
		t.Fatalf("expected out-of-range indices to be non-weekend")
	}

	h := g.MarkHolidays([]time.Time{day(2024, 3, 8), day(2025, 1, 1)})
	if !h.IsHoliday(7) {
		t.Fatalf("expected Mar 8 to be a holiday")
	}
	if g.IsHoliday(7) {
		t.Fatalf("expected MarkHolidays to leave the original grid untouched")
	}
}

func TestPositionBars_ThreeDaysHalfDone(t *testing.T) {
	items := []model.PlanningItem{{
		ID:          "7",
		Description: "Design",
		StartDate:   sp("2024-01-10"),
		EndDate:     sp("2024-01-12"),
		Progress:    50,
		Status:      "in_progress",
	}}
	g := fixedBuilder().BuildGrid(items, nil, nil)
	bars := PositionBars(items, g, 1)
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar; got %d", len(bars))
	}
	b := bars[0]
	if b.Width != 3 {
		t.Fatalf("expected width 3; got %v", b.Width)
	}
	if b.CompletedWidth != 1.5 {
		t.Fatalf("expected completed width 1.5; got %v", b.CompletedWidth)
	}
	if b.LeftOffset != PaddingDays {
		t.Fatalf("expected left offset %d; got %v", PaddingDays, b.LeftOffset)
	}
	if b.Label != "Design" || b.Status != model.StatusInProgress {
		t.Fatalf("unexpected bar: %+v", b)
	}

	scaled := PositionBars(items, g, 4)
	if scaled[0].Width != 12 || scaled[0].LeftOffset != 28 || scaled[0].CompletedWidth != 6 {
		t.Fatalf("expected unit scaling; got %+v", scaled[0])
	}
}

func TestPositionBars_DropsTimeOfDay(t *testing.T) {
	items := []model.PlanningItem{
		{ID: "1", StartDate: sp("2024-01-10T15:30:00Z"), EndDate: sp("2024-01-12"), Progress: 100},
		{ID: "2", StartDate: sp("2024-01-10 23:59:59"), EndDate: sp("2024-01-12T00:00:01.000000Z")},
	}
	g := fixedBuilder().BuildGrid(items, nil, nil)
	if got, want := g.Days[0], day(2024, 1, 3); !got.Equal(want) {
		t.Fatalf("expected the grid to start on %s; got %s", want, got)
	}

	bars := PositionBars(items, g, 1)
	if len(bars) != 2 {
		t.Fatalf("expected both timestamped items placed; got %d", len(bars))
	}
	for _, b := range bars {
		if b.StartIndex != PaddingDays || b.EndIndex != PaddingDays+2 {
			t.Fatalf("bar %s: expected days %d..%d; got %d..%d", b.ID, PaddingDays, PaddingDays+2, b.StartIndex, b.EndIndex)
		}
		if b.Width != 3 || b.LeftOffset != PaddingDays {
			t.Fatalf("bar %s: expected width 3 at %d; got %+v", b.ID, PaddingDays, b)
		}
	}
	if bars[0].CompletedWidth != bars[0].Width {
		t.Fatalf("expected a finished bar to be fully completed; got %+v", bars[0])
	}
}

func TestPositionBars_Bounds(t *testing.T) {
	items := []model.PlanningItem{
		{ID: "a", StartDate: sp("2024-01-01"), EndDate: sp("2024-01-01"), Progress: 0},
		{ID: "b", StartDate: sp("2024-01-03"), EndDate: sp("2024-02-10"), Progress: 100},
		{ID: "c", StartDate: sp("2024-01-20"), EndDate: sp("2024-01-25"), Progress: 140},
		{ID: "d", StartDate: sp("2024-01-20"), EndDate: sp("2024-01-25"), Progress: -5},
		{ID: "e", StartDate: sp("2024-01-20"), EndDate: sp("2024-01-25"), Progress: 99},
	}
	g := fixedBuilder().BuildGrid(items, nil, nil)
	const unit = 2.0
	bars := PositionBars(items, g, unit)
	if len(bars) != len(items) {
		t.Fatalf("expected %d bars; got %d", len(items), len(bars))
	}
	limit := float64(g.Len()) * unit
	for _, b := range bars {
		if b.LeftOffset < 0 || b.Width < unit || b.LeftOffset+b.Width > limit {
			t.Fatalf("bar %s out of bounds: %+v (limit %v)", b.ID, b, limit)
		}
		if b.CompletedWidth > b.Width {
			t.Fatalf("bar %s completed exceeds width: %+v", b.ID, b)
		}
		full := b.CompletedWidth == b.Width
		if full != (b.Progress >= 100) {
			t.Fatalf("bar %s: full=%v with progress %d", b.ID, full, b.Progress)
		}
	}
	if bars[2].Progress != 100 || bars[3].Progress != 0 {
		t.Fatalf("expected progress clamped; got %d and %d", bars[2].Progress, bars[3].Progress)
	}
}

func TestPositionBars_SkipsUnplaceableItems(t *testing.T) {
	items := []model.PlanningItem{
		{ID: "ok", StartDate: sp("2024-01-10"), EndDate: sp("2024-01-12")},
		{ID: "malformed", StartDate: sp("2024-01-12"), EndDate: sp("2024-01-10")},
		{ID: "no-end", StartDate: sp("2024-01-10")},
		{ID: "blank", StartDate: sp(""), EndDate: sp("2024-01-11")},
	}
	g := fixedBuilder().BuildGrid(items, nil, nil)
	bars := PositionBars(items, g, 1)
	if len(bars) != 1 || bars[0].ID != "ok" {
		t.Fatalf("expected only the well-formed bar; got %+v", bars)
	}

	outside := []model.PlanningItem{{ID: "far", StartDate: sp("2030-01-01"), EndDate: sp("2030-01-02")}}
	if got := PositionBars(outside, g, 1); len(got) != 0 {
		t.Fatalf("expected items outside the grid to be dropped; got %+v", got)
	}
}

func TestPositionBars_KeepsInputOrderAndDefaults(t *testing.T) {
	items := []model.PlanningItem{
		{ID: "2", Title: "Second", StartDate: sp("2024-01-15"), EndDate: sp("2024-01-16")},
		{ID: "1", StartDate: sp("2024-01-10"), EndDate: sp("2024-01-11"), PlanningType: &model.NamedRef{Name: "Build"}},
	}
	bars := PositionBars(items, fixedBuilder().BuildGrid(items, nil, nil), 1)
	if bars[0].ID != "2" || bars[1].ID != "1" {
		t.Fatalf("expected input order; got %s, %s", bars[0].ID, bars[1].ID)
	}
	if bars[0].Label != "Second" || bars[1].Label != "Untitled" {
		t.Fatalf("unexpected labels %q, %q", bars[0].Label, bars[1].Label)
	}
	if bars[0].Status != model.StatusPending {
		t.Fatalf("expected default status pending; got %q", bars[0].Status)
	}
	if bars[1].PlanningType != "Build" {
		t.Fatalf("expected planning type name; got %q", bars[1].PlanningType)
	}
}

func TestBar_Percent(t *testing.T) {
	g := fixedBuilder().BuildGrid(nil, sp("2024-01-01"), sp("2024-01-10"))
	b := Bar{StartIndex: 2, EndIndex: 6}
	left, width := b.Percent(g)
	if left != 20 || width != 50 {
		t.Fatalf("expected 20%%/50%%; got %v/%v", left, width)
	}
}
