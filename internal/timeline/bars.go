package timeline

import (
	"time"

	"planboard-cli/internal/model"
)

// Bar is a planning item placed on a grid. Offsets are in day units scaled
// by the unit passed to PositionBars.
type Bar struct {
	ID             model.ID     `json:"id" yaml:"id"`
	Label          string       `json:"label" yaml:"label"`
	Status         model.Status `json:"status" yaml:"status"`
	PlanningType   string       `json:"planning_type,omitempty" yaml:"planning_type,omitempty"`
	StartIndex     int          `json:"start_index" yaml:"start_index"`
	EndIndex       int          `json:"end_index" yaml:"end_index"`
	Progress       int          `json:"progress" yaml:"progress"`
	LeftOffset     float64      `json:"left" yaml:"left"`
	Width          float64      `json:"width" yaml:"width"`
	CompletedWidth float64      `json:"completed_width" yaml:"completed_width"`
}

// PositionBars places every item whose start and end both land on a grid
// day. Items missing a date, ending before they start, or falling outside
// the grid are left out. Output keeps input order.
func PositionBars(items []model.PlanningItem, grid Grid, unit float64) []Bar {
	if unit <= 0 {
		unit = 1
	}
	loc := gridLocation(grid)
	var out []Bar
	for _, it := range items {
		start, ok := model.ParseDayPtr(it.StartDate, loc)
		if !ok {
			continue
		}
		end, ok := model.ParseDayPtr(it.EndDate, loc)
		if !ok {
			continue
		}
		si, ok := grid.IndexOf(start)
		if !ok {
			continue
		}
		ei, ok := grid.IndexOf(end)
		if !ok {
			continue
		}
		if ei < si {
			continue
		}

		progress := clampProgress(int(it.Progress))
		width := float64(ei-si+1) * unit
		if width < unit {
			width = unit
		}
		out = append(out, Bar{
			ID:             it.ID,
			Label:          it.Label(),
			Status:         it.Status.Normalize(),
			PlanningType:   it.PlanningTypeName(),
			StartIndex:     si,
			EndIndex:       ei,
			Progress:       progress,
			LeftOffset:     float64(si) * unit,
			Width:          width,
			CompletedWidth: width * float64(progress) / 100,
		})
	}
	return out
}

// Percent returns the bar's left edge and width as percentages of the grid.
func (b Bar) Percent(grid Grid) (left, width float64) {
	n := grid.Len()
	if n == 0 {
		return 0, 0
	}
	left = float64(b.StartIndex) / float64(n) * 100
	width = float64(b.EndIndex-b.StartIndex+1) / float64(n) * 100
	return left, width
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func gridLocation(g Grid) *time.Location {
	if len(g.Days) == 0 {
		return time.Local
	}
	return g.Days[0].Location()
}
