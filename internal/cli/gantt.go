package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"planboard-cli/internal/backend"
	"planboard-cli/internal/model"
	"planboard-cli/internal/timeline"
	"planboard-cli/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type ganttRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

func newGanttCmd(app *App) *cobra.Command {
	var (
		chart bool
		unit  float64
	)

	cmd := &cobra.Command{
		Use:   "gantt <project-id>",
		Short: "Lay out a project's planning items on a day grid",
		Long: strings.TrimSpace(`
Builds the project's day grid (item dates padded by a week on each side, or
the project window when no item has dates) and positions one bar per item.

Bar offsets are in day units times --unit. Use --chart for a text rendering.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if unit <= 0 || math.IsNaN(unit) || math.IsInf(unit, 0) {
				return writeErr(cmd, errors.New("--unit must be a positive number"))
			}
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				p, err := c.GetProject(ctx, id)
				if err != nil {
					return err
				}
				items, err := c.ListPlanning(ctx, id)
				if err != nil {
					return err
				}

				grid := timeline.BuildGrid(items, p.StartDate, p.EndDate)
				bars := timeline.PositionBars(items, grid, unit)
				app.log.Debug("gantt laid out",
					zap.String("project_id", id.String()),
					zap.Int("items", len(items)),
					zap.Int("bars", len(bars)),
					zap.Int("days", grid.Len()),
				)

				if chart {
					grid = grid.MarkHolidays(holidayDays(ctx, app, c))
					out := tui.RenderGanttChart(grid, bars, tui.ChartOptions{
						Title:    p.Name,
						DayWidth: app.cfg.DayWidth,
					})
					_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
					return err
				}

				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{
						"project": p,
						"range": ganttRange{
							Start: model.FormatDay(grid.Days[0]),
							End:   model.FormatDay(grid.Days[grid.Len()-1]),
							Days:  grid.Len(),
						},
						"month_groups": grid.MonthGroups,
						"bars":         bars,
					},
					"meta": map[string]any{
						"items":   len(items),
						"skipped": len(items) - len(bars),
						"unit":    unit,
					},
				})
			})
		},
	}
	cmd.Flags().BoolVar(&chart, "chart", false, "Print a text chart instead of structured output")
	cmd.Flags().Float64Var(&unit, "unit", 1, "Size of one day in output offsets")
	return cmd
}

// holidayDays fetches backend holidays for shading. Failures only cost the
// shading, so they are logged and ignored.
func holidayDays(ctx context.Context, app *App, c *backend.Client) []time.Time {
	hs, err := c.ListHolidays(ctx)
	if err != nil {
		app.log.Warn("holiday list failed", zap.Error(err))
		return nil
	}
	out := make([]time.Time, 0, len(hs))
	for _, h := range hs {
		if d, ok := model.ParseDay(h.Date, time.Local); ok {
			out = append(out, d)
		}
	}
	return out
}
