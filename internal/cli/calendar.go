package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"planboard-cli/internal/backend"
	"planboard-cli/internal/model"

	"github.com/spf13/cobra"
)

func newHolidaysCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Holiday and weekend calendar",
	}
	cmd.AddCommand(newHolidaysListCmd(app))
	cmd.AddCommand(newHolidaysAddCmd(app))
	cmd.AddCommand(newHolidaysWeekendsCmd(app))
	return cmd
}

func newHolidaysListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List holidays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				hs, err := c.ListHolidays(ctx)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": hs})
			})
		},
	}
}

func newHolidaysAddCmd(app *App) *cobra.Command {
	var title, date string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a holiday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title = strings.TrimSpace(title)
			if title == "" {
				return writeErr(cmd, errors.New("missing --title"))
			}
			if _, err := time.Parse(model.DayLayout, strings.TrimSpace(date)); err != nil {
				return writeErr(cmd, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", date))
			}
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				h, err := c.AddHoliday(ctx, title, date)
				if err != nil {
					return err
				}
				if h.Date == "" {
					h = model.Holiday{Title: title, Date: strings.TrimSpace(date)}
				}
				return writeOut(cmd, app, map[string]any{"data": h})
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Holiday title")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	return cmd
}

func newHolidaysWeekendsCmd(app *App) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "weekends",
		Short: "List the weekend days the backend defines for a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = time.Now().Year()
			}
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				dates, err := c.WeekendDates(ctx, year)
				if err != nil {
					return err
				}
				if dates == nil {
					dates = []string{}
				}
				return writeOut(cmd, app, map[string]any{
					"data": dates,
					"meta": map[string]any{"year": year},
				})
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current)")
	return cmd
}
