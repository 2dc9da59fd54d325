package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"planboard-cli/internal/backend"
	"planboard-cli/internal/model"

	"github.com/spf13/cobra"
)

func newPlanningCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planning",
		Short: "Planning item commands",
	}
	cmd.AddCommand(newPlanningListCmd(app))
	cmd.AddCommand(newPlanningAddCmd(app))
	cmd.AddCommand(newPlanningUpdateCmd(app))
	cmd.AddCommand(newPlanningDeleteCmd(app))
	cmd.AddCommand(newPlanningTypesCmd(app))
	return cmd
}

func newPlanningListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's planning items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				items, err := c.ListPlanning(ctx, model.ID(strings.TrimSpace(projectID)))
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": items})
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

type planningFlags struct {
	projectID       string
	typeID          string
	description     string
	start           string
	end             string
	progress        int
	status          string
	excludeWeekends bool
	excludeHolidays bool
}

func (f *planningFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&f.typeID, "type", "", "Planning type id")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.progress, "progress", 0, "Progress percent (0-100)")
	cmd.Flags().StringVar(&f.status, "status", string(model.StatusPending), "Status (pending|in_progress|completed|on_hold)")
	cmd.Flags().BoolVar(&f.excludeWeekends, "exclude-weekends", false, "Exclude weekends")
	cmd.Flags().BoolVar(&f.excludeHolidays, "exclude-holidays", false, "Exclude holidays")
}

// apply overlays the flags the user set onto in.
func (f *planningFlags) apply(cmd *cobra.Command, in *model.PlanningInput) {
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("project") {
		in.ProjectID = strings.TrimSpace(f.projectID)
	}
	if set("type") {
		in.PlanningTypeID = strings.TrimSpace(f.typeID)
	}
	if set("description") {
		in.Description = f.description
	}
	if set("start") {
		in.StartDate = strings.TrimSpace(f.start)
	}
	if set("end") {
		in.EndDate = strings.TrimSpace(f.end)
	}
	if set("progress") {
		in.Progress = strconv.Itoa(f.progress)
	}
	if set("status") || in.Status == "" {
		in.Status = model.Status(strings.TrimSpace(f.status))
	}
	if set("exclude-weekends") {
		in.ExcludeWeekends = f.excludeWeekends
	}
	if set("exclude-holidays") {
		in.ExcludeHolidays = f.excludeHolidays
	}
}

func validatePlanningInput(in model.PlanningInput) error {
	if in.ProjectID == "" {
		return errors.New("missing --project")
	}
	if in.PlanningTypeID == "" {
		return errors.New("missing --type")
	}
	start, err := time.Parse(model.DayLayout, in.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q", in.StartDate)
	}
	end, err := time.Parse(model.DayLayout, in.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q", in.EndDate)
	}
	if end.Before(start) {
		return errors.New("end date precedes start date")
	}
	if p, err := strconv.Atoi(in.Progress); err != nil || p < 0 || p > 100 {
		return fmt.Errorf("progress must be 0-100; got %q", in.Progress)
	}
	switch in.Status {
	case model.StatusPending, model.StatusInProgress, model.StatusCompleted, model.StatusOnHold:
	default:
		return fmt.Errorf("invalid status %q", in.Status)
	}
	return nil
}

func planningInputFrom(it model.PlanningItem) model.PlanningInput {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	start, end := deref(it.StartDate), deref(it.EndDate)
	if len(start) > len(model.DayLayout) {
		start = start[:len(model.DayLayout)]
	}
	if len(end) > len(model.DayLayout) {
		end = end[:len(model.DayLayout)]
	}
	typeID := it.PlanningTypeID
	if typeID == "" && it.PlanningType != nil {
		typeID = it.PlanningType.ID
	}
	return model.PlanningInput{
		ProjectID:       it.ProjectID.String(),
		PlanningTypeID:  typeID.String(),
		Description:     it.Description,
		StartDate:       start,
		EndDate:         end,
		ExcludeWeekends: it.ExcludeWeekends,
		ExcludeHolidays: it.ExcludeHolidays,
		Progress:        strconv.Itoa(int(it.Progress)),
		Status:          it.Status.Normalize(),
	}
}

func newPlanningAddCmd(app *App) *cobra.Command {
	var f planningFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a planning item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.PlanningInput{Progress: "0"}
			f.apply(cmd, &in)
			if err := validatePlanningInput(in); err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				it, err := c.AddPlanning(ctx, in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": it})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newPlanningUpdateCmd(app *App) *cobra.Command {
	var f planningFlags

	cmd := &cobra.Command{
		Use:   "update <planning-id>",
		Short: "Update a planning item (unset flags keep their current value)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			projectID := model.ID(strings.TrimSpace(f.projectID))
			if projectID == "" {
				return writeErr(cmd, errors.New("missing --project"))
			}
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				items, err := c.ListPlanning(ctx, projectID)
				if err != nil {
					return err
				}
				var cur *model.PlanningItem
				for i := range items {
					if items[i].ID == id {
						cur = &items[i]
						break
					}
				}
				if cur == nil {
					return errNotFound("planning item", id)
				}
				in := planningInputFrom(*cur)
				if in.ProjectID == "" {
					in.ProjectID = projectID.String()
				}
				f.apply(cmd, &in)
				if err := validatePlanningInput(in); err != nil {
					return err
				}
				it, err := c.UpdatePlanning(ctx, id, in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": it})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newPlanningDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <planning-id>",
		Short: "Delete a planning item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				if err := c.DeletePlanning(ctx, id); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
			})
		},
	}
}
