package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"planboard-cli/internal/backend"
	"planboard-cli/internal/kanban"
	"planboard-cli/internal/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newModulesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "Project module commands",
	}
	cmd.AddCommand(newModulesListCmd(app))
	cmd.AddCommand(newModulesAddCmd(app))
	cmd.AddCommand(newModulesUpdateCmd(app))
	cmd.AddCommand(newModulesDeleteCmd(app))
	cmd.AddCommand(newModulesMoveCmd(app))
	return cmd
}

type boardColumnOut struct {
	Status model.Status   `json:"status"`
	Label  string         `json:"label"`
	Cards  []model.Module `json:"cards"`
}

func newModulesListCmd(app *App) *cobra.Command {
	var (
		projectID string
		board     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				mods, err := c.ListModules(ctx, model.ID(strings.TrimSpace(projectID)))
				if err != nil {
					return err
				}
				if !board {
					return writeOut(cmd, app, map[string]any{"data": mods})
				}
				b := kanban.NewBoard(mods)
				cols := make([]boardColumnOut, 0, len(b.Columns))
				for _, col := range b.Columns {
					cards := col.Cards
					if cards == nil {
						cards = []model.Module{}
					}
					cols = append(cols, boardColumnOut{Status: col.Status, Label: col.Label, Cards: cards})
				}
				return writeOut(cmd, app, map[string]any{
					"data": cols,
					"meta": map[string]any{"off_board": len(mods) - b.Len()},
				})
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().BoolVar(&board, "board", false, "Group by status column")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

type moduleFlags struct {
	projectID     string
	name          string
	description   string
	estimatedDays int
	status        string
}

func (f *moduleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&f.name, "name", "", "Module name")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().IntVar(&f.estimatedDays, "estimated-days", 0, "Estimated days")
	cmd.Flags().StringVar(&f.status, "status", string(model.StatusPending), "Status (pending|in_progress|completed|on_hold)")
}

func newModulesAddCmd(app *App) *cobra.Command {
	var f moduleFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a module to a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(f.name)
			if name == "" {
				return writeErr(cmd, errors.New("missing --name"))
			}
			status := model.Status(strings.TrimSpace(f.status))
			if !kanban.ValidStatus(status) {
				return writeErr(cmd, kanban.ErrInvalidStatus)
			}
			in := kanban.UpdateInput(model.Module{
				Name:          name,
				Description:   f.description,
				EstimatedDays: model.FlexInt(f.estimatedDays),
			}, status, time.Now())
			in.ProjectID = strings.TrimSpace(f.projectID)
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				m, err := c.AddModule(ctx, in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": m})
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

// findModule loads the project's modules and picks one by id.
func findModule(ctx context.Context, c *backend.Client, projectID, id model.ID) (model.Module, error) {
	mods, err := c.ListModules(ctx, projectID)
	if err != nil {
		return model.Module{}, err
	}
	for _, m := range mods {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Module{}, errNotFound("module", id)
}

func newModulesUpdateCmd(app *App) *cobra.Command {
	var f moduleFlags

	cmd := &cobra.Command{
		Use:   "update <module-id>",
		Short: "Update a module (unset flags keep their current value)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				m, err := findModule(ctx, c, model.ID(strings.TrimSpace(f.projectID)), id)
				if err != nil {
					return err
				}
				set := func(name string) bool { return cmd.Flags().Changed(name) }
				if set("name") {
					m.Name = strings.TrimSpace(f.name)
				}
				if set("description") {
					m.Description = f.description
				}
				if set("estimated-days") {
					m.EstimatedDays = model.FlexInt(f.estimatedDays)
				}
				status := m.Status
				if set("status") {
					status = model.Status(strings.TrimSpace(f.status))
					if !kanban.ValidStatus(status) {
						return kanban.ErrInvalidStatus
					}
				}
				in := kanban.UpdateInput(m, status, time.Now())
				if status == m.Status && m.IsCompleted && m.CompletedAt != nil {
					// Keep the original completion date on plain edits.
					in.CompletedAt = m.CompletedAt
				}
				out, err := c.UpdateModule(ctx, id, in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": out})
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newModulesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <module-id>",
		Short: "Delete a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				if err := c.DeleteModule(ctx, id); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
			})
		},
	}
}

func newModulesMoveCmd(app *App) *cobra.Command {
	var projectID, to string

	cmd := &cobra.Command{
		Use:   "move <module-id>",
		Short: "Move a module to another status column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			target := model.Status(strings.TrimSpace(to))
			if !kanban.ValidStatus(target) {
				return writeErr(cmd, kanban.ErrInvalidStatus)
			}
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				m, err := findModule(ctx, c, model.ID(strings.TrimSpace(projectID)), id)
				if err != nil {
					return err
				}
				var d kanban.Drag
				if err := d.Start(m); err != nil {
					return err
				}
				res, err := d.Drop(ctx, c, target)
				if err != nil {
					return err
				}
				app.log.Info("module moved",
					zap.String("module_id", id.String()),
					zap.String("from", string(res.From)),
					zap.String("to", string(res.To)),
					zap.Bool("changed", res.Changed),
				)
				return writeOut(cmd, app, map[string]any{
					"data": res.Module,
					"meta": map[string]any{
						"from":    res.From,
						"to":      res.To,
						"changed": res.Changed,
					},
				})
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&to, "to", "", "Target status (pending|in_progress|completed|on_hold)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
