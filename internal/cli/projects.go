package cli

import (
	"context"
	"errors"
	"strings"

	"planboard-cli/internal/backend"
	"planboard-cli/internal/model"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsShowCmd(app))
	cmd.AddCommand(newProjectsAddCmd(app))
	cmd.AddCommand(newProjectsUpdateCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	var includeArchived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				ps, err := c.ListProjects(ctx)
				if err != nil {
					return err
				}
				out := make([]model.Project, 0, len(ps))
				for _, p := range ps {
					if bool(p.IsArchived) && !includeArchived {
						continue
					}
					out = append(out, p)
				}
				return writeOut(cmd, app, map[string]any{"data": out})
			})
		},
	}
	cmd.Flags().BoolVar(&includeArchived, "include-archived", false, "Include archived projects")
	return cmd
}

func newProjectsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project with its modules and team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				p, err := c.GetProject(ctx, id)
				if err != nil {
					return err
				}
				if p.ID == "" {
					return errNotFound("project", id)
				}
				mods, err := c.ListModules(ctx, id)
				if err != nil {
					return err
				}
				team, err := c.ListManpower(ctx, id)
				if err != nil {
					return err
				}
				members := make([]model.User, 0, len(team))
				for _, e := range team {
					members = append(members, e.Member())
				}
				return writeOut(cmd, app, map[string]any{
					"data": p,
					"meta": map[string]any{
						"modules": len(mods),
						"team":    members,
					},
				})
			})
		},
	}
}

type projectFlags struct {
	name        string
	description string
	typeID      string
	vendorID    string
	priority    string
	start       string
	end         string
	status      string
	progress    int
	archived    bool
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Project name")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.typeID, "type", "", "Project type id")
	cmd.Flags().StringVar(&f.vendorID, "vendor", "", "Vendor id")
	cmd.Flags().StringVar(&f.priority, "priority", "medium", "Priority (low|medium|high)")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.status, "status", string(model.StatusPending), "Status")
	cmd.Flags().IntVar(&f.progress, "progress", 0, "Progress percent")
	cmd.Flags().BoolVar(&f.archived, "archived", false, "Archived")
}

// apply overlays the flags the user set on in.
func (f *projectFlags) apply(cmd *cobra.Command, in *model.ProjectInput) error {
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("name") {
		in.Name = strings.TrimSpace(f.name)
	}
	if set("description") {
		in.Description = f.description
	}
	if set("type") {
		in.ProjectTypeID = strings.TrimSpace(f.typeID)
	}
	if set("vendor") {
		in.VendorID = strings.TrimSpace(f.vendorID)
	}
	if set("priority") {
		in.Priority = strings.TrimSpace(f.priority)
	}
	for _, d := range []struct {
		flag string
		val  string
		dst  *string
	}{{"start", f.start, &in.StartDate}, {"end", f.end, &in.EndDate}} {
		if !set(d.flag) {
			continue
		}
		v := strings.TrimSpace(d.val)
		if v != "" {
			if _, ok := model.ParseDay(v, nil); !ok {
				return errors.New("invalid --" + d.flag + ": want YYYY-MM-DD")
			}
		}
		*d.dst = v
	}
	if set("status") {
		in.Status = model.Status(strings.TrimSpace(f.status)).Normalize()
	}
	if set("progress") {
		if f.progress < 0 || f.progress > 100 {
			return errors.New("invalid --progress: want 0..100")
		}
		in.Progress = f.progress
	}
	if set("archived") {
		in.IsArchived = f.archived
	}
	if in.Name == "" {
		return errors.New("missing --name")
	}
	return nil
}

// projectInput carries p's current values into an update body.
func projectInput(p model.Project) model.ProjectInput {
	day := func(s *string) string {
		if d, ok := model.ParseDayPtr(s, nil); ok {
			return model.FormatDay(d)
		}
		return ""
	}
	return model.ProjectInput{
		Name:          p.Name,
		Description:   p.Description,
		ProjectTypeID: p.ProjectTypeID.String(),
		VendorID:      p.VendorID.String(),
		Priority:      p.Priority,
		StartDate:     day(p.StartDate),
		EndDate:       day(p.EndDate),
		Status:        p.Status,
		Progress:      int(p.Progress),
		IsArchived:    bool(p.IsArchived),
	}
}

func newProjectsAddCmd(app *App) *cobra.Command {
	var f projectFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.ProjectInput{Priority: f.priority, Status: model.Status(f.status).Normalize()}
			if err := f.apply(cmd, &in); err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				p, err := c.CreateProject(ctx, in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": p})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newProjectsUpdateCmd(app *App) *cobra.Command {
	var f projectFlags

	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update a project (unset flags keep their current value)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				cur, err := c.GetProject(ctx, id)
				if err != nil {
					return err
				}
				if cur.ID == "" {
					return errNotFound("project", id)
				}
				in := projectInput(cur)
				if err := f.apply(cmd, &in); err != nil {
					return err
				}
				p, err := c.UpdateProject(ctx, id, in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": p})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				if err := c.DeleteProject(ctx, id); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
			})
		},
	}
}
