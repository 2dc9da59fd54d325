package cli

import (
	"context"
	"errors"
	"strings"

	"planboard-cli/internal/backend"
	"planboard-cli/internal/model"

	"github.com/spf13/cobra"
)

// typeFlags covers the name/description/active form shared by project and
// planning types.
type typeFlags struct {
	name        string
	description string
	active      bool
}

func (f *typeFlags) register(cmd *cobra.Command, withDescription bool) {
	cmd.Flags().StringVar(&f.name, "name", "", "Name")
	if withDescription {
		cmd.Flags().StringVar(&f.description, "description", "", "Description")
	}
	cmd.Flags().BoolVar(&f.active, "active", true, "Active")
}

func (f *typeFlags) apply(cmd *cobra.Command, in *model.TypeInput) error {
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("name") {
		in.Name = strings.TrimSpace(f.name)
	}
	if set("description") {
		in.Description = f.description
	}
	if set("active") {
		in.IsActive = f.active
	}
	if in.Name == "" {
		return errors.New("missing --name")
	}
	return nil
}

func newProjectTypesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project-types",
		Short: "Project type commands",
	}

	var activeOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List project types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				types, err := c.ListProjectTypes(ctx, activeOnly)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": types})
			})
		},
	}
	list.Flags().BoolVar(&activeOnly, "active", false, "Only active types")

	var addFlags typeFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a project type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.TypeInput{IsActive: true}
			if err := addFlags.apply(cmd, &in); err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				t, err := c.AddProjectType(ctx, in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": t})
			})
		},
	}
	addFlags.register(add, false)

	var updFlags typeFlags
	update := &cobra.Command{
		Use:   "update <type-id>",
		Short: "Update a project type (unset flags keep their current value)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				types, err := c.ListProjectTypes(ctx, false)
				if err != nil {
					return err
				}
				var in *model.TypeInput
				for _, t := range types {
					if t.ID == id {
						in = &model.TypeInput{Name: t.Name, IsActive: bool(t.IsActive)}
						break
					}
				}
				if in == nil {
					return errNotFound("project type", id)
				}
				if err := updFlags.apply(cmd, in); err != nil {
					return err
				}
				t, err := c.UpdateProjectType(ctx, id, *in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": t})
			})
		},
	}
	updFlags.register(update, false)

	cmd.AddCommand(list, add, update)
	return cmd
}

func newPlanningTypesCmd(app *App) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List planning types (subcommands add, update, delete)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				types, err := c.ListPlanningTypes(ctx)
				if err != nil {
					return err
				}
				if activeOnly {
					out := types[:0]
					for _, t := range types {
						if t.IsActive {
							out = append(out, t)
						}
					}
					types = out
				}
				return writeOut(cmd, app, map[string]any{"data": types})
			})
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only active types")

	var addFlags typeFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a planning type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.TypeInput{IsActive: true}
			if err := addFlags.apply(cmd, &in); err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				t, err := c.AddPlanningType(ctx, in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": t})
			})
		},
	}
	addFlags.register(add, true)

	var updFlags typeFlags
	update := &cobra.Command{
		Use:   "update <type-id>",
		Short: "Update a planning type (unset flags keep their current value)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				types, err := c.ListPlanningTypes(ctx)
				if err != nil {
					return err
				}
				var in *model.TypeInput
				for _, t := range types {
					if t.ID == id {
						in = &model.TypeInput{Name: t.DisplayName(), Description: t.Description, IsActive: bool(t.IsActive)}
						break
					}
				}
				if in == nil {
					return errNotFound("planning type", id)
				}
				if err := updFlags.apply(cmd, in); err != nil {
					return err
				}
				t, err := c.UpdatePlanningType(ctx, id, *in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": t})
			})
		},
	}
	updFlags.register(update, true)

	del := &cobra.Command{
		Use:   "delete <type-id>",
		Short: "Delete a planning type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				if err := c.DeletePlanningType(ctx, id); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
			})
		},
	}

	cmd.AddCommand(add, update, del)
	return cmd
}
