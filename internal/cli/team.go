package cli

import (
	"context"
	"strings"

	"planboard-cli/internal/backend"
	"planboard-cli/internal/model"

	"github.com/spf13/cobra"
)

func newTeamCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Project manpower commands",
	}
	cmd.AddCommand(newTeamListCmd(app))
	cmd.AddCommand(newTeamChangeCmd(app, "add", "Add a user to a project"))
	cmd.AddCommand(newTeamChangeCmd(app, "remove", "Remove a user from a project"))
	return cmd
}

func newTeamListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				entries, err := c.ListManpower(ctx, model.ID(strings.TrimSpace(projectID)))
				if err != nil {
					return err
				}
				users := make([]model.User, 0, len(entries))
				for _, e := range entries {
					users = append(users, e.Member())
				}
				return writeOut(cmd, app, map[string]any{"data": users})
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newTeamChangeCmd(app *App, verb, short string) *cobra.Command {
	var projectID, userID string

	cmd := &cobra.Command{
		Use:   verb,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pid := model.ID(strings.TrimSpace(projectID))
			uid := model.ID(strings.TrimSpace(userID))
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				var err error
				done := "added"
				if verb == "add" {
					err = c.AddUserToProject(ctx, pid, uid)
				} else {
					err = c.RemoveUserFromProject(ctx, pid, uid)
					done = "removed"
				}
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"project_id": pid,
					"user_id":    uid,
					done:         true,
				}})
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&userID, "user", "", "User id")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
