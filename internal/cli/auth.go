package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"planboard-cli/internal/backend"
	"planboard-cli/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" {
				return writeErr(cmd, errors.New("missing --email"))
			}
			if password == "" {
				password = envOr("PLANBOARD_PASSWORD", "")
			}
			if password == "" {
				p, err := promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return writeErr(cmd, err)
				}
				password = p
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			st, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			sess, err := newClient(ctx, app, st, "").Login(ctx, email, password)
			if err != nil {
				app.log.Info("login failed", zap.String("email", email), zap.Error(err))
				return writeErr(cmd, err)
			}
			if err := st.SaveSession(ctx, app.cfg.APIURL, sess); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info("logged in", zap.String("user_id", sess.User.ID.String()))
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"user":    sess.User,
				"api_url": app.cfg.APIURL,
			}})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password (default: $PLANBOARD_PASSWORD or prompt)")
	return cmd
}

// promptPassword reads a password from in. A terminal gets no echo; piped
// input is read up to the first newline.
func promptPassword(in io.Reader, prompt io.Writer) (string, error) {
	fmt.Fprint(prompt, "Password: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("no password given")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the local session and cached responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			st, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()
			if err := st.ClearSession(ctx); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"logged_out": true}})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				u, err := c.Me(ctx)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": u})
			})
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{
				"data": app.cfg,
				"meta": map[string]any{"file": app.v.ConfigFileUsed()},
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write a key to the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			if err := config.Set(app.v, key, args[1]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{key: app.v.Get(key)}})
		},
	})
	return cmd
}
