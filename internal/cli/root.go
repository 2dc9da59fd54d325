package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"planboard-cli/internal/backend"
	"planboard-cli/internal/config"
	"planboard-cli/internal/format"
	"planboard-cli/internal/logging"
	"planboard-cli/internal/store"
	"planboard-cli/internal/tui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type App struct {
	ConfigFile string
	APIURL     string
	LogLevel   string
	PrettyJSON bool
	Format     string

	v   *viper.Viper
	cfg config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "planboard",
		Short:        "Project planning board CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  planboard

  # Sign in once; the session is kept in ~/.planboard
  planboard login --email you@example.com

  # Scriptable commands
  planboard projects list
  planboard gantt 12 --chart

  # Project shortcut (same as: planboard gantt 12)
  planboard 12
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.log != nil {
			_ = app.log.Sync()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", envOr("PLANBOARD_CONFIG", ""), "Config file (default ~/.planboard/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api", "", "API base URL (overrides api_url)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("PLANBOARD_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newProjectTypesCmd(app))
	cmd.AddCommand(newPlanningCmd(app))
	cmd.AddCommand(newGanttCmd(app))
	cmd.AddCommand(newModulesCmd(app))
	cmd.AddCommand(newTeamCmd(app))
	cmd.AddCommand(newHolidaysCmd(app))
	cmd.AddCommand(newDirectoryCmds(app)...)
	cmd.AddCommand(newTUICmd(app))

	return cmd
}

// init resolves configuration: flags > PLANBOARD_* env > config file > defaults.
func (app *App) init(cmd *cobra.Command) error {
	v, err := config.New(app.ConfigFile)
	if err != nil {
		return writeErr(cmd, err)
	}
	flags := cmd.Root().PersistentFlags()
	if f := flags.Lookup("api"); f != nil && f.Changed {
		v.Set(config.KeyAPIURL, app.APIURL)
	}
	if f := flags.Lookup("log-level"); f != nil && f.Changed {
		v.Set(config.KeyLogLevel, app.LogLevel)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return writeErr(cmd, err)
	}
	log, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.v = v
	app.cfg = cfg
	app.log = log.With(zap.String("command", cmd.CommandPath()))
	return nil
}

var errNotLoggedIn = errors.New("not logged in; run `planboard login`")

// session bundles what a backend command needs. Close releases the store.
type session struct {
	client *backend.Client
	store  *store.Store
	rec    store.SessionRecord
}

func (s *session) Close() {
	if s != nil && s.store != nil {
		_ = s.store.Close()
	}
}

func openStore(ctx context.Context, app *App) (*store.Store, error) {
	return store.Open(ctx, app.cfg.DataDir)
}

func newClient(ctx context.Context, app *App, st *store.Store, token string) *backend.Client {
	opts := backend.Options{
		BaseURL:  app.cfg.APIURL,
		Token:    token,
		Timeout:  app.cfg.Timeout,
		CacheTTL: app.cfg.CacheTTL,
		Logger:   app.log,
	}
	if st != nil {
		opts.Cache = st
		id, err := st.InstallID(ctx)
		if err != nil {
			app.log.Warn("install id unavailable", zap.Error(err))
		}
		opts.ClientID = id
	}
	return backend.New(opts)
}

// openSession opens the store and builds an authenticated client. A session
// saved for another server counts as no session; its token stays off the
// wire.
func openSession(ctx context.Context, app *App) (*session, error) {
	st, err := openStore(ctx, app)
	if err != nil {
		return nil, err
	}
	rec, err := st.LoadSession(ctx)
	if err != nil {
		_ = st.Close()
		if errors.Is(err, store.ErrNoSession) {
			return nil, errNotLoggedIn
		}
		return nil, err
	}
	if !sameAPI(rec.APIURL, app.cfg.APIURL) {
		app.log.Info("session belongs to another server",
			zap.String("session_api_url", rec.APIURL),
			zap.String("api_url", app.cfg.APIURL),
		)
		_ = st.Close()
		return nil, fmt.Errorf("%w (session is for %s)", errNotLoggedIn, rec.APIURL)
	}
	return &session{client: newClient(ctx, app, st, rec.Session.Token), store: st, rec: rec}, nil
}

func sameAPI(a, b string) bool {
	norm := func(s string) string { return strings.TrimRight(strings.TrimSpace(s), "/") }
	return norm(a) == norm(b)
}

// withSession runs fn against an authenticated client and turns errors into
// stderr output. A 401 is reported as an expired session.
func withSession(cmd *cobra.Command, app *App, fn func(ctx context.Context, c *backend.Client) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.Close()
	if err := fn(ctx, s.client); err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			err = fmt.Errorf("%w (session expired? run `planboard login`)", err)
		}
		app.log.Info("command failed", zap.Error(err))
		return writeErr(cmd, err)
	}
	return nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.Close()
	return tui.Run(tui.Options{
		Client:   s.client,
		Store:    s.store,
		User:     s.rec.Session.User,
		DayWidth: app.cfg.DayWidth,
		Theme:    app.cfg.Theme,
		Logger:   app.log,
	})
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), backend.Message(err))
	return err
}
