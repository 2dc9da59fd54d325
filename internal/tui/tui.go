package tui

import (
	"context"
	"time"

	"planboard-cli/internal/kanban"
	"planboard-cli/internal/model"
	"planboard-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Backend is the slice of the API the TUI reads and writes.
type Backend interface {
	kanban.Updater
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListPlanning(ctx context.Context, projectID model.ID) ([]model.PlanningItem, error)
	ListModules(ctx context.Context, projectID model.ID) ([]model.Module, error)
	ListManpower(ctx context.Context, projectID model.ID) ([]model.ManpowerEntry, error)
	ListHolidays(ctx context.Context) ([]model.Holiday, error)
}

type Options struct {
	Client Backend
	// Store persists the last screen; nil disables that.
	Store *store.Store
	User  model.User

	DayWidth int
	// Theme is light, dark or auto.
	Theme string

	Logger *zap.Logger
	// Now overrides the wall clock.
	Now func() time.Time
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)
	applyGlyphPreference()

	m := newAppModel(context.Background(), opts)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if fm, ok := final.(appModel); ok {
		fm.closeTimeline()
	}
	return err
}
