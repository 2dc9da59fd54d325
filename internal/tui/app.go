package tui

import (
	"context"
	"strings"
	"time"

	"planboard-cli/internal/backend"
	"planboard-cli/internal/kanban"
	"planboard-cli/internal/model"
	"planboard-cli/internal/store"
	"planboard-cli/internal/timeline"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type view int

const (
	viewProjects view = iota
	viewProject
)

type tab int

const (
	tabTimeline tab = iota
	tabModules
	tabTeam
)

var tabNames = []string{"timeline", "modules", "team"}

func (t tab) String() string { return tabNames[t] }

func parseTab(s string) tab {
	for i, n := range tabNames {
		if n == s {
			return tab(i)
		}
	}
	return tabTimeline
}

var minibufferAutoClearAfter = 4 * time.Second

type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

type planningLoadedMsg struct {
	projectID model.ID
	items     []model.PlanningItem
	holidays  []model.Holiday
	err       error
}

type modulesLoadedMsg struct {
	projectID model.ID
	modules   []model.Module
	err       error
}

type teamLoadedMsg struct {
	projectID model.ID
	members   []model.ManpowerEntry
	err       error
}

type moduleMovedMsg struct {
	res kanban.MoveResult
	err error
}

type minibufferClearMsg struct{ seq int }

type appModel struct {
	ctx      context.Context
	client   Backend
	store    *store.Store
	user     model.User
	log      *zap.Logger
	now      func() time.Time
	dayWidth int

	width  int
	height int

	view view
	tab  tab

	projectsList list.Model
	project      *model.Project

	timeline *timelineView
	board    *boardView
	team     list.Model

	// restore is the saved screen, applied once projects arrive.
	restore *store.UIState

	minibufferText string
	minibufferErr  bool
	minibufferSeq  int
}

func newAppModel(ctx context.Context, opts Options) appModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	m := appModel{
		ctx:          ctx,
		client:       opts.Client,
		store:        opts.Store,
		user:         opts.User,
		log:          log,
		now:          now,
		dayWidth:     opts.DayWidth,
		view:         viewProjects,
		projectsList: newList("Projects", nil, list.NewDefaultDelegate()),
		team:         newList("Team", nil, newCompactItemDelegate()),
	}
	if m.store != nil {
		st, err := m.store.LoadUIState(ctx)
		if err != nil {
			log.Warn("load ui state", zap.Error(err))
		} else {
			m.restore = st
		}
	}
	return m
}

func (m appModel) Init() tea.Cmd { return m.loadProjects() }

func (m appModel) loadProjects() tea.Cmd {
	ctx, c := m.ctx, m.client
	return func() tea.Msg {
		ps, err := c.ListProjects(ctx)
		return projectsLoadedMsg{projects: ps, err: err}
	}
}

// loadPlanning fetches the items and the holiday calendar. Holidays only
// shade the chart, so a failure there is logged and ignored.
func (m appModel) loadPlanning(id model.ID) tea.Cmd {
	ctx, c, log := m.ctx, m.client, m.log
	return func() tea.Msg {
		items, err := c.ListPlanning(ctx, id)
		if err != nil {
			return planningLoadedMsg{projectID: id, err: err}
		}
		hs, herr := c.ListHolidays(ctx)
		if herr != nil {
			log.Warn("holiday list failed", zap.Error(herr))
		}
		return planningLoadedMsg{projectID: id, items: items, holidays: hs}
	}
}

func (m appModel) loadModules(id model.ID) tea.Cmd {
	ctx, c := m.ctx, m.client
	return func() tea.Msg {
		mods, err := c.ListModules(ctx, id)
		return modulesLoadedMsg{projectID: id, modules: mods, err: err}
	}
}

func (m appModel) loadTeam(id model.ID) tea.Cmd {
	ctx, c := m.ctx, m.client
	return func() tea.Msg {
		es, err := c.ListManpower(ctx, id)
		return teamLoadedMsg{projectID: id, members: es, err: err}
	}
}

func (m appModel) currentProjectID() model.ID {
	if m.project == nil {
		return ""
	}
	return m.project.ID
}

func (m *appModel) showMinibuffer(text string, isErr bool) tea.Cmd {
	m.minibufferText = text
	m.minibufferErr = isErr
	m.minibufferSeq++
	seq := m.minibufferSeq
	return tea.Tick(minibufferAutoClearAfter, func(time.Time) tea.Msg { return minibufferClearMsg{seq: seq} })
}

func (m *appModel) showError(what string, err error) tea.Cmd {
	m.log.Warn(what, zap.Error(err))
	return m.showMinibuffer(backend.Message(err), true)
}

func (m *appModel) saveUIState() {
	if m.store == nil {
		return
	}
	st := &store.UIState{Version: 1, View: "projects"}
	if m.view == viewProject && m.project != nil {
		st.View = "project"
		st.ProjectID = m.project.ID.String()
		st.Tab = m.tab.String()
	}
	if err := m.store.SaveUIState(m.ctx, st); err != nil {
		m.log.Warn("save ui state", zap.Error(err))
	}
}

func (m *appModel) closeTimeline() {
	m.timeline.close()
	m.timeline = nil
}

func (m *appModel) openProject(p model.Project, t tab) tea.Cmd {
	m.closeTimeline()
	m.board = nil
	m.team.SetItems(nil)
	m.project = &p
	m.view = viewProject
	m.tab = t
	m.saveUIState()
	return tea.Batch(m.loadPlanning(p.ID), m.loadModules(p.ID), m.loadTeam(p.ID))
}

func (m *appModel) closeProject() {
	m.closeTimeline()
	m.board = nil
	m.project = nil
	m.view = viewProjects
	m.saveUIState()
}

func (m *appModel) bodySize() (int, int) {
	// Header, tab bar and footer.
	h := m.height - 4
	if h < 3 {
		h = 3
	}
	w := m.width
	if w < 20 {
		w = 20
	}
	return w, h
}

func (m *appModel) resize() {
	w, h := m.bodySize()
	m.projectsList.SetSize(w, h+1)
	m.team.SetSize(w, h)
	if m.timeline != nil {
		m.timeline.resize(w, h)
	}
	if m.board != nil {
		m.board.width, m.board.height = w, h
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case minibufferClearMsg:
		if msg.seq == m.minibufferSeq {
			m.minibufferText = ""
			m.minibufferErr = false
		}
		return m, nil

	case projectsLoadedMsg:
		if msg.err != nil {
			return m, m.showError("list projects", msg.err)
		}
		items := make([]list.Item, 0, len(msg.projects))
		for _, p := range msg.projects {
			items = append(items, projectItem{project: p})
		}
		m.projectsList.SetItems(items)
		if r := m.restore; r != nil {
			m.restore = nil
			if r.View == "project" {
				for i, p := range msg.projects {
					if p.ID.String() == r.ProjectID {
						m.projectsList.Select(i)
						return m, m.openProject(p, parseTab(r.Tab))
					}
				}
			}
		}
		return m, nil

	case planningLoadedMsg:
		if msg.projectID != m.currentProjectID() {
			return m, nil
		}
		if msg.err != nil {
			return m, m.showError("list planning", msg.err)
		}
		m.setTimeline(msg.items, msg.holidays)
		return m, nil

	case modulesLoadedMsg:
		if msg.projectID != m.currentProjectID() {
			return m, nil
		}
		if msg.err != nil {
			return m, m.showError("list modules", msg.err)
		}
		if m.board == nil {
			m.board = newBoardView(msg.modules, m.now)
		} else {
			m.board.setModules(msg.modules)
		}
		m.resize()
		return m, nil

	case teamLoadedMsg:
		if msg.projectID != m.currentProjectID() {
			return m, nil
		}
		if msg.err != nil {
			return m, m.showError("list team", msg.err)
		}
		items := make([]list.Item, 0, len(msg.members))
		for _, e := range msg.members {
			items = append(items, memberItem{user: e.Member()})
		}
		m.team.SetItems(items)
		return m, nil

	case moduleMovedMsg:
		if msg.err != nil {
			return m, m.showError("move module", msg.err)
		}
		if !msg.res.Changed {
			return m, m.showMinibuffer("Status unchanged", false)
		}
		m.log.Info("module moved",
			zap.String("module_id", msg.res.Module.ID.String()),
			zap.String("from", string(msg.res.From)),
			zap.String("to", string(msg.res.To)),
		)
		cmds := []tea.Cmd{m.showMinibuffer("Module status updated", false)}
		if id := m.currentProjectID(); id != "" {
			cmds = append(cmds, m.loadModules(id))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if m.view == viewProject && m.tab == tabTimeline && m.timeline != nil && !m.timeline.detail {
			m.timeline.wheel(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case viewProjects:
			return m.updateProjects(msg)
		case viewProject:
			return m.updateProject(msg)
		}
	}
	return m, nil
}

func (m *appModel) setTimeline(items []model.PlanningItem, holidays []model.Holiday) {
	p := m.project
	grid := timeline.Builder{Now: m.now}.BuildGrid(items, p.StartDate, p.EndDate)

	days := make([]time.Time, 0, len(holidays))
	for _, h := range holidays {
		if d, ok := model.ParseDay(h.Date, time.Local); ok {
			days = append(days, d)
		}
	}
	grid = grid.MarkHolidays(days)
	bars := timeline.PositionBars(items, grid, 1)

	sel := model.ID("")
	if m.timeline != nil {
		if cur, ok := m.timeline.selected(); ok {
			sel = cur.ID
		}
	}
	m.closeTimeline()
	m.timeline = newTimelineView(grid, bars, m.dayWidth)
	m.resize()
	for i, bar := range bars {
		if bar.ID == sel {
			m.timeline.moveSelection(i)
			break
		}
	}
	if !m.timeline.reveal() {
		if i, ok := m.timeline.todayIndex(); ok {
			m.timeline.scrollToDay(i)
		}
	}
	m.log.Debug("timeline built",
		zap.String("project_id", p.ID.String()),
		zap.Int("days", grid.Len()),
		zap.Int("bars", len(bars)),
		zap.Int("skipped", len(items)-len(bars)),
	)
}

func (m appModel) updateProjects(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.projectsList.FilterState() != list.Filtering {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "r":
			return m, m.loadProjects()
		case "enter":
			if it, ok := m.projectsList.SelectedItem().(projectItem); ok {
				return m, m.openProject(it.project, tabTimeline)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.projectsList, cmd = m.projectsList.Update(msg)
	return m, cmd
}

func (m appModel) updateProject(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "tab", "shift+tab", "1", "2", "3":
		if m.board != nil && m.board.drag.Dragging() {
			return m, nil
		}
		switch key {
		case "tab":
			m.tab = (m.tab + 1) % tab(len(tabNames))
		case "shift+tab":
			m.tab = (m.tab + tab(len(tabNames)) - 1) % tab(len(tabNames))
		default:
			m.tab = tab(key[0] - '1')
		}
		m.saveUIState()
		return m, nil
	case "r":
		id := m.currentProjectID()
		return m, tea.Batch(m.loadPlanning(id), m.loadModules(id), m.loadTeam(id))
	}

	switch m.tab {
	case tabTimeline:
		return m.updateTimeline(msg)
	case tabModules:
		return m.updateBoard(msg)
	default:
		if key == "esc" || key == "backspace" {
			m.closeProject()
			return m, nil
		}
		var cmd tea.Cmd
		m.team, cmd = m.team.Update(msg)
		return m, cmd
	}
}

func (m appModel) updateTimeline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.timeline
	key := msg.String()
	if key == "esc" || key == "backspace" {
		if v != nil && v.detail {
			v.detail = false
			return m, nil
		}
		m.closeProject()
		return m, nil
	}
	if v == nil {
		return m, nil
	}
	switch key {
	case "h", "left":
		v.scrollDays(-1)
	case "l", "right":
		v.scrollDays(1)
	case "H":
		v.scrollDays(-7)
	case "L":
		v.scrollDays(7)
	case "j", "down":
		v.moveSelection(1)
	case "k", "up":
		v.moveSelection(-1)
	case "t":
		if i, ok := v.todayIndex(); ok {
			v.scrollToDay(i)
		}
	case "f":
		v.reveal()
	case "enter":
		v.detail = !v.detail
	}
	return m, nil
}

func (m appModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.board
	key := msg.String()
	if v == nil {
		if key == "esc" || key == "backspace" {
			m.closeProject()
		}
		return m, nil
	}
	switch key {
	case "esc", "backspace":
		if v.drag.Dragging() {
			v.drag.Cancel()
			return m, m.showMinibuffer("Move cancelled", false)
		}
		m.closeProject()
	case "h", "left":
		v.moveColumn(-1)
	case "l", "right":
		v.moveColumn(1)
	case "j", "down":
		v.moveRow(1)
	case "k", "up":
		v.moveRow(-1)
	case " ":
		if err := v.pickUp(); err != nil {
			return m, m.showMinibuffer(err.Error(), true)
		}
	case "enter":
		d, target, ok := v.release()
		if !ok {
			return m, nil
		}
		ctx, c := m.ctx, m.client
		return m, func() tea.Msg {
			res, err := d.Drop(ctx, c, target)
			return moduleMovedMsg{res: res, err: err}
		}
	}
	return m, nil
}

func (m appModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Planboard")
	parts := []string{title}
	if name := m.user.DisplayName(); name != "" {
		parts = append(parts, styleMuted().Render(name))
	}
	if m.project != nil && m.view == viewProject {
		parts = append(parts, lipgloss.NewStyle().Bold(true).Render(m.project.Name))
	}
	header := strings.Join(parts, styleMuted().Render("  "+glyphSeparator()+"  "))

	w, h := m.bodySize()
	var body string
	switch m.view {
	case viewProjects:
		body = normalizePane(m.projectsList.View(), w, h+1)
	case viewProject:
		body = m.renderTabs() + "\n" + m.viewTab(w, h)
	}
	return strings.Join([]string{header, body, m.footer()}, "\n")
}

func (m appModel) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(colorSelectedFg).Background(colorSelectedBg)
	idle := styleMuted().Padding(0, 1)
	out := make([]string, 0, len(tabNames))
	for i, n := range tabNames {
		label := string(rune('1'+i)) + " " + strings.ToUpper(n[:1]) + n[1:]
		if tab(i) == m.tab {
			out = append(out, active.Render(label))
		} else {
			out = append(out, idle.Render(label))
		}
	}
	return strings.Join(out, " ")
}

func (m appModel) viewTab(w, h int) string {
	loading := normalizePane(styleMuted().Render("Loading…"), w, h)
	switch m.tab {
	case tabTimeline:
		if m.timeline == nil {
			return loading
		}
		return m.timeline.View()
	case tabModules:
		if m.board == nil {
			return loading
		}
		return m.board.View()
	default:
		if len(m.team.Items()) == 0 {
			return normalizePane(styleMuted().Render("(no team members)"), w, h)
		}
		return normalizePane(m.team.View(), w, h)
	}
}

func (m appModel) footer() string {
	if m.minibufferText != "" {
		st := lipgloss.NewStyle()
		if m.minibufferErr {
			st = st.Foreground(colorFlashError)
		}
		return st.Render(m.minibufferText)
	}
	help := "enter: open  /: filter  r: reload  q: quit"
	if m.view == viewProject {
		switch m.tab {
		case tabTimeline:
			help = "h/l: scroll  H/L: week  j/k: select  t: today  f: focus  enter: details  tab: next  esc: back"
		case tabModules:
			help = "h/l j/k: move  space: pick up  enter: drop  esc: cancel/back  tab: next"
		default:
			help = "j/k: move  tab: next  esc: back"
		}
	}
	return styleMuted().Render(help)
}
