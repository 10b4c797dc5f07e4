package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gsmoon97/swe-agent-eval/internal/clipboard"
	"github.com/gsmoon97/swe-agent-eval/internal/config"
	"github.com/gsmoon97/swe-agent-eval/internal/export"
	"github.com/gsmoon97/swe-agent-eval/internal/highlight"
	"github.com/gsmoon97/swe-agent-eval/internal/index"
	"github.com/gsmoon97/swe-agent-eval/internal/render"
	"github.com/gsmoon97/swe-agent-eval/internal/store"
	"github.com/gsmoon97/swe-agent-eval/internal/trajectory"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Model struct {
	cfg      config.AppConfig
	store    *store.Store
	indexer  *index.Indexer
	exporter *export.Exporter

	list     list.Model
	viewport viewport.Model
	help     help.Model
	spinner  spinner.Model
	project  textinput.Model
	search   textinput.Model
	keys     keyMap

	width  int
	height int

	loading     bool
	projectMode bool
	searchMode  bool
	tocMode     bool
	focusOnList bool
	rendering   bool
	renderNonce int

	searchQuery string
	matchLines  []int
	matchCount  int
	matchIndex  int

	nav      NavState
	taskType index.TaskType
	projFil  string

	results    trajectory.Results
	resultsErr error
	tasks      []index.Task

	traj        *trajectory.Trajectory
	trajTaskID  string
	trajErr     error
	descs       []trajectory.StepDescriptor
	classifyErr error

	rendered    map[string]string
	highlighted map[string]highlight.Result
	tocRender   *render.Renderer

	status string
	err    error
}

type resultsMsg struct {
	results trajectory.Results
	err     error
}
type tasksMsg struct {
	tasks []index.Task
	err   error
}
type trajMsg struct {
	taskID string
	traj   trajectory.Trajectory
	err    error
}
type renderMsg struct {
	cacheKey string
	rendered string
	nonce    int
}
type projectsMsg struct {
	projects []string
	err      error
}
type exportMsg struct {
	path string
	err  error
}
type copyMsg struct{ err error }

type taskItem struct {
	t index.Task
}

func (i taskItem) Title() string { return i.t.ID }

func (i taskItem) Description() string {
	state := "unresolved"
	if i.t.Resolved {
		state = "resolved"
	}
	if i.t.Repo == "" {
		return state
	}
	return fmt.Sprintf("%s | %s/%s #%s", state, i.t.Org, i.t.Repo, i.t.Issue)
}

func (i taskItem) FilterValue() string { return strings.ToLower(i.t.ID) }

type tocItem struct {
	d trajectory.StepDescriptor
}

func (i tocItem) FilterValue() string {
	return strings.ToLower(i.d.Title + " " + i.d.Subtitle)
}

// tocDelegate draws each table-of-contents entry as a single
// role-colored line with the tool-status marker.
type tocDelegate struct {
	r *render.Renderer
}

func (d tocDelegate) Height() int                             { return 1 }
func (d tocDelegate) Spacing() int                            { return 0 }
func (d tocDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d tocDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(tocItem)
	if !ok {
		return
	}
	line := d.r.TOCLine(it.d, m.Width()-2)
	if index == m.Index() {
		fmt.Fprint(w, tocCursorStyle.Render("> ")+line)
		return
	}
	fmt.Fprint(w, "  "+line)
}

func NewModel(cfg config.AppConfig, st *store.Store, idx *index.Indexer, exp *export.Exporter) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 40, 20)
	l.Title = "Tasks"
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	vp := viewport.New(60, 20)
	vp.SetContent("Loading results...")

	h := help.New()
	h.ShowAll = false

	sp := spinner.New()
	sp.Spinner = spinner.Points

	ti := textinput.New()
	ti.Placeholder = "Filter by project (empty for all)..."
	ti.Prompt = "project: "
	ti.CharLimit = 64
	ti.ShowSuggestions = true

	si := textinput.New()
	si.Placeholder = "Search rendered steps..."
	si.Prompt = "/"
	si.CharLimit = 128

	return Model{
		cfg:      cfg,
		store:    st,
		indexer:  idx,
		exporter: exp,
		list:     l,
		viewport: vp,
		help:     h,
		spinner:  sp,
		project:  ti,
		search:   si,
		keys:     defaultKeys(),

		loading:     true,
		focusOnList: true,
		matchIndex:  -1,
		rendered:    make(map[string]string),
		highlighted: make(map[string]highlight.Result),
		tocRender:   render.New(80, cfg.Theme),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

// loadCmd reads the results index, scans the trajectory tree and builds
// the task index. A missing results file halts the whole view; nothing
// else is loaded.
func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		res, err := m.store.LoadResults()
		if err != nil {
			return resultsMsg{err: err}
		}
		dirs, err := m.store.ListTaskDirs()
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return resultsMsg{err: err}
		}
		if err := m.indexer.Build(context.Background(), res, dirs); err != nil {
			return resultsMsg{err: err}
		}
		return resultsMsg{results: res}
	}
}

func (m Model) tasksCmd(filter index.Filter) tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.indexer.ListTasks(filter)
		return tasksMsg{tasks: tasks, err: err}
	}
}

func (m Model) trajCmd(taskID string) tea.Cmd {
	if taskID == "" {
		return nil
	}
	return func() tea.Msg {
		traj, err := m.store.LoadTrajectory(taskID)
		return trajMsg{taskID: taskID, traj: traj, err: err}
	}
}

// projectsCmd enumerates the distinct orgs for the current task type so
// the project prompt can autocomplete instead of taking blind free text.
func (m Model) projectsCmd() tea.Cmd {
	return func() tea.Msg {
		projects, err := m.indexer.Projects(m.taskType)
		return projectsMsg{projects: projects, err: err}
	}
}

func (m Model) exportCmd() tea.Cmd {
	if m.traj == nil {
		return nil
	}
	taskID, traj := m.trajTaskID, *m.traj
	return func() tea.Msg {
		path, err := m.exporter.Export(taskID, traj)
		return exportMsg{path: path, err: err}
	}
}

func (m Model) copyCmd() tea.Cmd {
	taskID := m.selectedTaskID()
	if taskID == "" {
		return nil
	}
	snippet := taskSnippet(taskID)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return copyMsg{err: clipboard.Copy(ctx, snippet)}
	}
}

func taskSnippet(taskID string) string {
	if ref, ok := trajectory.ParseTaskID(taskID); ok {
		return fmt.Sprintf("%s (%s)", taskID, ref.GitHubURL())
	}
	return taskID
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		cmds = append(cmds, m.renderSelected(true))

	case resultsMsg:
		m.loading = false
		if msg.err != nil {
			m.resultsErr = msg.err
			break
		}
		m.results = msg.results
		cmds = append(cmds, m.tasksCmd(m.currentFilter()))

	case tasksMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = "Task query failed"
			break
		}
		cmds = append(cmds, m.applyTasks(msg.tasks)...)

	case trajMsg:
		if msg.taskID != m.selectedTaskID() {
			break
		}
		m.trajTaskID = msg.taskID
		if msg.err != nil {
			m.traj = nil
			m.trajErr = msg.err
			m.descs = nil
			m.classifyErr = nil
			cmds = append(cmds, m.renderSelected(true))
			break
		}
		traj := msg.traj
		m.traj = &traj
		m.trajErr = nil
		m.descs, m.classifyErr = trajectory.ClassifyAll(traj.Messages)
		if m.classifyErr != nil {
			m.status = "Cannot render steps: " + m.classifyErr.Error()
		}
		m.syncTOC()
		cmds = append(cmds, m.renderSelected(true))

	case renderMsg:
		if msg.nonce != m.renderNonce {
			break
		}
		m.rendering = false
		m.rendered[msg.cacheKey] = msg.rendered
		m.setViewportFromRendered(msg.cacheKey, msg.rendered, true)

	case projectsMsg:
		if msg.err == nil {
			m.project.SetSuggestions(msg.projects)
		}

	case exportMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = "Download failed: " + msg.err.Error()
		} else {
			m.status = "Downloaded: " + msg.path
		}

	case copyMsg:
		if msg.err != nil {
			if errors.Is(msg.err, clipboard.ErrToolNotFound) {
				m.status = "Could not copy: clipboard tool not found"
			} else {
				m.status = "Could not copy: " + msg.err.Error()
			}
		} else {
			m.status = "Copied GitHub link to clipboard"
		}

	case tea.KeyMsg:
		if m.resultsErr != nil {
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			break
		}
		if m.searchMode {
			return m.updateSearchPrompt(msg)
		}
		if m.projectMode {
			return m.updateProjectPrompt(msg)
		}
		return m.updateKeys(msg)
	}

	if m.loading || m.rendering {
		var spin tea.Cmd
		m.spinner, spin = m.spinner.Update(msg)
		cmds = append(cmds, spin)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateSearchPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchMode = false
		m.searchQuery = ""
		m.search.SetValue("")
		m.search.Blur()
		cmd := m.refreshViewport(true)
		return m, cmd
	case "enter":
		m.searchMode = false
		m.search.Blur()
		m.searchQuery = strings.TrimSpace(m.search.Value())
		cmd := m.refreshViewport(true)
		return m, cmd
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateProjectPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.projectMode = false
		m.project.Blur()
		return m, nil
	case "enter":
		m.projectMode = false
		m.project.Blur()
		m.projFil = strings.TrimSpace(m.project.Value())
		cmd := m.filterChanged()
		return m, cmd
	}
	var cmd tea.Cmd
	m.project, cmd = m.project.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tab):
		m.focusOnList = !m.focusOnList
		return m, nil

	case key.Matches(msg, m.keys.PrevTask):
		return m.moveTask(m.nav.PrevTask())

	case key.Matches(msg, m.keys.NextTask):
		return m.moveTask(m.nav.NextTask(len(m.tasks)))

	case key.Matches(msg, m.keys.TaskType):
		if m.taskType == index.UnresolvedTasks {
			m.taskType = index.AllTasks
		} else {
			m.taskType = index.UnresolvedTasks
		}
		cmd := m.filterChanged()
		return m, cmd

	case key.Matches(msg, m.keys.Project):
		m.projectMode = true
		m.project.SetValue(m.projFil)
		m.project.CursorEnd()
		m.project.Focus()
		return m, m.projectsCmd()

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.search.SetValue(m.searchQuery)
		m.search.CursorEnd()
		m.search.Focus()
		return m, nil

	case key.Matches(msg, m.keys.TOC):
		m.tocMode = !m.tocMode
		m.syncListItems()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.search.SetValue("")
			cmd := m.refreshViewport(false)
			return m, cmd
		}
		if m.nav.Focused() {
			m.nav = m.nav.ClearStep()
			return m, m.renderSelected(false)
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevStep):
		return m.moveStep(m.nav.StepBy(-1, len(m.descs)))

	case key.Matches(msg, m.keys.NextStep):
		return m.moveStep(m.nav.StepBy(1, len(m.descs)))

	case key.Matches(msg, m.keys.Download):
		if cmd := m.exportCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keys.Copy):
		if cmd := m.copyCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keys.Select):
		if !m.focusOnList {
			return m, nil
		}
		if m.tocMode {
			if item, ok := m.list.SelectedItem().(tocItem); ok {
				m.nav = m.nav.SelectStep(item.d.Step, len(m.descs))
				return m, m.renderSelected(false)
			}
			return m, nil
		}
		return m.moveTask(m.nav.JumpToTask(m.list.Index(), len(m.tasks)))
	}

	if m.focusOnList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		switch msg.String() {
		case "up", "k":
			m.viewport.LineUp(1)
		case "down", "j":
			m.viewport.LineDown(1)
		case "pgup", "b":
			if m.searchQuery != "" && len(m.matchLines) > 0 {
				m.jumpToMatch(-1)
			} else {
				m.viewport.HalfViewUp()
			}
		case "pgdown", "f":
			if m.searchQuery != "" && len(m.matchLines) > 0 {
				m.jumpToMatch(1)
			} else {
				m.viewport.HalfViewDown()
			}
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) currentFilter() index.Filter {
	return index.Filter{TaskType: m.taskType, Project: m.projFil}
}

// filterChanged applies the recomputed filter tuple and refreshes the
// task list when it actually differs.
func (m *Model) filterChanged() tea.Cmd {
	next := m.nav.ApplyFilter(m.currentFilter())
	if next == m.nav {
		return nil
	}
	m.nav = next
	return m.tasksCmd(m.nav.Filter)
}

func (m Model) moveTask(next NavState) (tea.Model, tea.Cmd) {
	if next == m.nav {
		return m, nil
	}
	m.nav = next
	m.resetTrajectory()
	if !m.tocMode {
		m.list.Select(m.nav.TaskIndex)
	}
	return m, tea.Batch(m.trajCmd(m.selectedTaskID()), m.renderSelected(false))
}

func (m Model) moveStep(next NavState) (tea.Model, tea.Cmd) {
	if next == m.nav {
		return m, nil
	}
	m.nav = next
	return m, m.renderSelected(false)
}

func (m *Model) resetTrajectory() {
	m.traj = nil
	m.trajTaskID = ""
	m.trajErr = nil
	m.descs = nil
	m.classifyErr = nil
	m.clearMatches()
	if m.tocMode {
		m.tocMode = false
		m.syncListItems()
	}
}

func (m *Model) applyTasks(tasks []index.Task) []tea.Cmd {
	m.tasks = tasks
	m.nav = m.nav.ClampTask(len(tasks))
	m.resetTrajectory()
	m.syncListItems()

	if len(tasks) == 0 {
		m.viewport.SetContent("No tasks available for the selected filters")
		return nil
	}
	m.list.Select(m.nav.TaskIndex)
	return []tea.Cmd{m.trajCmd(m.selectedTaskID())}
}

func (m *Model) syncListItems() {
	if m.tocMode {
		items := make([]list.Item, 0, len(m.descs))
		for _, d := range m.descs {
			items = append(items, tocItem{d: d})
		}
		m.list.Title = "Table of Contents"
		m.list.SetDelegate(tocDelegate{r: m.tocRender})
		m.list.SetItems(items)
		if m.nav.Focused() {
			m.list.Select(m.nav.SelectedStep - 1)
		} else {
			m.list.Select(0)
		}
		return
	}

	items := make([]list.Item, 0, len(m.tasks))
	for _, t := range m.tasks {
		items = append(items, taskItem{t: t})
	}
	m.list.Title = "Tasks"
	m.list.SetDelegate(list.NewDefaultDelegate())
	m.list.SetItems(items)
}

func (m *Model) syncTOC() {
	if m.tocMode {
		m.syncListItems()
	}
}

func (m *Model) selectedTaskID() string {
	if len(m.tasks) == 0 || m.nav.TaskIndex >= len(m.tasks) {
		return ""
	}
	return m.tasks[m.nav.TaskIndex].ID
}

func (m *Model) renderSelected(force bool) tea.Cmd {
	taskID := m.selectedTaskID()
	if taskID == "" {
		return nil
	}
	if m.trajErr != nil {
		m.viewport.SetContent(errTextStyle.Render("Could not load trajectory for " + taskID + ": " + m.trajErr.Error()))
		return nil
	}
	if m.traj == nil || m.trajTaskID != taskID {
		m.viewport.SetContent("Loading trajectory...")
		return nil
	}

	cacheKey := m.renderCacheKey(taskID)
	if !force {
		if cached, ok := m.rendered[cacheKey]; ok {
			m.setViewportFromRendered(cacheKey, cached, true)
			return nil
		}
	}

	m.rendering = true
	m.renderNonce++
	nonce := m.renderNonce

	traj := *m.traj
	descs := m.descs
	classifyErr := m.classifyErr
	nav := m.nav
	width := m.viewport.Width
	theme := m.cfg.Theme
	return func() tea.Msg {
		content := buildView(taskID, traj, descs, classifyErr, nav, width, theme)
		return renderMsg{cacheKey: cacheKey, rendered: content, nonce: nonce}
	}
}

// buildView assembles the whole right-pane content: summary panel plus
// either the focused step or every step in order.
func buildView(
	taskID string,
	traj trajectory.Trajectory,
	descs []trajectory.StepDescriptor,
	classifyErr error,
	nav NavState,
	width int,
	theme string,
) string {
	r := render.New(width, theme)

	var b strings.Builder
	b.WriteString(r.SummaryPanel(taskID, trajectory.Summarize(traj.Messages)))
	b.WriteByte('\n')

	if classifyErr != nil {
		b.WriteString(errTextStyle.Render("Cannot render steps: " + classifyErr.Error()))
		return b.String()
	}
	if len(traj.Messages) == 0 {
		b.WriteString(warnTextStyle.Render("No trajectory messages found"))
		return b.String()
	}

	if nav.Focused() {
		step := nav.SelectedStep
		b.WriteString(fmt.Sprintf("Step %d of %d (esc for all steps, n/p to move)\n\n", step, len(descs)))
		b.WriteString(r.Step(descs[step-1], traj.Messages[step-1], true))
		return b.String()
	}

	fmt.Fprintf(&b, "Trajectory Steps (%d messages)\n\n", len(traj.Messages))
	for i, d := range descs {
		b.WriteString(r.Step(d, traj.Messages[i], false))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderCacheKey(taskID string) string {
	return fmt.Sprintf("%s|w=%d|s=%d", taskID, m.viewport.Width, m.nav.SelectedStep)
}

func highlightCacheKey(cacheKey, query string) string {
	return cacheKey + "|q=" + query
}

// refreshViewport re-applies search marking to the current rendered
// content without a rebuild; falls back to a render when the cache is
// cold.
func (m *Model) refreshViewport(gotoTop bool) tea.Cmd {
	taskID := m.selectedTaskID()
	if taskID == "" || m.traj == nil {
		return nil
	}
	cacheKey := m.renderCacheKey(taskID)
	if rendered, ok := m.rendered[cacheKey]; ok {
		m.setViewportFromRendered(cacheKey, rendered, gotoTop)
		return nil
	}
	return m.renderSelected(false)
}

func (m *Model) setViewportFromRendered(cacheKey, rendered string, gotoTop bool) {
	content := rendered
	query := strings.TrimSpace(m.searchQuery)
	if query != "" {
		hKey := highlightCacheKey(cacheKey, query)
		res, ok := m.highlighted[hKey]
		if !ok {
			res = highlight.Mark(rendered, []string{query}, func(s string) string {
				return searchMatchStyle.Render(s)
			})
			m.highlighted[hKey] = res
		}
		content = res.Text
		m.setMatchMeta(res)
	} else {
		m.clearMatches()
	}

	m.viewport.SetContent(content)
	if gotoTop {
		m.viewport.GotoTop()
		if len(m.matchLines) > 0 {
			m.matchIndex = 0
			m.viewport.SetYOffset(m.clampViewportOffset(m.matchLines[0]))
		}
	}
}

func (m *Model) setMatchMeta(res highlight.Result) {
	if res.Count == 0 || len(res.LineIndex) == 0 {
		m.clearMatches()
		return
	}
	m.matchCount = res.Count
	m.matchLines = append(m.matchLines[:0], res.LineIndex...)
	if m.matchIndex < 0 || m.matchIndex >= len(m.matchLines) {
		m.matchIndex = 0
	}
}

func (m *Model) clearMatches() {
	m.matchLines = nil
	m.matchCount = 0
	m.matchIndex = -1
}

func (m *Model) jumpToMatch(delta int) {
	if len(m.matchLines) == 0 {
		m.status = "No search matches in this trajectory"
		return
	}

	if m.matchIndex < 0 || m.matchIndex >= len(m.matchLines) {
		m.matchIndex = 0
	} else if delta > 0 {
		m.matchIndex = (m.matchIndex + 1) % len(m.matchLines)
	} else if delta < 0 {
		m.matchIndex = (m.matchIndex - 1 + len(m.matchLines)) % len(m.matchLines)
	}

	m.viewport.SetYOffset(m.clampViewportOffset(m.matchLines[m.matchIndex]))
	m.status = fmt.Sprintf("Match %d/%d", m.matchIndex+1, m.matchCount)
}

func (m *Model) clampViewportOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	maxOffset := m.viewport.TotalLineCount() - m.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	left, right := m.paneWidths()

	bodyHeight := m.height - 3
	if bodyHeight < 8 {
		bodyHeight = 8
	}

	m.list.SetSize(left-2, bodyHeight-2)
	m.viewport.Width = right - 2
	m.viewport.Height = bodyHeight - 2
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Starting..."
	}
	if m.resultsErr != nil {
		return errTextStyle.Render("Results file not found: "+m.resultsErr.Error()) +
			"\n\nFix the -results path (or SWE_EVAL_BASE) and restart. Press q to quit.\n"
	}

	status := m.statusLine()
	left, right := m.paneWidths()
	leftPane := panelStyle(m.focusOnList).Width(left).Height(m.height - 3).Render(m.list.View())
	rightPane := panelStyle(!m.focusOnList).Width(right).Height(m.height - 3).Render(m.viewport.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	helpView := m.help.View(m.keys)
	switch {
	case m.searchMode:
		helpView = m.search.View() + "  " + helpView
	case m.projectMode:
		helpView = m.project.View() + "  " + helpView
	default:
		if m.searchQuery != "" {
			helpView = "search: " + m.searchQuery + "  " + helpView
		}
		if m.projFil != "" {
			helpView = "project: " + m.projFil + "  " + helpView
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		status,
		body,
		helpView,
	)
}

func (m Model) statusLine() string {
	status := ""
	if m.loading {
		status = m.spinner.View() + " loading results..."
	} else {
		status = render.ResultsLine(m.results)
	}

	if len(m.tasks) > 0 {
		status += fmt.Sprintf("  |  Task %d of %d  [%s]", m.nav.TaskIndex+1, len(m.tasks), m.taskType)
	} else if !m.loading {
		status += fmt.Sprintf("  |  no tasks  [%s]", m.taskType)
	}
	if m.nav.Focused() {
		status += fmt.Sprintf("  [step %d/%d]", m.nav.SelectedStep, len(m.descs))
	}
	if m.searchQuery != "" || m.searchMode {
		status += "  [search]"
		if strings.TrimSpace(m.searchQuery) != "" {
			status += fmt.Sprintf(" %d matches", m.matchCount)
		}
	}
	if m.rendering {
		status += "  [rendering]"
	}
	if strings.TrimSpace(m.status) != "" {
		status += "  " + shorten(strings.TrimSpace(m.status), 60)
	}
	if m.err != nil {
		status += "  err=" + m.err.Error()
	}
	return statusStyle.Render(shorten(status, m.width*2))
}

func (m *Model) paneWidths() (int, int) {
	left := m.width / 3
	if left < 32 {
		left = 32
	}
	if left > m.width-32 {
		left = m.width - 32
	}
	if left < 20 {
		left = 20
	}
	right := m.width - left - 1
	if right < 20 {
		right = 20
	}
	return left, right
}

func shorten(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
