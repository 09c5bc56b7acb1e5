package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/habitual/internal/cli/formatter"
	"github.com/alexanderramin/habitual/internal/domain"
	"github.com/alexanderramin/habitual/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type boardMode int

const (
	modeBrowse boardMode = iota
	modeEditName
	modeEditTime
	modeConfirmDelete
	modeHistory
)

type habitsLoadedMsg struct{ err error }

type dayCycledMsg struct {
	name   string
	day    domain.DateKey
	status domain.DayStatus
	err    error
}

type habitAddedMsg struct {
	habit *domain.Habit
	err   error
}

type habitRemovedMsg struct {
	name    string
	deleted bool
	err     error
}

// editCommittedMsg carries the result of a debounced name or time edit.
type editCommittedMsg struct {
	habit *domain.Habit
	err   error
}

// boardModel is the interactive habit board: a list of habits, the
// selected habit's 90-day grid with a day cursor, inline name and time
// editing, and a one-year history overlay.
type boardModel struct {
	app     *App
	ctx     context.Context
	tracker *service.Tracker
	keys    boardKeyMap

	habits  []*domain.Habit
	sel     int
	cursor  domain.DateKey
	mode    boardMode
	loading bool

	input   textinput.Model
	history viewport.Model
	// drafts holds typed names and times, keyed "id:name" or "id:time",
	// until the debounced write lands.
	drafts map[string]string

	width  int
	height int
	status string
	err    error

	mu       sync.Mutex
	notify   func(tea.Msg)
	lateErrs []error
}

func newBoardModel(ctx context.Context, app *App) *boardModel {
	m := &boardModel{
		app:     app,
		ctx:     ctx,
		keys:    newBoardKeyMap(),
		loading: true,
		drafts:  make(map[string]string),
		width:   80,
		height:  24,
	}
	m.tracker = service.NewTracker(app.Habits, app.EditDelay, service.WithCommitHook(m.onCommit))

	m.input = textinput.New()
	m.input.Prompt = "› "
	m.input.CharLimit = maxLabelLen

	m.history = viewport.New(m.width, m.height-2)
	m.history.KeyMap = historyViewportKeyMap()
	return m
}

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive habit board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(context.Background(), app)
		},
	}
}

// runBoard runs the board until the user quits, then writes any edit still
// waiting for its quiet period.
func runBoard(ctx context.Context, app *App) error {
	m := newBoardModel(ctx, app)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.setNotify(p.Send)

	_, runErr := p.Run()
	m.setNotify(nil)
	return errors.Join(runErr, m.flush())
}

func (m *boardModel) setNotify(fn func(tea.Msg)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = fn
}

// onCommit runs on the debounce timer goroutine.
func (m *boardModel) onCommit(h *domain.Habit, err error) {
	m.mu.Lock()
	notify := m.notify
	if notify == nil && err != nil {
		m.lateErrs = append(m.lateErrs, err)
	}
	m.mu.Unlock()

	if notify != nil {
		notify(editCommittedMsg{habit: h, err: err})
	}
}

// flush commits waiting edits and returns the errors of edits that
// finished with no program left to report them to.
func (m *boardModel) flush() error {
	m.tracker.Flush()

	m.mu.Lock()
	errs := m.lateErrs
	m.lateErrs = nil
	m.mu.Unlock()

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("saving edits: %w", err)
	}
	return nil
}

func (m *boardModel) Init() tea.Cmd {
	return m.load()
}

func (m *boardModel) load() tea.Cmd {
	return func() tea.Msg {
		return habitsLoadedMsg{err: m.tracker.Load(m.ctx)}
	}
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.history.Width = msg.Width
		m.history.Height = max(msg.Height-2, 1)
		return m, nil

	case habitsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.refresh()
		return m, nil

	case dayCycledMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.refresh()
		m.setStatus(fmt.Sprintf("%s %s: %s", msg.name, formatter.RelativeDay(msg.day, m.app.today()), msg.status.Label()))
		return m, nil

	case habitAddedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.refresh()
		m.selectID(msg.habit.ID)
		m.resetCursor()
		m.setStatus("Added " + msg.habit.DisplayName())
		cmd := m.startEdit(modeEditName)
		if msg.habit.Name == domain.DefaultHabitName {
			m.input.SetValue("")
		}
		return m, cmd

	case habitRemovedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if !msg.deleted {
			m.setError(fmt.Errorf("%s was already gone", msg.name))
			return m, m.load()
		}
		m.refresh()
		m.resetCursor()
		m.setStatus("Deleted " + msg.name)
		return m, nil

	case editCommittedMsg:
		if msg.err != nil {
			clear(m.drafts)
			m.setError(msg.err)
			return m, m.load()
		}
		m.settleDrafts(msg.habit)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeEditName, modeEditTime:
			return m.updateEdit(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		case modeHistory:
			return m.updateHistory(msg)
		}
		return m.updateBrowse(msg)
	}

	if m.mode == modeEditName || m.mode == modeEditTime {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *boardModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Add):
		return m, m.add()
	}

	h := m.selected()
	if h == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.sel > 0 {
			m.sel--
			m.resetCursor()
		}
	case key.Matches(msg, m.keys.Down):
		if m.sel < len(m.habits)-1 {
			m.sel++
			m.resetCursor()
		}
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.WeekBack):
		m.moveCursor(-7)
	case key.Matches(msg, m.keys.WeekFwd):
		m.moveCursor(7)
	case key.Matches(msg, m.keys.Today):
		m.resetCursor()
	case key.Matches(msg, m.keys.Cycle):
		return m, m.cycle(h, m.cursor)
	case key.Matches(msg, m.keys.Rename):
		return m, m.startEdit(modeEditName)
	case key.Matches(msg, m.keys.EditTime):
		return m, m.startEdit(modeEditTime)
	case key.Matches(msg, m.keys.Delete):
		m.mode = modeConfirmDelete
	case key.Matches(msg, m.keys.History):
		m.openHistory(h)
	}
	return m, nil
}

func (m *boardModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Done) {
		m.input.Blur()
		m.mode = modeBrowse
		return m, nil
	}

	h := m.selected()
	if h == nil {
		m.mode = modeBrowse
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		if m.mode == modeEditName {
			m.drafts[h.ID+":name"] = value
			m.tracker.EditName(m.ctx, h.ID, value)
		} else {
			m.drafts[h.ID+":time"] = value
			m.tracker.EditTime(m.ctx, h.ID, value)
		}
	}
	return m, cmd
}

func (m *boardModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.mode = modeBrowse
		if h := m.selected(); h != nil {
			return m, m.remove(h)
		}
	case key.Matches(msg, m.keys.Cancel), msg.Type == tea.KeyCtrlC:
		m.mode = modeBrowse
	}
	return m, nil
}

func (m *boardModel) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Close) || msg.Type == tea.KeyCtrlC {
		m.mode = modeBrowse
		return m, nil
	}
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

// ── Commands ─────────────────────────────────────────────────────────────────

func (m *boardModel) cycle(h *domain.Habit, day domain.DateKey) tea.Cmd {
	id, name := h.ID, m.displayName(h)
	return func() tea.Msg {
		status, err := m.tracker.CycleDay(m.ctx, id, day)
		return dayCycledMsg{name: name, day: day, status: status, err: err}
	}
}

func (m *boardModel) add() tea.Cmd {
	return func() tea.Msg {
		h, err := m.tracker.Add(m.ctx, "", "")
		return habitAddedMsg{habit: h, err: err}
	}
}

func (m *boardModel) remove(h *domain.Habit) tea.Cmd {
	id, name := h.ID, m.displayName(h)
	return func() tea.Msg {
		deleted, err := m.tracker.Remove(m.ctx, id)
		return habitRemovedMsg{name: name, deleted: deleted, err: err}
	}
}

// ── State helpers ────────────────────────────────────────────────────────────

func (m *boardModel) refresh() {
	m.habits = m.tracker.Habits()
	if m.sel >= len(m.habits) {
		m.sel = max(len(m.habits)-1, 0)
	}
	if h := m.selected(); h != nil && !m.inWindow(h, m.cursor) {
		m.resetCursor()
	}
}

func (m *boardModel) selected() *domain.Habit {
	if m.sel < 0 || m.sel >= len(m.habits) {
		return nil
	}
	return m.habits[m.sel]
}

func (m *boardModel) selectID(id string) {
	for i, h := range m.habits {
		if h.ID == id {
			m.sel = i
			return
		}
	}
}

func (m *boardModel) inWindow(h *domain.Habit, k domain.DateKey) bool {
	if k == "" {
		return false
	}
	last := h.StartDate.AddDays(domain.ForwardWindowDays - 1)
	return !k.Before(h.StartDate) && !k.After(last)
}

// resetCursor puts the day cursor on today, or on the nearest end of the
// selected habit's window when today falls outside it.
func (m *boardModel) resetCursor() {
	h := m.selected()
	if h == nil {
		m.cursor = ""
		return
	}
	today := m.app.today()
	last := h.StartDate.AddDays(domain.ForwardWindowDays - 1)
	switch {
	case today.Before(h.StartDate):
		m.cursor = h.StartDate
	case today.After(last):
		m.cursor = last
	default:
		m.cursor = today
	}
}

func (m *boardModel) moveCursor(days int) {
	h := m.selected()
	if h == nil {
		return
	}
	if next := m.cursor.AddDays(days); m.inWindow(h, next) {
		m.cursor = next
	}
}

func (m *boardModel) startEdit(mode boardMode) tea.Cmd {
	h := m.selected()
	if h == nil {
		return nil
	}
	m.mode = mode
	if mode == modeEditName {
		m.input.Placeholder = domain.DefaultHabitName
		m.input.SetValue(m.draftOr(h.ID+":name", h.Name))
	} else {
		m.input.Placeholder = "e.g. 7:00 AM"
		m.input.SetValue(m.draftOr(h.ID+":time", h.Time))
	}
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *boardModel) openHistory(h *domain.Habit) {
	m.history.SetContent(formatter.FormatHabitHistory(h, m.app.today()))
	m.history.GotoTop()
	m.mode = modeHistory
}

// settleDrafts drops drafts that the stored habit now matches.
func (m *boardModel) settleDrafts(h *domain.Habit) {
	if h == nil {
		return
	}
	if v, ok := m.drafts[h.ID+":name"]; ok && v == h.Name {
		delete(m.drafts, h.ID+":name")
	}
	if v, ok := m.drafts[h.ID+":time"]; ok && v == h.Time {
		delete(m.drafts, h.ID+":time")
	}
}

func (m *boardModel) draftOr(k, fallback string) string {
	if v, ok := m.drafts[k]; ok {
		return v
	}
	return fallback
}

func (m *boardModel) displayName(h *domain.Habit) string {
	if name := m.draftOr(h.ID+":name", h.Name); name != "" {
		return name
	}
	return domain.DefaultHabitName
}

func (m *boardModel) setStatus(s string) {
	m.status = s
	m.err = nil
}

func (m *boardModel) setError(err error) {
	m.err = err
	m.status = ""
}

// ── View ─────────────────────────────────────────────────────────────────────

func (m *boardModel) View() string {
	if m.loading {
		return formatter.Dim("Loading habits…")
	}
	if m.mode == modeHistory {
		return m.history.View() + "\n" + m.renderHints()
	}

	today := m.app.today()
	var b strings.Builder

	b.WriteString(formatter.Header("HABITUAL"))
	b.WriteString("  ")
	b.WriteString(formatter.Dim(today.Time().Format("Mon Jan 2, 2006")))
	b.WriteString("\n\n")

	h := m.selected()
	if h == nil {
		b.WriteString(formatter.Dim("No habits yet. Press a to add one."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.renderList(today))
		b.WriteString("\n")
		b.WriteString(m.renderCard(h, today))
		b.WriteString("\n")
	}

	if m.mode == modeConfirmDelete && h != nil {
		b.WriteString(formatter.StyleRed.Render(fmt.Sprintf("Delete %q and all of its history? (y/n)", m.displayName(h))))
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *boardModel) renderList(today domain.DateKey) string {
	var b strings.Builder
	for i, h := range m.habits {
		marker := "  "
		name := m.displayName(h)
		if i == m.sel {
			marker = formatter.StyleHeader.Render("▸ ")
			name = formatter.Bold(name)
		}
		line := marker + name
		if t := m.draftOr(h.ID+":time", h.Time); t != "" {
			line += "  " + formatter.Dim(t)
		}
		line += "  " + formatter.StreakBadge(m.tracker.Streak(h.ID, today))
		line += "  " + formatter.StatusGlyph(h.TrackedDays.Status(today), true)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *boardModel) renderCard(h *domain.Habit, today domain.DateKey) string {
	var b strings.Builder

	name := formatter.Bold(m.displayName(h))
	if m.mode == modeEditName {
		name = m.input.View()
	}
	timeLabel := m.draftOr(h.ID+":time", h.Time)
	if timeLabel == "" {
		timeLabel = formatter.Dim("--")
	}
	if m.mode == modeEditTime {
		timeLabel = m.input.View()
	}

	fmt.Fprintf(&b, "%s\n", name)
	fmt.Fprintf(&b, "%s %s\n", formatter.Dim("Time:   "), timeLabel)
	fmt.Fprintf(&b, "%s %s\n", formatter.Dim("Streak: "), formatter.StreakBadge(m.tracker.Streak(h.ID, today)))
	b.WriteString("\n")

	grid := domain.ForwardWindow(h.StartDate, today, h.TrackedDays)
	b.WriteString(formatter.FormatForwardGrid(grid, m.cursor))
	b.WriteString("\n\n")

	if m.cursor != "" {
		fmt.Fprintf(&b, "%s %s  %s\n",
			formatter.Dim(string(m.cursor)),
			formatter.Dim("("+formatter.RelativeDay(m.cursor, today)+")"),
			formatter.StatusPill(h.TrackedDays.Status(m.cursor)))
	}
	return formatter.RenderBox("", strings.TrimRight(b.String(), "\n"))
}

func (m *boardModel) renderStatusBar() string {
	var b strings.Builder
	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(formatter.StyleGreen.Render(m.status))
		b.WriteString("\n")
	}
	if n := m.tracker.PendingEdits(); n > 0 {
		b.WriteString(formatter.Dim("Saving…"))
		b.WriteString("\n")
	}
	b.WriteString(m.renderHints())
	return b.String()
}

func (m *boardModel) renderHints() string {
	var hints []string
	for _, k := range m.keys.ShortHelp(m.mode) {
		hints = append(hints, formatter.Dim(k.Help().Key+": "+k.Help().Desc))
	}
	return strings.Join(hints, "  ")
}
