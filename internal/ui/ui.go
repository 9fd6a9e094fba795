package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"planner/internal/calendar"
	"planner/internal/config"
	"planner/internal/tasks"
)

type pane int

const (
	paneList pane = iota
	paneCalendar
)

// state is everything the views render from.
type state struct {
	store  *tasks.Store
	filter tasks.FilterMode
	sort   tasks.SortMode
	opts   tasks.FilterOptions
	month  calendar.Month
	now    time.Time
}

func (s state) today() tasks.Date {
	return tasks.DateOf(s.now)
}

// visible is the filtered, sorted list the task pane shows.
func (s state) visible() []tasks.Task {
	list := tasks.Filter(s.store.Tasks(), s.filter, s.today(), s.opts)
	tasks.Sort(list, s.sort)
	return list
}

type clockTickMsg time.Time

type Model struct {
	state      state
	cfg        config.Config
	keys       keyMap
	help       help.Model
	clock      func() time.Time
	focus      pane
	cursor     int
	day        int
	form       *formState
	confirmDel bool
	pendingDel *tasks.Task
	notice     string
	status     string
	width      int
}

type Option func(*Model)

// WithClock replaces time.Now for the clock display and date filters.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.clock = now }
}

func New(store *tasks.Store, cfg config.Config, opts ...Option) Model {
	m := Model{
		cfg:    cfg,
		keys:   newKeyMap(cfg.Keys),
		help:   help.New(),
		clock:  time.Now,
		status: fmt.Sprintf("Press '%s' to add, '%s' for help.", cfg.Keys.Add, cfg.Keys.Help),
	}
	for _, opt := range opts {
		opt(&m)
	}
	now := m.clock()
	m.state = state{
		store:  store,
		filter: cfg.Filter(),
		sort:   cfg.Sort(),
		opts:   tasks.FilterOptions{TodayIncludesUndated: cfg.TodayIncludesUndated},
		month:  calendar.MonthOf(tasks.DateOf(now)),
		now:    now,
	}
	m.day = now.Day()
	return m
}

func Run(store *tasks.Store, cfg config.Config) error {
	program := tea.NewProgram(New(store, cfg), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// tick fires on each wall-clock minute so the clock display stays current.
func tick() tea.Cmd {
	return tea.Every(time.Minute, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clockTickMsg:
		m.state.now = m.clock()
		return m, tick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Add):
		return m.openForm(tasks.Draft{}, false)
	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(tasks.FilterAll)
	case key.Matches(msg, m.keys.FilterToday):
		m.setFilter(tasks.FilterToday)
	case key.Matches(msg, m.keys.FilterWeek):
		m.setFilter(tasks.FilterWeek)
	case key.Matches(msg, m.keys.FilterDone):
		m.setFilter(tasks.FilterCompleted)
	case key.Matches(msg, m.keys.Sort):
		m.state.sort = m.state.sort.Next()
		m.cursor = 0
		m.status = "Sorted by " + string(m.state.sort)
	case key.Matches(msg, m.keys.Focus):
		if m.focus == paneList {
			m.focus = paneCalendar
		} else {
			m.focus = paneList
		}
	case key.Matches(msg, m.keys.PrevMonth):
		m.setMonth(m.state.month.Prev())
	case key.Matches(msg, m.keys.NextMonth):
		m.setMonth(m.state.month.Next())
	default:
		if m.focus == paneCalendar {
			return m.updateCalendar(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.state.visible()
	switch {
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(visible))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(visible))
	case key.Matches(msg, m.keys.Toggle):
		if len(visible) == 0 {
			return m, nil
		}
		t, err := m.state.store.Toggle(visible[clampCursor(m.cursor, len(visible))].ID)
		if err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.cursor = clampCursor(m.cursor, len(m.state.visible()))
		if t.Completed {
			m.status = m.withSaveErr("Completed task")
		} else {
			m.status = m.withSaveErr("Reopened task")
		}
	case key.Matches(msg, m.keys.Delete):
		if len(visible) == 0 {
			return m, nil
		}
		t := visible[clampCursor(m.cursor, len(visible))]
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Are you sure you want to delete \"%s\"? y/n", t.Text)
	case key.Matches(msg, m.keys.Edit):
		if len(visible) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		t, err := m.state.store.Take(visible[clampCursor(m.cursor, len(visible))].ID)
		if err != nil {
			m.status = fmt.Sprintf("edit failed: %v", err)
			return m, nil
		}
		m.cursor = clampCursor(m.cursor, len(m.state.visible()))
		return m.openForm(tasks.DraftOf(t), true)
	}
	return m, nil
}

func (m Model) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	days := m.state.month.Days()
	switch {
	case key.Matches(msg, m.keys.Left):
		m.day = max(1, m.day-1)
	case key.Matches(msg, m.keys.Right):
		m.day = min(days, m.day+1)
	case key.Matches(msg, m.keys.Up):
		if m.day > 7 {
			m.day -= 7
		}
	case key.Matches(msg, m.keys.Down):
		if m.day+7 <= days {
			m.day += 7
		}
	case key.Matches(msg, m.keys.Confirm):
		m.notice = calendar.DayNotice(m.state.store.Tasks(), m.state.month.Day(m.day))
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(pressed string) (tea.Model, tea.Cmd) {
	switch pressed {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		err := m.state.store.Remove(m.pendingDel.ID)
		m.confirmDel = false
		m.pendingDel = nil
		if err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			return m, nil
		}
		m.cursor = clampCursor(m.cursor, len(m.state.visible()))
		m.status = m.withSaveErr("Deleted task")
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) setFilter(f tasks.FilterMode) {
	m.state.filter = f
	m.cursor = 0
	m.status = "Showing " + string(f)
}

func (m *Model) setMonth(month calendar.Month) {
	m.state.month = month
	m.day = min(max(m.day, 1), month.Days())
	m.status = month.String()
}

// selectTask moves the list cursor onto id if it is visible.
func (m *Model) selectTask(id int64) {
	for i, t := range m.state.visible() {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.cursor = clampCursor(m.cursor, len(m.state.visible()))
}

// withSaveErr appends a warning when the last flush did not reach storage.
func (m Model) withSaveErr(msg string) string {
	if err := m.state.store.SaveErr(); err != nil {
		return fmt.Sprintf("%s (not saved: %v)", msg, errors.Unwrap(err))
	}
	return msg
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
