package ui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/calendar"
	"planner/internal/config"
	"planner/internal/storage"
	"planner/internal/tasks"
)

var fixedNow = time.Date(2025, time.December, 10, 9, 5, 0, 0, time.UTC)

func newTestModel(t *testing.T) (Model, *tasks.Store) {
	t.Helper()

	dir := t.TempDir()
	cfg, err := config.LoadOrCreate(filepath.Join(dir, config.DefaultConfigFileName))
	require.NoError(t, err)
	slot, err := storage.OpenFile(filepath.Join(dir, "data"))
	require.NoError(t, err)

	clock := func() time.Time { return fixedNow }
	store := tasks.Open(slot, tasks.WithClock(clock))
	return New(store, cfg, WithClock(clock)), store
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyPress(k))
		m = next.(Model)
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m = press(m, string(r))
	}
	return m
}

func addTask(m Model, text string) Model {
	m = press(m, "a")
	m = typeText(m, text)
	return press(m, "enter")
}

func plainView(m Model) string {
	return ansi.Strip(m.View())
}

func TestAddTask(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	m = addTask(m, "write tests")

	require.Equal(t, 1, store.Len())
	got := store.Tasks()[0]
	assert.Equal(t, "write tests", got.Text)
	assert.Equal(t, tasks.PriorityMedium, got.Priority)
	assert.Equal(t, "personal", got.Category)
	assert.Nil(t, got.Due)
	assert.Nil(t, m.form)
	assert.Equal(t, "Added task", m.status)
}

func TestAddEmptyTaskKeepsStore(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	m = press(m, "a")
	m = typeText(m, "   ")
	m = press(m, "enter")

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, "Please enter a task description", m.status)
	assert.NotNil(t, m.form)

	m = press(m, "esc")
	assert.Nil(t, m.form)
	assert.Equal(t, 0, store.Len())
}

func TestAddTaskWithAllFields(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	m = press(m, "a")
	m = typeText(m, "pay rent")
	m = press(m, "tab", "k")
	m = press(m, "tab")
	m = typeText(m, "-home")
	m = press(m, "tab")
	m = typeText(m, "2025-12-12")
	m = press(m, "enter")

	require.Equal(t, 1, store.Len())
	got := store.Tasks()[0]
	assert.Equal(t, tasks.PriorityHigh, got.Priority)
	assert.Equal(t, "personal-home", got.Category)
	require.NotNil(t, got.Due)
	assert.Equal(t, "2025-12-12", got.Due.String())
}

func TestAddTaskRejectsBadDueDate(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	m = press(m, "a")
	m = typeText(m, "bad date")
	m = press(m, "shift+tab")
	m = typeText(m, "12/12/25")
	m = press(m, "enter")

	assert.Equal(t, 0, store.Len())
	assert.Contains(t, m.status, "due date invalid")
}

func TestToggleTask(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	m = addTask(m, "stretch")
	m = press(m, " ")

	got := store.Tasks()[0]
	assert.True(t, got.Completed)
	assert.NotNil(t, got.CompletedAt)
	assert.Equal(t, "Completed task", m.status)

	m = press(m, " ")
	assert.False(t, store.Tasks()[0].Completed)
	assert.Equal(t, "Reopened task", m.status)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	m = addTask(m, "maybe delete")

	m = press(m, "d")
	assert.True(t, m.confirmDel)
	m = press(m, "x")
	assert.True(t, m.confirmDel, "unrelated keys keep the prompt open")
	m = press(m, "n")
	assert.False(t, m.confirmDel)
	assert.Equal(t, 1, store.Len())

	m = press(m, "d", "y")
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, "Deleted task", m.status)
}

func TestEditIsDeleteAndPrefill(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	m = press(m, "a")
	m = typeText(m, "draft")
	m = press(m, "tab", "k", "enter")
	original := store.Tasks()[0]

	m = press(m, "e")
	require.NotNil(t, m.form)
	assert.True(t, m.form.editing)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, "draft", m.form.text.Value())
	assert.Equal(t, tasks.PriorityHigh, m.form.priority)

	m = typeText(m, " v2")
	m = press(m, "enter")

	require.Equal(t, 1, store.Len())
	edited := store.Tasks()[0]
	assert.Equal(t, "draft v2", edited.Text)
	assert.Equal(t, tasks.PriorityHigh, edited.Priority)
	assert.NotEqual(t, original.ID, edited.ID)
}

func TestFilterAndSortKeys(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	m = addTask(m, "open task")

	m = press(m, "4")
	assert.Equal(t, tasks.FilterCompleted, m.state.filter)
	assert.Contains(t, plainView(m), "No completed tasks yet!")

	m = press(m, "1")
	assert.Contains(t, plainView(m), "open task")

	m = press(m, "s")
	assert.Equal(t, tasks.SortDue, m.state.sort)
	m = press(m, "s", "s", "s")
	assert.Equal(t, tasks.SortAdded, m.state.sort)
}

func TestMonthNavigationWraps(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	require.Equal(t, calendar.Month{Year: 2025, Month: time.December}, m.state.month)

	m = press(m, "]")
	assert.Equal(t, calendar.Month{Year: 2026, Month: time.January}, m.state.month)
	assert.Contains(t, plainView(m), "January 2026")

	m = press(m, "[", "[")
	assert.Equal(t, calendar.Month{Year: 2025, Month: time.November}, m.state.month)
}

func TestCalendarDayNotice(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	m = press(m, "a")
	m = typeText(m, "dentist")
	m = press(m, "shift+tab")
	m = typeText(m, "2025-12-10")
	m = press(m, "enter")

	m = press(m, "tab")
	require.Equal(t, paneCalendar, m.focus)
	m = press(m, "enter")
	assert.Contains(t, m.notice, "Tasks for Dec 10, 2025:")
	assert.Contains(t, m.notice, "• dentist (medium)")
	assert.Contains(t, plainView(m), "dentist")

	m = press(m, "l")
	assert.Empty(t, m.notice, "any key dismisses the notice")
	assert.Equal(t, 10, m.day)

	m = press(m, "l", "enter")
	assert.Equal(t, "No tasks scheduled for Dec 11, 2025", m.notice)
}

func TestViewShowsStatsClockAndUpcoming(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	m = addTask(m, "pending one")
	m = addTask(m, "finished")
	m = press(m, " ")
	_, err := store.Add(tasks.Draft{Text: "fire drill", Priority: tasks.PriorityUrgent, Due: &tasks.Date{Year: 2025, Month: time.December, Day: 20}})
	require.NoError(t, err)

	view := plainView(m)
	assert.Contains(t, view, "Wednesday, December 10, 2025")
	assert.Contains(t, view, "9:05 AM")
	assert.Contains(t, view, "Completed 1 • Pending 2 • Urgent 1")
	assert.Contains(t, view, "Upcoming Events")
	assert.Contains(t, view, "Dec 20, 2025  fire drill")
	assert.Contains(t, view, "20*")
}

func TestOverdueRowIsFlagged(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	_, err := store.Add(tasks.Draft{Text: "late", Due: &tasks.Date{Year: 2025, Month: time.December, Day: 1}})
	require.NoError(t, err)

	assert.Contains(t, plainView(m), "Dec 1, 2025 overdue")

	_, err = store.Toggle(store.Tasks()[0].ID)
	require.NoError(t, err)
	assert.NotContains(t, plainView(m), "overdue")
}

func TestClockTickRefreshesNow(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	later := fixedNow.Add(time.Minute)
	m.clock = func() time.Time { return later }

	next, cmd := m.Update(clockTickMsg(later))
	m = next.(Model)
	assert.Equal(t, later, m.state.now)
	assert.NotNil(t, cmd)
	assert.Contains(t, plainView(m), "9:06 AM")
}

func TestSafeRenderIsolatesPanics(t *testing.T) {
	t.Parallel()

	out := safeRender("calendar", func() string { panic("boom") })
	assert.Equal(t, "Error loading calendar", ansi.Strip(out))
	assert.Equal(t, "ok", safeRender("stats", func() string { return "ok" }))
}

func TestHelpToggle(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	short := plainView(m)
	m = press(m, "?")
	assert.True(t, m.help.ShowAll)
	assert.True(t, strings.Contains(plainView(m), "prev month"))
	assert.NotContains(t, short, "prev month")
}

func TestViewNeverEmitsStoredEscapes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := config.LoadOrCreate(filepath.Join(dir, config.DefaultConfigFileName))
	require.NoError(t, err)
	slot, err := storage.OpenFile(filepath.Join(dir, "data"))
	require.NoError(t, err)
	require.NoError(t, slot.Put(tasks.SlotKey, []byte(`[{"id": 1,
		"text": "evil\u001b[2J\u001b]0;pwned\u0007", "priority": "urgent",
		"category": "\u001b[5mwork", "dueDate": "2025-12-10", "completed": false,
		"createdAt": "2025-12-01T08:00:00Z", "completedAt": null}]`)))

	clock := func() time.Time { return fixedNow }
	m := New(tasks.Open(slot, tasks.WithClock(clock)), cfg, WithClock(clock))
	m = press(m, "tab", "enter")
	require.NotEmpty(t, m.notice)

	view := m.View()
	assert.Contains(t, ansi.Strip(view), "evil")
	for _, seq := range []string{"\x1b[2J", "\x1b]0;", "pwned\a", "\x1b[5m"} {
		assert.NotContains(t, view, seq)
	}
}

func TestCtrlCQuitsFromEveryMode(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	m = addTask(m, "keep me")

	states := map[string]Model{
		"browse": m,
		"form":   press(m, "a"),
		"delete": press(m, "d"),
		"notice": press(m, "tab", "enter"),
	}
	for name, s := range states {
		_, cmd := s.Update(keyPress("ctrl+c"))
		require.NotNil(t, cmd, name)
		assert.IsType(t, tea.QuitMsg{}, cmd(), name)
	}
	assert.Equal(t, 1, store.Len())
}

func TestEditKeepsEmptyCategory(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	_, err := store.Add(tasks.Draft{Text: "no category"})
	require.NoError(t, err)

	m = press(m, "e")
	require.NotNil(t, m.form)
	assert.Empty(t, m.form.category.Value())
	assert.Contains(t, plainView(m), "Edit task")
	assert.Contains(t, plainView(m), "> task")

	m = press(m, "enter")
	require.Equal(t, 1, store.Len())
	assert.Empty(t, store.Tasks()[0].Category)
}
