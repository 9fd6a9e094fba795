package ui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/lipgloss"
	humanize "github.com/dustin/go-humanize"

	"planner/internal/calendar"
	"planner/internal/tasks"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5252"))
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5252")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	todayStyle    = lipgloss.NewStyle().Underline(true).Bold(true)
	hasTasksStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4a6fa5")).Bold(true)
	activeStyle   = lipgloss.NewStyle().Reverse(true)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedStyle  = panelStyle.BorderForeground(lipgloss.Color("#4a6fa5"))
	noticeStyle   = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(0, 1)
)

var priorityColors = map[tasks.Priority]lipgloss.Color{
	tasks.PriorityUrgent: lipgloss.Color("#ff5252"),
	tasks.PriorityHigh:   lipgloss.Color("#ff9800"),
	tasks.PriorityMedium: lipgloss.Color("#4caf50"),
	tasks.PriorityLow:    lipgloss.Color("#9e9e9e"),
}

func priorityStyle(p tasks.Priority) lipgloss.Style {
	c, ok := priorityColors[p]
	if !ok {
		c = lipgloss.Color("#4a6fa5")
	}
	return lipgloss.NewStyle().Foreground(c)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(safeRender("clock", m.renderClock))
	b.WriteString("\n")
	b.WriteString(safeRender("stats", m.renderStats))
	b.WriteString("\n\n")

	list := safeRender("tasks", m.renderTaskPane)
	cal := safeRender("calendar", m.renderCalendarPane)
	listStyle, calStyle := panelStyle, panelStyle
	if m.focus == paneList {
		listStyle = focusedStyle
	} else {
		calStyle = focusedStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, listStyle.Render(list), " ", calStyle.Render(cal)))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice + "\n\n" + mutedStyle.Render("press any key")))
		b.WriteString("\n")
	}
	if m.form != nil {
		b.WriteString(safeRender("form", m.renderForm))
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// safeRender runs one view, turning a panic into an inline placeholder so
// the other views still draw.
func safeRender(name string, render func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render %s: %v", name, r)
			out = errorStyle.Render("Error loading " + name)
		}
	}()
	return render()
}

func (m Model) renderClock() string {
	now := m.state.now
	return titleStyle.Render("Planner") + "  " + now.Format("Monday, January 2, 2006") + "  " + now.Format("3:04 PM")
}

func (m Model) renderStats() string {
	s := tasks.Summarize(m.state.store.Tasks())
	return fmt.Sprintf("Completed %d • Pending %d • Urgent %d", s.Completed, s.Pending, s.Urgent)
}

func (m Model) renderTaskPane() string {
	var b strings.Builder
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n\n")
	b.WriteString(m.renderTaskList())
	return b.String()
}

func (m Model) renderFilterBar() string {
	parts := make([]string, 0, len(tasks.FilterModes))
	for _, f := range tasks.FilterModes {
		label := string(f)
		if f == m.state.filter {
			label = activeStyle.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ") + mutedStyle.Render("  sort: "+string(m.state.sort))
}

func (m Model) renderTaskList() string {
	visible := m.state.visible()
	if len(visible) == 0 {
		return mutedStyle.Render(tasks.EmptyMessage(m.state.filter))
	}

	today := m.state.today()
	cursor := clampCursor(m.cursor, len(visible))
	var b strings.Builder
	for i, t := range visible {
		b.WriteString(m.renderTaskRow(t, i == cursor && m.focus == paneList, today))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderDetail(visible[cursor]))
	return b.String()
}

func (m Model) renderTaskRow(t tasks.Task, selected bool, today tasks.Date) string {
	pointer := " "
	if selected {
		pointer = ">"
	}
	checkbox := "[ ]"
	text := t.Text
	if t.Completed {
		checkbox = "[x]"
		text = doneStyle.Render(text)
	}

	parts := []string{pointer, checkbox, text, priorityStyle(t.Priority).Render(string(t.Priority))}
	if t.Category != "" {
		parts = append(parts, mutedStyle.Render("#"+t.Category))
	}
	if t.Due != nil {
		due := t.Due.Format()
		if t.Overdue(today) {
			due = overdueStyle.Render(due + " overdue")
		}
		parts = append(parts, due)
	}
	return strings.Join(parts, " ")
}

func (m Model) renderDetail(t tasks.Task) string {
	info := "created " + humanize.RelTime(t.CreatedAt, m.state.now, "ago", "from now")
	if t.CompletedAt != nil {
		info += " • completed " + humanize.RelTime(*t.CompletedAt, m.state.now, "ago", "from now")
	}
	return mutedStyle.Render(info)
}

func (m Model) renderCalendarPane() string {
	var b strings.Builder
	b.WriteString(m.renderCalendar())
	b.WriteString("\n")
	b.WriteString(safeRender("upcoming events", m.renderUpcoming))
	return b.String()
}

func (m Model) renderCalendar() string {
	month := m.state.month
	grid := calendar.Build(month, m.state.store.Tasks(), m.state.today())

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("< %s >", month)))
	b.WriteString("\n")
	for _, h := range calendar.WeekdayHeaders {
		fmt.Fprintf(&b, " %-4s", h)
	}
	b.WriteString("\n")
	for _, week := range grid.Weeks() {
		for _, c := range week {
			b.WriteString(m.renderDay(c))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderDay draws one five-column cell: brackets mark the cursor and an
// asterisk marks a day with tasks due.
func (m Model) renderDay(c calendar.Cell) string {
	if c.Blank {
		return strings.Repeat(" ", 5)
	}
	left, right := " ", " "
	if m.focus == paneCalendar && c.Date.Day == m.day {
		left, right = "[", "]"
	}
	mark := " "
	if c.HasTasks {
		mark = "*"
	}
	num := fmt.Sprintf("%2d", c.Date.Day)
	switch {
	case c.Today:
		num = todayStyle.Render(num)
	case c.HasTasks:
		num = hasTasksStyle.Render(num)
	}
	return left + num + mark + right
}

func (m Model) renderUpcoming() string {
	upcoming := calendar.Upcoming(m.state.store.Tasks(), m.state.today(), m.state.month)
	if len(upcoming) == 0 {
		return mutedStyle.Render(calendar.UpcomingEmpty)
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Upcoming Events"))
	b.WriteString("\n")
	for _, t := range upcoming {
		dot := priorityStyle(t.Priority).Render("●")
		fmt.Fprintf(&b, "%s %s  %s\n", dot, t.Due.Format(), t.Text)
	}
	return b.String()
}
