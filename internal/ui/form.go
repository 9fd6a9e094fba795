package ui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"planner/internal/tasks"
)

type formField int

const (
	fieldText formField = iota
	fieldPriority
	fieldCategory
	fieldDue
	fieldCount
)

func (f formField) label() string {
	switch f {
	case fieldText:
		return "task"
	case fieldPriority:
		return "priority"
	case fieldCategory:
		return "category"
	case fieldDue:
		return "due date (YYYY-MM-DD)"
	default:
		return ""
	}
}

// formState backs the add form. Editing a task opens the same form
// prefilled with the fields of the task that was taken out of the store.
type formState struct {
	editing    bool
	index      formField
	priority   tasks.Priority
	text       textinput.Model
	category   textinput.Model
	due        textinput.Model
	categories []string
}

func newFormState(d tasks.Draft, categories []string, editing bool) *formState {
	fs := &formState{
		editing:    editing,
		priority:   d.Priority,
		text:       newInput("What needs to be done?", 256),
		category:   newInput("category", 64),
		due:        newInput("YYYY-MM-DD", 10),
		categories: categories,
	}
	if fs.priority.Rank() == 0 {
		fs.priority = tasks.PriorityMedium
	}
	fs.text.SetValue(d.Text)
	category := d.Category
	if category == "" && !editing && len(categories) > 0 {
		category = categories[0]
	}
	fs.category.SetValue(category)
	if d.Due != nil {
		fs.due.SetValue(d.Due.String())
	}
	fs.focus(fieldText)
	return fs
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	return ti
}

func (fs *formState) input(f formField) *textinput.Model {
	switch f {
	case fieldText:
		return &fs.text
	case fieldCategory:
		return &fs.category
	case fieldDue:
		return &fs.due
	default:
		return nil
	}
}

func (fs *formState) focus(f formField) {
	for i := range fieldCount {
		if in := fs.input(i); in != nil {
			in.Blur()
		}
	}
	fs.index = f
	if in := fs.input(f); in != nil {
		in.Focus()
	}
}

// move shifts focus by delta fields, wrapping around.
func (fs *formState) move(delta int) {
	fs.focus(formField(wrapIndex(int(fs.index)+delta, int(fieldCount))))
}

// cycle steps the option-valued fields.
func (fs *formState) cycle(delta int) {
	switch fs.index {
	case fieldPriority:
		i := slices.Index(tasks.Priorities, fs.priority)
		fs.priority = tasks.Priorities[wrapIndex(i+delta, len(tasks.Priorities))]
	case fieldCategory:
		if len(fs.categories) == 0 {
			return
		}
		i := slices.Index(fs.categories, strings.TrimSpace(fs.category.Value()))
		if i < 0 && delta < 0 {
			i = 0
		}
		fs.category.SetValue(fs.categories[wrapIndex(i+delta, len(fs.categories))])
		fs.category.CursorEnd()
	}
}

// draft turns the form values into a tasks.Draft.
func (fs *formState) draft() (tasks.Draft, error) {
	d := tasks.Draft{
		Text:     fs.text.Value(),
		Priority: fs.priority,
		Category: fs.category.Value(),
	}
	if v := strings.TrimSpace(fs.due.Value()); v != "" {
		due, err := tasks.ParseDate(v)
		if err != nil {
			return d, fmt.Errorf("due date invalid: %w", err)
		}
		d.Due = &due
	}
	return d, nil
}

func (m Model) openForm(d tasks.Draft, editing bool) (tea.Model, tea.Cmd) {
	m.form = newFormState(d, m.cfg.Categories, editing)
	if editing {
		m.status = "Editing task: enter to save, esc discards it"
	} else {
		m.status = "Add task: tab to move between fields, enter to save, esc to cancel"
	}
	return m, textinput.Blink
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fs := m.form
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.form = nil
		if fs.editing {
			m.status = "Edit cancelled; the task was removed"
		} else {
			m.status = "Cancelled"
		}
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		return m.submitForm()
	case key.Matches(msg, m.keys.NextField):
		fs.move(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		fs.move(-1)
		return m, nil
	}

	switch fs.index {
	case fieldPriority:
		switch msg.String() {
		case "up", "left", "k", "h":
			fs.cycle(-1)
		case "down", "right", "j", "l", " ":
			fs.cycle(1)
		}
		return m, nil
	case fieldCategory:
		switch msg.String() {
		case "up":
			fs.cycle(-1)
			return m, nil
		case "down":
			fs.cycle(1)
			return m, nil
		}
	}

	in := fs.input(fs.index)
	if in == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	d, err := m.form.draft()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	t, err := m.state.store.Add(d)
	if errors.Is(err, tasks.ErrEmptyText) {
		m.status = "Please enter a task description"
		return m, nil
	}
	if err != nil {
		m.status = fmt.Sprintf("add failed: %v", err)
		return m, nil
	}

	m.form = nil
	m.selectTask(t.ID)
	m.status = m.withSaveErr("Added task")
	return m, nil
}

func (m Model) renderForm() string {
	fs := m.form
	var b strings.Builder
	title := "New task"
	if fs.editing {
		title = "Edit task"
	}
	b.WriteString(title)
	b.WriteString("\n")
	for f := range fieldCount {
		prefix := " "
		if f == fs.index {
			prefix = ">"
		}
		var val string
		if f == fieldPriority {
			val = fmt.Sprintf("< %s >", fs.priority)
		} else {
			val = fs.input(f).View()
		}
		fmt.Fprintf(&b, "%s %-22s : %s\n", prefix, f.label(), val)
	}
	return b.String()
}
