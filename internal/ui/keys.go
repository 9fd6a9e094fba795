package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"planner/internal/config"
)

type keyMap struct {
	Quit        key.Binding
	Add         key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Toggle      key.Binding
	Delete      key.Binding
	Edit        key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	Focus       key.Binding
	FilterAll   key.Binding
	FilterToday key.Binding
	FilterWeek  key.Binding
	FilterDone  key.Binding
	Sort        key.Binding
	PrevMonth   key.Binding
	NextMonth   key.Binding
	Help        key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:        binding("quit", k.Quit, "ctrl+c"),
		Add:         binding("add", k.Add),
		Up:          binding("up", k.Up, "up"),
		Down:        binding("down", k.Down, "down"),
		Left:        binding("left", k.Left, "left"),
		Right:       binding("right", k.Right, "right"),
		Toggle:      binding("toggle", k.Toggle),
		Delete:      binding("delete", k.Delete),
		Edit:        binding("edit", k.Edit),
		Confirm:     binding("select", k.Confirm),
		Cancel:      binding("cancel", k.Cancel),
		NextField:   binding("next field", k.NextField),
		PrevField:   binding("prev field", k.PrevField),
		Focus:       binding("list/calendar", k.Focus),
		FilterAll:   binding("all", k.FilterAll),
		FilterToday: binding("today", k.FilterToday),
		FilterWeek:  binding("week", k.FilterWeek),
		FilterDone:  binding("completed", k.FilterDone),
		Sort:        binding("sort", k.Sort),
		PrevMonth:   binding("prev month", k.PrevMonth),
		NextMonth:   binding("next month", k.NextMonth),
		Help:        binding("help", k.Help),
	}
}

// binding builds a key.Binding from the configured key plus fixed extras.
// The first key is the one shown in help.
func binding(desc, primary string, extra ...string) key.Binding {
	keys := make([]string, 0, 1+len(extra))
	if primary != "" {
		keys = append(keys, primary)
	}
	keys = append(keys, extra...)
	label := primary
	switch label {
	case " ":
		label = "space"
	case "":
		if len(extra) > 0 {
			label = extra[0]
		}
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Edit, k.Delete, k.Focus, k.Sort, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Focus},
		{k.Add, k.Edit, k.Toggle, k.Delete},
		{k.FilterAll, k.FilterToday, k.FilterWeek, k.FilterDone, k.Sort},
		{k.PrevMonth, k.NextMonth, k.Confirm, k.Help, k.Quit},
	}
}
