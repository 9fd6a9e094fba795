// Package calendar lays out a month grid over the task list and derives the
// day and upcoming-event views from it.
package calendar

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"planner/internal/tasks"
)

// WeekdayHeaders are the column titles, Sunday first.
var WeekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

const UpcomingEmpty = "No upcoming events this month."

type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(d tasks.Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// Next moves forward one month, rolling December into January of the next year.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Prev moves back one month, rolling January into December of the previous year.
func (m Month) Prev() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

func (m Month) First() tasks.Date {
	return tasks.Date{Year: m.Year, Month: m.Month, Day: 1}
}

func (m Month) Days() int {
	return m.Next().First().AddDays(-1).Day
}

// Day returns the date of day n of the month.
func (m Month) Day(n int) tasks.Date {
	return tasks.Date{Year: m.Year, Month: m.Month, Day: n}
}

func (m Month) String() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

type Cell struct {
	Date     tasks.Date
	Blank    bool
	HasTasks bool
	Today    bool
}

type Grid struct {
	Month Month
	// Leading is the number of blank cells before the 1st.
	Leading int
	Cells   []Cell
}

// Build lays out m with the has-tasks and today flags set from list.
func Build(m Month, list []tasks.Task, today tasks.Date) Grid {
	due := make(map[tasks.Date]struct{}, len(list))
	for _, t := range list {
		if t.Due != nil {
			due[*t.Due] = struct{}{}
		}
	}

	leading := int(m.First().Time().Weekday())
	g := Grid{Month: m, Leading: leading, Cells: make([]Cell, 0, leading+m.Days())}
	for range leading {
		g.Cells = append(g.Cells, Cell{Blank: true})
	}
	for day := 1; day <= m.Days(); day++ {
		d := m.Day(day)
		_, has := due[d]
		g.Cells = append(g.Cells, Cell{Date: d, HasTasks: has, Today: d == today})
	}
	return g
}

// Weeks splits the cells into rows of seven, padding the last row.
func (g Grid) Weeks() [][]Cell {
	var rows [][]Cell
	for cells := g.Cells; len(cells) > 0; {
		n := min(7, len(cells))
		row := slices.Clone(cells[:n])
		for len(row) < 7 {
			row = append(row, Cell{Blank: true})
		}
		rows = append(rows, row)
		cells = cells[n:]
	}
	return rows
}

// TasksOn returns the tasks due exactly on d in storage order.
func TasksOn(list []tasks.Task, d tasks.Date) []tasks.Task {
	var out []tasks.Task
	for _, t := range list {
		if t.DueOn(d) {
			out = append(out, t)
		}
	}
	return out
}

// DayNotice is the message shown when a day is selected.
func DayNotice(list []tasks.Task, d tasks.Date) string {
	on := TasksOn(list, d)
	if len(on) == 0 {
		return "No tasks scheduled for " + d.Format()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Tasks for %s:\n", d.Format())
	for _, t := range on {
		fmt.Fprintf(&b, "\n• %s (%s)", t.Text, t.Priority)
		if t.Completed {
			b.WriteString(" - COMPLETED")
		}
	}
	return b.String()
}

// Upcoming returns open tasks due from today up to, not including, the first
// day of the month after m, earliest first.
func Upcoming(list []tasks.Task, today tasks.Date, m Month) []tasks.Task {
	end := m.Next().First()
	var out []tasks.Task
	for _, t := range list {
		if t.Due == nil || t.Completed {
			continue
		}
		if t.Due.Before(today) || !t.Due.Before(end) {
			continue
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b tasks.Task) int {
		return a.Due.Compare(*b.Due)
	})
	return out
}
