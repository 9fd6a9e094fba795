package tasks

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterToday     FilterMode = "today"
	FilterWeek      FilterMode = "week"
	FilterCompleted FilterMode = "completed"
)

var FilterModes = []FilterMode{FilterAll, FilterToday, FilterWeek, FilterCompleted}

type SortMode string

const (
	SortAdded    SortMode = "added"
	SortDue      SortMode = "due"
	SortPriority SortMode = "priority"
	SortCategory SortMode = "category"
)

var SortModes = []SortMode{SortAdded, SortDue, SortPriority, SortCategory}

// Next cycles through SortModes in order.
func (m SortMode) Next() SortMode {
	i := slices.Index(SortModes, m)
	return SortModes[(i+1)%len(SortModes)]
}

func ParseFilterMode(v string) (FilterMode, error) {
	m := FilterMode(strings.ToLower(strings.TrimSpace(v)))
	if !slices.Contains(FilterModes, m) {
		return FilterAll, fmt.Errorf("unknown filter %q", v)
	}
	return m, nil
}

func ParseSortMode(v string) (SortMode, error) {
	m := SortMode(strings.ToLower(strings.TrimSpace(v)))
	if !slices.Contains(SortModes, m) {
		return SortAdded, fmt.Errorf("unknown sort %q", v)
	}
	return m, nil
}

// FilterOptions tunes the filter predicates.
type FilterOptions struct {
	// TodayIncludesUndated puts tasks without a due date in the today bucket.
	TodayIncludesUndated bool
}

// WeekSpan is how many days past today the week filter reaches, inclusive.
const WeekSpan = 7

// Filter returns the tasks selected by mode as a new slice.
func Filter(list []Task, mode FilterMode, today Date, opts FilterOptions) []Task {
	var keep func(Task) bool
	switch mode {
	case FilterToday:
		keep = func(t Task) bool {
			if t.Due == nil {
				return opts.TodayIncludesUndated
			}
			return *t.Due == today
		}
	case FilterWeek:
		end := today.AddDays(WeekSpan)
		keep = func(t Task) bool {
			return t.Due != nil && !t.Due.Before(today) && !t.Due.After(end)
		}
	case FilterCompleted:
		keep = func(t Task) bool { return t.Completed }
	default:
		return slices.Clone(list)
	}
	out := make([]Task, 0, len(list))
	for _, t := range list {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Sort orders list in place by mode. The sort is stable.
func Sort(list []Task, mode SortMode) {
	switch mode {
	case SortAdded:
		slices.SortStableFunc(list, func(a, b Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortDue:
		slices.SortStableFunc(list, compareDue)
	case SortPriority:
		slices.SortStableFunc(list, func(a, b Task) int {
			return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
		})
	case SortCategory:
		c := collate.New(language.Und)
		slices.SortStableFunc(list, func(a, b Task) int {
			return c.CompareString(a.Category, b.Category)
		})
	}
}

// compareDue orders by due day ascending with undated tasks last.
func compareDue(a, b Task) int {
	switch {
	case a.Due == nil && b.Due == nil:
		return 0
	case a.Due == nil:
		return 1
	case b.Due == nil:
		return -1
	}
	return a.Due.Compare(*b.Due)
}

type Stats struct {
	Completed int
	Pending   int
	Urgent    int
}

// Summarize counts completed, pending and urgent-pending tasks.
func Summarize(list []Task) Stats {
	var s Stats
	for _, t := range list {
		if t.Completed {
			s.Completed++
			continue
		}
		s.Pending++
		if t.Priority == PriorityUrgent {
			s.Urgent++
		}
	}
	return s
}

// EmptyMessage is the placeholder shown when mode selects nothing.
func EmptyMessage(mode FilterMode) string {
	if mode == FilterCompleted {
		return "No completed tasks yet!"
	}
	return "No tasks found. Add a new task!"
}
