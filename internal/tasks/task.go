package tasks

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority from most to least pressing.
var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities: urgent 4, high 3, medium 2, low 1. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func ParsePriority(v string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(v)))
	if p == "" {
		return PriorityMedium, nil
	}
	if p.Rank() == 0 {
		return PriorityMedium, fmt.Errorf("unknown priority %q", v)
	}
	return p, nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	parsed, err := ParsePriority(string(b))
	if err != nil {
		parsed = PriorityMedium
	}
	*p = parsed
	return nil
}

// Date is a calendar day without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(v string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Compare(o Date) int {
	return d.Time().Compare(o.Time())
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// Format renders the day the way task rows show it, e.g. "Oct 18, 2026".
func (d Date) Format() string {
	return d.Time().Format("Jan 2, 2006")
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type Task struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	Due         *Date      `json:"dueDate"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// DueOn reports whether the task is due exactly on d.
func (t Task) DueOn(d Date) bool {
	return t.Due != nil && *t.Due == d
}

// Overdue reports whether an open task's due day is before today.
func (t Task) Overdue(today Date) bool {
	return t.Due != nil && !t.Completed && t.Due.Before(today)
}

// Draft holds the user-entered fields of a task before it is added.
type Draft struct {
	Text     string
	Priority Priority
	Category string
	Due      *Date
}

// DraftOf copies the editable fields of t, used to prefill the edit form.
func DraftOf(t Task) Draft {
	d := Draft{Text: t.Text, Priority: t.Priority, Category: t.Category}
	if t.Due != nil {
		due := *t.Due
		d.Due = &due
	}
	return d
}
