package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"

	"planner/internal/storage"
)

// SlotKey is the key the whole task sequence is persisted under.
const SlotKey = "tasks"

var (
	ErrEmptyText = errors.New("task description is empty")
	ErrNotFound  = errors.New("task not found")
)

// Slot is the key-value persistence the store reads and flushes.
type Slot interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// Store is the in-memory task sequence, newest first, backed by a Slot.
type Store struct {
	slot    Slot
	now     func() time.Time
	tasks   []Task
	lastID  int64
	saveErr error
}

type Option func(*Store)

// WithClock replaces time.Now for IDs and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open creates a store over slot and loads whatever the slot holds.
func Open(slot Slot, opts ...Option) *Store {
	s := &Store{slot: slot, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// Load replaces the in-memory sequence with the persisted one. A missing,
// unreadable or undecodable slot yields an empty sequence.
func (s *Store) Load() {
	s.tasks = nil
	s.lastID = 0

	data, err := s.slot.Get(SlotKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("load tasks: %v", err)
		}
		return
	}
	var loaded []Task
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("load tasks: decode: %v", err)
		return
	}
	for i := range loaded {
		normalize(&loaded[i])
		s.lastID = max(s.lastID, loaded[i].ID)
	}
	s.tasks = loaded
}

// Save flushes the full sequence. Failures are logged and kept for SaveErr;
// the in-memory state stays authoritative either way.
func (s *Store) Save() {
	data, err := json.Marshal(s.snapshot())
	if err == nil {
		err = s.slot.Put(SlotKey, data)
	}
	if err != nil {
		log.Printf("save tasks: %v", err)
		s.saveErr = fmt.Errorf("save tasks: %w", err)
		return
	}
	s.saveErr = nil
}

// SaveErr returns the error of the most recent Save, if it failed.
func (s *Store) SaveErr() error {
	return s.saveErr
}

// Tasks returns a copy of the sequence in storage order.
func (s *Store) Tasks() []Task {
	return slices.Clone(s.tasks)
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) Get(id int64) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Add validates d, prepends a new task and persists.
func (s *Store) Add(d Draft) (Task, error) {
	text := Sanitize(d.Text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	priority := d.Priority
	if priority.Rank() == 0 {
		priority = PriorityMedium
	}
	now := s.now()
	t := Task{
		ID:        s.nextID(now),
		Text:      text,
		Priority:  priority,
		Category:  Sanitize(d.Category),
		CreatedAt: now,
	}
	if d.Due != nil {
		due := *d.Due
		t.Due = &due
	}
	s.tasks = slices.Insert(s.tasks, 0, t)
	s.Save()
	return t, nil
}

// Toggle flips completion of id and persists.
func (s *Store) Toggle(id int64) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	t := &s.tasks[i]
	t.Completed = !t.Completed
	if t.Completed {
		now := s.now()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	s.Save()
	return *t, nil
}

// Remove deletes id and persists.
func (s *Store) Remove(id int64) error {
	_, err := s.Take(id)
	return err
}

// Take removes id, persists and hands the task back so it can be edited and
// re-added.
func (s *Store) Take(id int64) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	t := s.tasks[i]
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.Save()
	return t, nil
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

// nextID uses the creation time in milliseconds, bumped past every ID
// handed out so far.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) snapshot() []Task {
	if s.tasks == nil {
		return []Task{}
	}
	return s.tasks
}

// normalize repairs a task read from the slot. The slot may have been edited
// by hand, so text fields are sanitized again.
func normalize(t *Task) {
	t.Text = Sanitize(t.Text)
	t.Category = Sanitize(t.Category)
	if t.Priority.Rank() == 0 {
		t.Priority = PriorityMedium
	}
	if !t.Completed {
		t.CompletedAt = nil
	} else if t.CompletedAt == nil {
		at := t.CreatedAt
		t.CompletedAt = &at
	}
}

// Sanitize strips terminal escape sequences and control characters from
// user text and trims it.
func Sanitize(v string) string {
	v = ansi.Strip(v)
	v = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, v)
	return strings.TrimSpace(v)
}
