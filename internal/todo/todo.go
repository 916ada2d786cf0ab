package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/momentum/internal/store"
)

// StorageKey is the key the task list is stored under.
const StorageKey = "tasks"

var (
	ErrEmptyTask    = errors.New("task text is empty")
	ErrTaskNotFound = errors.New("task not found")
)

// Storage is the key-value port the list persists through.
type Storage interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// List is an ordered to-do list written back to storage after every change.
type List struct {
	storage Storage
	tasks   []Task
	newID   func() string
}

// Load reads the list from storage. A missing key yields an empty list.
func Load(st Storage) (*List, error) {
	l := &List{storage: st, newID: uuid.NewString}

	raw, err := st.GetSetting(StorageKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return l, nil
		}
		return l, fmt.Errorf("read tasks: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &l.tasks); err != nil {
		return l, fmt.Errorf("parse tasks: %w", err)
	}
	return l, nil
}

func (l *List) save() error {
	tasks := l.tasks
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	if err := l.storage.SetSetting(StorageKey, string(data)); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}

// Add appends a new open task. Surrounding whitespace is trimmed.
func (l *List) Add(text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyTask
	}
	t := Task{
		ID:        l.uniqueID(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	l.tasks = append(l.tasks, t)
	if err := l.save(); err != nil {
		l.tasks = l.tasks[:len(l.tasks)-1]
		return Task{}, err
	}
	return t, nil
}

// Toggle flips the completed flag of the task with the given id.
func (l *List) Toggle(id string) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("toggle %s: %w", id, ErrTaskNotFound)
	}
	l.tasks[i].Completed = !l.tasks[i].Completed
	if err := l.save(); err != nil {
		l.tasks[i].Completed = !l.tasks[i].Completed
		return err
	}
	return nil
}

// Delete removes the task with the given id.
func (l *List) Delete(id string) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("delete %s: %w", id, ErrTaskNotFound)
	}
	prev := l.tasks
	l.tasks = append(append([]Task(nil), l.tasks[:i]...), l.tasks[i+1:]...)
	if err := l.save(); err != nil {
		l.tasks = prev
		return err
	}
	return nil
}

// Tasks returns a copy of the list in insertion order.
func (l *List) Tasks() []Task {
	return append([]Task(nil), l.tasks...)
}

func (l *List) Len() int { return len(l.tasks) }

// Counts returns the number of open and completed tasks.
func (l *List) Counts() (open, done int) {
	for _, t := range l.tasks {
		if t.Completed {
			done++
		} else {
			open++
		}
	}
	return open, done
}

func (l *List) index(id string) int {
	for i, t := range l.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (l *List) uniqueID() string {
	for {
		id := l.newID()
		if l.index(id) < 0 {
			return id
		}
	}
}
