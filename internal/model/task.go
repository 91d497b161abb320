package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists the priority buttons in display order.
var Priorities = []Priority{PriorityUrgent, PriorityMedium, PriorityLow}

func (p Priority) Valid() bool {
	return p == PriorityUrgent || p == PriorityMedium || p == PriorityLow
}

type Category string

const (
	CategoryUserStory      Category = "User Story"
	CategoryTechnicalTasks Category = "Technical Tasks"

	// CategoryPlaceholder is the unselected dropdown value; it counts as unset.
	CategoryPlaceholder Category = "Select task category"
)

var Categories = []Category{CategoryUserStory, CategoryTechnicalTasks}

func (c Category) Valid() bool {
	return c == CategoryUserStory || c == CategoryTechnicalTasks
}

// DateLayout is the wire format of Task.DueDate.
const DateLayout = "2006-01-02"

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Status      Status    `json:"status"`
	DueDate     string    `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	SubTasks    []Subtask `json:"subTasks"`
	AssignedTo  []int     `json:"assignedTo"`
}

type Subtask struct {
	ID        int    `json:"id"`
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
}

// UnmarshalJSON accepts the legacy "completet" key written by older clients.
func (s *Subtask) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        int    `json:"id"`
		Content   string `json:"content"`
		Completed *bool  `json:"completed"`
		Completet *bool  `json:"completet"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.ID = raw.ID
	s.Content = raw.Content
	s.Completed = false
	switch {
	case raw.Completed != nil:
		s.Completed = *raw.Completed
	case raw.Completet != nil:
		s.Completed = *raw.Completet
	}
	return nil
}

// Due parses DueDate. The zero time is returned for an empty date.
func (t Task) Due() (time.Time, error) {
	if t.DueDate == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(DateLayout, t.DueDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("task %d: bad due date %q: %w", t.ID, t.DueDate, err)
	}
	return d, nil
}

// CompletedSubtasks counts finished subtasks.
func (t Task) CompletedSubtasks() int {
	n := 0
	for _, st := range t.SubTasks {
		if st.Completed {
			n++
		}
	}
	return n
}

// Progress is the share of completed subtasks in percent, 0 without subtasks.
func (t Task) Progress() float64 {
	total := len(t.SubTasks)
	if total == 0 {
		return 0
	}
	p := float64(t.CompletedSubtasks()) / float64(total) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// NextSubtaskID returns an id not used by any subtask of t.
func (t Task) NextSubtaskID() int {
	highest := 0
	for _, st := range t.SubTasks {
		if st.ID > highest {
			highest = st.ID
		}
	}
	return highest + 1
}

// Clone returns a deep copy so callers can mutate slices freely.
func (t Task) Clone() Task {
	c := t
	c.SubTasks = append([]Subtask(nil), t.SubTasks...)
	c.AssignedTo = append([]int(nil), t.AssignedTo...)
	return c
}
