package service

import (
	"time"

	"join/internal/model"
)

type Summary struct {
	ToDo             int        `json:"toDo"`
	InProgress       int        `json:"inProgress"`
	AwaitingFeedback int        `json:"awaitingFeedback"`
	Done             int        `json:"done"`
	Total            int        `json:"total"`
	Urgent           int        `json:"urgent"`
	NextUrgentDue    *time.Time `json:"nextUrgentDue,omitempty"`
	Greeting         string     `json:"greeting"`
}

// Summarize counts tasks per lane. NextUrgentDue is the earliest due date of
// an urgent task that is not done and not before today.
func Summarize(tasks []model.Task, now time.Time) Summary {
	s := Summary{Total: len(tasks), Greeting: Greeting(now)}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for _, t := range tasks {
		switch t.Status {
		case model.StatusInProgress:
			s.InProgress++
		case model.StatusAwaitingFeedback:
			s.AwaitingFeedback++
		case model.StatusDone:
			s.Done++
		default:
			s.ToDo++
		}
		if t.Priority != model.PriorityUrgent {
			continue
		}
		s.Urgent++
		if t.Status == model.StatusDone {
			continue
		}
		due, err := t.Due()
		if err != nil || due.IsZero() || due.Before(today) {
			continue
		}
		if s.NextUrgentDue == nil || due.Before(*s.NextUrgentDue) {
			d := due
			s.NextUrgentDue = &d
		}
	}
	return s
}

// Greeting picks the salutation for the local hour of now.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func (s *Store) Summary(now time.Time) Summary {
	return Summarize(s.Tasks(), now)
}
