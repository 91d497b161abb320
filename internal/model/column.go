package model

import "fmt"

// Status is the board column a task belongs to.
type Status string

const (
	StatusToDo             Status = "toDo"
	StatusInProgress       Status = "inProgress"
	StatusAwaitingFeedback Status = "awaitingFeedback"
	StatusDone             Status = "done"
)

type Column struct {
	Status   Status
	Title    string
	Position int
}

// Columns lists the board lanes in display order.
var Columns = []Column{
	{Status: StatusToDo, Title: "To do", Position: 0},
	{Status: StatusInProgress, Title: "In progress", Position: 1},
	{Status: StatusAwaitingFeedback, Title: "Await feedback", Position: 2},
	{Status: StatusDone, Title: "Done", Position: 3},
}

func (s Status) Valid() bool {
	for _, c := range Columns {
		if c.Status == s {
			return true
		}
	}
	return false
}

func (s Status) Title() string {
	for _, c := range Columns {
		if c.Status == s {
			return c.Title
		}
	}
	return string(s)
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}
