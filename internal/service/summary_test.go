package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"join/internal/model"
	"join/internal/service"
)

func TestSummarize(t *testing.T) {
	// Arrange
	now := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: 1, Status: model.StatusToDo, Priority: model.PriorityUrgent, DueDate: "2026-10-25"},
		{ID: 2, Status: model.StatusInProgress, Priority: model.PriorityUrgent, DueDate: "2026-10-21"},
		{ID: 3, Status: model.StatusDone, Priority: model.PriorityUrgent, DueDate: "2026-10-20"},
		{ID: 4, Status: model.StatusAwaitingFeedback, Priority: model.PriorityUrgent, DueDate: "2026-10-01"},
		{ID: 5, Status: model.StatusToDo, Priority: model.PriorityLow, DueDate: "2026-10-19"},
	}

	// Act
	s := service.Summarize(tasks, now)

	// Assert
	assert.Equal(t, 2, s.ToDo)
	assert.Equal(t, 1, s.InProgress)
	assert.Equal(t, 1, s.AwaitingFeedback)
	assert.Equal(t, 1, s.Done)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 4, s.Urgent)
	require.NotNil(t, s.NextUrgentDue)
	assert.Equal(t, "2026-10-21", s.NextUrgentDue.Format(model.DateLayout))
	assert.Equal(t, "Good morning", s.Greeting)
}

func TestSummarize_NoUrgent(t *testing.T) {
	s := service.Summarize(nil, time.Now())

	assert.Zero(t, s.Total)
	assert.Nil(t, s.NextUrgentDue)
}

func TestGreeting(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 1, 1, h, 0, 0, 0, time.UTC) }

	assert.Equal(t, "Good morning", service.Greeting(at(0)))
	assert.Equal(t, "Good afternoon", service.Greeting(at(12)))
	assert.Equal(t, "Good afternoon", service.Greeting(at(17)))
	assert.Equal(t, "Good evening", service.Greeting(at(18)))
}
