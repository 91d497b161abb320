package service

import (
	"context"
	"fmt"
	"strings"

	"join/internal/model"
	"join/internal/repository"
)

// BoardColumn is one status lane with the tasks that match the active search.
type BoardColumn struct {
	Status model.Status `json:"status"`
	Title  string       `json:"title"`
	Tasks  []model.Task `json:"tasks"`
	Empty  bool         `json:"empty"`
}

// DragState tracks a task picked up on the board. Highlight lists the
// columns the task can be dropped into.
type DragState struct {
	TaskID    int64
	From      model.Status
	Highlight []model.Status
}

// Highlighted reports whether status is a drop target.
func (d DragState) Highlighted(status model.Status) bool {
	for _, s := range d.Highlight {
		if s == status {
			return true
		}
	}
	return false
}

// Cancel ends the drag without touching any task.
func (d DragState) Cancel() DragState {
	return DragState{}
}

func (d DragState) Active() bool {
	return d.TaskID != 0
}

type BoardService struct {
	store *Store
}

func NewBoardService(store *Store) *BoardService {
	return &BoardService{store: store}
}

// Columns returns the four lanes in board order. Tasks are filtered by query
// against title and description, ignoring case.
func (s *BoardService) Columns(query string) []BoardColumn {
	return GroupByStatus(s.store.Tasks(), query)
}

// GroupByStatus places every task in exactly one lane by its status.
func GroupByStatus(tasks []model.Task, query string) []BoardColumn {
	cols := make([]BoardColumn, len(model.Columns))
	index := make(map[model.Status]int, len(model.Columns))
	for i, c := range model.Columns {
		cols[i] = BoardColumn{Status: c.Status, Title: c.Title}
		index[c.Status] = i
	}
	for _, t := range tasks {
		if !MatchesQuery(t, query) {
			continue
		}
		i, ok := index[t.Status]
		if !ok {
			i = index[model.StatusToDo]
		}
		cols[i].Tasks = append(cols[i].Tasks, t)
	}
	for i := range cols {
		cols[i].Empty = len(cols[i].Tasks) == 0
	}
	return cols
}

// MatchesQuery reports whether the task title or description contains query.
func MatchesQuery(t model.Task, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

// Move sets the status of a task. Any lane can be reached from any other.
func (s *BoardService) Move(ctx context.Context, taskID int64, status model.Status) (model.Task, error) {
	if !status.Valid() {
		return model.Task{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	var moved model.Task
	err := s.store.updateTasks(ctx, func(tasks []model.Task) ([]model.Task, error) {
		i, err := findTask(tasks, taskID)
		if err != nil {
			return nil, err
		}
		tasks[i].Status = status
		moved = tasks[i].Clone()
		return tasks, nil
	})
	if err != nil {
		return model.Task{}, err
	}
	return moved, nil
}

// StartDrag picks up a task and highlights every other lane.
func (s *BoardService) StartDrag(taskID int64) (DragState, error) {
	t, ok := s.store.Task(taskID)
	if !ok {
		return DragState{}, ErrTaskNotFound
	}
	st := DragState{TaskID: taskID, From: t.Status}
	for _, c := range model.Columns {
		if c.Status != t.Status {
			st.Highlight = append(st.Highlight, c.Status)
		}
	}
	return st, nil
}

// Drop commits a drag into status.
func (s *BoardService) Drop(ctx context.Context, drag DragState, status model.Status) (model.Task, error) {
	if !drag.Active() {
		return model.Task{}, ErrNoDrag
	}
	return s.Move(ctx, drag.TaskID, status)
}

// ToggleSubtask flips the completed flag of one subtask.
func (s *BoardService) ToggleSubtask(ctx context.Context, taskID int64, subtaskID int) (model.Task, error) {
	var updated model.Task
	err := s.store.updateTasks(ctx, func(tasks []model.Task) ([]model.Task, error) {
		i, err := findTask(tasks, taskID)
		if err != nil {
			return nil, err
		}
		for j := range tasks[i].SubTasks {
			if tasks[i].SubTasks[j].ID == subtaskID {
				tasks[i].SubTasks[j].Completed = !tasks[i].SubTasks[j].Completed
				updated = tasks[i].Clone()
				return tasks, nil
			}
		}
		return nil, ErrSubtaskNotFound
	})
	if err != nil {
		return model.Task{}, err
	}
	return updated, nil
}

func (s *BoardService) DeleteTask(ctx context.Context, taskID int64) error {
	return s.store.updateTasks(ctx, func(tasks []model.Task) ([]model.Task, error) {
		i, err := findTask(tasks, taskID)
		if err != nil {
			return nil, err
		}
		return append(tasks[:i], tasks[i+1:]...), nil
	})
}

func (s *BoardService) Task(taskID int64) (model.Task, error) {
	t, ok := s.store.Task(taskID)
	if !ok {
		return model.Task{}, ErrTaskNotFound
	}
	return t, nil
}

func findTask(tasks []model.Task, id int64) (int, error) {
	i, err := repository.FindTask(tasks, id)
	if err != nil {
		return -1, fmt.Errorf("task %d: %w", id, err)
	}
	return i, nil
}
