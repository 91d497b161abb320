package repository

import (
	"context"

	"join/internal/model"
)

type TaskRepository struct {
	tasks collection[model.Task]
}

type TaskRepositoryInterface interface {
	All(ctx context.Context) ([]model.Task, error)
	ReplaceAll(ctx context.Context, tasks []model.Task) error
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(store CollectionStore) *TaskRepository {
	return &TaskRepository{tasks: collection[model.Task]{store: store, path: TasksPath}}
}

// All returns every stored task with null holes removed.
func (r *TaskRepository) All(ctx context.Context) ([]model.Task, error) {
	tasks, err := r.tasks.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].Status == "" {
			tasks[i].Status = model.StatusToDo
		}
	}
	return tasks, nil
}

// ReplaceAll overwrites the remote tasks collection.
func (r *TaskRepository) ReplaceAll(ctx context.Context, tasks []model.Task) error {
	return r.tasks.replaceAll(ctx, tasks)
}

// FindTask returns the index of the task with id, or ErrTaskNotFound.
func FindTask(tasks []model.Task, id int64) (int, error) {
	for i := range tasks {
		if tasks[i].ID == id {
			return i, nil
		}
	}
	return -1, ErrTaskNotFound
}
