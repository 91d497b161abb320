// Package service holds the in-memory board state and the controllers that
// mutate it: contacts, the board and the task composer.
package service

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"join/internal/model"
	"join/internal/repository"
)

// Change tells observers which collection was rewritten.
type Change struct {
	Collection string
}

type Observer func(Change)

// Store is the in-memory copy of contacts and tasks. Pages refresh it with
// Init. Every mutation runs under the write lock: reload the collection,
// apply to a copy, replace the remote collection, and only then swap the
// copy in. A failed write leaves the reloaded state.
type Store struct {
	mu               sync.RWMutex
	contacts         []model.Contact
	tasks            []model.Task
	highestContactID int

	contactRepo repository.ContactRepositoryInterface
	taskRepo    repository.TaskRepositoryInterface
	logger      *log.Logger

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObsID int
}

func NewStore(contactRepo repository.ContactRepositoryInterface, taskRepo repository.TaskRepositoryInterface, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Store{
		contactRepo: contactRepo,
		taskRepo:    taskRepo,
		logger:      logger,
		observers:   make(map[int]Observer),
	}
}

// Init loads both collections. Page handlers call it on every render so
// writes from other clients show up.
func (s *Store) Init(ctx context.Context) error {
	return errors.Join(s.LoadContacts(ctx), s.LoadTasks(ctx))
}

// LoadContacts refreshes contacts from the remote store. On failure the
// current snapshot (empty before the first successful load) is kept.
func (s *Store) LoadContacts(ctx context.Context) error {
	contacts, err := s.contactRepo.All(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("contacts.load.failed")
		return err
	}
	s.mu.Lock()
	s.contacts = contacts
	if h := repository.HighestID(contacts); h > s.highestContactID {
		s.highestContactID = h
	}
	s.mu.Unlock()
	return nil
}

// LoadTasks refreshes tasks from the remote store, keeping the current
// snapshot on failure.
func (s *Store) LoadTasks(ctx context.Context) error {
	tasks, err := s.taskRepo.All(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("tasks.load.failed")
		return err
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

func (s *Store) Contacts() []model.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Contact(nil), s.contacts...)
}

func (s *Store) Contact(id int) (model.Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contacts {
		if c.ID == id {
			return c, true
		}
	}
	return model.Contact{}, false
}

// ContactIndex maps contact ids to contacts for badge lookups.
func (s *Store) ContactIndex() map[int]model.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := make(map[int]model.Contact, len(s.contacts))
	for _, c := range s.contacts {
		idx[c.ID] = c
	}
	return idx
}

func (s *Store) HighestContactID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.highestContactID
}

func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks)
}

func (s *Store) Task(id int64) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, err := repository.FindTask(s.tasks, id)
	if err != nil {
		return model.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Subscribe registers fn for change notifications until cancel is called.
func (s *Store) Subscribe(fn Observer) (cancel func()) {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify(c Change) {
	s.obsMu.Lock()
	fns := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// updateContacts reads the contacts fresh from the remote store, applies fn
// and persists the result. highestID never goes below an id already handed
// out by this process.
func (s *Store) updateContacts(ctx context.Context, fn func(contacts []model.Contact, highestID int) ([]model.Contact, error)) error {
	s.mu.Lock()
	fresh, err := s.contactRepo.All(ctx)
	if err != nil {
		s.mu.Unlock()
		s.logger.WithError(err).Error("contacts.reload.failed")
		return err
	}
	s.contacts = fresh
	if h := repository.HighestID(fresh); h > s.highestContactID {
		s.highestContactID = h
	}

	next, err := fn(append([]model.Contact(nil), fresh...), s.highestContactID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.contactRepo.ReplaceAll(ctx, next); err != nil {
		s.mu.Unlock()
		s.logger.WithError(err).Error("contacts.replace.failed")
		return err
	}
	s.contacts = next
	if h := repository.HighestID(next); h > s.highestContactID {
		s.highestContactID = h
	}
	s.mu.Unlock()

	s.notify(Change{Collection: repository.ContactsPath})
	return nil
}

// updateTasks reads the tasks fresh from the remote store, applies fn and
// persists the result.
func (s *Store) updateTasks(ctx context.Context, fn func(tasks []model.Task) ([]model.Task, error)) error {
	s.mu.Lock()
	fresh, err := s.taskRepo.All(ctx)
	if err != nil {
		s.mu.Unlock()
		s.logger.WithError(err).Error("tasks.reload.failed")
		return err
	}
	s.tasks = fresh

	next, err := fn(cloneTasks(fresh))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.taskRepo.ReplaceAll(ctx, next); err != nil {
		s.mu.Unlock()
		s.logger.WithError(err).Error("tasks.replace.failed")
		return err
	}
	s.tasks = next
	s.mu.Unlock()

	s.notify(Change{Collection: repository.TasksPath})
	return nil
}

func cloneTasks(tasks []model.Task) []model.Task {
	if tasks == nil {
		return nil
	}
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
