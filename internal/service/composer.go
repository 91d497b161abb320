package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"join/internal/model"
)

// Field names a required input of the task form.
type Field string

const (
	FieldTitle    Field = "title"
	FieldDueDate  Field = "dueDate"
	FieldCategory Field = "category"
)

// RequiredFields lists the fields Validate checks, in form order.
var RequiredFields = []Field{FieldTitle, FieldDueDate, FieldCategory}

// FieldErrors maps each invalid field to its message.
type FieldErrors map[Field]string

func (fe FieldErrors) Error() string {
	names := make([]string, 0, len(fe))
	for f := range fe {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

func (fe FieldErrors) Has(f Field) bool {
	_, ok := fe[f]
	return ok
}

// Message returns the marker text for f, or the generic required hint.
func (fe FieldErrors) Message(f Field) string {
	if msg, ok := fe[f]; ok {
		return msg
	}
	return msgRequired
}

const msgRequired = "This field is required"

// Draft is the state of the add-task form and the edit dialog.
type Draft struct {
	Title       string
	Description string
	DueDate     string
	Category    model.Category
	Priority    model.Priority
	Status      model.Status
	Assigned    []model.Contact
	SubTasks    []model.Subtask

	// Invalid holds the markers from the last Validate call.
	Invalid FieldErrors
}

func NewDraft() Draft {
	return Draft{
		Category: model.CategoryPlaceholder,
		Priority: model.PriorityMedium,
		Status:   model.StatusToDo,
	}
}

// DraftFromTask prepares the edit dialog. Assignees that no longer resolve
// through contacts are left out of the selection.
func DraftFromTask(t model.Task, contacts map[int]model.Contact) Draft {
	d := Draft{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Category:    t.Category,
		Priority:    t.Priority,
		Status:      t.Status,
		SubTasks:    append([]model.Subtask(nil), t.SubTasks...),
	}
	if !d.Priority.Valid() {
		d.Priority = model.PriorityMedium
	}
	for _, id := range t.AssignedTo {
		if c, ok := contacts[id]; ok && !d.IsSelected(id) {
			d.Assigned = append(d.Assigned, c)
		}
	}
	return d
}

// ToggleContact selects c or removes it from the selection.
func (d *Draft) ToggleContact(c model.Contact) {
	for i := range d.Assigned {
		if d.Assigned[i].ID == c.ID {
			d.Assigned = append(d.Assigned[:i], d.Assigned[i+1:]...)
			return
		}
	}
	d.Assigned = append(d.Assigned, c)
}

func (d *Draft) IsSelected(id int) bool {
	for _, c := range d.Assigned {
		if c.ID == id {
			return true
		}
	}
	return false
}

// SetPriority activates p. Clicking the active priority keeps it active, so
// exactly one priority is always set.
func (d *Draft) SetPriority(p model.Priority) {
	if p.Valid() {
		d.Priority = p
	}
}

// AddSubtask appends a subtask and returns its id, or 0 for blank text.
func (d *Draft) AddSubtask(content string) int {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0
	}
	id := model.Task{SubTasks: d.SubTasks}.NextSubtaskID()
	d.SubTasks = append(d.SubTasks, model.Subtask{ID: id, Content: content})
	return id
}

// EditSubtask replaces the text of a subtask. Blank text removes it.
func (d *Draft) EditSubtask(id int, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return d.RemoveSubtask(id)
	}
	for i := range d.SubTasks {
		if d.SubTasks[i].ID == id {
			d.SubTasks[i].Content = content
			return nil
		}
	}
	return ErrSubtaskNotFound
}

func (d *Draft) RemoveSubtask(id int) error {
	for i := range d.SubTasks {
		if d.SubTasks[i].ID == id {
			d.SubTasks = append(d.SubTasks[:i], d.SubTasks[i+1:]...)
			return nil
		}
	}
	return ErrSubtaskNotFound
}

// Validate marks every missing or malformed required field at once. It
// returns nil when the draft can be saved.
func (d *Draft) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(d.Title) == "" {
		fe[FieldTitle] = msgRequired
	}
	switch due := strings.TrimSpace(d.DueDate); {
	case due == "":
		fe[FieldDueDate] = msgRequired
	default:
		if _, err := time.Parse(model.DateLayout, due); err != nil {
			fe[FieldDueDate] = "Use the format YYYY-MM-DD"
		}
	}
	if !d.Category.Valid() {
		fe[FieldCategory] = msgRequired
	}
	if len(fe) == 0 {
		d.Invalid = nil
		return nil
	}
	d.Invalid = fe
	return fe
}

// Clear resets the form to its defaults, keeping the preset status.
func (d *Draft) Clear() {
	status := d.Status
	*d = NewDraft()
	if status.Valid() {
		d.Status = status
	}
}

func (d Draft) assigneeIDs() []int {
	ids := make([]int, 0, len(d.Assigned))
	seen := make(map[int]bool, len(d.Assigned))
	for _, c := range d.Assigned {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		ids = append(ids, c.ID)
	}
	return ids
}

// Composer turns drafts into stored tasks.
type Composer struct {
	store *Store
	now   func() time.Time
}

func NewComposer(store *Store) *Composer {
	return &Composer{store: store, now: time.Now}
}

// WithClock replaces the time source used for task ids.
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.now = now
	return c
}

// Create validates the draft, reloads the tasks collection and appends the
// new task. Subtasks are renumbered from 1 and start open.
func (c *Composer) Create(ctx context.Context, d Draft) (model.Task, error) {
	if err := d.Validate(); err != nil {
		return model.Task{}, err
	}
	status := d.Status
	if !status.Valid() {
		status = model.StatusToDo
	}

	var created model.Task
	err := c.store.updateTasks(ctx, func(tasks []model.Task) ([]model.Task, error) {
		created = model.Task{
			ID:          c.uniqueID(tasks),
			Title:       strings.TrimSpace(d.Title),
			Description: strings.TrimSpace(d.Description),
			Category:    d.Category,
			Status:      status,
			DueDate:     strings.TrimSpace(d.DueDate),
			Priority:    d.Priority,
			AssignedTo:  d.assigneeIDs(),
			SubTasks:    make([]model.Subtask, 0, len(d.SubTasks)),
		}
		if !created.Priority.Valid() {
			created.Priority = model.PriorityMedium
		}
		for i, st := range d.SubTasks {
			created.SubTasks = append(created.SubTasks, model.Subtask{ID: i + 1, Content: st.Content})
		}
		return append(tasks, created.Clone()), nil
	})
	if err != nil {
		return model.Task{}, err
	}
	return created, nil
}

// Update applies the edit dialog to an existing task. Id and status are kept.
func (c *Composer) Update(ctx context.Context, taskID int64, d Draft) (model.Task, error) {
	if err := d.Validate(); err != nil {
		return model.Task{}, err
	}

	var updated model.Task
	err := c.store.updateTasks(ctx, func(tasks []model.Task) ([]model.Task, error) {
		i, err := findTask(tasks, taskID)
		if err != nil {
			return nil, err
		}
		t := &tasks[i]
		t.Title = strings.TrimSpace(d.Title)
		t.Description = strings.TrimSpace(d.Description)
		t.DueDate = strings.TrimSpace(d.DueDate)
		t.Category = d.Category
		if d.Priority.Valid() {
			t.Priority = d.Priority
		}
		t.AssignedTo = d.assigneeIDs()
		t.SubTasks = append([]model.Subtask{}, d.SubTasks...)
		updated = t.Clone()
		return tasks, nil
	})
	if err != nil {
		return model.Task{}, err
	}
	return updated, nil
}

// uniqueID derives a task id from the clock, bumped past any id in use.
func (c *Composer) uniqueID(tasks []model.Task) int64 {
	used := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		used[t.ID] = true
	}
	id := c.now().UnixMilli()
	for used[id] {
		id++
	}
	return id
}
