package view

import (
	"html/template"

	"github.com/bytedance/sonic"

	"join/internal/model"
	"join/internal/service"
)

// TaskFormSignals is the datastar signal set behind the add-task form.
type TaskFormSignals struct {
	EditID       int64             `json:"editId"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	DueDate      string            `json:"dueDate"`
	Category     string            `json:"category"`
	Priority     string            `json:"priority"`
	Status       string            `json:"status"`
	Assigned     []int             `json:"assigned"`
	SubTasks     []model.Subtask   `json:"subtasks"`
	SubtaskInput string            `json:"subtaskInput"`
	SubtaskOp    string            `json:"subtaskOp"`
	SubtaskID    int               `json:"subtaskId"`
	SubtaskText  string            `json:"subtaskText"`
	Invalid      map[string]bool   `json:"invalid"`
	Errors       map[string]string `json:"errors"`
}

func SignalsFromDraft(d service.Draft, editID int64) TaskFormSignals {
	s := TaskFormSignals{
		EditID:      editID,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Category:    string(d.Category),
		Priority:    string(d.Priority),
		Status:      string(d.Status),
		Assigned:    []int{},
		SubTasks:    append([]model.Subtask{}, d.SubTasks...),
		Invalid:     InvalidSignals(d.Invalid),
		Errors:      ErrorSignals(d.Invalid),
	}
	for _, c := range d.Assigned {
		s.Assigned = append(s.Assigned, c.ID)
	}
	return s
}

// Draft rebuilds the composer state. Assigned ids without a contact are
// dropped.
func (s TaskFormSignals) Draft(contacts map[int]model.Contact) service.Draft {
	d := service.NewDraft()
	d.Title = s.Title
	d.Description = s.Description
	d.DueDate = s.DueDate
	if s.Category != "" {
		d.Category = model.Category(s.Category)
	}
	d.SetPriority(model.Priority(s.Priority))
	if st := model.Status(s.Status); st.Valid() {
		d.Status = st
	}
	for _, id := range s.Assigned {
		if c, ok := contacts[id]; ok && !d.IsSelected(id) {
			d.ToggleContact(c)
		}
	}
	d.SubTasks = append(d.SubTasks, s.SubTasks...)
	return d
}

// InvalidSignals flags every required field, true when marked.
func InvalidSignals(fe service.FieldErrors) map[string]bool {
	out := make(map[string]bool, len(service.RequiredFields))
	for _, f := range service.RequiredFields {
		out[string(f)] = fe.Has(f)
	}
	return out
}

// ErrorSignals carries the marker text of every required field. Unmarked
// fields get the generic hint so the text is ready when the browser flags
// them.
func ErrorSignals(fe service.FieldErrors) map[string]string {
	out := make(map[string]string, len(service.RequiredFields))
	for _, f := range service.RequiredFields {
		out[string(f)] = fe.Message(f)
	}
	return out
}

func (s TaskFormSignals) JSON() template.HTMLAttr {
	b, err := sonic.Marshal(s)
	if err != nil {
		return "{}"
	}
	return template.HTMLAttr(b)
}
