package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/starfederation/datastar-go/datastar"

	"join/internal/model"
	"join/internal/service"
	"join/internal/view"
)

// RedirectDelayMillis is how long the "added" toast stays before the
// browser moves on to the board.
const RedirectDelayMillis = 1500

type AddTaskHandler struct {
	store    *service.Store
	composer *service.Composer
	pages    *view.Renderer
}

func NewAddTaskHandler(store *service.Store, composer *service.Composer, pages *view.Renderer) *AddTaskHandler {
	return &AddTaskHandler{store: store, composer: composer, pages: pages}
}

// Page renders the empty form, or the edit dialog with ?edit=<task id>.
// ?status= presets the lane, as the "+" buttons on the board do.
func (h *AddTaskHandler) Page(c *gin.Context) {
	refresh(c, h.store)
	d := service.NewDraft()
	var editID int64
	if raw := c.Query("edit"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		task, ok := h.store.Task(id)
		if err != nil || !ok {
			c.Redirect(http.StatusSeeOther, "/board")
			return
		}
		d = service.DraftFromTask(task, h.store.ContactIndex())
		editID = id
	} else if st, err := model.ParseStatus(c.Query("status")); err == nil {
		d.Status = st
	}
	h.render(c, d, editID)
}

// Submit validates the form and saves the task. Invalid fields are flagged
// all at once; a saved task shows a toast and then opens the board.
func (h *AddTaskHandler) Submit(c *gin.Context) {
	var sig view.TaskFormSignals
	if err := datastar.ReadSignals(c.Request, &sig); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signals"})
		return
	}
	d := sig.Draft(h.store.ContactIndex())
	sse := datastar.NewSSE(c.Writer, c.Request)

	var err error
	msg := "Task added to board"
	if sig.EditID > 0 {
		_, err = h.composer.Update(c, sig.EditID, d)
		msg = "Task updated"
	} else {
		_, err = h.composer.Create(c, d)
	}

	var fe service.FieldErrors
	switch {
	case errors.As(err, &fe):
		_ = sse.MarshalAndPatchSignals(map[string]any{
			"invalid": view.InvalidSignals(fe),
			"errors":  view.ErrorSignals(fe),
		})
		return
	case err != nil:
		log.WithError(err).Error("tasks.save.failed")
		patchToast(h.pages, sse, "Saving failed, please try again")
		return
	}

	patchToast(h.pages, sse, msg)
	_ = sse.ExecuteScript("setTimeout(() => { window.location.href = '/board' }, " + strconv.Itoa(RedirectDelayMillis) + ")")
}

// Subtasks applies one add, edit or remove to the subtask list.
func (h *AddTaskHandler) Subtasks(c *gin.Context) {
	var sig view.TaskFormSignals
	if err := datastar.ReadSignals(c.Request, &sig); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signals"})
		return
	}
	d := sig.Draft(h.store.ContactIndex())
	switch sig.SubtaskOp {
	case "add":
		d.AddSubtask(sig.SubtaskInput)
	case "edit":
		_ = d.EditSubtask(sig.SubtaskID, sig.SubtaskText)
	case "remove":
		_ = d.RemoveSubtask(sig.SubtaskID)
	}

	sse := datastar.NewSSE(c.Writer, c.Request)
	html, err := h.pages.Fragment("subtask_list", d.SubTasks)
	if err != nil {
		_ = c.Error(err)
		return
	}
	_ = sse.PatchElements(html, datastar.WithSelector("#subtask-list"), datastar.WithMode(datastar.ElementPatchModeOuter))
	subtasks := d.SubTasks
	if subtasks == nil {
		subtasks = []model.Subtask{}
	}
	_ = sse.MarshalAndPatchSignals(map[string]any{
		"subtasks":     subtasks,
		"subtaskInput": "",
		"subtaskOp":    "",
		"subtaskText":  "",
	})
}

// Clear resets the form, keeping the preset lane.
func (h *AddTaskHandler) Clear(c *gin.Context) {
	var sig view.TaskFormSignals
	if err := datastar.ReadSignals(c.Request, &sig); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signals"})
		return
	}
	d := sig.Draft(h.store.ContactIndex())
	d.Clear()

	props := view.NewAddTask(pageFor(c, "Add Task", "add-task"), d, sig.EditID, service.SortContacts(h.store.Contacts()))
	html, err := h.pages.Fragment("add_task_form", props)
	if err != nil {
		_ = c.Error(err)
		return
	}
	sse := datastar.NewSSE(c.Writer, c.Request)
	_ = sse.PatchElements(html, datastar.WithSelector("#add-task-form"), datastar.WithMode(datastar.ElementPatchModeOuter))
	_ = sse.MarshalAndPatchSignals(view.SignalsFromDraft(d, sig.EditID))
}

func (h *AddTaskHandler) render(c *gin.Context, d service.Draft, editID int64) {
	title := "Add Task"
	if editID > 0 {
		title = "Edit Task"
	}
	props := view.NewAddTask(pageFor(c, title, "add-task"), d, editID, service.SortContacts(h.store.Contacts()))
	renderPage(c, h.pages, http.StatusOK, "add_task", props)
}
