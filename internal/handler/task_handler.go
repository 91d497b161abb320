package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"join/internal/model"
	"join/internal/service"
)

type TaskHandler struct {
	store    *service.Store
	board    *service.BoardService
	composer *service.Composer
}

func NewTaskHandler(store *service.Store, board *service.BoardService, composer *service.Composer) *TaskHandler {
	return &TaskHandler{store: store, board: board, composer: composer}
}

// TaskRequest is the body of task create and update calls. Title, due date
// and category are checked by the composer so that every missing field is
// reported at once.
type TaskRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	DueDate     string           `json:"dueDate" binding:"omitempty,isodate"`
	Priority    string           `json:"priority" binding:"omitempty,taskpriority"`
	Status      string           `json:"status" binding:"omitempty,taskstatus"`
	AssignedTo  []int            `json:"assignedTo"`
	SubTasks    []SubtaskRequest `json:"subTasks" binding:"dive"`
}

type SubtaskRequest struct {
	ID        int    `json:"id"`
	Content   string `json:"content" binding:"required"`
	Completed bool   `json:"completed"`
}

type TaskMoveRequest struct {
	Status string `json:"status" binding:"required,taskstatus"`
}

// draft turns the request into composer state. Unknown contact ids are
// dropped; subtasks without an id get the next free one.
func (r TaskRequest) draft(contacts map[int]model.Contact) service.Draft {
	d := service.NewDraft()
	d.Title = r.Title
	d.Description = r.Description
	d.DueDate = r.DueDate
	if r.Category != "" {
		d.Category = model.Category(r.Category)
	}
	if r.Priority != "" {
		d.SetPriority(model.Priority(r.Priority))
	}
	if r.Status != "" {
		d.Status = model.Status(r.Status)
	}
	for _, id := range r.AssignedTo {
		if c, ok := contacts[id]; ok && !d.IsSelected(id) {
			d.ToggleContact(c)
		}
	}
	for _, st := range r.SubTasks {
		if st.ID > 0 {
			d.SubTasks = append(d.SubTasks, model.Subtask{ID: st.ID, Content: st.Content, Completed: st.Completed})
		}
	}
	for _, st := range r.SubTasks {
		if st.ID <= 0 {
			id := d.AddSubtask(st.Content)
			if st.Completed && id > 0 {
				d.SubTasks[len(d.SubTasks)-1].Completed = true
			}
		}
	}
	return d
}

// GetAll godoc
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Task
// @Router /api/tasks [get]
func (h *TaskHandler) GetAll(c *gin.Context) {
	refresh(c, h.store)
	tasks := h.store.Tasks()
	if tasks == nil {
		tasks = []model.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// GetByID godoc
// @Summary Get a task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} model.Task
// @Failure 404 {object} map[string]string
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	refresh(c, h.store)
	task, err := h.board.Task(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Create godoc
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TaskRequest true "Task"
// @Success 201 {object} model.Task
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]string
// @Router /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	task, err := h.composer.Create(c, req.draft(h.store.ContactIndex()))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// Update godoc
// @Summary Edit a task
// @Description Id and status are kept; use the move endpoint to change lanes.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body TaskRequest true "Task"
// @Success 200 {object} model.Task
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	task, err := h.composer.Update(c, id, req.draft(h.store.ContactIndex()))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary Delete a task
// @Tags Tasks
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 204
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	if err := h.board.DeleteTask(c, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MoveTask godoc
// @Summary Move a task to another lane
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body TaskMoveRequest true "Target status"
// @Success 200 {object} model.Task
// @Router /api/tasks/{id}/move [post]
func (h *TaskHandler) MoveTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	var req TaskMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	task, err := h.board.Move(c, id, model.Status(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ToggleSubtask godoc
// @Summary Flip a subtask between open and done
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param sid path int true "Subtask ID"
// @Success 200 {object} model.Task
// @Router /api/tasks/{id}/subtasks/{sid}/toggle [post]
func (h *TaskHandler) ToggleSubtask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	sid, ok := intParam(c, "sid")
	if !ok {
		return
	}
	task, err := h.board.ToggleSubtask(c, id, sid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// bindError reports binding failures per field.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": fields})
}
