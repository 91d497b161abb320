package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/starfederation/datastar-go/datastar"

	"join/internal/middleware"
	"join/internal/model"
	"join/internal/service"
	"join/internal/view"
)

const keepAliveInterval = 25 * time.Second

type BoardHandler struct {
	store *service.Store
	board *service.BoardService
	pages *view.Renderer
	hub   *Broadcaster
	loc   *time.Location
}

func NewBoardHandler(store *service.Store, board *service.BoardService, pages *view.Renderer, hub *Broadcaster, loc *time.Location) *BoardHandler {
	if loc == nil {
		loc = time.Local
	}
	return &BoardHandler{store: store, board: board, pages: pages, hub: hub, loc: loc}
}

// Columns godoc
// @Summary Board lanes
// @Description The four lanes in board order, filtered by title or description.
// @Tags Board
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search text"
// @Success 200 {array} service.BoardColumn
// @Router /api/board [get]
func (h *BoardHandler) Columns(c *gin.Context) {
	refresh(c, h.store)
	c.JSON(http.StatusOK, h.board.Columns(c.Query("q")))
}

// Summary godoc
// @Summary Task metrics
// @Tags Board
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Summary
// @Router /api/summary [get]
func (h *BoardHandler) Summary(c *gin.Context) {
	refresh(c, h.store)
	c.JSON(http.StatusOK, h.store.Summary(time.Now().In(h.loc)))
}

func (h *BoardHandler) SummaryPage(c *gin.Context) {
	refresh(c, h.store)
	props := view.NewSummary(pageFor(c, "Summary", "summary"), h.store.Summary(time.Now().In(h.loc)))
	if v, err := c.Cookie(middleware.GreetingCookie); err == nil && v != "" {
		props.Welcome = true
		c.SetCookie(middleware.GreetingCookie, "", -1, "/", "", false, false)
	}
	renderPage(c, h.pages, http.StatusOK, "summary", props)
}

func (h *BoardHandler) BoardPage(c *gin.Context) {
	refresh(c, h.store)
	query := c.Query("q")
	renderPage(c, h.pages, http.StatusOK, "board", view.BoardProps{
		Page:    pageFor(c, "Board", "board"),
		Query:   query,
		Columns: h.columnProps(query, service.DragState{}),
	})
}

type boardSignals struct {
	Query  string `json:"query"`
	DragID int64  `json:"dragId"`
	DropTo string `json:"dropTo"`
}

// Stream keeps the lanes of one browser tab in sync. It renders the lanes
// for the query the tab sent and re-renders them after every store change.
// The search box reconnects with a new query.
func (h *BoardHandler) Stream(c *gin.Context) {
	var sig boardSignals
	if err := datastar.ReadSignals(c.Request, &sig); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signals"})
		return
	}

	ch, cancel := h.hub.subscribe()
	defer cancel()
	refresh(c, h.store)

	sse := datastar.NewSSE(c.Writer, c.Request)
	render := func() {
		html, err := h.pages.Fragment("board_columns", h.columnProps(sig.Query, service.DragState{}))
		if err != nil {
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			return
		}
		_ = sse.PatchElements(html, datastar.WithSelector("#board-columns"), datastar.WithMode(datastar.ElementPatchModeInner))
	}
	render()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			render()
		}
	}
}

// Drop moves the dragged task into the lane it was dropped on.
func (h *BoardHandler) Drop(c *gin.Context) {
	var sig boardSignals
	if err := datastar.ReadSignals(c.Request, &sig); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signals"})
		return
	}
	sse := datastar.NewSSE(c.Writer, c.Request)
	defer func() {
		_ = sse.MarshalAndPatchSignals(map[string]any{"dragId": 0, "dragFrom": "", "dropTo": ""})
	}()

	drag, err := h.board.StartDrag(sig.DragID)
	if err == nil {
		_, err = h.board.Drop(c, drag, model.Status(sig.DropTo))
	}
	if err != nil {
		log.WithError(err).WithField("task_id", sig.DragID).Warn("board.drop.failed")
		patchToast(h.pages, sse, "Could not move the task")
		return
	}

	html, err := h.pages.Fragment("board_columns", h.columnProps(sig.Query, service.DragState{}))
	if err != nil {
		return
	}
	_ = sse.PatchElements(html, datastar.WithSelector("#board-columns"), datastar.WithMode(datastar.ElementPatchModeInner))
}

// Detail opens the task dialog.
func (h *BoardHandler) Detail(c *gin.Context) {
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
	sse := datastar.NewSSE(c.Writer, c.Request)
	h.patchDetail(sse, task)
	_ = sse.ExecuteScript(`document.getElementById('task-detail').showModal()`)
}

func (h *BoardHandler) ToggleSubtask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	sid, ok := intParam(c, "sid")
	if !ok {
		return
	}
	sse := datastar.NewSSE(c.Writer, c.Request)
	task, err := h.board.ToggleSubtask(c, id, sid)
	if err != nil {
		patchToast(h.pages, sse, "Could not update the subtask")
		if task, ok := h.store.Task(id); ok {
			h.patchDetail(sse, task)
		}
		return
	}
	h.patchDetail(sse, task)
}

func (h *BoardHandler) DeleteTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	sse := datastar.NewSSE(c.Writer, c.Request)
	if err := h.board.DeleteTask(c, id); err != nil {
		patchToast(h.pages, sse, "Could not delete the task")
		return
	}
	_ = sse.ExecuteScript(`document.getElementById('task-detail').close()`)
}

func (h *BoardHandler) patchDetail(sse *datastar.ServerSentEventGenerator, task model.Task) {
	html, err := h.pages.Fragment("task_detail", view.NewTaskDetail(task, h.store.ContactIndex()))
	if err != nil {
		_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
		return
	}
	_ = sse.PatchElements(html, datastar.WithSelector("#task-detail"), datastar.WithMode(datastar.ElementPatchModeInner))
}

func (h *BoardHandler) columnProps(query string, drag service.DragState) []view.ColumnProps {
	return view.NewBoard(h.board.Columns(query), h.store.ContactIndex(), drag)
}
