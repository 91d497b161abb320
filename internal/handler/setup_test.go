package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"join/internal/handler"
	"join/internal/repository"
	"join/internal/service"
	"join/internal/view"
)

var validatorsOnce sync.Once

type testApp struct {
	router *gin.Engine
	store  *service.Store
	mem    *repository.MemoryStore
}

func newTestApp(t *testing.T, contactsJSON, tasksJSON string) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		require.True(t, ok)
		require.NoError(t, handler.RegisterValidators(v))
	})

	mem := repository.NewMemoryStore()
	if contactsJSON != "" {
		mem.Seed(repository.ContactsPath, contactsJSON)
	}
	if tasksJSON != "" {
		mem.Seed(repository.TasksPath, tasksJSON)
	}
	logger := log.New()
	logger.SetOutput(io.Discard)
	store := service.NewStore(repository.NewContactRepository(mem), repository.NewTaskRepository(mem), logger)
	require.NoError(t, store.Init(t.Context()))

	pages, err := view.New()
	require.NoError(t, err)
	board := service.NewBoardService(store)
	composer := service.NewComposer(store)
	contacts := service.NewContactService(store)
	hub := handler.NewBroadcaster(store)
	t.Cleanup(hub.Close)

	taskHandler := handler.NewTaskHandler(store, board, composer)
	contactHandler := handler.NewContactHandler(contacts, pages)
	boardHandler := handler.NewBoardHandler(store, board, pages, hub, time.UTC)
	addTaskHandler := handler.NewAddTaskHandler(store, composer, pages)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/contacts", contactHandler.GetAll)
	api.POST("/contacts", contactHandler.Create)
	api.GET("/contacts/:id", contactHandler.GetByID)
	api.PUT("/contacts/:id", contactHandler.Update)
	api.DELETE("/contacts/:id", contactHandler.Delete)
	api.GET("/tasks", taskHandler.GetAll)
	api.POST("/tasks", taskHandler.Create)
	api.GET("/tasks/:id", taskHandler.GetByID)
	api.PUT("/tasks/:id", taskHandler.Update)
	api.DELETE("/tasks/:id", taskHandler.Delete)
	api.POST("/tasks/:id/move", taskHandler.MoveTask)
	api.POST("/tasks/:id/subtasks/:sid/toggle", taskHandler.ToggleSubtask)
	api.GET("/board", boardHandler.Columns)
	api.GET("/summary", boardHandler.Summary)

	r.GET("/board", boardHandler.BoardPage)
	r.POST("/board/drop", boardHandler.Drop)
	r.GET("/board/tasks/:id", boardHandler.Detail)
	r.GET("/contacts", contactHandler.Page)
	r.POST("/contacts", contactHandler.CreateForm)
	r.GET("/contacts/search", contactHandler.Search)
	r.GET("/add-task", addTaskHandler.Page)
	r.POST("/add-task", addTaskHandler.Submit)
	r.POST("/add-task/subtasks", addTaskHandler.Subtasks)

	return &testApp{router: r, store: store, mem: mem}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	a.router.ServeHTTP(resp, req)
	return resp
}

func serve(a *testApp, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	a.router.ServeHTTP(resp, req)
	return resp
}
