package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"join/internal/auth"
	"join/internal/config"
	"join/internal/handler"
	"join/internal/middleware"
	"join/internal/repository"
	"join/internal/service"
	"join/internal/view"
)

type Server struct {
	Engine  *gin.Engine
	Store   *service.Store
	Config  *config.Config
	backend *Backend
	hub     *handler.Broadcaster
}

func Init(cfg *config.Config) (*Server, error) {
	logger := log.StandardLogger()
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()

	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := handler.RegisterValidators(v); err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("register validators: %w", err)
		}
	}

	pages, err := view.New()
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	// Initialize repositories
	contactRepo := repository.NewContactRepository(backend.Store)
	taskRepo := repository.NewTaskRepository(backend.Store)
	userRepo := repository.NewUserRepository(backend.Store)

	store := service.NewStore(contactRepo, taskRepo, logger)
	if err := store.Init(ctx); err != nil {
		log.WithError(err).Warn("⚠️  Initial load failed, starting with empty collections")
	}

	board := service.NewBoardService(store)
	composer := service.NewComposer(store)
	contacts := service.NewContactService(store)
	hub := handler.NewBroadcaster(store)
	tokens := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, tokens, pages)
	contactHandler := handler.NewContactHandler(contacts, pages)
	taskHandler := handler.NewTaskHandler(store, board, composer)
	boardHandler := handler.NewBoardHandler(store, board, pages, hub, cfg.Location())
	addTaskHandler := handler.NewAddTaskHandler(store, composer, pages)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.StaticFS("/static", http.FS(view.Static()))

	// Public routes
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/summary") })
	r.GET("/login", userHandler.LoginPage)
	r.POST("/login", userHandler.LoginForm)
	r.POST("/signup", userHandler.SignupForm)
	r.POST("/guest", userHandler.GuestForm)
	r.POST("/logout", userHandler.Logout)

	public := r.Group("/api")
	public.POST("/signup", userHandler.Register)
	public.POST("/login", userHandler.Login)
	public.POST("/guest", userHandler.Guest)

	// Protected routes - require authentication
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(tokens))
	{
		api.GET("/me", userHandler.Me)

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
	}

	pagesGroup := r.Group("/")
	pagesGroup.Use(middleware.PageAuthMiddleware(tokens))
	{
		pagesGroup.GET("/summary", boardHandler.SummaryPage)
		pagesGroup.GET("/board", boardHandler.BoardPage)
		pagesGroup.GET("/board/stream", boardHandler.Stream)
		pagesGroup.GET("/board/search", boardHandler.Stream)
		pagesGroup.POST("/board/drop", boardHandler.Drop)
		pagesGroup.GET("/board/tasks/:id", boardHandler.Detail)
		pagesGroup.DELETE("/board/tasks/:id", boardHandler.DeleteTask)
		pagesGroup.POST("/board/tasks/:id/subtasks/:sid/toggle", boardHandler.ToggleSubtask)

		pagesGroup.GET("/add-task", addTaskHandler.Page)
		pagesGroup.POST("/add-task", addTaskHandler.Submit)
		pagesGroup.POST("/add-task/subtasks", addTaskHandler.Subtasks)
		pagesGroup.POST("/add-task/clear", addTaskHandler.Clear)

		pagesGroup.GET("/contacts", contactHandler.Page)
		pagesGroup.POST("/contacts", contactHandler.CreateForm)
		pagesGroup.POST("/contacts/:id", contactHandler.UpdateForm)
		pagesGroup.POST("/contacts/:id/delete", contactHandler.DeleteForm)
		pagesGroup.GET("/contacts/search", contactHandler.Search)
	}

	return &Server{
		Engine:  r,
		Store:   store,
		Config:  cfg,
		backend: backend,
		hub:     hub,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Infof("🚀 Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("❌ Server forced to shutdown: %s", err)
	}
	s.hub.Close()
	if err := s.backend.Close(); err != nil {
		log.WithError(err).Warn("backend.close.failed")
	}

	log.Info("✅ Server exited properly")
}
