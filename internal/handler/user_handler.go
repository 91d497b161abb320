package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"join/internal/auth"
	"join/internal/middleware"
	"join/internal/model"
	"join/internal/repository"
	"join/internal/service"
	"join/internal/view"
)

const guestName = "Guest"

type UserHandler struct {
	repo   repository.UserRepositoryInterface
	tokens *auth.Manager
	pages  *view.Renderer
}

func NewUserHandler(repo repository.UserRepositoryInterface, tokens *auth.Manager, pages *view.Renderer) *UserHandler {
	return &UserHandler{repo: repo, tokens: tokens, pages: pages}
}

type RegisterRequest struct {
	Name     string `json:"name" form:"name" binding:"required,min=2"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type UserResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Guest bool   `json:"guest"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

var errUserExists = errors.New("User with this email already exists")

// Register godoc
// @Summary Sign up
// @Tags Users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "New user"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/signup [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.register(c, req)
	if err != nil {
		if errors.Is(err, errUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create failed"})
		return
	}

	h.respondWithToken(c, http.StatusCreated, sessionFor(user), user.Email)
}

// Login godoc
// @Summary Log in
// @Tags Users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} map[string]string
// @Router /api/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.authenticate(c, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}

	h.respondWithToken(c, http.StatusOK, sessionFor(user), user.Email)
}

// Guest godoc
// @Summary Log in as guest
// @Tags Users
// @Produce json
// @Success 200 {object} AuthResponse
// @Router /api/guest [post]
func (h *UserHandler) Guest(c *gin.Context) {
	h.respondWithToken(c, http.StatusOK, auth.Session{Name: guestName, Guest: true}, "")
}

// Me godoc
// @Summary Current user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]string
// @Router /api/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if s.Guest {
		c.JSON(http.StatusOK, UserResponse{Name: s.Name, Guest: true})
		return
	}
	user, err := h.repo.GetByID(c, s.UserID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Remote store unavailable"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
		return
	}
	c.JSON(http.StatusOK, UserResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

// LoginPage renders the log-in or sign-up form.
func (h *UserHandler) LoginPage(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, c.Query("mode"), "")
}

func (h *UserHandler) LoginForm(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, "", "Please enter email and password")
		return
	}
	user, err := h.authenticate(c, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.renderLogin(c, http.StatusUnauthorized, "", "Check your email and password. Please try again.")
			return
		}
		h.renderLogin(c, http.StatusBadGateway, "", "Login is unavailable right now")
		return
	}
	h.startBrowserSession(c, sessionFor(user))
}

func (h *UserHandler) SignupForm(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, "signup", "Please fill in all fields")
		return
	}
	if c.PostForm("confirm") != req.Password {
		h.renderLogin(c, http.StatusBadRequest, "signup", "Your passwords don't match. Please try again.")
		return
	}
	user, err := h.register(c, req)
	if err != nil {
		if errors.Is(err, errUserExists) {
			h.renderLogin(c, http.StatusConflict, "signup", err.Error())
			return
		}
		h.renderLogin(c, http.StatusBadGateway, "signup", "Sign up is unavailable right now")
		return
	}
	h.startBrowserSession(c, sessionFor(user))
}

func (h *UserHandler) GuestForm(c *gin.Context) {
	h.startBrowserSession(c, auth.Session{Name: guestName, Guest: true})
}

func (h *UserHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.SetCookie(middleware.GreetingCookie, "", -1, "/", "", false, false)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *UserHandler) register(c *gin.Context, req RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := h.repo.FindByEmail(c, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		HashedPassword: string(hash),
	}
	if err := h.repo.Create(c, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, errUserExists
		}
		log.WithError(err).Error("users.create.failed")
		return nil, err
	}
	return user, nil
}

func (h *UserHandler) authenticate(c *gin.Context, req LoginRequest) (*model.User, error) {
	user, err := h.repo.FindByEmail(c, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		log.WithError(err).Error("users.lookup.failed")
		return nil, err
	}
	if user == nil {
		return nil, service.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, service.ErrInvalidCredentials
	}
	return user, nil
}

func (h *UserHandler) respondWithToken(c *gin.Context, status int, s auth.Session, email string) {
	token, err := h.tokens.GenerateToken(s)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(status, AuthResponse{
		Token: token,
		User:  UserResponse{ID: s.UserID, Name: s.Name, Email: email, Guest: s.Guest},
	})
}

// startBrowserSession stores the token cookie plus the one-shot greeting
// flag and sends the browser to the summary page.
func (h *UserHandler) startBrowserSession(c *gin.Context, s auth.Session) {
	token, err := h.tokens.GenerateToken(s)
	if err != nil {
		h.renderLogin(c, http.StatusInternalServerError, "", "Failed to start session")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, 0, "/", "", false, true)
	c.SetCookie(middleware.GreetingCookie, "1", 0, "/", "", false, false)
	c.Redirect(http.StatusSeeOther, "/summary")
}

func (h *UserHandler) renderLogin(c *gin.Context, status int, mode, msg string) {
	title := "Log in"
	if mode == "signup" {
		title = "Sign up"
	}
	renderPage(c, h.pages, status, "login", view.LoginProps{
		Page:  view.NewPage(title, "", "", false),
		Mode:  mode,
		Error: msg,
	})
}

func sessionFor(u *model.User) auth.Session {
	return auth.Session{UserID: u.ID, Name: u.Name, Guest: u.Guest}
}
