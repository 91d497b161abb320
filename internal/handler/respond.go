package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/starfederation/datastar-go/datastar"

	"join/internal/middleware"
	"join/internal/service"
	"join/internal/view"
)

// writeError maps domain errors to status codes. Anything unknown is a
// failed remote write or read.
func writeError(c *gin.Context, err error) {
	var fe service.FieldErrors
	switch {
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": fe})
	case errors.Is(err, service.ErrContactNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrSubtaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrContactNameMissing),
		errors.Is(err, service.ErrNoDrag):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Remote store unavailable"})
	}
}

func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func taskIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return 0, false
	}
	return id, true
}

// refresh reloads the store before a page or list is served. Load failures
// are logged by the store and the last snapshot is served.
func refresh(c *gin.Context, store *service.Store) {
	_ = store.Init(c)
}

// pageFor builds the layout fields from the request session.
func pageFor(c *gin.Context, title, active string) view.Page {
	s, _ := middleware.CurrentSession(c)
	return view.NewPage(title, active, s.Name, s.Guest)
}

func renderPage(c *gin.Context, pages *view.Renderer, status int, name string, data any) {
	var b bytes.Buffer
	if err := pages.Render(&b, name, data); err != nil {
		log.WithError(err).WithField("template", name).Error("page.render.failed")
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(status, "text/html; charset=utf-8", b.Bytes())
}

// patchToast shows msg in the page toast.
func patchToast(pages *view.Renderer, sse *datastar.ServerSentEventGenerator, msg string) {
	html, err := pages.Fragment("toast", msg)
	if err != nil {
		return
	}
	_ = sse.PatchElements(html)
}
