package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/starfederation/datastar-go/datastar"

	"join/internal/model"
	"join/internal/service"
	"join/internal/view"
)

type ContactHandler struct {
	contacts *service.ContactService
	pages    *view.Renderer
}

func NewContactHandler(contacts *service.ContactService, pages *view.Renderer) *ContactHandler {
	return &ContactHandler{contacts: contacts, pages: pages}
}

type ContactRequest struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Email string `json:"email" form:"email" binding:"omitempty,email"`
	Phone string `json:"phone" form:"phone"`
}

func (r ContactRequest) input() service.ContactInput {
	return service.ContactInput{Name: r.Name, Email: r.Email, Phone: r.Phone}
}

// GetAll godoc
// @Summary List contacts sorted by name
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Contact
// @Router /api/contacts [get]
func (h *ContactHandler) GetAll(c *gin.Context) {
	_ = h.contacts.Refresh(c)
	contacts := h.contacts.Sorted()
	if contacts == nil {
		contacts = []model.Contact{}
	}
	c.JSON(http.StatusOK, contacts)
}

// GetByID godoc
// @Summary Get a contact
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 200 {object} model.Contact
// @Failure 404 {object} map[string]string
// @Router /api/contacts/{id} [get]
func (h *ContactHandler) GetByID(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	_ = h.contacts.Refresh(c)
	contact, err := h.contacts.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// Create godoc
// @Summary Create a contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ContactRequest true "Contact"
// @Success 201 {object} model.Contact
// @Router /api/contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	contact, err := h.contacts.Create(c, req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// Update godoc
// @Summary Edit a contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Param request body ContactRequest true "Contact"
// @Success 200 {object} model.Contact
// @Router /api/contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	contact, err := h.contacts.Update(c, id, req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// Delete godoc
// @Summary Delete a contact
// @Description Tasks keep the id in assignedTo; it is skipped when rendering.
// @Tags Contacts
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 204
// @Router /api/contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.contacts.Delete(c, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Page renders the contact list. ?id= selects a contact and scrolls to it.
func (h *ContactHandler) Page(c *gin.Context) {
	_ = h.contacts.Refresh(c)
	props := view.ContactsProps{
		Page:             pageFor(c, "Contacts", "contacts"),
		ContactListProps: view.ContactListProps{Groups: h.contacts.Groups()},
	}
	if id, err := strconv.Atoi(c.Query("id")); err == nil {
		if contact, err := h.contacts.Get(id); err == nil {
			props.Selected = id
			props.Active = &contact
		}
	}
	renderPage(c, h.pages, http.StatusOK, "contacts", props)
}

func (h *ContactHandler) CreateForm(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusSeeOther, "/contacts")
		return
	}
	contact, err := h.contacts.Create(c, req.input())
	if err != nil {
		_ = c.Error(err)
		c.Redirect(http.StatusSeeOther, "/contacts")
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/contacts?id=%d", contact.ID))
}

func (h *ContactHandler) UpdateForm(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/contacts")
		return
	}
	var req ContactRequest
	if err := c.ShouldBind(&req); err == nil {
		if _, err := h.contacts.Update(c, id, req.input()); err != nil {
			_ = c.Error(err)
		}
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/contacts?id=%d", id))
}

func (h *ContactHandler) DeleteForm(c *gin.Context) {
	if id, err := strconv.Atoi(c.Param("id")); err == nil {
		if err := h.contacts.Delete(c, id); err != nil {
			_ = c.Error(err)
		}
	}
	c.Redirect(http.StatusSeeOther, "/contacts")
}

type contactSearchSignals struct {
	Query string `json:"query"`
}

// Search patches the contact list with the contacts matching $query.
func (h *ContactHandler) Search(c *gin.Context) {
	var sig contactSearchSignals
	if err := datastar.ReadSignals(c.Request, &sig); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signals"})
		return
	}
	html, err := h.pages.Fragment("contact_list", view.ContactListProps{
		Groups: service.GroupContacts(h.contacts.Search(sig.Query)),
	})
	if err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
	sse := datastar.NewSSE(c.Writer, c.Request)
	_ = sse.PatchElements(html, datastar.WithSelector("#contact-list"), datastar.WithMode(datastar.ElementPatchModeOuter))
}
