package handlers

import (
	"net/http"

	"github.com/ekusa/ekusa-backend/internal/models"
	"github.com/ekusa/ekusa-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Contact Handler
// ============================================

type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Submit - Public contact form
// POST /contacts
func (h *ContactHandler) Submit(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.contactService.Submit(c.Request.Context(), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		respondError(c, err, "Message not found", "Failed to send message")
		return
	}

	c.JSON(http.StatusCreated, toContactResponse(contact))
}

// List - Messages, optionally by ?status=
// GET /admin/contacts
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.contactService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err, "Message not found", "Failed to fetch messages")
		return
	}

	response := make([]models.ContactResponse, len(contacts))
	for i, ct := range contacts {
		response[i] = toContactResponse(ct)
	}

	c.JSON(http.StatusOK, response)
}

// UpdateStatus - Mark read, replied or archived
// PATCH /admin/contacts/:id/status
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	var req models.ContactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.contactService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "Message not found", "Failed to update message")
		return
	}

	c.JSON(http.StatusOK, toContactResponse(contact))
}

// Delete
// DELETE /admin/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contactService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Message not found", "Failed to delete message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}
