package handlers

import (
	"net/http"
	"time"

	"github.com/ekusa/ekusa-backend/internal/models"
	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/ekusa/ekusa-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Event Handler
// ============================================

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List - Public event listing
// GET /events?when=upcoming|past
func (h *EventHandler) List(c *gin.Context) {
	var (
		events []*repository.Event
		err    error
	)
	switch c.DefaultQuery("when", "upcoming") {
	case "upcoming":
		events, err = h.eventService.ListUpcoming(c.Request.Context())
	case "past":
		events, err = h.eventService.ListPast(c.Request.Context())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "when must be upcoming or past"})
		return
	}
	if err != nil {
		respondError(c, err, "Event not found", "Failed to fetch events")
		return
	}

	c.JSON(http.StatusOK, toEventResponses(events))
}

// ListAll - Every event, for the admin dashboard
// GET /admin/events
func (h *EventHandler) ListAll(c *gin.Context) {
	events, err := h.eventService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "Event not found", "Failed to fetch events")
		return
	}

	c.JSON(http.StatusOK, toEventResponses(events))
}

// Get - Event detail
// GET /events/:id
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.eventService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Event not found", "Failed to fetch event")
		return
	}

	c.JSON(http.StatusOK, toEventResponse(event))
}

func bindEvent(c *gin.Context) (service.EventInput, bool) {
	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return service.EventInput{}, false
	}

	date, err := time.Parse(dateLayout, req.EventDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_date must be YYYY-MM-DD"})
		return service.EventInput{}, false
	}

	return service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   date,
		EventTime:   req.EventTime,
		Location:    req.Location,
		EventType:   req.EventType,
		ImageURL:    req.ImageURL,
		Highlight:   req.Highlight,
	}, true
}

// Create
// POST /admin/events
func (h *EventHandler) Create(c *gin.Context) {
	input, ok := bindEvent(c)
	if !ok {
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Event not found", "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, toEventResponse(event))
}

// Update
// PUT /admin/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	input, ok := bindEvent(c)
	if !ok {
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err, "Event not found", "Failed to update event")
		return
	}

	c.JSON(http.StatusOK, toEventResponse(event))
}

// Delete
// DELETE /admin/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.eventService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Event not found", "Failed to delete event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}
