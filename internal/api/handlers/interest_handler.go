package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/ekusa/ekusa-backend/internal/api/middleware"
	"github.com/ekusa/ekusa-backend/internal/models"
	"github.com/ekusa/ekusa-backend/internal/service"
	"github.com/ekusa/ekusa-backend/internal/workflow"
	"github.com/gin-gonic/gin"
)

// ============================================
// Interest Handler
// ============================================

// InterestHandler drives the per-visitor "I'm interested" dialog of an event.
type InterestHandler struct {
	interestService service.InterestWorkflowService
}

func NewInterestHandler(interestService service.InterestWorkflowService) *InterestHandler {
	return &InterestHandler{interestService: interestService}
}

var workflowStatuses = []struct {
	err    error
	status int
	code   string
}{
	{workflow.ErrStaleCache, http.StatusConflict, "stale_cache"},
	{workflow.ErrCheckFailed, http.StatusBadGateway, "check_failed"},
	{workflow.ErrInterestRecordingFailed, http.StatusBadGateway, "interest_recording_failed"},
	{workflow.ErrRegistrationFailed, http.StatusBadGateway, "registration_failed"},
	{workflow.ErrMissingFields, http.StatusBadRequest, "missing_fields"},
	{workflow.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{workflow.ErrBusy, http.StatusTooManyRequests, "busy"},
	{workflow.ErrSuperseded, http.StatusConflict, "superseded"},
}

func (h *InterestHandler) fail(c *gin.Context, err error, view workflow.View) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Client id required"})
		return
	}

	for _, ws := range workflowStatuses {
		if errors.Is(err, ws.err) {
			c.JSON(ws.status, gin.H{
				"error":  err.Error(),
				"code":   ws.code,
				"notice": workflow.NoticeFor(err),
				"view":   view,
			})
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process interest request"})
}

func (h *InterestHandler) respond(c *gin.Context, view workflow.View, err error) {
	if err != nil {
		h.fail(c, err, view)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": view})
}

func (h *InterestHandler) respondOutcome(c *gin.Context, outcome *workflow.Outcome, view workflow.View, err error) {
	if err != nil {
		h.fail(c, err, view)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"view":    view,
		"outcome": outcome,
		"notice":  outcome.Notice,
	})
}

// bindOptionalJSON binds the request body into req and reports whether one
// was sent. An empty chunked body counts as no body.
func bindOptionalJSON(c *gin.Context, req interface{}) (bool, error) {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return false, nil
	}
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// View - Current dialog state
// GET /events/:id/interest
func (h *InterestHandler) View(c *gin.Context) {
	view, err := h.interestService.View(c.Request.Context(), middleware.GetClientID(c), c.Param("id"))
	h.respond(c, view, err)
}

// Open - Open the dialog, picking up the visitor's saved membership
// POST /events/:id/interest/open
func (h *InterestHandler) Open(c *gin.Context) {
	view, err := h.interestService.Open(c.Request.Context(), middleware.GetClientID(c), c.Param("id"))
	h.respond(c, view, err)
}

// SetCheckForm - Update the membership check fields
// PUT /events/:id/interest/check-form
func (h *InterestHandler) SetCheckForm(c *gin.Context) {
	var req models.CheckFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.interestService.SetCheckForm(c.Request.Context(), middleware.GetClientID(c), c.Param("id"), workflow.CheckForm{
		Email:              req.Email,
		RegistrationNumber: req.RegistrationNumber,
	})
	h.respond(c, view, err)
}

// SubmitCheck - Check membership and record interest
// POST /events/:id/interest/check
func (h *InterestHandler) SubmitCheck(c *gin.Context) {
	var (
		form *workflow.CheckForm
		req  models.CheckFormRequest
	)
	sent, err := bindOptionalJSON(c, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if sent {
		form = &workflow.CheckForm{Email: req.Email, RegistrationNumber: req.RegistrationNumber}
	}

	outcome, view, err := h.interestService.SubmitCheck(c.Request.Context(), middleware.GetClientID(c), c.Param("id"), form)
	h.respondOutcome(c, outcome, view, err)
}

// ChooseNewRegistration - Switch to the event registration form
// POST /events/:id/interest/new-registration
func (h *InterestHandler) ChooseNewRegistration(c *gin.Context) {
	view, err := h.interestService.ChooseNewRegistration(c.Request.Context(), middleware.GetClientID(c), c.Param("id"))
	h.respond(c, view, err)
}

// ApplyForMembership - Hand back the membership application URL
// POST /events/:id/interest/apply
func (h *InterestHandler) ApplyForMembership(c *gin.Context) {
	url, view, err := h.interestService.ApplyForMembership(c.Request.Context(), middleware.GetClientID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, view)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": view, "application_url": url})
}

// SetRegistrationForm - Update the event registration fields
// PUT /events/:id/interest/registration-form
func (h *InterestHandler) SetRegistrationForm(c *gin.Context) {
	var req models.RegistrationFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.interestService.SetRegistrationForm(c.Request.Context(), middleware.GetClientID(c), c.Param("id"), toRegistrationForm(req))
	h.respond(c, view, err)
}

// SubmitRegistration - Register for the event without a membership
// POST /events/:id/interest/registration
func (h *InterestHandler) SubmitRegistration(c *gin.Context) {
	var (
		form *workflow.RegistrationForm
		req  models.RegistrationFormRequest
	)
	sent, err := bindOptionalJSON(c, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if sent {
		f := toRegistrationForm(req)
		form = &f
	}

	outcome, view, err := h.interestService.SubmitRegistration(c.Request.Context(), middleware.GetClientID(c), c.Param("id"), form)
	h.respondOutcome(c, outcome, view, err)
}

// Back - Return from the registration form to the offer
// POST /events/:id/interest/back
func (h *InterestHandler) Back(c *gin.Context) {
	view, err := h.interestService.Back(c.Request.Context(), middleware.GetClientID(c), c.Param("id"))
	h.respond(c, view, err)
}

// Close - Dismiss the dialog and clear its forms
// POST /events/:id/interest/close
func (h *InterestHandler) Close(c *gin.Context) {
	view, err := h.interestService.Close(c.Request.Context(), middleware.GetClientID(c), c.Param("id"))
	h.respond(c, view, err)
}

func toRegistrationForm(req models.RegistrationFormRequest) workflow.RegistrationForm {
	return workflow.RegistrationForm{
		Name:               req.Name,
		Course:             req.Course,
		RegistrationNumber: req.RegistrationNumber,
		PhoneNumber:        req.PhoneNumber,
	}
}
