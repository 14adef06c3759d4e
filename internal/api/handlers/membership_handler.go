package handlers

import (
	"net/http"

	"github.com/ekusa/ekusa-backend/internal/api/middleware"
	"github.com/ekusa/ekusa-backend/internal/models"
	"github.com/ekusa/ekusa-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Membership Handler
// ============================================

type MembershipHandler struct {
	membershipService service.MembershipService
	interestService   service.InterestWorkflowService
}

func NewMembershipHandler(membershipService service.MembershipService, interestService service.InterestWorkflowService) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		interestService:   interestService,
	}
}

// Apply - Submit a membership application
// POST /memberships
func (h *MembershipHandler) Apply(c *gin.Context) {
	var req models.MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientID := middleware.GetClientID(c)
	m, err := h.membershipService.Apply(c.Request.Context(), clientID, service.MembershipInput{
		Name:               req.Name,
		Email:              req.Email,
		Course:             req.Course,
		RegistrationNumber: req.RegistrationNumber,
		PhoneNumber:        req.PhoneNumber,
		YearOfStudy:        req.YearOfStudy,
		ReasonForJoining:   req.ReasonForJoining,
	})
	if err != nil {
		respondError(c, err, "Membership not found", "Failed to submit application")
		return
	}

	// Open dialogs were loaded without this identity.
	if h.interestService != nil {
		h.interestService.ResetClient(clientID)
	}

	c.JSON(http.StatusCreated, toMembershipResponse(m))
}

// Current - Membership remembered for this browser
// GET /memberships/me
func (h *MembershipHandler) Current(c *gin.Context) {
	cached, err := h.membershipService.Current(c.Request.Context(), middleware.GetClientID(c))
	if err != nil {
		respondError(c, err, "Membership not found", "Failed to read saved membership")
		return
	}

	c.JSON(http.StatusOK, models.CurrentMemberResponse{Member: toIdentityResponse(cached)})
}

// Forget - Drop the membership remembered for this browser
// DELETE /memberships/me
func (h *MembershipHandler) Forget(c *gin.Context) {
	clientID := middleware.GetClientID(c)
	if err := h.membershipService.Forget(c.Request.Context(), clientID); err != nil {
		respondError(c, err, "Membership not found", "Failed to forget membership")
		return
	}
	if h.interestService != nil {
		h.interestService.ResetClient(clientID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Saved membership removed"})
}

// ============================================
// Admin
// ============================================

// List - All applications, optionally filtered by ?q=
// GET /admin/memberships
func (h *MembershipHandler) List(c *gin.Context) {
	members, err := h.membershipService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, "Membership not found", "Failed to fetch memberships")
		return
	}

	response := make([]models.MembershipResponse, len(members))
	for i, m := range members {
		response[i] = toMembershipResponse(m)
	}

	c.JSON(http.StatusOK, response)
}

// Get - Single application
// GET /admin/memberships/:id
func (h *MembershipHandler) Get(c *gin.Context) {
	m, err := h.membershipService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Membership not found", "Failed to fetch membership")
		return
	}

	c.JSON(http.StatusOK, toMembershipResponse(m))
}

// Delete - Remove an application
// DELETE /admin/memberships/:id
func (h *MembershipHandler) Delete(c *gin.Context) {
	if err := h.membershipService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Membership not found", "Failed to delete membership")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Membership deleted"})
}

// ListInterests - Recorded interests, filtered by ?q= and ?event_id=
// GET /admin/interests
func (h *MembershipHandler) ListInterests(c *gin.Context) {
	interests, err := h.membershipService.ListInterests(c.Request.Context(), c.Query("q"), c.Query("event_id"))
	if err != nil {
		respondError(c, err, "Event not found", "Failed to fetch interests")
		return
	}

	response := make([]models.InterestResponse, len(interests))
	for i, in := range interests {
		response[i] = toInterestResponse(in)
	}

	c.JSON(http.StatusOK, response)
}

// DeleteInterest
// DELETE /admin/interests/:id
func (h *MembershipHandler) DeleteInterest(c *gin.Context) {
	if err := h.membershipService.DeleteInterest(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Interest not found", "Failed to delete interest")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Interest deleted"})
}

// ListRegistrations - Event registrations, optionally for one ?event_id=
// GET /admin/registrations
func (h *MembershipHandler) ListRegistrations(c *gin.Context) {
	regs, err := h.membershipService.ListRegistrations(c.Request.Context(), c.Query("event_id"))
	if err != nil {
		respondError(c, err, "Event not found", "Failed to fetch registrations")
		return
	}

	response := make([]models.RegistrationResponse, len(regs))
	for i, r := range regs {
		response[i] = toRegistrationResponse(r)
	}

	c.JSON(http.StatusOK, response)
}

// DeleteRegistration
// DELETE /admin/registrations/:id
func (h *MembershipHandler) DeleteRegistration(c *gin.Context) {
	if err := h.membershipService.DeleteRegistration(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Registration not found", "Failed to delete registration")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registration deleted"})
}
