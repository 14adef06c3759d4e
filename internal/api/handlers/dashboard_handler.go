package handlers

import (
	"net/http"
	"time"

	"github.com/ekusa/ekusa-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Dashboard Handler
// ============================================

type DashboardHandler struct {
	dashboardService service.DashboardService
	interestService  service.InterestWorkflowService
}

func NewDashboardHandler(dashboardService service.DashboardService, interestService service.InterestWorkflowService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		interestService:  interestService,
	}
}

// Stats - Totals for the dashboard cards
// GET /admin/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Stats not found", "Failed to fetch stats")
		return
	}

	active := 0
	if h.interestService != nil {
		active = h.interestService.ActiveSessions()
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":           stats,
		"active_sessions": active,
	})
}

// SendDigest - Mail the last day's activity to the admin now
// POST /admin/digest
func (h *DashboardHandler) SendDigest(c *gin.Context) {
	digest, err := h.dashboardService.SendDigest(c.Request.Context(), time.Now().Add(-24*time.Hour))
	if err != nil {
		respondError(c, err, "Digest not found", "Failed to send digest")
		return
	}

	c.JSON(http.StatusAccepted, digest)
}
