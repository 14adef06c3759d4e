package handlers

import (
	"errors"
	"net/http"

	"github.com/ekusa/ekusa-backend/internal/identity"
	"github.com/ekusa/ekusa-backend/internal/models"
	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/ekusa/ekusa-backend/internal/service"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth       *AuthHandler
	Interest   *InterestHandler
	Membership *MembershipHandler
	Event      *EventHandler
	News       *NewsHandler
	Contact    *ContactHandler
	Dashboard  *DashboardHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:       &AuthHandler{authService: services.Auth},
		Interest:   &InterestHandler{interestService: services.Interest},
		Membership: &MembershipHandler{membershipService: services.Membership, interestService: services.Interest},
		Event:      &EventHandler{eventService: services.Event},
		News:       &NewsHandler{newsService: services.News},
		Contact:    &ContactHandler{contactService: services.Contact},
		Dashboard:  &DashboardHandler{dashboardService: services.Dashboard, interestService: services.Interest},
	}
}

// respondError maps service sentinels to status codes. Anything else is a 500
// with the given message.
func respondError(c *gin.Context, err error, notFound, failed string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Resource already exists"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failed})
	}
}

// ============================================
// Response Mappers
// ============================================

func toAdminResponse(a *repository.Admin) models.AdminResponse {
	return models.AdminResponse{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		LastLoginAt: a.LastLoginAt,
	}
}

func toMembershipResponse(m *repository.Membership) models.MembershipResponse {
	return models.MembershipResponse{
		ID:                 m.ID,
		Name:               m.Name,
		Email:              m.Email,
		Course:             m.Course,
		RegistrationNumber: m.RegistrationNumber,
		PhoneNumber:        m.PhoneNumber,
		YearOfStudy:        m.YearOfStudy,
		ReasonForJoining:   m.ReasonForJoining,
		CreatedAt:          m.CreatedAt,
	}
}

func toIdentityResponse(i *identity.Identity) *models.IdentityResponse {
	if i == nil {
		return nil
	}
	return &models.IdentityResponse{
		ID:                 i.ID,
		Name:               i.Name,
		Email:              i.Email,
		RegistrationNumber: i.RegistrationNumber,
		RegisteredAt:       i.RegisteredAt,
		Greeting:           "Welcome, " + i.FirstName() + "!",
	}
}

func toInterestResponse(i *repository.EventInterest) models.InterestResponse {
	return models.InterestResponse{
		ID:          i.ID,
		MemberID:    i.MemberID,
		EventID:     i.EventID,
		EventTitle:  i.EventTitle,
		EventDate:   i.EventDate,
		MemberName:  i.MemberName,
		MemberEmail: i.MemberEmail,
		CreatedAt:   i.CreatedAt,
	}
}

func toRegistrationResponse(r *repository.EventRegistration) models.RegistrationResponse {
	return models.RegistrationResponse{
		ID:                 r.ID,
		EventID:            r.EventID,
		Name:               r.Name,
		Course:             r.Course,
		RegistrationNumber: r.RegistrationNumber,
		PhoneNumber:        r.PhoneNumber,
		CreatedAt:          r.CreatedAt,
	}
}

func toEventResponse(e *repository.Event) models.EventResponse {
	return models.EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate.Format(dateLayout),
		EventTime:   e.EventTime,
		Location:    e.Location,
		EventType:   e.EventType,
		ImageURL:    e.ImageURL,
		Highlight:   e.Highlight,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEventResponses(events []*repository.Event) []models.EventResponse {
	response := make([]models.EventResponse, len(events))
	for i, e := range events {
		response[i] = toEventResponse(e)
	}
	return response
}

func toNewsResponse(n *repository.NewsArticle) models.NewsResponse {
	return models.NewsResponse{
		ID:          n.ID,
		Title:       n.Title,
		Excerpt:     n.Excerpt,
		Content:     n.Content,
		Author:      n.Author,
		Category:    n.Category,
		ImageURL:    n.ImageURL,
		Featured:    n.Featured,
		PublishedAt: n.PublishedAt,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func toContactResponse(ct *repository.Contact) models.ContactResponse {
	return models.ContactResponse{
		ID:        ct.ID,
		Name:      ct.Name,
		Email:     ct.Email,
		Subject:   ct.Subject,
		Message:   ct.Message,
		Status:    ct.Status,
		CreatedAt: ct.CreatedAt,
	}
}
