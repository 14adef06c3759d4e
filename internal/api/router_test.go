package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ekusa/ekusa-backend/internal/api/handlers"
	"github.com/ekusa/ekusa-backend/internal/api/middleware"
	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/ekusa/ekusa-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	service.AuthService
}

func (stubAuth) ValidateToken(token string) (*jwt.Token, error) {
	if token != "good" {
		return nil, service.ErrInvalidToken
	}
	return &jwt.Token{Valid: true}, nil
}

func (stubAuth) GetAdminIDFromToken(*jwt.Token) (string, error) {
	return "admin-1", nil
}

type stubNews struct {
	service.NewsService
}

func (stubNews) List(ctx context.Context) ([]*repository.NewsArticle, error) {
	return []*repository.NewsArticle{{ID: "n-1", Title: "Elections"}}, nil
}

type stubDashboard struct {
	service.DashboardService
}

func (stubDashboard) Stats(ctx context.Context) (*service.DashboardStats, error) {
	return &service.DashboardStats{}, nil
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := stubAuth{}
	h := handlers.NewHandlers(&service.Services{
		Auth:      auth,
		News:      stubNews{},
		Dashboard: stubDashboard{},
	})
	return NewRouter(RouterConfig{
		Handlers:    h,
		Auth:        auth,
		Health:      func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "healthy"}) },
		CORSOrigins: []string{"http://localhost:5173"},
	})
}

func TestRouter_Health(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_PublicIssuesClientCookie(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Elections")
	require.NotEmpty(t, w.Result().Cookies())
	assert.Equal(t, middleware.ClientCookie, w.Result().Cookies()[0].Name)
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/news", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
