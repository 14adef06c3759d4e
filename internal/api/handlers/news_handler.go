package handlers

import (
	"net/http"

	"github.com/ekusa/ekusa-backend/internal/models"
	"github.com/ekusa/ekusa-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// News Handler
// ============================================

type NewsHandler struct {
	newsService service.NewsService
}

func NewNewsHandler(newsService service.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

// List - Featured first, then newest
// GET /news
func (h *NewsHandler) List(c *gin.Context) {
	articles, err := h.newsService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Article not found", "Failed to fetch news")
		return
	}

	response := make([]models.NewsResponse, len(articles))
	for i, n := range articles {
		response[i] = toNewsResponse(n)
	}

	c.JSON(http.StatusOK, response)
}

// Get
// GET /news/:id
func (h *NewsHandler) Get(c *gin.Context) {
	article, err := h.newsService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Article not found", "Failed to fetch article")
		return
	}

	c.JSON(http.StatusOK, toNewsResponse(article))
}

func bindNews(c *gin.Context) (service.NewsInput, bool) {
	var req models.NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return service.NewsInput{}, false
	}
	return service.NewsInput{
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		Author:      req.Author,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Featured:    req.Featured,
		PublishedAt: req.PublishedAt,
	}, true
}

// Create
// POST /admin/news
func (h *NewsHandler) Create(c *gin.Context) {
	input, ok := bindNews(c)
	if !ok {
		return
	}

	article, err := h.newsService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Article not found", "Failed to create article")
		return
	}

	c.JSON(http.StatusCreated, toNewsResponse(article))
}

// Update
// PUT /admin/news/:id
func (h *NewsHandler) Update(c *gin.Context) {
	input, ok := bindNews(c)
	if !ok {
		return
	}

	article, err := h.newsService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err, "Article not found", "Failed to update article")
		return
	}

	c.JSON(http.StatusOK, toNewsResponse(article))
}

// Delete
// DELETE /admin/news/:id
func (h *NewsHandler) Delete(c *gin.Context) {
	if err := h.newsService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Article not found", "Failed to delete article")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
}
