// internal/socket/handler.go
package socket

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

// TokenValidator resolves an admin id from an access token.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Token, error)
	GetAdminIDFromToken(token *jwt.Token) (string, error)
}

// Handler handles WebSocket connections
type Handler struct {
	Hub      *Hub
	auth     TokenValidator
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. An empty origins list accepts
// any origin.
func NewHandler(hub *Hub, auth TokenValidator, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return &Handler{
		Hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// HandleWebSocket handles WebSocket upgrade requests. Browsers cannot set
// headers on WebSocket requests, so the token is read from the query first.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if tokenString == "" {
		log.Println("[WebSocket] No token provided")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	token, err := h.auth.ValidateToken(tokenString)
	if err != nil || !token.Valid {
		log.Printf("[WebSocket] Invalid token: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	adminID, err := h.auth.GetAdminIDFromToken(token)
	if err != nil || adminID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WebSocket] Upgrade error: %v", err)
		return
	}

	log.Printf("[WebSocket] ✅ Admin connected: adminID=%s", adminID)

	client := NewClient(h.Hub, adminID, conn)
	h.Hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
