package ws

import (
	"net/http"

	"hireflow_backend/internal/logger"
	"hireflow_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler создает обработчик апгрейда. allowedOrigins пустой - origin не проверяется.
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				if _, ok := allowed["*"]; ok {
					return true
				}
				_, ok := allowed[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// ServeWS ожидает, что AuthMiddleware уже положил userID в контекст
func (h *Handler) ServeWS(c *gin.Context) {
	userID := c.GetString(contextkeys.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "ws upgrade failed", "error", err)
		return
	}

	client := newClient(h.hub, conn, userID)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// RegisterRoutes вешает /ws на группу с авторизацией
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	rg.GET("/ws", authMiddleware, h.ServeWS)
}
