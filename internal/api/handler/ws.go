package handler

import (
	"net/http"

	"campusconnect/backend/internal/livefeed"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Lock down in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeLiveFeed upgrades an admin connection to WebSocket and streams
// verification events to it. Auth and the admin check ran in middleware.
func (h *Handler) ServeLiveFeed(c *gin.Context) {
	if h.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live feed is not enabled"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := livefeed.NewClient(h.Hub, conn, c.GetString(ctxUserEmail))
	h.Hub.RegisterCh <- client
	client.Run()
}
