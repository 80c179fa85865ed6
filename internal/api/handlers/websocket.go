package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"office_web/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // intranet deployment; restrict per origin in production
	},
}

// WebSocketHandler upgrades authenticated requests and hands the
// connection to the hub. The chat and signaling endpoints share one hub;
// only the room kind differs.
type WebSocketHandler struct {
	hub *hub.Hub
}

func NewWebSocketHandler(h *hub.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: h}
}

func (h *WebSocketHandler) HandleChatSocket(c *gin.Context) {
	h.serve(c, hub.KindChat)
}

func (h *WebSocketHandler) HandleMeetingSocket(c *gin.Context) {
	h.serve(c, hub.KindMeeting)
}

func (h *WebSocketHandler) serve(c *gin.Context, kind hub.RoomKind) {
	employeeID := c.GetString("employeeID")
	userName := c.GetString("userName")
	if employeeID == "" {
		// identity must be resolved before the upgrade
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade websocket"})
		return
	}
	defer conn.Close()

	// blocks until the connection closes; cleanup runs inside the hub
	if err := h.hub.HandleConnection(conn, employeeID, userName, kind); err != nil {
		log.Printf("websocket session ended with error: %v", err)
	}
}
