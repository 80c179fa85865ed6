package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"office_web/internal/service"
)

// MeetingHandler serves meeting room lifecycle; signaling itself goes
// through the websocket hub.
type MeetingHandler struct {
	roomService *service.MeetingRoomService
	chatService *service.MeetingChatService
}

func NewMeetingHandler(roomService *service.MeetingRoomService, chatService *service.MeetingChatService) *MeetingHandler {
	return &MeetingHandler{roomService: roomService, chatService: chatService}
}

func (h *MeetingHandler) CreateRoom(c *gin.Context) {
	var input struct {
		Name            string `json:"name" binding:"required"`
		Description     string `json:"description"`
		Password        string `json:"password"`
		MaxParticipants int    `json:"max_participants"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employeeID := c.GetString("employeeID")
	room, err := h.roomService.CreateRoom(employeeID, input.Name, input.Description, input.Password, input.MaxParticipants)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create meeting room"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

func (h *MeetingHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomService.ActiveRooms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list meeting rooms"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

func (h *MeetingHandler) GetRoom(c *gin.Context) {
	room, err := h.roomService.GetRoom(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	participants, err := h.roomService.Participants(room.RoomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list participants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room, "participants": participants})
}

func (h *MeetingHandler) JoinRoom(c *gin.Context) {
	var input struct {
		Password string `json:"password"`
	}
	// body is optional for rooms without a password
	_ = c.ShouldBindJSON(&input)

	employeeID := c.GetString("employeeID")
	err := h.roomService.JoinRoom(c.Param("id"), employeeID, input.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "joined meeting room"})
	case errors.Is(err, service.ErrMeetingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidPassword):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrMeetingClosed),
		errors.Is(err, service.ErrMeetingFull),
		errors.Is(err, service.ErrAlreadyInMeeting):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join meeting room"})
	}
}

func (h *MeetingHandler) LeaveRoom(c *gin.Context) {
	employeeID := c.GetString("employeeID")
	if err := h.roomService.LeaveRoom(c.Param("id"), employeeID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to leave meeting room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left meeting room"})
}

func (h *MeetingHandler) CloseRoom(c *gin.Context) {
	employeeID := c.GetString("employeeID")
	err := h.roomService.CloseRoom(c.Param("id"), employeeID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "meeting room closed"})
	case errors.Is(err, service.ErrMeetingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotHost):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to close meeting room"})
	}
}

func (h *MeetingHandler) RoomMessages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))

	messages, err := h.chatService.RoomMessages(c.Param("id"), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *MeetingHandler) DeleteMessage(c *gin.Context) {
	messageID, err := strconv.ParseUint(c.Param("messageId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	employeeID := c.GetString("employeeID")
	err = h.chatService.DeleteMessage(uint(messageID), employeeID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
	case errors.Is(err, service.ErrNotMeetingMessage):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotMessageOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete message"})
	}
}
