package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"office_web/internal/hub"
	"office_web/internal/models"
	"office_web/internal/repository"
)

var (
	ErrMeetingNotFound   = errors.New("meeting room not found")
	ErrMeetingClosed     = errors.New("meeting room is closed")
	ErrMeetingFull       = errors.New("meeting room is full")
	ErrInvalidPassword   = errors.New("invalid room password")
	ErrNotHost           = errors.New("only the host may do this")
	ErrAlreadyInMeeting  = errors.New("already joined this meeting room")
	ErrNotMeetingMessage = errors.New("message not found")
	ErrNotMessageOwner   = errors.New("not the sender of this message")
)

// MeetingRoomService owns meeting room lifecycle and membership. It is
// the hub's room directory for MEETING rooms.
type MeetingRoomService struct {
	roomRepo        repository.MeetingRoomRepository
	participantRepo repository.MeetingParticipantRepository
}

func NewMeetingRoomService(
	roomRepo repository.MeetingRoomRepository,
	participantRepo repository.MeetingParticipantRepository,
) *MeetingRoomService {
	return &MeetingRoomService{
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
	}
}

// CreateRoom creates an active room with a fresh UUID and seats the host
// as its first participant.
func (s *MeetingRoomService) CreateRoom(hostID, name, description, password string, maxParticipants int) (*models.MeetingRoom, error) {
	if maxParticipants <= 0 {
		maxParticipants = 8
	}

	room := &models.MeetingRoom{
		RoomID:          uuid.NewString(),
		RoomName:        name,
		Description:     description,
		HostID:          hostID,
		MaxParticipants: maxParticipants,
		Password:        password,
		Status:          models.RoomStatusActive,
		CreatedAt:       time.Now(),
	}
	if err := s.roomRepo.Create(room); err != nil {
		return nil, err
	}

	host := &models.MeetingParticipant{
		RoomID:     room.RoomID,
		EmployeeID: hostID,
		Role:       models.ParticipantHost,
		JoinedAt:   time.Now(),
	}
	if err := s.participantRepo.Create(host); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *MeetingRoomService) ActiveRooms() ([]models.MeetingRoom, error) {
	return s.roomRepo.FindActive()
}

func (s *MeetingRoomService) GetRoom(roomID string) (*models.MeetingRoom, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		return nil, ErrMeetingNotFound
	}
	return room, nil
}

func (s *MeetingRoomService) Participants(roomID string) ([]models.MeetingParticipant, error) {
	return s.participantRepo.FindByRoom(roomID)
}

// JoinRoom checks status, password and capacity before seating the
// participant.
func (s *MeetingRoomService) JoinRoom(roomID, employeeID, password string) error {
	room, err := s.GetRoom(roomID)
	if err != nil {
		return err
	}
	if room.Status != models.RoomStatusActive {
		return ErrMeetingClosed
	}
	if room.Password != "" && room.Password != password {
		return ErrInvalidPassword
	}

	if _, err := s.participantRepo.Find(roomID, employeeID); err == nil {
		return ErrAlreadyInMeeting
	}

	count, err := s.participantRepo.CountByRoom(roomID)
	if err != nil {
		return err
	}
	if count >= int64(room.MaxParticipants) {
		return ErrMeetingFull
	}

	return s.participantRepo.Create(&models.MeetingParticipant{
		RoomID:     roomID,
		EmployeeID: employeeID,
		Role:       models.ParticipantMember,
		JoinedAt:   time.Now(),
	})
}

// LeaveRoom unseats the participant and closes the room once it is empty.
func (s *MeetingRoomService) LeaveRoom(roomID, employeeID string) error {
	if err := s.participantRepo.Delete(roomID, employeeID); err != nil {
		return err
	}

	remaining, err := s.participantRepo.CountByRoom(roomID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		return s.closeRoom(roomID)
	}
	return nil
}

// CloseRoom lets the host close the room explicitly. Subsequent hub joins
// are rejected with RoomClosed.
func (s *MeetingRoomService) CloseRoom(roomID, employeeID string) error {
	room, err := s.GetRoom(roomID)
	if err != nil {
		return err
	}
	if room.HostID != employeeID {
		return ErrNotHost
	}
	return s.closeRoom(roomID)
}

func (s *MeetingRoomService) closeRoom(roomID string) error {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		return err
	}
	room.Status = models.RoomStatusClosed
	return s.roomRepo.Update(room)
}

// RoomExists implements hub.RoomDirectory.
func (s *MeetingRoomService) RoomExists(roomID string) bool {
	_, err := s.roomRepo.FindByID(roomID)
	return err == nil
}

// RoomIsActive implements hub.RoomDirectory.
func (s *MeetingRoomService) RoomIsActive(roomID string) bool {
	room, err := s.roomRepo.FindByID(roomID)
	return err == nil && room.Status == models.RoomStatusActive
}

// MeetingChatService stores in-meeting chat. It is the hub's persistence
// gateway for MEETING rooms and refuses writes once a room is gone or
// closed.
type MeetingChatService struct {
	messageRepo repository.MeetingMessageRepository
	roomRepo    repository.MeetingRoomRepository
}

func NewMeetingChatService(
	messageRepo repository.MeetingMessageRepository,
	roomRepo repository.MeetingRoomRepository,
) *MeetingChatService {
	return &MeetingChatService{
		messageRepo: messageRepo,
		roomRepo:    roomRepo,
	}
}

func (s *MeetingChatService) roomActive(roomID string) bool {
	room, err := s.roomRepo.FindByID(roomID)
	return err == nil && room.Status == models.RoomStatusActive
}

// SaveMessage implements hub.MessageStore for MEETING rooms.
func (s *MeetingChatService) SaveMessage(roomID, senderID, senderName, content string, kind hub.StoredKind) (*hub.StoredMessage, error) {
	if !s.roomActive(roomID) {
		return nil, ErrMeetingClosed
	}

	message := &models.MeetingMessage{
		RoomID:      roomID,
		SenderID:    senderID,
		SenderName:  senderName,
		Content:     content,
		MessageType: chatMessageType(kind),
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	return &hub.StoredMessage{
		ID:         message.ID,
		RoomID:     roomID,
		SenderID:   senderID,
		SenderName: senderName,
		Content:    content,
		Kind:       kind,
		Timestamp:  message.CreatedAt,
	}, nil
}

// RecentMessages implements hub.MessageStore for MEETING rooms, newest
// first.
func (s *MeetingChatService) RecentMessages(roomID string, limit int) ([]hub.StoredMessage, error) {
	messages, err := s.messageRepo.FindRecent(roomID, limit)
	if err != nil {
		return nil, err
	}

	stored := make([]hub.StoredMessage, 0, len(messages))
	for _, m := range messages {
		stored = append(stored, hub.StoredMessage{
			ID:         m.ID,
			RoomID:     roomID,
			SenderID:   m.SenderID,
			SenderName: m.SenderName,
			Content:    m.Content,
			Kind:       storedKind(m.MessageType),
			Timestamp:  m.CreatedAt,
		})
	}
	return stored, nil
}

// RoomMessages pages through a room's history, newest first.
func (s *MeetingChatService) RoomMessages(roomID string, page, size int) ([]models.MeetingMessage, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 50
	}
	return s.messageRepo.FindByRoom(roomID, page*size, size)
}

// DeleteMessage soft-deletes a message; only its sender may do so.
func (s *MeetingChatService) DeleteMessage(messageID uint, employeeID string) error {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return ErrNotMeetingMessage
	}
	if message.SenderID != employeeID {
		return ErrNotMessageOwner
	}
	message.Deleted = true
	return s.messageRepo.Update(message)
}
