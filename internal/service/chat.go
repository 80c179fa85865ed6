package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"office_web/internal/hub"
	"office_web/internal/models"
	"office_web/internal/repository"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrNotRoomMember = errors.New("not a member of this room")
)

// ChatRoomInfo is a room plus the per-viewer fields the room list shows.
type ChatRoomInfo struct {
	models.ChatRoom
	MemberCount int64               `json:"member_count"`
	UnreadCount int64               `json:"unread_count"`
	LastMessage *models.ChatMessage `json:"last_message,omitempty"`
}

// ChatService owns chat rooms, members and durable messages. It is also
// the hub's persistence gateway for CHAT rooms.
type ChatService struct {
	roomRepo    repository.ChatRoomRepository
	memberRepo  repository.ChatMemberRepository
	messageRepo repository.ChatMessageRepository
	userRepo    repository.UserRepository
}

func NewChatService(
	roomRepo repository.ChatRoomRepository,
	memberRepo repository.ChatMemberRepository,
	messageRepo repository.ChatMessageRepository,
	userRepo repository.UserRepository,
) *ChatService {
	return &ChatService{
		roomRepo:    roomRepo,
		memberRepo:  memberRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

// GetOrCreateIndividualRoom returns the 1:1 room between the two
// employees, creating it on first contact. The new room is named after the
// other party.
func (s *ChatService) GetOrCreateIndividualRoom(employeeID, targetID string) (*models.ChatRoom, error) {
	room, err := s.roomRepo.FindIndividualRoom(employeeID, targetID)
	if err == nil {
		return room, nil
	}

	target, err := s.userRepo.FindByEmployeeID(targetID)
	if err != nil {
		return nil, fmt.Errorf("target user not found: %w", err)
	}

	room = &models.ChatRoom{
		RoomType: models.ChatRoomIndividual,
		Name:     target.Name,
		IsActive: true,
	}
	if err := s.roomRepo.Create(room); err != nil {
		return nil, err
	}

	for _, id := range []string{employeeID, targetID} {
		if err := s.addMember(room.ID, id); err != nil {
			return nil, err
		}
	}
	return room, nil
}

// CreateGroupRoom creates a group room with the creator and the given
// members, recording a system notice as the first message.
func (s *ChatService) CreateGroupRoom(name, creatorID string, memberIDs []string) (*models.ChatRoom, error) {
	room := &models.ChatRoom{
		RoomType: models.ChatRoomGroup,
		Name:     name,
		IsActive: true,
	}
	if err := s.roomRepo.Create(room); err != nil {
		return nil, err
	}

	seen := map[string]bool{creatorID: true}
	if err := s.addMember(room.ID, creatorID); err != nil {
		return nil, err
	}
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := s.addMember(room.ID, id); err != nil {
			return nil, err
		}
	}

	creator, err := s.userRepo.FindByEmployeeID(creatorID)
	if err != nil {
		return nil, err
	}
	notice := &models.ChatMessage{
		ChatRoomID:  room.ID,
		SenderID:    creatorID,
		SenderName:  creator.Name,
		Content:     "group created",
		MessageType: models.MessageTypeSystem,
	}
	if err := s.messageRepo.Create(notice); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *ChatService) addMember(roomID uint, employeeID string) error {
	// reactivate a previous membership if one exists
	if member, err := s.memberRepo.Find(roomID, employeeID); err == nil {
		member.IsActive = true
		member.LeftAt = nil
		member.JoinedAt = time.Now()
		return s.memberRepo.Update(member)
	}

	return s.memberRepo.Create(&models.ChatMember{
		ChatRoomID: roomID,
		EmployeeID: employeeID,
		JoinedAt:   time.Now(),
		IsActive:   true,
	})
}

// RoomsByEmployee lists the viewer's rooms with member counts, unread
// counts and the latest message.
func (s *ChatService) RoomsByEmployee(employeeID string) ([]ChatRoomInfo, error) {
	rooms, err := s.roomRepo.FindByEmployeeID(employeeID)
	if err != nil {
		return nil, err
	}

	infos := make([]ChatRoomInfo, 0, len(rooms))
	for _, room := range rooms {
		info := ChatRoomInfo{ChatRoom: room}

		if count, err := s.memberRepo.CountActiveByRoom(room.ID); err == nil {
			info.MemberCount = count
		}
		if member, err := s.memberRepo.Find(room.ID, employeeID); err == nil {
			if unread, err := s.messageRepo.CountUnread(room.ID, member.LastReadAt, employeeID); err == nil {
				info.UnreadCount = unread
			}
		}
		if last, err := s.messageRepo.FindLast(room.ID); err == nil {
			info.LastMessage = last
		}

		infos = append(infos, info)
	}
	return infos, nil
}

func (s *ChatService) RoomMembers(roomID uint) ([]models.ChatMember, error) {
	return s.memberRepo.FindActiveByRoom(roomID)
}

// RoomMessages pages through a room's history, newest first.
func (s *ChatService) RoomMessages(roomID uint, page, size int) ([]models.ChatMessage, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 50
	}
	return s.messageRepo.FindByRoom(roomID, page*size, size)
}

// MarkAsRead stamps the member's last-read time, resetting the unread
// counter.
func (s *ChatService) MarkAsRead(roomID uint, employeeID string) error {
	member, err := s.memberRepo.Find(roomID, employeeID)
	if err != nil {
		return ErrNotRoomMember
	}

	now := time.Now()
	member.LastReadAt = &now
	return s.memberRepo.Update(member)
}

// LeaveRoom deactivates the membership and deactivates the room itself
// once nobody active remains.
func (s *ChatService) LeaveRoom(roomID uint, employeeID string) error {
	member, err := s.memberRepo.Find(roomID, employeeID)
	if err != nil {
		return ErrNotRoomMember
	}

	now := time.Now()
	member.IsActive = false
	member.LeftAt = &now
	if err := s.memberRepo.Update(member); err != nil {
		return err
	}

	remaining, err := s.memberRepo.CountActiveByRoom(roomID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		room, err := s.roomRepo.FindByID(roomID)
		if err != nil {
			return err
		}
		room.IsActive = false
		return s.roomRepo.Update(room)
	}
	return nil
}

// SaveMessage implements hub.MessageStore for CHAT rooms.
func (s *ChatService) SaveMessage(roomID, senderID, senderName, content string, kind hub.StoredKind) (*hub.StoredMessage, error) {
	id, err := parseChatRoomID(roomID)
	if err != nil {
		return nil, err
	}
	if _, err := s.roomRepo.FindByID(id); err != nil {
		return nil, ErrRoomNotFound
	}

	message := &models.ChatMessage{
		ChatRoomID:  id,
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

// RecentMessages implements hub.MessageStore for CHAT rooms, newest first.
func (s *ChatService) RecentMessages(roomID string, limit int) ([]hub.StoredMessage, error) {
	id, err := parseChatRoomID(roomID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindRecent(id, limit)
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

func parseChatRoomID(roomID string) (uint, error) {
	id, err := strconv.ParseUint(roomID, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid chat room id %q: %w", roomID, err)
	}
	return uint(id), nil
}

func chatMessageType(kind hub.StoredKind) models.MessageType {
	if kind == hub.StoredSystem {
		return models.MessageTypeSystem
	}
	return models.MessageTypeText
}

func storedKind(t models.MessageType) hub.StoredKind {
	if t == models.MessageTypeSystem {
		return hub.StoredSystem
	}
	return hub.StoredText
}
