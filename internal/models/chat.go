package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatRoom is a 1:1 or group chat channel. Rooms are deactivated, never
// deleted, when the last member leaves.
type ChatRoom struct {
	gorm.Model
	RoomType ChatRoomType `gorm:"type:varchar(20);not null" json:"room_type"`
	Name     string       `json:"name"`
	IsActive bool         `gorm:"not null;default:true" json:"is_active"`
}

type ChatRoomType string

const (
	ChatRoomIndividual ChatRoomType = "INDIVIDUAL"
	ChatRoomGroup      ChatRoomType = "GROUP"
)

// ChatMember ties an employee to a chat room. LastReadAt drives the
// unread counter.
type ChatMember struct {
	gorm.Model
	ChatRoomID uint       `gorm:"index;not null" json:"room_id"`
	EmployeeID string     `gorm:"index;not null" json:"employee_id"`
	JoinedAt   time.Time  `json:"joined_at"`
	LeftAt     *time.Time `json:"left_at,omitempty"`
	LastReadAt *time.Time `json:"last_read_at,omitempty"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`
}

// ChatMessage is a durable chat room message. Sender name is denormalized
// so history stays readable after account changes.
type ChatMessage struct {
	gorm.Model
	ChatRoomID  uint        `gorm:"index;not null" json:"room_id"`
	SenderID    string      `gorm:"index;not null" json:"sender_id"`
	SenderName  string      `json:"sender_name"`
	Content     string      `gorm:"type:text" json:"content"`
	MessageType MessageType `gorm:"type:varchar(20);not null" json:"message_type"`
}

// MessageType separates user text from synthesized join/leave notices.
type MessageType string

const (
	MessageTypeText   MessageType = "TEXT"
	MessageTypeSystem MessageType = "SYSTEM"
)
