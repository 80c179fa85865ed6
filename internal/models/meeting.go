package models

import (
	"time"

	"gorm.io/gorm"
)

// MeetingRoom is a video-meeting signaling room. The RoomID is a UUID
// assigned at creation, not a database sequence.
type MeetingRoom struct {
	RoomID          string     `gorm:"primaryKey" json:"room_id"`
	RoomName        string     `gorm:"not null" json:"room_name"`
	Description     string     `json:"description"`
	HostID          string     `gorm:"index;not null" json:"host_id"`
	MaxParticipants int        `gorm:"not null" json:"max_participants"`
	Password        string     `json:"-"`
	Status          RoomStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

type RoomStatus string

const (
	RoomStatusActive RoomStatus = "ACTIVE"
	RoomStatusClosed RoomStatus = "CLOSED"
)

// MeetingParticipant records who sits in a meeting room.
type MeetingParticipant struct {
	gorm.Model
	RoomID     string          `gorm:"index;not null" json:"room_id"`
	EmployeeID string          `gorm:"index;not null" json:"employee_id"`
	Role       ParticipantRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt   time.Time       `json:"joined_at"`
}

type ParticipantRole string

const (
	ParticipantHost   ParticipantRole = "HOST"
	ParticipantMember ParticipantRole = "PARTICIPANT"
)

// MeetingMessage is the in-meeting chat history. Soft-deleted messages
// stay in place so history ids remain stable.
type MeetingMessage struct {
	gorm.Model
	RoomID      string      `gorm:"index;not null" json:"room_id"`
	SenderID    string      `gorm:"index;not null" json:"sender_id"`
	SenderName  string      `json:"sender_name"`
	Content     string      `gorm:"type:text" json:"content"`
	MessageType MessageType `gorm:"type:varchar(20);not null" json:"message_type"`
	Deleted     bool        `gorm:"not null;default:false" json:"deleted"`
}
