package hub

import "time"

// StoredKind classifies a persisted message: user text or a synthesized
// join/leave notice.
type StoredKind string

const (
	StoredText   StoredKind = "TEXT"
	StoredSystem StoredKind = "SYSTEM"
)

// StoredMessage is a message after the persistence gateway assigned it an
// id and timestamp.
type StoredMessage struct {
	ID         uint
	RoomID     string
	SenderID   string
	SenderName string
	Content    string
	Kind       StoredKind
	Timestamp  time.Time
}

// MessageStore is the persistence gateway consumed by the hub. Calls are
// made inline with message processing; a save failure means the message is
// not broadcast.
type MessageStore interface {
	SaveMessage(roomID, senderID, senderName, content string, kind StoredKind) (*StoredMessage, error)
	// RecentMessages returns up to limit messages for the room, newest
	// first.
	RecentMessages(roomID string, limit int) ([]StoredMessage, error)
}

// RoomDirectory answers whether a meeting room exists and accepts joins.
// Chat rooms have no directory; they are created on first join.
type RoomDirectory interface {
	RoomExists(roomID string) bool
	RoomIsActive(roomID string) bool
}
