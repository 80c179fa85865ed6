package hub

import (
	"encoding/json"
	"log"
	"time"
)

// MessageType is the closed set of wire message kinds. ENTER, CHAT and
// LEAVE are persisted before fan-out; the rest are ephemeral.
type MessageType string

const (
	TypeEnter        MessageType = "ENTER"
	TypeChat         MessageType = "CHAT"
	TypeLeave        MessageType = "LEAVE"
	TypeOffer        MessageType = "offer"
	TypeAnswer       MessageType = "answer"
	TypeIceCandidate MessageType = "ice-candidate"
	TypeParticipant  MessageType = "participant"
	TypeChatHistory  MessageType = "chat-history"
	TypeError        MessageType = "error"
)

// RoomKind tells the hub which collaborators govern a room. Chat rooms are
// created lazily on first join; meeting rooms must exist in the directory.
type RoomKind string

const (
	KindChat    RoomKind = "CHAT"
	KindMeeting RoomKind = "MEETING"
)

// Envelope is the wire format shared by the chat and signaling channels.
// SenderID and SenderName are always assigned by the server from the
// authenticated connection, never trusted from the client.
type Envelope struct {
	Type       MessageType     `json:"type"`
	ID         uint            `json:"id,omitempty"`
	RoomID     string          `json:"roomId,omitempty"`
	SenderID   string          `json:"senderId,omitempty"`
	SenderName string          `json:"senderName,omitempty"`
	Target     string          `json:"target,omitempty"`
	Content    json.RawMessage `json:"content,omitempty"`
	Timestamp  *time.Time      `json:"timestamp,omitempty"`
}

type historyItem struct {
	ID         uint      `json:"id"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
}

type participantInfo struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

func textContent(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

func objectContent(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("content encoding error: %v", err)
		return json.RawMessage(`{}`)
	}
	return b
}

func errorEnvelope(roomID, message string) *Envelope {
	return &Envelope{
		Type:    TypeError,
		RoomID:  roomID,
		Content: textContent(message),
	}
}

func participantEnvelope(roomID, employeeID, name, action string) *Envelope {
	return &Envelope{
		Type:   TypeParticipant,
		RoomID: roomID,
		Content: objectContent(map[string]string{
			"userId": employeeID,
			"name":   name,
			"action": action,
		}),
	}
}

// storedEnvelope wraps a persisted message for fan-out, carrying the
// id and timestamp assigned by the store.
func storedEnvelope(t MessageType, m *StoredMessage) *Envelope {
	ts := m.Timestamp
	return &Envelope{
		Type:       t,
		ID:         m.ID,
		RoomID:     m.RoomID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Content:    textContent(m.Content),
		Timestamp:  &ts,
	}
}
