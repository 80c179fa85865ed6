package hub

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeStore is an in-memory MessageStore for router tests.
type fakeStore struct {
	mu       sync.Mutex
	nextID   uint
	saved    []StoredMessage
	failSave bool
}

func (s *fakeStore) SaveMessage(roomID, senderID, senderName, content string, kind StoredKind) (*StoredMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSave {
		return nil, fmt.Errorf("store unavailable")
	}

	s.nextID++
	m := StoredMessage{
		ID:         s.nextID,
		RoomID:     roomID,
		SenderID:   senderID,
		SenderName: senderName,
		Content:    content,
		Kind:       kind,
		Timestamp:  time.Now(),
	}
	s.saved = append(s.saved, m)
	return &m, nil
}

func (s *fakeStore) RecentMessages(roomID string, limit int) ([]StoredMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []StoredMessage
	for i := len(s.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if s.saved[i].RoomID == roomID {
			out = append(out, s.saved[i])
		}
	}
	return out, nil
}

func (s *fakeStore) savedContents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents := make([]string, 0, len(s.saved))
	for _, m := range s.saved {
		contents = append(contents, m.Content)
	}
	return contents
}

type fakeDirectory struct {
	rooms map[string]bool // room id -> active
}

func (d *fakeDirectory) RoomExists(roomID string) bool {
	_, ok := d.rooms[roomID]
	return ok
}

func (d *fakeDirectory) RoomIsActive(roomID string) bool {
	return d.rooms[roomID]
}

func newTestHub(store *fakeStore, meetings RoomDirectory) *Hub {
	stores := map[RoomKind]MessageStore{
		KindChat:    store,
		KindMeeting: store,
	}
	return New(Options{}, stores, meetings)
}

// connect registers a connection-less client so tests can inspect its
// outbound queue directly.
func connect(t *testing.T, h *Hub, employeeID, name string, kind RoomKind) *Client {
	t.Helper()

	c := newClient(nil, employeeID, name, kind, h.opts.SendBuffer)
	if err := h.registry.Register(c); err != nil {
		t.Fatalf("register %s: %v", employeeID, err)
	}
	return c
}

// drain collects everything currently queued on the client. Dispatch runs
// inline, so once it returns the queue is settled.
func drain(c *Client) []*Envelope {
	var out []*Envelope
	for {
		select {
		case env := <-c.send:
			out = append(out, env)
		default:
			return out
		}
	}
}

func lastOfType(envs []*Envelope, t MessageType) *Envelope {
	for i := len(envs) - 1; i >= 0; i-- {
		if envs[i].Type == t {
			return envs[i]
		}
	}
	return nil
}
