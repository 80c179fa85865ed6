package hub

import (
	"log"
	"sync"
	"time"
)

// MemberInfo is the read-only view of one room member.
type MemberInfo struct {
	EmployeeID string
	Name       string
	ConnID     string
	JoinedAt   time.Time
}

type member struct {
	connID   string
	name     string
	joinedAt time.Time
}

// roomState holds one room's member set. The proc mutex serializes message
// processing for the room (broadcast order equals arrival order); mu guards
// the member set. proc is always taken before mu, never the reverse.
type roomState struct {
	id   string
	kind RoomKind

	proc sync.Mutex

	mu      sync.RWMutex
	members map[string]*member // employee id -> member
	active  bool
}

// RoomList maps room ids to their member sets. Rooms lock individually so
// unrelated rooms never serialize against each other.
type RoomList struct {
	mu       sync.RWMutex
	rooms    map[string]*roomState
	registry *Registry
	meetings RoomDirectory
}

func newRoomList(registry *Registry, meetings RoomDirectory) *RoomList {
	return &RoomList{
		rooms:    make(map[string]*roomState),
		registry: registry,
		meetings: meetings,
	}
}

// state returns the room, creating an inactive empty one if absent.
func (l *RoomList) state(roomID string, kind RoomKind) *roomState {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.rooms[roomID]
	if !ok {
		st = &roomState{
			id:      roomID,
			kind:    kind,
			members: make(map[string]*member),
		}
		l.rooms[roomID] = st
	}
	return st
}

func (l *RoomList) peek(roomID string) *roomState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rooms[roomID]
}

// validateJoin checks a join against the meeting directory without
// touching the room map, so a refused join never leaves a stray empty
// room behind.
func (l *RoomList) validateJoin(roomID string, kind RoomKind) error {
	if kind != KindMeeting {
		return nil
	}
	if l.meetings == nil || !l.meetings.RoomExists(roomID) {
		return ErrRoomNotFound
	}
	if !l.meetings.RoomIsActive(roomID) {
		return ErrRoomClosed
	}
	return nil
}

// Join adds the client to the room, creating it if absent. Meeting rooms
// are validated against the directory; joins to closed rooms are refused.
// A second join by the same employee replaces the room's connection
// reference (latest device wins).
func (l *RoomList) Join(roomID string, kind RoomKind, c *Client) error {
	if err := l.validateJoin(roomID, kind); err != nil {
		return err
	}

	st := l.state(roomID, kind)
	st.mu.Lock()
	defer st.mu.Unlock()

	st.members[c.EmployeeID] = &member{
		connID:   c.ID,
		name:     c.Name,
		joinedAt: time.Now(),
	}
	st.active = true
	return nil
}

// Leave removes the member and reports whether it was present. Leaving
// twice, or leaving a room never joined, is a no-op. An emptied room is
// marked inactive.
func (l *RoomList) Leave(roomID, employeeID string) bool {
	st := l.peek(roomID)
	if st == nil {
		return false
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.members[employeeID]; !ok {
		return false
	}
	delete(st.members, employeeID)
	if len(st.members) == 0 {
		st.active = false
	}
	return true
}

func (l *RoomList) IsMember(roomID, employeeID string) bool {
	st := l.peek(roomID)
	if st == nil {
		return false
	}

	st.mu.RLock()
	defer st.mu.RUnlock()
	_, ok := st.members[employeeID]
	return ok
}

func (l *RoomList) IsActive(roomID string) bool {
	st := l.peek(roomID)
	if st == nil {
		return false
	}

	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.active
}

func (l *RoomList) Members(roomID string) []MemberInfo {
	st := l.peek(roomID)
	if st == nil {
		return nil
	}

	st.mu.RLock()
	defer st.mu.RUnlock()

	infos := make([]MemberInfo, 0, len(st.members))
	for employeeID, m := range st.members {
		infos = append(infos, MemberInfo{
			EmployeeID: employeeID,
			Name:       m.name,
			ConnID:     m.connID,
			JoinedAt:   m.joinedAt,
		})
	}
	return infos
}

// memberConn resolves a member to its connection id.
func (l *RoomList) memberConn(roomID, employeeID string) (string, bool) {
	st := l.peek(roomID)
	if st == nil {
		return "", false
	}

	st.mu.RLock()
	defer st.mu.RUnlock()

	m, ok := st.members[employeeID]
	if !ok {
		return "", false
	}
	return m.connID, true
}

// Broadcast fans the message out to every member except excludeID. The
// member set is snapshotted first so joins and leaves during the fan-out
// cannot corrupt the iteration. Members whose send fails are pruned, the
// rest still receive the message.
func (l *RoomList) Broadcast(roomID string, env *Envelope, excludeID string) {
	st := l.peek(roomID)
	if st == nil {
		return
	}

	st.mu.RLock()
	targets := make([]MemberInfo, 0, len(st.members))
	for employeeID, m := range st.members {
		if employeeID == excludeID {
			continue
		}
		targets = append(targets, MemberInfo{EmployeeID: employeeID, ConnID: m.connID})
	}
	st.mu.RUnlock()

	for _, t := range targets {
		if !l.registry.Send(t.ConnID, env) {
			log.Printf("delivery to %s failed in room %s, pruning member", t.EmployeeID, roomID)
			l.prune(roomID, t.EmployeeID, t.ConnID)
		}
	}
}

// prune removes a member after a delivery failure. The connection id is
// rechecked so a member who rejoined on a fresh connection is kept.
func (l *RoomList) prune(roomID, employeeID, connID string) {
	st := l.peek(roomID)
	if st == nil {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	m, ok := st.members[employeeID]
	if !ok || m.connID != connID {
		return
	}
	delete(st.members, employeeID)
	if len(st.members) == 0 {
		st.active = false
	}
}

// roomsOf lists the rooms in which the given connection is the member's
// live connection. Used by disconnect cleanup.
func (l *RoomList) roomsOf(connID string) []*roomState {
	l.mu.RLock()
	states := make([]*roomState, 0, len(l.rooms))
	for _, st := range l.rooms {
		states = append(states, st)
	}
	l.mu.RUnlock()

	var joined []*roomState
	for _, st := range states {
		st.mu.RLock()
		for _, m := range st.members {
			if m.connID == connID {
				joined = append(joined, st)
				break
			}
		}
		st.mu.RUnlock()
	}
	return joined
}
