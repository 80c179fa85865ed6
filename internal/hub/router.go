package hub

import (
	"encoding/json"
	"fmt"
	"log"
)

// Router classifies inbound messages, validates sender membership and
// decides fan-out: broadcast to the room, relay to one target, or reply to
// the sender. It holds no state of its own; rooms and connections live in
// the RoomList and Registry.
type Router struct {
	registry     *Registry
	rooms        *RoomList
	stores       map[RoomKind]MessageStore
	historyLimit int
}

// Dispatch handles one inbound message. Validation failures degrade to an
// error reply to the sender; nothing here can take the room's processing
// loop down.
func (rt *Router) Dispatch(c *Client, env *Envelope) {
	if env.RoomID == "" {
		rt.sendError(c, "", "missing roomId")
		return
	}

	switch env.Type {
	case TypeEnter:
		rt.handleEnter(c, env.RoomID)
	case TypeChat:
		rt.handleChat(c, env)
	case TypeLeave:
		rt.handleLeave(c, env.RoomID)
	case TypeOffer, TypeAnswer:
		rt.handleRelay(c, env)
	case TypeIceCandidate:
		rt.handleIceCandidate(c, env)
	case TypeParticipant, TypeChatHistory, TypeError:
		// server-origin kinds, never accepted from clients
		rt.sendError(c, env.RoomID, fmt.Sprintf("unsupported message type %q", env.Type))
	default:
		rt.sendError(c, env.RoomID, fmt.Sprintf("unknown message type %q", env.Type))
	}
}

// handleEnter joins the room, persists and broadcasts the join notice, and
// replays recent history to the joining connection only.
func (rt *Router) handleEnter(c *Client, roomID string) {
	if err := rt.rooms.validateJoin(roomID, c.Kind); err != nil {
		rt.sendError(c, roomID, err.Error())
		return
	}

	st := rt.rooms.state(roomID, c.Kind)
	st.proc.Lock()
	defer st.proc.Unlock()

	rejoin := rt.rooms.IsMember(roomID, c.EmployeeID)
	if err := rt.rooms.Join(roomID, c.Kind, c); err != nil {
		rt.sendError(c, roomID, err.Error())
		return
	}
	if rejoin {
		// already a member; only the connection reference was refreshed
		return
	}

	saved, err := rt.stores[c.Kind].SaveMessage(
		roomID, c.EmployeeID, c.Name, c.Name+" joined the room", StoredSystem)
	if err != nil {
		log.Printf("failed to persist join notice for room %s: %v", roomID, err)
		rt.sendError(c, roomID, "failed to record join")
		return
	}

	rt.rooms.Broadcast(roomID, storedEnvelope(TypeEnter, saved), "")

	if c.Kind == KindMeeting {
		rt.rooms.Broadcast(roomID, participantEnvelope(roomID, c.EmployeeID, c.Name, "joined"), c.EmployeeID)
		rt.sendParticipants(c, roomID)
	}

	rt.sendHistory(c, roomID)
}

// handleChat persists the text and broadcasts it with the store-assigned
// id and timestamp. Persistence failures fail closed: no broadcast.
func (rt *Router) handleChat(c *Client, env *Envelope) {
	st := rt.rooms.peek(env.RoomID)
	if st == nil || !rt.rooms.IsMember(env.RoomID, c.EmployeeID) {
		rt.sendError(c, env.RoomID, "you are not a member of this room")
		return
	}

	st.proc.Lock()
	defer st.proc.Unlock()

	var text string
	if err := json.Unmarshal(env.Content, &text); err != nil || text == "" {
		rt.sendError(c, env.RoomID, "malformed chat content")
		return
	}

	saved, err := rt.stores[c.Kind].SaveMessage(env.RoomID, c.EmployeeID, c.Name, text, StoredText)
	if err != nil {
		log.Printf("failed to persist chat message for room %s: %v", env.RoomID, err)
		rt.sendError(c, env.RoomID, "message could not be stored")
		return
	}

	rt.rooms.Broadcast(env.RoomID, storedEnvelope(TypeChat, saved), "")
}

func (rt *Router) handleLeave(c *Client, roomID string) {
	st := rt.rooms.peek(roomID)
	if st == nil {
		return
	}

	st.proc.Lock()
	err := rt.departLocked(st, c.EmployeeID, c.Name)
	st.proc.Unlock()

	if err != nil {
		rt.sendError(c, roomID, "failed to record leave")
	}
}

// departLocked removes the member, persists the leave notice and notifies
// the remaining members. Callers hold st.proc. Safe to call again for a
// member already gone; the explicit LEAVE path and disconnect cleanup both
// route through here. The returned error reports a failed leave-notice
// save; the membership change itself has already taken effect.
func (rt *Router) departLocked(st *roomState, employeeID, name string) error {
	if !rt.rooms.Leave(st.id, employeeID) {
		return nil
	}

	saved, err := rt.stores[st.kind].SaveMessage(
		st.id, employeeID, name, name+" left the room", StoredSystem)
	if err != nil {
		log.Printf("failed to persist leave notice for room %s: %v", st.id, err)
	} else {
		rt.rooms.Broadcast(st.id, storedEnvelope(TypeLeave, saved), "")
	}

	if st.kind == KindMeeting {
		rt.rooms.Broadcast(st.id, participantEnvelope(st.id, employeeID, name, "left"), "")
	}
	return err
}

// handleRelay sends an offer or answer to the one named target member. A
// missing target is a protocol error; an absent target member is dropped
// silently per the signaling contract.
func (rt *Router) handleRelay(c *Client, env *Envelope) {
	st := rt.rooms.peek(env.RoomID)
	if st == nil || !rt.rooms.IsMember(env.RoomID, c.EmployeeID) {
		rt.sendError(c, env.RoomID, "you are not a member of this room")
		return
	}

	if env.Target == "" {
		rt.sendError(c, env.RoomID, "missing relay target")
		return
	}

	st.proc.Lock()
	defer st.proc.Unlock()

	out := &Envelope{
		Type:       env.Type,
		RoomID:     env.RoomID,
		SenderID:   c.EmployeeID,
		SenderName: c.Name,
		Target:     env.Target,
		Content:    env.Content,
	}

	connID, ok := rt.rooms.memberConn(env.RoomID, env.Target)
	if !ok {
		log.Printf("relay target %s not in room %s, dropping %s", env.Target, env.RoomID, env.Type)
		return
	}

	if !rt.registry.Send(connID, out) {
		log.Printf("relay to %s failed in room %s, pruning member", env.Target, env.RoomID)
		rt.rooms.prune(env.RoomID, env.Target, connID)
	}
}

// handleIceCandidate broadcasts the candidate to every other member.
func (rt *Router) handleIceCandidate(c *Client, env *Envelope) {
	st := rt.rooms.peek(env.RoomID)
	if st == nil || !rt.rooms.IsMember(env.RoomID, c.EmployeeID) {
		rt.sendError(c, env.RoomID, "you are not a member of this room")
		return
	}

	st.proc.Lock()
	defer st.proc.Unlock()

	out := &Envelope{
		Type:       env.Type,
		RoomID:     env.RoomID,
		SenderID:   c.EmployeeID,
		SenderName: c.Name,
		Content:    env.Content,
	}
	rt.rooms.Broadcast(env.RoomID, out, c.EmployeeID)
}

// sendHistory replays the most recent stored messages to the joining
// connection only, oldest first.
func (rt *Router) sendHistory(c *Client, roomID string) {
	stored, err := rt.stores[c.Kind].RecentMessages(roomID, rt.historyLimit)
	if err != nil {
		log.Printf("failed to load history for room %s: %v", roomID, err)
		return
	}

	// store returns newest first; replay in chronological order
	items := make([]historyItem, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		m := stored[i]
		items = append(items, historyItem{
			ID:         m.ID,
			SenderID:   m.SenderID,
			SenderName: m.SenderName,
			Content:    m.Content,
			Type:       string(m.Kind),
			Timestamp:  m.Timestamp,
		})
	}

	env := &Envelope{
		Type:    TypeChatHistory,
		RoomID:  roomID,
		Content: objectContent(map[string]interface{}{"messages": items}),
	}
	if !c.Enqueue(env) {
		log.Printf("history dropped for connection %s in room %s", c.ID, roomID)
	}
}

// sendParticipants sends the current member list to one connection.
func (rt *Router) sendParticipants(c *Client, roomID string) {
	members := rt.rooms.Members(roomID)
	list := make([]participantInfo, 0, len(members))
	for _, m := range members {
		list = append(list, participantInfo{UserID: m.EmployeeID, Name: m.Name})
	}

	env := &Envelope{
		Type:   TypeParticipant,
		RoomID: roomID,
		Content: objectContent(map[string]interface{}{
			"action":       "list",
			"participants": list,
		}),
	}
	c.Enqueue(env)
}

func (rt *Router) sendError(c *Client, roomID, message string) {
	if !c.Enqueue(errorEnvelope(roomID, message)) {
		log.Printf("error reply dropped for connection %s", c.ID)
	}
}
