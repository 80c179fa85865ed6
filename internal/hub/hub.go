// Package hub is the real-time communication core: it keeps long-lived
// websocket connections organized into chat and meeting rooms, routes typed
// messages among room members, and coordinates with the persistence
// gateways for durable history. One consolidated hub serves both the chat
// channel and the WebRTC signaling channel; a RoomKind on each connection
// tells it apart.
package hub

import (
	"log"

	"github.com/gorilla/websocket"

	"office_web/internal/config"
)

// Options tunes the hub. Zero values fall back to package defaults.
type Options struct {
	HistoryLimit int
	SendBuffer   int
	ReadLimit    int
}

type Hub struct {
	opts     Options
	registry *Registry
	rooms    *RoomList
	router   *Router
}

// New wires the registry, room list and router around the given
// persistence gateways. stores must cover every RoomKind the hub will
// serve; meetings may be nil when no meeting rooms are exposed.
func New(opts Options, stores map[RoomKind]MessageStore, meetings RoomDirectory) *Hub {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = config.DefaultHistoryLimit
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = config.DefaultSendBuffer
	}
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = config.DefaultReadLimit
	}

	registry := NewRegistry()
	rooms := newRoomList(registry, meetings)
	router := &Router{
		registry:     registry,
		rooms:        rooms,
		stores:       stores,
		historyLimit: opts.HistoryLimit,
	}

	return &Hub{
		opts:     opts,
		registry: registry,
		rooms:    rooms,
		router:   router,
	}
}

// HandleConnection registers the connection and runs its pumps until the
// transport closes. The identity must already be verified by the caller;
// a connection without one is refused before registration. Blocks for the
// lifetime of the connection.
func (h *Hub) HandleConnection(conn *websocket.Conn, employeeID, name string, kind RoomKind) error {
	if employeeID == "" {
		return ErrNoIdentity
	}

	c := newClient(conn, employeeID, name, kind, h.opts.SendBuffer)
	if err := h.registry.Register(c); err != nil {
		return err
	}
	log.Printf("connection %s established for %s (%s)", c.ID, c.EmployeeID, c.Name)

	defer h.Disconnect(c.ID)

	go c.writePump()
	c.readPump(h)
	return nil
}

// Disconnect removes the connection from every room it sits in, notifies
// the remaining members, and unregisters it. Safe to invoke more than once
// for the same connection id; the transport-close path and an explicit
// LEAVE both funnel into the same idempotent leave and unregister.
func (h *Hub) Disconnect(connID string) {
	c, ok := h.registry.Get(connID)
	if !ok {
		return
	}

	for _, st := range h.rooms.roomsOf(connID) {
		st.proc.Lock()
		h.router.departLocked(st, c.EmployeeID, c.Name)
		st.proc.Unlock()
	}

	h.registry.Unregister(connID)
	log.Printf("connection %s closed for %s", connID, c.EmployeeID)
}

// ConnectionCount reports the number of live connections.
func (h *Hub) ConnectionCount() int {
	return h.registry.Count()
}

// RoomMembers lists the current members of a room.
func (h *Hub) RoomMembers(roomID string) []MemberInfo {
	return h.rooms.Members(roomID)
}
