package hub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Client is one live transport session tied to one authenticated employee.
// The registry is its sole owner; rooms only reference it by id.
type Client struct {
	ID         string
	EmployeeID string
	Name       string
	Kind       RoomKind

	conn      *websocket.Conn
	send      chan *Envelope
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, employeeID, name string, kind RoomKind, sendBuffer int) *Client {
	return &Client{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Name:       name,
		Kind:       kind,
		conn:       conn,
		send:       make(chan *Envelope, sendBuffer),
		done:       make(chan struct{}),
	}
}

// Enqueue places a message on the outbound queue without blocking. It
// returns false when the client is closed or the queue is full; the caller
// treats that as a delivery failure and prunes the member.
func (c *Client) Enqueue(env *Envelope) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- env:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// readPump decodes inbound frames and hands them to the router. Malformed
// frames get an error reply and the connection stays open; the loop ends
// only on a transport error.
func (c *Client) readPump(h *Hub) {
	c.conn.SetReadLimit(int64(h.opts.ReadLimit))
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket unexpected close error: %v", err)
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("message parse error: %v", err)
			h.router.sendError(c, "", "malformed message")
			continue
		}

		h.router.Dispatch(c, &env)
	}
}

// writePump drains the outbound queue to the socket and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case env := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			data, err := json.Marshal(env)
			if err != nil {
				log.Printf("message encoding error: %v", err)
				w.Close()
				continue
			}

			if _, err := w.Write(data); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
