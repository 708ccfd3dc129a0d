package realtime

import (
	"context"
	"encoding/json"
	"time"

	"chat-ziro/pkg/logger"

	"github.com/gorilla/websocket"
)

// MessageSender is the message pipeline as seen from a connection:
// persist, broadcast, notify. Implemented by services.MessageService.
type MessageSender interface {
	Send(ctx context.Context, roomID, userID, content string) error
}

// Client is one live socket connection. A connection is unbound until
// its first join:session event, after which it belongs to exactly one
// session hub for its lifetime.
type Client struct {
	manager  *Manager
	conn     *websocket.Conn
	pipeline MessageSender
	send     chan []byte

	// closed by the hub when it drops this connection. The send channel
	// itself is never closed; the read pump may still write errors to it
	// while the drop is in flight.
	done chan struct{}

	// set by the join:session handler, read-pump goroutine only
	hub       *Hub
	sessionID string
	userID    string
}

func NewClient(manager *Manager, conn *websocket.Conn, pipeline MessageSender) *Client {
	return &Client{
		manager:  manager,
		conn:     conn,
		pipeline: pipeline,
		send:     make(chan []byte, 256),
		done:     make(chan struct{}),
	}
}

func (c *Client) ReadPump() {
	defer func() {
		if c.hub != nil {
			c.hub.unregister <- c
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket error: %v", err)
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.sendError("malformed event")
			continue
		}
		c.handleEvent(env)
	}
}

func (c *Client) handleEvent(env Envelope) {
	switch env.Event {
	case EventJoinSession:
		var p JoinSessionPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.SessionID == "" || p.UserID == "" {
			c.sendError("sessionId and userId are required")
			return
		}
		// Idempotent per connection: a bound connection stays on its
		// first session.
		if c.hub != nil {
			return
		}
		c.sessionID = p.SessionID
		c.userID = p.UserID
		c.hub = c.manager.HubForSession(p.SessionID)
		c.hub.register <- c

	case EventMessageSend:
		var p SendMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			c.sendError("malformed message:send payload")
			return
		}
		if err := c.pipeline.Send(context.Background(), p.RoomID, p.UserID, p.Content); err != nil {
			logger.Error("Message send error: %v", err)
			c.sendError(err.Error())
		}

	case EventTypingStart:
		c.relayTyping(env.Data, EventTypingShow)

	case EventTypingStop:
		c.relayTyping(env.Data, EventTypingHide)

	default:
		logger.Debug("Unknown event %q ignored", env.Event)
	}
}

// relayTyping forwards a typing signal to every other connection in the
// session. Pure relay: no state, no timers; clients own expiry.
func (c *Client) relayTyping(data json.RawMessage, outEvent string) {
	if c.hub == nil {
		return
	}
	var p TypingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	out, err := marshalEvent(outEvent, p)
	if err != nil {
		logger.Error("Error marshaling %s event: %v", outEvent, err)
		return
	}
	c.hub.enqueue(frame{data: out, exclude: c})
}

// sendError reports a failure to this connection only. Other clients
// never observe failed operations.
func (c *Client) sendError(message string) {
	data, err := marshalEvent(EventError, ErrorPayload{Message: message})
	if err != nil {
		return
	}
	select {
	case <-c.done:
	case c.send <- data:
	default:
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Error("Write error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
