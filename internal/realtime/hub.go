package realtime

import (
	"chat-ziro/pkg/logger"
)

// frame is one outbound broadcast: raw envelope bytes plus an optional
// connection to exclude (typing relays skip the sender).
type frame struct {
	data    []byte
	exclude *Client
}

// Hub is the broadcast channel for one session. All clients bound to
// the session register here, and every fan-out passes through the
// single Run goroutine, so the client and presence maps never need
// locks and same-channel events keep their send order.
type Hub struct {
	sessionID string

	clients  map[*Client]bool
	presence *presenceTable

	register   chan *Client
	unregister chan *Client
	frames     chan frame
}

func newHub(sessionID string) *Hub {
	return &Hub{
		sessionID:  sessionID,
		clients:    make(map[*Client]bool),
		presence:   newPresenceTable(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		frames:     make(chan frame, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.presence.bind(client.userID)
			h.broadcastPresence()
			logger.Info("User %s joined session %s", client.userID, h.sessionID)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.broadcastPresence()
				logger.Info("User %s left session %s", client.userID, h.sessionID)
			}

		case f := <-h.frames:
			if h.writeAll(f) {
				h.broadcastPresence()
			}
		}
	}
}

// enqueue hands a frame to the run loop for fan-out.
func (h *Hub) enqueue(f frame) {
	h.frames <- f
}

// writeAll fans one frame out and reports whether any client was
// dropped, so the caller can refresh presence.
func (h *Hub) writeAll(f frame) bool {
	dropped := false
	for client := range h.clients {
		if client == f.exclude {
			continue
		}
		select {
		case client.send <- f.data:
		default:
			// Slow client: drop it rather than block the channel.
			h.drop(client)
			dropped = true
		}
	}
	return dropped
}

// drop detaches a client from the hub. The send channel stays open; the
// read pump may still write to it until it observes done.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.done)
	h.presence.unbind(client.userID)
}

func (h *Hub) broadcastPresence() {
	// Repeat until a fan-out completes without dropping anyone, so the
	// delivered list always matches the final presence set.
	for {
		data, err := marshalEvent(EventUsersOnline, h.presence.snapshot())
		if err != nil {
			logger.Error("Error marshaling presence update: %v", err)
			return
		}
		if !h.writeAll(frame{data: data}) {
			return
		}
	}
}
