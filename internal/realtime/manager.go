package realtime

import (
	"sync"

	"chat-ziro/pkg/logger"
)

// Manager owns the session hubs. Hubs are created lazily on the first
// bind and live for the process lifetime; presence is rebuilt from zero
// on restart.
type Manager struct {
	mu   sync.Mutex
	hubs map[string]*Hub
}

func NewManager() *Manager {
	return &Manager{hubs: make(map[string]*Hub)}
}

// HubForSession returns the hub for a session, starting one if needed.
func (m *Manager) HubForSession(sessionID string) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	hub, exists := m.hubs[sessionID]
	if !exists {
		hub = newHub(sessionID)
		m.hubs[sessionID] = hub
		go hub.Run()
	}
	return hub
}

// Broadcast delivers an event to every connection bound to the session
// channel. Sessions with no live connections are a no-op.
func (m *Manager) Broadcast(sessionID, event string, payload interface{}) {
	m.mu.Lock()
	hub := m.hubs[sessionID]
	m.mu.Unlock()
	if hub == nil {
		return
	}

	data, err := marshalEvent(event, payload)
	if err != nil {
		logger.Error("Error marshaling %s event: %v", event, err)
		return
	}
	hub.enqueue(frame{data: data})
}
