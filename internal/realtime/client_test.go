package realtime

import (
	"encoding/json"
	"testing"
)

func joinEvent(t *testing.T, sessionID, userID string) Envelope {
	t.Helper()
	data, err := json.Marshal(JoinSessionPayload{SessionID: sessionID, UserID: userID})
	if err != nil {
		t.Fatalf("marshal join payload: %v", err)
	}
	return Envelope{Event: EventJoinSession, Data: data}
}

func TestClient_JoinSessionFirstBindWins(t *testing.T) {
	m := NewManager()
	c := NewClient(m, nil, nil)

	c.handleEvent(joinEvent(t, "s1", "alice"))
	first := c.hub
	if first == nil {
		t.Fatal("join did not bind the connection")
	}
	if c.sessionID != "s1" || c.userID != "alice" {
		t.Fatalf("bound to session %q user %q", c.sessionID, c.userID)
	}
	recvPresence(t, c)

	// A second join on a bound connection is ignored; the connection
	// cannot migrate to another session.
	c.handleEvent(joinEvent(t, "s2", "mallory"))
	if c.hub != first {
		t.Error("rejoin moved the connection to another hub")
	}
	if c.sessionID != "s1" || c.userID != "alice" {
		t.Errorf("rejoin rebound to session %q user %q", c.sessionID, c.userID)
	}

	m.mu.Lock()
	_, created := m.hubs["s2"]
	m.mu.Unlock()
	if created {
		t.Error("ignored rejoin still created a hub for the other session")
	}
	assertNoEvent(t, c)
}

func TestClient_JoinSessionRequiresIDs(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		userID    string
	}{
		{"missing session", "", "alice"},
		{"missing user", "s1", ""},
		{"missing both", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			c := NewClient(m, nil, nil)

			c.handleEvent(joinEvent(t, tt.sessionID, tt.userID))
			if c.hub != nil {
				t.Error("invalid join must not bind the connection")
			}
			if env := recvEvent(t, c); env.Event != EventError {
				t.Errorf("event = %q, want %q", env.Event, EventError)
			}
		})
	}
}
