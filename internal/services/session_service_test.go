package services

import (
	"context"
	"errors"
	"testing"

	"chat-ziro/internal/database"
)

func TestSessionService_CreateIncludesDefaultRoom(t *testing.T) {
	db := newFakeDB()
	svc := NewSessionService(db)

	resp, err := svc.Create(context.Background())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if resp.SessionID == "" || resp.RoomID == "" {
		t.Fatalf("Create() = %+v, want both ids set", resp)
	}

	room, err := db.GetRoom(context.Background(), resp.RoomID)
	if err != nil {
		t.Fatalf("GetRoom() error = %v", err)
	}
	if room.SessionID != resp.SessionID {
		t.Errorf("default room session = %q, want %q", room.SessionID, resp.SessionID)
	}
	if room.Name != "general" {
		t.Errorf("default room name = %q, want %q", room.Name, "general")
	}
}

func TestSessionService_GetHydratesRoomsAndUsers(t *testing.T) {
	db := newFakeDB()
	sessionID, _ := db.seedSession()
	db.seedUser(sessionID, "alice", nil)
	db.seedUser(sessionID, "bob", nil)

	svc := NewSessionService(db)
	detail, err := svc.Get(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if detail.ID != sessionID {
		t.Errorf("detail session = %q, want %q", detail.ID, sessionID)
	}
	if len(detail.Rooms) != 1 {
		t.Errorf("got %d rooms, want 1", len(detail.Rooms))
	}
	if len(detail.Users) != 2 {
		t.Errorf("got %d users, want 2", len(detail.Users))
	}
}

func TestSessionService_GetMissing(t *testing.T) {
	svc := NewSessionService(newFakeDB())
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSessionService_DeleteCascades(t *testing.T) {
	db := newFakeDB()
	sessionID, roomID := db.seedSession()
	user := db.seedUser(sessionID, "alice", nil)
	db.CreateMessage(context.Background(), roomID, user.ID, "hi")

	svc := NewSessionService(db)
	if err := svc.Delete(context.Background(), sessionID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(db.rooms) != 0 || len(db.users) != 0 || len(db.messages) != 0 {
		t.Errorf("cascade left rooms=%d users=%d messages=%d",
			len(db.rooms), len(db.users), len(db.messages))
	}

	if err := svc.Delete(context.Background(), sessionID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("repeated Delete() error = %v, want ErrNotFound", err)
	}
}
