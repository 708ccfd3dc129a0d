package services

import (
	"context"
	"errors"
	"testing"

	"chat-ziro/internal/database"
	"chat-ziro/internal/models"
)

func TestUserService_CreateDefaultsNickname(t *testing.T) {
	tests := []struct {
		name     string
		nickname string
		want     string
	}{
		{"explicit", "alice", "alice"},
		{"blank", "", "anonymous"},
		{"whitespace", "  ", "anonymous"},
		{"trimmed", " bob ", "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newFakeDB()
			sessionID, _ := db.seedSession()
			svc := NewUserService(db)

			user, err := svc.Create(context.Background(), sessionID, tt.nickname, "")
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if user.Nickname != tt.want {
				t.Errorf("nickname = %q, want %q", user.Nickname, tt.want)
			}
			if user.AccountID != nil {
				t.Error("anonymous join should not carry an account reference")
			}
		})
	}
}

func TestUserService_CreateLinksAccountToSession(t *testing.T) {
	db := newFakeDB()
	sessionID, _ := db.seedSession()
	svc := NewUserService(db)

	user, err := svc.Create(context.Background(), sessionID, "alice", "acc-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.AccountID == nil || *user.AccountID != "acc-1" {
		t.Errorf("user account = %v, want acc-1", user.AccountID)
	}
	if !db.links["acc-1/"+sessionID] {
		t.Error("account was not linked to the session")
	}
}

func TestUserService_UpdateTelegramChatID(t *testing.T) {
	db := newFakeDB()
	sessionID, _ := db.seedSession()
	user := db.seedUser(sessionID, "alice", nil)

	svc := NewUserService(db)
	chatID := "12345"
	updated, err := svc.Update(context.Background(), user.ID, models.UserUpdate{TelegramChatID: &chatID})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.TelegramChatID == nil || *updated.TelegramChatID != "12345" {
		t.Errorf("telegram chat id = %v, want 12345", updated.TelegramChatID)
	}
	if updated.Nickname != "alice" {
		t.Errorf("partial update changed nickname to %q", updated.Nickname)
	}
}

func TestUserService_SetProfileImage(t *testing.T) {
	db := newFakeDB()
	sessionID, _ := db.seedSession()
	user := db.seedUser(sessionID, "alice", nil)

	svc := NewUserService(db)
	updated, err := svc.SetProfileImage(context.Background(), user.ID, "/uploads/abc.png")
	if err != nil {
		t.Fatalf("SetProfileImage() error = %v", err)
	}
	if updated.ProfileImage == nil || *updated.ProfileImage != "/uploads/abc.png" {
		t.Errorf("profile image = %v", updated.ProfileImage)
	}
}

func TestUserService_UpdateMissing(t *testing.T) {
	svc := NewUserService(newFakeDB())
	nick := "x"
	if _, err := svc.Update(context.Background(), "missing", models.UserUpdate{Nickname: &nick}); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}
