package database

import (
	"context"
	"errors"
	"time"

	"chat-ziro/internal/models"
)

// ErrNotFound is returned when a requested row does not exist. Callers
// check it with errors.Is.
var ErrNotFound = errors.New("not found")

type SessionRepository interface {
	// CreateSession creates a session together with its default room in
	// one transaction.
	CreateSession(ctx context.Context) (*models.Session, *models.Room, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type RoomRepository interface {
	CreateRoom(ctx context.Context, sessionID, name string) (*models.Room, error)
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	GetRoomsBySession(ctx context.Context, sessionID string) ([]*models.Room, error)
	UpdateRoom(ctx context.Context, id string, upd models.RoomUpdate) (*models.Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, sessionID, nickname string, accountID *string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUsersBySession(ctx context.Context, sessionID string) ([]*models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
}

type MessageRepository interface {
	// CreateMessage persists a message and returns it hydrated with the
	// author's nickname and avatar.
	CreateMessage(ctx context.Context, roomID, userID, content string) (*models.Message, error)
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	GetMessagesByRoom(ctx context.Context, roomID string) ([]*models.Message, error)
	UpdateMessage(ctx context.Context, id, content string) (*models.Message, error)
	// DeleteMessage returns the deleted row, or ErrNotFound when the id
	// has already vanished.
	DeleteMessage(ctx context.Context, id string) (*models.Message, error)
}

type AccountRepository interface {
	CreateAccount(ctx context.Context, username, email, passwordHash, nickname string) (*models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateAccount(ctx context.Context, id string, upd models.AccountUpdate) (*models.Account, error)
	SetResetToken(ctx context.Context, email, token string, expires time.Time) error
	GetAccountByResetToken(ctx context.Context, token string) (*models.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	AddAccountToSession(ctx context.Context, accountID, sessionID string) error
	GetSessionsByAccount(ctx context.Context, accountID string) ([]*models.AccountSession, error)
}

type Database interface {
	SessionRepository
	RoomRepository
	UserRepository
	MessageRepository
	AccountRepository
	InitSchema(ctx context.Context) error
	Close() error
}
