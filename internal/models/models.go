package models

import "time"

// Session is a shareable chat space grouping rooms and participants.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionDetail is a session hydrated with its rooms and participants.
type SessionDetail struct {
	Session
	Rooms []*Room `json:"rooms"`
	Users []*User `json:"users"`
}

type Room struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Name       string    `json:"name"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
}

// User is a per-session participant identity, distinct from a durable
// Account. One user per session per browser/account, reused across
// reconnects via a client-held id.
type User struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	Nickname       string    `json:"nickname"`
	ProfileImage   *string   `json:"profile_image"`
	TelegramChatID *string   `json:"telegram_chat_id"`
	AccountID      *string   `json:"account_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Message is always returned hydrated with the author's current
// nickname and avatar (a join at read time, not a copy).
type Message struct {
	ID           string    `json:"id"`
	RoomID       string    `json:"room_id"`
	UserID       string    `json:"user_id"`
	Content      string    `json:"content"`
	IsEdited     bool      `json:"is_edited"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Nickname     string    `json:"nickname"`
	ProfileImage *string   `json:"profile_image"`
}

// Account is a durable login identity. A User may optionally reference one.
type Account struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Nickname       string    `json:"nickname"`
	ProfileImage   *string   `json:"profile_image"`
	TelegramChatID *string   `json:"telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// AccountSession is one row of an account's "my chat spaces" listing.
type AccountSession struct {
	Session
	FirstRoomName *string   `json:"first_room_name"`
	RoomCount     int       `json:"room_count"`
	JoinedAt      time.Time `json:"joined_at"`
}

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	Nickname       *string
	ProfileImage   *string
	TelegramChatID *string
}

type AccountUpdate struct {
	Nickname       *string
	ProfileImage   *string
	TelegramChatID *string
}

type RoomUpdate struct {
	Name       *string
	IsArchived *bool
}

// RoomExport is the downloadable backup document for one room.
type RoomExport struct {
	RoomName     string              `json:"room_name"`
	CreatedAt    time.Time           `json:"created_at"`
	ArchivedAt   *time.Time          `json:"archived_at"`
	Participants []ExportParticipant `json:"participants"`
	Messages     []ExportMessage     `json:"messages"`
}

type ExportParticipant struct {
	Nickname     string  `json:"nickname"`
	ProfileImage *string `json:"profile_image"`
}

type ExportMessage struct {
	ID                 string    `json:"id"`
	Sender             string    `json:"sender"`
	SenderProfileImage *string   `json:"sender_profile_image"`
	Text               string    `json:"text"`
	Time               time.Time `json:"time"`
	IsEdited           bool      `json:"is_edited"`
}
