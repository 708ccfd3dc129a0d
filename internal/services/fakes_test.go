package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chat-ziro/internal/database"
	"chat-ziro/internal/models"

	"github.com/google/uuid"
)

// fakeDB is an in-memory stand-in for the persistence gateway. Methods
// not implemented here come from the embedded interface and panic if a
// test reaches them.
type fakeDB struct {
	database.Database

	mu        sync.Mutex
	sessions  map[string]*models.Session
	rooms     map[string]*models.Room
	users     map[string]*models.User
	messages  map[string]*models.Message
	msgOrder  []string
	links     map[string]bool // accountID+sessionID

	failCreateMessage error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		sessions: make(map[string]*models.Session),
		rooms:    make(map[string]*models.Room),
		users:    make(map[string]*models.User),
		messages: make(map[string]*models.Message),
		links:    make(map[string]bool),
	}
}

// seedSession installs a session with one room, returning both ids.
func (db *fakeDB) seedSession() (string, string) {
	sessionID := uuid.NewString()
	db.sessions[sessionID] = &models.Session{ID: sessionID, CreatedAt: time.Now()}
	roomID := uuid.NewString()
	db.rooms[roomID] = &models.Room{ID: roomID, SessionID: sessionID, Name: "general", CreatedAt: time.Now()}
	return sessionID, roomID
}

func (db *fakeDB) seedUser(sessionID, nickname string, telegramChatID *string) *models.User {
	u := &models.User{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		Nickname:       nickname,
		TelegramChatID: telegramChatID,
		CreatedAt:      time.Now(),
	}
	db.users[u.ID] = u
	return u
}

func (db *fakeDB) CreateSession(ctx context.Context) (*models.Session, *models.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	session := &models.Session{ID: uuid.NewString(), CreatedAt: time.Now()}
	db.sessions[session.ID] = session
	room := &models.Room{ID: uuid.NewString(), SessionID: session.ID, Name: "general", CreatedAt: time.Now()}
	db.rooms[room.ID] = room
	return session, room, nil
}

func (db *fakeDB) GetSession(ctx context.Context, id string) (*models.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	s, ok := db.sessions[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return s, nil
}

func (db *fakeDB) DeleteSession(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.sessions[id]; !ok {
		return database.ErrNotFound
	}
	delete(db.sessions, id)
	for rid, r := range db.rooms {
		if r.SessionID == id {
			delete(db.rooms, rid)
			for mid, m := range db.messages {
				if m.RoomID == rid {
					delete(db.messages, mid)
				}
			}
		}
	}
	for uid, u := range db.users {
		if u.SessionID == id {
			delete(db.users, uid)
		}
	}
	return nil
}

func (db *fakeDB) CreateRoom(ctx context.Context, sessionID, name string) (*models.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	room := &models.Room{ID: uuid.NewString(), SessionID: sessionID, Name: name, CreatedAt: time.Now()}
	db.rooms[room.ID] = room
	return room, nil
}

func (db *fakeDB) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	r, ok := db.rooms[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (db *fakeDB) GetRoomsBySession(ctx context.Context, sessionID string) ([]*models.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var rooms []*models.Room
	for _, r := range db.rooms {
		if r.SessionID == sessionID {
			copied := *r
			rooms = append(rooms, &copied)
		}
	}
	return rooms, nil
}

func (db *fakeDB) UpdateRoom(ctx context.Context, id string, upd models.RoomUpdate) (*models.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	r, ok := db.rooms[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if upd.Name != nil {
		r.Name = *upd.Name
	}
	if upd.IsArchived != nil {
		r.IsArchived = *upd.IsArchived
	}
	copied := *r
	return &copied, nil
}

func (db *fakeDB) DeleteRoom(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.rooms[id]; !ok {
		return database.ErrNotFound
	}
	delete(db.rooms, id)
	for mid, m := range db.messages {
		if m.RoomID == id {
			delete(db.messages, mid)
		}
	}
	return nil
}

func (db *fakeDB) CreateUser(ctx context.Context, sessionID, nickname string, accountID *string) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := &models.User{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Nickname:  nickname,
		AccountID: accountID,
		CreatedAt: time.Now(),
	}
	db.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (db *fakeDB) GetUser(ctx context.Context, id string) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (db *fakeDB) GetUsersBySession(ctx context.Context, sessionID string) ([]*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var users []*models.User
	for _, u := range db.users {
		if u.SessionID == sessionID {
			copied := *u
			users = append(users, &copied)
		}
	}
	return users, nil
}

func (db *fakeDB) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if upd.Nickname != nil {
		u.Nickname = *upd.Nickname
	}
	if upd.ProfileImage != nil {
		u.ProfileImage = upd.ProfileImage
	}
	if upd.TelegramChatID != nil {
		u.TelegramChatID = upd.TelegramChatID
	}
	copied := *u
	return &copied, nil
}

func (db *fakeDB) AddAccountToSession(ctx context.Context, accountID, sessionID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.links[accountID+"/"+sessionID] = true
	return nil
}

func (db *fakeDB) CreateMessage(ctx context.Context, roomID, userID, content string) (*models.Message, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failCreateMessage != nil {
		return nil, db.failCreateMessage
	}
	if _, ok := db.rooms[roomID]; !ok {
		return nil, database.ErrNotFound
	}
	author, ok := db.users[userID]
	if !ok {
		return nil, database.ErrNotFound
	}
	now := time.Now()
	msg := &models.Message{
		ID:           uuid.NewString(),
		RoomID:       roomID,
		UserID:       userID,
		Content:      content,
		CreatedAt:    now,
		UpdatedAt:    now,
		Nickname:     author.Nickname,
		ProfileImage: author.ProfileImage,
	}
	db.messages[msg.ID] = msg
	db.msgOrder = append(db.msgOrder, msg.ID)
	copied := *msg
	return &copied, nil
}

func (db *fakeDB) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	m, ok := db.messages[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (db *fakeDB) GetMessagesByRoom(ctx context.Context, roomID string) ([]*models.Message, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var messages []*models.Message
	for _, id := range db.msgOrder {
		m, ok := db.messages[id]
		if !ok || m.RoomID != roomID {
			continue
		}
		copied := *m
		messages = append(messages, &copied)
	}
	return messages, nil
}

func (db *fakeDB) UpdateMessage(ctx context.Context, id, content string) (*models.Message, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	m, ok := db.messages[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	m.Content = content
	m.IsEdited = true
	m.UpdatedAt = time.Now()
	copied := *m
	return &copied, nil
}

func (db *fakeDB) DeleteMessage(ctx context.Context, id string) (*models.Message, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	m, ok := db.messages[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	delete(db.messages, id)
	copied := *m
	return &copied, nil
}

// fakeBroadcaster records every fan-out.
type broadcastRecord struct {
	sessionID string
	event     string
	payload   interface{}
}

type fakeBroadcaster struct {
	mu      sync.Mutex
	records []broadcastRecord
}

func (b *fakeBroadcaster) Broadcast(sessionID, event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, broadcastRecord{sessionID, event, payload})
}

func (b *fakeBroadcaster) all() []broadcastRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]broadcastRecord, len(b.records))
	copy(out, b.records)
	return out
}

// fakeNotifier records every push.
type notifyCall struct {
	address  string
	sender   string
	roomName string
	content  string
	chatURL  string
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	err   error
}

func (n *fakeNotifier) NotifyNewMessage(ctx context.Context, chatID, senderNickname, roomName, content, chatURL string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{chatID, senderNickname, roomName, content, chatURL})
	return n.err
}

func (n *fakeNotifier) all() []notifyCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notifyCall, len(n.calls))
	copy(out, n.calls)
	return out
}

func strPtr(s string) *string { return &s }

var errBoom = fmt.Errorf("boom")
