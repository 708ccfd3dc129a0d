package services

import (
	"context"

	"chat-ziro/internal/database"
	"chat-ziro/internal/models"
)

type SessionService struct {
	db database.Database
}

func NewSessionService(db database.Database) *SessionService {
	return &SessionService{db: db}
}

// CreateSessionResponse mirrors what a fresh session's creator needs to
// enter it: the session id and its default room.
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	RoomID    string `json:"roomId"`
}

// Create makes a session with its default room in one transaction.
func (s *SessionService) Create(ctx context.Context) (*CreateSessionResponse, error) {
	session, room, err := s.db.CreateSession(ctx)
	if err != nil {
		return nil, err
	}
	return &CreateSessionResponse{SessionID: session.ID, RoomID: room.ID}, nil
}

// Get returns the session hydrated with its rooms and participants.
func (s *SessionService) Get(ctx context.Context, id string) (*models.SessionDetail, error) {
	session, err := s.db.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	rooms, err := s.db.GetRoomsBySession(ctx, id)
	if err != nil {
		return nil, err
	}
	users, err := s.db.GetUsersBySession(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.SessionDetail{Session: *session, Rooms: rooms, Users: users}, nil
}

// Delete removes a session; rooms, users, messages, and account links
// cascade away with it.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.db.DeleteSession(ctx, id)
}
