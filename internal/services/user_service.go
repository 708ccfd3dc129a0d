package services

import (
	"context"
	"strings"

	"chat-ziro/internal/database"
	"chat-ziro/internal/models"
	"chat-ziro/pkg/logger"
)

// defaultNickname is used when a participant joins without picking one.
const defaultNickname = "anonymous"

type UserService struct {
	db database.Database
}

func NewUserService(db database.Database) *UserService {
	return &UserService{db: db}
}

// Create makes a per-session participant identity. When the person is
// logged in, their account is linked to the session so it shows up in
// their "my chat spaces" list.
func (s *UserService) Create(ctx context.Context, sessionID, nickname, accountID string) (*models.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		nickname = defaultNickname
	}

	var accountRef *string
	if accountID != "" {
		accountRef = &accountID
	}

	user, err := s.db.CreateUser(ctx, sessionID, nickname, accountRef)
	if err != nil {
		return nil, err
	}

	if accountID != "" {
		if err := s.db.AddAccountToSession(ctx, accountID, sessionID); err != nil {
			logger.Error("Failed to link account %s to session %s: %v", accountID, sessionID, err)
		}
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.db.GetUser(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	return s.db.UpdateUser(ctx, id, upd)
}

// SetProfileImage records an already-uploaded avatar URL on the user.
func (s *UserService) SetProfileImage(ctx context.Context, id, url string) (*models.User, error) {
	return s.db.UpdateUser(ctx, id, models.UserUpdate{ProfileImage: &url})
}
