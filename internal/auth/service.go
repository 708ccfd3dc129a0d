package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"chat-ziro/internal/config"
	"chat-ziro/internal/database"
	"chat-ziro/internal/mail"
	"chat-ziro/internal/models"
	"chat-ziro/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username is already in use")
	ErrEmailTaken         = errors.New("email is already in use")
	ErrMailNotConfigured  = errors.New("mail delivery is not configured")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

const resetTokenTTL = time.Hour

// Service owns durable account identities: registration, login,
// password reset, and the JWT used to authenticate account endpoints.
type Service struct {
	db     database.Database
	cfg    *config.Config
	mailer mail.Mailer
}

// NewService creates the account service. mailer may be nil when mail
// delivery is not configured; forgot-password then reports an error.
func NewService(db database.Database, cfg *config.Config, mailer mail.Mailer) *Service {
	return &Service{db: db, cfg: cfg, mailer: mailer}
}

func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.LoginResponse, error) {
	if err := s.validateRegistrationRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.db.GetAccountByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.db.GetAccountByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		nickname = req.Username
	}

	account, err := s.db.CreateAccount(ctx, req.Username, req.Email, string(hash), nickname)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	token, err := s.generateToken(account)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &models.LoginResponse{Token: token, Account: *account}, nil
}

func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	account, err := s.db.GetAccountByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(account)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	account.PasswordHash = ""
	return &models.LoginResponse{Token: token, Account: *account}, nil
}

// ForgotPassword issues a reset token and mails the reset link. An
// unknown email is reported as success so account existence leaks
// nothing.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if s.mailer == nil {
		return ErrMailNotConfigured
	}

	if _, err := s.db.GetAccountByEmail(ctx, email); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	token := uuid.NewString()
	expires := time.Now().Add(resetTokenTTL)
	if err := s.db.SetResetToken(ctx, email, token, expires); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password.html?token=%s", s.cfg.BaseURL, token)
	if err := s.mailer.SendPasswordReset(ctx, email, resetURL); err != nil {
		logger.Error("Password reset mail to %s failed: %v", email, err)
		return fmt.Errorf("failed to send reset mail: %w", err)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" || password == "" {
		return fmt.Errorf("token and new password are required")
	}

	account, err := s.db.GetAccountByResetToken(ctx, token)
	if err != nil {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.db.UpdatePassword(ctx, account.ID, string(hash))
}

func (s *Service) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.cfg.JWT.Secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// GetAccountFromToken resolves the account a bearer token belongs to.
func (s *Service) GetAccountFromToken(ctx context.Context, tokenString string) (*models.Account, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	accountID, ok := (*claims)["account_id"].(string)
	if !ok || accountID == "" {
		return nil, fmt.Errorf("invalid account ID in token")
	}
	return s.db.GetAccount(ctx, accountID)
}

func (s *Service) UpdateAccount(ctx context.Context, id string, upd models.AccountUpdate) (*models.Account, error) {
	return s.db.UpdateAccount(ctx, id, upd)
}

// SetProfileImage records an already-uploaded avatar URL on the account.
func (s *Service) SetProfileImage(ctx context.Context, id, url string) (*models.Account, error) {
	return s.db.UpdateAccount(ctx, id, models.AccountUpdate{ProfileImage: &url})
}

// Sessions lists the chat spaces this account has joined.
func (s *Service) Sessions(ctx context.Context, accountID string) ([]*models.AccountSession, error) {
	return s.db.GetSessionsByAccount(ctx, accountID)
}

func (s *Service) generateToken(account *models.Account) (string, error) {
	claims := jwt.MapClaims{
		"account_id": account.ID,
		"username":   account.Username,
		"exp":        time.Now().Add(s.cfg.JWT.ExpiresIn).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.JWT.Secret)
}

func (s *Service) validateRegistrationRequest(req *models.RegisterRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fmt.Errorf("username, email and password are required")
	}

	if !isValidEmail(req.Email) {
		return fmt.Errorf("invalid email format")
	}

	if len(req.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	if len(req.Username) < 3 || len(req.Username) > 30 {
		return fmt.Errorf("username must be 3-30 characters long")
	}
	return nil
}

func isValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}
