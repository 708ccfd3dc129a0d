package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chat-ziro/internal/models"
	"chat-ziro/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(databaseURL string) (*PostgresDB, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully")
	return &PostgresDB{pool: pool}, nil
}

func (db *PostgresDB) Close() error {
	db.pool.Close()
	return nil
}

// InitSchema creates the tables on startup if they do not exist yet.
func (db *PostgresDB) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			nickname TEXT NOT NULL DEFAULT 'anonymous',
			profile_image TEXT,
			telegram_chat_id TEXT,
			reset_token TEXT,
			reset_token_expires TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			is_archived BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			nickname TEXT NOT NULL DEFAULT 'anonymous',
			profile_image TEXT,
			telegram_chat_id TEXT,
			account_id TEXT REFERENCES accounts(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			content TEXT NOT NULL,
			is_edited BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS account_sessions (
			id TEXT PRIMARY KEY,
			account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(account_id, session_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	logger.Info("Database schema ready")
	return nil
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Session Repository Implementation

func (db *PostgresDB) CreateSession(ctx context.Context) (*models.Session, *models.Room, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	session := &models.Session{}
	err = tx.QueryRow(ctx,
		`INSERT INTO sessions (id) VALUES ($1) RETURNING id, created_at`,
		uuid.NewString(),
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	room := &models.Room{}
	err = tx.QueryRow(ctx,
		`INSERT INTO rooms (id, session_id, name) VALUES ($1, $2, $3)
		 RETURNING id, session_id, name, is_archived, created_at`,
		uuid.NewString(), session.ID, "general",
	).Scan(&room.ID, &room.SessionID, &room.Name, &room.IsArchived, &room.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create default room: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return session, room, nil
}

func (db *PostgresDB) GetSession(ctx context.Context, id string) (*models.Session, error) {
	session := &models.Session{}
	err := db.pool.QueryRow(ctx,
		`SELECT id, created_at FROM sessions WHERE id = $1`, id,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return session, nil
}

func (db *PostgresDB) DeleteSession(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Room Repository Implementation

func (db *PostgresDB) CreateRoom(ctx context.Context, sessionID, name string) (*models.Room, error) {
	room := &models.Room{}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO rooms (id, session_id, name) VALUES ($1, $2, $3)
		 RETURNING id, session_id, name, is_archived, created_at`,
		uuid.NewString(), sessionID, name,
	).Scan(&room.ID, &room.SessionID, &room.Name, &room.IsArchived, &room.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

func (db *PostgresDB) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	room := &models.Room{}
	err := db.pool.QueryRow(ctx,
		`SELECT id, session_id, name, is_archived, created_at FROM rooms WHERE id = $1`, id,
	).Scan(&room.ID, &room.SessionID, &room.Name, &room.IsArchived, &room.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return room, nil
}

func (db *PostgresDB) GetRoomsBySession(ctx context.Context, sessionID string) ([]*models.Room, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, session_id, name, is_archived, created_at
		 FROM rooms WHERE session_id = $1 ORDER BY created_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.SessionID, &room.Name, &room.IsArchived, &room.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (db *PostgresDB) UpdateRoom(ctx context.Context, id string, upd models.RoomUpdate) (*models.Room, error) {
	var sets []string
	var args []interface{}

	if upd.Name != nil {
		args = append(args, *upd.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if upd.IsArchived != nil {
		args = append(args, *upd.IsArchived)
		sets = append(sets, fmt.Sprintf("is_archived = $%d", len(args)))
	}

	if len(sets) > 0 {
		args = append(args, id)
		query := fmt.Sprintf("UPDATE rooms SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
		tag, err := db.pool.Exec(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update room: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, ErrNotFound
		}
	}

	return db.GetRoom(ctx, id)
}

func (db *PostgresDB) DeleteRoom(ctx context.Context, id string) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE room_id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// User Repository Implementation

func (db *PostgresDB) CreateUser(ctx context.Context, sessionID, nickname string, accountID *string) (*models.User, error) {
	user := &models.User{}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (id, session_id, nickname, account_id) VALUES ($1, $2, $3, $4)
		 RETURNING id, session_id, nickname, profile_image, telegram_chat_id, account_id, created_at`,
		uuid.NewString(), sessionID, nickname, accountID,
	).Scan(&user.ID, &user.SessionID, &user.Nickname, &user.ProfileImage,
		&user.TelegramChatID, &user.AccountID, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (db *PostgresDB) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	err := db.pool.QueryRow(ctx,
		`SELECT id, session_id, nickname, profile_image, telegram_chat_id, account_id, created_at
		 FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.SessionID, &user.Nickname, &user.ProfileImage,
		&user.TelegramChatID, &user.AccountID, &user.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return user, nil
}

func (db *PostgresDB) GetUsersBySession(ctx context.Context, sessionID string) ([]*models.User, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, session_id, nickname, profile_image, telegram_chat_id, account_id, created_at
		 FROM users WHERE session_id = $1 ORDER BY created_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.SessionID, &user.Nickname, &user.ProfileImage,
			&user.TelegramChatID, &user.AccountID, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (db *PostgresDB) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	var sets []string
	var args []interface{}

	if upd.Nickname != nil {
		args = append(args, *upd.Nickname)
		sets = append(sets, fmt.Sprintf("nickname = $%d", len(args)))
	}
	if upd.ProfileImage != nil {
		args = append(args, *upd.ProfileImage)
		sets = append(sets, fmt.Sprintf("profile_image = $%d", len(args)))
	}
	if upd.TelegramChatID != nil {
		args = append(args, *upd.TelegramChatID)
		sets = append(sets, fmt.Sprintf("telegram_chat_id = $%d", len(args)))
	}

	if len(sets) > 0 {
		args = append(args, id)
		query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
		tag, err := db.pool.Exec(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, ErrNotFound
		}
	}

	return db.GetUser(ctx, id)
}

// Message Repository Implementation

const hydratedMessageQuery = `
	SELECT m.id, m.room_id, m.user_id, m.content, m.is_edited, m.created_at, m.updated_at,
	       u.nickname, u.profile_image
	FROM messages m
	JOIN users u ON m.user_id = u.id`

func scanMessage(row pgx.Row) (*models.Message, error) {
	msg := &models.Message{}
	err := row.Scan(&msg.ID, &msg.RoomID, &msg.UserID, &msg.Content, &msg.IsEdited,
		&msg.CreatedAt, &msg.UpdatedAt, &msg.Nickname, &msg.ProfileImage)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return msg, nil
}

func (db *PostgresDB) CreateMessage(ctx context.Context, roomID, userID, content string) (*models.Message, error) {
	id := uuid.NewString()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO messages (id, room_id, user_id, content) VALUES ($1, $2, $3, $4)`,
		id, roomID, userID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return db.GetMessage(ctx, id)
}

func (db *PostgresDB) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	return scanMessage(db.pool.QueryRow(ctx, hydratedMessageQuery+` WHERE m.id = $1`, id))
}

func (db *PostgresDB) GetMessagesByRoom(ctx context.Context, roomID string) ([]*models.Message, error) {
	rows, err := db.pool.Query(ctx, hydratedMessageQuery+` WHERE m.room_id = $1 ORDER BY m.created_at`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (db *PostgresDB) UpdateMessage(ctx context.Context, id, content string) (*models.Message, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE messages SET content = $1, is_edited = TRUE, updated_at = NOW() WHERE id = $2`,
		content, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return db.GetMessage(ctx, id)
}

func (db *PostgresDB) DeleteMessage(ctx context.Context, id string) (*models.Message, error) {
	msg, err := db.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	tag, err := db.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	// A racing delete between the read and the DELETE must not report
	// success, or the row would be announced as deleted twice.
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return msg, nil
}

// Account Repository Implementation

const accountColumns = `id, username, email, password_hash, nickname, profile_image, telegram_chat_id, created_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(&account.ID, &account.Username, &account.Email, &account.PasswordHash,
		&account.Nickname, &account.ProfileImage, &account.TelegramChatID, &account.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return account, nil
}

func (db *PostgresDB) CreateAccount(ctx context.Context, username, email, passwordHash, nickname string) (*models.Account, error) {
	account, err := scanAccount(db.pool.QueryRow(ctx,
		`INSERT INTO accounts (id, username, email, password_hash, nickname)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+accountColumns,
		uuid.NewString(), username, email, passwordHash, nickname))
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

func (db *PostgresDB) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return scanAccount(db.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (db *PostgresDB) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	return scanAccount(db.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username))
}

func (db *PostgresDB) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return scanAccount(db.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

func (db *PostgresDB) UpdateAccount(ctx context.Context, id string, upd models.AccountUpdate) (*models.Account, error) {
	var sets []string
	var args []interface{}

	if upd.Nickname != nil {
		args = append(args, *upd.Nickname)
		sets = append(sets, fmt.Sprintf("nickname = $%d", len(args)))
	}
	if upd.ProfileImage != nil {
		args = append(args, *upd.ProfileImage)
		sets = append(sets, fmt.Sprintf("profile_image = $%d", len(args)))
	}
	if upd.TelegramChatID != nil {
		args = append(args, *upd.TelegramChatID)
		sets = append(sets, fmt.Sprintf("telegram_chat_id = $%d", len(args)))
	}

	if len(sets) > 0 {
		args = append(args, id)
		query := fmt.Sprintf("UPDATE accounts SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
		tag, err := db.pool.Exec(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update account: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, ErrNotFound
		}
	}

	return db.GetAccount(ctx, id)
}

func (db *PostgresDB) SetResetToken(ctx context.Context, email, token string, expires time.Time) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE accounts SET reset_token = $1, reset_token_expires = $2 WHERE email = $3`,
		token, expires, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *PostgresDB) GetAccountByResetToken(ctx context.Context, token string) (*models.Account, error) {
	return scanAccount(db.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts
		 WHERE reset_token = $1 AND reset_token_expires > NOW()`, token))
}

func (db *PostgresDB) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE accounts SET password_hash = $1, reset_token = NULL, reset_token_expires = NULL
		 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *PostgresDB) AddAccountToSession(ctx context.Context, accountID, sessionID string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO account_sessions (id, account_id, session_id) VALUES ($1, $2, $3)
		 ON CONFLICT (account_id, session_id) DO NOTHING`,
		uuid.NewString(), accountID, sessionID)
	return err
}

func (db *PostgresDB) GetSessionsByAccount(ctx context.Context, accountID string) ([]*models.AccountSession, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT s.id, s.created_at,
		        (SELECT name FROM rooms WHERE session_id = s.id ORDER BY created_at LIMIT 1),
		        (SELECT COUNT(*) FROM rooms WHERE session_id = s.id),
		        acs.joined_at
		 FROM sessions s
		 JOIN account_sessions acs ON s.id = acs.session_id
		 WHERE acs.account_id = $1
		 ORDER BY acs.joined_at DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.AccountSession
	for rows.Next() {
		as := &models.AccountSession{}
		if err := rows.Scan(&as.ID, &as.CreatedAt, &as.FirstRoomName, &as.RoomCount, &as.JoinedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, as)
	}
	return sessions, rows.Err()
}
