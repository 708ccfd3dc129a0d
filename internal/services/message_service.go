package services

import (
	"context"
	"fmt"
	"strings"

	"chat-ziro/internal/database"
	"chat-ziro/internal/models"
	"chat-ziro/internal/notify"
	"chat-ziro/internal/realtime"
	"chat-ziro/pkg/logger"
)

// MessageService turns send/edit/delete intents into persisted,
// broadcast, and notified state changes. Broadcasts happen only after
// the persistence call returns, so a failed persist never produces a
// ghost broadcast.
type MessageService struct {
	db          database.Database
	broadcaster Broadcaster
	notifier    notify.Notifier
	baseURL     string
}

func NewMessageService(db database.Database, broadcaster Broadcaster, notifier notify.Notifier, baseURL string) *MessageService {
	return &MessageService{
		db:          db,
		broadcaster: broadcaster,
		notifier:    notifier,
		baseURL:     baseURL,
	}
}

// Send persists a message, broadcasts it to the owning session, and
// kicks off external notifications in the background. Blank or
// whitespace-only content is a no-op.
func (s *MessageService) Send(ctx context.Context, roomID, userID, content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	msg, err := s.db.CreateMessage(ctx, roomID, userID, content)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	room, err := s.db.GetRoom(ctx, msg.RoomID)
	if err != nil {
		return fmt.Errorf("failed to resolve room: %w", err)
	}

	s.broadcaster.Broadcast(room.SessionID, realtime.EventMessageNew, msg)

	go s.notifyMembers(room, msg)
	return nil
}

// notifyMembers alerts every other session member with a registered
// notification address, once per distinct address, never the sender's
// own. Failures are logged and swallowed; they must never fail the
// enclosing send.
func (s *MessageService) notifyMembers(room *models.Room, msg *models.Message) {
	ctx := context.Background()

	sender, err := s.db.GetUser(ctx, msg.UserID)
	if err != nil {
		logger.Error("Notification skipped, sender lookup failed: %v", err)
		return
	}
	users, err := s.db.GetUsersBySession(ctx, room.SessionID)
	if err != nil {
		logger.Error("Notification skipped, member lookup failed: %v", err)
		return
	}

	var senderAddress string
	if sender.TelegramChatID != nil {
		senderAddress = *sender.TelegramChatID
	}
	chatURL := s.baseURL + "/chat/" + room.SessionID

	notified := make(map[string]struct{})
	for _, u := range users {
		if u.ID == msg.UserID || u.TelegramChatID == nil || *u.TelegramChatID == "" {
			continue
		}
		address := *u.TelegramChatID
		if address == senderAddress {
			continue
		}
		if _, seen := notified[address]; seen {
			continue
		}
		notified[address] = struct{}{}

		if err := s.notifier.NotifyNewMessage(ctx, address, sender.Nickname, room.Name, msg.Content, chatURL); err != nil {
			logger.Error("Notification to %s failed: %v", address, err)
		}
	}
}

// Edit replaces a message's content, marks it edited, and broadcasts
// the rehydrated row. Concurrent edits are last-write-wins: there is no
// version check, so a racing writer can clobber this one.
func (s *MessageService) Edit(ctx context.Context, id, content string) (*models.Message, error) {
	msg, err := s.db.UpdateMessage(ctx, id, content)
	if err != nil {
		return nil, err
	}

	room, err := s.db.GetRoom(ctx, msg.RoomID)
	if err != nil {
		logger.Error("Edit broadcast skipped, room lookup failed: %v", err)
		return msg, nil
	}
	s.broadcaster.Broadcast(room.SessionID, realtime.EventMessageUpdated, msg)
	return msg, nil
}

// Delete removes a message and broadcasts the removal. A repeated
// delete on an already-deleted id reports ErrNotFound, not success.
func (s *MessageService) Delete(ctx context.Context, id string) error {
	msg, err := s.db.DeleteMessage(ctx, id)
	if err != nil {
		return err
	}

	room, err := s.db.GetRoom(ctx, msg.RoomID)
	if err != nil {
		logger.Error("Delete broadcast skipped, room lookup failed: %v", err)
		return nil
	}
	s.broadcaster.Broadcast(room.SessionID, realtime.EventMessageDeleted,
		realtime.MessageDeletedPayload{ID: msg.ID, RoomID: msg.RoomID})
	return nil
}

func (s *MessageService) ListByRoom(ctx context.Context, roomID string) ([]*models.Message, error) {
	return s.db.GetMessagesByRoom(ctx, roomID)
}
