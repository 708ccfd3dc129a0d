package services

import (
	"context"
	"strings"
	"time"

	"chat-ziro/internal/database"
	"chat-ziro/internal/models"
	"chat-ziro/internal/realtime"
)

// defaultRoomName is used when a create request carries a blank name.
const defaultRoomName = "New Room"

// RoomService persists room lifecycle changes and propagates them to
// every session member. Clients that issued a create select the room
// only once they observe their own room:created echo.
type RoomService struct {
	db          database.Database
	broadcaster Broadcaster
}

func NewRoomService(db database.Database, broadcaster Broadcaster) *RoomService {
	return &RoomService{db: db, broadcaster: broadcaster}
}

func (s *RoomService) Create(ctx context.Context, sessionID, name string) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultRoomName
	}

	room, err := s.db.CreateRoom(ctx, sessionID, name)
	if err != nil {
		return nil, err
	}
	s.broadcaster.Broadcast(sessionID, realtime.EventRoomCreated, room)
	return room, nil
}

// Update renames and/or toggles the archived flag, then broadcasts the
// full updated room.
func (s *RoomService) Update(ctx context.Context, id string, upd models.RoomUpdate) (*models.Room, error) {
	room, err := s.db.UpdateRoom(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.broadcaster.Broadcast(room.SessionID, realtime.EventRoomUpdated, room)
	return room, nil
}

// Delete cascades the room's messages away with the room, then tells
// every session member which room vanished. Clients viewing it fall
// back to another room from their cached list.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	room, err := s.db.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.broadcaster.Broadcast(room.SessionID, realtime.EventRoomDeleted,
		realtime.RoomDeletedPayload{RoomID: room.ID})
	return nil
}

func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	return s.db.GetRoom(ctx, id)
}

// Export builds the downloadable backup document for a room: name,
// timestamps, participant snapshot, and the ordered message history.
func (s *RoomService) Export(ctx context.Context, roomID string) (*models.RoomExport, error) {
	room, err := s.db.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	messages, err := s.db.GetMessagesByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	export := &models.RoomExport{
		RoomName:     room.Name,
		CreatedAt:    room.CreatedAt,
		Participants: []models.ExportParticipant{},
		Messages:     make([]models.ExportMessage, 0, len(messages)),
	}
	if room.IsArchived {
		now := time.Now().UTC()
		export.ArchivedAt = &now
	}

	seen := make(map[string]bool)
	for _, m := range messages {
		if !seen[m.UserID] {
			seen[m.UserID] = true
			export.Participants = append(export.Participants, models.ExportParticipant{
				Nickname:     m.Nickname,
				ProfileImage: m.ProfileImage,
			})
		}
		export.Messages = append(export.Messages, models.ExportMessage{
			ID:                 m.ID,
			Sender:             m.Nickname,
			SenderProfileImage: m.ProfileImage,
			Text:               m.Content,
			Time:               m.CreatedAt,
			IsEdited:           m.IsEdited,
		})
	}
	return export, nil
}
