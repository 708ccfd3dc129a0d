package handlers

import (
	"fmt"
	"net/http"
	"time"

	"chat-ziro/internal/models"
	"chat-ziro/internal/services"
)

// RoomHandlers serves /api/rooms/{id}[...]: rename/archive, delete,
// message history, and the JSON export download.
type RoomHandlers struct {
	roomService    *services.RoomService
	messageService *services.MessageService
}

func NewRoomHandlers(roomService *services.RoomService, messageService *services.MessageService) *RoomHandlers {
	return &RoomHandlers{roomService: roomService, messageService: messageService}
}

func (h *RoomHandlers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := pathSegments(r)
	if len(parts) < 3 {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}
	roomID := parts[2]

	switch {
	case len(parts) == 3 && r.Method == http.MethodPatch:
		h.update(w, r, roomID)
	case len(parts) == 3 && r.Method == http.MethodDelete:
		h.delete(w, r, roomID)
	case len(parts) == 4 && parts[3] == "messages" && r.Method == http.MethodGet:
		h.listMessages(w, r, roomID)
	case len(parts) == 4 && parts[3] == "export" && r.Method == http.MethodGet:
		h.export(w, r, roomID)
	default:
		writeError(w, http.StatusNotFound, "endpoint not found")
	}
}

func (h *RoomHandlers) update(w http.ResponseWriter, r *http.Request, roomID string) {
	var req models.UpdateRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	room, err := h.roomService.Update(r.Context(), roomID, models.RoomUpdate{
		Name:       req.Name,
		IsArchived: req.IsArchived,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *RoomHandlers) delete(w http.ResponseWriter, r *http.Request, roomID string) {
	if err := h.roomService.Delete(r.Context(), roomID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *RoomHandlers) listMessages(w http.ResponseWriter, r *http.Request, roomID string) {
	messages, err := h.messageService.ListByRoom(r.Context(), roomID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *RoomHandlers) export(w http.ResponseWriter, r *http.Request, roomID string) {
	export, err := h.roomService.Export(r.Context(), roomID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("chat_%s_%s.json", export.RoomName, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeJSON(w, http.StatusOK, export)
}
