package handlers

import (
	"net/http"

	"chat-ziro/internal/models"
	"chat-ziro/internal/services"
)

// MessageHandlers serves /api/messages/{id}: edit and delete. Both
// broadcast to the owning session after the persistence call succeeds.
type MessageHandlers struct {
	messageService *services.MessageService
}

func NewMessageHandlers(messageService *services.MessageService) *MessageHandlers {
	return &MessageHandlers{messageService: messageService}
}

func (h *MessageHandlers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := pathSegments(r)
	if len(parts) != 3 {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}
	messageID := parts[2]

	switch r.Method {
	case http.MethodPatch:
		h.update(w, r, messageID)
	case http.MethodDelete:
		h.delete(w, r, messageID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *MessageHandlers) update(w http.ResponseWriter, r *http.Request, messageID string) {
	var req models.UpdateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	msg, err := h.messageService.Edit(r.Context(), messageID, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *MessageHandlers) delete(w http.ResponseWriter, r *http.Request, messageID string) {
	if err := h.messageService.Delete(r.Context(), messageID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
