package handlers

import (
	"net/http"

	"chat-ziro/internal/models"
	"chat-ziro/internal/services"
	"chat-ziro/pkg/logger"
)

// SessionHandlers serves /api/sessions and its sub-routes: the session
// itself plus participant and room creation inside it.
type SessionHandlers struct {
	sessionService *services.SessionService
	userService    *services.UserService
	roomService    *services.RoomService
}

func NewSessionHandlers(sessionService *services.SessionService, userService *services.UserService, roomService *services.RoomService) *SessionHandlers {
	return &SessionHandlers{
		sessionService: sessionService,
		userService:    userService,
		roomService:    roomService,
	}
}

func (h *SessionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp, err := h.sessionService.Create(r.Context())
	if err != nil {
		logger.Error("Create session error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ServeHTTP dispatches /api/sessions/{id}, /api/sessions/{id}/users and
// /api/sessions/{id}/rooms.
func (h *SessionHandlers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := pathSegments(r)
	if len(parts) < 3 {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}
	sessionID := parts[2]

	switch {
	case len(parts) == 3 && r.Method == http.MethodGet:
		h.get(w, r, sessionID)
	case len(parts) == 3 && r.Method == http.MethodDelete:
		h.delete(w, r, sessionID)
	case len(parts) == 4 && parts[3] == "users" && r.Method == http.MethodPost:
		h.createUser(w, r, sessionID)
	case len(parts) == 4 && parts[3] == "rooms" && r.Method == http.MethodPost:
		h.createRoom(w, r, sessionID)
	default:
		writeError(w, http.StatusNotFound, "endpoint not found")
	}
}

func (h *SessionHandlers) get(w http.ResponseWriter, r *http.Request, sessionID string) {
	detail, err := h.sessionService.Get(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *SessionHandlers) delete(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.sessionService.Delete(r.Context(), sessionID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *SessionHandlers) createUser(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req models.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.userService.Create(r.Context(), sessionID, req.Nickname, req.AccountID)
	if err != nil {
		logger.Error("Create user error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *SessionHandlers) createRoom(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req models.CreateRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	room, err := h.roomService.Create(r.Context(), sessionID, req.Name)
	if err != nil {
		logger.Error("Create room error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, room)
}
