package handlers

import (
	"net/http"

	"chat-ziro/internal/models"
	"chat-ziro/internal/services"
	"chat-ziro/internal/storage"
)

// UserHandlers serves /api/users/{id}[...]: participant profile updates
// and avatar uploads.
type UserHandlers struct {
	userService *services.UserService
	store       storage.Store
	maxUpload   int64
}

func NewUserHandlers(userService *services.UserService, store storage.Store, maxUpload int64) *UserHandlers {
	return &UserHandlers{userService: userService, store: store, maxUpload: maxUpload}
}

func (h *UserHandlers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := pathSegments(r)
	if len(parts) < 3 {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}
	userID := parts[2]

	switch {
	case len(parts) == 3 && r.Method == http.MethodPatch:
		h.update(w, r, userID)
	case len(parts) == 4 && parts[3] == "profile-image" && r.Method == http.MethodPost:
		h.uploadImage(w, r, userID)
	default:
		writeError(w, http.StatusNotFound, "endpoint not found")
	}
}

func (h *UserHandlers) update(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.userService.Update(r.Context(), userID, models.UserUpdate{
		Nickname:       req.Nickname,
		TelegramChatID: req.TelegramChatID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandlers) uploadImage(w http.ResponseWriter, r *http.Request, userID string) {
	url, ok := saveUploadedImage(w, r, h.store, h.maxUpload)
	if !ok {
		return
	}

	user, err := h.userService.SetProfileImage(r.Context(), userID, url)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
