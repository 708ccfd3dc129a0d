package handlers

import (
	"net/http"

	"chat-ziro/internal/auth"
	"chat-ziro/internal/models"
	"chat-ziro/internal/storage"
	"chat-ziro/pkg/logger"
)

// AccountHandlers serves /api/accounts/{id}[...] routes. All of them
// require the bearer token to belong to the addressed account.
type AccountHandlers struct {
	authService *auth.Service
	store       storage.Store
	maxUpload   int64
}

func NewAccountHandlers(authService *auth.Service, store storage.Store, maxUpload int64) *AccountHandlers {
	return &AccountHandlers{authService: authService, store: store, maxUpload: maxUpload}
}

// ServeHTTP dispatches /api/accounts/{id}, /api/accounts/{id}/sessions
// and /api/accounts/{id}/profile-image.
func (h *AccountHandlers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := pathSegments(r)
	if len(parts) < 3 {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}
	accountID := parts[2]

	account, err := h.authService.GetAccountFromToken(r.Context(), bearerToken(r))
	if err != nil || account.ID != accountID {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	switch {
	case len(parts) == 3 && r.Method == http.MethodPatch:
		h.update(w, r, accountID)
	case len(parts) == 4 && parts[3] == "sessions" && r.Method == http.MethodGet:
		h.listSessions(w, r, accountID)
	case len(parts) == 4 && parts[3] == "profile-image" && r.Method == http.MethodPost:
		h.uploadImage(w, r, accountID)
	default:
		writeError(w, http.StatusNotFound, "endpoint not found")
	}
}

func (h *AccountHandlers) update(w http.ResponseWriter, r *http.Request, accountID string) {
	var req models.UpdateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	account, err := h.authService.UpdateAccount(r.Context(), accountID, models.AccountUpdate{
		Nickname:       req.Nickname,
		TelegramChatID: req.TelegramChatID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandlers) listSessions(w http.ResponseWriter, r *http.Request, accountID string) {
	sessions, err := h.authService.Sessions(r.Context(), accountID)
	if err != nil {
		logger.Error("List account sessions error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if sessions == nil {
		sessions = []*models.AccountSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *AccountHandlers) uploadImage(w http.ResponseWriter, r *http.Request, accountID string) {
	url, ok := saveUploadedImage(w, r, h.store, h.maxUpload)
	if !ok {
		return
	}

	account, err := h.authService.SetProfileImage(r.Context(), accountID, url)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}
