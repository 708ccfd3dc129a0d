package handlers

import (
	"errors"
	"net/http"

	"chat-ziro/internal/storage"
	"chat-ziro/pkg/logger"
)

// saveUploadedImage reads the multipart "image" field, stores it, and
// returns the public URL. On failure it writes the error response and
// returns ok=false.
func saveUploadedImage(w http.ResponseWriter, r *http.Request, store storage.Store, maxBytes int64) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "image is too large or missing")
		return "", false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image is required")
		return "", false
	}
	defer file.Close()

	url, err := store.Save(r.Context(), header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			writeError(w, http.StatusBadRequest, err.Error())
			return "", false
		}
		logger.Error("Image upload error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return "", false
	}
	return url, true
}
