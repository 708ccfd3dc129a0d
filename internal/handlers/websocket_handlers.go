package handlers

import (
	"net/http"

	"chat-ziro/internal/realtime"
	"chat-ziro/pkg/logger"

	"github.com/gorilla/websocket"
)

// WebSocketHandlers upgrades /ws connections. A fresh connection is
// unbound; it announces its session and user with a join:session event.
type WebSocketHandlers struct {
	manager  *realtime.Manager
	pipeline realtime.MessageSender
	upgrader websocket.Upgrader
}

func NewWebSocketHandlers(manager *realtime.Manager, pipeline realtime.MessageSender) *WebSocketHandlers {
	return &WebSocketHandlers{
		manager:  manager,
		pipeline: pipeline,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Configure for production
		},
	}
}

func (h *WebSocketHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	client := realtime.NewClient(h.manager, conn, h.pipeline)
	go client.WritePump()
	go client.ReadPump()
}
