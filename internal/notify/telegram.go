package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"chat-ziro/pkg/logger"
)

// Notifier pushes a best-effort "new message" alert to an external
// address. Failures are for the caller to log and swallow; a notifier
// must never be allowed to fail a message send.
type Notifier interface {
	NotifyNewMessage(ctx context.Context, chatID, senderNickname, roomName, content, chatURL string) error
}

const defaultAPIBase = "https://api.telegram.org"

// TelegramNotifier delivers alerts through the Telegram bot sendMessage
// API. With no bot token configured it is a disabled no-op.
type TelegramNotifier struct {
	token   string
	apiBase string
	client  *http.Client
}

func NewTelegramNotifier(token string) *TelegramNotifier {
	return &TelegramNotifier{
		token:   token,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (n *TelegramNotifier) NotifyNewMessage(ctx context.Context, chatID, senderNickname, roomName, content, chatURL string) error {
	text := fmt.Sprintf("💬 <b>New message</b>\n\n👤 <b>%s</b>\n📁 %s\n\n%s\n\n%s",
		senderNickname, roomName, content, chatURL)
	return n.send(ctx, chatID, text)
}

func (n *TelegramNotifier) send(ctx context.Context, chatID, text string) error {
	if n.token == "" {
		logger.Debug("Telegram bot token not configured, skipping notification")
		return nil
	}
	if chatID == "" {
		return nil
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("telegram response decode failed: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram send failed: %s", result.Description)
	}
	return nil
}
