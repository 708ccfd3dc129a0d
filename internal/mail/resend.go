package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Mailer sends transactional mail. The only message the service sends
// is the password-reset link.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

const defaultEndpoint = "https://api.resend.com/emails"

// ResendMailer delivers through the Resend HTTP API.
type ResendMailer struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		apiKey:   apiKey,
		from:     from,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *ResendMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	html := fmt.Sprintf(`<h2>Password reset</h2>
<p>Click the link below to reset your password.</p>
<p><a href="%s">%s</a></p>
<p>This link expires in one hour.</p>
<p>If you did not request this, ignore this email.</p>`, resetURL, resetURL)

	body, err := json.Marshal(sendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: "[Chat Ziro] Password reset",
		HTML:    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail send failed: status %d", resp.StatusCode)
	}
	return nil
}
