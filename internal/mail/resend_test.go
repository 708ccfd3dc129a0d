package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResendMailer_SendPasswordReset(t *testing.T) {
	var gotAuth string
	var gotReq sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewResendMailer("re_key", "Chat Ziro <onboarding@resend.dev>")
	m.endpoint = srv.URL

	err := m.SendPasswordReset(context.Background(), "alice@example.com", "http://localhost/reset-password.html?token=abc")
	if err != nil {
		t.Fatalf("SendPasswordReset() error = %v", err)
	}

	if gotAuth != "Bearer re_key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if len(gotReq.To) != 1 || gotReq.To[0] != "alice@example.com" {
		t.Errorf("to = %v", gotReq.To)
	}
	if gotReq.From != "Chat Ziro <onboarding@resend.dev>" {
		t.Errorf("from = %q", gotReq.From)
	}
	if !strings.Contains(gotReq.HTML, "token=abc") {
		t.Errorf("html body missing reset link: %q", gotReq.HTML)
	}
}

func TestResendMailer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	m := NewResendMailer("re_key", "noreply@example.com")
	m.endpoint = srv.URL

	err := m.SendPasswordReset(context.Background(), "alice@example.com", "http://localhost/reset")
	if err == nil {
		t.Fatal("SendPasswordReset() should fail on a non-2xx status")
	}
	if !strings.Contains(err.Error(), "422") {
		t.Errorf("error = %v, want status code", err)
	}
}
