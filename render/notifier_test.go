package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"renderbot/types"
)

func TestNotifyDeliversFinalURL(t *testing.T) {
	var received types.WebhookPayload
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode webhook body: %v", err)
		}
	}))
	defer server.Close()

	notifier := NewWebhookNotifier()
	finalURL := "https://media.example.com/renders/abc.mp4"

	if err := notifier.Notify(context.Background(), server.URL, finalURL); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	if received.FinalURL != finalURL {
		t.Errorf("webhook payload final_url = %q, want %q", received.FinalURL, finalURL)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", contentType)
	}
}

func TestNotifyErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier()
	if err := notifier.Notify(context.Background(), server.URL, "https://x"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestNotifyUnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	notifier := NewWebhookNotifier()
	if err := notifier.Notify(context.Background(), url, "https://x"); err == nil {
		t.Fatal("expected error for unreachable endpoint")
	}
}
