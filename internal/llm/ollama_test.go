package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestOllamaClientComplete(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"model":"llama3","created_at":"2024-01-01T00:00:00Z",`+
			`"message":{"role":"assistant","content":"SELECT name FROM users;"},"done":true}`+"\n")
	}))
	defer srv.Close()

	client, err := NewOllamaClient(Settings{BaseURL: srv.URL, Model: "llama3", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewOllamaClient() error = %v", err)
	}

	got, err := client.Complete(context.Background(), Prompt{User: "list user names"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "SELECT name FROM users;" {
		t.Fatalf("Complete() = %q", got)
	}
	if captured["stream"] != false {
		t.Fatalf("stream = %v", captured["stream"])
	}
}

func TestOllamaClientReturnsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"model \"llama9\" not found"}`+"\n")
	}))
	defer srv.Close()

	client, err := NewOllamaClient(Settings{BaseURL: srv.URL, Model: "llama9"})
	if err != nil {
		t.Fatalf("NewOllamaClient() error = %v", err)
	}
	_, err = client.Complete(context.Background(), Prompt{User: "hi"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("error = %v", err)
	}
}

func TestNewOllamaClientRejectsBadURL(t *testing.T) {
	if _, err := NewOllamaClient(Settings{BaseURL: "localhost"}); err == nil {
		t.Fatal("expected error for base url without scheme")
	}
}
