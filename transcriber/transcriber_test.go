package transcriber

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDeepgramTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Token test-key" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		if got := r.URL.Query().Get("model"); got != "nova-2" {
			t.Errorf("unexpected model: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"hello world"}]}]}}`))
	}))
	defer server.Close()

	client := NewDeepgram(Config{APIKey: "test-key", BaseURL: server.URL})

	text, err := client.Transcribe(context.Background(), []byte("audio-bytes"), Options{})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "hello world" {
		t.Errorf("expected transcript %q, got %q", "hello world", text)
	}
}

func TestDeepgramTranscribeKeyOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token request-key" {
			t.Errorf("expected request key to override default, got %q", got)
		}
		w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"ok"}]}]}}`))
	}))
	defer server.Close()

	client := NewDeepgram(Config{APIKey: "default-key", BaseURL: server.URL})

	if _, err := client.Transcribe(context.Background(), nil, Options{APIKey: "request-key"}); err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
}

func TestDeepgramTranscribeErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"err_msg":"boom"}`},
		{"unauthorized", http.StatusUnauthorized, `{"err_msg":"bad key"}`},
		{"empty channels", http.StatusOK, `{"results":{"channels":[]}}`},
		{"invalid json", http.StatusOK, `not-json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewDeepgram(Config{APIKey: "k", BaseURL: server.URL})
			if _, err := client.Transcribe(context.Background(), nil, Options{}); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDeepgramMissingKey(t *testing.T) {
	client := NewDeepgram(Config{})
	if _, err := client.Transcribe(context.Background(), nil, Options{}); err == nil {
		t.Error("expected error when no API key is configured")
	}
}
