package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/grove-cli/grove/internal/branch"
)

const keyEnv = "GROVE_TEST_API_KEY"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv(keyEnv, "test-key")
	c, err := NewClient(srv.URL, keyEnv)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestGenerate(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Decode request failed: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Hi there!"}},
			},
		})
	})

	msgs := []branch.Message{
		{Role: branch.RoleSystem, Content: "persona"},
		{Role: branch.RoleUser, Content: "Hello"},
	}
	reply, err := c.Generate(context.Background(), msgs, Options{Model: "gpt-4o-mini", Temperature: 0.7})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reply != "Hi there!" {
		t.Errorf("Expected reply 'Hi there!', got %q", reply)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Unexpected auth header: %s", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("Unexpected model: %s", gotReq.Model)
	}
	if gotReq.Temperature != 0.7 {
		t.Errorf("Unexpected temperature: %v", gotReq.Temperature)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[1].Content != "Hello" {
		t.Errorf("Context not forwarded in order: %+v", gotReq.Messages)
	}
}

func TestGenerateAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited", "type": "rate_limit"},
		})
	})

	_, err := c.Generate(context.Background(), nil, Options{Model: "m"})
	if err == nil {
		t.Fatal("Expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("Expected server message in error, got: %v", err)
	}
}

func TestGenerateBadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	if _, err := c.Generate(context.Background(), nil, Options{Model: "m"}); err == nil {
		t.Fatal("Expected decode error")
	}
}

func TestGenerateNoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	if _, err := c.Generate(context.Background(), nil, Options{Model: "m"}); err == nil {
		t.Fatal("Expected error for empty choices")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv(keyEnv, "")
	if _, err := NewClient("", keyEnv); err == nil {
		t.Fatal("Expected error when the key env var is unset")
	}
}
