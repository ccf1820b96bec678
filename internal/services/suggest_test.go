package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSuggestQuestionRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("expected Bearer test-token, got %s", r.Header.Get("Authorization"))
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("expected model test-model, got %s", req.Model)
		}
		if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "Coffee or tea?") {
			t.Errorf("prompt missing question: %+v", req.Messages)
		}

		var resp ChatResponse
		resp.Choices = make([]struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		}, 1)
		resp.Choices[0].Message.Content = "  Which drink do you prefer?  "
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	s := NewSuggester(server.URL, "test-token", "test-model")

	got := s.SuggestQuestion(context.Background(), "Coffee or tea?", []string{"Coffee", "Tea"})
	if got != "Which drink do you prefer?" {
		t.Fatalf("expected trimmed remote suggestion, got %q", got)
	}
}

func TestSuggestQuestionFallbackOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewSuggester(server.URL, "", "test-model")

	got := s.SuggestQuestion(context.Background(), "Coffee or tea?", nil)
	if !strings.Contains(got, "Coffee or tea") {
		t.Fatalf("fallback should rephrase the original question, got %q", got)
	}
}

func TestSuggestQuestionUnconfigured(t *testing.T) {
	s := NewSuggester("", "", "")

	got := s.SuggestQuestion(context.Background(), "Coffee or tea?", nil)
	if got != "Which would you choose: Coffee or tea?" {
		t.Fatalf("unexpected fallback %q", got)
	}
}
