// Package services holds clients for external collaborators. They are
// optional: poll CRUD never depends on any of them succeeding.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pollshare/internal/retry"
)

// Suggester asks a chat-completion endpoint for an alternative phrasing of a
// poll question. When the endpoint is unconfigured or unreachable it falls
// back to a locally synthesized rephrasing instead of failing the request.
type Suggester struct {
	baseURL string
	token   string
	model   string
	client  *http.Client
}

func NewSuggester(baseURL, token, model string) *Suggester {
	return &Suggester{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		model:   model,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// SuggestQuestion returns an alternative phrasing for the question. It never
// returns an error for remote failures; the local fallback covers those.
func (s *Suggester) SuggestQuestion(ctx context.Context, question string, options []string) string {
	if s.baseURL == "" {
		return fallbackSuggestion(question)
	}

	var suggestion string
	err := retry.DoWithRetry(ctx, 2, time.Second, func() error {
		out, err := s.complete(ctx, question, options)
		if err != nil {
			return err
		}
		suggestion = out
		return nil
	})
	if err != nil {
		slog.Warn("suggestion endpoint unavailable, using fallback", "error", err)
		return fallbackSuggestion(question)
	}

	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		return fallbackSuggestion(question)
	}
	return suggestion
}

func (s *Suggester) complete(ctx context.Context, question string, options []string) (string, error) {
	prompt := fmt.Sprintf(
		"Rephrase this poll question to be clearer and more neutral. Reply with the question only.\nQuestion: %s\nOptions: %s",
		question, strings.Join(options, ", "),
	)

	body, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("suggestion endpoint returned %d: %s", resp.StatusCode, b)
	}

	var out ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("suggestion endpoint returned no choices")
	}

	return out.Choices[0].Message.Content, nil
}

func fallbackSuggestion(question string) string {
	q := strings.TrimRight(strings.TrimSpace(question), "?")
	if q == "" {
		return "What would you pick?"
	}
	return "Which would you choose: " + q + "?"
}
