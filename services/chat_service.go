package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const chatSystemPrompt = `You are a helpful puppy care assistant. Answer the owner's question using the care log below.
Be concise and practical. If the log does not contain enough information, say so instead of guessing.
You are not a veterinarian; recommend a vet visit for anything that sounds like a health problem.`

// ChatConfig points the assistant at an OpenAI-compatible endpoint.
type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type ChatService struct {
	client    *http.Client
	cfg       ChatConfig
	analytics *AnalyticsService
}

func NewChatService(cfg ChatConfig, analytics *AnalyticsService) *ChatService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &ChatService{
		client:    &http.Client{Timeout: cfg.Timeout},
		cfg:       cfg,
		analytics: analytics,
	}
}

type ChatAnswer struct {
	Answer string   `json:"answer"`
	Range  RangeKey `json:"range"`
	Model  string   `json:"model"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Ask answers a question about the puppy using the care log for the range.
func (s *ChatService) Ask(ctx context.Context, puppyID uint, question string, key RangeKey) (*ChatAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, invalid("question is required")
	}
	if s.cfg.APIKey == "" {
		return nil, ErrChatUnavailable
	}

	digest, err := s.analytics.TextSummary(ctx, puppyID, key)
	if err != nil {
		return nil, err
	}

	msgs := BuildChatMessages(digest, question)
	answer, err := s.complete(ctx, msgs)
	if err != nil {
		return nil, err
	}
	return &ChatAnswer{Answer: answer, Range: key, Model: s.cfg.Model}, nil
}

func BuildChatMessages(digest, question string) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: chatSystemPrompt},
		{Role: "system", Content: "Care log:\n" + digest},
		{Role: "user", Content: question},
	}
}

func (s *ChatService) complete(ctx context.Context, msgs []chatMessage) (string, error) {
	b, err := json.Marshal(chatRequest{Model: s.cfg.Model, Messages: msgs, Temperature: 0.3})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response error: %w", err)
	}

	var out chatResponse
	decodeErr := json.Unmarshal(respBytes, &out)
	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("chat api error (%d): %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("chat api error (%d): %s", resp.StatusCode, preview(respBytes))
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode chat response error: %v | body: %s", decodeErr, preview(respBytes))
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty answer from chat api")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func preview(b []byte) string {
	s := string(b)
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
