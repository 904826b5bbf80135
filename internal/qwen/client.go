// Package qwen calls the DashScope OpenAI-compatible chat completion API.
package qwen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ashureev/interview-copilot/internal/config"
	"github.com/ashureev/interview-copilot/internal/domain"
)

const systemPrompt = "你是一个专业的秋招面试助手，帮助求职者管理安排、准备面试、复盘与求职建议。回答清晰、结构化、可执行。"

// ErrNotConfigured is returned when no API key is set; callers fall back to
// the local responder.
var ErrNotConfigured = errors.New("qwen: QWEN_API_KEY not set")

// Client is an HTTP client for the chat completion endpoint.
type Client struct {
	cfg        config.QwenConfig
	httpClient *http.Client
}

// NewClient creates a Qwen client from configuration.
func NewClient(cfg config.QwenConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ChatRequest is the request body for OpenAI-compatible chat endpoints.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
}

// ChatMessage is one turn in the conversation sent upstream.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the response from OpenAI-compatible chat endpoints.
type ChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage map[string]any `json:"usage"`
}

// Complete sends the message with the transcript as context and returns the
// completion text. Any transport failure, non-2xx status or empty completion
// is an error; no retries are attempted.
func (c *Client) Complete(ctx context.Context, message string, history []domain.Message) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt})
	for _, m := range history {
		role := "assistant"
		if m.Role == domain.RoleUser {
			role = "user"
		}
		messages = append(messages, ChatMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: message})

	body, err := json.Marshal(ChatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Stream:      false,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call qwen api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("qwen api returned status %d: %s", resp.StatusCode, string(data))
	}

	var parsed ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.New("qwen api returned no completion")
	}
	return parsed.Choices[0].Message.Content, nil
}
