package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"pdf-whisperer/internal/models"
)

const (
	DefaultLLMBaseURL = "http://localhost:1234/v1"
	DefaultLLMModel   = "gemini-1.5-flash"
	DefaultLLMTimeout = 60 * time.Second
)

// ModelClient is the contract the orchestrator needs from the generative
// model: a prompt string in, the completion text out.
type ModelClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	HealthCheck(ctx context.Context) error
}

// completionRequest is the OpenAI-compatible chat completion payload
type completionRequest struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
	Stream      bool                 `json:"stream"`
}

// completionResponse is the subset of the completion reply we consume
type completionResponse struct {
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// LLMService talks to any OpenAI-compatible chat-completions endpoint. The
// base URL, model id and credential are opaque configuration; the service
// neither inspects nor interprets them.
type LLMService struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// LLMConfig holds the external-model configuration surface
type LLMConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// NewLLMService creates a model client from config, filling defaults
func NewLLMService(config LLMConfig) *LLMService {
	if config.BaseURL == "" {
		config.BaseURL = DefaultLLMBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultLLMModel
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		baseURL: config.BaseURL,
		model:   config.Model,
		apiKey:  config.APIKey,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Generate sends the prompt as a single user message and returns the
// completion text. Failures, including timeouts, come back as UpstreamError
// carrying the upstream message when one was provided.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	request := completionRequest{
		Model: s.model,
		Messages: []models.ChatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   -1, // No limit
		Stream:      false,
	}

	jsonBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &models.UpstreamError{
			Service: "llm",
			Timeout: isTimeout(ctx, err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &models.UpstreamError{Service: "llm", Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var completion completionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", &models.UpstreamError{Service: "llm", Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body))}
		}
		return "", &models.UpstreamError{Service: "llm", Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if completion.Error != nil {
		return "", &models.UpstreamError{Service: "llm", Err: errors.New(completion.Error.Message)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &models.UpstreamError{Service: "llm", Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body))}
	}
	if len(completion.Choices) == 0 {
		return "", &models.UpstreamError{Service: "llm", Err: errors.New("no choices in response")}
	}

	return completion.Choices[0].Message.Content, nil
}

// HealthCheck verifies the model endpoint is reachable and lists models
func (s *LLMService) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("model endpoint not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model endpoint returned status %d", resp.StatusCode)
	}

	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
