package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultMistralModel = "mistral-small-latest"
	mistralBaseURL      = "https://api.mistral.ai"
)

// Mistral completes prompts through the Mistral chat completions API.
type Mistral struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
}

// NewMistral builds a Mistral client. model may be empty to use the default.
func NewMistral(apiKey, model string) (*Mistral, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("mistral: API key is required")
	}
	if model == "" {
		model = defaultMistralModel
	}
	return &Mistral{
		apiKey:  apiKey,
		model:   model,
		baseURL: mistralBaseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (m *Mistral) Name() string { return "mistral" }

type mistralRequest struct {
	Model       string           `json:"model"`
	Messages    []mistralMessage `json:"messages"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens"`
}

type mistralMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mistralResponse struct {
	Choices []struct {
		Message mistralMessage `json:"message"`
	} `json:"choices"`
}

func (m *Mistral) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(mistralRequest{
		Model:       m.model,
		Messages:    []mistralMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
		MaxTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("mistral: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("mistral: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("mistral: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("mistral: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mistral: status %d: %s", resp.StatusCode, body)
	}

	var parsed mistralResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("mistral: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("mistral: empty response")
	}
	return Clamp(parsed.Choices[0].Message.Content), nil
}
