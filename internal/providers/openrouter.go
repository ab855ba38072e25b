package providers

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

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouter is a chat-completions provider backed by the OpenRouter API.
type OpenRouter struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewOpenRouter constructs the provider. baseURL may be empty to use the
// public endpoint; timeout bounds each completion request.
func NewOpenRouter(apiKey, baseURL string, timeout time.Duration) *OpenRouter {
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	return &OpenRouter{
		name:    "openrouter.ai",
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *OpenRouter) Name() string { return p.name }

// ParseModelIdentifier splits an "owner/model" identifier. The provider is
// recorded as the model host since it serves the completion.
func (p *OpenRouter) ParseModelIdentifier(modelID string) (Model, error) {
	owner, name, found := strings.Cut(modelID, "/")
	if !found || owner == "" || name == "" {
		return Model{}, fmt.Errorf("model id %q is not in owner/model form", modelID)
	}
	return Model{ID: modelID, Name: name, Owner: owner, Host: p.name}, nil
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Forward sends the prompt as a single user message and returns the first
// completion choice with wall-clock timing.
func (p *OpenRouter) Forward(ctx context.Context, prompt, modelID string) (*ForwardResult, error) {
	payload := chatCompletionRequest{
		Model:    modelID,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	startedAt := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("completion request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("completion error: %s", decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("completion response has no choices")
	}

	return &ForwardResult{
		Response:    decoded.Choices[0].Message.Content,
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
	}, nil
}
