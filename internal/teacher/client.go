package teacher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// defaultBaseURL is the default chat-completions API base URL.
const defaultBaseURL = "https://openrouter.ai/api/v1"

// HTTPDoer abstracts the HTTP client used by the backend client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client speaks the external-teacher batch contract over an OpenAI-style
// chat-completions API. A batch is a synchronous loop of one request per
// prompt; the first failure aborts the whole batch.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    HTTPDoer
	Models  map[Backend]string
}

// ClientFromEnv builds a client from TEACHER_API_KEY and TEACHER_BASE_URL.
func ClientFromEnv(models map[Backend]string, httpClient HTTPDoer) (*Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("TEACHER_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("TEACHER_API_KEY is required")
	}
	return NewClient(apiKey, os.Getenv("TEACHER_BASE_URL"), models, httpClient)
}

// NewClient constructs a backend client with explicit settings.
func NewClient(apiKey, baseURL string, models map[Backend]string, httpClient HTTPDoer) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("at least one backend model is required")
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    httpClient,
		Models:  models,
	}, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateCompletions produces one raw completion per prompt, in input
// order. Any request failure fails the whole batch.
func (c *Client) GenerateCompletions(ctx context.Context, backend Backend, prompts []string, schemaRaw []byte) ([]string, error) {
	model, ok := c.Models[backend]
	if !ok {
		return nil, fmt.Errorf("no model configured for backend %q", backend)
	}
	system := extractionSystemPrompt(schemaRaw)
	completions := make([]string, 0, len(prompts))
	for index, prompt := range prompts {
		completion, err := c.complete(ctx, model, system, prompt)
		if err != nil {
			return nil, fmt.Errorf("completion %d/%d: %w", index+1, len(prompts), err)
		}
		completions = append(completions, completion)
	}
	return completions, nil
}

func (c *Client) complete(ctx context.Context, model, system, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+c.APIKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.HTTP.Do(request)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backend returned status %d: %s", response.StatusCode, truncate(string(body), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("backend error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("backend returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// extractionSystemPrompt frames the task for the backend model.
func extractionSystemPrompt(schemaRaw []byte) string {
	return "You extract structured data from text. " +
		"Respond with a single JSON object that conforms to this JSON Schema, with no surrounding prose:\n" +
		string(schemaRaw)
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
