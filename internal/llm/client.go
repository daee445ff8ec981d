package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hakivo/podcastd/internal/model"
)

// Client generates podcast dialogue scripts via a messages-style LLM API
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	breaker    *CircuitBreaker
}

// NewClient creates an LLM client
func NewClient(httpClient *http.Client, baseURL, apiKey, modelName string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      modelName,
		breaker:    NewCircuitBreaker(),
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const systemPrompt = `You are a scriptwriter for a civic-affairs podcast with two voices:
"host" introduces topics and keeps the conversation moving, "analyst" explains
the substance of each item in plain language. Respond with JSON only:
{"title": "...", "lines": [{"speaker": "host"|"analyst", "text": "..."}]}.
Write at least 12 lines and 350 words. Cover every source item provided.`

// GenerateScript produces a validated two-host dialogue covering the
// source items.
func (c *Client) GenerateScript(ctx context.Context, kind model.JobKind, items []model.SourceItem) (*model.DialogueScript, error) {
	if !c.breaker.CanAttempt() {
		return nil, fmt.Errorf("LLM circuit breaker is %s", c.breaker.GetStateName())
	}

	script, err := c.generate(ctx, kind, items)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, err
	}
	c.breaker.RecordSuccess()
	return script, nil
}

func (c *Client) generate(ctx context.Context, kind model.JobKind, items []model.SourceItem) (*model.DialogueScript, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Write the %s episode covering these %d items:\n\n", kind, len(items))
	for i, item := range items {
		fmt.Fprintf(&prompt, "%d. %s (%s)\n%s\n\n", i+1, item.Title, item.Citation, item.Body)
	}

	reqBody, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: 4096,
		System:    systemPrompt,
		Messages:  []message{{Role: "user", Content: prompt.String()}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal script request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create script request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("script request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode script response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if decoded.Error != nil {
			return nil, fmt.Errorf("LLM API returned status %d: %s", resp.StatusCode, decoded.Error.Message)
		}
		return nil, fmt.Errorf("LLM API returned status %d", resp.StatusCode)
	}

	if len(decoded.Content) == 0 {
		return nil, fmt.Errorf("LLM response contained no content")
	}

	script, err := ParseScript(decoded.Content[0].Text)
	if err != nil {
		return nil, err
	}

	slog.Debug("Generated dialogue script",
		"lines", len(script.Lines),
		"words", script.WordCount(),
	)

	return script, nil
}

// ParseScript extracts and validates the JSON dialogue embedded in a
// completion. Models sometimes wrap the JSON in prose or code fences, so
// parsing starts at the first brace and ends at the last.
func ParseScript(completion string) (*model.DialogueScript, error) {
	start := strings.Index(completion, "{")
	end := strings.LastIndex(completion, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found in completion")
	}

	var script model.DialogueScript
	if err := json.Unmarshal([]byte(completion[start:end+1]), &script); err != nil {
		return nil, fmt.Errorf("failed to parse dialogue script: %w", err)
	}

	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("script validation failed: %w", err)
	}

	return &script, nil
}
