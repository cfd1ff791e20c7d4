package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/config"
)

// aiInitialDelay is the first retry backoff; tests shorten it.
var aiInitialDelay = 1 * time.Second

// SuggestClient is a thin client for an OpenAI-compatible chat completions
// gateway. The application only ever makes single-shot request/response calls
// through it: task suggestions and mindmap clustering.
type SuggestClient struct {
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	client     *http.Client
}

// TaskBrief is the minimal task view sent to the gateway.
type TaskBrief struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	Points    int    `json:"points"`
	Completed bool   `json:"completed"`
}

// Suggestion is one proposed next task.
type Suggestion struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Points   int    `json:"points"`
	Reason   string `json:"reason"`
}

// MindmapCluster groups related task titles under a short label.
type MindmapCluster struct {
	Name  string   `json:"name"`
	Tasks []string `json:"tasks"`
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
}

type gatewayError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// NewSuggestClient creates a client from application configuration.
func NewSuggestClient(cfg config.AppConfig) *SuggestClient {
	return &SuggestClient{
		baseURL:    cfg.AIGatewayURL,
		apiKey:     cfg.AIGatewayKey,
		model:      cfg.AIModel,
		maxRetries: cfg.AIMaxRetries,
		client:     &http.Client{Timeout: time.Duration(cfg.AITimeoutSec) * time.Second},
	}
}

// Suggest asks the gateway for up to five next tasks given the user's recent tasks.
func (c *SuggestClient) Suggest(ctx context.Context, tasks []TaskBrief) ([]Suggestion, error) {
	prompt := "You suggest next tasks for a personal task tracker. " +
		"Given the JSON task list below, reply with ONLY a JSON array of at most 5 objects " +
		`with keys "title", "category", "points" (integer 1-100) and "reason". ` +
		"Suggest concrete, small tasks that complement the existing ones.\n\n"

	content, err := c.complete(ctx, prompt, tasks)
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(content), &suggestions); err != nil {
		return nil, fmt.Errorf("gateway returned unparseable suggestions: %w", err)
	}
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return suggestions, nil
}

// Mindmap asks the gateway to cluster the given tasks into named groups.
func (c *SuggestClient) Mindmap(ctx context.Context, tasks []TaskBrief) ([]MindmapCluster, error) {
	prompt := "You cluster tasks for a mindmap view. " +
		"Given the JSON task list below, reply with ONLY a JSON array of objects " +
		`with keys "name" (short cluster label) and "tasks" (array of task titles). ` +
		"Every task must appear in exactly one cluster.\n\n"

	content, err := c.complete(ctx, prompt, tasks)
	if err != nil {
		return nil, err
	}

	var clusters []MindmapCluster
	if err := json.Unmarshal([]byte(content), &clusters); err != nil {
		return nil, fmt.Errorf("gateway returned unparseable clusters: %w", err)
	}
	return clusters, nil
}

func (c *SuggestClient) complete(ctx context.Context, prompt string, tasks []TaskBrief) (string, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return "", fmt.Errorf("ai gateway is not configured")
	}

	taskJSON, err := json.Marshal(tasks)
	if err != nil {
		return "", err
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt + string(taskJSON)},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	var lastErr error
	delay := aiInitialDelay
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		content, retryable, err := c.doRequest(ctx, payload)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}
	return "", fmt.Errorf("gateway request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *SuggestClient) doRequest(ctx context.Context, payload []byte) (content string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, err
	}

	if resp.StatusCode != http.StatusOK {
		var ge gatewayError
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &ge) == nil && ge.Error.Message != "" {
			msg = ge.Error.Message
		}
		// Rate limits and server errors are worth retrying, client errors are not.
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retryable, fmt.Errorf("gateway status %d: %s", resp.StatusCode, msg)
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", false, fmt.Errorf("invalid gateway response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", false, fmt.Errorf("gateway returned no choices")
	}
	return stripCodeFence(cr.Choices[0].Message.Content), false, nil
}

// stripCodeFence removes a surrounding markdown code fence, which some models
// add even when told to reply with raw JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
