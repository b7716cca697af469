package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// OllamaCompleter sends raw prompts to an Ollama server
type OllamaCompleter struct {
	client *api.Client
	model  string
}

// NewOllamaCompleter creates a completer for model served at host
func NewOllamaCompleter(host, model string, timeout time.Duration) (*OllamaCompleter, error) {
	if host == "" {
		host = "http://localhost:11434"
	}
	hostURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host URL: %w", err)
	}

	httpClient := &http.Client{Timeout: timeout}
	return &OllamaCompleter{
		client: api.NewClient(hostURL, httpClient),
		model:  model,
	}, nil
}

// Complete runs a non-streaming raw generation. The system prompt is already
// part of req.Prompt, so the model template is bypassed.
func (c *OllamaCompleter) Complete(ctx context.Context, req Request) (string, error) {
	stream := false
	var response strings.Builder

	err := c.client.Generate(ctx, &api.GenerateRequest{
		Model:  c.model,
		Prompt: req.Prompt,
		Raw:    true,
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature":    req.Temperature,
			"top_p":          req.TopP,
			"repeat_penalty": req.RepeatPenalty,
			"num_predict":    req.MaxTokens,
			"stop":           req.Stop,
		},
	}, func(resp api.GenerateResponse) error {
		response.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	return response.String(), nil
}

// Probe verifies the model is pulled on the server
func (c *OllamaCompleter) Probe(ctx context.Context) error {
	if _, err := c.client.Show(ctx, &api.ShowRequest{Model: c.model}); err != nil {
		return fmt.Errorf("model %s not found: %w", c.model, err)
	}
	return nil
}
