// Package app talks to the OpenAI Responses API and extracts plain text
// from its output items.
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kimyoel/auto-cs-backend/app/config"
	"github.com/kimyoel/auto-cs-backend/app/models"
)

// Generator is the one capability the reply handler needs from a provider:
// submit a prompt, get back a response or an error. Tests substitute a fake.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (*models.OpenAIResponse, error)
}

type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
}

func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   &http.Client{Timeout: cfg.Timeout},
	}
}

type apiError struct {
	Status int
	Body   string
}

func (e apiError) Error() string { return fmt.Sprintf("openai http %d: %s", e.Status, e.Body) }

// Generate submits one prompt. Retries a couple of times on 429/5xx with a
// short backoff, the same shape as our other upstream calls.
func (c *OpenAIClient) Generate(ctx context.Context, p Prompt) (*models.OpenAIResponse, error) {
	if c.apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY not configured")
	}

	payload, err := json.Marshal(models.OpenAIRequest{
		Model:        c.model,
		Instructions: p.System,
		Input:        p.User,
	})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/responses"

	var last apiError
	for attempt := 0; attempt < 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		res, err := c.httpc.Do(req)
		if err != nil {
			return nil, err
		}

		if res.StatusCode == http.StatusOK {
			var out models.OpenAIResponse
			err := json.NewDecoder(res.Body).Decode(&out)
			res.Body.Close()
			if err != nil {
				return nil, err
			}
			if out.Error != nil {
				return nil, fmt.Errorf("openai api error: %s", out.Error.Message)
			}
			return &out, nil
		}

		// capture body (truncated) for error clarity
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		res.Body.Close()
		last = apiError{Status: res.StatusCode, Body: strings.TrimSpace(string(body))}

		if res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500 {
			time.Sleep(time.Duration(250*(attempt+1)) * time.Millisecond)
			continue
		}
		break
	}
	return nil, last
}

// ExtractOutputText concatenates every text part across all output items,
// in order, then trims. Reasoning items, refusal parts, and empty shapes
// are skipped, never a failure: a response with nothing to extract simply
// yields "".
func ExtractOutputText(resp *models.OpenAIResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, item := range resp.Output {
		for _, part := range item.Content {
			if part.Type != "output_text" {
				continue
			}
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
