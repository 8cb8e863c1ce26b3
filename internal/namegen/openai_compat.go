package namegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	domain "github.com/soundline/catalog-sync/pkg/types"
)

const systemPrompt = "You name audio products for an online store. " +
	"Reply with a single concise product title in plain text: brand, model, " +
	"then the product category. No quotes, no markdown, no explanations."

// OpenAICompat implements Generator using an OpenAI chat completions API.
// Compatible with vLLM, text-generation-inference, LM Studio, etc.
type OpenAICompat struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	fallback Generator
}

// OpenAICompatOption configures the OpenAICompat generator.
type OpenAICompatOption func(*OpenAICompat)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) OpenAICompatOption {
	return func(b *OpenAICompat) {
		b.client = c
	}
}

// WithAPIKey sets the API key. Defaults to $OPENAI_API_KEY.
func WithAPIKey(key string) OpenAICompatOption {
	return func(b *OpenAICompat) {
		b.apiKey = key
	}
}

// WithFallback sets the generator used when the API call fails. Defaults to
// the template generator.
func WithFallback(g Generator) OpenAICompatOption {
	return func(b *OpenAICompat) {
		b.fallback = g
	}
}

// NewOpenAICompat creates an OpenAI-compatible display-name generator.
func NewOpenAICompat(endpoint, model string, opts ...OpenAICompatOption) *OpenAICompat {
	b := &OpenAICompat{
		endpoint: endpoint,
		model:    model,
		apiKey:   os.Getenv("OPENAI_API_KEY"),
		client:   &http.Client{Timeout: 20 * time.Second},
		fallback: NewTemplate(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// DisplayName implements Generator. API failures fall back to the template
// generator; the error is still returned so callers can log it.
func (b *OpenAICompat) DisplayName(ctx context.Context, rec domain.IncomingRecord) (string, error) {
	name, err := b.generate(ctx, rec)
	if err != nil {
		fb, _ := b.fallback.DisplayName(ctx, rec)
		return fb, err
	}
	return name, nil
}

func (b *OpenAICompat) generate(ctx context.Context, rec domain.IncomingRecord) (string, error) {
	prompt := fmt.Sprintf("Product: %s\nModel: %s\nManufacturer: %s\nDescription: %s",
		rec.Name, rec.Model, rec.Manufacturer, rec.Description)

	body, err := json.Marshal(chatRequest{
		Model: b.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 60,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := b.endpoint + "/v1/chat/completions"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling openai-compatible API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai-compatible API error (status %d): %s",
			resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty choices from openai-compatible API")
	}

	name := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	name = strings.TrimSpace(strings.Trim(name, `"`))
	return name, nil
}
