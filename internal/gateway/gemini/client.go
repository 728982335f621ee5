// Package gemini generates mentor text with the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"studentvoice/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

var (
	// ErrEmptyReply is returned when the model produced no text.
	ErrEmptyReply = errors.New("gemini: empty reply")
	// ErrNotConfigured is returned by Generate when no API key is set.
	ErrNotConfigured = errors.New("gemini: api key not configured")
)

// Config holds the connection settings for the API.
type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API endpoint; empty uses the SDK default.
	BaseURL string
	Timeout time.Duration
}

// Client generates text with a single model.
type Client struct {
	models  *genai.Models
	model   string
	initErr error
}

// New builds the SDK client. Configuration problems surface on the first
// Generate call so the API can start without mentor credentials.
func New(cfg Config) *Client {
	c := &Client{model: cfg.Model}
	if cfg.APIKey == "" {
		c.initErr = ErrNotConfigured
		return c
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		c.initErr = fmt.Errorf("gemini: %w", err)
		return c
	}
	c.models = client.Models
	return c
}

// Generate sends prompt as a single user turn and returns the text of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (text string, err error) {
	done := observability.TrackGateway("gemini")
	span, ctx := observability.StartClientSpan(ctx, "gemini.generateContent",
		attribute.String("gemini.model", c.model))
	defer func() {
		done(err)
		span.SetError(err)
		span.End()
	}()

	if c.initErr != nil {
		return "", c.initErr
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if text = resp.Text(); text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
