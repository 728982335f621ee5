// Package facepp compares two face images with the Face++ compare API.
package facepp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"studentvoice/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// Config holds the API credentials and endpoint.
type Config struct {
	APIKey     string
	APISecret  string
	CompareURL string
	Timeout    time.Duration
}

type Client struct {
	http       *http.Client
	apiKey     string
	apiSecret  string
	compareURL string
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		http:       &http.Client{Timeout: timeout},
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		compareURL: cfg.CompareURL,
	}
}

type compareResponse struct {
	Confidence   float64 `json:"confidence"`
	ErrorMessage string  `json:"error_message"`
}

// Compare normalizes both images and returns the API's similarity confidence (0-100).
// A response without any detected face yields zero confidence and no error.
func (c *Client) Compare(ctx context.Context, selfie, idCard []byte) (confidence float64, err error) {
	done := observability.TrackGateway("facepp")
	span, ctx := observability.StartClientSpan(ctx, "facepp.compare")
	defer func() {
		done(err)
		if err != nil {
			span.SetError(err)
		}
		span.End()
	}()

	if c.apiKey == "" || c.apiSecret == "" {
		return 0, errors.New("facepp: credentials not configured")
	}

	img1, err := NormalizeImage(selfie)
	if err != nil {
		return 0, fmt.Errorf("selfie: %w", err)
	}
	img2, err := NormalizeImage(idCard)
	if err != nil {
		return 0, fmt.Errorf("id card: %w", err)
	}

	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("api_secret", c.apiSecret)
	form.Set("image_base64_1", base64.StdEncoding.EncodeToString(img1))
	form.Set("image_base64_2", base64.StdEncoding.EncodeToString(img2))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.compareURL, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("facepp: request failed: %w", err)
	}
	defer resp.Body.Close()

	var out compareResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return 0, fmt.Errorf("facepp: decode response (status %d): %w", resp.StatusCode, err)
	}
	if out.ErrorMessage != "" {
		return 0, fmt.Errorf("facepp: %s", out.ErrorMessage)
	}
	if resp.StatusCode >= 300 {
		return 0, fmt.Errorf("facepp: status %d", resp.StatusCode)
	}

	span.AddAttributes(attribute.Float64("facepp.confidence", out.Confidence))
	return out.Confidence, nil
}
