// Package gemini provides ImageGenerator implementations for Google's Gemini API.
//
// Client talks to the generateContent REST endpoint directly with net/http.
// SDKGenerator goes through the official Go SDK:
// https://github.com/googleapis/go-genai
//
// Both apply the same extraction rules: the first candidate carrying content,
// then the first part carrying inline data.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mhpenta/milkshake"
)

const (
	// DefaultBaseURL is the public Gemini API endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the model used when none is configured.
	DefaultModel = milkshake.DefaultModel

	// DefaultTimeout bounds the whole request, body included.
	DefaultTimeout = milkshake.DefaultTimeout

	apiKeyHeader = "x-goog-api-key"
	modelsPrefix = "models/"
)

// ResponseModalities requested from the model.
var ResponseModalities = []string{"TEXT", "IMAGE"}

// Config configures a Gemini backend.
type Config struct {
	// APIKey is sent in a request header, never in the URL
	APIKey string

	// BaseURL for custom endpoints (optional)
	BaseURL string

	// Timeout for the HTTP request (optional)
	Timeout time.Duration

	// UserAgent sent with each request (optional)
	UserAgent string
}

func (c Config) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Client implements ImageGenerator over the generateContent REST endpoint.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

// Ensure Client implements the interface.
var _ milkshake.ImageGenerator = (*Client)(nil)

// New creates a REST client from a Config.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, milkshake.ErrMissingAPIKey
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = milkshake.UserAgent()
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.timeout()},
		cfg:        cfg,
	}, nil
}

// NormalizeModelPath prefixes the model identifier with "models/" unless it
// already carries it.
func NormalizeModelPath(model string) string {
	if strings.HasPrefix(model, modelsPrefix) {
		return model
	}
	return modelsPrefix + model
}

// Endpoint returns the generateContent URL for a model.
func (c *Client) Endpoint(model string) string {
	return fmt.Sprintf("%s/%s:generateContent", c.cfg.baseURL(), NormalizeModelPath(model))
}

// Generate sends a single generateContent request and extracts the image.
func (c *Client) Generate(ctx context.Context, req milkshake.GenerationRequest) (*milkshake.GenerationResult, error) {
	if err := milkshake.ValidatePrompt(req.Prompt); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	body, err := json.Marshal(newRequestBody(req.Prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(model), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	httpReq.Header.Set(apiKeyHeader, c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request to Gemini API failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &milkshake.APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.ToValidUTF8(string(respBody), "�"),
		}
	}

	return parseResponse(respBody)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func newRequestBody(prompt string) generateContentRequest {
	return generateContentRequest{
		Contents: []content{
			{
				Role:  "user",
				Parts: []part{{Text: prompt}},
			},
		},
		GenerationConfig: generationConfig{
			ResponseModalities: ResponseModalities,
		},
	}
}

// parseResponse converts a successful response body into a GenerationResult.
func parseResponse(body []byte) (*milkshake.GenerationResult, error) {
	var parsed generateContentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", milkshake.ErrMalformedResponse, err)
	}

	if len(parsed.Candidates) == 0 {
		return nil, milkshake.ErrNoCandidates
	}

	var chosen *candidate
	for i := range parsed.Candidates {
		if parsed.Candidates[i].Content != nil {
			chosen = &parsed.Candidates[i]
			break
		}
	}
	if chosen == nil {
		return nil, milkshake.ErrMissingContent
	}

	var inline *inlineData
	for _, p := range chosen.Content.Parts {
		if p.InlineData != nil {
			inline = p.InlineData
			break
		}
	}
	if inline == nil {
		return nil, milkshake.ErrNoImageData
	}

	data, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", milkshake.ErrBase64Decode, err)
	}

	result := &milkshake.GenerationResult{
		MIMEType:      inline.MIMEType,
		Data:          data,
		SafetyRatings: convertRatings(chosen.SafetyRatings),
	}
	if parsed.PromptFeedback != nil {
		result.PromptFeedback = &milkshake.PromptFeedback{
			BlockReason:   parsed.PromptFeedback.BlockReason,
			SafetyRatings: convertRatings(parsed.PromptFeedback.SafetyRatings),
		}
	}

	return result, nil
}

func convertRatings(ratings []safetyRating) []milkshake.SafetyRating {
	if ratings == nil {
		return nil
	}
	out := make([]milkshake.SafetyRating, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, milkshake.SafetyRating{
			Category:    r.Category,
			Probability: r.Probability,
			Blocked:     r.Blocked,
		})
	}
	return out
}
