package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/mhpenta/milkshake"
	"google.golang.org/genai"
)

// SDKGenerator implements ImageGenerator using the official genai SDK.
type SDKGenerator struct {
	client *genai.Client
}

// Ensure SDKGenerator implements the interface.
var _ milkshake.ImageGenerator = (*SDKGenerator)(nil)

// NewSDK creates a generator backed by genai.Client.
func NewSDK(ctx context.Context, cfg Config) (*SDKGenerator, error) {
	if cfg.APIKey == "" {
		return nil, milkshake.ErrMissingAPIKey
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = milkshake.UserAgent()
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.timeout()},
	}
	if cfg.BaseURL != "" {
		base, version := splitBaseURL(cfg.BaseURL)
		clientCfg.HTTPOptions = genai.HTTPOptions{
			BaseURL:    base,
			APIVersion: version,
		}
	}
	clientCfg.HTTPOptions.Headers = http.Header{"User-Agent": []string{cfg.UserAgent}}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &SDKGenerator{client: client}, nil
}

// Generate sends the prompt through the SDK and extracts the image.
func (g *SDKGenerator) Generate(ctx context.Context, req milkshake.GenerationRequest) (*milkshake.GenerationResult, error) {
	if err := milkshake.ValidatePrompt(req.Prompt); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: req.Prompt}},
		},
	}
	genConfig := &genai.GenerateContentConfig{
		ResponseModalities: ResponseModalities,
	}

	result, err := g.client.Models.GenerateContent(ctx, NormalizeModelPath(model), contents, genConfig)
	if err != nil {
		return nil, convertSDKError(err)
	}

	return parseSDKResponse(result)
}

// Close releases any resources held by the generator.
func (g *SDKGenerator) Close() error {
	// The genai.Client doesn't require explicit closing in the current SDK
	return nil
}

// parseSDKResponse applies the REST extraction rules to an SDK response.
func parseSDKResponse(result *genai.GenerateContentResponse) (*milkshake.GenerationResult, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, milkshake.ErrNoCandidates
	}

	var chosen *genai.Candidate
	for _, c := range result.Candidates {
		if c != nil && c.Content != nil {
			chosen = c
			break
		}
	}
	if chosen == nil {
		return nil, milkshake.ErrMissingContent
	}

	var blob *genai.Blob
	for _, p := range chosen.Content.Parts {
		if p != nil && p.InlineData != nil {
			blob = p.InlineData
			break
		}
	}
	if blob == nil {
		return nil, milkshake.ErrNoImageData
	}

	genResult := &milkshake.GenerationResult{
		MIMEType:      blob.MIMEType,
		Data:          blob.Data,
		SafetyRatings: convertSDKRatings(chosen.SafetyRatings),
	}
	if result.PromptFeedback != nil {
		genResult.PromptFeedback = &milkshake.PromptFeedback{
			BlockReason:   string(result.PromptFeedback.BlockReason),
			SafetyRatings: convertSDKRatings(result.PromptFeedback.SafetyRatings),
		}
	}

	return genResult, nil
}

func convertSDKRatings(ratings []*genai.SafetyRating) []milkshake.SafetyRating {
	if ratings == nil {
		return nil
	}
	out := make([]milkshake.SafetyRating, 0, len(ratings))
	for _, r := range ratings {
		if r == nil {
			continue
		}
		// genai.SafetyRating.Blocked is a plain bool, so an absent field
		// arrives here as false rather than nil.
		out = append(out, milkshake.SafetyRating{
			Category:    string(r.Category),
			Probability: string(r.Probability),
			Blocked:     genai.Ptr(r.Blocked),
		})
	}
	return out
}

// convertSDKError maps genai.APIError onto milkshake.APIError so both
// backends report upstream failures the same way.
func convertSDKError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("request to Gemini API failed: %w", err)
	}

	body := apiErr.Message
	if apiErr.Status != "" {
		body = apiErr.Status + ": " + body
	}
	return &milkshake.APIError{
		StatusCode: apiErr.Code,
		Body:       body,
		Err:        err,
	}
}

// splitBaseURL separates a trailing API version segment from a base URL,
// since the SDK takes the two separately.
func splitBaseURL(raw string) (base, version string) {
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return raw, ""
	}

	dir, last := path.Split(u.Path)
	if strings.HasPrefix(last, "v1") {
		u.Path = dir
		version = last
	} else {
		u.Path += "/"
	}
	return u.String(), version
}
