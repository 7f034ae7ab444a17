package milkshake

// GenerationRequest is the single request sent per invocation.
type GenerationRequest struct {
	Prompt string

	// Model is the model identifier, with or without the "models/" prefix
	Model string
}

// SafetyRating is a per-category moderation score returned with the output.
type SafetyRating struct {
	Category    string
	Probability string

	// Blocked is nil when the API omitted the field
	Blocked *bool
}

// IsBlocked reports whether the rating was explicitly marked as blocked.
func (r SafetyRating) IsBlocked() bool {
	return r.Blocked != nil && *r.Blocked
}

// PromptFeedback carries the moderation verdict on the prompt itself.
type PromptFeedback struct {
	BlockReason   string
	SafetyRatings []SafetyRating
}

// GenerationResult holds the image extracted from a generation response.
type GenerationResult struct {
	// MIMEType as declared by the API, not as detected from Data
	MIMEType string

	// Data contains the decoded image bytes
	Data []byte

	// SafetyRatings of the candidate the image was taken from
	SafetyRatings []SafetyRating

	PromptFeedback *PromptFeedback
}

// BlockedRatings returns the candidate ratings marked as blocked.
func (r *GenerationResult) BlockedRatings() []SafetyRating {
	if r == nil {
		return nil
	}
	return blocked(r.SafetyRatings)
}

// BlockedPromptRatings returns the prompt feedback ratings marked as blocked.
func (r *GenerationResult) BlockedPromptRatings() []SafetyRating {
	if r == nil || r.PromptFeedback == nil {
		return nil
	}
	return blocked(r.PromptFeedback.SafetyRatings)
}

func blocked(ratings []SafetyRating) []SafetyRating {
	var out []SafetyRating
	for _, rating := range ratings {
		if rating.IsBlocked() {
			out = append(out, rating)
		}
	}
	return out
}
