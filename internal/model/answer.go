package model

// StructuredAnswer is the terminal artifact of the evaluation pipeline.
type StructuredAnswer struct {
	MainResponse  string            `json:"main_response"`
	ShortResponse string            `json:"short_response"`
	Sources       []SourceHit       `json:"sources"` // cited subset, best-effort
	Confidence    int               `json:"confidence"`
	Level         ConfidenceLevel   `json:"level"`
	Factors       ConfidenceFactors `json:"factors"`
	Biases        []string          `json:"biases"`
	Controversies []string          `json:"controversies"`
	Limitations   []string          `json:"limitations"`

	// Success is false when the generation capability failed and the body
	// is a canned fallback; callers may retry.
	Success bool `json:"success"`
}

// SearchResult pairs retrieval with scoring for the lower-cost preview
// entry point that skips synthesis.
type SearchResult struct {
	Sources    []SourceHit         `json:"sources"`
	Confidence ConfidenceBreakdown `json:"confidence"`
}
