package model

import "time"

// QualityTier buckets a source's domain reputation score.
type QualityTier string

const (
	TierHigh    QualityTier = "high"
	TierMedium  QualityTier = "medium"
	TierLimited QualityTier = "limited"
)

// SourceCategory describes the kind of publisher behind a domain.
type SourceCategory string

const (
	CategoryGovernment       SourceCategory = "government"
	CategoryAcademic         SourceCategory = "academic"
	CategoryInternationalOrg SourceCategory = "international_org"
	CategoryJournal          SourceCategory = "scientific_journal"
	CategoryNewsAgency       SourceCategory = "news_agency"
	CategoryFactChecker      SourceCategory = "fact_checker"
	CategoryEncyclopedia     SourceCategory = "encyclopedia"
	CategoryBlog             SourceCategory = "blog"
	CategoryWebsite          SourceCategory = "website"
)

// SourceHit is one retrieved and classified document. Immutable once
// classified; never persisted by the core pipeline.
type SourceHit struct {
	// Position is the 1-based rank within the retrieval batch. Used only
	// as a tie-break weight, never as a correctness signal.
	Position int    `json:"position"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet"`

	// Domain is the hostname with a leading "www." stripped. On an
	// unparsable URL it falls back to the raw string.
	Domain      string         `json:"domain"`
	QualityTier QualityTier    `json:"quality_tier"`
	TrustScore  int            `json:"trust_score"`
	Category    SourceCategory `json:"category"`

	// PublishedAt is nil when neither provider metadata nor the snippet
	// yielded a parseable date.
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// SourceType tags which retrieval strategy produced a batch.
type SourceType string

const (
	SourceTypeTrusted SourceType = "trusted"
	SourceTypeMixed   SourceType = "mixed"
	SourceTypeGeneral SourceType = "general"
)

// RetrievalBatch is an ordered set of classified hits from one Retrieve
// call. Invariant: no duplicate URL within a batch.
type RetrievalBatch struct {
	Sources           []SourceHit `json:"sources"`
	SourceType        SourceType  `json:"source_type"`
	TotalResults      int64       `json:"total_results"`
	SearchTimeSeconds float64     `json:"search_time_seconds"`
}

// ConversationTurn is one prior exchange passed through to synthesis.
type ConversationTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}
