// Package retrieval turns a question into a classified batch of web
// sources. It queries the search provider twice — once biased toward a
// trusted-domain allow-list, once unrestricted — merges the results, and
// annotates every hit with domain, quality tier, category, and a
// best-effort publication date.
package retrieval

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/wonderben-code/honestgpt/internal/model"
	"github.com/wonderben-code/honestgpt/internal/reputation"
	"github.com/wonderben-code/honestgpt/internal/resilience"
	"github.com/wonderben-code/honestgpt/pkg/googlesearch"
)

const (
	// DefaultDesiredCount is the batch size when the caller passes zero.
	DefaultDesiredCount = 10

	// trustedDateWindowDays restricts the trusted pass to recent documents.
	trustedDateWindowDays = 365
)

// Cache stores previously assembled batches keyed by query. A nil batch
// from Get means a miss.
type Cache interface {
	Get(ctx context.Context, query string) (*model.RetrievalBatch, error)
	Put(ctx context.Context, query string, batch *model.RetrievalBatch) error
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithCache reuses cached batches instead of re-querying the provider.
func WithCache(c Cache) Option {
	return func(r *Retriever) {
		r.cache = c
	}
}

// Retriever runs the two-phase search and classification. Stateless
// between calls; safe for concurrent use.
type Retriever struct {
	search googlesearch.Client
	cache  Cache
	retry  resilience.RetryConfig
}

// New creates a Retriever on top of a search client.
func New(search googlesearch.Client, opts ...Option) *Retriever {
	r := &Retriever{
		search: search,
		retry:  resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve fetches and classifies up to desiredCount sources for a query.
// Provider failures degrade to smaller (possibly empty) batches; the
// returned batch is always well-formed and free of duplicate URLs.
func (r *Retriever) Retrieve(ctx context.Context, query string, desiredCount int) *model.RetrievalBatch {
	if desiredCount <= 0 {
		desiredCount = DefaultDesiredCount
	}

	if cached := r.fromCache(ctx, query); cached != nil {
		return cached
	}

	batch := r.retrieve(ctx, query, desiredCount)
	r.toCache(ctx, query, batch)
	return batch
}

func (r *Retriever) retrieve(ctx context.Context, query string, desiredCount int) *model.RetrievalBatch {

	batch := &model.RetrievalBatch{SourceType: model.SourceTypeGeneral}

	// Phase 1: trusted-domain-biased search. Fails soft to an empty set.
	trustedResp, err := resilience.DoVal(ctx, r.retry, "googlesearch", func(ctx context.Context) (*googlesearch.SearchResponse, error) {
		return r.search.Search(ctx, query, googlesearch.SearchOptions{
			RestrictToDomains: reputation.TrustedDomains,
			MaxResults:        desiredCount,
			DateRestrictDays:  trustedDateWindowDays,
		})
	})

	var trusted []googlesearch.RawHit
	if err != nil {
		zap.L().Warn("retrieval: trusted search failed, continuing without it",
			zap.String("query", query),
			zap.Error(err),
		)
	} else {
		trusted = dedupeByURL(trustedResp.Items)
		batch.TotalResults = trustedResp.TotalResults
		batch.SearchTimeSeconds = trustedResp.SearchTimeSeconds
	}

	// Short-circuit: enough trusted coverage means no general pass.
	// Integer form of len(trusted) >= 0.7*desiredCount.
	if len(trusted)*10 >= desiredCount*7 {
		if len(trusted) > desiredCount {
			trusted = trusted[:desiredCount]
		}
		batch.SourceType = model.SourceTypeTrusted
		batch.Sources = r.classify(trusted)
		zap.L().Debug("retrieval: trusted batch sufficient",
			zap.String("query", query),
			zap.Int("sources", len(batch.Sources)),
		)
		return batch
	}

	// Phase 2: unrestricted search. Failure degrades to zero extra
	// results, never to an aborted pipeline.
	generalResp, err := resilience.DoVal(ctx, r.retry, "googlesearch", func(ctx context.Context) (*googlesearch.SearchResponse, error) {
		return r.search.Search(ctx, query, googlesearch.SearchOptions{
			MaxResults: desiredCount,
		})
	})

	var general []googlesearch.RawHit
	if err != nil {
		zap.L().Warn("retrieval: general search failed",
			zap.String("query", query),
			zap.Error(err),
		)
	} else {
		general = dedupeByURL(generalResp.Items)
		if generalResp.TotalResults > batch.TotalResults {
			batch.TotalResults = generalResp.TotalResults
		}
		batch.SearchTimeSeconds += generalResp.SearchTimeSeconds
	}

	// Merge: trusted hits first in their original order, then general
	// hits whose URL is new, truncated to the requested count.
	merged := make([]googlesearch.RawHit, 0, desiredCount)
	seen := make(map[string]bool)
	for _, h := range trusted {
		if len(merged) >= desiredCount {
			break
		}
		seen[h.Link] = true
		merged = append(merged, h)
	}
	for _, h := range general {
		if len(merged) >= desiredCount {
			break
		}
		if seen[h.Link] {
			continue
		}
		seen[h.Link] = true
		merged = append(merged, h)
	}

	if len(trusted) > 0 {
		batch.SourceType = model.SourceTypeMixed
	}
	batch.Sources = r.classify(merged)

	zap.L().Info("retrieval: batch assembled",
		zap.String("query", query),
		zap.String("source_type", string(batch.SourceType)),
		zap.Int("trusted", len(trusted)),
		zap.Int("general", len(general)),
		zap.Int("merged", len(batch.Sources)),
	)
	return batch
}

// fromCache returns a cached batch or nil. Cache errors are logged and
// treated as misses.
func (r *Retriever) fromCache(ctx context.Context, query string) *model.RetrievalBatch {
	if r.cache == nil {
		return nil
	}
	batch, err := r.cache.Get(ctx, query)
	if err != nil {
		zap.L().Warn("retrieval: cache read failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}
	if batch != nil {
		zap.L().Debug("retrieval: cache hit",
			zap.String("query", query),
			zap.Int("sources", len(batch.Sources)),
		)
	}
	return batch
}

// toCache stores a batch. Empty batches are not cached so transient
// provider outages do not poison later requests.
func (r *Retriever) toCache(ctx context.Context, query string, batch *model.RetrievalBatch) {
	if r.cache == nil || len(batch.Sources) == 0 {
		return
	}
	if err := r.cache.Put(ctx, query, batch); err != nil {
		zap.L().Warn("retrieval: cache write failed",
			zap.String("query", query),
			zap.Error(err),
		)
	}
}

// classify annotates raw hits with domain, reputation, category, and
// publication date. Positions are 1-based within the batch.
func (r *Retriever) classify(hits []googlesearch.RawHit) []model.SourceHit {
	out := make([]model.SourceHit, 0, len(hits))
	for i, h := range hits {
		domain := extractDomain(h.Link)
		entry := reputation.Lookup(domain)

		out = append(out, model.SourceHit{
			Position:    i + 1,
			Title:       h.Title,
			URL:         h.Link,
			Snippet:     h.Snippet,
			Domain:      domain,
			QualityTier: entry.Tier,
			TrustScore:  entry.Score,
			Category:    entry.Category,
			PublishedAt: extractPublishedAt(h.Metadata, h.Snippet),
		})
	}
	return out
}

// extractDomain returns the hostname with a leading "www." stripped. An
// unparsable URL degrades to the raw string rather than failing the hit.
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// dedupeByURL drops hits whose exact URL already appeared, keeping first
// occurrences in order.
func dedupeByURL(hits []googlesearch.RawHit) []googlesearch.RawHit {
	seen := make(map[string]bool, len(hits))
	out := make([]googlesearch.RawHit, 0, len(hits))
	for _, h := range hits {
		if seen[h.Link] {
			continue
		}
		seen[h.Link] = true
		out = append(out, h)
	}
	return out
}
