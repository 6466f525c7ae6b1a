// Package topic classifies a question into a coarse topic label and maps
// each topic to a stability class that drives the recency decay curve.
package topic

import "strings"

// Stability describes how quickly information in a topic goes stale.
type Stability string

const (
	// StabilityStable topics (mathematics, history) stay valid for a
	// decade or more.
	StabilityStable Stability = "stable"
	// StabilityModerate topics (medicine, technology) stay useful for a
	// few years.
	StabilityModerate Stability = "moderate"
	// StabilityVolatile topics (current events, crypto prices) go stale
	// within months.
	StabilityVolatile Stability = "volatile"
)

// DefaultTopic is returned when no keyword rule matches.
const DefaultTopic = "general"

type topicRule struct {
	name     string
	keywords []string
}

// topicRules are evaluated in order; the first keyword hit wins, so more
// volatile topics are listed before broader ones.
var topicRules = []topicRule{
	{"current_events", []string{"today", "latest", "breaking", "this week", "right now", "currently", "news about"}},
	{"cryptocurrency", []string{"bitcoin", "ethereum", "crypto", "blockchain", "nft", "stablecoin"}},
	{"politics", []string{"election", "president", "congress", "senate", "policy", "government", "vote", "legislation"}},
	{"sports", []string{"game", "match", "championship", "league", "tournament", "playoff", "score"}},
	{"finance", []string{"stock", "market", "inflation", "interest rate", "economy", "gdp", "recession", "investment"}},
	{"medicine", []string{"vaccine", "treatment", "disease", "drug", "symptom", "cancer", "diagnosis", "therapy", "medical", "health"}},
	{"technology", []string{"software", "computer", "internet", "smartphone", "artificial intelligence", " ai ", "machine learning", "algorithm", "programming"}},
	{"climate", []string{"climate", "global warming", "emissions", "carbon", "renewable"}},
	{"science", []string{"physics", "chemistry", "biology", "experiment", "research", "quantum", "genome", "species", "energy"}},
	{"geography", []string{"country", "capital", "continent", "river", "mountain", "ocean", "population of"}},
	{"history", []string{"history", "ancient", "war of", "century", "historical", "empire", "revolution of"}},
	{"mathematics", []string{"theorem", "equation", "calculus", "algebra", "prime number", "geometry", "mathematical"}},
}

// stabilityByTopic maps topic labels to stability classes. Read-only.
var stabilityByTopic = map[string]Stability{
	"mathematics":    StabilityStable,
	"history":        StabilityStable,
	"geography":      StabilityStable,
	"science":        StabilityModerate,
	"medicine":       StabilityModerate,
	"technology":     StabilityModerate,
	"climate":        StabilityModerate,
	"finance":        StabilityVolatile,
	"politics":       StabilityVolatile,
	"sports":         StabilityVolatile,
	"cryptocurrency": StabilityVolatile,
	"current_events": StabilityVolatile,
	DefaultTopic:     StabilityModerate,
}

// Detect returns the topic label for a question. Pure keyword classifier;
// identical input always yields the same label.
func Detect(question string) string {
	q := " " + strings.ToLower(question) + " "
	for _, rule := range topicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.name
			}
		}
	}
	return DefaultTopic
}

// StabilityOf returns the stability class for a topic label, defaulting to
// moderate for unknown labels.
func StabilityOf(topic string) Stability {
	if s, ok := stabilityByTopic[topic]; ok {
		return s
	}
	return StabilityModerate
}
