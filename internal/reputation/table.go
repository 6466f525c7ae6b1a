// Package reputation maps hostnames to quality scores and publisher
// categories. The table is a read-only constant loaded once at process
// start; lookups resolve exact match, then longest-substring match, then a
// default, so tie-breaks are deterministic.
package reputation

import (
	_ "embed"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wonderben-code/honestgpt/internal/model"
)

//go:embed domains.yaml
var domainsYAML []byte

// DefaultScore is assigned to domains absent from the table.
const DefaultScore = 50

// Entry is one resolved reputation record.
type Entry struct {
	Score    int
	Tier     model.QualityTier
	Category model.SourceCategory
}

type tableFile struct {
	Domains []struct {
		Domain   string `yaml:"domain"`
		Score    int    `yaml:"score"`
		Category string `yaml:"category"`
	} `yaml:"domains"`
	Suffixes []struct {
		Suffix   string `yaml:"suffix"`
		Score    int    `yaml:"score"`
		Category string `yaml:"category"`
	} `yaml:"suffixes"`
}

type substringRule struct {
	key      string
	score    int
	category model.SourceCategory
}

var (
	exactEntries map[string]Entry
	// substringRules is sorted longest key first so the most specific
	// containment match always wins.
	substringRules []substringRule
)

func init() {
	var f tableFile
	if err := yaml.Unmarshal(domainsYAML, &f); err != nil {
		panic("reputation: parse embedded table: " + err.Error())
	}

	exactEntries = make(map[string]Entry, len(f.Domains))
	for _, d := range f.Domains {
		exactEntries[d.Domain] = Entry{
			Score:    d.Score,
			Tier:     TierFor(d.Score),
			Category: model.SourceCategory(d.Category),
		}
		substringRules = append(substringRules, substringRule{
			key:      d.Domain,
			score:    d.Score,
			category: model.SourceCategory(d.Category),
		})
	}
	for _, s := range f.Suffixes {
		substringRules = append(substringRules, substringRule{
			key:      s.Suffix,
			score:    s.Score,
			category: model.SourceCategory(s.Category),
		})
	}

	sort.SliceStable(substringRules, func(i, j int) bool {
		return len(substringRules[i].key) > len(substringRules[j].key)
	})
}

// TierFor buckets a reputation score into a quality tier.
func TierFor(score int) model.QualityTier {
	switch {
	case score >= 85:
		return model.TierHigh
	case score >= 70:
		return model.TierMedium
	default:
		return model.TierLimited
	}
}

// Lookup resolves a domain to its reputation entry. Resolution order:
// exact key, longest substring containment, default (50, limited,
// category from the substring priority rules).
func Lookup(domain string) Entry {
	domain = strings.ToLower(strings.TrimSpace(domain))

	if e, ok := exactEntries[domain]; ok {
		return e
	}

	for _, r := range substringRules {
		if strings.Contains(domain, r.key) {
			return Entry{Score: r.score, Tier: TierFor(r.score), Category: r.category}
		}
	}

	return Entry{
		Score:    DefaultScore,
		Tier:     model.TierLimited,
		Category: Categorize(domain),
	}
}

// categoryRule is one step of the fixed-priority category classifier.
type categoryRule struct {
	category model.SourceCategory
	patterns []string
}

// categoryRules are evaluated in order; the first hit wins. Priority:
// government, academic, international org, journal, news, fact-checker,
// encyclopedia, blog, then the "website" fallback.
var categoryRules = []categoryRule{
	{model.CategoryGovernment, []string{".gov", ".mil"}},
	{model.CategoryAcademic, []string{".edu", ".ac."}},
	{model.CategoryInternationalOrg, []string{".int", "who.int", "un.org"}},
	{model.CategoryJournal, []string{"journal", "pubmed", "nature", "sciencedirect", "springer", "wiley"}},
	{model.CategoryNewsAgency, []string{"reuters", "apnews", "news", "bbc", "npr", "times"}},
	{model.CategoryFactChecker, []string{"factcheck", "snopes", "politifact"}},
	{model.CategoryEncyclopedia, []string{"wikipedia", "britannica", "encyclopedia"}},
	{model.CategoryBlog, []string{"blog", "medium.com", "substack", "wordpress"}},
}

// Categorize assigns a publisher category from domain substrings alone.
func Categorize(domain string) model.SourceCategory {
	domain = strings.ToLower(domain)
	for _, rule := range categoryRules {
		for _, p := range rule.patterns {
			if strings.Contains(domain, p) {
				return rule.category
			}
		}
	}
	return model.CategoryWebsite
}

// TrustedDomains is the hand-curated allow-list used to bias the first
// retrieval pass toward high-trust publishers.
var TrustedDomains = []string{
	"nih.gov",
	"cdc.gov",
	"fda.gov",
	"nasa.gov",
	"europa.eu",
	"who.int",
	"un.org",
	"worldbank.org",
	"oecd.org",
	"harvard.edu",
	"mit.edu",
	"stanford.edu",
	"ox.ac.uk",
	"nature.com",
	"science.org",
	"nejm.org",
	"thelancet.com",
	"pubmed.ncbi.nlm.nih.gov",
	"arxiv.org",
	"reuters.com",
	"apnews.com",
	"bbc.com",
	"npr.org",
	"factcheck.org",
	"politifact.com",
	"britannica.com",
}
