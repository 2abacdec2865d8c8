// Package categorize maps transaction descriptions to spending categories
// using an ordered keyword rule table.
package categorize

import (
	"strings"

	"github.com/finsight-dev/finsight/internal/model"
)

// Rule pairs a category with the keywords that select it.
type Rule struct {
	Category model.Category `yaml:"category"`
	Keywords []string       `yaml:"keywords"`
}

// Classifier assigns categories by case-insensitive substring match.
// Rule order is the tie-break: the first rule with any matching keyword
// wins, so a description containing keywords from two categories (e.g.
// "gas" under both Transportation and Utilities) always resolves to the
// earlier rule. The table is immutable after construction.
type Classifier struct {
	rules    []rule
	fallback model.Category
}

type rule struct {
	category model.Category
	keywords []string // pre-lowercased
}

// New creates a Classifier that falls back to Other when nothing matches.
func New(rules []Rule) *Classifier {
	return NewWithFallback(rules, model.CategoryOther)
}

// NewWithFallback creates a Classifier with an explicit sentinel category.
func NewWithFallback(rules []Rule, fallback model.Category) *Classifier {
	compiled := make([]rule, 0, len(rules))
	for _, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				kws = append(kws, kw)
			}
		}
		compiled = append(compiled, rule{category: r.Category, keywords: kws})
	}
	return &Classifier{rules: compiled, fallback: fallback}
}

// Classify returns the first rule-table category whose keywords appear in
// the description, or the sentinel category if none match.
func (c *Classifier) Classify(description string) model.Category {
	desc := strings.ToLower(description)
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(desc, kw) {
				return r.category
			}
		}
	}
	return c.fallback
}

// Fallback returns the sentinel category used when no rule matches.
func (c *Classifier) Fallback() model.Category {
	return c.fallback
}
