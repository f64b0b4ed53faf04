// Package intent scores free text against a fixed pattern table and picks the
// category whose knowledge assembler should answer it.
package intent

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// NormalizationConstant is the score at which confidence saturates at 1.
	// Confidence is a ranking signal only, not a probability.
	NormalizationConstant = 3.0

	maxKeywords      = 5
	minKeywordLength = 4
)

type compiledRule struct {
	category Category
	priority int
	patterns []*regexp.Regexp
}

// Classifier holds an immutable, priority-ordered rule table.
// It is safe for concurrent use.
type Classifier struct {
	rules []compiledRule
}

// New compiles rules into a Classifier. Ties on score are resolved by higher
// Priority first, then by the order rules were given.
func New(rules []Rule) (*Classifier, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if !r.Category.Valid() || r.Category == CategoryGeneral {
			return nil, fmt.Errorf("rule for unknown category %q", r.Category)
		}
		cr := compiledRule{category: r.Category, priority: r.Priority}
		for _, p := range r.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("compiling pattern %q for %s: %w", p, r.Category, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		compiled = append(compiled, cr)
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].priority > compiled[j].priority
	})

	return &Classifier{rules: compiled}, nil
}

// MustDefault returns a Classifier over DefaultRules.
func MustDefault() *Classifier {
	c, err := New(DefaultRules)
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the best-scoring category for text. Empty input, or input
// no pattern matches, yields CategoryGeneral with confidence 0.
func (c *Classifier) Classify(text string) Result {
	result := Result{
		Category: CategoryGeneral,
		Keywords: ExtractKeywords(text),
	}
	if strings.TrimSpace(text) == "" {
		return result
	}

	best := 0
	for _, r := range c.rules {
		score := 0
		for _, re := range r.patterns {
			if re.MatchString(text) {
				score++
			}
		}
		if score > best {
			best = score
			result.Category = r.category
		}
	}

	if best > 0 {
		result.Confidence = min(float64(best)/NormalizationConstant, 1.0)
	}
	return result
}

// ExtractKeywords returns up to five tokens longer than three characters, in
// input order, with surrounding punctuation removed.
func ExtractKeywords(text string) []string {
	keywords := []string{}
	for _, field := range strings.Fields(text) {
		token := strings.TrimFunc(field, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if utf8.RuneCountInString(token) < minKeywordLength {
			continue
		}
		keywords = append(keywords, token)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
