// Package rules holds the declarative field-detection rule set used by the
// extraction engine. Rules are data: adding document formats means adding
// rule entries, never new code paths in the extractor.
package rules

import (
	"fmt"
	"regexp"

	"billscan/internal/domain"
)

// Rule is a single field-detection rule. Pattern is a regular expression
// whose first capture group (or, absent groups, the whole match) yields the
// extracted value. Weight reflects rule specificity: contextual rules
// anchored to labels like BALANCE DUE outrank bare generic patterns.
type Rule struct {
	ID      string       `toml:"id"`
	Field   domain.Field `toml:"field"`
	Pattern string       `toml:"pattern"`
	Weight  float64      `toml:"weight"`

	// Canonical, when set, replaces the captured text as the extracted
	// value. Used by known-vendor rules to emit a clean display name.
	Canonical string `toml:"canonical,omitempty"`

	re *regexp.Regexp
}

// Match is one occurrence of a rule in a text blob.
type Match struct {
	Value    string
	Position int
	Length   int
}

// FindAll returns every occurrence of the rule in text, in document order.
func (r *Rule) FindAll(text string) []Match {
	idx := r.re.FindAllStringSubmatchIndex(text, -1)
	if idx == nil {
		return nil
	}
	matches := make([]Match, 0, len(idx))
	for _, m := range idx {
		start, end := m[0], m[1]
		value := text[start:end]
		if len(m) >= 4 && m[2] >= 0 {
			value = text[m[2]:m[3]]
		}
		if r.Canonical != "" {
			value = r.Canonical
		}
		matches = append(matches, Match{Value: value, Position: start, Length: end - start})
	}
	return matches
}

// Set is an immutable, compiled collection of rules ordered per field.
// A Set is safe for concurrent use; construct one and pass it explicitly
// into the extractor so multiple rule-set versions can coexist.
type Set struct {
	byField map[domain.Field][]Rule
	total   int
}

// NewSet compiles the given rules into a Set. Rules with an unknown field,
// a weight outside [0,1], or an invalid pattern are rejected.
func NewSet(rs []Rule) (*Set, error) {
	set := &Set{byField: make(map[domain.Field][]Rule)}
	seen := make(map[string]bool, len(rs))
	for i := range rs {
		r := rs[i]
		if r.ID == "" {
			return nil, fmt.Errorf("rules: rule %d has no id", i)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("rules: duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
		if !r.Field.Valid() {
			return nil, fmt.Errorf("rules: rule %q has unknown field %q", r.ID, r.Field)
		}
		if r.Weight < 0 || r.Weight > 1 {
			return nil, fmt.Errorf("rules: rule %q weight %v outside [0,1]", r.ID, r.Weight)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rules: rule %q pattern: %w", r.ID, err)
		}
		r.re = re
		set.byField[r.Field] = append(set.byField[r.Field], r)
		set.total++
	}
	return set, nil
}

// ForField returns the rules for f in their configured order. The returned
// slice must not be modified.
func (s *Set) ForField(f domain.Field) []Rule {
	return s.byField[f]
}

// Len returns the total number of rules in the set.
func (s *Set) Len() int {
	return s.total
}
