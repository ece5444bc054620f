// Package extraction converts raw document text into a draft bill record by
// running the configured rule set and resolving conflicting candidates.
package extraction

import (
	"strings"

	"billscan/internal/domain"
	"billscan/internal/rules"
)

// Extract runs every applicable rule against the document text and resolves
// the candidates for each field into a single winner. Fields with no
// candidate are left unset in the draft, never defaulted. The only error is
// domain.ErrInvalidInput for empty or blank text; noisy OCR output degrades
// to fewer candidates rather than failing.
//
// Extract is a pure function of its inputs: the rule set is passed in
// explicitly so callers can run different rule-set versions side by side.
func Extract(raw domain.RawDocument, set *rules.Set) (*domain.Draft, error) {
	if strings.TrimSpace(raw.Text) == "" {
		return nil, domain.ErrInvalidInput
	}

	winners := make(map[domain.Field]domain.FieldCandidate)
	for _, field := range domain.AllFields {
		candidates := collect(raw.Text, field, set.ForField(field))
		if len(candidates) == 0 {
			continue
		}
		winners[field] = resolve(candidates)
	}

	// The currency and language detectors run on top of the rule results:
	// currency is inferred from a symbol or ISO code near the winning
	// amount, language from script and keyword evidence over the whole text.
	if _, ok := winners[domain.FieldCurrency]; !ok {
		amountPos := -1
		if amount, ok := winners[domain.FieldAmount]; ok {
			amountPos = amount.Position
		}
		if c, ok := detectCurrency(raw.Text, amountPos); ok {
			winners[domain.FieldCurrency] = c
		}
	}
	if _, ok := winners[domain.FieldLanguage]; !ok {
		if c, ok := detectLanguage(raw.Text, raw.LanguageHint); ok {
			winners[domain.FieldLanguage] = c
		}
	}

	return &domain.Draft{Winners: winners, SourceText: raw.Text}, nil
}

func collect(text string, field domain.Field, ruleList []rules.Rule) []domain.FieldCandidate {
	var candidates []domain.FieldCandidate
	for i := range ruleList {
		rule := &ruleList[i]
		for _, m := range rule.FindAll(text) {
			value := strings.TrimSpace(m.Value)
			if value == "" {
				continue
			}
			candidates = append(candidates, domain.FieldCandidate{
				Field:       field,
				Value:       value,
				Position:    m.Position,
				Specificity: m.Length,
				Weight:      rule.Weight,
				RuleID:      rule.ID,
			})
		}
	}
	return candidates
}

// resolve picks the winning candidate: highest confidence weight first, then
// earliest position in the text (documents state authoritative totals before
// incidental numbers), then the most specific match (most literal characters).
func resolve(candidates []domain.FieldCandidate) domain.FieldCandidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Weight != best.Weight {
			if c.Weight > best.Weight {
				best = c
			}
			continue
		}
		if c.Position != best.Position {
			if c.Position < best.Position {
				best = c
			}
			continue
		}
		if c.Specificity > best.Specificity {
			best = c
		}
	}
	return best
}
