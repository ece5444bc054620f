package extraction

import (
	"regexp"
	"strings"

	xcurrency "golang.org/x/text/currency"

	"billscan/internal/domain"
)

// currencyWindow is how many bytes around the winning amount match are
// inspected for a co-occurring symbol or ISO code.
const currencyWindow = 16

// multiCharSymbols must be checked before single symbols: C$ and A$ both
// contain the dollar sign.
var multiCharSymbols = []struct {
	symbol string
	code   string
}{
	{"C$", "CAD"},
	{"A$", "AUD"},
}

var symbolCodes = map[rune]string{
	'$': "USD",
	'€': "EUR",
	'£': "GBP",
	'¥': "JPY",
	'₹': "INR",
}

var isoCodeRe = regexp.MustCompile(`\b(USD|EUR|GBP|JPY|CAD|AUD|INR|CNY)\b`)

// detectCurrency infers the currency from the text. Evidence next to the
// amount match is strongest; a document-wide hit is a weak fallback.
func detectCurrency(text string, amountPos int) (domain.FieldCandidate, bool) {
	if amountPos >= 0 {
		start := amountPos - currencyWindow
		if start < 0 {
			start = 0
		}
		end := amountPos + currencyWindow
		if end > len(text) {
			end = len(text)
		}
		if code, offset := scanCurrency(text[start:end]); code != "" {
			return currencyCandidate(code, start+offset, 0.8, "currency.near-amount")
		}
	}
	if code, offset := scanCurrency(text); code != "" {
		return currencyCandidate(code, offset, 0.4, "currency.document")
	}
	return domain.FieldCandidate{}, false
}

func scanCurrency(s string) (code string, offset int) {
	for _, mc := range multiCharSymbols {
		if i := strings.Index(s, mc.symbol); i >= 0 {
			return mc.code, i
		}
	}
	for i, r := range s {
		if c, ok := symbolCodes[r]; ok {
			return c, i
		}
	}
	if loc := isoCodeRe.FindStringIndex(s); loc != nil {
		return s[loc[0]:loc[1]], loc[0]
	}
	return "", 0
}

func currencyCandidate(code string, pos int, weight float64, ruleID string) (domain.FieldCandidate, bool) {
	// Guard against codes the detector tables drift out of sync with.
	if _, err := xcurrency.ParseISO(code); err != nil {
		return domain.FieldCandidate{}, false
	}
	return domain.FieldCandidate{
		Field:       domain.FieldCurrency,
		Value:       code,
		Position:    pos,
		Specificity: len(code),
		Weight:      weight,
		RuleID:      ruleID,
	}, true
}
