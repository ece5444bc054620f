package extraction

import (
	"strings"
	"unicode"

	xlanguage "golang.org/x/text/language"

	"billscan/internal/domain"
)

// minKeywordHits is the evidence floor below which Latin-script keyword
// counting refuses to guess.
const minKeywordHits = 2

// stopwords per Latin-script language, chosen from words that actually show
// up on bills and invoices rather than general prose.
var stopwords = map[string][]string{
	"en": {"the", "and", "total", "amount", "due", "date", "payment", "balance", "account"},
	"es": {"el", "la", "los", "las", "de", "total", "importe", "fecha", "factura", "pago"},
	"fr": {"le", "la", "les", "des", "et", "montant", "facture", "date", "total", "paiement"},
	"de": {"der", "die", "das", "und", "betrag", "rechnung", "gesamt", "datum", "zahlung"},
	"it": {"il", "lo", "la", "di", "e", "importo", "fattura", "totale", "data", "pagamento"},
	"pt": {"o", "a", "os", "as", "de", "fatura", "valor", "total", "data", "pagamento"},
}

// detectLanguage infers the document language. Non-Latin scripts are decided
// by code-point ranges; Latin text falls back to keyword counting, then to
// the caller-declared hint. The result is a canonical BCP-47 base code.
func detectLanguage(text, hint string) (domain.FieldCandidate, bool) {
	if code := detectScript(text); code != "" {
		return languageCandidate(code, 0.9, "language.script")
	}
	if code := detectKeywords(text); code != "" {
		return languageCandidate(code, 0.7, "language.keywords")
	}
	if hint != "" {
		return languageCandidate(hint, 0.6, "language.hint")
	}
	return domain.FieldCandidate{}, false
}

func detectScript(text string) string {
	var han, kana, devanagari, hangul int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			kana++
		case unicode.Is(unicode.Han, r):
			han++
		case unicode.Is(unicode.Devanagari, r):
			devanagari++
		case unicode.Is(unicode.Hangul, r):
			hangul++
		}
	}
	switch {
	case kana > 0:
		return "ja" // kana is decisive even when Han characters dominate
	case han > 0:
		return "zh"
	case devanagari > 0:
		return "hi"
	case hangul > 0:
		return "ko"
	}
	return ""
}

func detectKeywords(text string) string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	counts := make(map[string]int, len(stopwords))
	for lang, list := range stopwords {
		set := make(map[string]bool, len(list))
		for _, w := range list {
			set[w] = true
		}
		for _, w := range words {
			if set[w] {
				counts[lang]++
			}
		}
	}

	best, bestHits := "", 0
	for lang, hits := range counts {
		if hits > bestHits || (hits == bestHits && lang < best) {
			best, bestHits = lang, hits
		}
	}
	if bestHits < minKeywordHits {
		return ""
	}
	return best
}

func languageCandidate(code string, weight float64, ruleID string) (domain.FieldCandidate, bool) {
	tag, err := xlanguage.Parse(code)
	if err != nil {
		return domain.FieldCandidate{}, false
	}
	base, _ := tag.Base()
	return domain.FieldCandidate{
		Field:  domain.FieldLanguage,
		Value:  base.String(),
		Weight: weight,
		RuleID: ruleID,
	}, true
}
