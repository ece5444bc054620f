package extraction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billscan/internal/domain"
	"billscan/internal/extraction"
	"billscan/internal/rules"
)

func extractLanguage(t *testing.T, text, hint string) (domain.FieldCandidate, bool) {
	t.Helper()
	draft, err := extraction.Extract(domain.RawDocument{Text: text, LanguageHint: hint}, rules.DefaultSet())
	require.NoError(t, err)
	return draft.Value(domain.FieldLanguage)
}

func TestDetectLanguage_ScriptRanges(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"japanese kana", "請求書 ごうけい ¥1,200", "ja"},
		{"chinese han only", "发票 总计 ¥88.00", "zh"},
		{"hindi devanagari", "बिल कुल राशि ₹450", "hi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lang, ok := extractLanguage(t, tc.text, "")
			require.True(t, ok)
			assert.Equal(t, tc.want, lang.Value)
			assert.Equal(t, "language.script", lang.RuleID)
		})
	}
}

func TestDetectLanguage_Keywords(t *testing.T) {
	lang, ok := extractLanguage(t, "FACTURA\nimporte total 45,90\nfecha 01/02/2024", "")
	require.True(t, ok)
	assert.Equal(t, "es", lang.Value)
	assert.Equal(t, "language.keywords", lang.RuleID)

	lang, ok = extractLanguage(t, "RECHNUNG\nbetrag gesamt 45,90 EUR\ndatum 01.02.2024", "")
	require.True(t, ok)
	assert.Equal(t, "de", lang.Value)
}

func TestDetectLanguage_HintFallback(t *testing.T) {
	// x9 q7 z2: no script and too few keyword hits, so the declared hint
	// decides.
	lang, ok := extractLanguage(t, "x9 q7 z2 $5.00", "fr")
	require.True(t, ok)
	assert.Equal(t, "fr", lang.Value)
	assert.Equal(t, "language.hint", lang.RuleID)
}

func TestDetectLanguage_Undetected(t *testing.T) {
	_, ok := extractLanguage(t, "x9 q7 z2 $5.00", "")
	assert.False(t, ok, "language left unset when nothing is detected")

	// An unparseable hint is discarded rather than propagated.
	_, ok = extractLanguage(t, "x9 q7 z2 $5.00", "not-a-language-!!")
	assert.False(t, ok)
}

func TestDetectCurrency_NearAmount(t *testing.T) {
	draft, err := extraction.Extract(domain.RawDocument{Text: "TOTAL: €89,50\npaid by card"}, rules.DefaultSet())
	require.NoError(t, err)

	cur, ok := draft.Value(domain.FieldCurrency)
	require.True(t, ok)
	assert.Equal(t, "EUR", cur.Value)
	assert.Equal(t, "currency.near-amount", cur.RuleID)
}

func TestDetectCurrency_ISOCodeDocumentWide(t *testing.T) {
	draft, err := extraction.Extract(domain.RawDocument{Text: "all prices in GBP\nitems shipped separately"}, rules.DefaultSet())
	require.NoError(t, err)

	cur, ok := draft.Value(domain.FieldCurrency)
	require.True(t, ok)
	assert.Equal(t, "GBP", cur.Value)
	assert.Equal(t, "currency.document", cur.RuleID)
}

func TestDetectCurrency_MultiCharSymbol(t *testing.T) {
	draft, err := extraction.Extract(domain.RawDocument{Text: "TOTAL: C$42.00"}, rules.DefaultSet())
	require.NoError(t, err)

	cur, ok := draft.Value(domain.FieldCurrency)
	require.True(t, ok)
	assert.Equal(t, "CAD", cur.Value)
}

func TestDetectCurrency_LabeledRuleWins(t *testing.T) {
	draft, err := extraction.Extract(domain.RawDocument{Text: "TOTAL: $48.00\nCURRENCY: AUD"}, rules.DefaultSet())
	require.NoError(t, err)

	cur, ok := draft.Value(domain.FieldCurrency)
	require.True(t, ok)
	assert.Equal(t, "AUD", cur.Value)
	assert.Equal(t, "currency.labeled", cur.RuleID)
}
