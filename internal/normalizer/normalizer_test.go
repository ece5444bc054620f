package normalizer_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billscan/internal/domain"
	"billscan/internal/extraction"
	"billscan/internal/normalizer"
	"billscan/internal/rules"
)

var testNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func testOpts() normalizer.Options {
	return normalizer.Options{Now: func() time.Time { return testNow }}
}

func draftFor(t *testing.T, text string) *domain.Draft {
	t.Helper()
	draft, err := extraction.Extract(domain.RawDocument{Text: text}, rules.DefaultSet())
	require.NoError(t, err)
	return draft
}

const sampleBill = `VENDOR: Anytown Medical Center
BALANCE DUE: $48.00
DATE: 2024-03-01
CATEGORY: Healthcare`

func TestNormalize_SampleBillEndToEnd(t *testing.T) {
	rec, err := normalizer.Normalize(draftFor(t, sampleBill), nil, testOpts())
	require.NoError(t, err)

	require.NotNil(t, rec.Amount)
	assert.True(t, rec.Amount.Equal(decimal.RequireFromString("48.00")))
	assert.Equal(t, "USD", rec.Currency)
	require.NotNil(t, rec.BillDate)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), *rec.BillDate)
	assert.Equal(t, "Anytown Medical Center", rec.VendorOr(""))
	assert.Equal(t, domain.CategoryHealthcare, rec.Category)
	assert.False(t, rec.Incomplete())

	for _, f := range []domain.Field{domain.FieldVendor, domain.FieldDate, domain.FieldAmount, domain.FieldCategory} {
		meta := rec.Fields[f]
		assert.GreaterOrEqual(t, meta.Confidence, 0.8, "field %s at high confidence", f)
		assert.False(t, meta.ManualOverride, "no override flags set for %s", f)
	}
}

func TestNormalize_MissingAmountStillProducesRecord(t *testing.T) {
	rec, err := normalizer.Normalize(draftFor(t, "VENDOR: Corner Shop\nthanks for visiting"), nil, testOpts())
	require.NoError(t, err)

	assert.Nil(t, rec.Amount)
	assert.True(t, rec.Incomplete())
	assert.True(t, rec.Fields[domain.FieldAmount].HasFlag(domain.FlagNotFound))
	assert.Equal(t, "Corner Shop", rec.VendorOr(""))
}

func TestNormalize_NegativeAmountFlaggedNotFatal(t *testing.T) {
	rec, err := normalizer.Normalize(draftFor(t, "TOTAL: $-5.00\nVENDOR: Refundish"), nil, testOpts())
	require.NoError(t, err)

	assert.Nil(t, rec.Amount)
	assert.True(t, rec.Fields[domain.FieldAmount].HasFlag(domain.FlagNegativeAmount))
}

func TestNormalize_FutureDateFlagged(t *testing.T) {
	rec, err := normalizer.Normalize(draftFor(t, "DATE: 2030-01-01\nTOTAL: $10.00"), nil, testOpts())
	require.NoError(t, err)

	assert.Nil(t, rec.BillDate)
	assert.True(t, rec.Fields[domain.FieldDate].HasFlag(domain.FlagFutureDate))
}

func TestNormalize_AmbiguousDateFlagged(t *testing.T) {
	// No language evidence in the text and no fallback means the numeric
	// ordering cannot be resolved.
	draft := &domain.Draft{
		SourceText: "raw",
		Winners: map[domain.Field]domain.FieldCandidate{
			domain.FieldDate: {Field: domain.FieldDate, Value: "03/04/2024", Weight: 0.5, RuleID: "date.generic.numeric"},
		},
	}
	opts := testOpts()
	opts.FallbackLanguage = "zz"

	rec, err := normalizer.Normalize(draft, nil, opts)
	require.NoError(t, err)

	assert.Nil(t, rec.BillDate)
	assert.True(t, rec.Fields[domain.FieldDate].HasFlag(domain.FlagAmbiguousDate))
}

func TestNormalize_AmbiguousDateResolvedByDetectedLanguage(t *testing.T) {
	rec, err := normalizer.Normalize(draftFor(t, "FACTURA\nimporte total: $45,90\nfecha: 03/04/2024"), nil, testOpts())
	require.NoError(t, err)

	require.NotNil(t, rec.BillDate)
	// Spanish is day-first.
	assert.Equal(t, time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC), *rec.BillDate)
}

func TestNormalize_JPYScaledToWholeUnits(t *testing.T) {
	rec, err := normalizer.Normalize(draftFor(t, "請求書 ごうけい\nTOTAL: ¥1200.4"), nil, testOpts())
	require.NoError(t, err)

	assert.Equal(t, "JPY", rec.Currency)
	require.NotNil(t, rec.Amount)
	assert.Equal(t, "1200", rec.Amount.String())
}

func TestNormalize_FallbacksApplied(t *testing.T) {
	opts := testOpts()
	opts.FallbackLanguage = "pt"
	opts.FallbackCurrency = "EUR"
	opts.FallbackCategory = domain.CategoryShopping

	rec, err := normalizer.Normalize(draftFor(t, "x9 q7 z2 nothing here"), nil, opts)
	require.NoError(t, err)

	assert.Equal(t, "pt", rec.Language)
	assert.Equal(t, "EUR", rec.Currency)
	assert.Equal(t, domain.CategoryShopping, rec.Category)
}

func TestNormalize_CorrectionSurvivesReextraction(t *testing.T) {
	first, err := normalizer.Normalize(draftFor(t, sampleBill), nil, testOpts())
	require.NoError(t, err)

	require.NoError(t, normalizer.ApplyCorrection(first, domain.FieldVendor, "Anytown Medical Group LLC", testNow))
	assert.True(t, first.Overridden(domain.FieldVendor))

	// A fresh draft for the same document with new extraction results.
	updated := `VENDOR: Anytown Medical Center
BALANCE DUE: $52.75
DATE: 2024-03-02
CATEGORY: Healthcare`
	second, err := normalizer.Normalize(draftFor(t, updated), first, testOpts())
	require.NoError(t, err)

	// The corrected field survives verbatim; everything else follows the
	// new draft.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Anytown Medical Group LLC", second.VendorOr(""))
	assert.True(t, second.Overridden(domain.FieldVendor))
	assert.True(t, second.Amount.Equal(decimal.RequireFromString("52.75")))
	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), *second.BillDate)
	assert.False(t, second.Overridden(domain.FieldAmount))
}

func TestApplyCorrection_Idempotent(t *testing.T) {
	rec, err := normalizer.Normalize(draftFor(t, sampleBill), nil, testOpts())
	require.NoError(t, err)

	require.NoError(t, normalizer.ApplyCorrection(rec, domain.FieldAmount, "51.25", testNow))
	once := *rec.Amount
	require.NoError(t, normalizer.ApplyCorrection(rec, domain.FieldAmount, "51.25", testNow))

	assert.True(t, rec.Amount.Equal(once))
	assert.True(t, rec.Overridden(domain.FieldAmount))
}

func TestApplyCorrection_Conflicts(t *testing.T) {
	rec, err := normalizer.Normalize(draftFor(t, sampleBill), nil, testOpts())
	require.NoError(t, err)

	assert.ErrorIs(t, normalizer.ApplyCorrection(rec, "subtotal", "1.00", testNow), domain.ErrCorrectionConflict)
	assert.ErrorIs(t, normalizer.ApplyCorrection(rec, domain.FieldAmount, "-3.00", testNow), domain.ErrCorrectionConflict)
	assert.ErrorIs(t, normalizer.ApplyCorrection(rec, domain.FieldAmount, "a lot", testNow), domain.ErrCorrectionConflict)
	assert.ErrorIs(t, normalizer.ApplyCorrection(rec, domain.FieldVendor, "  ", testNow), domain.ErrCorrectionConflict)
	assert.ErrorIs(t, normalizer.ApplyCorrection(rec, domain.FieldCurrency, "DOLLARS", testNow), domain.ErrCorrectionConflict)
}

func TestApplyCorrection_CategoryMapsFreeText(t *testing.T) {
	rec, err := normalizer.Normalize(draftFor(t, sampleBill), nil, testOpts())
	require.NoError(t, err)

	require.NoError(t, normalizer.ApplyCorrection(rec, domain.FieldCategory, "hospital visit", testNow))
	assert.Equal(t, domain.CategoryHealthcare, rec.Category)
}

func TestNormalize_InvalidDraft(t *testing.T) {
	_, err := normalizer.Normalize(nil, nil, testOpts())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = normalizer.Normalize(&domain.Draft{SourceText: "  "}, nil, testOpts())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
