package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billscan/internal/analytics"
	"billscan/internal/domain"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func searchFixtures() []domain.BillRecord {
	a := rec("City Electric", "84.20", "2024-01-05")
	a.Category = domain.CategoryUtilities
	a.RawText = "CITY ELECTRIC\nACCOUNT 4411\nTOTAL DUE: $84.20"

	b := rec("Anytown Medical Center", "48.00", "2024-03-01")
	b.Category = domain.CategoryHealthcare
	b.RawText = "ANYTOWN MEDICAL CENTER\nBALANCE DUE: $48.00"

	c := rec("Comcast", "129.99", "2024-03-18")
	c.Category = domain.CategoryCommunications
	c.RawText = "COMCAST\nNEW BALANCE: $129.99"

	return []domain.BillRecord{a, b, c}
}

func TestFilterRecords_Keyword(t *testing.T) {
	out, err := analytics.FilterRecords(searchFixtures(), analytics.Filter{Keyword: "medical"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Anytown Medical Center", out[0].VendorOr(""))

	// Keyword also reaches the raw text, not just the vendor.
	out, err = analytics.FilterRecords(searchFixtures(), analytics.Filter{Keyword: "account 4411"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "City Electric", out[0].VendorOr(""))
}

func TestFilterRecords_Pattern(t *testing.T) {
	out, err := analytics.FilterRecords(searchFixtures(), analytics.Filter{Pattern: `(?i)balance[:\s]`})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestFilterRecords_Ranges(t *testing.T) {
	recs := searchFixtures()

	out, err := analytics.FilterRecords(recs, analytics.Filter{AmountMin: dec("50"), AmountMax: dec("150")})
	require.NoError(t, err)
	assert.Equal(t, []string{"City Electric", "Comcast"}, vendors(out))

	out, err = analytics.FilterRecords(recs, analytics.Filter{DateFrom: day("2024-03-01"), DateTo: day("2024-03-31")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Anytown Medical Center", "Comcast"}, vendors(out))

	// Boundaries are inclusive.
	out, err = analytics.FilterRecords(recs, analytics.Filter{AmountMin: dec("48.00"), AmountMax: dec("48.00")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Anytown Medical Center"}, vendors(out))
}

func TestFilterRecords_RangesSkipUnsetFields(t *testing.T) {
	recs := append(searchFixtures(), rec("No Amount Co", "", ""))

	out, err := analytics.FilterRecords(recs, analytics.Filter{AmountMin: dec("0")})
	require.NoError(t, err)
	assert.Len(t, out, 3)

	out, err = analytics.FilterRecords(recs, analytics.Filter{DateFrom: day("2000-01-01")})
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestFilterRecords_CriteriaCompose(t *testing.T) {
	recs := searchFixtures()
	f := analytics.Filter{
		Keyword:   "balance",
		AmountMax: dec("100"),
		Category:  domain.CategoryHealthcare,
	}

	out, err := analytics.FilterRecords(recs, f)
	require.NoError(t, err)
	assert.Equal(t, []string{"Anytown Medical Center"}, vendors(out))
}

func TestFilterRecords_EmptyFilterMatchesAll(t *testing.T) {
	f := analytics.Filter{}
	assert.True(t, f.Empty())

	out, err := analytics.FilterRecords(searchFixtures(), f)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestFilterRecords_InvalidFilters(t *testing.T) {
	cases := map[string]analytics.Filter{
		"bad regex":       {Pattern: `[unclosed`},
		"inverted amount": {AmountMin: dec("100"), AmountMax: dec("1")},
		"inverted dates":  {DateFrom: day("2024-12-31"), DateTo: day("2024-01-01")},
		"bad category":    {Category: "Snacks"},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := analytics.FilterRecords(searchFixtures(), f)
			assert.ErrorIs(t, err, domain.ErrInvalidQuery)
		})
	}
}
