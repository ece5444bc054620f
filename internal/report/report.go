// Package report composes the analytics primitives into the rollups the
// API serves: vendor leaderboards, category breakdowns, spend trends, and
// the account overview. Every report is a pure function of the record
// snapshot it is given.
package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"billscan/internal/analytics"
	"billscan/internal/domain"
)

// VendorTotal is one row of the vendor leaderboard.
type VendorTotal struct {
	Vendor string          `json:"vendor"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// CategoryTotal is one row of the category breakdown.
type CategoryTotal struct {
	Category domain.Category  `json:"category"`
	Count    int              `json:"count"`
	Total    decimal.Decimal  `json:"total"`
	Mean     *decimal.Decimal `json:"mean"`
}

// Overview is the account-wide snapshot: the amount statistics plus the
// dominant category and how many records each currency holds.
type Overview struct {
	analytics.Summary
	TopCategory    domain.Category `json:"top_category"`
	CurrencyCounts map[string]int  `json:"currency_counts"`
}

// TopVendors groups records by vendor and returns the n largest spenders
// by total amount, ties broken by vendor name ascending. Records without
// a vendor are grouped under "(unknown)"; records without an amount still
// count toward their vendor's row.
func TopVendors(recs []domain.BillRecord, n int) []VendorTotal {
	if n <= 0 {
		return nil
	}

	totals := make(map[string]*VendorTotal)
	for _, r := range recs {
		name := r.VendorOr("(unknown)")
		row, ok := totals[name]
		if !ok {
			row = &VendorTotal{Vendor: name, Total: decimal.Zero}
			totals[name] = row
		}
		row.Count++
		if r.Amount != nil {
			row.Total = row.Total.Add(*r.Amount)
		}
	}

	rows := make([]VendorTotal, 0, len(totals))
	for _, row := range totals {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].Vendor < rows[j].Vendor
	})

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// CategoryBreakdown sums and averages spend per category, largest total
// first, ties broken by category name. The mean covers only records that
// carry an amount and is nil for categories that have none.
func CategoryBreakdown(recs []domain.BillRecord) []CategoryTotal {
	grouped := make(map[domain.Category][]domain.BillRecord)
	for _, r := range recs {
		cat := r.Category
		if cat == "" {
			cat = domain.CategoryUncategorized
		}
		grouped[cat] = append(grouped[cat], r)
	}

	rows := make([]CategoryTotal, 0, len(grouped))
	for cat, group := range grouped {
		s := analytics.Summarize(group)
		row := CategoryTotal{Category: cat, Count: s.Count, Total: decimal.Zero, Mean: s.Mean}
		if s.Sum != nil {
			row.Total = *s.Sum
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// Trend rolls records up into calendar buckets for the given period.
func Trend(recs []domain.BillRecord, period domain.Period) ([]analytics.Bucket, error) {
	return analytics.TimeSeries(recs, period)
}

// BuildOverview assembles the account-wide snapshot. TopCategory is the
// category with the most records, lowest name among ties, and empty when
// there are no records at all.
func BuildOverview(recs []domain.BillRecord) Overview {
	o := Overview{
		Summary:        analytics.Summarize(recs),
		CurrencyCounts: make(map[string]int),
	}

	catCounts := make(map[domain.Category]int)
	for _, r := range recs {
		cur := strings.ToUpper(r.Currency)
		if cur == "" {
			cur = "USD"
		}
		o.CurrencyCounts[cur]++

		cat := r.Category
		if cat == "" {
			cat = domain.CategoryUncategorized
		}
		catCounts[cat]++
	}

	for cat, count := range catCounts {
		best := catCounts[o.TopCategory]
		if o.TopCategory == "" || count > best || (count == best && cat < o.TopCategory) {
			o.TopCategory = cat
		}
	}
	return o
}
