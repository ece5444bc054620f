package analytics

import (
	"github.com/shopspring/decimal"

	"billscan/internal/domain"
)

// Summary is the aggregate view of a record set's amounts. Pointer
// statistics are nil when no record carries an amount, which is distinct
// from a legitimate zero.
type Summary struct {
	Count       int              `json:"count"`
	WithAmount  int              `json:"with_amount"`
	Sum         *decimal.Decimal `json:"sum"`
	Mean        *decimal.Decimal `json:"mean"`
	Median      *decimal.Decimal `json:"median"`
	Mode        *decimal.Decimal `json:"mode"`
	Min         *decimal.Decimal `json:"min"`
	Max         *decimal.Decimal `json:"max"`
	ModeRepeats int              `json:"mode_repeats"`
}

// Summarize computes amount statistics over the record set. Records
// without an amount count toward Count but are excluded from every
// statistic. Mean and median use four decimal places; the mode is the
// smallest among equally frequent values.
func Summarize(recs []domain.BillRecord) Summary {
	s := Summary{Count: len(recs)}

	amounts := make([]decimal.Decimal, 0, len(recs))
	for _, r := range recs {
		if r.Amount != nil {
			amounts = append(amounts, *r.Amount)
		}
	}
	s.WithAmount = len(amounts)
	if len(amounts) == 0 {
		return s
	}

	sorted, _ := SortRecords(withAmounts(recs), domain.SortByAmount, false)
	ordered := make([]decimal.Decimal, len(sorted))
	for i, r := range sorted {
		ordered[i] = *r.Amount
	}

	sum := decimal.Zero
	for _, a := range ordered {
		sum = sum.Add(a)
	}
	mean := sum.DivRound(decimal.NewFromInt(int64(len(ordered))), 4)
	median := medianOf(ordered)
	mode, repeats := modeOf(ordered)

	s.Sum = &sum
	s.Mean = &mean
	s.Median = &median
	s.Mode = &mode
	s.Min = &ordered[0]
	s.Max = &ordered[len(ordered)-1]
	s.ModeRepeats = repeats
	return s
}

func withAmounts(recs []domain.BillRecord) []domain.BillRecord {
	out := make([]domain.BillRecord, 0, len(recs))
	for _, r := range recs {
		if r.Amount != nil {
			out = append(out, r)
		}
	}
	return out
}

// medianOf takes an ascending slice. Even lengths average the two middle
// values.
func medianOf(sorted []decimal.Decimal) decimal.Decimal {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1].Add(sorted[n/2]).DivRound(decimal.NewFromInt(2), 4)
}

// modeOf takes an ascending slice and returns the most frequent value and
// its frequency. Scanning ascending means ties resolve to the smallest
// value for free.
func modeOf(sorted []decimal.Decimal) (decimal.Decimal, int) {
	best, bestRun := sorted[0], 1
	cur, run := sorted[0], 1
	for _, a := range sorted[1:] {
		if a.Equal(cur) {
			run++
		} else {
			cur, run = a, 1
		}
		if run > bestRun {
			best, bestRun = cur, run
		}
	}
	return best, bestRun
}
