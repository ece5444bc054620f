package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"billscan/internal/domain"
)

// Bucket is one calendar period of a time series. Start is the first day
// of the period in UTC; Label is a human key such as "2024-03" or
// "2024-W09".
type Bucket struct {
	Start time.Time       `json:"start"`
	Label string          `json:"label"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// TimeSeries groups records into calendar buckets of the given period,
// ascending by period start. Periods with no records are omitted rather
// than emitted as zeros, and records without a bill date are skipped
// entirely. Records without an amount still count but add nothing to the
// bucket total.
func TimeSeries(recs []domain.BillRecord, period domain.Period) ([]Bucket, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: unknown period %q", domain.ErrInvalidQuery, period)
	}

	byStart := make(map[time.Time]*Bucket)
	for _, r := range recs {
		if r.BillDate == nil {
			continue
		}
		start, label := periodOf(*r.BillDate, period)
		b, ok := byStart[start]
		if !ok {
			b = &Bucket{Start: start, Label: label, Total: decimal.Zero}
			byStart[start] = b
		}
		b.Count++
		if r.Amount != nil {
			b.Total = b.Total.Add(*r.Amount)
		}
	}

	out := make([]Bucket, 0, len(byStart))
	for _, b := range byStart {
		out = append(out, *b)
	}
	sortBuckets(out)
	return out, nil
}

// periodOf maps a date to its period start and label. Weeks are ISO 8601:
// Monday-start, labeled by ISO year and week number.
func periodOf(t time.Time, period domain.Period) (time.Time, string) {
	t = t.UTC()
	switch period {
	case domain.PeriodDay:
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return start, start.Format("2006-01-02")
	case domain.PeriodWeek:
		start := mondayOf(t)
		year, week := start.ISOWeek()
		return start, fmt.Sprintf("%04d-W%02d", year, week)
	case domain.PeriodMonth:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.Format("2006-01")
	default: // domain.PeriodYear
		start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.Format("2006")
	}
}

func mondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// sortBuckets is a small insertion sort; bucket counts are tiny and the
// heavy sorting machinery lives in SortRecords.
func sortBuckets(bs []Bucket) {
	for i := 1; i < len(bs); i++ {
		for j := i; j > 0 && bs[j].Start.Before(bs[j-1].Start); j-- {
			bs[j], bs[j-1] = bs[j-1], bs[j]
		}
	}
}
