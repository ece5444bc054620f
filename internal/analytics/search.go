package analytics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"billscan/internal/domain"
)

// Filter narrows a record set. All populated criteria must hold for a
// record to pass, so criteria compose by AND and their order never
// changes the result.
type Filter struct {
	// Keyword is a case-insensitive substring match over the vendor,
	// category, and raw document text.
	Keyword string
	// Pattern is a regular expression matched against the same text.
	Pattern string

	Category domain.Category
	Currency string

	AmountMin *decimal.Decimal
	AmountMax *decimal.Decimal
	DateFrom  *time.Time
	DateTo    *time.Time
}

// Empty reports whether the filter matches everything.
func (f Filter) Empty() bool {
	return f.Keyword == "" && f.Pattern == "" && f.Category == "" && f.Currency == "" &&
		f.AmountMin == nil && f.AmountMax == nil && f.DateFrom == nil && f.DateTo == nil
}

// compiledFilter is a validated Filter ready to apply.
type compiledFilter struct {
	f       Filter
	keyword string
	pattern *regexp.Regexp
}

func compileFilter(f Filter) (*compiledFilter, error) {
	if f.AmountMin != nil && f.AmountMax != nil && f.AmountMin.GreaterThan(*f.AmountMax) {
		return nil, fmt.Errorf("%w: amount range is inverted", domain.ErrInvalidQuery)
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return nil, fmt.Errorf("%w: date range is inverted", domain.ErrInvalidQuery)
	}
	if f.Category != "" && !f.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidQuery, f.Category)
	}

	cf := &compiledFilter{f: f, keyword: strings.ToLower(f.Keyword)}
	if f.Pattern != "" {
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern: %v", domain.ErrInvalidQuery, err)
		}
		cf.pattern = re
	}
	return cf, nil
}

// FilterRecords returns the records matching every criterion in f, in
// their input order. An invalid filter (bad regex, inverted range,
// unknown category) returns domain.ErrInvalidQuery.
func FilterRecords(recs []domain.BillRecord, f Filter) ([]domain.BillRecord, error) {
	cf, err := compileFilter(f)
	if err != nil {
		return nil, err
	}

	out := make([]domain.BillRecord, 0, len(recs))
	for _, r := range recs {
		if cf.matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (cf *compiledFilter) matches(r domain.BillRecord) bool {
	if cf.keyword != "" && !strings.Contains(strings.ToLower(searchText(r)), cf.keyword) {
		return false
	}
	if cf.pattern != nil && !cf.pattern.MatchString(searchText(r)) {
		return false
	}
	if cf.f.Category != "" && r.Category != cf.f.Category {
		return false
	}
	if cf.f.Currency != "" && !strings.EqualFold(r.Currency, cf.f.Currency) {
		return false
	}

	// Range criteria only ever match records that carry the field.
	if cf.f.AmountMin != nil || cf.f.AmountMax != nil {
		if r.Amount == nil {
			return false
		}
		if cf.f.AmountMin != nil && r.Amount.LessThan(*cf.f.AmountMin) {
			return false
		}
		if cf.f.AmountMax != nil && r.Amount.GreaterThan(*cf.f.AmountMax) {
			return false
		}
	}
	if cf.f.DateFrom != nil || cf.f.DateTo != nil {
		if r.BillDate == nil {
			return false
		}
		if cf.f.DateFrom != nil && r.BillDate.Before(*cf.f.DateFrom) {
			return false
		}
		if cf.f.DateTo != nil && r.BillDate.After(*cf.f.DateTo) {
			return false
		}
	}
	return true
}

func searchText(r domain.BillRecord) string {
	var b strings.Builder
	b.WriteString(r.VendorOr(""))
	b.WriteByte('\n')
	b.WriteString(string(r.Category))
	b.WriteByte('\n')
	b.WriteString(r.RawText)
	return b.String()
}
