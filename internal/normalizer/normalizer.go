// Package normalizer canonicalizes extraction drafts into bill records:
// calendar dates, currency-scaled decimal amounts, and closed-set
// categories. It also owns the merge rule that keeps manual corrections
// alive across re-extraction.
package normalizer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	xcurrency "golang.org/x/text/currency"

	"billscan/internal/domain"
)

// Options configures normalization fallbacks. Zero values fall back to
// sensible defaults so the zero Options is usable in tests.
type Options struct {
	FallbackLanguage string
	FallbackCurrency string
	FallbackCategory domain.Category

	// Now is overridable for deterministic tests.
	Now func() time.Time
}

func (o *Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now().UTC()
}

func (o *Options) fallbackLanguage() string {
	if o.FallbackLanguage == "" {
		return "en"
	}
	return o.FallbackLanguage
}

func (o *Options) fallbackCurrency() string {
	if o.FallbackCurrency == "" {
		return "USD"
	}
	return o.FallbackCurrency
}

// Normalize converts a draft into a canonical BillRecord. When prev is
// non-nil the result reuses its identity, and every field whose
// manual-override flag is set keeps its previous value verbatim; all other
// fields are replaced by the new draft. A record with no resolvable amount
// is still produced, flagged incomplete — partial data always beats silent
// loss.
func Normalize(draft *domain.Draft, prev *domain.BillRecord, opts Options) (*domain.BillRecord, error) {
	if draft == nil || strings.TrimSpace(draft.SourceText) == "" {
		return nil, domain.ErrInvalidInput
	}

	now := opts.now()
	rec := &domain.BillRecord{
		ID:        uuid.New(),
		Category:  domain.CategoryUncategorized,
		RawText:   draft.SourceText,
		Fields:    domain.FieldMetaMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if prev != nil {
		rec.ID = prev.ID
		rec.SourceKey = prev.SourceKey
		rec.CreatedAt = prev.CreatedAt
	}

	normalizeLanguage(rec, draft, &opts)
	normalizeCurrency(rec, draft, &opts)
	normalizeAmount(rec, draft)
	normalizeDate(rec, draft, now)
	normalizeVendor(rec, draft)
	normalizeCategory(rec, draft, &opts)

	if prev != nil {
		restoreOverrides(rec, prev)
	}
	return rec, nil
}

func normalizeLanguage(rec *domain.BillRecord, draft *domain.Draft, opts *Options) {
	if c, ok := draft.Value(domain.FieldLanguage); ok {
		rec.Language = c.Value
		rec.Fields[domain.FieldLanguage] = domain.FieldMeta{Confidence: c.Weight, RuleID: c.RuleID}
		return
	}
	rec.Language = opts.fallbackLanguage()
	rec.Fields[domain.FieldLanguage] = domain.FieldMeta{Flags: []domain.Flag{domain.FlagNotFound}}
}

func normalizeCurrency(rec *domain.BillRecord, draft *domain.Draft, opts *Options) {
	if c, ok := draft.Value(domain.FieldCurrency); ok {
		rec.Currency = c.Value
		rec.Fields[domain.FieldCurrency] = domain.FieldMeta{Confidence: c.Weight, RuleID: c.RuleID}
		return
	}
	rec.Currency = opts.fallbackCurrency()
	rec.Fields[domain.FieldCurrency] = domain.FieldMeta{Flags: []domain.Flag{domain.FlagNotFound}}
}

func normalizeAmount(rec *domain.BillRecord, draft *domain.Draft) {
	c, ok := draft.Value(domain.FieldAmount)
	if !ok {
		rec.Fields[domain.FieldAmount] = domain.FieldMeta{Flags: []domain.Flag{domain.FlagNotFound}}
		return
	}
	amt, err := ParseAmount(c.Value)
	if err != nil {
		rec.Fields[domain.FieldAmount] = domain.FieldMeta{RuleID: c.RuleID, Flags: []domain.Flag{domain.FlagNotFound}}
		return
	}
	if amt.IsNegative() {
		// A negative total is an extraction failure, not a crash: the
		// record survives with the amount unset.
		rec.Fields[domain.FieldAmount] = domain.FieldMeta{RuleID: c.RuleID, Flags: []domain.Flag{domain.FlagNegativeAmount}}
		return
	}
	scaled := amt.Round(MinorUnitScale(rec.Currency))
	rec.Amount = &scaled
	rec.Fields[domain.FieldAmount] = domain.FieldMeta{Confidence: c.Weight, RuleID: c.RuleID}
}

func normalizeDate(rec *domain.BillRecord, draft *domain.Draft, now time.Time) {
	c, ok := draft.Value(domain.FieldDate)
	if !ok {
		rec.Fields[domain.FieldDate] = domain.FieldMeta{Flags: []domain.Flag{domain.FlagNotFound}}
		return
	}
	t, err := ParseDate(c.Value, rec.Language)
	if errors.Is(err, errAmbiguousDate) {
		rec.Fields[domain.FieldDate] = domain.FieldMeta{RuleID: c.RuleID, Flags: []domain.Flag{domain.FlagAmbiguousDate}}
		return
	}
	if err != nil {
		rec.Fields[domain.FieldDate] = domain.FieldMeta{RuleID: c.RuleID, Flags: []domain.Flag{domain.FlagNotFound}}
		return
	}
	if t.After(now) {
		rec.Fields[domain.FieldDate] = domain.FieldMeta{RuleID: c.RuleID, Flags: []domain.Flag{domain.FlagFutureDate}}
		return
	}
	rec.BillDate = &t
	rec.Fields[domain.FieldDate] = domain.FieldMeta{Confidence: c.Weight, RuleID: c.RuleID}
}

func normalizeVendor(rec *domain.BillRecord, draft *domain.Draft) {
	c, ok := draft.Value(domain.FieldVendor)
	if !ok {
		rec.Fields[domain.FieldVendor] = domain.FieldMeta{Flags: []domain.Flag{domain.FlagNotFound}}
		return
	}
	vendor := c.Value
	rec.Vendor = &vendor
	rec.Fields[domain.FieldVendor] = domain.FieldMeta{Confidence: c.Weight, RuleID: c.RuleID}
}

func normalizeCategory(rec *domain.BillRecord, draft *domain.Draft, opts *Options) {
	hint := ""
	meta := domain.FieldMeta{}
	if c, ok := draft.Value(domain.FieldCategory); ok {
		hint = c.Value
		meta = domain.FieldMeta{Confidence: c.Weight, RuleID: c.RuleID}
	}
	rec.Category = MapCategory(hint, rec.VendorOr(""), opts.FallbackCategory)
	rec.Fields[domain.FieldCategory] = meta
}

// restoreOverrides copies manually corrected fields from the previous
// record into the freshly normalized one, discarding whatever the new
// draft extracted for them.
func restoreOverrides(rec, prev *domain.BillRecord) {
	for field, meta := range prev.Fields {
		if !meta.ManualOverride {
			continue
		}
		switch field {
		case domain.FieldVendor:
			rec.Vendor = prev.Vendor
		case domain.FieldDate:
			rec.BillDate = prev.BillDate
		case domain.FieldAmount:
			rec.Amount = prev.Amount
		case domain.FieldCurrency:
			rec.Currency = prev.Currency
		case domain.FieldCategory:
			rec.Category = prev.Category
		case domain.FieldLanguage:
			rec.Language = prev.Language
		}
		rec.Fields[field] = meta
	}
}

// ApplyCorrection sets a single field on the record from a user-supplied
// value, parsing it the same way extraction output is parsed, and pins the
// field with the manual-override flag. Applying the same correction twice
// yields the same record. Unknown fields and values that do not parse
// return domain.ErrCorrectionConflict.
func ApplyCorrection(rec *domain.BillRecord, field domain.Field, value string, now time.Time) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrCorrectionConflict, field)
	}
	value = strings.TrimSpace(value)

	switch field {
	case domain.FieldVendor:
		if value == "" {
			return fmt.Errorf("%w: vendor cannot be empty", domain.ErrCorrectionConflict)
		}
		rec.Vendor = &value
	case domain.FieldDate:
		t, err := ParseDate(value, rec.Language)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCorrectionConflict, err)
		}
		rec.BillDate = &t
	case domain.FieldAmount:
		amt, err := ParseAmount(value)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCorrectionConflict, err)
		}
		if amt.IsNegative() {
			return fmt.Errorf("%w: amount must be non-negative", domain.ErrCorrectionConflict)
		}
		scaled := amt.Round(MinorUnitScale(rec.Currency))
		rec.Amount = &scaled
	case domain.FieldCurrency:
		code := strings.ToUpper(value)
		if _, err := xcurrency.ParseISO(code); err != nil {
			return fmt.Errorf("%w: invalid currency %q", domain.ErrCorrectionConflict, value)
		}
		rec.Currency = code
	case domain.FieldCategory:
		cat := domain.Category(value)
		if !cat.Valid() {
			cat = MapCategory(value, "", domain.CategoryUncategorized)
		}
		rec.Category = cat
	case domain.FieldLanguage:
		rec.Language = strings.ToLower(value)
	}

	meta := rec.Fields[field]
	meta.ManualOverride = true
	meta.Confidence = 1
	meta.Flags = nil
	if rec.Fields == nil {
		rec.Fields = domain.FieldMetaMap{}
	}
	rec.Fields[field] = meta
	rec.UpdatedAt = now
	return nil
}
