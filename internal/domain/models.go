package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RawDocument is the immutable input to extraction: a single blob of text
// already produced by OCR or direct text ingestion, plus optional hints
// declared by the uploader.
type RawDocument struct {
	Text         string
	Format       string
	LanguageHint string
}

// FieldCandidate is one potential value for one field, produced by a single
// rule match. Candidates only live for the duration of an extraction pass.
type FieldCandidate struct {
	Field       Field
	Value       string
	Position    int
	Specificity int
	Weight      float64
	RuleID      string
}

// Draft is the resolved output of an extraction pass: at most one winning
// candidate per field. Fields with no candidate are absent from the map.
type Draft struct {
	Winners    map[Field]FieldCandidate
	SourceText string
}

// Value returns the winning candidate for f, if any.
func (d *Draft) Value(f Field) (FieldCandidate, bool) {
	c, ok := d.Winners[f]
	return c, ok
}

// FieldMeta carries per-field extraction metadata on a bill record.
type FieldMeta struct {
	Confidence     float64 `json:"confidence"`
	RuleID         string  `json:"rule_id,omitempty"`
	ManualOverride bool    `json:"manual_override,omitempty"`
	Flags          []Flag  `json:"flags,omitempty"`
}

// HasFlag reports whether m carries the given flag.
func (m FieldMeta) HasFlag(f Flag) bool {
	for _, have := range m.Flags {
		if have == f {
			return true
		}
	}
	return false
}

// FieldMetaMap maps fields to their extraction metadata. It is stored as a
// JSONB column, mirroring how confidence scores are persisted elsewhere.
type FieldMetaMap map[Field]FieldMeta

// Value implements driver.Valuer for JSONB storage.
func (m FieldMetaMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage.
func (m *FieldMetaMap) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = FieldMetaMap{}
		return nil
	}
	return fmt.Errorf("FieldMetaMap.Scan: unsupported type %T", src)
}

// BillRecord is the canonical structured output for one processed document.
// Vendor, BillDate and Amount are nil when extraction found no candidate;
// unset is distinct from zero or empty.
type BillRecord struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	Vendor    *string          `db:"vendor" json:"vendor,omitempty"`
	BillDate  *time.Time       `db:"bill_date" json:"bill_date,omitempty"`
	Amount    *decimal.Decimal `db:"amount" json:"amount,omitempty"`
	Currency  string           `db:"currency" json:"currency,omitempty"`
	Category  Category         `db:"category" json:"category"`
	Language  string           `db:"language" json:"language"`
	SourceKey string           `db:"source_key" json:"source_key"`
	RawText   string           `db:"raw_text" json:"-"`
	Fields    FieldMetaMap     `db:"fields" json:"fields"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// Incomplete reports whether the record lacks a resolvable amount and is
// therefore flagged rather than fully valid.
func (r *BillRecord) Incomplete() bool {
	return r.Amount == nil
}

// Overridden reports whether f has been pinned by a manual correction.
func (r *BillRecord) Overridden(f Field) bool {
	return r.Fields[f].ManualOverride
}

// VendorOr returns the vendor name or the given fallback when unset.
func (r *BillRecord) VendorOr(fallback string) string {
	if r.Vendor == nil {
		return fallback
	}
	return *r.Vendor
}
