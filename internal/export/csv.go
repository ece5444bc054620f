// Package export renders bill record sets as CSV and XLSX files for
// download.
package export

import (
	"encoding/csv"
	"io"
	"sort"
	"strings"

	"billscan/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"ID",
	"Vendor",
	"Bill Date",
	"Amount",
	"Currency",
	"Category",
	"Language",
	"Manual Overrides",
	"Flags",
	"Created At",
	"Updated At",
}

// Writer wraps csv.Writer for exporting bill records as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecords converts a batch of records to CSV rows and writes them.
func (w *Writer) WriteRecords(recs []domain.BillRecord) error {
	for i := range recs {
		if err := w.csv.Write(recordToRow(&recs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// recordToRow converts a single record to a string slice matching the
// header. Unset optional fields stay empty rather than rendering a zero.
func recordToRow(rec *domain.BillRecord) []string {
	row := make([]string, len(columns))

	row[0] = rec.ID.String()
	row[1] = rec.VendorOr("")
	if rec.BillDate != nil {
		row[2] = rec.BillDate.Format("2006-01-02")
	}
	if rec.Amount != nil {
		row[3] = rec.Amount.StringFixed(2)
	}
	row[4] = rec.Currency
	row[5] = string(rec.Category)
	row[6] = rec.Language
	row[7] = overridesColumn(rec)
	row[8] = flagsColumn(rec)
	row[9] = rec.CreatedAt.UTC().Format("2006-01-02 15:04:05")
	row[10] = rec.UpdatedAt.UTC().Format("2006-01-02 15:04:05")
	return row
}

func overridesColumn(rec *domain.BillRecord) string {
	var fields []string
	for f, meta := range rec.Fields {
		if meta.ManualOverride {
			fields = append(fields, string(f))
		}
	}
	sort.Strings(fields)
	return strings.Join(fields, ";")
}

func flagsColumn(rec *domain.BillRecord) string {
	var entries []string
	for f, meta := range rec.Fields {
		for _, flag := range meta.Flags {
			entries = append(entries, string(f)+":"+string(flag))
		}
	}
	sort.Strings(entries)
	return strings.Join(entries, ";")
}
