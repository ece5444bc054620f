// Package analytics provides pure in-memory sorting, filtering,
// aggregation, and time-series rollups over bill records. Every function
// takes a snapshot slice and returns fresh results; nothing here touches
// storage.
package analytics

import (
	"fmt"
	"strings"

	"billscan/internal/domain"
)

// SortRecords returns a copy of recs ordered by the given key. Records
// missing the key's field always sort after records that have it,
// regardless of direction. Equal records keep their input order.
func SortRecords(recs []domain.BillRecord, key domain.SortKey, descending bool) ([]domain.BillRecord, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("%w: unknown sort key %q", domain.ErrInvalidQuery, key)
	}

	items := make([]sortItem, len(recs))
	for i, r := range recs {
		items[i] = sortItem{rec: r, index: i}
	}
	quicksort(items, key, descending)

	out := make([]domain.BillRecord, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out, nil
}

// sortItem carries the original position so equal keys stay in input
// order even though quicksort itself is not stable.
type sortItem struct {
	rec   domain.BillRecord
	index int
}

// quicksort is an iterative quicksort with an explicit segment stack.
// Record counts here are bounded by what a single account accumulates, so
// the plain last-element pivot is fine.
func quicksort(items []sortItem, key domain.SortKey, descending bool) {
	if len(items) < 2 {
		return
	}

	type span struct{ lo, hi int }
	stack := []span{{0, len(items) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.lo >= s.hi {
			continue
		}
		p := partition(items, s.lo, s.hi, key, descending)
		stack = append(stack, span{s.lo, p - 1}, span{p + 1, s.hi})
	}
}

func partition(items []sortItem, lo, hi int, key domain.SortKey, descending bool) int {
	pivot := items[hi]
	i := lo
	for j := lo; j < hi; j++ {
		if less(items[j], pivot, key, descending) {
			items[i], items[j] = items[j], items[i]
			i++
		}
	}
	items[i], items[hi] = items[hi], items[i]
	return i
}

// less orders sortItems: missing-field records last, then the key in the
// requested direction, then original position.
func less(a, b sortItem, key domain.SortKey, descending bool) bool {
	am, bm := missingKey(a.rec, key), missingKey(b.rec, key)
	if am != bm {
		return bm
	}
	if !am {
		if c := compareKey(a.rec, b.rec, key); c != 0 {
			if descending {
				return c > 0
			}
			return c < 0
		}
	}
	return a.index < b.index
}

func missingKey(r domain.BillRecord, key domain.SortKey) bool {
	switch key {
	case domain.SortByAmount:
		return r.Amount == nil
	case domain.SortByDate:
		return r.BillDate == nil
	case domain.SortByVendor:
		return r.VendorOr("") == ""
	default:
		return false
	}
}

func compareKey(a, b domain.BillRecord, key domain.SortKey) int {
	switch key {
	case domain.SortByAmount:
		return a.Amount.Cmp(*b.Amount)
	case domain.SortByDate:
		return a.BillDate.Compare(*b.BillDate)
	case domain.SortByVendor:
		return strings.Compare(strings.ToLower(a.VendorOr("")), strings.ToLower(b.VendorOr("")))
	default: // domain.SortByCreated
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
