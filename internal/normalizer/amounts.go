package normalizer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	xcurrency "golang.org/x/text/currency"
)

// ParseAmount parses an extracted monetary string into a decimal, handling
// both the 1,234.56 and 1.234,56 separator conventions. The sign is
// preserved; negativity is judged by the caller.
func ParseAmount(value string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	s = strings.TrimLeft(s, "$€£¥₹ ")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		// The later separator is the decimal mark.
		if dot > comma {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		}
	case comma >= 0:
		// A trailing comma group of exactly three digits is a thousands
		// separator; anything else makes the last comma the decimal mark.
		if len(s)-comma-1 == 3 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			head := strings.ReplaceAll(s[:comma], ",", "")
			s = head + "." + s[comma+1:]
		}
	case dot >= 0 && strings.Count(s, ".") > 1:
		// 1.234.567 style grouping.
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", value, err)
	}
	return d, nil
}

// MinorUnitScale returns the number of decimal digits of the currency's
// minor unit, e.g. 2 for USD and 0 for JPY. Unknown codes default to 2.
func MinorUnitScale(code string) int32 {
	unit, err := xcurrency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := xcurrency.Standard.Rounding(unit)
	return int32(scale)
}
