package rules

import "billscan/internal/domain"

// amountValue matches a currency amount with optional thousands separators,
// e.g. 48.00, 1,234.56 or 1.234,56.
const amountValue = `(-?[0-9][0-9.,]*[0-9]|-?[0-9])`

const currencyMark = `[$€£¥₹]?\s*`

// DefaultRules returns the built-in detection rule set. Labeled rules carry
// higher weights than generic ones so an authoritative "BALANCE DUE: $X"
// outranks an incidental amount found anywhere in the text. Deployments
// extend or replace these via a TOML rules file without code changes.
func DefaultRules() []Rule {
	return []Rule{
		// Amount: totals anchored to an explicit label win.
		{ID: "amount.labeled.balance-due", Field: domain.FieldAmount, Weight: 0.95,
			Pattern: `(?i)balance\s*due[:\s]*` + currencyMark + amountValue},
		{ID: "amount.labeled.total-due", Field: domain.FieldAmount, Weight: 0.95,
			Pattern: `(?i)total\s+(?:amount\s+)?due[:\s]*` + currencyMark + amountValue},
		{ID: "amount.labeled.new-balance", Field: domain.FieldAmount, Weight: 0.9,
			Pattern: `(?i)new\s+balance[:\s]*` + currencyMark + amountValue},
		{ID: "amount.labeled.amount", Field: domain.FieldAmount, Weight: 0.85,
			Pattern: `(?i)\bamount[:\s]+` + currencyMark + amountValue},
		{ID: "amount.labeled.total", Field: domain.FieldAmount, Weight: 0.8,
			Pattern: `(?i)\btotal[:\s]+` + currencyMark + amountValue},
		{ID: "amount.generic.symbol", Field: domain.FieldAmount, Weight: 0.5,
			Pattern: `[$€£¥₹]\s*` + amountValue},

		// Date: a labeled date beats bare date-shaped tokens.
		{ID: "date.labeled", Field: domain.FieldDate, Weight: 0.9,
			Pattern: `(?i)\bdate[:\s]+([0-9]{4}-[0-9]{2}-[0-9]{2}|[0-9]{1,2}[/.-][0-9]{1,2}[/.-][0-9]{2,4}|[A-Za-z]+\s+[0-9]{1,2},\s*[0-9]{4})`},
		{ID: "date.generic.iso", Field: domain.FieldDate, Weight: 0.6,
			Pattern: `\b([0-9]{4}-[0-9]{2}-[0-9]{2})\b`},
		{ID: "date.generic.longform", Field: domain.FieldDate, Weight: 0.55,
			Pattern: `\b((?:January|February|March|April|May|June|July|August|September|October|November|December)\s+[0-9]{1,2},\s*[0-9]{4})\b`},
		{ID: "date.generic.numeric", Field: domain.FieldDate, Weight: 0.5,
			Pattern: `\b([0-9]{1,2}[/-][0-9]{1,2}[/-][0-9]{2,4})\b`},

		// Vendor: explicit label, then known chains, then the first line.
		{ID: "vendor.labeled", Field: domain.FieldVendor, Weight: 0.95,
			Pattern: `(?im)^\s*vendor[:\s]+(\S[^\r\n]*?)\s*$`},
		{ID: "vendor.known.walmart", Field: domain.FieldVendor, Weight: 0.7, Canonical: "Walmart",
			Pattern: `(?i)walmart|supercenter`},
		{ID: "vendor.known.target", Field: domain.FieldVendor, Weight: 0.7, Canonical: "Target",
			Pattern: `(?i)\btarget\b`},
		{ID: "vendor.known.amazon", Field: domain.FieldVendor, Weight: 0.7, Canonical: "Amazon",
			Pattern: `(?i)\bamazon\b`},
		{ID: "vendor.known.costco", Field: domain.FieldVendor, Weight: 0.7, Canonical: "Costco",
			Pattern: `(?i)\bcostco\b`},
		{ID: "vendor.known.starbucks", Field: domain.FieldVendor, Weight: 0.7, Canonical: "Starbucks",
			Pattern: `(?i)\bstarbucks\b`},
		{ID: "vendor.known.mcdonalds", Field: domain.FieldVendor, Weight: 0.7, Canonical: "McDonald's",
			Pattern: `(?i)mcdonald'?s`},
		{ID: "vendor.known.shell", Field: domain.FieldVendor, Weight: 0.7, Canonical: "Shell",
			Pattern: `(?i)\bshell\b`},
		{ID: "vendor.known.exxon", Field: domain.FieldVendor, Weight: 0.7, Canonical: "Exxon",
			Pattern: `(?i)\bexxon\b`},
		{ID: "vendor.known.kroger", Field: domain.FieldVendor, Weight: 0.7, Canonical: "Kroger",
			Pattern: `(?i)\bkroger\b`},
		{ID: "vendor.known.home-depot", Field: domain.FieldVendor, Weight: 0.7, Canonical: "Home Depot",
			Pattern: `(?i)home\s*depot`},
		{ID: "vendor.generic.first-line", Field: domain.FieldVendor, Weight: 0.3,
			Pattern: `\A\s*([A-Za-z][^\r\n]{2,59}?)\s*(?:\r?\n|\z)`},

		// Category and currency labels as printed on structured bills.
		{ID: "category.labeled", Field: domain.FieldCategory, Weight: 0.95,
			Pattern: `(?im)^\s*category[:\s]+([A-Za-z][A-Za-z &/-]*?)\s*$`},
		{ID: "currency.labeled", Field: domain.FieldCurrency, Weight: 0.95,
			Pattern: `(?i)\bcurrency[:\s]+([A-Z]{3})\b`},
	}
}

// DefaultSet compiles DefaultRules. It panics only on a programming error in
// the built-in patterns, so it is safe to call at startup.
func DefaultSet() *Set {
	set, err := NewSet(DefaultRules())
	if err != nil {
		panic(err)
	}
	return set
}
