package normalizer

import (
	"strings"

	"billscan/internal/domain"
)

type categoryKeyword struct {
	keyword  string
	category domain.Category
}

// categoryKeywords maps lowercase keywords found in category hints or
// vendor names to the closed category set. First match wins, so more
// specific entries come before generic ones.
var categoryKeywords = []categoryKeyword{
	{"credit card", domain.CategoryCreditCard},
	{"home depot", domain.CategoryHomeImprovement},
	{"gas company", domain.CategoryUtilities},
	{"national grid", domain.CategoryUtilities},
	{"state farm", domain.CategoryInsurance},
	{"electric", domain.CategoryUtilities},
	{"water", domain.CategoryUtilities},
	{"sewer", domain.CategoryUtilities},
	{"utility", domain.CategoryUtilities},
	{"utilities", domain.CategoryUtilities},
	{"internet", domain.CategoryCommunications},
	{"wireless", domain.CategoryCommunications},
	{"phone", domain.CategoryCommunications},
	{"comcast", domain.CategoryCommunications},
	{"verizon", domain.CategoryCommunications},
	{"xfinity", domain.CategoryCommunications},
	{"cable", domain.CategoryEntertainment},
	{"directv", domain.CategoryEntertainment},
	{"streaming", domain.CategoryEntertainment},
	{"medical", domain.CategoryHealthcare},
	{"hospital", domain.CategoryHealthcare},
	{"pharmacy", domain.CategoryHealthcare},
	{"clinic", domain.CategoryHealthcare},
	{"health", domain.CategoryHealthcare},
	{"insurance", domain.CategoryInsurance},
	{"mortgage", domain.CategoryHousing},
	{"rent", domain.CategoryHousing},
	{"housing", domain.CategoryHousing},
	{"chase", domain.CategoryCreditCard},
	{"visa", domain.CategoryCreditCard},
	{"walmart", domain.CategoryGroceries},
	{"kroger", domain.CategoryGroceries},
	{"grocery", domain.CategoryGroceries},
	{"groceries", domain.CategoryGroceries},
	{"restaurant", domain.CategoryFood},
	{"starbucks", domain.CategoryFood},
	{"mcdonald", domain.CategoryFood},
	{"food", domain.CategoryFood},
	{"shell", domain.CategoryGas},
	{"exxon", domain.CategoryGas},
	{"fuel", domain.CategoryGas},
	{"target", domain.CategoryShopping},
	{"shopping", domain.CategoryShopping},
	{"amazon", domain.CategoryOnline},
	{"online", domain.CategoryOnline},
	{"costco", domain.CategoryWholesale},
	{"wholesale", domain.CategoryWholesale},
	{"hardware", domain.CategoryHomeImprovement},
}

// MapCategory resolves a free-text category hint (and, failing that, the
// vendor name) to the closed category set. An exact case-insensitive match
// against the set wins; then keyword lookup; then the configured fallback.
func MapCategory(hint, vendor string, fallback domain.Category) domain.Category {
	if hint != "" {
		for _, c := range domain.AllCategories {
			if strings.EqualFold(hint, string(c)) {
				return c
			}
		}
		if c, ok := keywordLookup(hint); ok {
			return c
		}
	}
	if vendor != "" {
		if c, ok := keywordLookup(vendor); ok {
			return c
		}
	}
	if fallback.Valid() {
		return fallback
	}
	return domain.CategoryUncategorized
}

func keywordLookup(text string) (domain.Category, bool) {
	lower := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.category, true
		}
	}
	return "", false
}
