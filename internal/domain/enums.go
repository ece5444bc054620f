package domain

// Field identifies one extractable field of a bill record.
type Field string

const (
	FieldVendor   Field = "vendor"
	FieldDate     Field = "date"
	FieldAmount   Field = "amount"
	FieldCurrency Field = "currency"
	FieldCategory Field = "category"
	FieldLanguage Field = "language"
)

// AllFields lists every extractable field in a stable order.
var AllFields = []Field{
	FieldVendor,
	FieldDate,
	FieldAmount,
	FieldCurrency,
	FieldCategory,
	FieldLanguage,
}

// Valid reports whether f is a known field name.
func (f Field) Valid() bool {
	switch f {
	case FieldVendor, FieldDate, FieldAmount, FieldCurrency, FieldCategory, FieldLanguage:
		return true
	}
	return false
}

// Category is the closed spending-category set.
type Category string

const (
	CategoryUtilities       Category = "Utilities"
	CategoryCommunications  Category = "Communications"
	CategoryEntertainment   Category = "Entertainment"
	CategoryHealthcare      Category = "Healthcare"
	CategoryInsurance       Category = "Insurance"
	CategoryHousing         Category = "Housing"
	CategoryCreditCard      Category = "Credit Card"
	CategoryGroceries       Category = "Groceries"
	CategoryFood            Category = "Food"
	CategoryGas             Category = "Gas"
	CategoryShopping        Category = "Shopping"
	CategoryOnline          Category = "Online"
	CategoryWholesale       Category = "Wholesale"
	CategoryHomeImprovement Category = "Home Improvement"
	CategoryUncategorized   Category = "Uncategorized"
)

// AllCategories lists every category in the closed set.
var AllCategories = []Category{
	CategoryUtilities,
	CategoryCommunications,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryInsurance,
	CategoryHousing,
	CategoryCreditCard,
	CategoryGroceries,
	CategoryFood,
	CategoryGas,
	CategoryShopping,
	CategoryOnline,
	CategoryWholesale,
	CategoryHomeImprovement,
	CategoryUncategorized,
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Period is a calendar bucketing granularity for time-series rollups.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Valid reports whether p is a known bucketing period.
func (p Period) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// SortKey selects the field a record listing is ordered by.
type SortKey string

const (
	SortByAmount  SortKey = "amount"
	SortByDate    SortKey = "date"
	SortByVendor  SortKey = "vendor"
	SortByCreated SortKey = "created"
)

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	switch k {
	case SortByAmount, SortByDate, SortByVendor, SortByCreated:
		return true
	}
	return false
}

// Flag marks a non-fatal extraction or normalization condition on a field.
type Flag string

const (
	FlagAmbiguousDate  Flag = "ambiguous_date"
	FlagFutureDate     Flag = "future_date"
	FlagNegativeAmount Flag = "negative_amount"
	FlagNotFound       Flag = "not_found"
)
