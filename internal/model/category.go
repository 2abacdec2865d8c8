package model

// Category is a spending category label.
type Category string

// Fixed category set. Trusted source-supplied categories may fall outside
// this set; aggregation treats them as their own bucket.
const (
	CategoryHousing        Category = "Housing"
	CategoryTransportation Category = "Transportation"
	CategoryFood           Category = "Food"
	CategoryUtilities      Category = "Utilities"
	CategoryHealthcare     Category = "Healthcare"
	CategoryEntertainment  Category = "Entertainment"
	CategoryShopping       Category = "Shopping"
	CategoryPersonal       Category = "Personal"
	CategoryEducation      Category = "Education"
	CategorySavings        Category = "Savings"
	CategoryIncome         Category = "Income"

	// CategoryOther is the sentinel assigned when no keyword rule matches
	// during fresh ingestion.
	CategoryOther Category = "Other"
	// CategoryUncategorized is the sentinel used when re-classifying
	// previously stored data.
	CategoryUncategorized Category = "Uncategorized"
)

// Categories lists the fixed label set in rule-table order.
func Categories() []Category {
	return []Category{
		CategoryHousing,
		CategoryTransportation,
		CategoryFood,
		CategoryUtilities,
		CategoryHealthcare,
		CategoryEntertainment,
		CategoryShopping,
		CategoryPersonal,
		CategoryEducation,
		CategorySavings,
		CategoryIncome,
		CategoryOther,
	}
}
