package categorize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/finsight-dev/finsight/internal/model"
)

// DefaultRules returns the built-in keyword table. Order matters:
// Transportation precedes Utilities, so "gas" classifies as
// Transportation.
func DefaultRules() []Rule {
	return []Rule{
		{Category: model.CategoryHousing, Keywords: []string{
			"rent", "mortgage", "property tax", "home insurance", "maintenance", "repairs",
		}},
		{Category: model.CategoryTransportation, Keywords: []string{
			"gas", "fuel", "car payment", "car insurance", "parking", "public transit", "uber", "lyft",
		}},
		{Category: model.CategoryFood, Keywords: []string{
			"groceries", "grocery", "restaurant", "takeout", "delivery", "coffee",
		}},
		// "gas" also appears here (natural gas bills); Transportation wins
		// the overlap because it comes first.
		{Category: model.CategoryUtilities, Keywords: []string{
			"electricity", "electric", "water", "gas", "internet", "phone", "cable",
		}},
		{Category: model.CategoryHealthcare, Keywords: []string{
			"medical", "dental", "vision", "prescription", "pharmacy", "insurance",
		}},
		{Category: model.CategoryEntertainment, Keywords: []string{
			"movies", "movie", "music", "streaming", "hobbies", "sports", "concert",
		}},
		{Category: model.CategoryShopping, Keywords: []string{
			"clothing", "electronics", "home goods", "amazon", "target", "walmart",
		}},
		{Category: model.CategoryPersonal, Keywords: []string{
			"haircut", "gym", "beauty", "spa",
		}},
		{Category: model.CategoryEducation, Keywords: []string{
			"tuition", "books", "courses", "supplies",
		}},
		{Category: model.CategorySavings, Keywords: []string{
			"investment", "401k", "ira", "savings deposit",
		}},
		{Category: model.CategoryIncome, Keywords: []string{
			"salary", "bonus", "interest", "dividend", "refund",
		}},
	}
}

// LoadRules reads an ordered rule table from a YAML file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	for i, r := range rules {
		if r.Category == "" {
			return nil, fmt.Errorf("rule %d: missing category", i)
		}
	}
	return rules, nil
}

// SaveRules writes a rule table to a YAML file.
func SaveRules(path string, rules []Rule) error {
	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
