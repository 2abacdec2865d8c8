package aggregate

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/finsight-dev/finsight/internal/model"
)

// Bracket names an income range and its per-category spending targets as
// percentages of income.
type Bracket struct {
	Name string `yaml:"name"`
	// Max is the exclusive upper bound on declared income. A zero Max
	// marks the unbounded top bracket.
	Max     float64                    `yaml:"max_income"`
	Targets map[model.Category]float64 `yaml:"targets"`
}

// Target returns the bracket's target percentage for a category, 0 if the
// bracket has no entry for it.
func (b Bracket) Target(cat model.Category) decimal.Decimal {
	pct, ok := b.Targets[cat]
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(pct)
}

// Benchmarks is an ordered list of brackets with ascending upper bounds.
// Static reference data, immutable at runtime.
type Benchmarks struct {
	brackets []Bracket
}

// NewBenchmarks creates a Benchmarks table. Brackets must be ordered by
// ascending Max, unbounded bracket last.
func NewBenchmarks(brackets []Bracket) (*Benchmarks, error) {
	if len(brackets) == 0 {
		return nil, fmt.Errorf("at least one bracket is required")
	}
	return &Benchmarks{brackets: brackets}, nil
}

// Select returns the first bracket whose upper bound contains income.
// Income above every configured bound selects the top bracket, which also
// covers a declared income no bracket claims.
func (b *Benchmarks) Select(income decimal.Decimal) Bracket {
	for _, br := range b.brackets {
		if br.Max == 0 {
			continue
		}
		if income.LessThan(decimal.NewFromFloat(br.Max)) {
			return br
		}
	}
	return b.brackets[len(b.brackets)-1]
}

// Brackets returns the configured brackets in order.
func (b *Benchmarks) Brackets() []Bracket {
	return b.brackets
}

// LoadBenchmarks reads a bracket list from a YAML file.
func LoadBenchmarks(path string) (*Benchmarks, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading benchmarks: %w", err)
	}
	var brackets []Bracket
	if err := yaml.Unmarshal(data, &brackets); err != nil {
		return nil, fmt.Errorf("parsing benchmarks: %w", err)
	}
	return NewBenchmarks(brackets)
}

// DefaultBenchmarks returns the built-in three-bracket reference table.
func DefaultBenchmarks() *Benchmarks {
	b, _ := NewBenchmarks([]Bracket{
		{
			Name: "low_income",
			Max:  50000,
			Targets: map[model.Category]float64{
				model.CategoryHousing:        35,
				model.CategoryFood:           15,
				model.CategoryTransportation: 15,
				model.CategoryEntertainment:  5,
				model.CategoryShopping:       10,
				model.CategoryUtilities:      10,
				model.CategoryHealthcare:     5,
				model.CategoryOther:          5,
			},
		},
		{
			Name: "medium_income",
			Max:  100000,
			Targets: map[model.Category]float64{
				model.CategoryHousing:        30,
				model.CategoryFood:           12,
				model.CategoryTransportation: 12,
				model.CategoryEntertainment:  8,
				model.CategoryShopping:       15,
				model.CategoryUtilities:      8,
				model.CategoryHealthcare:     8,
				model.CategoryOther:          7,
			},
		},
		{
			Name: "high_income",
			Targets: map[model.Category]float64{
				model.CategoryHousing:        25,
				model.CategoryFood:           10,
				model.CategoryTransportation: 10,
				model.CategoryEntertainment:  12,
				model.CategoryShopping:       18,
				model.CategoryUtilities:      7,
				model.CategoryHealthcare:     10,
				model.CategoryOther:          8,
			},
		},
	})
	return b
}
