package aggregate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-dev/finsight/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func txn(y, m, d int, desc, amount string, cat model.Category) model.Transaction {
	return model.Transaction{Date: date(y, m, d), Description: desc, Amount: dec(amount), Category: cat}
}

func TestAggregate_SingleMonth(t *testing.T) {
	txns := []model.Transaction{
		txn(2024, 1, 5, "Shell Gas Station", "-40.00", model.CategoryTransportation),
		txn(2024, 1, 15, "Salary Deposit", "5000.00", model.CategoryIncome),
	}

	res, err := Aggregate(txns, dec("5000"), DefaultBenchmarks())
	require.NoError(t, err)

	assert.Equal(t, 1, res.MonthsObserved)
	assert.True(t, res.TotalExpense.Equal(dec("40.00")), "expense %s", res.TotalExpense)
	assert.True(t, res.TotalIncome.Equal(dec("5000")), "income %s", res.TotalIncome)
	assert.True(t, res.NetSavings.Equal(dec("4960.00")), "net %s", res.NetSavings)

	require.Len(t, res.Categories, 1)
	cat := res.Categories[0]
	assert.Equal(t, model.CategoryTransportation, cat.Category)
	assert.True(t, cat.Total.Equal(dec("40.00")))
	assert.True(t, cat.Percent.Equal(dec("100")), "sole spend category takes the full share")
	assert.True(t, cat.MonthlyAvg.Equal(dec("40.00")))
}

func TestAggregate_MonthTotalsReconcile(t *testing.T) {
	txns := []model.Transaction{
		txn(2024, 1, 2, "Rent Payment", "-1800.00", model.CategoryHousing),
		txn(2024, 1, 8, "Grocery Store", "-120.57", model.CategoryFood),
		txn(2024, 1, 15, "Salary Deposit", "5000.00", model.CategoryIncome),
		txn(2024, 2, 2, "Rent Payment", "-1800.00", model.CategoryHousing),
		txn(2024, 2, 20, "Refund", "12.43", model.CategoryShopping),
	}

	res, err := Aggregate(txns, dec("5000"), DefaultBenchmarks())
	require.NoError(t, err)

	require.Equal(t, 2, res.MonthsObserved)
	require.Equal(t, []model.Month{
		{Year: 2024, Month: time.January},
		{Year: 2024, Month: time.February},
	}, res.Months)

	jan := res.ByMonth[model.Month{Year: 2024, Month: time.January}]
	assert.True(t, jan.Expense.Equal(dec("1920.57")))
	assert.True(t, jan.Income.Equal(dec("5000.00")))
	assert.True(t, jan.Net.Equal(jan.Income.Sub(jan.Expense)))

	feb := res.ByMonth[model.Month{Year: 2024, Month: time.February}]
	assert.True(t, feb.Expense.Equal(dec("1800.00")))
	assert.True(t, feb.Income.Equal(dec("12.43")), "positive amounts count as observed income")

	// Category totals reconcile with the overall expense to the cent.
	sum := decimal.Zero
	for _, c := range res.Categories {
		sum = sum.Add(c.Total)
	}
	assert.True(t, sum.Equal(res.TotalExpense), "sum %s total %s", sum, res.TotalExpense)

	assert.True(t, res.TotalIncome.Equal(dec("10000")), "declared income times observed months")
	assert.True(t, res.NetSavings.Equal(res.TotalIncome.Sub(res.TotalExpense)))
}

func TestAggregate_CategoriesSortedBySpendDescending(t *testing.T) {
	txns := []model.Transaction{
		txn(2024, 1, 2, "Rent Payment", "-1800.00", model.CategoryHousing),
		txn(2024, 1, 5, "Shell Gas Station", "-40.00", model.CategoryTransportation),
		txn(2024, 1, 8, "Grocery Store", "-300.00", model.CategoryFood),
	}

	res, err := Aggregate(txns, dec("5000"), DefaultBenchmarks())
	require.NoError(t, err)

	require.Len(t, res.Categories, 3)
	assert.Equal(t, model.CategoryHousing, res.Categories[0].Category)
	assert.Equal(t, model.CategoryFood, res.Categories[1].Category)
	assert.Equal(t, model.CategoryTransportation, res.Categories[2].Category)
}

func TestAggregate_NoData(t *testing.T) {
	_, err := Aggregate(nil, dec("5000"), DefaultBenchmarks())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestAggregate_DeltasCoverBothSides(t *testing.T) {
	// Only Transportation spend; the bracket table still contributes its
	// other categories with a zero user share.
	txns := []model.Transaction{
		txn(2024, 1, 5, "Shell Gas Station", "-40.00", model.CategoryTransportation),
	}

	res, err := Aggregate(txns, dec("4000"), DefaultBenchmarks())
	require.NoError(t, err)
	assert.Equal(t, "low_income", res.Bracket.Name)

	byCat := make(map[model.Category]BenchmarkDelta)
	for _, d := range res.Deltas {
		byCat[d.Category] = d
	}

	transport := byCat[model.CategoryTransportation]
	assert.True(t, transport.User.Equal(dec("100")))
	assert.True(t, transport.Target.Equal(dec("15")))
	assert.True(t, transport.Delta.Equal(dec("85")))

	housing := byCat[model.CategoryHousing]
	assert.True(t, housing.User.IsZero())
	assert.True(t, housing.Target.Equal(dec("35")))
	assert.True(t, housing.Delta.Equal(dec("-35")))
}

func TestSelect_BracketByDeclaredIncome(t *testing.T) {
	b := DefaultBenchmarks()

	tests := []struct {
		income string
		want   string
	}{
		{"0", "low_income"},
		{"49999.99", "low_income"},
		{"50000", "medium_income"},
		{"99999.99", "medium_income"},
		{"100000", "high_income"},
		{"1000000", "high_income"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Select(dec(tt.income)).Name, "income %s", tt.income)
	}
}

func TestNewBenchmarks_RequiresBrackets(t *testing.T) {
	_, err := NewBenchmarks(nil)
	assert.Error(t, err)
}

func TestBracketTarget_MissingCategoryIsZero(t *testing.T) {
	b := Bracket{Targets: map[model.Category]float64{model.CategoryFood: 12}}
	assert.True(t, b.Target(model.CategoryFood).Equal(dec("12")))
	assert.True(t, b.Target(model.CategoryEducation).IsZero())
}

func TestLoadBenchmarks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmarks.yaml")
	content := `- name: starter
  max_income: 30000
  targets:
    Housing: 40
    Food: 20
- name: top
  targets:
    Housing: 25
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	b, err := LoadBenchmarks(path)
	require.NoError(t, err)
	require.Len(t, b.Brackets(), 2)
	assert.Equal(t, "starter", b.Select(dec("20000")).Name)
	assert.Equal(t, "top", b.Select(dec("45000")).Name)
	assert.True(t, b.Brackets()[0].Target(model.CategoryHousing).Equal(dec("40")))
}
