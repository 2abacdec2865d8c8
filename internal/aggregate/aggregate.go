// Package aggregate computes monthly and category summaries from a
// transaction collection, compared against income-bracket benchmarks.
// Aggregation is a pure function of its inputs: nothing is cached or
// persisted, and the result is recomputed on demand.
package aggregate

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
)

// ErrNoData is returned when the transaction set contains no observed
// months, so percentages and averages are undefined.
var ErrNoData = errors.New("no observed months in transaction set")

// MonthTotals holds the income, expense, and net totals for one month.
type MonthTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// CategorySummary holds per-category spend totals.
type CategorySummary struct {
	Category   model.Category
	Total      decimal.Decimal
	Percent    decimal.Decimal // share of total expense, 0-100
	MonthlyAvg decimal.Decimal
}

// BenchmarkDelta compares the user's category share of spend to the
// bracket target. A category missing on either side contributes 0%.
type BenchmarkDelta struct {
	Category model.Category
	User     decimal.Decimal
	Target   decimal.Decimal
	Delta    decimal.Decimal // User - Target
}

// Result is the aggregation output. Owned by the caller, never cached
// across input changes.
type Result struct {
	DeclaredIncome decimal.Decimal
	MonthsObserved int
	Months         []model.Month // ascending
	ByMonth        map[model.Month]MonthTotals

	// TotalIncome is declared income x observed months. Declared income is
	// authoritative over rows tagged as income, because statements often
	// under-report income transactions.
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetSavings   decimal.Decimal

	Categories []CategorySummary // by total spend, descending
	Bracket    Bracket
	Deltas     []BenchmarkDelta // by category name
}

// Aggregate computes the summary for a transaction collection. The
// benchmark bracket is selected by declared income. Returns ErrNoData when
// no month is observed.
func Aggregate(txns []model.Transaction, declaredIncome decimal.Decimal, benchmarks *Benchmarks) (*Result, error) {
	byMonth := make(map[model.Month]MonthTotals)
	catTotals := make(map[model.Category]decimal.Decimal)
	totalExpense := decimal.Zero

	for _, txn := range txns {
		m := txn.Month()
		totals := byMonth[m]
		if txn.Amount.IsNegative() {
			spend := txn.Amount.Abs()
			totals.Expense = totals.Expense.Add(spend)
			totalExpense = totalExpense.Add(spend)
			catTotals[txn.Category] = catTotals[txn.Category].Add(spend)
		} else {
			totals.Income = totals.Income.Add(txn.Amount)
		}
		totals.Net = totals.Income.Sub(totals.Expense)
		byMonth[m] = totals
	}

	if len(byMonth) == 0 {
		return nil, ErrNoData
	}

	months := make([]model.Month, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	monthCount := decimal.NewFromInt(int64(len(months)))
	totalIncome := declaredIncome.Mul(monthCount)
	hundred := decimal.NewFromInt(100)

	categories := make([]CategorySummary, 0, len(catTotals))
	for cat, total := range catTotals {
		summary := CategorySummary{
			Category:   cat,
			Total:      total,
			MonthlyAvg: total.Div(monthCount),
		}
		if totalExpense.IsPositive() {
			summary.Percent = total.Mul(hundred).Div(totalExpense)
		}
		categories = append(categories, summary)
	}
	sort.Slice(categories, func(i, j int) bool {
		if !categories[i].Total.Equal(categories[j].Total) {
			return categories[i].Total.GreaterThan(categories[j].Total)
		}
		return categories[i].Category < categories[j].Category
	})

	bracket := benchmarks.Select(declaredIncome)

	return &Result{
		DeclaredIncome: declaredIncome,
		MonthsObserved: len(months),
		Months:         months,
		ByMonth:        byMonth,
		TotalIncome:    totalIncome,
		TotalExpense:   totalExpense,
		NetSavings:     totalIncome.Sub(totalExpense),
		Categories:     categories,
		Bracket:        bracket,
		Deltas:         benchmarkDeltas(categories, bracket),
	}, nil
}

// benchmarkDeltas covers every category present in either the user's
// spend or the bracket table.
func benchmarkDeltas(categories []CategorySummary, bracket Bracket) []BenchmarkDelta {
	userPct := make(map[model.Category]decimal.Decimal, len(categories))
	for _, c := range categories {
		userPct[c.Category] = c.Percent
	}

	seen := make(map[model.Category]bool)
	var cats []model.Category
	for cat := range userPct {
		if !seen[cat] {
			seen[cat] = true
			cats = append(cats, cat)
		}
	}
	for cat := range bracket.Targets {
		if !seen[cat] {
			seen[cat] = true
			cats = append(cats, cat)
		}
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	deltas := make([]BenchmarkDelta, 0, len(cats))
	for _, cat := range cats {
		user := userPct[cat] // zero when absent
		target := bracket.Target(cat)
		deltas = append(deltas, BenchmarkDelta{
			Category: cat,
			User:     user,
			Target:   target,
			Delta:    user.Sub(target),
		})
	}
	return deltas
}
