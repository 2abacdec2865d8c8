// Package goal computes savings-goal progress and per-category targets
// from an aggregation result. Pure and stateless.
package goal

import (
	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/aggregate"
	"github.com/finsight-dev/finsight/internal/model"
)

// CategoryTarget compares a category's monthly average spend to the
// bracket target amount for the declared income.
type CategoryTarget struct {
	Category   model.Category
	MonthlyAvg decimal.Decimal
	Target     decimal.Decimal // declared income x benchmark% / 100
	Delta      decimal.Decimal // MonthlyAvg - Target
	Over       bool
}

// Progress is the goal-tracking output.
type Progress struct {
	NetSavings decimal.Decimal
	Goal       decimal.Decimal
	// Fraction is progress toward the goal clamped to [0, 1]. A zero goal
	// is treated as already achieved.
	Fraction decimal.Decimal
	Achieved bool
	Targets  []CategoryTarget // bracket categories, by name
}

// Track computes goal progress for an aggregation result and a declared
// savings goal.
func Track(res *aggregate.Result, savingsGoal decimal.Decimal) Progress {
	net := res.DeclaredIncome.Mul(decimal.NewFromInt(int64(res.MonthsObserved))).Sub(res.TotalExpense)

	p := Progress{
		NetSavings: net,
		Goal:       savingsGoal,
	}

	if savingsGoal.IsZero() {
		p.Fraction = decimal.NewFromInt(1)
	} else {
		p.Fraction = clamp01(net.Div(savingsGoal))
	}
	p.Achieved = p.Fraction.Equal(decimal.NewFromInt(1))

	hundred := decimal.NewFromInt(100)
	avgByCat := make(map[model.Category]decimal.Decimal, len(res.Categories))
	for _, c := range res.Categories {
		avgByCat[c.Category] = c.MonthlyAvg
	}
	for _, d := range res.Deltas {
		target := res.DeclaredIncome.Mul(d.Target).Div(hundred)
		avg := avgByCat[d.Category] // zero when no spend
		p.Targets = append(p.Targets, CategoryTarget{
			Category:   d.Category,
			MonthlyAvg: avg,
			Target:     target,
			Delta:      avg.Sub(target),
			Over:       avg.GreaterThan(target),
		})
	}
	return p
}

func clamp01(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	one := decimal.NewFromInt(1)
	if d.GreaterThan(one) {
		return one
	}
	return d
}
