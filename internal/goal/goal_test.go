package goal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-dev/finsight/internal/aggregate"
	"github.com/finsight-dev/finsight/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func aggregated(t *testing.T, income string, txns []model.Transaction) *aggregate.Result {
	t.Helper()
	res, err := aggregate.Aggregate(txns, dec(income), aggregate.DefaultBenchmarks())
	require.NoError(t, err)
	return res
}

func singleMonthTxns() []model.Transaction {
	return []model.Transaction{
		{
			Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Description: "Shell Gas Station",
			Amount:      dec("-40.00"),
			Category:    model.CategoryTransportation,
		},
	}
}

func TestTrack_NetSavingsFromDeclaredIncome(t *testing.T) {
	res := aggregated(t, "5000", singleMonthTxns())

	p := Track(res, dec("10000"))
	assert.True(t, p.NetSavings.Equal(dec("4960.00")), "net %s", p.NetSavings)
	assert.True(t, p.Fraction.Equal(dec("0.496")), "fraction %s", p.Fraction)
	assert.False(t, p.Achieved)
}

func TestTrack_AchievedClampsToOne(t *testing.T) {
	res := aggregated(t, "5000", singleMonthTxns())

	p := Track(res, dec("1000"))
	assert.True(t, p.Fraction.Equal(dec("1")))
	assert.True(t, p.Achieved)
}

func TestTrack_NegativeNetClampsToZero(t *testing.T) {
	txns := []model.Transaction{
		{
			Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Description: "Rent Payment",
			Amount:      dec("-1800.00"),
			Category:    model.CategoryHousing,
		},
	}
	res := aggregated(t, "1000", txns)

	p := Track(res, dec("500"))
	assert.True(t, p.NetSavings.IsNegative())
	assert.True(t, p.Fraction.IsZero())
	assert.False(t, p.Achieved)
}

func TestTrack_ZeroGoalIsAchieved(t *testing.T) {
	res := aggregated(t, "5000", singleMonthTxns())

	p := Track(res, decimal.Zero)
	assert.True(t, p.Fraction.Equal(dec("1")))
	assert.True(t, p.Achieved)
}

func TestTrack_CategoryTargets(t *testing.T) {
	res := aggregated(t, "4000", singleMonthTxns())
	require.Equal(t, "low_income", res.Bracket.Name)

	p := Track(res, dec("10000"))
	require.NotEmpty(t, p.Targets)

	byCat := make(map[model.Category]CategoryTarget)
	for _, ct := range p.Targets {
		byCat[ct.Category] = ct
	}

	// Transportation target is 15% of 4000 = 600; 40 spent is under.
	transport := byCat[model.CategoryTransportation]
	assert.True(t, transport.Target.Equal(dec("600")), "target %s", transport.Target)
	assert.True(t, transport.MonthlyAvg.Equal(dec("40.00")))
	assert.True(t, transport.Delta.Equal(dec("-560.00")))
	assert.False(t, transport.Over)

	// No housing spend; still reported against its target.
	housing := byCat[model.CategoryHousing]
	assert.True(t, housing.MonthlyAvg.IsZero())
	assert.True(t, housing.Target.Equal(dec("1400")))
	assert.False(t, housing.Over)
}

func TestTrack_OverTarget(t *testing.T) {
	txns := []model.Transaction{
		{
			Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Description: "Rent Payment",
			Amount:      dec("-2500.00"),
			Category:    model.CategoryHousing,
		},
	}
	res := aggregated(t, "4000", txns)

	p := Track(res, dec("1000"))
	var housing CategoryTarget
	for _, ct := range p.Targets {
		if ct.Category == model.CategoryHousing {
			housing = ct
		}
	}
	// 2500 spent against a 35% of 4000 = 1400 target.
	assert.True(t, housing.Over)
	assert.True(t, housing.Delta.Equal(dec("1100.00")))
}
