package normalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-dev/finsight/internal/categorize"
	"github.com/finsight-dev/finsight/internal/model"
)

func newNormalizer() *Normalizer {
	return New(categorize.New(categorize.DefaultRules()))
}

func reason(t *testing.T, err error) model.RejectReason {
	t.Helper()
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr), "expected *RowError, got %v", err)
	return rowErr.Reason
}

func TestNormalize_SignedAmountColumn(t *testing.T) {
	n := newNormalizer()

	txn, err := n.Normalize(model.RawRow{
		"date":        "2024-01-05",
		"description": "Shell Gas Station",
		"amount":      "-40.00",
	})
	require.NoError(t, err)
	assert.Equal(t, "-40.00", txn.Amount.StringFixed(2))
	assert.Equal(t, model.CategoryTransportation, txn.Category)
	assert.Equal(t, 2024, txn.Date.Year())
	assert.Equal(t, 1, int(txn.Date.Month()))
	assert.Equal(t, 5, txn.Date.Day())
}

func TestNormalize_DebitCreditConvention(t *testing.T) {
	n := newNormalizer()

	debit, err := n.Normalize(model.RawRow{
		"Date": "2024-01-05", "Description": "Coffee Shop", "Debit (-)": "50.00", "Credit (+)": "",
	})
	require.NoError(t, err)
	assert.Equal(t, "-50.00", debit.Amount.StringFixed(2))

	credit, err := n.Normalize(model.RawRow{
		"Date": "2024-01-06", "Description": "Salary Deposit", "Debit (-)": "", "Credit (+)": "50.00",
	})
	require.NoError(t, err)
	assert.Equal(t, "50.00", credit.Amount.StringFixed(2))
}

func TestNormalize_ExplicitAmountBeatsDebitCredit(t *testing.T) {
	n := newNormalizer()

	txn, err := n.Normalize(model.RawRow{
		"date": "2024-01-05", "description": "x", "amount": "-12.00", "debit": "99.00", "credit": "",
	})
	require.NoError(t, err)
	assert.Equal(t, "-12.00", txn.Amount.StringFixed(2))
}

func TestNormalize_ColumnAliasFolding(t *testing.T) {
	n := newNormalizer()

	txn, err := n.Normalize(model.RawRow{
		"  DATE ": "2024-03-01", " Description": "Rent Payment", "AMOUNT": "-1800.00",
	})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryHousing, txn.Category)
}

func TestNormalize_DateFormats(t *testing.T) {
	n := newNormalizer()

	iso, err := n.Normalize(model.RawRow{"date": "2024-01-15", "amount": "-1.00"})
	require.NoError(t, err)
	us, err := n.Normalize(model.RawRow{"date": "01/15/2024", "amount": "-1.00"})
	require.NoError(t, err)
	assert.True(t, iso.Date.Equal(us.Date))
}

func TestNormalize_CurrencySymbolsAndSeparators(t *testing.T) {
	n := newNormalizer()

	txn, err := n.Normalize(model.RawRow{
		"date": "2024-01-15", "description": "Rent Payment", "amount": "-$1,800.00",
	})
	require.NoError(t, err)
	assert.Equal(t, "-1800.00", txn.Amount.StringFixed(2))
}

func TestNormalize_TrustedCategoryPassesVerbatim(t *testing.T) {
	n := newNormalizer()

	txn, err := n.Normalize(model.RawRow{
		"date": "2024-01-15", "description": "Shell Gas Station", "amount": "-40.00", "category": "Commuting",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Category("Commuting"), txn.Category)
}

func TestNormalize_EmptyCategoryDelegatesToClassifier(t *testing.T) {
	n := newNormalizer()

	txn, err := n.Normalize(model.RawRow{
		"date": "2024-01-15", "description": "Shell Gas Station", "amount": "-40.00", "category": "  ",
	})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryTransportation, txn.Category)
}

func TestNormalize_EmptyDescriptionYieldsSentinel(t *testing.T) {
	n := newNormalizer()

	txn, err := n.Normalize(model.RawRow{"date": "2024-01-15", "amount": "-40.00"})
	require.NoError(t, err)
	assert.Empty(t, txn.Description)
	assert.Equal(t, model.CategoryOther, txn.Category)
}

func TestNormalize_Rejections(t *testing.T) {
	n := newNormalizer()

	tests := []struct {
		name string
		row  model.RawRow
		want model.RejectReason
	}{
		{"no date column", model.RawRow{"amount": "-1.00"}, model.ReasonMissingColumn},
		{"unparseable date", model.RawRow{"date": "Jan 5", "amount": "-1.00"}, model.ReasonInvalidDate},
		{"empty date", model.RawRow{"date": "", "amount": "-1.00"}, model.ReasonInvalidDate},
		{"no amount columns", model.RawRow{"date": "2024-01-05"}, model.ReasonMissingColumn},
		{"both debit and credit empty", model.RawRow{"date": "2024-01-05", "debit": "", "credit": ""}, model.ReasonInvalidAmount},
		{"unparseable amount", model.RawRow{"date": "2024-01-05", "amount": "forty"}, model.ReasonInvalidAmount},
		{"unparseable debit", model.RawRow{"date": "2024-01-05", "debit": "forty", "credit": ""}, model.ReasonInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.row)
			require.Error(t, err)
			assert.Equal(t, tt.want, reason(t, err))
		})
	}
}

func TestNormalize_ZeroAmountKeptWhenReported(t *testing.T) {
	n := newNormalizer()

	txn, err := n.Normalize(model.RawRow{"date": "2024-01-05", "amount": "0.00"})
	require.NoError(t, err)
	assert.True(t, txn.Amount.IsZero())
}
