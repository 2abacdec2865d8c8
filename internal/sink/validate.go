package sink

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
)

// ValidationError describes a single batch invariant violation.
type ValidationError struct {
	Row         int
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Description)
}

// ValidateBatch enforces the stored-schema invariants before commit:
// every row has a date, a non-empty category, and an amount with at most
// 2 decimal places.
func ValidateBatch(batch *model.Batch) []ValidationError {
	var errs []ValidationError

	hundred := decimal.NewFromInt(100)
	for i, txn := range batch.Transactions {
		if txn.Date.IsZero() {
			errs = append(errs, ValidationError{Row: i, Description: "missing date"})
		}
		if txn.Category == "" {
			errs = append(errs, ValidationError{Row: i, Description: "empty category"})
		}
		cents := txn.Amount.Mul(hundred)
		if !cents.Equal(cents.Truncate(0)) {
			errs = append(errs, ValidationError{
				Row:         i,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", txn.Amount),
			})
		}
	}
	return errs
}
