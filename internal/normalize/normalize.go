// Package normalize converts raw statement rows into canonical
// transactions. Normalization is pure: all diagnostics are returned to the
// caller, never logged here.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/categorize"
	"github.com/finsight-dev/finsight/internal/model"
)

// Accepted date layouts, tried in order. First successful parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
}

// Column aliases, matched case- and whitespace-insensitively.
var (
	dateAliases        = []string{"date", "transaction_date", "posting date"}
	descriptionAliases = []string{"description"}
	amountAliases      = []string{"amount", "transaction_amount"}
	debitAliases       = []string{"debit", "debit (-)"}
	creditAliases      = []string{"credit", "credit (+)"}
	categoryAliases    = []string{"category"}
)

// RowError is a per-row rejection. It is a value to collect, not a fatal
// condition.
type RowError struct {
	Reason model.RejectReason
	Detail string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// Normalizer resolves column aliases, date formats, and the sign
// convention, delegating category assignment to the classifier when the
// source row does not supply one.
type Normalizer struct {
	classifier *categorize.Classifier
}

// New creates a Normalizer.
func New(classifier *categorize.Classifier) *Normalizer {
	return &Normalizer{classifier: classifier}
}

// Normalize converts a raw row into a Transaction. On failure it returns a
// *RowError carrying the rejection reason.
func (n *Normalizer) Normalize(row model.RawRow) (model.Transaction, error) {
	cols := foldColumns(row)

	dateStr, dateOK := cols.lookup(dateAliases)
	if !dateOK {
		return model.Transaction{}, &RowError{Reason: model.ReasonMissingColumn, Detail: "no date column"}
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return model.Transaction{}, &RowError{Reason: model.ReasonInvalidDate, Detail: fmt.Sprintf("date %q", dateStr)}
	}

	amount, err := resolveAmount(cols)
	if err != nil {
		return model.Transaction{}, err
	}

	desc, _ := cols.lookup(descriptionAliases)
	desc = strings.TrimSpace(desc)

	category := model.Category("")
	if raw, ok := cols.lookup(categoryAliases); ok && strings.TrimSpace(raw) != "" {
		// Source-supplied category is trusted verbatim.
		category = model.Category(strings.TrimSpace(raw))
	} else {
		category = n.classifier.Classify(desc)
	}

	return model.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Category:    category,
	}, nil
}

// columns maps folded (lowercased, trimmed) column names to values.
type columns map[string]string

func foldColumns(row model.RawRow) columns {
	cols := make(columns, len(row))
	for k, v := range row {
		cols[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return cols
}

func (c columns) lookup(aliases []string) (string, bool) {
	for _, a := range aliases {
		if v, ok := c[a]; ok {
			return v, true
		}
	}
	return "", false
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// resolveAmount applies the sign convention. An explicit amount column
// takes precedence over a debit/credit pair; a debit-only value is
// negated, a credit-only value is kept positive.
func resolveAmount(cols columns) (decimal.Decimal, error) {
	amountStr, hasAmount := cols.lookup(amountAliases)
	debitStr, hasDebit := cols.lookup(debitAliases)
	creditStr, hasCredit := cols.lookup(creditAliases)

	if !hasAmount && !hasDebit && !hasCredit {
		return decimal.Decimal{}, &RowError{Reason: model.ReasonMissingColumn, Detail: "no amount or debit/credit column"}
	}

	if hasAmount && strings.TrimSpace(amountStr) != "" {
		amt, err := parseMoney(amountStr)
		if err != nil {
			return decimal.Decimal{}, &RowError{Reason: model.ReasonInvalidAmount, Detail: fmt.Sprintf("amount %q", amountStr)}
		}
		return amt, nil
	}

	switch {
	case strings.TrimSpace(debitStr) != "":
		amt, err := parseMoney(debitStr)
		if err != nil {
			return decimal.Decimal{}, &RowError{Reason: model.ReasonInvalidAmount, Detail: fmt.Sprintf("debit %q", debitStr)}
		}
		return amt.Neg(), nil
	case strings.TrimSpace(creditStr) != "":
		amt, err := parseMoney(creditStr)
		if err != nil {
			return decimal.Decimal{}, &RowError{Reason: model.ReasonInvalidAmount, Detail: fmt.Sprintf("credit %q", creditStr)}
		}
		return amt, nil
	}

	return decimal.Decimal{}, &RowError{Reason: model.ReasonInvalidAmount, Detail: "empty amount and debit/credit"}
}

// parseMoney strips currency symbols and thousands separators before
// parsing.
func parseMoney(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', ',', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	return decimal.NewFromString(cleaned)
}
