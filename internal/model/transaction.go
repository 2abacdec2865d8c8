package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one normalized financial event.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = expense, positive = income
	Category    Category
}

// Month returns the year+month bucket of the transaction date.
func (t Transaction) Month() Month {
	return MonthOf(t.Date)
}

// Month is a year+month bucket.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the Month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String formats as "2024-01".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}
