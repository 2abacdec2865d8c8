package model

// RawRow is one source row keyed by column name, exactly as read from the
// artifact. Keys are matched case- and whitespace-insensitively during
// normalization.
type RawRow map[string]string

// RejectReason classifies why a row was dropped during normalization.
type RejectReason string

const (
	ReasonInvalidDate   RejectReason = "invalid_date"
	ReasonInvalidAmount RejectReason = "invalid_amount"
	ReasonMissingColumn RejectReason = "missing_required_column"
)

// Rejection records one dropped row: its zero-based index in the source
// artifact and the reason it was dropped.
type Rejection struct {
	Row    int
	Reason RejectReason
}

// Batch is the set of transactions derived from one ingested artifact,
// committed atomically. Transactions preserve source row order; every
// dropped row appears in Rejections.
type Batch struct {
	Artifact     string
	Transactions []Transaction
	Rejections   []Rejection
}

// RowCount returns the total number of source rows the batch accounts for.
func (b *Batch) RowCount() int {
	return len(b.Transactions) + len(b.Rejections)
}
