package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/finsight-dev/finsight/internal/model"
)

// Source reads raw rows out of an artifact. External extractors (e.g. a
// PDF table extractor) plug in here by honoring the same RawRow contract
// as CSV.
type Source interface {
	Rows(r io.Reader) ([]model.RawRow, error)
	Format() string
}

// Registry holds named sources.
type Registry struct {
	sources map[string]Source
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds a source. Panics on duplicate format.
func (r *Registry) Register(s Source) {
	key := strings.ToLower(s.Format())
	if _, ok := r.sources[key]; ok {
		panic("duplicate source format: " + key)
	}
	r.sources[key] = s
}

// Get returns the source for format, or nil.
func (r *Registry) Get(format string) Source {
	return r.sources[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in sources.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVSource{})
	return r
}

// CSVSource reads a UTF-8 CSV with a required header row. Column naming is
// arbitrary; alias resolution happens downstream in the normalizer.
type CSVSource struct{}

// Format returns the source name.
func (s *CSVSource) Format() string { return "csv" }

// Rows reads all records and returns them keyed by header name, in source
// order. Short records leave trailing columns absent.
func (s *CSVSource) Rows(r io.Reader) ([]model.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	header := records[0]
	var rows []model.RawRow
	for _, rec := range records[1:] {
		row := make(model.RawRow, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
