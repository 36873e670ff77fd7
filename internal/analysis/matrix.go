package analysis

import (
	"fmt"
	"math"
)

// LongRecord is one measured value for a molecule and a "method/basis" key.
type LongRecord struct {
	Label string
	Key   string
	Value float64
}

// Row is one molecule's values, parallel to Matrix.Columns.
type Row struct {
	Label  string
	Values []float64
}

// Matrix is a wide table: one row per molecule label, one column per
// "method/basis" key. Column and row order are explicit and preserved by
// every transform.
type Matrix struct {
	Columns []string
	Rows    []Row

	colIdx map[string]int
	rowIdx map[string]int
}

// DuplicateRecordError reports a (label, key) pair seen more than once.
type DuplicateRecordError struct {
	Label string
	Key   string
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("duplicate record for %s at %s", e.Label, e.Key)
}

// NewMatrix returns an empty matrix with the given columns.
func NewMatrix(columns []string) *Matrix {
	cols := make([]string, len(columns))
	copy(cols, columns)
	m := &Matrix{Columns: cols, colIdx: make(map[string]int, len(cols)), rowIdx: map[string]int{}}
	for i, c := range cols {
		m.colIdx[c] = i
	}
	return m
}

// AddRow appends a row. values must be parallel to Columns.
func (m *Matrix) AddRow(label string, values []float64) error {
	if len(values) != len(m.Columns) {
		return fmt.Errorf("row %s has %d values, expected %d", label, len(values), len(m.Columns))
	}
	if _, ok := m.rowIdx[label]; ok {
		return fmt.Errorf("row %s already present", label)
	}
	v := make([]float64, len(values))
	copy(v, values)
	m.rowIdx[label] = len(m.Rows)
	m.Rows = append(m.Rows, Row{Label: label, Values: v})
	return nil
}

// Len returns the number of rows.
func (m *Matrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Rows)
}

// ColumnIndex returns the position of key, or -1.
func (m *Matrix) ColumnIndex(key string) int {
	if i, ok := m.colIdx[key]; ok {
		return i
	}
	return -1
}

// Row returns the values for label.
func (m *Matrix) Row(label string) ([]float64, bool) {
	i, ok := m.rowIdx[label]
	if !ok {
		return nil, false
	}
	return m.Rows[i].Values, true
}

// Has reports whether label is a row.
func (m *Matrix) Has(label string) bool {
	_, ok := m.rowIdx[label]
	return ok
}

// Labels returns row labels in order.
func (m *Matrix) Labels() []string {
	out := make([]string, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Label
	}
	return out
}

// Column returns one column as a vector parallel to Rows.
func (m *Matrix) Column(key string) ([]float64, bool) {
	j := m.ColumnIndex(key)
	if j < 0 {
		return nil, false
	}
	out := make([]float64, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Values[j]
	}
	return out, true
}

// Clone deep-copies the matrix.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.Columns)
	for _, r := range m.Rows {
		_ = out.AddRow(r.Label, r.Values)
	}
	return out
}

// Filter keeps rows for which keep returns true, in their original order.
func (m *Matrix) Filter(keep func(label string) bool) *Matrix {
	out := NewMatrix(m.Columns)
	for _, r := range m.Rows {
		if keep(r.Label) {
			_ = out.AddRow(r.Label, r.Values)
		}
	}
	return out
}

// Select keeps rows whose label is in labels.
func (m *Matrix) Select(labels []string) *Matrix {
	set := toSet(labels)
	return m.Filter(func(l string) bool { return set[l] })
}

// Exclude drops rows whose label is in labels.
func (m *Matrix) Exclude(labels []string) *Matrix {
	set := toSet(labels)
	return m.Filter(func(l string) bool { return !set[l] })
}

// Map applies fn to every cell, producing a new matrix.
func (m *Matrix) Map(fn func(label string, col int, v float64) float64) *Matrix {
	out := NewMatrix(m.Columns)
	for _, r := range m.Rows {
		vals := make([]float64, len(r.Values))
		for j, v := range r.Values {
			vals[j] = fn(r.Label, j, v)
		}
		_ = out.AddRow(r.Label, vals)
	}
	return out
}

// Pivot reshapes long records into a wide matrix restricted to columns.
// Rows lacking any of the columns are dropped entirely. Row order follows
// the first appearance of each label. A repeated (label, key) pair for a
// selected column is rejected with *DuplicateRecordError; records for
// other keys are ignored.
func Pivot(records []LongRecord, columns []string) (*Matrix, error) {
	out := NewMatrix(columns)
	type acc struct {
		vals []float64
		seen []bool
		n    int
	}
	var order []string
	rows := map[string]*acc{}
	for _, rec := range records {
		j := out.ColumnIndex(rec.Key)
		if j < 0 {
			continue
		}
		a := rows[rec.Label]
		if a == nil {
			a = &acc{vals: make([]float64, len(columns)), seen: make([]bool, len(columns))}
			rows[rec.Label] = a
			order = append(order, rec.Label)
		}
		if a.seen[j] {
			return nil, &DuplicateRecordError{Label: rec.Label, Key: rec.Key}
		}
		a.seen[j] = true
		a.vals[j] = rec.Value
		a.n++
	}
	for _, label := range order {
		a := rows[label]
		if a.n != len(columns) {
			continue
		}
		if err := out.AddRow(label, a.vals); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Stack concatenates matrices with identical columns. Row labels are
// qualified as "prefix:label" so rows from different parts stay distinct.
func Stack(columns []string, prefixes []string, parts []*Matrix) (*Matrix, error) {
	if len(prefixes) != len(parts) {
		return nil, fmt.Errorf("stack: %d prefixes for %d parts", len(prefixes), len(parts))
	}
	out := NewMatrix(columns)
	for i, p := range parts {
		if p == nil {
			continue
		}
		if !sameColumns(p.Columns, columns) {
			return nil, fmt.Errorf("stack: part %s has mismatched columns", prefixes[i])
		}
		for _, r := range p.Rows {
			if err := out.AddRow(prefixes[i]+":"+r.Label, r.Values); err != nil {
				return nil, fmt.Errorf("stack: %w", err)
			}
		}
	}
	return out, nil
}

// Intersect returns a's and b's rows for labels present in both, in a's
// order. Both matrices must share columns.
func Intersect(a, b *Matrix) (left, right *Matrix, err error) {
	if !sameColumns(a.Columns, b.Columns) {
		return nil, nil, fmt.Errorf("intersect: mismatched columns")
	}
	left = NewMatrix(a.Columns)
	right = NewMatrix(a.Columns)
	for _, r := range a.Rows {
		bv, ok := b.Row(r.Label)
		if !ok {
			continue
		}
		_ = left.AddRow(r.Label, r.Values)
		_ = right.AddRow(r.Label, bv)
	}
	return left, right, nil
}

// HasNonFinite reports whether any cell is NaN or infinite.
func (m *Matrix) HasNonFinite() bool {
	for _, r := range m.Rows {
		for _, v := range r.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func toSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return set
}
