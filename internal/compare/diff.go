package compare

import (
	"fmt"

	"github.com/KaramelBytes/moltools-cli/internal/analysis"
	"github.com/KaramelBytes/moltools-cli/internal/isomer"
)

// HartreeToKcal converts Hartree to kcal/mol.
const HartreeToKcal = 627.5

// CI95Z is the normal quantile used for the 95% confidence interval.
const CI95Z = 1.96

// RelativeDifference returns (v - r) / r per cell, where r is the row's value
// in the refKey column. A zero r is not intercepted: the cell becomes NaN or
// ±Inf and carries into the statistics.
func RelativeDifference(m *analysis.Matrix, refKey string) (*analysis.Matrix, error) {
	j := m.ColumnIndex(refKey)
	if j < 0 {
		return nil, fmt.Errorf("reference column %s not in matrix", refKey)
	}
	return m.Map(func(label string, _ int, v float64) float64 {
		ref, _ := m.Row(label)
		r := ref[j]
		return (v - r) / r
	}), nil
}

// AbsoluteDifference returns (v - r) * scale per cell, where r is the row's
// value in the refKey column.
func AbsoluteDifference(m *analysis.Matrix, refKey string, scale float64) (*analysis.Matrix, error) {
	j := m.ColumnIndex(refKey)
	if j < 0 {
		return nil, fmt.Errorf("reference column %s not in matrix", refKey)
	}
	return m.Map(func(label string, _ int, v float64) float64 {
		ref, _ := m.Row(label)
		return (v - ref[j]) * scale
	}), nil
}

// AtomizationEnergy returns total - atomSum for molecules present in both tables.
func AtomizationEnergy(total, atomSum *analysis.Matrix) (*analysis.Matrix, error) {
	t, a, err := analysis.Intersect(total, atomSum)
	if err != nil {
		return nil, fmt.Errorf("atomization: %w", err)
	}
	return t.Map(func(label string, col int, v float64) float64 {
		base, _ := a.Row(label)
		return v - base[col]
	}), nil
}

// IsomerDifference subtracts each row's resolved reference-isomer row, then
// the row's own refKey value, and scales the result. Rows without a resolved
// reference and the reference rows themselves are left out.
func IsomerDifference(m *analysis.Matrix, refs *isomer.Map, refKey string, scale float64) (*analysis.Matrix, error) {
	j := m.ColumnIndex(refKey)
	if j < 0 {
		return nil, fmt.Errorf("reference column %s not in matrix", refKey)
	}
	out := analysis.NewMatrix(m.Columns)
	for _, r := range m.Rows {
		ref, ok := refs.Reference(r.Label)
		if !ok || refs.IsReference(r.Label) {
			continue
		}
		base, ok := m.Row(ref)
		if !ok {
			continue
		}
		d := make([]float64, len(r.Values))
		for c, v := range r.Values {
			d[c] = v - base[c]
		}
		at := d[j]
		for c := range d {
			d[c] = (d[c] - at) * scale
		}
		if err := out.AddRow(r.Label, d); err != nil {
			return nil, err
		}
	}
	return out, nil
}
