package compare

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/moltools-cli/internal/analysis"
)

// Axis selects one principal rotational constant.
type Axis string

const (
	AxisX Axis = "X"
	AxisY Axis = "Y"
	AxisZ Axis = "Z"
)

// Axes lists the rotational axes in stacking order.
var Axes = []Axis{AxisX, AxisY, AxisZ}

// Source supplies long-form calculation data, one method per metric. Keys
// are "method/basis"; an empty result is valid.
type Source interface {
	// RotationalConstants returns the rotational constant about axis (MHz).
	RotationalConstants(ctx context.Context, axis Axis) ([]analysis.LongRecord, error)
	// TotalEnergies returns each calculation's energy for its own method (Hartree).
	TotalEnergies(ctx context.Context) ([]analysis.LongRecord, error)
	// AtomEnergySums returns, per molecule, the summed free-atom energies of its
	// constituent atoms for every method and basis (Hartree).
	AtomEnergySums(ctx context.Context) ([]analysis.LongRecord, error)
	// IsomerEnergies returns total energies restricted to molecules whose
	// formula is shared with at least one other molecule.
	IsomerEnergies(ctx context.Context) ([]analysis.LongRecord, error)
	// Coverage returns calculation counts per method and basis for a molecule group.
	Coverage(ctx context.Context, group string) ([]analysis.CoverageCount, error)
}

// Metric names a comparison.
type Metric string

const (
	Rotational  Metric = "rotational"
	Atomization Metric = "atomization"
	Isomer      Metric = "isomer"
)

// AllMetrics is the composed comparison workflow, in run order.
var AllMetrics = []Metric{Rotational, Atomization, Isomer}

// ErrUnknownMetric is returned for metric names that are not comparisons.
var ErrUnknownMetric = errors.New("unknown metric")

// ParseMetrics parses a metric name; "all" expands to AllMetrics.
func ParseMetrics(s string) ([]Metric, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "all", "":
		return append([]Metric(nil), AllMetrics...), nil
	case "rot", string(Rotational):
		return []Metric{Rotational}, nil
	case "ae", string(Atomization):
		return []Metric{Atomization}, nil
	case "iso", string(Isomer):
		return []Metric{Isomer}, nil
	}
	return nil, fmt.Errorf("%w: %q (use rotational|atomization|isomer|all)", ErrUnknownMetric, s)
}

// SourceError wraps a failure of the data source for one metric.
type SourceError struct {
	Metric Metric
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("fetch %s data: %v", e.Metric, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
