package compare

import (
	"context"
	"fmt"

	"github.com/KaramelBytes/moltools-cli/internal/analysis"
	"github.com/KaramelBytes/moltools-cli/internal/catalog"
	"github.com/KaramelBytes/moltools-cli/internal/isomer"
)

// Options tunes an Engine. Zero values fall back to the defaults.
type Options struct {
	HartreeToKcal float64
	Z             float64
	Scheme        isomer.LabelScheme
	// Warn receives recoverable conditions such as tier clamping.
	Warn func(format string, args ...any)
	// Debug receives per-stage row counts when set.
	Debug func(format string, args ...any)
}

// Engine runs method comparisons against a Source. It holds no state between runs.
type Engine struct {
	src  Source
	opts Options
}

// NewEngine returns an Engine reading from src.
func NewEngine(src Source, opts Options) *Engine {
	if opts.HartreeToKcal == 0 {
		opts.HartreeToKcal = HartreeToKcal
	}
	if opts.Z == 0 {
		opts.Z = CI95Z
	}
	if opts.Scheme == nil {
		opts.Scheme = isomer.SuffixScheme{}
	}
	return &Engine{src: src, opts: opts}
}

// Compare runs one metric for a tier index and returns the rendered table.
// Out-of-range indexes fall back to the large tier with a warning.
func (e *Engine) Compare(ctx context.Context, tierIndex int, metric Metric) (string, error) {
	cat := catalog.New(tierIndex, e.opts.Warn)
	s, err := e.Summary(ctx, cat, metric)
	if err != nil {
		return "", err
	}
	return s.Text(), nil
}

// Summary runs one metric for cat and returns its statistics.
func (e *Engine) Summary(ctx context.Context, cat *catalog.Catalog, metric Metric) (*analysis.Summary, error) {
	var (
		diff            *analysis.Matrix
		category, title string
		err             error
	)
	switch metric {
	case Rotational:
		diff, err = e.rotational(ctx, cat)
		category, title = "relative differences", "Rotational Constants (MHz)"
	case Atomization:
		diff, err = e.atomization(ctx, cat)
		category, title = "differences", "Atomization Energy (kcal/mol)"
	case Isomer:
		diff, err = e.isomers(ctx, cat)
		category, title = "differences", "Isomer Energy (kcal/mol)"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	if err != nil {
		return nil, err
	}
	if diff.HasNonFinite() {
		e.warn("%s comparison contains non-finite values (zero reference?)", metric)
	}
	e.debug("%s: %d rows summarized for tier %s", metric, diff.Len(), cat.Name())
	return analysis.Summarize(diff, cat.Keys(), cat.Display(), e.opts.Z, category, title), nil
}

func (e *Engine) rotational(ctx context.Context, cat *catalog.Catalog) (*analysis.Matrix, error) {
	keys := cat.Keys()
	parts := make([]*analysis.Matrix, 0, len(Axes))
	prefixes := make([]string, 0, len(Axes))
	for _, axis := range Axes {
		recs, err := e.src.RotationalConstants(ctx, axis)
		if err != nil {
			return nil, &SourceError{Metric: Rotational, Err: err}
		}
		m, err := analysis.Pivot(recs, keys)
		if err != nil {
			return nil, fmt.Errorf("rotational %s: %w", axis, err)
		}
		e.debug("rotational %s: %d records, %d complete rows", axis, len(recs), m.Len())
		parts = append(parts, m)
		prefixes = append(prefixes, string(axis))
	}
	stacked, err := analysis.Stack(keys, prefixes, parts)
	if err != nil {
		return nil, err
	}
	return RelativeDifference(stacked, cat.ReferenceKey())
}

func (e *Engine) atomization(ctx context.Context, cat *catalog.Catalog) (*analysis.Matrix, error) {
	keys := cat.Keys()
	totalRecs, err := e.src.TotalEnergies(ctx)
	if err != nil {
		return nil, &SourceError{Metric: Atomization, Err: err}
	}
	atomRecs, err := e.src.AtomEnergySums(ctx)
	if err != nil {
		return nil, &SourceError{Metric: Atomization, Err: err}
	}
	total, err := analysis.Pivot(totalRecs, keys)
	if err != nil {
		return nil, fmt.Errorf("total energies: %w", err)
	}
	atoms, err := analysis.Pivot(atomRecs, keys)
	if err != nil {
		return nil, fmt.Errorf("atom energies: %w", err)
	}
	e.debug("atomization: %d molecule rows, %d atom-sum rows", total.Len(), atoms.Len())
	ae, err := AtomizationEnergy(total, atoms)
	if err != nil {
		return nil, err
	}
	return AbsoluteDifference(ae, cat.ReferenceKey(), e.opts.HartreeToKcal)
}

func (e *Engine) isomers(ctx context.Context, cat *catalog.Catalog) (*analysis.Matrix, error) {
	recs, err := e.src.IsomerEnergies(ctx)
	if err != nil {
		return nil, &SourceError{Metric: Isomer, Err: err}
	}
	m, err := analysis.Pivot(recs, cat.Keys())
	if err != nil {
		return nil, fmt.Errorf("isomer energies: %w", err)
	}
	refs := isomer.Resolve(m.Labels(), e.opts.Scheme)
	e.debug("isomer: %d complete rows, %d resolved, %d references", m.Len(), refs.Len(), len(refs.References()))
	return IsomerDifference(m, refs, cat.ReferenceKey(), e.opts.HartreeToKcal)
}

// Coverage returns the method × basis calculation counts for a molecule group.
func (e *Engine) Coverage(ctx context.Context, group string) (*analysis.CoverageTable, error) {
	counts, err := e.src.Coverage(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("coverage %s: %w", group, err)
	}
	return analysis.Coverage(group, counts), nil
}

func (e *Engine) warn(format string, args ...any) {
	if e.opts.Warn != nil {
		e.opts.Warn(format, args...)
	}
}

func (e *Engine) debug(format string, args ...any) {
	if e.opts.Debug != nil {
		e.opts.Debug(format, args...)
	}
}
