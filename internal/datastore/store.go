// Package datastore serves calculation data from a directory of CSV extracts
// of the molecular database.
package datastore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/moltools-cli/internal/analysis"
	"github.com/KaramelBytes/moltools-cli/internal/catalog"
	"github.com/KaramelBytes/moltools-cli/internal/compare"
	"gopkg.in/yaml.v3"
)

// ManifestName is the optional file describing a dataset directory.
const ManifestName = "dataset.yaml"

// Manifest names the extract files of a dataset, relative to its directory.
type Manifest struct {
	Name         string `yaml:"name"`
	Molecules    string `yaml:"molecules"`
	Calculations string `yaml:"calculations"`
	Atoms        string `yaml:"atoms"`
	AtomEnergies string `yaml:"atom_energies"`
}

// DefaultManifest lists the conventional file names.
func DefaultManifest() Manifest {
	return Manifest{
		Molecules:    "molecules.csv",
		Calculations: "calculations.csv",
		Atoms:        "atoms.csv",
		AtomEnergies: "atom_energies.csv",
	}
}

// MissingFileError reports a required extract that is not present.
type MissingFileError struct {
	Dir  string
	File string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("dataset %s: required file %s not found", e.Dir, e.File)
}

type molecule struct {
	label   string
	formula string
	group   string
}

type calculation struct {
	label  string
	calc   string
	basis  string
	rot    map[compare.Axis]float64
	energy float64
	hasE   bool
}

type atomCount struct {
	atomic int
	count  float64
}

type atomEnergyKey struct {
	atomic int
	calc   string
	basis  string
}

// Store is an in-memory copy of one dataset directory. It implements compare.Source.
type Store struct {
	dir       string
	manifest  Manifest
	molecules []molecule
	calcs     []calculation
	// composition in order of first appearance of each label
	atomOrder   []string
	composition map[string][]atomCount
	atomEnergy  map[atomEnergyKey]float64
	atomBases   []string
}

var _ compare.Source = (*Store)(nil)

// Open loads a dataset directory. molecules and calculations extracts are
// required; atoms and atom energies are optional.
func Open(dir string) (*Store, error) {
	m := DefaultManifest()
	b, err := os.ReadFile(filepath.Join(dir, ManifestName))
	switch {
	case err == nil:
		var custom Manifest
		if err := yaml.Unmarshal(b, &custom); err != nil {
			return nil, fmt.Errorf("parse %s: %w", ManifestName, err)
		}
		m = mergeManifest(m, custom)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read %s: %w", ManifestName, err)
	}

	s := &Store{dir: dir, manifest: m, composition: map[string][]atomCount{}, atomEnergy: map[atomEnergyKey]float64{}}
	if err := s.loadMolecules(); err != nil {
		return nil, err
	}
	if err := s.loadCalculations(); err != nil {
		return nil, err
	}
	if err := s.loadAtoms(); err != nil {
		return nil, err
	}
	if err := s.loadAtomEnergies(); err != nil {
		return nil, err
	}
	return s, nil
}

// Manifest returns the effective manifest.
func (s *Store) Manifest() Manifest { return s.manifest }

// Dir returns the dataset directory.
func (s *Store) Dir() string { return s.dir }

func mergeManifest(base, over Manifest) Manifest {
	if over.Name != "" {
		base.Name = over.Name
	}
	if over.Molecules != "" {
		base.Molecules = over.Molecules
	}
	if over.Calculations != "" {
		base.Calculations = over.Calculations
	}
	if over.Atoms != "" {
		base.Atoms = over.Atoms
	}
	if over.AtomEnergies != "" {
		base.AtomEnergies = over.AtomEnergies
	}
	return base
}

// locate resolves name inside the dataset, accepting a ".gz" variant.
func (s *Store) locate(name string) (string, bool) {
	p := filepath.Join(s.dir, name)
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	if _, err := os.Stat(p + ".gz"); err == nil {
		return p + ".gz", true
	}
	return "", false
}

func (s *Store) open(name string, required bool, cols ...string) (*table, error) {
	p, ok := s.locate(name)
	if !ok {
		if required {
			return nil, &MissingFileError{Dir: s.dir, File: name}
		}
		return nil, nil
	}
	t, err := readTable(p)
	if err != nil {
		return nil, err
	}
	if len(t.header) == 0 {
		return t, nil
	}
	if err := t.require(cols...); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) loadMolecules() error {
	t, err := s.open(s.manifest.Molecules, true, "label", "formula", "group")
	if err != nil {
		return err
	}
	for i := range t.rows {
		s.molecules = append(s.molecules, molecule{
			label:   t.str(i, "label"),
			formula: t.str(i, "formula"),
			group:   t.str(i, "group"),
		})
	}
	return nil
}

func (s *Store) loadCalculations() error {
	t, err := s.open(s.manifest.Calculations, true, "label", "calc", "basis")
	if err != nil {
		return err
	}
	for i := range t.rows {
		c := calculation{
			label: t.str(i, "label"),
			calc:  t.str(i, "calc"),
			basis: t.str(i, "basis"),
			rot:   map[compare.Axis]float64{},
		}
		for _, axis := range compare.Axes {
			v, ok, err := t.num(i, "rot_"+strings.ToLower(string(axis)))
			if err != nil {
				return err
			}
			if ok {
				c.rot[axis] = v
			}
		}
		v, ok, err := t.num(i, c.calc+"_energy")
		if err != nil {
			return err
		}
		c.energy, c.hasE = v, ok
		s.calcs = append(s.calcs, c)
	}
	return nil
}

func (s *Store) loadAtoms() error {
	t, err := s.open(s.manifest.Atoms, false, "label", "atomic_number", "count")
	if err != nil || t == nil {
		return err
	}
	for i := range t.rows {
		label := t.str(i, "label")
		z, err := strconv.Atoi(t.str(i, "atomic_number"))
		if err != nil {
			return fmt.Errorf("%s line %d: invalid atomic_number: %w", t.name, t.line(i), err)
		}
		n, ok, err := t.num(i, "count")
		if err != nil {
			return err
		}
		if !ok {
			n = 1
		}
		if _, seen := s.composition[label]; !seen {
			s.atomOrder = append(s.atomOrder, label)
		}
		s.composition[label] = append(s.composition[label], atomCount{atomic: z, count: n})
	}
	return nil
}

func (s *Store) loadAtomEnergies() error {
	t, err := s.open(s.manifest.AtomEnergies, false, "atomic_number", "basis")
	if err != nil || t == nil {
		return err
	}
	seenBasis := map[string]bool{}
	for i := range t.rows {
		z, err := strconv.Atoi(t.str(i, "atomic_number"))
		if err != nil {
			return fmt.Errorf("%s line %d: invalid atomic_number: %w", t.name, t.line(i), err)
		}
		basis := t.str(i, "basis")
		if !seenBasis[basis] {
			seenBasis[basis] = true
			s.atomBases = append(s.atomBases, basis)
		}
		for _, calc := range catalog.Methods {
			v, ok, err := t.num(i, calc+"_energy")
			if err != nil {
				return err
			}
			if ok {
				s.atomEnergy[atomEnergyKey{atomic: z, calc: calc, basis: basis}] = v
			}
		}
	}
	return nil
}

// RotationalConstants implements compare.Source.
func (s *Store) RotationalConstants(ctx context.Context, axis compare.Axis) ([]analysis.LongRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []analysis.LongRecord
	for _, c := range s.calcs {
		if v, ok := c.rot[axis]; ok {
			out = append(out, analysis.LongRecord{Label: c.label, Key: c.calc + "/" + c.basis, Value: v})
		}
	}
	return out, nil
}

// TotalEnergies implements compare.Source.
func (s *Store) TotalEnergies(ctx context.Context) ([]analysis.LongRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.energies(func(string) bool { return true }), nil
}

// IsomerEnergies implements compare.Source.
func (s *Store) IsomerEnergies(ctx context.Context) ([]analysis.LongRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	perFormula := map[string]int{}
	for _, m := range s.molecules {
		perFormula[m.formula]++
	}
	shared := map[string]bool{}
	for _, m := range s.molecules {
		if perFormula[m.formula] > 1 {
			shared[m.label] = true
		}
	}
	return s.energies(func(label string) bool { return shared[label] }), nil
}

func (s *Store) energies(keep func(label string) bool) []analysis.LongRecord {
	var out []analysis.LongRecord
	for _, c := range s.calcs {
		if c.hasE && keep(c.label) {
			out = append(out, analysis.LongRecord{Label: c.label, Key: c.calc + "/" + c.basis, Value: c.energy})
		}
	}
	return out
}

// AtomEnergySums implements compare.Source. A molecule gets no record for a
// method/basis when any of its atoms lacks an energy there.
func (s *Store) AtomEnergySums(ctx context.Context) ([]analysis.LongRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []analysis.LongRecord
	for _, label := range s.atomOrder {
		atoms := s.composition[label]
		for _, calc := range catalog.Methods {
			for _, basis := range s.atomBases {
				sum, ok := 0.0, true
				for _, a := range atoms {
					e, found := s.atomEnergy[atomEnergyKey{atomic: a.atomic, calc: calc, basis: basis}]
					if !found {
						ok = false
						break
					}
					sum += a.count * e
				}
				if ok {
					out = append(out, analysis.LongRecord{Label: label, Key: calc + "/" + basis, Value: sum})
				}
			}
		}
	}
	return out, nil
}

// Coverage implements compare.Source.
func (s *Store) Coverage(ctx context.Context, group string) ([]analysis.CoverageCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inGroup := map[string]bool{}
	for _, m := range s.molecules {
		if m.group == group {
			inGroup[m.label] = true
		}
	}
	type key struct{ calc, basis string }
	counts := map[key]int{}
	var order []key
	for _, c := range s.calcs {
		if !inGroup[c.label] {
			continue
		}
		k := key{c.calc, c.basis}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	out := make([]analysis.CoverageCount, 0, len(order))
	for _, k := range order {
		out = append(out, analysis.CoverageCount{Method: k.calc, Basis: k.basis, Count: counts[k]})
	}
	return out, nil
}
