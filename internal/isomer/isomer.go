// Package isomer maps isomer and conformer labels to the canonical reference
// isomer of their molecular formula.
//
// Labels follow <formula><marker>: the formula is lowercase letters and
// digits, the marker starts with an uppercase letter ("c2h6o2A1").
package isomer

import (
	"strings"
	"unicode"
)

// LabelScheme decides how labels relate to reference isomers.
type LabelScheme interface {
	// IsReference reports whether label names a canonical reference isomer.
	IsReference(label string) bool
	// Formula extracts the molecular formula; ok is false when the label
	// carries no usable formula.
	Formula(label string) (formula string, ok bool)
	// Matches reports whether reference is the reference for formula.
	Matches(reference, formula string) bool
}

// SuffixScheme is the default labeling convention: a reference ends in "A"
// or "A1" with no uppercase letter directly before that marker.
//
// Labels such as "c4h8oA10" are not references under this scheme.
type SuffixScheme struct{}

func (SuffixScheme) IsReference(label string) bool {
	if _, ok := (SuffixScheme{}).Formula(label); !ok {
		return false
	}
	n := len(label)
	if n >= 2 && label[n-1] == 'A' && !isUpper(label[n-2]) {
		return true
	}
	if n >= 3 && strings.HasSuffix(label, "A1") && !isUpper(label[n-3]) {
		return true
	}
	return false
}

func (SuffixScheme) Formula(label string) (string, bool) {
	i := strings.IndexFunc(label, unicode.IsUpper)
	if i <= 0 {
		return "", false
	}
	return label[:i], true
}

func (SuffixScheme) Matches(reference, formula string) bool {
	switch {
	case strings.HasSuffix(reference, "A1"):
		return reference[:len(reference)-2] == formula
	case strings.HasSuffix(reference, "A"):
		return reference[:len(reference)-1] == formula
	}
	return false
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

// MinSiblings is the number of other isomers a reference needs to be kept.
const MinSiblings = 2

// Map is the resolved label → reference relationship.
type Map struct {
	refOf    map[string]string
	labels   []string
	refs     []string
	siblings map[string]int
}

// Resolve assigns each label to the first reference candidate matching its
// formula, then drops references with fewer than MinSiblings siblings along
// with every label assigned to them. Labels without a formula or without a
// matching reference are dropped.
func Resolve(labels []string, scheme LabelScheme) *Map {
	if scheme == nil {
		scheme = SuffixScheme{}
	}
	var candidates []string
	seen := map[string]bool{}
	for _, l := range labels {
		if !seen[l] && scheme.IsReference(l) {
			candidates = append(candidates, l)
		}
		seen[l] = true
	}

	assigned := map[string]string{}
	siblings := map[string]int{}
	var order []string
	for _, l := range labels {
		if _, done := assigned[l]; done {
			continue
		}
		f, ok := scheme.Formula(l)
		if !ok {
			continue
		}
		for _, ref := range candidates {
			if scheme.Matches(ref, f) {
				assigned[l] = ref
				order = append(order, l)
				if l != ref {
					siblings[ref]++
				}
				break
			}
		}
	}

	m := &Map{refOf: map[string]string{}, siblings: map[string]int{}}
	keep := map[string]bool{}
	for _, ref := range candidates {
		if assigned[ref] == ref && siblings[ref] >= MinSiblings {
			keep[ref] = true
			m.refs = append(m.refs, ref)
			m.siblings[ref] = siblings[ref]
		}
	}
	for _, l := range order {
		ref := assigned[l]
		if !keep[ref] {
			continue
		}
		m.refOf[l] = ref
		m.labels = append(m.labels, l)
	}
	return m
}

// Reference returns the resolved reference for label.
func (m *Map) Reference(label string) (string, bool) {
	r, ok := m.refOf[label]
	return r, ok
}

// Labels returns every surviving label, references included, in input order.
func (m *Map) Labels() []string { return append([]string(nil), m.labels...) }

// References returns the surviving reference labels.
func (m *Map) References() []string { return append([]string(nil), m.refs...) }

// IsReference reports whether label is a surviving reference.
func (m *Map) IsReference(label string) bool {
	r, ok := m.refOf[label]
	return ok && r == label
}

// Siblings returns how many other labels were assigned to ref.
func (m *Map) Siblings(ref string) int { return m.siblings[ref] }

// Len is the number of surviving labels.
func (m *Map) Len() int { return len(m.labels) }
