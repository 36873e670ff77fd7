package analysis

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/moltools-cli/internal/catalog"
	"github.com/KaramelBytes/moltools-cli/internal/utils"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var countPrinter = message.NewPrinter(language.English)

// CoverageCount is the number of stored calculations for one method/basis pair.
type CoverageCount struct {
	Method string
	Basis  string
	Count  int
}

// CoverageTable is a method × basis count grid for one molecule group.
type CoverageTable struct {
	Group   string
	Methods []string
	Bases   []string
	Counts  map[string]map[string]int
}

// Coverage arranges counts into a grid. Methods and bases follow the
// catalog's canonical order; keys unknown to the catalog sort after them
// alphabetically.
func Coverage(group string, counts []CoverageCount) *CoverageTable {
	t := &CoverageTable{Group: group, Counts: map[string]map[string]int{}}
	mset, bset := map[string]bool{}, map[string]bool{}
	for _, c := range counts {
		if t.Counts[c.Method] == nil {
			t.Counts[c.Method] = map[string]int{}
		}
		t.Counts[c.Method][c.Basis] += c.Count
		mset[c.Method] = true
		bset[c.Basis] = true
	}
	t.Methods = canonicalOrder(mset, catalog.Methods)
	t.Bases = canonicalOrder(bset, catalog.Bases)
	return t
}

// Empty reports whether the group had no calculations.
func (t *CoverageTable) Empty() bool { return len(t.Methods) == 0 }

const coverageCell = 10

// Text renders the grid; absent combinations show "-".
func (t *CoverageTable) Text() string {
	var b strings.Builder
	line := "+" + strings.Repeat("-", coverageCell)
	for range t.Bases {
		line += "+" + strings.Repeat("-", coverageCell)
	}
	line += "+\n"
	b.WriteString(line)
	b.WriteString("|" + utils.Center(t.Group, coverageCell))
	for _, basis := range t.Bases {
		b.WriteString("|" + utils.Center(catalog.BasisLabel(basis), coverageCell))
	}
	b.WriteString("|\n")
	b.WriteString(line)
	for _, m := range t.Methods {
		b.WriteString("|" + utils.Center(catalog.MethodLabel(m), coverageCell))
		for _, basis := range t.Bases {
			cell := "-"
			if n, ok := t.Counts[m][basis]; ok {
				cell = countPrinter.Sprintf("%d", n)
			}
			b.WriteString("|" + utils.Center(cell, coverageCell))
		}
		b.WriteString("|\n")
	}
	b.WriteString(line)
	return b.String()
}

func canonicalOrder(set map[string]bool, canonical []string) []string {
	var out []string
	for _, k := range canonical {
		if set[k] {
			out = append(out, k)
			delete(set, k)
		}
	}
	var rest []string
	for k := range set {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(out, rest...)
}
