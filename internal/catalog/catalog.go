package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Tier selects how many calculation methods and basis sets take part in a comparison.
type Tier int

const (
	Nano Tier = iota
	Small
	Medium
	Large
	Macro
)

// DefaultTier is used whenever a tier index falls outside the known range.
const DefaultTier = Large

var tierNames = [...]string{"nano", "small", "medium", "large", "macro"}

// tierSizes holds {method count, basis count} per tier.
var tierSizes = [...][2]int{
	Nano:   {4, 6},
	Small:  {4, 2},
	Medium: {4, 1},
	Large:  {2, 1},
	Macro:  {1, 1},
}

// Methods and Bases are in canonical order; a tier always takes a prefix of each.
var (
	Methods = []string{"scf", "mp2", "ccsd", "ccsdt"}
	Bases   = []string{"pvdz", "pvtz", "pvqz", "pcvdz", "pcvtz", "pcvqz"}
)

var methodLabels = map[string]string{
	"scf":   "SCF",
	"mp2":   "MP2",
	"ccsd":  "CCSD",
	"ccsdt": "CCSD(T)",
}

var basisLabels = map[string]string{
	"pvdz":  "cc-pVDZ",
	"pvtz":  "cc-pVTZ",
	"pvqz":  "cc-pVQZ",
	"pcvdz": "cc-pCVDZ",
	"pcvtz": "cc-pCVTZ",
	"pcvqz": "cc-pCVQZ",
}

// ErrUnknownTier is returned by ParseTier for names that are not tiers.
var ErrUnknownTier = errors.New("unknown tier")

func (t Tier) String() string {
	if t < Nano || t > Macro {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// Tiers lists every tier in ordinal order.
func Tiers() []Tier { return []Tier{Nano, Small, Medium, Large, Macro} }

// ParseTier accepts a tier name ("small") or a 0-based index ("1").
func ParseTier(s string) (Tier, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, n := range tierNames {
		if v == n {
			return Tier(i), nil
		}
	}
	if i, err := strconv.Atoi(v); err == nil && i >= int(Nano) && i <= int(Macro) {
		return Tier(i), nil
	}
	return DefaultTier, fmt.Errorf("%w: %q (use nano|small|medium|large|macro or 0-4)", ErrUnknownTier, s)
}

// Combination pairs a value label with a "method/basis" key.
type Combination struct {
	Value string
	Key   string
}

func (c Combination) String() string { return c.Value + ":" + c.Key }

// Catalog enumerates the method/basis combinations of one tier. It is immutable.
type Catalog struct {
	tier     Tier
	methods  int
	bases    int
	keys     []string
	displays []string
}

// New builds the catalog for a tier index. Indexes outside [0,4] resolve to
// the large tier and are reported through warn, which may be nil.
func New(index int, warn func(format string, args ...any)) *Catalog {
	t := Tier(index)
	if index < int(Nano) || index > int(Macro) {
		if warn != nil {
			warn("tier index %d out of range [0,4]; using default tier %s", index, DefaultTier)
		}
		t = DefaultTier
	}
	size := tierSizes[t]
	c := &Catalog{tier: t, methods: size[0], bases: size[1]}
	for _, m := range Methods[:c.methods] {
		for _, b := range Bases[:c.bases] {
			c.keys = append(c.keys, m+"/"+b)
			c.displays = append(c.displays, MethodLabel(m)+"/"+BasisLabel(b))
		}
	}
	return c
}

// ForTier is New for an already validated tier.
func ForTier(t Tier) *Catalog { return New(int(t), nil) }

func (c *Catalog) Tier() Tier       { return c.tier }
func (c *Catalog) Name() string     { return c.tier.String() }
func (c *Catalog) MethodCount() int { return c.methods }
func (c *Catalog) BasisCount() int  { return c.bases }

// Keys returns the "method/basis" keys in canonical order: methods outer, bases inner.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Enumerated returns the tier's combinations tagged with valueLabel.
func (c *Catalog) Enumerated(valueLabel string) []Combination {
	out := make([]Combination, len(c.keys))
	for i, k := range c.keys {
		out[i] = Combination{Value: valueLabel, Key: k}
	}
	return out
}

// Reference returns the last enumerated combination.
func (c *Catalog) Reference(valueLabel string) Combination {
	return Combination{Value: valueLabel, Key: c.keys[len(c.keys)-1]}
}

// ReferenceKey is the "method/basis" key of Reference.
func (c *Catalog) ReferenceKey() string { return c.keys[len(c.keys)-1] }

// Display returns human-readable labels parallel to Keys, e.g. "CCSD(T)/cc-pVQZ".
func (c *Catalog) Display() []string {
	out := make([]string, len(c.displays))
	copy(out, c.displays)
	return out
}

// MethodLabel maps an internal method key to its display form. Unknown keys
// are upper-cased.
func MethodLabel(m string) string {
	if l, ok := methodLabels[m]; ok {
		return l
	}
	return strings.ToUpper(m)
}

// BasisLabel maps an internal basis key to its display form. Unknown keys
// are returned unchanged.
func BasisLabel(b string) string {
	if l, ok := basisLabels[b]; ok {
		return l
	}
	return b
}

// DisplayKey renders a "method/basis" key for humans.
func DisplayKey(key string) string {
	m, b, ok := strings.Cut(key, "/")
	if !ok {
		return key
	}
	return MethodLabel(m) + "/" + BasisLabel(b)
}
