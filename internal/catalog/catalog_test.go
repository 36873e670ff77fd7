package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_OutOfRangeClampsToLarge(t *testing.T) {
	want := New(3, nil)
	for _, idx := range []int{-5, -1, 5, 42} {
		t.Run(fmt.Sprint(idx), func(t *testing.T) {
			var warnings []string
			got := New(idx, func(format string, args ...any) {
				warnings = append(warnings, fmt.Sprintf(format, args...))
			})
			assert.Equal(t, Large, got.Tier())
			assert.Equal(t, want.Keys(), got.Keys())
			assert.Equal(t, want.Display(), got.Display())
			require.Len(t, warnings, 1)
			assert.Contains(t, warnings[0], "out of range")
		})
	}
}

func TestNew_InRangeDoesNotWarn(t *testing.T) {
	for _, tier := range Tiers() {
		New(int(tier), func(string, ...any) { t.Fatalf("unexpected warning for tier %s", tier) })
	}
}

func TestEnumerated_SizeAndReference(t *testing.T) {
	sizes := map[Tier][2]int{
		Nano:   {4, 6},
		Small:  {4, 2},
		Medium: {4, 1},
		Large:  {2, 1},
		Macro:  {1, 1},
	}
	for tier, sz := range sizes {
		c := ForTier(tier)
		combos := c.Enumerated("B")
		assert.Equal(t, sz[0], c.MethodCount(), tier.String())
		assert.Equal(t, sz[1], c.BasisCount(), tier.String())
		require.Len(t, combos, sz[0]*sz[1], tier.String())
		assert.Equal(t, c.Reference("B"), combos[len(combos)-1], tier.String())
		assert.Equal(t, "B", combos[0].Value)
	}
}

func TestEnumerated_Order(t *testing.T) {
	c := ForTier(Small)
	assert.Equal(t, []string{
		"scf/pvdz", "scf/pvtz",
		"mp2/pvdz", "mp2/pvtz",
		"ccsd/pvdz", "ccsd/pvtz",
		"ccsdt/pvdz", "ccsdt/pvtz",
	}, c.Keys())
	assert.Equal(t, "ccsdt/pvtz", c.ReferenceKey())
	assert.Equal(t, Combination{Value: "E", Key: "ccsdt/pvtz"}, c.Reference("E"))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, []string{"SCF/cc-pVDZ", "MP2/cc-pVDZ"}, ForTier(Large).Display())

	nano := ForTier(Nano).Display()
	require.Len(t, nano, 24)
	assert.Equal(t, "SCF/cc-pVDZ", nano[0])
	assert.Equal(t, "CCSD(T)/cc-pCVQZ", nano[23])
	assert.Equal(t, "MP2/cc-pCVDZ", nano[9])

	assert.Equal(t, "CCSD(T)/cc-pVTZ", DisplayKey("ccsdt/pvtz"))
	assert.Equal(t, "bogus", DisplayKey("bogus"))
}

func TestParseTier(t *testing.T) {
	cases := []struct {
		in   string
		want Tier
		err  bool
	}{
		{"nano", Nano, false},
		{" Medium ", Medium, false},
		{"4", Macro, false},
		{"0", Nano, false},
		{"5", DefaultTier, true},
		{"huge", DefaultTier, true},
	}
	for _, tc := range cases {
		got, err := ParseTier(tc.in)
		if tc.err {
			assert.ErrorIs(t, err, ErrUnknownTier, tc.in)
		} else {
			assert.NoError(t, err, tc.in)
		}
		assert.Equal(t, tc.want, got, tc.in)
	}
}
