package analysis

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestDescribe(t *testing.T) {
	s := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if s.Count != 8 || math.Abs(s.Mean-5) > 1e-12 {
		t.Fatalf("mean: %+v", s)
	}
	// sample std: sqrt(32/7)
	if math.Abs(s.Std-math.Sqrt(32.0/7.0)) > 1e-12 {
		t.Fatalf("std: %v", s.Std)
	}
	if s.Skew <= 0 {
		t.Fatalf("expected right skew, got %v", s.Skew)
	}

	one := Describe([]float64{0.05})
	if one.Mean != 0.05 || one.Std != 0 || !math.IsNaN(one.Skew) {
		t.Fatalf("single value: %+v", one)
	}

	flat := Describe([]float64{3, 3, 3})
	if flat.Std != 0 || flat.Skew != 0 {
		t.Fatalf("constant values: %+v", flat)
	}

	empty := Describe(nil)
	if empty.Count != 0 || !math.IsNaN(empty.Mean) {
		t.Fatalf("empty: %+v", empty)
	}

	withNaN := Describe([]float64{1, math.NaN(), 3})
	if !math.IsNaN(withNaN.Mean) || !math.IsNaN(withNaN.Std) {
		t.Fatalf("NaN must propagate: %+v", withNaN)
	}
}

func TestDescribe_SkewSymmetric(t *testing.T) {
	s := Describe([]float64{1, 2, 3, 4, 5})
	if math.Abs(s.Skew) > 1e-12 {
		t.Fatalf("symmetric data should have zero skew, got %v", s.Skew)
	}
}

func TestDescribe_AdjustedSkewAndInfinite(t *testing.T) {
	s := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	// adjusted Fisher-Pearson G1, as pandas Series.skew
	if math.Abs(s.Skew-0.8184875533567996) > 1e-9 {
		t.Fatalf("skew: %v", s.Skew)
	}

	inf := Describe([]float64{math.Inf(1)})
	if !math.IsInf(inf.Mean, 1) || !math.IsNaN(inf.Std) {
		t.Fatalf("single infinite value: %+v", inf)
	}

	two := Describe([]float64{1, 3})
	if math.Abs(two.Std-math.Sqrt2) > 1e-12 || !math.IsNaN(two.Skew) {
		t.Fatalf("two values: %+v", two)
	}
}

func TestSummaryText_Layout(t *testing.T) {
	m := NewMatrix([]string{"scf/pvdz", "mp2/pvdz"})
	_ = m.AddRow("a", []float64{0.05, 0})
	s := Summarize(m, []string{"scf/pvdz", "mp2/pvdz"}, []string{"SCF/cc-pVDZ", "MP2/cc-pVDZ"}, 1.96,
		"relative differences", "Rotational Constants (MHz)")

	txt := s.Text()
	lines := strings.Split(strings.TrimRight(txt, "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d:\n%s", len(lines), txt)
	}
	for _, l := range lines {
		if len(l) != 62 {
			t.Fatalf("line width %d, want 62: %q", len(l), l)
		}
	}
	if !strings.Contains(lines[1], "Comparison of relative differences of") {
		t.Fatalf("missing heading: %q", lines[1])
	}
	if lines[2] != "\t|                1 Rotational Constants (MHz)               |" {
		t.Fatalf("count line = %q", lines[2])
	}
	if lines[4] != "\t|    Method/Basis    |    Mean    |   Std Dv   |   95% CI   |" {
		t.Fatalf("header = %q", lines[4])
	}
	if lines[6] != "\t|    SCF/cc-pVDZ     |  0.050000  |  0.000000  |  0.000000  |" {
		t.Fatalf("row = %q", lines[6])
	}
}

func TestSummaryText_EmptyMatrix(t *testing.T) {
	keys := []string{"scf/pvdz", "mp2/pvdz"}
	s := Summarize(NewMatrix(keys), keys, []string{"SCF/cc-pVDZ", "MP2/cc-pVDZ"}, 1.96, "differences", "Atomization Energy (kcal/mol)")
	if s.Rows != 0 {
		t.Fatalf("rows = %d", s.Rows)
	}
	txt := s.Text()
	if strings.Count(txt, "N/A") != 6 {
		t.Fatalf("expected N/A cells:\n%s", txt)
	}
	if !strings.Contains(txt, "                0 Atomization Energy") {
		t.Fatalf("expected zero row count:\n%s", txt)
	}
}

func TestSummaryOrderFollowsKeys(t *testing.T) {
	m := NewMatrix([]string{"b", "a"})
	_ = m.AddRow("r", []float64{2, 1})
	s := Summarize(m, []string{"a", "b"}, []string{"A", "B"}, 1.96, "c", "t")
	if s.Stats[0].Combination != "A" || s.Stats[0].Mean != 1 {
		t.Fatalf("order not preserved: %+v", s.Stats)
	}
	if s.Stats[1].Combination != "B" || s.Stats[1].Mean != 2 {
		t.Fatalf("order not preserved: %+v", s.Stats)
	}
}

func TestSummaryJSON_NonFiniteIsNull(t *testing.T) {
	m := NewMatrix([]string{"k"})
	_ = m.AddRow("r", []float64{math.NaN()})
	s := Summarize(m, []string{"k"}, []string{"K"}, 1.96, "c", "t")
	b, err := s.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	stat := out["stats"].([]any)[0].(map[string]any)
	if stat["mean"] != nil {
		t.Fatalf("NaN mean should be null: %v", stat["mean"])
	}
	if !strings.Contains(s.Markdown(), "| K | 1 | NaN |") {
		t.Fatalf("markdown: %s", s.Markdown())
	}
}

func TestCoverageText(t *testing.T) {
	tbl := Coverage("small", []CoverageCount{
		{Method: "mp2", Basis: "pvdz", Count: 12},
		{Method: "scf", Basis: "pvtz", Count: 1500},
		{Method: "scf", Basis: "pvdz", Count: 14},
	})
	if tbl.Empty() {
		t.Fatalf("unexpected empty table")
	}
	if tbl.Methods[0] != "scf" || tbl.Bases[0] != "pvdz" {
		t.Fatalf("canonical order lost: %v %v", tbl.Methods, tbl.Bases)
	}
	txt := tbl.Text()
	for _, want := range []string{"cc-pVDZ", "cc-pVTZ", "SCF", "MP2", "1,500", "    -     "} {
		if !strings.Contains(txt, want) {
			t.Fatalf("coverage missing %q:\n%s", want, txt)
		}
	}
	if !Coverage("macro", nil).Empty() {
		t.Fatalf("expected empty coverage")
	}
}
