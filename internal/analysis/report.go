package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/moltools-cli/internal/utils"
)

// Summary is the per-combination statistics of one difference/ratio table.
type Summary struct {
	Category string
	Title    string
	Rows     int
	Stats    []StatRow
}

// StatRow is the summary of one combination column.
type StatRow struct {
	Combination string
	Key         string
	Count       int
	Mean        float64
	Std         float64
	Skew        float64
	CI95        float64
}

// Summarize computes statistics for every key in keys, in that order, reading
// the matching matrix column. display supplies the label shown for each key
// and must be parallel to keys. A key missing from the matrix yields an
// empty row.
func Summarize(m *Matrix, keys, display []string, z float64, category, title string) *Summary {
	s := &Summary{Category: category, Title: title, Rows: m.Len()}
	for i, key := range keys {
		label := key
		if i < len(display) {
			label = display[i]
		}
		row := StatRow{Combination: label, Key: key}
		var vals []float64
		if m != nil {
			vals, _ = m.Column(key)
		}
		st := Describe(vals)
		row.Count = st.Count
		row.Mean = st.Mean
		row.Std = st.Std
		row.Skew = st.Skew
		row.CI95 = z * st.Std
		s.Stats = append(s.Stats, row)
	}
	return s
}

const (
	headerWidth = 59
	comboWidth  = 20
	cellWidth   = 12
)

// Text renders the fixed-width comparison table.
func (s *Summary) Text() string {
	var b strings.Builder
	b.WriteString("\t+" + strings.Repeat("-", headerWidth) + "+\n")
	b.WriteString("\t|" + utils.Center("Comparison of "+s.Category+" of", headerWidth) + "|\n")
	b.WriteString("\t|" + utils.PadLeft(fmt.Sprint(s.Rows), 17) + " " + utils.PadRight(s.Title, 41) + "|\n")
	sep := "\t+" + strings.Repeat("-", comboWidth) + "+" + strings.Repeat("-", cellWidth) +
		"+" + strings.Repeat("-", cellWidth) + "+" + strings.Repeat("-", cellWidth) + "+\n"
	b.WriteString(sep)
	b.WriteString(tableLine("Method/Basis", "Mean", "Std Dv", "95% CI"))
	b.WriteString(sep)
	for _, r := range s.Stats {
		if r.Count == 0 {
			b.WriteString(tableLine(r.Combination, "N/A", "N/A", "N/A"))
			continue
		}
		b.WriteString(tableLine(r.Combination, fmtStat(r.Mean), fmtStat(r.Std), fmtStat(r.CI95)))
	}
	b.WriteString(sep)
	return b.String()
}

// Markdown renders the summary for inclusion in study reports.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("## Comparison of %s of %s\n\n", s.Category, s.Title))
	b.WriteString(fmt.Sprintf("Rows: %d\n\n", s.Rows))
	b.WriteString("| Method/Basis | n | Mean | Std Dv | Skew | 95% CI |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, r := range s.Stats {
		if r.Count == 0 {
			b.WriteString(fmt.Sprintf("| %s | 0 | N/A | N/A | N/A | N/A |\n", r.Combination))
			continue
		}
		b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s |\n",
			r.Combination, r.Count, fmtStat(r.Mean), fmtStat(r.Std), fmtStat(r.Skew), fmtStat(r.CI95)))
	}
	return b.String()
}

type statJSON struct {
	Combination string   `json:"combination"`
	Key         string   `json:"key"`
	Count       int      `json:"count"`
	Mean        *float64 `json:"mean"`
	Std         *float64 `json:"std_dev"`
	Skew        *float64 `json:"skew"`
	CI95        *float64 `json:"ci95"`
}

type summaryJSON struct {
	Category string     `json:"category"`
	Title    string     `json:"title"`
	Rows     int        `json:"rows"`
	Stats    []statJSON `json:"stats"`
}

// JSON renders the summary as indented JSON; non-finite values become null.
func (s *Summary) JSON() ([]byte, error) {
	out := summaryJSON{Category: s.Category, Title: s.Title, Rows: s.Rows, Stats: []statJSON{}}
	for _, r := range s.Stats {
		out.Stats = append(out.Stats, statJSON{
			Combination: r.Combination,
			Key:         r.Key,
			Count:       r.Count,
			Mean:        finite(r.Mean),
			Std:         finite(r.Std),
			Skew:        finite(r.Skew),
			CI95:        finite(r.CI95),
		})
	}
	return utils.PrettyJSON(out)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func fmtStat(v float64) string { return fmt.Sprintf("%.6f", v) }

func tableLine(combo, a, b, c string) string {
	return "\t|" + utils.Center(combo, comboWidth) + "|" + utils.Center(a, cellWidth) + "|" +
		utils.Center(b, cellWidth) + "|" + utils.Center(c, cellWidth) + "|\n"
}
