package datastore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// table is a header-indexed CSV file held in memory.
type table struct {
	name   string
	header map[string]int
	rows   [][]string
	// lines holds the file line number of each row
	lines []int
}

// readTable loads a CSV/TSV file, transparently decompressing ".gz".
func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var src io.Reader = f
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gunzip %s: %w", filepath.Base(path), err)
		}
		defer zr.Close()
		src = zr
		name = strings.TrimSuffix(name, ".gz")
	}
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comment = '#'
	r.Comma = sniffDelimiter(name)

	t := &table{name: filepath.Base(path), header: map[string]int{}}
	head, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		return nil, fmt.Errorf("read header of %s: %w", t.name, err)
	}
	for i, h := range head {
		t.header[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read %s: %w", t.name, err)
		}
		line, _ := r.FieldPos(0)
		t.rows = append(t.rows, rec)
		t.lines = append(t.lines, line)
	}
	return t, nil
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	return ','
}

// line returns the file line number of row i.
func (t *table) line(i int) int { return t.lines[i] }

// require checks that every column is present in the header.
func (t *table) require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if _, ok := t.header[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing columns %s", t.name, strings.Join(missing, ", "))
	}
	return nil
}

// str returns the trimmed cell for col in row i; absent cells are "".
func (t *table) str(i int, col string) string {
	j, ok := t.header[col]
	if !ok || j >= len(t.rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.rows[i][j])
}

// num parses the cell for col in row i. ok is false for blank cells.
func (t *table) num(i int, col string) (v float64, ok bool, err error) {
	s := t.str(i, col)
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s line %d column %s: invalid number %q", t.name, t.line(i), col, s)
	}
	return v, true, nil
}
