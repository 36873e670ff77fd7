package datastore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/moltools-cli/internal/analysis"
	"github.com/KaramelBytes/moltools-cli/internal/catalog"
	"github.com/KaramelBytes/moltools-cli/internal/compare"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const moleculesCSV = `label,formula,group
h2oA,h2o,small
c2h6oA1,c2h6o,small
c2h6oB,c2h6o,medium
c2h6oC,c2h6o,medium
`

const calculationsCSV = `label,calc,basis,rot_x,rot_y,rot_z,scf_energy,mp2_energy,ccsd_energy,ccsdt_energy
h2oA,scf,pvdz,800000,430000,280000,-76.02,,,
h2oA,mp2,pvdz,810000,435000,283000,,-76.23,,
c2h6oA1,scf,pvdz,,,,-154.0,,,
c2h6oB,scf,pvdz,,,,-153.9,,,
c2h6oC,mp2,pvdz,,,,,-154.3,,
`

const atomsCSV = `label,atomic_number,count
h2oA,1,2
h2oA,8,1
`

const atomEnergiesCSV = `atomic_number,basis,scf_energy,mp2_energy,ccsd_energy,ccsdt_energy
1,pvdz,-0.5,-0.5,-0.5,-0.5
8,pvdz,-74.8,-74.9,,
`

func writeDataset(t *testing.T, gz bool) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) {
		if gz {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			_, err := zw.Write([]byte(body))
			require.NoError(t, err)
			require.NoError(t, zw.Close())
			require.NoError(t, os.WriteFile(filepath.Join(dir, name+".gz"), buf.Bytes(), 0o644))
			return
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("molecules.csv", moleculesCSV)
	write("calculations.csv", calculationsCSV)
	write("atoms.csv", atomsCSV)
	write("atom_energies.csv", atomEnergiesCSV)
	return dir
}

func TestOpen_FetchContract(t *testing.T) {
	for _, gz := range []bool{false, true} {
		s, err := Open(writeDataset(t, gz))
		require.NoError(t, err)
		ctx := context.Background()

		rot, err := s.RotationalConstants(ctx, compare.AxisY)
		require.NoError(t, err)
		assert.Equal(t, []analysis.LongRecord{
			{Label: "h2oA", Key: "scf/pvdz", Value: 430000},
			{Label: "h2oA", Key: "mp2/pvdz", Value: 435000},
		}, rot)

		total, err := s.TotalEnergies(ctx)
		require.NoError(t, err)
		assert.Len(t, total, 5)
		assert.Equal(t, analysis.LongRecord{Label: "h2oA", Key: "mp2/pvdz", Value: -76.23}, total[1])

		iso, err := s.IsomerEnergies(ctx)
		require.NoError(t, err)
		assert.Len(t, iso, 3)
		for _, r := range iso {
			assert.NotEqual(t, "h2oA", r.Label)
		}

		sums, err := s.AtomEnergySums(ctx)
		require.NoError(t, err)
		// ccsd and ccsdt are missing for oxygen, so only scf and mp2 sum up
		require.Len(t, sums, 2)
		assert.Equal(t, "scf/pvdz", sums[0].Key)
		assert.InDelta(t, -75.8, sums[0].Value, 1e-12)
		assert.InDelta(t, -75.9, sums[1].Value, 1e-12)

		cov, err := s.Coverage(ctx, "medium")
		require.NoError(t, err)
		assert.ElementsMatch(t, []analysis.CoverageCount{
			{Method: "scf", Basis: "pvdz", Count: 1},
			{Method: "mp2", Basis: "pvdz", Count: 1},
		}, cov)
	}
}

func TestOpen_ManifestAndTSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte("name: demo\nmolecules: mols.tsv\ncalculations: calcs.csv\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mols.tsv"), []byte("label\tformula\tgroup\nh2oA\th2o\tmacro\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "calcs.csv"), []byte("label,calc,basis,scf_energy\nh2oA,scf,pvdz,-76\n"), 0o644))

	s, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, "demo", s.Manifest().Name)
	assert.Equal(t, "atoms.csv", s.Manifest().Atoms)

	cov, err := s.Coverage(context.Background(), "macro")
	require.NoError(t, err)
	assert.Equal(t, []analysis.CoverageCount{{Method: "scf", Basis: "pvdz", Count: 1}}, cov)

	sums, err := s.AtomEnergySums(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sums)
}

func TestOpen_MissingRequiredFile(t *testing.T) {
	_, err := Open(t.TempDir())
	var missing *MissingFileError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "molecules.csv", missing.File)
}

func TestOpen_InvalidNumber(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "molecules.csv"), []byte("label,formula,group\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "calculations.csv"), []byte("label,calc,basis,rot_x\nh2oA,scf,pvdz,abc\n"), 0o644))
	_, err := Open(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid number")
}

func TestOpen_ErrorsReportFileLines(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "molecules.csv"), []byte("label,formula,group\n"), 0o644))
	calcs := "# extracted 2024-03-01\n" +
		"label,calc,basis,rot_x\n" +
		"# scf block\n" +
		"h2oA,scf,pvdz,1\n" +
		"h2oA,mp2,pvdz,oops\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "calculations.csv"), []byte(calcs), 0o644))
	_, err := Open(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calculations.csv line 5 column rot_x")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "calculations.csv"), []byte("label,calc,basis\n"), 0o644))
	atoms := "label,atomic_number,count\n# water\nh2oA,H,2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "atoms.csv"), []byte(atoms), 0o644))
	_, err = Open(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "atoms.csv line 3: invalid atomic_number")
}

func TestStore_CanceledContext(t *testing.T) {
	s, err := Open(writeDataset(t, false))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.TotalEnergies(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_EndToEndAtomization(t *testing.T) {
	s, err := Open(writeDataset(t, false))
	require.NoError(t, err)
	e := compare.NewEngine(s, compare.Options{})
	sum, err := e.Summary(context.Background(), catalog.ForTier(catalog.Large), compare.Atomization)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Rows)
	// (-76.02 + 75.8) - (-76.23 + 75.9) = 0.11 Hartree
	assert.InDelta(t, 0.11*627.5, sum.Stats[0].Mean, 1e-8)
}
