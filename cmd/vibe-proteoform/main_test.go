package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-proteoform/internal/duckdb"
)

const testDatabase = `polymers:
  - accession: P1
    name: TEST
    sequence: MPEPTIDE
    variants:
      - begin: 4
        end: 4
        original: P
        variant: V
        vcf: "1\t100\t.\tC\tT\t.\tPASS\tANN=T|missense_variant\tGT:AD\t1/1:0,20"
`

// execute runs the CLI with a fresh viper and an empty home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	cfgFile = ""
	t.Cleanup(viper.Reset)

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDatabase), 0644))
	return path
}

func dataLines(out string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}
	return rows
}

func TestDetectInputFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"db.yaml", "yaml"},
		{"db.YML", "yaml"},
		{"uniprot.fasta", "fasta"},
		{"uniprot.fasta.gz", "fasta"},
		{"rna.fa", "fasta"},
		{"input.vcf", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, detectInputFormat(tt.path))
		})
	}
}

func TestVariantsTab(t *testing.T) {
	db := writeDatabase(t)
	out, err := execute(t, "variants", "--max-isoforms", "0", db)
	require.NoError(t, err)

	rows := dataLines(out)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"P1", "P1_P4V", "DECOY_P1", "DECOY_P1_P4V"},
		[]string{rows[0][0], rows[1][0], rows[2][0], rows[3][0]})
	assert.Equal(t, "MPEVTIDE", rows[1][6])
	assert.Equal(t, "P4V", rows[1][7])
	assert.Equal(t, "YES", rows[3][3])
	assert.Equal(t, "MEDITVEP", rows[3][6])
}

func TestVariantsDefaultsKeepConsensusOnly(t *testing.T) {
	db := writeDatabase(t)
	out, err := execute(t, "variants", "--decoy-type", "none", db)
	require.NoError(t, err)

	rows := dataLines(out)
	require.Len(t, rows, 1)
	assert.Equal(t, "MPEPTIDE", rows[0][6])

	long := newVariantsCmd().Long
	assert.Contains(t, long, "variants.max-isoforms = 1")
	assert.Contains(t, long, "--max-isoforms 0")
}

func TestDecoysFASTA(t *testing.T) {
	db := writeDatabase(t)
	path := filepath.Join(t.TempDir(), "out.fasta")
	_, err := execute(t, "decoys", "--include-targets", "--decoy-type", "slide", "-f", "fasta", "-o", path, db)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, ">P1 ")
	assert.Contains(t, text, ">DECOY_P1 ")
	assert.Less(t, strings.Index(text, ">P1 "), strings.Index(text, ">DECOY_P1 "))
}

func TestVariantsDuckDB(t *testing.T) {
	db := writeDatabase(t)
	store := filepath.Join(t.TempDir(), "results.duckdb")
	_, err := execute(t, "variants", "--max-isoforms", "0", "-f", "duckdb", "--store", store, db)
	require.NoError(t, err)

	s, err := duckdb.Open(store)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "variants", runs[0].Command)

	targets, decoys, err := s.CountProteoforms(runs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, targets)
	assert.Equal(t, 2, decoys)
}

func TestOutputFormatErrors(t *testing.T) {
	db := writeDatabase(t)

	_, err := execute(t, "variants", "-f", "sqlite", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output is required")

	_, err = execute(t, "variants", "-f", "duckdb", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--store or --output")

	_, err = execute(t, "variants", "-f", "xml", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")

	_, err = execute(t, "variants", filepath.Join(t.TempDir(), "input.vcf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot detect input format")
}

func TestVariantsSQLite(t *testing.T) {
	db := writeDatabase(t)
	path := filepath.Join(t.TempDir(), "library.db")
	_, err := execute(t, "variants", "-f", "sqlite", "-o", path, db)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPalindrome(t *testing.T) {
	out, err := execute(t, "palindrome", "PEPEP", "MPEPTIDE")
	require.NoError(t, err)
	assert.Equal(t, "#sequence\tpalindromic\tdegree\nPEPEP\ttrue\t2\nMPEPTIDE\tfalse\t0\n", out)
}

func TestConfigSetAndGet(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("workers: 2\n"), 0644))

	out, err := execute(t, "--config", cfg, "config", "set", "decoys.type", "slide")
	require.NoError(t, err)
	assert.Contains(t, out, "Set decoys.type = slide")

	out, err = execute(t, "--config", cfg, "config", "get", "decoys.type")
	require.NoError(t, err)
	assert.Equal(t, "slide\n", out)

	out, err = execute(t, "--config", cfg, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "workers: 2")

	_, err = execute(t, "--config", cfg, "config", "set", "decoys.type", "shuffle")
	assert.Error(t, err)

	_, err = execute(t, "config", "get", "no.such.key")
	assert.Error(t, err)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vibe-proteoform version dev")
}
