package vcf

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVCF = "##fileformat=VCFv4.2\n" +
	"##INFO=<ID=ANN,Number=.,Type=String,Description=\"Functional annotations\">\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tTUMOR\tNORMAL\n" +
	"1\t100\trs1\tC\tT\t50\tPASS\tANN=T|missense_variant\tGT:AD\t0/1:10,12\t0/0:20,0\n" +
	"\n" +
	"chr2\t200\t.\tG\tA,C\t.\tPASS\tDP=30\tGT:AD\t1|2:0,8,9\t./.:0,0,0\n"

func TestParser_FromReader(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(testVCF))
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, []string{"TUMOR", "NORMAL"}, p.SampleNames())
	assert.Len(t, p.Header(), 3)

	v, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "1", v.Chrom)
	assert.Equal(t, int64(100), v.Pos)
	assert.Equal(t, "rs1", v.ID)
	assert.Equal(t, 50.0, v.Qual)
	assert.Equal(t, "GT:AD", v.Format)
	assert.Equal(t, []string{"0/1:10,12", "0/0:20,0"}, v.Samples)
	assert.Equal(t, "T|missense_variant", v.Info["ANN"])

	// Blank lines are skipped.
	v, err = p.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "2", v.NormalizeChrom())
	assert.Equal(t, "2:200:G>A,C", v.Key())
	assert.Equal(t, "30", v.Info["DP"])

	v, err = p.Next()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestParser_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.vcf.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(testVCF))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	v, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "rs1", v.ID)
}

func TestParser_Errors(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("1\t100\t.\tC\tT\n"))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Line)
	assert.Contains(t, err.Error(), "expected #CHROM header line")

	p, err := NewParserFromReader(strings.NewReader("#CHROM\tPOS\n1\tx\t.\tC\tT\t.\tPASS\t.\n"))
	require.NoError(t, err)
	_, err = p.Next()
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, "vcf parse error at line 2: invalid position: x", err.Error())

	p, err = NewParserFromReader(strings.NewReader("#CHROM\n1\t100\n"))
	require.NoError(t, err)
	_, err = p.Next()
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Message, "found 2")

	_, err = NewParser(filepath.Join(t.TempDir(), "missing.vcf"))
	assert.Error(t, err)
}

func TestSplitMultiAllelic(t *testing.T) {
	v := &Variant{Chrom: "2", Pos: 200, Ref: "G", Alt: "A,C", Format: "GT", Samples: []string{"1/2"}}
	split := SplitMultiAllelic(v)
	require.Len(t, split, 2)
	assert.Equal(t, "A", split[0].Alt)
	assert.Equal(t, "C", split[1].Alt)
	assert.Equal(t, v.Samples, split[1].Samples)

	withInfo := &Variant{Alt: "A,C", Info: map[string]interface{}{"DP": "30"}, Samples: []string{"0/1"}}
	split = SplitMultiAllelic(withInfo)
	split[0].Info["DP"] = "1"
	split[0].Samples[0] = "1/1"
	assert.Equal(t, "30", split[1].Info["DP"])
	assert.Equal(t, "30", withInfo.Info["DP"])
	assert.Equal(t, "0/1", withInfo.Samples[0])

	single := &Variant{Alt: "T"}
	assert.Equal(t, []*Variant{single}, SplitMultiAllelic(single))
}

func TestIndex(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(testVCF))
	require.NoError(t, err)
	idx, err := BuildIndex(p)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	v, ok := idx.Lookup("rs1")
	require.True(t, ok)
	assert.Equal(t, int64(100), v.Pos)

	v, ok = idx.Lookup("chr2:200:G>C")
	require.True(t, ok)
	assert.Equal(t, "C", v.Alt)

	_, ok = idx.Lookup("3:1:A>G")
	assert.False(t, ok)

	path := filepath.Join(t.TempDir(), "calls.vcf")
	require.NoError(t, os.WriteFile(path, []byte(testVCF), 0o644))
	idx, err = LoadIndex(path)
	require.NoError(t, err)
	_, ok = idx.Lookup("1:100:C>T")
	assert.True(t, ok)
}
