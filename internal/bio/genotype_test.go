package bio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callRecord builds a record the way the vcf package would parse it.
func callRecord(samples ...string) *VariantCallRecord {
	fields := []string{"1", "100", ".", "C", "T", ".", "PASS", "ANN=T|missense_variant", "GT:AD"}
	fields = append(fields, samples...)
	r := &VariantCallRecord{
		Raw:              strings.Join(fields, "\t"),
		ReferenceAllele:  "C",
		AlternateAlleles: []string{"T"},
		Format:           "GT:AD",
		AlleleIndex:      1,
		Genotypes:        map[string][]string{},
		AlleleDepths:     map[string][]string{},
		Zygosity:         map[string]Zygosity{},
	}
	for i, s := range samples {
		key := string(rune('0' + i))
		gt, ad, _ := strings.Cut(s, ":")
		tokens := strings.FieldsFunc(gt, func(r rune) bool { return r == '/' || r == '|' })
		r.Genotypes[key] = tokens
		r.AlleleDepths[key] = strings.Split(ad, ",")
		r.Zygosity[key] = ZygosityOf(tokens)
	}
	return r
}

func TestZygosityOf(t *testing.T) {
	assert.Equal(t, Homozygous, ZygosityOf([]string{"1", "1"}))
	assert.Equal(t, Heterozygous, ZygosityOf([]string{"0", "1"}))
	assert.Equal(t, ZygosityUnknown, ZygosityOf([]string{".", "1"}))
	assert.Equal(t, ZygosityUnknown, ZygosityOf(nil))
	assert.Equal(t, "Heterozygous", Heterozygous.String())
}

func TestSplitPerGenotype(t *testing.T) {
	call := callRecord("0/1:10,12", "1/1:0,20")
	sv, err := NewSequenceVariation(4, 4, "P", "V", "P4V", call, ModificationMap{4: {phospho}})
	require.NoError(t, err)

	split := sv.SplitPerGenotype(0, false, false)
	require.Len(t, split, 2)

	assert.Equal(t, "P4V | HeterozygousAlt | Sample=0", split[0].Description())
	assert.Equal(t, "P4V | HomozygousAlt | Sample=1", split[1].Description())
	for i, v := range split {
		assert.Equal(t, "V", v.VariantSequence())
		assert.Equal(t, 1, v.Modifications().Count())
		assert.Len(t, v.CallRecord().Samples(), 1)
		assert.Equal(t, []string{string(rune('0' + i))}, v.CallRecord().Samples())
	}
}

func TestSplitPerGenotype_ReferenceEntriesAreOmittedWhenNoOp(t *testing.T) {
	call := callRecord("0/1:10,12", "0/0:30,0")
	sv, err := NewSequenceVariation(4, 4, "P", "V", "P4V", call, nil)
	require.NoError(t, err)

	split := sv.SplitPerGenotype(0, true, true)
	require.Len(t, split, 1)
	assert.Equal(t, "P4V | HeterozygousAlt | Sample=0", split[0].Description())
}

func TestSplitPerGenotype_MinDepth(t *testing.T) {
	call := callRecord("0/1:10,12", "1/1:0,20")
	sv, err := NewSequenceVariation(4, 4, "P", "V", "P4V", call, nil)
	require.NoError(t, err)

	assert.Empty(t, sv.SplitPerGenotype(25, false, false))

	split := sv.SplitPerGenotype(21, false, false)
	require.Len(t, split, 1)
	assert.Contains(t, split[0].Description(), "Sample=0")
}

func TestSplitPerGenotype_MalformedRecord(t *testing.T) {
	call := callRecord("0/1:10,12")
	call.Raw = strings.Join(strings.Split(call.Raw, "\t")[:9], "\t")
	sv, err := NewSequenceVariation(4, 4, "P", "V", "", call, nil)
	require.NoError(t, err)
	assert.Empty(t, sv.SplitPerGenotype(0, true, true))

	noCalls, err := NewSequenceVariation(4, 4, "P", "V", "", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, noCalls.SplitPerGenotype(0, true, true))
}

func TestSplitPerGenotype_OtherAlternateOnly(t *testing.T) {
	call := callRecord("2/2:0,0,15")
	sv, err := NewSequenceVariation(4, 4, "P", "V", "", call, nil)
	require.NoError(t, err)
	assert.Empty(t, sv.SplitPerGenotype(0, false, false))
}

func TestCombineEquivalent(t *testing.T) {
	a := mustVariation(t, 3, 3, "K", "R", ModificationMap{2: {phospho}})
	b := mustVariation(t, 3, 3, "K", "R", ModificationMap{2: {phospho}, 3: {acetyl}})
	c := mustVariation(t, 5, 5, "P", "V", nil)

	combined := CombineEquivalent([]*SequenceVariation{a, c, b})
	require.Len(t, combined, 2)

	merged := combined[0]
	assert.Equal(t, "K3R", merged.SimpleString())
	mods := merged.Modifications()
	assert.Len(t, mods[2], 1, "duplicate identifiers collapse")
	assert.Len(t, mods[3], 1)
	assert.Equal(t, "P5V", combined[1].SimpleString())

	// Inputs are untouched.
	assert.Equal(t, 1, a.Modifications().Count())
}

func TestCombineEquivalent_NilInput(t *testing.T) {
	combined := CombineEquivalent(nil)
	require.NotNil(t, combined)
	assert.Empty(t, combined)
}
