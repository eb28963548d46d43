package decoy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inodb/vibe-proteoform/internal/bio"
)

var (
	phospho = &bio.Modification{ID: "Phosphorylation", Motif: "S", Location: bio.LocationAnywhere}
	acetyl  = &bio.Modification{ID: "Acetylation", Motif: "K", Location: bio.LocationNTerminal}
	methyl  = &bio.Modification{ID: "Methylation", Motif: "A", Location: bio.LocationAnywhere}
)

func variation(t *testing.T, begin, end int, original, variant, desc string, mods bio.ModificationMap) *bio.SequenceVariation {
	t.Helper()
	sv, err := bio.NewSequenceVariation(begin, end, original, variant, desc, nil, mods)
	require.NoError(t, err)
	return sv
}

func spans(products []*bio.TruncationProduct) [][2]int {
	out := make([][2]int, len(products))
	for i, p := range products {
		out[i] = [2]int{*p.Begin, *p.End}
	}
	return out
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"reverse", TypeReverse, false},
		{"Slide", TypeSlide, false},
		{"NONE", TypeNone, false},
		{"", TypeNone, false},
		{"shuffle", TypeNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown decoy type")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "Reverse", TypeReverse.String())
	assert.Equal(t, "Type(7)", Type(7).String())
}

func TestReverse_RNAModifications(t *testing.T) {
	r := bio.NewRNA(bio.Fields{
		Accession:     "R1",
		Name:          "tRNA",
		Organism:      "E. coli",
		Sequence:      "AUGCUA",
		Modifications: bio.ModificationMap{2: {methyl}, 5: {phospho}},
	})
	d := Reverse(r, DefaultIdentifier)

	assert.Equal(t, "AUCGUA", d.BaseSequence())
	assert.Equal(t, "DECOY_R1", d.Accession())
	assert.Equal(t, "DECOY_tRNA", d.Name())
	assert.Equal(t, "E. coli", d.Organism())
	assert.True(t, d.IsDecoy())
	assert.True(t, d.IsConsensus())

	mods := d.Modifications()
	assert.Equal(t, r.Modifications().Count(), mods.Count())
	require.Len(t, mods[5], 1)
	require.Len(t, mods[2], 1)
	assert.Same(t, methyl, mods[5][0])
	assert.Same(t, phospho, mods[2][0])
}

func TestReverse_TruncationProducts(t *testing.T) {
	for _, seq := range []string{"ACDEFGHIKL", "MCDEFGHIKL"} {
		t.Run(seq, func(t *testing.T) {
			p := bio.NewProtein(bio.Fields{
				Accession: "P1",
				Sequence:  seq,
				TruncationProducts: []*bio.TruncationProduct{
					bio.NewTruncationProduct(1, 5, "chain"),
					bio.NewTruncationProduct(3, 8, "peptide"),
					bio.NewTruncationProduct(9, 10, "propeptide"),
				},
				SpliceSites: []*bio.SpliceSite{{Begin: 2, End: 4, Description: "exon boundary"}},
			})
			d := Reverse(p, DefaultIdentifier)

			products := d.TruncationProducts()
			assert.Equal(t, [][2]int{{6, 10}, {3, 8}, {1, 2}}, spans(products))
			assert.Equal(t, "DECOY_chain", products[0].Type)
			assert.Equal(t, "DECOY_propeptide", products[2].Type)

			sites := d.SpliceSites()
			require.Len(t, sites, 1)
			assert.Equal(t, 7, sites[0].Begin)
			assert.Equal(t, 9, sites[0].End)
			assert.Equal(t, "DECOY_exon boundary", sites[0].Description)
		})
	}
}

func TestReverse_OpenTruncationProduct(t *testing.T) {
	p := bio.NewProtein(bio.Fields{
		Accession:          "P1",
		Sequence:           "ACDEFGHIKL",
		TruncationProducts: []*bio.TruncationProduct{{Begin: bio.IntPtr(3), Type: "chain"}},
	})
	products := Reverse(p, DefaultIdentifier).TruncationProducts()
	require.Len(t, products, 1)
	assert.Nil(t, products[0].Begin)
	assert.Equal(t, 8, *products[0].End)
}

func TestReverse_RoundTripWithoutInitiator(t *testing.T) {
	for _, seq := range []string{"PEPTIDEK", "AUGCUAGG", "A", ""} {
		p := bio.NewProtein(bio.Fields{Accession: "P1", Sequence: seq})
		twice := Reverse(Reverse(p, DefaultIdentifier), DefaultIdentifier)
		assert.Equal(t, seq, twice.BaseSequence())
	}
}

func TestReverse_InitiatorProtein(t *testing.T) {
	p := bio.NewProtein(bio.Fields{
		Accession:      "P1",
		Name:           "TEST",
		Sequence:       "MPEPTIDE",
		Modifications:  bio.ModificationMap{1: {acetyl}, 2: {phospho}, 4: {phospho}},
		DisulfideBonds: []*bio.DisulfideBond{{Begin: 2, End: 7, Description: "bond"}},
	})
	d := Reverse(p, DefaultIdentifier)

	assert.Equal(t, "MEDITPEP", d.BaseSequence())
	mods := d.Modifications()
	assert.Equal(t, []int{1, 6, 8}, mods.Positions())
	assert.Same(t, acetyl, mods[1][0])
	assert.Equal(t, 3, mods.Count())

	bonds := d.DisulfideBonds()
	require.Len(t, bonds, 1)
	assert.Equal(t, 3, bonds[0].Begin)
	assert.Equal(t, 8, bonds[0].End)
	assert.Equal(t, "DECOY_bond", bonds[0].Description)

	// With the initiator pinned the exact output is fixed.
	twice := Reverse(d, DefaultIdentifier)
	assert.Equal(t, "MPEPTIDE", twice.BaseSequence())
	assert.Equal(t, "DECOY_DECOY_P1", twice.Accession())
}

func TestReverse_SequenceVariations(t *testing.T) {
	p := bio.NewProtein(bio.Fields{
		Accession: "P1",
		Sequence:  "MPEPTIDE",
		SequenceVariations: []*bio.SequenceVariation{
			variation(t, 4, 4, "P", "S", "missense", bio.ModificationMap{4: {phospho}}),
			variation(t, 5, 5, "T", "*", "", nil),
			variation(t, 1, 1, "M", "V", "", nil),
			variation(t, 1, 3, "MPE", "MKE", "", nil),
		},
	})
	d := Reverse(p, DefaultIdentifier)
	vs := d.SequenceVariations()
	require.Len(t, vs, 4)

	assert.Equal(t, "P6S", vs[0].SimpleString())
	assert.Equal(t, "DECOY_missense", vs[0].Description())
	assert.Equal(t, []int{6}, vs[0].Modifications().Positions())

	assert.Equal(t, "T5*", vs[1].SimpleString())
	assert.Equal(t, "DECOY_", vs[1].Description())
	assert.Equal(t, "M1V", vs[2].SimpleString())
	assert.Equal(t, "EP7-8EK", vs[3].SimpleString())

	for _, v := range vs {
		assert.Equal(t, v.OriginalSequence(), d.BaseSequence()[v.Begin()-1:v.End()])
	}
}

func TestReverse_RNAVariation(t *testing.T) {
	r := bio.NewRNA(bio.Fields{
		Accession:          "R1",
		Sequence:           "AUGCUA",
		SequenceVariations: []*bio.SequenceVariation{variation(t, 2, 3, "UG", "CC", "", nil)},
	})
	vs := Reverse(r, "REV_").SequenceVariations()
	require.Len(t, vs, 1)
	assert.Equal(t, "GU4-5CC", vs[0].SimpleString())
}

// modIDs lists modification identifiers by position.
func modIDs(mods bio.ModificationMap) map[int][]string {
	out := make(map[int][]string, len(mods))
	for _, pos := range mods.Positions() {
		for _, m := range mods[pos] {
			out[pos] = append(out[pos], m.ID)
		}
	}
	return out
}

func TestReverse_VariantModificationKeys(t *testing.T) {
	protein := func(sv *bio.SequenceVariation) bio.BioPolymer {
		return Reverse(bio.NewProtein(bio.Fields{
			Accession:          "P1",
			Sequence:           "MPEPTIDE",
			SequenceVariations: []*bio.SequenceVariation{sv},
		}), DefaultIdentifier)
	}
	rna := func(sv *bio.SequenceVariation) bio.BioPolymer {
		return Reverse(bio.NewRNA(bio.Fields{
			Accession:          "R1",
			Sequence:           "AUGCUA",
			SequenceVariations: []*bio.SequenceVariation{sv},
		}), DefaultIdentifier)
	}

	tests := []struct {
		name     string
		reverse  func(*bio.SequenceVariation) bio.BioPolymer
		begin    int
		end      int
		original string
		variant  string
		mods     bio.ModificationMap
		want     map[int][]string
	}{
		{
			name:    "stop gain keeps its begin and adds the reflected key",
			reverse: protein, begin: 5, end: 5, original: "T", variant: "*",
			mods: bio.ModificationMap{5: {phospho}, 3: {methyl}},
			want: map[int][]string{4: {"Phosphorylation"}, 5: {"Phosphorylation"}, 6: {"Methylation"}},
		},
		{
			name:    "initiator key with initiator variant",
			reverse: protein, begin: 1, end: 1, original: "M", variant: "M",
			mods: bio.ModificationMap{1: {acetyl}},
			want: map[int][]string{1: {"Acetylation"}},
		},
		{
			name:    "initiator key with substituted initiator",
			reverse: protein, begin: 1, end: 1, original: "M", variant: "V",
			mods: bio.ModificationMap{1: {acetyl}},
			want: map[int][]string{8: {"Acetylation"}},
		},
		{
			name:    "initiator protein insertion",
			reverse: protein, begin: 4, end: 4, original: "P", variant: "PKK",
			mods: bio.ModificationMap{5: {methyl}},
			want: map[int][]string{7: {"Methylation"}},
		},
		{
			name:    "no initiator insertion",
			reverse: rna, begin: 3, end: 3, original: "G", variant: "GAA",
			mods: bio.ModificationMap{4: {methyl}},
			want: map[int][]string{5: {"Methylation"}},
		},
		{
			name:    "no initiator substitution",
			reverse: rna, begin: 2, end: 2, original: "U", variant: "C",
			mods: bio.ModificationMap{2: {methyl}},
			want: map[int][]string{5: {"Methylation"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sv, err := bio.RestoreSequenceVariation(tt.begin, tt.end, tt.original, tt.variant, "", nil, tt.mods)
			require.NoError(t, err)

			vs := tt.reverse(sv).SequenceVariations()
			require.Len(t, vs, 1)
			assert.Equal(t, tt.want, modIDs(vs[0].Modifications()))
			assert.Equal(t, DefaultIdentifier, vs[0].Description())
		})
	}
}

func TestSlide(t *testing.T) {
	p := bio.NewProtein(bio.Fields{
		Accession:     "P1",
		Sequence:      "MPEPTIDEK",
		Modifications: bio.ModificationMap{1: {acetyl}, 2: {phospho}},
		TruncationProducts: []*bio.TruncationProduct{
			bio.NewTruncationProduct(2, 4, "peptide"),
			bio.NewTruncationProduct(5, 9, "chain"),
		},
		SequenceVariations: []*bio.SequenceVariation{
			variation(t, 3, 3, "E", "K", "", nil),
			variation(t, 5, 6, "TI", "SV", "", nil),
		},
	})
	d := Slide(p, DefaultIdentifier)

	assert.Equal(t, "MIDEKPEPT", d.BaseSequence())
	assert.Equal(t, "DECOY_P1", d.Accession())
	mods := d.Modifications()
	assert.Equal(t, []int{1, 6}, mods.Positions())
	assert.Same(t, phospho, mods[6][0])

	products := d.TruncationProducts()
	assert.Equal(t, [][2]int{{6, 8}, {5, 9}}, spans(products))
	assert.Equal(t, "DECOY_chain", products[1].Type)

	vs := d.SequenceVariations()
	require.Len(t, vs, 1)
	assert.Equal(t, "E7K", vs[0].SimpleString())
	assert.Equal(t, "DECOY_", vs[0].Description())

	again := Slide(p, DefaultIdentifier)
	assert.Equal(t, d.BaseSequence(), again.BaseSequence())
}

func TestSlide_RNA(t *testing.T) {
	r := bio.NewRNA(bio.Fields{Accession: "R1", Sequence: "AUGCUAGCA"})
	d := Slide(r, DefaultIdentifier)
	assert.Equal(t, "GCUAGCAAU", d.BaseSequence())
	assert.ElementsMatch(t, []byte(r.BaseSequence()), []byte(d.BaseSequence()))
}

func TestGenerate(t *testing.T) {
	targets := []*bio.Protein{
		bio.NewProtein(bio.Fields{Accession: "P1", Sequence: "MPEPTIDE"}),
		bio.NewProtein(bio.Fields{Accession: "P2", Sequence: "MAKKA"}),
	}

	t.Run("none", func(t *testing.T) {
		got := Generate(targets, Options{Type: TypeNone})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("reverse warns on palindromes", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		got := Generate(targets, Options{Type: TypeReverse, Logger: zap.New(core)})
		require.Len(t, got, 2)
		assert.Equal(t, "DECOY_P1", got[0].Accession())
		assert.Equal(t, "MAKKA", got[1].BaseSequence())

		warned := logs.FilterMessage("decoy matches target sequence").All()
		require.Len(t, warned, 1)
		assert.Equal(t, "P2", warned[0].ContextMap()["accession"])
	})

	t.Run("custom identifier", func(t *testing.T) {
		got := Generate(targets[:1], Options{Type: TypeSlide, Identifier: "REV_"})
		require.Len(t, got, 1)
		assert.Equal(t, "REV_P1", got[0].Accession())
	})

	t.Run("unsupported type", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		got := Generate(targets, Options{Type: Type(9), Logger: zap.New(core)})
		assert.Empty(t, got)
		assert.Equal(t, 1, logs.Len())
	})
}

func TestIsPalindromic(t *testing.T) {
	tests := []struct {
		name       string
		seq        string
		minDegree  int
		cutoff     int
		want       bool
		wantDegree int
	}{
		{"cutoff reached", "AABBAA", 2, 3, true, 3},
		{"partial palindrome", "ABCDEFCBA", 1, 0, false, 3},
		{"empty", "", 3, 0, false, 0},
		{"full even", "ABBA", 1, 0, true, 2},
		{"full odd ignores middle", "ABXBA", 1, 0, true, 2},
		{"first mismatch stops", "ABCA", 1, 0, false, 1},
		{"below min degree", "ABBA", 3, 0, false, 2},
		{"cutoff counts past mismatch", "ABXCBA", 2, 2, true, 2},
		{"cutoff not reached", "AXCDYA", 1, 5, false, 1},
		{"single residue", "A", 1, 0, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, degree := IsPalindromic(tt.seq, tt.minDegree, tt.cutoff)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDegree, degree)
		})
	}
}
