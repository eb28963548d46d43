package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-proteoform/internal/bio"
)

func protein(acc, seq string) *bio.Protein {
	return bio.NewProtein(bio.Fields{Accession: acc, Sequence: seq})
}

func TestRegistry_AddGet(t *testing.T) {
	r := New[*bio.Protein]()
	require.NoError(t, r.Add(protein("P2", "MKK")))
	require.NoError(t, r.Add(protein("P1", "MPEPTIDE")))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"P1", "P2"}, r.Accessions())

	p, ok := r.Get("P1")
	require.True(t, ok)
	assert.Equal(t, "MPEPTIDE", p.BaseSequence())

	_, ok = r.Get("P9")
	assert.False(t, ok)

	polymers := r.Polymers()
	require.Len(t, polymers, 2)
	assert.Equal(t, "P2", polymers[0].Accession())
}

func TestRegistry_Errors(t *testing.T) {
	r := New[*bio.RNA]()
	require.NoError(t, r.Add(bio.NewRNA(bio.Fields{Accession: "R1", Sequence: "AUG"})))

	err := r.Add(bio.NewRNA(bio.Fields{Accession: "R1", Sequence: "AUGC"}))
	assert.ErrorContains(t, err, "duplicate accession")

	err = r.Add(bio.NewRNA(bio.Fields{Sequence: "AUGC"}))
	assert.ErrorContains(t, err, "empty accession")

	err = r.Replace(bio.NewRNA(bio.Fields{Accession: "R2"}))
	assert.ErrorContains(t, err, "not found")
}

func TestRegistry_Isoforms(t *testing.T) {
	r := New[*bio.Protein]()
	require.NoError(t, r.Add(protein("P1", "MPEPTIDE")))
	require.NoError(t, r.AddIsoform(protein("P1-2", "MPEPTIDEK"), "P1"))
	require.NoError(t, r.AddIsoform(protein("P1-3", "MPEP"), "P1"))

	isoforms := r.Isoforms("P1")
	require.Len(t, isoforms, 2)
	assert.Equal(t, "P1-2", isoforms[0].Accession())
	assert.Equal(t, "P1", r.CanonicalOf("P1-3"))
	assert.Empty(t, r.CanonicalOf("P1"))
	assert.Empty(t, r.Isoforms("P9"))
}

func TestRegistry_Replace(t *testing.T) {
	r := New[*bio.Protein]()
	require.NoError(t, r.Add(protein("P1", "MPEPTIDE")))
	require.NoError(t, r.Replace(protein("P1", "MPEVTIDE")))

	p, ok := r.Get("P1")
	require.True(t, ok)
	assert.Equal(t, "MPEVTIDE", p.BaseSequence())
	assert.Equal(t, 1, r.Len())
}
