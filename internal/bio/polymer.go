package bio

import "strings"

// Fields is the full state of a biopolymer. It is the builder input for
// NewProtein, NewRNA, CreateVariant and Derive.
type Fields struct {
	Accession                 string
	Name                      string
	FullName                  string
	Organism                  string
	Sequence                  string
	Modifications             ModificationMap
	SequenceVariations        []*SequenceVariation // Not yet applied, in this sequence's coordinates
	AppliedSequenceVariations []*SequenceVariation // Burned into Sequence
	TruncationProducts        []*TruncationProduct
	DisulfideBonds            []*DisulfideBond
	SpliceSites               []*SpliceSite
	SampleName                string
	DatabasePath              string
	IsDecoy                   bool
	IsContaminant             bool
}

func (f Fields) clone() Fields {
	cp := f
	cp.Modifications = f.Modifications.Clone()
	cp.SequenceVariations = append([]*SequenceVariation(nil), f.SequenceVariations...)
	cp.AppliedSequenceVariations = append([]*SequenceVariation(nil), f.AppliedSequenceVariations...)
	cp.TruncationProducts = append([]*TruncationProduct(nil), f.TruncationProducts...)
	cp.DisulfideBonds = append([]*DisulfideBond(nil), f.DisulfideBonds...)
	cp.SpliceSites = append([]*SpliceSite(nil), f.SpliceSites...)
	return cp
}

// BioPolymer is the capability set shared by proteins and nucleic acids.
type BioPolymer interface {
	Kind() string
	Accession() string
	Name() string
	Organism() string
	BaseSequence() string
	Length() int
	Modifications() ModificationMap
	SequenceVariations() []*SequenceVariation
	AppliedSequenceVariations() []*SequenceVariation
	TruncationProducts() []*TruncationProduct
	DisulfideBonds() []*DisulfideBond
	SpliceSites() []*SpliceSite
	SampleName() string
	IsDecoy() bool
	IsContaminant() bool
	IsConsensus() bool
	ConsensusSequence() string
	// Initiator returns the residue a decoy must keep at position 1, if any.
	Initiator() (byte, bool)
	Fields() Fields
}

// Polymer is a BioPolymer that can build new instances of its own type.
type Polymer[T any] interface {
	BioPolymer
	// CreateVariant builds a variant instance of this polymer's consensus.
	CreateVariant(f Fields) T
	// Derive builds an unrelated consensus instance of the same kind.
	Derive(f Fields) T
}

// core holds the state shared by Protein and RNA.
type core struct {
	f Fields
}

func (c *core) Accession() string    { return c.f.Accession }
func (c *core) Name() string         { return c.f.Name }
func (c *core) FullName() string     { return c.f.FullName }
func (c *core) Organism() string     { return c.f.Organism }
func (c *core) BaseSequence() string { return c.f.Sequence }
func (c *core) Length() int          { return len(c.f.Sequence) }
func (c *core) SampleName() string   { return c.f.SampleName }
func (c *core) DatabasePath() string { return c.f.DatabasePath }
func (c *core) IsDecoy() bool        { return c.f.IsDecoy }
func (c *core) IsContaminant() bool  { return c.f.IsContaminant }

// Modifications returns a copy of the position-keyed modifications.
func (c *core) Modifications() ModificationMap { return c.f.Modifications.Clone() }

func (c *core) SequenceVariations() []*SequenceVariation {
	return append([]*SequenceVariation(nil), c.f.SequenceVariations...)
}

func (c *core) AppliedSequenceVariations() []*SequenceVariation {
	return append([]*SequenceVariation(nil), c.f.AppliedSequenceVariations...)
}

func (c *core) TruncationProducts() []*TruncationProduct {
	return append([]*TruncationProduct(nil), c.f.TruncationProducts...)
}

func (c *core) DisulfideBonds() []*DisulfideBond {
	return append([]*DisulfideBond(nil), c.f.DisulfideBonds...)
}

func (c *core) SpliceSites() []*SpliceSite {
	return append([]*SpliceSite(nil), c.f.SpliceSites...)
}

// Fields returns a snapshot of the polymer state.
func (c *core) Fields() Fields { return c.f.clone() }

// AddTruncationProduct appends a product during construction, before the
// instance is shared.
func (c *core) AddTruncationProduct(t *TruncationProduct) {
	c.f.TruncationProducts = append(c.f.TruncationProducts, t)
}

// variantFields fills the identity of a variant of consensus from f.
func variantFields(consensus Fields, f Fields) Fields {
	out := f.clone()
	out.Accession = variantLabel(consensus.Accession, f.AppliedSequenceVariations)
	out.Name = variantLabel(consensus.Name, f.AppliedSequenceVariations)
	out.FullName = consensus.FullName
	out.Organism = consensus.Organism
	out.DatabasePath = consensus.DatabasePath
	out.IsDecoy = consensus.IsDecoy
	out.IsContaminant = consensus.IsContaminant
	// The catalog is only meaningful in the consensus coordinate space.
	if len(f.AppliedSequenceVariations) > 0 {
		out.SequenceVariations = nil
	}
	return out
}

// variantLabel appends each applied variation token, e.g. "P12345_P4V".
func variantLabel(base string, applied []*SequenceVariation) string {
	if len(applied) == 0 || base == "" {
		return base
	}
	parts := make([]string, 0, len(applied)+1)
	parts = append(parts, base)
	for _, v := range applied {
		parts = append(parts, v.SimpleString())
	}
	return strings.Join(parts, "_")
}

// AsBioPolymers widens a slice of concrete polymers.
func AsBioPolymers[T BioPolymer](ps []T) []BioPolymer {
	out := make([]BioPolymer, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}
