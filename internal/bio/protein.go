package bio

// InitiatorMethionine is the residue preserved at position 1 of protein decoys.
const InitiatorMethionine = 'M'

// Protein is an amino-acid polymer.
type Protein struct {
	core
	consensus *Protein // nil on the consensus itself
}

var _ Polymer[*Protein] = (*Protein)(nil)

// NewProtein builds a consensus protein from f.
func NewProtein(f Fields) *Protein {
	return &Protein{core: core{f: f.clone()}}
}

// Kind returns "protein".
func (p *Protein) Kind() string { return "protein" }

// IsConsensus reports whether p is its own consensus.
func (p *Protein) IsConsensus() bool { return p.consensus == nil }

// Consensus returns the consensus instance; p itself on the consensus.
func (p *Protein) Consensus() *Protein {
	if p.consensus == nil {
		return p
	}
	return p.consensus
}

// ConsensusSequence returns the sequence of the consensus instance.
func (p *Protein) ConsensusSequence() string { return p.Consensus().BaseSequence() }

// Initiator returns the initiator methionine.
func (p *Protein) Initiator() (byte, bool) { return InitiatorMethionine, true }

// CreateVariant builds a variant of p's consensus. Identity fields are taken
// from the consensus; the accession gains the applied variation tokens.
func (p *Protein) CreateVariant(f Fields) *Protein {
	c := p.Consensus()
	return &Protein{
		core:      core{f: variantFields(c.f, f)},
		consensus: c,
	}
}

// Derive builds a new consensus protein from f.
func (p *Protein) Derive(f Fields) *Protein {
	return NewProtein(f)
}
