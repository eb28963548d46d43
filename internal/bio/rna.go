package bio

// RNA is a nucleic-acid polymer. It has no initiator residue.
type RNA struct {
	core
	consensus *RNA
}

var _ Polymer[*RNA] = (*RNA)(nil)

// NewRNA builds a consensus RNA from f.
func NewRNA(f Fields) *RNA {
	return &RNA{core: core{f: f.clone()}}
}

func (r *RNA) Kind() string { return "rna" }

func (r *RNA) IsConsensus() bool { return r.consensus == nil }

func (r *RNA) Consensus() *RNA {
	if r.consensus == nil {
		return r
	}
	return r.consensus
}

func (r *RNA) ConsensusSequence() string { return r.Consensus().BaseSequence() }

func (r *RNA) Initiator() (byte, bool) { return 0, false }

func (r *RNA) CreateVariant(f Fields) *RNA {
	c := r.Consensus()
	return &RNA{
		core:      core{f: variantFields(c.f, f)},
		consensus: c,
	}
}

func (r *RNA) Derive(f Fields) *RNA {
	return NewRNA(f)
}
