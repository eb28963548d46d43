package decoy

import (
	"strings"

	"github.com/inodb/vibe-proteoform/internal/bio"
)

// Reverse builds the reversal decoy of p. A protein starting with the
// initiator methionine keeps it in front and reverses the remainder; every
// other sequence is reversed whole. Modifications keep their identity and
// move with their residue; annotation types gain the identifier prefix.
func Reverse[T bio.Polymer[T]](p T, identifier string) T {
	r := newReversal(p)
	f := decoyFields(p, identifier, r.sequence)

	f.Modifications = make(bio.ModificationMap)
	mods := p.Modifications()
	for _, pos := range mods.Positions() {
		if pos < 1 || pos > r.length {
			continue
		}
		f.Modifications.Append(r.residue(pos), mods[pos]...)
	}

	for _, t := range p.TruncationProducts() {
		f.TruncationProducts = append(f.TruncationProducts, r.truncation(t, identifier))
	}
	for _, s := range p.SpliceSites() {
		f.SpliceSites = append(f.SpliceSites, &bio.SpliceSite{
			Begin:       r.length - s.End + 1,
			End:         r.length - s.Begin + 1,
			Description: identifier + s.Description,
		})
	}
	for _, d := range p.DisulfideBonds() {
		b, e := r.residue(d.Begin), r.residue(d.End)
		f.DisulfideBonds = append(f.DisulfideBonds, &bio.DisulfideBond{
			Begin:       min(b, e),
			End:         max(b, e),
			Description: identifier + d.Description,
		})
	}

	f.SequenceVariations = r.variations(p.SequenceVariations(), identifier)
	f.AppliedSequenceVariations = r.variations(p.AppliedSequenceVariations(), identifier)
	return p.Derive(f)
}

// reversal carries the coordinate maps of one reversed sequence.
type reversal struct {
	sequence  string
	length    int
	initiator bool
}

func newReversal(p bio.BioPolymer) reversal {
	seq := p.BaseSequence()
	r := reversal{length: len(seq), initiator: keepsInitiator(p)}
	if r.initiator {
		r.sequence = seq[:1] + reverseString(seq[1:])
	} else {
		r.sequence = reverseString(seq)
	}
	return r
}

// residue maps a target position to the decoy position of the same residue.
func (r reversal) residue(pos int) int {
	switch {
	case r.initiator && pos == 1:
		return 1
	case r.initiator:
		return r.length - pos + 2
	default:
		return r.length - pos + 1
	}
}

// truncation reverses the span [begin, end] to [L-end+1, L-begin+1]. Open
// bounds swap ends.
func (r reversal) truncation(t *bio.TruncationProduct, identifier string) *bio.TruncationProduct {
	out := &bio.TruncationProduct{Type: identifier + t.Type}
	if t.End != nil {
		out.Begin = bio.IntPtr(r.length - *t.End + 1)
	}
	if t.Begin != nil {
		out.End = bio.IntPtr(r.length - *t.Begin + 1)
	}
	return out
}

func (r reversal) variations(vs []*bio.SequenceVariation, identifier string) []*bio.SequenceVariation {
	var out []*bio.SequenceVariation
	for _, v := range vs {
		if dv, ok := r.variation(v, identifier); ok {
			out = append(out, dv)
		}
	}
	return out
}

// variation reverses one sequence variation. Stop gains keep their span;
// an edit of the initiator keeps position 1; all others follow the residue
// map with both edit strings reversed.
func (r reversal) variation(v *bio.SequenceVariation, identifier string) (*bio.SequenceVariation, bool) {
	b, e := v.Begin(), v.End()
	original, variant := v.OriginalSequence(), v.VariantSequence()

	var nb, ne int
	var no, nv string
	switch {
	case v.IsStopGain():
		nb, ne = b, e
		if b-1 < len(r.sequence) {
			no = r.sequence[b-1 : min(e, len(r.sequence))]
		}
		nv = reverseString(strings.TrimSuffix(variant, string(bio.StopCodon))) + string(bio.StopCodon)
	case r.initiator && b == 1 && e == 1:
		nb, ne = 1, 1
		no, nv = original, variant
	case r.initiator && b == 1:
		nb, ne = r.length-e+2, r.length
		no = reverseString(original[min(1, len(original)):])
		if strings.HasPrefix(variant, string(bio.InitiatorMethionine)) {
			nv = reverseString(variant[1:])
		} else {
			nv = reverseString(variant)
		}
	default:
		nb, ne = r.residue(e), r.residue(b)
		no, nv = reverseString(original), reverseString(variant)
	}

	mods := make(bio.ModificationMap)
	vm := v.Modifications()
	for _, key := range vm.Positions() {
		for _, k := range r.variantModKeys(v, key) {
			mods.Append(k, vm[key]...)
		}
	}

	dv, err := bio.RestoreSequenceVariation(nb, ne, no, nv, identifier+v.Description(), v.CallRecord(), mods)
	if err != nil {
		return nil, false
	}
	return dv, true
}

// variantModKeys maps a modification key carried by a variation. Keys are
// reflected about the variant-adjusted length. A stop gain's key at its own
// begin stays in place and also gets the reflected copy.
func (r reversal) variantModKeys(v *bio.SequenceVariation, key int) []int {
	vl := r.length + v.LengthChange()
	switch {
	case v.IsStopGain() && key == v.Begin():
		return []int{key, vl - key + 1}
	case v.IsStopGain():
		return []int{vl - key + 1}
	case r.initiator && key == 1:
		if strings.HasPrefix(v.VariantSequence(), string(bio.InitiatorMethionine)) {
			return []int{1}
		}
		return []int{r.length}
	case r.initiator:
		return []int{vl - key + 2}
	default:
		return []int{vl - key + 1}
	}
}
