package decoy

import "github.com/inodb/vibe-proteoform/internal/bio"

// numSlides is the rotation applied by Slide.
const numSlides = 20

// Slide builds a composition-preserving decoy by rotating the residues of p
// by a fixed offset. The initiator methionine of a protein stays in place.
// Annotations whose residues stay contiguous move with them; truncation
// products and splice sites that would be split keep their coordinates, and
// split sequence variations are dropped.
func Slide[T bio.Polymer[T]](p T, identifier string) T {
	s := newSlide(p)
	f := decoyFields(p, identifier, s.sequence)

	f.Modifications = make(bio.ModificationMap)
	mods := p.Modifications()
	for _, pos := range mods.Positions() {
		if pos < 1 || pos > s.length {
			continue
		}
		f.Modifications.Append(s.residue(pos), mods[pos]...)
	}

	for _, t := range p.TruncationProducts() {
		out := &bio.TruncationProduct{Begin: t.Begin, End: t.End, Type: identifier + t.Type}
		if !t.IsOpen() {
			if b, e, ok := s.span(*t.Begin, *t.End); ok {
				out.Begin, out.End = bio.IntPtr(b), bio.IntPtr(e)
			}
		}
		f.TruncationProducts = append(f.TruncationProducts, out)
	}
	for _, site := range p.SpliceSites() {
		b, e, ok := s.span(site.Begin, site.End)
		if !ok {
			b, e = site.Begin, site.End
		}
		f.SpliceSites = append(f.SpliceSites, &bio.SpliceSite{Begin: b, End: e, Description: identifier + site.Description})
	}
	for _, d := range p.DisulfideBonds() {
		b, e := s.residue(d.Begin), s.residue(d.End)
		f.DisulfideBonds = append(f.DisulfideBonds, &bio.DisulfideBond{
			Begin:       min(b, e),
			End:         max(b, e),
			Description: identifier + d.Description,
		})
	}

	f.SequenceVariations = s.variations(p.SequenceVariations(), identifier)
	f.AppliedSequenceVariations = s.variations(p.AppliedSequenceVariations(), identifier)
	return p.Derive(f)
}

// slide rotates positions start..length left by offset.
type slide struct {
	sequence string
	length   int
	start    int
	offset   int
}

func newSlide(p bio.BioPolymer) slide {
	seq := p.BaseSequence()
	s := slide{length: len(seq), start: 1}
	if keepsInitiator(p) {
		s.start = 2
	}
	m := s.length - s.start + 1
	if m <= 1 {
		s.sequence = seq
		return s
	}
	s.offset = numSlides % m
	rotated := seq[s.start-1:]
	s.sequence = seq[:s.start-1] + rotated[s.offset:] + rotated[:s.offset]
	return s
}

// residue maps a target position to the decoy position of the same residue.
func (s slide) residue(pos int) int {
	if pos < s.start || pos > s.length {
		return pos
	}
	m := s.length - s.start + 1
	return s.start + ((pos-s.start-s.offset)%m+m)%m
}

// span maps [begin, end] and reports whether the image is contiguous and in
// the original residue order.
func (s slide) span(begin, end int) (int, int, bool) {
	lo, hi := s.residue(begin), s.residue(begin)
	for pos := begin + 1; pos <= end; pos++ {
		r := s.residue(pos)
		lo, hi = min(lo, r), max(hi, r)
	}
	if hi-lo != end-begin || s.residue(begin) != lo {
		return 0, 0, false
	}
	return lo, hi, true
}

func (s slide) variations(vs []*bio.SequenceVariation, identifier string) []*bio.SequenceVariation {
	var out []*bio.SequenceVariation
	for _, v := range vs {
		b, e, ok := s.span(v.Begin(), v.End())
		if !ok {
			continue
		}
		shift := b - v.Begin()
		mods := make(bio.ModificationMap)
		vm := v.Modifications()
		for _, key := range vm.Positions() {
			mods.Append(key+shift, vm[key]...)
		}
		dv, err := bio.RestoreSequenceVariation(b, e, v.OriginalSequence(), v.VariantSequence(),
			identifier+v.Description(), v.CallRecord(), mods)
		if err != nil {
			continue
		}
		out = append(out, dv)
	}
	return out
}
