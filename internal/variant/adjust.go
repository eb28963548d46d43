package variant

import "github.com/inodb/vibe-proteoform/internal/bio"

// AdjustSequenceVariationIndices remaps previously applied variations after v
// has been spliced in, producing newSequence. Variations v contains or
// partially overlaps are superseded and dropped. Those ending before v are
// kept; the rest shift by v's length change, with the end clamped to the new
// length and the variation dropped when its begin falls past it.
func AdjustSequenceVariationIndices(v *bio.SequenceVariation, newSequence string, applied []*bio.SequenceVariation) []*bio.SequenceVariation {
	var out []*bio.SequenceVariation
	delta := v.LengthChange()
	n := len(newSequence)
	for _, a := range applied {
		if a == nil || v.Intersects(a) {
			continue
		}
		if a.End() < v.Begin() {
			out = append(out, a)
			continue
		}
		begin := a.Begin() + delta
		if begin > n {
			continue
		}
		end := min(a.End()+delta, n)
		moved, err := a.Moved(begin, max(end, begin))
		if err != nil {
			continue
		}
		out = append(out, moved)
	}
	return out
}

// AdjustTruncationProductIndices remaps truncation products across the edit
// v. Products before the edit pass through; products whose cleavage
// boundaries survive have their end shifted (or clamped to the new end on a
// stop gain); products after the edit shift when no stop was gained. A
// product whose cleavage site lies inside the edit is dropped.
//
// Open bounds are resolved against the pre-edit length for the checks and
// stay open in the output.
func AdjustTruncationProductIndices(v *bio.SequenceVariation, newSequence string, oldLength, consensusLength int, products []*bio.TruncationProduct) []*bio.TruncationProduct {
	var out []*bio.TruncationProduct
	delta := v.LengthChange()
	n := len(newSequence)
	stop := v.IsStopGain()
	vb, ve := v.Begin(), v.End()

	for _, t := range products {
		if t == nil {
			continue
		}
		b, e := t.Bounds(oldLength)
		switch {
		case e < vb:
			out = append(out, t)

		case (b < vb || b == 1 || b == 2) && (e > ve || e == consensusLength):
			switch {
			case stop:
				out = append(out, withEnd(t, n))
			case e+delta <= n:
				out = append(out, withEnd(t, e+delta))
			}

		case b > ve && !stop && b+delta <= n && e+delta <= n:
			moved := &bio.TruncationProduct{Type: t.Type}
			if t.Begin != nil {
				moved.Begin = bio.IntPtr(b + delta)
			}
			if t.End != nil {
				moved.End = bio.IntPtr(e + delta)
			}
			out = append(out, moved)
		}
	}
	return out
}

func withEnd(t *bio.TruncationProduct, end int) *bio.TruncationProduct {
	cp := &bio.TruncationProduct{Begin: t.Begin, Type: t.Type}
	if t.End != nil {
		cp.End = bio.IntPtr(end)
	}
	return cp
}

// AdjustModificationIndices remaps position-keyed modifications across the
// edit v. Entries past the new end are dropped, entries before the edit pass
// through, entries after the original span shift by the length change and
// entries inside the span are substituted away. The variation's own
// modifications are then appended at their positions.
func AdjustModificationIndices(v *bio.SequenceVariation, newSequence string, mods bio.ModificationMap) bio.ModificationMap {
	out := make(bio.ModificationMap, len(mods))
	for _, pos := range mods.Positions() {
		if mapped, ok := remapPosition(v, len(newSequence), pos); ok {
			out.Append(mapped, mods[pos]...)
		}
	}
	vm := v.Modifications()
	for _, pos := range vm.Positions() {
		out.Append(pos, vm[pos]...)
	}
	return out
}

// remapPosition applies the before/inside/after rule to a single residue.
func remapPosition(v *bio.SequenceVariation, n, pos int) (int, bool) {
	switch {
	case pos > n:
		return 0, false
	case pos < v.Begin():
		return pos, true
	case pos > v.End() && pos+v.LengthChange() <= n:
		return pos + v.LengthChange(), true
	default:
		return 0, false
	}
}

// adjustDisulfideBonds keeps bonds whose both residues survive the edit.
func adjustDisulfideBonds(v *bio.SequenceVariation, newSequence string, bonds []*bio.DisulfideBond) []*bio.DisulfideBond {
	var out []*bio.DisulfideBond
	for _, d := range bonds {
		b, okB := remapPosition(v, len(newSequence), d.Begin)
		e, okE := remapPosition(v, len(newSequence), d.End)
		if okB && okE {
			out = append(out, &bio.DisulfideBond{Begin: b, End: e, Description: d.Description})
		}
	}
	return out
}

// adjustSpliceSites keeps splice sites whose both ends survive the edit.
func adjustSpliceSites(v *bio.SequenceVariation, newSequence string, sites []*bio.SpliceSite) []*bio.SpliceSite {
	var out []*bio.SpliceSite
	for _, s := range sites {
		b, okB := remapPosition(v, len(newSequence), s.Begin)
		e, okE := remapPosition(v, len(newSequence), s.End)
		if okB && okE {
			out = append(out, &bio.SpliceSite{Begin: b, End: e, Description: s.Description})
		}
	}
	return out
}
