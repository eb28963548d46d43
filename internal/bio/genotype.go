package bio

import "strconv"

// Genotype modes appended to split variation descriptions.
const (
	ModeHomozygousAlt   = "HomozygousAlt"
	ModeHeterozygousAlt = "HeterozygousAlt"
	ModeHeterozygousRef = "HeterozygousRef"
	ModeHomozygousRef   = "HomozygousRef"
	ModeUnknownAlt      = "UnknownAlt"
)

// SplitPerGenotype expands a multi-sample variation into one concrete
// variation per sample and called allele. Samples whose summed read depth is
// below minDepth are skipped. Each result carries a single-sample projection
// of the call record and a description tagged " | <Mode> | Sample=<key>".
//
// A raw record with fewer than MinCallRecordFields columns, or no genotype
// entries, yields an empty result. Reference entries are same-sequence
// variations; when they are structurally invalid no-ops they are omitted.
func (sv *SequenceVariation) SplitPerGenotype(minDepth int, includeReferenceForHeterozygous, emitReferenceForHomozygousRef bool) []*SequenceVariation {
	var result []*SequenceVariation
	call := sv.call
	if call == nil || len(call.Genotypes) == 0 || call.FieldCount() < MinCallRecordFields {
		return result
	}

	altIndex := call.AlleleIndex
	for _, sample := range call.Samples() {
		if call.TotalDepth(sample) < minDepth {
			continue
		}

		var alleles []int
		for _, tok := range call.Genotypes[sample] {
			if a, err := strconv.Atoi(tok); err == nil {
				alleles = append(alleles, a)
			}
		}
		if len(alleles) == 0 {
			continue
		}

		allRef, hasAlt, hasRef, hasOtherAlt := true, false, false, false
		for _, a := range alleles {
			switch {
			case a == 0:
				hasRef = true
			case a == altIndex:
				hasAlt = true
				allRef = false
			default:
				hasOtherAlt = true
				allRef = false
			}
		}
		// The sample carries a different alternate allele only.
		if hasOtherAlt && !hasAlt {
			continue
		}

		projected := call.ForSample(sample)
		emit := func(variant, mode string, mods ModificationMap) {
			desc := sv.description + " | " + mode + " | Sample=" + sample
			v, err := NewSequenceVariation(sv.begin, sv.end, sv.original, variant, desc, projected, mods)
			if err != nil {
				return
			}
			result = append(result, v)
		}

		if allRef {
			if emitReferenceForHomozygousRef {
				emit(sv.original, ModeHomozygousRef, nil)
			}
			continue
		}

		switch call.ZygosityFor(sample) {
		case Homozygous:
			emit(sv.variant, ModeHomozygousAlt, sv.mods)
		case Heterozygous:
			if includeReferenceForHeterozygous && hasRef {
				emit(sv.original, ModeHeterozygousRef, nil)
			}
			emit(sv.variant, ModeHeterozygousAlt, sv.mods)
		default:
			emit(sv.variant, ModeUnknownAlt, sv.mods)
		}
	}
	return result
}

type editKey struct {
	begin, end        int
	original, variant string
}

// CombineEquivalent merges variations describing the same edit (same span and
// sequences). Modification maps are unioned per position by motif-qualified
// identifier. The first variation of each group supplies the description and
// call record. Groups keep the order of their first appearance.
func CombineEquivalent(variants []*SequenceVariation) []*SequenceVariation {
	result := []*SequenceVariation{}
	if len(variants) == 0 {
		return result
	}

	index := make(map[editKey]int)
	for _, v := range variants {
		if v == nil {
			continue
		}
		k := editKey{v.begin, v.end, v.original, v.variant}
		i, ok := index[k]
		if !ok {
			cp := *v
			cp.mods = ModificationMap{}
			mergeModifications(cp.mods, v.mods)
			index[k] = len(result)
			result = append(result, &cp)
			continue
		}
		mergeModifications(result[i].mods, v.mods)
	}
	return result
}

// mergeModifications adds every modification of src missing from dst.
func mergeModifications(dst, src ModificationMap) {
	for _, pos := range src.Positions() {
		seen := make(map[string]bool, len(dst[pos]))
		for _, m := range dst[pos] {
			seen[m.IDWithMotif()] = true
		}
		for _, m := range src[pos] {
			if m == nil || seen[m.IDWithMotif()] {
				continue
			}
			seen[m.IDWithMotif()] = true
			dst.Append(pos, m)
		}
	}
}
