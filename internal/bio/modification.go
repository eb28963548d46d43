// Package bio models biopolymers annotated with positional features:
// modifications, sequence variants, truncation products, disulfide bonds
// and splice sites.
package bio

import "sort"

// Location restrictions for a modification. They only affect serialization
// by external writers; none of the sequence transformations consult them.
const (
	LocationAnywhere  = "Anywhere."
	LocationNTerminal = "N-terminal."
	LocationCTerminal = "C-terminal."
)

// Modification is an opaque chemical modification. Only its identity and
// target motif are interpreted by this package.
type Modification struct {
	ID               string  // Original identifier (e.g., "Phosphorylation")
	Motif            string  // Target residue motif (e.g., "S")
	Location         string  // Location restriction
	Type             string  // Modification type (e.g., "Common Biological")
	MonoisotopicMass float64 // Mass shift, 0 if unknown
}

// IDWithMotif returns the motif-qualified identifier, e.g. "Phosphorylation on S".
func (m *Modification) IDWithMotif() string {
	if m.Motif == "" {
		return m.ID
	}
	return m.ID + " on " + m.Motif
}

// ModificationMap maps 1-based positions to the modifications at that position.
type ModificationMap map[int][]*Modification

// Clone returns a copy with fresh slices. Modification pointers are shared.
func (m ModificationMap) Clone() ModificationMap {
	if m == nil {
		return ModificationMap{}
	}
	out := make(ModificationMap, len(m))
	for pos, mods := range m {
		out[pos] = append([]*Modification(nil), mods...)
	}
	return out
}

// Count returns the total number of modifications across all positions.
func (m ModificationMap) Count() int {
	n := 0
	for _, mods := range m {
		n += len(mods)
	}
	return n
}

// Positions returns the occupied positions in ascending order.
func (m ModificationMap) Positions() []int {
	positions := make([]int, 0, len(m))
	for pos := range m {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	return positions
}

// Append adds mods at pos without aliasing any existing slice.
func (m ModificationMap) Append(pos int, mods ...*Modification) {
	existing := m[pos]
	merged := make([]*Modification, 0, len(existing)+len(mods))
	merged = append(merged, existing...)
	merged = append(merged, mods...)
	m[pos] = merged
}

// signature returns position -> sorted multiset of motif-qualified identifiers.
func (m ModificationMap) signature() map[int][]string {
	sig := make(map[int][]string, len(m))
	for pos, mods := range m {
		if len(mods) == 0 {
			continue
		}
		ids := make([]string, 0, len(mods))
		for _, mod := range mods {
			if mod == nil {
				ids = append(ids, "")
				continue
			}
			ids = append(ids, mod.IDWithMotif())
		}
		sort.Strings(ids)
		sig[pos] = ids
	}
	return sig
}

// equalModificationMaps compares two maps as multisets keyed by position.
func equalModificationMaps(a, b ModificationMap) bool {
	sa, sb := a.signature(), b.signature()
	if len(sa) != len(sb) {
		return false
	}
	for pos, ids := range sa {
		other, ok := sb[pos]
		if !ok || len(other) != len(ids) {
			return false
		}
		for i := range ids {
			if ids[i] != other[i] {
				return false
			}
		}
	}
	return true
}
