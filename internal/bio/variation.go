package bio

import (
	"errors"
	"strconv"
	"strings"
)

// StopCodon marks termination in a variant sequence.
const StopCodon = '*'

// ErrInvalidCoordinates is returned when a SequenceVariation is constructed
// with coordinates or sequences that do not describe a real edit.
var ErrInvalidCoordinates = errors.New("SequenceVariation coordinates are invalid.")

// SequenceVariation is a single sequence edit spanning the 1-based inclusive
// range [Begin, End] of the sequence it annotates.
//
// A SequenceVariation is immutable except for its modification map, which
// TryAddModification and AddModifications mutate in place. Do not mutate the
// same instance from more than one goroutine.
type SequenceVariation struct {
	begin       int
	end         int
	original    string
	variant     string
	description string
	call        *VariantCallRecord
	mods        ModificationMap
}

// NewSequenceVariation validates the coordinates, the edit and every attached
// modification site, and returns the variation. Modification failures are
// reported as *ModificationError.
func NewSequenceVariation(begin, end int, original, variant, description string, call *VariantCallRecord, mods ModificationMap) (*SequenceVariation, error) {
	sv, err := RestoreSequenceVariation(begin, end, original, variant, description, call, mods)
	if err != nil {
		return nil, err
	}
	for _, pos := range sv.mods.Positions() {
		for _, mod := range sv.mods[pos] {
			if err := sv.checkModificationSite(pos, mod); err != nil {
				return nil, &ModificationError{Position: pos, Reason: err}
			}
		}
	}
	return sv, nil
}

// RestoreSequenceVariation validates only the coordinates and the edit.
// Modifications are attached as given; use InvalidModificationPositions to
// find any that violate the site rules. This is the path for deserialized or
// derived annotations whose modification keys live in another coordinate space.
func RestoreSequenceVariation(begin, end int, original, variant, description string, call *VariantCallRecord, mods ModificationMap) (*SequenceVariation, error) {
	sv := &SequenceVariation{
		begin:       begin,
		end:         end,
		original:    original,
		variant:     variant,
		description: description,
		call:        call,
		mods:        mods.Clone(),
	}
	if !sv.AreValid() {
		return nil, ErrInvalidCoordinates
	}
	return sv, nil
}

// Begin returns the 1-based begin position.
func (sv *SequenceVariation) Begin() int { return sv.begin }

// End returns the 1-based inclusive end position.
func (sv *SequenceVariation) End() int { return sv.end }

// OriginalSequence returns the replaced residues.
func (sv *SequenceVariation) OriginalSequence() string { return sv.original }

// VariantSequence returns the replacement residues, possibly ending in '*'.
func (sv *SequenceVariation) VariantSequence() string { return sv.variant }

// Description returns the free-text description.
func (sv *SequenceVariation) Description() string { return sv.description }

// CallRecord returns the genotype data, or nil when the variation did not
// come from a variant call.
func (sv *SequenceVariation) CallRecord() *VariantCallRecord { return sv.call }

// Modifications returns a copy of the variant-scoped modifications.
func (sv *SequenceVariation) Modifications() ModificationMap { return sv.mods.Clone() }

// LengthChange returns len(variant) - len(original).
func (sv *SequenceVariation) LengthChange() int {
	return len(sv.variant) - len(sv.original)
}

// IsStopGain reports whether the variant sequence terminates translation.
func (sv *SequenceVariation) IsStopGain() bool {
	return strings.HasSuffix(sv.variant, string(StopCodon))
}

// IsDeletion reports whether residues are removed.
func (sv *SequenceVariation) IsDeletion() bool {
	return len(sv.variant) < len(sv.original)
}

// IsInsertion reports whether residues are added.
func (sv *SequenceVariation) IsInsertion() bool {
	return len(sv.variant) > len(sv.original)
}

// HasGenotypes reports whether the variation carries genotype calls.
func (sv *SequenceVariation) HasGenotypes() bool {
	return sv.call != nil && len(sv.call.Genotypes) > 0
}

// AreValid reports whether the coordinates and the edit are consistent.
func (sv *SequenceVariation) AreValid() bool {
	if sv.begin < 1 || sv.end < sv.begin {
		return false
	}
	// Same sequence with no modifications is a no-op.
	if sv.original == sv.variant && sv.mods.Count() == 0 {
		return false
	}
	return true
}

// Intersects reports whether the two inclusive spans overlap.
func (sv *SequenceVariation) Intersects(other *SequenceVariation) bool {
	return sv.begin <= other.end && other.begin <= sv.end
}

// Includes reports whether this span fully contains the other span.
func (sv *SequenceVariation) Includes(other *SequenceVariation) bool {
	return sv.begin <= other.begin && sv.end >= other.end
}

// IncludesPosition reports whether pos lies inside the span.
func (sv *SequenceVariation) IncludesPosition(pos int) bool {
	return sv.begin <= pos && pos <= sv.end
}

// SimpleString returns a compact token such as "S70N" or
// "AHMPC369-373VHMPY".
func (sv *SequenceVariation) SimpleString() string {
	var b strings.Builder
	b.WriteString(sv.original)
	b.WriteString(strconv.Itoa(sv.begin))
	if sv.end > sv.begin {
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(sv.end))
	}
	b.WriteString(sv.variant)
	return b.String()
}

// String implements fmt.Stringer.
func (sv *SequenceVariation) String() string {
	return sv.SimpleString()
}

// Equal reports structural equality: coordinates, sequences and the
// modification maps compared as multisets of motif-qualified identifiers.
func (sv *SequenceVariation) Equal(other *SequenceVariation) bool {
	if sv == nil || other == nil {
		return sv == other
	}
	return sv.begin == other.begin &&
		sv.end == other.end &&
		sv.original == other.original &&
		sv.variant == other.variant &&
		equalModificationMaps(sv.mods, other.mods)
}

// withCoordinates returns a copy at a new span. Callers guarantee validity.
func (sv *SequenceVariation) withCoordinates(begin, end int) *SequenceVariation {
	cp := *sv
	cp.begin = begin
	cp.end = end
	cp.mods = sv.mods.Clone()
	return &cp
}

// Moved returns a copy of the variation at [begin, end], validating the new
// coordinates. Modifications are carried unchanged.
func (sv *SequenceVariation) Moved(begin, end int) (*SequenceVariation, error) {
	cp := sv.withCoordinates(begin, end)
	if !cp.AreValid() {
		return nil, ErrInvalidCoordinates
	}
	return cp, nil
}
