package bio

import (
	"errors"
	"fmt"
	"iter"
)

// Reasons a modification cannot be attached to a variation.
var (
	ErrNilModification           = errors.New("Modification is null.")
	ErrNonPositivePosition       = errors.New("Position must be > 0.")
	ErrTerminationOrDeletionSite = errors.New("Position invalid for a termination or deletion at/after the begin coordinate.")
	ErrBeyondVariantSpan         = errors.New("Position beyond the new variant span.")
)

// ModificationError carries the position that was rejected and why.
type ModificationError struct {
	Position int
	Reason   error
}

func (e *ModificationError) Error() string {
	return fmt.Sprintf("invalid modification at position %d: %v", e.Position, e.Reason)
}

func (e *ModificationError) Unwrap() error {
	return e.Reason
}

// PositionedModification pairs a modification with its 1-based position.
type PositionedModification struct {
	Position     int
	Modification *Modification
}

// SkippedModification records a batch entry that was not attached.
type SkippedModification struct {
	Position int
	Reason   error
}

// lastLegalPosition is the final position covered by the variant sequence
// once the edit is applied.
func (sv *SequenceVariation) lastLegalPosition() int {
	return sv.begin + len(sv.variant) - 1
}

func (sv *SequenceVariation) checkPosition(pos int) error {
	if pos <= 0 {
		return ErrNonPositivePosition
	}
	if (sv.IsStopGain() || sv.IsDeletion()) && pos >= sv.begin {
		return ErrTerminationOrDeletionSite
	}
	if pos > sv.lastLegalPosition() {
		return ErrBeyondVariantSpan
	}
	return nil
}

func (sv *SequenceVariation) checkModificationSite(pos int, mod *Modification) error {
	if mod == nil {
		return ErrNilModification
	}
	return sv.checkPosition(pos)
}

// TryAddModification attaches mod at pos if the site is legal for this edit.
// The returned error is one of the Err* reasons above.
func (sv *SequenceVariation) TryAddModification(pos int, mod *Modification) error {
	if err := sv.checkModificationSite(pos, mod); err != nil {
		return err
	}
	if sv.mods == nil {
		sv.mods = ModificationMap{}
	}
	sv.mods.Append(pos, mod)
	return nil
}

// AddModifications applies TryAddModification to each entry in order.
//
// With failFast set, the first rejected entry stops processing and is returned
// as a *ModificationError; entries before it stay attached. Otherwise every
// rejected entry is collected in the skip list and processing continues.
func (sv *SequenceVariation) AddModifications(batch []PositionedModification, failFast bool) (int, []SkippedModification, error) {
	if len(batch) == 0 {
		return 0, nil, nil
	}

	added := 0
	var skipped []SkippedModification
	for _, entry := range batch {
		if err := sv.TryAddModification(entry.Position, entry.Modification); err != nil {
			if failFast {
				return added, skipped, &ModificationError{Position: entry.Position, Reason: err}
			}
			skipped = append(skipped, SkippedModification{Position: entry.Position, Reason: err})
			continue
		}
		added++
	}
	return added, skipped, nil
}

// InvalidModificationPositions yields, in ascending order, every attached
// position that is non-positive or illegal for this edit. Modifications may
// have been attached without validation through RestoreSequenceVariation.
func (sv *SequenceVariation) InvalidModificationPositions() iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, pos := range sv.mods.Positions() {
			if sv.checkPosition(pos) == nil {
				continue
			}
			if !yield(pos) {
				return
			}
		}
	}
}
