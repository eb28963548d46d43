// Package decoy builds target-decoy polymers for false discovery rate
// estimation.
package decoy

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/vibe-proteoform/internal/bio"
)

// DefaultIdentifier prefixes decoy accessions, names and annotation types.
const DefaultIdentifier = "DECOY_"

// Type selects the decoy construction.
type Type int

const (
	TypeNone Type = iota
	TypeReverse
	TypeSlide
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "None"
	case TypeReverse:
		return "Reverse"
	case TypeSlide:
		return "Slide"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ParseType parses a decoy type name, case-insensitively.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return TypeNone, nil
	case "reverse":
		return TypeReverse, nil
	case "slide":
		return TypeSlide, nil
	default:
		return TypeNone, fmt.Errorf("unknown decoy type %q (want none, reverse or slide)", s)
	}
}

// Options configures Generate.
type Options struct {
	Type       Type
	Identifier string // defaults to DefaultIdentifier
	Logger     *zap.Logger
}

func (o Options) identifier() string {
	if o.Identifier == "" {
		return DefaultIdentifier
	}
	return o.Identifier
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Generate builds one decoy per target. TypeNone yields an empty list.
// Targets whose decoy would be indistinguishable from themselves are still
// emitted but logged at warn level.
func Generate[T bio.Polymer[T]](targets []T, opts Options) []T {
	log := opts.logger()
	id := opts.identifier()

	var build func(T, string) T
	switch opts.Type {
	case TypeReverse:
		build = Reverse[T]
	case TypeSlide:
		build = Slide[T]
	case TypeNone:
		return []T{}
	default:
		log.Warn("unsupported decoy type", zap.Stringer("type", opts.Type))
		return []T{}
	}

	decoys := make([]T, 0, len(targets))
	for _, target := range targets {
		d := build(target, id)
		if degenerate(target, d) {
			log.Warn("decoy matches target sequence",
				zap.String("accession", target.Accession()),
				zap.Stringer("type", opts.Type))
		}
		decoys = append(decoys, d)
	}
	log.Debug("generated decoys", zap.Stringer("type", opts.Type), zap.Int("count", len(decoys)))
	return decoys
}

// degenerate reports whether the decoy reproduces the target.
func degenerate(target, decoy bio.BioPolymer) bool {
	seq := target.BaseSequence()
	if init, ok := target.Initiator(); ok && len(seq) > 0 && seq[0] == init {
		seq = seq[1:]
	}
	if palindromic, _ := IsPalindromic(seq, 1, 0); palindromic {
		return true
	}
	return len(seq) > 1 && decoy.BaseSequence() == target.BaseSequence()
}

// keepsInitiator reports whether position 1 is pinned in the decoy.
func keepsInitiator(p bio.BioPolymer) bool {
	init, ok := p.Initiator()
	seq := p.BaseSequence()
	return ok && len(seq) > 0 && seq[0] == init
}

// decoyFields copies the target identity with the decoy prefix applied.
func decoyFields(p bio.BioPolymer, id, sequence string) bio.Fields {
	f := p.Fields()
	return bio.Fields{
		Accession:     id + f.Accession,
		Name:          prefixed(id, f.Name),
		FullName:      f.FullName,
		Organism:      f.Organism,
		Sequence:      sequence,
		SampleName:    f.SampleName,
		DatabasePath:  f.DatabasePath,
		IsDecoy:       true,
		IsContaminant: f.IsContaminant,
	}
}

func prefixed(id, s string) string {
	if s == "" {
		return ""
	}
	return id + s
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
