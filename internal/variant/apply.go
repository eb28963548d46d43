// Package variant expands a consensus polymer into the proteoforms implied
// by its genotyped sequence variations.
package variant

import (
	"cmp"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/vibe-proteoform/internal/bio"
)

// Options bounds the combinatorial expansion.
type Options struct {
	// MaxVariantsPerIsoform is the heterozygous variant count per sample
	// above which branching collapses to at most two tracks.
	MaxVariantsPerIsoform int
	// MinAlleleDepth is the read depth an allele needs to be trusted.
	MinAlleleDepth int
	// MaxIsoforms truncates the output list when > 0.
	MaxIsoforms int
	Logger      *zap.Logger
}

// DefaultOptions returns the default expansion limits.
func DefaultOptions() Options {
	return Options{
		MaxVariantsPerIsoform: 4,
		MinAlleleDepth:        1,
		MaxIsoforms:           1,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// GetVariantBioPolymers applies the genotyped sequence variations of p and
// returns the resulting polymers. The first element is always a copy of the
// consensus; the rest follow in ascending sample order, deduplicated by
// sequence, and the list is truncated to MaxIsoforms when that is positive.
func GetVariantBioPolymers[T bio.Polymer[T]](p T, opts Options) []T {
	log := opts.logger()
	consensus := p.CreateVariant(p.Fields())

	effects := uniqueEffects(p.SequenceVariations())
	candidates := []T{consensus}
	for _, sample := range samplesOf(effects) {
		candidates = append(candidates, applyForSample(p, consensus, effects, sample, opts)...)
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.BaseSequence()]; dup {
			continue
		}
		seen[c.BaseSequence()] = struct{}{}
		out = append(out, c)
	}

	if opts.MaxIsoforms > 0 && len(out) > opts.MaxIsoforms {
		log.Debug("isoform cap reached",
			zap.String("accession", p.Accession()),
			zap.Int("proteoforms", len(out)),
			zap.Int("max_isoforms", opts.MaxIsoforms))
		out = out[:opts.MaxIsoforms]
	}
	return out
}

// uniqueEffects deduplicates by SimpleString, keeps genotyped records and
// orders them by descending begin so upstream coordinates stay valid.
func uniqueEffects(variations []*bio.SequenceVariation) []*bio.SequenceVariation {
	seen := make(map[string]struct{}, len(variations))
	var effects []*bio.SequenceVariation
	for _, v := range variations {
		if v == nil || !v.HasGenotypes() {
			continue
		}
		key := v.SimpleString()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		effects = append(effects, v)
	}
	slices.SortStableFunc(effects, func(a, b *bio.SequenceVariation) int {
		return cmp.Compare(b.Begin(), a.Begin())
	})
	return effects
}

func samplesOf(effects []*bio.SequenceVariation) []string {
	set := make(map[string]struct{})
	for _, v := range effects {
		for _, s := range v.CallRecord().Samples() {
			set[s] = struct{}{}
		}
	}
	samples := make([]string, 0, len(set))
	for s := range set {
		samples = append(samples, s)
	}
	bio.SortSampleKeys(samples)
	return samples
}

// applyForSample runs the genotype state machine for one sample.
func applyForSample[T bio.Polymer[T]](p, consensus T, effects []*bio.SequenceVariation, sample string, opts Options) []T {
	log := opts.logger()
	budget := opts.MaxVariantsPerIsoform

	heterozygous := 0
	for _, v := range effects {
		if v.CallRecord().ZygosityFor(sample) == bio.Heterozygous {
			heterozygous++
		}
	}
	tooMany := heterozygous > budget

	tracks := []T{consensus}
	for _, v := range effects {
		call := v.CallRecord()
		idx := call.AlleleIndex
		if idx < 1 || !call.HasAllele(sample, idx) {
			continue
		}

		refDepth, refOK := call.AlleleDepth(sample, 0)
		altDepth, altOK := call.AlleleDepth(sample, idx)
		deepRef := refOK && refDepth >= opts.MinAlleleDepth
		deepAlt := altOK && altDepth >= opts.MinAlleleDepth
		zygosity := call.ZygosityFor(sample)

		switch {
		case zygosity == bio.Homozygous && call.OnlyAllele(sample, idx) && deepAlt:
			for i, t := range tracks {
				tracks[i] = ApplySingleVariant(v, t, sample)
			}

		case zygosity == bio.Heterozygous && tooMany:
			switch {
			case budget <= 0:
			case deepAlt && deepRef:
				if len(tracks) == 1 {
					tracks = append(tracks, ApplySingleVariant(v, tracks[0], sample))
				} else {
					tracks[1] = ApplySingleVariant(v, tracks[1], sample)
				}
			case deepAlt:
				for i, t := range tracks {
					tracks[i] = ApplySingleVariant(v, t, sample)
				}
			}

		case zygosity == bio.Heterozygous && deepAlt:
			keepRef := call.HasAllele(sample, 0)
			var branched []T
			for _, t := range tracks {
				switch {
				case budget > 0 && deepRef:
					if keepRef {
						branched = append(branched, t)
					}
					branched = append(branched, ApplySingleVariant(v, t, sample))
				case budget > 0:
					branched = append(branched, ApplySingleVariant(v, t, sample))
				case keepRef:
					branched = append(branched, t)
				}
			}
			tracks = branched
		}
	}

	log.Debug("applied sample genotype",
		zap.String("accession", p.Accession()),
		zap.String("sample", sample),
		zap.Int("heterozygous", heterozygous),
		zap.Bool("collapsed", tooMany),
		zap.Int("tracks", len(tracks)))
	return tracks
}

// ApplySingleVariant splices v into p and returns the resulting variant
// polymer with every position-bearing annotation remapped. A variation whose
// begin lies past the end of p is not applied.
func ApplySingleVariant[T bio.Polymer[T]](v *bio.SequenceVariation, p T, sample string) T {
	seq := p.BaseSequence()
	begin := v.Begin()
	if begin < 1 || begin-1 > len(seq) {
		return p
	}

	applied := p.AppliedSequenceVariations()
	incomplete := false
	for _, a := range applied {
		if v.Intersects(a) && !v.Includes(a) {
			incomplete = true
			break
		}
	}

	// A partial overlap with an earlier edit takes the remainder from the
	// consensus instead of splicing inconsistent edited regions together.
	source := seq
	if incomplete {
		source = p.ConsensusSequence()
	}
	after := ""
	if afterIdx := begin + len(v.OriginalSequence()) - 1; afterIdx < len(seq) && afterIdx < len(source) {
		after = source[afterIdx:]
	}

	newSeq := seq[:begin-1] + v.VariantSequence() + after
	if i := strings.IndexByte(newSeq, bio.StopCodon); i >= 0 {
		newSeq = newSeq[:i]
	}

	end := begin + len(v.VariantSequence()) - 1
	if end < begin {
		end = begin
	}
	appliedForm, err := bio.RestoreSequenceVariation(begin, end, v.OriginalSequence(), v.VariantSequence(),
		v.Description(), v.CallRecord(), v.Modifications())
	if err != nil {
		return p
	}

	f := p.Fields()
	consensusLen := len(p.ConsensusSequence())
	var kept []*bio.SequenceVariation
	if !incomplete {
		kept = applied
	}

	return p.CreateVariant(bio.Fields{
		Sequence:                  newSeq,
		Modifications:             AdjustModificationIndices(v, newSeq, f.Modifications),
		AppliedSequenceVariations: append([]*bio.SequenceVariation{appliedForm}, AdjustSequenceVariationIndices(v, newSeq, kept)...),
		TruncationProducts:        AdjustTruncationProductIndices(v, newSeq, len(seq), consensusLen, f.TruncationProducts),
		DisulfideBonds:            adjustDisulfideBonds(v, newSeq, f.DisulfideBonds),
		SpliceSites:               adjustSpliceSites(v, newSeq, f.SpliceSites),
		SampleName:                sample,
	})
}
