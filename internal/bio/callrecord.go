package bio

import (
	"sort"
	"strconv"
	"strings"
)

// MinCallRecordFields is the number of tab-delimited columns of a fully
// specified variant call: CHROM POS ID REF ALT QUAL FILTER INFO FORMAT SAMPLE.
const MinCallRecordFields = 10

// Zygosity of a sample's genotype call.
type Zygosity int

const (
	ZygosityUnknown Zygosity = iota
	Homozygous
	Heterozygous
)

func (z Zygosity) String() string {
	switch z {
	case Homozygous:
		return "Homozygous"
	case Heterozygous:
		return "Heterozygous"
	default:
		return "Unknown"
	}
}

// ZygosityOf derives zygosity from genotype allele tokens. Missing calls
// ("." or empty) make the zygosity unknown.
func ZygosityOf(gt []string) Zygosity {
	if len(gt) == 0 {
		return ZygosityUnknown
	}
	distinct := make(map[string]struct{}, len(gt))
	for _, tok := range gt {
		if tok == "." || tok == "" {
			return ZygosityUnknown
		}
		distinct[tok] = struct{}{}
	}
	if len(distinct) == 1 {
		return Homozygous
	}
	return Heterozygous
}

// VariantCallRecord is the parsed genotype data of one variant-call line.
// Sample keys are the zero-based sample column indices ("0", "1", ...).
type VariantCallRecord struct {
	Raw              string              // Raw tab-delimited line
	ReferenceAllele  string              // REF column
	AlternateAlleles []string            // ALT column split on ','
	Format           string              // FORMAT column
	AlleleIndex      int                 // Allele this variation represents (0 = reference, -1 unknown)
	Genotypes        map[string][]string // Sample -> GT allele tokens
	AlleleDepths     map[string][]string // Sample -> AD tokens, indexed by allele
	Zygosity         map[string]Zygosity // Sample -> zygosity
}

// FieldCount returns the number of tab-delimited fields in the raw line.
func (r *VariantCallRecord) FieldCount() int {
	if r == nil || r.Raw == "" {
		return 0
	}
	return len(strings.Split(r.Raw, "\t"))
}

// Samples returns the sample keys in ascending numeric order.
func (r *VariantCallRecord) Samples() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.Genotypes))
	for k := range r.Genotypes {
		keys = append(keys, k)
	}
	SortSampleKeys(keys)
	return keys
}

// SortSampleKeys orders numeric keys numerically and others lexically after them.
func SortSampleKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
}

// ZygosityFor returns the zygosity of sample, unknown when absent.
func (r *VariantCallRecord) ZygosityFor(sample string) Zygosity {
	if r == nil {
		return ZygosityUnknown
	}
	return r.Zygosity[sample]
}

// HasAllele reports whether the sample's genotype contains allele index idx.
func (r *VariantCallRecord) HasAllele(sample string, idx int) bool {
	if r == nil {
		return false
	}
	want := strconv.Itoa(idx)
	for _, tok := range r.Genotypes[sample] {
		if tok == want {
			return true
		}
	}
	return false
}

// OnlyAllele reports whether every genotype token of sample equals idx.
func (r *VariantCallRecord) OnlyAllele(sample string, idx int) bool {
	gt := r.Genotypes[sample]
	if len(gt) == 0 {
		return false
	}
	want := strconv.Itoa(idx)
	for _, tok := range gt {
		if tok != want {
			return false
		}
	}
	return true
}

// AlleleDepth returns the read depth for allele idx in sample. The second
// result is false when the depth is missing or not numeric.
func (r *VariantCallRecord) AlleleDepth(sample string, idx int) (int, bool) {
	if r == nil {
		return 0, false
	}
	ad := r.AlleleDepths[sample]
	if idx < 0 || idx >= len(ad) {
		return 0, false
	}
	d, err := strconv.Atoi(ad[idx])
	if err != nil {
		return 0, false
	}
	return d, true
}

// TotalDepth sums the positive numeric depths of sample.
func (r *VariantCallRecord) TotalDepth(sample string) int {
	total := 0
	for _, tok := range r.AlleleDepths[sample] {
		if d, err := strconv.Atoi(tok); err == nil && d > 0 {
			total += d
		}
	}
	return total
}

// ForSample returns a projection of the record holding only sample.
func (r *VariantCallRecord) ForSample(sample string) *VariantCallRecord {
	cp := &VariantCallRecord{
		Raw:              r.Raw,
		ReferenceAllele:  r.ReferenceAllele,
		AlternateAlleles: append([]string(nil), r.AlternateAlleles...),
		Format:           r.Format,
		AlleleIndex:      r.AlleleIndex,
		Genotypes:        map[string][]string{},
		AlleleDepths:     map[string][]string{},
		Zygosity:         map[string]Zygosity{},
	}
	if gt, ok := r.Genotypes[sample]; ok {
		cp.Genotypes[sample] = append([]string(nil), gt...)
		cp.Zygosity[sample] = r.Zygosity[sample]
	}
	if ad, ok := r.AlleleDepths[sample]; ok {
		cp.AlleleDepths[sample] = append([]string(nil), ad...)
	}
	return cp
}
