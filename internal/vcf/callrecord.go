package vcf

import (
	"strconv"
	"strings"

	"github.com/inodb/vibe-proteoform/internal/bio"
)

// ParseCallRecord parses a raw tab-delimited variant-call line into its
// per-sample genotype data. It never fails: a line with fewer than
// bio.MinCallRecordFields columns yields a record with empty genotype maps.
// Sample keys are the zero-based sample column indices.
func ParseCallRecord(line string) *bio.VariantCallRecord {
	line = strings.TrimRight(line, "\r\n")
	r := &bio.VariantCallRecord{
		Raw:          line,
		AlleleIndex:  -1,
		Genotypes:    make(map[string][]string),
		AlleleDepths: make(map[string][]string),
		Zygosity:     make(map[string]bio.Zygosity),
	}

	fields := strings.Split(line, "\t")
	if len(fields) < bio.MinCallRecordFields {
		return r
	}

	r.ReferenceAllele = fields[3]
	r.AlternateAlleles = strings.Split(fields[4], ",")
	r.Format = fields[8]
	r.AlleleIndex = alleleIndex(fields[7], r.AlternateAlleles)

	keys := strings.Split(strings.TrimSpace(r.Format), ":")
	for i, col := range fields[9:] {
		values := strings.Split(strings.TrimSpace(col), ":")
		sample := strconv.Itoa(i)
		for k, key := range keys {
			if k >= len(values) {
				break
			}
			switch key {
			case "GT":
				gt := splitGenotype(values[k])
				r.Genotypes[sample] = gt
				r.Zygosity[sample] = bio.ZygosityOf(gt)
			case "AD":
				r.AlleleDepths[sample] = strings.Split(values[k], ",")
			}
		}
	}

	return r
}

// splitGenotype splits a GT value on either phased or unphased separators.
func splitGenotype(gt string) []string {
	return strings.FieldsFunc(gt, func(r rune) bool {
		return r == '/' || r == '|'
	})
}

// alleleIndex resolves which ALT allele the annotated effect refers to. The
// first SnpEff ANN entry names the allele; without an ANN field a single
// ALT is assumed to be allele 1. Returns -1 when unresolved.
func alleleIndex(info string, alts []string) int {
	ann, ok := parseInfo(info)["ANN"].(string)
	if !ok || ann == "" {
		if len(alts) == 1 {
			return 1
		}
		return -1
	}

	first, _, _ := strings.Cut(ann, ",")
	allele, _, _ := strings.Cut(first, "|")
	for i, alt := range alts {
		if alt == allele {
			return i + 1
		}
	}
	return -1
}
