// Package vcf parses variant-call lines into genotype records.
package vcf

import (
	"strconv"
	"strings"

	"github.com/inodb/vibe-proteoform/internal/bio"
)

// Variant represents a single variant-call line.
type Variant struct {
	Chrom   string                 // Chromosome name (e.g., "12", "chr12")
	Pos     int64                  // 1-based genomic position
	ID      string                 // Variant identifier (e.g., rs ID)
	Ref     string                 // Reference allele
	Alt     string                 // Alternate allele(s), comma separated before splitting
	Qual    float64                // Quality score
	Filter  string                 // Filter status (PASS or filter name)
	Info    map[string]interface{} // INFO field key-value pairs
	Format  string                 // FORMAT column, empty if absent
	Samples []string               // Per-sample columns following FORMAT
	Line    string                 // Raw tab-delimited line
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func (v *Variant) NormalizeChrom() string {
	if len(v.Chrom) > 3 && v.Chrom[:3] == "chr" {
		return v.Chrom[3:]
	}
	return v.Chrom
}

// Key returns "chrom:pos:ref>alt" with a normalized chromosome.
func (v *Variant) Key() string {
	return FormatKey(v.Chrom, v.Pos, v.Ref, v.Alt)
}

// FormatKey builds the lookup key used by Index.
func FormatKey(chrom string, pos int64, ref, alt string) string {
	return strings.TrimPrefix(chrom, "chr") + ":" + strconv.FormatInt(pos, 10) + ":" + ref + ">" + alt
}

// CallRecord parses the variant's raw line into a genotype record.
func (v *Variant) CallRecord() *bio.VariantCallRecord {
	return ParseCallRecord(v.Line)
}
