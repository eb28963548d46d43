package vcf

import (
	"errors"
	"fmt"
	"strings"
)

// Index holds the variants of a call file for lookup by ID or by
// "chrom:pos:ref>alt" key.
type Index struct {
	byKey map[string]*Variant
	byID  map[string]*Variant
	count int
}

// LoadIndex reads every variant of a VCF file into an Index. Multi-allelic
// records are indexed under each split ALT as well as the combined key.
func LoadIndex(path string) (*Index, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return BuildIndex(p)
}

// BuildIndex drains a parser into an Index.
func BuildIndex(p VariantParser) (*Index, error) {
	idx := &Index{
		byKey: make(map[string]*Variant),
		byID:  make(map[string]*Variant),
	}
	for {
		v, err := p.Next()
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				return nil, err
			}
			return nil, fmt.Errorf("index variants at line %d: %w", p.LineNumber(), err)
		}
		if v == nil {
			break
		}
		idx.add(v)
	}
	return idx, nil
}

func (idx *Index) add(v *Variant) {
	idx.count++
	idx.byKey[v.Key()] = v
	for _, split := range SplitMultiAllelic(v) {
		if _, ok := idx.byKey[split.Key()]; !ok {
			idx.byKey[split.Key()] = split
		}
	}
	if v.ID != "" && v.ID != "." {
		idx.byID[v.ID] = v
	}
}

// Len returns the number of indexed records.
func (idx *Index) Len() int {
	return idx.count
}

// Lookup finds a variant by ID first, then by key.
func (idx *Index) Lookup(ref string) (*Variant, bool) {
	if v, ok := idx.byID[ref]; ok {
		return v, true
	}
	v, ok := idx.byKey[strings.TrimPrefix(ref, "chr")]
	return v, ok
}
