// Package dbfile loads polymer databases from YAML documents and FASTA files.
package dbfile

// Document is the top-level YAML database.
type Document struct {
	// VCF optionally names a call file whose records variants reference
	// through vcf_ref. Relative paths resolve against the document.
	VCF      string          `yaml:"vcf,omitempty"`
	Polymers []PolymerRecord `yaml:"polymers"`
}

// PolymerRecord describes one consensus polymer.
type PolymerRecord struct {
	Accession      string               `yaml:"accession"`
	Kind           string               `yaml:"kind,omitempty"` // protein (default) or rna
	Name           string               `yaml:"name,omitempty"`
	FullName       string               `yaml:"full_name,omitempty"`
	Organism       string               `yaml:"organism,omitempty"`
	Sequence       string               `yaml:"sequence"`
	IsoformOf      string               `yaml:"isoform_of,omitempty"`
	Contaminant    bool                 `yaml:"contaminant,omitempty"`
	Modifications  []ModificationRecord `yaml:"modifications,omitempty"`
	Truncations    []TruncationRecord   `yaml:"truncations,omitempty"`
	DisulfideBonds []SpanRecord         `yaml:"disulfide_bonds,omitempty"`
	SpliceSites    []SpanRecord         `yaml:"splice_sites,omitempty"`
	Variants       []VariantRecord      `yaml:"variants,omitempty"`
}

// ModificationRecord places a modification at a 1-based position.
type ModificationRecord struct {
	Position int     `yaml:"position"`
	ID       string  `yaml:"id"`
	Motif    string  `yaml:"motif,omitempty"`
	Location string  `yaml:"location,omitempty"`
	Type     string  `yaml:"type,omitempty"`
	Mass     float64 `yaml:"mass,omitempty"`
}

// TruncationRecord is a proteolysis product; omitted bounds are open.
type TruncationRecord struct {
	Begin *int   `yaml:"begin,omitempty"`
	End   *int   `yaml:"end,omitempty"`
	Type  string `yaml:"type"`
}

// SpanRecord is a disulfide bond or splice site.
type SpanRecord struct {
	Begin       int    `yaml:"begin"`
	End         int    `yaml:"end"`
	Description string `yaml:"description,omitempty"`
}

// VariantRecord is a sequence variation with its genotype calls, given as
// a raw call line (vcf) or a reference into the document's call file
// (vcf_ref: an ID or "chrom:pos:ref>alt").
type VariantRecord struct {
	Begin         int                  `yaml:"begin"`
	End           int                  `yaml:"end"`
	Original      string               `yaml:"original"`
	Variant       string               `yaml:"variant"`
	Description   string               `yaml:"description,omitempty"`
	VCF           string               `yaml:"vcf,omitempty"`
	VCFRef        string               `yaml:"vcf_ref,omitempty"`
	Isoform       string               `yaml:"isoform,omitempty"`
	Modifications []ModificationRecord `yaml:"modifications,omitempty"`
}
