package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/inodb/vibe-proteoform/internal/bio"
)

// fastaLineWidth is the sequence wrap width.
const fastaLineWidth = 60

// FASTAWriter writes polymers as FASTA records for downstream search engines.
type FASTAWriter struct {
	w *bufio.Writer
}

// NewFASTAWriter creates a new FASTA writer.
func NewFASTAWriter(w io.Writer) *FASTAWriter {
	return &FASTAWriter{w: bufio.NewWriter(w)}
}

// Write writes one record. The header carries the accession, the name and
// the applied variations, plus the organism as an OS= tag when known.
func (fw *FASTAWriter) Write(p bio.BioPolymer) error {
	var header strings.Builder
	header.WriteByte('>')
	header.WriteString(p.Accession())
	if p.Name() != "" {
		header.WriteByte(' ')
		header.WriteString(p.Name())
	}
	if applied := p.AppliedSequenceVariations(); len(applied) > 0 {
		header.WriteString(" variants=")
		header.WriteString(FormatVariations(applied))
	}
	if p.Organism() != "" {
		header.WriteString(" OS=")
		header.WriteString(p.Organism())
	}
	header.WriteByte('\n')
	if _, err := fw.w.WriteString(header.String()); err != nil {
		return err
	}

	seq := p.BaseSequence()
	for start := 0; start < len(seq); start += fastaLineWidth {
		end := min(start+fastaLineWidth, len(seq))
		if _, err := fw.w.WriteString(seq[start:end] + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (fw *FASTAWriter) Flush() error {
	return fw.w.Flush()
}
