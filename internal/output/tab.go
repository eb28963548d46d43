// Package output provides proteoform output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-proteoform/internal/bio"
)

// Columns of the proteoform table.
var Columns = []string{
	"accession",
	"name",
	"kind",
	"decoy",
	"sample",
	"length",
	"sequence",
	"applied_variants",
	"modifications",
	"truncations",
}

// TabWriter writes polymers in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w:       bufio.NewWriter(w),
		columns: Columns,
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString("#" + strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single polymer.
func (tw *TabWriter) Write(p bio.BioPolymer) error {
	decoy := "-"
	if p.IsDecoy() {
		decoy = "YES"
	}

	values := []string{
		orDash(p.Accession()),
		orDash(p.Name()),
		p.Kind(),
		decoy,
		orDash(p.SampleName()),
		strconv.Itoa(p.Length()),
		orDash(p.BaseSequence()),
		FormatVariations(p.AppliedSequenceVariations()),
		FormatModifications(p.Modifications()),
		FormatTruncations(p.TruncationProducts()),
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// FormatVariations joins variation tokens with ";", or returns "-".
func FormatVariations(vs []*bio.SequenceVariation) string {
	if len(vs) == 0 {
		return "-"
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.SimpleString()
	}
	return strings.Join(parts, ";")
}

// FormatModifications renders "pos:ID on Motif" entries in position order.
func FormatModifications(mods bio.ModificationMap) string {
	var parts []string
	for _, pos := range mods.Positions() {
		for _, m := range mods[pos] {
			parts = append(parts, strconv.Itoa(pos)+":"+m.IDWithMotif())
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ";")
}

// FormatTruncations renders "begin-end:type" entries; open bounds print "?".
func FormatTruncations(products []*bio.TruncationProduct) string {
	if len(products) == 0 {
		return "-"
	}
	parts := make([]string, len(products))
	for i, t := range products {
		parts[i] = bound(t.Begin) + "-" + bound(t.End) + ":" + t.Type
	}
	return strings.Join(parts, ";")
}

func bound(p *int) string {
	if p == nil {
		return "?"
	}
	return strconv.Itoa(*p)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
