package dbfile

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/vibe-proteoform/internal/bio"
)

// LoadFASTA reads a FASTA file of the given kind. Gzipped files are
// detected by the .gz suffix. UniProt headers
// (>sp|P12345|NAME_HUMAN Full name OS=Homo sapiens OX=9606 ...) fill the
// accession, name, full name and organism; other headers use the first word
// as the accession. "P12345-2" is registered as an isoform of "P12345"
// when that entry precedes it.
func (l *Loader) LoadFASTA(path, kind string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	entries, err := parseFASTA(reader)
	if err != nil {
		return nil, err
	}

	db := &Database{Path: path}
	db.Proteins, db.RNAs = newRegistries()
	k := normalizeKind(kind)
	for _, e := range entries {
		canonical := canonicalAccession(e.Accession)
		switch k {
		case KindRNA:
			if _, ok := db.RNAs.Get(canonical); !ok {
				canonical = ""
			}
			err = db.RNAs.AddIsoform(bio.NewRNA(e), canonical)
		case KindProtein:
			if _, ok := db.Proteins.Get(canonical); !ok {
				canonical = ""
			}
			err = db.Proteins.AddIsoform(bio.NewProtein(e), canonical)
		default:
			return nil, fmt.Errorf("unknown kind %q", kind)
		}
		if err != nil {
			return nil, fmt.Errorf("load FASTA %s: %w", path, err)
		}
	}

	l.logger.Debug("loaded FASTA",
		zap.String("path", path),
		zap.String("kind", k),
		zap.Int("entries", len(entries)))
	return db, nil
}

// parseFASTA parses FASTA content.
func parseFASTA(reader io.Reader) ([]bio.Fields, error) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long sequences
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024) // 10MB max line

	var entries []bio.Fields
	var current *bio.Fields
	var seq strings.Builder

	flush := func() {
		if current != nil && seq.Len() > 0 {
			current.Sequence = seq.String()
			entries = append(entries, *current)
		}
		seq.Reset()
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			header := parseFASTAHeader(line)
			current = &header
			continue
		}
		seq.WriteString(strings.ToUpper(line))
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}
	return entries, nil
}

// parseFASTAHeader extracts identity fields from a header line.
func parseFASTAHeader(header string) bio.Fields {
	header = strings.TrimPrefix(header, ">")
	id, desc, _ := strings.Cut(header, " ")

	f := bio.Fields{Accession: id}
	if parts := strings.Split(id, "|"); len(parts) >= 3 {
		f.Accession = parts[1]
		f.Name = parts[2]
	}

	if i := strings.Index(desc, " OS="); i >= 0 {
		f.FullName = desc[:i]
		f.Organism = tagValue(desc[i+1:], "OS=")
	} else {
		f.FullName = desc
	}
	return f
}

// tagValue returns the text after tag up to the next " XX=" tag.
func tagValue(s, tag string) string {
	s = strings.TrimPrefix(s, tag)
	for i := 0; i+3 < len(s); i++ {
		if s[i] == ' ' && s[i+3] == '=' && isUpper(s[i+1]) && isUpper(s[i+2]) {
			return s[:i]
		}
	}
	return s
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

// canonicalAccession strips an isoform suffix such as "-2".
func canonicalAccession(acc string) string {
	if i := strings.LastIndexByte(acc, '-'); i > 0 {
		return acc[:i]
	}
	return ""
}
