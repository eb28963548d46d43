// Package sqlite exports generated proteoforms to a standalone SQLite library.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/inodb/vibe-proteoform/internal/bio"
)

// Date format for HeaderTable (ISO 8601)
const headerDateFormat = "2006-01-02"

// Writer writes proteoforms to a SQLite database file inside a single
// transaction committed by Finalize.
type Writer struct {
	db           *sql.DB
	tx           *sql.Tx
	outputPath   string
	formStmt     *sql.Stmt
	modStmt      *sql.Stmt
	variantStmt  *sql.Stmt
	proteoformID int
	description  string
}

// NewWriter creates a new SQLite writer. The description is stored in the
// header table.
func NewWriter(outputPath, description string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:           db,
		outputPath:   outputPath,
		proteoformID: 1,
		description:  description,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	w.tx, err = db.Begin()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := w.prepareStatements(); err != nil {
		w.tx.Rollback()
		db.Close()
		return nil, err
	}

	return w, nil
}

func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ProteoformTable (
		ProteoformId INTEGER PRIMARY KEY,
		Accession TEXT NOT NULL,
		Name TEXT,
		Kind TEXT,
		Organism TEXT,
		IsDecoy BOOL,
		IsContaminant BOOL,
		Sample TEXT,
		Sequence TEXT,
		ConsensusSequence TEXT,
		AppliedVariants TEXT
	);

	CREATE TABLE IF NOT EXISTS ModificationTable (
		ProteoformId INTEGER REFERENCES ProteoformTable(ProteoformId),
		Position INTEGER,
		ModificationId TEXT,
		Motif TEXT,
		Location TEXT,
		MonoisotopicMass DOUBLE
	);

	CREATE TABLE IF NOT EXISTS VariantTable (
		ProteoformId INTEGER REFERENCES ProteoformTable(ProteoformId),
		BeginPosition INTEGER,
		EndPosition INTEGER,
		Original TEXT,
		Variant TEXT,
		Description TEXT
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		Description TEXT,
		ProteoformCount INTEGER
	);
	`

	if _, err := w.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (w *Writer) prepareStatements() error {
	var err error

	w.formStmt, err = w.tx.Prepare(`
		INSERT INTO ProteoformTable (
			ProteoformId, Accession, Name, Kind, Organism, IsDecoy, IsContaminant,
			Sample, Sequence, ConsensusSequence, AppliedVariants
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare proteoform statement: %w", err)
	}

	w.modStmt, err = w.tx.Prepare(`
		INSERT INTO ModificationTable (
			ProteoformId, Position, ModificationId, Motif, Location, MonoisotopicMass
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare modification statement: %w", err)
	}

	w.variantStmt, err = w.tx.Prepare(`
		INSERT INTO VariantTable (
			ProteoformId, BeginPosition, EndPosition, Original, Variant, Description
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare variant statement: %w", err)
	}

	return nil
}

// Write inserts one proteoform with its modifications and applied variants.
func (w *Writer) Write(p bio.BioPolymer) error {
	applied := p.AppliedSequenceVariations()
	tokens := make([]string, len(applied))
	for i, v := range applied {
		tokens[i] = v.SimpleString()
	}

	// Empty sample is stored as NULL
	var sample any
	if p.SampleName() != "" {
		sample = p.SampleName()
	}

	_, err := w.formStmt.Exec(
		w.proteoformID,
		p.Accession(),
		p.Name(),
		p.Kind(),
		p.Organism(),
		p.IsDecoy(),
		p.IsContaminant(),
		sample,
		p.BaseSequence(),
		p.ConsensusSequence(),
		strings.Join(tokens, ";"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert proteoform: %w", err)
	}

	mods := p.Modifications()
	for _, pos := range mods.Positions() {
		for _, m := range mods[pos] {
			if _, err := w.modStmt.Exec(w.proteoformID, pos, m.ID, m.Motif, m.Location, m.MonoisotopicMass); err != nil {
				return fmt.Errorf("failed to insert modification: %w", err)
			}
		}
	}

	for _, v := range applied {
		if _, err := w.variantStmt.Exec(
			w.proteoformID, v.Begin(), v.End(), v.OriginalSequence(), v.VariantSequence(), v.Description(),
		); err != nil {
			return fmt.Errorf("failed to insert variant: %w", err)
		}
	}

	w.proteoformID++
	return nil
}

// Finalize writes the header table, commits and closes the database.
func (w *Writer) Finalize() error {
	_, err := w.tx.Exec(`
		INSERT INTO HeaderTable (version, CreationDate, Description, ProteoformCount)
		VALUES (?, ?, ?, ?)
	`, 1, time.Now().Format(headerDateFormat), w.description, w.proteoformID-1)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()
		return fmt.Errorf("failed to insert header: %w", err)
	}

	w.formStmt.Close()
	w.modStmt.Close()
	w.variantStmt.Close()

	if err := w.tx.Commit(); err != nil {
		w.db.Close()
		return fmt.Errorf("failed to commit: %w", err)
	}

	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
