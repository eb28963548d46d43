package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-proteoform/internal/bio"
)

// Proteoform is a stored polymer row with its applied variant tokens.
type Proteoform struct {
	RunID             string
	Seq               int64
	Accession         string
	Name              string
	Kind              string
	IsDecoy           bool
	Sample            string
	Length            int64
	Sequence          string
	ConsensusSequence string
	AppliedVariants   []string
}

// WriteProteoforms batch-inserts polymers for a run using the Appender API.
// Rows are numbered in slice order; applied variants and modifications are
// written to their own tables keyed by (run_id, seq).
func (s *Store) WriteProteoforms(runID string, polymers []bio.BioPolymer) error {
	if len(polymers) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var forms, variants, mods *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		dc := driverConn.(driver.Conn)
		var err error
		if forms, err = goduckdb.NewAppenderFromConn(dc, "", "proteoforms"); err != nil {
			return err
		}
		if variants, err = goduckdb.NewAppenderFromConn(dc, "", "applied_variants"); err != nil {
			forms.Close()
			return err
		}
		if mods, err = goduckdb.NewAppenderFromConn(dc, "", "modifications"); err != nil {
			forms.Close()
			variants.Close()
			return err
		}
		return nil
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer forms.Close()
	defer variants.Close()
	defer mods.Close()

	for i, p := range polymers {
		seq := int64(i)
		if err := forms.AppendRow(
			runID, seq, p.Accession(), p.Name(), p.Kind(), p.IsDecoy(), p.SampleName(),
			int64(p.Length()), p.BaseSequence(), p.ConsensusSequence(),
		); err != nil {
			return fmt.Errorf("append proteoform: %w", err)
		}

		for _, v := range p.AppliedSequenceVariations() {
			if err := variants.AppendRow(
				runID, seq, int64(v.Begin()), int64(v.End()),
				v.OriginalSequence(), v.VariantSequence(), v.SimpleString(), v.Description(),
			); err != nil {
				return fmt.Errorf("append applied variant: %w", err)
			}
		}

		pm := p.Modifications()
		for _, pos := range pm.Positions() {
			for _, m := range pm[pos] {
				if err := mods.AppendRow(runID, seq, int64(pos), m.ID, m.Motif, m.Location); err != nil {
					return fmt.Errorf("append modification: %w", err)
				}
			}
		}
	}

	if err := forms.Flush(); err != nil {
		return err
	}
	if err := variants.Flush(); err != nil {
		return err
	}
	return mods.Flush()
}

// LookupProteoforms returns the rows of a run whose accession is the given
// accession or one of its variants ("<accession>_<token>...").
func (s *Store) LookupProteoforms(runID, accession string) ([]Proteoform, error) {
	rows, err := s.db.Query(`SELECT
		p.run_id, p.seq, p.accession, p.name, p.kind, p.is_decoy, p.sample,
		p.length, p.sequence, p.consensus_sequence,
		COALESCE(string_agg(v.token, ';' ORDER BY v.begin_pos), '')
		FROM proteoforms p
		LEFT JOIN applied_variants v ON v.run_id = p.run_id AND v.seq = p.seq
		WHERE p.run_id = ? AND (p.accession = ? OR starts_with(p.accession, ? || '_'))
		GROUP BY ALL
		ORDER BY p.seq`, runID, accession, accession)
	if err != nil {
		return nil, fmt.Errorf("query proteoforms: %w", err)
	}
	defer rows.Close()

	var out []Proteoform
	for rows.Next() {
		var p Proteoform
		var tokens string
		if err := rows.Scan(
			&p.RunID, &p.Seq, &p.Accession, &p.Name, &p.Kind, &p.IsDecoy, &p.Sample,
			&p.Length, &p.Sequence, &p.ConsensusSequence, &tokens,
		); err != nil {
			return nil, fmt.Errorf("scan proteoform: %w", err)
		}
		if tokens != "" {
			p.AppliedVariants = strings.Split(tokens, ";")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proteoforms: %w", err)
	}
	return out, nil
}

// CountProteoforms returns the number of target and decoy rows in a run.
func (s *Store) CountProteoforms(runID string) (targets, decoys int, err error) {
	err = s.db.QueryRow(`SELECT
		COUNT(*) FILTER (WHERE NOT is_decoy),
		COUNT(*) FILTER (WHERE is_decoy)
		FROM proteoforms WHERE run_id = ?`, runID).Scan(&targets, &decoys)
	if err != nil {
		return 0, 0, fmt.Errorf("count proteoforms: %w", err)
	}
	return targets, decoys, nil
}

// ModificationCounts returns modification id -> occurrences in a run.
func (s *Store) ModificationCounts(runID string) (map[string]int, error) {
	rows, err := s.db.Query(`SELECT mod_id, COUNT(*) FROM modifications WHERE run_id = ? GROUP BY mod_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query modification counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan modification count: %w", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate modification counts: %w", err)
	}
	return counts, nil
}

// ClearRun removes a run and all of its rows.
func (s *Store) ClearRun(runID string) error {
	for _, table := range []string{"modifications", "applied_variants", "proteoforms", "runs"} {
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE run_id = ?", runID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
