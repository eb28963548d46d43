package duckdb

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	// TIMESTAMP columns keep microseconds.
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime().UTC().Truncate(time.Microsecond),
	}, nil
}

// Run is one generation pass recorded in the store.
type Run struct {
	ID        string
	Command   string
	Source    FileFingerprint
	CreatedAt time.Time
}

// BeginRun records a new run for the given command and input file. An empty
// source path records no fingerprint.
func (s *Store) BeginRun(command, source string) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Command:   command,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if source != "" {
		fp, err := StatFile(source)
		if err != nil {
			return Run{}, fmt.Errorf("stat run source: %w", err)
		}
		run.Source = fp
	}

	_, err := s.db.Exec(`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Command, run.Source.Path, run.Source.Size, run.Source.ModTime, run.CreatedAt)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Runs lists recorded runs, oldest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT run_id, command, source_path, source_size, source_modtime, created_at
		FROM runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Command, &r.Source.Path, &r.Source.Size, &r.Source.ModTime, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// SourceChanged reports whether the run's input file differs from the
// file on disk now.
func (r Run) SourceChanged() bool {
	if r.Source.Path == "" {
		return false
	}
	fp, err := StatFile(r.Source.Path)
	if err != nil {
		return true
	}
	return fp.Size != r.Source.Size || !fp.ModTime.Equal(r.Source.ModTime)
}
