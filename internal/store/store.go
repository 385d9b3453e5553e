// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists parsed standards rows in a local SQLite
// database with an FTS5 index over the narrative fields, so extracted
// requirements can be queried without re-parsing the source reports.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/standards-engine/internal/emit"
	"github.com/pdiddy/standards-engine/pkg/types"
)

const dbFile = "standards.db"

// Store manages the standards row database.
type Store struct {
	db         *sql.DB
	dbDir      string
	maxResults int
}

// New opens or creates the database at cfg.DBDir/standards.db and
// ensures the schema exists.
func New(cfg types.StoreConfig) (*Store, error) {
	dbDir := cfg.DBDir
	if dbDir == "" {
		dbDir = "index"
	}
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dbDir: dbDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			csv_path TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS standards_rows (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			csv_path TEXT NOT NULL REFERENCES sources(csv_path),
			source TEXT NOT NULL,
			functional_area TEXT,
			standard_index TEXT,
			standard_title TEXT,
			element_index TEXT,
			element_title TEXT,
			element_scoring TEXT,
			element_data_source TEXT,
			element_must_pass INTEGER NOT NULL,
			element_explanation TEXT,
			element_num_factors INTEGER,
			element_reference TEXT,
			factor_index TEXT,
			factor_title TEXT,
			factor_description TEXT,
			factor_explanation TEXT,
			factor_critical INTEGER,
			factor_reference TEXT,
			effective_date TEXT,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_standard ON standards_rows(standard_index)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_element ON standards_rows(element_reference)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='rows_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE rows_fts USING fts5(
				element_explanation, factor_description, factor_explanation,
				content=standards_rows, content_rowid=rowid)`,
			`CREATE TRIGGER rows_ai AFTER INSERT ON standards_rows BEGIN
				INSERT INTO rows_fts(rowid, element_explanation, factor_description, factor_explanation)
				VALUES (new.rowid, new.element_explanation, new.factor_description, new.factor_explanation);
			END`,
			`CREATE TRIGGER rows_ad AFTER DELETE ON standards_rows BEGIN
				INSERT INTO rows_fts(rows_fts, rowid, element_explanation, factor_description, factor_explanation)
				VALUES('delete', old.rowid, old.element_explanation, old.factor_description, old.factor_explanation);
			END`,
			`CREATE TRIGGER rows_au AFTER UPDATE ON standards_rows BEGIN
				INSERT INTO rows_fts(rows_fts, rowid, element_explanation, factor_description, factor_explanation)
				VALUES('delete', old.rowid, old.element_explanation, old.factor_description, old.factor_explanation);
				INSERT INTO rows_fts(rowid, element_explanation, factor_description, factor_explanation)
				VALUES (new.rowid, new.element_explanation, new.factor_description, new.factor_explanation);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from an ingest run.
type IngestSummary struct {
	Ingested int
	Skipped  bool
}

// Ingest loads a parse CSV into the database. An unchanged file (same
// mod time as the last ingest) is skipped; a changed file replaces its
// previously ingested rows.
func (s *Store) Ingest(ctx context.Context, csvPath string, w io.Writer) (IngestSummary, error) {
	info, err := os.Stat(csvPath)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("stat CSV %s: %w", csvPath, err)
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	var storedModTime string
	err = s.db.QueryRowContext(ctx,
		`SELECT file_mod_time FROM sources WHERE csv_path = ?`, csvPath,
	).Scan(&storedModTime)
	if err == nil && storedModTime == modTime {
		fmt.Fprintf(w, "skipped %s (unchanged)\n", csvPath)
		return IngestSummary{Skipped: true}, nil
	}
	isUpdate := err == nil

	rows, err := emit.ReadCSV(csvPath)
	if err != nil {
		return IngestSummary{}, err
	}

	if err := s.ingestRows(ctx, csvPath, rows, modTime, isUpdate); err != nil {
		return IngestSummary{}, err
	}

	fmt.Fprintf(w, "ingested %s (%d rows)\n", csvPath, len(rows))
	return IngestSummary{Ingested: len(rows)}, nil
}

func (s *Store) ingestRows(ctx context.Context, csvPath string, rows []types.Row, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Replace the previous ingest of this file wholesale.
	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM standards_rows WHERE csv_path = ?`, csvPath); err != nil {
			return fmt.Errorf("deleting old rows: %w", err)
		}
	}

	// Register the source before inserting rows that reference it.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sources (csv_path, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(csv_path) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		csvPath, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO standards_rows (
			id, csv_path, source, functional_area, standard_index, standard_title,
			element_index, element_title, element_scoring, element_data_source,
			element_must_pass, element_explanation, element_num_factors,
			element_reference, factor_index, factor_title, factor_description,
			factor_explanation, factor_critical, factor_reference,
			effective_date, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		var critical any
		if row.FactorCritical != nil {
			critical = *row.FactorCritical
		}
		_, err := stmt.ExecContext(ctx,
			rowID(row), csvPath, row.Source, row.FunctionalArea, row.StandardIndex,
			row.StandardTitle, row.ElementIndex, row.ElementTitle,
			row.ElementScoring, row.ElementDataSource, row.ElementMustPass,
			row.ElementExplanation, row.ElementNumFactors, row.ElementReference,
			row.FactorIndex, row.FactorTitle, row.FactorDescription,
			row.FactorExplanation, critical, row.FactorReference,
			row.EffectiveDate, row.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting row %s: %w", row.FactorReference, err)
		}
	}

	return tx.Commit()
}

// rowID is a deterministic identifier: the first 12 hex characters of
// SHA-256 over the reference and effective date, so re-ingesting an
// unchanged report refreshes rather than duplicates rows.
func rowID(row types.Row) string {
	h := sha256.New()
	h.Write([]byte(row.FactorReference))
	h.Write([]byte(row.ElementReference))
	h.Write([]byte(row.EffectiveDate))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}
