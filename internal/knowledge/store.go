// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge archives per-cluster analysis results in a SQLite
// database so past runs stay queryable. The digest never depends on it;
// archive failures only degrade the run.
package knowledge

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/curation-engine/pkg/types"
)

const dbFile = "curation.db"

// Store manages the analysis archive database.
type Store struct {
	db *sql.DB
}

// ClusterRecord is one archived cluster analysis.
type ClusterRecord struct {
	ClusterID      string
	RunDate        string
	Label          string
	KnowledgeDepth int
	ClaimsVerified bool
}

// NewStore opens or creates the archive database at dir/curation.db,
// creating the schema if it does not exist.
func NewStore(cfg types.KnowledgeConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "knowledge"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating knowledge directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS clusters (
			cluster_id TEXT NOT NULL,
			run_date TEXT NOT NULL,
			label TEXT,
			knowledge_depth INTEGER,
			claims_verified INTEGER,
			scrape_failed INTEGER,
			best_url TEXT,
			PRIMARY KEY (cluster_id, run_date)
		)`,
		`CREATE TABLE IF NOT EXISTS facts (
			cluster_id TEXT NOT NULL,
			run_date TEXT NOT NULL,
			position INTEGER NOT NULL,
			fact TEXT NOT NULL,
			PRIMARY KEY (cluster_id, run_date, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clusters_run_date ON clusters(run_date)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun archives the analyses of one run. Re-recording the same run
// date replaces the previous rows, so republishing a date is idempotent.
func (s *Store) RecordRun(runDate string, analyses []types.ClusterAnalysis) error {
	if len(analyses) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range analyses {
		_, err := tx.Exec(
			`INSERT OR REPLACE INTO clusters
			 (cluster_id, run_date, label, knowledge_depth, claims_verified, scrape_failed, best_url)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.ClusterID, runDate, a.Label, a.KnowledgeDepth, a.ClaimsVerified, a.ScrapeFailed, a.BestURL,
		)
		if err != nil {
			return fmt.Errorf("inserting cluster %s: %w", a.ClusterID, err)
		}

		if _, err := tx.Exec(
			`DELETE FROM facts WHERE cluster_id = ? AND run_date = ?`,
			a.ClusterID, runDate,
		); err != nil {
			return fmt.Errorf("clearing facts for %s: %w", a.ClusterID, err)
		}
		for i, fact := range a.KeyFacts {
			if _, err := tx.Exec(
				`INSERT INTO facts (cluster_id, run_date, position, fact) VALUES (?, ?, ?, ?)`,
				a.ClusterID, runDate, i, fact,
			); err != nil {
				return fmt.Errorf("inserting fact for %s: %w", a.ClusterID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing archive: %w", err)
	}
	return nil
}

// RecentClusters returns archived clusters newest-run first, capped at
// limit (default 20).
func (s *Store) RecentClusters(limit int) ([]ClusterRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT cluster_id, run_date, label, knowledge_depth, claims_verified
		 FROM clusters ORDER BY run_date DESC, label ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying clusters: %w", err)
	}
	defer rows.Close()

	var records []ClusterRecord
	for rows.Next() {
		var r ClusterRecord
		if err := rows.Scan(&r.ClusterID, &r.RunDate, &r.Label, &r.KnowledgeDepth, &r.ClaimsVerified); err != nil {
			return nil, fmt.Errorf("scanning cluster row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Facts returns the archived key facts of one cluster analysis in order.
func (s *Store) Facts(clusterID, runDate string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT fact FROM facts WHERE cluster_id = ? AND run_date = ? ORDER BY position`,
		clusterID, runDate)
	if err != nil {
		return nil, fmt.Errorf("querying facts: %w", err)
	}
	defer rows.Close()

	var facts []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scanning fact row: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}
