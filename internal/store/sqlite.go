package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore appends records to a local SQLite table.
// All methods are safe for concurrent use.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// OpenSQLite opens or creates the database at path.
// ":memory:" uses a shared-cache in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	connStr := path
	if path == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS misinformation_checks (
		id TEXT PRIMARY KEY,
		input_text TEXT NOT NULL,
		language TEXT NOT NULL,
		risk_score REAL NOT NULL,
		claims_count INTEGER NOT NULL,
		evidence_count INTEGER NOT NULL,
		manipulation_signals TEXT NOT NULL,
		analysis TEXT NOT NULL,
		checked_at DATETIME NOT NULL,
		latency_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_checks_checked_at ON misinformation_checks(checked_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Append inserts one record
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	signals, err := json.Marshal(rec.ManipulationSignals)
	if err != nil {
		return fmt.Errorf("marshal signals: %w", err)
	}
	analysis, err := json.Marshal(rec.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO misinformation_checks (
			id, input_text, language, risk_score, claims_count, evidence_count,
			manipulation_signals, analysis, checked_at, latency_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.InputText, rec.Language, rec.RiskScore, rec.ClaimsCount, rec.EvidenceCount,
		string(signals), string(analysis), rec.Timestamp.UTC().Format(time.RFC3339Nano), rec.LatencyMS,
	)
	if err != nil {
		return fmt.Errorf("insert check %s: %w", rec.ID, err)
	}
	return nil
}

// Count returns the number of stored records
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM misinformation_checks").Scan(&n); err != nil {
		return 0, fmt.Errorf("count checks: %w", err)
	}
	return n, nil
}

// Recent returns up to limit records, newest first
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, input_text, language, risk_score, claims_count, evidence_count,
			manipulation_signals, analysis, checked_at, latency_ms
		FROM misinformation_checks
		ORDER BY checked_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var rec Record
		var signals, analysis, checkedAt string
		if err := rows.Scan(&rec.ID, &rec.InputText, &rec.Language, &rec.RiskScore, &rec.ClaimsCount,
			&rec.EvidenceCount, &signals, &analysis, &checkedAt, &rec.LatencyMS); err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		if err := json.Unmarshal([]byte(signals), &rec.ManipulationSignals); err != nil {
			return nil, fmt.Errorf("decode signals: %w", err)
		}
		if err := json.Unmarshal([]byte(analysis), &rec.Analysis); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
		if rec.Timestamp, err = time.Parse(time.RFC3339Nano, checkedAt); err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

var _ ResultStore = (*SQLiteStore)(nil)
