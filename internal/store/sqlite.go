// Package store caches backend state in a local SQLite database so the
// console can render cases, conversations, and evidence lists before the
// backend answers, and keep working while it is down.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Ashfaaq98/evidence-console/internal/api"
)

// Store is the SQLite-backed local cache.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the cache database at dbPath and runs
// migrations. ":memory:" works for tests.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open(sqliteDriver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps writers serialized and makes ":memory:" share a
	// single database across the pool.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS cases (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'processing',
			evidence_count INTEGER DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT NOT NULL,
			case_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT,
			timestamp TEXT,
			media_json TEXT,
			table_json TEXT,
			sources_json TEXT,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (case_id, id)
		)`,

		`CREATE TABLE IF NOT EXISTS evidence (
			id TEXT PRIMARY KEY,
			case_id TEXT NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			upload_date TEXT,
			upload_time TEXT,
			url TEXT,
			created_at INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_messages_case_id ON messages(case_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_position ON messages(case_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_evidence_case_id ON evidence(case_id)`,
		`CREATE INDEX IF NOT EXISTS idx_evidence_kind ON evidence(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_cases_created_at ON cases(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}
	return nil
}

// SaveCase upserts one case.
func (s *Store) SaveCase(ctx context.Context, c api.Case) error {
	id := c.ID
	if id == "" {
		id = c.CaseID
	}
	if id == "" {
		return fmt.Errorf("case has no id")
	}
	now := time.Now().Unix()
	query := `INSERT OR REPLACE INTO cases (
		id, title, description, status, evidence_count, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		id, c.Title, c.Description, string(c.Status), c.EvidenceCount, now, now)
	if err != nil {
		return fmt.Errorf("failed to save case %s: %w", id, err)
	}
	return nil
}

// SaveCases upserts a batch of cases.
func (s *Store) SaveCases(ctx context.Context, cases []api.Case) error {
	for _, c := range cases {
		if err := s.SaveCase(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// ListCases returns all cached cases, newest first.
func (s *Store) ListCases(ctx context.Context) ([]api.Case, error) {
	query := `SELECT id, title, description, status, evidence_count
		FROM cases ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	defer rows.Close()

	var cases []api.Case
	for rows.Next() {
		var c api.Case
		var status string
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &status, &c.EvidenceCount); err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		c.Status = api.CaseStatus(status)
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// GetCase returns one cached case by id.
func (s *Store) GetCase(ctx context.Context, caseID string) (api.Case, error) {
	query := `SELECT id, title, description, status, evidence_count FROM cases WHERE id = ?`
	var c api.Case
	var status string
	err := s.db.QueryRowContext(ctx, query, caseID).Scan(
		&c.ID, &c.Title, &c.Description, &status, &c.EvidenceCount)
	if err != nil {
		return api.Case{}, fmt.Errorf("failed to get case %s: %w", caseID, err)
	}
	c.Status = api.CaseStatus(status)
	return c, nil
}

// SaveMessages replaces the cached conversation for a case with msgs, in
// order. Runs in one transaction so readers never see a half-written
// conversation.
func (s *Store) SaveMessages(ctx context.Context, caseID string, msgs []api.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	rollback := func(e error) error {
		_ = tx.Rollback()
		return e
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE case_id = ?`, caseID); err != nil {
		return rollback(fmt.Errorf("clear messages for case %s: %w", caseID, err))
	}

	query := `INSERT INTO messages (
		id, case_id, position, role, content, timestamp,
		media_json, table_json, sources_json, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().Unix()
	for i, m := range msgs {
		mediaJSON, err := marshalOrNil(m.Media)
		if err != nil {
			return rollback(fmt.Errorf("marshal media for message %s: %w", m.ID, err))
		}
		tableJSON, err := marshalOrNil(m.Table)
		if err != nil {
			return rollback(fmt.Errorf("marshal table for message %s: %w", m.ID, err))
		}
		sourcesJSON, err := marshalOrNil(m.Sources)
		if err != nil {
			return rollback(fmt.Errorf("marshal sources for message %s: %w", m.ID, err))
		}
		if _, err := tx.ExecContext(ctx, query,
			m.ID, caseID, i, m.Role, m.Content, m.Timestamp,
			mediaJSON, tableJSON, sourcesJSON, now); err != nil {
			return rollback(fmt.Errorf("insert message %s: %w", m.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetMessages returns the cached conversation for a case in stored order.
func (s *Store) GetMessages(ctx context.Context, caseID string) ([]api.Message, error) {
	query := `SELECT id, role, content, timestamp, media_json, table_json, sources_json
		FROM messages WHERE case_id = ? ORDER BY position ASC`
	rows, err := s.db.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var msgs []api.Message
	for rows.Next() {
		var m api.Message
		var mediaJSON, tableJSON, sourcesJSON sql.NullString
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.Timestamp,
			&mediaJSON, &tableJSON, &sourcesJSON); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if mediaJSON.Valid {
			if err := json.Unmarshal([]byte(mediaJSON.String), &m.Media); err != nil {
				return nil, fmt.Errorf("unmarshal media for message %s: %w", m.ID, err)
			}
		}
		if tableJSON.Valid {
			if err := json.Unmarshal([]byte(tableJSON.String), &m.Table); err != nil {
				return nil, fmt.Errorf("unmarshal table for message %s: %w", m.ID, err)
			}
		}
		if sourcesJSON.Valid {
			if err := json.Unmarshal([]byte(sourcesJSON.String), &m.Sources); err != nil {
				return nil, fmt.Errorf("unmarshal sources for message %s: %w", m.ID, err)
			}
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ReplaceEvidence replaces the cached evidence list for a case.
func (s *Store) ReplaceEvidence(ctx context.Context, caseID string, files []api.EvidenceFile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	rollback := func(e error) error {
		_ = tx.Rollback()
		return e
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM evidence WHERE case_id = ?`, caseID); err != nil {
		return rollback(fmt.Errorf("clear evidence for case %s: %w", caseID, err))
	}

	query := `INSERT OR REPLACE INTO evidence (
		id, case_id, name, kind, upload_date, upload_time, url, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().Unix()
	for _, f := range files {
		if _, err := tx.ExecContext(ctx, query,
			f.ID, caseID, f.Name, string(f.Kind), f.UploadDate, f.UploadTime, f.URL, now); err != nil {
			return rollback(fmt.Errorf("insert evidence %s: %w", f.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListEvidence returns cached evidence for a case, optionally filtered by
// media kind. Empty kind returns everything.
func (s *Store) ListEvidence(ctx context.Context, caseID string, kind api.MediaKind) ([]api.EvidenceFile, error) {
	query := `SELECT id, name, kind, upload_date, upload_time, url
		FROM evidence WHERE case_id = ?`
	args := []interface{}{caseID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence: %w", err)
	}
	defer rows.Close()

	var files []api.EvidenceFile
	for rows.Next() {
		var f api.EvidenceFile
		var k string
		if err := rows.Scan(&f.ID, &f.Name, &k, &f.UploadDate, &f.UploadTime, &f.URL); err != nil {
			return nil, fmt.Errorf("failed to scan evidence: %w", err)
		}
		f.Kind = api.MediaKind(k)
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteEvidence removes one cached evidence row.
func (s *Store) DeleteEvidence(ctx context.Context, evidenceID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM evidence WHERE id = ?`, evidenceID); err != nil {
		return fmt.Errorf("failed to delete evidence %s: %w", evidenceID, err)
	}
	return nil
}

// Reset wipes all cached data. Used by the reset command.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"messages", "evidence", "cases"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Stats reports row counts per table for the serve status line.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int)
	for _, table := range []string{"cases", "messages", "evidence"} {
		var n int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats[table] = n
	}
	return stats, nil
}

func marshalOrNil(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case []api.MediaItem:
		if len(x) == 0 {
			return nil, nil
		}
	case []api.Source:
		if len(x) == 0 {
			return nil, nil
		}
	case *api.Table:
		if x == nil {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
