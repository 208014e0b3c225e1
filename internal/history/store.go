// Package history persists scan results in an embedded sqlite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500

	table = "scan_history"
)

var columns = []string{
	"id", "subject", "url", "registered_domain", "prediction", "risk_level",
	"raw_probability", "adjusted_probability", "source", "policy_note", "created_at",
}

// Record is one row of scan_history.
type Record struct {
	ID                  string    `json:"id"`
	Subject             string    `json:"subject"`
	URL                 string    `json:"url"`
	RegisteredDomain    string    `json:"registered_domain,omitempty"`
	Prediction          string    `json:"prediction"`
	RiskLevel           string    `json:"risk_level"`
	RawProbability      float64   `json:"raw_probability"`
	AdjustedProbability float64   `json:"adjusted_probability"`
	Source              string    `json:"source"`
	PolicyNote          string    `json:"policy_note"`
	CreatedAt           time.Time `json:"created_at"`
}

// Query filters List. An empty Subject matches every subject.
type Query struct {
	Subject string
	Limit   int
}

// Store wraps the SQL database connection used for scan history.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
	now    func() time.Time
}

// Open creates the parent directory, opens the database and ensures the schema.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	logger = logger.With().Str("component", "HistoryStore").Logger()
	logger.Info().Str("db_path", path).Msg("Initializing history database connection")

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", path, err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger, now: time.Now}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) initSchema(ctx context.Context) error {
	statements := []string{`
	CREATE TABLE IF NOT EXISTS scan_history (
		id TEXT PRIMARY KEY,
		subject TEXT NOT NULL,
		url TEXT NOT NULL,
		registered_domain TEXT NOT NULL DEFAULT '',
		prediction TEXT NOT NULL,
		risk_level TEXT NOT NULL,
		raw_probability REAL NOT NULL,
		adjusted_probability REAL NOT NULL,
		source TEXT NOT NULL,
		policy_note TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);`,
		`CREATE INDEX IF NOT EXISTS idx_scan_history_subject_created ON scan_history (subject, created_at DESC);`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.logger.Error().Err(err).Msg("Failed to initialize schema")
			return err
		}
	}
	return nil
}

// Save inserts rec. Missing ID, CreatedAt and RegisteredDomain are filled in; the
// stored record is returned.
func (s *Store) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	if rec.RegisteredDomain == "" {
		rec.RegisteredDomain = RegisteredDomain(rec.URL)
	}

	query, args, err := sq.Insert(table).
		Columns(columns...).
		Values(rec.ID, rec.Subject, rec.URL, rec.RegisteredDomain, rec.Prediction, rec.RiskLevel,
			rec.RawProbability, rec.AdjustedProbability, rec.Source, rec.PolicyNote, rec.CreatedAt.UnixNano()).
		ToSql()
	if err != nil {
		return Record{}, fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return Record{}, fmt.Errorf("insert scan record: %w", err)
	}
	return rec, nil
}

// List returns matching records, newest first. Limit defaults to DefaultListLimit
// and is capped at MaxListLimit.
func (s *Store) List(ctx context.Context, q Query) ([]Record, error) {
	builder := sq.Select(columns...).
		From(table).
		OrderBy("created_at DESC", "rowid DESC").
		Limit(uint64(NormalizeLimit(q.Limit)))
	if q.Subject != "" {
		builder = builder.Where(sq.Eq{"subject": q.Subject})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]Record, 0)
	for rows.Next() {
		var (
			rec       Record
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.Subject, &rec.URL, &rec.RegisteredDomain, &rec.Prediction,
			&rec.RiskLevel, &rec.RawProbability, &rec.AdjustedProbability, &rec.Source, &rec.PolicyNote,
			&createdAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return records, nil
}

// Count returns the number of records for subject, or all records when subject is
// empty.
func (s *Store) Count(ctx context.Context, subject string) (int64, error) {
	builder := sq.Select("COUNT(*)").From(table)
	if subject != "" {
		builder = builder.Where(sq.Eq{"subject": subject})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}

// NormalizeLimit applies the List defaults.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
