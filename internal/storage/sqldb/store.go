// Package sqldb is the SQL implementation of storage.Store, supporting
// SQLite for local use and Postgres in production.
package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/voicelend/site-gateway/internal/domain"
	"github.com/voicelend/site-gateway/internal/storage"
	"github.com/voicelend/site-gateway/internal/storage/dialect"
)

// Store is a SQL-backed implementation of storage.Store.
type Store struct {
	db      *sqlx.DB
	dialect dialect.Dialect
}

var _ storage.Store = (*Store)(nil)

// Config holds database connection configuration.
type Config struct {
	Driver string // sqlite or postgres
	DSN    string
}

// New creates a new SQL store with the specified configuration.
func New(cfg Config) (*Store, error) {
	d, err := dialect.FromDriverName(cfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("unsupported database driver: %w", err)
	}

	db, err := sqlx.Open(d.DriverName(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, stmt := range d.PragmaStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute pragma: %w", err)
		}
	}

	store := &Store{db: db, dialect: d}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	ts := s.dialect.TimestampType()
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS leads (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL,
			company TEXT NOT NULL,
			nmls_id TEXT,
			message TEXT,
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		)`, ts, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS interactions (
			id TEXT PRIMARY KEY,
			endpoint TEXT NOT NULL,
			model TEXT NOT NULL,
			status TEXT NOT NULL,
			error_code TEXT NOT NULL DEFAULT '',
			duration_ns INTEGER NOT NULL,
			created_at %s NOT NULL
		)`, ts),
		`CREATE INDEX IF NOT EXISTS idx_leads_created ON leads(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_endpoint ON interactions(endpoint)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_status ON interactions(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

func (s *Store) CreateLead(ctx context.Context, lead *domain.Lead) error {
	now := time.Now()
	lead.ID = uuid.New().String()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	query := s.dialect.Rebind(`INSERT INTO leads
		(id, first_name, last_name, email, company, nmls_id, message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		lead.ID, lead.FirstName, lead.LastName, lead.Email, lead.Company,
		lead.NMLSID, lead.Message, lead.CreatedAt, lead.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	return nil
}

func (s *Store) ListLeads(ctx context.Context, limit int) ([]*domain.Lead, error) {
	if limit <= 0 {
		limit = 100
	}

	query := s.dialect.Rebind(`SELECT id, first_name, last_name, email, company,
		nmls_id, message, created_at, updated_at
		FROM leads ORDER BY created_at DESC LIMIT ?`)

	var leads []*domain.Lead
	if err := s.db.SelectContext(ctx, &leads, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	return leads, nil
}

func (s *Store) RecordInteraction(ctx context.Context, in *domain.Interaction) error {
	in.ID = uuid.New().String()
	in.CreatedAt = time.Now()

	query := s.dialect.Rebind(`INSERT INTO interactions
		(id, endpoint, model, status, error_code, duration_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		in.ID, in.Endpoint, in.Model, in.Status, in.ErrorCode, in.Duration, in.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record interaction: %w", err)
	}

	return nil
}

func (s *Store) ListInteractions(ctx context.Context, limit int) ([]*domain.Interaction, error) {
	if limit <= 0 {
		limit = 100
	}

	query := s.dialect.Rebind(`SELECT id, endpoint, model, status, error_code,
		duration_ns, created_at
		FROM interactions ORDER BY created_at DESC LIMIT ?`)

	var interactions []*domain.Interaction
	if err := s.db.SelectContext(ctx, &interactions, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}

	return interactions, nil
}

func (s *Store) Mock() bool { return false }

func (s *Store) Close() error {
	return s.db.Close()
}
