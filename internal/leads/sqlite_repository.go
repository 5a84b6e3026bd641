package leads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRepository stores leads in a local SQLite file. Intended for local
// development, selected with a sqlite:// DATABASE_URL.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// SQLitePath converts "sqlite:///./leads.db" or "sqlite://leads.db" to a file path.
func SQLitePath(databaseURL string) string {
	path := strings.TrimPrefix(databaseURL, "sqlite://")
	if strings.HasPrefix(path, "/./") {
		path = path[1:]
	}
	return path
}

// NewSQLiteRepository opens (and creates if needed) the database at path.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("leads: create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("leads: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("leads: ping sqlite: %w", err)
	}

	repo := &SQLiteRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		zip_code TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		insurance_interest TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		session_id TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("leads: create sqlite schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Create inserts a new row.
func (r *SQLiteRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lead := req.toLead(uuid.New().String(), r.now())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leads (id, first_name, last_name, email, phone, zip_code, state, insurance_interest, source, notes, session_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.FirstName, lead.LastName, lead.Email, lead.Phone, lead.ZipCode, lead.State,
		lead.InsuranceInterest, lead.Source, lead.Notes, lead.SessionID, lead.CreatedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}
	return lead, nil
}

// GetByID fetches a single lead.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	lead, err := scanSQLiteLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// List returns leads newest first.
func (r *SQLiteRepository) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	filter = filter.normalized()
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Lead{}
	for rows.Next() {
		lead, err := scanSQLiteLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, lead)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteLead(row rowScanner) (*Lead, error) {
	var (
		lead      Lead
		createdAt int64
	)
	if err := row.Scan(
		&lead.ID,
		&lead.FirstName,
		&lead.LastName,
		&lead.Email,
		&lead.Phone,
		&lead.ZipCode,
		&lead.State,
		&lead.InsuranceInterest,
		&lead.Source,
		&lead.Notes,
		&lead.SessionID,
		&createdAt,
	); err != nil {
		return nil, err
	}
	lead.CreatedAt = time.Unix(0, createdAt).UTC()
	return &lead, nil
}
