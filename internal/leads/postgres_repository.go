package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is the subset of *pgxpool.Pool the repository uses.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool pgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool pgxQuerier) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const leadColumns = `id, first_name, last_name, email, phone, zip_code, state, insurance_interest, source, notes, session_id, created_at`

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, first_name, last_name, email, phone, zip_code, state, insurance_interest, source, notes, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.FirstName,
		req.LastName,
		req.Email,
		req.Phone,
		req.ZipCode,
		req.State,
		req.InsuranceInterest,
		req.Source,
		req.Notes,
		req.SessionID,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return req.toLead(id.String(), createdAt), nil
}

// GetByID fetches a single lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrLeadNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, parsed)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// List returns leads newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	filter = filter.normalized()
	rows, err := r.pool.Query(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return out, nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var (
		lead Lead
		id   uuid.UUID
	)
	if err := row.Scan(
		&id,
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
		&lead.CreatedAt,
	); err != nil {
		return nil, err
	}
	lead.ID = id.String()
	return &lead, nil
}
