package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/wolfman30/clara-insurance-guide/internal/extract"
)

// PostgresSessionStore persists sessions in the chat_sessions table.
type PostgresSessionStore struct {
	db *sql.DB
}

func NewPostgresSessionStore(db *sql.DB) *PostgresSessionStore {
	if db == nil {
		panic("conversation: sql db cannot be nil")
	}
	return &PostgresSessionStore{db: db}
}

func (s *PostgresSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	var (
		session  Session
		messages []byte
		topics   []string
		leadID   sql.NullString
		ip       sql.NullString
		step     sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, messages, insurance_topics, lead_id, ip_address, step, created_at, updated_at
		FROM chat_sessions
		WHERE session_id = $1
	`, id).Scan(&session.ID, &messages, pq.Array(&topics), &leadID, &ip, &step, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to load session: %w", err)
	}

	if len(messages) > 0 {
		if err := json.Unmarshal(messages, &session.Messages); err != nil {
			return nil, fmt.Errorf("conversation: failed to decode session messages: %w", err)
		}
	}
	session.Topics = extract.ParseTopics(topics)
	session.LeadID = leadID.String
	session.IPAddress = ip.String
	session.Step = step.String
	return &session, nil
}

func (s *PostgresSessionStore) Save(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return errors.New("conversation: session id is required")
	}
	messages, err := json.Marshal(session.Messages)
	if err != nil {
		return fmt.Errorf("conversation: failed to marshal session messages: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (session_id, messages, insurance_topics, lead_id, ip_address, step, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO UPDATE SET
			messages = EXCLUDED.messages,
			insurance_topics = EXCLUDED.insurance_topics,
			lead_id = EXCLUDED.lead_id,
			ip_address = COALESCE(chat_sessions.ip_address, EXCLUDED.ip_address),
			step = EXCLUDED.step,
			updated_at = EXCLUDED.updated_at
	`, session.ID, messages, pq.Array(extract.TopicStrings(session.Topics)),
		nullString(session.LeadID), nullString(session.IPAddress), nullString(session.Step),
		session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("conversation: failed to persist session: %w", err)
	}
	return nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
