package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultSessionTTL bounds how long an idle chat is kept in Redis or DynamoDB.
const DefaultSessionTTL = 24 * time.Hour

// RedisSessionStore keeps each session as one JSON value with a sliding TTL.
type RedisSessionStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *RedisSessionStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if tracer == nil {
		tracer = otel.Tracer("clara.internal.conversation.sessions")
	}
	return &RedisSessionStore{redis: client, ttl: ttl, tracer: tracer}
}

func (s *RedisSessionStore) Save(ctx context.Context, session *Session) error {
	ctx, span := s.tracer.Start(ctx, "conversation.save_session")
	defer span.End()

	if session == nil || session.ID == "" {
		return errors.New("conversation: session id is required")
	}
	data, err := json.Marshal(session)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.load_session")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to decode session: %w", err)
	}
	return &session, nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("chat_session:%s", id)
}
