package bootstrap

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	appconfig "github.com/wolfman30/clara-insurance-guide/internal/config"
	"github.com/wolfman30/clara-insurance-guide/internal/conversation"
	"github.com/wolfman30/clara-insurance-guide/internal/leads"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

// SessionBackends are the clients a session store may be built on. Only the
// one named by SESSION_STORE needs to be set.
type SessionBackends struct {
	Redis  *redis.Client
	SQL    *sql.DB
	Dynamo *dynamodb.Client
}

// BuildSessionStore picks the session store named by cfg.SessionStore.
func BuildSessionStore(cfg *appconfig.Config, backends SessionBackends, logger *logging.Logger) (conversation.SessionStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.SessionStore {
	case "", appconfig.SessionStoreMemory:
		logger.Info("using in-memory session store")
		return conversation.NewMemorySessionStore(), nil
	case appconfig.SessionStoreRedis:
		if backends.Redis == nil {
			return nil, fmt.Errorf("bootstrap: session store redis requires REDIS_ADDR")
		}
		logger.Info("using redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL.String())
		return conversation.NewRedisSessionStore(backends.Redis, cfg.SessionTTL, otel.Tracer("clara.internal.conversation.redis")), nil
	case appconfig.SessionStorePostgres:
		if backends.SQL == nil {
			return nil, fmt.Errorf("bootstrap: session store postgres requires a postgres DATABASE_URL")
		}
		logger.Info("using postgres session store")
		return conversation.NewPostgresSessionStore(backends.SQL), nil
	case appconfig.SessionStoreDynamo:
		if backends.Dynamo == nil {
			return nil, fmt.Errorf("bootstrap: session store dynamodb requires aws config")
		}
		logger.Info("using dynamodb session store", "table", cfg.SessionsTable)
		return conversation.NewDynamoSessionStore(backends.Dynamo, cfg.SessionsTable, cfg.SessionTTL), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown session store %q", cfg.SessionStore)
	}
}

// BuildLeadsRepository picks the lead repository from DATABASE_URL: a
// Postgres pool, a sqlite:// file, or memory. The returned func releases it.
func BuildLeadsRepository(cfg *appconfig.Config, pool *pgxpool.Pool, logger *logging.Logger) (leads.Repository, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() {}

	if path, ok := SQLitePath(cfg.DatabaseURL); ok {
		repo, err := leads.NewSQLiteRepository(path)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: sqlite leads: %w", err)
		}
		logger.Info("using sqlite lead repository", "path", path)
		return repo, func() { _ = repo.Close() }, nil
	}
	if pool != nil {
		logger.Info("using postgres lead repository")
		return leads.NewPostgresRepository(pool), noop, nil
	}
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		logger.Warn("DATABASE_URL set but no database reachable; leads kept in memory")
	} else {
		logger.Info("no DATABASE_URL; leads kept in memory")
	}
	return leads.NewInMemoryRepository(), noop, nil
}
