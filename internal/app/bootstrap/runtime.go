package bootstrap

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // postgres driver for database/sql
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/clara-insurance-guide/internal/config"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// IsPostgresURL reports whether url points at Postgres rather than SQLite.
func IsPostgresURL(url string) bool {
	url = strings.ToLower(strings.TrimSpace(url))
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// SQLitePath extracts the file path from a sqlite:// URL.
func SQLitePath(url string) (string, bool) {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(strings.ToLower(url), "sqlite://") {
		return "", false
	}
	path := url[len("sqlite://"):]
	if path == "" {
		path = "clara.db"
	}
	return path, true
}

// OpenPostgres opens a database/sql handle for the session table. Returns
// nil when databaseURL is not a Postgres URL.
func OpenPostgres(ctx context.Context, databaseURL string) (*sql.DB, error) {
	if !IsPostgresURL(databaseURL) {
		return nil, nil
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	return db, nil
}

// ConnectPostgresPool returns a pgx pool for the lead repository, or nil
// when the URL is empty or unreachable.
func ConnectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if !IsPostgresURL(databaseURL) {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres not reachable", "error", err)
		pool.Close()
		return nil
	}
	return pool
}
