package bootstrap

import (
	"context"
	"crypto/tls"
	"database/sql"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/praxia/citas-gateway/internal/citas"
	appconfig "github.com/praxia/citas-gateway/internal/config"
	"github.com/praxia/citas-gateway/pkg/logging"
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
		return nil
	}
	return client
}

// Stores bundles the three session-state stores the wizard runs on.
type Stores struct {
	Drafts    *citas.DraftStore
	Pending   *citas.PendingPaymentStore
	Confirmed *citas.ConfirmedMessageStore
}

// BuildStores wires the draft, pending-payment and confirmation stores on
// one Redis client. Redis is mandatory for the gateway: without it there
// is no session state to serve.
func BuildStores(redisClient *redis.Client, cfg *appconfig.Config) Stores {
	return Stores{
		Drafts:    citas.NewDraftStore(redisClient, cfg.SessionTTL),
		Pending:   citas.NewPendingPaymentStore(redisClient, cfg.SessionTTL),
		Confirmed: citas.NewConfirmedMessageStore(redisClient),
	}
}

// BuildEventLog returns the booking audit log when a database is
// configured, nil otherwise. A nil log disables auditing without
// touching the callers.
func BuildEventLog(sqlDB *sql.DB, logger *logging.Logger) *citas.EventLog {
	if sqlDB == nil {
		return nil
	}
	if logger != nil {
		logger.Info("booking event audit enabled")
	}
	return citas.NewEventLog(sqlDB)
}
