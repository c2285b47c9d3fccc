package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"time"

	"log/slog"

	"github.com/playvault/reward-engine/rewardengine/database/models"
	"github.com/uptrace/bun"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	// Probe reachability with retries before building the pool
	var conn net.Conn
	var err error

	tryDial := func() (net.Conn, error) {
		addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
		force4 := os.Getenv("DB_DIAL_FORCE_IPV4") == "1"
		force6 := os.Getenv("DB_DIAL_FORCE_IPV6") == "1"

		if force4 {
			return net.DialTimeout("tcp4", addr, defaultConnTimeout)
		}
		if force6 {
			return net.DialTimeout("tcp6", addr, defaultConnTimeout)
		}

		// Prefer IPv4, then fall back to IPv6
		if c, e := net.DialTimeout("tcp4", addr, defaultConnTimeout); e == nil {
			return c, nil
		}
		return net.DialTimeout("tcp6", addr, defaultConnTimeout)
	}

	for i := 0; i < defaultMaxRetries; i++ {
		conn, err = tryDial()
		if err == nil {
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}
	defer conn.Close()

	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &DB{pool: pool, bunDB: newBunDB(pool)}, nil
}

func buildConnString(cfg DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
}

func (db *DB) GetPool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func newBunDB(pool *pgxpool.Pool) *bun.DB {
	// SSL stays off unless explicitly overridden by env
	sslMode := os.Getenv("PG_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pool.Config().ConnConfig.User,
		pool.Config().ConnConfig.Password,
		pool.Config().ConnConfig.Host,
		pool.Config().ConnConfig.Port,
		pool.Config().ConnConfig.Database,
		sslMode,
	)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", sql),
			slog.Any("args", args),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Info("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", sql),
		slog.Any("args", args),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", result.RowsAffected()),
	)
	return result, nil
}

func (db *DB) QueryWithLog(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	start := time.Now()
	rows, err := db.pool.Query(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "query"),
			slog.String("query", sql),
			slog.Any("args", args),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return rows, err
	}

	slog.Info("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "query"),
		slog.String("query", sql),
		slog.Any("args", args),
		slog.Duration("took", duration),
	)
	return rows, nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// InitializeSchema creates all required database tables and indexes
func (db *DB) InitializeSchema(ctx context.Context) error {
	tables := []interface{}{
		(*models.StakePosition)(nil),
		(*models.RewardEvent)(nil),
		(*models.StakingStats)(nil),
	}

	for _, model := range tables {
		query := db.bunDB.NewCreateTable().
			Model(model).
			IfNotExists()

		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_stake_positions_user_id ON stake_positions(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_stake_positions_active ON stake_positions(user_id, staked_at) WHERE status = 'active';",
		"CREATE INDEX IF NOT EXISTS idx_stake_positions_unlock_at ON stake_positions(unlock_at) WHERE status = 'active';",
		"CREATE INDEX IF NOT EXISTS idx_reward_events_user_created ON reward_events(user_id, created_at);",
		"CREATE INDEX IF NOT EXISTS idx_staking_stats_timestamp ON staking_stats(timestamp);",
	}

	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Ping verifies both database connections are working
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pgxpool ping failed: %w", err)
	}
	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping failed: %w", err)
	}
	return nil
}
