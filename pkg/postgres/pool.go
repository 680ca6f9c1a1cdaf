package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultSSLMode      = "require"
	defaultConnLifetime = time.Hour
	defaultConnIdle     = 30 * time.Minute
	defaultHealthPeriod = 30 * time.Second
	applicationName     = "lendingd"
)

// Config holds PostgreSQL connection parameters.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// Pool sizing. Zero keeps the pgxpool defaults.
	MaxConns int32
	MinConns int32

	// StatementTimeout bounds every statement server side when positive.
	StatementTimeout time.Duration
}

// DSN returns a postgres:// URL. Credentials are escaped so passwords may
// contain reserved characters.
func (c Config) DSN() string {
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	if c.SSLMode == "" {
		q.Set("sslmode", defaultSSLMode)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (c Config) poolConfig() (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(c.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config for %s/%s: %w", c.Host, c.Database, err)
	}
	if c.MaxConns > 0 {
		pc.MaxConns = c.MaxConns
	}
	if c.MinConns > 0 {
		pc.MinConns = c.MinConns
	}
	pc.MaxConnLifetime = defaultConnLifetime
	pc.MaxConnIdleTime = defaultConnIdle
	pc.HealthCheckPeriod = defaultHealthPeriod

	rp := pc.ConnConfig.RuntimeParams
	rp["application_name"] = applicationName
	rp["timezone"] = "UTC"
	if c.StatementTimeout > 0 {
		rp["statement_timeout"] = strconv.FormatInt(c.StatementTimeout.Milliseconds(), 10)
	}
	return pc, nil
}

// NewPool opens a pool and pings it once, so a wrong address or password
// fails at startup rather than on the first request.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pc, err := cfg.poolConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping %s: %w", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)), err)
	}
	return pool, nil
}
