package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"
)

var ErrMissingURL = errors.New("database: DATABASE_URL is required")

const defaultConnectTimeout = 10 * time.Second

type Options struct {
	URL            string
	Name           string
	MaxConns       int32
	MinConns       int32
	ConnectTimeout time.Duration
}

// DialFunc opens and prepares a pool. The default dials Postgres, pings it
// and ensures the schema.
type DialFunc func(ctx context.Context, opts Options) (*pgxpool.Pool, error)

// Connector hands out one process-wide pool, connecting on first use.
// Concurrent first callers share a single connection attempt; a failed
// attempt is not cached, so the next caller tries again.
type Connector struct {
	opts  Options
	dial  DialFunc
	group singleflight.Group

	mu   sync.RWMutex
	pool *pgxpool.Pool
}

func NewConnector(opts Options) *Connector {
	return &Connector{opts: opts, dial: Dial}
}

// WithDialer replaces the dial function. Used by tests.
func (c *Connector) WithDialer(dial DialFunc) *Connector {
	c.dial = dial
	return c
}

func (c *Connector) cached() *pgxpool.Pool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pool
}

// Pool returns the shared pool, connecting if needed. Cancelling ctx stops
// the wait but not an attempt other callers may be sharing.
func (c *Connector) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	if pool := c.cached(); pool != nil {
		return pool, nil
	}

	if strings.TrimSpace(c.opts.URL) == "" {
		return nil, ErrMissingURL
	}

	ch := c.group.DoChan("connect", func() (any, error) {
		if pool := c.cached(); pool != nil {
			return pool, nil
		}

		timeout := c.opts.ConnectTimeout
		if timeout <= 0 {
			timeout = defaultConnectTimeout
		}
		attemptCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		pool, err := c.dial(attemptCtx, c.opts)
		if err != nil {
			slog.Error("database connect failed", "error", err)
			return nil, err
		}

		c.mu.Lock()
		c.pool = pool
		c.mu.Unlock()

		slog.Info("database connected", "database", c.opts.Name, "max_conns", c.opts.MaxConns, "min_conns", c.opts.MinConns)
		return pool, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*pgxpool.Pool), nil
	}
}

func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
}

func (c *Connector) Health(ctx context.Context) error {
	pool, err := c.Pool(ctx)
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

// Dial parses opts into a pgx pool config, connects, pings and applies the
// embedded schema.
func Dial(ctx context.Context, opts Options) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	if name := strings.TrimSpace(opts.Name); name != "" {
		cfg.ConnConfig.Database = name
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	cfg.MinConns = opts.MinConns
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
