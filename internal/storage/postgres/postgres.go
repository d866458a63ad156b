package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/velox/url-shortener/internal/storage"
)

// Storage implements storage.Store on a PostgreSQL table used as a flat
// key-value map.
type Storage struct {
	pool *pgxpool.Pool
}

func NewStorage(ctx context.Context, dsn string, maxConns int32) (*Storage, error) {
	if dsn == "" {
		return nil, errors.New("database connection string is empty")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &Storage{pool: pool}

	if err := s.createTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *Storage) createTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS short_urls (
			code TEXT PRIMARY KEY,
			original_url TEXT NOT NULL
		);
	`)
	return err
}

func (s *Storage) acquire(ctx context.Context, op string) (*pgxpool.Conn, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, storage.Unavailable(op, err)
	}
	return conn, nil
}

func (s *Storage) Put(ctx context.Context, key, value string) error {
	conn, err := s.acquire(ctx, "put")
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
		INSERT INTO short_urls (code, original_url) VALUES ($1, $2)
		ON CONFLICT (code) DO UPDATE SET original_url = EXCLUDED.original_url
	`, key, value)
	if err != nil {
		return classify("put", err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	conn, err := s.acquire(ctx, "get")
	if err != nil {
		return "", false, err
	}
	defer conn.Release()

	var originalURL string
	err = conn.QueryRow(ctx, "SELECT original_url FROM short_urls WHERE code = $1", key).Scan(&originalURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, classify("get", err)
	}

	return originalURL, true, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	conn, err := s.acquire(ctx, "ping")
	if err != nil {
		return err
	}
	defer conn.Release()

	if err := conn.Conn().Ping(ctx); err != nil {
		return storage.Unavailable("ping", err)
	}
	return nil
}

func (s *Storage) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// classify maps a failed command to a store error kind. Lost connections and
// server-side connection exceptions (SQLSTATE class 08) count as unavailable.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgerrcode.IsConnectionException(pgErr.Code) {
			return storage.Unavailable(op, err)
		}
		return storage.Query(op, err)
	}

	if pgconn.Timeout(err) {
		return storage.Unavailable(op, err)
	}

	return storage.Query(op, err)
}
