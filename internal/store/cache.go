package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// CachedResponse returns the body stored under key if it is younger than
// ttl. A non-positive ttl disables the cache.
func (s *Store) CachedResponse(ctx context.Context, key string, ttl time.Duration) ([]byte, bool, error) {
	if ttl <= 0 {
		return nil, false, nil
	}
	var (
		body   []byte
		stored int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT body, stored_at_unixms FROM response_cache WHERE k = ?`, key).Scan(&body, &stored)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if time.Since(time.UnixMilli(stored)) > ttl {
		return nil, false, nil
	}
	return body, true, nil
}

func (s *Store) PutResponse(ctx context.Context, key string, body []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO response_cache(k, body, stored_at_unixms) VALUES(?, ?, ?)`,
		key, body, time.Now().UnixMilli())
	return err
}

// PurgeCache drops every cached response.
func (s *Store) PurgeCache(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM response_cache`)
	return err
}
