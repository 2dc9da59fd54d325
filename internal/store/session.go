package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"planboard-cli/internal/model"
)

// ErrNoSession is returned when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

type SessionRecord struct {
	APIURL    string
	Session   model.Session
	CreatedAt time.Time
}

// SaveSession replaces the stored session.
func (s *Store) SaveSession(ctx context.Context, apiURL string, sess model.Session) error {
	if strings.TrimSpace(sess.Token) == "" {
		return errors.New("empty token")
	}
	b, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO session(id, api_url, token, user_json, created_at_unixms) VALUES(1, ?, ?, ?, ?)`,
		strings.TrimSpace(apiURL), sess.Token, string(b), time.Now().UnixMilli())
	return err
}

func (s *Store) LoadSession(ctx context.Context) (SessionRecord, error) {
	var (
		rec      SessionRecord
		userJSON string
		created  int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT api_url, token, user_json, created_at_unixms FROM session WHERE id = 1`).
		Scan(&rec.APIURL, &rec.Session.Token, &userJSON, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, ErrNoSession
	}
	if err != nil {
		return SessionRecord{}, err
	}
	if err := json.Unmarshal([]byte(userJSON), &rec.Session.User); err != nil {
		return SessionRecord{}, err
	}
	rec.CreatedAt = time.UnixMilli(created)
	return rec, nil
}

// ClearSession logs out and drops cached responses, which belong to the
// previous user.
func (s *Store) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return err
	}
	return s.PurgeCache(ctx)
}
