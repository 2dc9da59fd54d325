package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

const uiStateKey = "tui"

// UIState restores the last TUI screen on relaunch. Callers should treat
// it as best effort.
type UIState struct {
	Version int `json:"version"`

	// View is one of: projects|project
	View string `json:"view,omitempty"`

	ProjectID string `json:"projectId,omitempty"`

	// Tab is one of: timeline|modules|team
	Tab string `json:"tab,omitempty"`
}

func (s *Store) LoadUIState(ctx context.Context) (*UIState, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM ui_state WHERE k = ?`, uiStateKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return &UIState{Version: 1}, nil
	}
	if err != nil {
		return nil, err
	}
	var st UIState
	if err := json.Unmarshal([]byte(v), &st); err != nil {
		// Corrupt state reads as missing.
		return &UIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s *Store) SaveUIState(ctx context.Context, st *UIState) error {
	if st == nil {
		return nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO ui_state(k, v) VALUES(?, ?)`, uiStateKey, string(b))
	return err
}
