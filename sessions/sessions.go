// Package sessions persists planning session snapshots so a finished plan
// can be looked up by its session id.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mealplanner/planner"
)

var ErrSessionNotFound = errors.New("session not found")

// Store saves and restores complete planner states.
type Store interface {
	planner.Store
	Load(ctx context.Context, sessionID string) (*planner.State, error)
	Close() error
}

func encode(st *planner.State) ([]byte, error) {
	if st == nil || st.SessionID == "" {
		return nil, errors.New("state has no session id")
	}
	b, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session %s: %w", st.SessionID, err)
	}
	return b, nil
}

func decode(sessionID string, b []byte) (*planner.State, error) {
	var st planner.State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &st, nil
}
