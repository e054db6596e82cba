package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// StateKey holds the caller's in-progress traversal.
const StateKey = "question_state"

// LoadState returns the session's traversal, if one is in progress.
func LoadState(ctx context.Context, s Store, sid string) (*quiz.State, bool, error) {
	raw, ok, err := s.Get(ctx, sid, StateKey)
	if err != nil || !ok {
		return nil, false, err
	}
	var st quiz.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, false, fmt.Errorf("session: decode %s: %w", StateKey, err)
	}
	return &st, true, nil
}

// SaveState replaces the session's traversal.
func SaveState(ctx context.Context, s Store, sid string, st *quiz.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", StateKey, err)
	}
	return s.Put(ctx, sid, StateKey, raw)
}

func ClearState(ctx context.Context, s Store, sid string) error {
	return s.Delete(ctx, sid, StateKey)
}
