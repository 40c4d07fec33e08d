package oauth

import (
	"testing"
	"time"
)

type mapStore struct {
	items map[string]string
}

func (s *mapStore) Set(key, value string, _ time.Duration) { s.items[key] = value }
func (s *mapStore) Get(key string) (string, bool) {
	v, ok := s.items[key]
	return v, ok
}
func (s *mapStore) Delete(key string) { delete(s.items, key) }

func TestStateRoundTrip(t *testing.T) {
	sm := NewStateManager(&mapStore{items: map[string]string{}})

	state, err := sm.GenerateState()
	if err != nil {
		t.Fatalf("GenerateState: %v", err)
	}
	if state == "" {
		t.Fatal("expected non-empty state")
	}

	if !sm.ValidateState(state) {
		t.Fatal("freshly generated state should validate")
	}
	// One-shot: validation consumes the state
	if sm.ValidateState(state) {
		t.Fatal("state must not validate twice")
	}
}

func TestValidateUnknownState(t *testing.T) {
	sm := NewStateManager(&mapStore{items: map[string]string{}})

	if sm.ValidateState("never-issued") {
		t.Fatal("unknown state must not validate")
	}
}
