package state

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"docchat-client/internal/pkg/logger"
	"docchat-client/internal/repository/contract"
	"docchat-client/pkg/events"
)

const persistTimeout = 5 * time.Second

// Publisher receives one event per committed transition.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Store owns the current Snapshot. Every change goes through Apply, which
// clones the snapshot, lets the action mutate the clone and swaps it in, so
// readers never observe a partially applied action.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot

	// saveMu orders repository writes so the last write is the latest state.
	saveMu sync.Mutex

	repo      contract.StateRepository
	publisher Publisher
	logger    logger.ILogger
}

// NewStore builds an empty store. repo and publisher may be nil.
func NewStore(repo contract.StateRepository, publisher Publisher, log logger.ILogger) *Store {
	return &Store{
		current:   newSnapshot(),
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

// Load restores the persisted subset from the repository.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	p, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if p == nil {
		return nil
	}

	s.mu.Lock()
	next := newSnapshot()
	next.Restore(*p)
	next.Version = s.current.Version + 1
	s.current = next
	s.mu.Unlock()

	s.logger.Info("State", "Restored persisted state", map[string]interface{}{
		"sessions":        len(p.Sessions),
		"documents":       len(p.Documents),
		"current_session": next.CurrentSessionId,
		"saved_at":        p.SavedAt,
	})
	return nil
}

// Snapshot returns a private copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.current.clone()
}

// Apply runs one named action. If fn returns an error nothing changes and
// the error is returned as is.
func (s *Store) Apply(action string, fn func(*Snapshot) error) (Snapshot, error) {
	s.mu.Lock()
	prev := s.current
	next := prev.clone()
	if err := fn(next); err != nil {
		s.mu.Unlock()
		return *prev.clone(), err
	}
	next.Version = prev.Version + 1
	s.current = next
	persist := s.repo != nil && persistedChanged(prev, next)
	out := *next.clone()
	s.mu.Unlock()

	s.logger.Debug("State", "Applied action", map[string]interface{}{
		"action":  action,
		"version": next.Version,
		"pending": next.IsPending(),
	})

	if persist {
		s.persist()
	}
	s.publish(action, next.Version)
	return out, nil
}

func persistedChanged(prev, next *Snapshot) bool {
	return prev.CurrentSessionId != next.CurrentSessionId ||
		!sameElements(prev.Sessions, next.Sessions) ||
		!sameElements(prev.Documents, next.Documents)
}

// sameElements treats nil and empty slices as equal.
func sameElements[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || reflect.DeepEqual(a, b)
}

func (s *Store) persist() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	p := s.current.Persisted()
	s.mu.RUnlock()
	p.SavedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.Error("State", "Failed to persist state", map[string]interface{}{"error": err})
	}
}

func (s *Store) publish(action string, version uint64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.Background(), events.NewStateChanged(action, version)); err != nil {
		s.logger.Warn("State", "Failed to publish state change", map[string]interface{}{"action": action, "error": err})
	}
}
