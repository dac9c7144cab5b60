// Package favorites keeps the user's favorite locations: three permanent
// entries plus a persisted user set.
//
// Mutations go through a reducer. The full user set is written to the
// key-value store, and a change event published, only when the reducer
// reports that something actually changed.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/observability"
	"github.com/couchcryptid/weather-lookup/internal/storage"
)

// StorageKey is where the user set lives in the key-value store.
const StorageKey = "weather-favorites"

// Notifier receives confirmed changes. Failures are logged and ignored.
type Notifier interface {
	PublishFavorite(ctx context.Context, event domain.FavoriteEvent) error
}

// Store is the favorites store. It is safe for concurrent use within one
// process; separate processes sharing a backend are last-writer-wins.
type Store struct {
	kv       storage.Store
	notifier Notifier
	metrics  *observability.Metrics
	logger   *slog.Logger

	mu    sync.Mutex
	state state
}

// New loads the user set from kv. A missing, unreadable or corrupt value
// starts an empty set. notifier may be nil.
func New(ctx context.Context, kv storage.Store, notifier Notifier, metrics *observability.Metrics, logger *slog.Logger) *Store {
	s := &Store{
		kv:       kv,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
	s.state = state{user: s.load(ctx)}
	s.metrics.FavoritesCount.Set(float64(len(s.state.user)))
	return s
}

func (s *Store) load(ctx context.Context) []domain.ResolvedLocation {
	data, err := s.kv.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn("favorites load failed, starting empty", "error", err)
		return nil
	}

	var user []domain.ResolvedLocation
	if err := json.Unmarshal(data, &user); err != nil {
		s.logger.Warn("discarding corrupt favorites", "error", err)
		return nil
	}
	return user
}

// IsFixed reports whether loc is one of the permanent entries.
func (s *Store) IsFixed(loc domain.ResolvedLocation) bool {
	return IsFixed(loc)
}

// Contains reports whether loc is listed, fixed or user.
func (s *Store) Contains(loc domain.ResolvedLocation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.state.list(), loc.SameFavorite)
}

// List returns fixed entries followed by non-colliding user entries.
func (s *Store) List() []domain.ResolvedLocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.list()
}

// UserEntries returns the persisted user set as stored, collisions included.
func (s *Store) UserEntries() []domain.ResolvedLocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.user)
}

// Toggle adds loc if no entry with its (name, admin1) exists and removes
// that entry otherwise. Fixed entries are left alone. It reports whether
// loc is a favorite afterwards.
func (s *Store) Toggle(ctx context.Context, loc domain.ResolvedLocation) (bool, error) {
	if IsFixed(loc) {
		return true, nil
	}
	c, err := s.dispatch(ctx, action{kind: actionToggle, location: loc})
	if err != nil {
		return false, err
	}
	return c.action == domain.FavoriteAdded, nil
}

// Remove deletes the user entry equal to entry in every field. It reports
// whether anything was removed.
func (s *Store) Remove(ctx context.Context, entry domain.ResolvedLocation) (bool, error) {
	c, err := s.dispatch(ctx, action{kind: actionRemove, location: entry})
	if err != nil {
		return false, err
	}
	return c.action == domain.FavoriteRemoved, nil
}

// dispatch runs the reducer, then persists and announces a real change.
// The in-memory set only advances once the write succeeded.
func (s *Store) dispatch(ctx context.Context, a action) (change, error) {
	s.mu.Lock()
	next, c, ok := reduce(s.state, a)
	if !ok {
		s.mu.Unlock()
		return change{}, nil
	}
	if err := s.persist(ctx, next.user); err != nil {
		s.mu.Unlock()
		return change{}, err
	}
	s.state = next
	count := len(next.user)
	s.mu.Unlock()

	s.metrics.FavoritesCount.Set(float64(count))
	s.logger.Info("favorites changed",
		"action", c.action,
		"name", c.location.Name,
		"admin1", c.location.Admin1,
		"count", count,
	)
	s.notify(ctx, c, count)
	return c, nil
}

func (s *Store) persist(ctx context.Context, user []domain.ResolvedLocation) error {
	if user == nil {
		user = []domain.ResolvedLocation{}
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.kv.Put(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

func (s *Store) notify(ctx context.Context, c change, count int) {
	if s.notifier == nil {
		return
	}
	event := domain.FavoriteEvent{
		ID:         uuid.NewString(),
		Action:     c.action,
		Location:   c.location,
		UserCount:  count,
		OccurredAt: domain.Now(),
	}
	if err := s.notifier.PublishFavorite(ctx, event); err != nil {
		s.logger.Warn("favorite event publish failed", "event_id", event.ID, "error", err)
	}
}
