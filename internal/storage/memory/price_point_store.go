// Package memory provides mutex-guarded in-memory implementations of the
// storage interfaces, used by tests and DSN-less runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage"
)

type slotKey struct {
	playerID string
	season   int
	week     int
}

// PricePointStore keeps committed points in a map keyed by
// (player, season, week). Reads return copies so callers cannot mutate stored
// state.
type PricePointStore struct {
	mu     sync.RWMutex
	points map[slotKey]domain.PricePoint
}

var _ storage.PricePointStore = (*PricePointStore)(nil)

// NewPricePointStore creates an empty store.
func NewPricePointStore() *PricePointStore {
	return &PricePointStore{points: make(map[slotKey]domain.PricePoint)}
}

func validatePoint(p *domain.PricePoint) error {
	if p == nil || p.PlayerID == "" || p.Week < 1 {
		return storage.ErrInvalidInput
	}
	return nil
}

// Insert adds a committed point, failing on an occupied slot.
func (s *PricePointStore) Insert(_ context.Context, p *domain.PricePoint) error {
	if err := validatePoint(p); err != nil {
		return err
	}
	key := slotKey{p.PlayerID, p.Season, p.Week}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.points[key]; ok {
		return fmt.Errorf("insert price point %s s%d w%d: %w", p.PlayerID, p.Season, p.Week, storage.ErrDuplicateKey)
	}
	s.points[key] = *p
	return nil
}

// Replace overwrites the slot unconditionally.
func (s *PricePointStore) Replace(_ context.Context, p *domain.PricePoint) error {
	if err := validatePoint(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points[slotKey{p.PlayerID, p.Season, p.Week}] = *p
	return nil
}

// Exists reports slot occupancy.
func (s *PricePointStore) Exists(_ context.Context, playerID string, season, week int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.points[slotKey{playerID, season, week}]
	return ok, nil
}

// GetByPlayerWeek fetches one slot.
func (s *PricePointStore) GetByPlayerWeek(_ context.Context, playerID string, season, week int) (*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.points[slotKey{playerID, season, week}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := p
	return &out, nil
}

// GetLatestBefore returns the highest-week point strictly below week.
func (s *PricePointStore) GetLatestBefore(_ context.Context, playerID string, season, week int) (*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *domain.PricePoint
	for key, p := range s.points {
		if key.playerID != playerID || key.season != season || key.week >= week {
			continue
		}
		if latest == nil || p.Week > latest.Week {
			cp := p
			latest = &cp
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	return latest, nil
}

// GetBySeason returns all points of a season ordered by (player, week).
func (s *PricePointStore) GetBySeason(_ context.Context, season int) ([]*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.PricePoint
	for key, p := range s.points {
		if key.season != season {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].Week < out[j].Week
	})
	return out, nil
}

// GetByPlayer returns one player's points ordered by week.
func (s *PricePointStore) GetByPlayer(_ context.Context, playerID string, season int) ([]*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.PricePoint
	for key, p := range s.points {
		if key.playerID != playerID || key.season != season {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out, nil
}
