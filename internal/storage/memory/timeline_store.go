package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage"
)

type timelineKey struct {
	playerID string
	season   int
}

// TimelineStore keeps dense daily series in memory, one slice per
// (player, season).
type TimelineStore struct {
	mu        sync.RWMutex
	timelines map[timelineKey][]domain.TimelinePoint
}

var _ storage.TimelineStore = (*TimelineStore)(nil)

// NewTimelineStore creates an empty store.
func NewTimelineStore() *TimelineStore {
	return &TimelineStore{timelines: make(map[timelineKey][]domain.TimelinePoint)}
}

// ReplaceTimeline swaps the stored series for the given points.
func (s *TimelineStore) ReplaceTimeline(_ context.Context, playerID string, season int, points []domain.TimelinePoint) error {
	if playerID == "" {
		return storage.ErrInvalidInput
	}
	cp := make([]domain.TimelinePoint, len(points))
	copy(cp, points)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Date.Before(cp[j].Date) })
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timelines[timelineKey{playerID, season}] = cp
	return nil
}

// GetTimeline returns a copy of the stored series ordered by date.
func (s *TimelineStore) GetTimeline(_ context.Context, playerID string, season int) ([]domain.TimelinePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	points, ok := s.timelines[timelineKey{playerID, season}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]domain.TimelinePoint, len(points))
	copy(out, points)
	return out, nil
}

// Players lists player ids with a stored timeline, sorted.
func (s *TimelineStore) Players(_ context.Context, season int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for key := range s.timelines {
		if key.season == season {
			out = append(out, key.playerID)
		}
	}
	sort.Strings(out)
	return out, nil
}
