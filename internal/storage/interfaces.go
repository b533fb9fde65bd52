// Package storage defines the persistence interfaces the engine and reporting
// layers depend on. Implementations live in the memory, postgres, and
// clickhouse subpackages.
package storage

import (
	"context"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
)

// PricePointStore persists committed price points. The store is append-only:
// one row per (player, season, week), inserts into an occupied slot fail with
// ErrDuplicateKey, and Replace exists only for force/backfill reruns.
type PricePointStore interface {
	// Insert adds a committed point. Returns ErrDuplicateKey when the
	// (player, season, week) slot is already taken.
	Insert(ctx context.Context, p *domain.PricePoint) error

	// Replace overwrites the (player, season, week) slot, creating it when
	// absent.
	Replace(ctx context.Context, p *domain.PricePoint) error

	// Exists reports whether a committed point occupies the slot.
	Exists(ctx context.Context, playerID string, season, week int) (bool, error)

	// GetByPlayerWeek fetches one slot. Returns ErrNotFound when empty.
	GetByPlayerWeek(ctx context.Context, playerID string, season, week int) (*domain.PricePoint, error)

	// GetLatestBefore returns the player's most recent committed point with a
	// week strictly below the given week, so week N chains off week N-1 (or
	// the nearest earlier committed week) even when later weeks are already
	// committed. Returns ErrNotFound when no earlier point exists.
	GetLatestBefore(ctx context.Context, playerID string, season, week int) (*domain.PricePoint, error)

	// GetBySeason returns every committed point of a season ordered by
	// (player, week).
	GetBySeason(ctx context.Context, season int) ([]*domain.PricePoint, error)

	// GetByPlayer returns one player's committed points ordered by week.
	GetByPlayer(ctx context.Context, playerID string, season int) ([]*domain.PricePoint, error)
}

// TimelineStore persists the dense daily series (committed plus interpolated
// points) front-end charts read. Rebuilding a player's timeline replaces the
// previous one.
type TimelineStore interface {
	// ReplaceTimeline swaps a player's stored series for the given points.
	ReplaceTimeline(ctx context.Context, playerID string, season int, points []domain.TimelinePoint) error

	// GetTimeline returns a player's series ordered by date.
	GetTimeline(ctx context.Context, playerID string, season int) ([]domain.TimelinePoint, error)

	// Players lists the player ids that have a stored timeline in a season.
	Players(ctx context.Context, season int) ([]string, error)
}
