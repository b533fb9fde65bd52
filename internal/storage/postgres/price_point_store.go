package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage"
)

// PricePointStore implements storage.PricePointStore using PostgreSQL.
type PricePointStore struct {
	pool *Pool
}

// NewPricePointStore creates a new PricePointStore.
func NewPricePointStore(pool *Pool) *PricePointStore {
	return &PricePointStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PricePointStore = (*PricePointStore)(nil)

const pricePointColumns = `
	player_id, name, position, season, week, game_date, price,
	raw_change, multiplier, sentiment_factor, capped_change,
	confidence, efficiency_z, decay_applied
`

// Insert adds a committed point. Returns ErrDuplicateKey if the
// (player_id, season, week) slot exists.
func (s *PricePointStore) Insert(ctx context.Context, p *domain.PricePoint) error {
	if p == nil || p.PlayerID == "" || p.Week < 1 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO price_points (` + pricePointColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := s.pool.Exec(ctx, query,
		p.PlayerID, p.Name, string(p.Position), p.Season, p.Week, p.Date, p.Price,
		p.RawChange, p.Multiplier, p.SentimentFactor, p.CappedChange,
		p.Confidence, p.EfficiencyZ, p.DecayApplied,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert price point: %w", err)
	}
	return nil
}

// Replace overwrites the (player_id, season, week) slot, creating it when
// absent.
func (s *PricePointStore) Replace(ctx context.Context, p *domain.PricePoint) error {
	if p == nil || p.PlayerID == "" || p.Week < 1 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO price_points (` + pricePointColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (player_id, season, week) DO UPDATE SET
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			game_date = EXCLUDED.game_date,
			price = EXCLUDED.price,
			raw_change = EXCLUDED.raw_change,
			multiplier = EXCLUDED.multiplier,
			sentiment_factor = EXCLUDED.sentiment_factor,
			capped_change = EXCLUDED.capped_change,
			confidence = EXCLUDED.confidence,
			efficiency_z = EXCLUDED.efficiency_z,
			decay_applied = EXCLUDED.decay_applied
	`

	_, err := s.pool.Exec(ctx, query,
		p.PlayerID, p.Name, string(p.Position), p.Season, p.Week, p.Date, p.Price,
		p.RawChange, p.Multiplier, p.SentimentFactor, p.CappedChange,
		p.Confidence, p.EfficiencyZ, p.DecayApplied,
	)
	if err != nil {
		return fmt.Errorf("replace price point: %w", err)
	}
	return nil
}

// Exists reports whether a committed point occupies the slot.
func (s *PricePointStore) Exists(ctx context.Context, playerID string, season, week int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM price_points
			WHERE player_id = $1 AND season = $2 AND week = $3
		)
	`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, playerID, season, week).Scan(&exists); err != nil {
		return false, fmt.Errorf("check price point exists: %w", err)
	}
	return exists, nil
}

// GetByPlayerWeek fetches one slot.
func (s *PricePointStore) GetByPlayerWeek(ctx context.Context, playerID string, season, week int) (*domain.PricePoint, error) {
	query := `
		SELECT ` + pricePointColumns + `
		FROM price_points
		WHERE player_id = $1 AND season = $2 AND week = $3
	`

	row := s.pool.QueryRow(ctx, query, playerID, season, week)
	p, err := scanPricePoint(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get price point by player/week: %w", err)
	}
	return p, nil
}

// GetLatestBefore returns the player's most recent committed point with a
// week strictly below the given week.
func (s *PricePointStore) GetLatestBefore(ctx context.Context, playerID string, season, week int) (*domain.PricePoint, error) {
	query := `
		SELECT ` + pricePointColumns + `
		FROM price_points
		WHERE player_id = $1 AND season = $2 AND week < $3
		ORDER BY week DESC
		LIMIT 1
	`

	row := s.pool.QueryRow(ctx, query, playerID, season, week)
	p, err := scanPricePoint(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest price point: %w", err)
	}
	return p, nil
}

// GetBySeason returns every committed point of a season ordered by
// (player, week).
func (s *PricePointStore) GetBySeason(ctx context.Context, season int) ([]*domain.PricePoint, error) {
	query := `
		SELECT ` + pricePointColumns + `
		FROM price_points
		WHERE season = $1
		ORDER BY player_id ASC, week ASC
	`

	rows, err := s.pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("get price points by season: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

// GetByPlayer returns one player's committed points ordered by week.
func (s *PricePointStore) GetByPlayer(ctx context.Context, playerID string, season int) ([]*domain.PricePoint, error) {
	query := `
		SELECT ` + pricePointColumns + `
		FROM price_points
		WHERE player_id = $1 AND season = $2
		ORDER BY week ASC
	`

	rows, err := s.pool.Query(ctx, query, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("get price points by player: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

func scanPricePoint(row pgx.Row) (*domain.PricePoint, error) {
	var p domain.PricePoint
	var position string
	err := row.Scan(
		&p.PlayerID, &p.Name, &position, &p.Season, &p.Week, &p.Date, &p.Price,
		&p.RawChange, &p.Multiplier, &p.SentimentFactor, &p.CappedChange,
		&p.Confidence, &p.EfficiencyZ, &p.DecayApplied,
	)
	if err != nil {
		return nil, err
	}
	p.Position = domain.Position(position)
	return &p, nil
}

func scanPricePoints(rows pgx.Rows) ([]*domain.PricePoint, error) {
	var points []*domain.PricePoint

	for rows.Next() {
		p, err := scanPricePoint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price point row: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price point rows: %w", err)
	}

	return points, nil
}
