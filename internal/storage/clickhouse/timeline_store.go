package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage"
)

// TimelineStore implements storage.TimelineStore using ClickHouse. Rebuilt
// timelines are written with a fresh insert timestamp; the ReplacingMergeTree
// keeps the latest version per (player, season, date).
type TimelineStore struct {
	conn *Conn
}

// NewTimelineStore creates a new TimelineStore.
func NewTimelineStore(conn *Conn) *TimelineStore {
	return &TimelineStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TimelineStore = (*TimelineStore)(nil)

// ReplaceTimeline swaps a player's stored series for the given points.
func (s *TimelineStore) ReplaceTimeline(ctx context.Context, playerID string, season int, points []domain.TimelinePoint) error {
	if playerID == "" {
		return storage.ErrInvalidInput
	}

	deleteQuery := `
		DELETE FROM player_timelines
		WHERE player_id = ? AND season = ?
	`
	if err := s.conn.Exec(ctx, deleteQuery, playerID, int32(season)); err != nil {
		return fmt.Errorf("delete old timeline: %w", err)
	}
	if len(points) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO player_timelines (
			player_id, season, week, date, price, committed,
			raw_change, multiplier, capped_change, confidence
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		committed := uint8(0)
		if p.Committed {
			committed = 1
		}
		err = batch.Append(
			playerID, int32(season), int32(p.Week), p.Date, p.Price, committed,
			p.RawChange, p.Multiplier, p.CappedChange, p.Confidence,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetTimeline returns a player's series ordered by date.
func (s *TimelineStore) GetTimeline(ctx context.Context, playerID string, season int) ([]domain.TimelinePoint, error) {
	query := `
		SELECT player_id, season, week, date, price, committed,
		       raw_change, multiplier, capped_change, confidence
		FROM player_timelines FINAL
		WHERE player_id = ? AND season = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, playerID, int32(season))
	if err != nil {
		return nil, fmt.Errorf("query timeline: %w", err)
	}
	defer rows.Close()

	var points []domain.TimelinePoint
	for rows.Next() {
		var p domain.TimelinePoint
		var season32, week32 int32
		var committed uint8
		var date time.Time

		err := rows.Scan(
			&p.PlayerID, &season32, &week32, &date, &p.Price, &committed,
			&p.RawChange, &p.Multiplier, &p.CappedChange, &p.Confidence,
		)
		if err != nil {
			return nil, fmt.Errorf("scan timeline row: %w", err)
		}
		p.Season = int(season32)
		p.Week = int(week32)
		p.Date = date
		p.Committed = committed == 1
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline rows: %w", err)
	}
	if len(points) == 0 {
		return nil, storage.ErrNotFound
	}

	return points, nil
}

// Players lists the player ids that have a stored timeline in a season.
func (s *TimelineStore) Players(ctx context.Context, season int) ([]string, error) {
	query := `
		SELECT DISTINCT player_id
		FROM player_timelines
		WHERE season = ?
		ORDER BY player_id ASC
	`

	rows, err := s.conn.Query(ctx, query, int32(season))
	if err != nil {
		return nil, fmt.Errorf("query timeline players: %w", err)
	}
	defer rows.Close()

	var players []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan player id: %w", err)
		}
		players = append(players, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player rows: %w", err)
	}

	return players, nil
}
