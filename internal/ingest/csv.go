// Package ingest reads the weekly stat table from CSV into GameRecords.
// Validation happens here, at the boundary: unknown columns are ignored,
// malformed numerics coerce to zero, and rows without a player identity are
// dropped and counted.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
)

// Reader parses weekly stat CSVs.
type Reader struct {
	log *logrus.Logger
}

// NewReader builds a Reader. A nil logger gets a default.
func NewReader(log *logrus.Logger) *Reader {
	if log == nil {
		log = logrus.New()
	}
	return &Reader{log: log}
}

// ReadRecords parses one period's table. season and week fill in rows whose
// own columns are absent or zero. Returns the surviving records plus the
// count of identity-less rows dropped.
func (rd *Reader) ReadRecords(r io.Reader, season, week int) ([]*domain.GameRecord, int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}
	cols := resolveColumns(header)

	var records []*domain.GameRecord
	dropped := 0
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, 0, fmt.Errorf("read csv line %d: %w", line, err)
		}
		rec := rowToRecord(row, cols, season, week)
		if !rec.HasIdentity() {
			dropped++
			rd.log.WithField("line", line).Warn("dropped row without player identity")
			continue
		}
		records = append(records, rec)
	}
	return records, dropped, nil
}

// resolveColumns maps canonical field names to column indices using the alias
// table. The first alias found in the header wins.
func resolveColumns(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make(map[string]int)
	for canonical, aliases := range columnAliases {
		for _, a := range aliases {
			if i, ok := index[a]; ok {
				cols[canonical] = i
				break
			}
		}
	}
	return cols
}

func rowToRecord(row []string, cols map[string]int, season, week int) *domain.GameRecord {
	get := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	rec := &domain.GameRecord{
		PlayerID: get("player_id"),
		Name:     get("player"),
		Season:   parseIntOr(get("season"), season),
		Week:     parseIntOr(get("week"), week),
		Position: get("position"),

		PassYards:     parseFloat(get("pass_yards")),
		PassTDs:       parseFloat(get("pass_tds")),
		Interceptions: parseFloat(get("interceptions")),
		PassAttempts:  parseFloat(get("pass_attempts")),
		RushYards:     parseFloat(get("rush_yards")),
		RushTDs:       parseFloat(get("rush_tds")),
		Targets:       parseFloat(get("targets")),
		Receptions:    parseFloat(get("receptions")),
		RecYards:      parseFloat(get("rec_yards")),
		RecTDs:        parseFloat(get("rec_tds")),
		EPAPerPlay:    parseFloat(get("epa_per_play")),
		CPOE:          parseFloat(get("cpoe")),
		Touches:       parseFloat(get("touches")),

		TradingVolume:  parseFloat(get("trading_volume")),
		SentimentScore: parseFloat(get("sentiment_score")),
		WeeklyChange:   parseFloat(get("weekly_change")),

		GameDate:    get("game_date"),
		IsScheduled: parseBool(get("is_gameday")),
		IsPrimetime: parseBool(get("is_primetime")),
		IsPlayoff:   parseBool(get("is_playoff")),
	}
	return rec
}

// parseFloat coerces malformed or empty numerics to zero rather than failing
// the batch. NaN and infinities are neutralized here so they can never reach
// price arithmetic.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseIntOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v == 0 {
		return fallback
	}
	return v
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "t", "yes", "y":
		return true
	}
	return false
}
