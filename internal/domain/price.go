package domain

import "time"

// WeeklyDelta carries one record's scalar change through the blending stages.
// Raw is the pure performance delta (including momentum), Applied is the value
// after multiplier/sentiment/market blending but before smoothing, Capped is
// the final bounded change the price update consumes.
type WeeklyDelta struct {
	Raw             float64
	Applied         float64
	Capped          float64
	Multiplier      float64
	SentimentFactor float64
}

// PricePoint is one committed price observation for a (player, season, week)
// slot. At most one committed point exists per slot; recomputing the same
// period is a no-op unless force mode replaces it.
type PricePoint struct {
	PlayerID string
	Name     string
	Position Position
	Season   int
	Week     int
	Date     time.Time // game date, synthesized from the week index when absent

	Price float64

	// Diagnostics carried alongside the price for reporting.
	RawChange       float64
	Multiplier      float64
	SentimentFactor float64
	CappedChange    float64
	Confidence      float64
	EfficiencyZ     float64 // group z of efficiency this week, momentum input for the next
	DecayApplied    bool
}

// TimelinePoint is one daily point of a player's dense price series. Committed
// points mirror a PricePoint; synthetic points exist only to fill calendar
// gaps and carry no diagnostics.
type TimelinePoint struct {
	PlayerID string
	Season   int
	Week     int // 0 on synthetic points
	Date     time.Time
	Price    float64

	Committed bool // false for interpolated points

	RawChange    float64
	Multiplier   float64
	CappedChange float64
	Confidence   float64
}

// PriceTimeline is the ordered daily series for one player.
type PriceTimeline struct {
	PlayerID string
	Name     string
	Position Position
	Points   []TimelinePoint
}

// SummaryRow is one player's line in the per-period summary export.
type SummaryRow struct {
	PlayerID        string
	Name            string
	Position        Position
	Season          int
	Week            int
	Price           float64
	RawChange       float64
	CappedChange    float64
	Multiplier      float64
	SentimentFactor float64
	Confidence      float64
	ZScores         map[Metric]float64
}
