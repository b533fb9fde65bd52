package domain

// GameRecord is one row of the weekly input table: one player, one scoring
// period. Records are produced by external fetch collaborators and are
// immutable inputs to the engine. Missing numeric fields are coerced to 0 at
// the ingestion boundary; a record with no usable identity is dropped there.
type GameRecord struct {
	PlayerID string // provider player identifier
	Name     string // display name
	Season   int
	Week     int    // scoring period index, 1-based
	Position string // raw provider label, may be empty

	// Passing
	PassYards     float64
	PassTDs       float64
	Interceptions float64
	PassAttempts  float64

	// Rushing
	RushYards float64
	RushTDs   float64

	// Receiving
	Targets    float64
	Receptions float64
	RecYards   float64
	RecTDs     float64

	// Advanced
	EPAPerPlay float64 // efficiency per play
	CPOE       float64 // completion percentage over expected
	Touches    float64 // volume counter (carries + receptions), 0 when unavailable

	// Market signals (optional)
	TradingVolume  float64
	SentimentScore float64 // bounded sentiment signal, roughly [-1, 1]

	// Explicit upstream weekly change (optional). Preferred over the engine's
	// own scored delta when any record in the batch carries a non-zero value.
	WeeklyChange float64

	// Game context
	GameDate    string // provider date (ISO or provider-specific), may be empty
	IsScheduled bool   // a qualifying game was scheduled this period
	IsPrimetime bool
	IsPlayoff   bool
}

// HasIdentity reports whether the record can be attributed to a player.
func (r *GameRecord) HasIdentity() bool {
	return r.PlayerID != "" || r.Name != ""
}

// Key returns the identifier used for grouping and committed-point slots.
// Falls back to the display name when the provider id is absent.
func (r *GameRecord) Key() string {
	if r.PlayerID != "" {
		return r.PlayerID
	}
	return r.Name
}

// Metric names a numeric signal derived from a GameRecord. Z-scores are
// computed per metric within a position group.
type Metric string

const (
	MetricPassYards     Metric = "pass_yards"
	MetricPassTDs       Metric = "pass_tds"
	MetricInterceptions Metric = "interceptions"
	MetricPassAttempts  Metric = "pass_attempts"
	MetricRushYards     Metric = "rush_yards"
	MetricRushTDs       Metric = "rush_tds"
	MetricTargets       Metric = "targets"
	MetricReceptions    Metric = "receptions"
	MetricRecYards      Metric = "rec_yards"
	MetricRecTDs        Metric = "rec_tds"
	MetricEPAPerPlay    Metric = "epa_per_play"
	MetricCPOE          Metric = "cpoe"

	// Derived metrics
	MetricCatchRate  Metric = "catch_rate"  // receptions / targets, 0 when no targets
	MetricTotalYards Metric = "total_yards" // pass + rush + rec
	MetricTotalTDs   Metric = "total_tds"
	MetricVolume     Metric = "volume" // touches, or targets + receptions as fallback

	MetricTradingVolume Metric = "trading_volume" // z-scored across the whole batch
)

// ScoredMetrics lists every metric the normalizer z-scores within a position
// group. Order is fixed so exports stay deterministic.
var ScoredMetrics = []Metric{
	MetricPassYards,
	MetricPassTDs,
	MetricInterceptions,
	MetricPassAttempts,
	MetricRushYards,
	MetricRushTDs,
	MetricTargets,
	MetricReceptions,
	MetricRecYards,
	MetricRecTDs,
	MetricEPAPerPlay,
	MetricCPOE,
	MetricCatchRate,
	MetricTotalYards,
	MetricTotalTDs,
	MetricVolume,
}
