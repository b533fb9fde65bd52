// Package normalize turns raw weekly stat lines into group-relative z-scores.
// Scores are computed within a position group using the population standard
// deviation; a metric with zero variance contributes a z of 0 for every
// record rather than exploding.
package normalize

import (
	"math"
	"sort"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
)

const (
	// ClipWide bounds z-scores fed into scoring blends.
	ClipWide = 6.0
	// ClipNarrow bounds z-scores fed into bounded market-activity terms.
	ClipNarrow = 3.0
)

// Derive extracts every scored metric from a record, including the derived
// ones (catch rate, totals, volume). Missing stats are already zero on the
// record, so derivation never fails.
func Derive(r *domain.GameRecord) map[domain.Metric]float64 {
	catchRate := 0.0
	if r.Targets > 0 {
		catchRate = r.Receptions / r.Targets
	}
	volume := r.Touches
	if volume == 0 {
		volume = r.Targets + r.Receptions
	}
	return map[domain.Metric]float64{
		domain.MetricPassYards:     r.PassYards,
		domain.MetricPassTDs:       r.PassTDs,
		domain.MetricInterceptions: r.Interceptions,
		domain.MetricPassAttempts:  r.PassAttempts,
		domain.MetricRushYards:     r.RushYards,
		domain.MetricRushTDs:       r.RushTDs,
		domain.MetricTargets:       r.Targets,
		domain.MetricReceptions:    r.Receptions,
		domain.MetricRecYards:      r.RecYards,
		domain.MetricRecTDs:        r.RecTDs,
		domain.MetricEPAPerPlay:    r.EPAPerPlay,
		domain.MetricCPOE:          r.CPOE,
		domain.MetricCatchRate:     catchRate,
		domain.MetricTotalYards:    r.PassYards + r.RushYards + r.RecYards,
		domain.MetricTotalTDs:      r.PassTDs + r.RushTDs + r.RecTDs,
		domain.MetricVolume:        volume,
	}
}

// GroupZScores z-scores the given metrics across records, returning one map
// per record aligned with the input order. The caller is expected to pass a
// single position group (or the whole batch, for batch-wide signals like
// trading volume). Z values are clipped to ±clip.
func GroupZScores(records []*domain.GameRecord, metrics []domain.Metric, clip float64) []map[domain.Metric]float64 {
	values := make([]map[domain.Metric]float64, len(records))
	for i, r := range records {
		values[i] = Derive(r)
	}
	out := make([]map[domain.Metric]float64, len(records))
	for i := range out {
		out[i] = make(map[domain.Metric]float64, len(metrics))
	}
	col := make([]float64, len(records))
	for _, m := range metrics {
		for i := range values {
			col[i] = values[i][m]
		}
		mean := computeMean(col)
		stddev := computeStddev(col, mean)
		for i := range col {
			out[i][m] = ZScore(col[i], mean, stddev, clip)
		}
	}
	return out
}

// BatchVolumeZ z-scores the trading-volume signal across the entire batch,
// regardless of position group.
func BatchVolumeZ(records []*domain.GameRecord, clip float64) []float64 {
	col := make([]float64, len(records))
	for i, r := range records {
		col[i] = r.TradingVolume
	}
	mean := computeMean(col)
	stddev := computeStddev(col, mean)
	out := make([]float64, len(col))
	for i := range col {
		out[i] = ZScore(col[i], mean, stddev, clip)
	}
	return out
}

// ZScore computes a single clipped z value. A zero stddev yields 0.
func ZScore(v, mean, stddev, clip float64) float64 {
	if stddev == 0 {
		return 0
	}
	z := (v - mean) / stddev
	if z > clip {
		return clip
	}
	if z < -clip {
		return -clip
	}
	return z
}

// SortRecords orders records by (player key, week) so every downstream stage
// sees the same order regardless of how the input arrived.
func SortRecords(records []*domain.GameRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Key() != records[j].Key() {
			return records[i].Key() < records[j].Key()
		}
		return records[i].Week < records[j].Week
	})
}

func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev is the population standard deviation around a precomputed
// mean.
func computeStddev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
