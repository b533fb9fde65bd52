// Package scoring converts group z-scores into a raw performance delta using
// per-position linear blends. The weight table is injected so blends can be
// tuned without touching the scoring logic.
package scoring

import (
	"math"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/normalize"
)

// confidenceDenominator scales the primary volume stat into [0, 1]; 20
// qualifying touches saturate confidence at 1.
const confidenceDenominator = 20.0

// Scorer evaluates records against a weight table.
type Scorer struct {
	weights domain.WeightTable
}

// NewScorer builds a Scorer. A nil table gets the defaults.
func NewScorer(weights domain.WeightTable) *Scorer {
	if weights == nil {
		weights = domain.DefaultWeightTable()
	}
	return &Scorer{weights: weights}
}

// RawDelta computes the pure performance delta for a record from its group
// z-scores. Players below their bucket's volume guard score 0 so a two-snap
// cameo cannot move a price.
func (s *Scorer) RawDelta(pos domain.Position, r *domain.GameRecord, z map[domain.Metric]float64) float64 {
	bucket := s.weights.Bucket(pos)
	if bucket.MinPrimaryVolume > 0 {
		raw := normalize.Derive(r)
		if raw[bucket.PrimaryVolume] < bucket.MinPrimaryVolume {
			return 0
		}
	}
	delta := 0.0
	for metric, w := range bucket.Terms {
		delta += w * z[metric]
	}
	return delta
}

// Confidence grades how much signal backs the delta: min(1, sqrt(volume/20))
// over the bucket's primary volume stat.
func (s *Scorer) Confidence(pos domain.Position, r *domain.GameRecord) float64 {
	bucket := s.weights.Bucket(pos)
	v := normalize.Derive(r)[bucket.PrimaryVolume]
	if v <= 0 {
		return 0
	}
	c := math.Sqrt(v / confidenceDenominator)
	if c > 1 {
		return 1
	}
	return c
}
