// Package blend turns a raw performance delta into the bounded weekly change
// applied to a price: game-context volatility multiplier, sentiment factor,
// market-activity term, scaled-tanh smoothing, and the two-tier hard cap.
package blend

import (
	"math"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
)

// Volatility multipliers by game context. Only the highest applicable tier
// applies.
const (
	MultiplierPlayoff   = 2.0
	MultiplierPrimetime = 1.75
	MultiplierScheduled = 1.5
	MultiplierRest      = 1.0
)

// Params are the blending constants. Defaults reproduce the production
// behavior; they are injectable so experiments can retune without code edits.
type Params struct {
	PerformanceShare float64 // weight of the performance leg in the combined blend
	MarketShare      float64 // weight of the market leg
	VolumeWeight     float64 // trading-volume z coefficient inside the market term
	SentimentWeight  float64 // sentiment coefficient inside the market term

	SentimentSlope float64 // sentiment factor slope: 1 + slope*s
	SentimentMin   float64
	SentimentMax   float64

	SmoothingScale float64 // tanh scale, also the asymptotic smoothing band
	Cap            float64 // final bound on the capped change
	RawExtreme     float64 // raw-delta magnitude required for the hard override

	// LegacySingleRecord keeps the historical single-record path: a batch of
	// one skips the market leg and applies perf * multiplier * sentiment.
	LegacySingleRecord bool
}

// DefaultParams returns the production constants.
func DefaultParams() Params {
	return Params{
		PerformanceShare:   0.70,
		MarketShare:        0.30,
		VolumeWeight:       0.02,
		SentimentWeight:    0.01,
		SentimentSlope:     0.1,
		SentimentMin:       0.8,
		SentimentMax:       1.2,
		SmoothingScale:     0.25,
		Cap:                0.20,
		RawExtreme:         0.15,
		LegacySingleRecord: true,
	}
}

// Input is everything the blender needs for one record.
type Input struct {
	Perf      float64 // performance delta including momentum
	Raw       float64 // pure scored delta, checked by the hard override
	Sentiment float64 // bounded sentiment signal
	VolumeZ   float64 // batch-wide trading-volume z
	BatchSize int
}

// Multiplier picks the volatility tier for a record's game context. Tiers do
// not stack; a primetime playoff game is still 2.0.
func Multiplier(r *domain.GameRecord) float64 {
	switch {
	case r.IsPlayoff:
		return MultiplierPlayoff
	case r.IsPrimetime:
		return MultiplierPrimetime
	case r.IsScheduled:
		return MultiplierScheduled
	default:
		return MultiplierRest
	}
}

// SentimentFactor maps a sentiment signal onto a bounded price factor.
func (p Params) SentimentFactor(s float64) float64 {
	f := 1 + p.SentimentSlope*s
	if f < p.SentimentMin {
		return p.SentimentMin
	}
	if f > p.SentimentMax {
		return p.SentimentMax
	}
	return f
}

// Apply blends, smooths, and caps one record's delta. The returned Capped
// value is always within ±p.Cap.
func (p Params) Apply(in Input, multiplier float64) domain.WeeklyDelta {
	sf := p.SentimentFactor(in.Sentiment)

	var applied float64
	if p.LegacySingleRecord && in.BatchSize == 1 {
		applied = in.Perf * multiplier * sf
	} else {
		market := p.VolumeWeight*in.VolumeZ + p.SentimentWeight*in.Sentiment
		applied = p.PerformanceShare*in.Perf*sf + p.MarketShare*market*multiplier
	}

	capped := p.SmoothingScale * math.Tanh(applied/p.SmoothingScale)
	// A genuinely extreme week pins to the cap instead of the softened value.
	if math.Abs(applied) >= p.Cap && math.Abs(in.Raw) >= p.RawExtreme {
		capped = math.Copysign(p.Cap, applied)
	}
	if capped > p.Cap {
		capped = p.Cap
	} else if capped < -p.Cap {
		capped = -p.Cap
	}

	return domain.WeeklyDelta{
		Raw:             in.Raw,
		Applied:         applied,
		Capped:          capped,
		Multiplier:      multiplier,
		SentimentFactor: sf,
	}
}
