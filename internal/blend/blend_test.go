package blend

import (
	"math"
	"testing"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
)

func TestMultiplierPrecedence(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.GameRecord
		want float64
	}{
		{"rest week", domain.GameRecord{}, 1.0},
		{"scheduled", domain.GameRecord{IsScheduled: true}, 1.5},
		{"primetime", domain.GameRecord{IsScheduled: true, IsPrimetime: true}, 1.75},
		{"playoff beats primetime", domain.GameRecord{IsScheduled: true, IsPrimetime: true, IsPlayoff: true}, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Multiplier(&tt.rec); got != tt.want {
				t.Errorf("multiplier = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSentimentFactorClamp(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		s, want float64
	}{
		{0, 1.0},
		{1, 1.1},
		{-1, 0.9},
		{5, 1.2},  // clamped high
		{-9, 0.8}, // clamped low
	}
	for _, tt := range tests {
		if got := p.SentimentFactor(tt.s); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("SentimentFactor(%v) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestApplySingleRecordLegacyPath(t *testing.T) {
	p := DefaultParams()
	// Off-week single record: 0.05 * 1.0 * 1.1 = 0.055, smoothed stays close.
	d := p.Apply(Input{Perf: 0.05, Raw: 0.05, Sentiment: 1.0, BatchSize: 1}, MultiplierRest)
	if math.Abs(d.Applied-0.055) > 1e-9 {
		t.Errorf("applied = %v, want 0.055", d.Applied)
	}
	if math.Abs(d.Capped-0.055) > 0.001 {
		t.Errorf("capped = %v, want ~0.055", d.Capped)
	}
	if d.SentimentFactor != 1.1 {
		t.Errorf("sentiment factor = %v, want 1.1", d.SentimentFactor)
	}
}

func TestApplyPlayoffHardCap(t *testing.T) {
	p := DefaultParams()
	// 0.20 raw doubled by the playoff multiplier pins exactly at the cap.
	d := p.Apply(Input{Perf: 0.20, Raw: 0.20, Sentiment: 0, BatchSize: 1}, MultiplierPlayoff)
	if math.Abs(d.Applied-0.40) > 1e-9 {
		t.Errorf("applied = %v, want 0.40", d.Applied)
	}
	if d.Capped != 0.20 {
		t.Errorf("capped = %v, want exactly 0.20", d.Capped)
	}
}

func TestApplyNegativeHardCap(t *testing.T) {
	p := DefaultParams()
	d := p.Apply(Input{Perf: -0.30, Raw: -0.30, BatchSize: 1}, MultiplierRest)
	if d.Capped != -0.20 {
		t.Errorf("capped = %v, want exactly -0.20", d.Capped)
	}
}

func TestApplySmoothedWhenRawNotExtreme(t *testing.T) {
	p := DefaultParams()
	// Applied crosses the cap but the raw delta is mild, so the soft curve
	// decides and the result stays strictly below the cap.
	d := p.Apply(Input{Perf: 0.105, Raw: 0.105, BatchSize: 1}, MultiplierPlayoff)
	if d.Applied < 0.20 {
		t.Fatalf("test premise broken: applied = %v", d.Applied)
	}
	want := 0.25 * math.Tanh(d.Applied/0.25)
	if math.Abs(d.Capped-want) > 1e-9 {
		t.Errorf("capped = %v, want smoothed %v", d.Capped, want)
	}
	if d.Capped >= 0.20 {
		t.Errorf("smoothed value should stay under the cap, got %v", d.Capped)
	}
}

func TestApplyMarketBlendMultiRecord(t *testing.T) {
	p := DefaultParams()
	in := Input{Perf: 0.10, Raw: 0.10, Sentiment: 0.5, VolumeZ: 2.0, BatchSize: 8}
	d := p.Apply(in, MultiplierScheduled)
	sf := p.SentimentFactor(0.5)
	market := 0.02*2.0 + 0.01*0.5
	wantApplied := 0.70*0.10*sf + 0.30*market*1.5
	if math.Abs(d.Applied-wantApplied) > 1e-9 {
		t.Errorf("applied = %v, want %v", d.Applied, wantApplied)
	}
}

func TestApplyCapBoundAlways(t *testing.T) {
	p := DefaultParams()
	for _, perf := range []float64{-5, -1, -0.19, 0, 0.19, 1, 5} {
		for _, mult := range []float64{1.0, 1.5, 1.75, 2.0} {
			d := p.Apply(Input{Perf: perf, Raw: perf, BatchSize: 3}, mult)
			if d.Capped > 0.20 || d.Capped < -0.20 {
				t.Errorf("capped out of bounds: perf=%v mult=%v capped=%v", perf, mult, d.Capped)
			}
		}
	}
}
