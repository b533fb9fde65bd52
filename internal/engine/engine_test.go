package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/blend"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage/memory"
)

func newTestEngine(store *memory.PricePointStore) *Engine {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(store, Options{Logger: log})
}

func TestProcessPeriodPlayoffCapAndPrice(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPricePointStore()
	e := newTestEngine(store)

	records := []*domain.GameRecord{{
		PlayerID:     "qb1",
		Name:         "QB One",
		Position:     "QB",
		WeeklyChange: 0.20,
		IsScheduled:  true,
		IsPlayoff:    true,
	}}
	res, err := e.ProcessPeriod(ctx, 2025, 1, records, false)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(res.Points) != 1 {
		t.Fatalf("expected 1 committed point, got %d", len(res.Points))
	}
	p := res.Points[0]
	if p.Multiplier != 2.0 {
		t.Errorf("multiplier = %v, want 2.0", p.Multiplier)
	}
	if p.CappedChange != 0.20 {
		t.Errorf("capped change = %v, want exactly 0.20", p.CappedChange)
	}
	if math.Abs(p.Price-120.0) > 1e-9 {
		t.Errorf("price = %v, want 120.00", p.Price)
	}
	if p.DecayApplied {
		t.Errorf("playoff week must not decay")
	}
}

func TestProcessPeriodOffWeekDecay(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPricePointStore()
	e := newTestEngine(store)

	records := []*domain.GameRecord{{
		PlayerID:       "wr1",
		Name:           "WR One",
		Position:       "WR",
		WeeklyChange:   0.05,
		SentimentScore: 1.0,
		// no scheduled game this period
	}}
	res, err := e.ProcessPeriod(ctx, 2025, 1, records, false)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	p := res.Points[0]
	if p.Multiplier != 1.0 {
		t.Errorf("off-week multiplier = %v, want 1.0", p.Multiplier)
	}
	if p.SentimentFactor != 1.1 {
		t.Errorf("sentiment factor = %v, want 1.1", p.SentimentFactor)
	}
	if !p.DecayApplied {
		t.Errorf("off week should decay")
	}
	want := 100.0 * (1 + p.CappedChange) * 0.995
	if math.Abs(p.Price-want) > 1e-9 {
		t.Errorf("price = %v, want %v", p.Price, want)
	}
	// 0.05 * 1.0 * 1.1 smoothed lands near 0.055.
	if math.Abs(p.CappedChange-0.055) > 0.001 {
		t.Errorf("capped change = %v, want ~0.055", p.CappedChange)
	}
}

func TestProcessPeriodIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPricePointStore()
	e := newTestEngine(store)

	records := []*domain.GameRecord{{
		PlayerID: "rb1", Name: "RB One", Position: "RB",
		WeeklyChange: 0.10, IsScheduled: true,
	}}
	first, err := e.ProcessPeriod(ctx, 2025, 3, records, false)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := e.ProcessPeriod(ctx, 2025, 3, records, false)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second.Points) != 0 || second.Skipped != 1 {
		t.Errorf("rerun should skip, got %d points %d skipped", len(second.Points), second.Skipped)
	}
	stored, err := store.GetByPlayerWeek(ctx, "rb1", 2025, 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Price != first.Points[0].Price {
		t.Errorf("rerun must not change the stored price")
	}
}

func TestProcessPeriodForceReplaces(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPricePointStore()
	e := newTestEngine(store)

	records := []*domain.GameRecord{{
		PlayerID: "rb1", Name: "RB One", Position: "RB",
		WeeklyChange: 0.10, IsScheduled: true,
	}}
	if _, err := e.ProcessPeriod(ctx, 2025, 3, records, false); err != nil {
		t.Fatalf("first run: %v", err)
	}
	records[0].WeeklyChange = -0.10
	res, err := e.ProcessPeriod(ctx, 2025, 3, records, true)
	if err != nil {
		t.Fatalf("force run: %v", err)
	}
	if len(res.Points) != 1 {
		t.Fatalf("force run should recommit, got %d points", len(res.Points))
	}
	if res.Points[0].CappedChange >= 0 {
		t.Errorf("replaced point should reflect the new input, capped = %v", res.Points[0].CappedChange)
	}
}

func TestProcessPeriodEmptyBatch(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(memory.NewPricePointStore())

	if _, err := e.ProcessPeriod(ctx, 2025, 1, nil, false); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("nil batch: expected ErrEmptyBatch, got %v", err)
	}
	// Identity-less rows are dropped first, which can empty the batch too.
	records := []*domain.GameRecord{{WeeklyChange: 0.5}, nil}
	if _, err := e.ProcessPeriod(ctx, 2025, 1, records, false); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("identity-less batch: expected ErrEmptyBatch, got %v", err)
	}
}

func TestProcessPeriodMomentumCarriesForward(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPricePointStore()
	e := newTestEngine(store)

	// Week 1: two QBs with different efficiency so the group z is nonzero.
	week1 := []*domain.GameRecord{
		{PlayerID: "hot", Name: "Hot QB", Position: "QB", PassAttempts: 30, EPAPerPlay: 0.4, IsScheduled: true},
		{PlayerID: "cold", Name: "Cold QB", Position: "QB", PassAttempts: 30, EPAPerPlay: 0.0, IsScheduled: true},
	}
	res1, err := e.ProcessPeriod(ctx, 2025, 1, week1, false)
	if err != nil {
		t.Fatalf("week 1: %v", err)
	}
	var hotZ float64
	for _, p := range res1.Points {
		if p.PlayerID == "hot" {
			hotZ = p.EfficiencyZ
		}
	}
	if hotZ <= 0 {
		t.Fatalf("hot QB should carry a positive efficiency z, got %v", hotZ)
	}

	// Week 2: a statless week for the hot QB. Without momentum the delta
	// would be zero; last week's efficiency z pulls it positive.
	week2 := []*domain.GameRecord{
		{PlayerID: "hot", Name: "Hot QB", Position: "QB", IsScheduled: true},
	}
	res2, err := e.ProcessPeriod(ctx, 2025, 2, week2, false)
	if err != nil {
		t.Fatalf("week 2: %v", err)
	}
	if res2.Points[0].CappedChange <= 0 {
		t.Errorf("momentum should lift the week-2 change above zero, got %v", res2.Points[0].CappedChange)
	}
}

func TestProcessPeriodExplicitChangeWins(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPricePointStore()
	e := newTestEngine(store)

	// One record carries an explicit change, so the whole batch uses the
	// explicit column, including the zero for the second player.
	records := []*domain.GameRecord{
		{PlayerID: "a", Name: "A", Position: "WR", Targets: 10, RecYards: 150, WeeklyChange: 0.08, IsScheduled: true},
		{PlayerID: "b", Name: "B", Position: "WR", Targets: 10, RecYards: 20, IsScheduled: true},
	}
	res, err := e.ProcessPeriod(ctx, 2025, 1, records, false)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	for _, p := range res.Points {
		switch p.PlayerID {
		case "a":
			if p.RawChange != 0.08 {
				t.Errorf("player a raw = %v, want explicit 0.08", p.RawChange)
			}
		case "b":
			if p.RawChange != 0 {
				t.Errorf("player b raw = %v, want 0", p.RawChange)
			}
		}
	}
}

func TestProcessPeriodChainsPreviousPrice(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPricePointStore()
	e := newTestEngine(store)

	week1 := []*domain.GameRecord{{PlayerID: "p", Name: "P", Position: "RB", WeeklyChange: 0.20, IsScheduled: true, IsPlayoff: true}}
	if _, err := e.ProcessPeriod(ctx, 2025, 1, week1, false); err != nil {
		t.Fatalf("week 1: %v", err)
	}
	week2 := []*domain.GameRecord{{PlayerID: "p", Name: "P", Position: "RB", WeeklyChange: 0.20, IsScheduled: true, IsPlayoff: true}}
	res, err := e.ProcessPeriod(ctx, 2025, 2, week2, false)
	if err != nil {
		t.Fatalf("week 2: %v", err)
	}
	if math.Abs(res.Points[0].Price-144.0) > 1e-9 {
		t.Errorf("week 2 price = %v, want 144.00 (chained from 120)", res.Points[0].Price)
	}
}

func TestProcessPeriodForceRerunIsIdentical(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPricePointStore()
	e := newTestEngine(store)

	// A forced recompute of an already-filled season must chain each week off
	// the week before it, not off whatever was committed last, so running the
	// same backfill twice yields the same prices.
	changes := []float64{0.12, 0.13, 0.13}
	run := func() []float64 {
		prices := make([]float64, len(changes))
		for i, c := range changes {
			records := []*domain.GameRecord{{
				PlayerID: "qb1", Name: "QB One", Position: "QB",
				WeeklyChange: c, IsScheduled: true,
			}}
			res, err := e.ProcessPeriod(ctx, 2025, i+1, records, true)
			if err != nil {
				t.Fatalf("week %d: %v", i+1, err)
			}
			if len(res.Points) != 1 {
				t.Fatalf("week %d: expected 1 committed point, got %d", i+1, len(res.Points))
			}
			prices[i] = res.Points[0].Price
		}
		return prices
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("week %d: rerun price %v differs from first pass %v", i+1, second[i], first[i])
		}
	}
	if !(first[0] < first[1] && first[1] < first[2]) {
		t.Errorf("prices should still chain week over week, got %v", first)
	}
}

func TestProcessPeriodVolumeZNarrowClip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPricePointStore()
	e := newTestEngine(store)

	// Ten quiet names plus one trading-volume outlier: the outlier's raw z is
	// sqrt(10), about 3.16, which must clip to 3 before the market term.
	var records []*domain.GameRecord
	for i := 0; i < 10; i++ {
		records = append(records, &domain.GameRecord{
			PlayerID: fmt.Sprintf("quiet%02d", i), Name: "Quiet", IsScheduled: true,
		})
	}
	records = append(records, &domain.GameRecord{
		PlayerID: "mover", Name: "Mover", TradingVolume: 50000, IsScheduled: true,
	})

	res, err := e.ProcessPeriod(ctx, 2025, 1, records, false)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	var got float64
	for _, p := range res.Points {
		if p.PlayerID == "mover" {
			got = p.CappedChange
		}
	}
	params := blend.DefaultParams()
	applied := params.MarketShare * params.VolumeWeight * 3.0 * blend.MultiplierScheduled
	want := params.SmoothingScale * math.Tanh(applied/params.SmoothingScale)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("outlier capped change = %v, want %v from a volume z of exactly 3", got, want)
	}
}

func TestProcessPeriodPriceFloor(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPricePointStore()
	cfg := DefaultConfig()
	cfg.BasePrice = 1.1
	log := logrus.New()
	log.SetOutput(io.Discard)
	e := New(store, Options{Config: &cfg, Logger: log})

	records := []*domain.GameRecord{{PlayerID: "p", Name: "P", Position: "RB", WeeklyChange: -0.9, IsScheduled: true}}
	res, err := e.ProcessPeriod(ctx, 2025, 1, records, false)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Points[0].Price != 1.0 {
		t.Errorf("price = %v, want floor 1.0", res.Points[0].Price)
	}
}
