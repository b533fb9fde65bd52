// Package engine runs the weekly pricing pass: validate the batch, z-score
// within position groups, score, blend, cap, decay, and commit one price
// point per (player, week) slot.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/blend"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/classify"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/normalize"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/observability"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/scoring"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage"
)

// ErrEmptyBatch is returned when a batch has no usable records left after
// validation. Callers must treat it as a hard failure, not a quiet no-op.
var ErrEmptyBatch = errors.New("engine: no valid records in batch")

// Config holds the price-update constants.
type Config struct {
	BasePrice     float64 // starting price for players with no history
	PriceFloor    float64 // prices never drop below this
	DecayFactor   float64 // applied once per off week, playoffs exempt
	MomentumAlpha float64 // weight of last week's efficiency z in the delta
}

// DefaultConfig returns the production constants.
func DefaultConfig() Config {
	return Config{
		BasePrice:     100.0,
		PriceFloor:    1.0,
		DecayFactor:   0.995,
		MomentumAlpha: 0.3,
	}
}

// Options configure an Engine. Zero-value fields fall back to defaults.
type Options struct {
	Scorer *scoring.Scorer
	Params *blend.Params
	Config *Config
	Logger *logrus.Logger
}

// Engine computes and commits weekly price points.
type Engine struct {
	store  storage.PricePointStore
	scorer *scoring.Scorer
	params blend.Params
	cfg    Config
	log    *logrus.Logger
}

// New builds an Engine over a price point store.
func New(store storage.PricePointStore, opts Options) *Engine {
	e := &Engine{
		store:  store,
		scorer: opts.Scorer,
		params: blend.DefaultParams(),
		cfg:    DefaultConfig(),
		log:    opts.Logger,
	}
	if e.scorer == nil {
		e.scorer = scoring.NewScorer(nil)
	}
	if opts.Params != nil {
		e.params = *opts.Params
	}
	if opts.Config != nil {
		e.cfg = *opts.Config
	}
	if e.log == nil {
		e.log = logrus.New()
	}
	return e
}

// Result summarizes one processed period.
type Result struct {
	Season    int
	Week      int
	Points    []*domain.PricePoint // committed this run, in processing order
	Summaries []domain.SummaryRow
	Skipped   int // slots already committed (idempotent rerun without force)
	Dropped   int // records discarded for missing identity
}

// ProcessPeriod prices one scoring period. Each surviving record produces at
// most one committed point; a slot that is already committed is skipped unless
// force is set, which recomputes and replaces it.
func (e *Engine) ProcessPeriod(ctx context.Context, season, week int, records []*domain.GameRecord, force bool) (*Result, error) {
	result := &Result{Season: season, Week: week}

	start := time.Now()
	status := "error"
	defer func() {
		observability.RecordPricingRun(status, len(result.Points), result.Skipped, result.Dropped, time.Since(start).Seconds())
	}()

	var batch []*domain.GameRecord
	for _, r := range records {
		if r == nil || !r.HasIdentity() {
			result.Dropped++
			continue
		}
		batch = append(batch, r)
	}
	if result.Dropped > 0 {
		e.log.WithFields(logrus.Fields{"season": season, "week": week, "dropped": result.Dropped}).
			Warn("dropped records without player identity")
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("season %d week %d: %w", season, week, ErrEmptyBatch)
	}

	normalize.SortRecords(batch)

	classifications := make([]domain.Classification, len(batch))
	groups := make(map[domain.Position][]int)
	for i, r := range batch {
		classifications[i] = classify.Classify(r)
		pos := classifications[i].Position
		groups[pos] = append(groups[pos], i)
	}

	// Z-scores are relative to the position group, so a 300-yard week is
	// judged against other QBs, not against kickers.
	zScores := make([]map[domain.Metric]float64, len(batch))
	for _, indices := range groups {
		group := make([]*domain.GameRecord, len(indices))
		for j, idx := range indices {
			group[j] = batch[idx]
		}
		groupZ := normalize.GroupZScores(group, domain.ScoredMetrics, normalize.ClipWide)
		for j, idx := range indices {
			zScores[idx] = groupZ[j]
		}
	}
	// The market term is a bounded activity signal, so the volume z gets the
	// narrow clip rather than the wide scoring one.
	volumeZ := normalize.BatchVolumeZ(batch, normalize.ClipNarrow)

	// An upstream weekly change wins over the scored delta, but only when the
	// batch actually carries one; a column of zeros means "absent".
	useExplicit := false
	for _, r := range batch {
		if r.WeeklyChange != 0 {
			useExplicit = true
			break
		}
	}

	for i, r := range batch {
		key := r.Key()
		cls := classifications[i]

		if !force {
			exists, err := e.store.Exists(ctx, key, season, week)
			if err != nil {
				return nil, fmt.Errorf("check slot %s s%d w%d: %w", key, season, week, err)
			}
			if exists {
				result.Skipped++
				continue
			}
		}

		raw := r.WeeklyChange
		if !useExplicit {
			raw = e.scorer.RawDelta(cls.Position, r, zScores[i])
		}

		perf := raw
		prev, err := e.store.GetByPlayerWeek(ctx, key, season, week-1)
		switch {
		case err == nil:
			perf += e.cfg.MomentumAlpha * prev.EfficiencyZ
		case errors.Is(err, storage.ErrNotFound):
			// no prior week, no momentum
		default:
			return nil, fmt.Errorf("load prior week for %s: %w", key, err)
		}

		delta := e.params.Apply(blend.Input{
			Perf:      perf,
			Raw:       raw,
			Sentiment: r.SentimentScore,
			VolumeZ:   volumeZ[i],
			BatchSize: len(batch),
		}, blend.Multiplier(r))

		// Week N always chains off the nearest committed week before it, so
		// force recomputes of an already-filled season stay deterministic.
		oldPrice := e.cfg.BasePrice
		if latest, err := e.store.GetLatestBefore(ctx, key, season, week); err == nil {
			oldPrice = latest.Price
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("load prior price for %s: %w", key, err)
		}

		price := oldPrice * (1 + delta.Capped)
		decayApplied := false
		if !r.IsScheduled && !r.IsPlayoff {
			price *= e.cfg.DecayFactor
			decayApplied = true
		}
		if price < e.cfg.PriceFloor {
			price = e.cfg.PriceFloor
		}

		point := &domain.PricePoint{
			PlayerID:        key,
			Name:            r.Name,
			Position:        cls.Position,
			Season:          season,
			Week:            week,
			Date:            parseGameDate(r.GameDate),
			Price:           price,
			RawChange:       delta.Raw,
			Multiplier:      delta.Multiplier,
			SentimentFactor: delta.SentimentFactor,
			CappedChange:    delta.Capped,
			Confidence:      e.scorer.Confidence(cls.Position, r),
			EfficiencyZ:     zScores[i][domain.MetricEPAPerPlay],
			DecayApplied:    decayApplied,
		}

		if force {
			err = e.store.Replace(ctx, point)
		} else {
			err = e.store.Insert(ctx, point)
		}
		if errors.Is(err, storage.ErrDuplicateKey) {
			result.Skipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("commit price point %s s%d w%d: %w", key, season, week, err)
		}

		result.Points = append(result.Points, point)
		result.Summaries = append(result.Summaries, domain.SummaryRow{
			PlayerID:        key,
			Name:            r.Name,
			Position:        cls.Position,
			Season:          season,
			Week:            week,
			Price:           price,
			RawChange:       delta.Raw,
			CappedChange:    delta.Capped,
			Multiplier:      delta.Multiplier,
			SentimentFactor: delta.SentimentFactor,
			Confidence:      point.Confidence,
			ZScores:         zScores[i],
		})
	}

	e.log.WithFields(logrus.Fields{
		"season":    season,
		"week":      week,
		"committed": len(result.Points),
		"skipped":   result.Skipped,
		"dropped":   result.Dropped,
	}).Info("processed pricing period")

	status = "ok"
	return result, nil
}

// parseGameDate accepts the date formats providers actually send. Anything
// else comes back as the zero time and gets synthesized from the week index
// when the timeline is built.
func parseGameDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
