// Package main prices one scoring period: it reads the weekly stat CSV,
// computes and commits price points, rebuilds the affected timelines, and
// writes the summary/history exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/config"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/engine"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/ingest"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/logger"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/reporting"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage"
	chstore "github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage/clickhouse"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage/memory"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage/migrations"
	pgstore "github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage/postgres"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/timeline"
)

func main() {
	input := flag.String("input", "", "weekly stats CSV (required)")
	season := flag.Int("season", 0, "season (default from config)")
	week := flag.Int("week", 0, "week to price (required)")
	force := flag.Bool("force", false, "recompute and replace already committed slots")
	outputDir := flag.String("output-dir", "out", "directory for summary/history exports")
	postgresDSN := flag.String("postgres-dsn", "", "postgres DSN (overrides env; empty with no env uses memory)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "clickhouse DSN (overrides env; empty with no env uses memory)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if *input == "" || *week < 1 {
		log.Fatal("-input and -week are required")
	}
	if *season == 0 {
		*season = cfg.Season
	}
	if *postgresDSN == "" {
		*postgresDSN = cfg.PostgresDSN
	}
	if *clickhouseDSN == "" {
		*clickhouseDSN = cfg.ClickhouseDSN
	}
	anchor, err := cfg.Anchor()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	pointStore, timelineStore, closeStores, err := openStores(ctx, log, *postgresDSN, *clickhouseDSN)
	if err != nil {
		log.Fatalf("open stores: %v", err)
	}
	defer closeStores()

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("open input: %v", err)
	}
	defer f.Close()

	records, dropped, err := ingest.NewReader(log).ReadRecords(f, *season, *week)
	if err != nil {
		log.Fatalf("read records: %v", err)
	}
	log.WithFields(logrus.Fields{"records": len(records), "dropped": dropped}).Info("loaded weekly stats")

	engCfg := engine.DefaultConfig()
	engCfg.BasePrice = cfg.BasePrice
	engCfg.PriceFloor = cfg.PriceFloor
	engCfg.DecayFactor = cfg.DecayFactor
	engCfg.MomentumAlpha = cfg.MomentumAlpha
	eng := engine.New(pointStore, engine.Options{Config: &engCfg, Logger: log})

	result, err := eng.ProcessPeriod(ctx, *season, *week, records, *force)
	if err != nil {
		log.Fatalf("process period: %v", err)
	}

	builder := timeline.NewBuilder(anchor)
	timelines, err := rebuildTimelines(ctx, pointStore, timelineStore, builder, result.Points, *season)
	if err != nil {
		log.Fatalf("rebuild timelines: %v", err)
	}

	if err := writeExports(*outputDir, *season, *week, result.Summaries, timelines); err != nil {
		log.Fatalf("write exports: %v", err)
	}

	log.WithFields(logrus.Fields{
		"committed": len(result.Points),
		"skipped":   result.Skipped,
		"timelines": len(timelines),
		"output":    *outputDir,
	}).Info("pricing run complete")
}

// openStores wires postgres/clickhouse when DSNs are set and falls back to
// memory otherwise. Migrations run on every start; they are idempotent.
func openStores(ctx context.Context, log *logrus.Logger, postgresDSN, clickhouseDSN string) (storage.PricePointStore, storage.TimelineStore, func(), error) {
	var pointStore storage.PricePointStore = memory.NewPricePointStore()
	var timelineStore storage.TimelineStore = memory.NewTimelineStore()
	closers := []func(){}

	if postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
		pointStore = pgstore.NewPricePointStore(pool)
		closers = append(closers, pool.Close)
	} else {
		log.Warn("no postgres DSN, price points held in memory only")
	}

	if clickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, clickhouseDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("clickhouse: %w", err)
		}
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		timelineStore = chstore.NewTimelineStore(conn)
		closers = append(closers, func() { conn.Close() })
	} else {
		log.Warn("no clickhouse DSN, timelines held in memory only")
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return pointStore, timelineStore, closeAll, nil
}

// rebuildTimelines regenerates the dense series for every player touched this
// run and persists them.
func rebuildTimelines(ctx context.Context, points storage.PricePointStore, timelines storage.TimelineStore, builder *timeline.Builder, committed []*domain.PricePoint, season int) ([]domain.PriceTimeline, error) {
	players := make(map[string]bool)
	for _, p := range committed {
		players[p.PlayerID] = true
	}

	var out []domain.PriceTimeline
	for id := range players {
		history, err := points.GetByPlayer(ctx, id, season)
		if err != nil {
			return nil, fmt.Errorf("load history for %s: %w", id, err)
		}
		tl := builder.BuildPlayer(history)
		if err := timelines.ReplaceTimeline(ctx, id, season, tl.Points); err != nil {
			return nil, fmt.Errorf("store timeline for %s: %w", id, err)
		}
		out = append(out, tl)
	}
	return out, nil
}

func writeExports(dir string, season, week int, summaries []domain.SummaryRow, timelines []domain.PriceTimeline) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	summaryPath := filepath.Join(dir, fmt.Sprintf("summary_s%d_w%d.csv", season, week))
	if err := os.WriteFile(summaryPath, []byte(reporting.RenderSummaryCSV(summaries)), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	historyPath := filepath.Join(dir, fmt.Sprintf("history_s%d.csv", season))
	if err := os.WriteFile(historyPath, []byte(reporting.RenderHistoryCSV(timelines)), 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}

	jsonBytes, err := reporting.TimelinesJSON(timelines)
	if err != nil {
		return fmt.Errorf("render timelines json: %w", err)
	}
	jsonPath := filepath.Join(dir, fmt.Sprintf("price_history_s%d.json", season))
	if err := os.WriteFile(jsonPath, jsonBytes, 0o644); err != nil {
		return fmt.Errorf("write timelines json: %w", err)
	}

	return nil
}
