// Package main replays a range of past weeks through the pricing engine so a
// season's price history can be rebuilt from archived stat CSVs. Week N
// prices chain off week N-1, so weeks run strictly in order.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/config"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/engine"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/ingest"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/logger"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage"
	chstore "github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage/clickhouse"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage/memory"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage/migrations"
	pgstore "github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage/postgres"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/timeline"
)

func main() {
	inputDir := flag.String("input-dir", "", "directory of weekly stat CSVs (required)")
	pattern := flag.String("pattern", "week_%d.csv", "filename pattern, %d is the week number")
	season := flag.Int("season", 0, "season (default from config)")
	startWeek := flag.Int("start-week", 1, "first week to backfill")
	endWeek := flag.Int("end-week", 0, "last week to backfill (required)")
	force := flag.Bool("force", true, "replace already committed slots")
	postgresDSN := flag.String("postgres-dsn", "", "postgres DSN (overrides env)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "clickhouse DSN (overrides env)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if *inputDir == "" || *endWeek < *startWeek || *startWeek < 1 {
		log.Fatal("-input-dir and a valid -start-week/-end-week range are required")
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

	engCfg := engine.DefaultConfig()
	engCfg.BasePrice = cfg.BasePrice
	engCfg.PriceFloor = cfg.PriceFloor
	engCfg.DecayFactor = cfg.DecayFactor
	engCfg.MomentumAlpha = cfg.MomentumAlpha
	eng := engine.New(pointStore, engine.Options{Config: &engCfg, Logger: log})
	reader := ingest.NewReader(log)

	committed, skippedWeeks := 0, 0
	for week := *startWeek; week <= *endWeek; week++ {
		path := filepath.Join(*inputDir, fmt.Sprintf(*pattern, week))
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			log.WithField("week", week).Warn("no input file, skipping week")
			skippedWeeks++
			continue
		}
		if err != nil {
			log.Fatalf("open %s: %v", path, err)
		}

		records, dropped, err := reader.ReadRecords(f, *season, week)
		f.Close()
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}

		result, err := eng.ProcessPeriod(ctx, *season, week, records, *force)
		if err != nil {
			log.Fatalf("process week %d: %v", week, err)
		}
		committed += len(result.Points)
		log.WithFields(logrus.Fields{
			"week": week, "committed": len(result.Points),
			"skipped": result.Skipped, "dropped": dropped,
		}).Info("backfilled week")
	}

	// Rebuild every timeline once, after the whole range is in.
	builder := timeline.NewBuilder(anchor)
	all, err := pointStore.GetBySeason(ctx, *season)
	if err != nil {
		log.Fatalf("load season points: %v", err)
	}
	timelines := builder.Build(all)
	for _, tl := range timelines {
		if err := timelineStore.ReplaceTimeline(ctx, tl.PlayerID, *season, tl.Points); err != nil {
			log.Fatalf("store timeline for %s: %v", tl.PlayerID, err)
		}
	}

	log.WithFields(logrus.Fields{
		"weeks":         *endWeek - *startWeek + 1,
		"weeks_skipped": skippedWeeks,
		"committed":     committed,
		"timelines":     len(timelines),
	}).Info("backfill complete")
}

// openStores wires postgres/clickhouse when DSNs are set and falls back to
// memory otherwise.
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
		log.Warn("no postgres DSN, backfill results held in memory only")
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
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return pointStore, timelineStore, closeAll, nil
}
