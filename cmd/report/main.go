// Package main renders the summary/history exports from previously committed
// price points, without recomputing anything.
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
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/logger"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/reporting"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage/migrations"
	pgstore "github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage/postgres"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/timeline"
)

func main() {
	season := flag.Int("season", 0, "season (default from config)")
	outputDir := flag.String("output-dir", "out", "directory for exports")
	postgresDSN := flag.String("postgres-dsn", "", "postgres DSN (overrides env, required)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if *season == 0 {
		*season = cfg.Season
	}
	if *postgresDSN == "" {
		*postgresDSN = cfg.PostgresDSN
	}
	if *postgresDSN == "" {
		log.Fatal("a postgres DSN is required to report on stored points")
	}
	anchor, err := cfg.Anchor()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		log.Fatalf("postgres migrations: %v", err)
	}
	store := pgstore.NewPricePointStore(pool)

	points, err := store.GetBySeason(ctx, *season)
	if err != nil {
		log.Fatalf("load season points: %v", err)
	}
	if len(points) == 0 {
		log.Fatalf("no committed points for season %d", *season)
	}

	timelines := timeline.NewBuilder(anchor).Build(points)
	summaries := latestSummaries(points)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(*outputDir, name), []byte(content), 0o644); err != nil {
			log.Fatalf("write %s: %v", name, err)
		}
	}
	write(fmt.Sprintf("summary_s%d.csv", *season), reporting.RenderSummaryCSV(summaries))
	write(fmt.Sprintf("history_s%d.csv", *season), reporting.RenderHistoryCSV(timelines))

	jsonBytes, err := reporting.TimelinesJSON(timelines)
	if err != nil {
		log.Fatalf("render timelines json: %v", err)
	}
	write(fmt.Sprintf("price_history_s%d.json", *season), string(jsonBytes))

	log.WithFields(logrus.Fields{
		"season":    *season,
		"points":    len(points),
		"timelines": len(timelines),
		"output":    *outputDir,
	}).Info("report complete")
}

// latestSummaries reduces committed points to one row per player, keeping the
// most recent week. Z-scores are a per-run artifact and are not stored, so
// the columns render as zeros here.
func latestSummaries(points []*domain.PricePoint) []domain.SummaryRow {
	latest := make(map[string]*domain.PricePoint)
	var order []string
	for _, p := range points {
		cur, ok := latest[p.PlayerID]
		if !ok {
			order = append(order, p.PlayerID)
		}
		if !ok || p.Week > cur.Week {
			latest[p.PlayerID] = p
		}
	}

	rows := make([]domain.SummaryRow, 0, len(order))
	for _, id := range order {
		p := latest[id]
		rows = append(rows, domain.SummaryRow{
			PlayerID:        p.PlayerID,
			Name:            p.Name,
			Position:        p.Position,
			Season:          p.Season,
			Week:            p.Week,
			Price:           p.Price,
			RawChange:       p.RawChange,
			CappedChange:    p.CappedChange,
			Multiplier:      p.Multiplier,
			SentimentFactor: p.SentimentFactor,
			Confidence:      p.Confidence,
		})
	}
	return rows
}
