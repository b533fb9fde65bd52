// Package main serves stored player timelines over HTTP and pushes newly
// committed price points to websocket subscribers. New points are picked up
// by polling the price point store, so the pricer and backfill binaries can
// run independently.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/broadcast"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/config"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/logger"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/observability"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/reporting"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage/migrations"
	pgstore "github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/storage/postgres"
	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/timeline"
)

func main() {
	addr := flag.String("addr", "", "listen address (overrides env)")
	season := flag.Int("season", 0, "season (default from config)")
	pollInterval := flag.Duration("poll-interval", 15*time.Second, "how often to poll for newly committed points")
	postgresDSN := flag.String("postgres-dsn", "", "postgres DSN (overrides env, required)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if *addr == "" {
		*addr = cfg.ServerAddr
	}
	if *season == 0 {
		*season = cfg.Season
	}
	if *postgresDSN == "" {
		*postgresDSN = cfg.PostgresDSN
	}
	if *postgresDSN == "" {
		log.Fatal("a postgres DSN is required")
	}
	anchor, err := cfg.Anchor()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		log.Fatalf("postgres migrations: %v", err)
	}
	store := pgstore.NewPricePointStore(pool)

	hub := broadcast.NewHub(log)
	go hub.Run()
	defer hub.Stop()

	srv := &server{
		store:   store,
		builder: timeline.NewBuilder(anchor),
		season:  *season,
		log:     log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /api/players", srv.handlePlayers)
	mux.HandleFunc("GET /api/timeline/", srv.handleTimeline)
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.Handle("GET /metrics", observability.Handler())

	go watchForCommits(ctx, log, store, hub, *season, *pollInterval)

	httpSrv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", *addr).Info("serving player timelines")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
}

type server struct {
	store   storage.PricePointStore
	builder *timeline.Builder
	season  int
	log     *logrus.Logger
}

// handlePlayers lists player ids with committed points this season.
func (s *server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	points, err := s.store.GetBySeason(r.Context(), s.season)
	if err != nil {
		s.log.WithError(err).Error("load season points")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var players []string
	seen := make(map[string]bool)
	for _, p := range points {
		if !seen[p.PlayerID] {
			seen[p.PlayerID] = true
			players = append(players, p.PlayerID)
		}
	}
	writeJSON(w, players)
}

// handleTimeline serves one player's dense timeline, built on the fly from
// committed points.
func (s *server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	playerID := strings.TrimPrefix(r.URL.Path, "/api/timeline/")
	if playerID == "" {
		http.Error(w, "player id required", http.StatusBadRequest)
		return
	}
	points, err := s.store.GetByPlayer(r.Context(), playerID, s.season)
	if err != nil {
		s.log.WithError(err).Error("load player points")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if len(points) == 0 {
		http.Error(w, "unknown player", http.StatusNotFound)
		return
	}
	tl := s.builder.BuildPlayer(points)
	payload, err := reporting.TimelinesJSON([]domain.PriceTimeline{tl})
	if err != nil {
		s.log.WithError(err).Error("render timeline")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// watchForCommits polls the store and pushes slots it has not seen yet to the
// hub.
func watchForCommits(ctx context.Context, log *logrus.Logger, store storage.PricePointStore, hub *broadcast.Hub, season int, interval time.Duration) {
	type slot struct {
		playerID string
		week     int
	}
	seen := make(map[slot]bool)
	first := true

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		pollStart := time.Now()
		points, err := store.GetBySeason(ctx, season)
		observability.RecordPoll(time.Since(pollStart).Seconds(), err)
		if err != nil {
			log.WithError(err).Warn("poll for committed points")
		} else {
			var fresh []*domain.PricePoint
			for _, p := range points {
				k := slot{p.PlayerID, p.Week}
				if !seen[k] {
					seen[k] = true
					fresh = append(fresh, p)
				}
			}
			// The first poll only primes the seen set; history is served over
			// the HTTP API, not replayed to subscribers.
			if !first && len(fresh) > 0 {
				hub.Publish(fresh)
				log.WithField("points", len(fresh)).Info("broadcast new price points")
			}
			first = false
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
