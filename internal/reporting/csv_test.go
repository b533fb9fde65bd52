package reporting

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
)

func TestRenderSummaryCSV(t *testing.T) {
	rows := []domain.SummaryRow{{
		PlayerID: "p1", Name: "Smith, John", Position: domain.PositionQB,
		Season: 2025, Week: 1,
		Price: 104.5, RawChange: 0.05, CappedChange: 0.045,
		Multiplier: 1.5, SentimentFactor: 1.1, Confidence: 0.9,
		ZScores: map[domain.Metric]float64{domain.MetricPassYards: 1.25},
	}}
	out := RenderSummaryCSV(rows)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "player_id,player,position,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[0], "z_pass_yards") {
		t.Errorf("header missing z columns: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"Smith, John"`) {
		t.Errorf("comma in name should be quoted: %s", lines[1])
	}
	if !strings.Contains(lines[1], "1.25") {
		t.Errorf("z value missing: %s", lines[1])
	}
}

func TestRenderHistoryCSVSyntheticRows(t *testing.T) {
	day := time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC)
	timelines := []domain.PriceTimeline{{
		PlayerID: "p1", Name: "A", Position: domain.PositionWR,
		Points: []domain.TimelinePoint{
			{Season: 2025, Week: 1, Date: day, Price: 100, Committed: true, Multiplier: 1.5, Confidence: 0.8},
			{Season: 2025, Date: day.AddDate(0, 0, 1), Price: 105},
		},
	}}
	out := RenderHistoryCSV(timelines)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(lines))
	}
	if !strings.Contains(lines[1], ",true,") {
		t.Errorf("committed row: %s", lines[1])
	}
	// Synthetic rows leave week and diagnostics empty.
	if !strings.HasSuffix(lines[2], ",false,,,,") {
		t.Errorf("synthetic row should have empty diagnostics: %s", lines[2])
	}
}

func TestTimelinesJSONShape(t *testing.T) {
	day := time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC)
	timelines := []domain.PriceTimeline{{
		PlayerID: "p1", Name: "A", Position: domain.PositionRB,
		Points: []domain.TimelinePoint{
			{Season: 2025, Week: 1, Date: day, Price: 100, Committed: true},
		},
	}}
	raw, err := TimelinesJSON(timelines)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]struct {
		Name   string `json:"name"`
		Points []struct {
			Date      string  `json:"date"`
			Price     float64 `json:"price"`
			Committed bool    `json:"committed"`
		} `json:"points"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	entry, ok := decoded["p1"]
	if !ok {
		t.Fatalf("missing player key, got %s", raw)
	}
	if entry.Name != "A" || len(entry.Points) != 1 {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Points[0].Date != "2025-09-05" || entry.Points[0].Price != 100 || !entry.Points[0].Committed {
		t.Errorf("unexpected point: %+v", entry.Points[0])
	}
}
