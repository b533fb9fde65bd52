package ingest

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietReader() *Reader {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewReader(log)
}

func TestReadRecordsAliasResolution(t *testing.T) {
	// Provider-style headers, not canonical ones.
	input := strings.Join([]string{
		"gsis_id,player_name,pos,passing_yards,passing_tds,ints,attempts,cpoe,epa,gameday,primetime",
		"00-001,Pat Q,QB,310,3,1,38,4.2,0.31,2025-09-07,true",
	}, "\n")
	records, dropped, err := quietReader().ReadRecords(strings.NewReader(input), 2025, 1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if dropped != 0 || len(records) != 1 {
		t.Fatalf("records=%d dropped=%d, want 1/0", len(records), dropped)
	}
	r := records[0]
	if r.PlayerID != "00-001" || r.Name != "Pat Q" || r.Position != "QB" {
		t.Errorf("identity fields wrong: %+v", r)
	}
	if r.PassYards != 310 || r.PassTDs != 3 || r.Interceptions != 1 || r.PassAttempts != 38 {
		t.Errorf("passing stats wrong: %+v", r)
	}
	if r.CPOE != 4.2 || r.EPAPerPlay != 0.31 {
		t.Errorf("advanced stats wrong: %+v", r)
	}
	if r.GameDate != "2025-09-07" || !r.IsPrimetime {
		t.Errorf("context fields wrong: %+v", r)
	}
	if r.Season != 2025 || r.Week != 1 {
		t.Errorf("season/week fallback wrong: %+v", r)
	}
}

func TestReadRecordsCoercesMalformedNumerics(t *testing.T) {
	input := strings.Join([]string{
		"player_id,player,targets,rec_yards,epa,sentiment_score",
		"p1,WR One,not-a-number,,NaN,0.5",
	}, "\n")
	records, _, err := quietReader().ReadRecords(strings.NewReader(input), 2025, 2)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	r := records[0]
	if r.Targets != 0 || r.RecYards != 0 || r.EPAPerPlay != 0 {
		t.Errorf("malformed numerics should coerce to 0: %+v", r)
	}
	if r.SentimentScore != 0.5 {
		t.Errorf("valid numerics should survive: %+v", r)
	}
}

func TestReadRecordsDropsIdentityless(t *testing.T) {
	input := strings.Join([]string{
		"player_id,player,targets",
		",,5",
		"p1,WR One,7",
		",,3",
	}, "\n")
	records, dropped, err := quietReader().ReadRecords(strings.NewReader(input), 2025, 1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 1 || dropped != 2 {
		t.Errorf("records=%d dropped=%d, want 1/2", len(records), dropped)
	}
}

func TestReadRecordsRowWeekWinsOverFallback(t *testing.T) {
	input := strings.Join([]string{
		"player_id,player,week,season",
		"p1,A,4,2024",
	}, "\n")
	records, _, err := quietReader().ReadRecords(strings.NewReader(input), 2025, 1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if records[0].Week != 4 || records[0].Season != 2024 {
		t.Errorf("row values should win: %+v", records[0])
	}
}

func TestReadRecordsEmptyHeaderFails(t *testing.T) {
	_, _, err := quietReader().ReadRecords(strings.NewReader(""), 2025, 1)
	if err == nil {
		t.Errorf("empty input should fail on the header read")
	}
}
