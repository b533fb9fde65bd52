package reporting

import (
	"encoding/json"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
)

// timelineJSON is the nested per-player shape the front-end chart consumes.
type timelineJSON struct {
	Name     string          `json:"name"`
	Position domain.Position `json:"position"`
	Points   []pointJSON     `json:"points"`
}

type pointJSON struct {
	Date      string  `json:"date"`
	Price     float64 `json:"price"`
	Week      int     `json:"week,omitempty"`
	Committed bool    `json:"committed"`

	RawChange    float64 `json:"rawChange,omitempty"`
	Multiplier   float64 `json:"multiplier,omitempty"`
	CappedChange float64 `json:"cappedChange,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
}

// TimelinesJSON marshals timelines keyed by player id.
func TimelinesJSON(timelines []domain.PriceTimeline) ([]byte, error) {
	out := make(map[string]timelineJSON, len(timelines))
	for _, tl := range timelines {
		entry := timelineJSON{
			Name:     tl.Name,
			Position: tl.Position,
			Points:   make([]pointJSON, 0, len(tl.Points)),
		}
		for _, p := range tl.Points {
			entry.Points = append(entry.Points, pointJSON{
				Date:         p.Date.Format(dateLayout),
				Price:        p.Price,
				Week:         p.Week,
				Committed:    p.Committed,
				RawChange:    p.RawChange,
				Multiplier:   p.Multiplier,
				CappedChange: p.CappedChange,
				Confidence:   p.Confidence,
			})
		}
		out[tl.PlayerID] = entry
	}
	return json.MarshalIndent(out, "", "  ")
}
