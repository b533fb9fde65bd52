// Package reporting renders summary and history exports for the front-end
// market view.
package reporting

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
)

const dateLayout = "2006-01-02"

// RenderSummaryCSV renders one period's summary, one row per player, with the
// group z-scores appended in a fixed column order.
func RenderSummaryCSV(rows []domain.SummaryRow) string {
	var b strings.Builder
	b.WriteString("player_id,player,position,season,week,price,raw_change,capped_change,multiplier,sentiment_factor,confidence")
	for _, m := range domain.ScoredMetrics {
		b.WriteString(",z_")
		b.WriteString(string(m))
	}
	b.WriteByte('\n')

	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%s,%s,%s,%d,%d,%s,%s,%s,%s,%s,%s",
			csvEscape(r.PlayerID), csvEscape(r.Name), r.Position,
			r.Season, r.Week,
			f(r.Price), f(r.RawChange), f(r.CappedChange),
			f(r.Multiplier), f(r.SentimentFactor), f(r.Confidence)))
		for _, m := range domain.ScoredMetrics {
			b.WriteByte(',')
			b.WriteString(f(r.ZScores[m]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderHistoryCSV renders dense timelines, committed and synthetic points
// alike. Synthetic rows leave the week and diagnostic columns empty.
func RenderHistoryCSV(timelines []domain.PriceTimeline) string {
	var b strings.Builder
	b.WriteString("player_id,player,position,season,week,date,price,committed,raw_change,multiplier,capped_change,confidence\n")
	for _, tl := range timelines {
		for _, p := range tl.Points {
			if p.Committed {
				b.WriteString(fmt.Sprintf("%s,%s,%s,%d,%d,%s,%s,true,%s,%s,%s,%s\n",
					csvEscape(tl.PlayerID), csvEscape(tl.Name), tl.Position,
					p.Season, p.Week, p.Date.Format(dateLayout), f(p.Price),
					f(p.RawChange), f(p.Multiplier), f(p.CappedChange), f(p.Confidence)))
			} else {
				b.WriteString(fmt.Sprintf("%s,%s,%s,%d,,%s,%s,false,,,,\n",
					csvEscape(tl.PlayerID), csvEscape(tl.Name), tl.Position,
					p.Season, p.Date.Format(dateLayout), f(p.Price)))
			}
		}
	}
	return b.String()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// csvEscape quotes fields containing separators; player names with commas do
// show up in provider feeds.
func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
