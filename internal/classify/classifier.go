// Package classify infers a scoring bucket for records whose provider label
// is missing or unrecognized. Rules are ranked; the first that fires wins and
// its name is carried on the result so ambiguous rows stay visible downstream.
package classify

import (
	"strings"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
)

// explicitLabels maps normalized provider labels to buckets. Defensive and
// special-teams labels collapse into DEF, which scores under the generic
// fallback blend.
var explicitLabels = map[string]domain.Position{
	"QB": domain.PositionQB,
	"RB": domain.PositionRB,
	"HB": domain.PositionRB,
	"FB": domain.PositionRB,
	"WR": domain.PositionWR,
	"TE": domain.PositionTE,

	"DEF": domain.PositionDEF,
	"DST": domain.PositionDEF,
	"DL":  domain.PositionDEF,
	"LB":  domain.PositionDEF,
	"DB":  domain.PositionDEF,
	"CB":  domain.PositionDEF,
	"S":   domain.PositionDEF,
	"K":   domain.PositionDEF,
	"P":   domain.PositionDEF,
}

// Classify decides the scoring bucket for one record. Explicit labels are
// trusted; otherwise stat volume decides, in pass > target > rush order, and
// a record with no signal at all lands in UNKNOWN.
func Classify(r *domain.GameRecord) domain.Classification {
	label := strings.ToUpper(strings.TrimSpace(r.Position))
	if pos, ok := explicitLabels[label]; ok {
		return domain.Classification{Position: pos, Confidence: domain.ConfidenceHigh, Rule: "explicit_label"}
	}
	if r.PassAttempts > 0 {
		return domain.Classification{Position: domain.PositionQB, Confidence: domain.ConfidenceLow, Rule: "pass_attempts"}
	}
	if r.Targets > 0 || r.Receptions > 0 {
		return domain.Classification{Position: domain.PositionWR, Confidence: domain.ConfidenceLow, Rule: "target_volume"}
	}
	// Positive yardage only: a lone kneel-down or botched snap is not a
	// rushing profile.
	if r.RushYards > 0 || r.RushTDs > 0 {
		return domain.Classification{Position: domain.PositionRB, Confidence: domain.ConfidenceLow, Rule: "rush_volume"}
	}
	return domain.Classification{Position: domain.PositionUnknown, Confidence: domain.ConfidenceLow, Rule: "no_signal"}
}
