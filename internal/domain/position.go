package domain

// Position is the scoring bucket a record is priced under.
type Position string

const (
	PositionQB      Position = "QB"
	PositionRB      Position = "RB"
	PositionWR      Position = "WR"
	PositionTE      Position = "TE"
	PositionDEF     Position = "DEF"
	PositionUnknown Position = "UNKNOWN"
)

// Valid reports whether p is one of the recognized buckets.
func (p Position) Valid() bool {
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE, PositionDEF, PositionUnknown:
		return true
	}
	return false
}

// ClassConfidence tags how a position was decided.
type ClassConfidence string

const (
	// ConfidenceHigh means the provider supplied an explicit recognized label.
	ConfidenceHigh ClassConfidence = "high"
	// ConfidenceLow means the bucket was inferred from stat volume heuristics.
	ConfidenceLow ClassConfidence = "low"
)

// Classification is the outcome of position inference for one record. The
// winning rule is kept so downstream reports can surface ambiguous rows
// instead of hiding the guess.
type Classification struct {
	Position   Position
	Confidence ClassConfidence
	Rule       string // name of the rule that decided the bucket
}
