// Package timeline expands committed price points into dense daily series:
// missing or implausible game dates are synthesized from the week index, and
// calendar gaps between committed points are filled with linearly
// interpolated synthetic points.
package timeline

import (
	"sort"
	"time"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
)

// DefaultAnchor is the date of week 1. Week N maps to anchor + 7*(N-1) days.
var DefaultAnchor = time.Date(2025, time.September, 5, 0, 0, 0, 0, time.UTC)

// Builder converts committed points into timelines.
type Builder struct {
	anchor time.Time
}

// NewBuilder creates a Builder around a week-1 anchor date. A zero anchor
// gets the default.
func NewBuilder(anchor time.Time) *Builder {
	if anchor.IsZero() {
		anchor = DefaultAnchor
	}
	return &Builder{anchor: anchor.UTC().Truncate(24 * time.Hour)}
}

// Build groups committed points by player and expands each into a daily
// series. Output is ordered by player id.
func (b *Builder) Build(points []*domain.PricePoint) []domain.PriceTimeline {
	byPlayer := make(map[string][]*domain.PricePoint)
	var order []string
	for _, p := range points {
		if _, seen := byPlayer[p.PlayerID]; !seen {
			order = append(order, p.PlayerID)
		}
		byPlayer[p.PlayerID] = append(byPlayer[p.PlayerID], p)
	}
	sort.Strings(order)

	out := make([]domain.PriceTimeline, 0, len(order))
	for _, id := range order {
		out = append(out, b.BuildPlayer(byPlayer[id]))
	}
	return out
}

// BuildPlayer expands one player's committed points. Duplicate weeks keep the
// first occurrence; dates always come out strictly increasing.
func (b *Builder) BuildPlayer(points []*domain.PricePoint) domain.PriceTimeline {
	tl := domain.PriceTimeline{}
	if len(points) == 0 {
		return tl
	}

	sorted := make([]*domain.PricePoint, 0, len(points))
	seenWeeks := make(map[int]bool)
	for _, p := range points {
		sorted = append(sorted, p)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Week < sorted[j].Week })

	tl.PlayerID = sorted[0].PlayerID
	tl.Name = sorted[0].Name
	tl.Position = sorted[0].Position

	var prev *domain.TimelinePoint
	for _, p := range sorted {
		if seenWeeks[p.Week] {
			continue
		}
		seenWeeks[p.Week] = true

		date := b.resolveDate(p)
		if prev != nil && !date.After(prev.Date) {
			date = prev.Date.AddDate(0, 0, 1)
		}

		committed := domain.TimelinePoint{
			PlayerID:     p.PlayerID,
			Season:       p.Season,
			Week:         p.Week,
			Date:         date,
			Price:        p.Price,
			Committed:    true,
			RawChange:    p.RawChange,
			Multiplier:   p.Multiplier,
			CappedChange: p.CappedChange,
			Confidence:   p.Confidence,
		}

		if prev != nil {
			tl.Points = append(tl.Points, interpolate(*prev, committed)...)
		}
		tl.Points = append(tl.Points, committed)
		prev = &tl.Points[len(tl.Points)-1]
	}
	return tl
}

// resolveDate trusts the committed date only when it is present and
// plausible; otherwise the week index decides.
func (b *Builder) resolveDate(p *domain.PricePoint) time.Time {
	d := p.Date.UTC().Truncate(24 * time.Hour)
	if !d.IsZero() && d.Year() >= b.anchor.Year() {
		return d
	}
	week := p.Week
	if week < 1 {
		week = 1
	}
	return b.anchor.AddDate(0, 0, 7*(week-1))
}

// interpolate fills the days strictly between two committed points with
// synthetic points walking a straight line in price. Synthetic points carry
// no week or diagnostics.
func interpolate(from, to domain.TimelinePoint) []domain.TimelinePoint {
	days := int(to.Date.Sub(from.Date).Hours() / 24)
	if days <= 1 {
		return nil
	}
	step := (to.Price - from.Price) / float64(days)
	out := make([]domain.TimelinePoint, 0, days-1)
	for i := 1; i < days; i++ {
		out = append(out, domain.TimelinePoint{
			PlayerID: from.PlayerID,
			Season:   from.Season,
			Date:     from.Date.AddDate(0, 0, i),
			Price:    from.Price + step*float64(i),
		})
	}
	return out
}
