// Package compose combines candidate legs into tickets: cheapest-N
// selections, fixed-size chunks, and greedy combined-odds targets.
package compose

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"football-tips-bot/internal/tickets"
)

// round2 rounds half away from zero to 2 decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// TopN returns the n cheapest legs, sorted ascending by price. Ties keep
// their original order.
func TopN(legs []tickets.Leg, n int) []tickets.Leg {
	sorted := make([]tickets.Leg, len(legs))
	copy(sorted, legs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Odd < sorted[j].Odd
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// MakeTicket builds a ticket whose combined price is the product of its
// legs' prices rounded to 2 decimals.
func MakeTicket(name, ticketType string, legs []tickets.Leg) tickets.Ticket {
	total := 1.0
	for _, l := range legs {
		total *= l.Odd
	}
	return tickets.Ticket{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      ticketType,
		Legs:      legs,
		TotalOdds: round2(total),
	}
}

// Chunk splits legs into groups of size, in order, keeping a partial
// trailing group and capping the number of groups at maxGroups.
func Chunk(legs []tickets.Leg, size, maxGroups int) [][]tickets.Leg {
	if size <= 0 {
		return nil
	}
	var groups [][]tickets.Leg
	for start := 0; start < len(legs) && len(groups) < maxGroups; start += size {
		end := start + size
		if end > len(legs) {
			end = len(legs)
		}
		groups = append(groups, legs[start:end])
	}
	return groups
}

// Target is one greedy accumulation pass.
type Target struct {
	Name string
	Odds float64
}

// minGreedyLegs is the smallest combination the greedy combinator emits.
const minGreedyLegs = 3

// GreedyTargets scans candidates (already sorted descending by price) and
// accumulates legs until at least minGreedyLegs are collected and the
// running product reaches the pass target; only then is a ticket emitted
// and its fixtures retired. Fixtures committed to an earlier pass are
// never reused. A pass that cannot reach its target emits nothing.
func GreedyTargets(candidates []tickets.Leg, ticketType string, targets []Target) []tickets.Ticket {
	var built []tickets.Ticket
	used := make(map[int]bool)

	for _, target := range targets {
		var cur []tickets.Leg
		inCur := make(map[int]bool)
		total := 1.0

		for _, leg := range candidates {
			if used[leg.FixtureID] || inCur[leg.FixtureID] {
				continue
			}
			cur = append(cur, leg)
			inCur[leg.FixtureID] = true
			total *= leg.Odd

			if len(cur) >= minGreedyLegs && total >= target.Odds {
				t := MakeTicket(target.Name, ticketType, cur)
				t.TargetOdds = target.Odds
				built = append(built, t)
				for _, l := range cur {
					used[l.FixtureID] = true
				}
				break
			}
		}
	}

	return built
}
