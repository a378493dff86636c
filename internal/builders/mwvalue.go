package builders

import (
	"time"

	"football-tips-bot/internal/api"
	"football-tips-bot/internal/tickets"
)

// MatchWinnerValue picks the Home or Away side whose price sits inside the
// value band, keeping the highest-priced qualifying side per fixture.
// Draws are never candidates.
type MatchWinnerValue struct {
	MinOdd   float64
	MaxOdd   float64
	Location *time.Location
}

func (b *MatchWinnerValue) Name() string { return "mw_value" }

func (b *MatchWinnerValue) Build(fixtures []api.Fixture, odds OddsProvider) []tickets.Leg {
	var legs []tickets.Leg
	for _, f := range fixtures {
		m, ok := fetchOdds(odds, f, b.Name())
		if !ok {
			continue
		}

		var pick string
		var best float64
		for _, side := range []string{"Home", "Away"} {
			odd, has := m.Best(tickets.MarketMatchWinner, side)
			if !has || odd < b.MinOdd || odd > b.MaxOdd {
				continue
			}
			if odd > best {
				pick, best = side, odd
			}
		}
		if pick == "" {
			continue
		}

		legs = append(legs, newLeg(f, b.Location, tickets.MarketMatchWinner, pick, best))
	}
	return legs
}
