package builders

import (
	"time"

	"football-tips-bot/internal/api"
	"football-tips-bot/internal/tickets"
)

// SafeDoubleChance picks the "1X" outcome when it clears a minimum floor
// and is no more expensive than "X2", so only the safer side qualifies
// when both sides are on offer. One leg per qualifying fixture.
type SafeDoubleChance struct {
	MinOdd   float64
	Location *time.Location
}

func (b *SafeDoubleChance) Name() string { return "safe_dc" }

func (b *SafeDoubleChance) Build(fixtures []api.Fixture, odds OddsProvider) []tickets.Leg {
	var legs []tickets.Leg
	for _, f := range fixtures {
		m, ok := fetchOdds(odds, f, b.Name())
		if !ok {
			continue
		}

		odd1x, has1x := m.Best(tickets.MarketDoubleChance, "1X")
		if !has1x || odd1x < b.MinOdd {
			continue
		}
		if oddX2, hasX2 := m.Best(tickets.MarketDoubleChance, "X2"); hasX2 && odd1x > oddX2 {
			continue
		}

		legs = append(legs, newLeg(f, b.Location, tickets.MarketDoubleChance, "1X", odd1x))
	}
	return legs
}
