package builders

import (
	"time"

	"football-tips-bot/internal/api"
	"football-tips-bot/internal/tickets"
)

// ouPriority is the line selection order: the lower line wins when both
// are offered.
var ouPriority = []string{"Over 1.5", "Over 2.5"}

// OverUnder picks the first available target line per fixture. Existence
// is the only filter; there is no price band.
type OverUnder struct {
	Location *time.Location
}

func (b *OverUnder) Name() string { return "over_under" }

func (b *OverUnder) Build(fixtures []api.Fixture, odds OddsProvider) []tickets.Leg {
	var legs []tickets.Leg
	for _, f := range fixtures {
		m, ok := fetchOdds(odds, f, b.Name())
		if !ok {
			continue
		}

		for _, line := range ouPriority {
			if odd, has := m.Best(tickets.MarketOverUnder, line); has {
				legs = append(legs, newLeg(f, b.Location, tickets.MarketOverUnder, line, odd))
				break
			}
		}
	}
	return legs
}
