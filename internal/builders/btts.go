package builders

import (
	"time"

	"football-tips-bot/internal/api"
	"football-tips-bot/internal/tickets"
)

// BTTS picks whichever of Yes/No falls inside the price band, Yes taking
// priority when both qualify. One leg per qualifying fixture.
type BTTS struct {
	MinOdd   float64
	MaxOdd   float64
	Location *time.Location
}

func (b *BTTS) Name() string { return "btts" }

func (b *BTTS) inBand(odd float64) bool {
	return odd >= b.MinOdd && odd <= b.MaxOdd
}

func (b *BTTS) Build(fixtures []api.Fixture, odds OddsProvider) []tickets.Leg {
	var legs []tickets.Leg
	for _, f := range fixtures {
		m, ok := fetchOdds(odds, f, b.Name())
		if !ok {
			continue
		}

		var pick string
		var odd float64
		if yes, has := m.Best(tickets.MarketBTTS, "Yes"); has && b.inBand(yes) {
			pick, odd = "Yes", yes
		} else if no, has := m.Best(tickets.MarketBTTS, "No"); has && b.inBand(no) {
			pick, odd = "No", no
		}
		if pick == "" {
			continue
		}

		legs = append(legs, newLeg(f, b.Location, tickets.MarketBTTS, pick, odd))
	}
	return legs
}
