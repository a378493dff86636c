package builders

import (
	"sort"
	"time"

	"football-tips-bot/internal/api"
	"football-tips-bot/internal/tickets"
)

// DefaultAllTipsCaps bounds the price considered per market: the greedy
// combinator wants plausible legs, not longshots.
var DefaultAllTipsCaps = map[string]float64{
	tickets.MarketDoubleChance: 1.60,
	tickets.MarketBTTS:         2.10,
	tickets.MarketOverUnder:    2.00,
	tickets.MarketMatchWinner:  2.50,
}

// AllTips selects, per fixture, the single highest-priced (market, outcome)
// pair that stays under its market's cap, then returns all candidates
// sorted descending by price. Markets without a configured cap are ignored.
type AllTips struct {
	Caps     map[string]float64
	Location *time.Location
}

func (b *AllTips) Name() string { return "all_tips" }

func (b *AllTips) Build(fixtures []api.Fixture, odds OddsProvider) []tickets.Leg {
	caps := b.Caps
	if caps == nil {
		caps = DefaultAllTipsCaps
	}

	var cands []tickets.Leg
	for _, f := range fixtures {
		m, ok := fetchOdds(odds, f, b.Name())
		if !ok {
			continue
		}

		var bestMarket, bestPick string
		var bestOdd float64
		for market, outcomes := range m {
			cap, capped := caps[market]
			if !capped {
				continue
			}
			for outcome, odd := range outcomes {
				if odd >= cap {
					continue
				}
				// Tie-break on names so map iteration order never decides.
				if odd > bestOdd ||
					(odd == bestOdd && market+"/"+outcome < bestMarket+"/"+bestPick) {
					bestMarket, bestPick, bestOdd = market, outcome, odd
				}
			}
		}
		if bestMarket == "" {
			continue
		}

		cands = append(cands, newLeg(f, b.Location, bestMarket, bestPick, bestOdd))
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Odd > cands[j].Odd
	})
	return cands
}
