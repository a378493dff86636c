// Package markets normalizes raw bookmaker odds into a canonical set of
// markets and outcomes, keeping the best price seen across bookmakers.
package markets

import (
	"strconv"
	"strings"

	"football-tips-bot/internal/api"
	"football-tips-bot/internal/tickets"
)

// OddsMap maps canonical market name -> canonical outcome -> best price.
type OddsMap map[string]map[string]float64

// Best returns the best price for a (market, outcome) pair.
func (m OddsMap) Best(market, outcome string) (float64, bool) {
	outcomes, ok := m[market]
	if !ok {
		return 0, false
	}
	odd, ok := outcomes[outcome]
	return odd, ok
}

// Market name synonyms, keyed by normalized (lowercase, space-collapsed) name.
var marketSynonyms = map[string]string{
	"double chance": tickets.MarketDoubleChance,

	"both teams score":    tickets.MarketBTTS,
	"both teams to score": tickets.MarketBTTS,
	"btts":                tickets.MarketBTTS,

	"over/under":             tickets.MarketOverUnder,
	"total goals":            tickets.MarketOverUnder,
	"goals over/under":       tickets.MarketOverUnder,
	"total goals over/under": tickets.MarketOverUnder,

	"match winner":     tickets.MarketMatchWinner,
	"matchwinner":      tickets.MarketMatchWinner,
	"1x2":              tickets.MarketMatchWinner,
	"full time result": tickets.MarketMatchWinner,
	"result":           tickets.MarketMatchWinner,
}

// Markets whose name contains any of these are never usable, even when the
// rest of the name would match a canonical family. Checked first.
var forbiddenKeywords = []string{
	"corner", "card", "booking", "penalt", "overtime", "extra time",
	"race to", "half", "quarter", "interval",
}

// Allowed goal lines for the Over/Under market.
var allowedLines = map[string]bool{
	"Over 1.5":  true,
	"Over 2.5":  true,
	"Under 3.5": true,
}

// normalizeName lowercases a market name and collapses runs of whitespace.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func isForbidden(normalized string) bool {
	for _, kw := range forbiddenKeywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// titleCase capitalizes the first letter of each space-separated word and
// lowercases the rest ("yes" -> "Yes", "OVER 1.5" -> "Over 1.5").
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Extract builds the canonical OddsMap for one fixture from raw bookmaker
// entries. Unparseable or non-positive prices are dropped; for each
// (market, outcome) pair the maximum price across bookmakers wins.
func Extract(raw []api.BookmakerOdds) OddsMap {
	best := make(OddsMap)

	put := func(market, outcome, odd string) {
		o, err := strconv.ParseFloat(strings.TrimSpace(odd), 64)
		if err != nil || o <= 0 {
			return
		}
		if best[market] == nil {
			best[market] = make(map[string]float64)
		}
		if o > best[market][outcome] {
			best[market][outcome] = o
		}
	}

	for _, item := range raw {
		for _, bm := range item.Bookmakers {
			for _, bet := range bm.Bets {
				name := normalizeName(bet.Name)
				if isForbidden(name) {
					continue
				}
				canonical, ok := marketSynonyms[name]
				if !ok {
					continue
				}

				switch canonical {
				case tickets.MarketDoubleChance:
					for _, v := range bet.Values {
						val := strings.ToUpper(strings.ReplaceAll(v.Value, " ", ""))
						if val == "1X" || val == "X2" || val == "12" {
							put(canonical, val, v.Odd)
						}
					}
				case tickets.MarketBTTS:
					for _, v := range bet.Values {
						val := titleCase(v.Value)
						if val == "Yes" || val == "No" {
							put(canonical, val, v.Odd)
						}
					}
				case tickets.MarketOverUnder:
					for _, v := range bet.Values {
						val := titleCase(v.Value)
						if allowedLines[val] {
							put(canonical, val, v.Odd)
						}
					}
				case tickets.MarketMatchWinner:
					for _, v := range bet.Values {
						switch strings.TrimSpace(v.Value) {
						case "Home", "1":
							put(canonical, "Home", v.Odd)
						case "Away", "2":
							put(canonical, "Away", v.Odd)
						}
					}
				}
			}
		}
	}

	return best
}
