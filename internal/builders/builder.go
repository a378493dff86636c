// Package builders contains the leg selection strategies. Each builder
// scans the day's fixtures, consults the canonical odds map, and emits
// candidate legs for the composer. Builders share no state and fail soft:
// a fixture whose odds cannot be fetched is skipped, not fatal.
package builders

import (
	"fmt"
	"log"
	"time"

	"football-tips-bot/internal/api"
	"football-tips-bot/internal/markets"
	"football-tips-bot/internal/tickets"
)

// OddsProvider supplies the canonical odds map for one fixture.
type OddsProvider interface {
	OddsFor(fixtureID int) (markets.OddsMap, error)
}

// LegBuilder is a selection strategy over the day's fixtures.
type LegBuilder interface {
	Name() string
	Build(fixtures []api.Fixture, odds OddsProvider) []tickets.Leg
}

// FormatKickoff renders a provider ISO timestamp in the local timezone as
// "2006-01-02 15:04". Unparseable input is returned verbatim.
func FormatKickoff(iso string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

// newLeg fills the shared leg fields from fixture metadata.
func newLeg(f api.Fixture, loc *time.Location, market, pick string, odd float64) tickets.Leg {
	return tickets.Leg{
		FixtureID: f.Fixture.ID,
		League:    fmt.Sprintf("%s — %s", f.League.Country, f.League.Name),
		Teams:     fmt.Sprintf("%s vs %s", f.Teams.Home.Name, f.Teams.Away.Name),
		Time:      FormatKickoff(f.Fixture.Date, loc),
		Market:    market,
		Pick:      pick,
		Odd:       odd,
	}
}

// fetchOdds wraps the provider call with the fail-soft skip.
func fetchOdds(odds OddsProvider, f api.Fixture, builder string) (markets.OddsMap, bool) {
	m, err := odds.OddsFor(f.Fixture.ID)
	if err != nil {
		log.Printf("WARN [%s] odds unavailable for fixture %d: %v", builder, f.Fixture.ID, err)
		return nil, false
	}
	return m, true
}
