package builders

import (
	"fmt"
	"log"
	"time"

	"football-tips-bot/internal/api"
	"football-tips-bot/internal/markets"
	"football-tips-bot/internal/tickets"
)

// Analyzer produces unstructured descriptive text for one fixture. It is
// an external collaborator; the builder never lets a single failed call
// abort the rest of the batch.
type Analyzer interface {
	Analyze(f api.Fixture, odds markets.OddsMap) (any, error)
}

// TopCompetitions is the allow-list for single-fixture analyses: the top
// five leagues, other strong domestic leagues, and UEFA competitions.
var TopCompetitions = map[int]bool{
	39: true, 140: true, 61: true, 78: true, 135: true,
	94: true, 88: true, 203: true, 197: true, 179: true,
	2: true, 3: true, 848: true, 4: true, 566: true,
	262: true, 253: true,
}

// SingleAnalysis requests narrative analyses for up to MaxFixtures fixtures
// from allow-listed competitions. The legs carry a nominal price of 1.00 so
// they never alter a combined price.
type SingleAnalysis struct {
	Analyzer    Analyzer
	MaxFixtures int
	Location    *time.Location
}

func (b *SingleAnalysis) Name() string { return "single_analysis" }

func (b *SingleAnalysis) Build(fixtures []api.Fixture, odds OddsProvider) []tickets.Leg {
	var selected []api.Fixture
	for _, f := range fixtures {
		if !TopCompetitions[f.League.ID] {
			continue
		}
		selected = append(selected, f)
		if len(selected) >= b.MaxFixtures {
			break
		}
	}

	var legs []tickets.Leg
	for _, f := range selected {
		leg := newLeg(f, b.Location, tickets.MarketAnalysis, "AI_ANALYSIS", 1.00)
		leg.LeagueID = f.League.ID

		m, ok := fetchOdds(odds, f, b.Name())
		if !ok {
			m = markets.OddsMap{}
		}

		analysis, err := b.Analyzer.Analyze(f, m)
		if err != nil {
			log.Printf("WARN [%s] analysis failed for fixture %d: %v", b.Name(), f.Fixture.ID, err)
			leg.Error = fmt.Sprintf("single_analysis_failed: %v", err)
		} else {
			leg.Analysis = analysis
		}

		legs = append(legs, leg)
	}
	return legs
}
