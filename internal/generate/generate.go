// Package generate runs the morning pass: fetch the day's fixtures,
// build candidate legs with every strategy, compose the ticket families
// and tiered products, and persist the snapshot documents.
package generate

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"time"

	"football-tips-bot/internal/api"
	"football-tips-bot/internal/builders"
	"football-tips-bot/internal/compose"
	"football-tips-bot/internal/markets"
	"football-tips-bot/internal/snapshot"
	"football-tips-bot/internal/tickets"
)

// FixtureSource lists fixtures scheduled on a date.
type FixtureSource interface {
	FixturesByDate(date string) ([]api.Fixture, error)
}

// RawOddsSource fetches bookmaker odds for one fixture.
type RawOddsSource interface {
	OddsByFixture(fixtureID int) ([]api.BookmakerOdds, error)
}

// Digester summarizes the day's tickets as narrative text.
type Digester interface {
	DigestTickets(ts []tickets.Ticket) (string, error)
}

// OddsProvider adapts a raw odds source into canonical per-fixture odds
// maps, memoized for the run so each builder sees the same extraction.
type OddsProvider struct {
	Source RawOddsSource

	memo map[int]markets.OddsMap
}

func NewOddsProvider(source RawOddsSource) *OddsProvider {
	return &OddsProvider{Source: source, memo: make(map[int]markets.OddsMap)}
}

func (p *OddsProvider) OddsFor(fixtureID int) (markets.OddsMap, error) {
	if m, ok := p.memo[fixtureID]; ok {
		return m, nil
	}
	raw, err := p.Source.OddsByFixture(fixtureID)
	if err != nil {
		return nil, fmt.Errorf("fetching odds for fixture %d: %w", fixtureID, err)
	}
	m := markets.Extract(raw)
	p.memo[fixtureID] = m
	return m, nil
}

// Options carries the run's thresholds and collaborators.
type Options struct {
	Location    *time.Location
	DCMinOdd    float64
	BTTSMinOdd  float64
	BTTSMaxOdd  float64
	MWMinOdd    float64
	MWMaxOdd    float64
	MaxAnalyses int

	Analyzer builders.Analyzer
	Digester Digester

	// Rand drives the 1X shuffle. Nil means time-seeded.
	Rand *rand.Rand
}

// Result summarizes a generation run for the process status line.
type Result struct {
	Date     string
	Fixtures int
	Tickets  int
}

// Runner owns one generation pass.
type Runner struct {
	Fixtures FixtureSource
	Odds     builders.OddsProvider
	Store    snapshot.Store
	Opts     Options
}

// Run executes the morning pass for the given date.
func (r *Runner) Run(date string) (Result, error) {
	rng := r.Opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	all, err := r.Fixtures.FixturesByDate(date)
	if err != nil {
		return Result{}, fmt.Errorf("fetching fixtures for %s: %w", date, err)
	}
	fixtures := api.FilterPlayable(all)
	log.Printf("generate: %s | %d fixtures, %d playable", date, len(all), len(fixtures))

	pools := make(map[string][]tickets.Leg)
	for _, b := range r.legBuilders() {
		pools[b.Name()] = b.Build(fixtures, r.Odds)
	}

	dcLegs := pools["safe_dc"]
	bttsLegs := pools["btts"]
	ouLegs := pools["over_under"]
	mwLegs := pools["mw_value"]
	allTipsCands := pools["all_tips"]
	aiLegs := pools["single_analysis"]

	morning := r.morningTickets(dcLegs, bttsLegs, allTipsCands, rng)

	digest := "no tickets"
	if len(morning) > 0 && r.Opts.Digester != nil {
		digest, err = r.Opts.Digester.DigestTickets(morning)
		if err != nil {
			log.Printf("WARN ticket digest failed: %v", err)
			digest = fmt.Sprintf("digest unavailable: %v", err)
		}
	}

	snap := tickets.FeedSnapshot{
		Date:           date,
		Tickets:        morning,
		OpenAIAnalysis: digest,
		Meta:           tickets.Meta{App: "football-tips-bot", Version: "1.0.0"},
	}
	if err := r.Store.Put(tickets.DocFeedSnapshot, snap); err != nil {
		return Result{}, fmt.Errorf("writing feed snapshot: %w", err)
	}
	if err := r.Store.Put(tickets.DocDaily, snap); err != nil {
		return Result{}, fmt.Errorf("writing daily snapshot: %w", err)
	}

	if err := r.writeProducts(date, dcLegs, bttsLegs, ouLegs, mwLegs, aiLegs); err != nil {
		return Result{}, err
	}

	return Result{Date: date, Fixtures: len(fixtures), Tickets: len(morning)}, nil
}

// legBuilders lists every active strategy for the run. The analysis
// builder joins only when an analyzer is configured.
func (r *Runner) legBuilders() []builders.LegBuilder {
	loc := r.Opts.Location
	bs := []builders.LegBuilder{
		&builders.SafeDoubleChance{MinOdd: r.Opts.DCMinOdd, Location: loc},
		&builders.BTTS{MinOdd: r.Opts.BTTSMinOdd, MaxOdd: r.Opts.BTTSMaxOdd, Location: loc},
		&builders.OverUnder{Location: loc},
		&builders.MatchWinnerValue{MinOdd: r.Opts.MWMinOdd, MaxOdd: r.Opts.MWMaxOdd, Location: loc},
		&builders.AllTips{Location: loc},
	}
	if r.Opts.Analyzer != nil && r.Opts.MaxAnalyses > 0 {
		bs = append(bs, &builders.SingleAnalysis{
			Analyzer:    r.Opts.Analyzer,
			MaxFixtures: r.Opts.MaxAnalyses,
			Location:    loc,
		})
	}
	return bs
}

// morningTickets composes the three feed families: shuffled 1X chunks,
// greedy combined-odds targets, and balanced BTTS pairs.
func (r *Runner) morningTickets(dcLegs, bttsLegs, allTipsCands []tickets.Leg, rng *rand.Rand) []tickets.Ticket {
	var out []tickets.Ticket

	shuffled := make([]tickets.Leg, len(dcLegs))
	copy(shuffled, dcLegs)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for _, group := range compose.Chunk(shuffled, 4, 3) {
		out = append(out, compose.MakeTicket("1x", "1x", group))
	}

	out = append(out, compose.GreedyTargets(allTipsCands, "all_tips", []compose.Target{
		{Name: "all_tips_2", Odds: 2.0},
		{Name: "all_tips_3", Odds: 3.0},
	})...)

	// BTTS pairs balanced around even money.
	balanced := make([]tickets.Leg, len(bttsLegs))
	copy(balanced, bttsLegs)
	sort.SliceStable(balanced, func(i, j int) bool {
		return math.Abs(balanced[i].Odd-1.50) < math.Abs(balanced[j].Odd-1.50)
	})
	for i, group := range compose.Chunk(balanced, 2, 3) {
		out = append(out, compose.MakeTicket(fmt.Sprintf("btts_%d", i+1), "btts", group))
	}

	return out
}

// writeProducts persists the free and VIP product documents.
func (r *Runner) writeProducts(date string, dcLegs, bttsLegs, ouLegs, mwLegs, aiLegs []tickets.Leg) error {
	over15 := filterPick(ouLegs, "Over 1.5")
	over25 := filterPick(ouLegs, "Over 2.5")

	generalPool := concat(dcLegs, bttsLegs, ouLegs, mwLegs)

	ticketDocs := map[string]tickets.Ticket{
		"2plus":          compose.MakeTicket("2plus", "free", compose.TopN(concat(dcLegs, ouLegs), 2)),
		"2plusbtts":      compose.MakeTicket("2plusbtts", "free", compose.TopN(bttsLegs, 2)),
		"vip3plus":       compose.MakeTicket("vip3plus", "vip", compose.TopN(generalPool, 3)),
		"vip4plus":       compose.MakeTicket("vip4plus", "vip", compose.TopN(generalPool, 4)),
		"vip3plusbtts":   compose.MakeTicket("vip3plusbtts", "vip", compose.TopN(bttsLegs, 3)),
		"vip4plusbtts":   compose.MakeTicket("vip4plusbtts", "vip", compose.TopN(bttsLegs, 4)),
		"vip3plusdc":     compose.MakeTicket("vip3plusdc", "vip", compose.TopN(dcLegs, 3)),
		"vip4plusdc":     compose.MakeTicket("vip4plusdc", "vip", compose.TopN(dcLegs, 4)),
		"vip3plusover15": compose.MakeTicket("vip3plusover15", "vip", compose.TopN(over15, 3)),
		"vip4plusover15": compose.MakeTicket("vip4plusover15", "vip", compose.TopN(over15, 4)),
		"vip3plusover25": compose.MakeTicket("vip3plusover25", "vip", compose.TopN(over25, 3)),
		"vip4plusover25": compose.MakeTicket("vip4plusover25", "vip", compose.TopN(over25, 4)),
	}
	for name, t := range ticketDocs {
		if err := r.Store.Put(name, tickets.TicketsDoc{Date: date, Tickets: []tickets.Ticket{t}}); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	firstAI := aiLegs
	if len(firstAI) > 1 {
		firstAI = firstAI[:1]
	}
	legDocs := map[string][]tickets.Leg{
		"dc":                 dcLegs,
		"over15":             over15,
		"over25":             over25,
		"single_analysis":    firstAI,
		"vipsingle_analysis": aiLegs,
	}
	for name, legs := range legDocs {
		if err := r.Store.Put(name, tickets.LegsDoc{Date: date, Legs: legs}); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	runLog := tickets.RunLog{
		Date:        date,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Counts: map[string]int{
			"dc_legs":   len(dcLegs),
			"btts_legs": len(bttsLegs),
			"ou_legs":   len(ouLegs),
			"mw_legs":   len(mwLegs),
			"ai_free":   len(firstAI),
			"ai_vip":    len(aiLegs),
		},
	}
	if err := r.Store.Put("log", runLog); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}
	return nil
}

func filterPick(legs []tickets.Leg, pick string) []tickets.Leg {
	var out []tickets.Leg
	for _, l := range legs {
		if l.Pick == pick {
			out = append(out, l)
		}
	}
	return out
}

func concat(pools ...[]tickets.Leg) []tickets.Leg {
	var out []tickets.Leg
	for _, p := range pools {
		out = append(out, p...)
	}
	return out
}
