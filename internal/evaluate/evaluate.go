// Package evaluate settles generated tickets against final match results.
// Legs on unfinished fixtures stay pending; a confirmed loss on any leg
// dominates pending legs in the ticket summary.
package evaluate

import (
	"fmt"
	"log"
	"strings"
	"time"

	"football-tips-bot/internal/api"
	"football-tips-bot/internal/snapshot"
	"football-tips-bot/internal/tickets"
)

// FixtureLookup resolves one fixture by provider id.
type FixtureLookup interface {
	FixtureByID(id int) (*api.Fixture, error)
}

// EvaluateLeg decides a leg's verdict from the fixture's final score. A
// nil fixture means the provider had no record: the leg stays pending
// under the NOT_FOUND label.
func EvaluateLeg(leg tickets.Leg, fx *api.Fixture) tickets.LegResult {
	if fx == nil {
		return tickets.LegResult{Status: "NOT_FOUND", Pending: true, Verdict: tickets.VerdictPending}
	}

	short := fx.Fixture.Status.Short
	if !api.FinishedStatuses[short] {
		if short == "" {
			short = "NS"
		}
		return tickets.LegResult{Status: short, Pending: true, Verdict: tickets.VerdictPending}
	}

	home, away := 0, 0
	if fx.Goals.Home != nil {
		home = *fx.Goals.Home
	}
	if fx.Goals.Away != nil {
		away = *fx.Goals.Away
	}
	total := home + away

	hit := false
	pick := strings.ToUpper(strings.TrimSpace(leg.Pick))

	switch strings.ToUpper(leg.Market) {
	case "DOUBLE CHANCE":
		switch pick {
		case "1X":
			hit = home >= away
		case "X2":
			hit = away >= home
		case "12":
			hit = home != away
		}
	case "BTTS":
		switch pick {
		case "YES":
			hit = home > 0 && away > 0
		case "NO":
			hit = !(home > 0 && away > 0)
		}
	case "OVER/UNDER":
		switch pick {
		case "OVER 1.5":
			hit = total >= 2
		case "OVER 2.5":
			hit = total >= 3
		case "UNDER 3.5":
			hit = total <= 3
		}
	case "MATCH WINNER":
		switch pick {
		case "HOME", "1":
			hit = home > away
		case "AWAY", "2":
			hit = away > home
		}
	}
	// Unrecognized (market, pick) combinations fall through as a miss.

	verdict := tickets.VerdictMiss
	if hit {
		verdict = tickets.VerdictHit
	}
	return tickets.LegResult{
		Status:    short,
		HomeGoals: home,
		AwayGoals: away,
		Hit:       hit,
		Verdict:   verdict,
	}
}

// EvaluateTicket annotates every leg with its result and computes the
// ticket summary. Lookup failures leave the affected leg pending; the
// rest of the ticket still settles.
func EvaluateTicket(t *tickets.Ticket, lookup FixtureLookup) {
	for i := range t.Legs {
		leg := &t.Legs[i]

		if leg.FixtureID == 0 {
			leg.Result = &tickets.LegResult{Status: "NO_ID", Pending: true, Verdict: tickets.VerdictPending}
			continue
		}

		fx, err := lookup.FixtureByID(leg.FixtureID)
		if err != nil {
			log.Printf("WARN fixture %d lookup failed: %v", leg.FixtureID, err)
			fx = nil
		}

		result := EvaluateLeg(*leg, fx)
		leg.Result = &result
	}

	ev := tickets.Summarize(t.Legs)
	t.Evaluation = &ev
}

// Result summarizes an evaluation run for the process status line.
type Result struct {
	Found      bool
	AnyPending bool
	Tickets    int
}

// Run reads the generation snapshot, settles its tickets, and writes the
// evaluation document. A missing snapshot produces an explicit error
// document instead of failing.
func Run(store snapshot.Store, lookup FixtureLookup, now time.Time) (Result, error) {
	var feed tickets.FeedSnapshot
	found, err := store.Get(tickets.DocFeedSnapshot, &feed)
	if err != nil {
		return Result{}, fmt.Errorf("reading feed snapshot: %w", err)
	}

	if !found {
		out := tickets.Evaluation{
			Date:    now.UTC().Format("2006-01-02"),
			Tickets: []tickets.Ticket{},
			Error:   "feed_snapshot.json not found",
		}
		if err := store.Put(tickets.DocEvaluation, out); err != nil {
			return Result{}, fmt.Errorf("writing evaluation: %w", err)
		}
		return Result{Found: false}, nil
	}

	anyPending := false
	for i := range feed.Tickets {
		EvaluateTicket(&feed.Tickets[i], lookup)
		if feed.Tickets[i].Evaluation.AnyPending {
			anyPending = true
		}
	}

	out := tickets.Evaluation{
		Date:        feed.Date,
		EvaluatedAt: now.Format(time.RFC3339),
		Tickets:     feed.Tickets,
	}
	if err := store.Put(tickets.DocEvaluation, out); err != nil {
		return Result{}, fmt.Errorf("writing evaluation: %w", err)
	}

	return Result{Found: true, AnyPending: anyPending, Tickets: len(feed.Tickets)}, nil
}
