// Package tickets defines the snapshot document types shared by the
// generation and evaluation passes: legs, tickets, and their verdicts.
package tickets

// Canonical market names produced by the extractor and consumed by the
// builders and the evaluator.
const (
	MarketDoubleChance = "Double Chance"
	MarketBTTS         = "BTTS"
	MarketOverUnder    = "Over/Under"
	MarketMatchWinner  = "Match Winner"
	MarketAnalysis     = "ANALYSIS"
)

// Verdict is the evaluated outcome of a leg or a ticket.
type Verdict string

const (
	VerdictHit     Verdict = "hit"
	VerdictMiss    Verdict = "miss"
	VerdictPending Verdict = "pending"
)

// Leg is one atomic pick tied to one fixture. Immutable after creation;
// the evaluator annotates it with Result in the evaluation document.
type Leg struct {
	FixtureID int     `json:"fixture_id"`
	League    string  `json:"league,omitempty"`
	Teams     string  `json:"teams"`
	Time      string  `json:"time,omitempty"`
	Market    string  `json:"market"`
	Pick      string  `json:"pick"`
	Odd       float64 `json:"odd"`

	// Analysis legs only.
	LeagueID int    `json:"league_id,omitempty"`
	Analysis any    `json:"analysis,omitempty"`
	Error    string `json:"error,omitempty"`

	Result *LegResult `json:"result,omitempty"`
}

// LegResult is the evaluator's annotation on a leg.
type LegResult struct {
	Status    string  `json:"status"`
	HomeGoals int     `json:"home_goals"`
	AwayGoals int     `json:"away_goals"`
	Pending   bool    `json:"pending"`
	Hit       bool    `json:"hit"`
	Verdict   Verdict `json:"verdict"`
}

// Ticket is a combination of legs with a multiplied combined price.
// Invariant: no two legs share a fixture within tickets produced by the
// greedy combinators (enforced at composition).
type Ticket struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	TargetOdds float64 `json:"target_odds,omitempty"`
	Legs       []Leg   `json:"legs"`
	TotalOdds  float64 `json:"total_odds"`

	Evaluation *TicketEvaluation `json:"evaluation,omitempty"`
}

// TicketEvaluation aggregates leg verdicts. A confirmed loss dominates
// pending legs when summarizing the ticket as a single verdict.
type TicketEvaluation struct {
	AllHit     bool    `json:"all_hit"`
	AnyPending bool    `json:"any_pending"`
	HasLoss    bool    `json:"has_loss"`
	Verdict    Verdict `json:"verdict"`
}

// Summarize computes the ticket-level evaluation from leg results.
// Legs without a result count as pending.
func Summarize(legs []Leg) TicketEvaluation {
	ev := TicketEvaluation{AllHit: true}
	for _, l := range legs {
		if l.Result == nil || l.Result.Pending {
			ev.AnyPending = true
			ev.AllHit = false
			continue
		}
		if !l.Result.Hit {
			ev.AllHit = false
			ev.HasLoss = true
		}
	}
	switch {
	case ev.AllHit && !ev.AnyPending:
		ev.Verdict = VerdictHit
	case ev.AnyPending && !ev.HasLoss:
		ev.Verdict = VerdictPending
	default:
		ev.Verdict = VerdictMiss
	}
	return ev
}
