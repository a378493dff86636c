package tickets

// Snapshot document names. One logical document per product type; the
// store backing decides how the name maps to a file or row.
const (
	DocFeedSnapshot = "feed_snapshot"
	DocDaily        = "daily"
	DocEvaluation   = "evaluation"
)

// Meta identifies the producing application in a feed snapshot.
type Meta struct {
	App     string `json:"app"`
	Version string `json:"version"`
}

// FeedSnapshot is the combined generation-pass document: every morning
// ticket plus the narrative digest.
type FeedSnapshot struct {
	Date           string   `json:"date"`
	Tickets        []Ticket `json:"tickets"`
	OpenAIAnalysis string   `json:"openai_analysis,omitempty"`
	Meta           Meta     `json:"meta"`
}

// Evaluation is the evening-pass document: the feed tickets annotated with
// verdicts. Error is set when no generation snapshot existed.
type Evaluation struct {
	Date        string   `json:"date"`
	EvaluatedAt string   `json:"evaluated_at,omitempty"`
	Tickets     []Ticket `json:"tickets"`
	Error       string   `json:"error,omitempty"`
}

// TicketsDoc is a dated per-product ticket document (free and VIP tiers).
type TicketsDoc struct {
	Date    string   `json:"date"`
	Tickets []Ticket `json:"tickets"`
}

// LegsDoc is a dated per-product bare leg list.
type LegsDoc struct {
	Date string `json:"date"`
	Legs []Leg  `json:"legs"`
}

// RunLog summarizes one generation run.
type RunLog struct {
	Date        string         `json:"date"`
	GeneratedAt string         `json:"generated_at"`
	Counts      map[string]int `json:"counts"`
}
