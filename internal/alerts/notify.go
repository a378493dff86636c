// Package alerts reports run outcomes to the operator: always to the
// process log, optionally to a Telegram chat.
package alerts

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"football-tips-bot/internal/tickets"
)

// Notifier handles run notifications
type Notifier struct {
	mu         sync.Mutex
	lastAlerts map[string]time.Time // Dedupe alerts
	cooldown   time.Duration        // Minimum time between same alerts
}

// NewNotifier creates a new notifier
func NewNotifier(cooldown time.Duration) *Notifier {
	return &Notifier{
		lastAlerts: make(map[string]time.Time),
		cooldown:   cooldown,
	}
}

func (n *Notifier) allowed(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if lastTime, ok := n.lastAlerts[key]; ok {
		if time.Since(lastTime) < n.cooldown {
			return false
		}
	}
	n.lastAlerts[key] = time.Now()
	return true
}

// AlertTicket logs one generated ticket. Repeated alerts for the same
// ticket name on the same date are suppressed within the cooldown.
func (n *Notifier) AlertTicket(date string, t tickets.Ticket) {
	key := fmt.Sprintf("%s-%s", date, t.Name)
	if !n.allowed(key) {
		return
	}

	log.Printf("TICKET %s: %d legs total=%.2f", t.Name, len(t.Legs), t.TotalOdds)
}

// LogGenerateRun logs a generation pass completion
func (n *Notifier) LogGenerateRun(date string, fixtures, ticketCount int) {
	log.Printf("Generate complete: %s | %d fixtures, %d tickets", date, fixtures, ticketCount)
}

// LogEvaluateRun logs an evaluation pass completion
func (n *Notifier) LogEvaluateRun(date string, ticketCount int, anyPending bool) {
	log.Printf("Evaluate complete: %s | %d tickets, pending=%v", date, ticketCount, anyPending)
}

// LogError logs an error
func (n *Notifier) LogError(context string, err error) {
	log.Printf("ERROR [%s]: %v", context, err)
}

// LogStartup logs bot startup
func (n *Notifier) LogStartup(config string) {
	log.Printf("Bot started |%s", config)
}

// CleanupOldAlerts removes stale alert records
func (n *Notifier) CleanupOldAlerts() {
	n.mu.Lock()
	defer n.mu.Unlock()
	cutoff := time.Now().Add(-24 * time.Hour)
	for key, t := range n.lastAlerts {
		if t.Before(cutoff) {
			delete(n.lastAlerts, key)
		}
	}
}

// FormatSnapshotDigest renders the day's snapshot as plain text for a
// chat message.
func FormatSnapshotDigest(snap tickets.FeedSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tips for %s\n", snap.Date)
	for _, t := range snap.Tickets {
		fmt.Fprintf(&b, "\n%s (total %.2f)\n", t.Name, t.TotalOdds)
		for _, leg := range t.Legs {
			if leg.Market == tickets.MarketAnalysis {
				fmt.Fprintf(&b, "- %s | analysis\n", leg.Teams)
				continue
			}
			fmt.Fprintf(&b, "- %s | %s %s @ %.2f\n", leg.Teams, leg.Market, leg.Pick, leg.Odd)
		}
	}
	return b.String()
}

// FormatEvaluationDigest renders settled verdicts as plain text.
func FormatEvaluationDigest(ev tickets.Evaluation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Results for %s\n", ev.Date)
	if ev.Error != "" {
		fmt.Fprintf(&b, "\n%s\n", ev.Error)
		return b.String()
	}
	for _, t := range ev.Tickets {
		verdict := tickets.VerdictPending
		if t.Evaluation != nil {
			verdict = t.Evaluation.Verdict
		}
		fmt.Fprintf(&b, "\n%s: %s\n", t.Name, strings.ToUpper(string(verdict)))
		for _, leg := range t.Legs {
			if leg.Result == nil {
				continue
			}
			if leg.Result.Pending {
				fmt.Fprintf(&b, "- %s | %s %s: pending (%s)\n", leg.Teams, leg.Market, leg.Pick, leg.Result.Status)
				continue
			}
			fmt.Fprintf(&b, "- %s | %s %s: %s (%d-%d)\n",
				leg.Teams, leg.Market, leg.Pick, leg.Result.Verdict, leg.Result.HomeGoals, leg.Result.AwayGoals)
		}
	}
	return b.String()
}
