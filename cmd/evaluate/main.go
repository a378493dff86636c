// Evening pass: read the morning snapshot, settle its tickets against
// final scores, and write the evaluation document. Prints one JSON
// status line to stdout.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"football-tips-bot/internal/alerts"
	"football-tips-bot/internal/api"
	"football-tips-bot/internal/config"
	"football-tips-bot/internal/evaluate"
	"football-tips-bot/internal/snapshot"
	"football-tips-bot/internal/tickets"
)

func main() {
	cfg := config.Load()

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.APIKey == "" {
		log.Fatal("API_FOOTBALL_KEY is required")
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Opening snapshot store: %v", err)
	}
	defer closeStore()

	httpClient := api.NewRateGatedClient(cfg.RequestGap, cfg.RequestTimeout, cfg.MaxRetries, 2*time.Second)
	// Results must be live: no cache on the evening lookups.
	football := api.NewFootballClient(cfg.APIBaseURL, cfg.APIKey, httpClient, nil)

	res, err := evaluate.Run(store, football, time.Now())
	if err != nil {
		log.Fatalf("Evaluate failed: %v", err)
	}

	if !res.Found {
		status, _ := json.Marshal(map[string]any{"status": "no-snapshot"})
		fmt.Fprintln(os.Stdout, string(status))
		return
	}

	notifier := alerts.NewNotifier(time.Hour)
	notifier.LogEvaluateRun(time.Now().UTC().Format("2006-01-02"), res.Tickets, res.AnyPending)

	sendTelegramDigest(cfg, store)

	status, _ := json.Marshal(map[string]any{"status": "evaluated", "pending": res.AnyPending})
	fmt.Fprintln(os.Stdout, string(status))
}

func openStore(cfg config.Config) (snapshot.Store, func(), error) {
	if cfg.Backend == "sqlite" {
		s, err := snapshot.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	s, err := snapshot.NewFileStore(cfg.OutDir)
	if err != nil {
		return nil, nil, err
	}
	return s, func() {}, nil
}

func sendTelegramDigest(cfg config.Config, store snapshot.Store) {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == "" {
		return
	}

	tg, err := alerts.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("WARN telegram disabled: %v", err)
		return
	}

	var ev tickets.Evaluation
	found, err := store.Get(tickets.DocEvaluation, &ev)
	if err != nil || !found {
		return
	}
	if err := tg.Send(alerts.FormatEvaluationDigest(ev)); err != nil {
		log.Printf("WARN telegram send failed: %v", err)
	}
}
