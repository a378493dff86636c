// Morning pass: fetch the day's fixtures and odds, build tickets, and
// write the snapshot documents. Prints one JSON status line to stdout.
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
	"football-tips-bot/internal/generate"
	"football-tips-bot/internal/openai"
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

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("Invalid TIMEZONE %q: %v", cfg.Timezone, err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Opening snapshot store: %v", err)
	}
	defer closeStore()

	httpClient := api.NewRateGatedClient(cfg.RequestGap, cfg.RequestTimeout, cfg.MaxRetries, 2*time.Second)
	cache := snapshot.NewFileCache(".cache")
	football := api.NewFootballClient(cfg.APIBaseURL, cfg.APIKey, httpClient, cache)

	oai := openai.NewClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)

	runner := &generate.Runner{
		Fixtures: football,
		Odds:     generate.NewOddsProvider(football),
		Store:    store,
		Opts: generate.Options{
			Location:    loc,
			DCMinOdd:    cfg.DCMinOdd,
			BTTSMinOdd:  cfg.BTTSMinOdd,
			BTTSMaxOdd:  cfg.BTTSMaxOdd,
			MWMinOdd:    cfg.MWMinOdd,
			MWMaxOdd:    cfg.MWMaxOdd,
			MaxAnalyses: cfg.MaxAnalyses,
			Analyzer:    oai,
			Digester:    oai,
		},
	}

	date := time.Now().In(loc).Format("2006-01-02")
	res, err := runner.Run(date)
	if err != nil {
		log.Fatalf("Generate failed: %v", err)
	}

	notifier := alerts.NewNotifier(time.Hour)
	notifier.LogGenerateRun(res.Date, res.Fixtures, res.Tickets)

	var feed tickets.FeedSnapshot
	if found, err := store.Get(tickets.DocFeedSnapshot, &feed); err == nil && found {
		for _, t := range feed.Tickets {
			notifier.AlertTicket(feed.Date, t)
		}
		sendTelegramDigest(cfg, feed)
	}

	status, _ := json.Marshal(map[string]any{"status": "ok", "tickets": res.Tickets})
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

func sendTelegramDigest(cfg config.Config, feed tickets.FeedSnapshot) {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == "" {
		return
	}

	tg, err := alerts.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("WARN telegram disabled: %v", err)
		return
	}
	if err := tg.Send(alerts.FormatSnapshotDigest(feed)); err != nil {
		log.Printf("WARN telegram send failed: %v", err)
	}
}
