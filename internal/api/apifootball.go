package api

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	fixturesTTL = 30 * time.Minute
	oddsTTL     = 60 * time.Minute
)

// Cache is an optional read-through cache for raw provider payloads.
// A miss (or stale entry) returns false; failures to persist are silent.
type Cache interface {
	Get(key string, maxAge time.Duration, out any) bool
	Set(key string, value any)
}

// FootballClient handles API communication with the football odds provider.
type FootballClient struct {
	baseURL string
	apiKey  string
	client  *RateGatedClient
	cache   Cache
}

// NewFootballClient creates a new provider client. cache may be nil.
func NewFootballClient(baseURL, apiKey string, client *RateGatedClient, cache Cache) *FootballClient {
	return &FootballClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
		cache:   cache,
	}
}

// Fixture is one scheduled or played match as returned by the provider.
type Fixture struct {
	Fixture FixtureInfo `json:"fixture"`
	League  League      `json:"league"`
	Teams   Teams       `json:"teams"`
	Goals   Goals       `json:"goals"`
}

// FixtureInfo holds the fixture identity, kickoff and status.
type FixtureInfo struct {
	ID     int    `json:"id"`
	Date   string `json:"date"` // ISO 8601 kickoff timestamp
	Status Status `json:"status"`
}

// Status holds the fixture status code.
type Status struct {
	Short string `json:"short"` // "NS", "1H", "FT", "AET", "PEN", "PST", ...
	Long  string `json:"long"`
}

// League identifies the competition of a fixture.
type League struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Teams holds both sides of a fixture.
type Teams struct {
	Home Team `json:"home"`
	Away Team `json:"away"`
}

// Team is one side of a fixture.
type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Goals holds the current or final score. Pointers because the provider
// sends null before kickoff.
type Goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// BookmakerOdds is one odds entry for a fixture (one provider item can
// carry several bookmakers).
type BookmakerOdds struct {
	Bookmakers []Bookmaker `json:"bookmakers"`
}

// Bookmaker carries one book's bets for a fixture.
type Bookmaker struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Bets []Bet  `json:"bets"`
}

// Bet is one market offered by a bookmaker.
type Bet struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Values []BetValue `json:"values"`
}

// BetValue is one outcome line with its price. Odd is a string on the
// wire; parsing happens in the extractor.
type BetValue struct {
	Value string `json:"value"`
	Odd   string `json:"odd"`
}

type fixturesResponse struct {
	Response []Fixture `json:"response"`
}

type oddsResponse struct {
	Response []BookmakerOdds `json:"response"`
}

func (c *FootballClient) get(path string, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("provider API key not set")
	}

	url := c.baseURL + path
	headers := map[string]string{
		"x-apisports-key": c.apiKey,
		"Accept":          "application/json",
	}

	body, err := c.client.Get(url, headers)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing provider response: %w", err)
	}
	return nil
}

// FixturesByDate fetches all fixtures for a date (format "2006-01-02").
func (c *FootballClient) FixturesByDate(date string) ([]Fixture, error) {
	key := "fixtures_" + date
	var cached []Fixture
	if c.cache != nil && c.cache.Get(key, fixturesTTL, &cached) {
		return cached, nil
	}

	var resp fixturesResponse
	if err := c.get("/fixtures?date="+date, &resp); err != nil {
		return nil, fmt.Errorf("fetching fixtures: %w", err)
	}

	if c.cache != nil {
		c.cache.Set(key, resp.Response)
	}
	return resp.Response, nil
}

// FixtureByID fetches a single fixture. Returns nil without error when the
// provider has no record for the id.
func (c *FootballClient) FixtureByID(id int) (*Fixture, error) {
	var resp fixturesResponse
	if err := c.get(fmt.Sprintf("/fixtures?id=%d", id), &resp); err != nil {
		return nil, fmt.Errorf("fetching fixture %d: %w", id, err)
	}
	if len(resp.Response) == 0 {
		return nil, nil
	}
	return &resp.Response[0], nil
}

// OddsByFixture fetches all bookmaker odds entries for a fixture.
func (c *FootballClient) OddsByFixture(id int) ([]BookmakerOdds, error) {
	key := fmt.Sprintf("odds_%d", id)
	var cached []BookmakerOdds
	if c.cache != nil && c.cache.Get(key, oddsTTL, &cached) {
		return cached, nil
	}

	var resp oddsResponse
	if err := c.get(fmt.Sprintf("/odds?fixture=%d", id), &resp); err != nil {
		return nil, fmt.Errorf("fetching odds for fixture %d: %w", id, err)
	}

	if c.cache != nil {
		c.cache.Set(key, resp.Response)
	}
	return resp.Response, nil
}
