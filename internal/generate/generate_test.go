package generate

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"football-tips-bot/internal/api"
	"football-tips-bot/internal/markets"
	"football-tips-bot/internal/tickets"
)

func fixture(id, leagueID int, status string) api.Fixture {
	return api.Fixture{
		Fixture: api.FixtureInfo{
			ID:     id,
			Date:   "2026-09-01T18:00:00+00:00",
			Status: api.Status{Short: status},
		},
		League: api.League{ID: leagueID, Name: "Premier League", Country: "England"},
		Teams: api.Teams{
			Home: api.Team{Name: "Home FC"},
			Away: api.Team{Name: "Away FC"},
		},
	}
}

func bookmaker(bets map[string][][2]string) []api.BookmakerOdds {
	var bms []api.Bet
	for name, values := range bets {
		bet := api.Bet{Name: name}
		for _, v := range values {
			bet.Values = append(bet.Values, api.BetValue{Value: v[0], Odd: v[1]})
		}
		bms = append(bms, bet)
	}
	return []api.BookmakerOdds{{Bookmakers: []api.Bookmaker{{Name: "Book", Bets: bms}}}}
}

type fakeFixtures struct {
	fixtures []api.Fixture
	err      error
}

func (f *fakeFixtures) FixturesByDate(date string) ([]api.Fixture, error) {
	return f.fixtures, f.err
}

type fakeRawOdds struct {
	byFixture map[int][]api.BookmakerOdds
	calls     map[int]int
}

func (f *fakeRawOdds) OddsByFixture(fixtureID int) ([]api.BookmakerOdds, error) {
	if f.calls == nil {
		f.calls = map[int]int{}
	}
	f.calls[fixtureID]++
	raw, ok := f.byFixture[fixtureID]
	if !ok {
		return nil, errors.New("no odds")
	}
	return raw, nil
}

type memStore struct {
	docs map[string][]byte
}

func newMemStore() *memStore { return &memStore{docs: map[string][]byte{}} }

func (m *memStore) Put(name string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.docs[name] = data
	return nil
}

func (m *memStore) Get(name string, out any) (bool, error) {
	data, ok := m.docs[name]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, out)
}

type fakeDigester struct {
	text string
	err  error
}

func (f *fakeDigester) DigestTickets(ts []tickets.Ticket) (string, error) {
	return f.text, f.err
}

type analyzerFunc func(f api.Fixture, odds markets.OddsMap) (any, error)

func (fn analyzerFunc) Analyze(f api.Fixture, odds markets.OddsMap) (any, error) {
	return fn(f, odds)
}

func testOptions() Options {
	return Options{
		Location:    time.UTC,
		DCMinOdd:    1.10,
		BTTSMinOdd:  1.30,
		BTTSMaxOdd:  2.10,
		MWMinOdd:    1.70,
		MWMaxOdd:    2.50,
		MaxAnalyses: 5,
		Digester:    &fakeDigester{text: "- digest"},
		Rand:        rand.New(rand.NewSource(1)),
	}
}

func TestOddsProviderMemoizes(t *testing.T) {
	raw := &fakeRawOdds{byFixture: map[int][]api.BookmakerOdds{
		1: bookmaker(map[string][][2]string{"Double Chance": {{"1X", "1.25"}}}),
	}}
	p := NewOddsProvider(raw)

	for i := 0; i < 3; i++ {
		m, err := p.OddsFor(1)
		if err != nil {
			t.Fatalf("OddsFor: %v", err)
		}
		if _, ok := m.Best(tickets.MarketDoubleChance, "1X"); !ok {
			t.Fatal("expected 1X price")
		}
	}
	if raw.calls[1] != 1 {
		t.Errorf("source called %d times, want 1", raw.calls[1])
	}
}

func TestRunBuildsSnapshotAndProducts(t *testing.T) {
	// Eight fixtures with safe double chance prices, plus BTTS pairs and
	// strong single picks for the combined-odds family.
	byFixture := map[int][]api.BookmakerOdds{}
	var fixtures []api.Fixture
	for i := 1; i <= 8; i++ {
		fixtures = append(fixtures, fixture(i, 39, "NS"))
		byFixture[i] = bookmaker(map[string][][2]string{
			"Double Chance":    {{"1X", "1.30"}, {"X2", "2.80"}},
			"Both Teams Score": {{"Yes", "1.55"}, {"No", "2.30"}},
			"Over/Under":       {{"Over 1.5", "1.28"}, {"Over 2.5", "1.90"}},
			"Match Winner":     {{"Home", "1.95"}, {"Away", "3.80"}},
		})
	}
	// A finished fixture must be filtered out before building.
	fixtures = append(fixtures, fixture(99, 39, "FT"))

	store := newMemStore()
	r := &Runner{
		Fixtures: &fakeFixtures{fixtures: fixtures},
		Odds:     NewOddsProvider(&fakeRawOdds{byFixture: byFixture}),
		Store:    store,
		Opts:     testOptions(),
	}

	res, err := r.Run("2026-09-01")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Fixtures != 8 {
		t.Errorf("playable fixtures = %d, want 8", res.Fixtures)
	}
	if res.Tickets == 0 {
		t.Fatal("expected morning tickets")
	}

	var snap tickets.FeedSnapshot
	found, err := store.Get(tickets.DocFeedSnapshot, &snap)
	if err != nil || !found {
		t.Fatalf("feed snapshot missing: found=%v err=%v", found, err)
	}
	if snap.Date != "2026-09-01" {
		t.Errorf("date = %q", snap.Date)
	}
	if snap.OpenAIAnalysis != "- digest" {
		t.Errorf("digest = %q", snap.OpenAIAnalysis)
	}
	if snap.Meta.App != "football-tips-bot" {
		t.Errorf("meta = %+v", snap.Meta)
	}
	if len(snap.Tickets) != res.Tickets {
		t.Errorf("snapshot has %d tickets, result says %d", len(snap.Tickets), res.Tickets)
	}

	var daily tickets.FeedSnapshot
	if found, _ := store.Get(tickets.DocDaily, &daily); !found {
		t.Error("daily snapshot missing")
	}

	names := map[string]bool{}
	for _, tk := range snap.Tickets {
		names[tk.Name] = true
		if tk.ID == "" {
			t.Errorf("ticket %s missing id", tk.Name)
		}
	}
	for _, want := range []string{"1x", "all_tips_2", "btts_1"} {
		if !names[want] {
			t.Errorf("missing ticket family %s in %v", want, names)
		}
	}

	// No fixture may repeat inside one ticket.
	for _, tk := range snap.Tickets {
		seen := map[int]bool{}
		for _, leg := range tk.Legs {
			if seen[leg.FixtureID] {
				t.Errorf("ticket %s repeats fixture %d", tk.Name, leg.FixtureID)
			}
			seen[leg.FixtureID] = true
		}
	}

	for _, name := range []string{
		"2plus", "2plusbtts",
		"vip3plus", "vip4plus",
		"vip3plusbtts", "vip4plusbtts",
		"vip3plusdc", "vip4plusdc",
		"vip3plusover15", "vip4plusover15",
		"vip3plusover25", "vip4plusover25",
	} {
		var doc tickets.TicketsDoc
		found, err := store.Get(name, &doc)
		if err != nil || !found {
			t.Errorf("product %s missing: found=%v err=%v", name, found, err)
			continue
		}
		if doc.Date != "2026-09-01" || len(doc.Tickets) != 1 {
			t.Errorf("product %s = %+v", name, doc)
		}
	}

	var dcDoc tickets.LegsDoc
	if found, _ := store.Get("dc", &dcDoc); !found || len(dcDoc.Legs) != 8 {
		t.Errorf("dc legs doc = found=%v legs=%d", found, len(dcDoc.Legs))
	}
	var over15Doc tickets.LegsDoc
	if found, _ := store.Get("over15", &over15Doc); !found || len(over15Doc.Legs) != 8 {
		t.Errorf("over15 doc = found=%v legs=%d", found, len(over15Doc.Legs))
	}
	var over25Doc tickets.LegsDoc
	if found, _ := store.Get("over25", &over25Doc); !found || len(over25Doc.Legs) != 0 {
		// Over 1.5 is offered everywhere so the lower line always wins.
		t.Errorf("over25 doc = found=%v legs=%d", found, len(over25Doc.Legs))
	}

	var runLog tickets.RunLog
	if found, _ := store.Get("log", &runLog); !found {
		t.Fatal("run log missing")
	}
	if runLog.Counts["dc_legs"] != 8 || runLog.Counts["btts_legs"] != 8 {
		t.Errorf("counts = %v", runLog.Counts)
	}
	if runLog.GeneratedAt == "" {
		t.Error("generated_at empty")
	}
}

func TestRunAnalysisProducts(t *testing.T) {
	byFixture := map[int][]api.BookmakerOdds{}
	var fixtures []api.Fixture
	for i := 1; i <= 3; i++ {
		fixtures = append(fixtures, fixture(i, 39, "NS"))
		byFixture[i] = bookmaker(map[string][][2]string{
			"Double Chance": {{"1X", "1.30"}},
		})
	}

	opts := testOptions()
	opts.MaxAnalyses = 2
	opts.Analyzer = analyzerFunc(func(f api.Fixture, odds markets.OddsMap) (any, error) {
		return map[string]string{"title": "Preview"}, nil
	})

	store := newMemStore()
	r := &Runner{
		Fixtures: &fakeFixtures{fixtures: fixtures},
		Odds:     NewOddsProvider(&fakeRawOdds{byFixture: byFixture}),
		Store:    store,
		Opts:     opts,
	}
	if _, err := r.Run("2026-09-01"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var free tickets.LegsDoc
	if found, _ := store.Get("single_analysis", &free); !found || len(free.Legs) != 1 {
		t.Errorf("single_analysis = found=%v legs=%d", found, len(free.Legs))
	}
	var vip tickets.LegsDoc
	if found, _ := store.Get("vipsingle_analysis", &vip); !found || len(vip.Legs) != 2 {
		t.Errorf("vipsingle_analysis = found=%v legs=%d", found, len(vip.Legs))
	}
	if vip.Legs[0].Market != tickets.MarketAnalysis || vip.Legs[0].Odd != 1.00 {
		t.Errorf("analysis leg = %+v", vip.Legs[0])
	}
}

func TestRunDigestFailureIsNotFatal(t *testing.T) {
	byFixture := map[int][]api.BookmakerOdds{
		1: bookmaker(map[string][][2]string{"Double Chance": {{"1X", "1.30"}}}),
	}

	opts := testOptions()
	opts.Digester = &fakeDigester{err: errors.New("quota exceeded")}

	store := newMemStore()
	r := &Runner{
		Fixtures: &fakeFixtures{fixtures: []api.Fixture{fixture(1, 39, "NS")}},
		Odds:     NewOddsProvider(&fakeRawOdds{byFixture: byFixture}),
		Store:    store,
		Opts:     opts,
	}
	if _, err := r.Run("2026-09-01"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var snap tickets.FeedSnapshot
	if found, _ := store.Get(tickets.DocFeedSnapshot, &snap); !found {
		t.Fatal("feed snapshot missing")
	}
	if snap.OpenAIAnalysis == "" {
		t.Error("expected placeholder digest text")
	}
}

func TestRunFixtureFetchError(t *testing.T) {
	r := &Runner{
		Fixtures: &fakeFixtures{err: errors.New("api down")},
		Odds:     NewOddsProvider(&fakeRawOdds{}),
		Store:    newMemStore(),
		Opts:     testOptions(),
	}
	if _, err := r.Run("2026-09-01"); err == nil {
		t.Fatal("expected error")
	}
}
