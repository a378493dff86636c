package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(baseURL string) *FootballClient {
	rc := NewRateGatedClient(0, 5*time.Second, 3, time.Millisecond)
	return NewFootballClient(baseURL, "test-key", rc, nil)
}

func TestFixturesByDate(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures" {
			t.Errorf("Expected path /fixtures, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("date"); got != "2026-09-01" {
			t.Errorf("Expected date=2026-09-01, got %s", got)
		}
		if got := r.Header.Get("x-apisports-key"); got != "test-key" {
			t.Errorf("Expected API key header, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":[
			{"fixture":{"id":101,"date":"2026-09-01T18:00:00+00:00","status":{"short":"NS"}},
			 "league":{"id":39,"name":"Premier League","country":"England"},
			 "teams":{"home":{"id":1,"name":"Arsenal"},"away":{"id":2,"name":"Chelsea"}},
			 "goals":{"home":null,"away":null}}
		]}`))
	}))
	defer mockServer.Close()

	client := newTestClient(mockServer.URL)
	fixtures, err := client.FixturesByDate("2026-09-01")
	if err != nil {
		t.Fatalf("FixturesByDate: %v", err)
	}

	if len(fixtures) != 1 {
		t.Fatalf("got %d fixtures, want 1", len(fixtures))
	}
	f := fixtures[0]
	if f.Fixture.ID != 101 {
		t.Errorf("fixture ID = %d, want 101", f.Fixture.ID)
	}
	if f.Teams.Home.Name != "Arsenal" || f.Teams.Away.Name != "Chelsea" {
		t.Errorf("teams = %s vs %s", f.Teams.Home.Name, f.Teams.Away.Name)
	}
	if f.Goals.Home != nil {
		t.Error("goals should be nil before kickoff")
	}
}

func TestFixtureByIDNotFound(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":[]}`))
	}))
	defer mockServer.Close()

	client := newTestClient(mockServer.URL)
	fx, err := client.FixtureByID(12345)
	if err != nil {
		t.Fatalf("FixtureByID: %v", err)
	}
	if fx != nil {
		t.Errorf("expected nil fixture for empty response, got %+v", fx)
	}
}

func TestOddsByFixture(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("fixture"); got != "101" {
			t.Errorf("Expected fixture=101, got %s", got)
		}
		w.Write([]byte(`{"response":[
			{"bookmakers":[{"id":8,"name":"Bet365","bets":[
				{"id":1,"name":"Match Winner","values":[
					{"value":"Home","odd":"1.85"},
					{"value":"Draw","odd":"3.40"},
					{"value":"Away","odd":"4.20"}
				]}
			]}]}
		]}`))
	}))
	defer mockServer.Close()

	client := newTestClient(mockServer.URL)
	odds, err := client.OddsByFixture(101)
	if err != nil {
		t.Fatalf("OddsByFixture: %v", err)
	}

	if len(odds) != 1 || len(odds[0].Bookmakers) != 1 {
		t.Fatalf("unexpected odds shape: %+v", odds)
	}
	bets := odds[0].Bookmakers[0].Bets
	if len(bets) != 1 || bets[0].Name != "Match Winner" {
		t.Fatalf("unexpected bets: %+v", bets)
	}
	if bets[0].Values[0].Odd != "1.85" {
		t.Errorf("odd = %q, want string \"1.85\"", bets[0].Values[0].Odd)
	}
}

func TestMissingAPIKey(t *testing.T) {
	rc := NewRateGatedClient(0, 5*time.Second, 1, time.Millisecond)
	client := NewFootballClient("http://localhost:1", "", rc, nil)

	if _, err := client.FixturesByDate("2026-09-01"); err == nil {
		t.Error("expected error without API key")
	}
}

func TestDoRetriesServerErrors(t *testing.T) {
	attempts := 0
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"response":[]}`))
	}))
	defer mockServer.Close()

	client := newTestClient(mockServer.URL)
	if _, err := client.FixturesByDate("2026-09-01"); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRateGateSpacing(t *testing.T) {
	gate := newRateGate(20 * time.Millisecond)

	start := time.Now()
	gate.wait()
	gate.wait()
	gate.wait()
	elapsed := time.Since(start)

	if elapsed < 40*time.Millisecond {
		t.Errorf("three gated calls took %v, want at least 40ms", elapsed)
	}
}

func TestFilterPlayable(t *testing.T) {
	fixtures := []Fixture{
		{Fixture: FixtureInfo{ID: 1, Status: Status{Short: "NS"}}, League: League{ID: 39}},
		{Fixture: FixtureInfo{ID: 2, Status: Status{Short: "FT"}}, League: League{ID: 39}},
		{Fixture: FixtureInfo{ID: 3, Status: Status{Short: "NS"}}, League: League{ID: 9999}},
		{Fixture: FixtureInfo{ID: 4, Status: Status{Short: "PST"}}, League: League{ID: 140}},
		{Fixture: FixtureInfo{ID: 5, Status: Status{Short: "NS"}}, League: League{ID: 135}},
	}

	kept := FilterPlayable(fixtures)
	if len(kept) != 2 {
		t.Fatalf("kept %d fixtures, want 2", len(kept))
	}
	if kept[0].Fixture.ID != 1 || kept[1].Fixture.ID != 5 {
		t.Errorf("kept fixtures %d,%d want 1,5", kept[0].Fixture.ID, kept[1].Fixture.ID)
	}
}
