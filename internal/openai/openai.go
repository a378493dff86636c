// Package openai wraps the two OpenAI calls the bot makes: a narrative
// per-fixture analysis and a short digest of the day's tickets. Both
// degrade to placeholders when no API key is configured.
package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"football-tips-bot/internal/api"
	"football-tips-bot/internal/markets"
	"football-tips-bot/internal/tickets"
)

// Client calls the OpenAI chat completions API.
type Client struct {
	APIKey  string
	Model   string
	BaseURL string

	httpClient *http.Client
}

func NewClient(apiKey, model, baseURL string) *Client {
	return &Client{
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.Model,
		Temperature: 0.2,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling openai: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// Analyze produces a structured match preview for one fixture. Without a
// key it returns a placeholder payload so analysis legs still appear.
func (c *Client) Analyze(f api.Fixture, odds markets.OddsMap) (any, error) {
	if c.APIKey == "" {
		return map[string]string{"note": "OPENAI not configured"}, nil
	}

	prompt := fmt.Sprintf(
		"Make an in-depth football match analysis for %s vs %s in %s. "+
			"Use only educational and analytical wording, do not recommend betting or staking. "+
			"Focus on form, goals, BTTS tendency, over/under patterns, home/away strength. "+
			"Return JSON with keys: title, summary, safest_markets (array of strings), observations (array of strings).",
		f.Teams.Home.Name, f.Teams.Away.Name, f.League.Name)

	text, err := c.complete("Respond with a single JSON object.", prompt)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		// Model did not return valid JSON. Keep the text anyway.
		return map[string]string{"raw": text}, nil
	}
	return payload, nil
}

// DigestTickets summarizes the day's tickets in a few bullet points for
// the feed snapshot.
func (c *Client) DigestTickets(ts []tickets.Ticket) (string, error) {
	if c.APIKey == "" {
		return "OPENAI_API_KEY not set.", nil
	}

	var lines []string
	for _, t := range ts {
		name := t.Name
		if name == "" {
			name = t.Type
		}
		lines = append(lines, "Ticket: "+name)
		for _, leg := range t.Legs {
			lines = append(lines, fmt.Sprintf("- %s | %s => %s (%.2f)", leg.Teams, leg.Market, leg.Pick, leg.Odd))
		}
	}

	user := "Analyze these football betting tickets. Mention league strength and odds logic.\n" +
		strings.Join(lines, "\n")
	return c.complete("Be concise. Bullet points.", user)
}
