package tickets

import "testing"

func res(hit, pending bool) *LegResult {
	return &LegResult{Hit: hit, Pending: pending}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		legs    []Leg
		verdict Verdict
	}{
		{
			"all hits",
			[]Leg{{Result: res(true, false)}, {Result: res(true, false)}},
			VerdictHit,
		},
		{
			"loss among hits",
			[]Leg{{Result: res(true, false)}, {Result: res(false, false)}},
			VerdictMiss,
		},
		{
			"pending without loss",
			[]Leg{{Result: res(true, false)}, {Result: res(false, true)}},
			VerdictPending,
		},
		{
			"loss dominates pending",
			[]Leg{{Result: res(false, true)}, {Result: res(false, false)}},
			VerdictMiss,
		},
		{
			"missing result counts as pending",
			[]Leg{{Result: res(true, false)}, {}},
			VerdictPending,
		},
		{
			"no legs",
			nil,
			VerdictHit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Summarize(tt.legs)
			if ev.Verdict != tt.verdict {
				t.Errorf("verdict = %s, want %s", ev.Verdict, tt.verdict)
			}
		})
	}
}

func TestSummarizeFlags(t *testing.T) {
	ev := Summarize([]Leg{
		{Result: res(true, false)},
		{Result: res(false, false)},
		{Result: res(false, true)},
	})
	if ev.AllHit {
		t.Error("AllHit should be false")
	}
	if !ev.HasLoss {
		t.Error("HasLoss should be true")
	}
	if !ev.AnyPending {
		t.Error("AnyPending should be true")
	}
}
