package api

// Fixture status codes that end processing for a match. A fixture in one
// of these states is either already decided or will not be played today.
var SkipStatuses = map[string]bool{
	"FT": true, "AET": true, "PEN": true,
	"ABD": true, "AWD": true, "CANC": true,
	"POSTP": true, "PST": true, "SUSP": true,
	"INT": true, "WO": true, "LIVE": true,
}

// Final statuses a fixture can settle in.
var FinishedStatuses = map[string]bool{
	"FT": true, "AET": true, "PEN": true,
}

// AllowedLeagues is the competition allow-list for ticket generation,
// keyed by provider league ID.
var AllowedLeagues = map[int]bool{
	2: true, 3: true, 5: true, 10: true, 29: true, 30: true, 31: true, 32: true,
	33: true, 34: true, 35: true, 36: true, 37: true, 38: true, 39: true, 40: true,
	41: true, 42: true, 43: true, 44: true, 45: true, 46: true, 47: true, 48: true,
	49: true, 50: true, 51: true, 52: true, 53: true, 54: true,
	56: true, 57: true, 58: true, 59: true, 60: true, 61: true, 62: true,
	78: true, 79: true, 88: true, 89: true, 94: true,
	135: true, 136: true, 140: true, 141: true, 144: true, 197: true,
	202: true, 203: true, 207: true, 208: true, 210: true, 211: true,
	218: true, 219: true, 233: true, 244: true, 245: true, 261: true,
	268: true, 269: true, 270: true, 271: true, 272: true, 283: true,
	286: true, 287: true, 310: true, 311: true, 323: true, 329: true,
	332: true, 333: true, 340: true, 345: true, 346: true, 362: true, 365: true,
	373: true, 374: true, 389: true, 408: true, 490: true, 506: true, 536: true,
	703: true, 808: true, 848: true, 850: true, 890: true, 909: true,
	960: true, 1083: true,
}

// FilterPlayable keeps fixtures from allowed leagues that have not started,
// finished, or been called off.
func FilterPlayable(fixtures []Fixture) []Fixture {
	var kept []Fixture
	for _, f := range fixtures {
		if !AllowedLeagues[f.League.ID] {
			continue
		}
		if SkipStatuses[f.Fixture.Status.Short] {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
