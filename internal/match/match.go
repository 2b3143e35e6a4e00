// Package match implements the match engine: tolerance-range matching
// of extracted Quick-Call tone pairs against a profile catalog, with
// cooldown enforcement delegated to internal/cooldown and a per-clip
// exclusion list preventing the same profile from double-firing within
// one run.
package match

import (
	"time"

	"github.com/icad-go/tonedetect/internal/cooldown"
	"github.com/icad-go/tonedetect/internal/types"
)

// inRange reports whether f falls within tolerancePercent of center.
func inRange(f, center, tolerancePercent float64) bool {
	tol := tolerancePercent / 100 * center

	return f >= center-tol && f <= center+tol
}

// Match runs the tolerance-range match engine over quickCalls for every
// profile, enforcing cooldown via store and returning one MatchRecord per
// firing or suppressed match.
func Match(store *cooldown.Store, streamScope string, quickCalls []types.QuickCall, profiles []types.ToneProfile, now time.Time) []types.MatchRecord {
	excluded := make(map[string]bool)

	var out []types.MatchRecord

	for _, profile := range profiles {
		for i := range quickCalls {
			record, matched := matchOne(quickCalls, i, profile)
			if !matched {
				continue
			}

			if excluded[profile.ProfileID] {
				continue
			}

			if _, suppressed := store.Lookup(streamScope, profile.ProfileID, now); suppressed {
				record.WasSuppressed = true
				out = append(out, record)

				continue
			}

			store.Add(streamScope, types.CooldownEntry{
				ProfileID:     profile.ProfileID,
				LastDetected:  now,
				IgnoreSeconds: profile.IgnoreSeconds,
			})
			excluded[profile.ProfileID] = true

			out = append(out, record)
		}
	}

	return out
}

// matchOne tests profile against quickCalls[i], consuming quickCalls[i+1]
// for a trailing c/d pair when the profile expects one.
func matchOne(quickCalls []types.QuickCall, i int, profile types.ToneProfile) (types.MatchRecord, bool) {
	qc := quickCalls[i]

	if !inRange(qc.Actual[0], profile.ATone, profile.ToneTolerancePercent) ||
		!inRange(qc.Actual[1], profile.BTone, profile.ToneTolerancePercent) {
		return types.MatchRecord{}, false
	}

	if !profile.HasFourTone() {
		return types.MatchRecord{
			ProfileID:    profile.ProfileID,
			ProfileName:  profile.ProfileName,
			TonesMatched: []float64{qc.Actual[0], qc.Actual[1]},
			ToneIDs:      []uint32{qc.ToneID},
		}, true
	}

	if i+1 >= len(quickCalls) {
		return types.MatchRecord{}, false
	}

	next := quickCalls[i+1]

	if !inRange(next.Actual[0], profile.CTone, profile.ToneTolerancePercent) ||
		!inRange(next.Actual[1], profile.DTone, profile.ToneTolerancePercent) {
		return types.MatchRecord{}, false
	}

	return types.MatchRecord{
		ProfileID:    profile.ProfileID,
		ProfileName:  profile.ProfileName,
		TonesMatched: []float64{qc.Actual[0], qc.Actual[1], next.Actual[0], next.Actual[1]},
		ToneIDs:      []uint32{qc.ToneID, next.ToneID},
	}, true
}
