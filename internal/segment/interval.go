// Package segment implements the audio segmenter: grouping Quick-Call
// tones by time, computing trim intervals around each group boundary, and
// driving the audio-codec collaborator through extract/filter/normalize
// for each resulting segment.
package segment

import (
	"slices"

	"github.com/icad-go/tonedetect/internal/types"
)

// Interval is one computed trim window; a nil EndS runs to end of file.
type Interval struct {
	StartS  float64
	EndS    *float64
	ToneIDs []uint32
}

// maxIntervals is the safety clamp: beyond this many computed
// intervals, the audio is considered degenerate and collapsed to one
// pre-tones lead-in interval.
const maxIntervals = 4

// GroupQuickCalls sorts quickCalls by start time and splits them into
// groups separated by more than groupGapS.
func GroupQuickCalls(quickCalls []types.QuickCall, groupGapS float64) [][]types.QuickCall {
	if len(quickCalls) == 0 {
		return nil
	}

	sorted := slices.Clone(quickCalls)
	slices.SortFunc(sorted, func(a, b types.QuickCall) int {
		switch {
		case a.StartTimeS < b.StartTimeS:
			return -1
		case a.StartTimeS > b.StartTimeS:
			return 1
		default:
			return 0
		}
	})

	var groups [][]types.QuickCall

	current := []types.QuickCall{sorted[0]}

	for i := 1; i < len(sorted); i++ {
		if sorted[i].StartTimeS-current[len(current)-1].StartTimeS <= groupGapS {
			current = append(current, sorted[i])

			continue
		}

		groups = append(groups, current)
		current = []types.QuickCall{sorted[i]}
	}

	groups = append(groups, current)

	return groups
}

// ComputeIntervals turns groups into trim intervals: pairwise
// between consecutive groups, plus a trailing open-ended interval for the
// last unpaired group, with a safety clamp for degenerate audio.
func ComputeIntervals(groups [][]types.QuickCall, opts Options) []Interval {
	if len(groups) == 0 {
		return nil
	}

	var intervals []Interval

	i := 0
	for i+1 < len(groups) {
		g0, g1 := groups[i], groups[i+1]

		start := maxStartTime(g0) + opts.PostCutS
		end := minStartTime(g1) - opts.PreCutS

		if end <= start {
			end = start + 0.1
		}

		intervals = append(intervals, Interval{
			StartS:  start,
			EndS:    &end,
			ToneIDs: toneIDs(g0, g1),
		})

		i += 2
	}

	if i < len(groups) {
		last := groups[i]
		intervals = append(intervals, Interval{
			StartS:  maxStartTime(last) + opts.PostCutS,
			EndS:    nil,
			ToneIDs: toneIDs(last),
		})
	}

	if len(intervals) > maxIntervals {
		first := groups[0]

		clampEnd := first[0].StartTimeS

		return []Interval{{
			StartS:  0,
			EndS:    &clampEnd,
			ToneIDs: toneIDs(first),
		}}
	}

	return intervals
}

func maxStartTime(group []types.QuickCall) float64 {
	max := group[0].StartTimeS
	for _, qc := range group[1:] {
		if qc.StartTimeS > max {
			max = qc.StartTimeS
		}
	}

	return max
}

func minStartTime(group []types.QuickCall) float64 {
	min := group[0].StartTimeS
	for _, qc := range group[1:] {
		if qc.StartTimeS < min {
			min = qc.StartTimeS
		}
	}

	return min
}

func toneIDs(groups ...[]types.QuickCall) []uint32 {
	var ids []uint32

	for _, group := range groups {
		for _, qc := range group {
			ids = append(ids, qc.ToneID)
		}
	}

	return ids
}
