package toneseq

import "github.com/icad-go/tonedetect/internal/types"

// ClassifyLong emits a LongTone for every sufficiently long run whose
// frequency wasn't already claimed by a Quick-Call A/B tone. Long tones
// are deduplicated by frequency: only the first occurrence of a given
// frequency produces a record.
func ClassifyLong(runs []types.FrequencyRun, quickCalls []types.QuickCall, opts Options, frameCount int, fileDuration float64) []types.LongTone {
	excluded := make(map[float64]bool)

	for _, qc := range quickCalls {
		excluded[qc.Actual[0]] = true
		excluded[qc.Actual[1]] = true
	}

	seen := make(map[float64]bool)

	step := perFrameDuration(frameCount, fileDuration)

	var out []types.LongTone

	for _, run := range runs {
		if run.Len() < opts.LongRunFrames {
			continue
		}

		first := run.First()
		if first <= opts.LongMinFreqHz {
			continue
		}

		if excluded[first] || seen[first] {
			continue
		}

		seen[first] = true

		out = append(out, types.LongTone{
			Detected:   first,
			StartTimeS: run.StartTimeS,
			EndTimeS:   run.StartTimeS + float64(run.Len())*step,
		})
	}

	return out
}
