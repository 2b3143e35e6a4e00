package toneseq

import (
	"github.com/icad-go/tonedetect/internal/qcii"
	"github.com/icad-go/tonedetect/internal/types"
)

// ClassifyQuickCall finds A-then-B two-tone-sequential Quick Call II pairs
// among runs, snapping each to the canonical QCII table.
func ClassifyQuickCall(runs []types.FrequencyRun, opts Options) []types.QuickCall {
	var (
		out          []types.QuickCall
		previous     *types.FrequencyRun
		nextToneID   uint32
	)

	for i := range runs {
		run := runs[i]
		if run.Len() < opts.QCIIMinRunFrames {
			continue
		}

		if previous == nil {
			previous = &runs[i]

			continue
		}

		first := run.First()
		if !qcii.WithinTolerance(first, opts.ThresholdPercent) {
			// Doesn't snap to any QCII entry: skip, keep previous.
			continue
		}

		if previous.Len() <= opts.QCIIAMaxFrames && run.Len() >= opts.QCIIBMinFrames {
			actual := [2]float64{previous.First(), first}
			exact := [2]float64{qcii.Snap(actual[0]), qcii.Snap(actual[1])}

			out = append(out, types.QuickCall{
				ToneID:     nextToneID,
				Actual:     actual,
				Exact:      exact,
				StartTimeS: previous.StartTimeS,
			})
			nextToneID++
		}

		previous = &runs[i]
	}

	return out
}
