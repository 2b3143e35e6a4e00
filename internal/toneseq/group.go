package toneseq

import (
	"math"

	"github.com/icad-go/tonedetect/internal/frontend"
	"github.com/icad-go/tonedetect/internal/types"
)

// Group collapses consecutive equal-within-tolerance frequencies in track
// into ordered runs. Runs of length 1 are discarded.
func Group(track *frontend.Track, thresholdPercent float64) []types.FrequencyRun {
	d := track.Frequencies
	frameCount := len(d)

	if frameCount == 0 {
		return nil
	}

	var runs []types.FrequencyRun

	startIdx := 0
	current := []float64{d[0]}

	flush := func(idx int) {
		if len(current) >= 2 {
			runs = append(runs, types.FrequencyRun{
				StartTimeS:  startTime(startIdx, frameCount, track.FileDuration),
				Frequencies: append([]float64(nil), current...),
			})
		}

		_ = idx
	}

	for i := 1; i < frameCount; i++ {
		prev := d[i-1]
		if math.Abs(d[i]-prev) <= prev*thresholdPercent/100 {
			current = append(current, d[i])

			continue
		}

		flush(i)
		startIdx = i
		current = []float64{d[i]}
	}

	flush(frameCount)

	return runs
}

// startTime converts a frame index to seconds: start_idx * file_duration_s / F.
func startTime(startIdx, frameCount int, fileDuration float64) float64 {
	if frameCount == 0 {
		return 0
	}

	return float64(startIdx) * fileDuration / float64(frameCount)
}

// perFrameDuration is the same per-frame duration basis used for
// start_time_s, reused to derive a run's end time.
func perFrameDuration(frameCount int, fileDuration float64) float64 {
	if frameCount == 0 {
		return 0
	}

	return fileDuration / float64(frameCount)
}
