package toneseq

import (
	"github.com/icad-go/tonedetect/internal/frontend"
	"github.com/icad-go/tonedetect/internal/types"
)

type point struct {
	t float64
	f float64
}

// ClassifyHiLow detects alternating two-frequency bursts from the raw
// per-frame (t[k], D[k]) track: points are bucketed by a
// max time gap, and a bucket of sufficient size is accepted only if it
// alternates strictly between two frequencies.
func ClassifyHiLow(track *frontend.Track, opts Options) []types.HiLowTone {
	frameCount := len(track.Frequencies)
	if frameCount == 0 {
		return nil
	}

	points := make([]point, frameCount)
	for k, f := range track.Frequencies {
		points[k] = point{t: track.FrameTime(k), f: f}
	}

	var out []types.HiLowTone

	bucket := []point{points[0]}

	flush := func() {
		if len(bucket) >= opts.HiLowMinPoints && isAlternating(bucket) {
			out = append(out, types.HiLowTone{
				Detected:   [2]float64{bucket[0].f, bucket[1].f},
				StartTimeS: bucket[0].t,
				EndTimeS:   bucket[len(bucket)-1].t,
			})
		}
	}

	for i := 1; i < len(points); i++ {
		if points[i].t-points[i-1].t <= opts.HiLowBucketGapS {
			bucket = append(bucket, points[i])

			continue
		}

		flush()

		bucket = []point{points[i]}
	}

	flush()

	return out
}

// isAlternating reports whether the first two frequencies differ and every
// D[i] == D[i+2] holds, i.e. the bucket strictly alternates x, y, x, y, ...
func isAlternating(bucket []point) bool {
	if len(bucket) < 2 || bucket[0].f == bucket[1].f {
		return false
	}

	for i := 0; i+2 < len(bucket); i++ {
		if bucket[i].f != bucket[i+2].f {
			return false
		}
	}

	return true
}
