// Package silence finds runs of near-silent audio in a decoded clip. The
// segmenter uses it as a post-trim sanity check: a cut interval that
// lands almost entirely in silence usually means the tone timestamps and
// the audio clock drifted apart.
package silence

import (
	"math"

	"github.com/icad-go/tonedetect/internal/types"
)

type Options struct {
	ThresholdDb   float64 // below this = silence (default -60)
	MinDurationMs int     // minimum silence run to report (default 1000)
	WindowMs      int     // RMS window size (default 50)
}

func DefaultOptions() Options {
	return Options{
		ThresholdDb:   -60.0,
		MinDurationMs: 1000,
		WindowMs:      50,
	}
}

// Detect scans mono PCM samples already normalized to the -1..1 float
// range for runs of near-silent audio.
func Detect(samples []float32, sampleRate int, opts Options) *types.SilenceResult {
	if opts.ThresholdDb == 0 {
		opts.ThresholdDb = -60.0
	}

	if opts.MinDurationMs == 0 {
		opts.MinDurationMs = 1000
	}

	if opts.WindowMs == 0 {
		opts.WindowMs = 50
	}

	windowFrames := max(sampleRate*opts.WindowMs/1000, 1)
	minSilenceFrames := uint64(sampleRate) * uint64(opts.MinDurationMs) / 1000 //nolint:gosec // positive by construction

	threshold := math.Pow(10, opts.ThresholdDb/20)

	var (
		segments     []types.SilenceSegment
		currentFrame uint64
		windowSumSq  float64
		windowCount  int
	)

	var (
		inSilence    bool
		silenceStart uint64
		silenceSumSq float64
		silenceCount uint64
	)

	processWindow := func() {
		if windowCount == 0 {
			return
		}

		rms := math.Sqrt(windowSumSq / float64(windowCount))
		isSilent := rms < threshold

		switch {
		case isSilent && !inSilence:
			inSilence = true
			silenceStart = currentFrame - uint64(windowCount) //nolint:gosec // non-negative by construction
			silenceSumSq = windowSumSq
			silenceCount = uint64(windowCount) //nolint:gosec // non-negative by construction
		case isSilent && inSilence:
			silenceSumSq += windowSumSq
			silenceCount += uint64(windowCount) //nolint:gosec // non-negative by construction
		case !isSilent && inSilence:
			silenceEnd := currentFrame - uint64(windowCount) //nolint:gosec // non-negative by construction
			silenceFrames := silenceEnd - silenceStart

			if silenceFrames >= minSilenceFrames {
				segments = append(segments, silenceSegment(silenceStart, silenceEnd, silenceSumSq, silenceCount, sampleRate))
			}

			inSilence = false
		default:
		}

		windowSumSq = 0
		windowCount = 0
	}

	for _, s := range samples {
		sample := float64(s)
		windowSumSq += sample * sample
		windowCount++
		currentFrame++

		if windowCount >= windowFrames {
			processWindow()
		}
	}

	if windowCount > 0 {
		processWindow()
	}

	if inSilence {
		silenceFrames := currentFrame - silenceStart
		if silenceFrames >= minSilenceFrames {
			segments = append(segments, silenceSegment(silenceStart, currentFrame, silenceSumSq, silenceCount, sampleRate))
		}
	}

	var totalSilence float64
	for _, seg := range segments {
		totalSilence += seg.DurationSec
	}

	return &types.SilenceResult{
		Segments:      segments,
		TotalSilence:  totalSilence,
		TotalDuration: float64(currentFrame) / float64(sampleRate),
	}
}

func silenceSegment(start, end uint64, sumSq float64, count uint64, sampleRate int) types.SilenceSegment {
	rms := math.Sqrt(sumSq / float64(count))

	db := 20 * math.Log10(rms)
	if math.IsInf(db, -1) {
		db = -120.0
	}

	frames := end - start

	return types.SilenceSegment{
		StartSec:    float64(start) / float64(sampleRate),
		EndSec:      float64(end) / float64(sampleRate),
		DurationSec: float64(frames) / float64(sampleRate),
		RmsDb:       db,
	}
}
