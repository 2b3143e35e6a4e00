// Package quality runs the segmenter's loudness measurement and post-trim
// silence sanity check directly against decoded PCM, in process, instead
// of shelling out to ffmpeg's loudnorm analysis pass for every segment.
package quality

import (
	"github.com/icad-go/tonedetect/internal/audit/loudness"
	"github.com/icad-go/tonedetect/internal/audit/silence"
	"github.com/icad-go/tonedetect/internal/audit/truepeak"
	"github.com/icad-go/tonedetect/internal/codec"
	"github.com/icad-go/tonedetect/internal/types"
)

// SampleRate is the rate segments are decoded at for measurement. It only
// needs to be high enough for an accurate true-peak reconstruction; it has
// no bearing on the sample rate of the loudnorm-normalized output file.
const SampleRate = 48000

// relativeGateLU is the BS.1770 relative gate: blocks more than 10 LU
// below the ungated mean are excluded from the integrated measurement.
const relativeGateLU = 10

// Measure runs loudness and true-peak analysis over mono PCM samples,
// producing the same fields ffmpeg's loudnorm pass 1 would,
// so the result feeds directly into AudioCodec.Loudnorm's pass 2.
func Measure(samples []float32, target codec.LoudnessTarget) codec.Measurement {
	loud := loudness.Analyze(samples, SampleRate)
	peak := truepeak.Detect(samples, SampleRate)

	return codec.Measurement{
		IntegratedLUFS: loud.IntegratedLUFS,
		TruePeakDb:     peak.TruePeakDb,
		LoudnessRange:  loud.LoudnessRange,
		ThresholdLUFS:  loud.IntegratedLUFS - relativeGateLU,
		TargetOffset:   target.IntegratedLUFS - loud.IntegratedLUFS,
	}
}

// CheckSilence runs the post-trim silence sanity check:
// a trimmed segment that is silence end to end usually means the cut
// interval missed the dispatch audio entirely.
func CheckSilence(samples []float32) *types.SilenceResult {
	return silence.Detect(samples, SampleRate, silence.DefaultOptions())
}
