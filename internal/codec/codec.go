// Package codec declares the audio-codec collaborator: the decode,
// extract, filter, loudness measure/normalize and probe primitives the
// orchestrator and segmenter delegate all external audio-tool work to.
// None of the primitives retain state between calls.
package codec

import "context"

// LoudnessTarget is the EBU R128 target for the second loudnorm pass.
type LoudnessTarget struct {
	IntegratedLUFS float64 // I, default -16
	TruePeakDb     float64 // TP, default -1.5
	LoudnessRange  float64 // LRA, default 11
}

// DefaultLoudnessTarget returns the standard EBU R128 broadcast target.
func DefaultLoudnessTarget() LoudnessTarget {
	return LoudnessTarget{IntegratedLUFS: -16, TruePeakDb: -1.5, LoudnessRange: 11}
}

// Measurement is pass 1 of two-pass loudnorm: the measured values pass 2
// needs to hit the target precisely instead of in one lossy pass.
type Measurement struct {
	IntegratedLUFS float64
	TruePeakDb     float64
	LoudnessRange  float64
	ThresholdLUFS  float64
	TargetOffset   float64
}

// AudioCodec is the external audio-tool collaborator the core consumes.
// Implementations wrap a subprocess binary (ffmpeg) or any other
// decode/trim/filter/normalize backend.
type AudioCodec interface {
	// DecodeMonoF32 decodes raw container bytes of the given extension
	// ("mp3", "wav", "m4a") to mono float32 PCM at sampleRate Hz.
	DecodeMonoF32(ctx context.Context, raw []byte, ext string, sampleRate int) ([]float32, error)

	// Extract copies [startS, endS) from inPath into outPath. A nil endS
	// means "to end of file."
	Extract(ctx context.Context, inPath string, startS float64, endS *float64, outPath string) error

	// ApplyFilter runs an ffmpeg-style filter graph string over inPath,
	// writing the result to outPath.
	ApplyFilter(ctx context.Context, inPath, outPath, filterSpec string) error

	// Measure runs loudnorm's analysis pass, returning the values pass 2
	// needs.
	Measure(ctx context.Context, inPath string, target LoudnessTarget) (Measurement, error)

	// Loudnorm runs loudnorm's second pass against a prior Measurement,
	// writing the normalized result to outPath.
	Loudnorm(ctx context.Context, inPath, outPath string, target LoudnessTarget, measured Measurement) error

	// Probe returns the duration, in seconds, of the audio at path.
	Probe(ctx context.Context, path string) (float64, error)
}
