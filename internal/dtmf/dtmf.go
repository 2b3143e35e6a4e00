// Package dtmf implements the DTMF detector: a windowed FFT scan for
// the 16 standard telephone-keypad tones, coalescing consecutive
// same-key frames into one detection per sustained keypress. Unlike the
// signal frontend (internal/frontend), it applies no Hann window: each
// short, non-overlapping frame, suited to DTMF's ~100ms digit cadence, is
// transformed as is.
package dtmf

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/icad-go/tonedetect/internal/dtmftable"
	"github.com/icad-go/tonedetect/internal/types"
)

// Options holds the DTMF detector's tunables.
type Options struct {
	PrecisionS     float64 // window size in seconds, default 0.04
	FreqErrorHz    float64 // row/col snap tolerance, default 20
	CoalesceGapMs  float64 // max span between frames in one group, default 250
	MinGroupFrames int     // min frames to accept a coalesced group, default 4
}

// DefaultOptions returns the recommended defaults.
func DefaultOptions() Options {
	return Options{
		PrecisionS:     0.04,
		FreqErrorHz:    20,
		CoalesceGapMs:  250,
		MinGroupFrames: 4,
	}
}

const (
	lowBandMax  = 1050
	highBandMin = 1100
	highBandMax = 2000
)

type frame struct {
	key  rune
	tMs  float64
}

// Detect scans samples (mono, sampleRate Hz) for DTMF digits.
func Detect(samples []float32, sampleRate int, opts Options) []types.Dtmf {
	windowSamples := int(opts.PrecisionS * float64(sampleRate))
	if windowSamples <= 0 || len(samples) < windowSamples {
		return nil
	}

	fft := fourier.NewFFT(windowSamples)
	binHz := float64(sampleRate) / float64(windowSamples)
	windowed := make([]float64, windowSamples)

	var frames []frame

	numWindows := len(samples) / windowSamples

	for w := range numWindows {
		start := w * windowSamples
		for i := range windowSamples {
			windowed[i] = float64(samples[start+i])
		}

		coeffs := fft.Coefficients(nil, windowed)

		lowFreq, lowOk := peakInBand(coeffs, binHz, 0, lowBandMax)
		highFreq, highOk := peakInBand(coeffs, binHz, highBandMin, highBandMax)

		if !lowOk || !highOk {
			continue
		}

		row, rowOk := dtmftable.NearestRow(lowFreq, opts.FreqErrorHz)
		col, colOk := dtmftable.NearestCol(highFreq, opts.FreqErrorHz)

		if !rowOk || !colOk {
			continue
		}

		key, ok := dtmftable.Key(row, col)
		if !ok {
			continue
		}

		tMs := float64(start) / float64(sampleRate) * 1000

		frames = append(frames, frame{key: key, tMs: tMs})
	}

	return coalesce(frames, opts)
}

// peakInBand returns the frequency of the strongest bin within [lo, hi] Hz.
func peakInBand(coeffs []complex128, binHz, lo, hi float64) (float64, bool) {
	bestBin := -1
	bestMag := 0.0

	for b, c := range coeffs {
		f := float64(b) * binHz
		if f < lo || f > hi {
			continue
		}

		mag := math.Hypot(real(c), imag(c))
		if mag > bestMag {
			bestMag = mag
			bestBin = b
		}
	}

	if bestBin < 0 {
		return 0, false
	}

	return float64(bestBin) * binHz, true
}

// coalesce groups consecutive same-key frames whose span is within the
// configured gap, emitting one Dtmf per group of sufficient size.
func coalesce(frames []frame, opts Options) []types.Dtmf {
	var out []types.Dtmf

	i := 0
	for i < len(frames) {
		j := i + 1
		for j < len(frames) &&
			frames[j].key == frames[i].key &&
			frames[j].tMs-frames[i].tMs <= opts.CoalesceGapMs {
			j++
		}

		groupLen := j - i
		if groupLen >= opts.MinGroupFrames {
			out = append(out, types.Dtmf{
				Key:        frames[i].key,
				StartTimeS: frames[i].tMs / 1000,
			})
		}

		i = j
	}

	return out
}
