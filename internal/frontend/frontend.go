// Package frontend implements the signal frontend: it reduces an
// already-decoded mono audio stream to a dominant-frequency track via a
// short-time Fourier transform, one dominant bin picked per analysis
// frame instead of the whole-clip spectral shape a generic spectral
// analyzer would compute.
package frontend

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// DefaultSampleRate all clips are resampled/downmixed to.
	DefaultSampleRate = 22050

	// NFFT is the STFT window size.
	NFFT = 2048

	// TimeResolutionMs is the STFT hop, expressed as milliseconds.
	TimeResolutionMs = 100
)

// Track is the dominant-frequency track D[k], plus the frame-time base
// needed to convert a frame index into seconds.
type Track struct {
	Frequencies []float64 // D[k], Hz, rounded to 1 decimal
	SampleRate  int
	Hop         int
	FileDuration float64
}

// FrameTime returns t[k] = k * hop / sample_rate.
func (t Track) FrameTime(k int) float64 {
	return float64(k) * float64(t.Hop) / float64(t.SampleRate)
}

// hannWindow builds a symmetric Hann window of length n.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}

	return w
}

// Analyze computes the dominant-frequency track for a mono sample stream
// already at sampleRate Hz. durationS is the clip's total
// duration in seconds, used for the start-time conversion in C2.
func Analyze(samples []float32, sampleRate int, durationS float64) *Track {
	hop := sampleRate * TimeResolutionMs / 1000
	if hop <= 0 {
		hop = 1
	}

	n := len(samples)
	frameCount := 0

	if n >= NFFT {
		frameCount = (n-NFFT)/hop + 1
	}

	track := &Track{
		Frequencies:  make([]float64, 0, frameCount),
		SampleRate:   sampleRate,
		Hop:          hop,
		FileDuration: durationS,
	}

	if frameCount == 0 {
		return track
	}

	window := hannWindow(NFFT)
	fft := fourier.NewFFT(NFFT)
	binCount := NFFT/2 + 1
	binHz := float64(sampleRate) / float64(NFFT)

	windowed := make([]float64, NFFT)

	// Pass 1: per-frame magnitude spectra and the clip-wide peak magnitude,
	// so the dB conversion in pass 2 is relative to the whole clip.
	allMags := make([][]float64, frameCount)
	globalMax := 1e-20

	for k := range frameCount {
		start := k * hop
		for i := range NFFT {
			windowed[i] = float64(samples[start+i]) * window[i]
		}

		coeffs := fft.Coefficients(nil, windowed)

		frameMags := make([]float64, binCount)
		for b := range binCount {
			mag := math.Max(abs(coeffs[b]), 1e-20)
			frameMags[b] = mag

			if mag > globalMax {
				globalMax = mag
			}
		}

		allMags[k] = frameMags
	}

	// Pass 2: pick the dominant dB bin per frame, relative to globalMax.
	for k := range frameCount {
		bestBin := 0
		bestDb := -math.MaxFloat64

		for b := range binCount {
			db := 20 * math.Log10(allMags[k][b]/globalMax)
			if db > bestDb {
				bestDb = db
				bestBin = b
			}
		}

		freq := math.Round(float64(bestBin)*binHz*10) / 10
		track.Frequencies = append(track.Frequencies, freq)
	}

	return track
}

func abs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
