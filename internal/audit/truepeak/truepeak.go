// Package truepeak implements a 4x-oversampled true-peak meter (ITU-R
// BS.1770), catching inter-sample peaks a plain sample-peak scan misses.
package truepeak

import (
	"math"

	"github.com/icad-go/tonedetect/internal/types"
)

const (
	oversample   = 4  // 4x oversampling per ITU-R BS.1770
	tapsPerPhase = 12 // filter taps per phase
	totalTaps    = oversample * tapsPerPhase
)

// Polyphase filter coefficients for 4x oversampling, generated from a
// windowed sinc with a Kaiser window (beta=5), lowpass at the original
// signal's Nyquist frequency.
var polyphaseCoeffs [oversample][tapsPerPhase]float64

func init() {
	beta := 5.0

	for phase := range oversample {
		for tap := range tapsPerPhase {
			n := tap*oversample + phase
			center := float64(totalTaps-1) / 2.0

			x := float64(n) - center

			var sinc float64
			if math.Abs(x) < 1e-10 {
				sinc = 1.0
			} else {
				sinc = math.Sin(math.Pi*x/float64(oversample)) / (math.Pi * x / float64(oversample))
			}

			alpha := (float64(n) - center) / center
			if math.Abs(alpha) <= 1.0 {
				window := bessel0(beta*math.Sqrt(1-alpha*alpha)) / bessel0(beta)
				polyphaseCoeffs[phase][tap] = sinc * window * float64(oversample)
			}
		}
	}

	for phase := range oversample {
		var sum float64
		for tap := range tapsPerPhase {
			sum += polyphaseCoeffs[phase][tap]
		}

		for tap := range tapsPerPhase {
			polyphaseCoeffs[phase][tap] /= sum
		}
	}
}

// bessel0 is the modified Bessel function of the first kind, order 0.
func bessel0(x float64) float64 {
	sum := 1.0
	term := 1.0

	for k := 1; k <= 25; k++ {
		term *= (x * x) / (4.0 * float64(k) * float64(k))
		sum += term

		if term < 1e-12 {
			break
		}
	}

	return sum
}

// Detect runs a true-peak measurement over mono PCM samples already
// normalized to the -1..1 float range.
func Detect(samples []float32, sampleRate int) *types.TruePeakResult {
	history := make([]float64, tapsPerPhase)

	var (
		truePeak    float64
		totalFrames uint64
	)

	for _, s := range samples {
		copy(history[0:], history[1:])
		history[tapsPerPhase-1] = float64(s)

		for phase := range oversample {
			var interp float64
			for tap := range tapsPerPhase {
				interp += history[tap] * polyphaseCoeffs[phase][tap]
			}

			if absInterp := math.Abs(interp); absInterp > truePeak {
				truePeak = absInterp
			}
		}

		totalFrames++
	}

	truePeakDb := -120.0
	if truePeak > 0 {
		truePeakDb = 20 * math.Log10(truePeak)
	}

	return &types.TruePeakResult{
		TruePeakDb: truePeakDb,
		Frames:     totalFrames,
	}
}
