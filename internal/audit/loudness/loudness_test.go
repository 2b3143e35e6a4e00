package loudness_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icad-go/tonedetect/internal/audit/loudness"
)

func tone(amplitude float64, sampleRate int, seconds float64) []float32 {
	n := int(float64(sampleRate) * seconds)
	samples := make([]float32, n)

	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = float32(amplitude * math.Sin(2*math.Pi*1000*t))
	}

	return samples
}

func TestAnalyzeLouderSignalScoresHigher(t *testing.T) {
	const sampleRate = 48000

	quiet := loudness.Analyze(tone(0.05, sampleRate, 2), sampleRate)
	loud := loudness.Analyze(tone(0.5, sampleRate, 2), sampleRate)

	assert.Greater(t, loud.IntegratedLUFS, quiet.IntegratedLUFS)
}

func TestAnalyzeSilenceFloorsAtMinusOneTwenty(t *testing.T) {
	const sampleRate = 48000

	result := loudness.Analyze(make([]float32, sampleRate), sampleRate)

	assert.InDelta(t, -120.0, result.IntegratedLUFS, 0.01)
}
