package silence_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icad-go/tonedetect/internal/audit/silence"
)

func TestDetectFindsSilenceInTheMiddle(t *testing.T) {
	const sampleRate = 8000

	tone := make([]float32, sampleRate) // 1s of tone
	for i := range tone {
		t := float64(i) / sampleRate
		tone[i] = float32(0.5 * math.Sin(2*math.Pi*1000*t))
	}

	quiet := make([]float32, 2*sampleRate) // 2s of silence

	samples := append(append(append([]float32{}, tone...), quiet...), tone...)

	result := silence.Detect(samples, sampleRate, silence.DefaultOptions())

	require.Len(t, result.Segments, 1)
	assert.InDelta(t, 2.0, result.Segments[0].DurationSec, 0.1)
}

func TestDetectAllSilenceIsMostlySilent(t *testing.T) {
	result := silence.Detect(make([]float32, 48000), 48000, silence.DefaultOptions())

	assert.True(t, result.MostlySilent())
}

func TestDetectAllToneIsNotMostlySilent(t *testing.T) {
	const sampleRate = 8000

	samples := make([]float32, sampleRate)
	for i := range samples {
		t := float64(i) / sampleRate
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*1000*t))
	}

	result := silence.Detect(samples, sampleRate, silence.DefaultOptions())

	assert.False(t, result.MostlySilent())
}
