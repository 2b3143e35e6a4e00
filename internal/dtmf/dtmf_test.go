package dtmf_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icad-go/tonedetect/internal/dtmf"
)

func dualTone(lowHz, highHz float64, sampleRate int, seconds float64) []float32 {
	n := int(float64(sampleRate) * seconds)
	samples := make([]float32, n)

	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = float32(0.5*math.Sin(2*math.Pi*lowHz*t) + 0.5*math.Sin(2*math.Pi*highHz*t))
	}

	return samples
}

func TestDetectFindsSustainedKeypress(t *testing.T) {
	const sampleRate = 8000

	samples := dualTone(770, 1336, sampleRate, 0.5) // key '5'

	detections := dtmf.Detect(samples, sampleRate, dtmf.DefaultOptions())

	require.NotEmpty(t, detections)
	assert.Equal(t, '5', detections[0].Key)
}

func TestDetectIgnoresTooShortBurst(t *testing.T) {
	const sampleRate = 8000

	opts := dtmf.DefaultOptions()
	// 3 windows' worth of audio, one less than MinGroupFrames.
	samples := dualTone(770, 1336, sampleRate, opts.PrecisionS*3)

	detections := dtmf.Detect(samples, sampleRate, opts)

	assert.Empty(t, detections)
}

func TestDetectIgnoresSilence(t *testing.T) {
	const sampleRate = 8000

	samples := make([]float32, sampleRate/2)

	detections := dtmf.Detect(samples, sampleRate, dtmf.DefaultOptions())

	assert.Empty(t, detections)
}

func TestDetectTooFewSamplesForOneWindow(t *testing.T) {
	assert.Nil(t, dtmf.Detect([]float32{0.1, 0.2}, 8000, dtmf.DefaultOptions()))
}
