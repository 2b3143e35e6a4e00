// Package loudness implements an ITU-R BS.1770 K-weighted integrated
// loudness and loudness-range meter, run directly against the mono
// float32 samples the decoder already produced so the segmenter's
// two-pass normalization doesn't need a separate ffmpeg measurement
// pass for every clip.
package loudness

import (
	"math"
	"sort"

	"github.com/icad-go/tonedetect/internal/types"
)

// Biquad filter coefficients.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// Biquad filter state.
type biquadState struct {
	z1, z2 float64
}

func (s *biquadState) process(b *biquad, in float64) float64 {
	out := b.b0*in + s.z1
	s.z1 = b.b1*in - b.a1*out + s.z2
	s.z2 = b.b2*in - b.a2*out

	return out
}

// K-weighting filter coefficients (pre-filter high shelf + RLB high pass),
// coefficients from ITU-R BS.1770-4's analog prototype transfer functions.
func getKWeightingFilters(rate int) (pre, rlb biquad) {
	sampleRate := float64(rate)

	centerFreq := 1681.974450955533
	gainDb := 3.999843853973347
	qualityFactor := 0.7071752369554196

	bilinearK := math.Tan(math.Pi * centerFreq / sampleRate)
	headGainV := math.Pow(10, gainDb/20)
	vb := math.Pow(headGainV, 0.4996667741545416)

	gain := 1 + bilinearK/qualityFactor + bilinearK*bilinearK
	pre.b0 = (headGainV + vb*bilinearK/qualityFactor + bilinearK*bilinearK) / gain
	pre.b1 = 2 * (bilinearK*bilinearK - headGainV) / gain
	pre.b2 = (headGainV - vb*bilinearK/qualityFactor + bilinearK*bilinearK) / gain
	pre.a1 = 2 * (bilinearK*bilinearK - 1) / gain
	pre.a2 = (1 - bilinearK/qualityFactor + bilinearK*bilinearK) / gain

	centerFreq = 38.13547087602444
	qualityFactor = 0.5003270373238773

	bilinearK = math.Tan(math.Pi * centerFreq / sampleRate)

	gain = 1 + bilinearK/qualityFactor + bilinearK*bilinearK
	rlb.b0 = 1 / gain
	rlb.b1 = -2 / gain
	rlb.b2 = 1 / gain
	rlb.a1 = 2 * (bilinearK*bilinearK - 1) / gain
	rlb.a2 = (1 - bilinearK/qualityFactor + bilinearK*bilinearK) / gain

	return pre, rlb
}

// meter holds the running state for a mono BS.1770 measurement.
type meter struct {
	sampleRate int
	pre, rlb   biquad
	preState   biquadState
	rlbState   biquadState

	momentarySize int
	shortTermSize int
	hopSize       int

	momentaryBuf    []float64
	shortTermBuf    []float64
	momentaryPos    int
	shortTermPos    int
	momentarySum    float64
	shortTermSum    float64
	momentaryFilled int
	shortTermFilled int

	momentaryPowers []float64
	shortTermPowers []float64

	sampleCount int
	totalFrames uint64
}

func newMeter(sampleRate int) *meter {
	pre, rlb := getKWeightingFilters(sampleRate)

	return &meter{
		sampleRate:    sampleRate,
		pre:           pre,
		rlb:           rlb,
		momentarySize: sampleRate * 400 / 1000,
		shortTermSize: sampleRate * 3,
		hopSize:       sampleRate * 100 / 1000,
		momentaryBuf:  make([]float64, sampleRate*400/1000),
		shortTermBuf:  make([]float64, sampleRate*3),
	}
}

func (m *meter) processSample(sample float64) {
	filtered := m.preState.process(&m.pre, sample)
	filtered = m.rlbState.process(&m.rlb, filtered)
	framePower := filtered * filtered

	old := m.momentaryBuf[m.momentaryPos]
	m.momentaryBuf[m.momentaryPos] = framePower
	m.momentarySum = m.momentarySum - old + framePower
	m.momentaryPos = (m.momentaryPos + 1) % m.momentarySize

	if m.momentaryFilled < m.momentarySize {
		m.momentaryFilled++
	}

	old = m.shortTermBuf[m.shortTermPos]
	m.shortTermBuf[m.shortTermPos] = framePower
	m.shortTermSum = m.shortTermSum - old + framePower
	m.shortTermPos = (m.shortTermPos + 1) % m.shortTermSize

	if m.shortTermFilled < m.shortTermSize {
		m.shortTermFilled++
	}

	m.sampleCount++
	m.totalFrames++

	if m.sampleCount%m.hopSize == 0 {
		if m.momentaryFilled == m.momentarySize {
			m.momentaryPowers = append(m.momentaryPowers, m.momentarySum/float64(m.momentarySize))
		}

		if m.shortTermFilled == m.shortTermSize {
			m.shortTermPowers = append(m.shortTermPowers, m.shortTermSum/float64(m.shortTermSize))
		}
	}
}

func (m *meter) finalize() *types.LoudnessResult {
	return &types.LoudnessResult{
		IntegratedLUFS: calculateIntegratedLoudness(m.momentaryPowers),
		LoudnessRange:  calculateLoudnessRange(m.shortTermPowers),
		Frames:         m.totalFrames,
	}
}

// Analyze runs a K-weighted BS.1770 measurement over mono PCM samples
// already normalized to the -1..1 float range.
func Analyze(samples []float32, sampleRate int) *types.LoudnessResult {
	measurement := newMeter(sampleRate)

	for _, s := range samples {
		measurement.processSample(float64(s))
	}

	return measurement.finalize()
}

func calculateIntegratedLoudness(powers []float64) float64 {
	if len(powers) == 0 {
		return -120
	}

	var (
		sum   float64
		count int
	)

	for _, p := range powers {
		lufs := -0.691 + 10*math.Log10(p)
		if lufs > -70 {
			sum += p
			count++
		}
	}

	if count == 0 {
		return -120
	}

	ungatedMean := sum / float64(count)
	relativeThreshold := -0.691 + 10*math.Log10(ungatedMean) - 10

	sum = 0
	count = 0

	for _, p := range powers {
		lufs := -0.691 + 10*math.Log10(p)
		if lufs > relativeThreshold {
			sum += p
			count++
		}
	}

	if count == 0 {
		return -120
	}

	return -0.691 + 10*math.Log10(sum/float64(count))
}

func calculateLoudnessRange(powers []float64) float64 {
	if len(powers) < 2 {
		return 0
	}

	var lufsValues []float64

	for _, p := range powers {
		lufs := -0.691 + 10*math.Log10(p)
		if lufs > -70 {
			lufsValues = append(lufsValues, lufs)
		}
	}

	if len(lufsValues) < 2 {
		return 0
	}

	var sum float64
	for _, l := range lufsValues {
		sum += l
	}

	mean := sum / float64(len(lufsValues))
	relativeThreshold := mean - 20

	var gated []float64

	for _, l := range lufsValues {
		if l > relativeThreshold {
			gated = append(gated, l)
		}
	}

	if len(gated) < 2 {
		return 0
	}

	sort.Float64s(gated)
	low := gated[int(float64(len(gated))*0.10)]
	high := gated[int(float64(len(gated))*0.95)]

	return high - low
}
