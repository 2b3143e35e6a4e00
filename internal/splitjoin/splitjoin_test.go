package splitjoin_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icad-go/tonedetect/internal/splitjoin"
)

func TestTakeOnEmptyBufferMisses(t *testing.T) {
	buf := splitjoin.New(time.Minute)

	_, ok := buf.Take(123, time.Now())
	assert.False(t, ok)
}

func TestPutThenTakeRoundTrips(t *testing.T) {
	buf := splitjoin.New(time.Minute)
	now := time.Now()

	samples := []float32{0.1, 0.2, 0.3}
	buf.Put(123, samples, 48000, now)

	entry, ok := buf.Take(123, now.Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, samples, entry.Samples)
	assert.Equal(t, 48000, entry.SampleRate)
}

func TestTakeConsumesTheEntry(t *testing.T) {
	buf := splitjoin.New(time.Minute)
	now := time.Now()

	buf.Put(123, []float32{0.1}, 48000, now)
	_, ok := buf.Take(123, now)
	require.True(t, ok)

	_, ok = buf.Take(123, now)
	assert.False(t, ok, "a talkgroup's buffered entry is consumed by the first Take")
}

func TestTakeAfterTTLExpiryMisses(t *testing.T) {
	buf := splitjoin.New(5 * time.Second)
	now := time.Now()

	buf.Put(123, []float32{0.1}, 48000, now)

	_, ok := buf.Take(123, now.Add(10*time.Second))
	assert.False(t, ok)
}

func TestClearDropsPendingEntry(t *testing.T) {
	buf := splitjoin.New(time.Minute)
	now := time.Now()

	buf.Put(123, []float32{0.1}, 48000, now)
	buf.Clear(123)

	_, ok := buf.Take(123, now)
	assert.False(t, ok)
}

func TestJoinStitchesSilenceBetweenPriorAndNext(t *testing.T) {
	prior := []float32{1, 1}
	next := []float32{2, 2}

	joined := splitjoin.Join(prior, 10, next)

	require.Len(t, joined, len(prior)+2*10+len(next))
	assert.Equal(t, float32(1), joined[0])
	assert.Equal(t, float32(0), joined[2])
	assert.Equal(t, float32(2), joined[len(joined)-1])
}
