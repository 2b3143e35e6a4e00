package tonedetect_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tonedetect "github.com/icad-go/tonedetect"
	"github.com/icad-go/tonedetect/internal/catalog"
	"github.com/icad-go/tonedetect/internal/codec"
	"github.com/icad-go/tonedetect/internal/cooldown"
	"github.com/icad-go/tonedetect/internal/faults"
	"github.com/icad-go/tonedetect/internal/frontend"
	"github.com/icad-go/tonedetect/internal/splitjoin"
	"github.com/icad-go/tonedetect/internal/types"
)

// fakeCodec decodes to a fixed sample buffer regardless of input, so
// orchestration logic can be tested without an ffmpeg binary.
type fakeCodec struct {
	samples []float32
}

func (f fakeCodec) DecodeMonoF32(_ context.Context, _ []byte, _ string, _ int) ([]float32, error) {
	return f.samples, nil
}

func (fakeCodec) Extract(context.Context, string, float64, *float64, string) error { return nil }
func (fakeCodec) ApplyFilter(context.Context, string, string, string) error         { return nil }

func (fakeCodec) Measure(context.Context, string, codec.LoudnessTarget) (codec.Measurement, error) {
	return codec.Measurement{}, nil
}

func (fakeCodec) Loudnorm(context.Context, string, string, codec.LoudnessTarget, codec.Measurement) error {
	return nil
}

func (fakeCodec) Probe(context.Context, string) (float64, error) { return 0, nil }

func silentClip(seconds float64) []float32 {
	return make([]float32, int(float64(frontend.DefaultSampleRate)*seconds))
}

func baseDeps(t *testing.T, samples []float32) tonedetect.Deps {
	t.Helper()

	store := cooldown.NewStore()
	t.Cleanup(store.Close)

	cat, err := catalog.Load(nil)
	require.NoError(t, err)

	return tonedetect.Deps{
		Codec:     fakeCodec{samples: samples},
		Store:     store,
		Catalog:   cat,
		SplitJoin: splitjoin.New(time.Minute),
		WorkDir:   t.TempDir(),
	}
}

func TestProcessRejectsEmptyStreamScope(t *testing.T) {
	deps := baseDeps(t, silentClip(10))

	_, err := tonedetect.Process(context.Background(), deps, nil, "mp3", types.Metadata{}, "", tonedetect.DefaultOptions())
	assert.Error(t, err)
}

func TestProcessRejectsUnsupportedExtension(t *testing.T) {
	deps := baseDeps(t, silentClip(10))

	_, err := tonedetect.Process(context.Background(), deps, nil, "flac", types.Metadata{}, "default", tonedetect.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrUnsupportedFormat)
}

func TestProcessRejectsTooShortAudio(t *testing.T) {
	deps := baseDeps(t, silentClip(1))

	_, err := tonedetect.Process(context.Background(), deps, nil, "mp3", types.Metadata{}, "default", tonedetect.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrTooShort)
}

func TestProcessBuffersEmptyDetectionForSplitJoin(t *testing.T) {
	deps := baseDeps(t, silentClip(10))

	metadata := types.Metadata{TalkgroupID: 42}

	result, err := tonedetect.Process(context.Background(), deps, nil, "mp3", metadata, "default", tonedetect.DefaultOptions())
	require.ErrorIs(t, err, faults.ErrPending)
	require.NotNil(t, result)
	assert.True(t, result.Empty())

	_, buffered := deps.SplitJoin.Take(42, time.Now())
	assert.True(t, buffered, "a tone-less clip is buffered under its talkgroup_id for the next clip to join")
}

func TestProcessWithSplitJoinDisabledReturnsNoError(t *testing.T) {
	deps := baseDeps(t, silentClip(10))

	opts := tonedetect.DefaultOptions()
	opts.SplitJoinEnabled = false

	result, err := tonedetect.Process(context.Background(), deps, nil, "mp3", types.Metadata{}, "default", opts)
	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestProcessWithUnknownStreamScopeStillBuffersSilentClip(t *testing.T) {
	deps := baseDeps(t, silentClip(10))

	// Silence yields no tones, so the split-join path is taken before the
	// catalog is consulted: a stream scope with no profiles still gets the
	// pending status and no matches.
	result, err := tonedetect.Process(context.Background(), deps, nil, "mp3", types.Metadata{}, "unknown-stream", tonedetect.DefaultOptions())
	require.ErrorIs(t, err, faults.ErrPending)
	assert.Empty(t, result.Matches)
}
