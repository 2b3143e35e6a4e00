package segment_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icad-go/tonedetect/internal/codec"
	"github.com/icad-go/tonedetect/internal/segment"
	"github.com/icad-go/tonedetect/internal/types"
)

// fakeCodec writes a fixed byte stub for every trim/filter/normalize
// step and decodes to a short silent buffer, so Build can be exercised
// without a real ffmpeg binary.
type fakeCodec struct{}

func (fakeCodec) DecodeMonoF32(context.Context, []byte, string, int) ([]float32, error) {
	return make([]float32, 48000), nil
}

func (fakeCodec) Extract(_ context.Context, _ string, _ float64, _ *float64, outPath string) error {
	return os.WriteFile(outPath, []byte("fake-audio-bytes"), 0o644)
}

func (fakeCodec) ApplyFilter(_ context.Context, inPath, outPath, _ string) error {
	return copyFixture(inPath, outPath)
}

func (fakeCodec) Measure(context.Context, string, codec.LoudnessTarget) (codec.Measurement, error) {
	return codec.Measurement{}, nil
}

func (fakeCodec) Loudnorm(_ context.Context, inPath, outPath string, _ codec.LoudnessTarget, _ codec.Measurement) error {
	return copyFixture(inPath, outPath)
}

func (fakeCodec) Probe(context.Context, string) (float64, error) { return 0, nil }

func copyFixture(src, dst string) error {
	data, err := os.ReadFile(src) //nolint:gosec // test fixture
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, 0o644)
}

func TestBuildWritesAudioAndJSONSidecar(t *testing.T) {
	destDir := t.TempDir()
	sourcePath := filepath.Join(t.TempDir(), "source.mp3")
	require.NoError(t, os.WriteFile(sourcePath, []byte("source"), 0o644))

	detection := types.DetectionResult{
		Metadata: types.Metadata{StartTime: 1700000000},
		QuickCalls: []types.QuickCall{
			{ToneID: 1, Actual: [2]float64{600, 750}, StartTimeS: 2},
		},
		Matches: []types.MatchRecord{
			{ProfileID: "engine-7", ProfileName: "Engine 7", TonesMatched: []float64{600, 750}, ToneIDs: []uint32{1}},
		},
	}

	segments, err := segment.Build(context.Background(), fakeCodec{}, sourcePath, detection, destDir, segment.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, segments, 1)

	seg := segments[0]
	assert.FileExists(t, seg.LocalAudioPath)
	assert.Equal(t, ".mp3", filepath.Ext(seg.LocalAudioPath))

	sidecarPath := seg.LocalAudioPath[:len(seg.LocalAudioPath)-len(filepath.Ext(seg.LocalAudioPath))] + ".json"
	require.FileExists(t, sidecarPath)

	body, err := os.ReadFile(sidecarPath) //nolint:gosec // test-written fixture
	require.NoError(t, err)

	var decoded types.Segment

	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, seg.LocalAudioPath, decoded.LocalAudioPath)
	assert.Equal(t, "engine-7", decoded.Matches[0].ProfileID)
}

func TestBuildWithNoQuickCallsProducesNoSegments(t *testing.T) {
	destDir := t.TempDir()
	sourcePath := filepath.Join(t.TempDir(), "source.mp3")
	require.NoError(t, os.WriteFile(sourcePath, []byte("source"), 0o644))

	segments, err := segment.Build(context.Background(), fakeCodec{}, sourcePath, types.DetectionResult{}, destDir, segment.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, segments)
}
