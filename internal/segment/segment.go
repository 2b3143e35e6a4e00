package segment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/icad-go/tonedetect/internal/codec"
	"github.com/icad-go/tonedetect/internal/faults"
	"github.com/icad-go/tonedetect/internal/quality"
	"github.com/icad-go/tonedetect/internal/types"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// profileSlug lowercases name and replaces every run of non-alphanumeric
// characters with a single underscore.
func profileSlug(name string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// Build trims sourcePath into one output file per detected interval,
// writing segments under destDir and returning the resulting
// types.Segment records. Each segment is processed
// independently; a failure in one is logged and does not affect the
// others.
func Build(
	ctx context.Context,
	audioCodec codec.AudioCodec,
	sourcePath string,
	detection types.DetectionResult,
	destDir string,
	opts Options,
) ([]types.Segment, error) {
	groups := GroupQuickCalls(detection.QuickCalls, opts.GroupGapS)
	intervals := ComputeIntervals(groups, opts)

	if len(intervals) == 0 {
		return nil, nil
	}

	results := make([]*types.Segment, len(intervals))

	const maxConcurrent = 4

	sem := make(chan struct{}, maxConcurrent)

	var waitGroup sync.WaitGroup

	for idx, interval := range intervals {
		waitGroup.Add(1)

		go func(idx int, interval Interval) {
			defer waitGroup.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			seg, err := buildOne(ctx, audioCodec, sourcePath, interval, detection, destDir, opts)
			if err != nil {
				slog.Warn("segment build failed", "index", idx, "error", err)

				return
			}

			results[idx] = seg
		}(idx, interval)
	}

	waitGroup.Wait()

	var out []types.Segment

	for _, seg := range results {
		if seg != nil {
			out = append(out, *seg)
		}
	}

	return out, nil
}

func buildOne(
	ctx context.Context,
	audioCodec codec.AudioCodec,
	sourcePath string,
	interval Interval,
	detection types.DetectionResult,
	destDir string,
	opts Options,
) (*types.Segment, error) {
	matches := matchesForInterval(detection.Matches, interval.ToneIDs)
	if len(matches) == 0 {
		return nil, nil
	}

	tmpDir, err := os.MkdirTemp("", "tonedetect-segment-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", faults.ErrSegmenter, err)
	}

	defer os.RemoveAll(tmpDir)

	current := filepath.Join(tmpDir, "extract.mp3")

	if err := audioCodec.Extract(ctx, sourcePath, interval.StartS, interval.EndS, current); err != nil {
		return nil, fmt.Errorf("%w: extract: %w", faults.ErrSegmenter, err)
	}

	if opts.Filter != "" {
		filtered := filepath.Join(tmpDir, "filtered.mp3")
		if err := audioCodec.ApplyFilter(ctx, current, filtered, opts.Filter); err != nil {
			return nil, fmt.Errorf("%w: filter: %w", faults.ErrSegmenter, err)
		}

		current = filtered
	}

	raw, err := os.ReadFile(current) //nolint:gosec // current is our own temp-dir output
	if err != nil {
		return nil, fmt.Errorf("%w: reread: %w", faults.ErrSegmenter, err)
	}

	samples, err := audioCodec.DecodeMonoF32(ctx, raw, "mp3", quality.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: decode for measurement: %w", faults.ErrSegmenter, err)
	}

	if silenceResult := quality.CheckSilence(samples); silenceResult.MostlySilent() {
		slog.Warn("segment is mostly silence, cut interval likely missed the dispatch audio",
			"interval_start_s", interval.StartS, "total_silence_s", silenceResult.TotalSilence)
	}

	if opts.Normalize {
		target := codec.DefaultLoudnessTarget()
		measured := quality.Measure(samples, target)

		normalized := filepath.Join(tmpDir, "normalized.mp3")
		if err := audioCodec.Loudnorm(ctx, current, normalized, target, measured); err != nil {
			return nil, fmt.Errorf("%w: loudnorm: %w", faults.ErrSegmenter, err)
		}

		current = normalized
	}

	timestamp := segmentTimestamp(detection.Metadata, interval, opts)

	filename := outputFilename(matches[0].ProfileName, timestamp)
	destPath := filepath.Join(destDir, filename)

	if err := copyFile(current, destPath); err != nil {
		return nil, fmt.Errorf("%w: copy: %w", faults.ErrSegmenter, err)
	}

	seg := &types.Segment{
		LocalAudioPath:  destPath,
		Timestamp:       timestamp,
		IntervalToneIDs: interval.ToneIDs,
		Matches:         matches,
	}

	if err := writeSidecar(seg, sidecarPath(destPath)); err != nil {
		return nil, fmt.Errorf("%w: sidecar: %w", faults.ErrSegmenter, err)
	}

	return seg, nil
}

// sidecarPath swaps destPath's audio extension for ".json".
func sidecarPath(destPath string) string {
	return strings.TrimSuffix(destPath, filepath.Ext(destPath)) + ".json"
}

// writeSidecar marshals seg next to its audio file, carrying the full
// match/tone record a notification sink or later audit can read back
// without re-parsing the clip.
func writeSidecar(seg *types.Segment, path string) error {
	body, err := json.MarshalIndent(seg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, body, 0o644) //nolint:gosec // output artifact, not sensitive
}

func matchesForInterval(all []types.MatchRecord, toneIDs []uint32) []types.MatchRecord {
	want := make(map[uint32]bool, len(toneIDs))
	for _, id := range toneIDs {
		want[id] = true
	}

	var out []types.MatchRecord

	for _, m := range all {
		for _, id := range m.ToneIDs {
			if want[id] {
				out = append(out, m)

				break
			}
		}
	}

	return out
}

func outputFilename(profileName string, at time.Time) string {
	return fmt.Sprintf("%s_%s.mp3", profileSlug(profileName), at.Format("20060102_150405"))
}

func segmentTimestamp(metadata types.Metadata, interval Interval, opts Options) time.Time {
	offset := interval.StartS - opts.PostCutS
	if offset < 0 {
		offset = 0
	}

	base := time.Unix(metadata.StartTime, 0).UTC()

	return base.Add(time.Duration(offset * float64(time.Second)))
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src) //nolint:gosec // src is our own temp-dir output
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, 0o644) //nolint:gosec // output artifact, not sensitive
}
