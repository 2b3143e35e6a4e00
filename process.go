// Package tonedetect ingests a recorded radio clip, extracts paging-tone
// signatures, matches them against a configured profile catalog with
// per-stream cooldown suppression, trims the audio around what fired,
// and hands the resulting segments to the notification dispatcher.
//
// Usage:
//
//	deps := tonedetect.Deps{
//	    Codec:      ffmpeg.New(),
//	    Store:      cooldown.NewStore(),
//	    Catalog:    catalog,
//	    Dispatcher: notify.NewDispatcher(sinks...),
//	    SplitJoin:  splitjoin.New(10 * time.Minute),
//	    WorkDir:    "/var/lib/tonedetect",
//	}
//
//	result, err := tonedetect.Process(ctx, deps, audioBlob, "mp3", metadata, "dispatch-a", tonedetect.DefaultOptions())
//	if errors.Is(err, faults.ErrPending) {
//	    // clip buffered, awaiting a follow-up for the same talkgroup
//	}
package tonedetect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/icad-go/tonedetect/internal/catalog"
	"github.com/icad-go/tonedetect/internal/codec"
	"github.com/icad-go/tonedetect/internal/cooldown"
	"github.com/icad-go/tonedetect/internal/dtmf"
	"github.com/icad-go/tonedetect/internal/faults"
	"github.com/icad-go/tonedetect/internal/frontend"
	"github.com/icad-go/tonedetect/internal/match"
	"github.com/icad-go/tonedetect/internal/notify"
	"github.com/icad-go/tonedetect/internal/segment"
	"github.com/icad-go/tonedetect/internal/splitjoin"
	"github.com/icad-go/tonedetect/internal/toneseq"
	"github.com/icad-go/tonedetect/internal/types"
)

// Deps collects every collaborator the orchestrator consumes.
// Dispatcher and SplitJoin may be nil to disable notification fan-out or
// split-join buffering respectively.
type Deps struct {
	Codec      codec.AudioCodec
	Store      *cooldown.Store
	Catalog    catalog.ProfileCatalog
	Dispatcher *notify.Dispatcher
	SplitJoin  *splitjoin.Buffer
	WorkDir    string
}

// allowedExtensions is the ingest allow list.
var allowedExtensions = map[string]bool{"mp3": true, "wav": true, "m4a": true}

// Process runs the end-to-end detection pipeline for one clip: decode,
// extract tones, assemble a DetectionResult, match against the stream's
// profiles with cooldown enforcement, and, if anything fired, trim and
// dispatch segments.
//
// A clip shorter than MinimumAudioLengthS is rejected with faults.ErrTooShort.
// A clip with no tone detections is, if split-join is enabled, buffered
// under its talkgroup_id and reported as faults.ErrPending.
func Process(
	ctx context.Context,
	deps Deps,
	audioBlob []byte,
	ext string,
	metadata types.Metadata,
	streamScope string,
	opts Options,
) (*types.DetectionResult, error) {
	if streamScope == "" {
		return nil, errors.New("stream scope must not be empty")
	}

	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %q", faults.ErrUnsupportedFormat, ext)
	}

	samples, err := deps.Codec.DecodeMonoF32(ctx, audioBlob, ext, frontend.DefaultSampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", faults.ErrDecode, err)
	}

	now := time.Now()

	if deps.SplitJoin != nil {
		if buffered, ok := deps.SplitJoin.Take(metadata.TalkgroupID, now); ok {
			samples = splitjoin.Join(buffered.Samples, buffered.SampleRate, samples)
		}
	}

	duration := float64(len(samples)) / float64(frontend.DefaultSampleRate)
	if duration < MinimumAudioLengthS {
		return nil, fmt.Errorf("%w: %.2fs", faults.ErrTooShort, duration)
	}

	detection := extractTones(samples, frontend.DefaultSampleRate, duration, opts)
	detection.StartedAt = now
	detection.Metadata = metadata

	if detection.Empty() {
		if deps.SplitJoin != nil && opts.SplitJoinEnabled {
			deps.SplitJoin.Put(metadata.TalkgroupID, samples, frontend.DefaultSampleRate, now)

			return &detection, faults.ErrPending
		}

		return &detection, nil
	}

	if deps.SplitJoin != nil {
		deps.SplitJoin.Clear(metadata.TalkgroupID)
	}

	profiles := deps.Catalog.ListProfiles(streamScope)
	detection.Matches = match.Match(deps.Store, streamScope, detection.QuickCalls, profiles, now)

	if !detection.HasNonSuppressedMatch() {
		return &detection, nil
	}

	sourcePath, err := persistClip(deps.WorkDir, audioBlob, ext, now)
	if err != nil {
		return &detection, fmt.Errorf("persisting clip: %w", err)
	}

	segments, err := segment.Build(ctx, deps.Codec, sourcePath, detection, deps.WorkDir, opts.Segment)
	if err != nil {
		slog.Warn("segment build failed", "error", err)
	}

	detection.Segments = segments

	if deps.Dispatcher != nil {
		for _, seg := range segments {
			deps.Dispatcher.Dispatch(ctx, seg)
		}
	}

	return &detection, nil
}

// extractTones runs C2 through C5 over one decoded clip. C4 and C5 are
// independent of each other; C3 must finish first to supply C4's
// excluded-frequency set.
func extractTones(samples []float32, sampleRate int, duration float64, opts Options) types.DetectionResult {
	track := frontend.Analyze(samples, sampleRate, duration)

	runs := toneseq.Group(track, opts.Toneseq.ThresholdPercent)
	quickCalls := toneseq.ClassifyQuickCall(runs, opts.Toneseq)
	longTones := toneseq.ClassifyLong(runs, quickCalls, opts.Toneseq, len(track.Frequencies), duration)
	hiLowTones := toneseq.ClassifyHiLow(track, opts.Toneseq)
	dtmfTones := dtmf.Detect(samples, sampleRate, opts.DTMF)

	return types.DetectionResult{
		QuickCalls: quickCalls,
		LongTones:  longTones,
		HiLowTones: hiLowTones,
		DtmfTones:  dtmfTones,
	}
}

// persistClip writes the full clip to the working directory so the
// segmenter has a source path to extract from.
func persistClip(workDir string, audioBlob []byte, ext string, at time.Time) (string, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil { //nolint:gosec // shared working directory
		return "", err
	}

	path := filepath.Join(workDir, fmt.Sprintf("clip_%s.%s", at.Format("20060102_150405"), ext))

	return path, os.WriteFile(path, audioBlob, 0o644) //nolint:gosec // not a sensitive artifact
}
