package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/icad-go/tonedetect/internal/integration/binary"
)

// Stream is the subset of ffprobe's per-stream fields the duration probe
// needs; dispatch-audio clips carry none of the tagging/codec-detail
// fields a music-library scan would care about.
type Stream struct {
	CodecType string `json:"codec_type"`
	Duration  string `json:"duration,omitempty"`
}

// Format is the subset of ffprobe's container-level fields the duration
// probe needs.
type Format struct {
	Duration string `json:"duration,omitempty"`
}

// Result contains the marshalled output of ffprobe.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Probe runs ffprobe on the given file path and returns parsed metadata.
// It requires ffprobe to be available in the system PATH.
func Probe(ctx context.Context, filePath string) (*Result, error) {
	slog.Debug("ffprobe.Probe", "file path", filePath)

	ffprobePath, found := binary.Available(name)
	if !found {
		return nil, fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // filePath is intentionally user-provided input for probing media files
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	var result Result
	if err = json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &result, nil
}

// Duration returns the clip's duration in seconds, preferring the first
// audio stream's own duration and falling back to the container's.
func Duration(ctx context.Context, filePath string) (float64, error) {
	result, err := Probe(ctx, filePath)
	if err != nil {
		return 0, err
	}

	for _, stream := range result.Streams {
		if stream.CodecType == "audio" && stream.Duration != "" {
			if d, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
				return d, nil
			}
		}
	}

	if result.Format.Duration != "" {
		if d, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil {
			return d, nil
		}
	}

	return 0, fmt.Errorf("%w: no duration reported", fault.ErrInvalidJSON)
}
