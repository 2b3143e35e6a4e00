package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	binarypath "github.com/icad-go/tonedetect/internal/integration/binary"
	"github.com/icad-go/tonedetect/internal/integration/ffprobe"
)

// Extract copies [startS, endS) from inPath into outPath. A nil endS
// runs to end of file.
func (Codec) Extract(ctx context.Context, inPath string, startS float64, endS *float64, outPath string) error {
	slog.Debug("ffmpeg.Extract", "in", inPath, "start", startS, "stage", "start")

	ffmpegPath, found := binarypath.Available(name)
	if !found {
		return fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"-y", "-ss", strconv.FormatFloat(startS, 'f', 3, 64), "-i", inPath}
	if endS != nil {
		args = append(args, "-t", strconv.FormatFloat(*endS-startS, 'f', 3, 64))
	}

	args = append(args, "-acodec", "libmp3lame", "-v", "quiet", outPath)

	return run(ctx, ffmpegPath, args)
}

// ApplyFilter runs an ffmpeg filter graph string over inPath.
func (Codec) ApplyFilter(ctx context.Context, inPath, outPath, filterSpec string) error {
	slog.Debug("ffmpeg.ApplyFilter", "in", inPath, "filter", filterSpec, "stage", "start")

	ffmpegPath, found := binarypath.Available(name)
	if !found {
		return fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"-y", "-i", inPath, "-af", filterSpec, "-acodec", "libmp3lame", "-v", "quiet", outPath}

	return run(ctx, ffmpegPath, args)
}

// Probe returns the clip's duration in seconds, delegating to ffprobe.
func (Codec) Probe(ctx context.Context, path string) (float64, error) {
	return ffprobe.Duration(ctx, path)
}

func run(ctx context.Context, binPath string, args []string) error {
	cmd := exec.CommandContext(ctx, binPath, args...)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return nil
}
