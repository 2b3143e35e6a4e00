package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/icad-go/tonedetect/internal/codec"
	binarypath "github.com/icad-go/tonedetect/internal/integration/binary"
)

// loudnormStats mirrors the JSON block ffmpeg's loudnorm filter prints to
// stderr in print_format=json measurement mode.
type loudnormStats struct {
	InputI            string `json:"input_i"`
	InputTP           string `json:"input_tp"`
	InputLRA          string `json:"input_lra"`
	InputThresh       string `json:"input_thresh"`
	TargetOffset      string `json:"target_offset"`
}

var loudnormJSONPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Measure runs loudnorm's first, analysis-only pass.
func (Codec) Measure(ctx context.Context, inPath string, target codec.LoudnessTarget) (codec.Measurement, error) {
	slog.Debug("ffmpeg.Measure", "in", inPath, "stage", "start")

	ffmpegPath, found := binarypath.Available(name)
	if !found {
		return codec.Measurement{}, fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	filter := fmt.Sprintf(
		"loudnorm=I=%s:TP=%s:LRA=%s:print_format=json",
		formatTarget(target.IntegratedLUFS), formatTarget(target.TruePeakDb), formatTarget(target.LoudnessRange),
	)

	cmd := exec.CommandContext(ctx, ffmpegPath, "-i", inPath, "-af", filter, "-f", "null", "-")

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && !errors.As(err, new(*exec.ExitError)) {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return codec.Measurement{}, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return codec.Measurement{}, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	match := loudnormJSONPattern.Find(stderr.Bytes())
	if match == nil {
		return codec.Measurement{}, fmt.Errorf("%w: no loudnorm stats in ffmpeg output", fault.ErrInvalidJSON)
	}

	var stats loudnormStats
	if err := json.Unmarshal(match, &stats); err != nil {
		return codec.Measurement{}, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return statsToMeasurement(stats)
}

// Loudnorm runs loudnorm's second pass against a prior Measurement,
// writing the normalized result to outPath.
func (Codec) Loudnorm(ctx context.Context, inPath, outPath string, target codec.LoudnessTarget, measured codec.Measurement) error {
	slog.Debug("ffmpeg.Loudnorm", "in", inPath, "stage", "start")

	ffmpegPath, found := binarypath.Available(name)
	if !found {
		return fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	filter := fmt.Sprintf(
		"loudnorm=I=%s:TP=%s:LRA=%s:measured_I=%s:measured_TP=%s:measured_LRA=%s:measured_thresh=%s:offset=%s:linear=true",
		formatTarget(target.IntegratedLUFS), formatTarget(target.TruePeakDb), formatTarget(target.LoudnessRange),
		formatTarget(measured.IntegratedLUFS), formatTarget(measured.TruePeakDb), formatTarget(measured.LoudnessRange),
		formatTarget(measured.ThresholdLUFS), formatTarget(measured.TargetOffset),
	)

	args := []string{"-y", "-i", inPath, "-af", filter, "-acodec", "libmp3lame", "-v", "quiet", outPath}

	return run(ctx, ffmpegPath, args)
}

func formatTarget(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func statsToMeasurement(stats loudnormStats) (codec.Measurement, error) {
	i, err := strconv.ParseFloat(stats.InputI, 64)
	if err != nil {
		return codec.Measurement{}, fmt.Errorf("%w: input_i: %w", fault.ErrInvalidJSON, err)
	}

	tp, err := strconv.ParseFloat(stats.InputTP, 64)
	if err != nil {
		return codec.Measurement{}, fmt.Errorf("%w: input_tp: %w", fault.ErrInvalidJSON, err)
	}

	lra, err := strconv.ParseFloat(stats.InputLRA, 64)
	if err != nil {
		return codec.Measurement{}, fmt.Errorf("%w: input_lra: %w", fault.ErrInvalidJSON, err)
	}

	thresh, err := strconv.ParseFloat(stats.InputThresh, 64)
	if err != nil {
		return codec.Measurement{}, fmt.Errorf("%w: input_thresh: %w", fault.ErrInvalidJSON, err)
	}

	offset, err := strconv.ParseFloat(stats.TargetOffset, 64)
	if err != nil {
		return codec.Measurement{}, fmt.Errorf("%w: target_offset: %w", fault.ErrInvalidJSON, err)
	}

	return codec.Measurement{
		IntegratedLUFS: i,
		TruePeakDb:     tp,
		LoudnessRange:  lra,
		ThresholdLUFS:  thresh,
		TargetOffset:   offset,
	}, nil
}
