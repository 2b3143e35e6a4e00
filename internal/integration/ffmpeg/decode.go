package ffmpeg

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	binarypath "github.com/icad-go/tonedetect/internal/integration/binary"
)

// DecodeMonoF32 decodes raw container bytes to mono float32 PCM at
// sampleRate Hz, piping bytes through ffmpeg's stdin and reading raw
// little-endian f32 samples back from stdout.
func (Codec) DecodeMonoF32(ctx context.Context, raw []byte, ext string, sampleRate int) ([]float32, error) {
	slog.Debug("ffmpeg.DecodeMonoF32", "ext", ext, "sample rate", sampleRate, "stage", "start")

	ffmpegPath, found := binarypath.Available(name)
	if !found {
		return nil, fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-f", ext,
		"-i", "-",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-f", "f32le",
		"-v", "quiet",
		"-",
	)

	cmd.Stdin = bytes.NewReader(raw)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return bytesToF32(stdout.Bytes()), nil
}

func bytesToF32(raw []byte) []float32 {
	count := len(raw) / 4
	out := make([]float32, count)

	for i := range count {
		bits := binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
		out[i] = math.Float32frombits(bits)
	}

	return out
}
