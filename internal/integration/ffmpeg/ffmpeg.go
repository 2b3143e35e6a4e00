// Package ffmpeg is the ffmpeg-backed implementation of
// internal/codec.AudioCodec: a binary.Available lookup, a bounded
// context.WithTimeout, and fault-wrapped errors distinguishing a missing
// binary from a timeout from a nonzero exit.
package ffmpeg

import (
	"time"
)

const (
	name    = "ffmpeg"
	timeout = 60 * time.Second
)

// Codec is an internal/codec.AudioCodec backed by the ffmpeg/ffprobe
// binaries on PATH.
type Codec struct{}

// New returns a ready-to-use ffmpeg-backed codec.
func New() Codec {
	return Codec{}
}
