// Package faults defines the sentinel errors for the error kinds in
// the error taxonomy, wrapped the same way the audio-integration packages wrap
// github.com/farcloser/primordium/fault sentinels: a fixed error value,
// joined via fmt.Errorf("%w: ...", Err...) at the call site so
// errors.Is still matches through the added context.
package faults

import "errors"

var (
	// ErrUnsupportedFormat: the audio extension isn't mp3/wav/m4a.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrDecode: the audio-codec collaborator failed to decode the clip.
	ErrDecode = errors.New("audio decode failed")

	// ErrTooShort: the clip is shorter than the configured minimum.
	ErrTooShort = errors.New("clip shorter than minimum audio length")

	// ErrSegmenter: a per-segment audio operation failed. Logged, not fatal.
	ErrSegmenter = errors.New("segment processing failed")

	// ErrSink: a notification collaborator failed. Logged, not fatal.
	ErrSink = errors.New("notification sink failed")

	// ErrStore: the cooldown store is unavailable; degrade to no-cooldown.
	ErrStore = errors.New("cooldown store unavailable")

	// ErrPending: no tones found and the clip was buffered for split-join;
	// not a failure, a non-terminal status.
	ErrPending = errors.New("clip buffered pending split-join")
)
