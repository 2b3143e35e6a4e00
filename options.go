package tonedetect

import (
	"time"

	"github.com/icad-go/tonedetect/internal/dtmf"
	"github.com/icad-go/tonedetect/internal/segment"
	"github.com/icad-go/tonedetect/internal/toneseq"
)

// MinimumAudioLengthS is the shortest clip the frontend will accept
// before rejecting it as "too short".
const MinimumAudioLengthS = 4.5

// Options configures one Process call end to end.
type Options struct {
	Toneseq toneseq.Options
	DTMF    dtmf.Options
	Segment segment.Options

	SplitJoinEnabled bool
	SplitJoinTTL     time.Duration
}

// DefaultOptions returns the recommended defaults for every stage.
func DefaultOptions() Options {
	return Options{
		Toneseq:          toneseq.DefaultOptions(),
		DTMF:             dtmf.DefaultOptions(),
		Segment:          segment.DefaultOptions(),
		SplitJoinEnabled: true,
		SplitJoinTTL:     10 * time.Minute,
	}
}
