package segment

// Options holds the audio segmenter's tunables.
type Options struct {
	GroupGapS   float64 // max gap between tones in one group, default 6.5
	PostCutS    float64 // trailing pad after a group's last tone, default 5.5
	PreCutS     float64 // leading pad before the next group's first tone, default 2.0
	TrimEnabled bool
	Filter      string // optional ffmpeg filter string; empty = skip
	Normalize   bool
}

// DefaultOptions returns the recommended defaults.
func DefaultOptions() Options {
	return Options{
		GroupGapS:   6.5,
		PostCutS:    5.5,
		PreCutS:     2.0,
		TrimEnabled: true,
	}
}
