// Package toneseq implements the frequency grouper and the
// quick-call, long-tone, and hi-low classifiers: everything that
// turns a dominant-frequency track into tone detections, short of DTMF
// (package internal/dtmf handles that one separately, since it works off
// raw samples rather than the track).
package toneseq

// Options holds every classifier tunable exposed to callers rather than
// hard-coded.
type Options struct {
	// ThresholdPercent is the frequency grouper's tolerance, default 2.
	ThresholdPercent float64

	// QCIIMinRunFrames is the minimum run length (in STFT frames) for a run
	// to even be considered by the Quick-Call classifier, default 8.
	QCIIMinRunFrames int

	// QCIIAMaxFrames is the max length of the "A" (first) tone run for a
	// Quick-Call pair, default 12 (~1.2s at 100ms hop).
	QCIIAMaxFrames int

	// QCIIBMinFrames is the min length of the "B" (second) tone run,
	// default 28 (~2.8s at 100ms hop).
	QCIIBMinFrames int

	// LongRunFrames is the minimum run length for a long tone, default 15.
	LongRunFrames int

	// LongMinFreqHz excludes sub-audible/DC artifacts from long-tone
	// detection, default 250.
	LongMinFreqHz float64

	// HiLowBucketGapS is the max gap between consecutive points to stay in
	// the same hi-low bucket, default 0.35s.
	HiLowBucketGapS float64

	// HiLowMinPoints is the minimum bucket size for a hi-low candidate,
	// default 6.
	HiLowMinPoints int
}

// DefaultOptions returns the recommended defaults.
func DefaultOptions() Options {
	return Options{
		ThresholdPercent: 2,
		QCIIMinRunFrames: 8,
		QCIIAMaxFrames:   12,
		QCIIBMinFrames:   28,
		LongRunFrames:    15,
		LongMinFreqHz:    250,
		HiLowBucketGapS:  0.35,
		HiLowMinPoints:   6,
	}
}
