// Package qcii holds the canonical Quick Call II frequency table and the
// "snap to nearest" operation the classifier uses to turn a measured
// frequency into the table entry it is standing in for.
package qcii

import "math"

// Table is the fixed, ordered set of known Quick Call II paging
// frequencies, 288.5-2573.2 Hz. Quick Call II pagers are only ever tuned
// to one of these; snapping a measured frequency onto the nearest entry
// absorbs STFT bin-width error without widening the match tolerance.
var Table = []float64{
	288.5, 296.5, 304.7, 313.0, 321.7, 330.5, 339.6, 348.9, 358.5, 368.3,
	378.4, 388.8, 399.4, 410.4, 421.6, 433.1, 444.9, 457.1, 469.6, 482.4,
	495.6, 509.1, 523.1, 537.3, 552.0, 567.1, 582.6, 598.4, 614.7, 631.5,
	648.7, 666.3, 684.4, 702.9, 722.0, 741.5, 761.6, 782.2, 803.4, 825.1,
	847.4, 870.3, 893.8, 917.9, 942.7, 968.2, 994.3, 1021.2, 1048.7, 1076.9,
	1105.9, 1135.7, 1166.2, 1197.6, 1229.7, 1262.7, 1296.6, 1331.3, 1366.9, 1403.5,
	1441.0, 1479.5, 1519.0, 1559.5, 1601.0, 1643.7, 1687.5, 1732.4, 1778.5, 1825.8,
	1874.4, 1924.3, 1975.5, 2028.2, 2082.3, 2137.9, 2195.0, 2253.6, 2313.8, 2375.7,
	2439.3, 2573.2,
}

// Snap returns the table entry minimizing |f - q|.
func Snap(f float64) float64 {
	best := Table[0]
	bestDelta := math.Abs(f - best)

	for _, q := range Table[1:] {
		delta := math.Abs(f - q)
		if delta < bestDelta {
			best = q
			bestDelta = delta
		}
	}

	return best
}

// WithinTolerance reports whether f is within tolerancePercent of its
// nearest canonical entry.
func WithinTolerance(f, tolerancePercent float64) bool {
	snapped := Snap(f)

	return math.Abs(f-snapped) <= snapped*tolerancePercent/100
}
