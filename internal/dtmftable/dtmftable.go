// Package dtmftable holds the 16 standard DTMF keypad mappings.
package dtmftable

// LowRows are the four DTMF low-frequency row tones, Hz.
var LowRows = [4]float64{697, 770, 852, 941}

// HighCols are the four DTMF high-frequency column tones, Hz.
var HighCols = [4]float64{1209, 1336, 1477, 1633}

// keys[row][col] is the standard telephone keypad layout, including the
// military/ANSI "A-D" fourth column.
var keys = [4][4]rune{
	{'1', '2', '3', 'A'},
	{'4', '5', '6', 'B'},
	{'7', '8', '9', 'C'},
	{'*', '0', '#', 'D'},
}

// Key returns the keypad character for a given low-row/high-column pair.
// ok is false if either is not a recognized row or column index.
func Key(row, col int) (rune, bool) {
	if row < 0 || row >= len(keys) || col < 0 || col >= len(keys[0]) {
		return 0, false
	}

	return keys[row][col], true
}

// NearestRow returns the index of the low row nearest f, and whether it is
// within freqError Hz.
func NearestRow(f, freqError float64) (int, bool) {
	return nearest(LowRows[:], f, freqError)
}

// NearestCol returns the index of the high column nearest f, and whether
// it is within freqError Hz.
func NearestCol(f, freqError float64) (int, bool) {
	return nearest(HighCols[:], f, freqError)
}

func nearest(table []float64, f, freqError float64) (int, bool) {
	best := -1
	bestDelta := freqError

	for i, q := range table {
		delta := f - q
		if delta < 0 {
			delta = -delta
		}

		if delta <= bestDelta {
			best = i
			bestDelta = delta
		}
	}

	return best, best >= 0
}
