package qcii_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icad-go/tonedetect/internal/qcii"
)

func TestSnapExactTableEntry(t *testing.T) {
	for _, want := range qcii.Table {
		assert.Equal(t, want, qcii.Snap(want))
	}
}

func TestSnapNearestNeighbor(t *testing.T) {
	cases := []struct {
		name  string
		input float64
		want  float64
	}{
		{"just above first entry", 289.0, 288.5},
		{"just below second entry", 296.0, 296.5},
		{"midpoint rounds to lower when closer", 500.0, 495.6},
		{"far below table snaps to first entry", 10.0, 288.5},
		{"far above table snaps to last entry", 5000.0, 2573.2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, qcii.Snap(tc.input))
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	cases := []struct {
		name      string
		f         float64
		tolerance float64
		want      bool
	}{
		{"exact match", 288.5, 1.0, true},
		{"1% off within 2% tolerance", 288.5 * 1.01, 2.0, true},
		{"5% off exceeds 2% tolerance", 288.5 * 1.05, 2.0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, qcii.WithinTolerance(tc.f, tc.tolerance))
		})
	}
}
