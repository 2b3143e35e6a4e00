package dtmftable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icad-go/tonedetect/internal/dtmftable"
)

func TestKeyLayout(t *testing.T) {
	cases := []struct {
		row, col int
		want     rune
	}{
		{0, 0, '1'}, {0, 3, 'A'},
		{3, 0, '*'}, {3, 1, '0'}, {3, 2, '#'}, {3, 3, 'D'},
	}

	for _, tc := range cases {
		key, ok := dtmftable.Key(tc.row, tc.col)
		assert.True(t, ok)
		assert.Equal(t, tc.want, key)
	}
}

func TestKeyOutOfRange(t *testing.T) {
	_, ok := dtmftable.Key(-1, 0)
	assert.False(t, ok)

	_, ok = dtmftable.Key(0, 4)
	assert.False(t, ok)
}

func TestNearestRow(t *testing.T) {
	idx, ok := dtmftable.NearestRow(697, 20)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = dtmftable.NearestRow(941+15, 20)
	assert.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = dtmftable.NearestRow(1000, 20)
	assert.False(t, ok)
}

func TestNearestCol(t *testing.T) {
	idx, ok := dtmftable.NearestCol(1336, 20)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = dtmftable.NearestCol(1700, 20)
	assert.False(t, ok)
}
