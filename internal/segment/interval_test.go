package segment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icad-go/tonedetect/internal/segment"
	"github.com/icad-go/tonedetect/internal/types"
)

func qc(id uint32, start float64) types.QuickCall {
	return types.QuickCall{ToneID: id, StartTimeS: start}
}

func TestGroupQuickCallsSplitsOnGap(t *testing.T) {
	calls := []types.QuickCall{qc(1, 0), qc(2, 3), qc(3, 20), qc(4, 22)}

	groups := segment.GroupQuickCalls(calls, 6.5)

	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Len(t, groups[1], 2)
}

func TestGroupQuickCallsSortsOutOfOrderInput(t *testing.T) {
	calls := []types.QuickCall{qc(2, 20), qc(1, 0)}

	groups := segment.GroupQuickCalls(calls, 6.5)

	require.Len(t, groups, 2)
	assert.Equal(t, uint32(1), groups[0][0].ToneID)
	assert.Equal(t, uint32(2), groups[1][0].ToneID)
}

func TestGroupQuickCallsEmptyInput(t *testing.T) {
	assert.Nil(t, segment.GroupQuickCalls(nil, 6.5))
}

func TestComputeIntervalsPairwiseAndTrailing(t *testing.T) {
	opts := segment.Options{GroupGapS: 6.5, PostCutS: 5.5, PreCutS: 2.0}

	groups := [][]types.QuickCall{
		{qc(1, 0)},
		{qc(2, 30)},
		{qc(3, 60)},
	}

	intervals := segment.ComputeIntervals(groups, opts)

	require.Len(t, intervals, 2)

	assert.Equal(t, 0+opts.PostCutS, intervals[0].StartS)
	require.NotNil(t, intervals[0].EndS)
	assert.Equal(t, 30-opts.PreCutS, *intervals[0].EndS)
	assert.Equal(t, []uint32{1, 2}, intervals[0].ToneIDs)

	assert.Equal(t, 60+opts.PostCutS, intervals[1].StartS)
	assert.Nil(t, intervals[1].EndS, "the last unpaired group runs open-ended to end of file")
	assert.Equal(t, []uint32{3}, intervals[1].ToneIDs)
}

func TestComputeIntervalsDegenerateSafetyClamp(t *testing.T) {
	opts := segment.Options{GroupGapS: 6.5, PostCutS: 5.5, PreCutS: 2.0}

	var groups [][]types.QuickCall
	for i := range 10 {
		groups = append(groups, []types.QuickCall{qc(uint32(i), float64(i)*30)}) //nolint:gosec // small test index
	}

	intervals := segment.ComputeIntervals(groups, opts)

	require.Len(t, intervals, 1, "more than maxIntervals collapses to one lead-in interval")
	assert.Equal(t, 0.0, intervals[0].StartS)
	require.NotNil(t, intervals[0].EndS)
	assert.Equal(t, groups[0][0].StartTimeS, *intervals[0].EndS)
}

func TestComputeIntervalsEmptyGroups(t *testing.T) {
	assert.Nil(t, segment.ComputeIntervals(nil, segment.DefaultOptions()))
}
