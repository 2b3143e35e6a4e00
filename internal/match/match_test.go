package match_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icad-go/tonedetect/internal/cooldown"
	"github.com/icad-go/tonedetect/internal/match"
	"github.com/icad-go/tonedetect/internal/types"
)

func twoToneProfile() types.ToneProfile {
	return types.ToneProfile{
		ProfileID:            "engine-7",
		ProfileName:          "Engine 7",
		ATone:                600,
		BTone:                750,
		ToneTolerancePercent: 2,
		IgnoreSeconds:        300,
	}
}

func fourToneProfile() types.ToneProfile {
	p := twoToneProfile()
	p.ProfileID = "engine-7-mutual"
	p.CTone = 900
	p.DTone = 1050

	return p
}

func TestMatchTwoToneFires(t *testing.T) {
	store := cooldown.NewStore()
	defer store.Close()

	now := time.Now()
	// Actual frequencies drift slightly from the catalog's 600/750 but stay
	// within the profile's 2% tolerance.
	qc := []types.QuickCall{{ToneID: 1, Actual: [2]float64{605, 745}, StartTimeS: 0}}

	records := match.Match(store, "streamA", qc, []types.ToneProfile{twoToneProfile()}, now)

	require.Len(t, records, 1)
	assert.False(t, records[0].WasSuppressed)
	assert.Equal(t, "engine-7", records[0].ProfileID)
	assert.Equal(t, []uint32{1}, records[0].ToneIDs)
	assert.Equal(t, []float64{605, 745}, records[0].TonesMatched,
		"TonesMatched reports the detected frequencies, not the catalog's configured ones")
}

func TestMatchOutOfToleranceDoesNotFire(t *testing.T) {
	store := cooldown.NewStore()
	defer store.Close()

	qc := []types.QuickCall{{ToneID: 1, Actual: [2]float64{600 * 1.10, 750}}}

	records := match.Match(store, "streamA", qc, []types.ToneProfile{twoToneProfile()}, time.Now())

	assert.Empty(t, records)
}

func TestMatchFourToneRequiresImmediatelyNextQuickCall(t *testing.T) {
	store := cooldown.NewStore()
	defer store.Close()

	profile := fourToneProfile()

	qc := []types.QuickCall{
		{ToneID: 1, Actual: [2]float64{605, 745}},
		{ToneID: 2, Actual: [2]float64{895, 1055}},
	}

	records := match.Match(store, "streamA", qc, []types.ToneProfile{profile}, time.Now())

	require.Len(t, records, 1)
	assert.Equal(t, []uint32{1, 2}, records[0].ToneIDs)
	assert.Equal(t, []float64{605, 745, 895, 1055}, records[0].TonesMatched,
		"TonesMatched reports the detected frequencies for both quick calls, not the catalog's")
}

func TestMatchFourToneWithoutTrailingPairDoesNotFire(t *testing.T) {
	store := cooldown.NewStore()
	defer store.Close()

	profile := fourToneProfile()
	qc := []types.QuickCall{{ToneID: 1, Actual: [2]float64{600, 750}}}

	records := match.Match(store, "streamA", qc, []types.ToneProfile{profile}, time.Now())

	assert.Empty(t, records)
}

func TestMatchSecondFireWithinCooldownIsSuppressed(t *testing.T) {
	store := cooldown.NewStore()
	defer store.Close()

	profile := twoToneProfile()
	now := time.Now()
	qc := []types.QuickCall{{ToneID: 1, Actual: [2]float64{600, 750}}}

	first := match.Match(store, "streamA", qc, []types.ToneProfile{profile}, now)
	require.Len(t, first, 1)
	assert.False(t, first[0].WasSuppressed)

	second := match.Match(store, "streamA", qc, []types.ToneProfile{profile}, now.Add(10*time.Second))
	require.Len(t, second, 1)
	assert.True(t, second[0].WasSuppressed)
}

func TestMatchSameProfileDoesNotDoubleFireWithinOneClip(t *testing.T) {
	store := cooldown.NewStore()
	defer store.Close()

	profile := twoToneProfile()
	qc := []types.QuickCall{
		{ToneID: 1, Actual: [2]float64{600, 750}},
		{ToneID: 2, Actual: [2]float64{600, 750}},
	}

	records := match.Match(store, "streamA", qc, []types.ToneProfile{profile}, time.Now())

	assert.Len(t, records, 1, "a profile may only fire once per clip, even if multiple quick calls match it")
}
