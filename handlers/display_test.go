package handlers

import (
	"testing"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCableForDisplayScalesAllFourFields(t *testing.T) {
	cab := models.Cabsched{
		CabNum:     "C-0001",
		CabComp:    0.75,
		AGlandComp: 1,
		ZGlandComp: 0.5,
		CabTest:    0,
	}

	out := cableForDisplay(cab)

	assert.Equal(t, 75.0, out.CabComp)
	assert.Equal(t, 100.0, out.AGlandComp)
	assert.Equal(t, 50.0, out.ZGlandComp)
	assert.Equal(t, 0.0, out.CabTest)
	// input untouched
	assert.Equal(t, 0.75, cab.CabComp)
}

func TestPercentFractionRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 25, 50, 75, 100} {
		assert.Equal(t, v, fractionToPercent(percentToFraction(v)))
	}
}

func TestRollupForDisplayScalesAndRounds(t *testing.T) {
	third := 1.0 / 3.0
	rows := []models.RollupRow{
		{Ref: "P-101A", TotalHours: 18, RecoveredHours: 6, PercentComplete: &third},
		{Ref: "P-101B", TotalHours: 0, RecoveredHours: 0, PercentComplete: nil},
	}

	out := rollupForDisplay(rows)

	require.Len(t, out, 2)
	require.NotNil(t, out[0].PercentComplete)
	assert.Equal(t, 33.33, *out[0].PercentComplete)
	assert.Nil(t, out[1].PercentComplete)

	// stored rows stay in the fraction domain
	assert.Equal(t, third, *rows[0].PercentComplete)
}
