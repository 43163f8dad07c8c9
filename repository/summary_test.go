package repository

import (
	"backend/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pct(v float64) *float64 { return &v }

func TestSummarizeConsistency(t *testing.T) {
	rollup := []models.RollupRow{
		{Ref: "P-1", TotalHours: 100, RecoveredHours: 40, PercentComplete: pct(0.4)},
		{Ref: "P-2", TotalHours: 50.5, RecoveredHours: 25.25, PercentComplete: pct(0.5)},
	}

	summary := summarize(rollup, 12.5)

	assert.Equal(t, 150.5, summary.TotalTenderHours)
	assert.Equal(t, 65.25, summary.TotalRecoveredHours)
	assert.Equal(t, 12.5, summary.DdtCableSubConHours)
	assert.Equal(t, summary.TotalRecoveredHours-summary.DdtCableSubConHours, summary.NetHoursRecovered)
	assert.Equal(t, 43.36, summary.GlobalPercentComplete) // 65.25/150.5*100 rounded
}

func TestSummarizeEmptyJobReportsZeroPercent(t *testing.T) {
	summary := summarize(nil, 0)

	assert.Equal(t, 0.0, summary.TotalTenderHours)
	assert.Equal(t, 0.0, summary.TotalRecoveredHours)
	assert.Equal(t, 0.0, summary.NetHoursRecovered)
	// Zero tender hours reports 0%, never NaN or a division error
	assert.Equal(t, 0.0, summary.GlobalPercentComplete)
}

func TestSummarizeSubConDeductionCanExceedRecovered(t *testing.T) {
	rollup := []models.RollupRow{
		{Ref: "P-1", TotalHours: 10, RecoveredHours: 2, PercentComplete: pct(0.2)},
	}

	summary := summarize(rollup, 5)
	assert.Equal(t, -3.0, summary.NetHoursRecovered)
}
