package repository

import (
	"backend/models"
	"backend/utils"
	"context"
	"database/sql"
)

// subConCableHours sums Length x base LabNorm over every cable flagged as
// installed by a sub-contractor. Completion fractions are deliberately
// ignored: this is a capacity deduction, not a recovered figure.
func subConCableHours(ctx context.Context, db *sql.DB, jobNo string) (float64, error) {
	query := `
		SELECT COALESCE(SUM(cab.length * base.labnorm), 0)
		FROM cabsched cab
		JOIN tickcabbysc t ON t.jobno = cab.jobno AND t.cabnum = cab.cabnum AND t.yn = true
		LEFT JOIN LATERAL (
			SELECT labnorm FROM components
			WHERE jobno = cab.jobno AND name = cab.cabsize
			ORDER BY id DESC LIMIT 1
		) base ON true
		WHERE cab.jobno = $1`

	var hours float64
	if err := db.QueryRowContext(ctx, query, jobNo).Scan(&hours); err != nil {
		return 0, err
	}
	return hours, nil
}

// summarize folds a by-Ref rollup and the sub-contracted deduction into the
// five-figure job summary. A job with no tender hours reports 0%, not an
// error and not NaN.
func summarize(rollup []models.RollupRow, subConHours float64) models.JobSummary {
	var total, recovered float64
	for _, row := range rollup {
		total += row.TotalHours
		recovered += row.RecoveredHours
	}

	summary := models.JobSummary{
		TotalTenderHours:    utils.Round(total, 2),
		TotalRecoveredHours: utils.Round(recovered, 2),
		DdtCableSubConHours: utils.Round(subConHours, 2),
	}
	summary.NetHoursRecovered = utils.Round(summary.TotalRecoveredHours-summary.DdtCableSubConHours, 2)
	if summary.TotalTenderHours > 0 {
		summary.GlobalPercentComplete = utils.Round(summary.TotalRecoveredHours/summary.TotalTenderHours*100, 2)
	}
	return summary
}

// Summary computes the project-wide completion summary for one job
func Summary(ctx context.Context, db *sql.DB, jobNo string) (models.JobSummary, error) {
	rollup, err := Rollup(ctx, db, jobNo, GroupByRef, Filter{}, 2)
	if err != nil {
		return models.JobSummary{}, err
	}

	subCon, err := subConCableHours(ctx, db, jobNo)
	if err != nil {
		return models.JobSummary{}, err
	}

	return summarize(rollup, subCon), nil
}
