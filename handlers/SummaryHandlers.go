package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/utils"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// GetJobSummary returns the project-wide completion summary
// @Summary Job summary
// @Description Total tender hours, recovered hours, sub-contracted cable deduction, net recovered hours and global percent complete
// @Tags Summary
// @Produce json
// @Param job_no path string true "Job number"
// @Success 200 {object} models.JobSummary
// @Failure 500 {object} models.ErrorResponse
// @Router /api/summary/{job_no} [get]
func GetJobSummary(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		summary, err := repository.Summary(ctx, db, jobNo)
		if err != nil {
			log.Printf("Summary failed for %s: %v", jobNo, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary"})
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}

// GetDashboard bundles the summary with the per-area breakdown. The two
// rollups are independent reads and are fetched concurrently.
// @Summary Job dashboard
// @Tags Summary
// @Produce json
// @Param job_no path string true "Job number"
// @Success 200 {object} models.DashboardResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/dashboard/{job_no} [get]
func GetDashboard(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		var (
			summary models.JobSummary
			byArea  []models.RollupRow
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			summary, err = repository.Summary(gctx, db, jobNo)
			return err
		})
		g.Go(func() error {
			var err error
			byArea, err = repository.Rollup(gctx, db, jobNo, repository.GroupByArea, repository.Filter{}, 2)
			return err
		})
		if err := g.Wait(); err != nil {
			log.Printf("Dashboard failed for %s: %v", jobNo, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
			return
		}

		c.JSON(http.StatusOK, models.DashboardResponse{
			Summary: summary,
			ByArea:  rollupForDisplay(byArea),
		})
	}
}
