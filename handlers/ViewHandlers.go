package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/utils"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ==================== ROLLUP VIEWS ====================

// rollupForDisplay converts the engine's 0..1 percent fractions to 0..100 for
// the UI. The conversion lives here so the engine itself never leaves the
// fraction domain.
func rollupForDisplay(rows []models.RollupRow) []models.RollupRow {
	out := make([]models.RollupRow, len(rows))
	for i, row := range rows {
		out[i] = row
		if row.PercentComplete != nil {
			pct := utils.Round(*row.PercentComplete*100, 2)
			out[i].PercentComplete = &pct
		}
	}
	return out
}

// GetMainTable returns the by-Ref completion rollup of a job
// @Summary Main completion table
// @Description Per-equipment-reference rollup: total hours, recovered hours, percent complete
// @Tags Views
// @Produce json
// @Param job_no path string true "Job number"
// @Success 200 {array} models.RollupRow
// @Failure 500 {object} models.ErrorResponse
// @Router /api/main_table/{job_no} [get]
func GetMainTable(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		rows, err := repository.Rollup(ctx, db, jobNo, repository.GroupByRef, repository.Filter{}, 2)
		if err != nil {
			log.Printf("Main table rollup failed for %s: %v", jobNo, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute rollup"})
			return
		}

		c.JSON(http.StatusOK, rollupForDisplay(rows))
	}
}

// GetTenderHours returns the estimated hours per Ref
// @Summary Tender hours view
// @Tags Views
// @Produce json
// @Param job_no path string true "Job number"
// @Success 200 {array} models.TenderHoursRow
// @Failure 500 {object} models.ErrorResponse
// @Router /api/tender_hours/{job_no} [get]
func GetTenderHours(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		rows, err := repository.TenderHours(ctx, db, jobNo)
		if err != nil {
			log.Printf("Tender hours failed for %s: %v", jobNo, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute tender hours"})
			return
		}

		c.JSON(http.StatusOK, rows)
	}
}

// viewFilter builds the optional view coordinates from query parameters
func viewFilter(c *gin.Context) repository.Filter {
	return repository.Filter{
		Area:      c.Query("area"),
		Section:   c.Query("section"),
		Component: c.Query("component"),
	}
}

// GetSectionView returns the rollup grouped by section
// @Summary Section rollup view
// @Tags Views
// @Produce json
// @Param job_no path string true "Job number"
// @Param section query string false "Section filter"
// @Success 200 {array} models.RollupRow
// @Router /api/view/section/{job_no} [get]
func GetSectionView(db *sql.DB) gin.HandlerFunc {
	return viewHandler(db, repository.GroupBySection)
}

// GetAreaView returns the rollup grouped by area. Header rows (Blank/Title
// codes) are excluded so they do not dilute the percentages.
// @Summary Area rollup view
// @Tags Views
// @Produce json
// @Param job_no path string true "Job number"
// @Param area query string false "Area filter"
// @Success 200 {array} models.RollupRow
// @Router /api/view/area/{job_no} [get]
func GetAreaView(db *sql.DB) gin.HandlerFunc {
	return viewHandler(db, repository.GroupByArea)
}

// GetAreaComponentView returns the rollup grouped by area and component
// @Summary Area + component rollup view
// @Tags Views
// @Produce json
// @Param job_no path string true "Job number"
// @Param area query string false "Area filter"
// @Param component query string false "Component filter"
// @Success 200 {array} models.RollupRow
// @Router /api/view/area_component/{job_no} [get]
func GetAreaComponentView(db *sql.DB) gin.HandlerFunc {
	return viewHandler(db, repository.GroupByAreaComponent)
}

// GetAreaSectionComponentView returns the finest-grained pivot
// @Summary Area + section + component rollup view
// @Tags Views
// @Produce json
// @Param job_no path string true "Job number"
// @Param area query string false "Area filter"
// @Param section query string false "Section filter"
// @Param component query string false "Component filter"
// @Success 200 {array} models.RollupRow
// @Router /api/view/area_section_component/{job_no} [get]
func GetAreaSectionComponentView(db *sql.DB) gin.HandlerFunc {
	return viewHandler(db, repository.GroupByAreaSectionComponent)
}

// viewHandler is the shared implementation of the pivoted view endpoints.
// The view tables round to 3 places where the main table uses 2.
func viewHandler(db *sql.DB, groupBy repository.GroupBy) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		rows, err := repository.Rollup(ctx, db, jobNo, groupBy, viewFilter(c), 3)
		if err != nil {
			log.Printf("View rollup failed for %s: %v", jobNo, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute rollup"})
			return
		}

		c.JSON(http.StatusOK, rollupForDisplay(rows))
	}
}
