package handlers

import (
	"backend/repository"
	"backend/utils"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// GenerateJobPDFSummary generates a PDF progress report for a job: the
// five-figure summary followed by the per-area breakdown.
// @Summary Generate PDF progress report
// @Tags PDF
// @Produce application/pdf
// @Param job_no path string true "Job number"
// @Success 200 {file} file "PDF file"
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/export/summary_pdf/{job_no} [get]
func GenerateJobPDFSummary(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		var title string
		err := db.QueryRow("SELECT title FROM project WHERE jobno = $1", jobNo).Scan(&title)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project details"})
			return
		}

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		summary, err := repository.Summary(ctx, db, jobNo)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary"})
			return
		}
		byArea, err := repository.Rollup(ctx, db, jobNo, repository.GroupByArea, repository.Filter{}, 2)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute area rollup"})
			return
		}

		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 16)
		pdf.Cell(0, 10, fmt.Sprintf("Progress Report - %s", jobNo))
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(0, 8, title)
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 9)
		pdf.Cell(0, 8, fmt.Sprintf("Generated %s", time.Now().Format("02 Jan 2006 15:04")))
		pdf.Ln(12)

		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Summary")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)

		summaryRows := [][2]string{
			{"Total tender hours", fmt.Sprintf("%.2f", summary.TotalTenderHours)},
			{"Total recovered hours", fmt.Sprintf("%.2f", summary.TotalRecoveredHours)},
			{"Sub-contracted cable hours", fmt.Sprintf("%.2f", summary.DdtCableSubConHours)},
			{"Net hours recovered", fmt.Sprintf("%.2f", summary.NetHoursRecovered)},
			{"Overall complete", fmt.Sprintf("%.2f%%", summary.GlobalPercentComplete)},
		}
		for _, row := range summaryRows {
			pdf.CellFormat(80, 7, row[0], "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, row[1], "1", 1, "R", false, 0, "")
		}

		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "By Area")
		pdf.Ln(8)

		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(60, 7, "Area", "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, "Total Hours", "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, "Recovered", "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, "% Complete", "1", 1, "R", false, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, row := range byArea {
			area := row.Area
			if area == "" {
				area = "(unassigned)"
			}
			percent := "-"
			if row.PercentComplete != nil {
				percent = fmt.Sprintf("%.1f%%", *row.PercentComplete*100)
			}
			pdf.CellFormat(60, 7, area, "1", 0, "L", false, 0, "")
			pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", row.TotalHours), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", row.RecoveredHours), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 7, percent, "1", 1, "R", false, 0, "")
		}

		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition", fmt.Sprintf("attachment;filename=%s_summary.pdf", jobNo))

		if err := pdf.Output(c.Writer); err != nil {
			log.Printf("Failed to write PDF for %s: %v", jobNo, err)
		}
	}
}
