package handlers

import (
	"backend/repository"
	"backend/utils"
	"database/sql"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.BritishEnglish)

// ExportMainTableExcel exports the by-Ref rollup plus the pivoted views as a
// workbook with one sheet per view.
// @Summary Export rollup workbook
// @Description Export the main completion table and area/section views as XLSX
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param job_no path string true "Job number"
// @Success 200 {file} file "XLSX file"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/export/main_table/{job_no} [get]
func ExportMainTableExcel(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		byRef, err := repository.Rollup(ctx, db, jobNo, repository.GroupByRef, repository.Filter{}, 2)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute rollup"})
			return
		}
		byArea, err := repository.Rollup(ctx, db, jobNo, repository.GroupByArea, repository.Filter{}, 3)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute rollup"})
			return
		}
		bySection, err := repository.Rollup(ctx, db, jobNo, repository.GroupBySection, repository.Filter{}, 3)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute rollup"})
			return
		}

		f := excelize.NewFile()
		defer func() {
			if err := f.Close(); err != nil {
				log.Printf("Error closing Excel file: %v", err)
			}
		}()

		mainSheet := "Main Table"
		index, err := f.NewSheet(mainSheet)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating sheet"})
			return
		}
		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1")

		f.SetCellValue(mainSheet, "A1", "Ref")
		f.SetCellValue(mainSheet, "B1", "Total Hours")
		f.SetCellValue(mainSheet, "C1", "Recovered Hours")
		f.SetCellValue(mainSheet, "D1", "% Complete")
		for i, row := range rollupForDisplay(byRef) {
			r := i + 2
			f.SetCellValue(mainSheet, fmt.Sprintf("A%d", r), row.Ref)
			f.SetCellValue(mainSheet, fmt.Sprintf("B%d", r), row.TotalHours)
			f.SetCellValue(mainSheet, fmt.Sprintf("C%d", r), row.RecoveredHours)
			if row.PercentComplete != nil {
				f.SetCellValue(mainSheet, fmt.Sprintf("D%d", r), *row.PercentComplete)
			}
		}

		areaSheet := "By Area"
		if _, err := f.NewSheet(areaSheet); err == nil {
			f.SetCellValue(areaSheet, "A1", "Area")
			f.SetCellValue(areaSheet, "B1", "Total Hours")
			f.SetCellValue(areaSheet, "C1", "Recovered Hours")
			f.SetCellValue(areaSheet, "D1", "% Complete")
			for i, row := range rollupForDisplay(byArea) {
				r := i + 2
				f.SetCellValue(areaSheet, fmt.Sprintf("A%d", r), titleCaser.String(row.Area))
				f.SetCellValue(areaSheet, fmt.Sprintf("B%d", r), row.TotalHours)
				f.SetCellValue(areaSheet, fmt.Sprintf("C%d", r), row.RecoveredHours)
				if row.PercentComplete != nil {
					f.SetCellValue(areaSheet, fmt.Sprintf("D%d", r), *row.PercentComplete)
				}
			}
		}

		sectionSheet := "By Section"
		if _, err := f.NewSheet(sectionSheet); err == nil {
			f.SetCellValue(sectionSheet, "A1", "Section")
			f.SetCellValue(sectionSheet, "B1", "Total Hours")
			f.SetCellValue(sectionSheet, "C1", "Recovered Hours")
			f.SetCellValue(sectionSheet, "D1", "% Complete")
			for i, row := range rollupForDisplay(bySection) {
				r := i + 2
				f.SetCellValue(sectionSheet, fmt.Sprintf("A%d", r), titleCaser.String(row.Section))
				f.SetCellValue(sectionSheet, fmt.Sprintf("B%d", r), row.TotalHours)
				f.SetCellValue(sectionSheet, fmt.Sprintf("C%d", r), row.RecoveredHours)
				if row.PercentComplete != nil {
					f.SetCellValue(sectionSheet, fmt.Sprintf("D%d", r), *row.PercentComplete)
				}
			}
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment;filename=%s_completion.xlsx", jobNo))

		if err := f.Write(c.Writer); err != nil {
			log.Printf("Failed to write workbook for %s: %v", jobNo, err)
		}
	}
}

// ExportComponentsCSV exports the component catalog of a job as CSV
// @Summary Export components as CSV
// @Tags Export
// @Produce text/csv
// @Param job_no path string true "Job number"
// @Success 200 {file} file "CSV file"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/export/components/{job_no} [get]
func ExportComponentsCSV(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		rows, err := db.Query(`
			SELECT name, COALESCE(code, ''), labnorm, labuplift, matnorm, subconcost, subconnorm, plantcost
			FROM components
			WHERE jobno = $1
			ORDER BY name, labnorm`, jobNo)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch components"})
			return
		}
		defer rows.Close()

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment;filename=%s_components.csv", jobNo))

		writer := csv.NewWriter(c.Writer)
		defer writer.Flush()

		header := []string{"Name", "Code", "LabNorm", "LabUplift", "MatNorm", "SubConCost", "SubConNorm", "PlantCost"}
		if err := writer.Write(header); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV header"})
			return
		}

		for rows.Next() {
			var name, code string
			var labNorm, labUplift, matNorm, subConCost, subConNorm, plantCost float64
			if err := rows.Scan(&name, &code, &labNorm, &labUplift, &matNorm, &subConCost, &subConNorm, &plantCost); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reading component row"})
				return
			}
			record := []string{
				name, code,
				strconv.FormatFloat(labNorm, 'f', -1, 64),
				strconv.FormatFloat(labUplift, 'f', -1, 64),
				strconv.FormatFloat(matNorm, 'f', -1, 64),
				strconv.FormatFloat(subConCost, 'f', -1, 64),
				strconv.FormatFloat(subConNorm, 'f', -1, 64),
				strconv.FormatFloat(plantCost, 'f', -1, 64),
			}
			if err := writer.Write(record); err != nil {
				return
			}
		}
	}
}
