package handlers

import (
	"backend/models"
	"backend/utils"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Cable completion fractions are stored 0..1 but presented as 0..100. The
// conversion happens here at the read/write boundary and nowhere else; the
// rollup engine works exclusively on stored fractions.

func fractionToPercent(v float64) float64 {
	return v * 100
}

func percentToFraction(v float64) float64 {
	return v / 100
}

// cableForDisplay converts the stored fractions of a cable to percent
func cableForDisplay(cab models.Cabsched) models.Cabsched {
	cab.CabComp = fractionToPercent(cab.CabComp)
	cab.AGlandComp = fractionToPercent(cab.AGlandComp)
	cab.ZGlandComp = fractionToPercent(cab.ZGlandComp)
	cab.CabTest = fractionToPercent(cab.CabTest)
	return cab
}

// ==================== CABLE SCHEDULE CRUD ====================

// CreateCable creates a cable schedule row. Completion fields arrive as
// percentages and are stored as fractions.
// @Summary Create cable
// @Description Create a cable schedule entry
// @Tags Cables
// @Accept json
// @Produce json
// @Param job_no path string true "Job number"
// @Param request body models.Cabsched true "Cable creation request"
// @Success 201 {object} models.Cabsched
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/cables/{job_no} [post]
func CreateCable(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		var cab models.Cabsched
		if err := c.ShouldBindJSON(&cab); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := utils.ValidateCabNum(cab.CabNum); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cab.JobNo = jobNo

		_, err := db.Exec(`
			INSERT INTO cabsched (jobno, cabnum, length, equipref, aglandarea, zglandarea,
			                      cabsize, aglandcomp, zglandcomp, cabcomp, cabtest, component_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, 0))`,
			cab.JobNo, cab.CabNum, cab.Length, cab.EquipRef, cab.AGlandArea, cab.ZGlandArea,
			cab.CabSize,
			percentToFraction(cab.AGlandComp), percentToFraction(cab.ZGlandComp),
			percentToFraction(cab.CabComp), percentToFraction(cab.CabTest),
			cab.ComponentID)
		if err != nil {
			if isUniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Cable number already exists for this job"})
				return
			}
			if isForeignKeyViolation(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Referenced component does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cable"})
			return
		}

		c.JSON(http.StatusCreated, cab)
	}
}

// GetCables lists the cable schedule of a job with completion as percent
// @Summary Get cables
// @Tags Cables
// @Produce json
// @Param job_no path string true "Job number"
// @Param equip_ref query string false "Filter by equipment reference"
// @Success 200 {array} models.Cabsched
// @Router /api/cables/{job_no} [get]
func GetCables(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		equipRef := c.Query("equip_ref")

		query := `
			SELECT jobno, cabnum, length, COALESCE(equipref, ''), COALESCE(aglandarea, ''),
			       COALESCE(zglandarea, ''), cabsize, aglandcomp, zglandcomp, cabcomp,
			       cabtest, COALESCE(component_id, 0)
			FROM cabsched
			WHERE jobno = $1`
		args := []interface{}{jobNo}
		if equipRef != "" {
			query += " AND equipref = $2"
			args = append(args, equipRef)
		}
		query += " ORDER BY cabnum"

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cables"})
			return
		}
		defer rows.Close()

		cables := []models.Cabsched{}
		for rows.Next() {
			var cab models.Cabsched
			if err := rows.Scan(&cab.JobNo, &cab.CabNum, &cab.Length, &cab.EquipRef,
				&cab.AGlandArea, &cab.ZGlandArea, &cab.CabSize,
				&cab.AGlandComp, &cab.ZGlandComp, &cab.CabComp, &cab.CabTest,
				&cab.ComponentID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process cable data"})
				return
			}
			cables = append(cables, cableForDisplay(cab))
		}

		c.JSON(http.StatusOK, cables)
	}
}

// UpdateCable patches the descriptive fields of one cable (not completion;
// completion edits go through the completion endpoints so the rollup is
// recomputed).
// @Summary Update cable
// @Tags Cables
// @Accept json
// @Produce json
// @Param job_no path string true "Job number"
// @Param cab_num path string true "Cable number"
// @Param request body models.Cabsched true "Cable update request"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/cables/{job_no}/{cab_num} [put]
func UpdateCable(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		cabNum := c.Param("cab_num")

		var cab models.Cabsched
		if err := c.ShouldBindJSON(&cab); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := db.Exec(`
			UPDATE cabsched
			SET length = $1, equipref = $2, aglandarea = $3, zglandarea = $4,
			    cabsize = $5, component_id = NULLIF($6, 0)
			WHERE jobno = $7 AND cabnum = $8`,
			cab.Length, cab.EquipRef, cab.AGlandArea, cab.ZGlandArea,
			cab.CabSize, cab.ComponentID, jobNo, cabNum)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cable"})
			return
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cable not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cable updated successfully"})
	}
}

// DeleteCable removes a cable and its sub-contractor flag
// @Summary Delete cable
// @Tags Cables
// @Produce json
// @Param job_no path string true "Job number"
// @Param cab_num path string true "Cable number"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/cables/{job_no}/{cab_num} [delete]
func DeleteCable(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		cabNum := c.Param("cab_num")

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		defer tx.Rollback()

		if _, err := tx.Exec("DELETE FROM tickcabbysc WHERE jobno = $1 AND cabnum = $2", jobNo, cabNum); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cable"})
			return
		}

		result, err := tx.Exec("DELETE FROM cabsched WHERE jobno = $1 AND cabnum = $2", jobNo, cabNum)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cable"})
			return
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cable not found"})
			return
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cable deleted successfully"})
	}
}

// ToggleCableSubContractor marks or unmarks a cable as installed by a
// sub-contractor. The flag row is created or destroyed, never updated.
// @Summary Toggle sub-contractor flag
// @Description Mark/unmark a cable as installed by a sub-contractor
// @Tags Cables
// @Produce json
// @Param job_no path string true "Job number"
// @Param cab_num path string true "Cable number"
// @Success 200 {object} models.TickCabBySC
// @Failure 404 {object} models.ErrorResponse
// @Router /api/cables/{job_no}/{cab_num}/subcon [post]
func ToggleCableSubContractor(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		cabNum := c.Param("cab_num")

		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM cabsched WHERE jobno = $1 AND cabnum = $2)", jobNo, cabNum).Scan(&exists)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cable not found"})
			return
		}

		var flagged bool
		err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM tickcabbysc WHERE jobno = $1 AND cabnum = $2)", jobNo, cabNum).Scan(&flagged)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if flagged {
			_, err = db.Exec("DELETE FROM tickcabbysc WHERE jobno = $1 AND cabnum = $2", jobNo, cabNum)
		} else {
			_, err = db.Exec("INSERT INTO tickcabbysc (jobno, cabnum, yn) VALUES ($1, $2, true)", jobNo, cabNum)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle sub-contractor flag"})
			return
		}

		c.JSON(http.StatusOK, models.TickCabBySC{JobNo: jobNo, CabNum: cabNum, YN: !flagged})
	}
}
