package handlers

import (
	"backend/models"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505). The components table carries a unique index on
// (jobno, name, labnorm), so a duplicate insert comes back through here.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a Postgres foreign-key
// violation (SQLSTATE 23503)
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

// ==================== COMPONENT CRUD OPERATIONS ====================

// CreateComponent creates a new component
// @Summary Create component
// @Description Create a new labor/material norm component for a job
// @Tags Components
// @Accept json
// @Produce json
// @Param job_no path string true "Job number"
// @Param request body models.Component true "Component creation request"
// @Success 201 {object} models.Component
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/components/{job_no} [post]
func CreateComponent(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id header is missing"})
			return
		}
		_, _, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		jobNo := c.Param("job_no")

		var component models.Component
		if err := c.ShouldBindJSON(&component); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		component.JobNo = jobNo

		// Check if the job exists
		var jobExists bool
		err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM project WHERE jobno = $1)", jobNo).Scan(&jobExists)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if !jobExists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Job does not exist"})
			return
		}

		// (JobNo, Name, LabNorm) is unique: the same name with a different
		// LabNorm is a new historical version and is allowed.
		err = db.QueryRow(`
			INSERT INTO components (jobno, name, code, labnorm, labuplift, matnorm, subconcost, subconnorm, plantcost)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
			component.JobNo, component.Name, component.Code, component.LabNorm,
			component.LabUplift, component.MatNorm, component.SubConCost,
			component.SubConNorm, component.PlantCost,
		).Scan(&component.ID)

		if err != nil {
			if isUniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Component with this name and labour norm already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create component"})
			return
		}

		c.JSON(http.StatusCreated, component)
	}
}

// GetComponents retrieves all components of a job
// @Summary Get components
// @Description Retrieve all components of a job
// @Tags Components
// @Produce json
// @Param job_no path string true "Job number"
// @Success 200 {array} models.Component
// @Failure 500 {object} models.ErrorResponse
// @Router /api/components/{job_no} [get]
func GetComponents(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		rows, err := db.Query(`
			SELECT id, jobno, name, COALESCE(code, ''), labnorm, labuplift, matnorm,
			       subconcost, subconnorm, plantcost
			FROM components
			WHERE jobno = $1
			ORDER BY name, labnorm`, jobNo)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch components"})
			return
		}
		defer rows.Close()

		components := []models.Component{}
		for rows.Next() {
			var comp models.Component
			if err := rows.Scan(&comp.ID, &comp.JobNo, &comp.Name, &comp.Code,
				&comp.LabNorm, &comp.LabUplift, &comp.MatNorm,
				&comp.SubConCost, &comp.SubConNorm, &comp.PlantCost); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process component data"})
				return
			}
			components = append(components, comp)
		}

		c.JSON(http.StatusOK, components)
	}
}

// UpdateComponent updates an existing component
// @Summary Update component
// @Description Update an existing component
// @Tags Components
// @Accept json
// @Produce json
// @Param job_no path string true "Job number"
// @Param id path int true "Component ID"
// @Param request body models.Component true "Component update request"
// @Success 200 {object} models.Component
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/components/{job_no}/{id} [put]
func UpdateComponent(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid component id"})
			return
		}

		var component models.Component
		if err := c.ShouldBindJSON(&component); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := db.Exec(`
			UPDATE components
			SET name = $1, code = $2, labnorm = $3, labuplift = $4, matnorm = $5,
			    subconcost = $6, subconnorm = $7, plantcost = $8
			WHERE jobno = $9 AND id = $10`,
			component.Name, component.Code, component.LabNorm, component.LabUplift,
			component.MatNorm, component.SubConCost, component.SubConNorm,
			component.PlantCost, jobNo, id)
		if err != nil {
			if isUniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Component with this name and labour norm already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update component"})
			return
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Component not found"})
			return
		}

		component.ID = id
		component.JobNo = jobNo
		c.JSON(http.StatusOK, component)
	}
}

// DeleteComponent deletes a component. Deletion is blocked while the
// component is referenced by any template.
// @Summary Delete component
// @Description Delete a component that is not referenced by a template
// @Tags Components
// @Produce json
// @Param job_no path string true "Job number"
// @Param id path int true "Component ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/components/{job_no}/{id} [delete]
func DeleteComponent(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid component id"})
			return
		}

		var referenced bool
		err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM templates WHERE jobno = $1 AND component_id = $2)", jobNo, id).Scan(&referenced)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if referenced {
			c.JSON(http.StatusConflict, gin.H{"error": "Component is referenced by a template and cannot be deleted"})
			return
		}

		result, err := db.Exec("DELETE FROM components WHERE jobno = $1 AND id = $2", jobNo, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Component is still referenced and cannot be deleted"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete component"})
			return
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Component not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Component deleted successfully"})
	}
}

// ==================== CODE CRUD OPERATIONS ====================

// CreateCode creates a code -> display name mapping for a job
// @Summary Create code
// @Description Create a component code mapping (e.g. blk -> Blank)
// @Tags Codes
// @Accept json
// @Produce json
// @Param job_no path string true "Job number"
// @Param request body models.Code true "Code creation request"
// @Success 201 {object} models.Code
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/codes/{job_no} [post]
func CreateCode(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		var code models.Code
		if err := c.ShouldBindJSON(&code); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		code.JobNo = jobNo

		err := db.QueryRow(`
			INSERT INTO codes (jobno, code, name)
			VALUES ($1, $2, $3)
			RETURNING id`,
			code.JobNo, code.Code, code.Name,
		).Scan(&code.ID)
		if err != nil {
			if isUniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Code already exists for this job"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create code"})
			return
		}

		c.JSON(http.StatusCreated, code)
	}
}

// GetCodes retrieves all codes of a job
// @Summary Get codes
// @Tags Codes
// @Produce json
// @Param job_no path string true "Job number"
// @Success 200 {array} models.Code
// @Router /api/codes/{job_no} [get]
func GetCodes(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		rows, err := db.Query("SELECT id, jobno, code, name FROM codes WHERE jobno = $1 ORDER BY code", jobNo)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch codes"})
			return
		}
		defer rows.Close()

		codes := []models.Code{}
		for rows.Next() {
			var code models.Code
			if err := rows.Scan(&code.ID, &code.JobNo, &code.Code, &code.Name); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process code data"})
				return
			}
			codes = append(codes, code)
		}

		c.JSON(http.StatusOK, codes)
	}
}
