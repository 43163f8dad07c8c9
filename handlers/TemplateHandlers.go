package handlers

import (
	"backend/models"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateTemplateRequest carries a named template and its ordered component ids
type CreateTemplateRequest struct {
	TempName     string `json:"TempName" binding:"required" example:"LV Motor"`
	ComponentIDs []int  `json:"component_ids" binding:"required"`
}

// CreateTemplateHandler creates a template as an ordered list of components
// @Summary Create template
// @Description Create a named template from an ordered list of component IDs
// @Tags Templates
// @Accept json
// @Produce json
// @Param job_no path string true "Job number"
// @Param request body CreateTemplateRequest true "Template creation request"
// @Success 201 {array} models.Template
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/templates/{job_no} [post]
func CreateTemplateHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		var req CreateTemplateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(req.ComponentIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "component_ids must not be empty"})
			return
		}

		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM templates WHERE jobno = $1 AND tempname = $2)", jobNo, req.TempName).Scan(&exists)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if exists {
			c.JSON(http.StatusConflict, gin.H{"error": "Template with this name already exists"})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		defer tx.Rollback()

		created := []models.Template{}
		for i, compID := range req.ComponentIDs {
			var entry models.Template
			entry.JobNo = jobNo
			entry.TempName = req.TempName
			entry.InOrder = i + 1
			entry.ComponentID = compID

			// Component name is denormalized onto the template row
			err := tx.QueryRow(`
				INSERT INTO templates (jobno, tempname, component, inorder, component_id)
				SELECT $1, $2, name, $3, id FROM components WHERE jobno = $1 AND id = $4
				RETURNING id, component`,
				jobNo, req.TempName, i+1, compID,
			).Scan(&entry.ID, &entry.Component)
			if err == sql.ErrNoRows {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Referenced component does not exist", "details": "component_id missing for this job"})
				return
			}
			if err != nil {
				if isForeignKeyViolation(err) {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Referenced component does not exist"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template"})
				return
			}
			created = append(created, entry)
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit template"})
			return
		}

		c.JSON(http.StatusCreated, created)
	}
}

// GetTemplateHandler returns the ordered component list of one template
// @Summary Get template
// @Tags Templates
// @Produce json
// @Param job_no path string true "Job number"
// @Param temp_name path string true "Template name"
// @Success 200 {array} models.Template
// @Failure 404 {object} models.ErrorResponse
// @Router /api/templates/{job_no}/{temp_name} [get]
func GetTemplateHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		tempName := c.Param("temp_name")

		rows, err := db.Query(`
			SELECT id, jobno, tempname, component, inorder, component_id
			FROM templates
			WHERE jobno = $1 AND tempname = $2
			ORDER BY inorder`, jobNo, tempName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch template"})
			return
		}
		defer rows.Close()

		entries := []models.Template{}
		for rows.Next() {
			var entry models.Template
			if err := rows.Scan(&entry.ID, &entry.JobNo, &entry.TempName,
				&entry.Component, &entry.InOrder, &entry.ComponentID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process template data"})
				return
			}
			entries = append(entries, entry)
		}

		if len(entries) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
			return
		}

		c.JSON(http.StatusOK, entries)
	}
}

// GetAllTemplatesHandler lists the template names of a job
// @Summary Get all template names
// @Tags Templates
// @Produce json
// @Param job_no path string true "Job number"
// @Success 200 {array} string
// @Router /api/templates/{job_no} [get]
func GetAllTemplatesHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		rows, err := db.Query("SELECT DISTINCT tempname FROM templates WHERE jobno = $1 ORDER BY tempname", jobNo)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch templates"})
			return
		}
		defer rows.Close()

		names := []string{}
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process template data"})
				return
			}
			names = append(names, name)
		}

		c.JSON(http.StatusOK, names)
	}
}

// DeleteTemplateHandler deletes a whole named template
// @Summary Delete template
// @Tags Templates
// @Produce json
// @Param job_no path string true "Job number"
// @Param temp_name path string true "Template name"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/templates/{job_no}/{temp_name} [delete]
func DeleteTemplateHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		tempName := c.Param("temp_name")

		// Block deletion while equipment still points at the template
		var inUse bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM equiplist WHERE jobno = $1 AND template = $2)", jobNo, tempName).Scan(&inUse)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if inUse {
			c.JSON(http.StatusConflict, gin.H{"error": "Template is in use by equipment and cannot be deleted"})
			return
		}

		result, err := db.Exec("DELETE FROM templates WHERE jobno = $1 AND tempname = $2", jobNo, tempName)
		if err != nil {
			log.Printf("Failed to delete template %s/%s: %v", jobNo, tempName, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete template"})
			return
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
	}
}
