package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/storage"
	"backend/utils"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ==================== EQUIPMENT CRUD OPERATIONS ====================

// insertEquipmentLines inserts one equiplist row per component of the named
// template, inside the caller's transaction. Returns the number of lines.
func insertEquipmentLines(tx *sql.Tx, jobNo string, req models.CreateEquipmentRequest) (int, error) {
	rows, err := tx.Query(`
		SELECT id, component, component_id
		FROM templates
		WHERE jobno = $1 AND tempname = $2
		ORDER BY inorder`, jobNo, req.Template)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	type tmplEntry struct {
		id          int
		component   string
		componentID int
	}
	var entries []tmplEntry
	for rows.Next() {
		var e tmplEntry
		if err := rows.Scan(&e.id, &e.component, &e.componentID); err != nil {
			return 0, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("template %q not found", req.Template)
	}

	for _, e := range entries {
		_, err := tx.Exec(`
			INSERT INTO equiplist (jobno, ref, description, template, section, area, component, complete, component_id, template_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)`,
			jobNo, req.Ref, req.Description, req.Template, req.Section, req.Area,
			e.component, e.componentID, e.id)
		if err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

// CreateEquipment creates an equipment Ref from a template: one equiplist row
// per template component, all inside one transaction so a concurrent reader
// never sees a partially created Ref.
// @Summary Create equipment
// @Description Create an equipment reference from a template
// @Tags Equipment
// @Accept json
// @Produce json
// @Param job_no path string true "Job number"
// @Param request body models.CreateEquipmentRequest true "Equipment creation request"
// @Success 201 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/equipment/{job_no} [post]
func CreateEquipment(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		if err := utils.ValidateJobNo(jobNo); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var req models.CreateEquipmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM equiplist WHERE jobno = $1 AND ref = $2)", jobNo, req.Ref).Scan(&exists)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if exists {
			c.JSON(http.StatusConflict, gin.H{"error": "Equipment reference already exists"})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		defer tx.Rollback()

		count, err := insertEquipmentLines(tx, jobNo, req)
		if err != nil {
			if isForeignKeyViolation(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Referenced component or template does not exist"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit equipment"})
			return
		}

		if err := repository.LogRevision(storage.GetGormDB(), jobNo, req.Ref, req.Description,
			fmt.Sprintf("Created from template %s (%d lines)", req.Template, count)); err != nil {
			log.Printf("Failed to log revision for %s/%s: %v", jobNo, req.Ref, err)
		}

		c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("Equipment created with %d lines", count)})
	}
}

// GetEquipment lists the lines of one equipment Ref
// @Summary Get equipment lines
// @Tags Equipment
// @Produce json
// @Param job_no path string true "Job number"
// @Param ref path string true "Equipment reference"
// @Success 200 {array} models.Equiplist
// @Failure 404 {object} models.ErrorResponse
// @Router /api/equipment/{job_no}/{ref} [get]
func GetEquipment(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		ref := c.Param("ref")

		rows, err := db.Query(`
			SELECT e.id, e.jobno, e.ref, COALESCE(e.description, ''), COALESCE(e.template, ''),
			       COALESCE(e.section, ''), COALESCE(e.area, ''), e.component, e.complete,
			       e.component_id, COALESCE(e.template_id, 0)
			FROM equiplist e
			LEFT JOIN templates t ON t.id = e.template_id
			WHERE e.jobno = $1 AND e.ref = $2
			ORDER BY COALESCE(t.inorder, 0), e.id`, jobNo, ref)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch equipment"})
			return
		}
		defer rows.Close()

		lines := []models.Equiplist{}
		for rows.Next() {
			var line models.Equiplist
			if err := rows.Scan(&line.ID, &line.JobNo, &line.Ref, &line.Description,
				&line.Template, &line.Section, &line.Area, &line.Component,
				&line.Complete, &line.ComponentID, &line.TemplateID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process equipment data"})
				return
			}
			lines = append(lines, line)
		}

		if len(lines) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment reference not found"})
			return
		}

		c.JSON(http.StatusOK, lines)
	}
}

// UpdateEquipment patches the descriptive fields of every line of a Ref.
// Field edits are applied in place; template changes go through
// ChangeEquipmentTemplate instead.
// @Summary Update equipment fields
// @Tags Equipment
// @Accept json
// @Produce json
// @Param job_no path string true "Job number"
// @Param ref path string true "Equipment reference"
// @Param request body models.UpdateEquipmentRequest true "Fields to update"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/equipment/{job_no}/{ref} [put]
func UpdateEquipment(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		ref := c.Param("ref")

		var req models.UpdateEquipmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		sets := []string{}
		args := []interface{}{}
		idx := 1
		if req.Description != nil {
			sets = append(sets, fmt.Sprintf("description = $%d", idx))
			args = append(args, *req.Description)
			idx++
		}
		if req.Section != nil {
			sets = append(sets, fmt.Sprintf("section = $%d", idx))
			args = append(args, *req.Section)
			idx++
		}
		if req.Area != nil {
			sets = append(sets, fmt.Sprintf("area = $%d", idx))
			args = append(args, *req.Area)
			idx++
		}
		if len(sets) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields supplied"})
			return
		}

		query := fmt.Sprintf("UPDATE equiplist SET %s WHERE jobno = $%d AND ref = $%d",
			strings.Join(sets, ", "), idx, idx+1)
		args = append(args, jobNo, ref)

		result, err := db.Exec(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update equipment"})
			return
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment reference not found"})
			return
		}

		if err := repository.LogRevision(storage.GetGormDB(), jobNo, ref, "", "Equipment fields updated"); err != nil {
			log.Printf("Failed to log revision for %s/%s: %v", jobNo, ref, err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Equipment updated successfully"})
	}
}

// ChangeEquipmentTemplate reassigns a Ref to a different template. The Ref's
// line set is destroyed and recreated wholesale inside one transaction, so a
// concurrent reader never observes the Ref with zero rows. Completion is
// reset with the new lines.
// @Summary Change equipment template
// @Tags Equipment
// @Accept json
// @Produce json
// @Param job_no path string true "Job number"
// @Param ref path string true "Equipment reference"
// @Param request body models.ChangeTemplateRequest true "New template assignment"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/equipment/{job_no}/{ref}/template [put]
func ChangeEquipmentTemplate(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		ref := c.Param("ref")

		var body models.ChangeTemplateRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req := models.CreateEquipmentRequest{
			Ref:         ref,
			Description: body.Description,
			Template:    body.Template,
			Section:     body.Section,
			Area:        body.Area,
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		defer tx.Rollback()

		result, err := tx.Exec("DELETE FROM equiplist WHERE jobno = $1 AND ref = $2", jobNo, ref)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace equipment lines"})
			return
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment reference not found"})
			return
		}

		if _, err := insertEquipmentLines(tx, jobNo, req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit template change"})
			return
		}

		if err := repository.LogRevision(storage.GetGormDB(), jobNo, ref, req.Description,
			fmt.Sprintf("Template changed to %s", req.Template)); err != nil {
			log.Printf("Failed to log revision for %s/%s: %v", jobNo, ref, err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Template changed successfully"})
	}
}

// DeleteEquipment removes a Ref and all of its lines
// @Summary Delete equipment
// @Tags Equipment
// @Produce json
// @Param job_no path string true "Job number"
// @Param ref path string true "Equipment reference"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/equipment/{job_no}/{ref} [delete]
func DeleteEquipment(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		ref := c.Param("ref")

		result, err := db.Exec("DELETE FROM equiplist WHERE jobno = $1 AND ref = $2", jobNo, ref)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete equipment"})
			return
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment reference not found"})
			return
		}

		if err := repository.LogRevision(storage.GetGormDB(), jobNo, ref, "", "Equipment deleted"); err != nil {
			log.Printf("Failed to log revision for %s/%s: %v", jobNo, ref, err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Equipment deleted successfully"})
	}
}
