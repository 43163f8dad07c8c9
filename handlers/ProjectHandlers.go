package handlers

import (
	"backend/models"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Project CRUD runs on GORM; the completion engine itself stays on raw SQL.

// CreateProject creates a new project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body models.ProjectGorm true "Project creation request"
// @Success 201 {object} models.ProjectGorm
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/projects [post]
func CreateProject(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var project models.ProjectGorm
		if err := c.ShouldBindJSON(&project); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if project.JobNo == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "JobNo is required"})
			return
		}

		if err := gdb.Create(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Project already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
			return
		}

		c.JSON(http.StatusCreated, project)
	}
}

// GetProjects lists all projects
// @Summary Get projects
// @Tags Projects
// @Produce json
// @Success 200 {array} models.ProjectGorm
// @Router /api/projects [get]
func GetProjects(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var projects []models.ProjectGorm
		if err := gdb.Order("jobno").Find(&projects).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
			return
		}
		c.JSON(http.StatusOK, projects)
	}
}

// GetProject returns one project by job number
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param job_no path string true "Job number"
// @Success 200 {object} models.ProjectGorm
// @Failure 404 {object} models.ErrorResponse
// @Router /api/projects/{job_no} [get]
func GetProject(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var project models.ProjectGorm
		err := gdb.Where("jobno = ?", c.Param("job_no")).First(&project).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project"})
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

// UpdateProject updates a project's title and address
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param job_no path string true "Job number"
// @Param request body models.ProjectGorm true "Project update request"
// @Success 200 {object} models.ProjectGorm
// @Failure 404 {object} models.ErrorResponse
// @Router /api/projects/{job_no} [put]
func UpdateProject(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		var req models.ProjectGorm
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := gdb.Model(&models.ProjectGorm{}).Where("jobno = ?", jobNo).
			Updates(map[string]interface{}{"title": req.Title, "address": req.Address})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}

		req.JobNo = jobNo
		c.JSON(http.StatusOK, req)
	}
}

// GetRevisions lists the equipment audit log of a job, newest first
// @Summary Get revisions
// @Tags Projects
// @Produce json
// @Param job_no path string true "Job number"
// @Success 200 {array} models.RevisionGorm
// @Router /api/revisions/{job_no} [get]
func GetRevisions(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var revisions []models.RevisionGorm
		err := gdb.Where("jobno = ?", c.Param("job_no")).Order("number DESC").Limit(500).Find(&revisions).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch revisions"})
			return
		}
		c.JSON(http.StatusOK, revisions)
	}
}
