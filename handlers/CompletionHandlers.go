package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/utils"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ==================== COMPLETION MUTATION & RECOMPUTE ====================

// The completion endpoints write exactly one line item per call (or one list
// for the bulk variants), then re-run the rollup scoped to the affected
// Ref(s) only, so the caller can patch its table row without a full refetch.

// UpdateEquipCompletion sets the Complete percentage of one equipment line
// @Summary Update equipment line completion
// @Description Set the completion percentage of one equipment line and return the recomputed rollup row for its Ref
// @Tags Completion
// @Accept json
// @Produce json
// @Param job_no path string true "Job number"
// @Param id path int true "Equipment line ID"
// @Param request body models.EquipCompletionUpdate true "New completion percentage (0..100)"
// @Success 200 {object} models.CompletionResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/completion/{job_no}/equip/{id} [put]
func UpdateEquipCompletion(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid equipment line id"})
			return
		}

		var req models.EquipCompletionUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()

		updated, err := repository.UpdateEquipCompletion(ctx, db, jobNo, id, percentToFraction(*req.Complete))
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment line not found"})
			return
		}
		if err != nil {
			log.Printf("Failed to update completion for %s/%d: %v", jobNo, id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update completion"})
			return
		}

		rollups, err := repository.RecomputeRefs(ctx, db, jobNo, []string{updated.Ref})
		if err != nil {
			log.Printf("Failed to recompute rollup for %s/%s: %v", jobNo, updated.Ref, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Completion saved but recompute failed"})
			return
		}
		display := rollupForDisplay(rollups)

		c.JSON(http.StatusOK, models.CompletionResult{
			UpdatedEquip:    updated,
			RecalculatedRow: repository.RollupRowForRef(display, updated.Ref),
		})
	}
}

// UpdateCableCompletion sets the completion percentages of one cable
// @Summary Update cable completion
// @Description Set one or more completion percentages of a cable and return the recomputed rollup row for its Ref
// @Tags Completion
// @Accept json
// @Produce json
// @Param job_no path string true "Job number"
// @Param cab_num path string true "Cable number"
// @Param request body models.CableCompletionUpdate true "New completion percentages (0..100)"
// @Success 200 {object} models.CompletionResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/completion/{job_no}/cable/{cab_num} [put]
func UpdateCableCompletion(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		cabNum := c.Param("cab_num")

		var req models.CableCompletionUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Convert incoming percentages to stored fractions at the boundary
		scale := func(v *float64) *float64 {
			if v == nil {
				return nil
			}
			f := percentToFraction(*v)
			return &f
		}
		upd := models.CableCompletionUpdate{
			CabComp:    scale(req.CabComp),
			AGlandComp: scale(req.AGlandComp),
			ZGlandComp: scale(req.ZGlandComp),
			CabTest:    scale(req.CabTest),
		}

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()

		updated, err := repository.UpdateCableCompletion(ctx, db, jobNo, cabNum, upd)
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cable not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var row *models.RollupRow
		if updated.EquipRef != "" {
			rollups, err := repository.RecomputeRefs(ctx, db, jobNo, []string{updated.EquipRef})
			if err != nil {
				log.Printf("Failed to recompute rollup for %s/%s: %v", jobNo, updated.EquipRef, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Completion saved but recompute failed"})
				return
			}
			row = repository.RollupRowForRef(rollupForDisplay(rollups), updated.EquipRef)
		}

		display := cableForDisplay(*updated)
		c.JSON(http.StatusOK, models.CompletionResult{
			UpdatedCable:    &display,
			RecalculatedRow: row,
		})
	}
}

// BulkUpdateCompletion applies a list of completion mutations
// @Summary Bulk update completion
// @Description Apply a list of completion mutations, then recompute the rollup once for the union of affected Refs
// @Tags Completion
// @Accept json
// @Produce json
// @Param job_no path string true "Job number"
// @Param request body []models.BulkCompletionItem true "Mutations"
// @Success 200 {object} models.BulkCompletionResult
// @Failure 400 {object} models.ErrorResponse
// @Router /api/completion/{job_no}/bulk [post]
func BulkUpdateCompletion(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		var items []models.BulkCompletionItem
		if err := c.ShouldBindJSON(&items); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty mutation list"})
			return
		}

		// Percent -> fraction conversion for every supplied field
		for i := range items {
			scale := func(v *float64) *float64 {
				if v == nil {
					return nil
				}
				f := percentToFraction(*v)
				return &f
			}
			items[i].Complete = scale(items[i].Complete)
			items[i].CabComp = scale(items[i].CabComp)
			items[i].AGlandComp = scale(items[i].AGlandComp)
			items[i].ZGlandComp = scale(items[i].ZGlandComp)
			items[i].CabTest = scale(items[i].CabTest)
		}

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		result, err := repository.BulkUpdateCompletion(ctx, db, jobNo, items)
		if err != nil {
			log.Printf("Bulk completion update failed for %s: %v", jobNo, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Bulk update failed"})
			return
		}
		result.Rollups = rollupForDisplay(result.Rollups)
		for i := range result.Success {
			if result.Success[i].UpdatedCable != nil {
				display := cableForDisplay(*result.Success[i].UpdatedCable)
				result.Success[i].UpdatedCable = &display
			}
		}

		c.JSON(http.StatusOK, result)
	}
}

// UpdateCompletionByCode sets completion by component code across Refs
// @Summary Update completion by component code
// @Description For every equipment line of the selected Refs whose component code is in the given set, set its completion to the given percentage
// @Tags Completion
// @Accept json
// @Produce json
// @Param job_no path string true "Job number"
// @Param request body models.CompletionByCodeRequest true "Refs and code -> percent map"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /api/completion/{job_no}/by_code [post]
func UpdateCompletionByCode(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")

		var req models.CompletionByCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(req.Refs) == 0 || len(req.Codes) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "refs and codes must not be empty"})
			return
		}

		codes := make(map[string]float64, len(req.Codes))
		for code, percent := range req.Codes {
			codes[code] = percentToFraction(percent)
		}

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		updated, rollups, err := repository.BulkUpdateByCode(ctx, db, jobNo, req.Refs, codes)
		if err != nil {
			log.Printf("Completion-by-code update failed for %s: %v", jobNo, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"updated_by_code": updated,
			"rollups":         rollupForDisplay(rollups),
		})
	}
}
