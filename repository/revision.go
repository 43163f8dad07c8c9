package repository

import (
	"backend/models"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// NextRevisionCode bumps a revision code of the form "RV-03". An empty or
// unrecognised previous code restarts the sequence.
func NextRevisionCode(previous string) string {
	if !strings.HasPrefix(previous, "RV-") {
		return "RV-01"
	}
	n, err := strconv.Atoi(strings.TrimPrefix(previous, "RV-"))
	if err != nil {
		return "RV-01"
	}
	return fmt.Sprintf("RV-%02d", n+1)
}

// LogRevision appends one row to the equipment audit log. The log is write
// only; rollups never read it. Failures are returned so the caller can log
// them, but they never block the originating mutation.
func LogRevision(gdb *gorm.DB, jobNo, itemRef, itemDesc, notes string) error {
	var last models.RevisionGorm
	err := gdb.Where("jobno = ?", jobNo).Order("number DESC").First(&last).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	rev := models.RevisionGorm{
		JobNo:    jobNo,
		Revision: NextRevisionCode(last.Revision),
		ItemRef:  itemRef,
		ItemDesc: itemDesc,
		Notes:    notes,
		Dated:    time.Now(),
	}
	return gdb.Create(&rev).Error
}
