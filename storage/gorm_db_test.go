package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGormConfigTranslatesDriverErrors(t *testing.T) {
	cfg := gormConfig()

	// A duplicate jobno insert has to surface as gorm.ErrDuplicatedKey so
	// CreateProject can answer 409 instead of 500. Without TranslateError the
	// driver returns the raw pgconn error and errors.Is never matches.
	assert.True(t, cfg.TranslateError)
	assert.True(t, cfg.DisableForeignKeyConstraintWhenMigrating)
	assert.NotNil(t, cfg.Logger)
}
