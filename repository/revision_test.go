package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextRevisionCode(t *testing.T) {
	assert.Equal(t, "RV-01", NextRevisionCode(""))
	assert.Equal(t, "RV-01", NextRevisionCode("draft"))
	assert.Equal(t, "RV-01", NextRevisionCode("RV-x"))
	assert.Equal(t, "RV-02", NextRevisionCode("RV-01"))
	assert.Equal(t, "RV-04", NextRevisionCode("RV-03"))
	assert.Equal(t, "RV-10", NextRevisionCode("RV-09"))
	assert.Equal(t, "RV-100", NextRevisionCode("RV-99"))
}
