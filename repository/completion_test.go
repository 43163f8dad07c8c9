package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanCodeCompletionsOnlyWritesMatchingCodes(t *testing.T) {
	lines := []codeLine{
		{ID: 1, Code: "cbs"},
		{ID: 2, Code: "glnd"},
		{ID: 3, Code: "cbs"},
		{ID: 4, Code: "tst"},
	}

	ids, counts := planCodeCompletions(lines, map[string]float64{"cbs": 0.8})

	assert.Equal(t, []int{1, 3}, ids["cbs"])
	assert.Equal(t, int64(2), counts["cbs"])

	// Lines of codes outside the request never appear in the write plan, so
	// their stored Complete value survives the update untouched.
	assert.NotContains(t, ids, "glnd")
	assert.NotContains(t, ids, "tst")
	assert.Len(t, ids, 1)
}

func TestPlanCodeCompletionsMultipleCodes(t *testing.T) {
	lines := []codeLine{
		{ID: 10, Code: "cbs"},
		{ID: 11, Code: "glnd"},
		{ID: 12, Code: "glnd"},
	}

	ids, counts := planCodeCompletions(lines, map[string]float64{"cbs": 1, "glnd": 0.5})

	assert.Equal(t, []int{10}, ids["cbs"])
	assert.Equal(t, []int{11, 12}, ids["glnd"])
	assert.Equal(t, int64(1), counts["cbs"])
	assert.Equal(t, int64(2), counts["glnd"])
}

func TestPlanCodeCompletionsReportsZeroForUnmatchedCode(t *testing.T) {
	lines := []codeLine{{ID: 1, Code: "cbs"}}

	ids, counts := planCodeCompletions(lines, map[string]float64{"nope": 0.75})

	assert.Empty(t, ids)
	// The caller still gets an entry per requested code so the response can
	// show which codes matched nothing.
	assert.Equal(t, int64(0), counts["nope"])
}

func TestPlanCodeCompletionsEmptyLines(t *testing.T) {
	ids, counts := planCodeCompletions(nil, map[string]float64{"cbs": 0.5})

	assert.Empty(t, ids)
	assert.Equal(t, int64(0), counts["cbs"])
}

func TestItemErrorAttributesNotFound(t *testing.T) {
	assert.Equal(t, "cable not found", itemError(ErrNotFound, "cable"))
	assert.Equal(t, "boom", itemError(errors.New("boom"), "cable"))
}
