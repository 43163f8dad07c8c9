package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func TestExpandCableAllFourLines(t *testing.T) {
	cab := cableLine{
		CabNum:     "C-0001",
		EquipRef:   "P-101A",
		Section:    "Pumps",
		Area:       "Area 1",
		AGlandArea: "Area 1",
		ZGlandArea: "Area 2",
		Length:     100,
		CabSize:    "25mm 4c SWA",
		BaseNorm:   norm(0.05),
		TermNorm:   norm(4),
		TestNorm:   norm(1.5),
		CabComp:    0.5,
		AGlandComp: 0.25,
		ZGlandComp: 0.75,
		CabTest:    1,
	}

	lines := expandCable(cab)
	require.Len(t, lines, 4)

	base := lines[0]
	assert.Equal(t, "25mm 4c SWA", base.Component)
	assert.InDelta(t, 5.0, base.LabNorm, 1e-9) // 0.05 * 100m
	assert.Equal(t, 0.5, base.Fraction)
	assert.Equal(t, "Area 1", base.Area)

	aGland, zGland := lines[1], lines[2]
	assert.Equal(t, "25mm 4c SWA Term", aGland.Component)
	assert.Equal(t, "25mm 4c SWA Term", zGland.Component)
	// Both gland ends consume the same Term norm with independent fractions
	assert.Equal(t, 4.0, aGland.LabNorm)
	assert.Equal(t, 4.0, zGland.LabNorm)
	assert.Equal(t, 0.25, aGland.Fraction)
	assert.Equal(t, 0.75, zGland.Fraction)
	assert.Equal(t, "Area 1", aGland.Area)
	assert.Equal(t, "Area 2", zGland.Area)

	test := lines[3]
	assert.Equal(t, "25mm 4c SWA Test", test.Component)
	assert.Equal(t, 1.5, test.LabNorm)
	assert.Equal(t, 1.0, test.Fraction)
	assert.Equal(t, "Area 1", test.Area)

	for _, line := range lines {
		assert.Equal(t, "P-101A", line.Ref)
		assert.Equal(t, "Pumps", line.Section)
	}
}

func TestExpandCableUnmatchedSizeIsNoOp(t *testing.T) {
	cab := cableLine{
		CabNum:   "C-0002",
		EquipRef: "P-101A",
		Length:   50,
		CabSize:  "unknown size",
		CabComp:  0.5,
	}

	assert.Empty(t, expandCable(cab))
}

func TestExpandCablePartialMatch(t *testing.T) {
	// Term component exists but base and test do not: only the two gland
	// lines are produced.
	cab := cableLine{
		CabNum:   "C-0003",
		EquipRef: "P-101A",
		Length:   50,
		CabSize:  "25mm 4c SWA",
		TermNorm: norm(4),
	}

	lines := expandCable(cab)
	require.Len(t, lines, 2)
	assert.Equal(t, "25mm 4c SWA Term", lines[0].Component)
	assert.Equal(t, "25mm 4c SWA Term", lines[1].Component)
}

func TestAggregateUnionOfEquipmentAndCableLines(t *testing.T) {
	// One equipment line (10h at 50%) plus a cable matching a Term component
	// (4h at 25% on A, 4h at 75% on Z) for the same Ref.
	cab := cableLine{
		CabNum:     "C-0001",
		EquipRef:   "P-101A",
		TermNorm:   norm(4),
		AGlandComp: 0.25,
		ZGlandComp: 0.75,
	}

	lines := []rollupLine{
		{Ref: "P-101A", LabNorm: 10, Fraction: 0.5},
	}
	lines = append(lines, expandCable(cab)...)

	rows := aggregate(lines, GroupByRef, 2)
	require.Len(t, rows, 1)
	assert.Equal(t, "P-101A", rows[0].Ref)
	assert.Equal(t, 18.0, rows[0].TotalHours)
	assert.Equal(t, 9.0, rows[0].RecoveredHours)
	require.NotNil(t, rows[0].PercentComplete)
	assert.InDelta(t, 0.5, *rows[0].PercentComplete, 1e-9)
}

func TestAggregateZeroTotalHoursYieldsNilPercent(t *testing.T) {
	lines := []rollupLine{
		{Ref: "P-102", LabNorm: 0, Fraction: 1},
	}

	rows := aggregate(lines, GroupByRef, 2)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].TotalHours)
	assert.Nil(t, rows[0].PercentComplete)
}

func TestAggregateExcludesHeaderRowsFromAreaViews(t *testing.T) {
	lines := []rollupLine{
		{Ref: "P-101A", Area: "Area 1", LabNorm: 10, Fraction: 0.5},
		{Ref: "P-101A", Area: "Area 1", CodeName: "Title", LabNorm: 3, Fraction: 0},
		{Ref: "P-101A", Area: "Area 1", CodeName: "Blank", LabNorm: 2, Fraction: 0},
	}

	areaRows := aggregate(lines, GroupByArea, 2)
	require.Len(t, areaRows, 1)
	assert.Equal(t, 10.0, areaRows[0].TotalHours)
	assert.Equal(t, 5.0, areaRows[0].RecoveredHours)

	// The by-Ref main table keeps header rows
	refRows := aggregate(lines, GroupByRef, 2)
	require.Len(t, refRows, 1)
	assert.Equal(t, 15.0, refRows[0].TotalHours)
}

func TestAggregateSortsRefsAscending(t *testing.T) {
	lines := []rollupLine{
		{Ref: "P-300", LabNorm: 1},
		{Ref: "P-100", LabNorm: 1},
		{Ref: "P-200", LabNorm: 1},
	}

	rows := aggregate(lines, GroupByRef, 2)
	require.Len(t, rows, 3)
	assert.Equal(t, "P-100", rows[0].Ref)
	assert.Equal(t, "P-200", rows[1].Ref)
	assert.Equal(t, "P-300", rows[2].Ref)
}

func TestAggregateAreaComponentGrouping(t *testing.T) {
	lines := []rollupLine{
		{Ref: "P-1", Area: "Area 1", Component: "Gland 25mm", LabNorm: 2, Fraction: 1},
		{Ref: "P-2", Area: "Area 1", Component: "Gland 25mm", LabNorm: 2, Fraction: 0},
		{Ref: "P-3", Area: "Area 1", Component: "Tray 300mm", LabNorm: 5, Fraction: 0.2},
		{Ref: "P-4", Area: "Area 2", Component: "Gland 25mm", LabNorm: 2, Fraction: 0.5},
	}

	rows := aggregate(lines, GroupByAreaComponent, 3)
	require.Len(t, rows, 3)

	assert.Equal(t, "Area 1", rows[0].Area)
	assert.Equal(t, "Gland 25mm", rows[0].Component)
	assert.Equal(t, 4.0, rows[0].TotalHours)
	assert.Equal(t, 2.0, rows[0].RecoveredHours)

	assert.Equal(t, "Area 1", rows[1].Area)
	assert.Equal(t, "Tray 300mm", rows[1].Component)

	assert.Equal(t, "Area 2", rows[2].Area)
}

func TestAggregateIdempotentUnderRewrite(t *testing.T) {
	// Re-running the rollup over the same state (a no-op completion update)
	// must not change the figures or duplicate rows.
	lines := []rollupLine{
		{Ref: "P-101A", LabNorm: 10, Fraction: 0.5},
		{Ref: "P-101A", LabNorm: 4, Fraction: 0.25},
	}

	first := aggregate(lines, GroupByRef, 2)
	second := aggregate(lines, GroupByRef, 2)
	assert.Equal(t, first, second)
	require.Len(t, second, 1)
}

func TestApplyFilterByAreaAndSection(t *testing.T) {
	lines := []rollupLine{
		{Ref: "P-1", Area: "Area 1", Section: "Pumps", LabNorm: 1},
		{Ref: "P-2", Area: "Area 2", Section: "Pumps", LabNorm: 1},
		{Ref: "P-3", Area: "Area 1", Section: "Valves", LabNorm: 1},
	}

	filtered := applyFilter(lines, Filter{Area: "Area 1", Section: "Pumps"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "P-1", filtered[0].Ref)
}

func TestRollupRowForRef(t *testing.T) {
	rows := aggregate([]rollupLine{
		{Ref: "P-1", LabNorm: 1},
		{Ref: "P-2", LabNorm: 2},
	}, GroupByRef, 2)

	found := RollupRowForRef(rows, "P-2")
	require.NotNil(t, found)
	assert.Equal(t, 2.0, found.TotalHours)

	// A Ref with no lines left is absent, not an error
	assert.Nil(t, RollupRowForRef(rows, "P-999"))
}
