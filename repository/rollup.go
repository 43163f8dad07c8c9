package repository

import (
	"backend/models"
	"backend/utils"
	"context"
	"database/sql"
	"sort"

	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

// GroupBy selects the grouping key of a rollup query
type GroupBy int

const (
	GroupByRef GroupBy = iota
	GroupBySection
	GroupByArea
	GroupByAreaComponent
	GroupByAreaSectionComponent
)

// Filter narrows a rollup to a Ref set and/or view coordinates. Zero values
// mean "no restriction".
type Filter struct {
	Refs      []string
	Area      string
	Section   string
	Component string
}

// rollupLine is the normalized schema both line sources are unioned into
// before aggregation. Fraction is always in the 0..1 domain.
type rollupLine struct {
	Ref       string
	Section   string
	Area      string
	Component string
	CodeName  string // display name of the component code, e.g. "Blank"
	LabNorm   float64
	Fraction  float64
}

// cableLine is one cabsched row with the three convention-matched component
// norms attached. A NULL norm means no component of that name exists for the
// job; the corresponding virtual line is omitted.
type cableLine struct {
	CabNum     string
	EquipRef   string
	Section    string
	Area       string // owning equipment area, used by the base and test lines
	AGlandArea string
	ZGlandArea string
	Length     float64
	CabSize    string
	BaseNorm   sql.NullFloat64
	TermNorm   sql.NullFloat64
	TestNorm   sql.NullFloat64
	CabComp    float64
	AGlandComp float64
	ZGlandComp float64
	CabTest    float64
}

// expandCable materializes the 0..4 virtual completion lines of one cable:
// the base pull (norm scaled by length), the two gland terminations (same
// " Term" norm, independent fractions, own gland areas) and the test line.
// An unmatched component name silently contributes nothing.
func expandCable(cab cableLine) []rollupLine {
	lines := make([]rollupLine, 0, 4)

	if cab.BaseNorm.Valid {
		lines = append(lines, rollupLine{
			Ref:       cab.EquipRef,
			Section:   cab.Section,
			Area:      cab.Area,
			Component: cab.CabSize,
			LabNorm:   cab.BaseNorm.Float64 * cab.Length,
			Fraction:  cab.CabComp,
		})
	}

	if cab.TermNorm.Valid {
		lines = append(lines, rollupLine{
			Ref:       cab.EquipRef,
			Section:   cab.Section,
			Area:      cab.AGlandArea,
			Component: cab.CabSize + " Term",
			LabNorm:   cab.TermNorm.Float64,
			Fraction:  cab.AGlandComp,
		})
		lines = append(lines, rollupLine{
			Ref:       cab.EquipRef,
			Section:   cab.Section,
			Area:      cab.ZGlandArea,
			Component: cab.CabSize + " Term",
			LabNorm:   cab.TermNorm.Float64,
			Fraction:  cab.ZGlandComp,
		})
	}

	if cab.TestNorm.Valid {
		lines = append(lines, rollupLine{
			Ref:       cab.EquipRef,
			Section:   cab.Section,
			Area:      cab.Area,
			Component: cab.CabSize + " Test",
			LabNorm:   cab.TestNorm.Float64,
			Fraction:  cab.CabTest,
		})
	}

	return lines
}

// isAreaLevel reports whether a grouping pivots on Area. Header rows (codes
// whose display name is Blank or Title) are excluded from those views so they
// do not dilute percentages.
func isAreaLevel(groupBy GroupBy) bool {
	switch groupBy {
	case GroupByArea, GroupByAreaComponent, GroupByAreaSectionComponent:
		return true
	}
	return false
}

func groupKey(line rollupLine, groupBy GroupBy) models.RollupRow {
	switch groupBy {
	case GroupBySection:
		return models.RollupRow{Section: line.Section}
	case GroupByArea:
		return models.RollupRow{Area: line.Area}
	case GroupByAreaComponent:
		return models.RollupRow{Area: line.Area, Component: line.Component}
	case GroupByAreaSectionComponent:
		return models.RollupRow{Area: line.Area, Section: line.Section, Component: line.Component}
	default:
		return models.RollupRow{Ref: line.Ref}
	}
}

// aggregate groups the unioned line set and computes the completion figures.
// TotalHours and RecoveredHours are rounded to the given number of places;
// PercentComplete stays a 0..1 fraction and is nil when TotalHours is zero.
func aggregate(lines []rollupLine, groupBy GroupBy, places int) []models.RollupRow {
	type bucket struct {
		key       models.RollupRow
		total     float64
		recovered float64
	}

	buckets := make(map[models.RollupRow]*bucket)
	order := make([]models.RollupRow, 0)

	for _, line := range lines {
		if isAreaLevel(groupBy) && (line.CodeName == "Blank" || line.CodeName == "Title") {
			continue
		}

		key := groupKey(line, groupBy)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{key: key}
			buckets[key] = b
			order = append(order, key)
		}
		b.total += line.LabNorm
		b.recovered += line.LabNorm * line.Fraction
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.Area != b.Area {
			return a.Area < b.Area
		}
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		if a.Ref != b.Ref {
			return a.Ref < b.Ref
		}
		return a.Component < b.Component
	})

	rows := make([]models.RollupRow, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		row := b.key
		row.TotalHours = utils.Round(b.total, places)
		row.RecoveredHours = utils.Round(b.recovered, places)
		if row.TotalHours != 0 {
			pct := row.RecoveredHours / row.TotalHours
			row.PercentComplete = &pct
		}
		rows = append(rows, row)
	}

	return rows
}

// applyFilter drops lines outside the requested view coordinates. Ref
// filtering happens in SQL; area/section/component must be applied after
// cable expansion because the gland lines carry their own areas.
func applyFilter(lines []rollupLine, filter Filter) []rollupLine {
	if filter.Area == "" && filter.Section == "" && filter.Component == "" {
		return lines
	}
	kept := lines[:0]
	for _, line := range lines {
		if filter.Area != "" && line.Area != filter.Area {
			continue
		}
		if filter.Section != "" && line.Section != filter.Section {
			continue
		}
		if filter.Component != "" && line.Component != filter.Component {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

// fetchComponentLines loads every equipment line of the job joined to its
// component norm and the display name of its code.
func fetchComponentLines(ctx context.Context, db *sql.DB, jobNo string, refs []string) ([]rollupLine, error) {
	query := `
		SELECT e.ref, COALESCE(e.section, ''), COALESCE(e.area, ''), e.component,
		       COALESCE(k.name, ''), c.labnorm, e.complete
		FROM equiplist e
		JOIN components c ON c.id = e.component_id
		LEFT JOIN codes k ON k.jobno = e.jobno AND k.code = c.code
		WHERE e.jobno = $1`
	args := []interface{}{jobNo}
	if len(refs) > 0 {
		query += ` AND e.ref = ANY($2)`
		args = append(args, pq.Array(refs))
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []rollupLine
	for rows.Next() {
		var line rollupLine
		if err := rows.Scan(&line.Ref, &line.Section, &line.Area, &line.Component,
			&line.CodeName, &line.LabNorm, &line.Fraction); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// fetchCableLines loads every cable of the job with its convention-matched
// norms. Component names are not unique per job (historical norms share a
// name), so each lookup takes the newest matching component.
func fetchCableLines(ctx context.Context, db *sql.DB, jobNo string, refs []string) ([]cableLine, error) {
	query := `
		SELECT cab.cabnum, cab.equipref, COALESCE(eq.section, ''), COALESCE(eq.area, ''),
		       COALESCE(cab.aglandarea, ''), COALESCE(cab.zglandarea, ''),
		       cab.length, cab.cabsize,
		       base.labnorm, term.labnorm, test.labnorm,
		       cab.cabcomp, cab.aglandcomp, cab.zglandcomp, cab.cabtest
		FROM cabsched cab
		LEFT JOIN (
			SELECT jobno, ref, MIN(section) AS section, MIN(area) AS area
			FROM equiplist
			GROUP BY jobno, ref
		) eq ON eq.jobno = cab.jobno AND eq.ref = cab.equipref
		LEFT JOIN LATERAL (
			SELECT labnorm FROM components
			WHERE jobno = cab.jobno AND name = cab.cabsize
			ORDER BY id DESC LIMIT 1
		) base ON true
		LEFT JOIN LATERAL (
			SELECT labnorm FROM components
			WHERE jobno = cab.jobno AND name = cab.cabsize || ' Term'
			ORDER BY id DESC LIMIT 1
		) term ON true
		LEFT JOIN LATERAL (
			SELECT labnorm FROM components
			WHERE jobno = cab.jobno AND name = cab.cabsize || ' Test'
			ORDER BY id DESC LIMIT 1
		) test ON true
		WHERE cab.jobno = $1`
	args := []interface{}{jobNo}
	if len(refs) > 0 {
		query += ` AND cab.equipref = ANY($2)`
		args = append(args, pq.Array(refs))
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cables []cableLine
	for rows.Next() {
		var cab cableLine
		if err := rows.Scan(&cab.CabNum, &cab.EquipRef, &cab.Section, &cab.Area,
			&cab.AGlandArea, &cab.ZGlandArea, &cab.Length, &cab.CabSize,
			&cab.BaseNorm, &cab.TermNorm, &cab.TestNorm,
			&cab.CabComp, &cab.AGlandComp, &cab.ZGlandComp, &cab.CabTest); err != nil {
			return nil, err
		}
		cables = append(cables, cab)
	}
	return cables, rows.Err()
}

// Rollup is the completion-aggregation entry point shared by the main table,
// the pivoted views, the recompute path and the summary. Both line sources
// are fetched concurrently, expanded into the normalized schema, unioned and
// grouped by the requested key. Missing data (no cables, unmatched cable
// sizes, empty job) produces an empty result, never an error.
func Rollup(ctx context.Context, db *sql.DB, jobNo string, groupBy GroupBy, filter Filter, places int) ([]models.RollupRow, error) {
	var (
		compLines []rollupLine
		cables    []cableLine
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		compLines, err = fetchComponentLines(gctx, db, jobNo, filter.Refs)
		return err
	})
	g.Go(func() error {
		var err error
		cables, err = fetchCableLines(gctx, db, jobNo, filter.Refs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lines := compLines
	for _, cab := range cables {
		lines = append(lines, expandCable(cab)...)
	}
	lines = applyFilter(lines, filter)

	return aggregate(lines, groupBy, places), nil
}

// TenderHours returns the by-Ref rollup decorated with each Ref's description,
// keeping only the estimated hours. Used by the tender-hours view.
func TenderHours(ctx context.Context, db *sql.DB, jobNo string) ([]models.TenderHoursRow, error) {
	rollup, err := Rollup(ctx, db, jobNo, GroupByRef, Filter{}, 2)
	if err != nil {
		return nil, err
	}

	descQuery := `
		SELECT ref, MIN(COALESCE(description, ''))
		FROM equiplist
		WHERE jobno = $1
		GROUP BY ref`
	rows, err := db.QueryContext(ctx, descQuery, jobNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	descs := make(map[string]string)
	for rows.Next() {
		var ref, desc string
		if err := rows.Scan(&ref, &desc); err != nil {
			return nil, err
		}
		descs[ref] = desc
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.TenderHoursRow, 0, len(rollup))
	for _, row := range rollup {
		out = append(out, models.TenderHoursRow{
			Ref:         row.Ref,
			Description: descs[row.Ref],
			TotalHours:  row.TotalHours,
		})
	}
	return out, nil
}
