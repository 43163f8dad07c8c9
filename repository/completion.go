package repository

import (
	"backend/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a mutation target does not exist under the
// given job. Nothing is written in that case.
var ErrNotFound = errors.New("not found")

// UpdateEquipCompletion writes a new Complete fraction to one equipment line
// and returns the updated line. The fraction is written as given; callers own
// validation and any percent conversion.
func UpdateEquipCompletion(ctx context.Context, db *sql.DB, jobNo string, id int, complete float64) (*models.Equiplist, error) {
	query := `
		UPDATE equiplist
		SET complete = $1
		WHERE jobno = $2 AND id = $3
		RETURNING id, jobno, ref, COALESCE(description, ''), COALESCE(template, ''),
		          COALESCE(section, ''), COALESCE(area, ''), component, complete,
		          component_id, COALESCE(template_id, 0)`

	var item models.Equiplist
	err := db.QueryRowContext(ctx, query, complete, jobNo, id).Scan(
		&item.ID, &item.JobNo, &item.Ref, &item.Description, &item.Template,
		&item.Section, &item.Area, &item.Component, &item.Complete,
		&item.ComponentID, &item.TemplateID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateCableCompletion writes the supplied completion fractions to one cable.
// Nil fields are left untouched. Fractions are written as given (0..1); the
// percent conversion belongs to the handler boundary.
func UpdateCableCompletion(ctx context.Context, db *sql.DB, jobNo string, cabNum string, upd models.CableCompletionUpdate) (*models.Cabsched, error) {
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 6)
	idx := 1

	addSet := func(column string, value *float64) {
		if value != nil {
			sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
			args = append(args, *value)
			idx++
		}
	}
	addSet("cabcomp", upd.CabComp)
	addSet("aglandcomp", upd.AGlandComp)
	addSet("zglandcomp", upd.ZGlandComp)
	addSet("cabtest", upd.CabTest)

	if len(sets) == 0 {
		return nil, errors.New("no completion fields supplied")
	}

	query := fmt.Sprintf(`
		UPDATE cabsched
		SET %s
		WHERE jobno = $%d AND cabnum = $%d
		RETURNING jobno, cabnum, length, COALESCE(equipref, ''),
		          COALESCE(aglandarea, ''), COALESCE(zglandarea, ''), cabsize,
		          aglandcomp, zglandcomp, cabcomp, cabtest, COALESCE(component_id, 0)`,
		strings.Join(sets, ", "), idx, idx+1)
	args = append(args, jobNo, cabNum)

	var cab models.Cabsched
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&cab.JobNo, &cab.CabNum, &cab.Length, &cab.EquipRef,
		&cab.AGlandArea, &cab.ZGlandArea, &cab.CabSize,
		&cab.AGlandComp, &cab.ZGlandComp, &cab.CabComp, &cab.CabTest, &cab.ComponentID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cab, nil
}

// RecomputeRefs re-runs the by-Ref rollup scoped to the affected Refs only,
// never the whole job. A Ref that lost all of its lines concurrently is simply
// absent from the result.
func RecomputeRefs(ctx context.Context, db *sql.DB, jobNo string, refs []string) ([]models.RollupRow, error) {
	if len(refs) == 0 {
		return []models.RollupRow{}, nil
	}
	return Rollup(ctx, db, jobNo, GroupByRef, Filter{Refs: refs}, 2)
}

// RollupRowForRef picks the single recomputed row of one Ref, or nil when the
// Ref has no lines left.
func RollupRowForRef(rows []models.RollupRow, ref string) *models.RollupRow {
	for i := range rows {
		if rows[i].Ref == ref {
			return &rows[i]
		}
	}
	return nil
}

// BulkUpdateCompletion applies a list of completion mutations sequentially,
// attributing each failure to its input item without aborting the batch, then
// recomputes the rollup once for the union of affected Refs.
func BulkUpdateCompletion(ctx context.Context, db *sql.DB, jobNo string, items []models.BulkCompletionItem) (*models.BulkCompletionResult, error) {
	result := &models.BulkCompletionResult{
		Success:  []models.CompletionResult{},
		Failures: []models.BulkItemFailure{},
		Rollups:  []models.RollupRow{},
	}

	affected := make(map[string]bool)

	for i, item := range items {
		switch item.Kind {
		case "equip":
			if item.Complete == nil {
				result.Failures = append(result.Failures, models.BulkItemFailure{
					Index: i, ID: item.ID, Error: "Complete is required for equip items",
				})
				continue
			}
			updated, err := UpdateEquipCompletion(ctx, db, jobNo, item.ID, *item.Complete)
			if err != nil {
				result.Failures = append(result.Failures, models.BulkItemFailure{
					Index: i, ID: item.ID, Error: itemError(err, "equipment line"),
				})
				continue
			}
			affected[updated.Ref] = true
			result.Success = append(result.Success, models.CompletionResult{UpdatedEquip: updated})

		case "cable":
			upd := models.CableCompletionUpdate{
				CabComp:    item.CabComp,
				AGlandComp: item.AGlandComp,
				ZGlandComp: item.ZGlandComp,
				CabTest:    item.CabTest,
			}
			updated, err := UpdateCableCompletion(ctx, db, jobNo, item.CabNum, upd)
			if err != nil {
				result.Failures = append(result.Failures, models.BulkItemFailure{
					Index: i, CabNum: item.CabNum, Error: itemError(err, "cable"),
				})
				continue
			}
			if updated.EquipRef != "" {
				affected[updated.EquipRef] = true
			}
			result.Success = append(result.Success, models.CompletionResult{UpdatedCable: updated})

		default:
			result.Failures = append(result.Failures, models.BulkItemFailure{
				Index: i, ID: item.ID, CabNum: item.CabNum,
				Error: fmt.Sprintf("unknown kind %q", item.Kind),
			})
		}
	}

	refs := make([]string, 0, len(affected))
	for ref := range affected {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	rollups, err := RecomputeRefs(ctx, db, jobNo, refs)
	if err != nil {
		return nil, err
	}
	result.Rollups = rollups

	return result, nil
}

func itemError(err error, what string) string {
	if errors.Is(err, ErrNotFound) {
		return what + " not found"
	}
	return err.Error()
}

// codeLine is one equipment line as fetched for a by-code update: its row id
// and the code of the component it was created from.
type codeLine struct {
	ID   int
	Code string
}

// planCodeCompletions decides, line by line, which equipment lines a by-code
// update writes. A line is written only when its component code is a key in
// codes; lines of any other code are never touched. Every requested code
// appears in the returned counts, with zero when no line matched it.
func planCodeCompletions(lines []codeLine, codes map[string]float64) (map[string][]int, map[string]int64) {
	ids := make(map[string][]int, len(codes))
	counts := make(map[string]int64, len(codes))
	for code := range codes {
		counts[code] = 0
	}
	for _, line := range lines {
		if _, ok := codes[line.Code]; !ok {
			continue
		}
		ids[line.Code] = append(ids[line.Code], line.ID)
		counts[line.Code]++
	}
	return ids, counts
}

// BulkUpdateByCode sets Complete on every equipment line of the selected Refs
// whose component code is in the given set. Lines of other codes are left
// untouched. Returns the number of lines changed per code plus the recomputed
// rollup for the selected Refs.
func BulkUpdateByCode(ctx context.Context, db *sql.DB, jobNo string, refs []string, codes map[string]float64) (map[string]int64, []models.RollupRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT e.id, c.code
		FROM equiplist e
		JOIN components c ON c.id = e.component_id
		WHERE e.jobno = $1 AND e.ref = ANY($2)`,
		jobNo, pq.Array(refs))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var lines []codeLine
	for rows.Next() {
		var line codeLine
		if err := rows.Scan(&line.ID, &line.Code); err != nil {
			return nil, nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	idsByCode, updatedByCode := planCodeCompletions(lines, codes)

	orderedCodes := make([]string, 0, len(idsByCode))
	for code := range idsByCode {
		orderedCodes = append(orderedCodes, code)
	}
	sort.Strings(orderedCodes)

	for _, code := range orderedCodes {
		_, err := db.ExecContext(ctx, `
			UPDATE equiplist
			SET complete = $1
			WHERE jobno = $2 AND id = ANY($3)`,
			codes[code], jobNo, pq.Array(idsByCode[code]))
		if err != nil {
			return nil, nil, err
		}
	}

	rollups, err := RecomputeRefs(ctx, db, jobNo, refs)
	if err != nil {
		return nil, nil, err
	}

	return updatedByCode, rollups, nil
}
