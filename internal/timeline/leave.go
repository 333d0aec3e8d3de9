package timeline

import (
	"fmt"

	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
)

// LeaveDays returns the derived inclusive day count for a leave, or 0 when
// either endpoint is missing.
func LeaveDays(l models.Leave) int {
	if l.StartDate == nil || l.EndDate == nil {
		return 0
	}
	return dateutil.DaysBetweenInclusive(*l.StartDate, *l.EndDate)
}

// ValidateLeaves checks the leaves nested in one block: both dates present
// and ordered, strict containment within the block's effective interval,
// and pairwise non-overlap. Leaves must not even touch; a leave day cannot
// be double-booked, which is stricter than the block-level rule.
//
// blockIndex is the block's position in the history slice, used only for
// error reporting.
func ValidateLeaves(blockIndex int, block models.EmploymentBlock) *Result {
	res := &Result{}
	bounds := EffectiveInterval(block)

	for i, leave := range block.Leaves {
		if leave.StartDate == nil {
			res.add(blockIndex, leaveField(i, "start_date"), KindIncomplete, "leave start date is required")
		}
		if leave.EndDate == nil {
			res.add(blockIndex, leaveField(i, "end_date"), KindIncomplete, "leave end date is required")
		}
		if leave.StartDate == nil || leave.EndDate == nil {
			continue
		}
		if leave.StartDate.After(*leave.EndDate) {
			res.add(blockIndex, leaveField(i, "start_date"), KindBounds,
				"leave start date must be on or before its end date")
			continue
		}
		if outOfBounds(bounds, *leave.StartDate) {
			res.add(blockIndex, leaveField(i, "start_date"), KindBounds,
				"leave starts outside the service record (%s)", formatInterval(bounds))
		}
		if outOfBounds(bounds, *leave.EndDate) {
			res.add(blockIndex, leaveField(i, "end_date"), KindBounds,
				"leave ends outside the service record (%s)", formatInterval(bounds))
		}
	}

	// Pairwise scan; the error lands on the later-indexed leave and names
	// the one it collides with.
	for i := 0; i < len(block.Leaves); i++ {
		for j := i + 1; j < len(block.Leaves); j++ {
			a, b := block.Leaves[i], block.Leaves[j]
			if a.StartDate == nil || a.EndDate == nil || b.StartDate == nil || b.EndDate == nil {
				continue
			}
			ivA := Span(*a.StartDate, a.EndDate)
			ivB := Span(*b.StartDate, b.EndDate)
			if Overlaps(ivA, ivB, TouchingOverlaps) {
				res.addRelated(blockIndex, leaveField(j, "start_date"), KindOverlap,
					[]int{i, j},
					"overlaps leave %d (%s to %s)", i+1, a.StartDate, a.EndDate)
			}
		}
	}

	return res
}

// ClampLeaves returns the block's leaves with persisted dates snapped into
// the block's current bounds and the derived day count refreshed. Legacy
// rows that drifted slightly outside the posting are auto-repaired on load
// instead of blocking the page; edits after load are strictly validated.
func ClampLeaves(block models.EmploymentBlock) []models.Leave {
	bounds := EffectiveInterval(block)
	out := make([]models.Leave, len(block.Leaves))
	copy(out, block.Leaves)
	for i := range out {
		if out[i].StartDate != nil && bounds.Start != nil && out[i].StartDate.Before(*bounds.Start) {
			v := *bounds.Start
			out[i].StartDate = &v
		}
		if out[i].EndDate != nil && bounds.End != nil && out[i].EndDate.After(*bounds.End) {
			v := *bounds.End
			out[i].EndDate = &v
		}
		if out[i].StartDate != nil && out[i].EndDate != nil && out[i].StartDate.After(*out[i].EndDate) {
			v := *out[i].StartDate
			out[i].EndDate = &v
		}
		out[i].Days = LeaveDays(out[i])
	}
	return out
}

func outOfBounds(bounds Interval, d dateutil.Date) bool {
	if bounds.Start != nil && d.Before(*bounds.Start) {
		return true
	}
	if bounds.End != nil && d.After(*bounds.End) {
		return true
	}
	return false
}

func leaveField(i int, name string) string {
	return fmt.Sprintf("leaves[%d].%s", i, name)
}
