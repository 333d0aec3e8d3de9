package timeline

import (
	"sort"

	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
)

// Field names mirror the JSON shape of models.EmploymentBlock so the form
// can attach each message to its input.
const (
	FieldFromDate         = "from_date"
	FieldToDate           = "to_date"
	FieldStatusDate       = "status_date"
	FieldStatus           = "status"
	FieldCurrentlyWorking = "currently_working"
)

// Patch is a single proposed field fill. The sequencer never mutates the
// history it is given; auto-fills are proposed as patches the caller
// applies explicitly, so tests can assert on the patch itself.
type Patch struct {
	Block int           `json:"block"`
	Field string        `json:"field"`
	Value dateutil.Date `json:"value"`
}

// IsBlankBlock reports whether a block is an untouched form row: no posting
// title, no dates, no designation. Blank rows never trigger errors.
func IsBlankBlock(b models.EmploymentBlock) bool {
	return b.PostingPlaceTitle == "" &&
		b.FromDate == nil && b.ToDate == nil && b.StatusDate == nil &&
		b.DesignationID == nil
}

// ProposeAutoFill looks for an open In-Service block that is immediately
// followed, in chronological order, by an exit block, and proposes closing
// it at the exit date ("your retirement date automatically closes your last
// posting"). Only the first applicable fill is returned; the caller applies
// it and re-validates.
func ProposeAutoFill(doa dateutil.Date, history []models.EmploymentBlock) (Patch, bool) {
	ordered := sortedActive(history)
	for k := 0; k+1 < len(ordered); k++ {
		prev, cur := ordered[k], ordered[k+1]
		if patch, ok := autoFillFor(history, prev, cur); ok {
			return patch, true
		}
	}
	return Patch{}, false
}

func autoFillFor(history []models.EmploymentBlock, prevIdx, curIdx int) (Patch, bool) {
	prev := history[prevIdx]
	cur := history[curIdx]
	if IsExit(prev.Status) || prev.ToDate != nil || prev.CurrentlyWorking {
		return Patch{}, false
	}
	if !IsExit(cur.Status) || cur.StatusDate == nil {
		return Patch{}, false
	}
	if prev.FromDate != nil && cur.StatusDate.Before(*prev.FromDate) {
		return Patch{}, false
	}
	return Patch{Block: prevIdx, Field: FieldToDate, Value: *cur.StatusDate}, true
}

// ApplyPatch returns a copy of the history with the patch applied.
func ApplyPatch(history []models.EmploymentBlock, patch Patch) []models.EmploymentBlock {
	out := make([]models.EmploymentBlock, len(history))
	copy(out, history)
	if patch.Block < 0 || patch.Block >= len(out) {
		return out
	}
	switch patch.Field {
	case FieldToDate:
		v := patch.Value
		out[patch.Block].ToDate = &v
	case FieldFromDate:
		v := patch.Value
		out[patch.Block].FromDate = &v
	case FieldStatusDate:
		v := patch.Value
		out[patch.Block].StatusDate = &v
	}
	return out
}

// MarkCurrent returns a copy of the history with the flag set on idx and
// cleared everywhere else; at most one block may be the current one.
func MarkCurrent(history []models.EmploymentBlock, idx int) []models.EmploymentBlock {
	out := make([]models.EmploymentBlock, len(history))
	copy(out, history)
	for i := range out {
		out[i].CurrentlyWorking = i == idx
	}
	return out
}

// SortChronological returns a copy of the history ordered by effective
// start (stable; blocks without a start keep their relative order at the
// end). Persisted histories are normalised through this before display.
func SortChronological(history []models.EmploymentBlock) []models.EmploymentBlock {
	out := make([]models.EmploymentBlock, len(history))
	copy(out, history)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := EffectiveStart(out[i]), EffectiveStart(out[j])
		if si == nil || sj == nil {
			return sj == nil && si != nil
		}
		return si.Before(*sj)
	})
	return out
}

// ValidateHistory checks an employee's full service history against the
// timeline invariants: pairwise non-overlap (touching allowed), the date of
// appointment anchoring exactly one block which must come first, each block
// starting no earlier than its predecessor ends, completeness of In-Service
// ranges, and uniqueness of the currently-working flag.
//
// Errors are reported against the caller's original indices regardless of
// array order; the form edits blocks in user-presented order. When an
// auto-fill patch would resolve an open predecessor (see ProposeAutoFill),
// validation behaves as if the patch were applied instead of reporting a
// permanent conflict.
func ValidateHistory(doa dateutil.Date, history []models.EmploymentBlock) *Result {
	res := &Result{}

	// Validate as if pending auto-fills were applied; the caller is handed
	// the same patches via ProposeAutoFill.
	working := history
	for i := 0; i < len(history); i++ {
		patch, ok := ProposeAutoFill(doa, working)
		if !ok {
			break
		}
		working = ApplyPatch(working, patch)
	}

	for i, b := range working {
		if IsBlankBlock(b) {
			continue
		}
		validateBlockDates(res, i, b)
	}

	ordered := sortedActive(working)

	validateOverlaps(res, working, ordered)
	validateAppointmentAnchor(res, doa, working, ordered)
	validateOrdering(res, working, ordered)
	validateCompleteness(res, working)
	validateCurrentUniqueness(res, working)

	return res
}

// validateBlockDates checks that the date fields the status representation
// requires are present.
func validateBlockDates(res *Result, idx int, b models.EmploymentBlock) {
	if IsExit(b.Status) {
		if b.StatusDate == nil {
			res.add(idx, FieldStatusDate, KindIncomplete, "%s is required", ExitDateLabel(b.Status))
		}
		return
	}
	if b.FromDate == nil {
		res.add(idx, FieldFromDate, KindIncomplete, "From Date is required")
	}
	if b.FromDate != nil && b.ToDate != nil && b.ToDate.Before(*b.FromDate) {
		res.add(idx, FieldToDate, KindSequencing, "To Date must be on or after From Date")
	}
}

// scanInterval is the span used for the pairwise overlap scan. An
// In-Service block whose To Date is still missing is incomplete rather
// than genuinely open-ended; treating it as open would drown the form in
// overlap errors, so it scans as the single day it is known to occupy and
// the missing To Date is reported separately.
func scanInterval(b models.EmploymentBlock) (Interval, bool) {
	if IsExit(b.Status) {
		if b.StatusDate == nil {
			return Interval{}, false
		}
		return Point(*b.StatusDate), true
	}
	if b.FromDate == nil {
		return Interval{}, false
	}
	if b.ToDate == nil && !b.CurrentlyWorking {
		return Point(*b.FromDate), true
	}
	return EffectiveInterval(b), true
}

func validateOverlaps(res *Result, history []models.EmploymentBlock, ordered []int) {
	type scanned struct {
		idx int
		iv  Interval
	}
	var scan []scanned
	for _, i := range ordered {
		if iv, ok := scanInterval(history[i]); ok {
			scan = append(scan, scanned{idx: i, iv: iv})
		}
	}
	for a := 0; a < len(scan); a++ {
		for b := a + 1; b < len(scan); b++ {
			if !Overlaps(scan[a].iv, scan[b].iv, TouchingAllowed) {
				continue
			}
			lo, hi := scan[a], scan[b]
			if lo.idx > hi.idx {
				lo, hi = hi, lo
			}
			res.addRelated(hi.idx, startField(history[hi.idx]), KindOverlap,
				[]int{lo.idx, hi.idx},
				"overlaps service record %d (%s)", lo.idx+1, formatInterval(lo.iv))
		}
	}
}

func validateAppointmentAnchor(res *Result, doa dateutil.Date, history []models.EmploymentBlock, ordered []int) {
	if len(ordered) == 0 {
		return
	}
	var anchors []int
	for _, i := range ordered {
		if s := EffectiveStart(history[i]); s != nil && s.Equal(doa) {
			anchors = append(anchors, i)
		}
	}
	switch {
	case len(anchors) == 0:
		first := ordered[0]
		if EffectiveStart(history[first]) != nil {
			res.add(first, startField(history[first]), KindSequencing,
				"first service record must start on the date of appointment (%s)", doa)
		}
	default:
		for _, i := range anchors[1:] {
			res.add(i, startField(history[i]), KindSequencing,
				"the date of appointment may anchor only one service record")
		}
		if anchors[0] != ordered[0] {
			res.add(anchors[0], startField(history[anchors[0]]), KindSequencing,
				"the record starting on the date of appointment must come first")
		}
	}
}

func validateOrdering(res *Result, history []models.EmploymentBlock, ordered []int) {
	for k := 1; k < len(ordered); k++ {
		prevIdx, curIdx := ordered[k-1], ordered[k]
		prevEnd := EffectiveInterval(history[prevIdx]).End
		curStart := EffectiveStart(history[curIdx])
		if prevEnd == nil || curStart == nil {
			continue
		}
		if curStart.Before(*prevEnd) {
			res.addRelated(curIdx, startField(history[curIdx]), KindSequencing,
				[]int{prevIdx, curIdx},
				"starts before service record %d ends (%s)", prevIdx+1, prevEnd)
		}
	}
}

func validateCompleteness(res *Result, history []models.EmploymentBlock) {
	for i, b := range history {
		if IsBlankBlock(b) || IsExit(b.Status) {
			continue
		}
		if b.ToDate == nil && !b.CurrentlyWorking {
			res.add(i, FieldToDate, KindIncomplete,
				"supply a To Date or mark the record as currently working")
		}
	}
}

func validateCurrentUniqueness(res *Result, history []models.EmploymentBlock) {
	seen := -1
	for i, b := range history {
		if IsBlankBlock(b) || !b.CurrentlyWorking {
			continue
		}
		if seen >= 0 {
			res.addRelated(i, FieldCurrentlyWorking, KindSequencing, []int{seen, i},
				"only one service record may be marked currently working")
			continue
		}
		seen = i
	}
}

// sortedActive returns original indices of non-blank blocks ordered by
// effective start (stable; ties and missing starts keep original order).
func sortedActive(history []models.EmploymentBlock) []int {
	var idx []int
	for i, b := range history {
		if !IsBlankBlock(b) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		sa, sb := EffectiveStart(history[idx[a]]), EffectiveStart(history[idx[b]])
		if sa == nil || sb == nil {
			return sb == nil && sa != nil
		}
		return sa.Before(*sb)
	})
	return idx
}

func startField(b models.EmploymentBlock) string {
	if IsExit(b.Status) {
		return FieldStatusDate
	}
	return FieldFromDate
}

func formatInterval(iv Interval) string {
	start, end := "...", "ongoing"
	if iv.Start != nil {
		start = iv.Start.String()
	}
	if iv.End != nil {
		end = iv.End.String()
	}
	return start + " to " + end
}
