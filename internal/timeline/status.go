package timeline

import (
	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
)

// StatusKind splits the status taxonomy into the two interval
// representations: ranged statuses carry a from/to range, exit statuses a
// single status date.
type StatusKind int

const (
	Ranged StatusKind = iota
	Exit
)

var exitStatuses = map[models.EmploymentStatus]struct{}{
	models.StatusRetired:    {},
	models.StatusDeceased:   {},
	models.StatusResigned:   {},
	models.StatusTerminated: {},
	models.StatusSuspended:  {},
	models.StatusOSD:        {},
	models.StatusDeputation: {},
	models.StatusAbsent:     {},
	models.StatusRemoved:    {},
}

var exitDateLabels = map[models.EmploymentStatus]string{
	models.StatusRetired:    "Retirement Date",
	models.StatusDeceased:   "Date of Death",
	models.StatusResigned:   "Resignation Date",
	models.StatusTerminated: "Termination Date",
	models.StatusSuspended:  "Suspension Date",
	models.StatusOSD:        "OSD Date",
	models.StatusDeputation: "Deputation Date",
	models.StatusAbsent:     "Absence Date",
	models.StatusRemoved:    "Removal Date",
}

// Classify returns the interval representation for a status. Everything
// outside the exit set (i.e. In-Service) is ranged.
func Classify(status models.EmploymentStatus) StatusKind {
	if _, ok := exitStatuses[status]; ok {
		return Exit
	}
	return Ranged
}

// IsExit reports whether the status is represented by a single status date.
func IsExit(status models.EmploymentStatus) bool {
	return Classify(status) == Exit
}

// ExitDateLabel returns the human label for the status date field.
func ExitDateLabel(status models.EmploymentStatus) string {
	if label, ok := exitDateLabels[status]; ok {
		return label
	}
	return "Status Date"
}

// ApplyStatusChange returns a copy of the block switched to the new status
// with the date fields that no longer apply cleared: moving to an exit
// status drops the range and the currently-working flag, moving back to a
// ranged status drops the status date.
func ApplyStatusChange(block models.EmploymentBlock, newStatus models.EmploymentStatus) models.EmploymentBlock {
	out := block
	out.Status = newStatus
	if IsExit(newStatus) {
		out.FromDate = nil
		out.ToDate = nil
		out.CurrentlyWorking = false
	} else {
		out.StatusDate = nil
	}
	return out
}

// EffectiveInterval derives the span a block occupies on the timeline; it
// is the single source of truth for both overlap and sequencing checks.
// Exit blocks occupy the degenerate day [statusDate, statusDate], so they
// conflict with a range only when they fall strictly inside it. A ranged
// block marked currently working is open-ended.
func EffectiveInterval(block models.EmploymentBlock) Interval {
	if IsExit(block.Status) {
		if block.StatusDate == nil {
			return Interval{}
		}
		return Point(*block.StatusDate)
	}
	iv := Interval{Start: block.FromDate}
	if !block.CurrentlyWorking {
		iv.End = block.ToDate
	}
	return iv
}

// EffectiveStart returns the date the block's span begins, or nil when the
// required date field has not been filled in yet.
func EffectiveStart(block models.EmploymentBlock) *dateutil.Date {
	if IsExit(block.Status) {
		return block.StatusDate
	}
	return block.FromDate
}
