package timeline

import (
	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
)

// OperationInput is the pseudo block index used for errors about the
// operation's own input rather than an existing history block.
const OperationInput = -1

// Classifier supplies the master-data predicates the succession
// eligibility check needs. The engine never resolves designation or
// category ids itself; the caller closes over its catalog.
type Classifier struct {
	IsJudicial       func(designationID string) bool
	IsOfficeCategory func(categoryID string) bool
}

// rejoinable statuses: exits an employee can return from. Retired and
// Deceased are terminal.
var rejoinableStatuses = map[models.EmploymentStatus]struct{}{
	models.StatusResigned:   {},
	models.StatusTerminated: {},
	models.StatusOSD:        {},
	models.StatusSuspended:  {},
	models.StatusDeputation: {},
	models.StatusAbsent:     {},
	models.StatusRemoved:    {},
}

// TransferInput carries the relieving/joining dates and the new posting's
// descriptors.
type TransferInput struct {
	RelievingDate     dateutil.Date
	JoiningDate       dateutil.Date
	PostingPlaceTitle string
	HQID              string
	TehsilID          string
	PostingCategoryID string
	UnitID            string
	DesignationID     string
	BPS               int
	OrderNumber       string
	OrderDate         dateutil.Date
	MarkCurrent       bool
}

// RejoinInput reopens service after a rejoinable exit.
type RejoinInput struct {
	RejoinDate        dateutil.Date
	OrderNumber       string
	OrderDate         dateutil.Date
	PostingPlaceTitle string
	HQID              string
	TehsilID          string
	PostingCategoryID string
	UnitID            string
	DesignationID     string
	BPS               int
	MarkCurrent       bool
}

// SuccessionInput changes the posting-place title without relocation.
type SuccessionInput struct {
	RelievingDate        dateutil.Date
	JoiningDate          dateutil.Date
	NewPostingPlaceTitle string
	OrderNumber          string
	OrderDate            dateutil.Date
}

// AbsentDays returns the inclusive day count between the exit date and the
// day before rejoining.
func AbsentDays(exitDate, rejoinDate dateutil.Date) int {
	return dateutil.DaysBetweenInclusive(exitDate, rejoinDate.AddDays(-1))
}

// CurrentBlock returns the index of the single In-Service block marked
// currently working, or -1.
func CurrentBlock(history []models.EmploymentBlock) int {
	for i, b := range history {
		if b.Status == models.StatusInService && b.CurrentlyWorking {
			return i
		}
	}
	return -1
}

// LatestExitBlock returns the index of the most recent exit-classified
// block, found by the latest of status date, to date and from date, or -1.
func LatestExitBlock(history []models.EmploymentBlock) int {
	best := -1
	var bestDate *dateutil.Date
	for i, b := range history {
		if !IsExit(b.Status) || IsBlankBlock(b) {
			continue
		}
		d := latestDate(b)
		switch {
		case best == -1:
			best, bestDate = i, d
		case d != nil && (bestDate == nil || d.After(*bestDate)):
			best, bestDate = i, d
		}
	}
	return best
}

func latestDate(b models.EmploymentBlock) *dateutil.Date {
	var out *dateutil.Date
	for _, d := range []*dateutil.Date{b.StatusDate, b.ToDate, b.FromDate} {
		if d == nil {
			continue
		}
		if out == nil || d.After(*out) {
			out = d
		}
	}
	return out
}

// Transfer closes the current posting at the relieving date and opens a new
// In-Service block at the joining date. It either returns a fully
// re-validated replacement history or the violations that stopped it; the
// original slice is never touched.
func Transfer(emp models.Employee, in TransferInput) ([]models.EmploymentBlock, *Result) {
	res := &Result{}
	history := emp.EmploymentHistory

	cur := CurrentBlock(history)
	if cur == -1 {
		res.add(OperationInput, FieldStatus, KindEligibility,
			"transfer requires an In-Service record marked currently working")
		return nil, res
	}
	current := history[cur]

	if in.RelievingDate.IsZero() {
		res.add(OperationInput, "relieving_date", KindIncomplete, "relieving date is required")
	} else {
		if current.FromDate != nil && in.RelievingDate.Before(*current.FromDate) {
			res.add(OperationInput, "relieving_date", KindSequencing,
				"relieving date may not precede the current posting's From Date (%s)", current.FromDate)
		}
		if hit := dateInsideOther(history, cur, in.RelievingDate); hit >= 0 {
			res.addRelated(OperationInput, "relieving_date", KindOverlap, []int{hit},
				"relieving date falls inside service record %d", hit+1)
		}
	}

	if in.JoiningDate.IsZero() {
		res.add(OperationInput, "joining_date", KindIncomplete, "joining date is required")
	} else {
		if !in.RelievingDate.IsZero() && in.JoiningDate.Before(in.RelievingDate) {
			res.add(OperationInput, "joining_date", KindSequencing,
				"joining date may not precede the relieving date")
		}
		if hit := dateInsideOther(history, cur, in.JoiningDate); hit >= 0 {
			res.addRelated(OperationInput, "joining_date", KindOverlap, []int{hit},
				"joining date falls inside service record %d", hit+1)
		}
	}

	requireField(res, in.PostingPlaceTitle != "", "posting_place_title", "posting place is required")
	requireField(res, in.HQID != "", "hq_id", "headquarter is required")
	requireField(res, in.TehsilID != "", "tehsil_id", "tehsil is required")
	requireField(res, in.PostingCategoryID != "", "posting_category_id", "posting category is required")
	requireField(res, in.UnitID != "", "unit_id", "unit is required")
	requireField(res, in.DesignationID != "", "designation_id", "designation is required")
	requireField(res, in.BPS > 0, "bps", "BPS is required")
	requireField(res, in.OrderNumber != "", "order_number", "order number is required")
	requireField(res, !in.OrderDate.IsZero(), "order_date", "order date is required")

	if !res.OK() {
		return nil, res
	}

	next := cloneHistory(history)
	relieving := in.RelievingDate
	next[cur].ToDate = &relieving
	next[cur].CurrentlyWorking = false

	joining := in.JoiningDate
	block := models.EmploymentBlock{
		EmployeeID:        emp.ID,
		Status:            models.StatusInService,
		FromDate:          &joining,
		StatusDate:        &joining,
		CurrentlyWorking:  in.MarkCurrent,
		PostingPlaceTitle: in.PostingPlaceTitle,
		HQID:              strPtr(in.HQID),
		TehsilID:          strPtr(in.TehsilID),
		PostingCategoryID: strPtr(in.PostingCategoryID),
		UnitID:            strPtr(in.UnitID),
		DesignationID:     strPtr(in.DesignationID),
		BPS:               intPtr(in.BPS),
		OrderNumber:       in.OrderNumber,
		OrderDate:         datePtr(in.OrderDate),
	}
	next = append(next, block)
	if in.MarkCurrent {
		next = MarkCurrent(next, len(next)-1)
	}
	return finishOperation(emp, next, len(next)-1)
}

// Rejoin reopens service after a rejoinable exit. The returned absent-day
// count covers the exit date through the day before rejoining.
func Rejoin(emp models.Employee, in RejoinInput) ([]models.EmploymentBlock, int, *Result) {
	res := &Result{}
	history := emp.EmploymentHistory

	prev := LatestExitBlock(history)
	if prev == -1 {
		res.add(OperationInput, FieldStatus, KindEligibility,
			"rejoin requires a prior exit-classified record")
		return nil, 0, res
	}
	exit := history[prev]
	if _, ok := rejoinableStatuses[exit.Status]; !ok {
		res.add(OperationInput, FieldStatus, KindEligibility,
			"cannot rejoin after %s", exit.Status)
		return nil, 0, res
	}
	if exit.StatusDate == nil {
		res.add(prev, FieldStatusDate, KindIncomplete, "%s is required", ExitDateLabel(exit.Status))
		return nil, 0, res
	}

	if in.RejoinDate.IsZero() {
		res.add(OperationInput, "rejoin_date", KindIncomplete, "rejoin date is required")
		return nil, 0, res
	}
	if !in.RejoinDate.After(*exit.StatusDate) {
		res.add(OperationInput, "rejoin_date", KindSequencing,
			"rejoin date must be after the %s (%s)", ExitDateLabel(exit.Status), exit.StatusDate)
		return nil, 0, res
	}

	absent := AbsentDays(*exit.StatusDate, in.RejoinDate)

	requireField(res, in.OrderNumber != "", "order_number", "order number is required")
	requireField(res, in.PostingPlaceTitle != "", "posting_place_title", "posting place is required")
	if !res.OK() {
		return nil, 0, res
	}

	next := cloneHistory(history)
	rejoin := in.RejoinDate
	block := models.EmploymentBlock{
		EmployeeID:        emp.ID,
		Status:            models.StatusInService,
		FromDate:          &rejoin,
		StatusDate:        &rejoin,
		CurrentlyWorking:  in.MarkCurrent,
		PostingPlaceTitle: in.PostingPlaceTitle,
		HQID:              strPtr(in.HQID),
		TehsilID:          strPtr(in.TehsilID),
		PostingCategoryID: strPtr(in.PostingCategoryID),
		UnitID:            strPtr(in.UnitID),
		DesignationID:     strPtr(in.DesignationID),
		BPS:               intPtr(in.BPS),
		OrderNumber:       in.OrderNumber,
		OrderDate:         datePtr(in.OrderDate),
	}
	next = append(next, block)
	if in.MarkCurrent {
		next = MarkCurrent(next, len(next)-1)
	}
	out, vres := finishOperation(emp, next, len(next)-1)
	if vres != nil && !vres.OK() {
		return nil, 0, vres
	}
	return out, absent, vres
}

// Succession replaces the posting-place title for continuity changes that
// involve no relocation. Narrower eligibility than Transfer: the current
// posting must be neither judicial nor an office-category seat.
func Succession(emp models.Employee, in SuccessionInput, classify Classifier) ([]models.EmploymentBlock, *Result) {
	res := &Result{}
	history := emp.EmploymentHistory

	cur := CurrentBlock(history)
	if cur == -1 {
		res.add(OperationInput, FieldStatus, KindEligibility,
			"succession requires an In-Service record marked currently working")
		return nil, res
	}
	current := history[cur]

	if classify.IsJudicial != nil && current.DesignationID != nil && classify.IsJudicial(*current.DesignationID) {
		res.add(OperationInput, "designation_id", KindEligibility,
			"judicial officers are not eligible for succession")
	}
	if classify.IsOfficeCategory != nil && current.PostingCategoryID != nil && classify.IsOfficeCategory(*current.PostingCategoryID) {
		res.add(OperationInput, "posting_category_id", KindEligibility,
			"office-category postings are not eligible for succession")
	}

	requireField(res, !in.RelievingDate.IsZero(), "relieving_date", "relieving date is required")
	requireField(res, !in.JoiningDate.IsZero(), "joining_date", "joining date is required")
	requireField(res, in.NewPostingPlaceTitle != "", "posting_place_title", "new posting place is required")
	if !res.OK() {
		return nil, res
	}

	next := cloneHistory(history)
	relieving := in.RelievingDate
	wasCurrent := next[cur].CurrentlyWorking
	next[cur].ToDate = &relieving
	next[cur].CurrentlyWorking = false

	joining := in.JoiningDate
	block := next[cur]
	block.ID = ""
	block.FromDate = &joining
	block.StatusDate = &joining
	block.ToDate = nil
	block.CurrentlyWorking = wasCurrent
	block.PostingPlaceTitle = in.NewPostingPlaceTitle
	block.Leaves = nil
	block.DisciplinaryActions = nil
	if in.OrderNumber != "" {
		block.OrderNumber = in.OrderNumber
	}
	if !in.OrderDate.IsZero() {
		block.OrderDate = datePtr(in.OrderDate)
	}
	next = append(next, block)
	if block.CurrentlyWorking {
		next = MarkCurrent(next, len(next)-1)
	}
	return finishOperation(emp, next, len(next)-1)
}

// finishOperation runs the full sequencer over the proposed history and
// returns it in chronological order. pending is the index of the block the
// operation just opened: when the caller chose not to mark it current, its
// To Date stays open until the next order arrives, so that one missing
// field must not abort the operation. Every other violation still does.
func finishOperation(emp models.Employee, next []models.EmploymentBlock, pending int) ([]models.EmploymentBlock, *Result) {
	vres := ValidateHistory(emp.DateOfAppointment, next)
	dropPendingToDate(vres, pending)
	if !vres.OK() {
		return nil, vres
	}
	return SortChronological(next), &Result{}
}

func dropPendingToDate(res *Result, pending int) {
	kept := res.Errors[:0]
	for _, e := range res.Errors {
		if e.Block == pending && e.Field == FieldToDate && e.Kind == KindIncomplete {
			continue
		}
		kept = append(kept, e)
	}
	res.Errors = kept
}

// dateInsideOther returns the index of a block (other than skip) whose
// interval strictly contains d, or -1. Touching boundaries are allowed.
func dateInsideOther(history []models.EmploymentBlock, skip int, d dateutil.Date) int {
	for i, b := range history {
		if i == skip || IsBlankBlock(b) {
			continue
		}
		iv, ok := scanInterval(b)
		if !ok {
			continue
		}
		if Contains(iv, d, TouchingAllowed) {
			return i
		}
	}
	return -1
}

func requireField(res *Result, ok bool, field, message string) {
	if !ok {
		res.add(OperationInput, field, KindIncomplete, message)
	}
}

func cloneHistory(history []models.EmploymentBlock) []models.EmploymentBlock {
	out := make([]models.EmploymentBlock, len(history))
	copy(out, history)
	return out
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func intPtr(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func datePtr(d dateutil.Date) *dateutil.Date {
	if d.IsZero() {
		return nil
	}
	return &d
}
