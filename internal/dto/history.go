package dto

import (
	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/internal/timeline"
	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
)

// EmploymentBlockPayload is one service-history row as submitted by the
// timeline form. IDs are carried through so edits keep existing rows.
type EmploymentBlockPayload struct {
	ID                  string                      `json:"id"`
	Status              models.EmploymentStatus     `json:"status"`
	FromDate            *dateutil.Date              `json:"from_date,omitempty"`
	ToDate              *dateutil.Date              `json:"to_date,omitempty"`
	StatusDate          *dateutil.Date              `json:"status_date,omitempty"`
	CurrentlyWorking    bool                        `json:"currently_working"`
	PostingPlaceTitle   string                      `json:"posting_place_title"`
	HQID                *string                     `json:"hq_id,omitempty"`
	TehsilID            *string                     `json:"tehsil_id,omitempty"`
	PostingCategoryID   *string                     `json:"posting_category_id,omitempty"`
	UnitID              *string                     `json:"unit_id,omitempty"`
	DesignationID       *string                     `json:"designation_id,omitempty"`
	BPS                 *int                        `json:"bps,omitempty"`
	OrderNumber         string                      `json:"order_number"`
	OrderDate           *dateutil.Date              `json:"order_date,omitempty"`
	StatusRemarks       string                      `json:"status_remarks"`
	Leaves              []LeavePayload              `json:"leaves,omitempty"`
	DisciplinaryActions []DisciplinaryActionPayload `json:"disciplinary_actions,omitempty"`
}

// LeavePayload is one leave row nested in a service-history block.
type LeavePayload struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	StartDate *dateutil.Date `json:"start_date,omitempty"`
	EndDate   *dateutil.Date `json:"end_date,omitempty"`
	Remarks   string         `json:"remarks"`
}

// DisciplinaryActionPayload is one disciplinary record nested in a block.
type DisciplinaryActionPayload struct {
	ID               string               `json:"id"`
	ComplaintInquiry string               `json:"complaint_inquiry"`
	Allegation       string               `json:"allegation"`
	InquiryStatus    models.InquiryStatus `json:"inquiry_status"`
	CourtName        *string              `json:"court_name,omitempty"`
	HearingDate      *dateutil.Date       `json:"hearing_date,omitempty"`
	DecisionDate     *dateutil.Date       `json:"decision_date,omitempty"`
	Decision         string               `json:"decision"`
	ActionDate       *dateutil.Date       `json:"action_date,omitempty"`
	Remarks          string               `json:"remarks"`
}

// UpdateHistoryRequest replaces an employee's whole service history.
type UpdateHistoryRequest struct {
	EmploymentHistory []EmploymentBlockPayload `json:"employment_history"`
}

// HistoryResponse carries the normalised service history for the timeline
// screen: chronological blocks with nested leaves and disciplinary actions.
type HistoryResponse struct {
	EmployeeID        string                   `json:"employee_id"`
	DateOfAppointment dateutil.Date            `json:"date_of_appointment"`
	EmploymentHistory []models.EmploymentBlock `json:"employment_history"`
}

// HistoryValidationResponse is the dry-run validation result: every rule
// violation keyed to its source field, plus the auto-fill the engine would
// apply.
type HistoryValidationResponse struct {
	Valid    bool                  `json:"valid"`
	Errors   []timeline.FieldError `json:"errors"`
	AutoFill *timeline.Patch       `json:"auto_fill,omitempty"`
}

// ToModel converts the payload into the persistence model.
func (p EmploymentBlockPayload) ToModel(employeeID string) models.EmploymentBlock {
	block := models.EmploymentBlock{
		ID:                p.ID,
		EmployeeID:        employeeID,
		Status:            p.Status,
		FromDate:          p.FromDate,
		ToDate:            p.ToDate,
		StatusDate:        p.StatusDate,
		CurrentlyWorking:  p.CurrentlyWorking,
		PostingPlaceTitle: p.PostingPlaceTitle,
		HQID:              p.HQID,
		TehsilID:          p.TehsilID,
		PostingCategoryID: p.PostingCategoryID,
		UnitID:            p.UnitID,
		DesignationID:     p.DesignationID,
		BPS:               p.BPS,
		OrderNumber:       p.OrderNumber,
		OrderDate:         p.OrderDate,
		StatusRemarks:     p.StatusRemarks,
	}
	for _, l := range p.Leaves {
		block.Leaves = append(block.Leaves, models.Leave{
			ID:        l.ID,
			Type:      l.Type,
			StartDate: l.StartDate,
			EndDate:   l.EndDate,
			Remarks:   l.Remarks,
		})
	}
	for _, a := range p.DisciplinaryActions {
		block.DisciplinaryActions = append(block.DisciplinaryActions, models.DisciplinaryAction{
			ID:               a.ID,
			ComplaintInquiry: a.ComplaintInquiry,
			Allegation:       a.Allegation,
			InquiryStatus:    a.InquiryStatus,
			CourtName:        a.CourtName,
			HearingDate:      a.HearingDate,
			DecisionDate:     a.DecisionDate,
			Decision:         a.Decision,
			ActionDate:       a.ActionDate,
			Remarks:          a.Remarks,
		})
	}
	return block
}

// ToModels converts the whole request into persistence models.
func (r UpdateHistoryRequest) ToModels(employeeID string) []models.EmploymentBlock {
	blocks := make([]models.EmploymentBlock, 0, len(r.EmploymentHistory))
	for _, p := range r.EmploymentHistory {
		blocks = append(blocks, p.ToModel(employeeID))
	}
	return blocks
}
