package models

import (
	"time"

	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
)

// EmploymentStatus classifies one block of an employee's service history.
// In-Service is the only ranged status; every other status marks an exit
// and is represented by a single status date.
type EmploymentStatus string

const (
	StatusInService  EmploymentStatus = "IN_SERVICE"
	StatusRetired    EmploymentStatus = "RETIRED"
	StatusResigned   EmploymentStatus = "RESIGNED"
	StatusTerminated EmploymentStatus = "TERMINATED"
	StatusSuspended  EmploymentStatus = "SUSPENDED"
	StatusOSD        EmploymentStatus = "OSD"
	StatusDeputation EmploymentStatus = "DEPUTATION"
	StatusAbsent     EmploymentStatus = "ABSENT"
	StatusRemoved    EmploymentStatus = "REMOVED"
	StatusDeceased   EmploymentStatus = "DECEASED"
)

// InquiryStatus tracks the state of a disciplinary inquiry.
type InquiryStatus string

const (
	InquiryPending InquiryStatus = "PENDING"
	InquiryDecided InquiryStatus = "DECIDED"
)

// Employee is the personnel master record. DateOfAppointment anchors the
// whole service timeline: the earliest employment block must start on it.
type Employee struct {
	ID                string         `db:"id" json:"id"`
	FullName          string         `db:"full_name" json:"full_name"`
	FatherName        *string        `db:"father_name" json:"father_name,omitempty"`
	CNIC              *string        `db:"cnic" json:"cnic,omitempty"`
	DateOfBirth       *dateutil.Date `db:"date_of_birth" json:"date_of_birth,omitempty"`
	DateOfAppointment dateutil.Date  `db:"date_of_appointment" json:"date_of_appointment"`
	Active            bool           `db:"active" json:"active"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`

	EmploymentHistory []EmploymentBlock `db:"-" json:"employment_history,omitempty"`
}

// EmploymentBlock is one posting/status period of an employee's career.
// Ranged (In-Service) blocks use FromDate/ToDate, exit blocks use StatusDate.
type EmploymentBlock struct {
	ID                string           `db:"id" json:"id"`
	EmployeeID        string           `db:"employee_id" json:"employee_id"`
	Status            EmploymentStatus `db:"status" json:"status"`
	FromDate          *dateutil.Date   `db:"from_date" json:"from_date,omitempty"`
	ToDate            *dateutil.Date   `db:"to_date" json:"to_date,omitempty"`
	StatusDate        *dateutil.Date   `db:"status_date" json:"status_date,omitempty"`
	CurrentlyWorking  bool             `db:"currently_working" json:"currently_working"`
	PostingPlaceTitle string           `db:"posting_place_title" json:"posting_place_title"`
	HQID              *string          `db:"hq_id" json:"hq_id,omitempty"`
	TehsilID          *string          `db:"tehsil_id" json:"tehsil_id,omitempty"`
	PostingCategoryID *string          `db:"posting_category_id" json:"posting_category_id,omitempty"`
	UnitID            *string          `db:"unit_id" json:"unit_id,omitempty"`
	DesignationID     *string          `db:"designation_id" json:"designation_id,omitempty"`
	BPS               *int             `db:"bps" json:"bps,omitempty"`
	OrderNumber       string           `db:"order_number" json:"order_number"`
	OrderDate         *dateutil.Date   `db:"order_date" json:"order_date,omitempty"`
	StatusRemarks     string           `db:"status_remarks" json:"status_remarks"`
	Position          int              `db:"position" json:"-"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updated_at"`

	Leaves              []Leave              `db:"-" json:"leaves,omitempty"`
	DisciplinaryActions []DisciplinaryAction `db:"-" json:"disciplinary_actions,omitempty"`
}

// Leave is a leave period nested inside one employment block. Days is
// derived: the inclusive day count between StartDate and EndDate.
type Leave struct {
	ID                  string         `db:"id" json:"id"`
	EmploymentHistoryID string         `db:"employment_history_id" json:"employment_history_id"`
	Type                string         `db:"type" json:"type"`
	StartDate           *dateutil.Date `db:"start_date" json:"start_date,omitempty"`
	EndDate             *dateutil.Date `db:"end_date" json:"end_date,omitempty"`
	Days                int            `db:"days" json:"days"`
	Remarks             string         `db:"remarks" json:"remarks"`
}

// DisciplinaryAction records a complaint/inquiry against an In-Service
// block. It is not an interval; DecisionDate and Decision are required only
// once the inquiry is decided.
type DisciplinaryAction struct {
	ID                  string         `db:"id" json:"id"`
	EmploymentHistoryID string         `db:"employment_history_id" json:"employment_history_id"`
	ComplaintInquiry    string         `db:"complaint_inquiry" json:"complaint_inquiry"`
	Allegation          string         `db:"allegation" json:"allegation"`
	InquiryStatus       InquiryStatus  `db:"inquiry_status" json:"inquiry_status"`
	CourtName           *string        `db:"court_name" json:"court_name,omitempty"`
	HearingDate         *dateutil.Date `db:"hearing_date" json:"hearing_date,omitempty"`
	DecisionDate        *dateutil.Date `db:"decision_date" json:"decision_date,omitempty"`
	Decision            string         `db:"decision" json:"decision"`
	ActionDate          *dateutil.Date `db:"action_date" json:"action_date,omitempty"`
	Remarks             string         `db:"remarks" json:"remarks"`
}

// EmployeeFilter captures filtering options for the employee list screens.
type EmployeeFilter struct {
	Search        string
	Status        *EmploymentStatus
	HQID          string
	TehsilID      string
	DesignationID string
	Active        *bool
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}
