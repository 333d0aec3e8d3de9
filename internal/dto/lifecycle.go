package dto

import (
	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/internal/timeline"
	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
)

// TransferRequest captures POST /employees/{id}/transfer.
type TransferRequest struct {
	RelievingDate     dateutil.Date `json:"relieving_date"`
	JoiningDate       dateutil.Date `json:"joining_date"`
	PostingPlaceTitle string        `json:"posting_place_title"`
	HQID              string        `json:"hq_id"`
	TehsilID          string        `json:"tehsil_id"`
	PostingCategoryID string        `json:"posting_category_id"`
	UnitID            string        `json:"unit_id"`
	DesignationID     string        `json:"designation_id"`
	BPS               int           `json:"bps"`
	OrderNumber       string        `json:"order_number"`
	OrderDate         dateutil.Date `json:"order_date"`
	MarkCurrent       *bool         `json:"mark_current,omitempty"`
}

// RejoinRequest captures POST /employees/{id}/rejoin.
type RejoinRequest struct {
	RejoinDate        dateutil.Date `json:"rejoin_date"`
	OrderNumber       string        `json:"order_number"`
	OrderDate         dateutil.Date `json:"order_date"`
	PostingPlaceTitle string        `json:"posting_place_title"`
	HQID              string        `json:"hq_id"`
	TehsilID          string        `json:"tehsil_id"`
	PostingCategoryID string        `json:"posting_category_id"`
	UnitID            string        `json:"unit_id"`
	DesignationID     string        `json:"designation_id"`
	BPS               int           `json:"bps"`
	MarkCurrent       *bool         `json:"mark_current,omitempty"`
}

// SuccessionRequest captures POST /employees/{id}/succession.
type SuccessionRequest struct {
	RelievingDate        dateutil.Date `json:"relieving_date"`
	JoiningDate          dateutil.Date `json:"joining_date"`
	NewPostingPlaceTitle string        `json:"new_posting_place_title"`
	OrderNumber          string        `json:"order_number"`
	OrderDate            dateutil.Date `json:"order_date"`
}

// RejoinPreviewResponse reports the absence span a rejoin would record,
// shown to the operator before confirming.
type RejoinPreviewResponse struct {
	ExitStatus models.EmploymentStatus `json:"exit_status"`
	ExitDate   dateutil.Date           `json:"exit_date"`
	RejoinDate dateutil.Date           `json:"rejoin_date"`
	AbsentDays int                     `json:"absent_days"`
}

// LifecycleResponse returns the employee with the replacement history after
// a successful transfer, rejoin or succession.
type LifecycleResponse struct {
	Employee   *models.Employee `json:"employee"`
	AbsentDays *int             `json:"absent_days,omitempty"`
}

// ToInput converts the request to the engine's transfer input. MarkCurrent
// defaults to true: a transferred employee is presumed to take charge.
func (r TransferRequest) ToInput() timeline.TransferInput {
	markCurrent := true
	if r.MarkCurrent != nil {
		markCurrent = *r.MarkCurrent
	}
	return timeline.TransferInput{
		RelievingDate:     r.RelievingDate,
		JoiningDate:       r.JoiningDate,
		PostingPlaceTitle: r.PostingPlaceTitle,
		HQID:              r.HQID,
		TehsilID:          r.TehsilID,
		PostingCategoryID: r.PostingCategoryID,
		UnitID:            r.UnitID,
		DesignationID:     r.DesignationID,
		BPS:               r.BPS,
		OrderNumber:       r.OrderNumber,
		OrderDate:         r.OrderDate,
		MarkCurrent:       markCurrent,
	}
}

// ToInput converts the request to the engine's rejoin input.
func (r RejoinRequest) ToInput() timeline.RejoinInput {
	markCurrent := true
	if r.MarkCurrent != nil {
		markCurrent = *r.MarkCurrent
	}
	return timeline.RejoinInput{
		RejoinDate:        r.RejoinDate,
		OrderNumber:       r.OrderNumber,
		OrderDate:         r.OrderDate,
		PostingPlaceTitle: r.PostingPlaceTitle,
		HQID:              r.HQID,
		TehsilID:          r.TehsilID,
		PostingCategoryID: r.PostingCategoryID,
		UnitID:            r.UnitID,
		DesignationID:     r.DesignationID,
		BPS:               r.BPS,
		MarkCurrent:       markCurrent,
	}
}

// ToInput converts the request to the engine's succession input.
func (r SuccessionRequest) ToInput() timeline.SuccessionInput {
	return timeline.SuccessionInput{
		RelievingDate:        r.RelievingDate,
		JoiningDate:          r.JoiningDate,
		NewPostingPlaceTitle: r.NewPostingPlaceTitle,
		OrderNumber:          r.OrderNumber,
		OrderDate:            r.OrderDate,
	}
}
