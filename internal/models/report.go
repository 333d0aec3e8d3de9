package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ReportType enumerates the exports the registrar office can request.
type ReportType string

const (
	// ReportTypeRoster exports the employee list with current postings.
	ReportTypeRoster ReportType = "ROSTER"
	// ReportTypeServiceHistory exports one employee's full service book.
	ReportTypeServiceHistory ReportType = "SERVICE_HISTORY"
)

// ReportFormat enumerates supported output formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "CSV"
	ReportFormatPDF ReportFormat = "PDF"
)

// ReportStatus tracks async job progress.
type ReportStatus string

const (
	ReportStatusQueued     ReportStatus = "QUEUED"
	ReportStatusProcessing ReportStatus = "PROCESSING"
	ReportStatusFinished   ReportStatus = "FINISHED"
	ReportStatusFailed     ReportStatus = "FAILED"
)

// ReportJobParams is the JSONB parameter payload stored with a job.
type ReportJobParams struct {
	Format     ReportFormat `json:"format"`
	EmployeeID *string      `json:"employee_id,omitempty"`
	HQID       *string      `json:"hq_id,omitempty"`
	ActiveOnly bool         `json:"active_only,omitempty"`
}

// Value marshals params for the jsonb column.
func (p ReportJobParams) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan unmarshals params from the jsonb column.
func (p *ReportJobParams) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = ReportJobParams{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported report params type %T", src)
	}
}

// ReportJob is one queued export request.
type ReportJob struct {
	ID           string          `db:"id" json:"id"`
	Type         ReportType      `db:"type" json:"type"`
	Params       ReportJobParams `db:"params" json:"params"`
	Status       ReportStatus    `db:"status" json:"status"`
	Progress     int             `db:"progress" json:"progress"`
	ResultURL    *string         `db:"result_url" json:"result_url,omitempty"`
	CreatedBy    string          `db:"created_by" json:"created_by"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	FinishedAt   *time.Time      `db:"finished_at" json:"finished_at,omitempty"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
}
