package dto

import "github.com/zafarh/dsj-hrms-api/internal/models"

// ReportRequest captures the POST /reports payload.
type ReportRequest struct {
	Type       models.ReportType   `json:"type"`
	Format     models.ReportFormat `json:"format"`
	EmployeeID *string             `json:"employee_id,omitempty"`
	HQID       *string             `json:"hq_id,omitempty"`
	ActiveOnly bool                `json:"active_only"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
