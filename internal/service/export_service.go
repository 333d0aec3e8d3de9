package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/internal/timeline"
	"github.com/zafarh/dsj-hrms-api/pkg/export"
	"github.com/zafarh/dsj-hrms-api/pkg/storage"
)

type exportEmployeeSource interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error)
	GetWithHistory(ctx context.Context, id string) (*models.Employee, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService renders roster and service-history exports and persists the
// generated files behind signed download tokens.
type ExportService struct {
	employees exportEmployeeSource
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(employees exportEmployeeSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		employees: employees,
		storage:   store,
		csv:       csv,
		pdf:       pdf,
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate builds the dataset for a job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/reports/download/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes stored exports older than ttl.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeRoster:
		dataset, err := s.buildRoster(ctx, job.Params)
		return dataset, "Employee Roster", err
	case models.ReportTypeServiceHistory:
		return s.buildServiceHistory(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildRoster(ctx context.Context, params models.ReportJobParams) (export.Dataset, error) {
	headers := []string{"Full Name", "Father Name", "CNIC", "Date of Appointment", "Active"}
	dataset := export.Dataset{Headers: headers}

	filter := models.EmployeeFilter{PageSize: 100, SortBy: "full_name", SortOrder: "asc"}
	if params.ActiveOnly {
		active := true
		filter.Active = &active
	}
	if params.HQID != nil {
		filter.HQID = *params.HQID
	}

	for page := 1; ; page++ {
		filter.Page = page
		employees, total, err := s.employees.List(ctx, filter)
		if err != nil {
			return export.Dataset{}, err
		}
		for _, e := range employees {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Full Name":           e.FullName,
				"Father Name":         strValue(e.FatherName),
				"CNIC":                strValue(e.CNIC),
				"Date of Appointment": e.DateOfAppointment.Display(),
				"Active":              strconv.FormatBool(e.Active),
			})
		}
		if len(dataset.Rows) >= total || len(employees) == 0 {
			break
		}
	}
	return dataset, nil
}

func (s *ExportService) buildServiceHistory(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	if params.EmployeeID == nil || *params.EmployeeID == "" {
		return export.Dataset{}, "", fmt.Errorf("service history export requires an employee id")
	}
	employee, err := s.employees.GetWithHistory(ctx, *params.EmployeeID)
	if err != nil {
		return export.Dataset{}, "", err
	}

	headers := []string{"#", "Status", "From", "To", "Posting Place", "BPS", "Order No", "Remarks"}
	dataset := export.Dataset{Headers: headers}
	history := timeline.SortChronological(employee.EmploymentHistory)
	for i, block := range history {
		from, to := blockDates(block)
		dataset.Rows = append(dataset.Rows, map[string]string{
			"#":             strconv.Itoa(i + 1),
			"Status":        string(block.Status),
			"From":          from,
			"To":            to,
			"Posting Place": block.PostingPlaceTitle,
			"BPS":           intValue(block.BPS),
			"Order No":      block.OrderNumber,
			"Remarks":       block.StatusRemarks,
		})
	}
	title := fmt.Sprintf("Service History - %s", employee.FullName)
	return dataset, title, nil
}

func blockDates(block models.EmploymentBlock) (string, string) {
	if timeline.IsExit(block.Status) {
		if block.StatusDate != nil {
			return block.StatusDate.Display(), ""
		}
		return "", ""
	}
	from, to := "", "ongoing"
	if block.FromDate != nil {
		from = block.FromDate.Display()
	}
	if block.ToDate != nil && !block.CurrentlyWorking {
		to = block.ToDate.Display()
	}
	return from, to
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	ext := "csv"
	if job.Params.Format == models.ReportFormatPDF {
		ext = "pdf"
	}
	stamp := time.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf("%s/%s_%s.%s", strings.ToLower(string(job.Type)), job.ID, stamp, ext)
}

func strValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intValue(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
