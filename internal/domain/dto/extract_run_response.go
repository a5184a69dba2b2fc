package dto

import (
	"time"

	"github.com/guttosm/iosplus-extract/internal/domain/models"
)

// ExtractRunResponse represents one entry returned by the
// GET /api/v1/extracts endpoint.
//
// Fields match the API contract and may differ from internal domain models.
type ExtractRunResponse struct {
	ReportType  string    `json:"report_type" example:"trade"`                                         // trade | audittrail | ordersearch
	ReportDate  string    `json:"report_date" example:"2024-01-15"`                                    // Business date covered
	Server      string    `json:"server" example:"LDNPROD"`                                            // IOS+ server
	Filename    string    `json:"filename" example:"trade_extract_for_20240115_ldnprod_at_063005.csv"` // Written file
	RowCount    int       `json:"row_count" example:"1250"`                                            // Data rows in the file
	ExtractedAt time.Time `json:"extracted_at" example:"2024-01-16T06:30:05Z"`                         // When the run was recorded
}

// NewExtractRunResponse maps a domain run to its API shape.
func NewExtractRunResponse(r models.ExtractRun) ExtractRunResponse {
	return ExtractRunResponse{
		ReportType:  r.ReportType.String(),
		ReportDate:  r.ReportDate.Format("2006-01-02"),
		Server:      r.Server,
		Filename:    r.Filename,
		RowCount:    r.RowCount,
		ExtractedAt: r.ExtractedAt,
	}
}

// ExtractListResponse wraps the listing with the applied window.
type ExtractListResponse struct {
	From     string               `json:"from" example:"2024-01-09"`
	To       string               `json:"to" example:"2024-01-16"`
	Count    int                  `json:"count" example:"3"`
	Extracts []ExtractRunResponse `json:"extracts"`
}
