package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/iosplus-extract/internal/domain/dto"
	"github.com/guttosm/iosplus-extract/internal/domain/models"
	"github.com/guttosm/iosplus-extract/internal/middleware"
	"github.com/guttosm/iosplus-extract/internal/service"
)

// Handler provides HTTP handlers for the extract journal endpoints.
//
// Responsibilities:
//   - Validate incoming HTTP query parameters
//   - Interact with the service layer for data access
//   - Translate recorded runs into response DTOs
//   - Return structured JSON responses with appropriate HTTP status codes
type Handler struct {
	svc service.ExtractService
	now func() time.Time
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.ExtractService) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// ListExtracts handles GET /api/v1/extracts requests.
//
// Query Parameters:
//   - type (string, optional): Comma separated report types (trade, audittrail, ordersearch or 0-2).
//   - from (string, optional): First report date, YYYY-MM-DD or yyyyMMdd.
//   - to (string, optional): Last report date, YYYY-MM-DD or yyyyMMdd.
//
// Without dates the last 7 days are listed.
//
// Responses:
//   - 200 OK: ExtractListResponse, possibly with an empty list.
//   - 400 Bad Request: Invalid query parameters.
//   - 500 Internal Server Error: Failure in the journal store.
//
// ListExtracts godoc
// @Summary      List recorded extracts
// @Description  Returns the extract files written per report type, report date and server
// @Tags         extracts
// @Produce      json
// @Param        type  query     string  false  "Report types, comma separated" example(trade,audittrail)
// @Param        from  query     string  false  "First report date" example(2024-01-09)
// @Param        to    query     string  false  "Last report date" example(2024-01-16)
// @Success      200   {object}  dto.ExtractListResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse        "Bad Request"
// @Failure      500   {object}  dto.ErrorResponse        "Internal Error"
// @Router       /api/v1/extracts [get]
func (h *Handler) ListExtracts(c *gin.Context) {
	// ─── Parse "type" param ───────────────────────────────────
	var types []models.ReportType
	if s := strings.TrimSpace(c.Query("type")); s != "" {
		for _, part := range strings.Split(s, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			t, err := models.ParseReportType(part)
			if err != nil {
				middleware.AbortWithError(c, http.StatusBadRequest, "invalid type", err)
				return
			}
			types = append(types, t)
		}
	}

	// ─── Parse optional date range ────────────────────────────
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid from format, expected YYYY-MM-DD", err)
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid to format, expected YYYY-MM-DD", err)
		return
	}
	start, end := service.Window(from, to, h.now())
	if start.After(end) {
		middleware.AbortWithError(c, http.StatusBadRequest, "from must not be after to", nil)
		return
	}

	// ─── Query service (with request context) ─────────────────
	runs, err := h.svc.ListExtracts(c.Request.Context(), models.ExtractFilter{ReportTypes: types, From: &start, To: &end})
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to list extracts", err)
		return
	}

	// ─── Build and return response DTO ────────────────────────
	resp := dto.ExtractListResponse{
		From:     start.Format("2006-01-02"),
		To:       end.Format("2006-01-02"),
		Count:    len(runs),
		Extracts: make([]dto.ExtractRunResponse, 0, len(runs)),
	}
	for _, r := range runs {
		resp.Extracts = append(resp.Extracts, dto.NewExtractRunResponse(r))
	}

	c.JSON(http.StatusOK, resp)
}

func parseDateParam(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	layout := "2006-01-02"
	if !strings.Contains(s, "-") {
		layout = "20060102"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
