package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// startScanRequest is the body of POST /v1/scan/start.
type startScanRequest struct {
	TargetURL   string   `json:"targetUrl"`
	Competitors []string `json:"competitors"`
}

// startScanResponse acknowledges a queued scan.
type startScanResponse struct {
	ScanID         string `json:"scanId"`
	TaskID         string `json:"taskId"`
	Status         string `json:"status"`
	CreditsCharged int    `json:"creditsCharged"`
}

// startScan handles POST /v1/scan/start.
func (h *Handler) startScan(c *gin.Context) {
	var req startScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body"))

		return
	}

	result, err := h.orchestrator.Start(c.Request.Context(), identityFrom(c), req.TargetURL, req.Competitors)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusAccepted, startScanResponse{
		ScanID:         scanIDString(result.ScanID),
		TaskID:         result.TaskID,
		Status:         string(result.Status),
		CreditsCharged: result.CreditsCharged,
	})
}

// scanIDParam parses the :id path parameter.
func scanIDParam(c *gin.Context) (domain.ScanID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, serrors.With(serrors.ErrBadRequest, "scan ID must be a UUID"))

		return domain.ScanID{}, false
	}

	return domain.ScanID(id), true
}

// listScans handles GET /v1/scan?cursor=&limit=.
func (h *Handler) listScans(c *gin.Context) {
	var limit uint
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, serrors.With(serrors.ErrBadRequest, "limit must be a positive integer"))

			return
		}
		limit = uint(parsed)
	}

	scans, nextCursor, err := h.orchestrator.UserScans(c.Request.Context(),
		identityFrom(c), c.Query("cursor"), limit)
	if err != nil {
		respondError(c, err)

		return
	}

	items := make([]scanResponse, 0, len(scans))
	for i := range scans {
		items = append(items, newScanResponse(&scans[i]))
	}

	resp := gin.H{"scans": items}
	if nextCursor != "" {
		resp["nextCursor"] = nextCursor
	}
	c.JSON(http.StatusOK, resp)
}

// getScan handles GET /v1/scan/:id.
func (h *Handler) getScan(c *gin.Context) {
	scanID, ok := scanIDParam(c)
	if !ok {
		return
	}

	scan, err := h.orchestrator.Scan(c.Request.Context(), identityFrom(c), scanID)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, newScanResponse(scan))
}

// scanStatusResponse is the formatted projection served by the status poll
// endpoint. The derived booleans save clients from re-implementing the
// status state machine.
type scanStatusResponse struct {
	ScanID          string     `json:"scanId"`
	Status          string     `json:"status"`
	TaskID          string     `json:"taskId,omitempty"`
	StartedAt       time.Time  `json:"startedAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
	Completed       bool       `json:"completed"`
	Failed          bool       `json:"failed"`
	InProgress      bool       `json:"inProgress"`
	ScanType        string     `json:"scanType"`
	ScannerKeys     []string   `json:"scannerKeys"`
	PrimaryURL      string     `json:"primaryUrl"`
	CompetitorCount int        `json:"competitorCount"`
	Error           string     `json:"error,omitempty"`
}

// scanStatus handles GET /v1/scan/:id/status, a light poll endpoint.
func (h *Handler) scanStatus(c *gin.Context) {
	scanID, ok := scanIDParam(c)
	if !ok {
		return
	}

	scan, err := h.orchestrator.Scan(c.Request.Context(), identityFrom(c), scanID)
	if err != nil {
		respondError(c, err)

		return
	}

	keys := scan.ScannerKeys
	if keys == nil {
		keys = []string{}
	}

	c.JSON(http.StatusOK, scanStatusResponse{
		ScanID:          scanIDString(scan.ID),
		Status:          string(scan.Status),
		TaskID:          scan.TaskID,
		StartedAt:       scan.CreatedAt,
		UpdatedAt:       timePtr(scan.UpdatedAt),
		Completed:       scan.Status == domain.ScanStatusComplete,
		Failed:          scan.Status == domain.ScanStatusFailed,
		InProgress:      !scan.Status.Terminal(),
		ScanType:        string(scan.ScanType),
		ScannerKeys:     keys,
		PrimaryURL:      scan.PrimaryURL,
		CompetitorCount: len(scan.Competitors),
		Error:           scan.LastError,
	})
}

// scanResults handles GET /v1/scan/:id/results?scannerKey=.
func (h *Handler) scanResults(c *gin.Context) {
	scanID, ok := scanIDParam(c)
	if !ok {
		return
	}

	results, err := h.orchestrator.Results(c.Request.Context(),
		identityFrom(c), scanID, c.Query("scannerKey"))
	if err != nil {
		respondError(c, err)

		return
	}

	items := make([]scanResultResponse, 0, len(results))
	for i := range results {
		items = append(items, newScanResultResponse(&results[i]))
	}

	c.JSON(http.StatusOK, gin.H{"results": items})
}

// listScanners handles GET /v1/scanners: the active scanner fleet applied to
// new scans.
func (h *Handler) listScanners(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"scanners": h.registry.Keys()})
}
