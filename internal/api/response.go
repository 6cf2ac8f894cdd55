package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/logger"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errorBody is the uniform error envelope returned on every failed request.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// respondError maps a service error onto its HTTP status and error code and
// writes the JSON error envelope. Internal errors are logged and masked.
func respondError(c *gin.Context, err error) {
	status := serrors.HTTPStatus(err)

	var body errorBody
	body.Error.Code = serrors.CodeOf(err)
	body.Error.Message = err.Error()

	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed", zap.Error(err))
		body.Error.Message = "internal server error"
	}

	c.JSON(status, body)
}

func userIDString(id domain.UserID) string { return uuid.UUID(id).String() }

func scanIDString(id domain.ScanID) string { return uuid.UUID(id).String() }

// timePtr converts the zero time to a JSON null.
func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}

// balanceResponse is the wire shape of a credit balance.
type balanceResponse struct {
	UserID           string     `json:"userId"`
	CurrentBalance   int        `json:"currentBalance"`
	MonthlyAllotment int        `json:"monthlyAllotment"`
	RolloverEnabled  bool       `json:"rolloverEnabled"`
	RolloverExpiry   *time.Time `json:"rolloverExpiry,omitempty"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	Unlimited        bool       `json:"unlimited"`
}

func newBalanceResponse(balance *domain.CreditBalance, unlimited bool) balanceResponse {
	return balanceResponse{
		UserID:           userIDString(balance.UserID),
		CurrentBalance:   balance.CurrentBalance,
		MonthlyAllotment: balance.MonthlyAllotment,
		RolloverEnabled:  balance.RolloverEnabled,
		RolloverExpiry:   timePtr(balance.RolloverExpiry),
		UpdatedAt:        balance.UpdatedAt,
		Unlimited:        unlimited,
	}
}

// transactionResponse is the wire shape of one credit ledger entry.
type transactionResponse struct {
	ID        string                     `json:"id"`
	UserID    string                     `json:"userId"`
	Amount    int                        `json:"amount"`
	Type      string                     `json:"type"`
	Metadata  domain.TransactionMetadata `json:"metadata,omitempty"`
	CreatedAt time.Time                  `json:"createdAt"`
}

func newTransactionResponse(tx *domain.CreditTransaction) transactionResponse {
	return transactionResponse{
		ID:        uuid.UUID(tx.ID).String(),
		UserID:    userIDString(tx.UserID),
		Amount:    tx.Amount,
		Type:      string(tx.Type),
		Metadata:  tx.Metadata,
		CreatedAt: tx.CreatedAt,
	}
}

// scanResponse is the wire shape of a scan.
type scanResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	PrimaryURL  string     `json:"primaryUrl"`
	Competitors []string   `json:"competitors"`
	Status      string     `json:"status"`
	ScanType    string     `json:"scanType"`
	CreditsUsed int        `json:"creditsUsed"`
	ScannerKeys []string   `json:"scannerKeys"`
	TaskID      string     `json:"taskId,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func newScanResponse(scan *domain.Scan) scanResponse {
	return scanResponse{
		ID:          scanIDString(scan.ID),
		UserID:      userIDString(scan.UserID),
		PrimaryURL:  scan.PrimaryURL,
		Competitors: scan.Competitors,
		Status:      string(scan.Status),
		ScanType:    string(scan.ScanType),
		CreditsUsed: scan.CreditsUsed,
		ScannerKeys: scan.ScannerKeys,
		TaskID:      scan.TaskID,
		Error:       scan.LastError,
		CreatedAt:   scan.CreatedAt,
		UpdatedAt:   timePtr(scan.UpdatedAt),
		CompletedAt: timePtr(scan.CompletedAt),
	}
}

// scanResultResponse is the wire shape of one scanner's validated result.
type scanResultResponse struct {
	ID         string          `json:"id"`
	ScanID     string          `json:"scanId"`
	ScannerKey string          `json:"scannerKey"`
	Score      int             `json:"score"`
	Output     json.RawMessage `json:"output"`
	PromptLog  string          `json:"promptLog,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func newScanResultResponse(result *domain.ScanResult) scanResultResponse {
	return scanResultResponse{
		ID:         uuid.UUID(result.ID).String(),
		ScanID:     scanIDString(result.ScanID),
		ScannerKey: result.ScannerKey,
		Score:      result.Score,
		Output:     result.Output,
		PromptLog:  result.PromptLog,
		CreatedAt:  result.CreatedAt,
	}
}
