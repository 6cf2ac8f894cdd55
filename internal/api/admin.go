package api

import (
	"net/http"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// adminCreditRequest is the body of the admin grant and deduct endpoints.
type adminCreditRequest struct {
	Amount int    `json:"amount"`
	Note   string `json:"note"`
}

// userIDParam parses the :id path parameter.
func userIDParam(c *gin.Context) (domain.UserID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, serrors.With(serrors.ErrBadRequest, "user ID must be a UUID"))

		return domain.UserID{}, false
	}

	return domain.UserID(id), true
}

// adminMetadata tags a manual ledger entry with the acting admin and their
// stated note.
func adminMetadata(c *gin.Context, note string) domain.TransactionMetadata {
	metadata := domain.TransactionMetadata{
		"adminId": userIDString(identityFrom(c).UserID),
	}
	if note != "" {
		metadata["note"] = note
	}

	return metadata
}

// grantCredits handles POST /v1/admin/users/:id/credits/grant.
func (h *Handler) grantCredits(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req adminCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body"))

		return
	}

	tx, balance, err := h.ledger.Grant(c.Request.Context(), userID, req.Amount,
		domain.TransactionTypeAdminGrant, adminMetadata(c, req.Note))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction": newTransactionResponse(tx),
		"balance":     newBalanceResponse(balance, false),
	})
}

// deductCredits handles POST /v1/admin/users/:id/credits/deduct.
func (h *Handler) deductCredits(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req adminCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body"))

		return
	}

	tx, balance, err := h.ledger.Deduct(c.Request.Context(), userID, req.Amount,
		adminMetadata(c, req.Note))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction": newTransactionResponse(tx),
		"balance":     newBalanceResponse(balance, false),
	})
}
