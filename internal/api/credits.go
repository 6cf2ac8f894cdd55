package api

import (
	"net/http"
	"strconv"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/gin-gonic/gin"
)

// creditBalance handles GET /v1/credits/balance.
func (h *Handler) creditBalance(c *gin.Context) {
	identity := identityFrom(c)

	balance, err := h.ledger.Balance(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, newBalanceResponse(balance, identity.Tier.HasUnlimitedCredits()))
}

// creditHistory handles GET /v1/credits/history?limit=. The ledger enforces
// the tier gate; callers below deep receive 403.
func (h *Handler) creditHistory(c *gin.Context) {
	identity := identityFrom(c)

	var limit uint
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, serrors.With(serrors.ErrBadRequest, "limit must be a positive integer"))

			return
		}
		limit = uint(parsed)
	}

	transactions, err := h.ledger.History(c.Request.Context(), identity, limit)
	if err != nil {
		respondError(c, err)

		return
	}

	items := make([]transactionResponse, 0, len(transactions))
	for i := range transactions {
		items = append(items, newTransactionResponse(&transactions[i]))
	}

	c.JSON(http.StatusOK, gin.H{"transactions": items})
}
