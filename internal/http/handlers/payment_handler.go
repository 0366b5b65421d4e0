package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Devouko/talenthub-escrow/internal/http/handlers/common"
	"github.com/Devouko/talenthub-escrow/internal/service"
)

// PaymentHandler отдаёт баланс пользователя и историю зачислений.
type PaymentHandler struct {
	ledger *service.LedgerService
}

func NewPaymentHandler(ledger *service.LedgerService) *PaymentHandler {
	return &PaymentHandler{ledger: ledger}
}

// GetBalance GET /payments/balance
func (h *PaymentHandler) GetBalance(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	balance, err := h.ledger.Balance(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance, "currency": "KES"})
}

// ListLedger GET /payments/ledger
func (h *PaymentHandler) ListLedger(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	entries, err := h.ledger.ListEntries(c.Request.Context(), userID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
