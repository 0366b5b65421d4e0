package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Devouko/talenthub-escrow/internal/domain/valueobject"
	"github.com/Devouko/talenthub-escrow/internal/http/handlers/common"
	"github.com/Devouko/talenthub-escrow/internal/service"
)

// EscrowHandler — админ-панель escrow: просмотр активных сделок
// и административные переходы статусов.
type EscrowHandler struct {
	escrow *service.EscrowService
	ledger *service.LedgerService
}

func NewEscrowHandler(escrow *service.EscrowService, ledger *service.LedgerService) *EscrowHandler {
	return &EscrowHandler{escrow: escrow, ledger: ledger}
}

// GetEscrow GET /escrow — активные и спорные сделки со сводкой.
func (h *EscrowHandler) GetEscrow(c *gin.Context) {
	orders, summary, err := h.ledger.EscrowPage(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": orders,
		"summary":      summary,
	})
}

// PatchEscrow PATCH /escrow — административный переход статуса.
func (h *EscrowHandler) PatchEscrow(c *gin.Context) {
	var req struct {
		ID         string  `json:"id" binding:"required,uuid"`
		Status     string  `json:"status" binding:"required"`
		AdminNotes *string `json:"admin_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "требуются id и status")
		return
	}

	orderID, err := uuid.Parse(req.ID)
	if err != nil {
		common.RespondBadRequest(c, "неверный id")
		return
	}

	target, err := valueobject.NewOrderStatus(req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	order, err := h.escrow.AdminSetStatus(c.Request.Context(), orderID, target, req.AdminNotes)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Summarize GET /escrow/summary?status=a,b — сводка по фильтру статусов.
func (h *EscrowHandler) Summarize(c *gin.Context) {
	var filter []valueobject.OrderStatus
	for _, raw := range c.QueryArray("status") {
		status, err := valueobject.NewOrderStatus(raw)
		if err != nil {
			_ = c.Error(err)
			return
		}
		filter = append(filter, status)
	}

	summary, err := h.ledger.Summarize(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
