package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Devouko/talenthub-escrow/internal/http/handlers/common"
	"github.com/Devouko/talenthub-escrow/internal/models"
	"github.com/Devouko/talenthub-escrow/internal/service"
)

// OrderHandler обслуживает создание, чтение заказов и переходы,
// инициируемые сторонами сделки.
type OrderHandler struct {
	orders *service.OrderService
	escrow *service.EscrowService
}

func NewOrderHandler(orders *service.OrderService, escrow *service.EscrowService) *OrderHandler {
	return &OrderHandler{orders: orders, escrow: escrow}
}

// CreateOrder POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		GigID string `json:"gig_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "требуется gig_id")
		return
	}

	gigID, err := uuid.Parse(req.GigID)
	if err != nil {
		common.RespondBadRequest(c, "неверный gig_id")
		return
	}

	order, err := h.orders.Create(c.Request.Context(), userID, gigID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrder GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.orders.Get(c.Request.Context(), orderID, userID, common.IsAdmin(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListMyOrders GET /orders/my
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	orders, err := h.orders.ListMine(c.Request.Context(), userID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// AcceptOrder POST /orders/:id/accept — продавец берёт заказ в работу.
func (h *OrderHandler) AcceptOrder(c *gin.Context) {
	h.partyTransition(c, h.escrow.Accept)
}

// DeliverOrder POST /orders/:id/deliver — продавец сдаёт работу.
func (h *OrderHandler) DeliverOrder(c *gin.Context) {
	h.partyTransition(c, h.escrow.Deliver)
}

// DisputeOrder POST /orders/:id/dispute — сторона открывает спор.
func (h *OrderHandler) DisputeOrder(c *gin.Context) {
	h.partyTransition(c, h.escrow.Dispute)
}

// CancelOrder POST /orders/:id/cancel — покупатель отменяет заказ
// до начала работы.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.escrow.Cancel(c.Request.Context(), orderID, userID, common.IsAdmin(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, order)
}

type partyTransitionFn func(ctx context.Context, orderID, actorID uuid.UUID) (*models.Order, error)

func (h *OrderHandler) partyTransition(c *gin.Context, fn partyTransitionFn) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := fn(c.Request.Context(), orderID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, order)
}
