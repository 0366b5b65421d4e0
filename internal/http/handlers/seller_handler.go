package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Devouko/talenthub-escrow/internal/domain/valueobject"
	"github.com/Devouko/talenthub-escrow/internal/http/handlers/common"
	"github.com/Devouko/talenthub-escrow/internal/service"
)

// SellerHandler обслуживает заявки на статус продавца и их
// рассмотрение администратором.
type SellerHandler struct {
	sellers *service.SellerService
}

func NewSellerHandler(sellers *service.SellerService) *SellerHandler {
	return &SellerHandler{sellers: sellers}
}

// Apply POST /seller-application — подать или обновить заявку.
func (h *SellerHandler) Apply(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		BusinessName string   `json:"business_name" binding:"required"`
		Description  string   `json:"description" binding:"required"`
		Skills       []string `json:"skills" binding:"required,min=1"`
		Experience   string   `json:"experience"`
		Portfolio    []string `json:"portfolio"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "неверное тело заявки")
		return
	}

	app, err := h.sellers.Apply(c.Request.Context(), userID, service.ApplicationInput{
		BusinessName: req.BusinessName,
		Description:  req.Description,
		Skills:       req.Skills,
		Experience:   req.Experience,
		Portfolio:    req.Portfolio,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// GetOwn GET /seller-application — своя заявка.
func (h *SellerHandler) GetOwn(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	app, err := h.sellers.GetApplication(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// ListPending GET /admin/seller-applications — очередь на рассмотрение.
func (h *SellerHandler) ListPending(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	apps, err := h.sellers.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// Decide PATCH /admin/seller-applications/:userId — вердикт по заявке.
func (h *SellerHandler) Decide(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "userId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "требуется status")
		return
	}

	outcome, err := valueobject.NewApplicationStatus(req.Status)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	app, err := h.sellers.Decide(c.Request.Context(), userID, outcome)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, app)
}
