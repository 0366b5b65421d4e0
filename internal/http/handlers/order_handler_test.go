package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devouko/talenthub-escrow/internal/domain/valueobject"
	"github.com/Devouko/talenthub-escrow/internal/http/middleware"
	"github.com/Devouko/talenthub-escrow/internal/models"
	"github.com/Devouko/talenthub-escrow/internal/service"
)

func newOrderTestRouter(repo *stubOrderRepo, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	escrowSvc := service.NewEscrowService(repo, nil)
	handler := NewOrderHandler(nil, escrowSvc)

	r := gin.New()
	r.Use(middleware.ErrorHandler(), authAs(userID, models.UserRoleUser))
	r.POST("/orders/:id/accept", handler.AcceptOrder)
	r.POST("/orders/:id/deliver", handler.DeliverOrder)
	r.POST("/orders/:id/dispute", handler.DisputeOrder)
	r.POST("/orders/:id/cancel", handler.CancelOrder)
	return r
}

func TestOrderHandler_CreateOrder_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewOrderHandler(nil, nil)
	r.POST("/orders", handler.CreateOrder)

	req, _ := http.NewRequest("POST", "/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderHandler_GetOrder_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewOrderHandler(nil, nil)
	r.GET("/orders/:id", handler.GetOrder)

	req, _ := http.NewRequest("GET", "/orders/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderHandler_Accept_BySeller(t *testing.T) {
	sellerID := uuid.New()
	order := &models.Order{ID: uuid.New(), BuyerID: uuid.New(), SellerID: sellerID, Status: valueobject.OrderStatusPending, TotalAmount: 500}
	r := newOrderTestRouter(&stubOrderRepo{order: order}, sellerID)

	req, _ := http.NewRequest("POST", "/orders/"+order.ID.String()+"/accept", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, valueobject.OrderStatusInProgress, order.Status)
}

func TestOrderHandler_Accept_ByBuyer_Forbidden(t *testing.T) {
	buyerID := uuid.New()
	order := &models.Order{ID: uuid.New(), BuyerID: buyerID, SellerID: uuid.New(), Status: valueobject.OrderStatusPending, TotalAmount: 500}
	r := newOrderTestRouter(&stubOrderRepo{order: order}, buyerID)

	req, _ := http.NewRequest("POST", "/orders/"+order.ID.String()+"/accept", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderHandler_Deliver_FromPending_Conflict(t *testing.T) {
	sellerID := uuid.New()
	order := &models.Order{ID: uuid.New(), BuyerID: uuid.New(), SellerID: sellerID, Status: valueobject.OrderStatusPending, TotalAmount: 500}
	r := newOrderTestRouter(&stubOrderRepo{order: order}, sellerID)

	req, _ := http.NewRequest("POST", "/orders/"+order.ID.String()+"/deliver", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrderHandler_Dispute_ByBuyer(t *testing.T) {
	buyerID := uuid.New()
	order := &models.Order{ID: uuid.New(), BuyerID: buyerID, SellerID: uuid.New(), Status: valueobject.OrderStatusDelivered, TotalAmount: 500}
	r := newOrderTestRouter(&stubOrderRepo{order: order}, buyerID)

	req, _ := http.NewRequest("POST", "/orders/"+order.ID.String()+"/dispute", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, valueobject.OrderStatusDisputed, order.Status)
}

func TestOrderHandler_Cancel_BadOrderID(t *testing.T) {
	r := newOrderTestRouter(&stubOrderRepo{}, uuid.New())

	req, _ := http.NewRequest("POST", "/orders/not-a-uuid/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
