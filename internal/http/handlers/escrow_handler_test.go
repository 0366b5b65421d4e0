package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devouko/talenthub-escrow/internal/domain/valueobject"
	"github.com/Devouko/talenthub-escrow/internal/http/middleware"
	"github.com/Devouko/talenthub-escrow/internal/models"
	"github.com/Devouko/talenthub-escrow/internal/pkg/apperror"
	"github.com/Devouko/talenthub-escrow/internal/service"
)

// stubOrderRepo держит один заказ и воспроизводит контракт репозитория.
type stubOrderRepo struct {
	order *models.Order
}

func (r *stubOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if r.order == nil || r.order.ID != id {
		return nil, apperror.ErrOrderNotFound
	}
	copied := *r.order
	return &copied, nil
}

func (r *stubOrderRepo) Transition(ctx context.Context, orderID uuid.UUID, target valueobject.OrderStatus, role valueobject.ActorRole, adminNotes *string) (*models.Order, valueobject.OrderStatus, error) {
	if r.order == nil || r.order.ID != orderID {
		return nil, "", apperror.ErrOrderNotFound
	}
	from := r.order.Status
	if from.IsTerminal() {
		return nil, "", apperror.ErrAlreadyFinal
	}
	if !from.CanTransitionTo(target) {
		return nil, "", apperror.InvalidTransition(string(from), string(target))
	}
	if !valueobject.RoleAllowed(from, target, role) {
		return nil, "", apperror.ErrForbidden
	}
	r.order.Status = target
	r.order.UpdatedAt = time.Now()
	if adminNotes != nil {
		r.order.AdminNotes = adminNotes
	}
	copied := *r.order
	return &copied, from, nil
}

// stubLedgerRepo отдаёт фиксированную страницу escrow.
type stubLedgerRepo struct {
	orders  []models.Order
	summary models.LedgerSummary
}

func (r *stubLedgerRepo) Summarize(ctx context.Context, statuses []valueobject.OrderStatus) (models.LedgerSummary, error) {
	return r.summary, nil
}

func (r *stubLedgerRepo) ListByStatuses(ctx context.Context, statuses []valueobject.OrderStatus, limit int) ([]models.Order, error) {
	return r.orders, nil
}

func (r *stubLedgerRepo) ListEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error) {
	return nil, nil
}

// authAs кладёт пользователя в контекст, минуя проверку токена.
func authAs(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Set(middleware.ContextRoleKey, role)
		c.Next()
	}
}

func newEscrowTestRouter(repo *stubOrderRepo, ledger *stubLedgerRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	escrowSvc := service.NewEscrowService(repo, nil)
	ledgerSvc := service.NewLedgerService(ledger, nil)
	handler := NewEscrowHandler(escrowSvc, ledgerSvc)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	admin := r.Group("", authAs(uuid.New(), models.UserRoleAdmin))
	admin.GET("/escrow", handler.GetEscrow)
	admin.PATCH("/escrow", handler.PatchEscrow)
	admin.GET("/escrow/summary", handler.Summarize)
	return r
}

func patchEscrow(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, _ := http.NewRequest("PATCH", "/escrow", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEscrowHandler_GetEscrow(t *testing.T) {
	ledger := &stubLedgerRepo{
		orders: []models.Order{{ID: uuid.New(), Status: valueobject.OrderStatusDisputed, TotalAmount: 4200}},
		summary: models.LedgerSummary{
			valueobject.OrderStatusDisputed: {Status: valueobject.OrderStatusDisputed, TotalAmount: 4200, Count: 1},
		},
	}
	r := newEscrowTestRouter(&stubOrderRepo{}, ledger)

	req, _ := http.NewRequest("GET", "/escrow", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Transactions []models.Order                                     `json:"transactions"`
		Summary      map[valueobject.OrderStatus]models.StatusSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Transactions, 1)
	assert.Equal(t, 1, resp.Summary[valueobject.OrderStatusDisputed].Count)
}

func TestEscrowHandler_PatchEscrow_Approve(t *testing.T) {
	order := &models.Order{ID: uuid.New(), BuyerID: uuid.New(), SellerID: uuid.New(), Status: valueobject.OrderStatusDelivered, TotalAmount: 900}
	r := newEscrowTestRouter(&stubOrderRepo{order: order}, &stubLedgerRepo{})

	w := patchEscrow(t, r, gin.H{"id": order.ID.String(), "status": "COMPLETED"})

	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, valueobject.OrderStatusCompleted, updated.Status)
}

func TestEscrowHandler_PatchEscrow_InvalidTransition_Conflict(t *testing.T) {
	order := &models.Order{ID: uuid.New(), Status: valueobject.OrderStatusPending, TotalAmount: 900}
	r := newEscrowTestRouter(&stubOrderRepo{order: order}, &stubLedgerRepo{})

	w := patchEscrow(t, r, gin.H{"id": order.ID.String(), "status": "COMPLETED"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEscrowHandler_PatchEscrow_Terminal_Conflict(t *testing.T) {
	order := &models.Order{ID: uuid.New(), Status: valueobject.OrderStatusRefunded, TotalAmount: 900}
	r := newEscrowTestRouter(&stubOrderRepo{order: order}, &stubLedgerRepo{})

	w := patchEscrow(t, r, gin.H{"id": order.ID.String(), "status": "COMPLETED"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEscrowHandler_PatchEscrow_UnknownOrder_NotFound(t *testing.T) {
	r := newEscrowTestRouter(&stubOrderRepo{}, &stubLedgerRepo{})

	w := patchEscrow(t, r, gin.H{"id": uuid.New().String(), "status": "CANCELLED"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEscrowHandler_PatchEscrow_BadBody(t *testing.T) {
	r := newEscrowTestRouter(&stubOrderRepo{}, &stubLedgerRepo{})

	w := patchEscrow(t, r, gin.H{"id": "not-a-uuid", "status": "COMPLETED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = patchEscrow(t, r, gin.H{"id": uuid.New().String()})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEscrowHandler_PatchEscrow_UnknownStatus(t *testing.T) {
	r := newEscrowTestRouter(&stubOrderRepo{}, &stubLedgerRepo{})

	w := patchEscrow(t, r, gin.H{"id": uuid.New().String(), "status": "SHIPPED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEscrowHandler_Summarize_InvalidFilter(t *testing.T) {
	r := newEscrowTestRouter(&stubOrderRepo{}, &stubLedgerRepo{summary: models.LedgerSummary{}})

	req, _ := http.NewRequest("GET", "/escrow/summary?status=SHIPPED", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminOnly_NonAdminForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(authAs(uuid.New(), models.UserRoleUser), middleware.AdminOnly())
	r.GET("/escrow", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest("GET", "/escrow", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
