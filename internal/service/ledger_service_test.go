package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Devouko/talenthub-escrow/internal/domain/valueobject"
	"github.com/Devouko/talenthub-escrow/internal/models"
)

type mockLedgerRepo struct {
	mock.Mock
}

func (m *mockLedgerRepo) Summarize(ctx context.Context, statuses []valueobject.OrderStatus) (models.LedgerSummary, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.LedgerSummary), args.Error(1)
}

func (m *mockLedgerRepo) ListByStatuses(ctx context.Context, statuses []valueobject.OrderStatus, limit int) ([]models.Order, error) {
	args := m.Called(ctx, statuses, limit)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockLedgerRepo) ListEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.LedgerEntry), args.Error(1)
}

type mockBalances struct {
	mock.Mock
}

func (m *mockBalances) GetBalance(ctx context.Context, id uuid.UUID) (float64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(float64), args.Error(1)
}

func TestLedgerService_Summarize_EmptyFilterMeansAll(t *testing.T) {
	repo := new(mockLedgerRepo)
	svc := NewLedgerService(repo, nil)
	ctx := context.Background()

	repo.On("Summarize", ctx, mock.MatchedBy(func(statuses []valueobject.OrderStatus) bool {
		return len(statuses) == 7
	})).Return(models.LedgerSummary{}, nil)

	_, err := svc.Summarize(ctx, nil)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestLedgerService_Summarize_InvalidStatus(t *testing.T) {
	repo := new(mockLedgerRepo)
	svc := NewLedgerService(repo, nil)

	_, err := svc.Summarize(context.Background(), []valueobject.OrderStatus{"SHIPPED"})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
}

func TestLedgerService_Summarize_Filtered(t *testing.T) {
	repo := new(mockLedgerRepo)
	svc := NewLedgerService(repo, nil)
	ctx := context.Background()

	filter := []valueobject.OrderStatus{valueobject.OrderStatusDisputed}
	expected := models.LedgerSummary{
		valueobject.OrderStatusDisputed: {Status: valueobject.OrderStatusDisputed, TotalAmount: 12000, Count: 3},
	}
	repo.On("Summarize", ctx, filter).Return(expected, nil)

	summary, err := svc.Summarize(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 3, summary[valueobject.OrderStatusDisputed].Count)
	assert.Equal(t, 12000.0, summary[valueobject.OrderStatusDisputed].TotalAmount)
}

func TestLedgerService_EscrowPage(t *testing.T) {
	repo := new(mockLedgerRepo)
	svc := NewLedgerService(repo, nil)
	ctx := context.Background()

	activeOrders := []models.Order{{ID: uuid.New(), Status: valueobject.OrderStatusDisputed}}
	repo.On("ListByStatuses", ctx, escrowPageStatuses, EscrowPageSize).Return(activeOrders, nil)
	repo.On("Summarize", ctx, escrowPageStatuses).Return(models.LedgerSummary{}, nil)

	orders, summary, err := svc.EscrowPage(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.NotNil(t, summary)
	repo.AssertExpectations(t)
}

func TestLedgerService_Balance(t *testing.T) {
	balances := new(mockBalances)
	svc := NewLedgerService(nil, balances)
	ctx := context.Background()
	userID := uuid.New()

	balances.On("GetBalance", ctx, userID).Return(7800.0, nil)

	balance, err := svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 7800.0, balance)
}
