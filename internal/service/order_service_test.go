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
	"github.com/Devouko/talenthub-escrow/internal/pkg/apperror"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByParty(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Order), args.Error(1)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetGig(ctx context.Context, gigID uuid.UUID) (*models.Gig, error) {
	args := m.Called(ctx, gigID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gig), args.Error(1)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newOrderServiceForTest(orders *mockOrderRepo, catalog *mockCatalog, users *mockUsers) *OrderService {
	return NewOrderService(orders, catalog, users, NewSellerService(nil), nil)
}

func TestOrderService_Create_PendingWithGigPrice(t *testing.T) {
	orders := new(mockOrderRepo)
	catalog := new(mockCatalog)
	users := new(mockUsers)
	svc := newOrderServiceForTest(orders, catalog, users)
	ctx := context.Background()

	buyerID := uuid.New()
	sellerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), SellerID: sellerID, Title: "Логотип", Price: 3500}

	catalog.On("GetGig", ctx, gig.ID).Return(gig, nil)
	users.On("GetByID", ctx, sellerID).Return(&models.User{ID: sellerID, SellerStatus: valueobject.SellerStatusApproved}, nil)
	orders.On("Create", ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := svc.Create(ctx, buyerID, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, buyerID, order.BuyerID)
	assert.Equal(t, sellerID, order.SellerID)
	assert.Equal(t, 3500.0, order.TotalAmount)
	orders.AssertExpectations(t)
}

func TestOrderService_Create_SellerNotEligible(t *testing.T) {
	orders := new(mockOrderRepo)
	catalog := new(mockCatalog)
	users := new(mockUsers)
	svc := newOrderServiceForTest(orders, catalog, users)
	ctx := context.Background()

	sellerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), SellerID: sellerID, Price: 1000}

	catalog.On("GetGig", ctx, gig.ID).Return(gig, nil)
	users.On("GetByID", ctx, sellerID).Return(&models.User{ID: sellerID, SellerStatus: valueobject.SellerStatusPending}, nil)

	_, err := svc.Create(ctx, uuid.New(), gig.ID)
	assert.ErrorIs(t, err, apperror.ErrSellerNotEligible)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Create_OwnGigRejected(t *testing.T) {
	orders := new(mockOrderRepo)
	catalog := new(mockCatalog)
	users := new(mockUsers)
	svc := newOrderServiceForTest(orders, catalog, users)
	ctx := context.Background()

	sellerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), SellerID: sellerID, Price: 1000}
	catalog.On("GetGig", ctx, gig.ID).Return(gig, nil)

	_, err := svc.Create(ctx, sellerID, gig.ID)
	assert.Error(t, err)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestOrderService_Create_GigNotFound(t *testing.T) {
	orders := new(mockOrderRepo)
	catalog := new(mockCatalog)
	users := new(mockUsers)
	svc := newOrderServiceForTest(orders, catalog, users)
	ctx := context.Background()

	gigID := uuid.New()
	catalog.On("GetGig", ctx, gigID).Return(nil, apperror.ErrGigNotFound)

	_, err := svc.Create(ctx, uuid.New(), gigID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestOrderService_Get_StrangerForbidden(t *testing.T) {
	orders := new(mockOrderRepo)
	svc := newOrderServiceForTest(orders, new(mockCatalog), new(mockUsers))
	ctx := context.Background()

	order := &models.Order{ID: uuid.New(), BuyerID: uuid.New(), SellerID: uuid.New()}
	orders.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := svc.Get(ctx, order.ID, uuid.New(), false)
	assert.True(t, apperror.IsForbidden(err))

	// Администратор видит любой заказ.
	got, err := svc.Get(ctx, order.ID, uuid.New(), true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}
