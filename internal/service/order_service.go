package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Devouko/talenthub-escrow/internal/metrics"
	"github.com/Devouko/talenthub-escrow/internal/models"
	"github.com/Devouko/talenthub-escrow/internal/pkg/apperror"
)

// OrderRepository описывает хранилище заказов для создания и чтения.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByParty(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error)
}

// CatalogProvider — внешний каталог услуг: сервису нужны продавец
// и цена покупаемой услуги.
type CatalogProvider interface {
	GetGig(ctx context.Context, gigID uuid.UUID) (*models.Gig, error)
}

// UserProvider возвращает пользователей для проверки допуска продавца.
type UserProvider interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// OrderService создаёт заказы и отдаёт их на чтение. Изменение
// статуса — исключительно зона EscrowService.
type OrderService struct {
	orders  OrderRepository
	catalog CatalogProvider
	users   UserProvider
	sellers *SellerService
	metrics *metrics.EscrowMetrics
}

func NewOrderService(orders OrderRepository, catalog CatalogProvider, users UserProvider, sellers *SellerService, m *metrics.EscrowMetrics) *OrderService {
	return &OrderService{
		orders:  orders,
		catalog: catalog,
		users:   users,
		sellers: sellers,
		metrics: m,
	}
}

// Create создаёт заказ по услуге: покупатель фиксирует цену услуги
// как total_amount, заказ стартует в PENDING. Продавец обязан быть
// одобрен гейтом допуска; покупка собственной услуги запрещена.
func (s *OrderService) Create(ctx context.Context, buyerID, gigID uuid.UUID) (*models.Order, error) {
	gig, err := s.catalog.GetGig(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if gig.SellerID == buyerID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя заказать собственную услугу")
	}
	if gig.Price <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "цена услуги должна быть положительной")
	}

	seller, err := s.users.GetByID(ctx, gig.SellerID)
	if err != nil {
		return nil, err
	}
	if !s.sellers.CanReceiveOrders(seller) {
		return nil, apperror.ErrSellerNotEligible
	}

	order := &models.Order{
		GigID:       gig.ID,
		BuyerID:     buyerID,
		SellerID:    gig.SellerID,
		TotalAmount: gig.Price,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.ObserveOrderCreated(order.TotalAmount)
	return order, nil
}

// Get возвращает заказ; видят его только стороны сделки и администратор.
func (s *OrderService) Get(ctx context.Context, orderID, actorID uuid.UUID, isAdmin bool) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !order.IsParty(actorID) {
		return nil, apperror.ErrForbidden
	}
	return order, nil
}

// ListMine возвращает заказы пользователя как покупателя и продавца.
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.ListByParty(ctx, userID, limit, offset)
}
