package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Devouko/talenthub-escrow/internal/domain/valueobject"
	"github.com/Devouko/talenthub-escrow/internal/models"
	"github.com/Devouko/talenthub-escrow/internal/pkg/apperror"
)

// EscrowPageSize — предел выборки заказов на админ-странице escrow.
const EscrowPageSize = 50

// LedgerRepository — read-side хранилище агрегатов и проводок.
type LedgerRepository interface {
	Summarize(ctx context.Context, statuses []valueobject.OrderStatus) (models.LedgerSummary, error)
	ListByStatuses(ctx context.Context, statuses []valueobject.OrderStatus, limit int) ([]models.Order, error)
	ListEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error)
}

// BalanceProvider возвращает накопленный баланс пользователя.
type BalanceProvider interface {
	GetBalance(ctx context.Context, id uuid.UUID) (float64, error)
}

// escrowPageStatuses — статусы, интересные администратору на странице
// escrow: всё незавершённое плюс споры.
var escrowPageStatuses = []valueobject.OrderStatus{
	valueobject.OrderStatusPending,
	valueobject.OrderStatusInProgress,
	valueobject.OrderStatusDelivered,
	valueobject.OrderStatusDisputed,
}

// LedgerService — read-only проекция по заказам, балансам и проводкам.
// Никогда не меняет состояние.
type LedgerService struct {
	ledger   LedgerRepository
	balances BalanceProvider
}

func NewLedgerService(ledger LedgerRepository, balances BalanceProvider) *LedgerService {
	return &LedgerService{ledger: ledger, balances: balances}
}

// Summarize возвращает сумму и количество заказов по каждому статусу
// из фильтра. Пустой фильтр означает все статусы.
func (s *LedgerService) Summarize(ctx context.Context, statuses []valueobject.OrderStatus) (models.LedgerSummary, error) {
	if len(statuses) == 0 {
		statuses = []valueobject.OrderStatus{
			valueobject.OrderStatusPending,
			valueobject.OrderStatusInProgress,
			valueobject.OrderStatusDelivered,
			valueobject.OrderStatusCompleted,
			valueobject.OrderStatusDisputed,
			valueobject.OrderStatusCancelled,
			valueobject.OrderStatusRefunded,
		}
	}
	for _, st := range statuses {
		if !st.IsValid() {
			return nil, apperror.New(apperror.ErrCodeValidation, "некорректный статус в фильтре")
		}
	}
	return s.ledger.Summarize(ctx, statuses)
}

// EscrowPage возвращает данные админ-страницы escrow: активные и
// спорные заказы (новые первыми, не больше EscrowPageSize) и сводку
// по тем же статусам.
func (s *LedgerService) EscrowPage(ctx context.Context) ([]models.Order, models.LedgerSummary, error) {
	orders, err := s.ledger.ListByStatuses(ctx, escrowPageStatuses, EscrowPageSize)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.ledger.Summarize(ctx, escrowPageStatuses)
	if err != nil {
		return nil, nil, err
	}
	return orders, summary, nil
}

// Balance возвращает баланс пользователя.
func (s *LedgerService) Balance(ctx context.Context, userID uuid.UUID) (float64, error) {
	return s.balances.GetBalance(ctx, userID)
}

// ListEntries возвращает проводки пользователя.
func (s *LedgerService) ListEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.ledger.ListEntries(ctx, userID, limit, offset)
}
