package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Devouko/talenthub-escrow/internal/domain/valueobject"
	"github.com/Devouko/talenthub-escrow/internal/events"
	"github.com/Devouko/talenthub-escrow/internal/goroutine"
	"github.com/Devouko/talenthub-escrow/internal/logger"
	"github.com/Devouko/talenthub-escrow/internal/metrics"
	"github.com/Devouko/talenthub-escrow/internal/models"
	"github.com/Devouko/talenthub-escrow/internal/pkg/apperror"
)

// EscrowOrderRepository описывает хранилище заказов для контроллера.
// Transition обязан выполнять переход и начисление атомарно и
// возвращать статус до перехода, прочитанный под блокировкой строки.
type EscrowOrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Transition(ctx context.Context, orderID uuid.UUID, target valueobject.OrderStatus, role valueobject.ActorRole, adminNotes *string) (*models.Order, valueobject.OrderStatus, error)
}

// EventPublisher публикует события переходов во внешнюю шину.
type EventPublisher interface {
	Publish(ctx context.Context, event events.OrderEvent) error
}

// Notifier доставляет событие пользователю (websocket + БД).
type Notifier interface {
	NotifyUser(userID uuid.UUID, event string, data any) error
}

// EscrowService — единственная точка изменения статуса заказа.
// Компонует проверку полномочий, переход конечного автомата и
// побочные эффекты (метрики, события, уведомления).
type EscrowService struct {
	orders    EscrowOrderRepository
	metrics   *metrics.EscrowMetrics
	publisher EventPublisher
	notifier  Notifier
}

func NewEscrowService(orders EscrowOrderRepository, m *metrics.EscrowMetrics) *EscrowService {
	return &EscrowService{orders: orders, metrics: m}
}

// SetEventPublisher подключает внешнюю шину событий (опционально).
func (s *EscrowService) SetEventPublisher(p EventPublisher) {
	s.publisher = p
}

// SetNotifier подключает доставку уведомлений сторонам (опционально).
func (s *EscrowService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Approve подтверждает выполнение заказа: DELIVERED/DISPUTED -> COMPLETED,
// продавцу начисляется полная сумма. Повторный вызов по уже
// завершённому заказу возвращает AlreadyFinal, начисление не дублируется.
func (s *EscrowService) Approve(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, orderID, valueobject.OrderStatusCompleted, valueobject.RoleAdmin, nil)
}

// Reject отклоняет заказ: PENDING/DISPUTED -> CANCELLED с заметкой
// администратора. Средства продавцу не начисляются.
func (s *EscrowService) Reject(ctx context.Context, orderID uuid.UUID, note string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// reject определён только для PENDING и DISPUTED; отмена
	// работы в процессе — отдельная административная операция.
	if order.Status != valueobject.OrderStatusPending && order.Status != valueobject.OrderStatusDisputed {
		return nil, s.transitionRefused(order.Status, valueobject.OrderStatusCancelled)
	}
	return s.transition(ctx, orderID, valueobject.OrderStatusCancelled, valueobject.RoleAdmin, &note)
}

// Dispute открывает спор по активному заказу. Доступно обеим сторонам
// сделки; после открытия спора заказ заморожен до решения администратора.
func (s *EscrowService) Dispute(ctx context.Context, orderID, actorID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	role, ok := order.RoleOf(actorID)
	if !ok {
		return nil, apperror.ErrForbidden
	}
	return s.transition(ctx, orderID, valueobject.OrderStatusDisputed, role, nil)
}

// Cancel отменяет ещё не начатый заказ. Доступно покупателю и
// администратору, и только для PENDING: отмена работы в процессе
// или спора — административные операции через PatchEscrow и Reject.
func (s *EscrowService) Cancel(ctx context.Context, orderID, actorID uuid.UUID, isAdmin bool) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != valueobject.OrderStatusPending {
		return nil, s.transitionRefused(order.Status, valueobject.OrderStatusCancelled)
	}

	role := valueobject.RoleAdmin
	if !isAdmin {
		var ok bool
		if role, ok = order.RoleOf(actorID); !ok {
			return nil, apperror.ErrForbidden
		}
	}
	return s.transition(ctx, orderID, valueobject.OrderStatusCancelled, role, nil)
}

// Release — решение спора в пользу продавца: DISPUTED -> COMPLETED
// с начислением. Синоним Approve для спорного заказа.
func (s *EscrowService) Release(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != valueobject.OrderStatusDisputed {
		return nil, s.transitionRefused(order.Status, valueobject.OrderStatusCompleted)
	}
	return s.transition(ctx, orderID, valueobject.OrderStatusCompleted, valueobject.RoleAdmin, nil)
}

// Refund — возврат средств покупателю: PENDING/DISPUTED -> REFUNDED.
// Продавцу ничего не начисляется; сам возврат платежа выполняет
// внешняя платёжная система.
func (s *EscrowService) Refund(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, orderID, valueobject.OrderStatusRefunded, valueobject.RoleAdmin, nil)
}

// Accept — продавец принимает заказ в работу: PENDING -> IN_PROGRESS.
func (s *EscrowService) Accept(ctx context.Context, orderID, actorID uuid.UUID) (*models.Order, error) {
	return s.partyTransition(ctx, orderID, actorID, valueobject.OrderStatusInProgress)
}

// Deliver — продавец сдаёт работу: IN_PROGRESS -> DELIVERED.
func (s *EscrowService) Deliver(ctx context.Context, orderID, actorID uuid.UUID) (*models.Order, error) {
	return s.partyTransition(ctx, orderID, actorID, valueobject.OrderStatusDelivered)
}

// AdminSetStatus применяет произвольный допустимый переход от имени
// администратора; точка входа PATCH /escrow.
func (s *EscrowService) AdminSetStatus(ctx context.Context, orderID uuid.UUID, target valueobject.OrderStatus, adminNotes *string) (*models.Order, error) {
	return s.transition(ctx, orderID, target, valueobject.RoleAdmin, adminNotes)
}

// partyTransition выполняет переход от имени стороны сделки.
func (s *EscrowService) partyTransition(ctx context.Context, orderID, actorID uuid.UUID, target valueobject.OrderStatus) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	role, ok := order.RoleOf(actorID)
	if !ok {
		return nil, apperror.ErrForbidden
	}
	return s.transition(ctx, orderID, target, role, nil)
}

// transition — общий путь всех операций: атомарный переход в
// репозитории, затем побочные эффекты. Исходный статус берётся из
// самого перехода, отдельное чтение дало бы устаревший from при гонке.
func (s *EscrowService) transition(ctx context.Context, orderID uuid.UUID, target valueobject.OrderStatus, role valueobject.ActorRole, adminNotes *string) (*models.Order, error) {
	order, from, err := s.orders.Transition(ctx, orderID, target, role, adminNotes)
	if err != nil {
		s.observeError(err)
		return nil, err
	}

	s.metrics.ObserveTransition(string(from), string(target), string(role), order.TotalAmount)
	s.emit(from, order)
	return order, nil
}

func (s *EscrowService) transitionRefused(from, to valueobject.OrderStatus) error {
	if from.IsTerminal() {
		return apperror.ErrAlreadyFinal
	}
	return apperror.InvalidTransition(string(from), string(to))
}

func (s *EscrowService) observeError(err error) {
	switch {
	case apperror.IsAlreadyFinal(err):
		s.metrics.ObserveTransitionError("already_final")
	case apperror.IsInvalidTransition(err):
		s.metrics.ObserveTransitionError("invalid_transition")
	case apperror.IsForbidden(err):
		s.metrics.ObserveTransitionError("forbidden")
	}
}

// emit рассылает событие перехода: в Kafka и обеим сторонам сделки.
// Эффекты best-effort: заказ уже закоммичен, ошибки только логируются.
func (s *EscrowService) emit(from valueobject.OrderStatus, order *models.Order) {
	event := events.OrderEvent{
		OrderID:    order.ID.String(),
		BuyerID:    order.BuyerID.String(),
		SellerID:   order.SellerID.String(),
		FromStatus: string(from),
		ToStatus:   string(order.Status),
		Amount:     order.TotalAmount,
		OccurredAt: order.UpdatedAt.Format(time.RFC3339),
	}

	if s.publisher != nil {
		goroutine.SafeGo(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.publisher.Publish(ctx, event); err != nil {
				logger.WithComponent("escrow").Errorf("не удалось опубликовать событие заказа %s: %v", event.OrderID, err)
			}
		})
	}

	if s.notifier != nil {
		for _, userID := range []uuid.UUID{order.BuyerID, order.SellerID} {
			if err := s.notifier.NotifyUser(userID, "order.status_changed", event); err != nil {
				logger.WithComponent("escrow").Errorf("не удалось уведомить пользователя %s: %v", userID, err)
			}
		}
	}
}
