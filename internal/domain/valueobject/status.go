package valueobject

import "github.com/Devouko/talenthub-escrow/internal/pkg/apperror"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusDisputed   OrderStatus = "DISPUTED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

// transitions — таблица допустимых переходов статуса заказа.
// Ребро PENDING -> REFUNDED нужно администратору для возврата
// средств до начала работы.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusInProgress, OrderStatusCancelled, OrderStatusDisputed, OrderStatusRefunded},
	OrderStatusInProgress: {OrderStatusDelivered, OrderStatusDisputed, OrderStatusCancelled},
	OrderStatusDelivered:  {OrderStatusCompleted, OrderStatusDisputed},
	OrderStatusDisputed:   {OrderStatusCompleted, OrderStatusRefunded, OrderStatusCancelled},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
}

func (s OrderStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal сообщает, является ли статус конечным: из него переходы запрещены.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

// TransitionsFrom возвращает копию списка достижимых статусов.
func (s OrderStatus) TransitionsFrom() []OrderStatus {
	allowed := transitions[s]
	out := make([]OrderStatus, len(allowed))
	copy(out, allowed)
	return out
}

func NewOrderStatus(status string) (OrderStatus, error) {
	s := OrderStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заказа")
	}
	return s, nil
}

type ActorRole string

const (
	RoleBuyer  ActorRole = "BUYER"
	RoleSeller ActorRole = "SELLER"
	RoleAdmin  ActorRole = "ADMIN"
)

func (r ActorRole) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// RoleAllowed — единая точка авторизации переходов: роль проверяется
// здесь, а не в каждом хэндлере. Правила:
//   - разрешение споров (DISPUTED -> *) — только администратор;
//   - любой переход в REFUNDED — только администратор;
//   - IN_PROGRESS -> DELIVERED — только продавец, даже не администратор:
//     сдать работу может лишь тот, кто её выполнял;
//   - остальные допустимые рёбра администратору доступны.
func RoleAllowed(from, to OrderStatus, role ActorRole) bool {
	if !from.CanTransitionTo(to) {
		return false
	}
	if from == OrderStatusInProgress && to == OrderStatusDelivered {
		return role == RoleSeller
	}
	if role == RoleAdmin {
		return true
	}

	// Все переходы из спора и любые возвраты закрыты для сторон сделки.
	if from == OrderStatusDisputed || to == OrderStatusRefunded {
		return false
	}

	switch {
	case from == OrderStatusPending && to == OrderStatusInProgress:
		return role == RoleSeller
	case from == OrderStatusPending && to == OrderStatusCancelled:
		return role == RoleBuyer
	case to == OrderStatusDisputed:
		// Открыть спор может любая сторона по активному заказу.
		return (role == RoleBuyer || role == RoleSeller) &&
			(from == OrderStatusInProgress || from == OrderStatusDelivered)
	case from == OrderStatusDelivered && to == OrderStatusCompleted:
		// Подтверждение выполнения — административная операция.
		return false
	}
	return false
}

type SellerStatus string

const (
	SellerStatusNotApplied SellerStatus = "NOT_APPLIED"
	SellerStatusPending    SellerStatus = "PENDING"
	SellerStatusApproved   SellerStatus = "APPROVED"
	SellerStatusRejected   SellerStatus = "REJECTED"
)

func (s SellerStatus) IsValid() bool {
	switch s {
	case SellerStatusNotApplied, SellerStatusPending, SellerStatusApproved, SellerStatusRejected:
		return true
	}
	return false
}

// ApplicationStatus — статус заявки продавца; NOT_APPLIED относится
// только к пользователю, у заявки такого статуса не бывает.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "PENDING"
	ApplicationStatusApproved ApplicationStatus = "APPROVED"
	ApplicationStatusRejected ApplicationStatus = "REJECTED"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

func NewApplicationStatus(status string) (ApplicationStatus, error) {
	s := ApplicationStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заявки")
	}
	return s, nil
}
