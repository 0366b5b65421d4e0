package valueobject

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusInProgress,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusDisputed,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusInProgress, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusDisputed, true},
		{OrderStatusPending, OrderStatusRefunded, true},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusInProgress, OrderStatusDelivered, true},
		{OrderStatusInProgress, OrderStatusDisputed, true},
		{OrderStatusInProgress, OrderStatusCancelled, true},
		{OrderStatusInProgress, OrderStatusCompleted, false},
		{OrderStatusDelivered, OrderStatusCompleted, true},
		{OrderStatusDelivered, OrderStatusDisputed, true},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDisputed, OrderStatusCompleted, true},
		{OrderStatusDisputed, OrderStatusRefunded, true},
		{OrderStatusDisputed, OrderStatusCancelled, true},
		{OrderStatusDisputed, OrderStatusInProgress, false},
		{OrderStatusCompleted, OrderStatusDisputed, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusRefunded, OrderStatusCompleted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatus_TerminalHasNoExits(t *testing.T) {
	for _, from := range allStatuses {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range allStatuses {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

// Случайное блуждание по автомату всегда завершается в терминальном
// статусе и никогда не покидает его.
func TestOrderStatus_RandomWalkReachesTerminal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		status := OrderStatusPending
		for steps := 0; steps < 20; steps++ {
			next := status.TransitionsFrom()
			if len(next) == 0 {
				break
			}
			status = next[rng.Intn(len(next))]
		}
		require.True(t, status.IsTerminal(), "блуждание застряло в %s", status)
	}
}

func TestNewOrderStatus(t *testing.T) {
	s, err := NewOrderStatus("DISPUTED")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusDisputed, s)

	_, err = NewOrderStatus("pending")
	assert.Error(t, err)

	_, err = NewOrderStatus("SHIPPED")
	assert.Error(t, err)
}

func TestRoleAllowed(t *testing.T) {
	cases := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		role    ActorRole
		allowed bool
	}{
		{"продавец берёт заказ", OrderStatusPending, OrderStatusInProgress, RoleSeller, true},
		{"покупатель не берёт заказ", OrderStatusPending, OrderStatusInProgress, RoleBuyer, false},
		{"покупатель отменяет до начала", OrderStatusPending, OrderStatusCancelled, RoleBuyer, true},
		{"продавец не отменяет чужой заказ", OrderStatusPending, OrderStatusCancelled, RoleSeller, false},
		{"продавец сдаёт работу", OrderStatusInProgress, OrderStatusDelivered, RoleSeller, true},
		{"админ не сдаёт работу за продавца", OrderStatusInProgress, OrderStatusDelivered, RoleAdmin, false},
		{"покупатель открывает спор", OrderStatusInProgress, OrderStatusDisputed, RoleBuyer, true},
		{"продавец открывает спор по сданной работе", OrderStatusDelivered, OrderStatusDisputed, RoleSeller, true},
		{"покупатель не подтверждает выполнение", OrderStatusDelivered, OrderStatusCompleted, RoleBuyer, false},
		{"админ подтверждает выполнение", OrderStatusDelivered, OrderStatusCompleted, RoleAdmin, true},
		{"продавец не решает спор", OrderStatusDisputed, OrderStatusCompleted, RoleSeller, false},
		{"покупатель не решает спор", OrderStatusDisputed, OrderStatusRefunded, RoleBuyer, false},
		{"админ решает спор в пользу продавца", OrderStatusDisputed, OrderStatusCompleted, RoleAdmin, true},
		{"админ возвращает средства из спора", OrderStatusDisputed, OrderStatusRefunded, RoleAdmin, true},
		{"админ возвращает средства до начала", OrderStatusPending, OrderStatusRefunded, RoleAdmin, true},
		{"покупатель не делает возврат", OrderStatusPending, OrderStatusRefunded, RoleBuyer, false},
		{"недопустимое ребро закрыто и админу", OrderStatusCompleted, OrderStatusRefunded, RoleAdmin, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, RoleAllowed(tc.from, tc.to, tc.role))
		})
	}
}

// Роль никогда не расширяет автомат: если ребро запрещено таблицей
// переходов, ни одна роль его не открывает.
func TestRoleAllowed_NeverWidensMachine(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if from.CanTransitionTo(to) {
				continue
			}
			for _, role := range []ActorRole{RoleBuyer, RoleSeller, RoleAdmin} {
				assert.False(t, RoleAllowed(from, to, role), "%s -> %s (%s)", from, to, role)
			}
		}
	}
}
