package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Devouko/talenthub-escrow/internal/domain/valueobject"
	"github.com/Devouko/talenthub-escrow/internal/models"
	"github.com/Devouko/talenthub-escrow/internal/pkg/apperror"
)

const orderColumns = `id, gig_id, buyer_id, seller_id, total_amount, status, admin_notes, created_at, updated_at`

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create сохраняет новый заказ в статусе PENDING.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (gig_id, buyer_id, seller_id, total_amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		order.GigID, order.BuyerID, order.SellerID, order.TotalAmount, valueobject.OrderStatusPending,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return fmt.Errorf("order repository: create %w", err)
	}
	order.Status = valueobject.OrderStatusPending
	return nil
}

// GetByID возвращает заказ по идентификатору.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: get by id %w", err)
	}
	return &order, nil
}

// ListByParty возвращает заказы, где пользователь выступает покупателем
// или продавцом, новые первыми.
func (r *OrderRepository) ListByParty(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE buyer_id = $1 OR seller_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, orderColumns)
	if err := r.db.SelectContext(ctx, &orders, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("order repository: list by party %w", err)
	}
	return orders, nil
}

// Transition выполняет переход статуса заказа как единый
// read-modify-write: строка заказа блокируется FOR UPDATE, допустимость
// ребра и полномочия роли проверяются уже под блокировкой, и при
// переходе в COMPLETED начисление продавцу (проводка + баланс)
// фиксируется в той же транзакции. Две конкурентные операции по
// одному заказу не могут обе увидеть старый статус и обе успешно
// закоммититься. Вторым значением возвращается статус до перехода,
// прочитанный под той же блокировкой.
func (r *OrderRepository) Transition(ctx context.Context, orderID uuid.UUID, target valueobject.OrderStatus, role valueobject.ActorRole, adminNotes *string) (*models.Order, valueobject.OrderStatus, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("order repository: begin transition %w", err)
	}
	defer tx.Rollback()

	var order models.Order
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 FOR UPDATE`, orderColumns)
	if err := tx.GetContext(ctx, &order, query, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", apperror.ErrOrderNotFound
		}
		return nil, "", fmt.Errorf("order repository: lock order %w", err)
	}
	from := order.Status

	// Проверки под блокировкой: ретрай уже применённого перехода
	// упирается сюда и не даёт двойного начисления.
	if from.IsTerminal() {
		return nil, "", apperror.ErrAlreadyFinal
	}
	if !from.CanTransitionTo(target) {
		return nil, "", apperror.InvalidTransition(string(from), string(target))
	}
	if !valueobject.RoleAllowed(from, target, role) {
		return nil, "", apperror.ErrForbidden
	}

	if adminNotes != nil {
		order.AdminNotes = adminNotes
	}

	if err := tx.GetContext(ctx, &order.UpdatedAt, `
		UPDATE orders SET status = $2, admin_notes = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, orderID, target, order.AdminNotes); err != nil {
		return nil, "", fmt.Errorf("order repository: update status %w", err)
	}
	order.Status = target

	// Начисление продавцу неотделимо от перехода в COMPLETED:
	// либо коммитятся оба изменения, либо ни одного.
	if target == valueobject.OrderStatusCompleted {
		if err := creditSeller(ctx, tx, &order); err != nil {
			return nil, "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("order repository: commit transition %w", err)
	}
	return &order, from, nil
}

// creditSeller добавляет неизменяемую проводку и увеличивает баланс
// продавца на полную сумму заказа. UNIQUE (order_id, entry_type)
// в ledger_entries исключает повторное начисление на уровне базы.
func creditSeller(ctx context.Context, tx *sqlx.Tx, order *models.Order) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (user_id, order_id, entry_type, amount)
		VALUES ($1, $2, $3, $4)
	`, order.SellerID, order.ID, models.LedgerEntryEscrowRelease, order.TotalAmount)
	if err != nil {
		return fmt.Errorf("order repository: append ledger entry %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
	`, order.SellerID, order.TotalAmount)
	if err != nil {
		return fmt.Errorf("order repository: credit seller balance %w", err)
	}
	return nil
}
