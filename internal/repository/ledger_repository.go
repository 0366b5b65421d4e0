package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Devouko/talenthub-escrow/internal/domain/valueobject"
	"github.com/Devouko/talenthub-escrow/internal/models"
)

// LedgerRepository — read-side проекция по заказам и проводкам.
// Состояния не меняет.
type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Summarize считает сумму и количество заказов по каждому статусу из
// фильтра. Один GROUP BY запрос — агрегат видит согласованный
// снимок, смешивания до- и после-переходных сумм не бывает.
func (r *LedgerRepository) Summarize(ctx context.Context, statuses []valueobject.OrderStatus) (models.LedgerSummary, error) {
	filter := make([]string, len(statuses))
	for i, s := range statuses {
		filter[i] = string(s)
	}

	var rows []models.StatusSummary
	query := `
		SELECT status, COALESCE(SUM(total_amount), 0) AS total_amount, COUNT(*) AS count
		FROM orders
		WHERE status = ANY($1)
		GROUP BY status
	`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(filter)); err != nil {
		return nil, fmt.Errorf("ledger repository: summarize %w", err)
	}

	summary := make(models.LedgerSummary, len(statuses))
	// Статусы без заказов тоже попадают в сводку, с нулями.
	for _, s := range statuses {
		summary[s] = models.StatusSummary{Status: s}
	}
	for _, row := range rows {
		summary[row.Status] = row
	}
	return summary, nil
}

// ListByStatuses возвращает заказы в указанных статусах, новые первыми.
func (r *LedgerRepository) ListByStatuses(ctx context.Context, statuses []valueobject.OrderStatus, limit int) ([]models.Order, error) {
	filter := make([]string, len(statuses))
	for i, s := range statuses {
		filter[i] = string(s)
	}

	var orders []models.Order
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE status = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2
	`, orderColumns)
	if err := r.db.SelectContext(ctx, &orders, query, pq.Array(filter), limit); err != nil {
		return nil, fmt.Errorf("ledger repository: list by statuses %w", err)
	}
	return orders, nil
}

// ListEntries возвращает проводки пользователя, новые первыми.
func (r *LedgerRepository) ListEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	query := `
		SELECT id, user_id, order_id, entry_type, amount, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &entries, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("ledger repository: list entries %w", err)
	}
	return entries, nil
}
