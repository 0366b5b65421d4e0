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

const applicationColumns = `user_id, business_name, description, skills, experience, portfolio, status, created_at, updated_at`

type SellerApplicationRepository struct {
	db *sqlx.DB
}

func NewSellerApplicationRepository(db *sqlx.DB) *SellerApplicationRepository {
	return &SellerApplicationRepository{db: db}
}

// GetByUserID возвращает заявку пользователя.
func (r *SellerApplicationRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.SellerApplication, error) {
	var app models.SellerApplication
	query := fmt.Sprintf(`SELECT %s FROM seller_applications WHERE user_id = $1`, applicationColumns)
	if err := r.db.GetContext(ctx, &app, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("seller application repository: get by user %w", err)
	}
	return &app, nil
}

// Upsert создаёт или обновляет заявку (ключ — user_id) и в той же
// транзакции переводит seller_status пользователя в PENDING:
// дубликатов заявок у пользователя не бывает.
func (r *SellerApplicationRepository) Upsert(ctx context.Context, app *models.SellerApplication) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seller application repository: begin upsert %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		INSERT INTO seller_applications (user_id, business_name, description, skills, experience, portfolio, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			description   = EXCLUDED.description,
			skills        = EXCLUDED.skills,
			experience    = EXCLUDED.experience,
			portfolio     = EXCLUDED.portfolio,
			status        = EXCLUDED.status,
			updated_at    = NOW()
		RETURNING %s
	`, applicationColumns)
	if err := tx.GetContext(
		ctx, app, query,
		app.UserID, app.BusinessName, app.Description, app.Skills, app.Experience, app.Portfolio,
		valueobject.ApplicationStatusPending,
	); err != nil {
		return fmt.Errorf("seller application repository: upsert %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET seller_status = $2, updated_at = NOW() WHERE id = $1
	`, app.UserID, valueobject.SellerStatusPending); err != nil {
		return fmt.Errorf("seller application repository: update seller status %w", err)
	}

	return tx.Commit()
}

// Decide атомарно записывает решение администратора в заявку и в
// seller_status пользователя.
func (r *SellerApplicationRepository) Decide(ctx context.Context, userID uuid.UUID, outcome valueobject.ApplicationStatus) (*models.SellerApplication, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("seller application repository: begin decide %w", err)
	}
	defer tx.Rollback()

	var app models.SellerApplication
	query := fmt.Sprintf(`
		UPDATE seller_applications SET status = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING %s
	`, applicationColumns)
	if err := tx.GetContext(ctx, &app, query, userID, outcome); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("seller application repository: decide %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET seller_status = $2, updated_at = NOW() WHERE id = $1
	`, userID, string(outcome)); err != nil {
		return nil, fmt.Errorf("seller application repository: sync seller status %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("seller application repository: commit decide %w", err)
	}
	return &app, nil
}

// ListPending возвращает нерассмотренные заявки, старые первыми.
func (r *SellerApplicationRepository) ListPending(ctx context.Context, limit, offset int) ([]models.SellerApplication, error) {
	var apps []models.SellerApplication
	query := fmt.Sprintf(`
		SELECT %s FROM seller_applications
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`, applicationColumns)
	if err := r.db.SelectContext(ctx, &apps, query, valueobject.ApplicationStatusPending, limit, offset); err != nil {
		return nil, fmt.Errorf("seller application repository: list pending %w", err)
	}
	return apps, nil
}
