package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Devouko/talenthub-escrow/internal/models"
	"github.com/Devouko/talenthub-escrow/internal/pkg/apperror"
)

// CatalogRepository — минимальная проекция каталога услуг.
// Каталогом владеет отдельный сервис, здесь нужны только продавец
// и цена для создания заказа.
type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetGig возвращает услугу по идентификатору.
func (r *CatalogRepository) GetGig(ctx context.Context, gigID uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	query := `SELECT id, seller_id, title, price, created_at FROM gigs WHERE id = $1`
	if err := r.db.GetContext(ctx, &gig, query, gigID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, fmt.Errorf("catalog repository: get gig %w", err)
	}
	return &gig, nil
}
