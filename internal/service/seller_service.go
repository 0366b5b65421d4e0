package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Devouko/talenthub-escrow/internal/domain/valueobject"
	"github.com/Devouko/talenthub-escrow/internal/models"
	"github.com/Devouko/talenthub-escrow/internal/pkg/apperror"
)

// SellerApplicationRepository описывает хранилище заявок продавцов.
type SellerApplicationRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.SellerApplication, error)
	Upsert(ctx context.Context, app *models.SellerApplication) error
	Decide(ctx context.Context, userID uuid.UUID, outcome valueobject.ApplicationStatus) (*models.SellerApplication, error)
	ListPending(ctx context.Context, limit, offset int) ([]models.SellerApplication, error)
}

// ApplicationInput — данные заявки на роль продавца.
type ApplicationInput struct {
	BusinessName string
	Description  string
	Skills       []string
	Experience   string
	Portfolio    []string
}

// SellerService — гейт допуска продавца: выводит права пользователя
// из seller_status и ведёт цикл рассмотрения заявки.
type SellerService struct {
	applications SellerApplicationRepository
}

func NewSellerService(applications SellerApplicationRepository) *SellerService {
	return &SellerService{applications: applications}
}

// CanReceiveOrders сообщает, может ли пользователь принимать заказы
// как продавец.
func (s *SellerService) CanReceiveOrders(user *models.User) bool {
	return user.SellerStatus == valueobject.SellerStatusApproved
}

// Apply подаёт или обновляет заявку на роль продавца. Заявка всегда
// одна на пользователя; статус заявки и seller_status пользователя
// становятся PENDING атомарно. Повторная подача после одобрения
// запрещена: одобренный продавец не должен откатываться в PENDING.
func (s *SellerService) Apply(ctx context.Context, userID uuid.UUID, input ApplicationInput) (*models.SellerApplication, error) {
	if input.BusinessName == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название бизнеса обязательно")
	}

	existing, err := s.applications.GetByUserID(ctx, userID)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}
	if existing != nil && existing.Status == valueobject.ApplicationStatusApproved {
		return nil, apperror.ErrAlreadyApproved
	}

	app := &models.SellerApplication{
		UserID:       userID,
		BusinessName: input.BusinessName,
		Description:  input.Description,
		Skills:       input.Skills,
		Experience:   input.Experience,
		Portfolio:    input.Portfolio,
	}
	if err := s.applications.Upsert(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// GetApplication возвращает заявку пользователя.
func (s *SellerService) GetApplication(ctx context.Context, userID uuid.UUID) (*models.SellerApplication, error) {
	return s.applications.GetByUserID(ctx, userID)
}

// Decide — решение администратора по заявке. Статус заявки и
// seller_status пользователя обновляются в одной транзакции.
func (s *SellerService) Decide(ctx context.Context, userID uuid.UUID, outcome valueobject.ApplicationStatus) (*models.SellerApplication, error) {
	if outcome != valueobject.ApplicationStatusApproved && outcome != valueobject.ApplicationStatusRejected {
		return nil, apperror.New(apperror.ErrCodeValidation, "решение должно быть APPROVED или REJECTED")
	}
	return s.applications.Decide(ctx, userID, outcome)
}

// ListPending возвращает нерассмотренные заявки для админ-панели.
func (s *SellerService) ListPending(ctx context.Context, limit, offset int) ([]models.SellerApplication, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.applications.ListPending(ctx, limit, offset)
}
