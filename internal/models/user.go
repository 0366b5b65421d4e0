package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Devouko/talenthub-escrow/internal/domain/valueobject"
)

// Роли пользователей платформы.
const (
	UserRoleUser  = "USER"
	UserRoleAdmin = "ADMIN"
)

// User описывает пользователя в проекции escrow-сервиса: баланс
// и статус продавца. Баланс меняется только начислением по
// завершённым заказам и всегда неотрицателен.
type User struct {
	ID           uuid.UUID                `db:"id" json:"id"`
	Email        string                   `db:"email" json:"email"`
	Username     string                   `db:"username" json:"username"`
	Role         string                   `db:"role" json:"role"`
	Balance      float64                  `db:"balance" json:"balance"`
	SellerStatus valueobject.SellerStatus `db:"seller_status" json:"seller_status"`
	CreatedAt    time.Time                `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time                `db:"updated_at" json:"updated_at"`
}

// SellerApplication — заявка пользователя на роль продавца.
// У пользователя не бывает больше одной заявки: повторная подача
// обновляет существующую строку (upsert по user_id).
type SellerApplication struct {
	UserID       uuid.UUID                     `db:"user_id" json:"user_id"`
	BusinessName string                        `db:"business_name" json:"business_name"`
	Description  string                        `db:"description" json:"description"`
	Skills       pq.StringArray                `db:"skills" json:"skills"`
	Experience   string                        `db:"experience" json:"experience"`
	Portfolio    pq.StringArray                `db:"portfolio" json:"portfolio"`
	Status       valueobject.ApplicationStatus `db:"status" json:"status"`
	CreatedAt    time.Time                     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time                     `db:"updated_at" json:"updated_at"`
}
