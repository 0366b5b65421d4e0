package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Devouko/talenthub-escrow/internal/domain/valueobject"
)

// Order описывает escrow-сделку покупателя с продавцом по одной услуге.
// Сумма total_amount фиксируется при создании и не меняется; записи
// о заказах никогда не удаляются.
type Order struct {
	ID          uuid.UUID               `db:"id" json:"id"`
	GigID       uuid.UUID               `db:"gig_id" json:"gig_id"`
	BuyerID     uuid.UUID               `db:"buyer_id" json:"buyer_id"`
	SellerID    uuid.UUID               `db:"seller_id" json:"seller_id"`
	TotalAmount float64                 `db:"total_amount" json:"total_amount"`
	Status      valueobject.OrderStatus `db:"status" json:"status"`
	AdminNotes  *string                 `db:"admin_notes" json:"admin_notes,omitempty"`
	CreatedAt   time.Time               `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time               `db:"updated_at" json:"updated_at"`
}

// IsParty сообщает, является ли пользователь стороной сделки.
func (o *Order) IsParty(userID uuid.UUID) bool {
	return o.BuyerID == userID || o.SellerID == userID
}

// RoleOf возвращает роль пользователя в сделке.
func (o *Order) RoleOf(userID uuid.UUID) (valueobject.ActorRole, bool) {
	switch userID {
	case o.BuyerID:
		return valueobject.RoleBuyer, true
	case o.SellerID:
		return valueobject.RoleSeller, true
	}
	return "", false
}

// Gig — проекция услуги из каталога: сервису escrow нужны только
// продавец и цена.
type Gig struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SellerID  uuid.UUID `db:"seller_id" json:"seller_id"`
	Title     string    `db:"title" json:"title"`
	Price     float64   `db:"price" json:"price"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StatusSummary — агрегат по одному статусу для дашборда.
type StatusSummary struct {
	Status      valueobject.OrderStatus `db:"status" json:"status"`
	TotalAmount float64                 `db:"total_amount" json:"total_amount"`
	Count       int                     `db:"count" json:"count"`
}

// LedgerSummary — сводка по набору статусов, ключ — статус заказа.
type LedgerSummary map[valueobject.OrderStatus]StatusSummary
