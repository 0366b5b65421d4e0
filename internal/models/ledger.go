package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы проводок. Баланс пользователя всегда выводим из неизменяемых
// проводок: начисление не является read-modify-write счётчика.
const (
	LedgerEntryEscrowRelease = "escrow_release"
	LedgerEntryEscrowRefund  = "escrow_refund"
)

// LedgerEntry — неизменяемая проводка по заказу. Уникальность пары
// (order_id, entry_type) в базе исключает повторное начисление
// за один и тот же заказ.
type LedgerEntry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	OrderID   uuid.UUID `db:"order_id" json:"order_id"`
	EntryType string    `db:"entry_type" json:"entry_type"`
	Amount    float64   `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Notification — сохранённое уведомление пользователя о событии сделки.
type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Payload   []byte    `db:"payload" json:"payload"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
