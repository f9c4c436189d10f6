package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes purchases from restocks.
type TransactionType string

const (
	TransactionPurchase TransactionType = "purchase"
	TransactionRestock  TransactionType = "restock"
)

// Transaction is an append-only ledger entry recording a purchase or restock.
// Rows are never updated or deleted; exactly one is written per successful
// stock mutation, in the same database transaction.
type Transaction struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	UserID     uint            `json:"userId" gorm:"not null;index"`
	SweetID    uint            `json:"sweetId" gorm:"not null;index"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:decimal(10,2);not null"`
	Type       TransactionType `json:"type" gorm:"type:varchar(20);not null;index"`
	CreatedAt  time.Time       `json:"createdAt"`

	// Relations
	User  User  `json:"-" gorm:"foreignKey:UserID"`
	Sweet Sweet `json:"-" gorm:"foreignKey:SweetID"`
}
