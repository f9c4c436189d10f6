package repository

import (
	"context"

	"gorm.io/gorm"

	"sweetshop/internal/model"
)

// TransactionRepository defines ledger persistence operations. The ledger is
// append-only; there are deliberately no update or delete methods.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *model.Transaction) error
	List(ctx context.Context) ([]model.Transaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create appends a ledger entry.
func (r *transactionRepository) Create(ctx context.Context, transaction *model.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

// List returns all ledger entries, newest first.
func (r *transactionRepository) List(ctx context.Context) ([]model.Transaction, error) {
	var transactions []model.Transaction
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}
