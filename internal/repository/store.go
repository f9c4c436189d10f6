package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories backed by a single GORM connection. Callers
// that must commit writes across repositories as one unit run them through
// WithTransaction, which re-binds every repository to the transaction handle.
type Store struct {
	db *gorm.DB

	Users        UserRepository
	Sweets       SweetRepository
	Transactions TransactionRepository
}

// NewStore creates a store over the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Users:        NewUserRepository(db),
		Sweets:       NewSweetRepository(db),
		Transactions: NewTransactionRepository(db),
	}
}

// WithTransaction executes fn within a database transaction. The store passed
// to fn is bound to that transaction; any error rolls everything back.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewStore(tx))
	})
}
