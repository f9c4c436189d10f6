package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sweetshop/internal/cache"
	"sweetshop/internal/errors"
	"sweetshop/internal/model"
	"sweetshop/internal/repository"
)

// InventoryService is the only component that mutates sweet quantities. Every
// stock mutation commits together with its ledger entry in one database
// transaction; the conditional quantity update keeps stock non-negative under
// concurrent purchases without any application-level locking.
type InventoryService interface {
	Purchase(ctx context.Context, userID, sweetID uint, quantity int) (*model.Transaction, error)
	Restock(ctx context.Context, userID, sweetID uint, quantity int) (*model.Sweet, error)
	Transactions(ctx context.Context) ([]model.Transaction, error)
}

type inventoryService struct {
	store *repository.Store
	cache *cache.Client
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(store *repository.Store, cache *cache.Client) InventoryService {
	return &inventoryService{store: store, cache: cache}
}

// Purchase decrements stock and records a purchase ledger entry atomically.
// The total price is the sweet's price times the quantity, rounded to two
// decimal places.
func (s *inventoryService) Purchase(ctx context.Context, userID, sweetID uint, quantity int) (*model.Transaction, error) {
	if quantity <= 0 {
		return nil, errors.ErrInvalidQuantity
	}

	var transaction *model.Transaction
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		sweet, err := tx.Sweets.FindByID(ctx, sweetID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrSweetNotFound
			}
			return fmt.Errorf("load sweet: %w", err)
		}

		rows, err := tx.Sweets.AdjustQuantity(ctx, sweetID, -quantity)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if rows == 0 {
			return errors.ErrInsufficientStock
		}

		transaction = &model.Transaction{
			UserID:     userID,
			SweetID:    sweetID,
			Quantity:   quantity,
			TotalPrice: sweet.Price.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
			Type:       model.TransactionPurchase,
		}
		if err := tx.Transactions.Create(ctx, transaction); err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, sweetCacheKey(sweetID))
	return transaction, nil
}

// Restock increments stock and records a restock ledger entry atomically.
// Restocks carry no monetary value, so the ledger entry's total price is zero.
func (s *inventoryService) Restock(ctx context.Context, userID, sweetID uint, quantity int) (*model.Sweet, error) {
	if quantity <= 0 {
		return nil, errors.ErrInvalidQuantity
	}

	var sweet *model.Sweet
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		rows, err := tx.Sweets.AdjustQuantity(ctx, sweetID, quantity)
		if err != nil {
			return fmt.Errorf("increment stock: %w", err)
		}
		if rows == 0 {
			return errors.ErrSweetNotFound
		}

		transaction := &model.Transaction{
			UserID:     userID,
			SweetID:    sweetID,
			Quantity:   quantity,
			TotalPrice: decimal.Zero,
			Type:       model.TransactionRestock,
		}
		if err := tx.Transactions.Create(ctx, transaction); err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}

		sweet, err = tx.Sweets.FindByID(ctx, sweetID)
		if err != nil {
			return fmt.Errorf("reload sweet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, sweetCacheKey(sweetID))
	return sweet, nil
}

// Transactions returns the full ledger, newest first.
func (s *inventoryService) Transactions(ctx context.Context) ([]model.Transaction, error) {
	return s.store.Transactions.List(ctx)
}
