package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sweetshop/internal/model"
)

// SweetFilter holds the optional, conjunctive search filters for sweets.
type SweetFilter struct {
	Name     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// SweetRepository defines sweet persistence operations.
type SweetRepository interface {
	Create(ctx context.Context, sweet *model.Sweet) error
	FindByID(ctx context.Context, id uint) (*model.Sweet, error)
	List(ctx context.Context) ([]model.Sweet, error)
	Search(ctx context.Context, filter SweetFilter) ([]model.Sweet, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	Categories(ctx context.Context) ([]string, error)
	AdjustQuantity(ctx context.Context, id uint, delta int) (int64, error)
}

type sweetRepository struct {
	db *gorm.DB
}

// NewSweetRepository creates a new sweet repository.
func NewSweetRepository(db *gorm.DB) SweetRepository {
	return &sweetRepository{db: db}
}

// Create inserts a new sweet.
func (r *sweetRepository) Create(ctx context.Context, sweet *model.Sweet) error {
	return r.db.WithContext(ctx).Create(sweet).Error
}

// FindByID finds a sweet by ID.
func (r *sweetRepository) FindByID(ctx context.Context, id uint) (*model.Sweet, error) {
	var sweet model.Sweet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&sweet).Error; err != nil {
		return nil, err
	}
	return &sweet, nil
}

// List returns all sweets ordered by name ascending.
func (r *sweetRepository) List(ctx context.Context) ([]model.Sweet, error) {
	var sweets []model.Sweet
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&sweets).Error; err != nil {
		return nil, err
	}
	return sweets, nil
}

// Search returns sweets matching every supplied filter, ordered by name.
// Name is a case-insensitive substring match, category an exact match and the
// price bounds are inclusive. With no filters it is equivalent to List.
func (r *sweetRepository) Search(ctx context.Context, filter SweetFilter) ([]model.Sweet, error) {
	q := r.db.WithContext(ctx).Model(&model.Sweet{})

	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", filter.MaxPrice)
	}

	var sweets []model.Sweet
	if err := q.Order("name ASC").Find(&sweets).Error; err != nil {
		return nil, err
	}
	return sweets, nil
}

// UpdateFields applies a partial column update and reports rows affected.
func (r *sweetRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Sweet{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

// Delete removes a sweet and reports rows affected.
func (r *sweetRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Sweet{})
	return res.RowsAffected, res.Error
}

// Categories returns the distinct category values in ascending order.
func (r *sweetRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&model.Sweet{}).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// AdjustQuantity applies a conditional stock adjustment. The WHERE clause
// carries the non-negativity invariant, so a decrement that would oversell
// matches zero rows and writes nothing. This is the only quantity mutation in
// the codebase.
func (r *sweetRepository) AdjustQuantity(ctx context.Context, id uint, delta int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Sweet{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected, res.Error
}
