package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"sweetshop/internal/cache"
	"sweetshop/internal/errors"
	"sweetshop/internal/model"
	"sweetshop/internal/repository"
)

const (
	categoriesCacheKey = "sweets:categories"
	sweetCacheTTL      = time.Minute
	categoriesCacheTTL = 5 * time.Minute
)

func sweetCacheKey(id uint) string {
	return fmt.Sprintf("sweet:%d", id)
}

// CatalogService handles sweet listing, search and admin-gated persistence
// mutations. Stock quantities are out of its reach; those belong to the
// inventory service.
type CatalogService interface {
	List(ctx context.Context) ([]model.Sweet, error)
	Get(ctx context.Context, id uint) (*model.Sweet, error)
	Search(ctx context.Context, filter repository.SweetFilter) ([]model.Sweet, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, sweet *model.Sweet) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Sweet, error)
	Delete(ctx context.Context, id uint) error
}

type catalogService struct {
	sweetRepo repository.SweetRepository
	cache     *cache.Client
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(sweetRepo repository.SweetRepository, cache *cache.Client) CatalogService {
	return &catalogService{
		sweetRepo: sweetRepo,
		cache:     cache,
	}
}

// List returns all sweets ordered by name.
func (s *catalogService) List(ctx context.Context) ([]model.Sweet, error) {
	return s.sweetRepo.List(ctx)
}

// Get returns a single sweet, served from cache when possible.
func (s *catalogService) Get(ctx context.Context, id uint) (*model.Sweet, error) {
	if data, _ := s.cache.Get(ctx, sweetCacheKey(id)); data != nil {
		var sweet model.Sweet
		if err := json.Unmarshal(data, &sweet); err == nil {
			return &sweet, nil
		}
	}

	sweet, err := s.sweetRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrSweetNotFound
		}
		return nil, fmt.Errorf("load sweet: %w", err)
	}

	if data, err := json.Marshal(sweet); err == nil {
		_ = s.cache.Set(ctx, sweetCacheKey(id), data, sweetCacheTTL)
	}
	return sweet, nil
}

// Search returns sweets matching the filter; an empty filter equals List.
func (s *catalogService) Search(ctx context.Context, filter repository.SweetFilter) ([]model.Sweet, error) {
	return s.sweetRepo.Search(ctx, filter)
}

// Categories returns the distinct, trimmed, non-empty categories ascending.
func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	if data, _ := s.cache.Get(ctx, categoriesCacheKey); data != nil {
		var categories []string
		if err := json.Unmarshal(data, &categories); err == nil {
			return categories, nil
		}
	}

	raw, err := s.sweetRepo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	// trimming can merge values and disturb the database ordering
	seen := make(map[string]struct{}, len(raw))
	categories := make([]string, 0, len(raw))
	for _, c := range raw {
		trimmed := strings.TrimSpace(c)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		categories = append(categories, trimmed)
	}
	sort.Strings(categories)

	if data, err := json.Marshal(categories); err == nil {
		_ = s.cache.Set(ctx, categoriesCacheKey, data, categoriesCacheTTL)
	}
	return categories, nil
}

// Create inserts a new sweet.
func (s *catalogService) Create(ctx context.Context, sweet *model.Sweet) error {
	if err := s.sweetRepo.Create(ctx, sweet); err != nil {
		return fmt.Errorf("create sweet: %w", err)
	}
	_ = s.cache.Delete(ctx, categoriesCacheKey)
	return nil
}

// Update applies a partial field merge and returns the updated sweet.
func (s *catalogService) Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Sweet, error) {
	if len(fields) > 0 {
		rows, err := s.sweetRepo.UpdateFields(ctx, id, fields)
		if err != nil {
			return nil, fmt.Errorf("update sweet: %w", err)
		}
		if rows == 0 {
			return nil, errors.ErrSweetNotFound
		}
	}

	sweet, err := s.sweetRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrSweetNotFound
		}
		return nil, fmt.Errorf("reload sweet: %w", err)
	}

	_ = s.cache.Delete(ctx, sweetCacheKey(id))
	_ = s.cache.Delete(ctx, categoriesCacheKey)
	return sweet, nil
}

// Delete removes a sweet.
func (s *catalogService) Delete(ctx context.Context, id uint) error {
	rows, err := s.sweetRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	if rows == 0 {
		return errors.ErrSweetNotFound
	}
	_ = s.cache.Delete(ctx, sweetCacheKey(id))
	_ = s.cache.Delete(ctx, categoriesCacheKey)
	return nil
}
