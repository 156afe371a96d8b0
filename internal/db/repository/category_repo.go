package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// CategoryRepository reads the fixed category set.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns every category ordered by id.
func (r *CategoryRepository) List(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetByID returns ErrNotFound when no category has the id.
func (r *CategoryRepository) GetByID(ctx context.Context, id int) (Category, error) {
	var category Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Category{}, ErrNotFound
		}
		return Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return category, nil
}
