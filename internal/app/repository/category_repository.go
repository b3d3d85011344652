package repository

import (
	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindAll() ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	FindDefault() (*model.Category, error)

	// Mapping table surface for the category resolver.
	AllMappings() (map[string]uint, error)
	FindMapping(code string) (*model.CodeMapping, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Preload("SubCategories").Order("label_fr ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.Preload("SubCategories").First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Preload("SubCategories").Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindDefault returns the « Autres » bucket used by the resolver fallback.
func (r *categoryRepository) FindDefault() (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("is_default = ?", true).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// AllMappings loads the full code → category table for one resolver run.
func (r *categoryRepository) AllMappings() (map[string]uint, error) {
	var mappings []model.CodeMapping
	if err := r.db.Find(&mappings).Error; err != nil {
		logger.Error("Failed to load code mappings", err)
		return nil, err
	}

	table := make(map[string]uint, len(mappings))
	for _, m := range mappings {
		table[m.Code] = m.CategoryID
	}
	return table, nil
}

func (r *categoryRepository) FindMapping(code string) (*model.CodeMapping, error) {
	var mapping model.CodeMapping
	if err := r.db.Where("code = ?", code).First(&mapping).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}
