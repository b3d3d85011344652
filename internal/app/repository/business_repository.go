package repository

import (
	"time"

	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/pkg/logger"
	"gorm.io/gorm"
)

// BusinessFilter narrows public listing queries.
type BusinessFilter struct {
	Region     string
	City       string
	CategoryID *uint
	Search     string
	Status     model.BusinessStatus
	Page       int
	PageSize   int
}

// BusinessListResult is one page of listings plus the total count.
type BusinessListResult struct {
	Businesses []model.Business
	Total      int64
	Page       int
	PageSize   int
}

// BusinessRow is the projection the cleanup passes page through: just enough
// columns to run the transforms without dragging whole rows over the wire.
type BusinessRow struct {
	ID         uint
	NEQ        *string
	Name       string
	Slug       string
	RawCode    *string
	CategoryID *uint
	CreatedAt  time.Time
}

type BusinessRepository interface {
	Create(business *model.Business) error
	Update(business *model.Business) error
	UpdateFields(id uint, fields map[string]interface{}) error
	Delete(id uint) error
	FindByID(id uint) (*model.Business, error)
	FindBySlug(slug string) (*model.Business, error)
	FindAll(filter BusinessFilter) (*BusinessListResult, error)
	SlugExists(slug string) (bool, error)

	// Batch surface used by the cleanup scripts.
	PageRows(offset, limit int) ([]BusinessRow, error)
	PageRowsMissingSlug(offset, limit int) ([]BusinessRow, error)
	AllRowsWithNEQ() ([]BusinessRow, error)
	BulkSetCategory(ids []uint, categoryID *uint) error
	BulkHardDelete(ids []uint) error
	UpdateSlug(id uint, slug string) error
	BulkCreate(businesses []model.Business, batchSize int) error

	// Enrichment surface.
	PageRowsMissingDescription(offset, limit int) ([]model.Business, error)
	PageRowsMissingPlace(offset, limit int) ([]model.Business, error)

	CountByStatus(status model.BusinessStatus) (int64, error)
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(business *model.Business) error {
	logger.Debug("Creating business in database", map[string]interface{}{
		"name": business.Name,
		"neq":  business.NEQ,
	})

	if err := r.db.Create(business).Error; err != nil {
		logger.Error("Failed to create business in database", err, map[string]interface{}{
			"name": business.Name,
		})
		return err
	}
	return nil
}

func (r *businessRepository) Update(business *model.Business) error {
	if err := r.db.Save(business).Error; err != nil {
		logger.Error("Failed to update business in database", err, map[string]interface{}{
			"business_id": business.ID,
		})
		return err
	}
	return nil
}

// UpdateFields updates a subset of columns, nil values included.
func (r *businessRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&model.Business{}).Where("id = ?", id).Updates(fields).Error
}

func (r *businessRepository) Delete(id uint) error {
	return r.db.Delete(&model.Business{}, id).Error
}

func (r *businessRepository) FindByID(id uint) (*model.Business, error) {
	var business model.Business
	if err := r.db.Preload("Category").First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindBySlug(slug string) (*model.Business, error) {
	var business model.Business
	if err := r.db.Preload("Category").Where("slug = ?", slug).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindAll(filter BusinessFilter) (*BusinessListResult, error) {
	query := r.db.Model(&model.Business{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ?", like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count businesses", err)
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var businesses []model.Business
	if err := query.Preload("Category").
		Order("name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&businesses).Error; err != nil {
		logger.Error("Failed to find businesses", err)
		return nil, err
	}

	return &BusinessListResult{
		Businesses: businesses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (r *businessRepository) SlugExists(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Business{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// PageRows reads one id-ordered window of the table. Keyset windows keep each
// remote call within a bounded payload.
func (r *businessRepository) PageRows(offset, limit int) ([]BusinessRow, error) {
	var rows []BusinessRow
	if err := r.db.Model(&model.Business{}).
		Select("id, neq, name, slug, raw_code, category_id, created_at").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *businessRepository) PageRowsMissingSlug(offset, limit int) ([]BusinessRow, error) {
	var rows []BusinessRow
	if err := r.db.Model(&model.Business{}).
		Select("id, neq, name, slug, raw_code, category_id, created_at").
		Where("slug IS NULL OR slug = ''").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *businessRepository) AllRowsWithNEQ() ([]BusinessRow, error) {
	var rows []BusinessRow
	if err := r.db.Model(&model.Business{}).
		Select("id, neq, name, slug, raw_code, category_id, created_at").
		Where("neq IS NOT NULL AND neq != ''").
		Order("id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// BulkSetCategory assigns one category (or clears it) for a batch of ids.
func (r *businessRepository) BulkSetCategory(ids []uint, categoryID *uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&model.Business{}).
		Where("id IN ?", ids).
		Update("category_id", categoryID).Error
}

// BulkHardDelete removes duplicate rows for good; soft delete would keep the
// NEQ visible to the unique checks.
func (r *businessRepository) BulkHardDelete(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Unscoped().Delete(&model.Business{}, ids).Error
}

func (r *businessRepository) UpdateSlug(id uint, slug string) error {
	return r.db.Model(&model.Business{}).Where("id = ?", id).Update("slug", slug).Error
}

func (r *businessRepository) BulkCreate(businesses []model.Business, batchSize int) error {
	if len(businesses) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return r.db.CreateInBatches(businesses, batchSize).Error
}

func (r *businessRepository) PageRowsMissingDescription(offset, limit int) ([]model.Business, error) {
	var businesses []model.Business
	if err := r.db.
		Where("(description IS NULL OR description = '') AND status = ?", model.BusinessStatusApproved).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) PageRowsMissingPlace(offset, limit int) ([]model.Business, error) {
	var businesses []model.Business
	if err := r.db.
		Where("google_place_id IS NULL AND status = ?", model.BusinessStatusApproved).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) CountByStatus(status model.BusinessStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Business{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
