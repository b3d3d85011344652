package repository

import (
	"github.com/registreqc/registreqc-backend/internal/app/model"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	Update(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	ListByBusiness(businessID uint, approvedOnly bool) ([]model.Review, error)
	ListByStatus(status string) ([]model.Review, error)
	AverageRating(businessID uint) (float64, int64, error)

	// ReassignBusiness repoints reviews from duplicate listings to the kept
	// one before the duplicates are deleted.
	ReassignBusiness(fromIDs []uint, toID uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) Update(review *model.Review) error {
	return r.db.Save(review).Error
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByBusiness(businessID uint, approvedOnly bool) ([]model.Review, error) {
	query := r.db.Where("business_id = ?", businessID).Order("created_at DESC")
	if approvedOnly {
		query = query.Where("status = ?", model.ReviewStatusApproved)
	}

	var reviews []model.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ListByStatus(status string) ([]model.Review, error) {
	var reviews []model.Review
	query := r.db.Preload("Business").Order("created_at ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) AverageRating(businessID uint) (float64, int64, error) {
	type aggregate struct {
		Avg   float64
		Count int64
	}
	var agg aggregate
	err := r.db.Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("business_id = ? AND status = ?", businessID, model.ReviewStatusApproved).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, err
	}
	return agg.Avg, agg.Count, nil
}

func (r *reviewRepository) ReassignBusiness(fromIDs []uint, toID uint) error {
	if len(fromIDs) == 0 {
		return nil
	}
	return r.db.Model(&model.Review{}).
		Where("business_id IN ?", fromIDs).
		Update("business_id", toID).Error
}
