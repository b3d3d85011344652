package repository

import (
	"github.com/registreqc/registreqc-backend/internal/app/model"
	"gorm.io/gorm"
)

type ClaimRepository interface {
	Create(claim *model.Claim) error
	Update(claim *model.Claim) error
	FindByID(id uint) (*model.Claim, error)
	FindPendingByBusinessAndUser(businessID, userID uint) (*model.Claim, error)
	ListByUser(userID uint) ([]model.Claim, error)
	ListByStatus(status string) ([]model.Claim, error)

	// ReassignBusiness repoints claims from duplicate listings to the kept
	// one before the duplicates are deleted.
	ReassignBusiness(fromIDs []uint, toID uint) error
}

type claimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Create(claim *model.Claim) error {
	return r.db.Create(claim).Error
}

func (r *claimRepository) Update(claim *model.Claim) error {
	return r.db.Save(claim).Error
}

func (r *claimRepository) FindByID(id uint) (*model.Claim, error) {
	var claim model.Claim
	if err := r.db.Preload("Business").Preload("User").First(&claim, id).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) FindPendingByBusinessAndUser(businessID, userID uint) (*model.Claim, error) {
	var claim model.Claim
	err := r.db.
		Where("business_id = ? AND user_id = ? AND status = ?", businessID, userID, model.ClaimStatusPending).
		First(&claim).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) ListByUser(userID uint) ([]model.Claim, error) {
	var claims []model.Claim
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *claimRepository) ListByStatus(status string) ([]model.Claim, error) {
	var claims []model.Claim
	query := r.db.Preload("Business").Preload("User").Order("created_at ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *claimRepository) ReassignBusiness(fromIDs []uint, toID uint) error {
	if len(fromIDs) == 0 {
		return nil
	}
	return r.db.Model(&model.Claim{}).
		Where("business_id IN ?", fromIDs).
		Update("business_id", toID).Error
}
