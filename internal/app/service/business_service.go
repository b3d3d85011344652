package service

import (
	stderrors "errors"
	"fmt"

	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/internal/app/repository"
	apperrors "github.com/registreqc/registreqc-backend/internal/errors"
	"github.com/registreqc/registreqc-backend/internal/pipeline"
	"github.com/registreqc/registreqc-backend/pkg/logger"
	"github.com/registreqc/registreqc-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrBusinessNotFound   = stderrors.New("entreprise introuvable")
	ErrBusinessNotOwned   = stderrors.New("vous n'êtes pas propriétaire de cette fiche")
	ErrBusinessNotPending = stderrors.New("cette fiche n'est pas en attente de modération")
)

type BusinessListOptions struct {
	Region     string
	City       string
	CategoryID *uint
	Search     string
	Page       int
	PageSize   int
}

// BusinessSubmission is a user-submitted listing; it enters moderation with
// status pending.
type BusinessSubmission struct {
	Name        string
	Street      string
	City        string
	Region      string
	PostalCode  string
	Phone       string
	Email       string
	Website     string
	Description string
	CategoryID  *uint
	Languages   []string
}

// BusinessMutation carries an owner's partial edit of a claimed listing.
type BusinessMutation struct {
	Phone       *string
	Email       *string
	Website     *string
	Description *string
	CategoryID  *uint
	Languages   []string
}

type BusinessService interface {
	ListApproved(opts BusinessListOptions) (*repository.BusinessListResult, error)
	GetBySlug(slug string) (*model.Business, error)
	GetByID(id uint) (*model.Business, error)
	Submit(userID uint, input BusinessSubmission) (*model.Business, error)
	UpdateOwned(userID, businessID uint, input BusinessMutation) (*model.Business, error)

	// Moderation surface.
	ListPending() ([]model.Business, error)
	Approve(adminID, businessID uint) (*model.Business, error)
	Reject(adminID, businessID uint, reason string) (*model.Business, error)
	Stats() (map[string]int64, error)
}

type businessService struct {
	businessRepo repository.BusinessRepository
	notifier     NotificationService
}

func NewBusinessService(businessRepo repository.BusinessRepository, notifier NotificationService) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		notifier:     notifier,
	}
}

func (s *businessService) ListApproved(opts BusinessListOptions) (*repository.BusinessListResult, error) {
	return s.businessRepo.FindAll(repository.BusinessFilter{
		Region:     opts.Region,
		City:       opts.City,
		CategoryID: opts.CategoryID,
		Search:     opts.Search,
		Status:     model.BusinessStatusApproved,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
	})
}

func (s *businessService) GetBySlug(slug string) (*model.Business, error) {
	business, err := s.businessRepo.FindBySlug(slug)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

func (s *businessService) GetByID(id uint) (*model.Business, error) {
	business, err := s.businessRepo.FindByID(id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

// Submit creates a manually-added listing. It has no NEQ and no raw activity
// code; the category, if any, comes from the submitter.
func (s *businessService) Submit(userID uint, input BusinessSubmission) (*model.Business, error) {
	business := &model.Business{
		Name:        input.Name,
		Street:      input.Street,
		City:        input.City,
		Region:      input.Region,
		PostalCode:  input.PostalCode,
		Phone:       input.Phone,
		Email:       input.Email,
		Website:     input.Website,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Languages:   input.Languages,
		Status:      model.BusinessStatusPending,
		Source:      model.SourceManual,
	}

	if err := s.createWithSlug(business); err != nil {
		return nil, err
	}

	logger.Info("Business submitted for moderation", map[string]interface{}{
		"business_id": business.ID,
		"user_id":     userID,
	})
	return business, nil
}

// createWithSlug derives the slug from the display name and retries a
// uniqueness violation once with a random suffix.
func (s *businessService) createWithSlug(business *model.Business) error {
	base := pipeline.Slugify(business.Name, pipeline.DefaultSlugMaxLen)
	if base == "" {
		base = "entreprise"
	}

	business.Slug = &base
	err := s.businessRepo.Create(business)
	if err == nil {
		return nil
	}
	if !apperrors.IsDuplicateKey(err) {
		return err
	}

	retry := fmt.Sprintf("%s-%s", base, util.RandomSlugSuffix())
	business.Slug = &retry
	return s.businessRepo.Create(business)
}

func (s *businessService) UpdateOwned(userID, businessID uint, input BusinessMutation) (*model.Business, error) {
	business, err := s.GetByID(businessID)
	if err != nil {
		return nil, err
	}
	if business.OwnerID == nil || *business.OwnerID != userID {
		return nil, ErrBusinessNotOwned
	}

	if input.Phone != nil {
		business.Phone = *input.Phone
	}
	if input.Email != nil {
		business.Email = *input.Email
	}
	if input.Website != nil {
		business.Website = *input.Website
	}
	if input.Description != nil {
		business.Description = *input.Description
	}
	if input.CategoryID != nil {
		business.CategoryID = input.CategoryID
	}
	if input.Languages != nil {
		business.Languages = input.Languages
	}

	if err := s.businessRepo.Update(business); err != nil {
		return nil, err
	}
	return business, nil
}

func (s *businessService) ListPending() ([]model.Business, error) {
	result, err := s.businessRepo.FindAll(repository.BusinessFilter{
		Status:   model.BusinessStatusPending,
		PageSize: 100,
	})
	if err != nil {
		return nil, err
	}
	return result.Businesses, nil
}

func (s *businessService) Approve(adminID, businessID uint) (*model.Business, error) {
	return s.moderate(adminID, businessID, model.BusinessStatusApproved, "")
}

func (s *businessService) Reject(adminID, businessID uint, reason string) (*model.Business, error) {
	return s.moderate(adminID, businessID, model.BusinessStatusRejected, reason)
}

func (s *businessService) moderate(adminID, businessID uint, status model.BusinessStatus, reason string) (*model.Business, error) {
	business, err := s.GetByID(businessID)
	if err != nil {
		return nil, err
	}
	if business.Status != model.BusinessStatusPending {
		return nil, ErrBusinessNotPending
	}

	business.Status = status
	if err := s.businessRepo.Update(business); err != nil {
		return nil, err
	}

	logger.Info("Business moderated", map[string]interface{}{
		"business_id": business.ID,
		"admin_id":    adminID,
		"status":      status,
	})

	if s.notifier != nil && business.OwnerID != nil {
		s.notifier.NotifyBusinessModerated(business, status, reason)
	}
	return business, nil
}

func (s *businessService) Stats() (map[string]int64, error) {
	stats := make(map[string]int64)
	for _, status := range []model.BusinessStatus{
		model.BusinessStatusPending,
		model.BusinessStatusApproved,
		model.BusinessStatusRejected,
	} {
		count, err := s.businessRepo.CountByStatus(status)
		if err != nil {
			return nil, err
		}
		stats[string(status)] = count
	}
	return stats, nil
}
