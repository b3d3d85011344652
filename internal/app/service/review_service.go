package service

import (
	"errors"

	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/internal/app/repository"
	apperrors "github.com/registreqc/registreqc-backend/internal/errors"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("avis introuvable")
	ErrReviewInvalidRating = errors.New("la note doit être entre 1 et 5")
	ErrReviewExists        = errors.New("vous avez déjà laissé un avis sur cette entreprise")
)

type ReviewInput struct {
	BusinessID uint
	Rating     int
	Comment    string
}

type ReviewService interface {
	CreateReview(userID uint, input ReviewInput) (*model.Review, error)
	ListForBusiness(businessID uint) ([]model.Review, error)
	RatingSummary(businessID uint) (float64, int64, error)

	// Moderation surface.
	ListByStatus(status string) ([]model.Review, error)
	Moderate(reviewID uint, status string) (*model.Review, error)
}

type reviewService struct {
	reviewRepo   repository.ReviewRepository
	businessRepo repository.BusinessRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, businessRepo repository.BusinessRepository) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		businessRepo: businessRepo,
	}
}

func (s *reviewService) CreateReview(userID uint, input ReviewInput) (*model.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrReviewInvalidRating
	}

	if _, err := s.businessRepo.FindByID(input.BusinessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	review := &model.Review{
		BusinessID: input.BusinessID,
		UserID:     userID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		Status:     model.ReviewStatusPending,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrReviewExists
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListForBusiness(businessID uint) ([]model.Review, error) {
	return s.reviewRepo.ListByBusiness(businessID, true)
}

func (s *reviewService) RatingSummary(businessID uint) (float64, int64, error) {
	return s.reviewRepo.AverageRating(businessID)
}

func (s *reviewService) ListByStatus(status string) ([]model.Review, error) {
	return s.reviewRepo.ListByStatus(status)
}

func (s *reviewService) Moderate(reviewID uint, status string) (*model.Review, error) {
	if status != model.ReviewStatusApproved && status != model.ReviewStatusRejected {
		return nil, errors.New("statut de modération invalide")
	}

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	review.Status = status
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}
