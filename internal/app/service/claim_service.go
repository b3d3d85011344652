package service

import (
	"errors"
	"time"

	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/internal/app/repository"
	"github.com/registreqc/registreqc-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrClaimNotFound        = errors.New("réclamation introuvable")
	ErrClaimAlreadyPending  = errors.New("une réclamation est déjà en cours pour cette fiche")
	ErrClaimAlreadyReviewed = errors.New("cette réclamation a déjà été traitée")
	ErrClaimInvalidMethod   = errors.New("méthode de vérification invalide")
	ErrBusinessClaimed      = errors.New("cette fiche a déjà un propriétaire")
)

type ClaimInput struct {
	BusinessID uint
	Method     string
	ProofURL   string
	Notes      string
}

type ClaimService interface {
	CreateClaim(userID uint, input ClaimInput) (*model.Claim, error)
	ListMine(userID uint) ([]model.Claim, error)

	// Admin review surface.
	ListByStatus(status string) ([]model.Claim, error)
	Approve(adminID, claimID uint) (*model.Claim, error)
	Reject(adminID, claimID uint, reason string) (*model.Claim, error)
}

type claimService struct {
	claimRepo    repository.ClaimRepository
	businessRepo repository.BusinessRepository
	notifier     NotificationService
}

func NewClaimService(
	claimRepo repository.ClaimRepository,
	businessRepo repository.BusinessRepository,
	notifier NotificationService,
) ClaimService {
	return &claimService{
		claimRepo:    claimRepo,
		businessRepo: businessRepo,
		notifier:     notifier,
	}
}

func validClaimMethod(method string) bool {
	switch method {
	case model.ClaimMethodDocument, model.ClaimMethodPhone, model.ClaimMethodEmail:
		return true
	}
	return false
}

func (s *claimService) CreateClaim(userID uint, input ClaimInput) (*model.Claim, error) {
	if !validClaimMethod(input.Method) {
		return nil, ErrClaimInvalidMethod
	}

	business, err := s.businessRepo.FindByID(input.BusinessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	if business.IsClaimed {
		return nil, ErrBusinessClaimed
	}

	if _, err := s.claimRepo.FindPendingByBusinessAndUser(input.BusinessID, userID); err == nil {
		return nil, ErrClaimAlreadyPending
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	claim := &model.Claim{
		BusinessID: input.BusinessID,
		UserID:     userID,
		Method:     input.Method,
		ProofURL:   input.ProofURL,
		Notes:      input.Notes,
		Status:     model.ClaimStatusPending,
	}
	if err := s.claimRepo.Create(claim); err != nil {
		logger.Error("Failed to create claim", err, map[string]interface{}{
			"business_id": input.BusinessID,
			"user_id":     userID,
		})
		return nil, err
	}

	logger.Info("Claim submitted", map[string]interface{}{
		"claim_id":    claim.ID,
		"business_id": claim.BusinessID,
		"method":      claim.Method,
	})

	if s.notifier != nil {
		s.notifier.NotifyClaimSubmitted(claim)
	}
	return claim, nil
}

func (s *claimService) ListMine(userID uint) ([]model.Claim, error) {
	return s.claimRepo.ListByUser(userID)
}

func (s *claimService) ListByStatus(status string) ([]model.Claim, error) {
	return s.claimRepo.ListByStatus(status)
}

// Approve grants the claimant ownership of the listing.
func (s *claimService) Approve(adminID, claimID uint) (*model.Claim, error) {
	claim, err := s.getPending(claimID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	claim.Status = model.ClaimStatusApproved
	claim.ReviewedAt = &now
	claim.ReviewedBy = &adminID
	if err := s.claimRepo.Update(claim); err != nil {
		return nil, err
	}

	if err := s.businessRepo.UpdateFields(claim.BusinessID, map[string]interface{}{
		"is_claimed": true,
		"owner_id":   claim.UserID,
	}); err != nil {
		logger.Error("Failed to mark business as claimed", err, map[string]interface{}{
			"business_id": claim.BusinessID,
		})
		return nil, err
	}

	logger.Info("Claim approved", map[string]interface{}{
		"claim_id": claim.ID,
		"admin_id": adminID,
	})

	if s.notifier != nil {
		s.notifier.NotifyClaimReviewed(claim, true, "")
	}
	return claim, nil
}

func (s *claimService) Reject(adminID, claimID uint, reason string) (*model.Claim, error) {
	claim, err := s.getPending(claimID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	claim.Status = model.ClaimStatusRejected
	claim.ReviewedAt = &now
	claim.ReviewedBy = &adminID
	claim.RejectionReason = reason
	if err := s.claimRepo.Update(claim); err != nil {
		return nil, err
	}

	logger.Info("Claim rejected", map[string]interface{}{
		"claim_id": claim.ID,
		"admin_id": adminID,
	})

	if s.notifier != nil {
		s.notifier.NotifyClaimReviewed(claim, false, reason)
	}
	return claim, nil
}

func (s *claimService) getPending(claimID uint) (*model.Claim, error) {
	claim, err := s.claimRepo.FindByID(claimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	if claim.Status != model.ClaimStatusPending {
		return nil, ErrClaimAlreadyReviewed
	}
	return claim, nil
}
