package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/internal/app/service"
	apperrors "github.com/registreqc/registreqc-backend/internal/errors"
	"github.com/registreqc/registreqc-backend/internal/middleware"
)

// AdminController regroupe la surface de modération du tableau de bord:
// fiches en attente, réclamations et avis.
type AdminController struct {
	businessService service.BusinessService
	claimService    service.ClaimService
	reviewService   service.ReviewService
}

func NewAdminController(
	businessService service.BusinessService,
	claimService service.ClaimService,
	reviewService service.ReviewService,
) *AdminController {
	return &AdminController{
		businessService: businessService,
		claimService:    claimService,
		reviewService:   reviewService,
	}
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type ModerateReviewRequest struct {
	Status string `json:"status" binding:"required"`
}

// Stats returns listing counts per moderation status
// GET /api/v1/admin/stats
func (ctrl *AdminController) Stats(c *gin.Context) {
	stats, err := ctrl.businessService.Stats()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "admin stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"businesses": stats})
}

// ListPendingBusinesses returns listings awaiting moderation
// GET /api/v1/admin/businesses/pending
func (ctrl *AdminController) ListPendingBusinesses(c *gin.Context) {
	businesses, err := ctrl.businessService.ListPending()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list pending businesses")
		return
	}

	c.JSON(http.StatusOK, gin.H{"businesses": businesses})
}

// ApproveBusiness publishes a pending listing
// POST /api/v1/admin/businesses/:id/approve
func (ctrl *AdminController) ApproveBusiness(c *gin.Context) {
	ctrl.moderateBusiness(c, true)
}

// RejectBusiness rejects a pending listing
// POST /api/v1/admin/businesses/:id/reject
func (ctrl *AdminController) RejectBusiness(c *gin.Context) {
	ctrl.moderateBusiness(c, false)
}

func (ctrl *AdminController) moderateBusiness(c *gin.Context, approve bool) {
	log := middleware.GetLoggerFromContext(c)

	adminID, _ := middleware.GetUserID(c)
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Identifiant invalide")
		return
	}

	var business *model.Business
	if approve {
		business, err = ctrl.businessService.Approve(adminID, businessID)
	} else {
		var req RejectRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil && bindErr.Error() != "EOF" {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations fournies sont invalides")
			return
		}
		business, err = ctrl.businessService.Reject(adminID, businessID, req.Reason)
	}

	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Entreprise introuvable")
		case errors.Is(err, service.ErrBusinessNotPending):
			apperrors.Conflict(c, apperrors.ResourceConflict, "Cette fiche n'est pas en attente de modération")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "moderate business")
		}
		return
	}

	log.Info("Business moderated", map[string]interface{}{
		"business_id": business.ID,
		"status":      business.Status,
		"admin_id":    adminID,
	})

	c.JSON(http.StatusOK, gin.H{"business": business})
}

// ListClaims returns claims in the requested status (default pending)
// GET /api/v1/admin/claims
func (ctrl *AdminController) ListClaims(c *gin.Context) {
	status := c.DefaultQuery("status", model.ClaimStatusPending)

	claims, err := ctrl.claimService.ListByStatus(status)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list claims")
		return
	}

	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

// ApproveClaim approves a claim and hands the listing to its owner
// POST /api/v1/admin/claims/:id/approve
func (ctrl *AdminController) ApproveClaim(c *gin.Context) {
	ctrl.reviewClaim(c, true)
}

// RejectClaim rejects a claim
// POST /api/v1/admin/claims/:id/reject
func (ctrl *AdminController) RejectClaim(c *gin.Context) {
	ctrl.reviewClaim(c, false)
}

func (ctrl *AdminController) reviewClaim(c *gin.Context, approve bool) {
	log := middleware.GetLoggerFromContext(c)

	adminID, _ := middleware.GetUserID(c)
	claimID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Identifiant invalide")
		return
	}

	var claim *model.Claim
	if approve {
		claim, err = ctrl.claimService.Approve(adminID, claimID)
	} else {
		var req RejectRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil && bindErr.Error() != "EOF" {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations fournies sont invalides")
			return
		}
		claim, err = ctrl.claimService.Reject(adminID, claimID, req.Reason)
	}

	if err != nil {
		switch {
		case errors.Is(err, service.ErrClaimNotFound):
			apperrors.NotFound(c, apperrors.ClaimNotFound, "Réclamation introuvable")
		case errors.Is(err, service.ErrClaimAlreadyReviewed):
			apperrors.Conflict(c, apperrors.ClaimAlreadyReviewed, "Cette réclamation a déjà été traitée")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "review claim")
		}
		return
	}

	log.Info("Claim reviewed", map[string]interface{}{
		"claim_id": claim.ID,
		"status":   claim.Status,
		"admin_id": adminID,
	})

	c.JSON(http.StatusOK, gin.H{"claim": claim})
}

// ListReviews returns reviews in the requested status (default pending)
// GET /api/v1/admin/reviews
func (ctrl *AdminController) ListReviews(c *gin.Context) {
	status := c.DefaultQuery("status", model.ReviewStatusPending)

	reviews, err := ctrl.reviewService.ListByStatus(status)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// ModerateReview sets a review's status
// POST /api/v1/admin/reviews/:id/moderate
func (ctrl *AdminController) ModerateReview(c *gin.Context) {
	reviewID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Identifiant invalide")
		return
	}

	var req ModerateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations fournies sont invalides")
		return
	}

	review, err := ctrl.reviewService.Moderate(reviewID, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Avis introuvable")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "moderate review")
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}
