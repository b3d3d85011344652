package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registreqc/registreqc-backend/internal/app/service"
	apperrors "github.com/registreqc/registreqc-backend/internal/errors"
	"github.com/registreqc/registreqc-backend/internal/middleware"
)

type ClaimController struct {
	claimService service.ClaimService
}

func NewClaimController(claimService service.ClaimService) *ClaimController {
	return &ClaimController{claimService: claimService}
}

type CreateClaimRequest struct {
	BusinessID uint   `json:"business_id" binding:"required"`
	Method     string `json:"method" binding:"required"`
	ProofURL   string `json:"proof_url"`
	Notes      string `json:"notes"`
}

// Create files a claim on a listing
// POST /api/v1/claims
func (ctrl *ClaimController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations fournies sont invalides")
		return
	}

	claim, err := ctrl.claimService.CreateClaim(userID, service.ClaimInput{
		BusinessID: req.BusinessID,
		Method:     req.Method,
		ProofURL:   req.ProofURL,
		Notes:      req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClaimInvalidMethod):
			apperrors.BadRequest(c, apperrors.ClaimInvalidMethod, "Méthode de vérification invalide")
		case errors.Is(err, service.ErrBusinessClaimed):
			apperrors.Conflict(c, apperrors.BusinessAlreadyClaimed, "Cette fiche a déjà un propriétaire")
		case errors.Is(err, service.ErrClaimAlreadyPending):
			apperrors.Conflict(c, apperrors.ClaimAlreadyPending, "Une réclamation est déjà en cours pour cette fiche")
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Entreprise introuvable")
		default:
			log.Error("Claim creation failed", err, map[string]interface{}{
				"user_id":     userID,
				"business_id": req.BusinessID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create claim")
		}
		return
	}

	log.Info("Claim filed", map[string]interface{}{
		"claim_id":    claim.ID,
		"business_id": claim.BusinessID,
		"user_id":     userID,
	})

	c.JSON(http.StatusCreated, gin.H{"claim": claim})
}

// ListMine returns the authenticated user's claims
// GET /api/v1/claims/me
func (ctrl *ClaimController) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	claims, err := ctrl.claimService.ListMine(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list claims")
		return
	}

	c.JSON(http.StatusOK, gin.H{"claims": claims})
}
