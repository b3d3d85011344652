package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registreqc/registreqc-backend/internal/app/service"
	apperrors "github.com/registreqc/registreqc-backend/internal/errors"
	"github.com/registreqc/registreqc-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

type CreateReviewRequest struct {
	BusinessID uint   `json:"business_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
}

// Create posts a review on an approved listing
// POST /api/v1/reviews
func (ctrl *ReviewController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations fournies sont invalides")
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, service.ReviewInput{
		BusinessID: req.BusinessID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewInvalidRating):
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "La note doit être entre 1 et 5")
		case errors.Is(err, service.ErrReviewExists):
			apperrors.Conflict(c, apperrors.ReviewAlreadyExists, "Vous avez déjà laissé un avis sur cette entreprise")
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Entreprise introuvable")
		default:
			log.Error("Review creation failed", err, map[string]interface{}{
				"user_id":     userID,
				"business_id": req.BusinessID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create review")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// ListForBusiness returns the approved reviews of a listing
// GET /api/v1/businesses/:id/reviews
func (ctrl *ReviewController) ListForBusiness(c *gin.Context) {
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Identifiant invalide")
		return
	}

	reviews, err := ctrl.reviewService.ListForBusiness(businessID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reviews")
		return
	}

	average, count, _ := ctrl.reviewService.RatingSummary(businessID)

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"average": average,
		"count":   count,
	})
}
