package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/registreqc/registreqc-backend/internal/app/service"
	apperrors "github.com/registreqc/registreqc-backend/internal/errors"
	"github.com/registreqc/registreqc-backend/internal/middleware"
)

type BusinessController struct {
	businessService service.BusinessService
	reviewService   service.ReviewService
}

func NewBusinessController(businessService service.BusinessService, reviewService service.ReviewService) *BusinessController {
	return &BusinessController{
		businessService: businessService,
		reviewService:   reviewService,
	}
}

type SubmitBusinessRequest struct {
	Name        string   `json:"name" binding:"required"`
	Street      string   `json:"street"`
	City        string   `json:"city" binding:"required"`
	Region      string   `json:"region"`
	PostalCode  string   `json:"postal_code"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Website     string   `json:"website"`
	Description string   `json:"description"`
	CategoryID  *uint    `json:"category_id"`
	Languages   []string `json:"languages"`
}

type UpdateBusinessRequest struct {
	Phone       *string  `json:"phone"`
	Email       *string  `json:"email"`
	Website     *string  `json:"website"`
	Description *string  `json:"description"`
	CategoryID  *uint    `json:"category_id"`
	Languages   []string `json:"languages"`
}

// List returns approved listings with filters and pagination
// GET /api/v1/businesses
func (ctrl *BusinessController) List(c *gin.Context) {
	opts := service.BusinessListOptions{
		Region: c.Query("region"),
		City:   c.Query("city"),
		Search: c.Query("q"),
	}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		categoryID, err := strconv.ParseUint(categoryIDStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Identifiant de catégorie invalide")
			return
		}
		id := uint(categoryID)
		opts.CategoryID = &id
	}

	opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	opts.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := ctrl.businessService.ListApproved(opts)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list businesses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": result.Businesses,
		"total":      result.Total,
		"page":       result.Page,
		"page_size":  result.PageSize,
	})
}

// GetBySlug returns one approved listing with its rating summary
// GET /api/v1/businesses/:slug
func (ctrl *BusinessController) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	business, err := ctrl.businessService.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Entreprise introuvable")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get business")
		return
	}

	average, count, err := ctrl.reviewService.RatingSummary(business.ID)
	if err != nil {
		log := middleware.GetLoggerFromContext(c)
		log.Warn("Failed to load rating summary", map[string]interface{}{
			"business_id": business.ID,
			"error":       err.Error(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"business": business,
		"reviews": gin.H{
			"average": average,
			"count":   count,
		},
	})
}

// Submit creates a pending listing from a user submission
// POST /api/v1/businesses
func (ctrl *BusinessController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req SubmitBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations fournies sont invalides")
		return
	}

	business, err := ctrl.businessService.Submit(userID, service.BusinessSubmission{
		Name:        req.Name,
		Street:      req.Street,
		City:        req.City,
		Region:      req.Region,
		PostalCode:  req.PostalCode,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Languages:   req.Languages,
	})
	if err != nil {
		log.Error("Business submission failed", err, map[string]interface{}{
			"user_id": userID,
			"name":    req.Name,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "submit business")
		return
	}

	log.Info("Business submitted", map[string]interface{}{
		"business_id": business.ID,
		"user_id":     userID,
	})

	c.JSON(http.StatusCreated, gin.H{"business": business})
}

// Update lets the owner of a claimed listing edit it
// PUT /api/v1/businesses/:id
func (ctrl *BusinessController) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	businessID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Identifiant invalide")
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations fournies sont invalides")
		return
	}

	business, err := ctrl.businessService.UpdateOwned(userID, businessID, service.BusinessMutation{
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Languages:   req.Languages,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Entreprise introuvable")
		case errors.Is(err, service.ErrBusinessNotOwned):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "Vous n'êtes pas propriétaire de cette fiche")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update business")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"business": business})
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
