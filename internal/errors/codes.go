package errors

// Error code constants, format CATEGORY_SPECIFIC_DETAIL. The frontend maps
// these codes to localized messages.

const (
	// ==================== Authentification (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // connexion requise
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // courriel/mot de passe invalide
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // jeton expiré
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // jeton invalide
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // courriel déjà utilisé

	// ==================== Autorisation (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"  // accès refusé
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY" // réservé aux modérateurs
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY" // réservé au propriétaire

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Ressources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Entreprises (BUSINESS_) ====================
	BusinessNotFound      = "BUSINESS_NOT_FOUND"       // fiche introuvable
	BusinessSlugExists    = "BUSINESS_SLUG_EXISTS"     // slug déjà utilisé
	BusinessNEQExists     = "BUSINESS_NEQ_EXISTS"      // NEQ déjà inscrit
	BusinessNotApproved   = "BUSINESS_NOT_APPROVED"    // fiche non publiée
	BusinessAlreadyClaimed = "BUSINESS_ALREADY_CLAIMED" // fiche déjà réclamée

	// ==================== Réclamations (CLAIM_) ====================
	ClaimNotFound        = "CLAIM_NOT_FOUND"
	ClaimAlreadyPending  = "CLAIM_ALREADY_PENDING"  // demande déjà en cours
	ClaimAlreadyReviewed = "CLAIM_ALREADY_REVIEWED" // demande déjà traitée
	ClaimInvalidMethod   = "CLAIM_INVALID_METHOD"

	// ==================== Avis (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewInvalidRating = "REVIEW_INVALID_RATING"
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"

	// ==================== Catégories (CATEGORY_) ====================
	CategoryNotFound = "CATEGORY_NOT_FOUND"

	// ==================== Téléversement (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Erreurs internes (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
