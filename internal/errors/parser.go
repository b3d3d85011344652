package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a low-level error into a code and a user-facing
// message. Sensitive details stay out of the response.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Une erreur est survenue",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// PostgreSQL constraint violations.

	// Unique constraint (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// Foreign key constraint (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr)
	}

	// Not null constraint (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "Un champ obligatoire est manquant",
		}
	}

	// Network errors against external services.
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Le service externe est temporairement indisponible. Veuillez réessayer",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Une erreur est survenue. Veuillez réessayer plus tard",
	}
}

// ParseAndRespond parses err and writes the resulting error response.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

// IsDuplicateKey reports whether err is a uniqueness-constraint violation.
// The slug write path retries once when this happens.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "unique constraint") ||
		strings.Contains(errStr, "unique failed")
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "neq") {
		return ErrorInfo{
			Code:    BusinessNEQExists,
			Message: "Ce numéro d'entreprise est déjà inscrit au répertoire",
		}
	}
	if strings.Contains(errLower, "slug") {
		return ErrorInfo{
			Code:    BusinessSlugExists,
			Message: "Cet identifiant d'entreprise est déjà utilisé",
		}
	}
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "Ce courriel est déjà utilisé",
		}
	}
	if strings.Contains(errLower, "reviews") &&
		(strings.Contains(errLower, "user_id") || strings.Contains(errLower, "business_id")) {
		return ErrorInfo{
			Code:    ReviewAlreadyExists,
			Message: "Vous avez déjà laissé un avis sur cette entreprise",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Cette donnée existe déjà",
	}
}

func parseForeignKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Des données liées empêchent la suppression",
		}
	}
	if strings.Contains(errLower, "business_id") {
		return ErrorInfo{
			Code:    BusinessNotFound,
			Message: "Cette entreprise n'existe pas",
		}
	}
	if strings.Contains(errLower, "user_id") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Cet utilisateur n'existe pas",
		}
	}
	if strings.Contains(errLower, "category_id") {
		return ErrorInfo{
			Code:    CategoryNotFound,
			Message: "Cette catégorie n'existe pas",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "La donnée référencée est introuvable",
	}
}

func getNotFoundMessage(context string) string {
	switch {
	case strings.Contains(context, "business"), strings.Contains(context, "entreprise"):
		return "Entreprise introuvable"
	case strings.Contains(context, "claim"), strings.Contains(context, "réclamation"):
		return "Réclamation introuvable"
	case strings.Contains(context, "review"), strings.Contains(context, "avis"):
		return "Avis introuvable"
	case strings.Contains(context, "category"), strings.Contains(context, "catégorie"):
		return "Catégorie introuvable"
	case strings.Contains(context, "user"), strings.Contains(context, "utilisateur"):
		return "Utilisateur introuvable"
	default:
		return "Ressource introuvable"
	}
}
