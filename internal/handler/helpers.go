package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"plan-intervention-api/internal/application"
	"plan-intervention-api/internal/domain/model"
	"plan-intervention-api/internal/domain/service"
)

// tenantID identifiant du service d'incendie, posé par la couche
// d'authentification en amont (hors de ce dépôt). À défaut: en-tête direct.
func tenantID(c *gin.Context) string {
	if t := c.GetHeader("X-Tenant-ID"); t != "" {
		return t
	}
	return "demo"
}

// repondErreur mappe les erreurs du domaine vers un statut HTTP, dans le
// format d'erreur commun {error, message}
func repondErreur(c *gin.Context, err error) {
	switch {
	case model.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
	case errors.Is(err, model.ErrDuplicateID):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "duplicate_id",
			"message": err.Error(),
		})
	case errors.Is(err, model.ErrIntrouvable), errors.Is(err, application.ErrSessionIntrouvable):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrSauvegardeEnCours):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "save_in_progress",
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrSessionFermee):
		c.JSON(http.StatusGone, gin.H{
			"error":   "session_closed",
			"message": err.Error(),
		})
	case errors.Is(err, application.ErrApercusNonConfigures):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "previews_unavailable",
			"message": err.Error(),
		})
	case isNetworkError(err):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "gateway_error",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}

func isNetworkError(err error) bool {
	var ne *model.NetworkError
	return errors.As(err, &ne)
}
