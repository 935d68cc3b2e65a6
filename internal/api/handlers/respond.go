package handlers

import (
	"errors"
	"net/http"

	"github.com/DavidAcosta7/local-commerce-platform/internal/services"
	"github.com/DavidAcosta7/local-commerce-platform/internal/utils"
	"github.com/gin-gonic/gin"
)

// sendServiceError maps the service failure taxonomy onto HTTP status codes.
func sendServiceError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.SendError(c, http.StatusBadRequest, message, err)
	case errors.Is(err, services.ErrUnauthorized):
		utils.SendError(c, http.StatusForbidden, message, err)
	case errors.Is(err, services.ErrNotFound):
		utils.SendError(c, http.StatusNotFound, message, err)
	case errors.Is(err, services.ErrStateConflict):
		utils.SendError(c, http.StatusConflict, message, err)
	default:
		utils.SendInternalError(c, message, err)
	}
}
